package repository

import (
	"mizan/internal/models"

	"gorm.io/gorm"
)

type ActionRepository struct {
	db *gorm.DB
}

func NewActionRepository(db *gorm.DB) *ActionRepository {
	return &ActionRepository{db: db}
}

func (r *ActionRepository) WithTx(tx *gorm.DB) *ActionRepository {
	return &ActionRepository{db: tx}
}

// GetByID returns an action whatever its active flag.
func (r *ActionRepository) GetByID(id uint) (*models.Action, error) {
	var a models.Action
	err := r.db.First(&a, id).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *ActionRepository) ListActive() ([]models.Action, error) {
	var list []models.Action
	err := r.db.Where("active = ?", true).Order("id ASC").Find(&list).Error
	return list, err
}

func (r *ActionRepository) ListActiveByType(actionType string) ([]models.Action, error) {
	var list []models.Action
	err := r.db.Where("active = ? AND type = ?", true, actionType).Order("id ASC").Find(&list).Error
	return list, err
}

// SetActive flips an action's visibility; an unknown id is gorm.ErrRecordNotFound.
func (r *ActionRepository) SetActive(id uint, active bool) error {
	res := r.db.Model(&models.Action{}).Where("id = ?", id).Update("active", active)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
