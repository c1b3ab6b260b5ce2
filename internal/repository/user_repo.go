package repository

import (
	"mizan/internal/models"

	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) WithTx(tx *gorm.DB) *UserRepository {
	return &UserRepository{db: tx}
}

func (r *UserRepository) Create(u *models.User) error {
	return conflictOn("user", r.db.Create(u).Error)
}

func (r *UserRepository) GetByID(id uint) (*models.User, error) {
	var u models.User
	err := r.db.First(&u, id).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByUsername(username string) (*models.User, error) {
	var u models.User
	err := r.db.Where("username = ?", username).First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) ExistsByUsername(username string) (bool, error) {
	var n int64
	err := r.db.Model(&models.User{}).Where("username = ?", username).Count(&n).Error
	return n > 0, err
}

func (r *UserRepository) ExistsByEmail(email string) (bool, error) {
	var n int64
	err := r.db.Model(&models.User{}).Where("email = ?", email).Count(&n).Error
	return n > 0, err
}

func (r *UserRepository) Exists(id uint) (bool, error) {
	var n int64
	err := r.db.Model(&models.User{}).Where("id = ?", id).Count(&n).Error
	return n > 0, err
}
