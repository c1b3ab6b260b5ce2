package repository

import (
	"mizan/internal/models"

	"gorm.io/gorm"
)

// CheckedAction is the slice of an action the aggregation needs.
type CheckedAction struct {
	ActionID uint
	Type     string
	Weight   int
}

type DailyActionRepository struct {
	db *gorm.DB
}

func NewDailyActionRepository(db *gorm.DB) *DailyActionRepository {
	return &DailyActionRepository{db: db}
}

func (r *DailyActionRepository) WithTx(tx *gorm.DB) *DailyActionRepository {
	return &DailyActionRepository{db: tx}
}

func (r *DailyActionRepository) Find(userID, actionID uint, date string) (*models.UserDailyAction, error) {
	var e models.UserDailyAction
	err := r.db.Where("user_id = ? AND action_id = ? AND action_date = ?", userID, actionID, date).First(&e).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Create inserts a ledger entry; a racing duplicate returns ErrConflict.
func (r *DailyActionRepository) Create(e *models.UserDailyAction) error {
	return conflictOn("ledger entry", r.db.Create(e).Error)
}

func (r *DailyActionRepository) Delete(id uint) error {
	return r.db.Delete(&models.UserDailyAction{}, id).Error
}

// ListChecked returns the user's checked actions for date, joined with the
// current catalog type and weight.
func (r *DailyActionRepository) ListChecked(userID uint, date string) ([]CheckedAction, error) {
	var rows []CheckedAction
	err := r.db.Table("user_daily_actions AS d").
		Select("d.action_id AS action_id, a.type AS type, a.weight AS weight").
		Joins("JOIN actions AS a ON a.id = d.action_id").
		Where("d.user_id = ? AND d.action_date = ? AND d.checked = ?", userID, date, true).
		Order("d.action_id ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *DailyActionRepository) CheckedActionIDs(userID uint, date string) (map[uint]bool, error) {
	var ids []uint
	err := r.db.Model(&models.UserDailyAction{}).
		Where("user_id = ? AND action_date = ? AND checked = ?", userID, date, true).
		Pluck("action_id", &ids).Error
	if err != nil {
		return nil, err
	}
	out := make(map[uint]bool, len(ids))
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}
