package repository

import (
	"mizan/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BalanceRepository struct {
	db *gorm.DB
}

func NewBalanceRepository(db *gorm.DB) *BalanceRepository {
	return &BalanceRepository{db: db}
}

func (r *BalanceRepository) WithTx(tx *gorm.DB) *BalanceRepository {
	return &BalanceRepository{db: tx}
}

// Upsert writes the snapshot for (UserID, BalanceDate), replacing the stored
// counts and verdict when one exists.
func (r *BalanceRepository) Upsert(b *models.DailyBalance) error {
	err := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "balance_date"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"good_count", "bad_count", "good_weight", "bad_weight", "verdict", "updated_at",
		}),
	}).Create(b).Error
	return conflictOn("daily balance", err)
}

// ListRange returns snapshots with start <= date <= end, newest first.
func (r *BalanceRepository) ListRange(userID uint, start, end string) ([]models.DailyBalance, error) {
	list := []models.DailyBalance{}
	err := r.db.Where("user_id = ? AND balance_date BETWEEN ? AND ?", userID, start, end).
		Order("balance_date DESC").
		Find(&list).Error
	return list, err
}

func (r *BalanceRepository) ListRecent(userID uint, limit int) ([]models.DailyBalance, error) {
	list := []models.DailyBalance{}
	err := r.db.Where("user_id = ?", userID).
		Order("balance_date DESC").
		Limit(limit).
		Find(&list).Error
	return list, err
}
