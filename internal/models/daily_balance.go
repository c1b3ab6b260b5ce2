package models

import "time"

// DailyBalance is the persisted snapshot for one user and date. It is always
// rebuildable from the user's ledger entries for that date.
type DailyBalance struct {
	ID          uint      `gorm:"primaryKey" json:"-"`
	UserID      uint      `gorm:"not null;uniqueIndex:idx_daily_balance_user_date,priority:1" json:"-"`
	BalanceDate string    `gorm:"size:10;not null;uniqueIndex:idx_daily_balance_user_date,priority:2" json:"date"`
	GoodCount   int       `gorm:"not null" json:"goodCount"`
	BadCount    int       `gorm:"not null" json:"badCount"`
	GoodWeight  int       `gorm:"not null" json:"goodWeight"`
	BadWeight   int       `gorm:"not null" json:"badWeight"`
	Verdict     string    `gorm:"size:8;not null" json:"verdict"` // POSITIVE | NEGATIVE | NEUTRAL
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"-"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (DailyBalance) TableName() string {
	return "daily_balances"
}
