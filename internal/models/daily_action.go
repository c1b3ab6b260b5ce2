package models

import "time"

// UserDailyAction is a ledger entry: the user marked the action done on ActionDate.
// Only checked entries are stored; unchecking deletes the row.
type UserDailyAction struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;uniqueIndex:idx_uda_user_action_date,priority:1;index:idx_uda_user_date,priority:1" json:"userId"`
	ActionID   uint      `gorm:"not null;uniqueIndex:idx_uda_user_action_date,priority:2" json:"actionId"`
	ActionDate string    `gorm:"size:10;not null;uniqueIndex:idx_uda_user_action_date,priority:3;index:idx_uda_user_date,priority:2" json:"actionDate"`
	Checked    bool      `gorm:"not null" json:"checked"`
	CreatedAt  time.Time `json:"createdAt"`

	User   User   `gorm:"foreignKey:UserID" json:"-"`
	Action Action `gorm:"foreignKey:ActionID" json:"-"`
}

func (UserDailyAction) TableName() string {
	return "user_daily_actions"
}
