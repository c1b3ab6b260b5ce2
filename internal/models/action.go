package models

import (
	"mizan/internal/domain"
)

// Action is a catalog entry. The balance core only reads Type and Weight.
type Action struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	NameAr   string `gorm:"size:255;not null" json:"nameAr"`
	NameFr   string `gorm:"size:255;not null" json:"nameFr"`
	NameEn   string `gorm:"size:255;not null" json:"nameEn"`
	Type     string `gorm:"size:8;not null;index" json:"type"` // GOOD | BAD
	Weight   int    `gorm:"not null" json:"weight"`
	Category string `gorm:"size:64;index" json:"category"`
	Icon     string `gorm:"size:64" json:"icon"`
	Active   bool   `gorm:"not null;index" json:"-"`
}

func (Action) TableName() string {
	return "actions"
}

func (a *Action) IsGood() bool { return a.Type == domain.ActionGood }
