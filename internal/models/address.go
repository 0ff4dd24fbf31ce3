package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Address struct {
	ID     string `gorm:"primaryKey;size:36" json:"id"`
	UserID string `gorm:"size:36;not null;index" json:"userId"`

	Title    string `gorm:"size:50;default:'Ev'" json:"title"`
	Address  string `gorm:"size:500;not null" json:"address"`
	City     string `gorm:"size:100" json:"city"`
	District string `gorm:"size:100" json:"district"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (a *Address) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
