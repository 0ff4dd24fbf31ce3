package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Category struct {
	ID string `gorm:"primaryKey;size:36" json:"id"`

	Name  string `gorm:"size:100;not null" json:"name"`
	Image string `gorm:"size:500" json:"image"`
	Icon  string `gorm:"size:500" json:"icon"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
