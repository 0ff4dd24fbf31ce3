package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID string `gorm:"primaryKey;size:36" json:"id"`

	Phone    string `gorm:"size:20;uniqueIndex;not null" json:"phone"`
	Password string `gorm:"size:255;not null" json:"-"`
	Name     string `gorm:"size:100" json:"name"`
	Address  string `gorm:"size:255" json:"address"`
	Role     string `gorm:"size:20;default:'user'" json:"role"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}
