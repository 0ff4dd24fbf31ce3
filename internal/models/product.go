package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	UnitPiece = "piece"
	UnitKg    = "kg"
)

type Product struct {
	ID string `gorm:"primaryKey;size:36" json:"id"`

	Name    string  `gorm:"size:150;not null" json:"name"`
	Barcode *string `gorm:"size:50;uniqueIndex" json:"barcode,omitempty"`

	// Category holds the denormalized category name, not a foreign key.
	Category string `gorm:"size:100;index" json:"category"`

	Price    float64 `gorm:"default:0" json:"price"`
	Stock    int     `gorm:"default:0" json:"stock"`
	UnitType string  `gorm:"size:10;default:'piece'" json:"unitType"`
	ImageURL string  `gorm:"size:500" json:"imageUrl"`

	IsCampaign        bool       `gorm:"default:false" json:"isCampaign"`
	OriginalPrice     *float64   `json:"originalPrice,omitempty"`
	CampaignStartDate *time.Time `json:"campaignStartDate,omitempty"`
	CampaignEndDate   *time.Time `json:"campaignEndDate,omitempty"`

	SalesCount int  `gorm:"default:0" json:"salesCount"`
	IsDeleted  bool `gorm:"default:false;index" json:"isDeleted"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
