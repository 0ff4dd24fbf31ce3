package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const DefaultDeliveryFee = 29.90

// OrderItem is a snapshot of a product at order time. Historical orders keep
// the name and price they were sold at regardless of later product edits.
type OrderItem struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity float64 `json:"quantity"`
}

type OrderItems []OrderItem

func (i OrderItems) Value() (driver.Value, error) {
	return json.Marshal(i)
}

func (i *OrderItems) Scan(value interface{}) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, i)
	case string:
		return json.Unmarshal([]byte(v), i)
	case nil:
		*i = nil
		return nil
	default:
		return errors.New("unsupported type for order items")
	}
}

type Order struct {
	ID     string `gorm:"primaryKey;size:36" json:"id"`
	UserID string `gorm:"size:36;not null;index" json:"userId"`

	Items       OrderItems `gorm:"type:json;not null" json:"items"`
	TotalPrice  float64    `gorm:"not null" json:"totalPrice"`
	DeliveryFee float64    `gorm:"default:29.9" json:"deliveryFee"`

	Status  string `gorm:"size:20;default:'pending';index:idx_orders_status_created,priority:1" json:"status"`
	Address string `gorm:"size:500;not null" json:"address"`

	// IdempotencyKey dedupes retried order submissions.
	IdempotencyKey *string `gorm:"size:64;uniqueIndex" json:"-"`

	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
	DeliveredAt *time.Time `json:"delivered_at,omitempty"`

	CreatedAt time.Time `gorm:"index:idx_orders_status_created,priority:2" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}
