package order

import (
	"context"

	"gorm.io/gorm"

	"github.com/stepuplabz/market/internal/audit"
	domain "github.com/stepuplabz/market/internal/domain/order"
	"github.com/stepuplabz/market/internal/httperr"
	"github.com/stepuplabz/market/internal/models"
)

// ======================================================
// INPUT
// ======================================================

type CreateOrderInput struct {
	UserID  string
	Items   []models.OrderItem
	Total   float64
	Address string

	// Optional. Retried submissions carrying the same key return the
	// already-created order instead of inserting a duplicate.
	IdempotencyKey string
}

// ======================================================
// USE CASE
// ======================================================

type CreateOrder struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewCreateOrder(repo domain.Repository, audit *audit.Dispatcher) *CreateOrder {
	return &CreateOrder{
		repo:  repo,
		audit: audit,
	}
}

// ======================================================
// EXECUTE
// ======================================================

// Execute returns the order and whether it was freshly created (false means
// an idempotent replay).
func (uc *CreateOrder) Execute(ctx context.Context, in CreateOrderInput) (*models.Order, bool, error) {

	if len(in.Items) == 0 {
		return nil, false, httperr.ErrBusiness("empty_items")
	}
	for _, item := range in.Items {
		if item.ID == "" || item.Quantity <= 0 || item.Price < 0 {
			return nil, false, httperr.ErrBusiness("invalid_item")
		}
	}
	if in.Total <= 0 {
		return nil, false, httperr.ErrBusiness("invalid_total")
	}
	if in.Address == "" {
		return nil, false, httperr.ErrBusiness("missing_address")
	}

	if in.IdempotencyKey != "" {
		existing, err := uc.repo.FindByIdempotencyKey(ctx, in.IdempotencyKey)
		if err == nil {
			return existing, false, nil
		}
		if err != gorm.ErrRecordNotFound {
			return nil, false, err
		}
	}

	o := &models.Order{
		UserID:      in.UserID,
		Items:       in.Items,
		TotalPrice:  in.Total,
		DeliveryFee: models.DefaultDeliveryFee,
		Status:      string(domain.InitialStatus()),
		Address:     in.Address,
	}
	if in.IdempotencyKey != "" {
		key := in.IdempotencyKey
		o.IdempotencyKey = &key
	}

	if err := uc.repo.Create(ctx, o); err != nil {
		return nil, false, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &o.UserID,
		Action:   "order_created",
		Entity:   "order",
		EntityID: &o.ID,
		Metadata: map[string]any{
			"total": o.TotalPrice,
			"items": len(o.Items),
		},
	})

	return o, true, nil
}
