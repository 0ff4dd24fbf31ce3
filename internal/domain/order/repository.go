package order

import (
	"context"
	"time"

	"github.com/stepuplabz/market/internal/models"
)

// SalesWindow is one aggregation bucket of the admin stats read model.
type SalesWindow struct {
	Revenue float64
	Orders  int64
}

type Repository interface {
	// -------- Order (create / fetch) --------
	Create(ctx context.Context, o *models.Order) error

	GetByID(ctx context.Context, id string) (*models.Order, error)

	FindByIdempotencyKey(ctx context.Context, key string) (*models.Order, error)

	// -------- Order (state change) --------
	Update(ctx context.Context, o *models.Order) error

	// -------- Listings --------
	ListByUser(ctx context.Context, userID string) ([]models.Order, error)

	ListAll(ctx context.Context) ([]models.Order, error)

	// -------- Aggregation --------
	SalesSince(ctx context.Context, cutoff time.Time) (SalesWindow, error)

	CountPending(ctx context.Context) (int64, error)
}
