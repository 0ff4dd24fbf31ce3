package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	domain "github.com/stepuplabz/market/internal/domain/order"
	"github.com/stepuplabz/market/internal/models"
)

type OrderGormRepository struct {
	db *gorm.DB
}

func NewOrderGormRepository(db *gorm.DB) *OrderGormRepository {
	return &OrderGormRepository{db: db}
}

// --------------------------------------------------
// Create / fetch
// --------------------------------------------------

func (r *OrderGormRepository) Create(ctx context.Context, o *models.Order) error {
	return r.db.WithContext(ctx).Create(o).Error
}

func (r *OrderGormRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	var o models.Order
	if err := r.db.WithContext(ctx).First(&o, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *OrderGormRepository) FindByIdempotencyKey(ctx context.Context, key string) (*models.Order, error) {
	var o models.Order
	if err := r.db.WithContext(ctx).
		Where("idempotency_key = ?", key).
		First(&o).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

// --------------------------------------------------
// State change
// --------------------------------------------------

func (r *OrderGormRepository) Update(ctx context.Context, o *models.Order) error {
	return r.db.WithContext(ctx).Save(o).Error
}

// --------------------------------------------------
// Listings
// --------------------------------------------------

func (r *OrderGormRepository) ListByUser(ctx context.Context, userID string) ([]models.Order, error) {
	var orders []models.Order
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *OrderGormRepository) ListAll(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// --------------------------------------------------
// Aggregation (served by idx_orders_status_created)
// --------------------------------------------------

func (r *OrderGormRepository) SalesSince(ctx context.Context, cutoff time.Time) (domain.SalesWindow, error) {
	var row struct {
		Revenue float64
		Orders  int64
	}

	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Select("COALESCE(SUM(total_price + delivery_fee), 0) AS revenue, COUNT(*) AS orders").
		Where("status = ? AND created_at >= ?", string(domain.StatusDelivered), cutoff).
		Scan(&row).Error
	if err != nil {
		return domain.SalesWindow{}, err
	}

	return domain.SalesWindow{Revenue: row.Revenue, Orders: row.Orders}, nil
}

func (r *OrderGormRepository) CountPending(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("status IN ?", []string{
			string(domain.StatusPending),
			string(domain.StatusPreparing),
			string(domain.StatusOnTheWay),
		}).
		Count(&count).Error
	return count, err
}
