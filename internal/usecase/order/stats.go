package order

import (
	"context"
	"time"

	"github.com/stepuplabz/market/internal/cache"
	domain "github.com/stepuplabz/market/internal/domain/order"
	"github.com/stepuplabz/market/internal/dto"
)

const (
	statsCacheKey = "orders:stats"
	statsCacheTTL = 30 * time.Second
)

// OrderStats is the server-side replacement for the aggregates the mobile
// client used to derive by filtering the full order list in memory.
type OrderStats struct {
	repo  domain.Repository
	cache *cache.Cache
}

func NewOrderStats(repo domain.Repository, cache *cache.Cache) *OrderStats {
	return &OrderStats{
		repo:  repo,
		cache: cache,
	}
}

func (uc *OrderStats) Execute(ctx context.Context) (*dto.OrderStatsDTO, error) {

	var cached dto.OrderStatsDTO
	if uc.cache.GetJSON(ctx, statsCacheKey, &cached) {
		return &cached, nil
	}

	now := time.Now().UTC()

	daily, err := uc.repo.SalesSince(ctx, now.AddDate(0, 0, -1))
	if err != nil {
		return nil, err
	}
	weekly, err := uc.repo.SalesSince(ctx, now.AddDate(0, 0, -7))
	if err != nil {
		return nil, err
	}
	monthly, err := uc.repo.SalesSince(ctx, now.AddDate(0, 0, -30))
	if err != nil {
		return nil, err
	}
	pending, err := uc.repo.CountPending(ctx)
	if err != nil {
		return nil, err
	}

	stats := &dto.OrderStatsDTO{
		Daily:        dto.SalesWindowDTO{Revenue: daily.Revenue, Orders: daily.Orders},
		Weekly:       dto.SalesWindowDTO{Revenue: weekly.Revenue, Orders: weekly.Orders},
		Monthly:      dto.SalesWindowDTO{Revenue: monthly.Revenue, Orders: monthly.Orders},
		PendingCount: pending,
	}

	uc.cache.SetJSON(ctx, statsCacheKey, stats, statsCacheTTL)

	return stats, nil
}
