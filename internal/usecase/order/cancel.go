package order

import (
	"context"
	"time"

	"github.com/stepuplabz/market/internal/audit"
	domain "github.com/stepuplabz/market/internal/domain/order"
	"github.com/stepuplabz/market/internal/httperr"
	"github.com/stepuplabz/market/internal/models"
)

type CancelOrder struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewCancelOrder(repo domain.Repository, audit *audit.Dispatcher) *CancelOrder {
	return &CancelOrder{
		repo:  repo,
		audit: audit,
	}
}

func (uc *CancelOrder) Execute(
	ctx context.Context,
	actorID string,
	actorRole string,
	orderID string,
) (*models.Order, error) {

	o, err := uc.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, httperr.ErrBusiness("order_not_found")
	}

	if actorRole != models.RoleAdmin && o.UserID != actorID {
		return nil, httperr.ErrBusiness("not_order_owner")
	}

	if err := domain.Cancel(o, time.Now().UTC()); err != nil {
		return nil, err
	}

	if err := uc.repo.Update(ctx, o); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &actorID,
		Action:   "order_cancelled",
		Entity:   "order",
		EntityID: &o.ID,
	})

	return o, nil
}
