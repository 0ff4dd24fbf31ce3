package order

import (
	"context"
	"time"

	"github.com/stepuplabz/market/internal/audit"
	domain "github.com/stepuplabz/market/internal/domain/order"
	"github.com/stepuplabz/market/internal/httperr"
	"github.com/stepuplabz/market/internal/models"
)

type UpdateOrderStatus struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewUpdateOrderStatus(repo domain.Repository, audit *audit.Dispatcher) *UpdateOrderStatus {
	return &UpdateOrderStatus{
		repo:  repo,
		audit: audit,
	}
}

func (uc *UpdateOrderStatus) Execute(
	ctx context.Context,
	actorID string,
	orderID string,
	rawStatus string,
) (*models.Order, error) {

	target, ok := domain.Normalize(rawStatus)
	if !ok {
		return nil, httperr.ErrBusiness("invalid_status")
	}

	o, err := uc.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, httperr.ErrBusiness("order_not_found")
	}

	from := o.Status
	if err := domain.Transition(o, target, time.Now().UTC()); err != nil {
		return nil, err
	}

	if err := uc.repo.Update(ctx, o); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &actorID,
		Action:   "order_status_changed",
		Entity:   "order",
		EntityID: &o.ID,
		Metadata: map[string]any{
			"from": from,
			"to":   o.Status,
		},
	})

	return o, nil
}
