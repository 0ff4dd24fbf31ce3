package order

import (
	"time"

	"github.com/stepuplabz/market/internal/models"
)

// ===============================
// Domain Actions
// ===============================

// Transition moves an order to the target status, stamping the terminal
// timestamps. The target must already be normalized.
func Transition(o *models.Order, to Status, now time.Time) error {
	if err := CanTransition(Status(o.Status), to); err != nil {
		return err
	}

	o.Status = string(to)
	switch to {
	case StatusDelivered:
		o.DeliveredAt = &now
	case StatusCancelled:
		o.CancelledAt = &now
	}
	return nil
}

func Cancel(o *models.Order, now time.Time) error {
	if err := CanCancel(Status(o.Status)); err != nil {
		return err
	}

	o.Status = string(StatusCancelled)
	o.CancelledAt = &now
	return nil
}
