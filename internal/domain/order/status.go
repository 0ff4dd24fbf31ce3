package order

import "github.com/stepuplabz/market/internal/httperr"

// ===============================
// Order Status
// ===============================

type Status string

const (
	StatusPending   Status = "pending"
	StatusPreparing Status = "preparing"
	StatusOnTheWay  Status = "on_the_way"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

// The mobile client historically sent "waiting_approval" for freshly created
// orders; the canonical stored value is "pending".
const aliasWaitingApproval = "waiting_approval"

func InitialStatus() Status {
	return StatusPending
}

// Normalize maps an inbound status string onto the closed enum. The second
// return value is false for anything outside the vocabulary.
func Normalize(s string) (Status, bool) {
	if s == aliasWaitingApproval {
		return StatusPending, true
	}
	switch st := Status(s); st {
	case StatusPending, StatusPreparing, StatusOnTheWay, StatusDelivered, StatusCancelled:
		return st, true
	}
	return "", false
}

func (s Status) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// transitions is the allowed source → targets table. Cancellation is legal
// from every non-terminal state; everything else moves strictly forward.
var transitions = map[Status][]Status{
	StatusPending:   {StatusPreparing, StatusCancelled},
	StatusPreparing: {StatusOnTheWay, StatusCancelled},
	StatusOnTheWay:  {StatusDelivered, StatusCancelled},
}

// ===============================
// Validations
// ===============================

func CanTransition(from, to Status) error {
	for _, t := range transitions[from] {
		if t == to {
			return nil
		}
	}
	return httperr.ErrBusiness("invalid_transition")
}

func CanCancel(current Status) error {
	if current.Terminal() {
		return httperr.ErrBusiness("invalid_transition")
	}
	return nil
}
