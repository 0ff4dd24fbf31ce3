package order

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/stepuplabz/market/internal/httperr"
	"github.com/stepuplabz/market/internal/models"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in    string
		want  Status
		valid bool
	}{
		{"pending", StatusPending, true},
		{"waiting_approval", StatusPending, true},
		{"preparing", StatusPreparing, true},
		{"on_the_way", StatusOnTheWay, true},
		{"delivered", StatusDelivered, true},
		{"cancelled", StatusCancelled, true},
		{"shipped", "", false},
		{"PENDING", "", false},
		{"", "", false},
		{"nonsense", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := Normalize(tt.in)
			assert.Equal(t, tt.valid, ok)
			if tt.valid {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestCanTransition(t *testing.T) {
	allowed := []struct{ from, to Status }{
		{StatusPending, StatusPreparing},
		{StatusPending, StatusCancelled},
		{StatusPreparing, StatusOnTheWay},
		{StatusPreparing, StatusCancelled},
		{StatusOnTheWay, StatusDelivered},
		{StatusOnTheWay, StatusCancelled},
	}
	for _, tt := range allowed {
		assert.NoError(t, CanTransition(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}

	rejected := []struct{ from, to Status }{
		{StatusPending, StatusOnTheWay},
		{StatusPending, StatusDelivered},
		{StatusPreparing, StatusPending},
		{StatusDelivered, StatusPreparing},
		{StatusDelivered, StatusCancelled},
		{StatusCancelled, StatusPending},
		{StatusCancelled, StatusDelivered},
		{StatusOnTheWay, StatusPreparing},
	}
	for _, tt := range rejected {
		err := CanTransition(tt.from, tt.to)
		assert.True(t, httperr.IsBusiness(err, "invalid_transition"), "%s -> %s", tt.from, tt.to)
	}
}

func TestTransitionStampsTimestamps(t *testing.T) {
	now := time.Now().UTC()

	o := &models.Order{Status: string(StatusOnTheWay)}
	assert.NoError(t, Transition(o, StatusDelivered, now))
	assert.Equal(t, string(StatusDelivered), o.Status)
	if assert.NotNil(t, o.DeliveredAt) {
		assert.Equal(t, now, *o.DeliveredAt)
	}

	o = &models.Order{Status: string(StatusPreparing)}
	assert.NoError(t, Transition(o, StatusCancelled, now))
	if assert.NotNil(t, o.CancelledAt) {
		assert.Equal(t, now, *o.CancelledAt)
	}
}

func TestCancelDeliveredRejected(t *testing.T) {
	now := time.Now().UTC()

	o := &models.Order{Status: string(StatusDelivered)}
	err := Cancel(o, now)
	assert.True(t, httperr.IsBusiness(err, "invalid_transition"))
	assert.Equal(t, string(StatusDelivered), o.Status)
	assert.Nil(t, o.CancelledAt)
}

func TestCancelFromAnyNonTerminal(t *testing.T) {
	now := time.Now().UTC()

	for _, from := range []Status{StatusPending, StatusPreparing, StatusOnTheWay} {
		o := &models.Order{Status: string(from)}
		assert.NoError(t, Cancel(o, now), "cancel from %s", from)
		assert.Equal(t, string(StatusCancelled), o.Status)
	}
}
