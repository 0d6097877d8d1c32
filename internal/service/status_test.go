package service

import (
	"testing"

	"fulfillment-service/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to string
		allowed  bool
	}{
		{models.OrderStatusPending, models.OrderStatusAllocated, true},
		{models.OrderStatusAllocated, models.OrderStatusPicking, true},
		{models.OrderStatusPicking, models.OrderStatusPicked, true},
		{models.OrderStatusPicked, models.OrderStatusPacked, true},
		{models.OrderStatusPacked, models.OrderStatusShipped, true},
		{models.OrderStatusPending, models.OrderStatusCancelled, true},
		{models.OrderStatusAllocated, models.OrderStatusCancelled, true},

		// the state machine is one-directional
		{models.OrderStatusAllocated, models.OrderStatusPending, false},
		{models.OrderStatusPicking, models.OrderStatusAllocated, false},
		{models.OrderStatusPending, models.OrderStatusPicking, false},
		{models.OrderStatusShipped, models.OrderStatusPending, false},
		{models.OrderStatusCancelled, models.OrderStatusPending, false},
		{models.OrderStatusPicked, models.OrderStatusCancelled, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.allowed, CanTransition(tc.from, tc.to),
			"%s -> %s", tc.from, tc.to)
	}
}
