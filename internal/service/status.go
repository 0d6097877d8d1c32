package service

import (
	"context"
	"fmt"

	"fulfillment-service/internal/models"
	"fulfillment-service/internal/store"
	"fulfillment-service/internal/util"

	"go.uber.org/zap"
)

// orderTransitions is the one-directional order state machine. A target not
// listed for the current status is unreachable.
var orderTransitions = map[string][]string{
	models.OrderStatusPending:   {models.OrderStatusAllocated, models.OrderStatusCancelled},
	models.OrderStatusAllocated: {models.OrderStatusPicking, models.OrderStatusCancelled},
	models.OrderStatusPicking:   {models.OrderStatusPicked, models.OrderStatusCancelled},
	models.OrderStatusPicked:    {models.OrderStatusPacked},
	models.OrderStatusPacked:    {models.OrderStatusShipped},
}

// CanTransition reports whether the order state machine allows from -> to
func CanTransition(from, to string) bool {
	for _, allowed := range orderTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// StatusTracker advances orders through the fulfillment state machine,
// writing one immutable history row per transition
type StatusTracker struct {
	store  *store.Store
	logger *zap.Logger
}

// NewStatusTracker creates a new status tracker
func NewStatusTracker(st *store.Store) *StatusTracker {
	return &StatusTracker{
		store:  st,
		logger: util.GetLogger(),
	}
}

// Advance transitions an order from its expected current status to newStatus
func (t *StatusTracker) Advance(ctx context.Context, orderID, expectedStatus, newStatus, actorID, notes string) error {
	if !CanTransition(expectedStatus, newStatus) {
		return fmt.Errorf("%s -> %s: %w", expectedStatus, newStatus, store.ErrInvalidTransition)
	}

	if err := t.store.AdvanceOrderStatusTx(ctx, orderID, expectedStatus, newStatus, actorID, notes); err != nil {
		return err
	}

	t.logger.Info("Order status advanced",
		zap.String("order_id", orderID),
		zap.String("from", expectedStatus),
		zap.String("to", newStatus),
		zap.String("actor", actorID))
	return nil
}

// History retrieves the transition trail for an order
func (t *StatusTracker) History(ctx context.Context, orderID string) ([]models.OrderStatusHistory, error) {
	return t.store.GetOrderStatusHistory(ctx, orderID)
}
