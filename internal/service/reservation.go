package service

import (
	"context"
	"errors"
	"time"

	"fulfillment-service/internal/broker"
	"fulfillment-service/internal/models"
	"fulfillment-service/internal/store"
	"fulfillment-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ReservationService earmarks on-hand stock at specific locations for an
// order, without physically moving it
type ReservationService struct {
	store     *store.Store
	publisher *broker.EventPublisher
	logger    *zap.Logger
}

// NewReservationService creates a new reservation service
func NewReservationService(st *store.Store, publisher *broker.EventPublisher) *ReservationService {
	return &ReservationService{
		store:     st,
		publisher: publisher,
		logger:    util.GetLogger(),
	}
}

// Reserve reserves inventory for every unreserved line item of an order.
// Under PolicyThrow an item that cannot be fully covered abandons the whole
// order's reservation; under PolicyPartial the covered part commits and the
// shortfall is reported in the outcome.
func (rs *ReservationService) Reserve(ctx context.Context, orderID, actorID string, policy store.ReservePolicy) (*store.ReservationOutcome, error) {
	ctx, span := util.StartSpan(ctx, "ReservationService.Reserve")
	defer span.End()

	start := time.Now()
	defer func() {
		util.ReservationLatency.Observe(time.Since(start).Seconds())
	}()

	outcome, err := rs.store.ReserveOrderTx(ctx, orderID, actorID, policy)
	if err != nil {
		reason := "error"
		if errors.Is(err, store.ErrInsufficientInventory) {
			reason = "insufficient_inventory"
		}
		util.ReservationsFailedTotal.WithLabelValues(reason).Inc()
		return nil, err
	}

	util.OrdersAllocatedTotal.Inc()
	rs.logger.Info("Order allocated",
		zap.String("order_id", orderID),
		zap.Int("reservations", len(outcome.Reservations)),
		zap.Int("locations_used", outcome.LocationsUsed))

	event := &models.OrderAllocatedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeOrderAllocated,
			Timestamp: time.Now(),
		},
		OrderID:      orderID,
		OrderNumber:  outcome.Order.OrderNumber,
		ActorID:      actorID,
		Reservations: outcome.Reservations,
	}
	if err := rs.publisher.PublishOrderAllocated(ctx, event); err != nil {
		rs.logger.Error("Failed to publish OrderAllocated event", zap.Error(err))
	}

	return outcome, nil
}
