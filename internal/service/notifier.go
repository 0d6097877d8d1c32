package service

import (
	"context"
	"fmt"
	"time"

	"fulfillment-service/internal/broker"
	"fulfillment-service/internal/models"
	"fulfillment-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// NotificationDispatcher delivers pick list assignment messages to workers.
// Delivery is fire and forget: failures are logged and counted, never
// surfaced to the caller, and never roll back committed fulfillment state.
type NotificationDispatcher struct {
	publisher *broker.NotificationPublisher
	logger    *zap.Logger
}

// NewNotificationDispatcher creates a new notification dispatcher
func NewNotificationDispatcher(publisher *broker.NotificationPublisher) *NotificationDispatcher {
	return &NotificationDispatcher{
		publisher: publisher,
		logger:    util.GetLogger(),
	}
}

// NotifyAssignment dispatches an assignment notification asynchronously.
// It may complete after the HTTP response is sent.
func (d *NotificationDispatcher) NotifyAssignment(workerID string, pl *models.PickList) {
	event := &models.WorkerAssignedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeWorkerAssigned,
			Timestamp: time.Now(),
		},
		WorkerID:    workerID,
		PickListID:  pl.ID,
		BatchNumber: pl.BatchNumber,
		TotalItems:  pl.TotalItems,
		Priority:    pl.Priority,
		Message:     fmt.Sprintf("Pick list %s assigned: %d items", pl.BatchNumber, pl.TotalItems),
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := d.publisher.PublishWorkerAssigned(ctx, event); err != nil {
			util.NotificationsFailedTotal.Inc()
			d.logger.Error("Failed to dispatch worker notification",
				zap.String("worker_id", workerID),
				zap.String("pick_list_id", pl.ID),
				zap.Error(err))
		}
	}()
}
