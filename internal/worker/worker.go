package worker

import (
	"context"

	"fulfillment-service/internal/broker"
	"fulfillment-service/internal/models"
	"fulfillment-service/internal/util"

	"go.uber.org/zap"
)

// NotificationWorker consumes the worker-notification topic and records
// deliveries. It stands in for the realtime push transport: assignment
// messages land here after the HTTP response has already been sent.
type NotificationWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
	logger       *zap.Logger
}

// NewNotificationWorker creates a new notification worker
func NewNotificationWorker(consumer *broker.Consumer) *NotificationWorker {
	w := &NotificationWorker{
		consumer:     consumer,
		eventHandler: broker.NewEventHandler(),
		logger:       util.GetLogger(),
	}

	w.eventHandler.OnWorkerAssigned(w.handleWorkerAssigned)
	return w
}

func (w *NotificationWorker) handleWorkerAssigned(ctx context.Context, event *models.WorkerAssignedEvent) error {
	w.logger.Info("Delivering pick list assignment",
		zap.String("worker_id", event.WorkerID),
		zap.String("pick_list_id", event.PickListID),
		zap.String("batch_number", event.BatchNumber),
		zap.Int("total_items", event.TotalItems),
		zap.String("message", event.Message))
	return nil
}

// Start starts the worker
func (w *NotificationWorker) Start(ctx context.Context) error {
	w.logger.Info("Starting notification worker")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *NotificationWorker) Stop() error {
	w.logger.Info("Stopping notification worker")
	return w.consumer.Close()
}
