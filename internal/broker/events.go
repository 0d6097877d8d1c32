package broker

import (
	"context"
	"encoding/json"
	"fmt"

	"fulfillment-service/internal/models"

	"github.com/segmentio/kafka-go"
)

// EventPublisher handles publishing fulfillment domain events
type EventPublisher struct {
	producer *Producer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(producer *Producer) *EventPublisher {
	return &EventPublisher{producer: producer}
}

// PublishOrderAllocated publishes an OrderAllocated event
func (ep *EventPublisher) PublishOrderAllocated(ctx context.Context, event *models.OrderAllocatedEvent) error {
	key := fmt.Sprintf("order-%s", event.OrderID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// PublishPickBatchCreated publishes a PickBatchCreated event
func (ep *EventPublisher) PublishPickBatchCreated(ctx context.Context, event *models.PickBatchCreatedEvent) error {
	key := fmt.Sprintf("pick-list-%s", event.PickListID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// PublishInventoryShortfall publishes an InventoryShortfall event
func (ep *EventPublisher) PublishInventoryShortfall(ctx context.Context, event *models.InventoryShortfallEvent) error {
	key := fmt.Sprintf("order-%s", event.OrderID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// NotificationPublisher publishes worker notifications on the side channel
// topic. Delivery is best effort relative to the fulfillment path.
type NotificationPublisher struct {
	producer *Producer
}

// NewNotificationPublisher creates a new notification publisher
func NewNotificationPublisher(producer *Producer) *NotificationPublisher {
	return &NotificationPublisher{producer: producer}
}

// PublishWorkerAssigned publishes a WorkerAssigned notification
func (np *NotificationPublisher) PublishWorkerAssigned(ctx context.Context, event *models.WorkerAssignedEvent) error {
	key := fmt.Sprintf("worker-%s", event.WorkerID)
	return np.producer.PublishEvent(ctx, key, event)
}

// EventHandler routes incoming notification messages to registered handlers
type EventHandler struct {
	onWorkerAssigned func(context.Context, *models.WorkerAssignedEvent) error
}

// NewEventHandler creates a new event handler
func NewEventHandler() *EventHandler {
	return &EventHandler{}
}

// OnWorkerAssigned registers a handler for WorkerAssigned events
func (eh *EventHandler) OnWorkerAssigned(handler func(context.Context, *models.WorkerAssignedEvent) error) {
	eh.onWorkerAssigned = handler
}

// HandleMessage routes messages to appropriate handlers
func (eh *EventHandler) HandleMessage(ctx context.Context, msg kafka.Message) error {
	var baseEvent models.BaseEvent
	if err := json.Unmarshal(msg.Value, &baseEvent); err != nil {
		return fmt.Errorf("failed to unmarshal base event: %w", err)
	}

	switch baseEvent.EventType {
	case models.EventTypeWorkerAssigned:
		if eh.onWorkerAssigned != nil {
			var event models.WorkerAssignedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal WorkerAssigned event: %w", err)
			}
			return eh.onWorkerAssigned(ctx, &event)
		}
	}

	return nil
}
