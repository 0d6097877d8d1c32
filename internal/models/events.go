package models

import "time"

// Event types
const (
	EventTypeOrderAllocated     = "ORDER_ALLOCATED"
	EventTypePickBatchCreated   = "PICK_BATCH_CREATED"
	EventTypeInventoryShortfall = "INVENTORY_SHORTFALL"
	EventTypeWorkerAssigned     = "WORKER_ASSIGNED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// OrderAllocatedEvent published when inventory is reserved for an order
type OrderAllocatedEvent struct {
	BaseEvent
	OrderID      string        `json:"order_id"`
	OrderNumber  string        `json:"order_number"`
	ActorID      string        `json:"actor_id"`
	Reservations []Reservation `json:"reservations"`
}

// PickBatchCreatedEvent published when a pick list batch is committed
type PickBatchCreatedEvent struct {
	BaseEvent
	PickListID  string   `json:"pick_list_id"`
	BatchNumber string   `json:"batch_number"`
	AssignedTo  string   `json:"assigned_to"`
	OrderIDs    []string `json:"order_ids"`
	TotalItems  int      `json:"total_items"`
}

// InventoryShortfallEvent published when the generator could not fully
// cover an order item; the remainder is deferred for backorder handling
type InventoryShortfallEvent struct {
	BaseEvent
	OrderID     string `json:"order_id"`
	OrderItemID string `json:"order_item_id"`
	VariantID   string `json:"variant_id"`
	Missing     int    `json:"missing"`
}

// WorkerAssignedEvent is the notification payload delivered to the worker
// who receives a new pick list
type WorkerAssignedEvent struct {
	BaseEvent
	WorkerID    string `json:"worker_id"`
	PickListID  string `json:"pick_list_id"`
	BatchNumber string `json:"batch_number"`
	TotalItems  int    `json:"total_items"`
	Priority    int    `json:"priority"`
	Message     string `json:"message"`
}
