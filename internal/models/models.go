package models

import "time"

// Order represents a sales order in the fulfillment domain
type Order struct {
	ID          string    `db:"id" json:"id"`
	OrderNumber string    `db:"order_number" json:"order_number"`
	Status      string    `db:"status" json:"status"`
	CustomerRef string    `db:"customer_ref" json:"customer_ref"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// OrderItem represents a line item of an order. Ordered quantity is
// immutable once the order is placed.
type OrderItem struct {
	ID              string `db:"id" json:"id"`
	OrderID         string `db:"order_id" json:"order_id"`
	VariantID       string `db:"variant_id" json:"variant_id"`
	QuantityOrdered int    `db:"quantity_ordered" json:"quantity_ordered"`
}

// ProductVariant identifies a sellable SKU
type ProductVariant struct {
	ID   string `db:"id" json:"id"`
	SKU  string `db:"sku" json:"sku"`
	Name string `db:"name" json:"name"`
}

// Location is a physical storage location in the warehouse
type Location struct {
	ID   string `db:"id" json:"id"`
	Code string `db:"code" json:"code"`
	Zone string `db:"zone" json:"zone"`
}

// Worker is a warehouse worker who can be assigned pick lists
type Worker struct {
	ID     string `db:"id" json:"id"`
	Name   string `db:"name" json:"name"`
	Active bool   `db:"active" json:"active"`
}

// InventoryRecord is the authoritative stock record per (variant, location).
// Invariant: 0 <= quantity_reserved <= quantity_on_hand.
type InventoryRecord struct {
	ID               string    `db:"id" json:"id"`
	VariantID        string    `db:"variant_id" json:"variant_id"`
	LocationID       string    `db:"location_id" json:"location_id"`
	QuantityOnHand   int       `db:"quantity_on_hand" json:"quantity_on_hand"`
	QuantityReserved int       `db:"quantity_reserved" json:"quantity_reserved"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}

// Available returns the derived unreserved quantity
func (r *InventoryRecord) Available() int {
	return r.QuantityOnHand - r.QuantityReserved
}

// PickList is the batch header for a set of pick instructions
type PickList struct {
	ID          string    `db:"id" json:"id"`
	BatchNumber string    `db:"batch_number" json:"batch_number"`
	Status      string    `db:"status" json:"status"`
	AssignedTo  string    `db:"assigned_to" json:"assigned_to"`
	Priority    int       `db:"priority" json:"priority"`
	TotalItems  int       `db:"total_items" json:"total_items"`
	PickedItems int       `db:"picked_items" json:"picked_items"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// PickListItem is one sequenced pick instruction within a pick list
type PickListItem struct {
	ID             string    `db:"id" json:"id"`
	PickListID     string    `db:"pick_list_id" json:"pick_list_id"`
	OrderID        string    `db:"order_id" json:"order_id"`
	OrderItemID    string    `db:"order_item_id" json:"order_item_id"`
	VariantID      string    `db:"variant_id" json:"variant_id"`
	LocationID     string    `db:"location_id" json:"location_id"`
	QuantityToPick int       `db:"quantity_to_pick" json:"quantity_to_pick"`
	QuantityPicked int       `db:"quantity_picked" json:"quantity_picked"`
	PickSequence   int       `db:"pick_sequence" json:"pick_sequence"`
	Status         string    `db:"status" json:"status"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// PickListItemDetail is a pick list item joined with order, product and
// location summary fields for API responses
type PickListItemDetail struct {
	PickListItem
	OrderNumber  string `db:"order_number" json:"order_number"`
	SKU          string `db:"sku" json:"sku"`
	ProductName  string `db:"product_name" json:"product_name"`
	LocationCode string `db:"location_code" json:"location_code"`
}

// OrderStatusHistory is an append-only record of one status transition
type OrderStatusHistory struct {
	ID             string    `db:"id" json:"id"`
	OrderID        string    `db:"order_id" json:"order_id"`
	PreviousStatus string    `db:"previous_status" json:"previous_status"`
	NewStatus      string    `db:"new_status" json:"new_status"`
	ChangedBy      string    `db:"changed_by" json:"changed_by"`
	Notes          string    `db:"notes" json:"notes"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// PickEvent is an append-only audit record scoped to a pick list
type PickEvent struct {
	ID         string    `db:"id" json:"id"`
	PickListID string    `db:"pick_list_id" json:"pick_list_id"`
	EventType  string    `db:"event_type" json:"event_type"`
	ActorID    string    `db:"actor_id" json:"actor_id"`
	Payload    string    `db:"payload" json:"payload"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// PickListItemDraft is a generated pick instruction not yet persisted
type PickListItemDraft struct {
	OrderID      string `json:"order_id"`
	OrderItemID  string `json:"order_item_id"`
	VariantID    string `json:"variant_id"`
	LocationID   string `json:"location_id"`
	Quantity     int    `json:"quantity"`
	PickSequence int    `json:"pick_sequence"`
}

// ShortfallWarning records the unmet remainder of an order item, deferred
// to a later replenishment or backorder cycle
type ShortfallWarning struct {
	OrderID     string `json:"order_id"`
	OrderItemID string `json:"order_item_id"`
	VariantID   string `json:"variant_id"`
	Missing     int    `json:"missing"`
}

// Reservation describes one quantity drawn from one location for an order item
type Reservation struct {
	OrderItemID string `json:"order_item_id"`
	VariantID   string `json:"variant_id"`
	LocationID  string `json:"location_id"`
	Quantity    int    `json:"quantity"`
}

// Order statuses
const (
	OrderStatusPending   = "PENDING"
	OrderStatusAllocated = "ALLOCATED"
	OrderStatusPicking   = "PICKING"
	OrderStatusPicked    = "PICKED"
	OrderStatusPacked    = "PACKED"
	OrderStatusShipped   = "SHIPPED"
	OrderStatusCancelled = "CANCELLED"
)

// Pick list statuses
const (
	PickListStatusAssigned   = "ASSIGNED"
	PickListStatusInProgress = "IN_PROGRESS"
	PickListStatusCompleted  = "COMPLETED"
	PickListStatusCancelled  = "CANCELLED"
)

// Pick list item statuses
const (
	PickItemStatusPending = "PENDING"
	PickItemStatusPicked  = "PICKED"
	PickItemStatusShort   = "SHORT"
	PickItemStatusSkipped = "SKIPPED"
)

// Pick event types
const (
	PickEventCreated   = "PICK_LIST_CREATED"
	PickEventItemPick  = "ITEM_PICKED"
	PickEventShortPick = "SHORT_PICK"
	PickEventSkip      = "ITEM_SKIPPED"
)
