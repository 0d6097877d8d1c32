package store

import (
	"context"
	"database/sql"
	"fmt"

	"fulfillment-service/internal/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// ReservePolicy controls how a reservation handles uncoverable items
type ReservePolicy string

const (
	// PolicyThrow abandons the whole order's reservation if any item
	// cannot be fully covered
	PolicyThrow ReservePolicy = "throw"
	// PolicyPartial commits whatever can be covered and reports the shortfall
	PolicyPartial ReservePolicy = "partial"
)

// ReservationOutcome is the result of reserving inventory for one order
type ReservationOutcome struct {
	Order         *models.Order
	Reservations  []models.Reservation
	Shortfalls    []models.ShortfallWarning
	LocationsUsed int
}

// GetInventoryByVariant retrieves all ledger rows for a variant
func (s *Store) GetInventoryByVariant(ctx context.Context, variantID string) ([]models.InventoryRecord, error) {
	var records []models.InventoryRecord
	err := s.db.SelectContext(ctx, &records,
		"SELECT * FROM inventory_records WHERE variant_id = $1 ORDER BY quantity_on_hand, id", variantID)
	return records, err
}

// GetInventorySnapshot retrieves ledger rows with stock on hand for a set of
// variants, ordered the way the generator consumes them
func (s *Store) GetInventorySnapshot(ctx context.Context, variantIDs []string) ([]models.InventoryRecord, error) {
	if len(variantIDs) == 0 {
		return []models.InventoryRecord{}, nil
	}

	query, args, err := sqlx.In(
		"SELECT * FROM inventory_records WHERE variant_id IN (?) AND quantity_on_hand > 0 ORDER BY quantity_on_hand, id",
		variantIDs)
	if err != nil {
		return nil, err
	}
	query = s.db.Rebind(query)

	var records []models.InventoryRecord
	err = s.db.SelectContext(ctx, &records, query, args...)
	return records, err
}

// GetAllInventory retrieves every ledger row (cache warm-up)
func (s *Store) GetAllInventory(ctx context.Context) ([]models.InventoryRecord, error) {
	var records []models.InventoryRecord
	err := s.db.SelectContext(ctx, &records, "SELECT * FROM inventory_records ORDER BY variant_id, id")
	return records, err
}

// ReserveOrderTx reserves inventory for every line item of an order inside a
// single transaction. Each touched ledger row is locked FOR UPDATE for the
// duration of its read-compute-write cycle, so concurrent reservations
// against the same location serialize instead of jointly over-reserving.
// The PENDING -> ALLOCATED transition and its history row commit in the same
// transaction; under PolicyThrow an uncoverable item rolls everything back.
func (s *Store) ReserveOrderTx(ctx context.Context, orderID, actorID string, policy ReservePolicy) (*ReservationOutcome, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var order models.Order
	err = tx.GetContext(ctx, &order, "SELECT * FROM orders WHERE id = $1 FOR UPDATE", orderID)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("order not found: %s", orderID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock order: %w", err)
	}

	if order.Status != models.OrderStatusPending {
		return nil, fmt.Errorf("order %s is %s: %w", orderID, order.Status, ErrOrderNotReservable)
	}

	var items []models.OrderItem
	if err := tx.SelectContext(ctx, &items,
		"SELECT * FROM order_items WHERE order_id = $1 ORDER BY id", orderID); err != nil {
		return nil, fmt.Errorf("failed to load order items: %w", err)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("order %s: %w", orderID, ErrOrderNotReservable)
	}

	outcome := &ReservationOutcome{Order: &order}
	locations := make(map[string]struct{})

	for _, item := range items {
		var records []models.InventoryRecord
		err := tx.SelectContext(ctx, &records,
			`SELECT * FROM inventory_records
			 WHERE variant_id = $1 AND quantity_on_hand - quantity_reserved > 0
			 ORDER BY quantity_on_hand, id
			 FOR UPDATE`, item.VariantID)
		if err != nil {
			return nil, fmt.Errorf("failed to lock inventory for variant %s: %w", item.VariantID, err)
		}

		remaining := item.QuantityOrdered
		for _, rec := range records {
			if remaining == 0 {
				break
			}
			take := remaining
			if avail := rec.Available(); avail < take {
				take = avail
			}

			_, err := tx.ExecContext(ctx,
				"UPDATE inventory_records SET quantity_reserved = quantity_reserved + $1, updated_at = NOW() WHERE id = $2",
				take, rec.ID)
			if err != nil {
				return nil, fmt.Errorf("failed to reserve stock: %w", err)
			}

			outcome.Reservations = append(outcome.Reservations, models.Reservation{
				OrderItemID: item.ID,
				VariantID:   item.VariantID,
				LocationID:  rec.LocationID,
				Quantity:    take,
			})
			locations[rec.LocationID] = struct{}{}
			remaining -= take
		}

		if remaining > 0 {
			if policy == PolicyThrow {
				return nil, fmt.Errorf("order %s variant %s: short %d of %d: %w",
					orderID, item.VariantID, remaining, item.QuantityOrdered, ErrInsufficientInventory)
			}
			outcome.Shortfalls = append(outcome.Shortfalls, models.ShortfallWarning{
				OrderID:     orderID,
				OrderItemID: item.ID,
				VariantID:   item.VariantID,
				Missing:     remaining,
			})
		}
	}

	outcome.LocationsUsed = len(locations)

	note := fmt.Sprintf("inventory reserved across %d locations", outcome.LocationsUsed)
	if err := s.transitionOrderTx(ctx, tx, &order, models.OrderStatusAllocated, actorID, note); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit reservation: %w", err)
	}

	outcome.Order.Status = models.OrderStatusAllocated
	return outcome, nil
}

// transitionOrderTx updates the order status and appends its history row
// inside the caller's transaction
func (s *Store) transitionOrderTx(ctx context.Context, tx *sqlx.Tx, order *models.Order, newStatus, actorID, notes string) error {
	_, err := tx.ExecContext(ctx,
		"UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2",
		newStatus, order.ID)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO order_status_history (id, order_id, previous_status, new_status, changed_by, notes)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		uuid.New().String(), order.ID, order.Status, newStatus, actorID, notes)
	if err != nil {
		return fmt.Errorf("failed to append status history: %w", err)
	}

	return nil
}
