package store

import (
	"context"
	"database/sql"
	"fmt"

	"fulfillment-service/internal/models"

	"github.com/jmoiron/sqlx"
)

// GetOrderByID retrieves an order by ID
func (s *Store) GetOrderByID(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	err := s.db.GetContext(ctx, &order, "SELECT * FROM orders WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("order not found: %s", id)
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetOrdersForPicking retrieves the requested orders that are eligible for a
// pick batch. Orders in any status other than PENDING or ALLOCATED are
// silently excluded, not an error.
func (s *Store) GetOrdersForPicking(ctx context.Context, orderIDs []string) ([]models.Order, error) {
	if len(orderIDs) == 0 {
		return []models.Order{}, nil
	}

	query, args, err := sqlx.In(
		"SELECT * FROM orders WHERE id IN (?) AND status IN (?) ORDER BY created_at, id",
		orderIDs, []string{models.OrderStatusPending, models.OrderStatusAllocated})
	if err != nil {
		return nil, err
	}
	query = s.db.Rebind(query)

	var orders []models.Order
	err = s.db.SelectContext(ctx, &orders, query, args...)
	return orders, err
}

// GetOrderItemsByOrderIDs retrieves line items for a set of orders
func (s *Store) GetOrderItemsByOrderIDs(ctx context.Context, orderIDs []string) ([]models.OrderItem, error) {
	if len(orderIDs) == 0 {
		return []models.OrderItem{}, nil
	}

	query, args, err := sqlx.In("SELECT * FROM order_items WHERE order_id IN (?) ORDER BY order_id, id", orderIDs)
	if err != nil {
		return nil, err
	}
	query = s.db.Rebind(query)

	var items []models.OrderItem
	err = s.db.SelectContext(ctx, &items, query, args...)
	return items, err
}

// AdvanceOrderStatusTx transitions an order to newStatus and appends exactly
// one history row, atomically. The order row is locked and its current
// status re-checked under the lock; a stale expectation fails the call.
func (s *Store) AdvanceOrderStatusTx(ctx context.Context, orderID, expectedStatus, newStatus, actorID, notes string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var order models.Order
	err = tx.GetContext(ctx, &order, "SELECT * FROM orders WHERE id = $1 FOR UPDATE", orderID)
	if err == sql.ErrNoRows {
		return fmt.Errorf("order not found: %s", orderID)
	}
	if err != nil {
		return fmt.Errorf("failed to lock order: %w", err)
	}

	if order.Status != expectedStatus {
		return fmt.Errorf("order %s is %s, expected %s: %w",
			orderID, order.Status, expectedStatus, ErrInvalidTransition)
	}

	if err := s.transitionOrderTx(ctx, tx, &order, newStatus, actorID, notes); err != nil {
		return err
	}

	return tx.Commit()
}

// GetOrderStatusHistory retrieves the append-only transition trail for an order
func (s *Store) GetOrderStatusHistory(ctx context.Context, orderID string) ([]models.OrderStatusHistory, error) {
	var history []models.OrderStatusHistory
	err := s.db.SelectContext(ctx, &history,
		"SELECT * FROM order_status_history WHERE order_id = $1 ORDER BY created_at, id", orderID)
	return history, err
}
