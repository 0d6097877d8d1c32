package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"fulfillment-service/internal/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// CreatePickListTx atomically inserts the pick list header, bulk-inserts all
// pick list items and appends the creation audit event. Before committing it
// re-reads the count of inserted item rows; a mismatch with len(drafts)
// aborts the whole unit, guarding against silent partial bulk inserts.
// The created pick list is returned with its items joined to order, product
// and location summary fields so the caller needs no second round trip.
func (s *Store) CreatePickListTx(ctx context.Context, pl *models.PickList, drafts []models.PickListItemDraft, actorID string) (*models.PickList, []models.PickListItemDetail, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback()

	pl.ID = uuid.New().String()
	pl.Status = models.PickListStatusAssigned
	pl.TotalItems = len(drafts)
	pl.PickedItems = 0

	err = tx.GetContext(ctx, pl, `
		INSERT INTO pick_lists (id, batch_number, status, assigned_to, priority, total_items, picked_items)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING *`,
		pl.ID, pl.BatchNumber, pl.Status, pl.AssignedTo, pl.Priority, pl.TotalItems, pl.PickedItems)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to insert pick list header: %w", err)
	}

	rows := make([]models.PickListItem, 0, len(drafts))
	for _, d := range drafts {
		rows = append(rows, models.PickListItem{
			ID:             uuid.New().String(),
			PickListID:     pl.ID,
			OrderID:        d.OrderID,
			OrderItemID:    d.OrderItemID,
			VariantID:      d.VariantID,
			LocationID:     d.LocationID,
			QuantityToPick: d.Quantity,
			PickSequence:   d.PickSequence,
			Status:         models.PickItemStatusPending,
		})
	}

	if len(rows) > 0 {
		_, err = tx.NamedExecContext(ctx, `
			INSERT INTO pick_list_items
				(id, pick_list_id, order_id, order_item_id, variant_id, location_id,
				 quantity_to_pick, quantity_picked, pick_sequence, status)
			VALUES
				(:id, :pick_list_id, :order_id, :order_item_id, :variant_id, :location_id,
				 :quantity_to_pick, 0, :pick_sequence, :status)`, rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to insert pick list items: %w", err)
		}
	}

	var inserted int
	if err := tx.GetContext(ctx, &inserted,
		"SELECT COUNT(*) FROM pick_list_items WHERE pick_list_id = $1", pl.ID); err != nil {
		return nil, nil, fmt.Errorf("failed to verify pick list items: %w", err)
	}
	if inserted != len(drafts) {
		return nil, nil, fmt.Errorf("expected %d items, found %d: %w", len(drafts), inserted, ErrWriteConsistency)
	}

	payload, err := json.Marshal(map[string]interface{}{
		"batch_number": pl.BatchNumber,
		"total_items":  pl.TotalItems,
		"assigned_to":  pl.AssignedTo,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal pick event payload: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO pick_events (id, pick_list_id, event_type, actor_id, payload) VALUES ($1, $2, $3, $4, $5)",
		uuid.New().String(), pl.ID, models.PickEventCreated, actorID, string(payload))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to insert pick event: %w", err)
	}

	details, err := s.getPickListItemDetails(ctx, tx, pl.ID)
	if err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("failed to commit pick list: %w", err)
	}

	return pl, details, nil
}

func (s *Store) getPickListItemDetails(ctx context.Context, q sqlx.QueryerContext, pickListID string) ([]models.PickListItemDetail, error) {
	var details []models.PickListItemDetail
	err := sqlx.SelectContext(ctx, q, &details, `
		SELECT pli.*, o.order_number, pv.sku, pv.name AS product_name, l.code AS location_code
		FROM pick_list_items pli
		JOIN orders o ON o.id = pli.order_id
		JOIN product_variants pv ON pv.id = pli.variant_id
		JOIN locations l ON l.id = pli.location_id
		WHERE pli.pick_list_id = $1
		ORDER BY pli.pick_sequence`, pickListID)
	if err != nil {
		return nil, fmt.Errorf("failed to load pick list items: %w", err)
	}
	return details, nil
}

// GetPickListByID retrieves one pick list with its joined items
func (s *Store) GetPickListByID(ctx context.Context, id string) (*models.PickList, []models.PickListItemDetail, error) {
	var pl models.PickList
	err := s.db.GetContext(ctx, &pl, "SELECT * FROM pick_lists WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, nil, fmt.Errorf("pick list not found: %s", id)
	}
	if err != nil {
		return nil, nil, err
	}

	details, err := s.getPickListItemDetails(ctx, s.db, pl.ID)
	if err != nil {
		return nil, nil, err
	}
	return &pl, details, nil
}

// PickListFilter narrows and pages the pick list listing
type PickListFilter struct {
	Statuses []string
	Page     int
	Limit    int
}

// PickListProgress aggregates item progress per pick list
type PickListProgress struct {
	PickListID string `db:"pick_list_id"`
	Total      int    `db:"total"`
	Picked     int    `db:"picked"`
}

// ListPickLists retrieves a page of pick lists plus the total row count
func (s *Store) ListPickLists(ctx context.Context, f PickListFilter) ([]models.PickList, int, error) {
	where := ""
	var args []interface{}
	if len(f.Statuses) > 0 {
		inQuery, inArgs, err := sqlx.In("WHERE status IN (?)", f.Statuses)
		if err != nil {
			return nil, 0, err
		}
		where = inQuery
		args = inArgs
	}

	var total int
	countQuery := s.db.Rebind("SELECT COUNT(*) FROM pick_lists " + where)
	if err := s.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count pick lists: %w", err)
	}

	offset := (f.Page - 1) * f.Limit
	listQuery := s.db.Rebind(fmt.Sprintf(
		"SELECT * FROM pick_lists %s ORDER BY created_at DESC, id LIMIT %d OFFSET %d",
		where, f.Limit, offset))

	var lists []models.PickList
	if err := s.db.SelectContext(ctx, &lists, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list pick lists: %w", err)
	}

	return lists, total, nil
}

// GetPickListProgress aggregates item counts for a set of pick lists,
// used to derive completion rate and items remaining
func (s *Store) GetPickListProgress(ctx context.Context, pickListIDs []string) (map[string]PickListProgress, error) {
	result := make(map[string]PickListProgress, len(pickListIDs))
	if len(pickListIDs) == 0 {
		return result, nil
	}

	query, args, err := sqlx.In(`
		SELECT pick_list_id,
		       COUNT(*) AS total,
		       COUNT(*) FILTER (WHERE status IN (?)) AS picked
		FROM pick_list_items
		WHERE pick_list_id IN (?)
		GROUP BY pick_list_id`,
		[]string{models.PickItemStatusPicked, models.PickItemStatusShort}, pickListIDs)
	if err != nil {
		return nil, err
	}
	query = s.db.Rebind(query)

	var progress []PickListProgress
	if err := s.db.SelectContext(ctx, &progress, query, args...); err != nil {
		return nil, fmt.Errorf("failed to aggregate pick list progress: %w", err)
	}

	for _, p := range progress {
		result[p.PickListID] = p
	}
	return result, nil
}

// GetPickEvents retrieves the audit trail for a pick list
func (s *Store) GetPickEvents(ctx context.Context, pickListID string) ([]models.PickEvent, error) {
	var events []models.PickEvent
	err := s.db.SelectContext(ctx, &events,
		"SELECT * FROM pick_events WHERE pick_list_id = $1 ORDER BY created_at, id", pickListID)
	return events, err
}
