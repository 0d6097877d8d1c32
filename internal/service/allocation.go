package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"fulfillment-service/internal/broker"
	"fulfillment-service/internal/models"
	"fulfillment-service/internal/redisclient"
	"fulfillment-service/internal/store"
	"fulfillment-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Sentinel errors mapped to client responses at the API boundary
var (
	ErrUnknownWorker    = errors.New("unknown or inactive worker")
	ErrNoEligibleOrders = errors.New("no valid orders found for picking")
	ErrOrderLocked      = errors.New("order is already being allocated")
)

// AllocationService turns a batch of orders into reserved inventory and one
// committed, sequenced pick list
type AllocationService struct {
	store        *store.Store
	redis        *redisclient.Client
	reservations *ReservationService
	tracker      *StatusTracker
	publisher    *broker.EventPublisher
	dispatcher   *NotificationDispatcher
	lockTTL      time.Duration
	batchPrefix  string
	logger       *zap.Logger
}

// NewAllocationService creates a new allocation service
func NewAllocationService(
	st *store.Store,
	redis *redisclient.Client,
	reservations *ReservationService,
	tracker *StatusTracker,
	publisher *broker.EventPublisher,
	dispatcher *NotificationDispatcher,
	lockTTL time.Duration,
	batchPrefix string,
) *AllocationService {
	return &AllocationService{
		store:        st,
		redis:        redis,
		reservations: reservations,
		tracker:      tracker,
		publisher:    publisher,
		dispatcher:   dispatcher,
		lockTTL:      lockTTL,
		batchPrefix:  batchPrefix,
		logger:       util.GetLogger(),
	}
}

// CreatePickBatchRequest is the validated request to create a pick batch
type CreatePickBatchRequest struct {
	OrderIDs   []string `json:"orderIds" binding:"required,min=1,dive,required"`
	AssignedTo string   `json:"assignedTo" binding:"required"`
	Priority   int      `json:"priority" binding:"omitempty,min=0"`
	ActorID    string   `json:"-"`
}

// PickBatchResult is the created pick list with its items and any
// non-fatal shortfall warnings
type PickBatchResult struct {
	PickList   *models.PickList            `json:"pickList"`
	Items      []models.PickListItemDetail `json:"items"`
	Orders     []models.Order              `json:"orders"`
	Shortfalls []models.ShortfallWarning   `json:"shortfalls,omitempty"`
}

// CreatePickBatch runs the full allocation pipeline: per-order reservation
// of any PENDING order, pick instruction generation for the whole batch, the
// transactional pick list write, the ALLOCATED -> PICKING transitions, and
// the best-effort worker notification.
//
// Reservation is sequential per order; a failure fails the whole request
// naming the offending order, but reservations already committed for earlier
// orders stay committed. Clients retry with the remaining orders; already
// ALLOCATED orders are not re-reserved, so a retry does not double-reserve.
func (s *AllocationService) CreatePickBatch(ctx context.Context, req *CreatePickBatchRequest) (*PickBatchResult, error) {
	ctx, span := util.StartSpan(ctx, "AllocationService.CreatePickBatch")
	defer span.End()

	worker, err := s.store.GetWorkerByID(ctx, req.AssignedTo)
	if err != nil {
		util.PickBatchesFailedTotal.WithLabelValues("invalid_worker").Inc()
		return nil, fmt.Errorf("%s: %w", req.AssignedTo, ErrUnknownWorker)
	}

	actorID := req.ActorID
	if actorID == "" {
		actorID = worker.ID
	}

	// One in-flight allocation per order. The whole batch acquires or
	// nothing does, so two overlapping batches cannot both proceed.
	token := uuid.New().String()
	acquired, err := s.redis.AcquireOrderLocks(ctx, req.OrderIDs, token, s.lockTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire allocation locks: %w", err)
	}
	if !acquired {
		util.PickBatchesFailedTotal.WithLabelValues("order_locked").Inc()
		return nil, ErrOrderLocked
	}
	defer func() {
		releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.redis.ReleaseOrderLocks(releaseCtx, req.OrderIDs, token); err != nil {
			s.logger.Error("Failed to release allocation locks", zap.Error(err))
		}
	}()

	orders, err := s.store.GetOrdersForPicking(ctx, req.OrderIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load orders: %w", err)
	}
	if len(orders) == 0 {
		util.PickBatchesFailedTotal.WithLabelValues("no_eligible_orders").Inc()
		return nil, ErrNoEligibleOrders
	}
	if excluded := len(req.OrderIDs) - len(orders); excluded > 0 {
		s.logger.Info("Orders excluded from batch",
			zap.Int("requested", len(req.OrderIDs)),
			zap.Int("excluded", excluded))
	}

	for i := range orders {
		if orders[i].Status != models.OrderStatusPending {
			continue
		}
		if _, err := s.reservations.Reserve(ctx, orders[i].ID, actorID, store.PolicyThrow); err != nil {
			util.PickBatchesFailedTotal.WithLabelValues("reservation_failed").Inc()
			return nil, fmt.Errorf("allocation failed for order %s: %w", orders[i].ID, err)
		}
		orders[i].Status = models.OrderStatusAllocated
	}

	orderIDs := make([]string, len(orders))
	for i, o := range orders {
		orderIDs[i] = o.ID
	}

	items, err := s.store.GetOrderItemsByOrderIDs(ctx, orderIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load order items: %w", err)
	}

	itemsByOrder := make(map[string][]models.OrderItem)
	variantSet := make(map[string]struct{})
	for _, item := range items {
		itemsByOrder[item.OrderID] = append(itemsByOrder[item.OrderID], item)
		variantSet[item.VariantID] = struct{}{}
	}
	variantIDs := make([]string, 0, len(variantSet))
	for id := range variantSet {
		variantIDs = append(variantIDs, id)
	}

	snapshot, err := s.store.GetInventorySnapshot(ctx, variantIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load inventory snapshot: %w", err)
	}

	batch := make([]OrderWithItems, 0, len(orders))
	for _, o := range orders {
		batch = append(batch, OrderWithItems{Order: o, Items: itemsByOrder[o.ID]})
	}

	drafts, shortfalls := GeneratePickItems(batch, snapshot)
	s.reportShortfalls(ctx, shortfalls)

	header := &models.PickList{
		BatchNumber: s.newBatchNumber(),
		AssignedTo:  worker.ID,
		Priority:    req.Priority,
	}

	writeStart := time.Now()
	pickList, details, err := s.store.CreatePickListTx(ctx, header, drafts, actorID)
	util.BatchWriteLatency.Observe(time.Since(writeStart).Seconds())
	if err != nil {
		util.PickBatchesFailedTotal.WithLabelValues("write_failed").Inc()
		return nil, fmt.Errorf("failed to commit pick list: %w", err)
	}

	for i := range orders {
		notes := fmt.Sprintf("assigned to pick list %s", pickList.BatchNumber)
		if err := s.tracker.Advance(ctx, orders[i].ID, models.OrderStatusAllocated,
			models.OrderStatusPicking, actorID, notes); err != nil {
			return nil, fmt.Errorf("failed to advance order %s to picking: %w", orders[i].ID, err)
		}
		orders[i].Status = models.OrderStatusPicking
	}

	util.PickBatchesCreatedTotal.Inc()
	util.PickListItemsWrittenTotal.Add(float64(len(details)))
	s.logger.Info("Pick batch created",
		zap.String("pick_list_id", pickList.ID),
		zap.String("batch_number", pickList.BatchNumber),
		zap.String("assigned_to", worker.ID),
		zap.Int("orders", len(orders)),
		zap.Int("items", len(details)))

	event := &models.PickBatchCreatedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypePickBatchCreated,
			Timestamp: time.Now(),
		},
		PickListID:  pickList.ID,
		BatchNumber: pickList.BatchNumber,
		AssignedTo:  worker.ID,
		OrderIDs:    orderIDs,
		TotalItems:  pickList.TotalItems,
	}
	if err := s.publisher.PublishPickBatchCreated(ctx, event); err != nil {
		s.logger.Error("Failed to publish PickBatchCreated event", zap.Error(err))
	}

	s.dispatcher.NotifyAssignment(worker.ID, pickList)

	return &PickBatchResult{
		PickList:   pickList,
		Items:      details,
		Orders:     orders,
		Shortfalls: shortfalls,
	}, nil
}

func (s *AllocationService) reportShortfalls(ctx context.Context, shortfalls []models.ShortfallWarning) {
	for _, sf := range shortfalls {
		util.ShortfallUnitsTotal.Add(float64(sf.Missing))
		s.logger.Warn("Inventory shortfall, remainder deferred to backorder",
			zap.String("order_id", sf.OrderID),
			zap.String("variant_id", sf.VariantID),
			zap.Int("missing", sf.Missing))

		event := &models.InventoryShortfallEvent{
			BaseEvent: models.BaseEvent{
				EventID:   uuid.New().String(),
				EventType: models.EventTypeInventoryShortfall,
				Timestamp: time.Now(),
			},
			OrderID:     sf.OrderID,
			OrderItemID: sf.OrderItemID,
			VariantID:   sf.VariantID,
			Missing:     sf.Missing,
		}
		if err := s.publisher.PublishInventoryShortfall(ctx, event); err != nil {
			s.logger.Error("Failed to publish InventoryShortfall event", zap.Error(err))
		}
	}
}

func (s *AllocationService) newBatchNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
	return fmt.Sprintf("%s-%s-%s", s.batchPrefix, time.Now().Format("20060102"), suffix)
}

// GetPickList retrieves one pick list with its items
func (s *AllocationService) GetPickList(ctx context.Context, id string) (*models.PickList, []models.PickListItemDetail, error) {
	return s.store.GetPickListByID(ctx, id)
}

// PickListSummary is one listing entry enriched with progress fields
type PickListSummary struct {
	models.PickList
	CompletionRate float64 `json:"completionRate"`
	ItemsRemaining int     `json:"itemsRemaining"`
}

// PickListPage is one page of the pick list listing
type PickListPage struct {
	PickLists   []PickListSummary `json:"pickLists"`
	TotalPages  int               `json:"totalPages"`
	CurrentPage int               `json:"currentPage"`
	TotalCount  int               `json:"totalCount"`
}

// ListPickLists returns a filtered, paged listing with per-entry completion
// rate and items remaining derived from the item rows
func (s *AllocationService) ListPickLists(ctx context.Context, filter store.PickListFilter) (*PickListPage, error) {
	lists, total, err := s.store.ListPickLists(ctx, filter)
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(lists))
	for i, pl := range lists {
		ids[i] = pl.ID
	}
	progress, err := s.store.GetPickListProgress(ctx, ids)
	if err != nil {
		return nil, err
	}

	summaries := make([]PickListSummary, 0, len(lists))
	for _, pl := range lists {
		p := progress[pl.ID]
		summary := PickListSummary{PickList: pl, ItemsRemaining: p.Total - p.Picked}
		if p.Total > 0 {
			summary.CompletionRate = float64(p.Picked) / float64(p.Total)
		}
		summaries = append(summaries, summary)
	}

	totalPages := (total + filter.Limit - 1) / filter.Limit
	return &PickListPage{
		PickLists:   summaries,
		TotalPages:  totalPages,
		CurrentPage: filter.Page,
		TotalCount:  total,
	}, nil
}
