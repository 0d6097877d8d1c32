package service

import (
	"context"
	"fmt"

	"fulfillment-service/internal/models"
	"fulfillment-service/internal/redisclient"
	"fulfillment-service/internal/store"
	"fulfillment-service/internal/util"

	"go.uber.org/zap"
)

// InventoryCache mirrors per-location availability into Redis as a
// diagnostic hint. The Postgres ledger remains the single source of truth
// for every reservation decision.
type InventoryCache struct {
	store  *store.Store
	redis  *redisclient.Client
	logger *zap.Logger
}

// NewInventoryCache creates a new inventory cache
func NewInventoryCache(st *store.Store, redis *redisclient.Client) *InventoryCache {
	return &InventoryCache{
		store:  st,
		redis:  redis,
		logger: util.GetLogger(),
	}
}

// SyncToRedis snapshots every ledger row's availability into Redis
func (c *InventoryCache) SyncToRedis(ctx context.Context) error {
	records, err := c.store.GetAllInventory(ctx)
	if err != nil {
		return fmt.Errorf("failed to load inventory: %w", err)
	}

	for _, rec := range records {
		if err := c.redis.SetAvailability(ctx, rec.VariantID, rec.LocationID, rec.Available()); err != nil {
			c.logger.Error("Failed to cache availability",
				zap.String("variant_id", rec.VariantID),
				zap.String("location_id", rec.LocationID),
				zap.Error(err))
		}
	}

	c.logger.Info("Inventory availability synced to Redis", zap.Int("records", len(records)))
	return nil
}

// Ledger retrieves the authoritative ledger rows for one variant
func (c *InventoryCache) Ledger(ctx context.Context, variantID string) ([]models.InventoryRecord, error) {
	return c.store.GetInventoryByVariant(ctx, variantID)
}
