package redisclient

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

//go:embed scripts/acquire_order_locks.lua
var acquireOrderLocksScript string

//go:embed scripts/release_order_locks.lua
var releaseOrderLocksScript string

type Client struct {
	rdb           *redis.Client
	acquireScript *redis.Script
	releaseScript *redis.Script
}

// NewClient creates a new Redis client with Lua scripts loaded
func NewClient(addr, password string, db int) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{
		rdb:           rdb,
		acquireScript: redis.NewScript(acquireOrderLocksScript),
		releaseScript: redis.NewScript(releaseOrderLocksScript),
	}, nil
}

// GetClient returns the underlying Redis client
func (c *Client) GetClient() *redis.Client {
	return c.rdb
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

func orderLockKey(orderID string) string {
	return fmt.Sprintf("alloc-lock:order:%s", orderID)
}

// AcquireOrderLocks atomically acquires allocation locks for every order in
// the batch, or none of them. Returns false when any order is already being
// allocated by another request.
func (c *Client) AcquireOrderLocks(ctx context.Context, orderIDs []string, token string, ttl time.Duration) (bool, error) {
	if len(orderIDs) == 0 {
		return true, nil
	}

	keys := make([]string, len(orderIDs))
	for i, id := range orderIDs {
		keys[i] = orderLockKey(id)
	}

	result, err := c.acquireScript.Run(ctx, c.rdb, keys, token, int(ttl.Seconds())).Result()
	if err != nil {
		return false, fmt.Errorf("acquire order locks script failed: %w", err)
	}

	acquired, ok := result.(int64)
	if !ok {
		return false, fmt.Errorf("unexpected script result type")
	}

	return acquired == 1, nil
}

// ReleaseOrderLocks releases the batch's allocation locks still held by token
func (c *Client) ReleaseOrderLocks(ctx context.Context, orderIDs []string, token string) error {
	if len(orderIDs) == 0 {
		return nil
	}

	keys := make([]string, len(orderIDs))
	for i, id := range orderIDs {
		keys[i] = orderLockKey(id)
	}

	if _, err := c.releaseScript.Run(ctx, c.rdb, keys, token).Result(); err != nil {
		return fmt.Errorf("release order locks script failed: %w", err)
	}

	return nil
}

func availabilityKey(variantID string) string {
	return fmt.Sprintf("availability:%s", variantID)
}

// SetAvailability caches the available quantity of a variant at a location.
// The cache is a diagnostic hint; the Postgres ledger stays authoritative.
func (c *Client) SetAvailability(ctx context.Context, variantID, locationID string, available int) error {
	return c.rdb.HSet(ctx, availabilityKey(variantID), locationID, available).Err()
}

// GetAvailability retrieves the cached per-location availability of a variant
func (c *Client) GetAvailability(ctx context.Context, variantID string) (map[string]string, error) {
	result, err := c.rdb.HGetAll(ctx, availabilityKey(variantID)).Result()
	if err != nil {
		return nil, err
	}
	return result, nil
}
