package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"fulfillment-service/internal/models"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// Sentinel errors surfaced across the store API. Callers match them with
// errors.Is to map failures to HTTP statuses.
var (
	ErrInsufficientInventory = errors.New("insufficient inventory")
	ErrOrderNotReservable    = errors.New("order has no unreserved line items")
	ErrWriteConsistency      = errors.New("pick list write consistency check failed")
	ErrInvalidTransition     = errors.New("invalid order status transition")
)

type Store struct {
	db *sqlx.DB
}

// NewStore creates a new database store
func NewStore(databaseURL string) (*Store, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// GetDB returns the underlying database connection
func (s *Store) GetDB() *sqlx.DB {
	return s.db
}

// GetWorkerByID retrieves an active worker by ID
func (s *Store) GetWorkerByID(ctx context.Context, id string) (*models.Worker, error) {
	var worker models.Worker
	err := s.db.GetContext(ctx, &worker, "SELECT * FROM workers WHERE id = $1 AND active = true", id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("worker not found or inactive: %s", id)
	}
	if err != nil {
		return nil, err
	}
	return &worker, nil
}

// GetVariantsByIDs retrieves multiple product variants by IDs
func (s *Store) GetVariantsByIDs(ctx context.Context, ids []string) ([]models.ProductVariant, error) {
	if len(ids) == 0 {
		return []models.ProductVariant{}, nil
	}

	query, args, err := sqlx.In("SELECT * FROM product_variants WHERE id IN (?)", ids)
	if err != nil {
		return nil, err
	}
	query = s.db.Rebind(query)

	var variants []models.ProductVariant
	err = s.db.SelectContext(ctx, &variants, query, args...)
	return variants, err
}

// GetLocationByID retrieves a storage location by ID
func (s *Store) GetLocationByID(ctx context.Context, id string) (*models.Location, error) {
	var loc models.Location
	err := s.db.GetContext(ctx, &loc, "SELECT * FROM locations WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("location not found: %s", id)
	}
	if err != nil {
		return nil, err
	}
	return &loc, nil
}
