package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository implements the spatial data store on PostgreSQL with PostGIS.
// Every method is safe for concurrent use; connections come from the pool per query.
type Repository struct {
	db *pgxpool.Pool

	schemaMu    sync.Mutex
	schemaReady bool
}

// NewRepository creates a new PostgreSQL repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Ping checks that the database is reachable.
func (r *Repository) Ping(ctx context.Context) error {
	if err := r.db.Ping(ctx); err != nil {
		return fmt.Errorf("repository: ping failed: %w", err)
	}
	return nil
}
