package repository

import (
	"context"
	"database/sql"

	"github.com/itemguard/moderation-api/internal/models"
)

// ItemRepository defines the interface for listing data access
type ItemRepository interface {
	// GetItemWithSeller resolves an item id to a full listing joined with
	// its seller's verification flag. Returns (nil, nil) when the item
	// does not exist; a non-nil error means the store is unreachable or
	// the query failed.
	GetItemWithSeller(ctx context.Context, itemID int64) (*models.Listing, error)
}

// ModelRegistryRepository defines the interface for the versioned model
// registry, keyed by (model name, stage)
type ModelRegistryRepository interface {
	// GetLatestVersion returns the newest version of a model in the given
	// stage, or (nil, nil) when no such version exists.
	GetLatestVersion(ctx context.Context, modelName, stage string) (*ModelVersion, error)

	// CreateVersion registers a new artifact under the next version number
	// for the model name, in stage None.
	CreateVersion(ctx context.Context, modelName string, artifact []byte) (*ModelVersion, error)

	// TransitionStage moves a version into the given stage. Moving into
	// Production demotes any current Production version for the model.
	TransitionStage(ctx context.Context, modelName string, version int, stage string) error
}

// Repositories groups all repository interfaces
type Repositories struct {
	Items    ItemRepository
	Registry ModelRegistryRepository
}

// NewRepositories creates a new repository collection
func NewRepositories(db *sql.DB) *Repositories {
	return &Repositories{
		Items:    NewItemRepository(db),
		Registry: NewModelRegistryRepository(db),
	}
}

// dbExecutor is an interface that both *sql.DB and *sql.Tx implement
type dbExecutor interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}
