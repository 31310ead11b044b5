package ports

import (
	"context"

	"github.com/hawkeye-rf/emflow/pkg/domain"
)

// RunStore persists run records so that history survives the process.
type RunStore interface {
	// Save persists (creates or replaces) the record under rec.ID.
	Save(ctx context.Context, rec *domain.RunRecord) error

	// Load retrieves a record.
	// Returns domain.ErrRunNotFound if the run does not exist.
	Load(ctx context.Context, runID string) (*domain.RunRecord, error)

	// Delete removes a record. Deleting a missing record is not an error.
	Delete(ctx context.Context, runID string) error

	// List returns the IDs of stored runs.
	List(ctx context.Context) ([]string, error)
}
