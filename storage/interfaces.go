package storage

import (
	"context"

	"github.com/poiesic/docquery/core"
)

// Repository provides common storage operations shared across all repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	// The context passed to fn may contain transaction state.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the storage backend and releases resources.
	Close() error
}

// EvidenceRepository provides operations for managing evidence units.
type EvidenceRepository interface {
	Repository
	// AddEvidenceUnits adds one or more evidence units to storage.
	// For units with ID=0, derives a content-based ID from the unit fingerprint.
	// Sets InsertedAt timestamp if not already set.
	// Returns the units with IDs and timestamps populated.
	AddEvidenceUnits(ctx context.Context, units ...*core.EvidenceUnit) ([]*core.EvidenceUnit, error)

	// DeleteEvidenceUnits removes evidence units by their IDs.
	// Also removes associated source indices.
	// Returns ErrNotFound if any unit doesn't exist.
	DeleteEvidenceUnits(ctx context.Context, ids ...core.ID) error

	// GetEvidenceUnit retrieves a single evidence unit by ID.
	// Returns ErrNotFound if the unit doesn't exist.
	GetEvidenceUnit(ctx context.Context, id core.ID) (*core.EvidenceUnit, error)

	// GetEvidenceUnits retrieves multiple evidence units by their IDs.
	// Returns only the units that exist (no error for missing units).
	GetEvidenceUnits(ctx context.Context, ids ...core.ID) ([]*core.EvidenceUnit, error)

	// GetEvidenceUnitsBySource retrieves all units chunked from one source
	// file, ordered by sequence index.
	GetEvidenceUnitsBySource(ctx context.Context, sourceFilename string) ([]*core.EvidenceUnit, error)

	// Search finds evidence units similar to the given vector.
	// Returns up to limit results ordered by distance (lowest first).
	Search(ctx context.Context, vector []float32, limit int) ([]core.ScoredUnit, error)

	// Count returns the number of stored evidence units.
	Count(ctx context.Context) (int, error)

	// Clear removes all evidence units and their indices.
	Clear(ctx context.Context) error
}
