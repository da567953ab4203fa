package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/pageledger/pageledger-api/internal/domain"
)

// DatasetStore defines the interface for dataset persistence.
type DatasetStore interface {
	// Create saves a new dataset. The dataset must be valid according to
	// domain validation rules.
	// Returns ErrDuplicate if a dataset with the same ID already exists.
	Create(ctx context.Context, dataset *domain.Dataset) error

	// GetByID retrieves a dataset by its unique ID.
	// Returns ErrDatasetNotFound if the dataset does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Dataset, error)

	// List returns all datasets ordered by creation time.
	List(ctx context.Context) ([]*domain.Dataset, error)

	// Delete removes a dataset and everything it contains.
	// Returns ErrDatasetNotFound if the dataset does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}
