package store

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/pageledger/pageledger-api/internal/domain"
)

// ItemStore defines the interface for item persistence.
//
// Identity contract (every implementation must honor it):
//   - Append assigns identity max+1, starting at 0 for an empty dataset.
//     Assignment is atomic; two concurrent appends never share an identity.
//   - Delete tombstones a slot. It never renumbers surviving items and the
//     freed identity is never handed out again.
//   - MaxIdentity reports the highest identity ever assigned, which only
//     grows; deletions do not lower it.
type ItemStore interface {
	// Append stores a new item at the next identity of the dataset and
	// returns the stored item, identity populated.
	// Returns ErrDatasetNotFound if the dataset does not exist and
	// ErrInvalidEntity if the payload fails domain validation.
	Append(ctx context.Context, datasetID uuid.UUID, payload json.RawMessage) (*domain.Item, error)

	// DeleteItem tombstones the live item at the given identity.
	// Returns ErrItemNotFound if no live item occupies that identity.
	DeleteItem(ctx context.Context, datasetID uuid.UUID, identity int64) error

	// Item returns the live item at the given identity. The boolean reports
	// whether a live item exists there; deleted and never-assigned slots
	// both report false without an error.
	Item(ctx context.Context, datasetID uuid.UUID, identity int64) (*domain.Item, bool, error)

	// MaxIdentity returns the highest identity ever assigned in the dataset,
	// or -1 when nothing has been appended yet.
	// Returns ErrDatasetNotFound if the dataset does not exist.
	MaxIdentity(ctx context.Context, datasetID uuid.UUID) (int64, error)

	// Live returns all live items of the dataset in identity order. This
	// feeds the offset-based page view, which operates on the shifting live
	// sequence by design.
	Live(ctx context.Context, datasetID uuid.UUID) ([]*domain.Item, error)
}
