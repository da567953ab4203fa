package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/pageledger/pageledger-api/internal/domain"
	"github.com/pageledger/pageledger-api/internal/store"
)

// DatasetStore is an in-memory implementation of store.DatasetStore and
// store.ItemStore. Datasets and their item arenas live in one structure so
// deleting a dataset can drop its items atomically.
type DatasetStore struct {
	mu       sync.RWMutex
	logger   *slog.Logger
	datasets map[uuid.UUID]*datasetState
}

// datasetState pairs a dataset's metadata with its item arena. A nil slot
// is a tombstone; slot index is item identity.
type datasetState struct {
	dataset *domain.Dataset
	slots   []*domain.Item
}

// NewDatasetStore creates an empty in-memory dataset/item store.
// If logger is nil, the default logger is used.
func NewDatasetStore(logger *slog.Logger) *DatasetStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &DatasetStore{
		logger:   logger.With(slog.String("component", "memory_dataset_store")),
		datasets: make(map[uuid.UUID]*datasetState),
	}
}

// Interface conformance checks.
var (
	_ store.DatasetStore = (*DatasetStore)(nil)
	_ store.ItemStore    = (*DatasetStore)(nil)
)

// Create implements store.DatasetStore.Create.
func (s *DatasetStore) Create(ctx context.Context, dataset *domain.Dataset) error {
	if err := dataset.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.datasets[dataset.ID]; exists {
		return store.ErrDuplicate
	}

	copied := *dataset
	s.datasets[dataset.ID] = &datasetState{dataset: &copied}

	s.logger.Debug("dataset created",
		slog.String("dataset_id", dataset.ID.String()),
		slog.String("name", dataset.Name))
	return nil
}

// GetByID implements store.DatasetStore.GetByID.
func (s *DatasetStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state, ok := s.datasets[id]
	if !ok {
		return nil, store.ErrDatasetNotFound
	}

	copied := *state.dataset
	return &copied, nil
}

// List implements store.DatasetStore.List.
func (s *DatasetStore) List(ctx context.Context) ([]*domain.Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	datasets := make([]*domain.Dataset, 0, len(s.datasets))
	for _, state := range s.datasets {
		copied := *state.dataset
		datasets = append(datasets, &copied)
	}

	// Map iteration order is random; present datasets oldest first.
	sort.Slice(datasets, func(i, j int) bool {
		return datasets[i].CreatedAt.Before(datasets[j].CreatedAt)
	})

	return datasets, nil
}

// Delete implements store.DatasetStore.Delete. The item arena goes with the
// dataset.
func (s *DatasetStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.datasets[id]; !ok {
		return store.ErrDatasetNotFound
	}

	delete(s.datasets, id)

	s.logger.Debug("dataset deleted", slog.String("dataset_id", id.String()))
	return nil
}

// Append implements store.ItemStore.Append. The new item's identity is the
// arena length, so identities start at 0 and grow by one per append with no
// reuse ever.
func (s *DatasetStore) Append(ctx context.Context, datasetID uuid.UUID, payload json.RawMessage) (*domain.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.datasets[datasetID]
	if !ok {
		return nil, store.ErrDatasetNotFound
	}

	item, err := domain.NewItem(datasetID, int64(len(state.slots)), payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	state.slots = append(state.slots, item)

	s.logger.Debug("item appended",
		slog.String("dataset_id", datasetID.String()),
		slog.Int64("identity", item.Identity))

	copied := *item
	return &copied, nil
}

// DeleteItem implements store.ItemStore.DeleteItem by tombstoning the slot.
// The arena never shrinks and no identity is renumbered.
func (s *DatasetStore) DeleteItem(ctx context.Context, datasetID uuid.UUID, identity int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.datasets[datasetID]
	if !ok {
		return store.ErrDatasetNotFound
	}

	if identity < 0 || identity >= int64(len(state.slots)) || state.slots[identity] == nil {
		return store.ErrItemNotFound
	}

	state.slots[identity] = nil

	s.logger.Debug("item tombstoned",
		slog.String("dataset_id", datasetID.String()),
		slog.Int64("identity", identity))
	return nil
}

// Item implements store.ItemStore.Item.
func (s *DatasetStore) Item(ctx context.Context, datasetID uuid.UUID, identity int64) (*domain.Item, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state, ok := s.datasets[datasetID]
	if !ok {
		return nil, false, store.ErrDatasetNotFound
	}

	if identity < 0 || identity >= int64(len(state.slots)) || state.slots[identity] == nil {
		return nil, false, nil
	}

	copied := *state.slots[identity]
	return &copied, true, nil
}

// MaxIdentity implements store.ItemStore.MaxIdentity.
func (s *DatasetStore) MaxIdentity(ctx context.Context, datasetID uuid.UUID) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state, ok := s.datasets[datasetID]
	if !ok {
		return 0, store.ErrDatasetNotFound
	}

	return int64(len(state.slots)) - 1, nil
}

// Live implements store.ItemStore.Live.
func (s *DatasetStore) Live(ctx context.Context, datasetID uuid.UUID) ([]*domain.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state, ok := s.datasets[datasetID]
	if !ok {
		return nil, store.ErrDatasetNotFound
	}

	items := make([]*domain.Item, 0, len(state.slots))
	for _, slot := range state.slots {
		if slot == nil {
			continue
		}
		copied := *slot
		items = append(items, &copied)
	}

	return items, nil
}
