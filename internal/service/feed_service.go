package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pageledger/pageledger-api/internal/config"
	"github.com/pageledger/pageledger-api/internal/domain"
	"github.com/pageledger/pageledger-api/internal/paginate"
	"github.com/pageledger/pageledger-api/internal/store"
)

// FeedService provides dataset management and both page views over a
// dataset's items: the stateless offset view and stateful,
// deletion-resilient cursor sessions.
type FeedService interface {
	// CreateDataset creates an empty dataset with the given name.
	CreateDataset(ctx context.Context, name string) (*domain.Dataset, error)

	// GetDataset retrieves a dataset by ID.
	GetDataset(ctx context.Context, id uuid.UUID) (*domain.Dataset, error)

	// ListDatasets returns all datasets ordered by creation time.
	ListDatasets(ctx context.Context) ([]*domain.Dataset, error)

	// DeleteDataset removes a dataset, its items, and any open cursor
	// sessions over it.
	DeleteDataset(ctx context.Context, id uuid.UUID) error

	// AppendItem stores payload at the dataset's next identity.
	AppendItem(ctx context.Context, datasetID uuid.UUID, payload json.RawMessage) (*domain.Item, error)

	// DeleteItem tombstones the live item at the given identity.
	DeleteItem(ctx context.Context, datasetID uuid.UUID, identity int64) error

	// OffsetPage returns one hypermedia page of the dataset's live items.
	// The view is positional: deletions shift later items into earlier
	// pages, so readers paging across mutations may miss items.
	OffsetPage(ctx context.Context, datasetID uuid.UUID, page, pageSize int) (paginate.HyperPage[*domain.Item], error)

	// OpenCursor starts a cursor session over the dataset and returns its ID.
	OpenCursor(ctx context.Context, datasetID uuid.UUID) (uuid.UUID, error)

	// FetchNext returns the next page of the cursor session along with the
	// session's cursor position after the fetch. Deleted items are skipped,
	// and no live item is returned twice across the session's lifetime.
	FetchNext(ctx context.Context, cursorID uuid.UUID, pageSize int) ([]*domain.Item, int64, error)

	// CloseCursor discards a cursor session.
	CloseCursor(ctx context.Context, cursorID uuid.UUID) error

	// Stop shuts down the session janitor.
	Stop()
}

// cursorSession is one open cursor over a dataset.
type cursorSession struct {
	datasetID uuid.UUID
	paginator *paginate.Paginator[*domain.Item]
	lastUsed  time.Time
}

// itemSource adapts an ItemStore to the paginate.Source contract for a
// single dataset.
type itemSource struct {
	items     store.ItemStore
	datasetID uuid.UUID
}

func (s itemSource) Item(ctx context.Context, identity int64) (*domain.Item, bool, error) {
	return s.items.Item(ctx, s.datasetID, identity)
}

func (s itemSource) MaxIdentity(ctx context.Context) (int64, error) {
	return s.items.MaxIdentity(ctx, s.datasetID)
}

// feedServiceImpl implements the FeedService interface.
type feedServiceImpl struct {
	datasets store.DatasetStore
	items    store.ItemStore
	cfg      config.PaginationConfig
	logger   *slog.Logger

	mu       sync.Mutex
	sessions map[uuid.UUID]*cursorSession

	timeFunc func() time.Time // injectable for testing
	stopOnce sync.Once
	stopCh   chan struct{}
}

// NewFeedService creates a FeedService and starts its session janitor.
// It returns an error if any of the required dependencies are nil.
func NewFeedService(
	datasets store.DatasetStore,
	items store.ItemStore,
	cfg config.PaginationConfig,
	logger *slog.Logger,
) (FeedService, error) {
	if datasets == nil {
		return nil, &FeedServiceError{
			Operation: "create_service",
			Message:   "datasets store cannot be nil",
		}
	}
	if items == nil {
		return nil, &FeedServiceError{
			Operation: "create_service",
			Message:   "items store cannot be nil",
		}
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &feedServiceImpl{
		datasets: datasets,
		items:    items,
		cfg:      cfg,
		logger:   logger.With("component", "feed_service"),
		sessions: make(map[uuid.UUID]*cursorSession),
		timeFunc: time.Now,
		stopCh:   make(chan struct{}),
	}
	go s.janitor()
	return s, nil
}

// CreateDataset creates an empty dataset with the given name.
func (s *feedServiceImpl) CreateDataset(ctx context.Context, name string) (*domain.Dataset, error) {
	dataset, err := domain.NewDataset(name)
	if err != nil {
		s.logger.Debug("rejected dataset", "error", err, "name", name)
		return nil, newFeedServiceError("create_dataset", "invalid dataset", err)
	}

	if err := s.datasets.Create(ctx, dataset); err != nil {
		s.logger.Error("failed to create dataset",
			"error", err,
			"dataset_id", dataset.ID)
		return nil, newFeedServiceError("create_dataset", "failed to save dataset", err)
	}

	s.logger.Info("dataset created", "dataset_id", dataset.ID, "name", dataset.Name)
	return dataset, nil
}

// GetDataset retrieves a dataset by ID.
func (s *feedServiceImpl) GetDataset(ctx context.Context, id uuid.UUID) (*domain.Dataset, error) {
	dataset, err := s.datasets.GetByID(ctx, id)
	if err != nil {
		return nil, newFeedServiceError("get_dataset", "failed to load dataset", err)
	}
	return dataset, nil
}

// ListDatasets returns all datasets ordered by creation time.
func (s *feedServiceImpl) ListDatasets(ctx context.Context) ([]*domain.Dataset, error) {
	datasets, err := s.datasets.List(ctx)
	if err != nil {
		return nil, newFeedServiceError("list_datasets", "failed to list datasets", err)
	}
	return datasets, nil
}

// DeleteDataset removes a dataset along with any cursor sessions over it.
func (s *feedServiceImpl) DeleteDataset(ctx context.Context, id uuid.UUID) error {
	if err := s.datasets.Delete(ctx, id); err != nil {
		return newFeedServiceError("delete_dataset", "failed to delete dataset", err)
	}

	s.mu.Lock()
	for cursorID, session := range s.sessions {
		if session.datasetID == id {
			delete(s.sessions, cursorID)
		}
	}
	s.mu.Unlock()

	s.logger.Info("dataset deleted", "dataset_id", id)
	return nil
}

// AppendItem stores payload at the dataset's next identity.
func (s *feedServiceImpl) AppendItem(
	ctx context.Context,
	datasetID uuid.UUID,
	payload json.RawMessage,
) (*domain.Item, error) {
	item, err := s.items.Append(ctx, datasetID, payload)
	if err != nil {
		s.logger.Error("failed to append item",
			"error", err,
			"dataset_id", datasetID)
		return nil, newFeedServiceError("append_item", "failed to append item", err)
	}

	s.logger.Debug("item appended",
		"dataset_id", datasetID,
		"identity", item.Identity)
	return item, nil
}

// DeleteItem tombstones the live item at the given identity.
func (s *feedServiceImpl) DeleteItem(ctx context.Context, datasetID uuid.UUID, identity int64) error {
	if err := s.items.DeleteItem(ctx, datasetID, identity); err != nil {
		return newFeedServiceError("delete_item", "failed to delete item", err)
	}

	s.logger.Debug("item deleted",
		"dataset_id", datasetID,
		"identity", identity)
	return nil
}

// OffsetPage returns one hypermedia page of the dataset's live items.
// A non-positive page or page size yields an empty page rather than an
// error; this mirrors the long-standing contract of the offset view.
func (s *feedServiceImpl) OffsetPage(
	ctx context.Context,
	datasetID uuid.UUID,
	page, pageSize int,
) (paginate.HyperPage[*domain.Item], error) {
	if pageSize > s.cfg.MaxPageSize {
		return paginate.HyperPage[*domain.Item]{}, ErrPageSizeTooLarge
	}

	live, err := s.items.Live(ctx, datasetID)
	if err != nil {
		return paginate.HyperPage[*domain.Item]{}, newFeedServiceError(
			"offset_page", "failed to load live items", err)
	}

	return paginate.GetHyperPage(live, page, pageSize), nil
}

// OpenCursor starts a cursor session over the dataset.
func (s *feedServiceImpl) OpenCursor(ctx context.Context, datasetID uuid.UUID) (uuid.UUID, error) {
	if _, err := s.datasets.GetByID(ctx, datasetID); err != nil {
		return uuid.Nil, newFeedServiceError("open_cursor", "failed to load dataset", err)
	}

	cursorID := uuid.New()
	session := &cursorSession{
		datasetID: datasetID,
		paginator: paginate.NewPaginator[*domain.Item](itemSource{items: s.items, datasetID: datasetID}),
		lastUsed:  s.timeFunc(),
	}

	s.mu.Lock()
	s.sessions[cursorID] = session
	s.mu.Unlock()

	s.logger.Info("cursor opened",
		"cursor_id", cursorID,
		"dataset_id", datasetID)
	return cursorID, nil
}

// FetchNext returns the next page of a cursor session.
func (s *feedServiceImpl) FetchNext(
	ctx context.Context,
	cursorID uuid.UUID,
	pageSize int,
) ([]*domain.Item, int64, error) {
	if pageSize > s.cfg.MaxPageSize {
		return nil, 0, ErrPageSizeTooLarge
	}

	s.mu.Lock()
	session, ok := s.sessions[cursorID]
	if ok {
		session.lastUsed = s.timeFunc()
	}
	s.mu.Unlock()
	if !ok {
		return nil, 0, ErrCursorNotFound
	}

	items, err := session.paginator.FetchPage(ctx, pageSize)
	if err != nil {
		if errors.Is(err, paginate.ErrInvalidPageSize) {
			return nil, 0, err
		}
		return nil, 0, newFeedServiceError("fetch_next", "failed to fetch page", err)
	}

	position := session.paginator.Cursor()
	s.logger.Debug("cursor page fetched",
		"cursor_id", cursorID,
		"dataset_id", session.datasetID,
		"items", len(items),
		"position", position)
	return items, position, nil
}

// CloseCursor discards a cursor session.
func (s *feedServiceImpl) CloseCursor(ctx context.Context, cursorID uuid.UUID) error {
	s.mu.Lock()
	_, ok := s.sessions[cursorID]
	delete(s.sessions, cursorID)
	s.mu.Unlock()

	if !ok {
		return ErrCursorNotFound
	}

	s.logger.Info("cursor closed", "cursor_id", cursorID)
	return nil
}

// Stop shuts down the session janitor.
func (s *feedServiceImpl) Stop() {
	s.stopOnce.Do(func() { close(s.stopCh) })
}

// janitor periodically discards cursor sessions idle beyond the configured TTL.
func (s *feedServiceImpl) janitor() {
	ttl := time.Duration(s.cfg.SessionTTLMinutes) * time.Minute
	interval := ttl / 4
	if interval < time.Minute {
		interval = time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
			s.sweepExpired(s.timeFunc())
		}
	}
}

// sweepExpired removes sessions whose last use is older than the TTL.
func (s *feedServiceImpl) sweepExpired(now time.Time) {
	ttl := time.Duration(s.cfg.SessionTTLMinutes) * time.Minute
	cutoff := now.Add(-ttl)

	s.mu.Lock()
	defer s.mu.Unlock()
	for cursorID, session := range s.sessions {
		if session.lastUsed.Before(cutoff) {
			delete(s.sessions, cursorID)
			s.logger.Info("cursor expired",
				"cursor_id", cursorID,
				"dataset_id", session.datasetID,
				"last_used", session.lastUsed)
		}
	}
}
