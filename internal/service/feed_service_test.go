package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pageledger/pageledger-api/internal/config"
	"github.com/pageledger/pageledger-api/internal/domain"
	"github.com/pageledger/pageledger-api/internal/paginate"
	"github.com/pageledger/pageledger-api/internal/platform/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPaginationConfig() config.PaginationConfig {
	return config.PaginationConfig{
		DefaultPageSize:   20,
		MaxPageSize:       100,
		SessionTTLMinutes: 30,
	}
}

func newTestFeedService(t *testing.T) *feedServiceImpl {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ds := memory.NewDatasetStore(logger)
	svc, err := NewFeedService(ds, ds, testPaginationConfig(), logger)
	require.NoError(t, err)
	t.Cleanup(svc.Stop)
	return svc.(*feedServiceImpl)
}

func seedDataset(t *testing.T, svc FeedService, n int) *domain.Dataset {
	t.Helper()
	ctx := context.Background()
	dataset, err := svc.CreateDataset(ctx, "events")
	require.NoError(t, err)
	for i := 0; i < n; i++ {
		_, err := svc.AppendItem(ctx, dataset.ID, json.RawMessage(fmt.Sprintf(`{"n":%d}`, i)))
		require.NoError(t, err)
	}
	return dataset
}

func identities(items []*domain.Item) []int64 {
	ids := make([]int64, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.Identity)
	}
	return ids
}

func TestNewFeedService_NilStores(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ds := memory.NewDatasetStore(logger)

	_, err := NewFeedService(nil, ds, testPaginationConfig(), logger)
	assert.Error(t, err)

	_, err = NewFeedService(ds, nil, testPaginationConfig(), logger)
	assert.Error(t, err)
}

func TestCreateDataset_InvalidName(t *testing.T) {
	svc := newTestFeedService(t)

	_, err := svc.CreateDataset(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrEmptyDatasetName)
}

func TestGetDataset_NotFound(t *testing.T) {
	svc := newTestFeedService(t)

	_, err := svc.GetDataset(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrDatasetNotFound)
}

func TestCursorSession_SurvivesDeletion(t *testing.T) {
	svc := newTestFeedService(t)
	ctx := context.Background()
	dataset := seedDataset(t, svc, 5)

	cursorID, err := svc.OpenCursor(ctx, dataset.ID)
	require.NoError(t, err)

	items, pos, err := svc.FetchNext(ctx, cursorID, 2)
	require.NoError(t, err)
	assert.Equal(t, []int64{0, 1}, identities(items))
	assert.Equal(t, int64(2), pos)

	require.NoError(t, svc.DeleteItem(ctx, dataset.ID, 2))

	items, pos, err = svc.FetchNext(ctx, cursorID, 2)
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 4}, identities(items))
	assert.Equal(t, int64(5), pos)

	// Exhausted: empty pages leave the cursor in place.
	items, pos, err = svc.FetchNext(ctx, cursorID, 2)
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Equal(t, int64(5), pos)

	// A later append becomes visible to the same session.
	_, err = svc.AppendItem(ctx, dataset.ID, json.RawMessage(`{"n":5}`))
	require.NoError(t, err)

	items, _, err = svc.FetchNext(ctx, cursorID, 2)
	require.NoError(t, err)
	assert.Equal(t, []int64{5}, identities(items))
}

func TestFetchNext_Errors(t *testing.T) {
	svc := newTestFeedService(t)
	ctx := context.Background()
	dataset := seedDataset(t, svc, 3)

	cursorID, err := svc.OpenCursor(ctx, dataset.ID)
	require.NoError(t, err)

	_, _, err = svc.FetchNext(ctx, uuid.New(), 2)
	assert.ErrorIs(t, err, ErrCursorNotFound)

	_, _, err = svc.FetchNext(ctx, cursorID, 0)
	assert.ErrorIs(t, err, paginate.ErrInvalidPageSize)

	_, _, err = svc.FetchNext(ctx, cursorID, 101)
	assert.ErrorIs(t, err, ErrPageSizeTooLarge)
}

func TestOpenCursor_DatasetMissing(t *testing.T) {
	svc := newTestFeedService(t)

	_, err := svc.OpenCursor(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrDatasetNotFound)
}

func TestCloseCursor(t *testing.T) {
	svc := newTestFeedService(t)
	ctx := context.Background()
	dataset := seedDataset(t, svc, 1)

	cursorID, err := svc.OpenCursor(ctx, dataset.ID)
	require.NoError(t, err)

	require.NoError(t, svc.CloseCursor(ctx, cursorID))
	assert.ErrorIs(t, svc.CloseCursor(ctx, cursorID), ErrCursorNotFound)

	_, _, err = svc.FetchNext(ctx, cursorID, 1)
	assert.ErrorIs(t, err, ErrCursorNotFound)
}

func TestDeleteDataset_DropsCursorSessions(t *testing.T) {
	svc := newTestFeedService(t)
	ctx := context.Background()
	dataset := seedDataset(t, svc, 2)

	cursorID, err := svc.OpenCursor(ctx, dataset.ID)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteDataset(ctx, dataset.ID))

	_, _, err = svc.FetchNext(ctx, cursorID, 1)
	assert.ErrorIs(t, err, ErrCursorNotFound)
}

func TestOffsetPage(t *testing.T) {
	svc := newTestFeedService(t)
	ctx := context.Background()
	dataset := seedDataset(t, svc, 23)

	page, err := svc.OffsetPage(ctx, dataset.ID, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 10, page.PageSize)
	assert.Equal(t, 3, page.TotalPages)
	require.NotNil(t, page.NextPage)
	assert.Equal(t, 2, *page.NextPage)
	assert.Nil(t, page.PrevPage)

	last, err := svc.OffsetPage(ctx, dataset.ID, 3, 10)
	require.NoError(t, err)
	assert.Equal(t, 3, last.PageSize)
	assert.Nil(t, last.NextPage)

	// The offset view is positional, not identity-based: after a deletion
	// the item that used to open page 2 slides back into page 1.
	require.NoError(t, svc.DeleteItem(ctx, dataset.ID, 0))
	shifted, err := svc.OffsetPage(ctx, dataset.ID, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(10), shifted.Data[9].Identity)

	_, err = svc.OffsetPage(ctx, dataset.ID, 1, 101)
	assert.ErrorIs(t, err, ErrPageSizeTooLarge)

	// Non-positive sizes come back silently empty.
	empty, err := svc.OffsetPage(ctx, dataset.ID, 1, 0)
	require.NoError(t, err)
	assert.Empty(t, empty.Data)
}

func TestSweepExpired(t *testing.T) {
	svc := newTestFeedService(t)
	ctx := context.Background()
	dataset := seedDataset(t, svc, 1)

	staleID, err := svc.OpenCursor(ctx, dataset.ID)
	require.NoError(t, err)
	freshID, err := svc.OpenCursor(ctx, dataset.ID)
	require.NoError(t, err)

	svc.mu.Lock()
	svc.sessions[staleID].lastUsed = time.Now().Add(-time.Hour)
	svc.mu.Unlock()

	svc.sweepExpired(time.Now())

	_, _, err = svc.FetchNext(ctx, staleID, 1)
	assert.ErrorIs(t, err, ErrCursorNotFound)

	_, _, err = svc.FetchNext(ctx, freshID, 1)
	assert.NoError(t, err)
}
