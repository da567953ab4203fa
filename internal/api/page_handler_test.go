package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/pageledger/pageledger-api/internal/domain"
	"github.com/pageledger/pageledger-api/internal/paginate"
	"github.com/pageledger/pageledger-api/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pageRouter(h *PageHandler) http.Handler {
	r := chi.NewRouter()
	r.Get("/api/datasets/{datasetID}/page", h.GetPage)
	r.Post("/api/datasets/{datasetID}/cursors", h.OpenCursor)
	r.Post("/api/cursors/{cursorID}/next", h.FetchNext)
	r.Delete("/api/cursors/{cursorID}", h.CloseCursor)
	return r
}

func testItems(datasetID uuid.UUID, identities ...int64) []*domain.Item {
	items := make([]*domain.Item, 0, len(identities))
	for _, id := range identities {
		items = append(items, &domain.Item{
			DatasetID: datasetID,
			Identity:  id,
			Payload:   json.RawMessage(`{}`),
		})
	}
	return items
}

func TestGetPageHandler(t *testing.T) {
	datasetID := uuid.New()
	svc := &mockFeedService{
		GetDatasetFn: func(ctx context.Context, id uuid.UUID) (*domain.Dataset, error) {
			return &domain.Dataset{ID: id, Name: "events"}, nil
		},
		OffsetPageFn: func(ctx context.Context, dsID uuid.UUID, page, pageSize int) (paginate.HyperPage[*domain.Item], error) {
			assert.Equal(t, 2, page)
			assert.Equal(t, 10, pageSize)
			return paginate.GetHyperPage(testItems(dsID, 0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11), page, pageSize), nil
		},
	}
	router := pageRouter(NewPageHandler(svc, 20))

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet,
		"/api/datasets/"+datasetID.String()+"/page?page=2&page_size=10", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	var resp PageResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Page)
	assert.Equal(t, 2, resp.PageSize)
	assert.Equal(t, 2, resp.TotalPages)
	assert.Nil(t, resp.NextPage)
	require.NotNil(t, resp.PrevPage)
	assert.Equal(t, 1, *resp.PrevPage)
}

func TestGetPageHandler_DefaultsApplied(t *testing.T) {
	svc := &mockFeedService{
		GetDatasetFn: func(ctx context.Context, id uuid.UUID) (*domain.Dataset, error) {
			return &domain.Dataset{ID: id, Name: "events"}, nil
		},
		OffsetPageFn: func(ctx context.Context, dsID uuid.UUID, page, pageSize int) (paginate.HyperPage[*domain.Item], error) {
			assert.Equal(t, 1, page)
			assert.Equal(t, 20, pageSize)
			return paginate.HyperPage[*domain.Item]{Page: page, Data: []*domain.Item{}}, nil
		},
	}
	router := pageRouter(NewPageHandler(svc, 20))

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet,
		"/api/datasets/"+uuid.New().String()+"/page", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestGetPageHandler_DatasetMissing(t *testing.T) {
	svc := &mockFeedService{
		GetDatasetFn: func(ctx context.Context, id uuid.UUID) (*domain.Dataset, error) {
			return nil, service.ErrDatasetNotFound
		},
	}
	router := pageRouter(NewPageHandler(svc, 20))

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet,
		"/api/datasets/"+uuid.New().String()+"/page", nil))

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestGetPageHandler_BadQuery(t *testing.T) {
	router := pageRouter(NewPageHandler(&mockFeedService{}, 20))

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet,
		"/api/datasets/"+uuid.New().String()+"/page?page=two", nil))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestOpenCursorHandler(t *testing.T) {
	cursorID := uuid.New()
	svc := &mockFeedService{
		OpenCursorFn: func(ctx context.Context, datasetID uuid.UUID) (uuid.UUID, error) {
			return cursorID, nil
		},
	}
	router := pageRouter(NewPageHandler(svc, 20))

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost,
		"/api/datasets/"+uuid.New().String()+"/cursors", nil))

	require.Equal(t, http.StatusCreated, rr.Code)
	var resp OpenCursorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, cursorID, resp.CursorID)
}

func TestFetchNextHandler(t *testing.T) {
	cursorID := uuid.New()
	svc := &mockFeedService{
		FetchNextFn: func(ctx context.Context, id uuid.UUID, pageSize int) ([]*domain.Item, int64, error) {
			assert.Equal(t, cursorID, id)
			assert.Equal(t, 2, pageSize)
			return testItems(uuid.New(), 3, 4), 5, nil
		},
	}
	router := pageRouter(NewPageHandler(svc, 20))

	body, _ := json.Marshal(map[string]int{"page_size": 2})
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost,
		"/api/cursors/"+cursorID.String()+"/next", bytes.NewReader(body)))

	require.Equal(t, http.StatusOK, rr.Code)
	var resp CursorPageResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Len(t, resp.Items, 2)
	assert.Equal(t, int64(3), resp.Items[0].Identity)
	assert.Equal(t, int64(5), resp.Position)
}

func TestFetchNextHandler_DefaultPageSize(t *testing.T) {
	svc := &mockFeedService{
		FetchNextFn: func(ctx context.Context, id uuid.UUID, pageSize int) ([]*domain.Item, int64, error) {
			assert.Equal(t, 20, pageSize)
			return []*domain.Item{}, 0, nil
		},
	}
	router := pageRouter(NewPageHandler(svc, 20))

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost,
		"/api/cursors/"+uuid.New().String()+"/next", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestFetchNextHandler_InvalidPageSize(t *testing.T) {
	svc := &mockFeedService{
		FetchNextFn: func(ctx context.Context, id uuid.UUID, pageSize int) ([]*domain.Item, int64, error) {
			return nil, 0, paginate.ErrInvalidPageSize
		},
	}
	router := pageRouter(NewPageHandler(svc, 20))

	body, _ := json.Marshal(map[string]int{"page_size": 0})
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost,
		"/api/cursors/"+uuid.New().String()+"/next", bytes.NewReader(body)))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestFetchNextHandler_UnknownCursor(t *testing.T) {
	svc := &mockFeedService{
		FetchNextFn: func(ctx context.Context, id uuid.UUID, pageSize int) ([]*domain.Item, int64, error) {
			return nil, 0, service.ErrCursorNotFound
		},
	}
	router := pageRouter(NewPageHandler(svc, 20))

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost,
		"/api/cursors/"+uuid.New().String()+"/next", nil))

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestCloseCursorHandler(t *testing.T) {
	svc := &mockFeedService{
		CloseCursorFn: func(ctx context.Context, cursorID uuid.UUID) error {
			return nil
		},
	}
	router := pageRouter(NewPageHandler(svc, 20))

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodDelete,
		"/api/cursors/"+uuid.New().String(), nil))

	assert.Equal(t, http.StatusNoContent, rr.Code)
}
