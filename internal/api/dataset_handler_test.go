package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/pageledger/pageledger-api/internal/api/shared"
	"github.com/pageledger/pageledger-api/internal/domain"
	"github.com/pageledger/pageledger-api/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// datasetRouter mounts the handler on the same routes the server uses so
// chi's URL parameters resolve in tests.
func datasetRouter(h *DatasetHandler) http.Handler {
	r := chi.NewRouter()
	r.Post("/api/datasets", h.CreateDataset)
	r.Get("/api/datasets", h.ListDatasets)
	r.Get("/api/datasets/{datasetID}", h.GetDataset)
	r.Delete("/api/datasets/{datasetID}", h.DeleteDataset)
	r.Post("/api/datasets/{datasetID}/items", h.AppendItem)
	r.Delete("/api/datasets/{datasetID}/items/{identity}", h.DeleteItem)
	return r
}

func authedRequest(t *testing.T, method, target string, body interface{}) *http.Request {
	t.Helper()
	var req *http.Request
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		req = httptest.NewRequest(method, target, bytes.NewReader(raw))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	ctx := context.WithValue(req.Context(), shared.UserIDContextKey, uuid.New())
	return req.WithContext(ctx)
}

func TestCreateDatasetHandler(t *testing.T) {
	svc := &mockFeedService{
		CreateDatasetFn: func(ctx context.Context, name string) (*domain.Dataset, error) {
			return &domain.Dataset{
				ID:        uuid.New(),
				Name:      name,
				CreatedAt: time.Now().UTC(),
				UpdatedAt: time.Now().UTC(),
			}, nil
		},
	}
	router := datasetRouter(NewDatasetHandler(svc))

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, authedRequest(t, http.MethodPost, "/api/datasets",
		CreateDatasetRequest{Name: "events"}))

	require.Equal(t, http.StatusCreated, rr.Code)
	var resp DatasetResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "events", resp.Name)
	assert.NotEqual(t, uuid.Nil, resp.ID)
}

func TestCreateDatasetHandler_MissingName(t *testing.T) {
	router := datasetRouter(NewDatasetHandler(&mockFeedService{}))

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, authedRequest(t, http.MethodPost, "/api/datasets",
		CreateDatasetRequest{}))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestGetDatasetHandler_NotFound(t *testing.T) {
	svc := &mockFeedService{
		GetDatasetFn: func(ctx context.Context, id uuid.UUID) (*domain.Dataset, error) {
			return nil, service.ErrDatasetNotFound
		},
	}
	router := datasetRouter(NewDatasetHandler(svc))

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, authedRequest(t, http.MethodGet,
		"/api/datasets/"+uuid.New().String(), nil))

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestGetDatasetHandler_BadID(t *testing.T) {
	router := datasetRouter(NewDatasetHandler(&mockFeedService{}))

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, authedRequest(t, http.MethodGet, "/api/datasets/not-a-uuid", nil))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestAppendItemHandler(t *testing.T) {
	datasetID := uuid.New()
	svc := &mockFeedService{
		AppendItemFn: func(ctx context.Context, dsID uuid.UUID, payload json.RawMessage) (*domain.Item, error) {
			assert.Equal(t, datasetID, dsID)
			return &domain.Item{
				DatasetID: dsID,
				Identity:  7,
				Payload:   payload,
				CreatedAt: time.Now().UTC(),
			}, nil
		},
	}
	router := datasetRouter(NewDatasetHandler(svc))

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, authedRequest(t, http.MethodPost,
		"/api/datasets/"+datasetID.String()+"/items",
		AppendItemRequest{Payload: json.RawMessage(`{"event":"signup"}`)}))

	require.Equal(t, http.StatusCreated, rr.Code)
	var resp ItemResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, int64(7), resp.Identity)
	assert.JSONEq(t, `{"event":"signup"}`, string(resp.Payload))
}

func TestAppendItemHandler_MissingPayload(t *testing.T) {
	router := datasetRouter(NewDatasetHandler(&mockFeedService{}))

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, authedRequest(t, http.MethodPost,
		"/api/datasets/"+uuid.New().String()+"/items",
		map[string]string{}))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestDeleteItemHandler(t *testing.T) {
	deleted := false
	svc := &mockFeedService{
		DeleteItemFn: func(ctx context.Context, datasetID uuid.UUID, identity int64) error {
			deleted = true
			assert.Equal(t, int64(3), identity)
			return nil
		},
	}
	router := datasetRouter(NewDatasetHandler(svc))

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, authedRequest(t, http.MethodDelete,
		"/api/datasets/"+uuid.New().String()+"/items/3", nil))

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.True(t, deleted)
}

func TestDeleteItemHandler_NotFound(t *testing.T) {
	svc := &mockFeedService{
		DeleteItemFn: func(ctx context.Context, datasetID uuid.UUID, identity int64) error {
			return service.ErrItemNotFound
		},
	}
	router := datasetRouter(NewDatasetHandler(svc))

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, authedRequest(t, http.MethodDelete,
		"/api/datasets/"+uuid.New().String()+"/items/99", nil))

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestDeleteItemHandler_BadIdentity(t *testing.T) {
	router := datasetRouter(NewDatasetHandler(&mockFeedService{}))

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, authedRequest(t, http.MethodDelete,
		"/api/datasets/"+uuid.New().String()+"/items/three", nil))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
