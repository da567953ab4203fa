package api

import (
	"net/http"

	"github.com/pageledger/pageledger-api/internal/api/shared"
	"github.com/pageledger/pageledger-api/internal/service"
)

// PageHandler serves both page views: the stateless offset view and the
// deletion-resilient cursor sessions.
type PageHandler struct {
	feedService     service.FeedService
	defaultPageSize int
}

// NewPageHandler creates a new PageHandler.
func NewPageHandler(feedService service.FeedService, defaultPageSize int) *PageHandler {
	return &PageHandler{
		feedService:     feedService,
		defaultPageSize: defaultPageSize,
	}
}

// GetPage handles GET /api/datasets/{datasetID}/page requests.
// Query parameters: page (default 1) and page_size (default configured).
func (h *PageHandler) GetPage(w http.ResponseWriter, r *http.Request) {
	datasetID, err := getPathUUID(r, "datasetID")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	page, err := queryInt(r, "page", 1)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	pageSize, err := queryInt(r, "page_size", h.defaultPageSize)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	// The dataset must exist even when the page itself comes back empty.
	if _, err := h.feedService.GetDataset(r.Context(), datasetID); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err),
			GetSafeErrorMessage(err), err)
		return
	}

	result, err := h.feedService.OffsetPage(r.Context(), datasetID, page, pageSize)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err),
			GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, hyperPageToResponse(result))
}

// OpenCursor handles POST /api/datasets/{datasetID}/cursors requests.
func (h *PageHandler) OpenCursor(w http.ResponseWriter, r *http.Request) {
	datasetID, err := getPathUUID(r, "datasetID")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	cursorID, err := h.feedService.OpenCursor(r.Context(), datasetID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err),
			GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, OpenCursorResponse{CursorID: cursorID})
}

// FetchNext handles POST /api/cursors/{cursorID}/next requests.
// The page size comes from the JSON body, falling back to the configured
// default when the body is empty or omits it.
func (h *PageHandler) FetchNext(w http.ResponseWriter, r *http.Request) {
	cursorID, err := getPathUUID(r, "cursorID")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	pageSize := h.defaultPageSize
	if r.ContentLength != 0 {
		var req CursorPageRequest
		if err := shared.DecodeJSON(r, &req); err != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
			return
		}
		if req.PageSize != nil {
			pageSize = *req.PageSize
		}
	}

	items, position, err := h.feedService.FetchNext(r.Context(), cursorID, pageSize)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err),
			GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, CursorPageResponse{
		Items:    itemsToResponses(items),
		Position: position,
	})
}

// CloseCursor handles DELETE /api/cursors/{cursorID} requests.
func (h *PageHandler) CloseCursor(w http.ResponseWriter, r *http.Request) {
	cursorID, err := getPathUUID(r, "cursorID")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.feedService.CloseCursor(r.Context(), cursorID); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err),
			GetSafeErrorMessage(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
