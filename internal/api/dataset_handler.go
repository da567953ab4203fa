package api

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/pageledger/pageledger-api/internal/api/shared"
	"github.com/pageledger/pageledger-api/internal/service"
)

// DatasetHandler handles dataset and item management requests.
type DatasetHandler struct {
	feedService service.FeedService
	validator   *validator.Validate
}

// NewDatasetHandler creates a new DatasetHandler.
func NewDatasetHandler(feedService service.FeedService) *DatasetHandler {
	return &DatasetHandler{
		feedService: feedService,
		validator:   validator.New(),
	}
}

// CreateDataset handles POST /api/datasets requests.
func (h *DatasetHandler) CreateDataset(w http.ResponseWriter, r *http.Request) {
	if _, ok := getUserIDFromContext(r); !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	var req CreateDatasetRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	dataset, err := h.feedService.CreateDataset(r.Context(), req.Name)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err),
			GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, datasetToResponse(dataset))
}

// ListDatasets handles GET /api/datasets requests.
func (h *DatasetHandler) ListDatasets(w http.ResponseWriter, r *http.Request) {
	datasets, err := h.feedService.ListDatasets(r.Context())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err),
			GetSafeErrorMessage(err), err)
		return
	}

	out := make([]DatasetResponse, 0, len(datasets))
	for _, dataset := range datasets {
		out = append(out, datasetToResponse(dataset))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, out)
}

// GetDataset handles GET /api/datasets/{datasetID} requests.
func (h *DatasetHandler) GetDataset(w http.ResponseWriter, r *http.Request) {
	datasetID, err := getPathUUID(r, "datasetID")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	dataset, err := h.feedService.GetDataset(r.Context(), datasetID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err),
			GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, datasetToResponse(dataset))
}

// DeleteDataset handles DELETE /api/datasets/{datasetID} requests.
func (h *DatasetHandler) DeleteDataset(w http.ResponseWriter, r *http.Request) {
	datasetID, err := getPathUUID(r, "datasetID")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.feedService.DeleteDataset(r.Context(), datasetID); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err),
			GetSafeErrorMessage(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AppendItem handles POST /api/datasets/{datasetID}/items requests.
func (h *DatasetHandler) AppendItem(w http.ResponseWriter, r *http.Request) {
	datasetID, err := getPathUUID(r, "datasetID")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	var req AppendItemRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if len(req.Payload) == 0 {
		shared.RespondWithError(w, r, http.StatusBadRequest, "payload is required")
		return
	}

	item, err := h.feedService.AppendItem(r.Context(), datasetID, req.Payload)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err),
			GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, itemToResponse(item))
}

// DeleteItem handles DELETE /api/datasets/{datasetID}/items/{identity} requests.
func (h *DatasetHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	datasetID, err := getPathUUID(r, "datasetID")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	identity, err := getPathInt64(r, "identity")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.feedService.DeleteItem(r.Context(), datasetID, identity); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err),
			GetSafeErrorMessage(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
