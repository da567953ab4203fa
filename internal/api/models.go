package api

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/pageledger/pageledger-api/internal/domain"
	"github.com/pageledger/pageledger-api/internal/paginate"
)

// Common request/response structures

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=12,max=72"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	UserID uuid.UUID `json:"user_id"`

	// AccessToken is the JWT token used for API authorization
	AccessToken string `json:"token"`

	// RefreshToken is the JWT token used to obtain new access tokens
	RefreshToken string `json:"refresh_token,omitempty"`

	// ExpiresAt is the ISO 8601 timestamp when the access token expires
	ExpiresAt string `json:"expires_at,omitempty"`
}

// RefreshTokenRequest defines the payload for the token refresh endpoint.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RefreshTokenResponse defines the successful response for the token refresh endpoint.
type RefreshTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresAt    string `json:"expires_at"`
}

// CreateDatasetRequest defines the payload for creating a dataset.
type CreateDatasetRequest struct {
	Name string `json:"name" validate:"required,max=120"`
}

// DatasetResponse represents a dataset in API responses.
type DatasetResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AppendItemRequest defines the payload for appending an item to a dataset.
type AppendItemRequest struct {
	Payload json.RawMessage `json:"payload" validate:"required"`
}

// ItemResponse represents one item in API responses.
type ItemResponse struct {
	DatasetID uuid.UUID       `json:"dataset_id"`
	Identity  int64           `json:"identity"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
}

// PageResponse is the hypermedia envelope for the offset page view.
type PageResponse struct {
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
	Data       []ItemResponse `json:"data"`
	NextPage   *int           `json:"next_page"`
	PrevPage   *int           `json:"prev_page"`
	TotalPages int            `json:"total_pages"`
}

// OpenCursorResponse returns the ID of a freshly opened cursor session.
type OpenCursorResponse struct {
	CursorID uuid.UUID `json:"cursor_id"`
}

// CursorPageRequest defines the payload for fetching the next cursor page.
// PageSize is a pointer so an explicit zero (a usage error) can be told apart
// from an omitted field (use the configured default).
type CursorPageRequest struct {
	PageSize *int `json:"page_size"`
}

// CursorPageResponse is one page fetched through a cursor session.
type CursorPageResponse struct {
	Items []ItemResponse `json:"items"`

	// Position is the session's cursor after the fetch: the next identity
	// that will be inspected.
	Position int64 `json:"position"`
}

func datasetToResponse(d *domain.Dataset) DatasetResponse {
	return DatasetResponse{
		ID:        d.ID,
		Name:      d.Name,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func itemToResponse(item *domain.Item) ItemResponse {
	return ItemResponse{
		DatasetID: item.DatasetID,
		Identity:  item.Identity,
		Payload:   item.Payload,
		CreatedAt: item.CreatedAt,
	}
}

func itemsToResponses(items []*domain.Item) []ItemResponse {
	out := make([]ItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, itemToResponse(item))
	}
	return out
}

func hyperPageToResponse(page paginate.HyperPage[*domain.Item]) PageResponse {
	return PageResponse{
		Page:       page.Page,
		PageSize:   page.PageSize,
		Data:       itemsToResponses(page.Data),
		NextPage:   page.NextPage,
		PrevPage:   page.PrevPage,
		TotalPages: page.TotalPages,
	}
}
