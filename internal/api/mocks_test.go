package api

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/pageledger/pageledger-api/internal/domain"
	"github.com/pageledger/pageledger-api/internal/paginate"
	"github.com/pageledger/pageledger-api/internal/service/auth"
	"github.com/pageledger/pageledger-api/internal/store"
)

// mockUserStore implements store.UserStore with swappable behavior.
type mockUserStore struct {
	CreateFn     func(ctx context.Context, user *domain.User) error
	GetByEmailFn func(ctx context.Context, email string) (*domain.User, error)
	GetByIDFn    func(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

var _ store.UserStore = (*mockUserStore)(nil)

func (m *mockUserStore) Create(ctx context.Context, user *domain.User) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, user)
	}
	return nil
}

func (m *mockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.GetByEmailFn != nil {
		return m.GetByEmailFn(ctx, email)
	}
	return nil, store.ErrUserNotFound
}

func (m *mockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, store.ErrUserNotFound
}

// mockJWTService implements auth.JWTService with swappable behavior.
type mockJWTService struct {
	GenerateTokenFn        func(ctx context.Context, userID uuid.UUID) (string, error)
	ValidateTokenFn        func(ctx context.Context, tokenString string) (*auth.Claims, error)
	GenerateRefreshTokenFn func(ctx context.Context, userID uuid.UUID) (string, error)
	ValidateRefreshTokenFn func(ctx context.Context, tokenString string) (*auth.Claims, error)
}

var _ auth.JWTService = (*mockJWTService)(nil)

func (m *mockJWTService) GenerateToken(ctx context.Context, userID uuid.UUID) (string, error) {
	if m.GenerateTokenFn != nil {
		return m.GenerateTokenFn(ctx, userID)
	}
	return "test-access-token", nil
}

func (m *mockJWTService) ValidateToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	if m.ValidateTokenFn != nil {
		return m.ValidateTokenFn(ctx, tokenString)
	}
	return nil, auth.ErrInvalidToken
}

func (m *mockJWTService) GenerateRefreshToken(ctx context.Context, userID uuid.UUID) (string, error) {
	if m.GenerateRefreshTokenFn != nil {
		return m.GenerateRefreshTokenFn(ctx, userID)
	}
	return "test-refresh-token", nil
}

func (m *mockJWTService) ValidateRefreshToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	if m.ValidateRefreshTokenFn != nil {
		return m.ValidateRefreshTokenFn(ctx, tokenString)
	}
	return nil, auth.ErrInvalidRefreshToken
}

// mockPasswordVerifier implements auth.PasswordVerifier.
type mockPasswordVerifier struct {
	CompareFn func(hashedPassword, password string) error
}

var _ auth.PasswordVerifier = (*mockPasswordVerifier)(nil)

func (m *mockPasswordVerifier) Compare(hashedPassword, password string) error {
	if m.CompareFn != nil {
		return m.CompareFn(hashedPassword, password)
	}
	return nil
}

// mockFeedService implements service.FeedService with swappable behavior.
type mockFeedService struct {
	CreateDatasetFn func(ctx context.Context, name string) (*domain.Dataset, error)
	GetDatasetFn    func(ctx context.Context, id uuid.UUID) (*domain.Dataset, error)
	ListDatasetsFn  func(ctx context.Context) ([]*domain.Dataset, error)
	DeleteDatasetFn func(ctx context.Context, id uuid.UUID) error
	AppendItemFn    func(ctx context.Context, datasetID uuid.UUID, payload json.RawMessage) (*domain.Item, error)
	DeleteItemFn    func(ctx context.Context, datasetID uuid.UUID, identity int64) error
	OffsetPageFn    func(ctx context.Context, datasetID uuid.UUID, page, pageSize int) (paginate.HyperPage[*domain.Item], error)
	OpenCursorFn    func(ctx context.Context, datasetID uuid.UUID) (uuid.UUID, error)
	FetchNextFn     func(ctx context.Context, cursorID uuid.UUID, pageSize int) ([]*domain.Item, int64, error)
	CloseCursorFn   func(ctx context.Context, cursorID uuid.UUID) error
}

func (m *mockFeedService) CreateDataset(ctx context.Context, name string) (*domain.Dataset, error) {
	return m.CreateDatasetFn(ctx, name)
}

func (m *mockFeedService) GetDataset(ctx context.Context, id uuid.UUID) (*domain.Dataset, error) {
	return m.GetDatasetFn(ctx, id)
}

func (m *mockFeedService) ListDatasets(ctx context.Context) ([]*domain.Dataset, error) {
	return m.ListDatasetsFn(ctx)
}

func (m *mockFeedService) DeleteDataset(ctx context.Context, id uuid.UUID) error {
	return m.DeleteDatasetFn(ctx, id)
}

func (m *mockFeedService) AppendItem(ctx context.Context, datasetID uuid.UUID, payload json.RawMessage) (*domain.Item, error) {
	return m.AppendItemFn(ctx, datasetID, payload)
}

func (m *mockFeedService) DeleteItem(ctx context.Context, datasetID uuid.UUID, identity int64) error {
	return m.DeleteItemFn(ctx, datasetID, identity)
}

func (m *mockFeedService) OffsetPage(ctx context.Context, datasetID uuid.UUID, page, pageSize int) (paginate.HyperPage[*domain.Item], error) {
	return m.OffsetPageFn(ctx, datasetID, page, pageSize)
}

func (m *mockFeedService) OpenCursor(ctx context.Context, datasetID uuid.UUID) (uuid.UUID, error) {
	return m.OpenCursorFn(ctx, datasetID)
}

func (m *mockFeedService) FetchNext(ctx context.Context, cursorID uuid.UUID, pageSize int) ([]*domain.Item, int64, error) {
	return m.FetchNextFn(ctx, cursorID, pageSize)
}

func (m *mockFeedService) CloseCursor(ctx context.Context, cursorID uuid.UUID) error {
	return m.CloseCursorFn(ctx, cursorID)
}

func (m *mockFeedService) Stop() {}
