package memory

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/pageledger/pageledger-api/internal/domain"
	"github.com/pageledger/pageledger-api/internal/store"
	"golang.org/x/crypto/bcrypt"
)

// UserStore is an in-memory implementation of store.UserStore. Passwords
// are bcrypt-hashed exactly as in the postgres implementation so the two
// backends are interchangeable behind the interface.
type UserStore struct {
	mu         sync.RWMutex
	logger     *slog.Logger
	bcryptCost int
	users      map[uuid.UUID]*domain.User
	byEmail    map[string]uuid.UUID
}

// NewUserStore creates an empty in-memory user store hashing passwords at
// the given bcrypt cost. If logger is nil, the default logger is used.
func NewUserStore(bcryptCost int, logger *slog.Logger) *UserStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserStore{
		logger:     logger.With(slog.String("component", "memory_user_store")),
		bcryptCost: bcryptCost,
		users:      make(map[uuid.UUID]*domain.User),
		byEmail:    make(map[string]uuid.UUID),
	}
}

var _ store.UserStore = (*UserStore)(nil)

// Create implements store.UserStore.Create.
func (s *UserStore) Create(ctx context.Context, user *domain.User) error {
	if err := user.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(user.Password), s.bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	email := normalizeEmail(user.Email)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.byEmail[email]; taken {
		return store.ErrEmailExists
	}

	user.HashedPassword = string(hashed)
	user.Password = ""

	copied := *user
	s.users[user.ID] = &copied
	s.byEmail[email] = user.ID

	s.logger.Debug("user created", slog.String("user_id", user.ID.String()))
	return nil
}

// GetByEmail implements store.UserStore.GetByEmail.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[normalizeEmail(email)]
	if !ok {
		return nil, store.ErrUserNotFound
	}

	copied := *s.users[id]
	return &copied, nil
}

// GetByID implements store.UserStore.GetByID.
func (s *UserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}

	copied := *user
	return &copied, nil
}

// normalizeEmail lowercases the address so lookups are case-insensitive,
// matching the citext behavior of the postgres schema.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
