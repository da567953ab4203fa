package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/pageledger/pageledger-api/internal/domain"
	"github.com/pageledger/pageledger-api/internal/platform/logger"
	"github.com/pageledger/pageledger-api/internal/store"
)

// PostgresDatasetStore implements the store.DatasetStore interface
// using a PostgreSQL database as the storage backend.
type PostgresDatasetStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresDatasetStore creates a new PostgreSQL implementation of the
// DatasetStore interface. The caller owns the database connection.
// If logger is nil, a default logger will be used.
func NewPostgresDatasetStore(db store.DBTX, logger *slog.Logger) *PostgresDatasetStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresDatasetStore{
		db:     db,
		logger: logger.With(slog.String("component", "dataset_store")),
	}
}

// Ensure PostgresDatasetStore implements store.DatasetStore interface
var _ store.DatasetStore = (*PostgresDatasetStore)(nil)

// Create implements store.DatasetStore.Create.
func (s *PostgresDatasetStore) Create(ctx context.Context, dataset *domain.Dataset) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := dataset.Validate(); err != nil {
		log.Warn("dataset validation failed during create",
			slog.String("error", err.Error()),
			slog.String("dataset_id", dataset.ID.String()))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO datasets (id, name, next_identity, created_at, updated_at)
		VALUES ($1, $2, 0, $3, $4)
	`
	_, err := s.db.ExecContext(ctx, query,
		dataset.ID, dataset.Name, dataset.CreatedAt, dataset.UpdatedAt)
	if err != nil {
		log.Error("failed to create dataset",
			slog.String("error", err.Error()),
			slog.String("dataset_id", dataset.ID.String()))
		return mapError(err)
	}

	log.Info("dataset created",
		slog.String("dataset_id", dataset.ID.String()),
		slog.String("name", dataset.Name))
	return nil
}

// GetByID implements store.DatasetStore.GetByID.
func (s *PostgresDatasetStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Dataset, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, name, created_at, updated_at
		FROM datasets
		WHERE id = $1
	`

	var dataset domain.Dataset
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&dataset.ID, &dataset.Name, &dataset.CreatedAt, &dataset.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("dataset not found", slog.String("dataset_id", id.String()))
			return nil, store.ErrDatasetNotFound
		}
		log.Error("failed to get dataset by ID",
			slog.String("error", err.Error()),
			slog.String("dataset_id", id.String()))
		return nil, mapError(err)
	}

	return &dataset, nil
}

// List implements store.DatasetStore.List.
func (s *PostgresDatasetStore) List(ctx context.Context) ([]*domain.Dataset, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, name, created_at, updated_at
		FROM datasets
		ORDER BY created_at ASC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		log.Error("failed to list datasets", slog.String("error", err.Error()))
		return nil, mapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	var datasets []*domain.Dataset
	for rows.Next() {
		var dataset domain.Dataset
		if err := rows.Scan(&dataset.ID, &dataset.Name, &dataset.CreatedAt, &dataset.UpdatedAt); err != nil {
			log.Error("failed to scan dataset row", slog.String("error", err.Error()))
			return nil, mapError(err)
		}
		datasets = append(datasets, &dataset)
	}
	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, mapError(err)
	}

	if datasets == nil {
		datasets = []*domain.Dataset{}
	}

	return datasets, nil
}

// Delete implements store.DatasetStore.Delete. Item rows go with the
// dataset through ON DELETE CASCADE.
func (s *PostgresDatasetStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM datasets WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete dataset",
			slog.String("error", err.Error()),
			slog.String("dataset_id", id.String()))
		return mapError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected",
			slog.String("error", err.Error()),
			slog.String("dataset_id", id.String()))
		return mapError(err)
	}
	if rowsAffected == 0 {
		log.Debug("dataset not found for delete", slog.String("dataset_id", id.String()))
		return store.ErrDatasetNotFound
	}

	log.Info("dataset deleted", slog.String("dataset_id", id.String()))
	return nil
}
