package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/pageledger/pageledger-api/internal/domain"
	"github.com/pageledger/pageledger-api/internal/platform/logger"
	"github.com/pageledger/pageledger-api/internal/store"
)

// PostgresItemStore implements the store.ItemStore interface using a
// PostgreSQL database as the storage backend.
//
// It takes a full *sql.DB rather than store.DBTX because Append must run
// its counter bump and insert inside one transaction it opens itself.
type PostgresItemStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresItemStore creates a new PostgreSQL implementation of the
// ItemStore interface. The caller owns the database connection.
// If logger is nil, a default logger will be used.
func NewPostgresItemStore(db *sql.DB, logger *slog.Logger) *PostgresItemStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresItemStore{
		db:     db,
		logger: logger.With(slog.String("component", "item_store")),
	}
}

// Ensure PostgresItemStore implements store.ItemStore interface
var _ store.ItemStore = (*PostgresItemStore)(nil)

// Append implements store.ItemStore.Append.
//
// The dataset's next_identity counter is advanced and the item inserted in
// a single transaction, so two concurrent appends serialize on the dataset
// row and can never share an identity.
func (s *PostgresItemStore) Append(ctx context.Context, datasetID uuid.UUID, payload json.RawMessage) (*domain.Item, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("failed to begin append transaction",
			slog.String("error", err.Error()),
			slog.String("dataset_id", datasetID.String()))
		return nil, mapError(err)
	}
	defer func() {
		// No-op once the transaction has been committed.
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			log.Error("failed to roll back append transaction",
				slog.String("error", err.Error()))
		}
	}()

	var identity int64
	err = tx.QueryRowContext(ctx, `
		UPDATE datasets
		SET next_identity = next_identity + 1, updated_at = $2
		WHERE id = $1
		RETURNING next_identity - 1
	`, datasetID, time.Now().UTC()).Scan(&identity)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("dataset not found for append",
				slog.String("dataset_id", datasetID.String()))
			return nil, store.ErrDatasetNotFound
		}
		log.Error("failed to assign item identity",
			slog.String("error", err.Error()),
			slog.String("dataset_id", datasetID.String()))
		return nil, mapError(err)
	}

	item, err := domain.NewItem(datasetID, identity, payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO items (dataset_id, identity, payload, created_at)
		VALUES ($1, $2, $3, $4)
	`, item.DatasetID, item.Identity, []byte(item.Payload), item.CreatedAt)
	if err != nil {
		log.Error("failed to insert item",
			slog.String("error", err.Error()),
			slog.String("dataset_id", datasetID.String()),
			slog.Int64("identity", identity))
		return nil, mapError(err)
	}

	if err := tx.Commit(); err != nil {
		log.Error("failed to commit append transaction",
			slog.String("error", err.Error()),
			slog.String("dataset_id", datasetID.String()))
		return nil, mapError(err)
	}

	log.Info("item appended",
		slog.String("dataset_id", datasetID.String()),
		slog.Int64("identity", identity))
	return item, nil
}

// DeleteItem implements store.ItemStore.DeleteItem by setting the
// tombstone timestamp. The row itself stays so the identity is never
// reassigned and MaxIdentity never shrinks.
func (s *PostgresItemStore) DeleteItem(ctx context.Context, datasetID uuid.UUID, identity int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `
		UPDATE items
		SET deleted_at = $3
		WHERE dataset_id = $1 AND identity = $2 AND deleted_at IS NULL
	`, datasetID, identity, time.Now().UTC())
	if err != nil {
		log.Error("failed to tombstone item",
			slog.String("error", err.Error()),
			slog.String("dataset_id", datasetID.String()),
			slog.Int64("identity", identity))
		return mapError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected",
			slog.String("error", err.Error()),
			slog.String("dataset_id", datasetID.String()))
		return mapError(err)
	}
	if rowsAffected == 0 {
		log.Debug("no live item to tombstone",
			slog.String("dataset_id", datasetID.String()),
			slog.Int64("identity", identity))
		return store.ErrItemNotFound
	}

	log.Info("item tombstoned",
		slog.String("dataset_id", datasetID.String()),
		slog.Int64("identity", identity))
	return nil
}

// Item implements store.ItemStore.Item.
func (s *PostgresItemStore) Item(ctx context.Context, datasetID uuid.UUID, identity int64) (*domain.Item, bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT dataset_id, identity, payload, created_at
		FROM items
		WHERE dataset_id = $1 AND identity = $2 AND deleted_at IS NULL
	`

	var item domain.Item
	var payload []byte
	err := s.db.QueryRowContext(ctx, query, datasetID, identity).Scan(
		&item.DatasetID, &item.Identity, &payload, &item.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Deleted or never assigned; either way the slot is empty.
			return nil, false, nil
		}
		log.Error("failed to get item",
			slog.String("error", err.Error()),
			slog.String("dataset_id", datasetID.String()),
			slog.Int64("identity", identity))
		return nil, false, mapError(err)
	}

	item.Payload = json.RawMessage(payload)
	return &item, true, nil
}

// MaxIdentity implements store.ItemStore.MaxIdentity by reading the
// dataset's counter, which counts assignments rather than surviving rows.
func (s *PostgresItemStore) MaxIdentity(ctx context.Context, datasetID uuid.UUID) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var nextIdentity int64
	err := s.db.QueryRowContext(ctx,
		`SELECT next_identity FROM datasets WHERE id = $1`, datasetID).Scan(&nextIdentity)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, store.ErrDatasetNotFound
		}
		log.Error("failed to read dataset identity counter",
			slog.String("error", err.Error()),
			slog.String("dataset_id", datasetID.String()))
		return 0, mapError(err)
	}

	return nextIdentity - 1, nil
}

// Live implements store.ItemStore.Live.
func (s *PostgresItemStore) Live(ctx context.Context, datasetID uuid.UUID) ([]*domain.Item, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT dataset_id, identity, payload, created_at
		FROM items
		WHERE dataset_id = $1 AND deleted_at IS NULL
		ORDER BY identity ASC
	`

	rows, err := s.db.QueryContext(ctx, query, datasetID)
	if err != nil {
		log.Error("failed to query live items",
			slog.String("error", err.Error()),
			slog.String("dataset_id", datasetID.String()))
		return nil, mapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	var items []*domain.Item
	for rows.Next() {
		var item domain.Item
		var payload []byte
		if err := rows.Scan(&item.DatasetID, &item.Identity, &payload, &item.CreatedAt); err != nil {
			log.Error("failed to scan item row", slog.String("error", err.Error()))
			return nil, mapError(err)
		}
		item.Payload = json.RawMessage(payload)
		items = append(items, &item)
	}
	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, mapError(err)
	}

	if items == nil {
		items = []*domain.Item{}
	}

	return items, nil
}
