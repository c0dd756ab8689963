// internal/history/store.go
package history

import (
	"context"
	"database/sql"
	"fmt"

	commonerrors "github.com/andrewmicrosoft/allergy-alert/internal/common/errors"
	"github.com/andrewmicrosoft/allergy-alert/internal/common/logger"
	"github.com/andrewmicrosoft/allergy-alert/internal/models"
)

const (
	insertQuery = `
		INSERT INTO lookup_history
			(id, owner_id, restaurant_name, food_count, more_safe, questionable, avoid, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	listQuery = `
		SELECT id, owner_id, restaurant_name, food_count, more_safe, questionable, avoid, created_at
		FROM lookup_history
		WHERE owner_id = $1
		ORDER BY created_at DESC
		LIMIT $2`
)

const schemaQuery = `
	CREATE TABLE IF NOT EXISTS lookup_history (
		id              UUID PRIMARY KEY,
		owner_id        TEXT NOT NULL,
		restaurant_name TEXT NOT NULL,
		food_count      INTEGER NOT NULL,
		more_safe       INTEGER NOT NULL,
		questionable    INTEGER NOT NULL,
		avoid           INTEGER NOT NULL,
		created_at      TIMESTAMPTZ NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_lookup_history_owner
		ON lookup_history (owner_id, created_at DESC)`

const defaultListLimit = 20

// Store persists lookup history entries to PostgreSQL.
type Store struct {
	db     *sql.DB
	logger logger.Logger
}

func NewStore(db *sql.DB, log logger.Logger) *Store {
	return &Store{
		db:     db,
		logger: log.WithFields(map[string]interface{}{"component": "history"}),
	}
}

// EnsureSchema creates the history table when it does not exist yet.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schemaQuery); err != nil {
		return fmt.Errorf("ensure history schema: %w", err)
	}
	s.logger.Debug("History schema ready", nil)
	return nil
}

// Record inserts one completed lookup.
func (s *Store) Record(ctx context.Context, entry models.HistoryEntry) error {
	_, err := s.db.ExecContext(ctx, insertQuery,
		entry.ID,
		entry.OwnerID,
		entry.RestaurantName,
		entry.FoodCount,
		entry.MoreSafe,
		entry.Questionable,
		entry.Avoid,
		entry.CreatedAt,
	)
	if err != nil {
		return commonerrors.NewHistoryQueryFailedError(fmt.Errorf("insert history entry: %w", err))
	}
	return nil
}

// ListByOwner returns the owner's most recent lookups, newest first.
// A non-positive limit falls back to the default.
func (s *Store) ListByOwner(ctx context.Context, ownerID string, limit int) ([]models.HistoryEntry, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	rows, err := s.db.QueryContext(ctx, listQuery, ownerID, limit)
	if err != nil {
		return nil, commonerrors.NewHistoryQueryFailedError(fmt.Errorf("query history: %w", err))
	}
	defer rows.Close()

	entries := []models.HistoryEntry{}
	for rows.Next() {
		var e models.HistoryEntry
		if err := rows.Scan(
			&e.ID,
			&e.OwnerID,
			&e.RestaurantName,
			&e.FoodCount,
			&e.MoreSafe,
			&e.Questionable,
			&e.Avoid,
			&e.CreatedAt,
		); err != nil {
			return nil, commonerrors.NewHistoryQueryFailedError(fmt.Errorf("scan history row: %w", err))
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, commonerrors.NewHistoryQueryFailedError(fmt.Errorf("iterate history rows: %w", err))
	}

	return entries, nil
}
