package cursor

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/muhammadchandra19/ome/pkg/errors"
	"github.com/muhammadchandra19/ome/pkg/logger"
	"github.com/muhammadchandra19/ome/pkg/postgresql"
	pkgerrors "github.com/pkg/errors"
)

type repository struct {
	db     postgresql.PostgreSQLClient
	logger logger.Interface
}

// NewRepository creates a new consumer cursor repository.
func NewRepository(db postgresql.PostgreSQLClient, logger logger.Interface) *repository {
	return &repository{
		db:     db,
		logger: logger,
	}
}

// Get returns the last journal id the consumer committed, or 0 when the
// consumer has never committed.
func (r *repository) Get(ctx context.Context, consumer string) (int64, error) {
	query := `SELECT last_event_id FROM consumer_cursors WHERE consumer = $1`

	var lastEventID int64
	err := r.db.QueryRow(ctx, query, consumer).Scan(&lastEventID)
	if err != nil {
		if pkgerrors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, errors.NewErrorDetails(err.Error(), string(errors.StorageUnavailableError), "consumer_cursors")
	}

	return lastEventID, nil
}

// Commit advances the consumer's cursor.
func (r *repository) Commit(ctx context.Context, consumer string, lastEventID int64) error {
	query := `INSERT INTO consumer_cursors (consumer, last_event_id, updated_at) VALUES ($1, $2, NOW()) ON CONFLICT (consumer) DO UPDATE SET last_event_id = EXCLUDED.last_event_id, updated_at = NOW()`

	_, err := r.db.Exec(ctx, query, consumer, lastEventID)
	if err != nil {
		return errors.NewErrorDetails(err.Error(), string(errors.StorageUnavailableError), "consumer_cursors")
	}

	return nil
}
