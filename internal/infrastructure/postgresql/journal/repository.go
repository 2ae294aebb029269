package journal

import (
	"context"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/muhammadchandra19/ome/pkg/errors"
	"github.com/muhammadchandra19/ome/pkg/logger"
	"github.com/muhammadchandra19/ome/pkg/postgresql"
	pkgerrors "github.com/pkg/errors"
)

const uniqueViolationCode = "23505"

type repository struct {
	db     postgresql.PostgreSQLClient
	logger logger.Interface
}

// NewRepository creates a new journal repository.
func NewRepository(db postgresql.PostgreSQLClient, logger logger.Interface) *repository {
	return &repository{
		db:     db,
		logger: logger,
	}
}

// Append durably persists an exchange event and returns its assigned id.
// When the caller supplies an explicit id that already exists, it fails
// with a duplicate_event error and the journal is left unchanged.
func (r *repository) Append(ctx context.Context, event *ExchangeEvent) (int64, error) {
	var (
		id  int64
		err error
	)

	if event.ID > 0 {
		query := `INSERT INTO exchange_events (id, exchange, event_type, event_time, timestamp, details) VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
		err = r.db.QueryRow(ctx, query,
			event.ID,
			event.Exchange,
			event.EventType,
			event.EventTime,
			event.Timestamp,
			event.Details,
		).Scan(&id)
	} else {
		query := `INSERT INTO exchange_events (exchange, event_type, event_time, timestamp, details) VALUES ($1, $2, $3, $4, $5) RETURNING id`
		err = r.db.QueryRow(ctx, query,
			event.Exchange,
			event.EventType,
			event.EventTime,
			event.Timestamp,
			event.Details,
		).Scan(&id)
	}

	if err != nil {
		var pgErr *pgconn.PgError
		if pkgerrors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return 0, errors.NewErrorDetails("event id already journaled", string(errors.DuplicateEventError), "id")
		}
		return 0, errors.TracerFromError(err)
	}

	event.ID = id
	return id, nil
}

// ReadSince returns events for one exchange with id > cursor in ascending id order.
func (r *repository) ReadSince(ctx context.Context, exchange string, cursor int64, limit int) ([]*ExchangeEvent, error) {
	query := `SELECT id, exchange, event_type, event_time, timestamp, details FROM exchange_events WHERE exchange = $1 AND id > $2 ORDER BY id ASC LIMIT $3`

	rows, err := r.db.Query(ctx, query, exchange, cursor, limit)
	if err != nil {
		return nil, errors.TracerFromError(err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

// ReadBatch returns events across all exchanges with id > cursor in ascending id order.
func (r *repository) ReadBatch(ctx context.Context, cursor int64, limit int) ([]*ExchangeEvent, error) {
	query := `SELECT id, exchange, event_type, event_time, timestamp, details FROM exchange_events WHERE id > $1 ORDER BY id ASC LIMIT $2`

	rows, err := r.db.Query(ctx, query, cursor, limit)
	if err != nil {
		return nil, errors.TracerFromError(err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

func scanEvents(rows postgresql.RowsInterface) ([]*ExchangeEvent, error) {
	events := []*ExchangeEvent{}
	for rows.Next() {
		event := &ExchangeEvent{}
		err := rows.Scan(
			&event.ID,
			&event.Exchange,
			&event.EventType,
			&event.EventTime,
			&event.Timestamp,
			&event.Details,
		)
		if err != nil {
			return nil, errors.TracerFromError(err)
		}
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.TracerFromError(err)
	}

	return events, nil
}
