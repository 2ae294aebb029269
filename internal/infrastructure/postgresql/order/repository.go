package order

import (
	"context"
	"fmt"
	"strings"

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

// NewRepository creates a new order repository.
func NewRepository(db postgresql.PostgreSQLClient, logger logger.Interface) *repository {
	return &repository{
		db:     db,
		logger: logger,
	}
}

const orderColumns = "received_event_id, symbol, quantity, state, received_time, processed_time, filled_time, client, filled_quantity, last_event_id"

// Store inserts a newly created order.
func (r *repository) Store(ctx context.Context, order *Order) error {
	query := `INSERT INTO orders (received_event_id, symbol, quantity, state, received_time, processed_time, filled_time, client, filled_quantity, last_event_id) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	cmd, err := r.db.Exec(ctx, query,
		order.ReceivedEventID,
		order.Symbol,
		order.Quantity,
		order.State,
		order.ReceivedTime,
		order.ProcessedTime,
		order.FilledTime,
		order.Client,
		order.FilledQuantity,
		order.LastEventID,
	)
	if err != nil {
		return errors.TracerFromError(err)
	}

	r.logger.Info("Inserted order", logger.Field{
		Key:   "commandTag",
		Value: cmd.String(),
	})

	return nil
}

// GetByID gets an order by its received event id. Returns nil when absent.
func (r *repository) GetByID(ctx context.Context, id int64) (*Order, error) {
	query := fmt.Sprintf(`SELECT %s FROM orders WHERE received_event_id = $1`, orderColumns)

	return r.scanOrder(r.db.QueryRow(ctx, query, id))
}

// GetForUpdate gets an order and takes a row lock on it. Must run inside a
// transaction; the lock serializes concurrent appliers on the same order.
func (r *repository) GetForUpdate(ctx context.Context, id int64) (*Order, error) {
	query := fmt.Sprintf(`SELECT %s FROM orders WHERE received_event_id = $1 FOR UPDATE`, orderColumns)

	return r.scanOrder(r.db.QueryRow(ctx, query, id))
}

// GetWithClient gets an order joined with its owning client record.
func (r *repository) GetWithClient(ctx context.Context, id int64) (*OrderWithClient, error) {
	query := `SELECT o.received_event_id, o.symbol, o.quantity, o.state, o.received_time, o.processed_time, o.filled_time, o.client, o.filled_quantity, o.last_event_id, c.full_name FROM orders o JOIN clients c ON c.acronym = o.client WHERE o.received_event_id = $1`

	result := &OrderWithClient{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&result.ReceivedEventID,
		&result.Symbol,
		&result.Quantity,
		&result.State,
		&result.ReceivedTime,
		&result.ProcessedTime,
		&result.FilledTime,
		&result.Client,
		&result.FilledQuantity,
		&result.LastEventID,
		&result.ClientFullName,
	)
	if err != nil {
		if pkgerrors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.TracerFromError(err)
	}

	return result, nil
}

// Update persists the mutable lifecycle fields of an order.
func (r *repository) Update(ctx context.Context, order *Order) error {
	query := `UPDATE orders SET state = $1, processed_time = $2, filled_time = $3, filled_quantity = $4, last_event_id = $5 WHERE received_event_id = $6`

	cmd, err := r.db.Exec(ctx, query,
		order.State,
		order.ProcessedTime,
		order.FilledTime,
		order.FilledQuantity,
		order.LastEventID,
		order.ReceivedEventID,
	)
	if err != nil {
		return errors.TracerFromError(err)
	}

	r.logger.Info("Updated order", logger.Field{
		Key:   "commandTag",
		Value: cmd.String(),
	})

	return nil
}

// List lists orders matching the filter.
func (r *repository) List(ctx context.Context, filter Filter) ([]*Order, error) {
	query := fmt.Sprintf("SELECT %s FROM orders WHERE 1=1", orderColumns)
	args := []any{}
	argIndex := 1

	if filter.Client != "" {
		query += fmt.Sprintf(" AND client = $%d", argIndex)
		args = append(args, filter.Client)
		argIndex++
	}

	if filter.Symbol != "" {
		query += fmt.Sprintf(" AND symbol = $%d", argIndex)
		args = append(args, filter.Symbol)
		argIndex++
	}

	if filter.State != "" {
		query += fmt.Sprintf(" AND state = $%d", argIndex)
		args = append(args, filter.State)
		argIndex++
	}

	if filter.From != nil {
		query += fmt.Sprintf(" AND received_time >= $%d", argIndex)
		args = append(args, *filter.From)
		argIndex++
	}

	if filter.To != nil {
		query += fmt.Sprintf(" AND received_time <= $%d", argIndex)
		args = append(args, *filter.To)
		argIndex++
	}

	// Only ASC/DESC reach the query string
	direction := "DESC"
	if strings.EqualFold(filter.SortDirection, "ASC") {
		direction = "ASC"
	}
	query += " ORDER BY received_time " + direction

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIndex)
		args = append(args, filter.Limit)
		argIndex++
	}

	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argIndex)
		args = append(args, filter.Offset)
		argIndex++
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.TracerFromError(err)
	}
	defer rows.Close()

	orders := []*Order{}
	for rows.Next() {
		order := &Order{}
		err := rows.Scan(
			&order.ReceivedEventID,
			&order.Symbol,
			&order.Quantity,
			&order.State,
			&order.ReceivedTime,
			&order.ProcessedTime,
			&order.FilledTime,
			&order.Client,
			&order.FilledQuantity,
			&order.LastEventID,
		)
		if err != nil {
			return nil, errors.TracerFromError(err)
		}
		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.TracerFromError(err)
	}

	return orders, nil
}

func (r *repository) scanOrder(row pgx.Row) (*Order, error) {
	order := &Order{}
	err := row.Scan(
		&order.ReceivedEventID,
		&order.Symbol,
		&order.Quantity,
		&order.State,
		&order.ReceivedTime,
		&order.ProcessedTime,
		&order.FilledTime,
		&order.Client,
		&order.FilledQuantity,
		&order.LastEventID,
	)
	if err != nil {
		if pkgerrors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.TracerFromError(err)
	}

	return order, nil
}
