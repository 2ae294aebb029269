package tick

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/muhammadchandra19/ome/pkg/errors"
	"github.com/muhammadchandra19/ome/pkg/logger"
	"github.com/muhammadchandra19/ome/pkg/questdb"
	pkgerrors "github.com/pkg/errors"
)

type repository struct {
	client questdb.QuestDBClient
	logger logger.Interface
}

// NewRepository creates a new tick repository.
func NewRepository(client questdb.QuestDBClient, logger logger.Interface) *repository {
	return &repository{
		client: client,
		logger: logger,
	}
}

// Store stores a single tick.
func (r *repository) Store(ctx context.Context, tick *Tick) error {
	query := `INSERT INTO ticks (timestamp, symbol, price, volume, side) VALUES ($1, $2, $3, $4, $5)`

	err := r.client.Exec(ctx, query,
		tick.Timestamp, tick.Symbol, tick.Price, tick.Volume, tick.Side)
	if err != nil {
		return errors.TracerFromError(err)
	}

	return nil
}

// StoreBatch stores a batch of ticks via CopyFrom.
func (r *repository) StoreBatch(ctx context.Context, ticks []*Tick) error {
	if len(ticks) == 0 {
		return nil
	}

	copyCount, err := r.client.CopyFrom(
		ctx,
		pgx.Identifier{"ticks"},
		[]string{"timestamp", "symbol", "price", "volume", "side"},
		pgx.CopyFromSlice(len(ticks), func(i int) ([]any, error) {
			tick := ticks[i]
			return []any{
				tick.Timestamp,
				tick.Symbol,
				tick.Price,
				tick.Volume,
				tick.Side,
			}, nil
		}),
	)
	if err != nil {
		return errors.TracerFromError(err)
	}

	r.logger.Info("Inserted ticks", logger.Field{
		Key:   "count",
		Value: copyCount,
	})

	return nil
}

// GetByFilter retrieves ticks matching the filter.
func (r *repository) GetByFilter(ctx context.Context, filter Filter) ([]*Tick, error) {
	query := "SELECT timestamp, symbol, price, volume, side FROM ticks WHERE 1=1"
	args := []any{}
	argIndex := 1

	if filter.Symbol != "" {
		query += fmt.Sprintf(" AND symbol = $%d", argIndex)
		args = append(args, filter.Symbol)
		argIndex++
	}

	if filter.From != nil {
		query += fmt.Sprintf(" AND timestamp >= $%d", argIndex)
		args = append(args, *filter.From)
		argIndex++
	}

	if filter.To != nil {
		query += fmt.Sprintf(" AND timestamp <= $%d", argIndex)
		args = append(args, *filter.To)
		argIndex++
	}

	query += " ORDER BY timestamp DESC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIndex)
		args = append(args, filter.Limit)
		argIndex++
	}

	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argIndex)
		args = append(args, filter.Offset)
	}

	rows, err := r.client.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.TracerFromError(err)
	}
	defer rows.Close()

	ticks := []*Tick{}
	for rows.Next() {
		tick := &Tick{}
		err := rows.Scan(&tick.Timestamp, &tick.Symbol, &tick.Price, &tick.Volume, &tick.Side)
		if err != nil {
			return nil, errors.TracerFromError(err)
		}
		ticks = append(ticks, tick)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.TracerFromError(err)
	}

	return ticks, nil
}

// GetLatestBySymbol retrieves the most recent tick for a symbol.
func (r *repository) GetLatestBySymbol(ctx context.Context, symbol string) (*Tick, error) {
	query := `SELECT timestamp, symbol, price, volume, side FROM ticks WHERE symbol = $1 ORDER BY timestamp DESC LIMIT 1`

	tick := &Tick{}
	err := r.client.QueryRow(ctx, query, symbol).Scan(
		&tick.Timestamp, &tick.Symbol, &tick.Price, &tick.Volume, &tick.Side)
	if err != nil {
		if pkgerrors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.TracerFromError(err)
	}

	return tick, nil
}
