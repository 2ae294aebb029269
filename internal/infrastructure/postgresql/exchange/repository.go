package exchange

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

// NewRepository creates a new exchange repository.
func NewRepository(db postgresql.PostgreSQLClient, logger logger.Interface) *repository {
	return &repository{
		db:     db,
		logger: logger,
	}
}

// Store inserts an exchange, updating the full name when the name exists.
func (r *repository) Store(ctx context.Context, exchange *Exchange) error {
	query := `INSERT INTO exchanges (name, full_name) VALUES ($1, $2) ON CONFLICT (name) DO UPDATE SET full_name = EXCLUDED.full_name`

	cmd, err := r.db.Exec(ctx, query,
		exchange.Name,
		exchange.FullName,
	)
	if err != nil {
		return errors.TracerFromError(err)
	}

	r.logger.Info("Upserted exchange", logger.Field{
		Key:   "commandTag",
		Value: cmd.String(),
	})

	return nil
}

// GetByName gets an exchange by its name. Returns nil when absent.
func (r *repository) GetByName(ctx context.Context, name string) (*Exchange, error) {
	query := `SELECT name, full_name FROM exchanges WHERE name = $1`

	exchange := &Exchange{}
	err := r.db.QueryRow(ctx, query, name).Scan(
		&exchange.Name,
		&exchange.FullName,
	)
	if err != nil {
		if pkgerrors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.TracerFromError(err)
	}

	return exchange, nil
}

// List lists every registered exchange.
func (r *repository) List(ctx context.Context) ([]*Exchange, error) {
	query := `SELECT name, full_name FROM exchanges ORDER BY name ASC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, errors.TracerFromError(err)
	}
	defer rows.Close()

	exchanges := []*Exchange{}
	for rows.Next() {
		exchange := &Exchange{}
		if err := rows.Scan(&exchange.Name, &exchange.FullName); err != nil {
			return nil, errors.TracerFromError(err)
		}
		exchanges = append(exchanges, exchange)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.TracerFromError(err)
	}

	return exchanges, nil
}

// StoreSymbol inserts a symbol listing, updating its metadata when it exists.
func (r *repository) StoreSymbol(ctx context.Context, symbol *Symbol) error {
	query := `INSERT INTO symbols (symbol, exchange, primary_listing, description) VALUES ($1, $2, $3, $4) ON CONFLICT (symbol) DO UPDATE SET exchange = EXCLUDED.exchange, primary_listing = EXCLUDED.primary_listing, description = EXCLUDED.description`

	cmd, err := r.db.Exec(ctx, query,
		symbol.Symbol,
		symbol.Exchange,
		symbol.PrimaryListing,
		symbol.Description,
	)
	if err != nil {
		return errors.TracerFromError(err)
	}

	r.logger.Info("Upserted symbol", logger.Field{
		Key:   "commandTag",
		Value: cmd.String(),
	})

	return nil
}

// GetSymbol gets a symbol listing. Returns nil when absent.
func (r *repository) GetSymbol(ctx context.Context, symbol string) (*Symbol, error) {
	query := `SELECT symbol, exchange, primary_listing, description FROM symbols WHERE symbol = $1`

	result := &Symbol{}
	err := r.db.QueryRow(ctx, query, symbol).Scan(
		&result.Symbol,
		&result.Exchange,
		&result.PrimaryListing,
		&result.Description,
	)
	if err != nil {
		if pkgerrors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.TracerFromError(err)
	}

	return result, nil
}

// ListSymbols lists symbols, optionally restricted to one exchange.
func (r *repository) ListSymbols(ctx context.Context, exchange string) ([]*Symbol, error) {
	query := `SELECT symbol, exchange, primary_listing, description FROM symbols`
	args := []any{}

	if exchange != "" {
		query += ` WHERE exchange = $1`
		args = append(args, exchange)
	}

	query += ` ORDER BY symbol ASC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.TracerFromError(err)
	}
	defer rows.Close()

	symbols := []*Symbol{}
	for rows.Next() {
		symbol := &Symbol{}
		err := rows.Scan(
			&symbol.Symbol,
			&symbol.Exchange,
			&symbol.PrimaryListing,
			&symbol.Description,
		)
		if err != nil {
			return nil, errors.TracerFromError(err)
		}
		symbols = append(symbols, symbol)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.TracerFromError(err)
	}

	return symbols, nil
}
