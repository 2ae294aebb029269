package client

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

// NewRepository creates a new client repository.
func NewRepository(db postgresql.PostgreSQLClient, logger logger.Interface) *repository {
	return &repository{
		db:     db,
		logger: logger,
	}
}

// Store inserts a client, updating the full name when the acronym exists.
func (r *repository) Store(ctx context.Context, client *Client) error {
	query := `INSERT INTO clients (acronym, full_name) VALUES ($1, $2) ON CONFLICT (acronym) DO UPDATE SET full_name = EXCLUDED.full_name`

	cmd, err := r.db.Exec(ctx, query,
		client.Acronym,
		client.FullName,
	)
	if err != nil {
		return errors.TracerFromError(err)
	}

	r.logger.Info("Upserted client", logger.Field{
		Key:   "commandTag",
		Value: cmd.String(),
	})

	return nil
}

// GetByAcronym gets a client by its acronym. Returns nil when absent.
func (r *repository) GetByAcronym(ctx context.Context, acronym string) (*Client, error) {
	query := `SELECT acronym, full_name FROM clients WHERE acronym = $1`

	client := &Client{}
	err := r.db.QueryRow(ctx, query, acronym).Scan(
		&client.Acronym,
		&client.FullName,
	)
	if err != nil {
		if pkgerrors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.TracerFromError(err)
	}

	return client, nil
}

// List lists every registered client.
func (r *repository) List(ctx context.Context) ([]*Client, error) {
	query := `SELECT acronym, full_name FROM clients ORDER BY acronym ASC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, errors.TracerFromError(err)
	}
	defer rows.Close()

	clients := []*Client{}
	for rows.Next() {
		client := &Client{}
		if err := rows.Scan(&client.Acronym, &client.FullName); err != nil {
			return nil, errors.TracerFromError(err)
		}
		clients = append(clients, client)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.TracerFromError(err)
	}

	return clients, nil
}
