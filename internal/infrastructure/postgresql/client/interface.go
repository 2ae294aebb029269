package client

import "context"

//go:generate mockgen -source=interface.go -destination=mock/repository_mock.go -package=mock

// Repository persists trading clients.
type Repository interface {
	Store(ctx context.Context, client *Client) error
	GetByAcronym(ctx context.Context, acronym string) (*Client, error)
	List(ctx context.Context) ([]*Client, error)
}
