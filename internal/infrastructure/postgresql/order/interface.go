package order

import "context"

//go:generate mockgen -source=interface.go -destination=mock/repository_mock.go -package=mock

// Repository is the persistence layer for orders. Orders are never deleted.
type Repository interface {
	Store(ctx context.Context, order *Order) error
	GetByID(ctx context.Context, id int64) (*Order, error)
	GetForUpdate(ctx context.Context, id int64) (*Order, error)
	GetWithClient(ctx context.Context, id int64) (*OrderWithClient, error)
	Update(ctx context.Context, order *Order) error
	List(ctx context.Context, filter Filter) ([]*Order, error)
}
