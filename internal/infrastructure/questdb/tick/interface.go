package tick

import "context"

//go:generate mockgen -source=interface.go -destination=mock/repository_mock.go -package=mock

// Repository mirrors market data ticks into the analytics store.
type Repository interface {
	Store(ctx context.Context, tick *Tick) error
	StoreBatch(ctx context.Context, ticks []*Tick) error
	GetByFilter(ctx context.Context, filter Filter) ([]*Tick, error)
	GetLatestBySymbol(ctx context.Context, symbol string) (*Tick, error)
}
