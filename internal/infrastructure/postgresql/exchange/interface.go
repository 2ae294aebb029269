package exchange

import "context"

//go:generate mockgen -source=interface.go -destination=mock/repository_mock.go -package=mock

// Repository persists exchanges and their listed symbols.
type Repository interface {
	Store(ctx context.Context, exchange *Exchange) error
	GetByName(ctx context.Context, name string) (*Exchange, error)
	List(ctx context.Context) ([]*Exchange, error)

	StoreSymbol(ctx context.Context, symbol *Symbol) error
	GetSymbol(ctx context.Context, symbol string) (*Symbol, error)
	ListSymbols(ctx context.Context, exchange string) ([]*Symbol, error)
}
