package order

import (
	"context"

	journalInfra "github.com/muhammadchandra19/ome/internal/infrastructure/postgresql/journal"
	orderInfra "github.com/muhammadchandra19/ome/internal/infrastructure/postgresql/order"
)

//go:generate mockgen -source=interface.go -destination=mock/usecase_mock.go -package=mock

// Usecase drives the order lifecycle.
type Usecase interface {
	PlaceOrder(ctx context.Context, req *PlaceOrderRequest) (*orderInfra.Order, error)
	Apply(ctx context.Context, orderID int64, event *journalInfra.ExchangeEvent) (*orderInfra.Order, error)
	GetOrder(ctx context.Context, orderID int64) (*orderInfra.Order, error)
	GetOrderWithClient(ctx context.Context, orderID int64) (*orderInfra.OrderWithClient, error)
	ListOrders(ctx context.Context, filter orderInfra.Filter) ([]*orderInfra.Order, error)
}
