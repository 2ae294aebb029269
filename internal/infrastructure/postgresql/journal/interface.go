package journal

import "context"

//go:generate mockgen -source=interface.go -destination=mock/repository_mock.go -package=mock

// Repository is the append-only journal of exchange events.
// There are deliberately no update or delete methods.
type Repository interface {
	Append(ctx context.Context, event *ExchangeEvent) (int64, error)
	ReadSince(ctx context.Context, exchange string, cursor int64, limit int) ([]*ExchangeEvent, error)
	ReadBatch(ctx context.Context, cursor int64, limit int) ([]*ExchangeEvent, error)
}
