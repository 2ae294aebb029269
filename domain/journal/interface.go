package journal

import (
	"context"

	journalInfra "github.com/muhammadchandra19/ome/internal/infrastructure/postgresql/journal"
)

//go:generate mockgen -source=interface.go -destination=mock/usecase_mock.go -package=mock

// Usecase is the append and read surface of the event journal.
type Usecase interface {
	Append(ctx context.Context, event *journalInfra.ExchangeEvent) (int64, error)
	ReadSince(ctx context.Context, exchange string, cursor int64, limit int) ([]*journalInfra.ExchangeEvent, error)
	ReadBatch(ctx context.Context, cursor int64, limit int) ([]*journalInfra.ExchangeEvent, error)
}
