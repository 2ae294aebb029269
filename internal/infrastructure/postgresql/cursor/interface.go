package cursor

import "context"

//go:generate mockgen -source=interface.go -destination=mock/repository_mock.go -package=mock

// Repository tracks how far each consumer has read into the journal.
type Repository interface {
	Get(ctx context.Context, consumer string) (int64, error)
	Commit(ctx context.Context, consumer string, lastEventID int64) error
}
