package journal

import (
	"context"

	"github.com/muhammadchandra19/ome/internal/infrastructure/postgresql/journal"
	"github.com/muhammadchandra19/ome/pkg/errors"
	"github.com/muhammadchandra19/ome/pkg/logger"
)

type usecase struct {
	journalRepository journal.Repository
	logger            logger.Interface
}

// NewUsecase creates a new journal usecase.
func NewUsecase(journalRepository journal.Repository, logger logger.Interface) *usecase {
	return &usecase{journalRepository: journalRepository, logger: logger}
}

// Append journals an exchange event. Duplicate event ids surface as
// duplicate_event so callers can treat redelivery as a no-op.
func (u *usecase) Append(ctx context.Context, event *journal.ExchangeEvent) (int64, error) {
	id, err := u.journalRepository.Append(ctx, event)
	if err != nil {
		if errors.ErrorCodeEquals(err, string(errors.DuplicateEventError)) {
			u.logger.WarnContext(ctx, "duplicate event skipped", logger.Field{
				Key:   "eventID",
				Value: event.ID,
			})
		}
		return 0, err
	}

	return id, nil
}

// ReadSince reads events for one exchange past the cursor. Read failures
// surface as storage_unavailable so callers can retry with backoff.
func (u *usecase) ReadSince(ctx context.Context, exchange string, cursor int64, limit int) ([]*journal.ExchangeEvent, error) {
	events, err := u.journalRepository.ReadSince(ctx, exchange, cursor, limit)
	if err != nil {
		return nil, errors.NewErrorDetails(err.Error(), string(errors.StorageUnavailableError), "exchange_events")
	}
	return events, nil
}

// ReadBatch reads events across all exchanges past the cursor. Read failures
// surface as storage_unavailable so callers can retry with backoff.
func (u *usecase) ReadBatch(ctx context.Context, cursor int64, limit int) ([]*journal.ExchangeEvent, error) {
	events, err := u.journalRepository.ReadBatch(ctx, cursor, limit)
	if err != nil {
		return nil, errors.NewErrorDetails(err.Error(), string(errors.StorageUnavailableError), "exchange_events")
	}
	return events, nil
}
