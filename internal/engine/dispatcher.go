package engine

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	journalDomain "github.com/muhammadchandra19/ome/domain/journal"
	orderDomain "github.com/muhammadchandra19/ome/domain/order"
	"github.com/muhammadchandra19/ome/internal/infrastructure/postgresql/cursor"
	journalInfra "github.com/muhammadchandra19/ome/internal/infrastructure/postgresql/journal"
	"github.com/muhammadchandra19/ome/internal/infrastructure/questdb/tick"
	"github.com/muhammadchandra19/ome/pkg/backoff"
	"github.com/muhammadchandra19/ome/pkg/config"
	"github.com/muhammadchandra19/ome/pkg/errors"
	"github.com/muhammadchandra19/ome/pkg/logger"
)

// Dispatcher drains the journal past the committed cursor and applies events
// to orders. Events for the same order always land on the same worker, so
// per-order ordering holds while distinct orders apply in parallel.
type Dispatcher struct {
	journalUsecase   journalDomain.Usecase
	orderUsecase     orderDomain.Usecase
	cursorRepository cursor.Repository
	tickRepository   tick.Repository
	logger           logger.Interface
	cfg              config.EngineConfig

	paused   atomic.Bool
	stopping atomic.Bool
}

// NewDispatcher creates a new Dispatcher.
func NewDispatcher(
	journalUsecase journalDomain.Usecase,
	orderUsecase orderDomain.Usecase,
	cursorRepository cursor.Repository,
	tickRepository tick.Repository,
	logger logger.Interface,
	cfg config.EngineConfig,
) *Dispatcher {
	return &Dispatcher{
		journalUsecase:   journalUsecase,
		orderUsecase:     orderUsecase,
		cursorRepository: cursorRepository,
		tickRepository:   tickRepository,
		logger:           logger,
		cfg:              cfg,
	}
}

// Pause stops dequeuing new batches. In-flight work is unaffected.
func (d *Dispatcher) Pause() {
	d.paused.Store(true)
}

// Resume re-enables dequeuing.
func (d *Dispatcher) Resume() {
	d.paused.Store(false)
}

// RequestStop makes Run return after the current batch fully applies.
func (d *Dispatcher) RequestStop() {
	d.stopping.Store(true)
}

// Reset clears pause and stop requests before a new run.
func (d *Dispatcher) Reset() {
	d.paused.Store(false)
	d.stopping.Store(false)
}

// Run polls the journal until the context is cancelled or a stop is
// requested. It only checks for either between batches, so a batch that has
// started dispatching always finishes.
func (d *Dispatcher) Run(ctx context.Context) {
	pollInterval := time.Duration(d.cfg.PollIntervalMs) * time.Millisecond
	retries := 0

	for {
		if ctx.Err() != nil || d.stopping.Load() {
			return
		}

		if d.paused.Load() {
			d.wait(ctx, pollInterval)
			continue
		}

		cursorID, err := d.cursorRepository.Get(ctx, d.cfg.CursorName)
		if err != nil {
			d.backoffWait(ctx, &retries, err)
			continue
		}

		events, err := d.journalUsecase.ReadBatch(ctx, cursorID, d.cfg.BatchSize)
		if err != nil {
			d.backoffWait(ctx, &retries, err)
			continue
		}
		retries = 0

		if len(events) == 0 {
			d.wait(ctx, pollInterval)
			continue
		}

		if !d.dispatchBatch(ctx, events) {
			// Retry the batch after recovery; per-order dedup absorbs the
			// events that did apply.
			d.logger.WarnContext(ctx, "batch apply incomplete, cursor commit withheld", logger.Field{
				Key:   "cursor",
				Value: cursorID,
			})
			d.wait(ctx, pollInterval)
			continue
		}

		lastID := events[len(events)-1].ID
		if err := d.cursorRepository.Commit(ctx, d.cfg.CursorName, lastID); err != nil {
			// Redelivery after a missed commit is safe: per-order dedup
			// absorbs the replay.
			d.logger.ErrorContext(ctx, err, logger.Field{
				Key:   "action",
				Value: "commit_cursor",
			})
		}
	}
}

// dispatchBatch fans order events out across workers by order id and handles
// the rest inline. It reports false when any apply failed for a reason other
// than a duplicate or a validation outcome, so the caller can withhold the
// cursor commit and retry the batch.
func (d *Dispatcher) dispatchBatch(ctx context.Context, events []*journalInfra.ExchangeEvent) bool {
	workers := d.cfg.Workers
	if workers < 1 {
		workers = 1
	}
	buckets := make([][]*journalInfra.ExchangeEvent, workers)

	for _, event := range events {
		if !event.IsOrderScoped() {
			d.handleSystemEvent(ctx, event)
			continue
		}

		if event.EventType == journalInfra.EventOrderReceived {
			// The order row was written in the same transaction as this
			// event; there is nothing left to apply.
			continue
		}

		details, err := event.OrderDetails()
		if err != nil {
			d.logger.ErrorContext(ctx, err, logger.Field{
				Key:   "eventID",
				Value: event.ID,
			})
			continue
		}

		idx := int(uint64(details.OrderID) % uint64(workers))
		buckets[idx] = append(buckets[idx], event)
	}

	var wg sync.WaitGroup
	var failed atomic.Bool
	for _, bucket := range buckets {
		if len(bucket) == 0 {
			continue
		}
		wg.Add(1)
		go func(bucket []*journalInfra.ExchangeEvent) {
			defer wg.Done()
			if !d.applyBucket(ctx, bucket) {
				failed.Store(true)
			}
		}(bucket)
	}
	wg.Wait()

	return !failed.Load()
}

func (d *Dispatcher) applyBucket(ctx context.Context, events []*journalInfra.ExchangeEvent) bool {
	clean := true
	for _, event := range events {
		details, err := event.OrderDetails()
		if err != nil {
			d.logger.ErrorContext(ctx, err, logger.Field{
				Key:   "eventID",
				Value: event.ID,
			})
			continue
		}

		_, err = d.orderUsecase.Apply(ctx, details.OrderID, event)
		if err == nil {
			continue
		}

		switch {
		case errors.ErrorCodeEquals(err, string(errors.DuplicateEventError)):
			// Already applied on a previous run.
		case errors.ErrorCodeEquals(err, string(errors.InvalidTransitionError)),
			errors.ErrorCodeEquals(err, string(errors.OverfillError)),
			errors.ErrorCodeEquals(err, string(errors.OrderNotFoundError)):
			d.logger.WarnContext(ctx, "event not applicable", logger.Field{
				Key:   "eventID",
				Value: event.ID,
			}, logger.Field{
				Key:   "orderID",
				Value: details.OrderID,
			}, logger.Field{
				Key:   "reason",
				Value: err.Error(),
			})
		default:
			clean = false
			d.logger.ErrorContext(ctx, err, logger.Field{
				Key:   "action",
				Value: "apply_event",
			}, logger.Field{
				Key:   "eventID",
				Value: event.ID,
			})
		}
	}

	return clean
}

func (d *Dispatcher) handleSystemEvent(ctx context.Context, event *journalInfra.ExchangeEvent) {
	switch event.EventType {
	case journalInfra.EventExchangeConnected, journalInfra.EventExchangeDisconnected:
		d.logger.InfoContext(ctx, "exchange connectivity changed", logger.Field{
			Key:   "exchange",
			Value: event.Exchange,
		}, logger.Field{
			Key:   "eventType",
			Value: string(event.EventType),
		})
	case journalInfra.EventMarketData:
		d.mirrorTick(ctx, event)
	default:
		d.logger.WarnContext(ctx, "unknown event type skipped", logger.Field{
			Key:   "eventType",
			Value: string(event.EventType),
		})
	}
}

// mirrorTick copies a market_data payload into the tick store. Mirroring is
// best-effort: a failure never blocks order processing.
func (d *Dispatcher) mirrorTick(ctx context.Context, event *journalInfra.ExchangeEvent) {
	if d.tickRepository == nil {
		return
	}

	details, err := event.MarketDataDetails()
	if err != nil {
		d.logger.ErrorContext(ctx, err, logger.Field{
			Key:   "eventID",
			Value: event.ID,
		})
		return
	}

	err = d.tickRepository.Store(ctx, &tick.Tick{
		Timestamp: event.EventTime,
		Symbol:    details.Symbol,
		Price:     details.Price,
		Volume:    details.Volume,
		Side:      details.Side,
	})
	if err != nil {
		d.logger.ErrorContext(ctx, err, logger.Field{
			Key:   "action",
			Value: "mirror_tick",
		})
	}
}

func (d *Dispatcher) backoffWait(ctx context.Context, retries *int, err error) {
	delay := backoff.Calculate(*retries)
	*retries++

	d.logger.WarnContext(ctx, "journal read failed, backing off", logger.Field{
		Key:   "code",
		Value: string(errors.StorageUnavailableError),
	}, logger.Field{
		Key:   "retry",
		Value: *retries,
	}, logger.Field{
		Key:   "delay",
		Value: delay.String(),
	}, logger.Field{
		Key:   "error",
		Value: err.Error(),
	})

	d.wait(ctx, delay)
}

func (d *Dispatcher) wait(ctx context.Context, duration time.Duration) {
	timer := time.NewTimer(duration)
	defer timer.Stop()

	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
