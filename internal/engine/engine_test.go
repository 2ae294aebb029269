package engine

import (
	"context"
	stderrors "errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	domain "github.com/muhammadchandra19/ome/domain/order"
	journalInfra "github.com/muhammadchandra19/ome/internal/infrastructure/postgresql/journal"
	orderInfra "github.com/muhammadchandra19/ome/internal/infrastructure/postgresql/order"
	"github.com/muhammadchandra19/ome/pkg/config"
	"github.com/muhammadchandra19/ome/pkg/errors"
	"github.com/muhammadchandra19/ome/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeJournal serves queued batches, then empties. When replay is set it
// instead serves events past the requested cursor, like the real journal.
type fakeJournal struct {
	mu          sync.Mutex
	batches     [][]*journalInfra.ExchangeEvent
	replay      []*journalInfra.ExchangeEvent
	reads       atomic.Int64
	lastCursors []int64
}

func (f *fakeJournal) Append(ctx context.Context, event *journalInfra.ExchangeEvent) (int64, error) {
	return 0, nil
}

func (f *fakeJournal) ReadSince(ctx context.Context, exchange string, cursor int64, limit int) ([]*journalInfra.ExchangeEvent, error) {
	return nil, nil
}

func (f *fakeJournal) ReadBatch(ctx context.Context, cursor int64, limit int) ([]*journalInfra.ExchangeEvent, error) {
	f.reads.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastCursors = append(f.lastCursors, cursor)
	if f.replay != nil {
		batch := []*journalInfra.ExchangeEvent{}
		for _, event := range f.replay {
			if event.ID > cursor && len(batch) < limit {
				batch = append(batch, event)
			}
		}
		return batch, nil
	}
	if len(f.batches) == 0 {
		return nil, nil
	}
	batch := f.batches[0]
	f.batches = f.batches[1:]
	return batch, nil
}

func (f *fakeJournal) cursorsSeen() []int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]int64, len(f.lastCursors))
	copy(out, f.lastCursors)
	return out
}

// fakeOrders records applies and can block or fail them.
type fakeOrders struct {
	applied atomic.Int64
	block   chan struct{}
	started chan struct{}

	mu  sync.Mutex
	err error
}

func (f *fakeOrders) setErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

func (f *fakeOrders) applyErr() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

func (f *fakeOrders) PlaceOrder(ctx context.Context, req *domain.PlaceOrderRequest) (*orderInfra.Order, error) {
	return nil, nil
}

func (f *fakeOrders) Apply(ctx context.Context, orderID int64, event *journalInfra.ExchangeEvent) (*orderInfra.Order, error) {
	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.block != nil {
		<-f.block
	}
	if err := f.applyErr(); err != nil {
		return nil, err
	}
	f.applied.Add(1)
	return &orderInfra.Order{ReceivedEventID: orderID}, nil
}

func (f *fakeOrders) GetOrder(ctx context.Context, orderID int64) (*orderInfra.Order, error) {
	return nil, nil
}

func (f *fakeOrders) GetOrderWithClient(ctx context.Context, orderID int64) (*orderInfra.OrderWithClient, error) {
	return nil, nil
}

func (f *fakeOrders) ListOrders(ctx context.Context, filter orderInfra.Filter) ([]*orderInfra.Order, error) {
	return nil, nil
}

// fakeCursor persists the committed cursor in memory.
type fakeCursor struct {
	mu        sync.Mutex
	committed int64
}

func (f *fakeCursor) Get(ctx context.Context, consumer string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.committed, nil
}

func (f *fakeCursor) Commit(ctx context.Context, consumer string, lastEventID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.committed = lastEventID
	return nil
}

func (f *fakeCursor) value() int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.committed
}

type fakeMigrator struct {
	calls atomic.Int64
	err   error
}

func (f *fakeMigrator) MigrateUp(steps int) error {
	f.calls.Add(1)
	return f.err
}

// blockingMigrator holds the engine in starting until released.
type blockingMigrator struct {
	started chan struct{}
	release chan struct{}
}

func (m *blockingMigrator) MigrateUp(steps int) error {
	m.started <- struct{}{}
	<-m.release
	return nil
}

type fakeIngress struct {
	starts     atomic.Int64
	subscribes atomic.Int64
	stops      atomic.Int64
}

func (f *fakeIngress) Start(ctx context.Context)     { f.starts.Add(1) }
func (f *fakeIngress) Subscribe(ctx context.Context) { f.subscribes.Add(1) }
func (f *fakeIngress) Stop() error                   { f.stops.Add(1); return nil }

func testConfig() config.EngineConfig {
	return config.EngineConfig{
		Workers:        2,
		BatchSize:      10,
		PollIntervalMs: 5,
		CursorName:     "engine-test",
	}
}

func orderEvent(id, orderID, quantity int64) *journalInfra.ExchangeEvent {
	details, _ := journalInfra.EncodeDetails(journalInfra.OrderDetails{OrderID: orderID, Quantity: quantity})
	now := time.Now()
	return &journalInfra.ExchangeEvent{
		ID:        id,
		Exchange:  "NASDAQ",
		EventType: journalInfra.EventOrderFill,
		EventTime: now,
		Timestamp: now,
		Details:   details,
	}
}

func newTestEngine(t *testing.T, journal *fakeJournal, orders *fakeOrders, cur *fakeCursor, opts ...Option) *Engine {
	t.Helper()
	log, err := logger.NewLogger()
	require.NoError(t, err)

	dispatcher := NewDispatcher(journal, orders, cur, nil, log, testConfig())
	return New(dispatcher, log, opts...)
}

func eventually(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatal("condition not met within timeout")
}

func TestEngine_StartAppliesAndCommits(t *testing.T) {
	ctx := context.Background()
	journal := &fakeJournal{batches: [][]*journalInfra.ExchangeEvent{
		{orderEvent(5, 1, 40), orderEvent(6, 2, 60)},
	}}
	orders := &fakeOrders{}
	cur := &fakeCursor{}
	migrator := &fakeMigrator{}

	e := newTestEngine(t, journal, orders, cur, WithMigrator(migrator))

	require.NoError(t, e.Start(ctx))
	assert.Equal(t, StateRunning, e.State())
	assert.Equal(t, int64(1), migrator.calls.Load())

	eventually(t, time.Second, func() bool {
		return orders.applied.Load() == 2 && cur.value() == 6
	})

	require.NoError(t, e.Stop(ctx))
	assert.Equal(t, StateStopped, e.State())

	// No dequeuing after stop
	reads := journal.reads.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, reads, journal.reads.Load())
}

func TestEngine_StartWhenRunning(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t, &fakeJournal{}, &fakeOrders{}, &fakeCursor{})

	require.NoError(t, e.Start(ctx))
	defer e.Shutdown(ctx)

	err := e.Start(ctx)
	require.Error(t, err)
	assert.True(t, errors.ErrorCodeEquals(err, string(errors.AlreadyRunningError)))
	assert.Equal(t, StateRunning, e.State())
}

func TestEngine_PauseGatesDequeuing(t *testing.T) {
	ctx := context.Background()
	journal := &fakeJournal{}
	e := newTestEngine(t, journal, &fakeOrders{}, &fakeCursor{})

	require.NoError(t, e.Start(ctx))
	defer e.Shutdown(ctx)

	require.NoError(t, e.Pause(ctx))
	assert.Equal(t, StatePaused, e.State())

	// Let any in-flight poll settle, then verify nothing is dequeued
	time.Sleep(20 * time.Millisecond)
	reads := journal.reads.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, reads, journal.reads.Load())

	require.NoError(t, e.Resume(ctx))
	assert.Equal(t, StateRunning, e.State())

	eventually(t, time.Second, func() bool {
		return journal.reads.Load() > reads
	})
}

func TestEngine_StopWaitsForInFlightApply(t *testing.T) {
	ctx := context.Background()
	journal := &fakeJournal{batches: [][]*journalInfra.ExchangeEvent{
		{orderEvent(5, 1, 40)},
	}}
	orders := &fakeOrders{
		block:   make(chan struct{}),
		started: make(chan struct{}, 1),
	}
	e := newTestEngine(t, journal, orders, &fakeCursor{})

	require.NoError(t, e.Start(ctx))
	<-orders.started

	stopDone := make(chan error, 1)
	go func() {
		stopDone <- e.Stop(ctx)
	}()

	select {
	case <-stopDone:
		t.Fatal("stop returned before in-flight apply finished")
	case <-time.After(30 * time.Millisecond):
	}
	assert.Equal(t, StateStopping, e.State())

	close(orders.block)

	require.NoError(t, <-stopDone)
	assert.Equal(t, StateStopped, e.State())
	assert.Equal(t, int64(1), orders.applied.Load())
}

func TestEngine_RestartResumesFromCommittedCursor(t *testing.T) {
	ctx := context.Background()
	journal := &fakeJournal{batches: [][]*journalInfra.ExchangeEvent{
		{orderEvent(5, 1, 40)},
	}}
	orders := &fakeOrders{}
	cur := &fakeCursor{}
	e := newTestEngine(t, journal, orders, cur)

	require.NoError(t, e.Start(ctx))
	eventually(t, time.Second, func() bool { return cur.value() == 5 })
	require.NoError(t, e.Stop(ctx))

	require.NoError(t, e.Start(ctx))
	defer e.Shutdown(ctx)

	eventually(t, time.Second, func() bool {
		cursors := journal.cursorsSeen()
		return len(cursors) > 0 && cursors[len(cursors)-1] == 5
	})
}

func TestEngine_InvalidCommands(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t, &fakeJournal{}, &fakeOrders{}, &fakeCursor{})

	err := e.Pause(ctx)
	require.Error(t, err)
	assert.True(t, errors.ErrorCodeEquals(err, string(errors.InvalidLifecycleStateError)))

	err = e.Stop(ctx)
	require.Error(t, err)
	assert.True(t, errors.ErrorCodeEquals(err, string(errors.InvalidLifecycleStateError)))

	err = e.Resume(ctx)
	require.Error(t, err)
	assert.True(t, errors.ErrorCodeEquals(err, string(errors.InvalidLifecycleStateError)))

	assert.Equal(t, StateStopped, e.State())

	require.NoError(t, e.Start(ctx))
	require.NoError(t, e.Shutdown(ctx))
}

func TestEngine_ResumeWhileRunningIsNoOp(t *testing.T) {
	ctx := context.Background()
	journal := &fakeJournal{}
	e := newTestEngine(t, journal, &fakeOrders{}, &fakeCursor{})

	require.NoError(t, e.Start(ctx))
	defer e.Shutdown(ctx)

	require.NoError(t, e.Resume(ctx))
	assert.Equal(t, StateRunning, e.State())

	// Still dequeuing
	reads := journal.reads.Load()
	eventually(t, time.Second, func() bool {
		return journal.reads.Load() > reads
	})
}

func TestEngine_StopDuringStartAbortsLaunch(t *testing.T) {
	ctx := context.Background()
	journal := &fakeJournal{}
	migrator := &blockingMigrator{
		started: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
	e := newTestEngine(t, journal, &fakeOrders{}, &fakeCursor{}, WithMigrator(migrator))

	startDone := make(chan error, 1)
	go func() {
		startDone <- e.Start(ctx)
	}()
	<-migrator.started
	assert.Equal(t, StateStarting, e.State())

	require.NoError(t, e.Stop(ctx))
	assert.Equal(t, StateStopped, e.State())

	close(migrator.release)
	require.NoError(t, <-startDone)
	assert.Equal(t, StateStopped, e.State())

	// The dispatcher was never launched
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, int64(0), journal.reads.Load())
}

func TestEngine_RestartRelaunchesIngress(t *testing.T) {
	ctx := context.Background()
	ingress := &fakeIngress{}
	e := newTestEngine(t, &fakeJournal{}, &fakeOrders{}, &fakeCursor{}, WithIngress(ingress))

	require.NoError(t, e.Start(ctx))
	eventually(t, time.Second, func() bool {
		return ingress.starts.Load() == 1 && ingress.subscribes.Load() == 1
	})

	require.NoError(t, e.Stop(ctx))
	assert.Equal(t, int64(1), ingress.stops.Load())

	require.NoError(t, e.Start(ctx))
	eventually(t, time.Second, func() bool {
		return ingress.starts.Load() == 2 && ingress.subscribes.Load() == 2
	})

	require.NoError(t, e.Shutdown(ctx))
	assert.Equal(t, int64(2), ingress.stops.Load())
}

func TestEngine_ApplyFailureWithholdsCursor(t *testing.T) {
	ctx := context.Background()
	journal := &fakeJournal{replay: []*journalInfra.ExchangeEvent{orderEvent(5, 1, 40)}}
	orders := &fakeOrders{}
	orders.setErr(stderrors.New("connection refused"))
	cur := &fakeCursor{}
	e := newTestEngine(t, journal, orders, cur)

	require.NoError(t, e.Start(ctx))
	defer e.Shutdown(ctx)

	// The batch is redelivered while applies fail; the cursor never advances
	reads := journal.reads.Load()
	eventually(t, time.Second, func() bool {
		return journal.reads.Load() > reads+2
	})
	assert.Equal(t, int64(0), cur.value())
	assert.Equal(t, int64(0), orders.applied.Load())

	orders.setErr(nil)
	eventually(t, time.Second, func() bool {
		return cur.value() == 5 && orders.applied.Load() == 1
	})
}

func TestEngine_ShutdownIsAbsorbingAndIdempotent(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t, &fakeJournal{}, &fakeOrders{}, &fakeCursor{})

	require.NoError(t, e.Start(ctx))
	require.NoError(t, e.Shutdown(ctx))
	assert.Equal(t, StateShutdown, e.State())

	require.NoError(t, e.Shutdown(ctx))
	assert.Equal(t, StateShutdown, e.State())

	err := e.Start(ctx)
	require.Error(t, err)
	assert.True(t, errors.ErrorCodeEquals(err, string(errors.InvalidLifecycleStateError)))

	err = e.Pause(ctx)
	require.Error(t, err)
	assert.Equal(t, StateShutdown, e.State())
}

func TestEngine_MigrationFailureIsFatal(t *testing.T) {
	ctx := context.Background()
	migrator := &fakeMigrator{err: stderrors.New("relation already exists")}
	e := newTestEngine(t, &fakeJournal{}, &fakeOrders{}, &fakeCursor{}, WithMigrator(migrator))

	err := e.Start(ctx)
	require.Error(t, err)
	assert.True(t, errors.ErrorCodeEquals(err, string(errors.SchemaError)))
	assert.Equal(t, StateStopped, e.State())
}
