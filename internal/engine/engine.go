package engine

import (
	"context"
	"sync"

	"github.com/muhammadchandra19/ome/pkg/errors"
	"github.com/muhammadchandra19/ome/pkg/logger"
)

// State is the engine lifecycle state.
type State string

const (
	// StateStopped is the initial state and the result of a completed stop.
	StateStopped State = "stopped"
	// StateStarting covers schema initialization during start.
	StateStarting State = "starting"
	// StateRunning means the dispatcher is draining the journal.
	StateRunning State = "running"
	// StatePaused means dequeuing is gated; in-flight work completes.
	StatePaused State = "paused"
	// StateStopping means the engine is draining in-flight applies.
	StateStopping State = "stopping"
	// StateShutdown is absorbing: no command leaves it.
	StateShutdown State = "shutdown"
)

// Migrator applies the storage schema before the engine runs.
type Migrator interface {
	MigrateUp(steps int) error
}

// Ingress is the exchange event source the engine owns, typically the Kafka
// event consumer.
type Ingress interface {
	Start(ctx context.Context)
	Subscribe(ctx context.Context)
	Stop() error
}

// Engine owns the processing lifecycle: stopped → starting → running ⇄ paused
// → stopping → stopped, with shutdown reachable from everywhere.
type Engine struct {
	mu    sync.Mutex
	state State

	dispatcher *Dispatcher
	migrator   Migrator
	ingress    Ingress
	logger     logger.Interface

	runCancel context.CancelFunc
	runDone   chan struct{}
}

// New creates a new Engine in the stopped state.
func New(dispatcher *Dispatcher, logger logger.Interface, opts ...Option) *Engine {
	e := &Engine{
		state:      StateStopped,
		dispatcher: dispatcher,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// State returns the current lifecycle state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Start initializes the schema and launches the dispatcher and ingress.
// Processing resumes from the committed cursor, so a stop/start cycle never
// skips events.
func (e *Engine) Start(ctx context.Context) error {
	e.mu.Lock()
	switch e.state {
	case StateStarting, StateRunning:
		e.mu.Unlock()
		return errors.NewErrorDetails("engine is already running", string(errors.AlreadyRunningError), "state")
	case StateStopped:
		e.state = StateStarting
		e.mu.Unlock()
	default:
		state := e.state
		e.mu.Unlock()
		return errors.NewErrorDetails("cannot start from state "+string(state), string(errors.InvalidLifecycleStateError), "state")
	}

	if e.migrator != nil {
		if err := e.migrator.MigrateUp(0); err != nil {
			e.logger.ErrorContext(ctx, err, logger.Field{
				Key:   "action",
				Value: "migrate_up",
			})
			e.mu.Lock()
			if e.state == StateStarting {
				e.state = StateStopped
			}
			e.mu.Unlock()
			return errors.NewErrorDetails("schema initialization failed", string(errors.SchemaError), "migrations")
		}
	}

	runCtx, cancel := context.WithCancel(context.Background())

	e.mu.Lock()
	if e.state != StateStarting {
		// A concurrent stop or shutdown won the race during schema init.
		state := e.state
		e.mu.Unlock()
		cancel()
		e.logger.InfoContext(ctx, "engine start superseded", logger.Field{
			Key:   "state",
			Value: string(state),
		})
		return nil
	}
	e.runCancel = cancel
	e.runDone = make(chan struct{})
	runDone := e.runDone
	e.dispatcher.Reset()
	e.state = StateRunning
	e.mu.Unlock()

	go func() {
		defer close(runDone)
		e.dispatcher.Run(runCtx)
	}()

	if e.ingress != nil {
		go e.ingress.Start(runCtx)
		go e.ingress.Subscribe(runCtx)
	}

	e.logger.InfoContext(ctx, "engine started", logger.Field{
		Key:   "action",
		Value: "engine_start",
	})

	return nil
}

// Pause gates dequeuing of new journal batches. Events keep accumulating in
// the journal and in-flight applies complete.
func (e *Engine) Pause(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != StateRunning {
		return errors.NewErrorDetails("cannot pause from state "+string(e.state), string(errors.InvalidLifecycleStateError), "state")
	}

	e.dispatcher.Pause()
	e.state = StatePaused
	e.logger.InfoContext(ctx, "engine paused", logger.Field{
		Key:   "action",
		Value: "engine_pause",
	})

	return nil
}

// Resume re-enables dequeuing after a pause. Resuming an engine that is
// already running succeeds without effect.
func (e *Engine) Resume(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch e.state {
	case StateRunning:
		return nil
	case StatePaused:
		e.dispatcher.Resume()
		e.state = StateRunning
		e.logger.InfoContext(ctx, "engine resumed", logger.Field{
			Key:   "action",
			Value: "engine_resume",
		})
		return nil
	default:
		return errors.NewErrorDetails("cannot resume from state "+string(e.state), string(errors.InvalidLifecycleStateError), "state")
	}
}

// Stop drains in-flight applies and stops processing. The committed cursor
// survives, so a later Start picks up exactly where this left off. Stopping
// mid-start aborts the launch.
func (e *Engine) Stop(ctx context.Context) error {
	e.mu.Lock()
	if e.state != StateRunning && e.state != StatePaused && e.state != StateStarting {
		state := e.state
		e.mu.Unlock()
		return errors.NewErrorDetails("cannot stop from state "+string(state), string(errors.InvalidLifecycleStateError), "state")
	}
	e.state = StateStopping
	runDone := e.runDone
	e.mu.Unlock()

	e.dispatcher.RequestStop()
	if runDone != nil {
		<-runDone
	}

	if e.ingress != nil {
		if err := e.ingress.Stop(); err != nil {
			e.logger.ErrorContext(ctx, err, logger.Field{
				Key:   "action",
				Value: "ingress_stop",
			})
		}
	}

	e.mu.Lock()
	if e.runCancel != nil {
		e.runCancel()
		e.runCancel = nil
	}
	e.state = StateStopped
	e.mu.Unlock()

	e.logger.InfoContext(ctx, "engine stopped", logger.Field{
		Key:   "action",
		Value: "engine_stop",
	})

	return nil
}

// Shutdown cancels everything and releases resources. It succeeds from any
// state and is idempotent.
func (e *Engine) Shutdown(ctx context.Context) error {
	e.mu.Lock()
	if e.state == StateShutdown {
		e.mu.Unlock()
		return nil
	}
	e.state = StateShutdown
	runCancel := e.runCancel
	runDone := e.runDone
	e.runCancel = nil
	e.mu.Unlock()

	e.dispatcher.RequestStop()
	if runCancel != nil {
		runCancel()
	}
	if runDone != nil {
		<-runDone
	}

	if e.ingress != nil {
		if err := e.ingress.Stop(); err != nil {
			e.logger.ErrorContext(ctx, err, logger.Field{
				Key:   "action",
				Value: "ingress_stop",
			})
		}
	}

	e.logger.InfoContext(ctx, "engine shut down", logger.Field{
		Key:   "action",
		Value: "engine_shutdown",
	})

	return nil
}
