package engine

import (
	"context"

	journalDomain "github.com/muhammadchandra19/ome/domain/journal"
	orderDomain "github.com/muhammadchandra19/ome/domain/order"
	consumer "github.com/muhammadchandra19/ome/internal/consumer/event-consumer"
	coreEngine "github.com/muhammadchandra19/ome/internal/engine"
	clientInfra "github.com/muhammadchandra19/ome/internal/infrastructure/postgresql/client"
	cursorInfra "github.com/muhammadchandra19/ome/internal/infrastructure/postgresql/cursor"
	exchangeInfra "github.com/muhammadchandra19/ome/internal/infrastructure/postgresql/exchange"
	journalInfra "github.com/muhammadchandra19/ome/internal/infrastructure/postgresql/journal"
	orderInfra "github.com/muhammadchandra19/ome/internal/infrastructure/postgresql/order"
	tickInfra "github.com/muhammadchandra19/ome/internal/infrastructure/questdb/tick"
	journalUc "github.com/muhammadchandra19/ome/internal/usecase/journal"
	orderUc "github.com/muhammadchandra19/ome/internal/usecase/order"
	"github.com/muhammadchandra19/ome/pkg/config"
	"github.com/muhammadchandra19/ome/pkg/errors"
	"github.com/muhammadchandra19/ome/pkg/logger"
	"github.com/muhammadchandra19/ome/pkg/migration"
	"github.com/muhammadchandra19/ome/pkg/postgresql"
	"github.com/muhammadchandra19/ome/pkg/questdb"
)

// App wires the order management engine together.
type App struct {
	Engine *coreEngine.Engine

	logger logger.Interface
	config config.Config

	db      postgresql.PostgreSQLClient
	questDB questdb.QuestDBClient

	journalRepository  journalInfra.Repository
	orderRepository    orderInfra.Repository
	clientRepository   clientInfra.Repository
	exchangeRepository exchangeInfra.Repository
	cursorRepository   cursorInfra.Repository
	tickRepository     tickInfra.Repository

	journalUsecase journalDomain.Usecase
	orderUsecase   orderDomain.Usecase
}

// InitEngine initializes the engine and its dependency graph.
func InitEngine(ctx context.Context, cfg config.Config) (*App, error) {
	log, err := logger.NewLogger()
	if err != nil {
		return nil, err
	}

	app := &App{
		logger: log,
		config: cfg,
	}

	if err := app.initDB(ctx); err != nil {
		return nil, err
	}
	app.registerRepositories()
	app.registerUsecases()

	ingress := consumer.NewEventConsumer(cfg.ExchangeKafka, app.journalUsecase, log)

	runner := migration.NewRunner(ctx, app.db, migration.Config{
		MigrationDir: cfg.Engine.MigrationDir,
		Schema:       "public",
		TableName:    "schema_migrations",
	})

	dispatcher := coreEngine.NewDispatcher(
		app.journalUsecase,
		app.orderUsecase,
		app.cursorRepository,
		app.tickRepository,
		log,
		cfg.Engine,
	)

	app.Engine = coreEngine.New(
		dispatcher,
		log,
		coreEngine.WithMigrator(&schemaMigrator{runner: runner}),
		coreEngine.WithIngress(ingress),
	)

	return app, nil
}

// Close releases the app's storage connections.
func (a *App) Close() {
	if a.db != nil {
		a.db.Close()
	}
	if a.questDB != nil {
		a.questDB.Close()
	}
}

func (a *App) initDB(ctx context.Context) error {
	db, err := postgresql.NewClient(ctx, a.config.PostgreSQL)
	if err != nil {
		a.logger.ErrorContext(ctx, err, logger.Field{
			Key:   "action",
			Value: "init_db",
		})
		return err
	}

	health := db.CheckHealth(ctx)
	if health.Status != "healthy" {
		healthErr := errors.NewErrorDetails(health.Error, string(errors.StorageUnavailableError), "postgresql")
		a.logger.ErrorContext(ctx, healthErr, logger.Field{
			Key:   "action",
			Value: "check_health",
		})
		return healthErr
	}
	a.logger.InfoContext(ctx, "postgresql healthy", logger.Field{
		Key:   "version",
		Value: health.Version,
	}, logger.Field{
		Key:   "responseTime",
		Value: health.ResponseTime.String(),
	})
	a.db = db

	// The tick mirror is best-effort; run without it when QuestDB is down.
	qdb, err := questdb.NewClient(ctx, a.config.QuestDB)
	if err != nil {
		a.logger.WarnContext(ctx, "questdb unavailable, tick mirroring disabled", logger.Field{
			Key:   "error",
			Value: err.Error(),
		})
		return nil
	}
	a.questDB = qdb

	return nil
}

func (a *App) registerRepositories() {
	a.journalRepository = journalInfra.NewRepository(a.db, a.logger)
	a.orderRepository = orderInfra.NewRepository(a.db, a.logger)
	a.clientRepository = clientInfra.NewRepository(a.db, a.logger)
	a.exchangeRepository = exchangeInfra.NewRepository(a.db, a.logger)
	a.cursorRepository = cursorInfra.NewRepository(a.db, a.logger)
	if a.questDB != nil {
		a.tickRepository = tickInfra.NewRepository(a.questDB, a.logger)
	}
}

func (a *App) registerUsecases() {
	dbTx := postgresql.NewTransaction(a.db)

	a.journalUsecase = journalUc.NewUsecase(a.journalRepository, a.logger)
	a.orderUsecase = orderUc.NewUsecase(
		a.orderRepository,
		a.journalRepository,
		a.clientRepository,
		a.exchangeRepository,
		dbTx,
		a.logger,
	)
}

// schemaMigrator adapts the migration runner to the engine's start hook.
type schemaMigrator struct {
	runner *migration.Runner
}

func (m *schemaMigrator) MigrateUp(steps int) error {
	if err := m.runner.EnsureMigrationTable(); err != nil {
		return err
	}
	return m.runner.MigrateUp(steps)
}
