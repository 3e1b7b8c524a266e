package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/alexanderramin/lessonplan/internal/blackout"
	"github.com/alexanderramin/lessonplan/internal/cli"
	"github.com/alexanderramin/lessonplan/internal/config"
	"github.com/alexanderramin/lessonplan/internal/db"
	"github.com/alexanderramin/lessonplan/internal/logging"
	"github.com/alexanderramin/lessonplan/internal/repository"
	"github.com/alexanderramin/lessonplan/internal/service"
	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Info logs only when use-case logging is on.
	newLogger := logging.NewQuiet
	if cfg.LogUseCases {
		newLogger = logging.New
	}
	logger, err := newLogger(cfg.Env)
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	var observers []service.UseCaseObserver
	if cfg.LogUseCases {
		observers = append(observers, service.NewLogUseCaseObserver(logger))
	}

	// Wire storage
	var (
		store  repository.Store
		runner repository.TxRunner
	)
	if cfg.UsePostgres() {
		pool, err := db.OpenPostgres(ctx, cfg.DBDSN)
		if err != nil {
			return fmt.Errorf("opening postgres: %w", err)
		}
		defer pool.Close()
		store = repository.NewPostgresStore(pool)
		runner = repository.NewPostgresTxRunner(pool)
		logger.Debug("using postgres storage")
	} else {
		database, err := db.OpenDB(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer database.Close()
		store = repository.NewSQLiteStore(database)
		runner = repository.NewSQLiteTxRunner(database)
		logger.Debug("using sqlite storage", zap.String("path", cfg.DBPath))
	}

	registry := blackout.NewRegistry(store.BlockedDates,
		blackout.WithTTL(cfg.BlockedTTL),
		blackout.WithLogger(logger),
	)

	// Wire services
	app := &cli.App{
		Schedule:    service.NewScheduleService(store, registry, cfg.Location, logger, observers...),
		Occurrences: service.NewOccurrenceService(store.Assignments, store.Occurrences, logger, observers...),
		Blocked:     service.NewBlockedDateService(store.BlockedDates, registry, logger, observers...),
		Import:      service.NewImportService(runner, registry, cfg.Location, logger, observers...),
		Location:    cfg.Location,
		Plain:       !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()),
	}

	return cli.NewRootCmd(app).ExecuteContext(ctx)
}
