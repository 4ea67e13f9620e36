package app

import (
	"fmt"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"

	"github.com/icetrack/icetrack/external/nhlapi"
	"github.com/icetrack/icetrack/internal/config"
	"github.com/icetrack/icetrack/internal/infrastructure/repository/postgres"
	"github.com/icetrack/icetrack/internal/interfaces/httpapi"
	"github.com/icetrack/icetrack/internal/platform/logging"
	"github.com/icetrack/icetrack/internal/platform/resilience"
	"github.com/icetrack/icetrack/internal/usecase"
)

// App owns the wired dependency graph: one DB pool, one upstream
// client, the sync services and the HTTP server on top of them.
type App struct {
	Server    *http.Server
	Scheduler *usecase.SchedulerService
	DB        *sqlx.DB
}

func New(cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}

	db, err := OpenDB(cfg)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	teamRepo := postgres.NewTeamRepository(db)
	playerRepo := postgres.NewPlayerRepository(db)
	gameRepo := postgres.NewGameRepository(db)
	playRepo := postgres.NewPlayRepository(db)
	anomalyRepo := postgres.NewAnomalyRepository(db)
	store := postgres.NewStore(db)

	provider := nhlapi.NewClient(nhlapi.ClientConfig{
		BaseURL:     cfg.UpstreamBaseURL,
		Timeout:     cfg.UpstreamTimeout,
		MaxAttempts: cfg.UpstreamMaxRetries,
		BackoffBase: cfg.UpstreamBackoffBase,
		BackoffCap:  cfg.UpstreamBackoffCap,
		Logger:      logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.UpstreamCircuitEnabled,
			FailureThreshold: cfg.UpstreamCircuitFailureCount,
			OpenTimeout:      cfg.UpstreamCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.UpstreamCircuitHalfOpenMaxReq,
		},
	})

	ingestionSvc := usecase.NewIngestionService(store)
	gameSyncSvc := usecase.NewGameSyncService(provider, ingestionSvc, logger)
	rosterSyncSvc := usecase.NewRosterSyncService(provider, ingestionSvc, teamRepo, cfg.SyncWorkers, logger)
	schedulerSvc := usecase.NewSchedulerService(provider, ingestionSvc, gameSyncSvc, gameRepo, usecase.SchedulerConfig{
		ScheduleInterval: cfg.SchedulePollInterval,
		LiveInterval:     cfg.LivePollInterval,
		PreGameLead:      cfg.PreGameLead,
		LookaheadDays:    cfg.ScheduleLookahead,
		Workers:          cfg.SyncWorkers,
	}, logger)

	handler := httpapi.NewHandler(
		schedulerSvc,
		gameSyncSvc,
		rosterSyncSvc,
		teamRepo,
		playerRepo,
		gameRepo,
		playRepo,
		anomalyRepo,
		logger,
	)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		db.Close()
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return &App{
		Server:    server,
		Scheduler: schedulerSvc,
		DB:        db,
	}, nil
}

func OpenDB(cfg config.Config) (*sqlx.DB, error) {
	dbURL := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)

	db, err := otelsqlx.Connect("postgres", dbURL,
		otelsql.WithAttributes(semconv.DBSystemPostgreSQL),
		otelsql.WithDBName(dbNameFromURL(dbURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	return db, nil
}
