package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/fulbito/fulbito/external/apifootball"
	"github.com/fulbito/fulbito/external/sofascore"
	"github.com/fulbito/fulbito/internal/config"
	"github.com/fulbito/fulbito/internal/domain/match"
	"github.com/fulbito/fulbito/internal/infrastructure/repository/memory"
	"github.com/fulbito/fulbito/internal/infrastructure/repository/postgres"
	"github.com/fulbito/fulbito/internal/interfaces/httpapi"
	"github.com/fulbito/fulbito/internal/platform/cache"
	"github.com/fulbito/fulbito/internal/platform/logging"
	"github.com/fulbito/fulbito/internal/platform/resilience"
	"github.com/fulbito/fulbito/internal/usecase"
)

// NewHTTPServer wires providers, repositories and services into a ready to
// run server. The returned cleanup closes the database pool.
func NewHTTPServer(ctx context.Context, cfg config.Config, logger *slog.Logger, appLogger *logging.Logger) (*http.Server, func(), error) {
	if logger == nil {
		logger = slog.Default()
	}
	if appLogger == nil {
		appLogger = logging.Default()
	}

	matchRepo, cleanup, err := newMatchRepository(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	scraper := sofascore.NewClient(sofascore.ClientConfig{
		BaseURL:           cfg.SofascoreBaseURL,
		Timeout:           cfg.SofascoreTimeout,
		RequestsPerSecond: cfg.SofascoreRequestsPerSecond,
		Logger:            appLogger,
	})
	api := apifootball.NewClient(apifootball.ClientConfig{
		BaseURL:    cfg.APIFootballBaseURL,
		Key:        cfg.APIFootballKey,
		Timeout:    cfg.APIFootballTimeout,
		MaxRetries: cfg.APIFootballMaxRetries,
		Logger:     appLogger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.APIFootballCircuitEnabled,
			FailureThreshold: cfg.APIFootballCircuitFailureCount,
			OpenTimeout:      cfg.APIFootballCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.APIFootballCircuitHalfOpenMaxReq,
		},
	})

	var feedCache *cache.Store
	if cfg.CacheEnabled {
		feedCache = cache.NewStore(cfg.CacheTTL)
	}

	fixtureSvc := usecase.NewFixtureService(scraper, api, appLogger)
	standingsSvc := usecase.NewStandingsService(scraper, api, feedCache, appLogger)
	topScorerSvc := usecase.NewTopScorerService(scraper, api, feedCache, appLogger)
	scoreSvc := usecase.NewScoreUpdateService(api, matchRepo, cfg.ScoreWorkerConcurrency, appLogger)

	adminToken := cfg.AdminToken
	if adminToken == "" {
		adminToken = cfg.CronSecret
	}

	handler := httpapi.NewHandler(fixtureSvc, standingsSvc, topScorerSvc, scoreSvc, scraper, logger)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins, cfg.CronSecret, adminToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		cleanup()
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, cleanup, nil
}

// newMatchRepository connects to Postgres when DB_URL is set and falls back
// to the in-memory store otherwise, which keeps local runs dependency-free.
func newMatchRepository(ctx context.Context, cfg config.Config, logger *slog.Logger) (match.Repository, func(), error) {
	if cfg.DBURL == "" {
		logger.Info("DB_URL empty, using in-memory match store")
		return memory.NewMatchRepository(), func() {}, nil
	}

	db, err := connectDB(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("connect database: %w", err)
	}

	return postgres.NewMatchRepository(db), func() {
		if err := db.Close(); err != nil {
			logger.Error("close database", "error", err)
		}
	}, nil
}

func connectDB(ctx context.Context, cfg config.Config) (*sqlx.DB, error) {
	dsn := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)

	db, err := otelsqlx.ConnectContext(ctx, "postgres", dsn,
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(dbNameFromURL(dsn)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, err
	}

	return db, nil
}
