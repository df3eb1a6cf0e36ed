package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/sourcegraph/conc"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/riskibarqy/player-props/internal/config"
	"github.com/riskibarqy/player-props/internal/domain/gamelog"
	"github.com/riskibarqy/player-props/internal/domain/match"
	"github.com/riskibarqy/player-props/internal/domain/prediction"
	"github.com/riskibarqy/player-props/internal/domain/roster"
	"github.com/riskibarqy/player-props/internal/infrastructure/provider/statsfeed"
	cacherepo "github.com/riskibarqy/player-props/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/player-props/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/player-props/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/player-props/internal/interfaces/httpapi"
	basecache "github.com/riskibarqy/player-props/internal/platform/cache"
	"github.com/riskibarqy/player-props/internal/platform/logging"
	"github.com/riskibarqy/player-props/internal/platform/resilience"
	"github.com/riskibarqy/player-props/internal/usecase"
)

// App owns the HTTP server, the optional database handle, and the background
// prediction refresh loop.
type App struct {
	Server *http.Server

	logger          *logging.Logger
	db              *sqlx.DB
	refreshService  *usecase.RefreshService
	refreshEnabled  bool
	refreshInterval time.Duration

	loopCancel context.CancelFunc
	loopWG     conc.WaitGroup
}

type repositories struct {
	match      match.Repository
	roster     roster.Repository
	gamelog    gamelog.Repository
	prediction prediction.Repository
}

func New(cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	app := &App{
		logger:          logger,
		refreshEnabled:  cfg.RefreshEnabled,
		refreshInterval: cfg.RefreshInterval,
	}

	repos, err := app.buildRepositories(cfg)
	if err != nil {
		return nil, err
	}

	if cfg.CacheEnabled {
		store := basecache.NewStore(cfg.CacheTTL)
		repos.match = cacherepo.NewMatchRepository(repos.match, store)
		repos.prediction = cacherepo.NewPredictionRepository(repos.prediction, store)
	}

	var provider usecase.StatsFeedProvider
	if cfg.StatsFeedEnabled {
		provider = statsfeed.NewClient(statsfeed.ClientConfig{
			BaseURL:    cfg.StatsFeedBaseURL,
			APIKey:     cfg.StatsFeedAPIKey,
			Timeout:    cfg.StatsFeedTimeout,
			MaxRetries: cfg.StatsFeedMaxRetries,
			Logger:     logger,
			CircuitBreaker: resilience.CircuitBreakerConfig{
				Enabled:          cfg.StatsFeedCircuitEnabled,
				FailureThreshold: cfg.StatsFeedCircuitFailureCount,
				OpenTimeout:      cfg.StatsFeedCircuitOpenTimeout,
				HalfOpenMaxReq:   cfg.StatsFeedCircuitHalfOpenMaxReq,
			},
		})
	}

	matchSvc := usecase.NewMatchService(repos.match, repos.roster, repos.prediction)
	predictionSvc := usecase.NewPredictionService(
		repos.match,
		repos.roster,
		repos.gamelog,
		repos.prediction,
		prediction.DefaultRules(),
		cfg.PredictionMaxWorkers,
		logger,
	)
	ingestionSvc := usecase.NewIngestionService(
		provider,
		repos.match,
		repos.roster,
		repos.gamelog,
		usecase.IngestionConfig{
			Enabled:   cfg.StatsFeedEnabled,
			GameDepth: cfg.IngestionGameDepth,
		},
		logger,
	)
	refreshSvc := usecase.NewRefreshService(
		repos.match,
		predictionSvc,
		usecase.RefreshConfig{
			Lead:        cfg.RefreshLead,
			MinInterval: cfg.RefreshMinInterval,
			MaxWorkers:  cfg.RefreshMaxWorkers,
		},
		logger,
	)
	app.refreshService = refreshSvc

	handler := httpapi.NewHandler(matchSvc, predictionSvc, ingestionSvc, refreshSvc, logger)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	app.Server = &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return app, nil
}

func (a *App) buildRepositories(cfg config.Config) (repositories, error) {
	if cfg.DBURL == "" {
		a.logger.Info("DB_URL is empty, using seeded in-memory repositories")
		return repositories{
			match:      memory.NewMatchRepository(memory.SeedMatches()),
			roster:     memory.NewRosterRepository(memory.SeedRosters()),
			gamelog:    memory.NewGamelogRepository(memory.SeedGameLogs()),
			prediction: memory.NewPredictionRepository(),
		}, nil
	}

	dbURL := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)
	db, err := otelsqlx.Connect("postgres", dbURL,
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return repositories{}, fmt.Errorf("connect database: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxIdleTime(5 * time.Minute)
	a.db = db

	seedCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := postgres.BootstrapSeed(seedCtx, db); err != nil {
		a.logger.Warn("bootstrap seed failed", "error", err)
	}

	return repositories{
		match:      postgres.NewMatchRepository(db),
		roster:     postgres.NewRosterRepository(db),
		gamelog:    postgres.NewGamelogRepository(db),
		prediction: postgres.NewPredictionRepository(db),
	}, nil
}

// StartBackgroundRefresh launches the periodic prediction refresh loop. It is
// a no-op when the loop is disabled.
func (a *App) StartBackgroundRefresh() {
	if !a.refreshEnabled || a.refreshService == nil {
		a.logger.Info("background prediction refresh is disabled")
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	a.loopCancel = cancel

	a.loopWG.Go(func() {
		ticker := time.NewTicker(a.refreshInterval)
		defer ticker.Stop()

		a.logger.Info("background prediction refresh started", "interval", a.refreshInterval.String())
		for {
			select {
			case <-ctx.Done():
				a.logger.Info("background prediction refresh stopped")
				return
			case <-ticker.C:
				result, err := a.refreshService.RefreshUpcoming(ctx)
				if err != nil {
					a.logger.WarnContext(ctx, "background prediction refresh failed", "error", err)
					continue
				}
				a.logger.InfoContext(ctx, "background prediction refresh completed",
					"match_count", result.MatchCount,
					"success_count", result.SuccessCount,
					"skipped_count", result.SkippedCount,
					"failed_count", result.FailedCount,
				)
			}
		}
	})
}

func (a *App) Shutdown(ctx context.Context) error {
	if a.loopCancel != nil {
		a.loopCancel()
		a.loopWG.Wait()
	}

	var firstErr error
	if a.Server != nil {
		if err := a.Server.Shutdown(ctx); err != nil {
			firstErr = err
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}
