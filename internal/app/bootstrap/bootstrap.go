package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	distributionservice "leadflow/contexts/crm-core/distribution-service"
	postgresadapter "leadflow/contexts/crm-core/distribution-service/adapters/postgres"
	"leadflow/contexts/crm-core/distribution-service/domain/services"
	"leadflow/internal/platform/config"
	"leadflow/internal/platform/db"
	"leadflow/internal/platform/httpserver"
	"leadflow/internal/platform/metrics"
	"leadflow/internal/platform/seed"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server          *httpserver.Server
	postgres        *db.Postgres
	module          distributionservice.Module
	refreshInterval time.Duration
	logger          *slog.Logger
}

type SeedApp struct {
	postgres *db.Postgres
	applier  seed.Applier
	seedPath string
	logger   *slog.Logger
}

func BuildAPI(ctx context.Context) (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	if err := postgresadapter.AutoMigrate(pg.DB); err != nil {
		_ = pg.Close()
		return nil, err
	}

	repo := postgresadapter.NewRepository(pg.DB, logger)
	deps := distributionservice.Dependencies{
		Repository: repo,
		Clock:      postgresadapter.SystemClock{},
		IDGen:      postgresadapter.UUIDGenerator{},
		Rand:       services.SystemRand(),
		Metrics:    metrics.Noop{},
		Logger:     logger,
	}

	var metricsHandler http.Handler
	if cfg.MetricsEnabled {
		publisher := metrics.NewPublisher()
		deps.Metrics = publisher
		metricsHandler = publisher.Handler()
	}

	module := distributionservice.NewModule(deps)

	if cfg.SeedPath != "" {
		seedCfg, err := seed.Load(cfg.SeedPath)
		if err != nil {
			_ = pg.Close()
			return nil, err
		}
		applier := seed.Applier{Commands: module.Commands, Queries: module.Queries, Logger: logger}
		if err := applier.Apply(ctx, seedCfg); err != nil {
			_ = pg.Close()
			return nil, err
		}
	}

	server := httpserver.New(module, metricsHandler, logger, normalizeAddr(cfg.HTTPPort))
	return &APIApp{
		server:          server,
		postgres:        pg,
		module:          module,
		refreshInterval: cfg.LoadRefreshInterval,
		logger:          logger,
	}, nil
}

func BuildSeed(ctx context.Context) (*SeedApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "seed")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}
	if cfg.SeedPath == "" {
		return nil, errors.New("SEED_PATH is required")
	}

	pg, err := db.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	if err := postgresadapter.AutoMigrate(pg.DB); err != nil {
		_ = pg.Close()
		return nil, err
	}

	repo := postgresadapter.NewRepository(pg.DB, logger)
	module := distributionservice.NewModule(distributionservice.Dependencies{
		Repository: repo,
		Clock:      postgresadapter.SystemClock{},
		IDGen:      postgresadapter.UUIDGenerator{},
		Rand:       services.SystemRand(),
		Metrics:    metrics.Noop{},
		Logger:     logger,
	})

	return &SeedApp{
		postgres: pg,
		applier:  seed.Applier{Commands: module.Commands, Queries: module.Queries, Logger: logger},
		seedPath: cfg.SeedPath,
		logger:   logger,
	}, nil
}

func (a *APIApp) Run(ctx context.Context) error {
	a.logger.Info("api app started",
		"event", "bootstrap_api_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"load_refresh_interval", a.refreshInterval.String(),
	)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := a.server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		ticker := time.NewTicker(a.refreshInterval)
		defer ticker.Stop()
		for {
			// A failed cycle only leaves the load gauge stale; the API keeps
			// serving, so log and retry on the next tick.
			if err := a.module.LoadRefresher.RunOnce(ctx); err != nil {
				a.logger.Warn("operator load refresh failed",
					"event", "bootstrap_load_refresh_failed",
					"module", "internal/app/bootstrap",
					"layer", "platform",
					"error", err.Error(),
				)
			}
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
			}
		}
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return a.server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func (a *APIApp) Close() error {
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

func (s *SeedApp) Run(ctx context.Context) error {
	cfg, err := seed.Load(s.seedPath)
	if err != nil {
		return err
	}
	if err := s.applier.Apply(ctx, cfg); err != nil {
		return err
	}
	s.logger.Info("seed applied",
		"event", "bootstrap_seed_applied",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"seed_path", s.seedPath,
		"operator_count", len(cfg.Operators),
		"source_count", len(cfg.Sources),
	)
	return nil
}

func (s *SeedApp) Close() error {
	if s.postgres != nil {
		return s.postgres.Close()
	}
	return nil
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
