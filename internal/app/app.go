package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	temporalsdkclient "go.temporal.io/sdk/client"

	"github.com/yungbote/moonshill-backend/internal/data/db"
	"github.com/yungbote/moonshill-backend/internal/data/repos"
	apphttp "github.com/yungbote/moonshill-backend/internal/http"
	"github.com/yungbote/moonshill-backend/internal/jobs/campaigntick"
	"github.com/yungbote/moonshill-backend/internal/jobs/worker"
	"github.com/yungbote/moonshill-backend/internal/modules/campaigns/scheduler"
	"github.com/yungbote/moonshill-backend/internal/modules/generation"
	"github.com/yungbote/moonshill-backend/internal/observability"
	"github.com/yungbote/moonshill-backend/internal/platform/logger"
	"github.com/yungbote/moonshill-backend/internal/temporalx"
	"github.com/yungbote/moonshill-backend/internal/temporalx/temporalworker"
)

type App struct {
	Cfg  Config
	Logs *logger.Registry
	Log  *logger.Logger

	DB      *db.Service
	Repos   repos.Set
	Redis   *goredis.Client
	Metrics *observability.Metrics

	Composer  *generation.Composer
	Scheduler *scheduler.Scheduler
	Runner    *campaigntick.Runner

	Worker         *worker.Worker
	Temporal       temporalsdkclient.Client
	TemporalWorker *temporalworker.Runner
	Server         *apphttp.Server

	shutdownOTel func(context.Context) error
	cancel       context.CancelFunc
}

// NewDatabase opens the configured database and migrates it when enabled.
func NewDatabase(cfg DatabaseConfig, log *logger.Logger) (*db.Service, error) {
	svc, err := db.NewService(db.Config{
		DSN:           cfg.DSN,
		SlowThreshold: cfg.SlowThreshold,
		MaxOpenConns:  cfg.MaxOpenConns,
		MaxIdleConns:  cfg.MaxIdleConns,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}
	if cfg.AutoMigrate {
		if err := svc.AutoMigrateAll(); err != nil {
			_ = svc.Close()
			return nil, fmt.Errorf("automigrate: %w", err)
		}
	}
	return svc, nil
}

// New wires every component. Nothing is started; see Start and Serve.
func New(ctx context.Context, cfg Config) (*App, error) {
	logs, err := logger.NewRegistry(cfg.Log.Mode, cfg.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	a := &App{Cfg: cfg, Logs: logs, Log: logs.Root()}

	ok := false
	defer func() {
		if !ok {
			a.Close()
		}
	}()

	a.shutdownOTel = observability.InitOTel(ctx, logs.Named("Telemetry"), cfg.Telemetry.Tracing)
	if cfg.Telemetry.Metrics {
		a.Metrics = observability.NewMetrics()
	}

	a.DB, err = NewDatabase(cfg.Database, logs.Named("Database"))
	if err != nil {
		return nil, err
	}
	a.Repos = repos.NewSet(a.DB.DB(), logs.Named("Repos"))

	if cfg.Redis.Addr != "" {
		a.Redis = goredis.NewClient(&goredis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}

	provider, err := buildProvider(ctx, cfg, logs.Named("LLM"), a.Metrics)
	if err != nil {
		return nil, err
	}
	market := buildMarket(cfg.Market, a.Redis, logs.Named("Market"), a.Metrics)

	a.Composer, a.Scheduler = buildGeneration(cfg, a.Repos, provider, market, logs.Named("Generation"))

	a.Runner, err = campaigntick.NewRunner(campaigntick.Deps{
		Log:         logs.Root(),
		Campaigns:   a.Repos.Campaigns,
		Settings:    a.Repos.Settings,
		Connections: a.Repos.Connections,
		Generator:   a.Composer,
		Planner:     a.Scheduler,
		Metrics:     a.Metrics,
	}, campaigntick.Config{
		Concurrency: cfg.Scheduler.Concurrency,
		BatchLimit:  cfg.Scheduler.BatchLimit,
		Lease:       cfg.Scheduler.Lease,
	})
	if err != nil {
		return nil, err
	}

	switch cfg.Scheduler.Trigger {
	case TriggerTemporal:
		a.Temporal, err = temporalx.NewClient(cfg.Temporal, logs.Named("Temporal"))
		if err != nil {
			return nil, err
		}
		a.TemporalWorker, err = temporalworker.NewRunner(logs.Root(), a.Temporal, cfg.Temporal, a.Runner)
		if err != nil {
			return nil, err
		}
	default:
		a.Worker = worker.NewWorker(logs.Root(), a.Runner, cfg.Scheduler.Interval)
	}

	a.Server = apphttp.NewServer(buildRouterConfig(a))

	ok = true
	a.Log.Info("App wired",
		"provider", provider.Name(),
		"model", provider.Model(),
		"trigger", cfg.Scheduler.Trigger,
		"market_cache", a.Redis != nil,
	)
	return a, nil
}

// Start launches the batch trigger.
func (a *App) Start(ctx context.Context) error {
	if a == nil {
		return fmt.Errorf("app not initialized")
	}
	if a.cancel != nil {
		return nil
	}
	ctx, cancel := context.WithCancel(ctx)
	a.cancel = cancel

	if a.TemporalWorker != nil {
		return a.TemporalWorker.Start(ctx)
	}
	if a.Worker != nil {
		a.Worker.Start(ctx)
	}
	return nil
}

// Serve blocks on the ops HTTP server.
func (a *App) Serve() error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	a.Log.Info("Ops HTTP listening", "addr", a.Cfg.HTTP.Addr)
	return a.Server.Run(a.Cfg.HTTP.Addr)
}

// Close stops triggers, drains HTTP and releases every connection. It is safe
// on a partially wired App.
func (a *App) Close() {
	if a == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	var errs []error
	if a.Server != nil {
		errs = append(errs, a.Server.Shutdown(ctx))
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	if a.Worker != nil {
		a.Worker.Stop()
	}
	if a.TemporalWorker != nil {
		a.TemporalWorker.Stop()
	}
	if a.Temporal != nil {
		a.Temporal.Close()
	}
	if a.Redis != nil {
		errs = append(errs, a.Redis.Close())
	}
	if a.DB != nil {
		errs = append(errs, a.DB.Close())
	}
	if a.shutdownOTel != nil {
		errs = append(errs, a.shutdownOTel(ctx))
	}
	if err := errors.Join(errs...); err != nil && a.Log != nil {
		a.Log.Warn("Shutdown finished with errors", "error", err)
	}
	a.Logs.Close()
}
