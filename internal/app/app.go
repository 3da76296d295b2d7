package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/relationgraph-backend/internal/cache"
	"github.com/yungbote/relationgraph-backend/internal/graphdb"
	"github.com/yungbote/relationgraph-backend/internal/handlers"
	"github.com/yungbote/relationgraph-backend/internal/logger"
	"github.com/yungbote/relationgraph-backend/internal/observability"
	"github.com/yungbote/relationgraph-backend/internal/upstream"
	"github.com/yungbote/relationgraph-backend/internal/upstream/dotbit"
	"github.com/yungbote/relationgraph-backend/internal/upstream/ensreverse"
	"github.com/yungbote/relationgraph-backend/internal/upstream/farcaster"
	"github.com/yungbote/relationgraph-backend/internal/upstream/keybase"
	"github.com/yungbote/relationgraph-backend/internal/upstream/lens"
	"github.com/yungbote/relationgraph-backend/internal/upstream/nextid"
	"github.com/yungbote/relationgraph-backend/internal/upstream/solana"
	"github.com/yungbote/relationgraph-backend/internal/upstream/spaceid"
	"github.com/yungbote/relationgraph-backend/internal/upstream/thegraph"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	Log       *logger.Logger
	Cfg       Config
	Store     *graphdb.Client
	Registry  *upstream.Registry
	Orch      *upstream.Orchestrator
	Refresher *upstream.Refresher
	Router    *gin.Engine

	otelShutdown func(context.Context) error
	cancel       context.CancelFunc
}

func New() (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading environment variables...")
	cfg := LoadConfig(log)

	otelShutdown := observability.InitOTel(context.Background(), log, observability.OtelConfig{
		ServiceName: "relationgraph",
		Environment: cfg.Environment,
		Version:     handlers.Version,
	})

	var lock cache.FetchLock
	if cfg.RedisAddr != "" {
		lock, err = cache.NewRedisLock(cfg.RedisAddr, log)
		if err != nil {
			log.Warn("redis lock unavailable, falling back to local lock", "addr", cfg.RedisAddr, "error", err)
			lock = cache.NewLocalLock()
		}
	} else {
		lock = cache.NewLocalLock()
	}

	store, err := graphdb.New(cfg.GraphStore, log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init graph store client: %w", err)
	}

	registry := wireRegistry(log, cfg)
	orch := upstream.NewOrchestrator(log, registry, store, lock)
	refresher := upstream.NewRefresher(log, orch, store, cfg.RefreshWorkers, cfg.RefreshQueueSize, cfg.RefreshPurgeDelay)

	catalog := graphdb.DefaultCatalog()
	if cfg.QueryCatalogPath != "" {
		catalog, err = graphdb.LoadCatalog(cfg.QueryCatalogPath)
		if err != nil {
			log.Sync()
			return nil, fmt.Errorf("load query catalog: %w", err)
		}
	}

	handlerset := wireHandlers(log, store, orch, refresher, registry, catalog)
	router := wireRouter(handlerset)

	return &App{
		Log:          log,
		Cfg:          cfg,
		Store:        store,
		Registry:     registry,
		Orch:         orch,
		Refresher:    refresher,
		Router:       router,
		otelShutdown: otelShutdown,
	}, nil
}

func wireRegistry(log *logger.Logger, cfg Config) *upstream.Registry {
	log.Info("Wiring upstream connectors...")
	timeout := cfg.UpstreamTimeout
	return upstream.NewRegistry(log,
		keybase.New(keybase.Config{URL: cfg.KeybaseURL, Timeout: timeout}, log),
		ensreverse.New(ensreverse.Config{URL: cfg.ENSReverseURL, Timeout: timeout}, log),
		nextid.New(nextid.Config{URL: cfg.NextIDURL, Timeout: timeout}, log),
		farcaster.New(farcaster.Config{URL: cfg.FarcasterURL, Timeout: timeout}, log),
		lens.New(lens.Config{URL: cfg.LensURL, Timeout: timeout}, log),
		dotbit.New(dotbit.Config{URL: cfg.DotbitURL, Timeout: timeout}, log),
		spaceid.New(spaceid.Config{URL: cfg.SpaceIDURL, TLD: cfg.SpaceIDTLD, Timeout: timeout}, log),
		solana.New(solana.Config{URL: cfg.SolanaURL, Timeout: timeout}, log),
		thegraph.New(thegraph.Config{URLs: cfg.TheGraphURLs, Timeout: timeout}, log),
	)
}

// Start launches the background refresh workers.
func (a *App) Start() {
	if a == nil || a.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	a.Refresher.Start(ctx)
}

func (a *App) Run(addr string) error {
	if a == nil || a.Router == nil {
		return fmt.Errorf("app not initialized")
	}
	return a.Router.Run(addr)
}

// Close drains the refresh queue, flushes traces and the log.
func (a *App) Close() {
	if a == nil {
		return
	}
	if a.Refresher != nil {
		a.Refresher.Stop()
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	if a.otelShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := a.otelShutdown(ctx); err != nil {
			a.Log.Warn("otel shutdown failed", "error", err)
		}
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
