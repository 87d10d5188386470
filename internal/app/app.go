package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/dankservices/blog-site/internal/config"
	"github.com/dankservices/blog-site/internal/content"
	"github.com/dankservices/blog-site/internal/httpserver"
	"github.com/dankservices/blog-site/internal/httpserver/deps"
	"github.com/dankservices/blog-site/internal/index"
	"github.com/dankservices/blog-site/internal/logger"
	"github.com/dankservices/blog-site/internal/page"
	"github.com/dankservices/blog-site/internal/proxy"
	"github.com/dankservices/blog-site/internal/redis"
	"github.com/dankservices/blog-site/internal/scheduler"
	redisstore "github.com/dankservices/blog-site/internal/store/redis"
	"github.com/dankservices/blog-site/internal/upstream"
	"github.com/dankservices/blog-site/internal/utils"
	"github.com/dankservices/blog-site/internal/version"
)

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	server      *httpserver.Server
	redisClient *goredis.Client
	memIndex    *index.MemoryIndex
	reloader    *scheduler.ContentReloader
	watcher     *scheduler.Watcher
	gc          *scheduler.GarbageCollector
}

// New wires every component from cfg. Redis is connected here, so a
// configured but unreachable Redis fails startup.
func New(ctx context.Context, cfg *config.Config, log logger.Logger) (*App, error) {
	memIndex := index.NewMemoryIndex()

	var (
		redisClient *goredis.Client
		docStore    scheduler.DocumentStore
		views       deps.ViewCounter
		redisPinger deps.Pinger
	)
	if cfg.RedisEnabled() {
		log.Info("connecting to redis", logger.String("addr", cfg.RedisAddr))
		client, err := redis.New(ctx, redis.ConnectOptions{
			Addr:           cfg.RedisAddr,
			User:           cfg.RedisUser,
			Password:       cfg.RedisPassword,
			DB:             cfg.RedisDB,
			DialTimeout:    cfg.RedisDT,
			ReadTimeout:    cfg.RedisRT,
			WriteTimeout:   cfg.RedisWT,
			PoolSize:       cfg.RedisPoolSize,
			ConnectTimeout: cfg.RedisConnectTimeout,
			RetryInterval:  cfg.RedisRetryInterval,
			MaxWait:        cfg.RedisMaxWait,
			PingTimeout:    cfg.RedisPingTimeout,
			WarnThreshold:  cfg.RedisWarnThreshold,
		}, log)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		redisClient = client

		store := redisstore.NewStore(client)
		docStore, views, redisPinger = store, store, store

		if err := scheduler.NewRedisSyncer(store, memIndex, log).Sync(ctx); err != nil {
			log.Warn("failed to warm index from redis, loading from disk", logger.Error(err))
		}
	} else {
		log.Info("redis not configured, view tracking and snapshots disabled")
	}

	reloadTrigger := make(chan struct{}, 1)
	loader := content.NewLoader(cfg.ContentDir)

	reloader := scheduler.NewContentReloader(
		loader,
		docStore,
		memIndex,
		log,
		cfg.ReloadInterval,
		reloadTrigger,
	)

	var watcher *scheduler.Watcher
	if cfg.WatchContent {
		watcher = scheduler.NewWatcher(loader.Root(), reloadTrigger, log, scheduler.DefaultDebounce)
	}

	gc := scheduler.NewGarbageCollector(docStore, memIndex, log, cfg.GCInterval, cfg.GCThreshold)

	up := upstream.New(upstream.Options{BaseURL: cfg.UpstreamURL, Timeout: cfg.UpstreamTimeout})

	renderer, err := page.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("failed to load page templates: %w", err)
	}
	site := page.NewSite(page.NewClient(cfg.SiteAPIURL, cfg.UpstreamTimeout), memIndex, cfg.ServicesDomain)

	d := deps.Deps{
		Logger:        log,
		StartTime:     time.Now(),
		Version:       version.Version,
		Commit:        version.Commit,
		BuildDate:     version.BuildDate,
		GoVersion:     version.GoVersion,
		TimeNow:       time.Now,
		AllowedHosts:  cfg.AllowedHosts,
		AllowedCIDRS:  cfg.AllowedCIDRS,
		TrustProxy:    cfg.TrustProxy,
		CORSOrigins:   cfg.CORSOrigins,
		Proxy:         proxy.New(up),
		Upstream:      up,
		Content:       memIndex,
		Views:         views,
		Redis:         redisPinger,
		Site:          site,
		Renderer:      renderer,
		ReloadTrigger: reloadTrigger,
	}

	return &App{
		cfg:         cfg,
		logger:      log,
		server:      httpserver.New(cfg, d),
		redisClient: redisClient,
		memIndex:    memIndex,
		reloader:    reloader,
		watcher:     watcher,
		gc:          gc,
	}, nil
}

// Run starts the background jobs and the HTTP server, then blocks until
// SIGINT/SIGTERM or a server error.
func (a *App) Run() error {
	a.logger.Info("🚀 starting " + version.String())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.reloader.Start(ctx); err != nil {
		return fmt.Errorf("failed to start content reloader: %w", err)
	}
	a.logger.Info("content reloader started",
		logger.String("dir", a.cfg.ContentDir),
		logger.Int("documents", a.memIndex.Count()),
		logger.Duration("interval", a.cfg.ReloadInterval))

	if a.watcher != nil {
		if err := a.watcher.Start(ctx); err != nil {
			a.logger.Warn("content watcher disabled", logger.Error(err))
			a.watcher = nil
		}
	}

	a.gc.Start(ctx)
	a.logger.Info("garbage collector started",
		logger.Duration("interval", a.cfg.GCInterval),
		logger.Duration("threshold", a.cfg.GCThreshold))

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ shutting down gracefully")
	case err := <-errCh:
		a.stopJobs()
		return err
	}

	a.stopJobs()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	if a.redisClient != nil {
		utils.LogClose(a.redisClient, a.logger, "redis")
	}

	a.logger.Info("✅ stopped cleanly")
	return nil
}

func (a *App) stopJobs() {
	if a.watcher != nil {
		a.watcher.Stop()
	}
	a.reloader.Stop()
	a.gc.Stop()
}
