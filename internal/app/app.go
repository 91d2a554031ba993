package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/dropalert/dropalert/internal/auth"
	"github.com/dropalert/dropalert/internal/config"
	"github.com/dropalert/dropalert/internal/httpserver"
	"github.com/dropalert/dropalert/internal/httpserver/deps"
	"github.com/dropalert/dropalert/internal/logger"
	"github.com/dropalert/dropalert/internal/notifier"
	"github.com/dropalert/dropalert/internal/redis"
	"github.com/dropalert/dropalert/internal/scheduler"
	"github.com/dropalert/dropalert/internal/scraper"
	"github.com/dropalert/dropalert/internal/sources/sitecfg"
	redisstore "github.com/dropalert/dropalert/internal/store/redis"
	"github.com/dropalert/dropalert/internal/tracker"
	"github.com/dropalert/dropalert/internal/version"
)

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	server      *httpserver.Server
	redisClient *goredis.Client
	rechecker   *scheduler.Rechecker
}

func New() *App {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	// Initialize Redis early - fail fast if unavailable
	loggerClient.Infof("Connecting to Redis at %s", cfg.RedisAddr)
	redisClient, err := redis.New(redis.ConnectOptions{
		Addr:           cfg.RedisAddr,
		User:           cfg.RedisUser,
		Password:       cfg.RedisPassword,
		RedisDB:        cfg.RedisDB,
		DialTimeout:    cfg.RedisDT,
		ReadTimeout:    cfg.RedisRT,
		WriteTimeout:   cfg.RedisWT,
		PoolSize:       cfg.RedisPoolSize,
		ConnectTimeout: cfg.RedisConnectTimeout,
		RetryInterval:  cfg.RedisRetryInterval,
		MaxWait:        cfg.RedisMaxWait,
		PingTimeout:    cfg.RedisPingTimeout,
		WarnThreshold:  cfg.RedisWarnThreshold,
	}, loggerClient)
	if err != nil {
		loggerClient.Errorf("Failed to connect to Redis: %v", err)
		os.Exit(1)
	}
	loggerClient.Info("Redis initialized successfully")

	store := redisstore.NewStore(redisClient)

	// Site profile: which shop we scrape and how we present ourselves to it.
	site, err := sitecfg.Load(cfg.SiteFile)
	if err != nil {
		loggerClient.Errorf("Failed to load site config: %v", err)
		os.Exit(1)
	}
	loggerClient.Info("site config loaded",
		logger.String("site", site.Name))

	fetcher := scraper.NewFetcher(cfg.FetchTimeout, site.Headers)

	mailer := notifier.NewMailer(cfg.EmailAPIURL, cfg.EmailAPIKey, cfg.EmailFrom)
	var telegram *notifier.Telegram
	if cfg.TelegramToken != "" {
		telegram, err = notifier.NewTelegram(cfg.TelegramToken, cfg.TelegramChat)
		if err != nil {
			// Mail still works, so degrade instead of refusing to start.
			loggerClient.Warn("telegram mirror disabled",
				logger.Error(err))
			telegram = nil
		} else {
			loggerClient.Info("telegram mirror enabled")
		}
	}
	dispatcher := notifier.NewDispatcher(mailer, telegram, loggerClient)

	trackerSvc := tracker.New(store, fetcher, dispatcher, site, loggerClient,
		cfg.PacingDelay, cfg.StaleAfter)

	rechecker := scheduler.NewRechecker(trackerSvc, loggerClient, cfg.RecheckInterval)

	authManager := auth.New(cfg.JWTSecret, cfg.TokenTTL)
	if cfg.DevTokens {
		loggerClient.Warn("dev token endpoint enabled, do not run this in production")
	}

	// Dependencies passed to routes (extend as needed).
	d := deps.Deps{
		Logger:      loggerClient,
		StartTime:   time.Now(),
		Version:     version.Version,
		Commit:      version.Commit,
		BuildDate:   version.BuildDate,
		GoVersion:   version.GoVersion,
		TimeNow:     time.Now,
		RedisClient: redisClient,
		Tracker:     trackerSvc,
		Products:    store,
		Auth:        authManager,
		DevTokens:   cfg.DevTokens,
	}

	server := httpserver.New(cfg, loggerClient, d)

	return &App{
		cfg:         cfg,
		logger:      loggerClient,
		server:      server,
		redisClient: redisClient,
		rechecker:   rechecker,
	}
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting DropAlert v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("DropAlert %s (commit=%s, built=%s, go=%s)",
		version.Version, version.Commit, version.BuildDate, version.GoVersion)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a.rechecker.Start(ctx)
	a.logger.Info("periodic re-check started",
		logger.Duration("interval", a.cfg.RecheckInterval))

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		return err
	}

	a.rechecker.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warnf("failed to close redis: %v", err)
		} else {
			a.logger.Info("✅ Redis closed cleanly")
		}
	}

	a.logger.Info("✅ DropAlert stopped cleanly")
	return nil
}
