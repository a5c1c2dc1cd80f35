package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"a11yassessor/internal/adapters/axe"
	"a11yassessor/internal/adapters/cache"
	httpadapter "a11yassessor/internal/adapters/http"
	"a11yassessor/internal/adapters/postgres"
	"a11yassessor/internal/config"
	catalogsvc "a11yassessor/internal/services/catalog"
	manualsvc "a11yassessor/internal/services/manualeval"
	scansvc "a11yassessor/internal/services/scanner"
	sitesvc "a11yassessor/internal/services/sites"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		zap.NewExample().Fatal("configuration error", zap.Error(err))
	}

	logger := newLogger(cfg.Env)
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.MigrateOnStart {
		if err := postgres.Migrate(ctx, cfg.DatabaseURL, logger); err != nil {
			logger.Fatal("migration failed", zap.Error(err))
		}
	}

	db, err := postgres.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}
	defer db.Close()

	redisClient, err := cache.NewClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		logger.Fatal("redis connection failed", zap.Error(err))
	}
	if redisClient != nil {
		defer func() { _ = redisClient.Close() }()
		logger.Info("catalog cache enabled", zap.String("addr", cfg.RedisAddr))
	}

	engine := axe.NewClient(cfg.ScanEngineURL, logger)

	scanner := scansvc.New(engine, db, cfg.ScanTimeout, logger)
	catalog := catalogsvc.New(db, redisClient, cfg.CatalogCacheTTL, logger)
	manualEval := manualsvc.New(db, logger)
	sites := sitesvc.New(db, logger)

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           httpadapter.New(scanner, catalog, manualEval, sites, logger).Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	logger.Info("listening", zap.String("addr", cfg.ListenAddr))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		logger.Info("shutting down", zap.String("signal", sig.String()))
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("shutdown incomplete", zap.Error(err))
		}
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}
}

func newLogger(env string) *zap.Logger {
	if env == "production" {
		logger, err := zap.NewProduction()
		if err != nil {
			panic(err)
		}
		return logger
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	return logger
}
