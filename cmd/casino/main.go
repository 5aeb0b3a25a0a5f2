package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"

	"github.com/kopeyka/casino/internal/config"
	"github.com/kopeyka/casino/internal/server"
	accountRepo "github.com/kopeyka/casino/pkg/repositories/account"
	"github.com/kopeyka/casino/pkg/repositories/archive"
	roundStore "github.com/kopeyka/casino/pkg/repositories/round"
	"github.com/kopeyka/casino/pkg/services/casino"
	"github.com/kopeyka/casino/pkg/services/ledger"
	"github.com/kopeyka/casino/pkg/services/statistics"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
	})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load configuration", "error", err)
	}

	if level, err := log.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(level)
	} else {
		logger.Warn("unknown log level, using info", "level", cfg.LogLevel)
	}

	logger.Info("starting casino",
		"environment", cfg.Environment,
		"storage", cfg.StorageType,
		"round_store", cfg.RoundStore,
	)

	ctx := context.Background()

	repo, err := buildAccountRepository(cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize account storage", "error", err)
	}
	defer func() {
		if err := repo.Close(); err != nil {
			logger.Error("error closing account storage", "error", err)
		}
	}()

	rounds, err := buildRoundStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize round storage", "error", err)
	}
	defer func() {
		if err := rounds.Close(); err != nil {
			logger.Error("error closing round storage", "error", err)
		}
	}()

	ledgerSvc := ledger.NewService(repo, logger)

	if cfg.ElasticsearchEnabled {
		archiver, err := archive.NewArchiver(archive.Config{
			URL:         cfg.ElasticsearchURL,
			Username:    cfg.ElasticsearchUsername,
			Password:    cfg.ElasticsearchPassword,
			IndexPrefix: cfg.ElasticsearchIndexPrefix,
		})
		if err != nil {
			logger.Fatal("failed to connect to Elasticsearch", "error", err)
		}
		ledgerSvc.AttachArchiver(archiver)
		logger.Info("round archiving enabled", "url", cfg.ElasticsearchURL)
	}

	engine := casino.NewService(ledgerSvc, rounds, logger)
	stats := statistics.NewService(ledgerSvc)

	srv := server.NewServer(cfg.HTTPAddr, engine, stats, logger, cfg.IsDevelopment())

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			logger.Fatal("server error", "error", err)
		}
	case sig := <-stop:
		logger.Info("received signal, shutting down", "signal", sig)
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		logger.Error("error during shutdown", "error", err)
	}

	logger.Info("casino stopped")
}

func buildAccountRepository(cfg *config.Config, logger *log.Logger) (accountRepo.Repository, error) {
	switch cfg.StorageType {
	case config.StorageSQLite:
		if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
			return nil, err
		}
		logger.Info("using SQLite account storage", "path", cfg.SQLitePath())
		return accountRepo.NewSQLiteRepository(cfg.SQLitePath())
	default:
		logger.Info("using in-memory account storage")
		return accountRepo.NewMemoryRepository(), nil
	}
}

func buildRoundStore(ctx context.Context, cfg *config.Config, logger *log.Logger) (roundStore.Store, error) {
	switch cfg.RoundStore {
	case config.RoundStoreRedis:
		logger.Info("using Redis round storage", "addr", cfg.RedisAddr)
		return roundStore.NewRedisStore(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	default:
		logger.Info("using in-memory round storage")
		return roundStore.NewMemoryStore(), nil
	}
}
