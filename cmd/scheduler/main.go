package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/fielbet/platform/internal/infra"
	"github.com/fielbet/platform/internal/ledger"
	"github.com/fielbet/platform/internal/provider"
	"github.com/fielbet/platform/internal/repository"
	"github.com/fielbet/platform/internal/scheduler"
	"github.com/fielbet/platform/internal/settlement"
	"github.com/joho/godotenv"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("scheduler failed", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	_ = godotenv.Load()
	cfg, err := infra.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	pool, err := infra.NewPostgresPool(ctx, cfg, "fielbet-scheduler")
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pool.Close()
	logger.Info("connected to postgres")

	redisClient, err := infra.NewRedisClient(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	defer redisClient.Close()
	multiplier := infra.NewEventMultiplier(redisClient, logger)

	// Repositories
	walletRepo := repository.NewWalletRepository()
	txRepo := repository.NewTransactionRepository()
	matchRepo := repository.NewMatchRepository()
	betRepo := repository.NewBetRepository()
	userRepo := repository.NewUserRepository()
	statsRepo := repository.NewStatsRepository()
	bolaoRepo := repository.NewBolaoRepository()
	mvpRepo := repository.NewMvpRepository()
	levelRepo := repository.NewLevelConfigRepository()
	notificationRepo := repository.NewNotificationRepository()
	pendingRepo := repository.NewPendingRewardRepository()
	outboxRepo := repository.NewOutboxRepository()

	ledgerEngine := ledger.NewEngine(walletRepo, txRepo, outboxRepo)
	granter := settlement.NewGranter(userRepo, notificationRepo, outboxRepo, logger)
	football := provider.NewFootballAPIClient(cfg.FootballAPIKey, logger)

	orchestrator := settlement.NewOrchestrator(settlement.OrchestratorDeps{
		Pool:          pool,
		Engine:        ledgerEngine,
		Provider:      football,
		Multiplier:    multiplier,
		Matches:       matchRepo,
		Bets:          betRepo,
		Users:         userRepo,
		Stats:         statsRepo,
		Boloes:        bolaoRepo,
		LevelConfig:   levelRepo,
		Notifications: notificationRepo,
		Pending:       pendingRepo,
		Outbox:        outboxRepo,
		Achievements:  granter,
		Logger:        logger,
	})
	finalizer := settlement.NewMvpFinalizer(pool, ledgerEngine, mvpRepo, notificationRepo, outboxRepo, logger)
	processor := scheduler.NewProcessor(pool, orchestrator, finalizer, matchRepo, mvpRepo, notificationRepo, outboxRepo, logger)

	infra.StartMetricsServer(ctx, fmt.Sprintf(":%d", cfg.MetricsPort), logger)

	runner := scheduler.NewRunner(processor, logger, cfg.SettlementInterval, cfg.MvpInterval, cfg.NoticeInterval)
	logger.Info("scheduler starting",
		"settlement_interval", cfg.SettlementInterval,
		"mvp_interval", cfg.MvpInterval,
		"notice_interval", cfg.NoticeInterval)
	runner.Run(ctx)

	logger.Info("scheduler stopped gracefully")
	return nil
}
