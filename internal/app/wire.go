package app

import (
	"log/slog"
	"time"

	"github.com/fielbet/platform/internal/auth"
	"github.com/fielbet/platform/internal/guard"
	"github.com/fielbet/platform/internal/handler"
	adminhandler "github.com/fielbet/platform/internal/handler/admin"
	"github.com/fielbet/platform/internal/infra"
	"github.com/fielbet/platform/internal/ledger"
	"github.com/fielbet/platform/internal/projection"
	"github.com/fielbet/platform/internal/provider"
	"github.com/fielbet/platform/internal/repository"
	"github.com/fielbet/platform/internal/scheduler"
	"github.com/fielbet/platform/internal/service"
	"github.com/fielbet/platform/internal/settlement"
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RouterDeps holds all dependencies needed by NewRouter.
type RouterDeps struct {
	Pool        *pgxpool.Pool
	JWTMgr      *auth.JWTManager
	Logger      *slog.Logger
	Multiplier  *infra.EventMultiplier
	Projections projection.Store

	FootballAPIKey string
	CORSOrigins    string
}

// NewRouter assembles the chi.Router with all routes and middleware.
func NewRouter(deps RouterDeps) chi.Router {
	pool := deps.Pool
	jwtMgr := deps.JWTMgr
	logger := deps.Logger

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
	storeRepo := repository.NewStoreRepository()
	outboxRepo := repository.NewOutboxRepository()

	// Core engines
	ledgerEngine := ledger.NewEngine(walletRepo, txRepo, outboxRepo)
	granter := settlement.NewGranter(userRepo, notificationRepo, outboxRepo, logger)
	football := provider.NewFootballAPIClient(deps.FootballAPIKey, logger)

	orchestrator := settlement.NewOrchestrator(settlement.OrchestratorDeps{
		Pool:          pool,
		Engine:        ledgerEngine,
		Provider:      football,
		Multiplier:    deps.Multiplier,
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

	// Services
	walletSvc := service.NewWalletService(pool, ledgerEngine, walletRepo, txRepo, granter, notificationRepo, logger)
	betSvc := service.NewBetService(pool, ledgerEngine, betRepo, matchRepo, statsRepo, granter, logger)
	bolaoSvc := service.NewBolaoService(pool, ledgerEngine, bolaoRepo, matchRepo, userRepo, levelRepo, granter, notificationRepo, outboxRepo, logger)
	mvpSvc := service.NewMvpService(pool, ledgerEngine, mvpRepo, matchRepo, userRepo, levelRepo, football, granter, notificationRepo, outboxRepo, logger)
	storeSvc := service.NewStoreService(pool, ledgerEngine, storeRepo, granter, notificationRepo, logger)
	profileSvc := service.NewProfileService(pool, userRepo, statsRepo, levelRepo, notificationRepo, deps.Projections, logger)
	matchSvc := service.NewMatchService(pool, matchRepo, football, logger)

	// Handlers
	walletHandler := handler.NewWalletHandler(walletSvc)
	betHandler := handler.NewBetHandler(betSvc)
	bolaoHandler := handler.NewBolaoHandler(bolaoSvc)
	mvpHandler := handler.NewMvpHandler(mvpSvc)
	storeHandler := handler.NewStoreHandler(storeSvc)
	profileHandler := handler.NewProfileHandler(profileSvc)
	matchHandler := handler.NewMatchHandler(matchSvc)

	// Admin handlers
	settlementAdmin := adminhandler.NewSettlementHandler(orchestrator, processor, matchSvc)
	competitionAdmin := adminhandler.NewCompetitionHandler(bolaoSvc, mvpSvc, orchestrator, finalizer)
	economyAdmin := adminhandler.NewEconomyHandler(pool, levelRepo, storeSvc, deps.Multiplier)

	// Router
	r := chi.NewRouter()

	// Global middleware (order matters)
	r.Use(handler.Recovery(logger))
	r.Use(handler.RequestID)
	r.Use(handler.RequestLogger(logger))
	r.Use(handler.CORSWithOrigins(deps.CORSOrigins))
	r.Use(handler.JSONContentType)

	// Health and public leaderboard (no auth)
	r.Get("/health", handler.HealthHandler(pool))
	r.Get("/ranking", profileHandler.Ranking)

	// Player-authenticated routes
	r.Group(func(r chi.Router) {
		r.Use(auth.AuthenticatePlayer(jwtMgr))
		r.Use(handler.RateLimit(guard.NewRateLimiter(120, time.Minute)))

		r.Get("/me", profileHandler.GetMe)
		r.Get("/me/notifications", profileHandler.MyNotifications)

		r.Route("/wallet", func(r chi.Router) {
			r.Get("/balance", walletHandler.GetBalance)
			r.Get("/transactions", walletHandler.GetTransactions)
		})

		r.Route("/bets", func(r chi.Router) {
			r.Post("/", betHandler.PlaceBet)
			r.Get("/me", betHandler.MyBets)
			r.Get("/{betID}", betHandler.GetBet)
		})

		r.Get("/matches/{matchID}", matchHandler.Get)

		r.Route("/boloes", func(r chi.Router) {
			r.Get("/{bolaoID}", bolaoHandler.Get)
			r.Post("/{bolaoID}/join", bolaoHandler.Join)
		})

		r.Route("/mvp", func(r chi.Router) {
			r.Get("/{votingID}", mvpHandler.Get)
			r.Post("/{votingID}/vote", mvpHandler.Vote)
		})

		r.Route("/store", func(r chi.Router) {
			r.Get("/items", storeHandler.ListItems)
			r.Post("/items/{itemID}/purchase", storeHandler.Purchase)
		})
	})

	// Admin-authenticated routes. Viewers may read; mutations need a
	// write role.
	r.Route("/admin", func(r chi.Router) {
		r.Use(auth.AuthenticateAdmin(jwtMgr))
		write := auth.RequireRole(auth.WriteRoles()...)

		r.Route("/matches", func(r chi.Router) {
			r.With(write).Post("/{matchID}/sync", settlementAdmin.SyncFixture)
			r.With(write).Post("/{matchID}/settle", settlementAdmin.SettleMatch)
		})

		r.Route("/settlement", func(r chi.Router) {
			r.Use(write)
			r.Post("/run", settlementAdmin.RunSettlementPass)
			r.Post("/mvp/run", settlementAdmin.RunMvpPass)
			r.Post("/notices/run", settlementAdmin.RunNoticePass)
		})

		r.Route("/boloes", func(r chi.Router) {
			r.Use(write)
			r.Post("/", competitionAdmin.CreateBolao)
			r.Post("/{bolaoID}/cancel", competitionAdmin.CancelBolao)
		})

		r.Route("/mvp", func(r chi.Router) {
			r.Use(write)
			r.Post("/", competitionAdmin.CreateMvpVoting)
			r.Post("/{votingID}/finalize", competitionAdmin.FinalizeMvpVoting)
			r.Post("/{votingID}/cancel", competitionAdmin.CancelMvpVoting)
		})

		r.Route("/economy", func(r chi.Router) {
			r.Get("/levels", economyAdmin.GetLevelConfig)
			r.With(write).Put("/levels", economyAdmin.ReplaceLevelConfig)
			r.With(write).Post("/store/{inventoryID}/refund", economyAdmin.RefundPurchase)
			r.With(write).Post("/events/xp", economyAdmin.StartXPEvent)
			r.With(write).Delete("/events/xp", economyAdmin.StopXPEvent)
		})
	})

	return r
}
