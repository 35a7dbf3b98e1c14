package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fielbet/platform/internal/domain"
	"github.com/fielbet/platform/internal/infra"
	"github.com/fielbet/platform/internal/ledger"
	"github.com/fielbet/platform/internal/policy"
	"github.com/fielbet/platform/internal/repository"
	"github.com/fielbet/platform/internal/settlement"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// BetService handles bet placement and bet history reads.
type BetService struct {
	pool         *pgxpool.Pool
	engine       *ledger.Engine
	bets         repository.BetRepository
	matches      repository.MatchRepository
	stats        repository.StatsRepository
	achievements *settlement.Granter
	limits       policy.StakeLimitPolicy
	logger       *slog.Logger
}

// NewBetService creates a BetService.
func NewBetService(
	pool *pgxpool.Pool,
	engine *ledger.Engine,
	bets repository.BetRepository,
	matches repository.MatchRepository,
	stats repository.StatsRepository,
	achievements *settlement.Granter,
	logger *slog.Logger,
) *BetService {
	return &BetService{
		pool:         pool,
		engine:       engine,
		bets:         bets,
		matches:      matches,
		stats:        stats,
		achievements: achievements,
		limits:       policy.DefaultStakeLimits(),
		logger:       logger,
	}
}

// PlaceBetInput is the bet slip as submitted by the player.
type PlaceBetInput struct {
	Selections []domain.Selection `json:"selections"`
	Stake      int64              `json:"stake"`
}

// PlaceBet validates the slip, debits the stake and records the wager in
// one transaction. Every referenced match is re-checked inside the
// transaction so a kickoff between validation and commit still rejects.
func (s *BetService) PlaceBet(ctx context.Context, userID string, input PlaceBetInput) (*domain.PlacedBet, error) {
	if err := domain.ValidateUserID(userID); err != nil {
		return nil, domain.ErrValidation(err.Error())
	}
	if err := domain.ValidatePositiveAmount(input.Stake); err != nil {
		return nil, domain.ErrValidation(err.Error())
	}
	if err := domain.ValidateSelections(input.Selections); err != nil {
		return nil, domain.ErrValidation(err.Error())
	}

	// Daily limits are checked against a midnight UTC cutoff. The read is
	// outside the transaction; a racing bet can slip past the cap by one,
	// which is acceptable for anti-abuse limits.
	dayStart := time.Now().UTC().Truncate(24 * time.Hour)
	staked, count, err := s.bets.DailyActivity(ctx, s.pool, userID, dayStart)
	if err != nil {
		return nil, fmt.Errorf("load daily activity: %w", err)
	}
	if eval := policy.EvaluateStakeLimits(s.limits, input.Stake, staked, count); !eval.Allowed {
		s.logger.Warn("stake limit breached",
			"user_id", userID, "limit", eval.BreachedLimit, "requested", eval.RequestedAmt)
		return nil, domain.ErrForbidden(fmt.Sprintf("stake limit exceeded: %s", eval.BreachedLimit))
	}

	bet := &domain.PlacedBet{
		ID:         uuid.New(),
		UserID:     userID,
		Selections: make([]domain.Selection, len(input.Selections)),
		Stake:      input.Stake,
		TotalOdds:  domain.CombinedOdds(input.Selections),
		Status:     domain.BetOpen,
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, domain.ErrInternal("begin tx", err)
	}
	defer tx.Rollback(ctx)

	now := time.Now()
	for i, sel := range input.Selections {
		match, err := s.matches.FindByID(ctx, tx, sel.MatchID)
		if err != nil {
			return nil, fmt.Errorf("load match %d: %w", sel.MatchID, err)
		}
		if match == nil {
			return nil, domain.ErrNotFound("match", fmt.Sprintf("%d", sel.MatchID))
		}
		if !match.IsOpenForWagering(now) {
			return nil, domain.ErrMatchClosed(match.ID)
		}

		sel.HomeTeam = match.HomeTeam
		sel.AwayTeam = match.AwayTeam
		sel.Status = domain.SelectionOpen
		if sel.Market == "" {
			sel.Market = domain.ParseMarket(sel.MarketLabel)
		}
		if sel.Market == domain.MarketUnknown {
			s.logger.Warn("bet placed on unknown market",
				"user_id", userID, "match_id", sel.MatchID, "market_label", sel.MarketLabel)
		}
		bet.Selections[i] = sel
	}

	description := "Aposta simples"
	if bet.IsMultiple() {
		description = fmt.Sprintf("Aposta múltipla (%d seleções)", len(bet.Selections))
	}
	if _, err := s.engine.ExecuteDebit(ctx, tx, ledger.DebitParams{
		UserID:      userID,
		Type:        domain.TxStake,
		Description: description,
		Amount:      input.Stake,
		RefID:       bet.ID.String(),
	}); err != nil {
		return nil, err
	}

	if err := s.bets.Insert(ctx, tx, bet); err != nil {
		return nil, fmt.Errorf("insert bet: %w", err)
	}
	if err := s.stats.ApplyUpdate(ctx, tx, userID, domain.StatsUpdate{
		TotalBets:    1,
		TotalWagered: input.Stake,
	}); err != nil {
		return nil, fmt.Errorf("update stats: %w", err)
	}

	s.achievements.GrantQuietly(ctx, tx, userID, "first_bet")
	if bet.IsMultiple() {
		s.achievements.GrantQuietly(ctx, tx, userID, "first_multiple")
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, domain.ErrInternal("commit tx", err)
	}

	infra.TransactionsPosted.WithLabelValues(string(domain.TxStake)).Inc()
	s.logger.Info("bet placed",
		"bet_id", bet.ID, "user_id", userID, "stake", input.Stake, "legs", len(bet.Selections))
	return bet, nil
}

// GetBet returns one wager.
func (s *BetService) GetBet(ctx context.Context, id uuid.UUID) (*domain.PlacedBet, error) {
	bet, err := s.bets.FindByID(ctx, s.pool, id)
	if err != nil {
		return nil, err
	}
	if bet == nil {
		return nil, domain.ErrNotFound("bet", id.String())
	}
	return bet, nil
}

// ListUserBets returns a user's wagers, newest first.
func (s *BetService) ListUserBets(ctx context.Context, userID string, limit int) ([]domain.PlacedBet, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.bets.ListByUser(ctx, s.pool, userID, limit)
}
