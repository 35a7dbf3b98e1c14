package settlement

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/fielbet/platform/internal/domain"
	"github.com/fielbet/platform/internal/grader"
	"github.com/fielbet/platform/internal/infra"
	"github.com/fielbet/platform/internal/ledger"
	"github.com/fielbet/platform/internal/levels"
	"github.com/fielbet/platform/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ResultProvider fetches the authoritative final result of a fixture.
type ResultProvider interface {
	FetchFinalResult(ctx context.Context, matchID int64) (*domain.FinalResult, error)
}

// MultiplierSource reports the currently active XP event multiplier.
// The default multiplier is 1.
type MultiplierSource interface {
	ActiveMultiplier(ctx context.Context) int
}

// Orchestrator settles a finished match: it grades every open bet, pays
// winners, updates stats and XP, issues level rewards and resolves the
// match's prediction pool. The whole settlement of one match runs inside
// one database transaction; the provider fetch happens before it starts.
type Orchestrator struct {
	pool          *pgxpool.Pool
	engine        *ledger.Engine
	provider      ResultProvider
	multiplier    MultiplierSource
	matches       repository.MatchRepository
	bets          repository.BetRepository
	users         repository.UserRepository
	stats         repository.StatsRepository
	boloes        repository.BolaoRepository
	levelConfig   repository.LevelConfigRepository
	notifications repository.NotificationRepository
	pending       repository.PendingRewardRepository
	outbox        repository.OutboxRepository
	achievements  *Granter
	logger        *slog.Logger
}

// OrchestratorDeps bundles the orchestrator's collaborators.
type OrchestratorDeps struct {
	Pool          *pgxpool.Pool
	Engine        *ledger.Engine
	Provider      ResultProvider
	Multiplier    MultiplierSource
	Matches       repository.MatchRepository
	Bets          repository.BetRepository
	Users         repository.UserRepository
	Stats         repository.StatsRepository
	Boloes        repository.BolaoRepository
	LevelConfig   repository.LevelConfigRepository
	Notifications repository.NotificationRepository
	Pending       repository.PendingRewardRepository
	Outbox        repository.OutboxRepository
	Achievements  *Granter
	Logger        *slog.Logger
}

// NewOrchestrator creates a settlement orchestrator.
func NewOrchestrator(deps OrchestratorDeps) *Orchestrator {
	return &Orchestrator{
		pool:          deps.Pool,
		engine:        deps.Engine,
		provider:      deps.Provider,
		multiplier:    deps.Multiplier,
		matches:       deps.Matches,
		bets:          deps.Bets,
		users:         deps.Users,
		stats:         deps.Stats,
		boloes:        deps.Boloes,
		levelConfig:   deps.LevelConfig,
		notifications: deps.Notifications,
		pending:       deps.Pending,
		outbox:        deps.Outbox,
		achievements:  deps.Achievements,
		logger:        deps.Logger,
	}
}

// SettleMatch settles one match end to end. It is safe to call repeatedly:
// the is_processed flag under the match row lock makes the whole operation
// exactly-once. Errors are folded into a failed OpResult so batch callers
// can aggregate outcomes.
func (o *Orchestrator) SettleMatch(ctx context.Context, matchID int64) domain.OpResult {
	final, err := o.provider.FetchFinalResult(ctx, matchID)
	if err != nil {
		return domain.Fail("match %d: fetch final result: %v", matchID, err)
	}
	if !final.Status.IsFinished() {
		return domain.Fail("match %d is not finished yet (status %s)", matchID, final.Status)
	}

	tx, err := o.pool.Begin(ctx)
	if err != nil {
		return domain.Fail("match %d: begin tx: %v", matchID, err)
	}
	defer tx.Rollback(ctx)

	match, err := o.matches.LockForUpdate(ctx, tx, matchID)
	if err != nil {
		return domain.Fail("match %d: lock: %v", matchID, err)
	}
	if match == nil {
		return domain.Fail("match %d not found", matchID)
	}
	if match.IsProcessed {
		return domain.OK("match %d already settled", matchID)
	}

	if err := o.matches.MarkProcessed(ctx, tx, matchID, *final); err != nil {
		return domain.Fail("match %d: mark processed: %v", matchID, err)
	}

	settled, err := o.settleOpenBets(ctx, tx, match, *final)
	if err != nil {
		return domain.Fail("match %d: settle bets: %v", matchID, err)
	}

	if err := o.resolveBolao(ctx, tx, match, *final); err != nil {
		return domain.Fail("match %d: resolve bolao: %v", matchID, err)
	}

	if err := o.outbox.Insert(ctx, tx, domain.NewMatchSettledEvent(matchID, settled, *final)); err != nil {
		return domain.Fail("match %d: outbox: %v", matchID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Fail("match %d: commit: %v", matchID, err)
	}

	o.logger.Info("match settled",
		"match_id", matchID,
		"score", fmt.Sprintf("%d-%d", final.HomeGoals, final.AwayGoals),
		"settled_bets", settled)
	return domain.OK("match %d settled, %d bets graded", matchID, settled)
}

// settleOpenBets grades every open bet touching the match and settles the
// ones whose legs are now all terminal. Returns the number of bets settled.
func (o *Orchestrator) settleOpenBets(ctx context.Context, tx pgx.Tx, match *domain.Match, final domain.FinalResult) (int, error) {
	bets, err := o.bets.ListOpenByMatch(ctx, tx, match.ID)
	if err != nil {
		return 0, fmt.Errorf("list open bets: %w", err)
	}

	eventMultiplier := 1
	if o.multiplier != nil {
		eventMultiplier = o.multiplier.ActiveMultiplier(ctx)
	}

	ladder, err := o.levelConfig.Get(ctx, tx)
	if err != nil {
		return 0, fmt.Errorf("load level config: %w", err)
	}

	settled := 0
	for i := range bets {
		bet := &bets[i]
		regradeSelections(bet, match.ID, final)

		status := bet.ResolveStatus()
		if status == domain.BetOpen {
			// Other legs still pending; persist the graded ones and move on.
			if err := o.bets.UpdateSelections(ctx, tx, bet.ID, bet.Selections); err != nil {
				return settled, fmt.Errorf("bet %s: update selections: %w", bet.ID, err)
			}
			continue
		}

		switch status {
		case domain.BetLost:
			if err := o.settleLoss(ctx, tx, bet); err != nil {
				return settled, fmt.Errorf("bet %s: %w", bet.ID, err)
			}
		case domain.BetWon:
			if err := o.settleWin(ctx, tx, bet, eventMultiplier, ladder); err != nil {
				return settled, fmt.Errorf("bet %s: %w", bet.ID, err)
			}
		}
		infra.BetsSettled.WithLabelValues(string(status)).Inc()
		settled++
	}
	return settled, nil
}

func (o *Orchestrator) settleLoss(ctx context.Context, tx pgx.Tx, bet *domain.PlacedBet) error {
	bet.Status = domain.BetLost
	bet.Winnings = 0
	if err := o.bets.Settle(ctx, tx, bet); err != nil {
		return err
	}

	if err := o.stats.ApplyUpdate(ctx, tx, bet.UserID, domain.StatsUpdate{
		BetsLost:    1,
		TotalLosses: bet.Stake,
	}); err != nil {
		return fmt.Errorf("stats: %w", err)
	}

	o.achievements.GrantQuietly(ctx, tx, bet.UserID, "first_loss")

	return o.notifyBetResult(ctx, tx, bet)
}

func (o *Orchestrator) settleWin(ctx context.Context, tx pgx.Tx, bet *domain.PlacedBet, eventMultiplier int, ladder []domain.LevelThreshold) error {
	bet.Status = domain.BetWon
	bet.Winnings = bet.Payout()
	if err := o.bets.Settle(ctx, tx, bet); err != nil {
		return err
	}

	meta, _ := json.Marshal(map[string]interface{}{"bet_id": bet.ID.String(), "legs": len(bet.Selections)})
	if _, err := o.engine.ExecuteCredit(ctx, tx, ledger.CreditParams{
		UserID:      bet.UserID,
		Type:        domain.TxPrize,
		Description: fmt.Sprintf("Prêmio de aposta (%d seleções)", len(bet.Selections)),
		Amount:      bet.Winnings,
		RefID:       bet.ID.String(),
		Metadata:    meta,
	}); err != nil {
		return fmt.Errorf("credit winnings: %w", err)
	}

	if err := o.stats.ApplyUpdate(ctx, tx, bet.UserID, domain.StatsUpdate{
		BetsWon:       1,
		TotalWinnings: bet.Winnings,
	}); err != nil {
		return fmt.Errorf("stats: %w", err)
	}

	if err := o.awardXP(ctx, tx, bet, eventMultiplier, ladder); err != nil {
		return fmt.Errorf("award xp: %w", err)
	}

	o.achievements.GrantQuietly(ctx, tx, bet.UserID, "first_win")
	if bet.IsMultiple() {
		o.achievements.GrantQuietly(ctx, tx, bet.UserID, "multiple_win")
	}

	if err := o.notifyBetResult(ctx, tx, bet); err != nil {
		return err
	}
	return o.outbox.Insert(ctx, tx, domain.NewBetSettledEvent(bet))
}

// awardXP credits the win's XP and walks the user through any level
// thresholds it crossed, issuing each level's reward exactly once.
func (o *Orchestrator) awardXP(ctx context.Context, tx pgx.Tx, bet *domain.PlacedBet, eventMultiplier int, ladder []domain.LevelThreshold) error {
	user, err := o.users.LockForUpdate(ctx, tx, bet.UserID)
	if err != nil {
		return fmt.Errorf("lock user: %w", err)
	}
	if user == nil {
		// Wallet exists but the account row is gone. Log and skip XP rather
		// than fail the whole settlement.
		o.logger.Warn("user row missing during settlement", "user_id", bet.UserID)
		return nil
	}

	gain := levels.XPGain(bet.Stake, eventMultiplier, user.IsVIP)
	if gain <= 0 {
		return nil
	}

	updated, err := o.users.AddXP(ctx, tx, bet.UserID, gain)
	if err != nil {
		return fmt.Errorf("add xp: %w", err)
	}

	before := levels.Resolve(user.XP, ladder)
	after := levels.Resolve(updated.XP, ladder)
	if after.Level <= before.Level {
		return nil
	}

	if err := o.users.SetLevel(ctx, tx, bet.UserID, after.Level); err != nil {
		return err
	}

	for lvl := before.Level + 1; lvl <= after.Level; lvl++ {
		threshold := domain.FindThreshold(ladder, lvl)
		if threshold == nil {
			continue
		}
		if err := o.issueLevelReward(ctx, tx, bet.UserID, threshold); err != nil {
			return fmt.Errorf("level %d reward: %w", lvl, err)
		}
	}

	notification := &domain.Notification{
		ID:          uuid.New(),
		UserID:      bet.UserID,
		Title:       "Subiu de nível!",
		Description: fmt.Sprintf("Você alcançou o nível %d (%s).", after.Level, after.Name),
		Link:        "/perfil",
		IsPriority:  true,
	}
	if err := o.notifications.Insert(ctx, tx, notification); err != nil {
		return err
	}
	if err := o.outbox.Insert(ctx, tx, domain.NewLevelUpEvent(bet.UserID, after.Level, after.Name)); err != nil {
		return err
	}
	return nil
}

func (o *Orchestrator) issueLevelReward(ctx context.Context, tx pgx.Tx, userID string, threshold *domain.LevelThreshold) error {
	switch threshold.RewardType {
	case domain.RewardMoney:
		meta, _ := json.Marshal(map[string]interface{}{"level": threshold.Level})
		if _, err := o.engine.ExecuteCredit(ctx, tx, ledger.CreditParams{
			UserID:      userID,
			Type:        domain.TxBonus,
			Description: fmt.Sprintf("Recompensa do nível %d (%s)", threshold.Level, threshold.Name),
			Amount:      threshold.RewardAmount,
			RefID:       fmt.Sprintf("level-%d", threshold.Level),
			Metadata:    meta,
		}); err != nil {
			return err
		}
	case domain.RewardRole:
		// Only the bot can mutate guild roles, so role rewards are queued.
		if err := o.pending.Insert(ctx, tx, &domain.PendingReward{
			ID:     uuid.New(),
			UserID: userID,
			Type:   "role",
			RoleID: threshold.RewardRoleID,
			Reason: fmt.Sprintf("Nível %d (%s)", threshold.Level, threshold.Name),
		}); err != nil {
			return err
		}
	}

	switch threshold.Level {
	case 5:
		o.achievements.GrantQuietly(ctx, tx, userID, "level_5")
	case 10:
		o.achievements.GrantQuietly(ctx, tx, userID, "level_10")
	}
	return nil
}

func (o *Orchestrator) notifyBetResult(ctx context.Context, tx pgx.Tx, bet *domain.PlacedBet) error {
	var title, description string
	if bet.Status == domain.BetWon {
		title = "Aposta vencedora!"
		description = fmt.Sprintf("Sua aposta foi paga: R$ %.2f.", float64(bet.Winnings)/100)
	} else {
		title = "Aposta encerrada"
		description = "Sua aposta não foi dessa vez."
	}
	notification := &domain.Notification{
		ID:          uuid.New(),
		UserID:      bet.UserID,
		Title:       title,
		Description: description,
		Link:        fmt.Sprintf("/apostas/%s", bet.ID),
		IsPriority:  bet.Status == domain.BetWon,
	}
	if err := o.notifications.Insert(ctx, tx, notification); err != nil {
		return fmt.Errorf("bet notification: %w", err)
	}
	return o.outbox.Insert(ctx, tx, domain.NewNotificationEvent(notification))
}

// regradeSelections grades the bet's still-open legs on the given match.
// Legs on other matches and already-terminal legs are untouched.
func regradeSelections(bet *domain.PlacedBet, matchID int64, final domain.FinalResult) {
	for i := range bet.Selections {
		sel := &bet.Selections[i]
		if sel.MatchID != matchID || sel.Status.IsTerminal() {
			continue
		}
		sel.Status = grader.Grade(*sel, final)
	}
}
