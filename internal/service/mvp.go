package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fielbet/platform/internal/domain"
	"github.com/fielbet/platform/internal/ledger"
	"github.com/fielbet/platform/internal/repository"
	"github.com/fielbet/platform/internal/settlement"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// MvpVotingDuration is the voting window from creation to deadline.
const MvpVotingDuration = 10 * time.Minute

// LineupProvider supplies the starting elevens for the MVP ballot.
type LineupProvider interface {
	FetchLineups(ctx context.Context, matchID int64) ([]domain.MvpPlayer, error)
}

// MvpService handles voting creation and vote casting. Finalization and
// cancellation live with settlement.MvpFinalizer.
type MvpService struct {
	pool          *pgxpool.Pool
	engine        *ledger.Engine
	votings       repository.MvpRepository
	matches       repository.MatchRepository
	users         repository.UserRepository
	levelConfig   repository.LevelConfigRepository
	lineups       LineupProvider
	achievements  *settlement.Granter
	notifications repository.NotificationRepository
	outbox        repository.OutboxRepository
	logger        *slog.Logger
}

// NewMvpService creates an MvpService.
func NewMvpService(
	pool *pgxpool.Pool,
	engine *ledger.Engine,
	votings repository.MvpRepository,
	matches repository.MatchRepository,
	users repository.UserRepository,
	levelConfig repository.LevelConfigRepository,
	lineups LineupProvider,
	achievements *settlement.Granter,
	notifications repository.NotificationRepository,
	outbox repository.OutboxRepository,
	logger *slog.Logger,
) *MvpService {
	return &MvpService{
		pool:          pool,
		engine:        engine,
		votings:       votings,
		matches:       matches,
		users:         users,
		levelConfig:   levelConfig,
		lineups:       lineups,
		achievements:  achievements,
		notifications: notifications,
		outbox:        outbox,
		logger:        logger,
	}
}

// CreateVoting opens an MVP election for a match using the provider's
// starting lineups. One open voting per match; the ballot closes after
// MvpVotingDuration.
func (s *MvpService) CreateVoting(ctx context.Context, matchID int64) (*domain.MvpVoting, error) {
	match, err := s.matches.FindByID(ctx, s.pool, matchID)
	if err != nil {
		return nil, fmt.Errorf("load match: %w", err)
	}
	if match == nil {
		return nil, domain.ErrNotFound("match", fmt.Sprintf("%d", matchID))
	}
	if match.Status == domain.MatchNotStarted {
		return nil, domain.ErrValidation("mvp voting opens only after kickoff")
	}

	// Lineups come from the provider before the transaction opens; a slow
	// upstream must not hold locks.
	players, err := s.lineups.FetchLineups(ctx, matchID)
	if err != nil {
		return nil, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, domain.ErrInternal("begin tx", err)
	}
	defer tx.Rollback(ctx)

	existing, err := s.votings.FindOpenByMatch(ctx, tx, matchID)
	if err != nil {
		return nil, fmt.Errorf("check open voting: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrConflict(fmt.Sprintf("match %d already has an open mvp voting", matchID))
	}

	voting := &domain.MvpVoting{
		ID:       uuid.New(),
		MatchID:  matchID,
		HomeTeam: match.HomeTeam,
		AwayTeam: match.AwayTeam,
		Lineups:  players,
		Status:   domain.MvpOpen,
		EndsAt:   time.Now().Add(MvpVotingDuration),
	}
	if err := s.votings.Insert(ctx, tx, voting); err != nil {
		return nil, fmt.Errorf("insert voting: %w", err)
	}

	announcement := &domain.Notification{
		ID:     uuid.New(),
		UserID: "", // broadcast, routed to the announcement channel
		Title:  "Votação MVP aberta!",
		Description: fmt.Sprintf("Quem foi o melhor em campo de %s x %s? Vote e ganhe R$ %.2f. A votação fecha em %d minutos.",
			match.HomeTeam, match.AwayTeam, float64(domain.MvpVoteReward)/100, int(MvpVotingDuration.Minutes())),
		Link:       "/mvp",
		IsPriority: true,
	}
	if err := s.notifications.Insert(ctx, tx, announcement); err != nil {
		return nil, fmt.Errorf("announce voting: %w", err)
	}
	if err := s.outbox.Insert(ctx, tx, domain.NewNotificationEvent(announcement)); err != nil {
		return nil, fmt.Errorf("voting event: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, domain.ErrInternal("commit tx", err)
	}

	s.logger.Info("mvp voting created",
		"voting_id", voting.ID, "match_id", matchID, "players", len(players), "ends_at", voting.EndsAt)
	return voting, nil
}

// CastVote records one user's vote and credits the fixed participation
// reward in the same transaction. One vote per user per voting.
func (s *MvpService) CastVote(ctx context.Context, votingID uuid.UUID, userID string, playerID int64) error {
	if err := domain.ValidateUserID(userID); err != nil {
		return domain.ErrValidation(err.Error())
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return domain.ErrInternal("begin tx", err)
	}
	defer tx.Rollback(ctx)

	voting, err := s.votings.FindByID(ctx, tx, votingID)
	if err != nil {
		return fmt.Errorf("load voting: %w", err)
	}
	if voting == nil {
		return domain.ErrNotFound("mvp voting", votingID.String())
	}
	if voting.Status != domain.MvpOpen || time.Now().After(voting.EndsAt) {
		return domain.ErrConflict("mvp voting is closed")
	}
	if voting.HasVoted(userID) {
		return domain.ErrConflict("user already voted in this mvp voting")
	}
	if voting.FindPlayer(playerID) == nil {
		return domain.ErrValidation(fmt.Sprintf("player %d is not on the ballot", playerID))
	}

	if err := requireFeature(ctx, tx, s.users, s.levelConfig, userID, "mvp"); err != nil {
		return err
	}

	if err := s.votings.AddVote(ctx, tx, votingID, domain.MvpVote{
		UserID:   userID,
		PlayerID: playerID,
		VotedAt:  time.Now(),
	}); err != nil {
		return err
	}

	if _, err := s.engine.ExecuteCredit(ctx, tx, ledger.CreditParams{
		UserID:      userID,
		Type:        domain.TxVoteReward,
		Description: "Recompensa por voto no MVP",
		Amount:      domain.MvpVoteReward,
		RefID:       votingID.String(),
	}); err != nil {
		return err
	}

	s.achievements.GrantQuietly(ctx, tx, userID, "first_mvp_vote")

	if err := tx.Commit(ctx); err != nil {
		return domain.ErrInternal("commit tx", err)
	}

	s.logger.Info("mvp vote cast", "voting_id", votingID, "user_id", userID, "player_id", playerID)
	return nil
}

// Get returns one voting.
func (s *MvpService) Get(ctx context.Context, id uuid.UUID) (*domain.MvpVoting, error) {
	voting, err := s.votings.FindByID(ctx, s.pool, id)
	if err != nil {
		return nil, err
	}
	if voting == nil {
		return nil, domain.ErrNotFound("mvp voting", id.String())
	}
	return voting, nil
}
