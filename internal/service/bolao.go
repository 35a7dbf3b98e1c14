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

// BolaoService handles prediction pool creation and participation.
// Resolution and cancellation live with the settlement orchestrator.
type BolaoService struct {
	pool          *pgxpool.Pool
	engine        *ledger.Engine
	boloes        repository.BolaoRepository
	matches       repository.MatchRepository
	users         repository.UserRepository
	levelConfig   repository.LevelConfigRepository
	achievements  *settlement.Granter
	notifications repository.NotificationRepository
	outbox        repository.OutboxRepository
	logger        *slog.Logger
}

// NewBolaoService creates a BolaoService.
func NewBolaoService(
	pool *pgxpool.Pool,
	engine *ledger.Engine,
	boloes repository.BolaoRepository,
	matches repository.MatchRepository,
	users repository.UserRepository,
	levelConfig repository.LevelConfigRepository,
	achievements *settlement.Granter,
	notifications repository.NotificationRepository,
	outbox repository.OutboxRepository,
	logger *slog.Logger,
) *BolaoService {
	return &BolaoService{
		pool:          pool,
		engine:        engine,
		boloes:        boloes,
		matches:       matches,
		users:         users,
		levelConfig:   levelConfig,
		achievements:  achievements,
		notifications: notifications,
		outbox:        outbox,
		logger:        logger,
	}
}

// Create opens a prediction pool for a match. One open pool per match;
// the announcement is broadcast through the outbox.
func (s *BolaoService) Create(ctx context.Context, matchID int64) (*domain.Bolao, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, domain.ErrInternal("begin tx", err)
	}
	defer tx.Rollback(ctx)

	match, err := s.matches.FindByID(ctx, tx, matchID)
	if err != nil {
		return nil, fmt.Errorf("load match: %w", err)
	}
	if match == nil {
		return nil, domain.ErrNotFound("match", fmt.Sprintf("%d", matchID))
	}
	if !match.IsOpenForWagering(time.Now()) {
		return nil, domain.ErrMatchClosed(matchID)
	}

	existing, err := s.boloes.FindOpenByMatch(ctx, tx, matchID)
	if err != nil {
		return nil, fmt.Errorf("check open pool: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrConflict(fmt.Sprintf("match %d already has an open bolão", matchID))
	}

	bolao := &domain.Bolao{
		ID:       uuid.New(),
		MatchID:  matchID,
		HomeTeam: match.HomeTeam,
		AwayTeam: match.AwayTeam,
		EntryFee: domain.BolaoEntryFee,
		Status:   domain.BolaoOpen,
	}
	if err := s.boloes.Insert(ctx, tx, bolao); err != nil {
		return nil, fmt.Errorf("insert bolão: %w", err)
	}

	announcement := &domain.Notification{
		ID:     uuid.New(),
		UserID: "", // broadcast, routed to the announcement channel
		Title:  "Novo bolão aberto!",
		Description: fmt.Sprintf("Chute o placar de %s x %s. Entrada: R$ %.2f.",
			match.HomeTeam, match.AwayTeam, float64(bolao.EntryFee)/100),
		Link:       "/bolao",
		IsPriority: true,
	}
	if err := s.notifications.Insert(ctx, tx, announcement); err != nil {
		return nil, fmt.Errorf("announce bolão: %w", err)
	}
	if err := s.outbox.Insert(ctx, tx, domain.NewNotificationEvent(announcement)); err != nil {
		return nil, fmt.Errorf("bolão event: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, domain.ErrInternal("commit tx", err)
	}

	s.logger.Info("bolão created", "bolao_id", bolao.ID, "match_id", matchID)
	return bolao, nil
}

// Join enters a user into a pool with their exact-score guess. The entry
// fee moves into the prize pool in the same transaction.
func (s *BolaoService) Join(ctx context.Context, bolaoID uuid.UUID, userID string, guess domain.Score) (*domain.Bolao, error) {
	if err := domain.ValidateUserID(userID); err != nil {
		return nil, domain.ErrValidation(err.Error())
	}
	if guess.Home < 0 || guess.Away < 0 {
		return nil, domain.ErrValidation("score guess must be non-negative")
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, domain.ErrInternal("begin tx", err)
	}
	defer tx.Rollback(ctx)

	bolao, err := s.boloes.FindByID(ctx, tx, bolaoID)
	if err != nil {
		return nil, fmt.Errorf("load bolão: %w", err)
	}
	if bolao == nil {
		return nil, domain.ErrNotFound("bolão", bolaoID.String())
	}
	if bolao.Status != domain.BolaoOpen {
		return nil, domain.ErrConflict("bolão is no longer open")
	}
	if bolao.HasParticipant(userID) {
		return nil, domain.ErrConflict("user already joined this bolão")
	}

	match, err := s.matches.FindByID(ctx, tx, bolao.MatchID)
	if err != nil {
		return nil, fmt.Errorf("load match: %w", err)
	}
	if match == nil || !match.IsOpenForWagering(time.Now()) {
		return nil, domain.ErrMatchClosed(bolao.MatchID)
	}

	if err := requireFeature(ctx, tx, s.users, s.levelConfig, userID, "bolao"); err != nil {
		return nil, err
	}

	if _, err := s.engine.ExecuteDebit(ctx, tx, ledger.DebitParams{
		UserID:      userID,
		Type:        domain.TxStake,
		Description: fmt.Sprintf("Entrada no bolão %s x %s", bolao.HomeTeam, bolao.AwayTeam),
		Amount:      bolao.EntryFee,
		RefID:       bolaoID.String(),
	}); err != nil {
		return nil, err
	}

	participant := domain.BolaoParticipant{UserID: userID, Guess: guess, JoinedAt: time.Now()}
	if err := s.boloes.AddParticipant(ctx, tx, bolaoID, participant, bolao.EntryFee); err != nil {
		return nil, err
	}

	s.achievements.GrantQuietly(ctx, tx, userID, "first_bolao")

	if err := tx.Commit(ctx); err != nil {
		return nil, domain.ErrInternal("commit tx", err)
	}

	s.logger.Info("bolão joined", "bolao_id", bolaoID, "user_id", userID,
		"guess", fmt.Sprintf("%d-%d", guess.Home, guess.Away))

	bolao.Participants = append(bolao.Participants, participant)
	bolao.PrizePool += bolao.EntryFee
	return bolao, nil
}

// Get returns one pool.
func (s *BolaoService) Get(ctx context.Context, id uuid.UUID) (*domain.Bolao, error) {
	bolao, err := s.boloes.FindByID(ctx, s.pool, id)
	if err != nil {
		return nil, err
	}
	if bolao == nil {
		return nil, domain.ErrNotFound("bolão", id.String())
	}
	return bolao, nil
}
