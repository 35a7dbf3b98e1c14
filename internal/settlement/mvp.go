package settlement

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fielbet/platform/internal/domain"
	"github.com/fielbet/platform/internal/ledger"
	"github.com/fielbet/platform/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// MvpFinalizer closes MVP votings: a plurality tally on finalization, a
// vote-reward reversal on cancellation. Both transitions are conditional on
// the open status, so concurrent runs settle each voting exactly once.
type MvpFinalizer struct {
	pool          *pgxpool.Pool
	engine        *ledger.Engine
	votings       repository.MvpRepository
	notifications repository.NotificationRepository
	outbox        repository.OutboxRepository
	logger        *slog.Logger
}

// NewMvpFinalizer creates an MVP finalizer.
func NewMvpFinalizer(
	pool *pgxpool.Pool,
	engine *ledger.Engine,
	votings repository.MvpRepository,
	notifications repository.NotificationRepository,
	outbox repository.OutboxRepository,
	logger *slog.Logger,
) *MvpFinalizer {
	return &MvpFinalizer{
		pool:          pool,
		engine:        engine,
		votings:       votings,
		notifications: notifications,
		outbox:        outbox,
		logger:        logger,
	}
}

// FinalizeVoting tallies and closes one voting. Ties produce multiple
// winners; zero votes finalizes with an empty winner set.
func (f *MvpFinalizer) FinalizeVoting(ctx context.Context, votingID uuid.UUID) domain.OpResult {
	return f.finalize(ctx, votingID, nil)
}

// FinalizeVotingWith closes a voting declaring the given players the
// winners, bypassing the tally. Lets an admin correct a voting whose
// community pick was clearly off the pitch.
func (f *MvpFinalizer) FinalizeVotingWith(ctx context.Context, votingID uuid.UUID, winnerIDs []int64) domain.OpResult {
	return f.finalize(ctx, votingID, winnerIDs)
}

func (f *MvpFinalizer) finalize(ctx context.Context, votingID uuid.UUID, override []int64) domain.OpResult {
	tx, err := f.pool.Begin(ctx)
	if err != nil {
		return domain.Fail("voting %s: begin tx: %v", votingID, err)
	}
	defer tx.Rollback(ctx)

	voting, err := f.votings.FindByID(ctx, tx, votingID)
	if err != nil {
		return domain.Fail("voting %s: %v", votingID, err)
	}
	if voting == nil {
		return domain.Fail("voting %s not found", votingID)
	}

	winnerIDs := override
	if winnerIDs == nil {
		winnerIDs = voting.TallyWinners()
	}
	finalized, err := f.votings.Finalize(ctx, tx, votingID, winnerIDs)
	if err != nil {
		return domain.Fail("voting %s: finalize: %v", votingID, err)
	}
	if !finalized {
		return domain.OK("voting %s already closed", votingID)
	}

	voting.Status = domain.MvpFinalized
	voting.WinnerIDs = winnerIDs
	if err := f.outbox.Insert(ctx, tx, domain.NewMvpFinalizedEvent(voting)); err != nil {
		return domain.Fail("voting %s: outbox: %v", votingID, err)
	}

	// Tell everyone who voted for a winning player that they called it.
	winners := make(map[int64]bool, len(winnerIDs))
	for _, id := range winnerIDs {
		winners[id] = true
	}
	for _, vote := range voting.Votes {
		if !winners[vote.PlayerID] {
			continue
		}
		player := voting.FindPlayer(vote.PlayerID)
		name := fmt.Sprintf("jogador %d", vote.PlayerID)
		if player != nil {
			name = player.Name
		}
		notification := &domain.Notification{
			ID:          uuid.New(),
			UserID:      vote.UserID,
			Title:       "Seu MVP venceu!",
			Description: fmt.Sprintf("%s foi eleito o melhor em campo de %s x %s.", name, voting.HomeTeam, voting.AwayTeam),
			Link:        "/mvp",
		}
		if err := f.notifications.Insert(ctx, tx, notification); err != nil {
			return domain.Fail("voting %s: notify: %v", votingID, err)
		}
		if err := f.outbox.Insert(ctx, tx, domain.NewNotificationEvent(notification)); err != nil {
			return domain.Fail("voting %s: notify event: %v", votingID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Fail("voting %s: commit: %v", votingID, err)
	}

	f.logger.Info("mvp voting finalized",
		"voting_id", votingID, "match_id", voting.MatchID,
		"winners", len(winnerIDs), "votes", len(voting.Votes))
	return domain.OK("voting %s finalized with %d winner(s)", votingID, len(winnerIDs))
}

// CancelVoting closes a voting without a result and claws back the vote
// rewards already credited. Balances may go negative; the reversal is a
// plain adjustment entry, fully auditable.
func (f *MvpFinalizer) CancelVoting(ctx context.Context, votingID uuid.UUID) domain.OpResult {
	tx, err := f.pool.Begin(ctx)
	if err != nil {
		return domain.Fail("voting %s: begin tx: %v", votingID, err)
	}
	defer tx.Rollback(ctx)

	voting, err := f.votings.FindByID(ctx, tx, votingID)
	if err != nil {
		return domain.Fail("voting %s: %v", votingID, err)
	}
	if voting == nil {
		return domain.Fail("voting %s not found", votingID)
	}

	cancelled, err := f.votings.Cancel(ctx, tx, votingID)
	if err != nil {
		return domain.Fail("voting %s: cancel: %v", votingID, err)
	}
	if !cancelled {
		return domain.OK("voting %s already closed", votingID)
	}

	for _, vote := range voting.Votes {
		if _, err := f.engine.ExecuteAdjustment(ctx, tx, vote.UserID,
			"Estorno de recompensa de voto (votação cancelada)",
			-domain.MvpVoteReward, votingID.String()); err != nil {
			return domain.Fail("voting %s: reverse reward for %s: %v", votingID, vote.UserID, err)
		}

		notification := &domain.Notification{
			ID:          uuid.New(),
			UserID:      vote.UserID,
			Title:       "Votação MVP cancelada",
			Description: "A votação foi cancelada e a recompensa do voto foi estornada.",
			Link:        "/mvp",
		}
		if err := f.notifications.Insert(ctx, tx, notification); err != nil {
			return domain.Fail("voting %s: notify: %v", votingID, err)
		}
		if err := f.outbox.Insert(ctx, tx, domain.NewNotificationEvent(notification)); err != nil {
			return domain.Fail("voting %s: notify event: %v", votingID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Fail("voting %s: commit: %v", votingID, err)
	}
	return domain.OK("voting %s cancelled, %d rewards reversed", votingID, len(voting.Votes))
}
