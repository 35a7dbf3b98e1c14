package scheduler

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fielbet/platform/internal/domain"
	"github.com/fielbet/platform/internal/infra"
	"github.com/fielbet/platform/internal/repository"
	"github.com/fielbet/platform/internal/settlement"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Processor runs the periodic batch passes: settling finished matches,
// finalizing expired MVP votings and announcing imminent kickoffs. Each
// pass aggregates per-item outcomes into a BatchReport; one failed item
// never aborts the rest of the batch.
type Processor struct {
	pool          *pgxpool.Pool
	orchestrator  *settlement.Orchestrator
	mvp           *settlement.MvpFinalizer
	matches       repository.MatchRepository
	votings       repository.MvpRepository
	notifications repository.NotificationRepository
	outbox        repository.OutboxRepository
	logger        *slog.Logger

	// SettlementGraceMinutes is how long after kickoff a match becomes a
	// settlement candidate. Matches run ~2 hours; polling earlier just
	// burns provider quota.
	SettlementGraceMinutes int

	// KickoffNoticeMinutes is the announcement window before kickoff.
	KickoffNoticeMinutes int
}

// NewProcessor creates a batch processor with the default windows.
func NewProcessor(
	pool *pgxpool.Pool,
	orchestrator *settlement.Orchestrator,
	mvp *settlement.MvpFinalizer,
	matches repository.MatchRepository,
	votings repository.MvpRepository,
	notifications repository.NotificationRepository,
	outbox repository.OutboxRepository,
	logger *slog.Logger,
) *Processor {
	return &Processor{
		pool:                   pool,
		orchestrator:           orchestrator,
		mvp:                    mvp,
		matches:                matches,
		votings:                votings,
		notifications:          notifications,
		outbox:                 outbox,
		logger:                 logger,
		SettlementGraceMinutes: 110,
		KickoffNoticeMinutes:   30,
	}
}

// ProcessFinishedMatches settles every due match. Matches the provider
// still reports as in play fail softly and are retried on the next pass.
func (p *Processor) ProcessFinishedMatches(ctx context.Context) (*domain.BatchReport, error) {
	candidates, err := p.matches.ListDueForSettlement(ctx, p.pool, p.SettlementGraceMinutes)
	if err != nil {
		return nil, fmt.Errorf("list due matches: %w", err)
	}

	report := &domain.BatchReport{}
	for _, match := range candidates {
		res := p.orchestrator.SettleMatch(ctx, match.ID)
		report.Record(fmt.Sprintf("%d", match.ID), res)
		if res.Success {
			infra.MatchesSettled.Inc()
		} else {
			p.logger.Warn("match settlement deferred", "match_id", match.ID, "reason", res.Message)
		}
	}

	if report.Processed > 0 {
		p.logger.Info("settlement pass complete",
			"processed", report.Processed, "succeeded", report.Succeeded, "failed", report.Failed)
	}
	return report, nil
}

// ProcessExpiredVotings finalizes every MVP voting past its deadline.
func (p *Processor) ProcessExpiredVotings(ctx context.Context) (*domain.BatchReport, error) {
	expired, err := p.votings.ListExpiredOpen(ctx, p.pool)
	if err != nil {
		return nil, fmt.Errorf("list expired votings: %w", err)
	}

	report := &domain.BatchReport{}
	for _, voting := range expired {
		res := p.mvp.FinalizeVoting(ctx, voting.ID)
		report.Record(voting.ID.String(), res)
		if res.Success {
			infra.VotingsFinalized.Inc()
		}
	}

	if report.Processed > 0 {
		p.logger.Info("mvp pass complete",
			"processed", report.Processed, "succeeded", report.Succeeded, "failed", report.Failed)
	}
	return report, nil
}

// ProcessKickoffNotices announces matches starting within the notice
// window. The flag flips with the notification write, so each match is
// announced once.
func (p *Processor) ProcessKickoffNotices(ctx context.Context) (*domain.BatchReport, error) {
	upcoming, err := p.matches.ListUpcomingUnnotified(ctx, p.pool, p.KickoffNoticeMinutes)
	if err != nil {
		return nil, fmt.Errorf("list upcoming matches: %w", err)
	}

	report := &domain.BatchReport{}
	for _, match := range upcoming {
		res := p.announceKickoff(ctx, match)
		report.Record(fmt.Sprintf("%d", match.ID), res)
	}
	return report, nil
}

func (p *Processor) announceKickoff(ctx context.Context, match domain.Match) domain.OpResult {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return domain.Fail("match %d: begin tx: %v", match.ID, err)
	}
	defer tx.Rollback(ctx)

	notification := &domain.Notification{
		ID:     uuid.New(),
		UserID: "", // broadcast, routed to the announcement channel
		Title:  "Bola rolando em breve!",
		Description: fmt.Sprintf("%s x %s começa às %s. Últimos minutos para apostar!",
			match.HomeTeam, match.AwayTeam, match.KickoffAt.Local().Format("15:04")),
		Link:       fmt.Sprintf("/partidas/%d", match.ID),
		IsPriority: true,
	}
	if err := p.notifications.Insert(ctx, tx, notification); err != nil {
		return domain.Fail("match %d: insert notice: %v", match.ID, err)
	}
	if err := p.outbox.Insert(ctx, tx, domain.NewNotificationEvent(notification)); err != nil {
		return domain.Fail("match %d: notice event: %v", match.ID, err)
	}
	if err := p.matches.MarkNotificationSent(ctx, tx, match.ID); err != nil {
		return domain.Fail("match %d: mark notified: %v", match.ID, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return domain.Fail("match %d: commit: %v", match.ID, err)
	}
	return domain.OK("match %d kickoff announced", match.ID)
}
