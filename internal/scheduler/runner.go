package scheduler

import (
	"context"
	"log/slog"
	"time"
)

// Runner drives the batch passes on fixed intervals until the context is
// cancelled. Every pass also runs once at startup so a restarted scheduler
// catches up immediately.
type Runner struct {
	processor *Processor
	logger    *slog.Logger

	SettlementInterval time.Duration
	MvpInterval        time.Duration
	NoticeInterval     time.Duration
}

// NewRunner creates a runner with the given intervals.
func NewRunner(processor *Processor, logger *slog.Logger, settlement, mvp, notice time.Duration) *Runner {
	return &Runner{
		processor:          processor,
		logger:             logger,
		SettlementInterval: settlement,
		MvpInterval:        mvp,
		NoticeInterval:     notice,
	}
}

// Run blocks until ctx is cancelled.
func (r *Runner) Run(ctx context.Context) {
	go r.loop(ctx, "settlement", r.SettlementInterval, func(ctx context.Context) error {
		_, err := r.processor.ProcessFinishedMatches(ctx)
		return err
	})
	go r.loop(ctx, "mvp", r.MvpInterval, func(ctx context.Context) error {
		_, err := r.processor.ProcessExpiredVotings(ctx)
		return err
	})
	go r.loop(ctx, "kickoff-notice", r.NoticeInterval, func(ctx context.Context) error {
		_, err := r.processor.ProcessKickoffNotices(ctx)
		return err
	})
	<-ctx.Done()
}

func (r *Runner) loop(ctx context.Context, name string, interval time.Duration, pass func(context.Context) error) {
	if err := pass(ctx); err != nil {
		r.logger.Error("scheduler pass failed", "pass", name, "error", err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := pass(ctx); err != nil {
				r.logger.Error("scheduler pass failed", "pass", name, "error", err)
			}
		}
	}
}
