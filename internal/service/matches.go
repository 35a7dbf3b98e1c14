package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fielbet/platform/internal/domain"
	"github.com/fielbet/platform/internal/repository"
	"github.com/jackc/pgx/v5/pgxpool"
)

// FixtureProvider supplies fixture state for the match mirror.
type FixtureProvider interface {
	FetchFixture(ctx context.Context, matchID int64) (*domain.Match, error)
}

// MatchService maintains the local fixture mirror.
type MatchService struct {
	pool     *pgxpool.Pool
	matches  repository.MatchRepository
	fixtures FixtureProvider
	logger   *slog.Logger
}

// NewMatchService creates a MatchService.
func NewMatchService(pool *pgxpool.Pool, matches repository.MatchRepository, fixtures FixtureProvider, logger *slog.Logger) *MatchService {
	return &MatchService{pool: pool, matches: matches, fixtures: fixtures, logger: logger}
}

// Get returns the locally mirrored match.
func (s *MatchService) Get(ctx context.Context, id int64) (*domain.Match, error) {
	match, err := s.matches.FindByID(ctx, s.pool, id)
	if err != nil {
		return nil, err
	}
	if match == nil {
		return nil, domain.ErrNotFound("match", fmt.Sprintf("%d", id))
	}
	return match, nil
}

// SyncFixture refreshes the mirror from the provider. The settlement flags
// (is_processed, is_notification_sent) are owned by this side and survive
// the upsert.
func (s *MatchService) SyncFixture(ctx context.Context, matchID int64) (*domain.Match, error) {
	match, err := s.fixtures.FetchFixture(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if err := s.matches.Upsert(ctx, s.pool, match); err != nil {
		return nil, fmt.Errorf("upsert match: %w", err)
	}

	s.logger.Info("fixture synced", "match_id", matchID, "status", match.Status)
	return match, nil
}
