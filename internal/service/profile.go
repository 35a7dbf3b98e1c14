package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fielbet/platform/internal/domain"
	"github.com/fielbet/platform/internal/levels"
	"github.com/fielbet/platform/internal/projection"
	"github.com/fielbet/platform/internal/repository"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Profile is the combined view the profile page renders.
type Profile struct {
	User  *domain.User      `json:"user"`
	Level domain.UserLevel  `json:"level"`
	Stats *domain.UserStats `json:"stats"`
}

// ProfileService assembles the profile view: user row, resolved level and
// the betting aggregate. Reads are self-healing: a stale cached level is
// repaired and a missing stats row is rebuilt from raw bets.
type ProfileService struct {
	pool          *pgxpool.Pool
	users         repository.UserRepository
	stats         repository.StatsRepository
	levelConfig   repository.LevelConfigRepository
	notifications repository.NotificationRepository
	projections   projection.Store
	logger        *slog.Logger
}

// NewProfileService creates a ProfileService.
func NewProfileService(
	pool *pgxpool.Pool,
	users repository.UserRepository,
	stats repository.StatsRepository,
	levelConfig repository.LevelConfigRepository,
	notifications repository.NotificationRepository,
	projections projection.Store,
	logger *slog.Logger,
) *ProfileService {
	return &ProfileService{
		pool:          pool,
		users:         users,
		stats:         stats,
		levelConfig:   levelConfig,
		notifications: notifications,
		projections:   projections,
		logger:        logger,
	}
}

// GetProfile returns the profile view for a user.
func (s *ProfileService) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	user, err := s.users.FindByID(ctx, s.pool, userID)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if user == nil {
		return nil, domain.ErrNotFound("user", userID)
	}

	ladder, err := s.levelConfig.Get(ctx, s.pool)
	if err != nil {
		return nil, fmt.Errorf("load level config: %w", err)
	}

	resolved := levels.Resolve(user.XP, ladder)
	if resolved.Level != user.Level {
		// The cached level drifted, usually after a ladder edit. Repair it
		// on read; level rewards stay settlement's job.
		if err := s.repairLevel(ctx, userID, resolved.Level); err != nil {
			s.logger.Warn("level repair failed", "user_id", userID, "error", err)
		} else {
			user.Level = resolved.Level
		}
	}

	stats, err := s.stats.FindByUser(ctx, s.pool, userID)
	if err != nil {
		return nil, fmt.Errorf("load stats: %w", err)
	}
	if stats == nil {
		stats, err = s.stats.RebuildFromBets(ctx, s.pool, userID)
		if err != nil {
			return nil, fmt.Errorf("rebuild stats: %w", err)
		}
	}

	return &Profile{User: user, Level: resolved, Stats: stats}, nil
}

func (s *ProfileService) repairLevel(ctx context.Context, userID string, level int) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := s.users.SetLevel(ctx, tx, userID, level); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// Ranking returns the community leaderboard. Reads go through the Redis
// projection; on a miss the leaderboard is rebuilt from user_stats and
// cached. A cache failure only costs the query, never the response.
func (s *ProfileService) Ranking(ctx context.Context, limit int) ([]domain.RankingEntry, error) {
	if cached, err := projection.GetRanking(ctx, s.projections); err == nil {
		return cached.Entries, nil
	}

	entries, err := s.stats.TopWinners(ctx, s.pool, limit)
	if err != nil {
		return nil, fmt.Errorf("load ranking: %w", err)
	}
	if err := projection.UpdateRanking(ctx, s.projections, entries); err != nil {
		s.logger.Warn("ranking cache update failed", "error", err)
	}
	return entries, nil
}

// ListNotifications returns the user's notifications, newest first.
func (s *ProfileService) ListNotifications(ctx context.Context, userID string, limit int) ([]domain.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.notifications.ListByUser(ctx, s.pool, userID, limit)
}
