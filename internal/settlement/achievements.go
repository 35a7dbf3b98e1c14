package settlement

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fielbet/platform/internal/domain"
	"github.com/fielbet/platform/internal/repository"
	"github.com/google/uuid"
)

// Granter unlocks achievements idempotently. A grant that is already
// unlocked is a silent no-op; a fresh unlock also writes the notification
// and the outbox event inside the caller's transaction.
type Granter struct {
	users         repository.UserRepository
	notifications repository.NotificationRepository
	outbox        repository.OutboxRepository
	logger        *slog.Logger
}

// NewGranter creates an achievement granter.
func NewGranter(
	users repository.UserRepository,
	notifications repository.NotificationRepository,
	outbox repository.OutboxRepository,
	logger *slog.Logger,
) *Granter {
	return &Granter{users: users, notifications: notifications, outbox: outbox, logger: logger}
}

// Grant unlocks one achievement for a user. Returns true when the unlock
// actually happened, false when it was already held.
func (g *Granter) Grant(ctx context.Context, db repository.DBTX, userID, achievementID string) (bool, error) {
	achievement, ok := domain.AchievementByID(achievementID)
	if !ok {
		// Ids not in the catalog are a no-op, not an error.
		g.logger.Debug("unknown achievement id skipped", "user_id", userID, "achievement", achievementID)
		return false, nil
	}

	changed, err := g.users.UnlockAchievement(ctx, db, userID, achievementID)
	if err != nil {
		return false, fmt.Errorf("grant achievement %s: %w", achievementID, err)
	}
	if !changed {
		return false, nil
	}

	notification := &domain.Notification{
		ID:          uuid.New(),
		UserID:      userID,
		Title:       "Conquista desbloqueada!",
		Description: fmt.Sprintf("Você desbloqueou a conquista %q.", achievement.Name),
		Link:        "/perfil/conquistas",
	}
	if err := g.notifications.Insert(ctx, db, notification); err != nil {
		return false, fmt.Errorf("achievement notification: %w", err)
	}
	if err := g.outbox.Insert(ctx, db, domain.NewNotificationEvent(notification)); err != nil {
		return false, fmt.Errorf("achievement event: %w", err)
	}

	g.logger.Info("achievement unlocked", "user_id", userID, "achievement", achievementID)
	return true, nil
}

// GrantQuietly is Grant for callers that treat achievement failures as
// non-fatal: the error is logged and swallowed.
func (g *Granter) GrantQuietly(ctx context.Context, db repository.DBTX, userID, achievementID string) {
	if _, err := g.Grant(ctx, db, userID, achievementID); err != nil {
		g.logger.Error("achievement grant failed", "user_id", userID, "achievement", achievementID, "error", err)
	}
}
