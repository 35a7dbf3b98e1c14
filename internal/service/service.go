// Package service implements the user-initiated flows: placing bets,
// joining bolões, MVP votes, store purchases and wallet reads. Services
// own transaction boundaries; repositories never begin or commit.
package service

import (
	"context"
	"fmt"

	"github.com/fielbet/platform/internal/domain"
	"github.com/fielbet/platform/internal/levels"
	"github.com/fielbet/platform/internal/repository"
)

// requireFeature enforces the level gate for a feature. Features are
// unlocked by the level threshold that names them; a feature no threshold
// names is open to everyone.
func requireFeature(
	ctx context.Context,
	db repository.DBTX,
	users repository.UserRepository,
	levelConfig repository.LevelConfigRepository,
	userID, feature string,
) error {
	ladder, err := levelConfig.Get(ctx, db)
	if err != nil {
		return fmt.Errorf("load level config: %w", err)
	}

	var required *domain.LevelThreshold
	for i := range ladder {
		if ladder[i].UnlocksFeature == feature {
			required = &ladder[i]
			break
		}
	}
	if required == nil {
		return nil
	}

	user, err := users.FindByID(ctx, db, userID)
	if err != nil {
		return fmt.Errorf("load user: %w", err)
	}
	if user == nil {
		return domain.ErrNotFound("user", userID)
	}

	resolved := levels.Resolve(user.XP, ladder)
	if resolved.Level < required.Level {
		return domain.ErrForbidden(fmt.Sprintf(
			"feature %q unlocks at level %d (%s)", feature, required.Level, required.Name))
	}
	return nil
}
