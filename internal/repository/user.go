package repository

import (
	"context"
	"fmt"

	"github.com/fielbet/platform/internal/domain"
	"github.com/jackc/pgx/v5"
)

type userRepo struct{}

// NewUserRepository returns a pgx-backed UserRepository.
func NewUserRepository() UserRepository {
	return &userRepo{}
}

const userColumns = `
	user_id, username, xp, level, is_vip, unlocked_achievements, created_at, updated_at`

func (r *userRepo) FindByID(ctx context.Context, db DBTX, userID string) (*domain.User, error) {
	row := db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE user_id = $1`, userID)
	return scanUser(row)
}

func (r *userRepo) LockForUpdate(ctx context.Context, tx pgx.Tx, userID string) (*domain.User, error) {
	row := tx.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE user_id = $1 FOR UPDATE`, userID)
	return scanUser(row)
}

func (r *userRepo) AddXP(ctx context.Context, tx pgx.Tx, userID string, gain int64) (*domain.User, error) {
	row := tx.QueryRow(ctx, `
		UPDATE users SET xp = xp + $2, updated_at = now()
		WHERE user_id = $1
		RETURNING `+userColumns, userID, gain)
	return scanUser(row)
}

func (r *userRepo) SetLevel(ctx context.Context, tx pgx.Tx, userID string, level int) error {
	_, err := tx.Exec(ctx, `
		UPDATE users SET level = $2, updated_at = now()
		WHERE user_id = $1`, userID, level)
	if err != nil {
		return fmt.Errorf("set level: %w", err)
	}
	return nil
}

// UnlockAchievement appends atomically and only when absent, so the grant
// is idempotent even without a prior read.
func (r *userRepo) UnlockAchievement(ctx context.Context, db DBTX, userID, achievementID string) (bool, error) {
	tag, err := db.Exec(ctx, `
		UPDATE users SET
		  unlocked_achievements = array_append(unlocked_achievements, $2),
		  updated_at = now()
		WHERE user_id = $1 AND NOT ($2 = ANY(unlocked_achievements))`,
		userID, achievementID)
	if err != nil {
		return false, fmt.Errorf("unlock achievement: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(&u.UserID, &u.Username, &u.XP, &u.Level, &u.IsVIP, &u.UnlockedAchievements, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &u, nil
}
