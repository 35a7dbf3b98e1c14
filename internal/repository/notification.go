package repository

import (
	"context"
	"fmt"

	"github.com/fielbet/platform/internal/domain"
	"github.com/google/uuid"
)

type notificationRepo struct{}

// NewNotificationRepository returns a pgx-backed NotificationRepository.
func NewNotificationRepository() NotificationRepository {
	return &notificationRepo{}
}

func (r *notificationRepo) Insert(ctx context.Context, db DBTX, n *domain.Notification) error {
	_, err := db.Exec(ctx, `
		INSERT INTO notifications (id, user_id, title, description, link, is_priority)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		n.ID, n.UserID, n.Title, n.Description, n.Link, n.IsPriority,
	)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

func (r *notificationRepo) ListByUser(ctx context.Context, db DBTX, userID string, limit int) ([]domain.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	rows, err := db.Query(ctx, `
		SELECT id, user_id, title, description, link, is_priority, read, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("query notifications: %w", err)
	}
	defer rows.Close()

	var items []domain.Notification
	for rows.Next() {
		var n domain.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Description, &n.Link, &n.IsPriority, &n.Read, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan notification row: %w", err)
		}
		items = append(items, n)
	}
	return items, rows.Err()
}

type pendingRewardRepo struct{}

// NewPendingRewardRepository returns a pgx-backed PendingRewardRepository.
func NewPendingRewardRepository() PendingRewardRepository {
	return &pendingRewardRepo{}
}

func (r *pendingRewardRepo) Insert(ctx context.Context, db DBTX, reward *domain.PendingReward) error {
	_, err := db.Exec(ctx, `
		INSERT INTO pending_rewards (id, user_id, type, role_id, reason)
		VALUES ($1, $2, $3, $4, $5)`,
		reward.ID, reward.UserID, reward.Type, reward.RoleID, reward.Reason,
	)
	if err != nil {
		return fmt.Errorf("insert pending reward: %w", err)
	}
	return nil
}

func (r *pendingRewardRepo) ListUnclaimed(ctx context.Context, db DBTX, limit int) ([]domain.PendingReward, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	rows, err := db.Query(ctx, `
		SELECT id, user_id, type, role_id, reason, created_at
		FROM pending_rewards
		ORDER BY created_at ASC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("query pending rewards: %w", err)
	}
	defer rows.Close()

	var rewards []domain.PendingReward
	for rows.Next() {
		var p domain.PendingReward
		if err := rows.Scan(&p.ID, &p.UserID, &p.Type, &p.RoleID, &p.Reason, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan pending reward row: %w", err)
		}
		rewards = append(rewards, p)
	}
	return rewards, rows.Err()
}

func (r *pendingRewardRepo) Delete(ctx context.Context, db DBTX, id uuid.UUID) error {
	_, err := db.Exec(ctx, `DELETE FROM pending_rewards WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete pending reward: %w", err)
	}
	return nil
}
