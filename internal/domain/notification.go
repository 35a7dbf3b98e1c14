package domain

import (
	"time"

	"github.com/google/uuid"
)

// Notification is an outbound user notification row. Delivery to Discord is
// handled by the outbox consumer; persistence here is what settlement writes
// inside its transaction.
type Notification struct {
	ID          uuid.UUID `json:"id"`
	UserID      string    `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Link        string    `json:"link"`
	IsPriority  bool      `json:"is_priority"`
	Read        bool      `json:"read"`
	CreatedAt   time.Time `json:"created_at"`
}

// PendingReward queues a Discord role grant for the bot to apply. Money
// rewards are credited directly; role rewards go through this table because
// only the bot can mutate guild roles.
type PendingReward struct {
	ID        uuid.UUID `json:"id"`
	UserID    string    `json:"user_id"`
	Type      string    `json:"type"`
	RoleID    string    `json:"role_id"`
	Reason    string    `json:"reason"`
	CreatedAt time.Time `json:"created_at"`
}
