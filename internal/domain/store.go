package domain

import (
	"time"

	"github.com/google/uuid"
)

// StoreItem is a purchasable catalog entry. Price is in centavos.
type StoreItem struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       int64     `json:"price"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
}

// InventoryEntry records an owned item.
type InventoryEntry struct {
	ID          uuid.UUID  `json:"id"`
	UserID      string     `json:"user_id"`
	ItemID      uuid.UUID  `json:"item_id"`
	PurchasedAt time.Time  `json:"purchased_at"`
	RefundedAt  *time.Time `json:"refunded_at,omitempty"`
}
