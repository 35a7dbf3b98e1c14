package repository

import (
	"context"
	"fmt"

	"github.com/fielbet/platform/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

type storeRepo struct{}

// NewStoreRepository returns a pgx-backed StoreRepository.
func NewStoreRepository() StoreRepository {
	return &storeRepo{}
}

func (r *storeRepo) FindItem(ctx context.Context, db DBTX, id uuid.UUID) (*domain.StoreItem, error) {
	row := db.QueryRow(ctx, `
		SELECT id, name, description, price, active, created_at
		FROM store_items WHERE id = $1`, id)
	return scanStoreItem(row)
}

func (r *storeRepo) ListItems(ctx context.Context, db DBTX) ([]domain.StoreItem, error) {
	rows, err := db.Query(ctx, `
		SELECT id, name, description, price, active, created_at
		FROM store_items
		WHERE active = true
		ORDER BY price ASC`)
	if err != nil {
		return nil, fmt.Errorf("query store items: %w", err)
	}
	defer rows.Close()

	var items []domain.StoreItem
	for rows.Next() {
		var item domain.StoreItem
		var priceNum pgtype.Numeric
		if err := rows.Scan(&item.ID, &item.Name, &item.Description, &priceNum, &item.Active, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan store item row: %w", err)
		}
		item.Price, err = NumericToInt64(priceNum)
		if err != nil {
			return nil, fmt.Errorf("convert price: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *storeRepo) InsertInventory(ctx context.Context, tx pgx.Tx, entry *domain.InventoryEntry) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO user_inventory (id, user_id, item_id, purchased_at)
		VALUES ($1, $2, $3, $4)`,
		entry.ID, entry.UserID, entry.ItemID, entry.PurchasedAt,
	)
	if err != nil {
		return fmt.Errorf("insert inventory entry: %w", err)
	}
	return nil
}

func (r *storeRepo) FindInventory(ctx context.Context, db DBTX, id uuid.UUID) (*domain.InventoryEntry, error) {
	row := db.QueryRow(ctx, `
		SELECT id, user_id, item_id, purchased_at, refunded_at
		FROM user_inventory WHERE id = $1`, id)

	var e domain.InventoryEntry
	err := row.Scan(&e.ID, &e.UserID, &e.ItemID, &e.PurchasedAt, &e.RefundedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan inventory entry: %w", err)
	}
	return &e, nil
}

// MarkRefunded is conditional on not being refunded yet, making the refund
// exactly-once.
func (r *storeRepo) MarkRefunded(ctx context.Context, tx pgx.Tx, id uuid.UUID) (bool, error) {
	tag, err := tx.Exec(ctx, `
		UPDATE user_inventory SET refunded_at = now()
		WHERE id = $1 AND refunded_at IS NULL`, id)
	if err != nil {
		return false, fmt.Errorf("mark refunded: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func scanStoreItem(row pgx.Row) (*domain.StoreItem, error) {
	var item domain.StoreItem
	var priceNum pgtype.Numeric
	err := row.Scan(&item.ID, &item.Name, &item.Description, &priceNum, &item.Active, &item.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan store item: %w", err)
	}
	item.Price, err = NumericToInt64(priceNum)
	if err != nil {
		return nil, fmt.Errorf("convert price: %w", err)
	}
	return &item, nil
}
