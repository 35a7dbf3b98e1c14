package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fielbet/platform/internal/domain"
	"github.com/fielbet/platform/internal/ledger"
	"github.com/fielbet/platform/internal/repository"
	"github.com/fielbet/platform/internal/settlement"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// StoreService handles catalog reads, purchases and admin refunds.
type StoreService struct {
	pool          *pgxpool.Pool
	engine        *ledger.Engine
	store         repository.StoreRepository
	achievements  *settlement.Granter
	notifications repository.NotificationRepository
	logger        *slog.Logger
}

// NewStoreService creates a StoreService.
func NewStoreService(
	pool *pgxpool.Pool,
	engine *ledger.Engine,
	store repository.StoreRepository,
	achievements *settlement.Granter,
	notifications repository.NotificationRepository,
	logger *slog.Logger,
) *StoreService {
	return &StoreService{
		pool:          pool,
		engine:        engine,
		store:         store,
		achievements:  achievements,
		notifications: notifications,
		logger:        logger,
	}
}

// ListItems returns the purchasable catalog.
func (s *StoreService) ListItems(ctx context.Context) ([]domain.StoreItem, error) {
	return s.store.ListItems(ctx, s.pool)
}

// Purchase debits the item price and records ownership in one transaction.
func (s *StoreService) Purchase(ctx context.Context, userID string, itemID uuid.UUID) (*domain.InventoryEntry, error) {
	if err := domain.ValidateUserID(userID); err != nil {
		return nil, domain.ErrValidation(err.Error())
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, domain.ErrInternal("begin tx", err)
	}
	defer tx.Rollback(ctx)

	item, err := s.store.FindItem(ctx, tx, itemID)
	if err != nil {
		return nil, fmt.Errorf("load item: %w", err)
	}
	if item == nil || !item.Active {
		return nil, domain.ErrNotFound("store item", itemID.String())
	}

	entry := &domain.InventoryEntry{
		ID:          uuid.New(),
		UserID:      userID,
		ItemID:      item.ID,
		PurchasedAt: time.Now(),
	}

	if _, err := s.engine.ExecuteDebit(ctx, tx, ledger.DebitParams{
		UserID:      userID,
		Type:        domain.TxPurchase,
		Description: fmt.Sprintf("Compra: %s", item.Name),
		Amount:      item.Price,
		RefID:       entry.ID.String(),
	}); err != nil {
		return nil, err
	}

	if err := s.store.InsertInventory(ctx, tx, entry); err != nil {
		return nil, fmt.Errorf("insert inventory: %w", err)
	}

	s.achievements.GrantQuietly(ctx, tx, userID, "first_purchase")

	if err := tx.Commit(ctx); err != nil {
		return nil, domain.ErrInternal("commit tx", err)
	}

	s.logger.Info("store purchase", "user_id", userID, "item_id", itemID, "price", item.Price)
	return entry, nil
}

// Refund reverses a purchase: credits the price back and marks the
// inventory entry. A second refund of the same entry is a conflict.
func (s *StoreService) Refund(ctx context.Context, inventoryID uuid.UUID) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return domain.ErrInternal("begin tx", err)
	}
	defer tx.Rollback(ctx)

	entry, err := s.store.FindInventory(ctx, tx, inventoryID)
	if err != nil {
		return fmt.Errorf("load inventory entry: %w", err)
	}
	if entry == nil {
		return domain.ErrNotFound("inventory entry", inventoryID.String())
	}

	refunded, err := s.store.MarkRefunded(ctx, tx, inventoryID)
	if err != nil {
		return fmt.Errorf("mark refunded: %w", err)
	}
	if !refunded {
		return domain.ErrConflict("purchase already refunded")
	}

	item, err := s.store.FindItem(ctx, tx, entry.ItemID)
	if err != nil {
		return fmt.Errorf("load item: %w", err)
	}
	if item == nil {
		return domain.ErrInternal("inventory entry references missing item", nil)
	}

	if _, err := s.engine.ExecuteCredit(ctx, tx, ledger.CreditParams{
		UserID:      entry.UserID,
		Type:        domain.TxRefund,
		Description: fmt.Sprintf("Reembolso: %s", item.Name),
		Amount:      item.Price,
		RefID:       inventoryID.String(),
	}); err != nil {
		return err
	}

	notification := &domain.Notification{
		ID:          uuid.New(),
		UserID:      entry.UserID,
		Title:       "Compra reembolsada",
		Description: fmt.Sprintf("Sua compra de %q foi reembolsada: R$ %.2f.", item.Name, float64(item.Price)/100),
		Link:        "/carteira",
	}
	if err := s.notifications.Insert(ctx, tx, notification); err != nil {
		return fmt.Errorf("refund notification: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.ErrInternal("commit tx", err)
	}

	s.logger.Info("purchase refunded", "inventory_id", inventoryID, "user_id", entry.UserID)
	return nil
}
