package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fielbet/platform/internal/domain"
	"github.com/fielbet/platform/internal/ledger"
	"github.com/fielbet/platform/internal/repository"
	"github.com/fielbet/platform/internal/settlement"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// WalletService handles wallet reads and first-touch wallet creation.
type WalletService struct {
	pool          *pgxpool.Pool
	engine        *ledger.Engine
	wallets       repository.WalletRepository
	transactions  repository.TransactionRepository
	achievements  *settlement.Granter
	notifications repository.NotificationRepository
	logger        *slog.Logger
}

// NewWalletService creates a WalletService.
func NewWalletService(
	pool *pgxpool.Pool,
	engine *ledger.Engine,
	wallets repository.WalletRepository,
	transactions repository.TransactionRepository,
	achievements *settlement.Granter,
	notifications repository.NotificationRepository,
	logger *slog.Logger,
) *WalletService {
	return &WalletService{
		pool:          pool,
		engine:        engine,
		wallets:       wallets,
		transactions:  transactions,
		achievements:  achievements,
		notifications: notifications,
		logger:        logger,
	}
}

// EnsureWallet returns the user's wallet, creating it with the welcome
// bonus on first touch. VIP members get the larger bonus.
func (s *WalletService) EnsureWallet(ctx context.Context, userID string, isVIP bool) (*domain.Wallet, error) {
	if err := domain.ValidateUserID(userID); err != nil {
		return nil, domain.ErrValidation(err.Error())
	}

	wallet, err := s.wallets.FindByUser(ctx, s.pool, userID)
	if err != nil {
		return nil, fmt.Errorf("load wallet: %w", err)
	}
	if wallet != nil {
		return wallet, nil
	}

	bonus := domain.WelcomeBonus
	description := "Bônus de boas-vindas!"
	if isVIP {
		bonus = domain.WelcomeBonusVIP
		description = "Bônus de boas-vindas VIP!"
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, domain.ErrInternal("begin tx", err)
	}
	defer tx.Rollback(ctx)

	// ON CONFLICT DO NOTHING makes concurrent first touches safe: the
	// loser of the race sees an existing wallet under the lock and the
	// bonus is never credited twice.
	if err := s.wallets.Create(ctx, tx, &domain.Wallet{UserID: userID}); err != nil {
		return nil, fmt.Errorf("create wallet: %w", err)
	}
	locked, err := s.engine.LockWalletForUpdate(ctx, tx, userID)
	if err != nil {
		return nil, err
	}
	if locked.Balance != 0 {
		if err := tx.Commit(ctx); err != nil {
			return nil, domain.ErrInternal("commit tx", err)
		}
		return locked, nil
	}

	result, err := s.engine.ExecuteCredit(ctx, tx, ledger.CreditParams{
		UserID:      userID,
		Type:        domain.TxBonus,
		Description: description,
		Amount:      bonus,
	})
	if err != nil {
		return nil, err
	}

	notification := &domain.Notification{
		ID:     uuid.New(),
		UserID: userID,
		Title:  "Bem-vindo ao FielBet!",
		Description: fmt.Sprintf("Você recebeu R$ %.2f de bônus para começar a apostar. Boa sorte!",
			float64(bonus)/100),
		Link: "/carteira",
	}
	if err := s.notifications.Insert(ctx, tx, notification); err != nil {
		return nil, fmt.Errorf("welcome notification: %w", err)
	}

	s.achievements.GrantQuietly(ctx, tx, userID, "beginner")
	if isVIP {
		s.achievements.GrantQuietly(ctx, tx, userID, "vip_status")
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, domain.ErrInternal("commit tx", err)
	}

	s.logger.Info("wallet created", "user_id", userID, "bonus", bonus, "vip", isVIP)
	return result.Wallet, nil
}

// GetWallet returns the wallet, or NOT_FOUND when none exists yet.
func (s *WalletService) GetWallet(ctx context.Context, userID string) (*domain.Wallet, error) {
	wallet, err := s.wallets.FindByUser(ctx, s.pool, userID)
	if err != nil {
		return nil, err
	}
	if wallet == nil {
		return nil, domain.ErrNotFound("wallet", userID)
	}
	return wallet, nil
}

// HistoryPage is one page of the transaction audit log.
type HistoryPage struct {
	Transactions []domain.WalletTransaction `json:"transactions"`
	Total        int64                      `json:"total"`
}

// History returns the transaction log newest-first with cursor pagination.
func (s *WalletService) History(ctx context.Context, userID string, cursor *uuid.UUID, limit int) (*HistoryPage, error) {
	if limit <= 0 || limit > 100 {
		limit = 25
	}

	transactions, err := s.transactions.ListByUser(ctx, s.pool, userID, cursor, limit)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	total, err := s.transactions.CountByUser(ctx, s.pool, userID)
	if err != nil {
		return nil, fmt.Errorf("count transactions: %w", err)
	}
	return &HistoryPage{Transactions: transactions, Total: total}, nil
}
