package ledger

import (
	"context"
	"fmt"

	"github.com/fielbet/platform/internal/domain"
	"github.com/fielbet/platform/internal/repository"
	"github.com/jackc/pgx/v5"
)

// Engine provides the foundational wallet operations:
//  1. LockWalletForUpdate: row-level pessimistic lock
//  2. PostEntry: atomic balance update + append-only insert + outbox event
//
// Every credit and debit in the system flows through PostEntry, so the
// wallet balance and the transaction log can never drift apart.
type Engine struct {
	wallets      repository.WalletRepository
	transactions repository.TransactionRepository
	outbox       repository.OutboxRepository
}

// NewEngine creates a ledger engine with the given repositories.
func NewEngine(
	wallets repository.WalletRepository,
	transactions repository.TransactionRepository,
	outbox repository.OutboxRepository,
) *Engine {
	return &Engine{
		wallets:      wallets,
		transactions: transactions,
		outbox:       outbox,
	}
}

// LockWalletForUpdate acquires a row-level lock and returns the wallet.
// Must be called within a transaction.
func (e *Engine) LockWalletForUpdate(ctx context.Context, tx pgx.Tx, userID string) (*domain.Wallet, error) {
	wallet, err := e.wallets.LockForUpdate(ctx, tx, userID)
	if err != nil {
		return nil, fmt.Errorf("lock wallet: %w", err)
	}
	if wallet == nil {
		return nil, domain.ErrNotFound("wallet", userID)
	}
	return wallet, nil
}

// PostEntry atomically applies a balance delta and appends a ledger entry.
// This is the core write primitive; the command wrappers delegate to it.
//
// Steps:
//  1. Apply the delta with server-side arithmetic (balance = balance + $1)
//  2. Insert the transaction with the post-update balance snapshot
//  3. Insert the outbox event
//
// All 3 steps run within the caller's transaction.
func (e *Engine) PostEntry(ctx context.Context, tx pgx.Tx, params domain.PostEntryParams) (*domain.WalletTransaction, *domain.Wallet, error) {
	updated, err := e.wallets.ApplyDelta(ctx, tx, params.UserID, params.Amount)
	if err != nil {
		return nil, nil, fmt.Errorf("apply balance delta: %w", err)
	}
	if updated == nil {
		return nil, nil, domain.ErrNotFound("wallet", params.UserID)
	}

	entry, err := e.transactions.Insert(ctx, tx, params, updated.Balance)
	if err != nil {
		return nil, nil, fmt.Errorf("insert transaction: %w", err)
	}

	if err := e.outbox.Insert(ctx, tx, domain.NewTransactionPostedEvent(entry)); err != nil {
		return nil, nil, fmt.Errorf("insert outbox event: %w", err)
	}

	return entry, updated, nil
}
