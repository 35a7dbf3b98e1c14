package ledger

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/fielbet/platform/internal/domain"
	"github.com/jackc/pgx/v5"
)

// DebitParams describes a wallet debit: a stake, a pool entry or a purchase.
type DebitParams struct {
	UserID      string
	Type        domain.TransactionType
	Description string
	Amount      int64 // positive, in centavos
	RefID       string
	Metadata    json.RawMessage
}

// CreditParams describes a wallet credit: winnings, rewards, refunds.
type CreditParams struct {
	UserID      string
	Type        domain.TransactionType
	Description string
	Amount      int64 // positive, in centavos
	RefID       string
	Metadata    json.RawMessage
}

// ExecuteDebit removes funds from a wallet.
// Pattern: Lock → balance check → PostEntry.
func (e *Engine) ExecuteDebit(ctx context.Context, tx pgx.Tx, params DebitParams) (*domain.LedgerResult, error) {
	if err := domain.ValidatePositiveAmount(params.Amount); err != nil {
		return nil, domain.ErrValidation(err.Error())
	}

	wallet, err := e.LockWalletForUpdate(ctx, tx, params.UserID)
	if err != nil {
		return nil, fmt.Errorf("debit: %w", err)
	}
	if wallet.Balance < params.Amount {
		return nil, domain.ErrInsufficientBalance()
	}

	entry, updated, err := e.PostEntry(ctx, tx, domain.PostEntryParams{
		UserID:      params.UserID,
		Type:        params.Type,
		Description: params.Description,
		Amount:      -params.Amount,
		RefID:       strPtr(params.RefID),
		Metadata:    ensureJSON(params.Metadata),
	})
	if err != nil {
		return nil, fmt.Errorf("debit post: %w", err)
	}

	return &domain.LedgerResult{Transaction: entry, Wallet: updated}, nil
}

// ExecuteCredit adds funds to a wallet.
// Pattern: Lock → PostEntry.
func (e *Engine) ExecuteCredit(ctx context.Context, tx pgx.Tx, params CreditParams) (*domain.LedgerResult, error) {
	if err := domain.ValidatePositiveAmount(params.Amount); err != nil {
		return nil, domain.ErrValidation(err.Error())
	}

	if _, err := e.LockWalletForUpdate(ctx, tx, params.UserID); err != nil {
		return nil, fmt.Errorf("credit: %w", err)
	}

	entry, updated, err := e.PostEntry(ctx, tx, domain.PostEntryParams{
		UserID:      params.UserID,
		Type:        params.Type,
		Description: params.Description,
		Amount:      params.Amount,
		RefID:       strPtr(params.RefID),
		Metadata:    ensureJSON(params.Metadata),
	})
	if err != nil {
		return nil, fmt.Errorf("credit post: %w", err)
	}

	return &domain.LedgerResult{Transaction: entry, Wallet: updated}, nil
}

// ExecuteAdjustment reverses a prior credit, for example when an MVP vote is
// cancelled after its reward was paid. The delta is signed and the balance
// may legitimately go negative; the audit trail records the reversal.
func (e *Engine) ExecuteAdjustment(ctx context.Context, tx pgx.Tx, userID, description string, delta int64, refID string) (*domain.LedgerResult, error) {
	if delta == 0 {
		return nil, domain.ErrValidation("adjustment delta must be non-zero")
	}

	if _, err := e.LockWalletForUpdate(ctx, tx, userID); err != nil {
		return nil, fmt.Errorf("adjustment: %w", err)
	}

	entry, updated, err := e.PostEntry(ctx, tx, domain.PostEntryParams{
		UserID:      userID,
		Type:        domain.TxAdjustment,
		Description: description,
		Amount:      delta,
		RefID:       strPtr(refID),
		Metadata:    json.RawMessage(`{}`),
	})
	if err != nil {
		return nil, fmt.Errorf("adjustment post: %w", err)
	}

	return &domain.LedgerResult{Transaction: entry, Wallet: updated}, nil
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func ensureJSON(data json.RawMessage) json.RawMessage {
	if data == nil {
		return json.RawMessage(`{}`)
	}
	return data
}
