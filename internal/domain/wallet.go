package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// TransactionType enumerates all wallet transaction types.
type TransactionType string

const (
	TxStake      TransactionType = "stake"       // bet or pool entry debit
	TxPrize      TransactionType = "prize"       // bet winnings, pool prize
	TxBonus      TransactionType = "bonus"       // level reward, refunds
	TxVoteReward TransactionType = "vote_reward" // MVP vote participation credit
	TxPurchase   TransactionType = "purchase"    // store item debit
	TxRefund     TransactionType = "refund"      // purchase or pool refund
	TxAdjustment TransactionType = "adjustment"  // reversal of a prior credit
)

// Welcome bonus credited when a wallet is first created, in centavos.
const (
	WelcomeBonus    int64 = 100000
	WelcomeBonusVIP int64 = 500000
)

// Wallet is a user's economic state. Balance is in centavos and is the
// authoritative value; the transaction history is an append-only audit log.
type Wallet struct {
	UserID    string    `json:"user_id"`
	Balance   int64     `json:"balance"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// WalletTransaction is one append-only ledger entry. Amount is signed and
// matches the applied balance delta; BalanceAfter is the post-write snapshot.
type WalletTransaction struct {
	ID           uuid.UUID       `json:"id"`
	UserID       string          `json:"user_id"`
	Type         TransactionType `json:"type"`
	Description  string          `json:"description"`
	Amount       int64           `json:"amount"`
	BalanceAfter int64           `json:"balance_after"`
	RefID        *string         `json:"ref_id,omitempty"`
	Metadata     json.RawMessage `json:"metadata"`
	CreatedAt    time.Time       `json:"created_at"`
}

// PostEntryParams is the input to the atomic ledger write.
type PostEntryParams struct {
	UserID      string
	Type        TransactionType
	Description string
	Amount      int64 // signed delta in centavos
	RefID       *string
	Metadata    json.RawMessage
}

// LedgerResult is the return value of every ledger command.
type LedgerResult struct {
	Transaction *WalletTransaction
	Wallet      *Wallet
}
