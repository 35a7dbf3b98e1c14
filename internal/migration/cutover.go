package migration

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// BetMapper maps legacy bet documents to their Postgres identities.
type BetMapper struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewBetMapper creates a BetMapper.
func NewBetMapper(pool *pgxpool.Pool, logger *slog.Logger) *BetMapper {
	return &BetMapper{pool: pool, logger: logger}
}

// LegacyBet mirrors the legacy bet document.
type LegacyBet struct {
	ObjectID  string    `json:"_id"`
	DiscordID string    `json:"discordId"`
	Amount    float64   `json:"amount"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// MapBet returns the Postgres UUID for a legacy bet.
func (m *BetMapper) MapBet(legacy LegacyBet) (uuid.UUID, error) {
	if legacy.ObjectID == "" {
		return uuid.Nil, fmt.Errorf("legacy bet has no object id")
	}
	betID := DeterministicUUID("bet", legacy.ObjectID)

	m.logger.Debug("mapped legacy bet",
		"legacy_id", legacy.ObjectID,
		"bet_id", betID,
		"user_id", legacy.DiscordID)

	return betID, nil
}

// BalanceComparison holds the result of comparing a legacy balance with
// the imported wallet.
type BalanceComparison struct {
	UserID        string `json:"user_id"`
	LegacyBalance int64  `json:"legacy_balance"`
	WalletBalance int64  `json:"wallet_balance"`
	Match         bool   `json:"match"`
}

// CompareBalances checks imported wallets against the legacy export.
func (m *BetMapper) CompareBalances(ctx context.Context, legacyUsers []LegacyUser) ([]BalanceComparison, error) {
	var comparisons []BalanceComparison

	for _, legacy := range legacyUsers {
		expected := ReaisToCentavos(legacy.Money)

		var balance int64
		err := m.pool.QueryRow(ctx,
			`SELECT balance FROM wallets WHERE user_id = $1`, legacy.DiscordID).Scan(&balance)
		if err != nil {
			m.logger.Warn("wallet not found for legacy user", "user_id", legacy.DiscordID)
			comparisons = append(comparisons, BalanceComparison{
				UserID:        legacy.DiscordID,
				LegacyBalance: expected,
				Match:         false,
			})
			continue
		}

		comparisons = append(comparisons, BalanceComparison{
			UserID:        legacy.DiscordID,
			LegacyBalance: expected,
			WalletBalance: balance,
			Match:         balance == expected,
		})
	}

	return comparisons, nil
}

// CutoverReadiness holds the checks gating the switch away from the
// legacy app.
type CutoverReadiness struct {
	WalletsImported   bool   `json:"wallets_imported"`
	TransactionsCount int    `json:"transactions_count"`
	OutboxHealthy     bool   `json:"outbox_healthy"`
	Ready             bool   `json:"ready"`
	Message           string `json:"message"`
}

// CheckCutoverReadiness validates the system state before cutover.
func (m *BetMapper) CheckCutoverReadiness(ctx context.Context) (*CutoverReadiness, error) {
	readiness := &CutoverReadiness{}

	err := m.pool.QueryRow(ctx, `SELECT count(*) FROM wallet_transactions`).
		Scan(&readiness.TransactionsCount)
	if err != nil {
		return nil, fmt.Errorf("count transactions: %w", err)
	}

	// Published outbox rows are deleted, so anything old still sitting in
	// the table means the poller is stuck.
	var staleCount int
	err = m.pool.QueryRow(ctx, `
		SELECT count(*) FROM event_outbox
		WHERE occurred_at < now() - interval '5 minutes'`).Scan(&staleCount)
	if err != nil {
		return nil, fmt.Errorf("check outbox: %w", err)
	}
	readiness.OutboxHealthy = staleCount == 0

	var walletCount int
	err = m.pool.QueryRow(ctx, `SELECT count(*) FROM wallets WHERE balance > 0`).Scan(&walletCount)
	if err != nil {
		return nil, fmt.Errorf("count wallets: %w", err)
	}
	readiness.WalletsImported = walletCount > 0

	readiness.Ready = readiness.OutboxHealthy && readiness.WalletsImported
	if readiness.Ready {
		readiness.Message = "system ready for cutover"
	} else {
		readiness.Message = "system not ready: check outbox health and imported wallets"
	}

	m.logger.Info("cutover readiness check",
		"ready", readiness.Ready,
		"transactions", readiness.TransactionsCount,
		"outbox_healthy", readiness.OutboxHealthy)

	return readiness, nil
}
