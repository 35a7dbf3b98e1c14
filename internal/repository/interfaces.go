package repository

import (
	"context"
	"time"

	"github.com/fielbet/platform/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX abstracts pgx.Tx and pgxpool.Pool so repositories work with both.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// WalletRepository provides access to wallets.
type WalletRepository interface {
	// FindByUser returns a wallet, or nil when none exists.
	FindByUser(ctx context.Context, db DBTX, userID string) (*domain.Wallet, error)

	// LockForUpdate acquires a row-level lock (SELECT FOR UPDATE).
	LockForUpdate(ctx context.Context, tx pgx.Tx, userID string) (*domain.Wallet, error)

	// Create inserts a new wallet.
	Create(ctx context.Context, db DBTX, wallet *domain.Wallet) error

	// ApplyDelta atomically adjusts the balance with server-side arithmetic
	// and returns the updated row.
	ApplyDelta(ctx context.Context, tx pgx.Tx, userID string, delta int64) (*domain.Wallet, error)
}

// TransactionRepository provides access to wallet_transactions.
type TransactionRepository interface {
	// Insert appends one ledger entry with its balance snapshot.
	Insert(ctx context.Context, db DBTX, params domain.PostEntryParams, balanceAfter int64) (*domain.WalletTransaction, error)

	// ListByUser returns entries newest-first with cursor pagination.
	ListByUser(ctx context.Context, db DBTX, userID string, cursor *uuid.UUID, limit int) ([]domain.WalletTransaction, error)

	// CountByUser returns the audit log length for a user.
	CountByUser(ctx context.Context, db DBTX, userID string) (int64, error)
}

// MatchRepository provides access to matches.
type MatchRepository interface {
	FindByID(ctx context.Context, db DBTX, id int64) (*domain.Match, error)

	// LockForUpdate acquires the per-match settlement lock.
	LockForUpdate(ctx context.Context, tx pgx.Tx, id int64) (*domain.Match, error)

	Upsert(ctx context.Context, db DBTX, match *domain.Match) error

	// MarkProcessed sets is_processed and refreshes the cached result.
	// The write is the linearization point of settlement.
	MarkProcessed(ctx context.Context, tx pgx.Tx, id int64, final domain.FinalResult) error

	// ListDueForSettlement returns unprocessed matches whose kickoff is at
	// least graceMinutes in the past. Settlement re-fetches the live status,
	// so candidates that turn out unfinished are simply retried later.
	ListDueForSettlement(ctx context.Context, db DBTX, graceMinutes int) ([]domain.Match, error)

	// ListUpcomingUnnotified returns matches near kickoff that still need a
	// start announcement.
	ListUpcomingUnnotified(ctx context.Context, db DBTX, withinMinutes int) ([]domain.Match, error)

	MarkNotificationSent(ctx context.Context, db DBTX, id int64) error
}

// BetRepository provides access to placed_bets.
type BetRepository interface {
	Insert(ctx context.Context, tx pgx.Tx, bet *domain.PlacedBet) error

	FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.PlacedBet, error)

	// ListOpenByMatch returns open bets with a leg on the given match.
	ListOpenByMatch(ctx context.Context, tx pgx.Tx, matchID int64) ([]domain.PlacedBet, error)

	ListByUser(ctx context.Context, db DBTX, userID string, limit int) ([]domain.PlacedBet, error)

	// DailyActivity returns the stake total and bet count since the cutoff.
	DailyActivity(ctx context.Context, db DBTX, userID string, since time.Time) (staked int64, count int64, err error)

	// UpdateSelections persists regraded legs on a still-open bet.
	UpdateSelections(ctx context.Context, tx pgx.Tx, betID uuid.UUID, selections []domain.Selection) error

	// Settle persists the final status, winnings and settlement timestamp.
	Settle(ctx context.Context, tx pgx.Tx, bet *domain.PlacedBet) error
}

// UserRepository provides access to users.
type UserRepository interface {
	FindByID(ctx context.Context, db DBTX, userID string) (*domain.User, error)

	LockForUpdate(ctx context.Context, tx pgx.Tx, userID string) (*domain.User, error)

	// AddXP increments xp and returns the updated row.
	AddXP(ctx context.Context, tx pgx.Tx, userID string, gain int64) (*domain.User, error)

	SetLevel(ctx context.Context, tx pgx.Tx, userID string, level int) error

	// UnlockAchievement appends the id to the unlocked set if absent.
	// Returns true when the set actually changed.
	UnlockAchievement(ctx context.Context, db DBTX, userID, achievementID string) (bool, error)
}

// StatsRepository provides access to user_stats.
type StatsRepository interface {
	// FindByUser returns the aggregate row, or nil when missing.
	FindByUser(ctx context.Context, db DBTX, userID string) (*domain.UserStats, error)

	// ApplyUpdate increments counters, creating the row if needed.
	ApplyUpdate(ctx context.Context, db DBTX, userID string, update domain.StatsUpdate) error

	// RebuildFromBets recomputes the aggregate from raw bets. Lazy-migration
	// path only; the hot path is always ApplyUpdate.
	RebuildFromBets(ctx context.Context, db DBTX, userID string) (*domain.UserStats, error)

	// TopWinners returns the leaderboard ordered by total winnings.
	TopWinners(ctx context.Context, db DBTX, limit int) ([]domain.RankingEntry, error)
}

// BolaoRepository provides access to boloes.
type BolaoRepository interface {
	Insert(ctx context.Context, db DBTX, bolao *domain.Bolao) error

	FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.Bolao, error)

	// FindOpenByMatch returns the open pool for a match, or nil.
	FindOpenByMatch(ctx context.Context, tx pgx.Tx, matchID int64) (*domain.Bolao, error)

	// AddParticipant appends an entrant and grows the prize pool.
	AddParticipant(ctx context.Context, tx pgx.Tx, id uuid.UUID, p domain.BolaoParticipant, entryFee int64) error

	// SettlePaid transitions open → paid with the final score and winners.
	// The conditional status match makes the payout exactly-once.
	SettlePaid(ctx context.Context, tx pgx.Tx, id uuid.UUID, final domain.Score, winners []domain.BolaoWinner) (bool, error)

	// Cancel transitions open → cancelled.
	Cancel(ctx context.Context, tx pgx.Tx, id uuid.UUID) (bool, error)
}

// MvpRepository provides access to mvp_votings.
type MvpRepository interface {
	Insert(ctx context.Context, db DBTX, voting *domain.MvpVoting) error

	FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.MvpVoting, error)

	FindOpenByMatch(ctx context.Context, db DBTX, matchID int64) (*domain.MvpVoting, error)

	// ListExpiredOpen returns open votings whose deadline has passed.
	ListExpiredOpen(ctx context.Context, db DBTX) ([]domain.MvpVoting, error)

	AddVote(ctx context.Context, tx pgx.Tx, id uuid.UUID, vote domain.MvpVote) error

	// Finalize transitions open → finalized with the winner set. The
	// status-matched conditional update keeps concurrent finalizers safe:
	// only one caller observes a true return.
	Finalize(ctx context.Context, tx pgx.Tx, id uuid.UUID, winnerIDs []int64) (bool, error)

	// Cancel transitions open → cancelled.
	Cancel(ctx context.Context, tx pgx.Tx, id uuid.UUID) (bool, error)
}

// LevelConfigRepository provides access to the level ladder configuration.
type LevelConfigRepository interface {
	// Get returns the configured ladder, installing the defaults when no
	// row exists yet.
	Get(ctx context.Context, db DBTX) ([]domain.LevelThreshold, error)

	// Replace swaps the whole ladder. Callers validate first.
	Replace(ctx context.Context, db DBTX, levels []domain.LevelThreshold) error
}

// NotificationRepository provides access to notifications.
type NotificationRepository interface {
	Insert(ctx context.Context, db DBTX, n *domain.Notification) error

	ListByUser(ctx context.Context, db DBTX, userID string, limit int) ([]domain.Notification, error)
}

// PendingRewardRepository provides access to pending_rewards.
type PendingRewardRepository interface {
	Insert(ctx context.Context, db DBTX, reward *domain.PendingReward) error

	// ListUnclaimed returns queued role grants for the bot to consume.
	ListUnclaimed(ctx context.Context, db DBTX, limit int) ([]domain.PendingReward, error)

	Delete(ctx context.Context, db DBTX, id uuid.UUID) error
}

// StoreRepository provides access to store_items and user_inventory.
type StoreRepository interface {
	FindItem(ctx context.Context, db DBTX, id uuid.UUID) (*domain.StoreItem, error)

	ListItems(ctx context.Context, db DBTX) ([]domain.StoreItem, error)

	InsertInventory(ctx context.Context, tx pgx.Tx, entry *domain.InventoryEntry) error

	FindInventory(ctx context.Context, db DBTX, id uuid.UUID) (*domain.InventoryEntry, error)

	MarkRefunded(ctx context.Context, tx pgx.Tx, id uuid.UUID) (bool, error)
}

// OutboxRepository provides access to the event_outbox table.
type OutboxRepository interface {
	// Insert writes an outbox event within the caller's transaction.
	Insert(ctx context.Context, db DBTX, draft domain.OutboxDraft) error

	// FetchUnpublished returns unpublished events for the outbox poller.
	FetchUnpublished(ctx context.Context, db DBTX, limit int) ([]domain.OutboxDraft, []int64, error)

	// MarkPublished removes delivered events.
	MarkPublished(ctx context.Context, db DBTX, ids []int64) error
}
