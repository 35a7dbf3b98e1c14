package repository

import (
	"context"
	"fmt"

	"github.com/fielbet/platform/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

type walletRepo struct{}

// NewWalletRepository returns a pgx-backed WalletRepository.
func NewWalletRepository() WalletRepository {
	return &walletRepo{}
}

func (r *walletRepo) FindByUser(ctx context.Context, db DBTX, userID string) (*domain.Wallet, error) {
	row := db.QueryRow(ctx, `
		SELECT user_id, balance, created_at, updated_at
		FROM wallets WHERE user_id = $1`, userID)
	return scanWallet(row)
}

func (r *walletRepo) LockForUpdate(ctx context.Context, tx pgx.Tx, userID string) (*domain.Wallet, error) {
	row := tx.QueryRow(ctx, `
		SELECT user_id, balance, created_at, updated_at
		FROM wallets WHERE user_id = $1 FOR UPDATE`, userID)
	return scanWallet(row)
}

func (r *walletRepo) Create(ctx context.Context, db DBTX, wallet *domain.Wallet) error {
	_, err := db.Exec(ctx, `
		INSERT INTO wallets (user_id, balance, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO NOTHING`,
		wallet.UserID,
		Int64ToNumeric(wallet.Balance),
		wallet.CreatedAt,
		wallet.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert wallet: %w", err)
	}
	return nil
}

// ApplyDelta uses server-side arithmetic so concurrent writers can never
// lose an update.
func (r *walletRepo) ApplyDelta(ctx context.Context, tx pgx.Tx, userID string, delta int64) (*domain.Wallet, error) {
	row := tx.QueryRow(ctx, `
		UPDATE wallets SET balance = balance + $1, updated_at = now()
		WHERE user_id = $2
		RETURNING user_id, balance, created_at, updated_at`,
		Int64ToNumeric(delta), userID)
	return scanWallet(row)
}

func scanWallet(row pgx.Row) (*domain.Wallet, error) {
	var w domain.Wallet
	var balNum pgtype.Numeric
	err := row.Scan(&w.UserID, &balNum, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan wallet: %w", err)
	}

	w.Balance, err = NumericToInt64(balNum)
	if err != nil {
		return nil, fmt.Errorf("convert balance: %w", err)
	}
	return &w, nil
}
