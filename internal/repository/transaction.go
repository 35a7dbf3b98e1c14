package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/fielbet/platform/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

type transactionRepo struct{}

// NewTransactionRepository returns a pgx-backed TransactionRepository.
func NewTransactionRepository() TransactionRepository {
	return &transactionRepo{}
}

func (r *transactionRepo) Insert(ctx context.Context, db DBTX, params domain.PostEntryParams, balanceAfter int64) (*domain.WalletTransaction, error) {
	meta := params.Metadata
	if meta == nil {
		meta = json.RawMessage(`{}`)
	}

	row := db.QueryRow(ctx, `
		INSERT INTO wallet_transactions
		  (user_id, type, description, amount, balance_after, ref_id, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, user_id, type, description, amount, balance_after, ref_id, metadata, created_at`,
		params.UserID,
		string(params.Type),
		params.Description,
		Int64ToNumeric(params.Amount),
		Int64ToNumeric(balanceAfter),
		params.RefID,
		meta,
	)
	return scanWalletTransaction(row)
}

func (r *transactionRepo) ListByUser(ctx context.Context, db DBTX, userID string, cursor *uuid.UUID, limit int) ([]domain.WalletTransaction, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	var rows pgx.Rows
	var err error
	if cursor != nil {
		rows, err = db.Query(ctx, `
			SELECT id, user_id, type, description, amount, balance_after, ref_id, metadata, created_at
			FROM wallet_transactions
			WHERE user_id = $1
			  AND (created_at, id) < ((SELECT created_at, id FROM wallet_transactions WHERE id = $2))
			ORDER BY created_at DESC, id DESC
			LIMIT $3`, userID, *cursor, limit)
	} else {
		rows, err = db.Query(ctx, `
			SELECT id, user_id, type, description, amount, balance_after, ref_id, metadata, created_at
			FROM wallet_transactions
			WHERE user_id = $1
			ORDER BY created_at DESC, id DESC
			LIMIT $2`, userID, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	return collectWalletTransactions(rows)
}

func (r *transactionRepo) CountByUser(ctx context.Context, db DBTX, userID string) (int64, error) {
	var count int64
	err := db.QueryRow(ctx, `
		SELECT count(*) FROM wallet_transactions WHERE user_id = $1`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count transactions: %w", err)
	}
	return count, nil
}

func scanWalletTransaction(row pgx.Row) (*domain.WalletTransaction, error) {
	var tx domain.WalletTransaction
	var amountNum, balNum pgtype.Numeric
	err := row.Scan(
		&tx.ID, &tx.UserID, &tx.Type, &tx.Description,
		&amountNum, &balNum, &tx.RefID, &tx.Metadata, &tx.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan transaction: %w", err)
	}

	var convErr error
	tx.Amount, convErr = NumericToInt64(amountNum)
	if convErr != nil {
		return nil, fmt.Errorf("convert amount: %w", convErr)
	}
	tx.BalanceAfter, convErr = NumericToInt64(balNum)
	if convErr != nil {
		return nil, fmt.Errorf("convert balance_after: %w", convErr)
	}

	return &tx, nil
}

func collectWalletTransactions(rows pgx.Rows) ([]domain.WalletTransaction, error) {
	var txs []domain.WalletTransaction
	for rows.Next() {
		var tx domain.WalletTransaction
		var amountNum, balNum pgtype.Numeric
		err := rows.Scan(
			&tx.ID, &tx.UserID, &tx.Type, &tx.Description,
			&amountNum, &balNum, &tx.RefID, &tx.Metadata, &tx.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan transaction row: %w", err)
		}
		var convErr error
		tx.Amount, convErr = NumericToInt64(amountNum)
		if convErr != nil {
			return nil, convErr
		}
		tx.BalanceAfter, convErr = NumericToInt64(balNum)
		if convErr != nil {
			return nil, convErr
		}
		txs = append(txs, tx)
	}
	return txs, rows.Err()
}
