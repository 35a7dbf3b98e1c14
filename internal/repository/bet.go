package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fielbet/platform/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

type betRepo struct{}

// NewBetRepository returns a pgx-backed BetRepository.
// Selections are stored as a jsonb document: legs are always read and
// written as a unit, and grading rewrites the whole slice anyway.
func NewBetRepository() BetRepository {
	return &betRepo{}
}

const betColumns = `
	id, user_id, selections, stake, total_odds, winnings, status, created_at, settled_at`

func (r *betRepo) Insert(ctx context.Context, tx pgx.Tx, bet *domain.PlacedBet) error {
	selections, err := json.Marshal(bet.Selections)
	if err != nil {
		return fmt.Errorf("marshal selections: %w", err)
	}
	_, err = tx.Exec(ctx, `
		INSERT INTO placed_bets (id, user_id, selections, stake, total_odds, winnings, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		bet.ID, bet.UserID, selections,
		Int64ToNumeric(bet.Stake), bet.TotalOdds,
		Int64ToNumeric(bet.Winnings), string(bet.Status),
	)
	if err != nil {
		return fmt.Errorf("insert bet: %w", err)
	}
	return nil
}

func (r *betRepo) FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.PlacedBet, error) {
	row := db.QueryRow(ctx, `SELECT `+betColumns+` FROM placed_bets WHERE id = $1`, id)
	return scanBet(row)
}

// ListOpenByMatch locks the returned rows so concurrent settlement runs for
// overlapping matches cannot grade the same bet twice.
func (r *betRepo) ListOpenByMatch(ctx context.Context, tx pgx.Tx, matchID int64) ([]domain.PlacedBet, error) {
	rows, err := tx.Query(ctx, `
		SELECT `+betColumns+`
		FROM placed_bets
		WHERE status = 'open'
		  AND selections @> $1
		ORDER BY created_at ASC
		FOR UPDATE`,
		fmt.Sprintf(`[{"match_id": %d}]`, matchID))
	if err != nil {
		return nil, fmt.Errorf("query open bets: %w", err)
	}
	defer rows.Close()
	return collectBets(rows)
}

func (r *betRepo) ListByUser(ctx context.Context, db DBTX, userID string, limit int) ([]domain.PlacedBet, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	rows, err := db.Query(ctx, `
		SELECT `+betColumns+`
		FROM placed_bets
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("query user bets: %w", err)
	}
	defer rows.Close()
	return collectBets(rows)
}

// DailyActivity returns the stake total and bet count placed since the
// cutoff, regardless of settlement status.
func (r *betRepo) DailyActivity(ctx context.Context, db DBTX, userID string, since time.Time) (int64, int64, error) {
	var stakedNum pgtype.Numeric
	var count int64
	err := db.QueryRow(ctx, `
		SELECT coalesce(sum(stake), 0), count(*)
		FROM placed_bets
		WHERE user_id = $1 AND created_at >= $2`, userID, since).Scan(&stakedNum, &count)
	if err != nil {
		return 0, 0, fmt.Errorf("query daily activity: %w", err)
	}
	staked, err := NumericToInt64(stakedNum)
	if err != nil {
		return 0, 0, fmt.Errorf("convert staked: %w", err)
	}
	return staked, count, nil
}

func (r *betRepo) UpdateSelections(ctx context.Context, tx pgx.Tx, betID uuid.UUID, selections []domain.Selection) error {
	data, err := json.Marshal(selections)
	if err != nil {
		return fmt.Errorf("marshal selections: %w", err)
	}
	_, err = tx.Exec(ctx, `
		UPDATE placed_bets SET selections = $2 WHERE id = $1`, betID, data)
	if err != nil {
		return fmt.Errorf("update selections: %w", err)
	}
	return nil
}

func (r *betRepo) Settle(ctx context.Context, tx pgx.Tx, bet *domain.PlacedBet) error {
	selections, err := json.Marshal(bet.Selections)
	if err != nil {
		return fmt.Errorf("marshal selections: %w", err)
	}
	tag, err := tx.Exec(ctx, `
		UPDATE placed_bets SET
		  selections = $2,
		  winnings = $3,
		  status = $4,
		  settled_at = now()
		WHERE id = $1 AND status = 'open'`,
		bet.ID, selections, Int64ToNumeric(bet.Winnings), string(bet.Status))
	if err != nil {
		return fmt.Errorf("settle bet: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrConflict(fmt.Sprintf("bet %s already settled", bet.ID))
	}
	return nil
}

func scanBet(row pgx.Row) (*domain.PlacedBet, error) {
	var b domain.PlacedBet
	var selections []byte
	var stakeNum, winNum pgtype.Numeric
	err := row.Scan(&b.ID, &b.UserID, &selections, &stakeNum, &b.TotalOdds, &winNum, &b.Status, &b.CreatedAt, &b.SettledAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan bet: %w", err)
	}
	if err := json.Unmarshal(selections, &b.Selections); err != nil {
		return nil, fmt.Errorf("unmarshal selections: %w", err)
	}
	var convErr error
	b.Stake, convErr = NumericToInt64(stakeNum)
	if convErr != nil {
		return nil, fmt.Errorf("convert stake: %w", convErr)
	}
	b.Winnings, convErr = NumericToInt64(winNum)
	if convErr != nil {
		return nil, fmt.Errorf("convert winnings: %w", convErr)
	}
	return &b, nil
}

func collectBets(rows pgx.Rows) ([]domain.PlacedBet, error) {
	var bets []domain.PlacedBet
	for rows.Next() {
		var b domain.PlacedBet
		var selections []byte
		var stakeNum, winNum pgtype.Numeric
		err := rows.Scan(&b.ID, &b.UserID, &selections, &stakeNum, &b.TotalOdds, &winNum, &b.Status, &b.CreatedAt, &b.SettledAt)
		if err != nil {
			return nil, fmt.Errorf("scan bet row: %w", err)
		}
		if err := json.Unmarshal(selections, &b.Selections); err != nil {
			return nil, fmt.Errorf("unmarshal selections: %w", err)
		}
		var convErr error
		b.Stake, convErr = NumericToInt64(stakeNum)
		if convErr != nil {
			return nil, convErr
		}
		b.Winnings, convErr = NumericToInt64(winNum)
		if convErr != nil {
			return nil, convErr
		}
		bets = append(bets, b)
	}
	return bets, rows.Err()
}
