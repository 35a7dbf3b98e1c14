package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/fielbet/platform/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

type statsRepo struct{}

// NewStatsRepository returns a pgx-backed StatsRepository.
func NewStatsRepository() StatsRepository {
	return &statsRepo{}
}

func (r *statsRepo) FindByUser(ctx context.Context, db DBTX, userID string) (*domain.UserStats, error) {
	row := db.QueryRow(ctx, `
		SELECT user_id, total_bets, total_wagered, bets_won, bets_lost,
		       total_winnings, total_losses, updated_at
		FROM user_stats WHERE user_id = $1`, userID)
	return scanStats(row)
}

// ApplyUpdate increments counters with server-side arithmetic and dynamic
// SET clauses, creating the row on first touch.
func (r *statsRepo) ApplyUpdate(ctx context.Context, db DBTX, userID string, update domain.StatsUpdate) error {
	_, err := db.Exec(ctx, `
		INSERT INTO user_stats (user_id) VALUES ($1)
		ON CONFLICT (user_id) DO NOTHING`, userID)
	if err != nil {
		return fmt.Errorf("ensure stats row: %w", err)
	}

	setClauses := []string{"updated_at = now()"}
	args := []interface{}{}
	argIdx := 1

	addInt := func(column string, delta int64) {
		if delta == 0 {
			return
		}
		setClauses = append(setClauses, fmt.Sprintf("%s = %s + $%d", column, column, argIdx))
		args = append(args, delta)
		argIdx++
	}
	addMoney := func(column string, delta int64) {
		if delta == 0 {
			return
		}
		setClauses = append(setClauses, fmt.Sprintf("%s = %s + $%d", column, column, argIdx))
		args = append(args, Int64ToNumeric(delta))
		argIdx++
	}

	addInt("total_bets", update.TotalBets)
	addMoney("total_wagered", update.TotalWagered)
	addInt("bets_won", update.BetsWon)
	addInt("bets_lost", update.BetsLost)
	addMoney("total_winnings", update.TotalWinnings)
	addMoney("total_losses", update.TotalLosses)

	args = append(args, userID)
	query := fmt.Sprintf(`UPDATE user_stats SET %s WHERE user_id = $%d`,
		strings.Join(setClauses, ", "), argIdx)

	if _, err := db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("apply stats update: %w", err)
	}
	return nil
}

// RebuildFromBets recomputes the aggregate from the raw bet history and
// overwrites the cached row. Used when the row is missing or suspect.
func (r *statsRepo) RebuildFromBets(ctx context.Context, db DBTX, userID string) (*domain.UserStats, error) {
	row := db.QueryRow(ctx, `
		INSERT INTO user_stats
		  (user_id, total_bets, total_wagered, bets_won, bets_lost, total_winnings, total_losses, updated_at)
		SELECT
		  $1,
		  count(*),
		  coalesce(sum(stake), 0),
		  count(*) FILTER (WHERE status = 'won'),
		  count(*) FILTER (WHERE status = 'lost'),
		  coalesce(sum(winnings) FILTER (WHERE status = 'won'), 0),
		  coalesce(sum(stake) FILTER (WHERE status = 'lost'), 0),
		  now()
		FROM placed_bets WHERE user_id = $1
		ON CONFLICT (user_id) DO UPDATE SET
		  total_bets = EXCLUDED.total_bets,
		  total_wagered = EXCLUDED.total_wagered,
		  bets_won = EXCLUDED.bets_won,
		  bets_lost = EXCLUDED.bets_lost,
		  total_winnings = EXCLUDED.total_winnings,
		  total_losses = EXCLUDED.total_losses,
		  updated_at = now()
		RETURNING user_id, total_bets, total_wagered, bets_won, bets_lost,
		          total_winnings, total_losses, updated_at`, userID)
	return scanStats(row)
}

func (r *statsRepo) TopWinners(ctx context.Context, db DBTX, limit int) ([]domain.RankingEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 25
	}
	rows, err := db.Query(ctx, `
		SELECT s.user_id, u.username, u.level, s.bets_won, s.total_winnings
		FROM user_stats s
		JOIN users u ON u.user_id = s.user_id
		WHERE s.bets_won > 0
		ORDER BY s.total_winnings DESC, s.bets_won DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("query top winners: %w", err)
	}
	defer rows.Close()

	var entries []domain.RankingEntry
	for rows.Next() {
		var e domain.RankingEntry
		var winningsNum pgtype.Numeric
		if err := rows.Scan(&e.UserID, &e.Username, &e.Level, &e.BetsWon, &winningsNum); err != nil {
			return nil, fmt.Errorf("scan ranking row: %w", err)
		}
		e.TotalWinnings, err = NumericToInt64(winningsNum)
		if err != nil {
			return nil, fmt.Errorf("convert total_winnings: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func scanStats(row pgx.Row) (*domain.UserStats, error) {
	var s domain.UserStats
	var wageredNum, winningsNum, lossesNum pgtype.Numeric
	err := row.Scan(&s.UserID, &s.TotalBets, &wageredNum, &s.BetsWon, &s.BetsLost,
		&winningsNum, &lossesNum, &s.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan stats: %w", err)
	}

	var convErr error
	s.TotalWagered, convErr = NumericToInt64(wageredNum)
	if convErr != nil {
		return nil, fmt.Errorf("convert total_wagered: %w", convErr)
	}
	s.TotalWinnings, convErr = NumericToInt64(winningsNum)
	if convErr != nil {
		return nil, fmt.Errorf("convert total_winnings: %w", convErr)
	}
	s.TotalLosses, convErr = NumericToInt64(lossesNum)
	if convErr != nil {
		return nil, fmt.Errorf("convert total_losses: %w", convErr)
	}
	return &s, nil
}
