package repository

import (
	"context"
	"fmt"

	"github.com/fielbet/platform/internal/domain"
	"github.com/jackc/pgx/v5"
)

type matchRepo struct{}

// NewMatchRepository returns a pgx-backed MatchRepository.
func NewMatchRepository() MatchRepository {
	return &matchRepo{}
}

const matchColumns = `
	id, home_team, away_team, home_team_id, away_team_id, home_logo, away_logo,
	league, kickoff_at, status, home_goals, away_goals,
	is_processed, is_notification_sent, created_at, updated_at`

func (r *matchRepo) FindByID(ctx context.Context, db DBTX, id int64) (*domain.Match, error) {
	row := db.QueryRow(ctx, `SELECT `+matchColumns+` FROM matches WHERE id = $1`, id)
	return scanMatch(row)
}

func (r *matchRepo) LockForUpdate(ctx context.Context, tx pgx.Tx, id int64) (*domain.Match, error) {
	row := tx.QueryRow(ctx, `SELECT `+matchColumns+` FROM matches WHERE id = $1 FOR UPDATE`, id)
	return scanMatch(row)
}

func (r *matchRepo) Upsert(ctx context.Context, db DBTX, m *domain.Match) error {
	_, err := db.Exec(ctx, `
		INSERT INTO matches
		  (id, home_team, away_team, home_team_id, away_team_id, home_logo, away_logo,
		   league, kickoff_at, status, home_goals, away_goals)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO UPDATE SET
		  home_team = EXCLUDED.home_team,
		  away_team = EXCLUDED.away_team,
		  home_logo = EXCLUDED.home_logo,
		  away_logo = EXCLUDED.away_logo,
		  league = EXCLUDED.league,
		  kickoff_at = EXCLUDED.kickoff_at,
		  status = EXCLUDED.status,
		  home_goals = EXCLUDED.home_goals,
		  away_goals = EXCLUDED.away_goals,
		  updated_at = now()`,
		m.ID, m.HomeTeam, m.AwayTeam, m.HomeTeamID, m.AwayTeamID, m.HomeLogo, m.AwayLogo,
		m.League, m.KickoffAt, string(m.Status), m.HomeGoals, m.AwayGoals,
	)
	if err != nil {
		return fmt.Errorf("upsert match: %w", err)
	}
	return nil
}

// MarkProcessed flips is_processed under the caller's row lock and caches
// the final result. A second settlement attempt sees the flag and stops.
func (r *matchRepo) MarkProcessed(ctx context.Context, tx pgx.Tx, id int64, final domain.FinalResult) error {
	tag, err := tx.Exec(ctx, `
		UPDATE matches SET
		  is_processed = true,
		  status = $2,
		  home_goals = $3,
		  away_goals = $4,
		  updated_at = now()
		WHERE id = $1 AND is_processed = false`,
		id, string(final.Status), final.HomeGoals, final.AwayGoals)
	if err != nil {
		return fmt.Errorf("mark match processed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrConflict(fmt.Sprintf("match %d already processed", id))
	}
	return nil
}

func (r *matchRepo) ListDueForSettlement(ctx context.Context, db DBTX, graceMinutes int) ([]domain.Match, error) {
	rows, err := db.Query(ctx, `
		SELECT `+matchColumns+`
		FROM matches
		WHERE is_processed = false
		  AND status NOT IN ($1, $2)
		  AND kickoff_at < now() - ($3 || ' minutes')::interval
		ORDER BY kickoff_at ASC`,
		string(domain.MatchPostponed), string(domain.MatchCancelled), graceMinutes)
	if err != nil {
		return nil, fmt.Errorf("query due matches: %w", err)
	}
	defer rows.Close()
	return collectMatches(rows)
}

func (r *matchRepo) ListUpcomingUnnotified(ctx context.Context, db DBTX, withinMinutes int) ([]domain.Match, error) {
	rows, err := db.Query(ctx, `
		SELECT `+matchColumns+`
		FROM matches
		WHERE is_notification_sent = false
		  AND status = $1
		  AND kickoff_at BETWEEN now() AND now() + ($2 || ' minutes')::interval
		ORDER BY kickoff_at ASC`,
		string(domain.MatchNotStarted), withinMinutes)
	if err != nil {
		return nil, fmt.Errorf("query upcoming matches: %w", err)
	}
	defer rows.Close()
	return collectMatches(rows)
}

func (r *matchRepo) MarkNotificationSent(ctx context.Context, db DBTX, id int64) error {
	_, err := db.Exec(ctx, `
		UPDATE matches SET is_notification_sent = true, updated_at = now()
		WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("mark notification sent: %w", err)
	}
	return nil
}

func scanMatch(row pgx.Row) (*domain.Match, error) {
	var m domain.Match
	err := row.Scan(
		&m.ID, &m.HomeTeam, &m.AwayTeam, &m.HomeTeamID, &m.AwayTeamID, &m.HomeLogo, &m.AwayLogo,
		&m.League, &m.KickoffAt, &m.Status, &m.HomeGoals, &m.AwayGoals,
		&m.IsProcessed, &m.IsNotificationSent, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan match: %w", err)
	}
	return &m, nil
}

func collectMatches(rows pgx.Rows) ([]domain.Match, error) {
	var matches []domain.Match
	for rows.Next() {
		var m domain.Match
		err := rows.Scan(
			&m.ID, &m.HomeTeam, &m.AwayTeam, &m.HomeTeamID, &m.AwayTeamID, &m.HomeLogo, &m.AwayLogo,
			&m.League, &m.KickoffAt, &m.Status, &m.HomeGoals, &m.AwayGoals,
			&m.IsProcessed, &m.IsNotificationSent, &m.CreatedAt, &m.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan match row: %w", err)
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}
