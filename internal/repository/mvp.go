package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/fielbet/platform/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type mvpRepo struct{}

// NewMvpRepository returns a pgx-backed MvpRepository.
func NewMvpRepository() MvpRepository {
	return &mvpRepo{}
}

const mvpColumns = `
	id, match_id, home_team, away_team, lineups, votes, status, ends_at,
	winner_ids, finalized_at, created_at`

func (r *mvpRepo) Insert(ctx context.Context, db DBTX, v *domain.MvpVoting) error {
	lineups, err := json.Marshal(v.Lineups)
	if err != nil {
		return fmt.Errorf("marshal lineups: %w", err)
	}
	votes, err := json.Marshal(v.Votes)
	if err != nil {
		return fmt.Errorf("marshal votes: %w", err)
	}
	_, err = db.Exec(ctx, `
		INSERT INTO mvp_votings (id, match_id, home_team, away_team, lineups, votes, status, ends_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		v.ID, v.MatchID, v.HomeTeam, v.AwayTeam, lineups, votes, string(v.Status), v.EndsAt,
	)
	if err != nil {
		return fmt.Errorf("insert mvp voting: %w", err)
	}
	return nil
}

func (r *mvpRepo) FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.MvpVoting, error) {
	row := db.QueryRow(ctx, `SELECT `+mvpColumns+` FROM mvp_votings WHERE id = $1`, id)
	return scanMvpVoting(row)
}

func (r *mvpRepo) FindOpenByMatch(ctx context.Context, db DBTX, matchID int64) (*domain.MvpVoting, error) {
	row := db.QueryRow(ctx, `
		SELECT `+mvpColumns+`
		FROM mvp_votings WHERE match_id = $1 AND status = 'open'`, matchID)
	return scanMvpVoting(row)
}

func (r *mvpRepo) ListExpiredOpen(ctx context.Context, db DBTX) ([]domain.MvpVoting, error) {
	rows, err := db.Query(ctx, `
		SELECT `+mvpColumns+`
		FROM mvp_votings
		WHERE status = 'open' AND ends_at <= now()
		ORDER BY ends_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("query expired votings: %w", err)
	}
	defer rows.Close()

	var votings []domain.MvpVoting
	for rows.Next() {
		v, err := collectMvpVoting(rows)
		if err != nil {
			return nil, err
		}
		votings = append(votings, *v)
	}
	return votings, rows.Err()
}

// AddVote appends to the vote document only while the voting is open. The
// caller checks for a prior vote by the same user under the service lock.
func (r *mvpRepo) AddVote(ctx context.Context, tx pgx.Tx, id uuid.UUID, vote domain.MvpVote) error {
	entry, err := json.Marshal(vote)
	if err != nil {
		return fmt.Errorf("marshal vote: %w", err)
	}
	tag, err := tx.Exec(ctx, `
		UPDATE mvp_votings SET votes = votes || $2::jsonb
		WHERE id = $1 AND status = 'open'`, id, entry)
	if err != nil {
		return fmt.Errorf("add vote: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrConflict(fmt.Sprintf("voting %s is not open", id))
	}
	return nil
}

func (r *mvpRepo) Finalize(ctx context.Context, tx pgx.Tx, id uuid.UUID, winnerIDs []int64) (bool, error) {
	winners, err := json.Marshal(winnerIDs)
	if err != nil {
		return false, fmt.Errorf("marshal winner ids: %w", err)
	}
	tag, err := tx.Exec(ctx, `
		UPDATE mvp_votings SET status = 'finalized', winner_ids = $2, finalized_at = now()
		WHERE id = $1 AND status = 'open'`, id, winners)
	if err != nil {
		return false, fmt.Errorf("finalize voting: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *mvpRepo) Cancel(ctx context.Context, tx pgx.Tx, id uuid.UUID) (bool, error) {
	tag, err := tx.Exec(ctx, `
		UPDATE mvp_votings SET status = 'cancelled'
		WHERE id = $1 AND status = 'open'`, id)
	if err != nil {
		return false, fmt.Errorf("cancel voting: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func scanMvpVoting(row pgx.Row) (*domain.MvpVoting, error) {
	var v domain.MvpVoting
	var lineups, votes, winners []byte
	err := row.Scan(&v.ID, &v.MatchID, &v.HomeTeam, &v.AwayTeam, &lineups, &votes,
		&v.Status, &v.EndsAt, &winners, &v.FinalizedAt, &v.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan mvp voting: %w", err)
	}
	if err := unmarshalMvpDocs(&v, lineups, votes, winners); err != nil {
		return nil, err
	}
	return &v, nil
}

func collectMvpVoting(rows pgx.Rows) (*domain.MvpVoting, error) {
	var v domain.MvpVoting
	var lineups, votes, winners []byte
	err := rows.Scan(&v.ID, &v.MatchID, &v.HomeTeam, &v.AwayTeam, &lineups, &votes,
		&v.Status, &v.EndsAt, &winners, &v.FinalizedAt, &v.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("scan mvp voting row: %w", err)
	}
	if err := unmarshalMvpDocs(&v, lineups, votes, winners); err != nil {
		return nil, err
	}
	return &v, nil
}

func unmarshalMvpDocs(v *domain.MvpVoting, lineups, votes, winners []byte) error {
	if err := json.Unmarshal(lineups, &v.Lineups); err != nil {
		return fmt.Errorf("unmarshal lineups: %w", err)
	}
	if err := json.Unmarshal(votes, &v.Votes); err != nil {
		return fmt.Errorf("unmarshal votes: %w", err)
	}
	if winners != nil {
		if err := json.Unmarshal(winners, &v.WinnerIDs); err != nil {
			return fmt.Errorf("unmarshal winner ids: %w", err)
		}
	}
	return nil
}
