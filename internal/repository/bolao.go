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

type bolaoRepo struct{}

// NewBolaoRepository returns a pgx-backed BolaoRepository.
func NewBolaoRepository() BolaoRepository {
	return &bolaoRepo{}
}

const bolaoColumns = `
	id, match_id, home_team, away_team, entry_fee, prize_pool, status,
	participants, final_score, winners, created_at`

func (r *bolaoRepo) Insert(ctx context.Context, db DBTX, b *domain.Bolao) error {
	participants, err := json.Marshal(b.Participants)
	if err != nil {
		return fmt.Errorf("marshal participants: %w", err)
	}
	_, err = db.Exec(ctx, `
		INSERT INTO boloes (id, match_id, home_team, away_team, entry_fee, prize_pool, status, participants)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		b.ID, b.MatchID, b.HomeTeam, b.AwayTeam,
		Int64ToNumeric(b.EntryFee), Int64ToNumeric(b.PrizePool),
		string(b.Status), participants,
	)
	if err != nil {
		return fmt.Errorf("insert bolao: %w", err)
	}
	return nil
}

func (r *bolaoRepo) FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.Bolao, error) {
	row := db.QueryRow(ctx, `SELECT `+bolaoColumns+` FROM boloes WHERE id = $1`, id)
	return scanBolao(row)
}

func (r *bolaoRepo) FindOpenByMatch(ctx context.Context, tx pgx.Tx, matchID int64) (*domain.Bolao, error) {
	row := tx.QueryRow(ctx, `
		SELECT `+bolaoColumns+`
		FROM boloes WHERE match_id = $1 AND status = 'open'
		FOR UPDATE`, matchID)
	return scanBolao(row)
}

func (r *bolaoRepo) AddParticipant(ctx context.Context, tx pgx.Tx, id uuid.UUID, p domain.BolaoParticipant, entryFee int64) error {
	entry, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal participant: %w", err)
	}
	tag, err := tx.Exec(ctx, `
		UPDATE boloes SET
		  participants = participants || $2::jsonb,
		  prize_pool = prize_pool + $3
		WHERE id = $1 AND status = 'open'`,
		id, entry, Int64ToNumeric(entryFee))
	if err != nil {
		return fmt.Errorf("add participant: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrConflict(fmt.Sprintf("bolao %s is not open", id))
	}
	return nil
}

func (r *bolaoRepo) SettlePaid(ctx context.Context, tx pgx.Tx, id uuid.UUID, final domain.Score, winners []domain.BolaoWinner) (bool, error) {
	finalJSON, err := json.Marshal(final)
	if err != nil {
		return false, fmt.Errorf("marshal final score: %w", err)
	}
	winnersJSON, err := json.Marshal(winners)
	if err != nil {
		return false, fmt.Errorf("marshal winners: %w", err)
	}
	tag, err := tx.Exec(ctx, `
		UPDATE boloes SET status = 'paid', final_score = $2, winners = $3
		WHERE id = $1 AND status = 'open'`,
		id, finalJSON, winnersJSON)
	if err != nil {
		return false, fmt.Errorf("settle bolao: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *bolaoRepo) Cancel(ctx context.Context, tx pgx.Tx, id uuid.UUID) (bool, error) {
	tag, err := tx.Exec(ctx, `
		UPDATE boloes SET status = 'cancelled'
		WHERE id = $1 AND status = 'open'`, id)
	if err != nil {
		return false, fmt.Errorf("cancel bolao: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func scanBolao(row pgx.Row) (*domain.Bolao, error) {
	var b domain.Bolao
	var feeNum, poolNum pgtype.Numeric
	var participants, finalScore, winners []byte
	err := row.Scan(&b.ID, &b.MatchID, &b.HomeTeam, &b.AwayTeam, &feeNum, &poolNum,
		&b.Status, &participants, &finalScore, &winners, &b.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan bolao: %w", err)
	}

	var convErr error
	b.EntryFee, convErr = NumericToInt64(feeNum)
	if convErr != nil {
		return nil, fmt.Errorf("convert entry_fee: %w", convErr)
	}
	b.PrizePool, convErr = NumericToInt64(poolNum)
	if convErr != nil {
		return nil, fmt.Errorf("convert prize_pool: %w", convErr)
	}

	if err := json.Unmarshal(participants, &b.Participants); err != nil {
		return nil, fmt.Errorf("unmarshal participants: %w", err)
	}
	if finalScore != nil {
		b.FinalScore = &domain.Score{}
		if err := json.Unmarshal(finalScore, b.FinalScore); err != nil {
			return nil, fmt.Errorf("unmarshal final score: %w", err)
		}
	}
	if winners != nil {
		if err := json.Unmarshal(winners, &b.Winners); err != nil {
			return nil, fmt.Errorf("unmarshal winners: %w", err)
		}
	}
	return &b, nil
}
