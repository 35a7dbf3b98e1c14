package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/fielbet/platform/internal/domain"
	"github.com/jackc/pgx/v5"
)

type levelConfigRepo struct{}

// NewLevelConfigRepository returns a pgx-backed LevelConfigRepository.
// The ladder lives in a single-row table as one jsonb document; it is tiny,
// read-mostly, and always validated and replaced as a whole.
func NewLevelConfigRepository() LevelConfigRepository {
	return &levelConfigRepo{}
}

func (r *levelConfigRepo) Get(ctx context.Context, db DBTX) ([]domain.LevelThreshold, error) {
	var data []byte
	err := db.QueryRow(ctx, `SELECT levels FROM level_config WHERE id = 1`).Scan(&data)
	if err != nil {
		if err == pgx.ErrNoRows {
			defaults := domain.DefaultLevels()
			if err := r.Replace(ctx, db, defaults); err != nil {
				return nil, fmt.Errorf("install default levels: %w", err)
			}
			return defaults, nil
		}
		return nil, fmt.Errorf("query level config: %w", err)
	}

	var levels []domain.LevelThreshold
	if err := json.Unmarshal(data, &levels); err != nil {
		return nil, fmt.Errorf("unmarshal level config: %w", err)
	}
	return levels, nil
}

func (r *levelConfigRepo) Replace(ctx context.Context, db DBTX, levels []domain.LevelThreshold) error {
	data, err := json.Marshal(levels)
	if err != nil {
		return fmt.Errorf("marshal level config: %w", err)
	}
	_, err = db.Exec(ctx, `
		INSERT INTO level_config (id, levels, updated_at)
		VALUES (1, $1, now())
		ON CONFLICT (id) DO UPDATE SET levels = EXCLUDED.levels, updated_at = now()`,
		data)
	if err != nil {
		return fmt.Errorf("replace level config: %w", err)
	}
	return nil
}
