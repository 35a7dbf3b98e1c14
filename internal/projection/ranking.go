package projection

import (
	"context"
	"time"

	"github.com/fielbet/platform/internal/domain"
)

// Ranking is the cached community leaderboard.
type Ranking struct {
	Entries   []domain.RankingEntry `json:"entries"`
	UpdatedAt string                `json:"updated_at"`
}

const (
	rankingKey = "projection:ranking"
	rankingTTL = 5 * time.Minute
)

// UpdateRanking caches the leaderboard.
func UpdateRanking(ctx context.Context, store Store, entries []domain.RankingEntry) error {
	r := Ranking{
		Entries:   entries,
		UpdatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	return SetJSON(ctx, store, rankingKey, r, rankingTTL)
}

// GetRanking retrieves the cached leaderboard.
func GetRanking(ctx context.Context, store Store) (*Ranking, error) {
	var r Ranking
	if err := GetJSON(ctx, store, rankingKey, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// InvalidateRanking drops the cached leaderboard so the next read rebuilds it.
func InvalidateRanking(ctx context.Context, store Store) error {
	return store.Delete(ctx, rankingKey)
}
