package projection

import (
	"context"
	"testing"
	"time"

	"github.com/fielbet/platform/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryStore_SetAndGet(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()

	err := store.Set(ctx, "k1", []byte("hello"), 0)
	require.NoError(t, err)

	val, err := store.Get(ctx, "k1")
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), val)
}

func TestInMemoryStore_KeyNotFound(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()

	_, err := store.Get(ctx, "missing")
	assert.Error(t, err)
}

func TestInMemoryStore_Delete(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()

	_ = store.Set(ctx, "k1", []byte("data"), 0)
	_ = store.Delete(ctx, "k1")

	_, err := store.Get(ctx, "k1")
	assert.Error(t, err)
}

func TestInMemoryStore_TTLExpiry(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()

	_ = store.Set(ctx, "k1", []byte("data"), 1*time.Millisecond)
	time.Sleep(5 * time.Millisecond)

	_, err := store.Get(ctx, "k1")
	assert.Error(t, err)
}

func TestRanking_RoundTrip(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()

	entries := []domain.RankingEntry{
		{UserID: "203716083797721088", Username: "fiel_torcedor", Level: 5, TotalWinnings: 250_000},
		{UserID: "155149108183695360", Username: "gaviao", Level: 3, TotalWinnings: 120_000},
	}

	err := UpdateRanking(ctx, store, entries)
	require.NoError(t, err)

	got, err := GetRanking(ctx, store)
	require.NoError(t, err)
	require.Len(t, got.Entries, 2)
	assert.Equal(t, "fiel_torcedor", got.Entries[0].Username)
	assert.Equal(t, int64(250_000), got.Entries[0].TotalWinnings)
	assert.NotEmpty(t, got.UpdatedAt)
}

func TestRanking_Invalidate(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()

	_ = UpdateRanking(ctx, store, []domain.RankingEntry{{UserID: "1", Username: "x"}})
	_ = InvalidateRanking(ctx, store)

	_, err := GetRanking(ctx, store)
	assert.Error(t, err)
}
