package levels

import (
	"testing"

	"github.com/fielbet/platform/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	ladder := domain.DefaultLevels()

	tests := []struct {
		name         string
		xp           int64
		wantLevel    int
		wantName     string
		wantNextXP   int64
		wantProgress int
	}{
		{"zero xp", 0, 1, "Iniciante", 500, 0},
		{"halfway to level 2", 250, 1, "Iniciante", 500, 50},
		{"exactly level 2", 500, 2, "Amador", 1500, 0},
		{"one short of level 2", 499, 1, "Iniciante", 500, 99},
		{"mid level 3", 2250, 3, "Regular", 3000, 50},
		{"exactly max level", 150000, 10, "Divino", 150000, 100},
		{"beyond max level", 999999, 10, "Divino", 150000, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(tt.xp, ladder)
			assert.Equal(t, tt.wantLevel, got.Level)
			assert.Equal(t, tt.wantName, got.Name)
			assert.Equal(t, tt.wantNextXP, got.XPForNextLevel)
			assert.Equal(t, tt.wantProgress, got.ProgressPercent)
		})
	}
}

func TestResolve_Monotonic(t *testing.T) {
	ladder := domain.DefaultLevels()
	prevLevel := 0
	for xp := int64(0); xp <= 200000; xp += 137 {
		got := Resolve(xp, ladder)
		require.GreaterOrEqual(t, got.Level, prevLevel, "level decreased at xp=%d", xp)
		require.GreaterOrEqual(t, got.ProgressPercent, 0)
		require.LessOrEqual(t, got.ProgressPercent, 100)
		prevLevel = got.Level
	}
}

func TestResolve_EmptyLadder(t *testing.T) {
	got := Resolve(1000, nil)
	assert.Equal(t, 1, got.Level)
	assert.Equal(t, 100, got.ProgressPercent)
}

func TestXPGain(t *testing.T) {
	tests := []struct {
		name       string
		stake      int64
		multiplier int
		vip        bool
		want       int64
	}{
		{"base", 1000, 1, false, 10},
		{"vip doubles", 1000, 1, true, 20},
		{"event multiplier", 1000, 3, false, 30},
		{"event and vip stack", 1000, 3, true, 60},
		{"zero multiplier clamps to one", 1000, 0, false, 10},
		{"sub-unit stake", 50, 1, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, XPGain(tt.stake, tt.multiplier, tt.vip))
		})
	}
}

func TestValidateLevelConfig(t *testing.T) {
	valid := domain.DefaultLevels()

	t.Run("default ladder valid", func(t *testing.T) {
		require.NoError(t, domain.ValidateLevelConfig(valid))
	})

	t.Run("empty", func(t *testing.T) {
		require.Error(t, domain.ValidateLevelConfig(nil))
	})

	t.Run("level 1 must start at zero", func(t *testing.T) {
		bad := append([]domain.LevelThreshold{}, valid...)
		bad[0].XP = 100
		require.Error(t, domain.ValidateLevelConfig(bad))
	})

	t.Run("xp must ascend", func(t *testing.T) {
		bad := append([]domain.LevelThreshold{}, valid...)
		bad[2].XP = bad[1].XP
		require.Error(t, domain.ValidateLevelConfig(bad))
	})

	t.Run("levels must be sequential", func(t *testing.T) {
		bad := append([]domain.LevelThreshold{}, valid...)
		bad[3].Level = 7
		require.Error(t, domain.ValidateLevelConfig(bad))
	})

	t.Run("money reward needs amount", func(t *testing.T) {
		bad := append([]domain.LevelThreshold{}, valid...)
		bad[1].RewardAmount = 0
		require.Error(t, domain.ValidateLevelConfig(bad))
	})

	t.Run("role reward needs role id", func(t *testing.T) {
		bad := append([]domain.LevelThreshold{}, valid...)
		bad[4].RewardRoleID = ""
		require.Error(t, domain.ValidateLevelConfig(bad))
	})
}
