package domain

import "fmt"

// RewardType is what a level grants when reached.
type RewardType string

const (
	RewardNone  RewardType = "none"
	RewardMoney RewardType = "money"
	RewardRole  RewardType = "role"
)

// LevelThreshold is one entry of the level configuration. XP requirements
// are strictly ascending; level 1 always starts at 0 XP. RewardAmount is
// in centavos.
type LevelThreshold struct {
	Level          int        `json:"level"`
	XP             int64      `json:"xp"`
	Name           string     `json:"name"`
	RewardType     RewardType `json:"reward_type"`
	RewardAmount   int64      `json:"reward_amount,omitempty"`
	RewardRoleID   string     `json:"reward_role_id,omitempty"`
	UnlocksFeature string     `json:"unlocks_feature,omitempty"`
}

// UserLevel is the resolved level for an XP total.
type UserLevel struct {
	Level           int    `json:"level"`
	Name            string `json:"name"`
	XPForNextLevel  int64  `json:"xp_for_next_level"`
	ProgressPercent int    `json:"progress_percent"`
}

// DefaultLevels is the built-in ten-level ladder, installed when no
// configuration row exists yet.
func DefaultLevels() []LevelThreshold {
	return []LevelThreshold{
		{Level: 1, XP: 0, Name: "Iniciante", RewardType: RewardNone},
		{Level: 2, XP: 500, Name: "Amador", RewardType: RewardMoney, RewardAmount: 10000, UnlocksFeature: "bolao"},
		{Level: 3, XP: 1500, Name: "Regular", RewardType: RewardMoney, RewardAmount: 25000, UnlocksFeature: "mvp"},
		{Level: 4, XP: 3000, Name: "Experiente", RewardType: RewardMoney, RewardAmount: 50000},
		{Level: 5, XP: 5000, Name: "Veterano", RewardType: RewardRole, RewardRoleID: "veteran"},
		{Level: 6, XP: 10000, Name: "Mestre", RewardType: RewardMoney, RewardAmount: 100000},
		{Level: 7, XP: 20000, Name: "Grão-Mestre", RewardType: RewardMoney, RewardAmount: 200000},
		{Level: 8, XP: 40000, Name: "Lendário", RewardType: RewardMoney, RewardAmount: 400000},
		{Level: 9, XP: 75000, Name: "Mítico", RewardType: RewardMoney, RewardAmount: 750000},
		{Level: 10, XP: 150000, Name: "Divino", RewardType: RewardRole, RewardRoleID: "divine"},
	}
}

// ValidateLevelConfig checks an externally edited level ladder before it is
// accepted: level 1 at 0 XP, strictly ascending XP, sequential levels, and
// well-formed rewards.
func ValidateLevelConfig(levels []LevelThreshold) error {
	if len(levels) == 0 {
		return fmt.Errorf("level config must not be empty")
	}
	if levels[0].Level != 1 || levels[0].XP != 0 {
		return fmt.Errorf("level 1 must start at 0 xp")
	}
	for i := 1; i < len(levels); i++ {
		if levels[i].XP <= levels[i-1].XP {
			return fmt.Errorf("xp for level %d must exceed level %d", levels[i].Level, levels[i-1].Level)
		}
		if levels[i].Level != levels[i-1].Level+1 {
			return fmt.Errorf("levels must be sequential, got %d after %d", levels[i].Level, levels[i-1].Level)
		}
	}
	for _, lvl := range levels {
		if lvl.RewardType == RewardMoney && lvl.RewardAmount <= 0 {
			return fmt.Errorf("level %d money reward must be positive", lvl.Level)
		}
		if lvl.RewardType == RewardRole && lvl.RewardRoleID == "" {
			return fmt.Errorf("level %d role reward needs a role id", lvl.Level)
		}
	}
	return nil
}

// FindThreshold returns the threshold for a given level, or nil.
func FindThreshold(levels []LevelThreshold, level int) *LevelThreshold {
	for i := range levels {
		if levels[i].Level == level {
			return &levels[i]
		}
	}
	return nil
}
