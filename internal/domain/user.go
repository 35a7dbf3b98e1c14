package domain

import "time"

// User is the subset of the account relevant to settlement: XP, the cached
// level (always recomputable from XP) and the unlocked achievement set.
// UserID is the Discord snowflake, carried as text.
type User struct {
	UserID               string    `json:"user_id"`
	Username             string    `json:"username"`
	XP                   int64     `json:"xp"`
	Level                int       `json:"level"`
	IsVIP                bool      `json:"is_vip"`
	UnlockedAchievements []string  `json:"unlocked_achievements"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// HasAchievement reports whether the achievement id is already unlocked.
func (u *User) HasAchievement(id string) bool {
	for _, a := range u.UnlockedAchievements {
		if a == id {
			return true
		}
	}
	return false
}

// UserStats is the per-user aggregate counter row. It is a cached projection
// of bet history: rebuilt from raw bets only when missing, incrementally
// updated everywhere else. Money columns are in centavos.
type UserStats struct {
	UserID        string    `json:"user_id"`
	TotalBets     int64     `json:"total_bets"`
	TotalWagered  int64     `json:"total_wagered"`
	BetsWon       int64     `json:"bets_won"`
	BetsLost      int64     `json:"bets_lost"`
	TotalWinnings int64     `json:"total_winnings"`
	TotalLosses   int64     `json:"total_losses"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// RankingEntry is one row of the community leaderboard, ordered by total
// winnings.
type RankingEntry struct {
	UserID        string `json:"user_id"`
	Username      string `json:"username"`
	Level         int    `json:"level"`
	BetsWon       int64  `json:"bets_won"`
	TotalWinnings int64  `json:"total_winnings"`
}

// StatsUpdate describes which counters to increment and by how much.
// Used to build the dynamic SET clause of the incremental update.
type StatsUpdate struct {
	TotalBets     int64
	TotalWagered  int64
	BetsWon       int64
	BetsLost      int64
	TotalWinnings int64
	TotalLosses   int64
}
