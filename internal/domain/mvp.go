package domain

import (
	"time"

	"github.com/google/uuid"
)

// MvpStatus is the MVP voting lifecycle.
type MvpStatus string

const (
	MvpOpen      MvpStatus = "open"
	MvpFinalized MvpStatus = "finalized"
	MvpCancelled MvpStatus = "cancelled"
)

// MvpVoteReward is the fixed credit for casting a vote, in centavos.
const MvpVoteReward int64 = 10000

// MvpPlayer is one eligible lineup entry.
type MvpPlayer struct {
	PlayerID int64  `json:"player_id"`
	Name     string `json:"name"`
	Team     string `json:"team"`
	Photo    string `json:"photo,omitempty"`
}

// MvpVote is one user's vote. Unique per user per voting.
type MvpVote struct {
	UserID   string    `json:"user_id"`
	PlayerID int64     `json:"player_id"`
	VotedAt  time.Time `json:"voted_at"`
}

// MvpVoting is a per-match MVP election.
type MvpVoting struct {
	ID          uuid.UUID   `json:"id"`
	MatchID     int64       `json:"match_id"`
	HomeTeam    string      `json:"home_team"`
	AwayTeam    string      `json:"away_team"`
	Lineups     []MvpPlayer `json:"lineups"`
	Votes       []MvpVote   `json:"votes"`
	Status      MvpStatus   `json:"status"`
	EndsAt      time.Time   `json:"ends_at"`
	WinnerIDs   []int64     `json:"winner_ids,omitempty"`
	FinalizedAt *time.Time  `json:"finalized_at,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
}

// HasVoted reports whether the user already cast a vote.
func (v *MvpVoting) HasVoted(userID string) bool {
	for _, vote := range v.Votes {
		if vote.UserID == userID {
			return true
		}
	}
	return false
}

// TallyWinners computes the plurality winner set. All players tied at the
// maximum vote count win; zero votes yields an empty set. Winner order
// follows first appearance in the vote list, keeping the result stable.
func (v *MvpVoting) TallyWinners() []int64 {
	if len(v.Votes) == 0 {
		return nil
	}
	counts := make(map[int64]int)
	var order []int64
	for _, vote := range v.Votes {
		if counts[vote.PlayerID] == 0 {
			order = append(order, vote.PlayerID)
		}
		counts[vote.PlayerID]++
	}
	max := 0
	for _, n := range counts {
		if n > max {
			max = n
		}
	}
	var winners []int64
	for _, id := range order {
		if counts[id] == max {
			winners = append(winners, id)
		}
	}
	return winners
}

// FindPlayer returns the lineup entry for a player id, or nil.
func (v *MvpVoting) FindPlayer(playerID int64) *MvpPlayer {
	for i := range v.Lineups {
		if v.Lineups[i].PlayerID == playerID {
			return &v.Lineups[i]
		}
	}
	return nil
}
