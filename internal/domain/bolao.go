package domain

import (
	"time"

	"github.com/google/uuid"
)

// BolaoStatus is the prediction pool lifecycle.
type BolaoStatus string

const (
	BolaoOpen      BolaoStatus = "open"
	BolaoPaid      BolaoStatus = "paid"
	BolaoCancelled BolaoStatus = "cancelled"
)

// BolaoEntryFee is the fixed pool entry fee in centavos.
const BolaoEntryFee int64 = 500

// Score is an exact-score guess or final score.
type Score struct {
	Home int `json:"home"`
	Away int `json:"away"`
}

// Equals reports score equality.
func (s Score) Equals(o Score) bool { return s.Home == o.Home && s.Away == o.Away }

// BolaoParticipant is one entrant with their guess.
type BolaoParticipant struct {
	UserID   string    `json:"user_id"`
	Guess    Score     `json:"guess"`
	JoinedAt time.Time `json:"joined_at"`
}

// BolaoWinner records a settled payout.
type BolaoWinner struct {
	UserID string `json:"user_id"`
	Prize  int64  `json:"prize"`
}

// Bolao is a per-match prediction pool. The prize pool equals the sum of
// collected entry fees; payout is exactly-once, guarded by the open status.
type Bolao struct {
	ID           uuid.UUID          `json:"id"`
	MatchID      int64              `json:"match_id"`
	HomeTeam     string             `json:"home_team"`
	AwayTeam     string             `json:"away_team"`
	EntryFee     int64              `json:"entry_fee"`
	PrizePool    int64              `json:"prize_pool"`
	Status       BolaoStatus        `json:"status"`
	Participants []BolaoParticipant `json:"participants"`
	FinalScore   *Score             `json:"final_score,omitempty"`
	Winners      []BolaoWinner      `json:"winners,omitempty"`
	CreatedAt    time.Time          `json:"created_at"`
}

// HasParticipant reports whether the user already joined.
func (b *Bolao) HasParticipant(userID string) bool {
	for _, p := range b.Participants {
		if p.UserID == userID {
			return true
		}
	}
	return false
}

// ExactScoreWinners returns the participants whose guess matches the final
// score, in join order.
func (b *Bolao) ExactScoreWinners(final Score) []BolaoParticipant {
	var winners []BolaoParticipant
	for _, p := range b.Participants {
		if p.Guess.Equals(final) {
			winners = append(winners, p)
		}
	}
	return winners
}

// SplitPool divides the prize pool among n winners in integer centavos.
// Each winner gets the floor share; the remainder is handed out one centavo
// at a time in join order so the payouts sum exactly to the pool.
func SplitPool(pool int64, n int) []int64 {
	if n <= 0 {
		return nil
	}
	share := pool / int64(n)
	remainder := pool - share*int64(n)
	prizes := make([]int64, n)
	for i := range prizes {
		prizes[i] = share
		if int64(i) < remainder {
			prizes[i]++
		}
	}
	return prizes
}
