package domain

import (
	"time"
)

// MatchStatus mirrors the fixture provider's short status codes.
type MatchStatus string

const (
	MatchNotStarted MatchStatus = "NS"
	MatchFirstHalf  MatchStatus = "1H"
	MatchHalftime   MatchStatus = "HT"
	MatchSecondHalf MatchStatus = "2H"
	MatchExtraTime  MatchStatus = "ET"
	MatchPenalties  MatchStatus = "P"
	MatchFullTime   MatchStatus = "FT"
	MatchAfterExtra MatchStatus = "AET"
	MatchAfterPens  MatchStatus = "PEN"
	MatchPostponed  MatchStatus = "PST"
	MatchCancelled  MatchStatus = "CANC"
)

// IsFinished reports whether the status is a terminal finished code.
func (s MatchStatus) IsFinished() bool {
	switch s {
	case MatchFullTime, MatchAfterExtra, MatchAfterPens:
		return true
	}
	return false
}

// Match is the local mirror of a provider fixture. The numeric ID is the
// provider's fixture ID and is authoritative.
type Match struct {
	ID                 int64       `json:"id"`
	HomeTeam           string      `json:"home_team"`
	AwayTeam           string      `json:"away_team"`
	HomeTeamID         int64       `json:"home_team_id"`
	AwayTeamID         int64       `json:"away_team_id"`
	HomeLogo           string      `json:"home_logo,omitempty"`
	AwayLogo           string      `json:"away_logo,omitempty"`
	League             string      `json:"league"`
	KickoffAt          time.Time   `json:"kickoff_at"`
	Status             MatchStatus `json:"status"`
	HomeGoals          *int        `json:"home_goals,omitempty"`
	AwayGoals          *int        `json:"away_goals,omitempty"`
	IsProcessed        bool        `json:"is_processed"`
	IsNotificationSent bool        `json:"is_notification_sent"`
	CreatedAt          time.Time   `json:"created_at"`
	UpdatedAt          time.Time   `json:"updated_at"`
}

// IsOpenForWagering reports whether bets may still reference this match.
func (m *Match) IsOpenForWagering(now time.Time) bool {
	return m.Status == MatchNotStarted && now.Before(m.KickoffAt)
}

// MatchStats holds the auxiliary statistics some markets grade against.
// A nil *MatchStats means the provider returned no usable statistics and
// every stats-dependent market must void.
type MatchStats struct {
	HomeCorners     int `json:"home_corners"`
	AwayCorners     int `json:"away_corners"`
	HomeYellowCards int `json:"home_yellow_cards"`
	HomeRedCards    int `json:"home_red_cards"`
	AwayYellowCards int `json:"away_yellow_cards"`
	AwayRedCards    int `json:"away_red_cards"`
}

// TotalCorners returns the combined corner count.
func (s *MatchStats) TotalCorners() int { return s.HomeCorners + s.AwayCorners }

// TotalCards returns the combined card count, yellow and red alike.
func (s *MatchStats) TotalCards() int {
	return s.HomeYellowCards + s.HomeRedCards + s.AwayYellowCards + s.AwayRedCards
}

// FinalResult is the authoritative outcome of a finished match as re-fetched
// from the provider at settlement time.
type FinalResult struct {
	MatchID   int64       `json:"match_id"`
	Status    MatchStatus `json:"status"`
	HomeGoals int         `json:"home_goals"`
	AwayGoals int         `json:"away_goals"`
	Stats     *MatchStats `json:"stats,omitempty"`
}

// TotalGoals returns the combined goal count.
func (r FinalResult) TotalGoals() int { return r.HomeGoals + r.AwayGoals }
