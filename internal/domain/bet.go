package domain

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// SelectionStatus is the per-leg settlement status.
type SelectionStatus string

const (
	SelectionOpen   SelectionStatus = "open"
	SelectionWon    SelectionStatus = "won"
	SelectionLost   SelectionStatus = "lost"
	SelectionVoided SelectionStatus = "voided"
)

// IsTerminal reports whether the leg has been graded.
func (s SelectionStatus) IsTerminal() bool { return s != SelectionOpen && s != "" }

// BetStatus is the overall wager status, derived from selection statuses.
type BetStatus string

const (
	BetOpen BetStatus = "open"
	BetWon  BetStatus = "won"
	BetLost BetStatus = "lost"
)

// Selection is one leg of a wager. Odds are decimal odds in hundredths
// (2.50 is stored as 250). MarketLabel keeps the provider's original name
// for display; Market is what grading dispatches on.
type Selection struct {
	MatchID     int64           `json:"match_id"`
	HomeTeam    string          `json:"home_team"`
	AwayTeam    string          `json:"away_team"`
	Market      MarketKind      `json:"market"`
	MarketLabel string          `json:"market_label"`
	Outcome     string          `json:"outcome"`
	OddsDecimal int64           `json:"odds_decimal"`
	Status      SelectionStatus `json:"status"`
}

// PlacedBet is a settled-or-open wager. Selections are ordered as placed.
// Stake and winnings are in centavos.
type PlacedBet struct {
	ID         uuid.UUID   `json:"id"`
	UserID     string      `json:"user_id"`
	Selections []Selection `json:"selections"`
	Stake      int64       `json:"stake"`
	TotalOdds  int64       `json:"total_odds"`
	Winnings   int64       `json:"winnings"`
	Status     BetStatus   `json:"status"`
	CreatedAt  time.Time   `json:"created_at"`
	SettledAt  *time.Time  `json:"settled_at,omitempty"`
}

// IsMultiple reports whether the wager has more than one leg.
func (b *PlacedBet) IsMultiple() bool { return len(b.Selections) > 1 }

// AllSelectionsTerminal reports whether every leg has been graded.
func (b *PlacedBet) AllSelectionsTerminal() bool {
	for _, sel := range b.Selections {
		if !sel.Status.IsTerminal() {
			return false
		}
	}
	return true
}

// ResolveStatus derives the overall status from selection statuses.
// Open while any leg is ungraded; lost if any leg lost; won otherwise
// (voided legs count as won legs with odds factor 1).
func (b *PlacedBet) ResolveStatus() BetStatus {
	if !b.AllSelectionsTerminal() {
		return BetOpen
	}
	for _, sel := range b.Selections {
		if sel.Status == SelectionLost {
			return BetLost
		}
	}
	return BetWon
}

// Payout computes the winnings for a won bet: stake times the product of
// non-voided leg odds, rounded half-up to the centavo. Voided legs
// contribute a factor of 1.
func (b *PlacedBet) Payout() int64 {
	product := 1.0
	for _, sel := range b.Selections {
		if sel.Status == SelectionVoided {
			continue
		}
		product *= float64(sel.OddsDecimal) / 100.0
	}
	return int64(math.Round(float64(b.Stake) * product))
}

// CombinedOdds multiplies all leg odds, ignoring settlement status. Used at
// placement time for the displayed total odds, in hundredths.
func CombinedOdds(selections []Selection) int64 {
	product := 1.0
	for _, sel := range selections {
		product *= float64(sel.OddsDecimal) / 100.0
	}
	return int64(math.Round(product * 100))
}
