// Package grader evaluates bet selections against final match results.
// Everything here is pure: no I/O, no clock, no logging. Callers guarantee
// the match is in a finished terminal state before grading.
package grader

import (
	"github.com/fielbet/platform/internal/domain"
)

// Grade returns the settlement status for one selection given the
// authoritative final result.
//
// Markets that need auxiliary statistics void when the result carries none.
// Over/under markets push (void) when the counted quantity equals the line.
// Unknown markets grade as lost; the parse site logs the warning.
func Grade(sel domain.Selection, res domain.FinalResult) domain.SelectionStatus {
	if sel.Market.RequiresStats() && res.Stats == nil {
		return domain.SelectionVoided
	}

	home, away := res.HomeGoals, res.AwayGoals

	switch sel.Market {
	case domain.MarketMatchWinner:
		return gradeWinner(sel.Outcome, home, away)

	case domain.MarketDrawNoBet:
		if home == away {
			return domain.SelectionVoided
		}
		if sel.Outcome == domain.OutcomeHome && home > away {
			return domain.SelectionWon
		}
		if sel.Outcome == domain.OutcomeAway && away > home {
			return domain.SelectionWon
		}
		return domain.SelectionLost

	case domain.MarketGoalsOverUnder:
		return gradeOverUnder(sel.Outcome, res.TotalGoals())

	case domain.MarketCornersOverUnder:
		return gradeOverUnder(sel.Outcome, res.Stats.TotalCorners())

	case domain.MarketCardsOverUnder:
		return gradeOverUnder(sel.Outcome, res.Stats.TotalCards())

	case domain.MarketHomeGoalsTotal:
		return gradeOverUnder(sel.Outcome, home)

	case domain.MarketAwayGoalsTotal:
		return gradeOverUnder(sel.Outcome, away)

	case domain.MarketHomeCornersTotal:
		return gradeOverUnder(sel.Outcome, res.Stats.HomeCorners)

	case domain.MarketAwayCornersTotal:
		return gradeOverUnder(sel.Outcome, res.Stats.AwayCorners)

	case domain.MarketBothTeamsScore:
		bothScored := home > 0 && away > 0
		if sel.Outcome == domain.OutcomeYes && bothScored {
			return domain.SelectionWon
		}
		if sel.Outcome == domain.OutcomeNo && !bothScored {
			return domain.SelectionWon
		}
		return domain.SelectionLost

	case domain.MarketExactScore:
		guess, err := domain.ParseExactScore(sel.Outcome)
		if err != nil {
			return domain.SelectionLost
		}
		if guess.Home == home && guess.Away == away {
			return domain.SelectionWon
		}
		return domain.SelectionLost

	case domain.MarketDoubleChance:
		switch sel.Outcome {
		case domain.OutcomeHomeOrDraw:
			if home >= away {
				return domain.SelectionWon
			}
		case domain.OutcomeAwayOrDraw:
			if away >= home {
				return domain.SelectionWon
			}
		case domain.OutcomeHomeOrAway:
			if home != away {
				return domain.SelectionWon
			}
		}
		return domain.SelectionLost

	case domain.MarketCorners1X2:
		return gradeWinner(sel.Outcome, res.Stats.HomeCorners, res.Stats.AwayCorners)

	default:
		// Unknown market. Preserved fallback: grade as lost. This may mask
		// a provider mapping gap, so ingestion warns when it maps a label
		// to MarketUnknown.
		return domain.SelectionLost
	}
}

// gradeWinner grades a 1X2-style outcome over any pair of counted
// quantities: goals for the match-winner market, corners for corners 1x2.
func gradeWinner(outcome string, home, away int) domain.SelectionStatus {
	switch outcome {
	case domain.OutcomeHome:
		if home > away {
			return domain.SelectionWon
		}
	case domain.OutcomeDraw:
		if home == away {
			return domain.SelectionWon
		}
	case domain.OutcomeAway:
		if away > home {
			return domain.SelectionWon
		}
	}
	return domain.SelectionLost
}

// gradeOverUnder applies the uniform over/under/push rule: strictly above
// the line wins an over, strictly below wins an under, exactly on the line
// pushes.
func gradeOverUnder(outcome string, counted int) domain.SelectionStatus {
	side, line, err := domain.ParseOverUnder(outcome)
	if err != nil {
		return domain.SelectionLost
	}
	value := float64(counted)
	switch side {
	case domain.OutcomeOver:
		if value > line {
			return domain.SelectionWon
		}
		if value == line {
			return domain.SelectionVoided
		}
	case domain.OutcomeUnder:
		if value < line {
			return domain.SelectionWon
		}
		if value == line {
			return domain.SelectionVoided
		}
	}
	return domain.SelectionLost
}
