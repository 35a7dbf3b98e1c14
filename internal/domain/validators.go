package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	discordIDRegex  = regexp.MustCompile(`^\d{17,20}$`)
	exactScoreRegex = regexp.MustCompile(`^\d{1,2}-\d{1,2}$`)
)

// ValidateUserID checks that a user id looks like a Discord snowflake.
func ValidateUserID(id string) error {
	if id == "" {
		return fmt.Errorf("user id is required")
	}
	if !discordIDRegex.MatchString(id) {
		return fmt.Errorf("invalid user id: %s", id)
	}
	return nil
}

// ValidatePositiveAmount checks that an amount is positive (in centavos).
func ValidatePositiveAmount(amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("amount must be positive, got %d", amount)
	}
	return nil
}

// ValidateOdds checks decimal odds in hundredths: at least 1.01.
func ValidateOdds(oddsDecimal int64) error {
	if oddsDecimal < 101 {
		return fmt.Errorf("odds must be at least 1.01, got %d", oddsDecimal)
	}
	return nil
}

// ValidateSelections checks a bet slip before placement: at least one leg,
// no duplicate matches, valid odds, known or explicitly unknown markets.
func ValidateSelections(selections []Selection) error {
	if len(selections) == 0 {
		return fmt.Errorf("at least one selection is required")
	}
	seen := make(map[int64]bool, len(selections))
	for _, sel := range selections {
		if sel.MatchID <= 0 {
			return fmt.Errorf("selection has invalid match id %d", sel.MatchID)
		}
		if seen[sel.MatchID] {
			return fmt.Errorf("duplicate selection for match %d", sel.MatchID)
		}
		seen[sel.MatchID] = true
		if err := ValidateOdds(sel.OddsDecimal); err != nil {
			return err
		}
		if sel.Outcome == "" {
			return fmt.Errorf("selection for match %d has no outcome", sel.MatchID)
		}
	}
	return nil
}

// ParseExactScore parses an exact-score outcome label like "2-1".
func ParseExactScore(outcome string) (Score, error) {
	if !exactScoreRegex.MatchString(outcome) {
		return Score{}, fmt.Errorf("invalid exact score outcome: %q", outcome)
	}
	parts := strings.SplitN(outcome, "-", 2)
	home, _ := strconv.Atoi(parts[0])
	away, _ := strconv.Atoi(parts[1])
	return Score{Home: home, Away: away}, nil
}

// ParseOverUnder parses an over/under outcome label like "Acima 2.5",
// returning the side and the line. The line is kept as a float because
// half lines are the common case.
func ParseOverUnder(outcome string) (side string, line float64, err error) {
	parts := strings.SplitN(outcome, " ", 2)
	if len(parts) != 2 {
		return "", 0, fmt.Errorf("invalid over/under outcome: %q", outcome)
	}
	if parts[0] != OutcomeOver && parts[0] != OutcomeUnder {
		return "", 0, fmt.Errorf("invalid over/under side: %q", parts[0])
	}
	line, err = strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return "", 0, fmt.Errorf("invalid over/under line in %q: %w", outcome, err)
	}
	return parts[0], line, nil
}
