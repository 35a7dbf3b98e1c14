package grader

import (
	"testing"

	"github.com/fielbet/platform/internal/domain"
	"github.com/stretchr/testify/assert"
)

func sel(market domain.MarketKind, outcome string) domain.Selection {
	return domain.Selection{MatchID: 1, Market: market, Outcome: outcome, OddsDecimal: 200}
}

func result(home, away int, stats *domain.MatchStats) domain.FinalResult {
	return domain.FinalResult{
		MatchID:   1,
		Status:    domain.MatchFullTime,
		HomeGoals: home,
		AwayGoals: away,
		Stats:     stats,
	}
}

func TestGrade_MatchWinner(t *testing.T) {
	tests := []struct {
		name    string
		outcome string
		home    int
		away    int
		want    domain.SelectionStatus
	}{
		{"home wins", domain.OutcomeHome, 2, 1, domain.SelectionWon},
		{"home loses", domain.OutcomeHome, 1, 2, domain.SelectionLost},
		{"home on draw", domain.OutcomeHome, 1, 1, domain.SelectionLost},
		{"draw hits", domain.OutcomeDraw, 0, 0, domain.SelectionWon},
		{"draw misses", domain.OutcomeDraw, 2, 0, domain.SelectionLost},
		{"away wins", domain.OutcomeAway, 0, 3, domain.SelectionWon},
		{"away loses", domain.OutcomeAway, 3, 0, domain.SelectionLost},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Grade(sel(domain.MarketMatchWinner, tt.outcome), result(tt.home, tt.away, nil))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGrade_DrawNoBet(t *testing.T) {
	tests := []struct {
		name    string
		outcome string
		home    int
		away    int
		want    domain.SelectionStatus
	}{
		{"home wins", domain.OutcomeHome, 2, 0, domain.SelectionWon},
		{"home loses", domain.OutcomeHome, 0, 2, domain.SelectionLost},
		{"push on draw for home", domain.OutcomeHome, 1, 1, domain.SelectionVoided},
		{"push on draw for away", domain.OutcomeAway, 2, 2, domain.SelectionVoided},
		{"away wins", domain.OutcomeAway, 1, 2, domain.SelectionWon},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Grade(sel(domain.MarketDrawNoBet, tt.outcome), result(tt.home, tt.away, nil))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGrade_GoalsOverUnder(t *testing.T) {
	tests := []struct {
		name    string
		outcome string
		home    int
		away    int
		want    domain.SelectionStatus
	}{
		{"over 2.5 with 3 goals", "Acima 2.5", 2, 1, domain.SelectionWon},
		{"over 2.5 with 2 goals", "Acima 2.5", 1, 1, domain.SelectionLost},
		{"under 2.5 with 2 goals", "Abaixo 2.5", 2, 0, domain.SelectionWon},
		{"under 2.5 with 3 goals", "Abaixo 2.5", 2, 1, domain.SelectionLost},
		{"over 2 push on exactly 2", "Acima 2", 1, 1, domain.SelectionVoided},
		{"under 2 push on exactly 2", "Abaixo 2", 0, 2, domain.SelectionVoided},
		{"over 0.5 goalless", "Acima 0.5", 0, 0, domain.SelectionLost},
		{"under 0.5 goalless", "Abaixo 0.5", 0, 0, domain.SelectionWon},
		{"malformed outcome loses", "Acima", 5, 5, domain.SelectionLost},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Grade(sel(domain.MarketGoalsOverUnder, tt.outcome), result(tt.home, tt.away, nil))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGrade_StatsMarketsVoidWithoutStats(t *testing.T) {
	statsMarkets := []domain.MarketKind{
		domain.MarketCornersOverUnder,
		domain.MarketCardsOverUnder,
		domain.MarketCorners1X2,
		domain.MarketHomeCornersTotal,
		domain.MarketAwayCornersTotal,
	}

	for _, market := range statsMarkets {
		t.Run(string(market), func(t *testing.T) {
			got := Grade(sel(market, "Acima 4.5"), result(2, 1, nil))
			assert.Equal(t, domain.SelectionVoided, got)
		})
	}
}

func TestGrade_CornersAndCards(t *testing.T) {
	stats := &domain.MatchStats{
		HomeCorners: 6, AwayCorners: 4,
		HomeYellowCards: 2, HomeRedCards: 1,
		AwayYellowCards: 1, AwayRedCards: 0,
	}

	tests := []struct {
		name    string
		market  domain.MarketKind
		outcome string
		want    domain.SelectionStatus
	}{
		{"corners over 9.5 with 10", domain.MarketCornersOverUnder, "Acima 9.5", domain.SelectionWon},
		{"corners push on 10", domain.MarketCornersOverUnder, "Acima 10", domain.SelectionVoided},
		{"corners under 9.5 with 10", domain.MarketCornersOverUnder, "Abaixo 9.5", domain.SelectionLost},
		{"cards over 3.5 with 4", domain.MarketCardsOverUnder, "Acima 3.5", domain.SelectionWon},
		{"cards under 3.5 with 4", domain.MarketCardsOverUnder, "Abaixo 3.5", domain.SelectionLost},
		{"home corners over 5.5 with 6", domain.MarketHomeCornersTotal, "Acima 5.5", domain.SelectionWon},
		{"away corners push on 4", domain.MarketAwayCornersTotal, "Abaixo 4", domain.SelectionVoided},
		{"corners 1x2 home leads", domain.MarketCorners1X2, domain.OutcomeHome, domain.SelectionWon},
		{"corners 1x2 away trails", domain.MarketCorners1X2, domain.OutcomeAway, domain.SelectionLost},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Grade(sel(tt.market, tt.outcome), result(2, 1, stats))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGrade_Corners1X2Draw(t *testing.T) {
	stats := &domain.MatchStats{HomeCorners: 5, AwayCorners: 5}
	assert.Equal(t, domain.SelectionWon, Grade(sel(domain.MarketCorners1X2, domain.OutcomeDraw), result(0, 0, stats)))
	assert.Equal(t, domain.SelectionLost, Grade(sel(domain.MarketCorners1X2, domain.OutcomeHome), result(0, 0, stats)))
}

func TestGrade_HomeAwayGoalTotals(t *testing.T) {
	tests := []struct {
		name    string
		market  domain.MarketKind
		outcome string
		want    domain.SelectionStatus
	}{
		{"home over 1.5 with 2", domain.MarketHomeGoalsTotal, "Acima 1.5", domain.SelectionWon},
		{"home push on 2", domain.MarketHomeGoalsTotal, "Acima 2", domain.SelectionVoided},
		{"away under 1.5 with 1", domain.MarketAwayGoalsTotal, "Abaixo 1.5", domain.SelectionWon},
		{"away over 1.5 with 1", domain.MarketAwayGoalsTotal, "Acima 1.5", domain.SelectionLost},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Grade(sel(tt.market, tt.outcome), result(2, 1, nil))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGrade_BothTeamsScore(t *testing.T) {
	tests := []struct {
		name    string
		outcome string
		home    int
		away    int
		want    domain.SelectionStatus
	}{
		{"yes both scored", domain.OutcomeYes, 2, 1, domain.SelectionWon},
		{"yes one side blanked", domain.OutcomeYes, 3, 0, domain.SelectionLost},
		{"no with a blank", domain.OutcomeNo, 0, 2, domain.SelectionWon},
		{"no but both scored", domain.OutcomeNo, 1, 1, domain.SelectionLost},
		{"no goalless", domain.OutcomeNo, 0, 0, domain.SelectionWon},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Grade(sel(domain.MarketBothTeamsScore, tt.outcome), result(tt.home, tt.away, nil))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGrade_ExactScore(t *testing.T) {
	tests := []struct {
		name    string
		outcome string
		home    int
		away    int
		want    domain.SelectionStatus
	}{
		{"exact hit", "2-1", 2, 1, domain.SelectionWon},
		{"reversed score misses", "1-2", 2, 1, domain.SelectionLost},
		{"miss", "0-0", 2, 1, domain.SelectionLost},
		{"malformed outcome loses", "2:1", 2, 1, domain.SelectionLost},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Grade(sel(domain.MarketExactScore, tt.outcome), result(tt.home, tt.away, nil))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGrade_DoubleChance(t *testing.T) {
	tests := []struct {
		name    string
		outcome string
		home    int
		away    int
		want    domain.SelectionStatus
	}{
		{"home or draw with home win", domain.OutcomeHomeOrDraw, 2, 0, domain.SelectionWon},
		{"home or draw with draw", domain.OutcomeHomeOrDraw, 1, 1, domain.SelectionWon},
		{"home or draw with away win", domain.OutcomeHomeOrDraw, 0, 1, domain.SelectionLost},
		{"away or draw with away win", domain.OutcomeAwayOrDraw, 0, 2, domain.SelectionWon},
		{"away or draw with draw", domain.OutcomeAwayOrDraw, 2, 2, domain.SelectionWon},
		{"away or draw with home win", domain.OutcomeAwayOrDraw, 1, 0, domain.SelectionLost},
		{"home or away decided", domain.OutcomeHomeOrAway, 0, 1, domain.SelectionWon},
		{"home or away on draw", domain.OutcomeHomeOrAway, 2, 2, domain.SelectionLost},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Grade(sel(domain.MarketDoubleChance, tt.outcome), result(tt.home, tt.away, nil))
			assert.Equal(t, tt.want, got)
		})
	}
}

// The unknown-market fallback grades as lost. This is a preserved legacy
// behavior flagged as a potential correctness gap: a mapping bug upstream
// would silently turn winnable legs into losses.
func TestGrade_UnknownMarketFallsBackToLost(t *testing.T) {
	got := Grade(sel(domain.MarketUnknown, "Casa"), result(2, 1, nil))
	assert.Equal(t, domain.SelectionLost, got)
}

func TestGrade_Deterministic(t *testing.T) {
	s := sel(domain.MarketGoalsOverUnder, "Acima 2.5")
	r := result(2, 1, nil)
	first := Grade(s, r)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Grade(s, r))
	}
}
