package domain

// MarketKind is the closed set of betting markets the grader understands.
// Provider market names are mapped to a kind once, at ingestion; everything
// downstream switches on the kind instead of free-form strings.
type MarketKind string

const (
	MarketMatchWinner       MarketKind = "match_winner"
	MarketDrawNoBet         MarketKind = "draw_no_bet"
	MarketGoalsOverUnder    MarketKind = "goals_over_under"
	MarketCornersOverUnder  MarketKind = "corners_over_under"
	MarketCardsOverUnder    MarketKind = "cards_over_under"
	MarketBothTeamsScore    MarketKind = "both_teams_score"
	MarketExactScore        MarketKind = "exact_score"
	MarketDoubleChance      MarketKind = "double_chance"
	MarketHomeGoalsTotal    MarketKind = "home_goals_total"
	MarketAwayGoalsTotal    MarketKind = "away_goals_total"
	MarketHomeCornersTotal  MarketKind = "home_corners_total"
	MarketAwayCornersTotal  MarketKind = "away_corners_total"
	MarketCorners1X2        MarketKind = "corners_1x2"
	MarketUnknown           MarketKind = "unknown"
)

// marketsByProviderName maps the provider's Portuguese market labels to kinds.
var marketsByProviderName = map[string]MarketKind{
	"Vencedor da Partida":                 MarketMatchWinner,
	"Aposta sem Empate":                   MarketDrawNoBet,
	"Gols Acima/Abaixo":                   MarketGoalsOverUnder,
	"Escanteios Acima/Abaixo":             MarketCornersOverUnder,
	"Cartões Acima/Abaixo":                MarketCardsOverUnder,
	"Ambos Marcam":                        MarketBothTeamsScore,
	"Placar Exato":                        MarketExactScore,
	"Dupla Chance":                        MarketDoubleChance,
	"Total de Gols da Casa":               MarketHomeGoalsTotal,
	"Total de Gols do Visitante":          MarketAwayGoalsTotal,
	"Escanteios da Casa Acima/Abaixo":     MarketHomeCornersTotal,
	"Escanteios do Visitante Acima/Abaixo": MarketAwayCornersTotal,
	"Escanteios 1x2":                      MarketCorners1X2,
}

// ParseMarket resolves a provider market label to a MarketKind.
// Unrecognized labels map to MarketUnknown; callers are expected to log a
// warning because unknown markets grade as lost, which may hide a mapping bug.
func ParseMarket(providerName string) MarketKind {
	if kind, ok := marketsByProviderName[providerName]; ok {
		return kind
	}
	return MarketUnknown
}

// RequiresStats reports whether grading this market needs match statistics.
func (k MarketKind) RequiresStats() bool {
	switch k {
	case MarketCornersOverUnder, MarketCardsOverUnder, MarketCorners1X2,
		MarketHomeCornersTotal, MarketAwayCornersTotal:
		return true
	}
	return false
}

// Outcome labels used by 1X2-style and yes/no markets. These are the
// provider's Portuguese labels, preserved verbatim on the wire.
const (
	OutcomeHome       = "Casa"
	OutcomeDraw       = "Empate"
	OutcomeAway       = "Fora"
	OutcomeYes        = "Sim"
	OutcomeNo         = "Não"
	OutcomeHomeOrDraw = "Casa ou Empate"
	OutcomeAwayOrDraw = "Fora ou Empate"
	OutcomeHomeOrAway = "Casa ou Fora"
	OutcomeOver       = "Acima"
	OutcomeUnder      = "Abaixo"
)
