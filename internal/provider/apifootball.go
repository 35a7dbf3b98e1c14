package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/fielbet/platform/internal/domain"
	"github.com/fielbet/platform/internal/guard"
)

const circuitKey = "api-football"

// ── API-Football wire types ──

type fixtureEnvelope struct {
	Response []fixtureEntry `json:"response"`
}

type fixtureEntry struct {
	Fixture struct {
		ID     int64  `json:"id"`
		Date   string `json:"date"`
		Status struct {
			Short string `json:"short"`
		} `json:"status"`
	} `json:"fixture"`
	League struct {
		Name string `json:"name"`
	} `json:"league"`
	Teams struct {
		Home fixtureTeam `json:"home"`
		Away fixtureTeam `json:"away"`
	} `json:"teams"`
	Goals struct {
		Home *int `json:"home"`
		Away *int `json:"away"`
	} `json:"goals"`
}

type fixtureTeam struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Logo string `json:"logo"`
}

type statisticsEnvelope struct {
	Response []struct {
		Team       fixtureTeam `json:"team"`
		Statistics []struct {
			Type  string      `json:"type"`
			Value interface{} `json:"value"`
		} `json:"statistics"`
	} `json:"response"`
}

type lineupEnvelope struct {
	Response []struct {
		Team   fixtureTeam `json:"team"`
		StartXI []struct {
			Player struct {
				ID    int64  `json:"id"`
				Name  string `json:"name"`
				Photo string `json:"photo"`
			} `json:"player"`
		} `json:"startXI"`
	} `json:"response"`
}

// ── FootballAPIClient ──

// FootballAPIClient talks to the API-Football service. All calls go
// through a circuit breaker; once the upstream starts failing, settlement
// backs off instead of hammering a dead API.
type FootballAPIClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
	breaker *guard.CircuitBreaker
	logger  *slog.Logger
}

// NewFootballAPIClient creates an API-Football client.
func NewFootballAPIClient(apiKey string, logger *slog.Logger) *FootballAPIClient {
	return &FootballAPIClient{
		baseURL: "https://v3.football.api-sports.io",
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 30 * time.Second},
		breaker: guard.NewCircuitBreaker(5, 2*time.Minute),
		logger:  logger,
	}
}

func (c *FootballAPIClient) get(ctx context.Context, path string) ([]byte, error) {
	if verdict := c.breaker.Check(ctx, circuitKey); !verdict.Allowed {
		return nil, domain.ErrUpstream(verdict.Reason, nil)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("x-apisports-key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		c.breaker.RecordFailure(circuitKey)
		return nil, domain.ErrUpstream("fixture api request failed", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	remaining := resp.Header.Get("x-ratelimit-requests-remaining")
	c.logger.Debug("fixture api request", "path", path, "status", resp.StatusCode, "remaining", remaining)

	if resp.StatusCode != http.StatusOK {
		c.breaker.RecordFailure(circuitKey)
		snippet := string(body)
		if len(snippet) > 200 {
			snippet = snippet[:200]
		}
		return nil, domain.ErrUpstream(fmt.Sprintf("fixture api returned %d: %s", resp.StatusCode, snippet), nil)
	}

	c.breaker.RecordSuccess(circuitKey)
	return body, nil
}

// FetchFixture returns the current state of one fixture as a Match.
func (c *FootballAPIClient) FetchFixture(ctx context.Context, matchID int64) (*domain.Match, error) {
	body, err := c.get(ctx, fmt.Sprintf("/fixtures?id=%d", matchID))
	if err != nil {
		return nil, err
	}

	var env fixtureEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, domain.ErrUpstream("decode fixture response", err)
	}
	if len(env.Response) == 0 {
		return nil, domain.ErrNotFound("fixture", strconv.FormatInt(matchID, 10))
	}

	entry := env.Response[0]
	kickoff, err := time.Parse(time.RFC3339, entry.Fixture.Date)
	if err != nil {
		return nil, domain.ErrUpstream("parse fixture date", err)
	}

	return &domain.Match{
		ID:         entry.Fixture.ID,
		HomeTeam:   entry.Teams.Home.Name,
		AwayTeam:   entry.Teams.Away.Name,
		HomeTeamID: entry.Teams.Home.ID,
		AwayTeamID: entry.Teams.Away.ID,
		HomeLogo:   entry.Teams.Home.Logo,
		AwayLogo:   entry.Teams.Away.Logo,
		League:     entry.League.Name,
		KickoffAt:  kickoff,
		Status:     domain.MatchStatus(entry.Fixture.Status.Short),
		HomeGoals:  entry.Goals.Home,
		AwayGoals:  entry.Goals.Away,
	}, nil
}

// FetchFinalResult re-fetches a fixture for settlement. The caller decides
// what to do with a non-finished status. Statistics are best-effort: when
// the provider has none, the result carries nil stats and stats-dependent
// markets void.
func (c *FootballAPIClient) FetchFinalResult(ctx context.Context, matchID int64) (*domain.FinalResult, error) {
	body, err := c.get(ctx, fmt.Sprintf("/fixtures?id=%d", matchID))
	if err != nil {
		return nil, err
	}

	var env fixtureEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, domain.ErrUpstream("decode fixture response", err)
	}
	if len(env.Response) == 0 {
		return nil, domain.ErrNotFound("fixture", strconv.FormatInt(matchID, 10))
	}

	entry := env.Response[0]
	result := &domain.FinalResult{
		MatchID: entry.Fixture.ID,
		Status:  domain.MatchStatus(entry.Fixture.Status.Short),
	}
	if entry.Goals.Home != nil {
		result.HomeGoals = *entry.Goals.Home
	}
	if entry.Goals.Away != nil {
		result.AwayGoals = *entry.Goals.Away
	}

	if result.Status.IsFinished() {
		stats, err := c.fetchStatistics(ctx, matchID, entry.Teams.Home.ID)
		if err != nil {
			c.logger.Warn("fixture statistics unavailable", "match_id", matchID, "error", err)
		} else {
			result.Stats = stats
		}
	}
	return result, nil
}

// FetchLineups returns the starting elevens for the MVP ballot.
func (c *FootballAPIClient) FetchLineups(ctx context.Context, matchID int64) ([]domain.MvpPlayer, error) {
	body, err := c.get(ctx, fmt.Sprintf("/fixtures/lineups?fixture=%d", matchID))
	if err != nil {
		return nil, err
	}

	var env lineupEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, domain.ErrUpstream("decode lineup response", err)
	}

	var players []domain.MvpPlayer
	for _, side := range env.Response {
		for _, slot := range side.StartXI {
			players = append(players, domain.MvpPlayer{
				PlayerID: slot.Player.ID,
				Name:     slot.Player.Name,
				Team:     side.Team.Name,
				Photo:    slot.Player.Photo,
			})
		}
	}
	if len(players) == 0 {
		return nil, domain.ErrNotFound("lineups", strconv.FormatInt(matchID, 10))
	}
	return players, nil
}

func (c *FootballAPIClient) fetchStatistics(ctx context.Context, matchID, homeTeamID int64) (*domain.MatchStats, error) {
	body, err := c.get(ctx, fmt.Sprintf("/fixtures/statistics?fixture=%d", matchID))
	if err != nil {
		return nil, err
	}

	var env statisticsEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, domain.ErrUpstream("decode statistics response", err)
	}
	if len(env.Response) < 2 {
		return nil, fmt.Errorf("statistics incomplete: %d team(s)", len(env.Response))
	}

	stats := &domain.MatchStats{}
	for _, side := range env.Response {
		isHome := side.Team.ID == homeTeamID
		for _, entry := range side.Statistics {
			value := statValue(entry.Value)
			switch strings.ToLower(entry.Type) {
			case "corner kicks":
				if isHome {
					stats.HomeCorners = value
				} else {
					stats.AwayCorners = value
				}
			case "yellow cards":
				if isHome {
					stats.HomeYellowCards = value
				} else {
					stats.AwayYellowCards = value
				}
			case "red cards":
				if isHome {
					stats.HomeRedCards = value
				} else {
					stats.AwayRedCards = value
				}
			}
		}
	}
	return stats, nil
}

// statValue tolerates the provider's mixed typing: numbers arrive as
// float64, missing values as nil, and the odd field as a string.
func statValue(v interface{}) int {
	switch t := v.(type) {
	case float64:
		return int(t)
	case string:
		n, _ := strconv.Atoi(strings.TrimSuffix(t, "%"))
		return n
	default:
		return 0
	}
}
