package provider

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fielbet/platform/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixtureJSON = `{
	"response": [{
		"fixture": {"id": 9001, "date": "2026-09-01T20:00:00+00:00", "status": {"short": "FT"}},
		"league": {"name": "Brasileirão Série A"},
		"teams": {
			"home": {"id": 131, "name": "Corinthians", "logo": "https://example.com/131.png"},
			"away": {"id": 126, "name": "São Paulo", "logo": "https://example.com/126.png"}
		},
		"goals": {"home": 2, "away": 1}
	}]
}`

const statisticsJSON = `{
	"response": [
		{"team": {"id": 131, "name": "Corinthians"}, "statistics": [
			{"type": "Corner Kicks", "value": 7},
			{"type": "Yellow Cards", "value": 2},
			{"type": "Red Cards", "value": null}
		]},
		{"team": {"id": 126, "name": "São Paulo"}, "statistics": [
			{"type": "Corner Kicks", "value": 3},
			{"type": "Yellow Cards", "value": 4},
			{"type": "Red Cards", "value": 1}
		]}
	]
}`

func testClient(t *testing.T, handler http.HandlerFunc) *FootballAPIClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewFootballAPIClient("test-key", slog.Default())
	c.baseURL = srv.URL
	return c
}

func TestFetchFinalResult(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("x-apisports-key"))
		switch r.URL.Path {
		case "/fixtures":
			w.Write([]byte(fixtureJSON))
		case "/fixtures/statistics":
			w.Write([]byte(statisticsJSON))
		default:
			http.NotFound(w, r)
		}
	})

	result, err := c.FetchFinalResult(context.Background(), 9001)
	require.NoError(t, err)
	assert.Equal(t, int64(9001), result.MatchID)
	assert.Equal(t, domain.MatchFullTime, result.Status)
	assert.Equal(t, 2, result.HomeGoals)
	assert.Equal(t, 1, result.AwayGoals)

	require.NotNil(t, result.Stats)
	assert.Equal(t, 7, result.Stats.HomeCorners)
	assert.Equal(t, 3, result.Stats.AwayCorners)
	assert.Equal(t, 10, result.Stats.TotalCorners())
	assert.Equal(t, 7, result.Stats.TotalCards())
}

func TestFetchFinalResult_StatsFailureIsSoft(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/fixtures":
			w.Write([]byte(fixtureJSON))
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	})

	result, err := c.FetchFinalResult(context.Background(), 9001)
	require.NoError(t, err)
	assert.Nil(t, result.Stats)
}

func TestFetchFinalResult_EmptyResponse(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"response": []}`))
	})

	_, err := c.FetchFinalResult(context.Background(), 404404)
	require.Error(t, err)
	var appErr *domain.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}

func TestFetchFixture(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(fixtureJSON))
	})

	match, err := c.FetchFixture(context.Background(), 9001)
	require.NoError(t, err)
	assert.Equal(t, "Corinthians", match.HomeTeam)
	assert.Equal(t, "São Paulo", match.AwayTeam)
	assert.Equal(t, "Brasileirão Série A", match.League)
	require.NotNil(t, match.HomeGoals)
	assert.Equal(t, 2, *match.HomeGoals)
}

func TestCircuitOpensAfterRepeatedFailures(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	for i := 0; i < 5; i++ {
		_, err := c.FetchFinalResult(context.Background(), 1)
		require.Error(t, err)
	}

	// The breaker is open now; the request never reaches the server.
	_, err := c.FetchFinalResult(context.Background(), 1)
	require.Error(t, err)
	var appErr *domain.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "UPSTREAM_ERROR", appErr.Code)
	assert.Contains(t, appErr.Message, "circuit open")
}

func TestStatValue(t *testing.T) {
	assert.Equal(t, 7, statValue(float64(7)))
	assert.Equal(t, 45, statValue("45%"))
	assert.Equal(t, 3, statValue("3"))
	assert.Equal(t, 0, statValue(nil))
}
