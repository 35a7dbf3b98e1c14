//go:build integration

package integration

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/fielbet/platform/test/integration/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func slipFor(matchID int64) map[string]interface{} {
	return map[string]interface{}{
		"stake": 10000,
		"selections": []map[string]interface{}{
			{
				"match_id":     matchID,
				"home_team":    "Corinthians",
				"away_team":    "Palmeiras",
				"market":       "match_winner",
				"market_label": "Vencedor da Partida",
				"outcome":      "home",
				"odds_decimal": 250,
			},
		},
	}
}

func TestBets_PlaceDebitsStake(t *testing.T) {
	env := testutil.NewTestEnv(t)
	userID := testutil.FakeSnowflake()
	env.SeedUser(userID, "fiel_apostador", 0, 1, false)
	env.DirectCredit(userID, 50000)
	token := env.PlayerToken(userID, "fiel_apostador", false)

	matchID := env.SeedMatch("Corinthians", "Palmeiras", time.Now().Add(24*time.Hour))

	resp := env.AuthPOST("/bets", slipFor(matchID), token)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var bet struct {
		ID        string `json:"id"`
		UserID    string `json:"user_id"`
		Stake     int64  `json:"stake"`
		TotalOdds int64  `json:"total_odds"`
		Status    string `json:"status"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&bet))
	assert.Equal(t, userID, bet.UserID)
	assert.Equal(t, int64(10000), bet.Stake)
	assert.Equal(t, int64(250), bet.TotalOdds)
	assert.Equal(t, "open", bet.Status)

	testutil.AssertBalance(t, env, userID, 40000)
	assert.Equal(t, 2, testutil.CountTransactions(t, env, userID))
}

func TestBets_RejectsClosedMatch(t *testing.T) {
	env := testutil.NewTestEnv(t)
	userID := testutil.FakeSnowflake()
	env.SeedUser(userID, "fiel_atrasado", 0, 1, false)
	env.DirectCredit(userID, 50000)
	token := env.PlayerToken(userID, "fiel_atrasado", false)

	matchID := env.SeedFinishedMatch("Corinthians", "Palmeiras", 2, 1)

	resp := env.AuthPOST("/bets", slipFor(matchID), token)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	testutil.AssertErrorCode(t, resp, "MATCH_CLOSED")

	// Stake must not leave the wallet.
	testutil.AssertBalance(t, env, userID, 50000)
}

func TestBets_RejectsInsufficientBalance(t *testing.T) {
	env := testutil.NewTestEnv(t)
	userID := testutil.FakeSnowflake()
	env.SeedUser(userID, "fiel_liso", 0, 1, false)
	env.DirectCredit(userID, 500)
	token := env.PlayerToken(userID, "fiel_liso", false)

	matchID := env.SeedMatch("Corinthians", "Palmeiras", time.Now().Add(24*time.Hour))

	resp := env.AuthPOST("/bets", slipFor(matchID), token)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	testutil.AssertErrorCode(t, resp, "INSUFFICIENT_BALANCE")

	testutil.AssertBalance(t, env, userID, 500)
}

func TestBets_RejectsEmptySlip(t *testing.T) {
	env := testutil.NewTestEnv(t)
	userID := testutil.FakeSnowflake()
	env.SeedUser(userID, "fiel_vazio", 0, 1, false)
	env.DirectCredit(userID, 50000)
	token := env.PlayerToken(userID, "fiel_vazio", false)

	body := map[string]interface{}{"stake": 10000, "selections": []interface{}{}}
	resp := env.AuthPOST("/bets", body, token)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	testutil.AssertErrorCode(t, resp, "VALIDATION_ERROR")
}

func TestBets_OwnershipEnforced(t *testing.T) {
	env := testutil.NewTestEnv(t)
	owner := testutil.FakeSnowflake()
	other := testutil.FakeSnowflake()
	env.SeedUser(owner, "fiel_dono", 0, 1, false)
	env.SeedUser(other, "fiel_curioso", 0, 1, false)
	env.DirectCredit(owner, 50000)

	matchID := env.SeedMatch("Corinthians", "Palmeiras", time.Now().Add(24*time.Hour))

	placed := env.AuthPOST("/bets", slipFor(matchID), env.PlayerToken(owner, "fiel_dono", false))
	var bet struct {
		ID string `json:"id"`
	}
	testutil.DecodeJSON(t, placed, &bet)

	resp := env.AuthGET("/bets/"+bet.ID, env.PlayerToken(other, "fiel_curioso", false))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	testutil.AssertErrorCode(t, resp, "FORBIDDEN")
}

func TestBets_MyBetsNewestFirst(t *testing.T) {
	env := testutil.NewTestEnv(t)
	userID := testutil.FakeSnowflake()
	env.SeedUser(userID, "fiel_lista", 0, 1, false)
	env.DirectCredit(userID, 100000)
	token := env.PlayerToken(userID, "fiel_lista", false)

	first := env.SeedMatch("Corinthians", "Palmeiras", time.Now().Add(24*time.Hour))
	second := env.SeedMatch("Santos", "Flamengo", time.Now().Add(48*time.Hour))

	env.AuthPOST("/bets", slipFor(first), token).Body.Close()
	env.AuthPOST("/bets", slipFor(second), token).Body.Close()

	resp := env.AuthGET("/bets/me", token)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var bets []struct {
		Selections []struct {
			MatchID int64 `json:"match_id"`
		} `json:"selections"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&bets))
	require.Len(t, bets, 2)
	assert.Equal(t, second, bets[0].Selections[0].MatchID)
}
