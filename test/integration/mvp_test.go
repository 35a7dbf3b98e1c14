//go:build integration

package integration

import (
	"context"
	"net/http"
	"testing"

	"github.com/fielbet/platform/test/integration/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMvp_CancelReversesSpentVoteReward(t *testing.T) {
	env := testutil.NewTestEnv(t)

	// The voter earned the 100.00 reward and already spent it: balance 0.
	voterID := testutil.FakeSnowflake()
	env.SeedUser(voterID, "fiel_eleitor", 0, 1, false)
	env.SeedWallet(voterID, 0)

	matchID := env.SeedFinishedMatch("Corinthians", "Palmeiras", 2, 1)
	votingID := env.SeedMvpVoting(matchID, voterID)

	resp := env.AuthPOST("/admin/mvp/"+votingID.String()+"/cancel", nil, env.AdminToken("admin"))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var res struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	testutil.DecodeJSON(t, resp, &res)
	require.True(t, res.Success, res.Message)

	// The reversal overdraws the wallet; the debt stays on the ledger.
	testutil.AssertBalance(t, env, voterID, -10000)
	assert.Equal(t, 1, testutil.CountTransactions(t, env, voterID))

	var status string
	require.NoError(t, env.Pool.QueryRow(context.Background(),
		`SELECT status FROM mvp_votings WHERE id = $1`, votingID).Scan(&status))
	assert.Equal(t, "cancelled", status)
}

func TestMvp_CancelTwiceIsNoOp(t *testing.T) {
	env := testutil.NewTestEnv(t)

	voterID := testutil.FakeSnowflake()
	env.SeedUser(voterID, "fiel_eleitor", 0, 1, false)
	env.SeedWallet(voterID, 10000)

	matchID := env.SeedFinishedMatch("Corinthians", "Santos", 1, 0)
	votingID := env.SeedMvpVoting(matchID, voterID)
	adminToken := env.AdminToken("admin")

	resp := env.AuthPOST("/admin/mvp/"+votingID.String()+"/cancel", nil, adminToken)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	testutil.AssertBalance(t, env, voterID, 0)

	resp = env.AuthPOST("/admin/mvp/"+votingID.String()+"/cancel", nil, adminToken)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// The second cancel reverses nothing.
	testutil.AssertBalance(t, env, voterID, 0)
	assert.Equal(t, 1, testutil.CountTransactions(t, env, voterID))
}
