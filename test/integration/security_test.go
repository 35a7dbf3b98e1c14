//go:build integration

package integration

import (
	"net/http"
	"testing"

	"github.com/fielbet/platform/test/integration/testutil"
	"github.com/stretchr/testify/assert"
)

func TestSecurity_HealthIsPublic(t *testing.T) {
	env := testutil.NewTestEnv(t)

	resp := env.GET("/health")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestSecurity_RankingIsPublic(t *testing.T) {
	env := testutil.NewTestEnv(t)

	resp := env.GET("/ranking")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestSecurity_MissingTokenRejected(t *testing.T) {
	env := testutil.NewTestEnv(t)

	resp := env.GET("/me")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestSecurity_GarbageTokenRejected(t *testing.T) {
	env := testutil.NewTestEnv(t)

	resp := env.AuthGET("/me", "not-a-jwt")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestSecurity_WrongSecretRejected(t *testing.T) {
	env := testutil.NewTestEnv(t)

	// Token signed with a different secret must not validate.
	forged := "eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9." +
		"eyJzdWIiOiIyMDM3MTYwODM3OTc3MjEwODgiLCJyZWFsbSI6InBsYXllciJ9." +
		"invalidsignature"
	resp := env.AuthGET("/wallet/balance", forged)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestSecurity_AdminTokenRejectedOnPlayerRoutes(t *testing.T) {
	env := testutil.NewTestEnv(t)
	token := env.AdminToken("superadmin")

	resp := env.AuthGET("/wallet/balance", token)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestSecurity_CORSPreflight(t *testing.T) {
	env := testutil.NewTestEnv(t)

	resp := env.OPTIONS("/bets")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Contains(t, resp.Header.Get("Access-Control-Allow-Headers"), "Authorization")
}

func TestSecurity_OversizedBodyRejected(t *testing.T) {
	env := testutil.NewTestEnv(t)
	userID := testutil.FakeSnowflake()
	env.SeedUser(userID, "fiel_gigante", 0, 1, false)
	token := env.PlayerToken(userID, "fiel_gigante", false)

	// Bodies over 1 MiB never reach the decoder.
	huge := map[string]string{"guess": string(make([]byte, 2<<20))}
	resp := env.AuthPOST("/bets", huge, token)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
