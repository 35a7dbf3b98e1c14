//go:build integration

package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// PlayerToken generates a JWT for a community member.
func (env *TestEnv) PlayerToken(discordID, username string, isVIP bool) string {
	env.t.Helper()
	token, err := env.JWTMgr.GeneratePlayerToken(discordID, username, isVIP)
	if err != nil {
		env.t.Fatalf("PlayerToken: %v", err)
	}
	return token
}

// AdminToken generates a JWT for the admin surface with the given role.
func (env *TestEnv) AdminToken(role string) string {
	env.t.Helper()
	token, err := env.JWTMgr.GenerateAdminToken(fmt.Sprintf("admin_%s", uuid.New().String()[:8]), role)
	if err != nil {
		env.t.Fatalf("AdminToken: %v", err)
	}
	return token
}

// GET performs an unauthenticated GET request.
func (env *TestEnv) GET(path string) *http.Response {
	env.t.Helper()
	resp, err := http.Get(env.Server.URL + path)
	if err != nil {
		env.t.Fatalf("GET %s: %v", path, err)
	}
	return resp
}

// POST performs a POST request with optional auth token.
func (env *TestEnv) POST(path string, body interface{}, token string) *http.Response {
	env.t.Helper()
	return env.request("POST", path, body, token)
}

// AuthGET performs an authenticated GET request.
func (env *TestEnv) AuthGET(path, token string) *http.Response {
	env.t.Helper()
	req, err := http.NewRequest("GET", env.Server.URL+path, nil)
	if err != nil {
		env.t.Fatalf("AuthGET %s: new request: %v", path, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		env.t.Fatalf("AuthGET %s: %v", path, err)
	}
	return resp
}

// AuthPOST performs an authenticated POST request.
func (env *TestEnv) AuthPOST(path string, body interface{}, token string) *http.Response {
	env.t.Helper()
	return env.request("POST", path, body, token)
}

// AuthPUT performs an authenticated PUT request.
func (env *TestEnv) AuthPUT(path string, body interface{}, token string) *http.Response {
	env.t.Helper()
	return env.request("PUT", path, body, token)
}

// AuthDELETE performs an authenticated DELETE request.
func (env *TestEnv) AuthDELETE(path, token string) *http.Response {
	env.t.Helper()
	req, err := http.NewRequest("DELETE", env.Server.URL+path, nil)
	if err != nil {
		env.t.Fatalf("DELETE %s: new request: %v", path, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		env.t.Fatalf("DELETE %s: %v", path, err)
	}
	return resp
}

// OPTIONS performs an OPTIONS request with an Origin header.
func (env *TestEnv) OPTIONS(path string) *http.Response {
	env.t.Helper()
	req, err := http.NewRequest("OPTIONS", env.Server.URL+path, nil)
	if err != nil {
		env.t.Fatalf("OPTIONS %s: new request: %v", path, err)
	}
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		env.t.Fatalf("OPTIONS %s: %v", path, err)
	}
	return resp
}

// GETWithHeaders performs a GET request with custom headers.
func (env *TestEnv) GETWithHeaders(path string, headers map[string]string) *http.Response {
	env.t.Helper()
	req, err := http.NewRequest("GET", env.Server.URL+path, nil)
	if err != nil {
		env.t.Fatalf("GETWithHeaders %s: new request: %v", path, err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		env.t.Fatalf("GETWithHeaders %s: %v", path, err)
	}
	return resp
}

func (env *TestEnv) request(method, path string, body interface{}, token string) *http.Response {
	env.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			env.t.Fatalf("%s %s: encode: %v", method, path, err)
		}
	}
	req, err := http.NewRequest(method, env.Server.URL+path, &buf)
	if err != nil {
		env.t.Fatalf("%s %s: new request: %v", method, path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		env.t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

// SeedUser inserts a user row with the given XP and level.
func (env *TestEnv) SeedUser(discordID, username string, xp int64, level int, isVIP bool) {
	env.t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := env.Pool.Exec(ctx, `
		INSERT INTO users (user_id, username, xp, level, is_vip)
		VALUES ($1, $2, $3, $4, $5)`,
		discordID, username, xp, level, isVIP)
	if err != nil {
		env.t.Fatalf("SeedUser: %v", err)
	}
}

// SeedMatch inserts an upcoming fixture that is open for wagering and
// returns its ID.
func (env *TestEnv) SeedMatch(homeTeam, awayTeam string, kickoff time.Time) int64 {
	env.t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	matchID := time.Now().UnixNano() % 1_000_000_000

	_, err := env.Pool.Exec(ctx, `
		INSERT INTO matches (id, home_team, away_team, home_team_id, away_team_id, league, kickoff_at, status)
		VALUES ($1, $2, $3, 1000, 1001, 'Brasileirão Série A', $4, 'NS')`,
		matchID, homeTeam, awayTeam, kickoff)
	if err != nil {
		env.t.Fatalf("SeedMatch: %v", err)
	}
	return matchID
}

// SeedFinishedMatch inserts a full-time fixture with the given score and
// returns its ID.
func (env *TestEnv) SeedFinishedMatch(homeTeam, awayTeam string, homeGoals, awayGoals int) int64 {
	env.t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	matchID := time.Now().UnixNano() % 1_000_000_000

	_, err := env.Pool.Exec(ctx, `
		INSERT INTO matches (id, home_team, away_team, home_team_id, away_team_id, league, kickoff_at, status, home_goals, away_goals)
		VALUES ($1, $2, $3, 1000, 1001, 'Brasileirão Série A', $4, 'FT', $5, $6)`,
		matchID, homeTeam, awayTeam, time.Now().Add(-3*time.Hour), homeGoals, awayGoals)
	if err != nil {
		env.t.Fatalf("SeedFinishedMatch: %v", err)
	}
	return matchID
}

// SeedStoreItem inserts an active store item and returns its ID.
func (env *TestEnv) SeedStoreItem(name string, priceCentavos int64) uuid.UUID {
	env.t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var itemID uuid.UUID
	err := env.Pool.QueryRow(ctx, `
		INSERT INTO store_items (name, description, price, active)
		VALUES ($1, 'Item de teste', $2, true) RETURNING id`,
		name, priceCentavos).Scan(&itemID)
	if err != nil {
		env.t.Fatalf("SeedStoreItem: %v", err)
	}
	return itemID
}

// DirectCredit creates the wallet if needed and credits it, recording a
// ledger entry. Bypasses the HTTP surface for test setup.
func (env *TestEnv) DirectCredit(discordID string, amountCentavos int64) {
	env.t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	tx, err := env.Pool.Begin(ctx)
	if err != nil {
		env.t.Fatalf("DirectCredit: begin tx: %v", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO wallets (user_id, balance) VALUES ($1, 0)
		ON CONFLICT (user_id) DO NOTHING`, discordID)
	if err != nil {
		env.t.Fatalf("DirectCredit: ensure wallet: %v", err)
	}

	var balanceAfter int64
	err = tx.QueryRow(ctx, `
		UPDATE wallets SET balance = balance + $2, updated_at = now()
		WHERE user_id = $1 RETURNING balance`, discordID, amountCentavos).Scan(&balanceAfter)
	if err != nil {
		env.t.Fatalf("DirectCredit: update balance: %v", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO wallet_transactions (user_id, type, description, amount, balance_after)
		VALUES ($1, 'bonus', 'Crédito de teste', $2, $3)`,
		discordID, amountCentavos, balanceAfter)
	if err != nil {
		env.t.Fatalf("DirectCredit: insert tx: %v", err)
	}

	if err := tx.Commit(ctx); err != nil {
		env.t.Fatalf("DirectCredit: commit: %v", err)
	}
}

// SeedWallet inserts a wallet row with the given balance, without any
// ledger entry.
func (env *TestEnv) SeedWallet(discordID string, balanceCentavos int64) {
	env.t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := env.Pool.Exec(ctx, `
		INSERT INTO wallets (user_id, balance) VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET balance = EXCLUDED.balance`,
		discordID, balanceCentavos)
	if err != nil {
		env.t.Fatalf("SeedWallet: %v", err)
	}
}

// SeedMvpVoting inserts an open MVP voting with a one-player lineup and
// one vote per given voter, and returns its ID.
func (env *TestEnv) SeedMvpVoting(matchID int64, voterIDs ...string) uuid.UUID {
	env.t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	lineups := []map[string]interface{}{
		{"player_id": 777, "name": "Yuri Alberto", "team": "Corinthians"},
	}
	votes := make([]map[string]interface{}, 0, len(voterIDs))
	for _, id := range voterIDs {
		votes = append(votes, map[string]interface{}{
			"user_id":   id,
			"player_id": 777,
			"voted_at":  time.Now().UTC().Format(time.RFC3339),
		})
	}
	lineupsJSON, _ := json.Marshal(lineups)
	votesJSON, _ := json.Marshal(votes)

	votingID := uuid.New()
	_, err := env.Pool.Exec(ctx, `
		INSERT INTO mvp_votings (id, match_id, home_team, away_team, lineups, votes, status, ends_at)
		VALUES ($1, $2, 'Corinthians', 'Palmeiras', $3, $4, 'open', $5)`,
		votingID, matchID, lineupsJSON, votesJSON, time.Now().Add(time.Hour))
	if err != nil {
		env.t.Fatalf("SeedMvpVoting: %v", err)
	}
	return votingID
}

// FakeSnowflake returns a plausible Discord snowflake for test users.
func FakeSnowflake() string {
	return fmt.Sprintf("%d", 200_000_000_000_000_000+time.Now().UnixNano()%100_000_000_000_000_000)
}
