//go:build integration

package integration

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/fielbet/platform/internal/domain"
	"github.com/fielbet/platform/internal/ledger"
	"github.com/fielbet/platform/internal/repository"
	"github.com/fielbet/platform/internal/settlement"
	"github.com/fielbet/platform/test/integration/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedResult stands in for the football API and declares every match
// finished with the given score.
type fixedResult struct {
	home, away int
}

func (f fixedResult) FetchFinalResult(_ context.Context, matchID int64) (*domain.FinalResult, error) {
	return &domain.FinalResult{
		MatchID:   matchID,
		Status:    domain.MatchFullTime,
		HomeGoals: f.home,
		AwayGoals: f.away,
	}, nil
}

// newSettler builds an orchestrator against the test database, with the
// provider swapped for a canned result.
func newSettler(env *testutil.TestEnv, provider settlement.ResultProvider) *settlement.Orchestrator {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	userRepo := repository.NewUserRepository()
	notificationRepo := repository.NewNotificationRepository()
	outboxRepo := repository.NewOutboxRepository()
	engine := ledger.NewEngine(repository.NewWalletRepository(), repository.NewTransactionRepository(), outboxRepo)

	return settlement.NewOrchestrator(settlement.OrchestratorDeps{
		Pool:          env.Pool,
		Engine:        engine,
		Provider:      provider,
		Matches:       repository.NewMatchRepository(),
		Bets:          repository.NewBetRepository(),
		Users:         userRepo,
		Stats:         repository.NewStatsRepository(),
		Boloes:        repository.NewBolaoRepository(),
		LevelConfig:   repository.NewLevelConfigRepository(),
		Notifications: notificationRepo,
		Pending:       repository.NewPendingRewardRepository(),
		Outbox:        outboxRepo,
		Achievements:  settlement.NewGranter(userRepo, notificationRepo, outboxRepo, logger),
		Logger:        logger,
	})
}

func slipWithOutcome(matchID int64, outcome string) map[string]interface{} {
	return map[string]interface{}{
		"stake": 10000,
		"selections": []map[string]interface{}{
			{
				"match_id":     matchID,
				"home_team":    "Corinthians",
				"away_team":    "Palmeiras",
				"market":       "match_winner",
				"market_label": "Vencedor da Partida",
				"outcome":      outcome,
				"odds_decimal": 250,
			},
		},
	}
}

func betRow(t *testing.T, env *testutil.TestEnv, userID string) (status string, winnings int64) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := env.Pool.QueryRow(ctx,
		`SELECT status, winnings FROM placed_bets WHERE user_id = $1`, userID).
		Scan(&status, &winnings)
	require.NoError(t, err)
	return status, winnings
}

func unlockedAchievements(t *testing.T, env *testutil.TestEnv, userID string) []string {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	var unlocked []string
	err := env.Pool.QueryRow(ctx,
		`SELECT unlocked_achievements FROM users WHERE user_id = $1`, userID).Scan(&unlocked)
	require.NoError(t, err)
	return unlocked
}

func TestSettlement_WinningBetPaidOut(t *testing.T) {
	env := testutil.NewTestEnv(t)

	winnerID := testutil.FakeSnowflake()
	env.SeedUser(winnerID, "fiel_vencedor", 0, 1, false)
	env.DirectCredit(winnerID, 50000)

	loserID := testutil.FakeSnowflake()
	env.SeedUser(loserID, "fiel_azarado", 0, 1, false)
	env.DirectCredit(loserID, 20000)

	matchID := env.SeedMatch("Corinthians", "Palmeiras", time.Now().Add(24*time.Hour))

	resp := env.AuthPOST("/bets", slipWithOutcome(matchID, "home"), env.PlayerToken(winnerID, "fiel_vencedor", false))
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp = env.AuthPOST("/bets", slipWithOutcome(matchID, "away"), env.PlayerToken(loserID, "fiel_azarado", false))
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	res := newSettler(env, fixedResult{home: 2, away: 0}).SettleMatch(context.Background(), matchID)
	require.True(t, res.Success, res.Message)

	// Winner: 50000 credit - 10000 stake + 25000 payout at odds 2.50.
	testutil.AssertBalance(t, env, winnerID, 65000)
	status, winnings := betRow(t, env, winnerID)
	assert.Equal(t, "won", status)
	assert.Equal(t, int64(25000), winnings)
	assert.Contains(t, unlockedAchievements(t, env, winnerID), "first_win")
	assert.Equal(t, 3, testutil.CountTransactions(t, env, winnerID))

	// Loser: the stake stays gone, no further ledger movement.
	testutil.AssertBalance(t, env, loserID, 10000)
	status, winnings = betRow(t, env, loserID)
	assert.Equal(t, "lost", status)
	assert.Equal(t, int64(0), winnings)
	assert.Contains(t, unlockedAchievements(t, env, loserID), "first_loss")
	assert.Equal(t, 2, testutil.CountTransactions(t, env, loserID))

	ctx := context.Background()
	var betsWon, betsLost int64
	require.NoError(t, env.Pool.QueryRow(ctx,
		`SELECT bets_won FROM user_stats WHERE user_id = $1`, winnerID).Scan(&betsWon))
	require.NoError(t, env.Pool.QueryRow(ctx,
		`SELECT bets_lost FROM user_stats WHERE user_id = $1`, loserID).Scan(&betsLost))
	assert.Equal(t, int64(1), betsWon)
	assert.Equal(t, int64(1), betsLost)
}

func TestSettlement_SecondRunIsNoOp(t *testing.T) {
	env := testutil.NewTestEnv(t)

	userID := testutil.FakeSnowflake()
	env.SeedUser(userID, "fiel_repetido", 0, 1, false)
	env.DirectCredit(userID, 50000)

	matchID := env.SeedMatch("Corinthians", "Santos", time.Now().Add(24*time.Hour))
	resp := env.AuthPOST("/bets", slipWithOutcome(matchID, "home"), env.PlayerToken(userID, "fiel_repetido", false))
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	settler := newSettler(env, fixedResult{home: 1, away: 0})
	require.True(t, settler.SettleMatch(context.Background(), matchID).Success)

	txsAfterFirst := testutil.CountTransactions(t, env, userID)

	res := settler.SettleMatch(context.Background(), matchID)
	require.True(t, res.Success, res.Message)
	assert.Contains(t, res.Message, "already settled")

	testutil.AssertBalance(t, env, userID, 65000)
	assert.Equal(t, txsAfterFirst, testutil.CountTransactions(t, env, userID))
	status, _ := betRow(t, env, userID)
	assert.Equal(t, "won", status)
}

func TestSettlement_BolaoExactScoreWinnerTakesPool(t *testing.T) {
	env := testutil.NewTestEnv(t)

	matchID := env.SeedMatch("Corinthians", "Flamengo", time.Now().Add(24*time.Hour))

	var bolao struct {
		ID string `json:"id"`
	}
	resp := env.AuthPOST("/admin/boloes", map[string]int64{"match_id": matchID}, env.AdminToken("admin"))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	testutil.DecodeJSON(t, resp, &bolao)

	winnerID := testutil.FakeSnowflake()
	env.SeedUser(winnerID, "fiel_pitonisa", 2000, 3, false)
	env.DirectCredit(winnerID, 10000)
	loserID := testutil.FakeSnowflake()
	env.SeedUser(loserID, "fiel_chutador", 2000, 3, false)
	env.DirectCredit(loserID, 10000)

	resp = env.AuthPOST("/boloes/"+bolao.ID+"/join", map[string]string{"guess": "2-1"}, env.PlayerToken(winnerID, "fiel_pitonisa", false))
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp = env.AuthPOST("/boloes/"+bolao.ID+"/join", map[string]string{"guess": "0-0"}, env.PlayerToken(loserID, "fiel_chutador", false))
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	res := newSettler(env, fixedResult{home: 2, away: 1}).SettleMatch(context.Background(), matchID)
	require.True(t, res.Success, res.Message)

	// The exact-score guesser takes the whole two-entry pool.
	testutil.AssertBalance(t, env, winnerID, 10000-domain.BolaoEntryFee+2*domain.BolaoEntryFee)
	testutil.AssertBalance(t, env, loserID, 10000-domain.BolaoEntryFee)

	ctx := context.Background()
	var status string
	var winnersJSON []byte
	require.NoError(t, env.Pool.QueryRow(ctx,
		`SELECT status, winners FROM boloes WHERE id = $1`, bolao.ID).Scan(&status, &winnersJSON))
	assert.Equal(t, "paid", status)
	assert.Contains(t, string(winnersJSON), winnerID)
}

func TestSettlement_BolaoNoWinnerRefundsEntries(t *testing.T) {
	env := testutil.NewTestEnv(t)

	matchID := env.SeedMatch("Corinthians", "Grêmio", time.Now().Add(24*time.Hour))

	var bolao struct {
		ID string `json:"id"`
	}
	resp := env.AuthPOST("/admin/boloes", map[string]int64{"match_id": matchID}, env.AdminToken("admin"))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	testutil.DecodeJSON(t, resp, &bolao)

	userID := testutil.FakeSnowflake()
	env.SeedUser(userID, "fiel_otimista", 2000, 3, false)
	env.DirectCredit(userID, 10000)

	resp = env.AuthPOST("/boloes/"+bolao.ID+"/join", map[string]string{"guess": "3-0"}, env.PlayerToken(userID, "fiel_otimista", false))
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	res := newSettler(env, fixedResult{home: 1, away: 1}).SettleMatch(context.Background(), matchID)
	require.True(t, res.Success, res.Message)

	testutil.AssertBalance(t, env, userID, 10000)

	var status string
	require.NoError(t, env.Pool.QueryRow(context.Background(),
		`SELECT status FROM boloes WHERE id = $1`, bolao.ID).Scan(&status))
	assert.Equal(t, "paid", status)
}
