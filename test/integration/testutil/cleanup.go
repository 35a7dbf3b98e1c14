//go:build integration

package testutil

import (
	"context"
	"time"
)

// CleanAll truncates all tables in dependency-safe order.
func (env *TestEnv) CleanAll() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	tables := []string{
		// Engagement
		"event_outbox",
		"pending_rewards",
		"notifications",
		"user_inventory",
		"store_items",

		// Competitions
		"mvp_votings",
		"boloes",

		// Betting
		"user_stats",
		"placed_bets",
		"matches",

		// Core
		"level_config",
		"wallet_transactions",
		"wallets",
		"users",
	}

	for _, table := range tables {
		_, _ = env.Pool.Exec(ctx, "TRUNCATE TABLE "+table+" CASCADE")
	}
}
