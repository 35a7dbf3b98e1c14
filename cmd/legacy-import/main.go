// Command legacy-import loads a JSON export of the legacy MongoDB users
// collection into Postgres, verifies the imported balances and prints a
// cutover readiness report.
//
// Usage: legacy-import -users users.json [-check-only]
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/fielbet/platform/internal/infra"
	"github.com/fielbet/platform/internal/migration"
	"github.com/joho/godotenv"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	usersPath := flag.String("users", "", "path to the legacy users JSON export")
	checkOnly := flag.Bool("check-only", false, "skip the import and only run the readiness check")
	flag.Parse()

	if err := run(logger, *usersPath, *checkOnly); err != nil {
		logger.Error("import failed", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger, usersPath string, checkOnly bool) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	_ = godotenv.Load()
	cfg, err := infra.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	pool, err := infra.NewPostgresPool(ctx, cfg, "fielbet-legacy-import")
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pool.Close()

	importer := migration.NewLegacyImporter(pool, logger)
	mapper := migration.NewBetMapper(pool, logger)

	if !checkOnly {
		if usersPath == "" {
			return fmt.Errorf("-users is required unless -check-only is set")
		}
		users, err := loadUsers(usersPath)
		if err != nil {
			return err
		}

		for _, u := range users {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := importer.ImportUser(ctx, u); err != nil {
				return err
			}
		}
		logger.Info("import complete", "users", len(users))

		comparisons, err := mapper.CompareBalances(ctx, users)
		if err != nil {
			return fmt.Errorf("compare balances: %w", err)
		}
		var mismatches int
		for _, c := range comparisons {
			if !c.Match {
				mismatches++
				logger.Warn("balance mismatch",
					"user_id", c.UserID,
					"legacy", c.LegacyBalance,
					"wallet", c.WalletBalance)
			}
		}
		logger.Info("balance verification complete",
			"checked", len(comparisons), "mismatches", mismatches)
	}

	readiness, err := mapper.CheckCutoverReadiness(ctx)
	if err != nil {
		return fmt.Errorf("readiness check: %w", err)
	}
	logger.Info("cutover readiness",
		"ready", readiness.Ready,
		"message", readiness.Message,
		"transactions", readiness.TransactionsCount)
	return nil
}

func loadUsers(path string) ([]migration.LegacyUser, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read export: %w", err)
	}
	var users []migration.LegacyUser
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, fmt.Errorf("parse export: %w", err)
	}
	return users, nil
}
