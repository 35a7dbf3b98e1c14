// Package migration imports data from the legacy MongoDB deployment into
// Postgres. The legacy app stored money as reais in floating point and
// keyed bets by ObjectID; here everything becomes centavos and UUIDs, with
// Discord snowflakes staying the primary user key on both sides.
package migration

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"math"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// LegacyImporter copies legacy documents into the Postgres schema.
// Imports are idempotent: re-running skips rows that already exist, so a
// partial run can simply be restarted.
type LegacyImporter struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewLegacyImporter creates a LegacyImporter.
func NewLegacyImporter(pool *pgxpool.Pool, logger *slog.Logger) *LegacyImporter {
	return &LegacyImporter{pool: pool, logger: logger}
}

// DeterministicUUID generates a UUID from a legacy ObjectID using SHA256.
// The same ObjectID always maps to the same UUID, so re-imports and
// cross-references stay stable.
func DeterministicUUID(namespace, legacyID string) uuid.UUID {
	h := sha256.New()
	h.Write([]byte(namespace))
	h.Write([]byte(":"))
	h.Write([]byte(legacyID))
	digest := h.Sum(nil)

	// Use first 16 bytes as UUID, set version 5 (SHA-based)
	var id uuid.UUID
	copy(id[:], digest[:16])
	id[6] = (id[6] & 0x0f) | 0x50 // version 5
	id[8] = (id[8] & 0x3f) | 0x80 // variant RFC4122
	return id
}

// DeterministicUUIDHex returns the hex string of the deterministic UUID.
func DeterministicUUIDHex(namespace, legacyID string) string {
	return DeterministicUUID(namespace, legacyID).String()
}

// SHA256Hex returns the full SHA256 hex digest of namespace:legacyID.
func SHA256Hex(namespace, legacyID string) string {
	h := sha256.New()
	h.Write([]byte(namespace))
	h.Write([]byte(":"))
	h.Write([]byte(legacyID))
	return hex.EncodeToString(h.Sum(nil))
}

// LegacyUser mirrors the legacy user document.
type LegacyUser struct {
	DiscordID string  `json:"discordId"`
	Username  string  `json:"username"`
	Money     float64 `json:"money"`
	XP        int64   `json:"xp"`
	Level     int     `json:"level"`
	IsVIP     bool    `json:"isVip"`
}

// ReaisToCentavos converts a legacy floating point amount to centavos,
// rounding half away from zero the way the legacy app displayed values.
func ReaisToCentavos(reais float64) int64 {
	return int64(math.Round(reais * 100))
}

// ImportUser inserts the user row and its wallet. Existing rows are left
// untouched so a live account is never overwritten by stale export data.
func (m *LegacyImporter) ImportUser(ctx context.Context, legacy LegacyUser) error {
	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin import tx: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO users (user_id, username, xp, level, is_vip, unlocked_achievements)
		VALUES ($1, $2, $3, $4, $5, '{}')
		ON CONFLICT (user_id) DO NOTHING`,
		legacy.DiscordID, legacy.Username, legacy.XP, legacy.Level, legacy.IsVIP)
	if err != nil {
		return fmt.Errorf("insert user %s: %w", legacy.DiscordID, err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO wallets (user_id, balance)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO NOTHING`,
		legacy.DiscordID, ReaisToCentavos(legacy.Money))
	if err != nil {
		return fmt.Errorf("insert wallet %s: %w", legacy.DiscordID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit import tx: %w", err)
	}

	m.logger.Info("imported legacy user",
		"user_id", legacy.DiscordID,
		"username", legacy.Username,
		"balance", ReaisToCentavos(legacy.Money))
	return nil
}
