package migration

import (
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, nil))

func TestDeterministicUUID_Consistency(t *testing.T) {
	// Same input always produces same UUID
	id1 := DeterministicUUID("bet", "64f1c2a9e4b0a1b2c3d4e5f6")
	id2 := DeterministicUUID("bet", "64f1c2a9e4b0a1b2c3d4e5f6")
	assert.Equal(t, id1, id2)
}

func TestDeterministicUUID_DifferentInputs(t *testing.T) {
	id1 := DeterministicUUID("bet", "64f1c2a9e4b0a1b2c3d4e5f6")
	id2 := DeterministicUUID("bet", "64f1c2a9e4b0a1b2c3d4e5f7")
	assert.NotEqual(t, id1, id2)
}

func TestDeterministicUUID_DifferentNamespaces(t *testing.T) {
	id1 := DeterministicUUID("bet", "123")
	id2 := DeterministicUUID("bolao", "123")
	assert.NotEqual(t, id1, id2)
}

func TestDeterministicUUID_ValidVersion(t *testing.T) {
	id := DeterministicUUID("bet", "test-id")
	// Version should be 5 (SHA-based)
	version := id[6] >> 4
	assert.Equal(t, byte(5), version)
}

func TestDeterministicUUID_ValidVariant(t *testing.T) {
	id := DeterministicUUID("bet", "test-id")
	// Variant should be RFC4122 (10xx xxxx)
	variant := id[8] >> 6
	assert.Equal(t, byte(2), variant)
}

func TestDeterministicUUIDHex(t *testing.T) {
	hex := DeterministicUUIDHex("bet", "test-123")
	assert.Len(t, hex, 36) // UUID format: 8-4-4-4-12
	assert.Contains(t, hex, "-")
}

func TestSHA256Hex(t *testing.T) {
	hex := SHA256Hex("bet", "test-123")
	assert.Len(t, hex, 64) // SHA256 = 32 bytes = 64 hex chars
}

func TestReaisToCentavos(t *testing.T) {
	assert.Equal(t, int64(100), ReaisToCentavos(1.0))
	assert.Equal(t, int64(1250), ReaisToCentavos(12.50))
	// Floating point residue from the legacy store must round cleanly
	assert.Equal(t, int64(1999), ReaisToCentavos(19.990000000000002))
	assert.Equal(t, int64(0), ReaisToCentavos(0))
}

func TestBetMapper_MapBet(t *testing.T) {
	mapper := &BetMapper{logger: testLogger}

	legacy := LegacyBet{
		ObjectID:  "64f1c2a9e4b0a1b2c3d4e5f6",
		DiscordID: "203716083797721088",
		Amount:    50.0,
	}

	betID, err := mapper.MapBet(legacy)
	require.NoError(t, err)

	// Deterministic: same input produces same output
	betID2, _ := mapper.MapBet(legacy)
	assert.Equal(t, betID, betID2)
}

func TestBetMapper_MapBet_MissingID(t *testing.T) {
	mapper := &BetMapper{logger: testLogger}

	_, err := mapper.MapBet(LegacyBet{DiscordID: "203716083797721088"})
	assert.Error(t, err)
}
