package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvaluateStakeLimits_AllowsWithinLimits(t *testing.T) {
	policy := DefaultStakeLimits()
	result := EvaluateStakeLimits(policy, 50_000, 0, 0)
	assert.True(t, result.Allowed)
}

func TestEvaluateStakeLimits_BlocksSingleBetOverLimit(t *testing.T) {
	policy := DefaultStakeLimits()
	result := EvaluateStakeLimits(policy, 1_500_000, 0, 0)
	assert.False(t, result.Allowed)
	assert.Equal(t, "single_bet", result.BreachedLimit)
}

func TestEvaluateStakeLimits_BlocksDailyStakeOverLimit(t *testing.T) {
	policy := DefaultStakeLimits()
	// Already staked 4_950_000, trying 100_000 more (total over 5_000_000)
	result := EvaluateStakeLimits(policy, 100_000, 4_950_000, 3)
	assert.False(t, result.Allowed)
	assert.Equal(t, "daily_stake", result.BreachedLimit)
}

func TestEvaluateStakeLimits_BlocksDailyBetCount(t *testing.T) {
	policy := DefaultStakeLimits()
	result := EvaluateStakeLimits(policy, 1_000, 10_000, 100)
	assert.False(t, result.Allowed)
	assert.Equal(t, "daily_bets", result.BreachedLimit)
}

func TestEvaluateStakeLimits_AllowsAtExactDailyStake(t *testing.T) {
	policy := DefaultStakeLimits()
	result := EvaluateStakeLimits(policy, 50_000, 4_950_000, 3)
	assert.True(t, result.Allowed)
}

func TestEvaluateStakeLimits_ZeroLimitsDisableChecks(t *testing.T) {
	result := EvaluateStakeLimits(StakeLimitPolicy{}, 99_000_000, 99_000_000, 9_999)
	assert.True(t, result.Allowed)
}
