// Package policy holds the anti-abuse rules applied before money moves.
// The currency is virtual, so these limits exist to keep the economy sane
// rather than to protect real funds: a single account hammering the bet
// endpoint can otherwise farm XP and distort the ranking.
package policy

// StakeLimitPolicy caps how much and how often one user can wager per day.
// Amounts are in centavos.
type StakeLimitPolicy struct {
	SingleBetMax  int64 `json:"single_bet_max"`
	DailyStakeMax int64 `json:"daily_stake_max"`
	DailyBetsMax  int64 `json:"daily_bets_max"`
}

// DefaultStakeLimits returns the limits applied to every account:
// R$ 10.000,00 per bet, R$ 50.000,00 staked per day, 100 bets per day.
func DefaultStakeLimits() StakeLimitPolicy {
	return StakeLimitPolicy{
		SingleBetMax:  1_000_000,
		DailyStakeMax: 5_000_000,
		DailyBetsMax:  100,
	}
}

// StakeEvaluation holds the result of a stake limits check.
type StakeEvaluation struct {
	Allowed       bool   `json:"allowed"`
	BreachedLimit string `json:"breached_limit,omitempty"`
	LimitValue    int64  `json:"limit_value,omitempty"`
	RequestedAmt  int64  `json:"requested_amount,omitempty"`
}

// EvaluateStakeLimits checks a new stake against the user's limits.
// dailyStaked and dailyBets are the running totals for the current day.
func EvaluateStakeLimits(policy StakeLimitPolicy, stake, dailyStaked, dailyBets int64) StakeEvaluation {
	// Single bet limit
	if policy.SingleBetMax > 0 && stake > policy.SingleBetMax {
		return StakeEvaluation{
			Allowed:       false,
			BreachedLimit: "single_bet",
			LimitValue:    policy.SingleBetMax,
			RequestedAmt:  stake,
		}
	}

	// Daily stake limit
	if policy.DailyStakeMax > 0 && dailyStaked+stake > policy.DailyStakeMax {
		return StakeEvaluation{
			Allowed:       false,
			BreachedLimit: "daily_stake",
			LimitValue:    policy.DailyStakeMax,
			RequestedAmt:  dailyStaked + stake,
		}
	}

	// Daily bet count limit
	if policy.DailyBetsMax > 0 && dailyBets >= policy.DailyBetsMax {
		return StakeEvaluation{
			Allowed:       false,
			BreachedLimit: "daily_bets",
			LimitValue:    policy.DailyBetsMax,
			RequestedAmt:  dailyBets + 1,
		}
	}

	return StakeEvaluation{Allowed: true}
}
