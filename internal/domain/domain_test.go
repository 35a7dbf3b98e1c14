package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateUserID(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{"valid snowflake", "123456789012345678", false},
		{"twenty digits", "12345678901234567890", false},
		{"empty", "", true},
		{"too short", "1234567890", true},
		{"non numeric", "12345678901234567a", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUserID(tt.id)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateSelections(t *testing.T) {
	valid := []Selection{
		{MatchID: 1, Market: MarketMatchWinner, Outcome: OutcomeHome, OddsDecimal: 250},
		{MatchID: 2, Market: MarketGoalsOverUnder, Outcome: "Acima 2.5", OddsDecimal: 180},
	}

	t.Run("valid slip", func(t *testing.T) {
		require.NoError(t, ValidateSelections(valid))
	})

	t.Run("empty slip", func(t *testing.T) {
		require.Error(t, ValidateSelections(nil))
	})

	t.Run("duplicate match", func(t *testing.T) {
		dup := append([]Selection{}, valid...)
		dup[1].MatchID = 1
		require.Error(t, ValidateSelections(dup))
	})

	t.Run("odds below minimum", func(t *testing.T) {
		bad := append([]Selection{}, valid...)
		bad[0].OddsDecimal = 100
		require.Error(t, ValidateSelections(bad))
	})

	t.Run("missing outcome", func(t *testing.T) {
		bad := append([]Selection{}, valid...)
		bad[1].Outcome = ""
		require.Error(t, ValidateSelections(bad))
	})
}

func TestResolveStatus(t *testing.T) {
	tests := []struct {
		name     string
		statuses []SelectionStatus
		want     BetStatus
	}{
		{"all open", []SelectionStatus{SelectionOpen, SelectionOpen}, BetOpen},
		{"one ungraded", []SelectionStatus{SelectionWon, SelectionOpen}, BetOpen},
		{"any lost loses", []SelectionStatus{SelectionWon, SelectionLost, SelectionWon}, BetLost},
		{"all won", []SelectionStatus{SelectionWon, SelectionWon}, BetWon},
		{"won with voided leg", []SelectionStatus{SelectionWon, SelectionVoided}, BetWon},
		{"all voided wins as refund", []SelectionStatus{SelectionVoided, SelectionVoided}, BetWon},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bet := &PlacedBet{}
			for _, st := range tt.statuses {
				bet.Selections = append(bet.Selections, Selection{Status: st, OddsDecimal: 200})
			}
			assert.Equal(t, tt.want, bet.ResolveStatus())
		})
	}
}

func TestPayout(t *testing.T) {
	tests := []struct {
		name string
		bet  PlacedBet
		want int64
	}{
		{
			"single leg",
			PlacedBet{Stake: 1000, Selections: []Selection{
				{OddsDecimal: 250, Status: SelectionWon},
			}},
			2500,
		},
		{
			"double",
			PlacedBet{Stake: 1000, Selections: []Selection{
				{OddsDecimal: 200, Status: SelectionWon},
				{OddsDecimal: 150, Status: SelectionWon},
			}},
			3000,
		},
		{
			"voided leg contributes factor one",
			PlacedBet{Stake: 1000, Selections: []Selection{
				{OddsDecimal: 200, Status: SelectionWon},
				{OddsDecimal: 150, Status: SelectionWon},
				{OddsDecimal: 500, Status: SelectionVoided},
			}},
			3000,
		},
		{
			"all legs voided refunds the stake",
			PlacedBet{Stake: 1000, Selections: []Selection{
				{OddsDecimal: 300, Status: SelectionVoided},
			}},
			1000,
		},
		{
			"rounds half up to the centavo",
			PlacedBet{Stake: 333, Selections: []Selection{
				{OddsDecimal: 133, Status: SelectionWon},
			}},
			443,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.bet.Payout())
		})
	}
}

func TestCombinedOdds(t *testing.T) {
	selections := []Selection{
		{OddsDecimal: 200},
		{OddsDecimal: 150},
		{OddsDecimal: 110},
	}
	assert.Equal(t, int64(330), CombinedOdds(selections))
	assert.Equal(t, int64(100), CombinedOdds(nil))
}

func TestSplitPool(t *testing.T) {
	t.Run("even split", func(t *testing.T) {
		prizes := SplitPool(1500, 3)
		assert.Equal(t, []int64{500, 500, 500}, prizes)
	})

	t.Run("remainder goes to earliest winners", func(t *testing.T) {
		prizes := SplitPool(1000, 3)
		assert.Equal(t, []int64{334, 333, 333}, prizes)
	})

	t.Run("no winners", func(t *testing.T) {
		assert.Nil(t, SplitPool(1000, 0))
	})

	t.Run("conservation over a sweep", func(t *testing.T) {
		for pool := int64(1); pool < 5000; pool += 97 {
			for n := 1; n <= 7; n++ {
				var sum int64
				for _, p := range SplitPool(pool, n) {
					sum += p
				}
				require.Equal(t, pool, sum, "pool=%d n=%d", pool, n)
			}
		}
	})
}

func TestExactScoreWinners(t *testing.T) {
	bolao := &Bolao{Participants: []BolaoParticipant{
		{UserID: "100000000000000001", Guess: Score{2, 1}},
		{UserID: "100000000000000002", Guess: Score{0, 0}},
		{UserID: "100000000000000003", Guess: Score{2, 1}},
	}}

	winners := bolao.ExactScoreWinners(Score{Home: 2, Away: 1})
	require.Len(t, winners, 2)
	assert.Equal(t, "100000000000000001", winners[0].UserID)
	assert.Equal(t, "100000000000000003", winners[1].UserID)

	assert.Empty(t, bolao.ExactScoreWinners(Score{Home: 5, Away: 5}))
}

func TestTallyWinners(t *testing.T) {
	vote := func(user string, player int64) MvpVote {
		return MvpVote{UserID: user, PlayerID: player, VotedAt: time.Now()}
	}

	t.Run("clear winner", func(t *testing.T) {
		v := &MvpVoting{Votes: []MvpVote{
			vote("u1", 10), vote("u2", 10), vote("u3", 20),
		}}
		assert.Equal(t, []int64{10}, v.TallyWinners())
	})

	t.Run("tie yields all tied players", func(t *testing.T) {
		v := &MvpVoting{Votes: []MvpVote{
			vote("u1", 10), vote("u2", 20), vote("u3", 10),
			vote("u4", 20), vote("u5", 30),
		}}
		assert.Equal(t, []int64{10, 20}, v.TallyWinners())
	})

	t.Run("no votes", func(t *testing.T) {
		v := &MvpVoting{}
		assert.Empty(t, v.TallyWinners())
	})
}

func TestParseMarket(t *testing.T) {
	tests := []struct {
		label string
		want  MarketKind
	}{
		{"Vencedor da Partida", MarketMatchWinner},
		{"Gols Acima/Abaixo", MarketGoalsOverUnder},
		{"Escanteios 1x2", MarketCorners1X2},
		{"Placar Exato", MarketExactScore},
		{"Mercado Inexistente", MarketUnknown},
		{"", MarketUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseMarket(tt.label))
		})
	}
}

func TestParseOverUnder(t *testing.T) {
	side, line, err := ParseOverUnder("Acima 2.5")
	require.NoError(t, err)
	assert.Equal(t, OutcomeOver, side)
	assert.Equal(t, 2.5, line)

	side, line, err = ParseOverUnder("Abaixo 10")
	require.NoError(t, err)
	assert.Equal(t, OutcomeUnder, side)
	assert.Equal(t, 10.0, line)

	_, _, err = ParseOverUnder("Acima")
	assert.Error(t, err)

	_, _, err = ParseOverUnder("Over 2.5")
	assert.Error(t, err)
}

func TestAppError(t *testing.T) {
	err := ErrMatchClosed(42)
	assert.Equal(t, "MATCH_CLOSED", err.Code)
	assert.Equal(t, 409, err.Status)
	assert.Contains(t, err.Error(), "42")

	upstream := ErrUpstream("fixture fetch failed", assert.AnError)
	assert.Equal(t, 502, upstream.Status)
	assert.ErrorIs(t, upstream, assert.AnError)
}

func TestEventFactories(t *testing.T) {
	t.Run("match settled keys by match id", func(t *testing.T) {
		ev := NewMatchSettledEvent(77, 3, FinalResult{MatchID: 77, HomeGoals: 2, AwayGoals: 0})
		assert.Equal(t, EventMatchSettled, ev.EventType)
		assert.Equal(t, "77", ev.PartitionKey)
		assert.Equal(t, "77", ev.AggregateID)
		assert.NotEmpty(t, ev.Payload)
	})

	t.Run("wallet event keys by user", func(t *testing.T) {
		tx := &WalletTransaction{UserID: "123456789012345678", Amount: -500}
		ev := NewTransactionPostedEvent(tx)
		assert.Equal(t, EventTransactionPosted, ev.EventType)
		assert.Equal(t, tx.UserID, ev.PartitionKey)
	})

	t.Run("level up", func(t *testing.T) {
		ev := NewLevelUpEvent("123456789012345678", 5, "Veterano")
		assert.Equal(t, EventLevelUp, ev.EventType)
		assert.Equal(t, AggregateUser, ev.AggregateType)
	})
}

func TestDefaultLevels(t *testing.T) {
	levels := DefaultLevels()
	require.Len(t, levels, 10)
	require.NoError(t, ValidateLevelConfig(levels))

	assert.Equal(t, int64(0), levels[0].XP)
	assert.Equal(t, RewardRole, levels[4].RewardType)
	assert.Equal(t, RewardRole, levels[9].RewardType)
}

func TestAchievementCatalog(t *testing.T) {
	known := []string{
		"beginner", "vip_status", "first_bet", "first_win", "first_loss",
		"first_multiple", "multiple_win", "level_5", "level_10",
		"first_purchase", "first_mvp_vote", "first_bolao", "bet_cancelled",
	}
	for _, id := range known {
		a, ok := AchievementByID(id)
		require.True(t, ok, "missing achievement %s", id)
		assert.NotEmpty(t, a.Name)
	}
	_, ok := AchievementByID("does_not_exist")
	assert.False(t, ok)
}

func TestMatchLifecycle(t *testing.T) {
	kickoff := time.Now().Add(time.Hour)
	m := &Match{ID: 1, Status: MatchNotStarted, KickoffAt: kickoff}

	assert.True(t, m.IsOpenForWagering(time.Now()))
	assert.False(t, m.IsOpenForWagering(kickoff.Add(time.Minute)))

	m.Status = MatchFullTime
	assert.False(t, m.IsOpenForWagering(time.Now().Add(-2*time.Hour)))
	assert.True(t, m.Status.IsFinished())

	m.Status = MatchHalftime
	assert.False(t, m.Status.IsFinished())
}
