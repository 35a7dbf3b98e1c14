package domain

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// NewTransactionPostedEvent creates the standard wallet event for a ledger entry.
func NewTransactionPostedEvent(tx *WalletTransaction) OutboxDraft {
	payload, _ := json.Marshal(tx)
	return OutboxDraft{
		EventID:       uuid.New(),
		AggregateType: AggregateWallet,
		AggregateID:   tx.UserID,
		EventType:     EventTransactionPosted,
		PartitionKey:  tx.UserID,
		Payload:       payload,
		OccurredAt:    time.Now(),
	}
}

// NewBetSettledEvent announces a graded wager.
func NewBetSettledEvent(bet *PlacedBet) OutboxDraft {
	payload, _ := json.Marshal(map[string]interface{}{
		"bet_id":   bet.ID.String(),
		"user_id":  bet.UserID,
		"status":   bet.Status,
		"stake":    bet.Stake,
		"winnings": bet.Winnings,
		"legs":     len(bet.Selections),
	})
	return OutboxDraft{
		EventID:       uuid.New(),
		AggregateType: AggregateBet,
		AggregateID:   bet.ID.String(),
		EventType:     EventBetSettled,
		PartitionKey:  bet.UserID,
		Payload:       payload,
		OccurredAt:    time.Now(),
	}
}

// NewMatchSettledEvent announces a completed settlement run for a match.
func NewMatchSettledEvent(matchID int64, settledBets int, final FinalResult) OutboxDraft {
	payload, _ := json.Marshal(map[string]interface{}{
		"match_id":     matchID,
		"settled_bets": settledBets,
		"home_goals":   final.HomeGoals,
		"away_goals":   final.AwayGoals,
	})
	key := strconv.FormatInt(matchID, 10)
	return OutboxDraft{
		EventID:       uuid.New(),
		AggregateType: AggregateMatch,
		AggregateID:   key,
		EventType:     EventMatchSettled,
		PartitionKey:  key,
		Payload:       payload,
		OccurredAt:    time.Now(),
	}
}

// NewBolaoResolvedEvent announces a paid-out prediction pool.
func NewBolaoResolvedEvent(b *Bolao) OutboxDraft {
	payload, _ := json.Marshal(map[string]interface{}{
		"bolao_id":   b.ID.String(),
		"match_id":   b.MatchID,
		"prize_pool": b.PrizePool,
		"winners":    b.Winners,
	})
	return OutboxDraft{
		EventID:       uuid.New(),
		AggregateType: AggregateBolao,
		AggregateID:   b.ID.String(),
		EventType:     EventBolaoResolved,
		PartitionKey:  strconv.FormatInt(b.MatchID, 10),
		Payload:       payload,
		OccurredAt:    time.Now(),
	}
}

// NewMvpFinalizedEvent announces an MVP election result.
func NewMvpFinalizedEvent(v *MvpVoting) OutboxDraft {
	payload, _ := json.Marshal(map[string]interface{}{
		"voting_id":  v.ID.String(),
		"match_id":   v.MatchID,
		"winner_ids": v.WinnerIDs,
		"votes":      len(v.Votes),
	})
	return OutboxDraft{
		EventID:       uuid.New(),
		AggregateType: AggregateMvp,
		AggregateID:   v.ID.String(),
		EventType:     EventMvpFinalized,
		PartitionKey:  strconv.FormatInt(v.MatchID, 10),
		Payload:       payload,
		OccurredAt:    time.Now(),
	}
}

// NewLevelUpEvent announces a crossed level threshold.
func NewLevelUpEvent(userID string, level int, levelName string) OutboxDraft {
	payload, _ := json.Marshal(map[string]interface{}{
		"user_id": userID,
		"level":   level,
		"name":    levelName,
	})
	return OutboxDraft{
		EventID:       uuid.New(),
		AggregateType: AggregateUser,
		AggregateID:   userID,
		EventType:     EventLevelUp,
		PartitionKey:  userID,
		Payload:       payload,
		OccurredAt:    time.Now(),
	}
}

// NewNotificationEvent carries a persisted notification to the Discord
// delivery consumer.
func NewNotificationEvent(n *Notification) OutboxDraft {
	payload, _ := json.Marshal(n)
	return OutboxDraft{
		EventID:       uuid.New(),
		AggregateType: AggregateUser,
		AggregateID:   n.UserID,
		EventType:     EventNotification,
		PartitionKey:  n.UserID,
		Payload:       payload,
		OccurredAt:    time.Now(),
	}
}
