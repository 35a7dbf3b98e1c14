package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// EventType enumerates all domain event types.
type EventType string

const (
	EventTransactionPosted EventType = "fielbet.wallet.transaction.posted"
	EventBetSettled        EventType = "fielbet.bet.settled"
	EventMatchSettled      EventType = "fielbet.match.settled"
	EventBolaoResolved     EventType = "fielbet.bolao.resolved"
	EventMvpFinalized      EventType = "fielbet.mvp.finalized"
	EventLevelUp           EventType = "fielbet.user.levelup"
	EventNotification      EventType = "fielbet.notification.created"
)

// AggregateType enumerates the aggregate root types for outbox events.
type AggregateType string

const (
	AggregateWallet AggregateType = "wallet"
	AggregateBet    AggregateType = "bet"
	AggregateMatch  AggregateType = "match"
	AggregateBolao  AggregateType = "bolao"
	AggregateMvp    AggregateType = "mvp"
	AggregateUser   AggregateType = "user"
)

// OutboxDraft is the payload written to the event_outbox table, inside the
// same transaction as the state change it describes.
type OutboxDraft struct {
	EventID       uuid.UUID       `json:"event_id"`
	AggregateType AggregateType   `json:"aggregate_type"`
	AggregateID   string          `json:"aggregate_id"`
	EventType     EventType       `json:"event_type"`
	PartitionKey  string          `json:"partition_key"`
	Payload       json.RawMessage `json:"payload"`
	OccurredAt    time.Time       `json:"occurred_at"`
}
