package infra

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/fielbet/platform/internal/domain"
	"github.com/fielbet/platform/internal/repository"
	"github.com/jackc/pgx/v5/pgxpool"
)

// OutboxPoller drains the event_outbox table into Kafka. Events are
// published at least once: a row is deleted only after its publish
// succeeded, so a crash between publish and delete replays the event.
type OutboxPoller struct {
	pool      *pgxpool.Pool
	outbox    repository.OutboxRepository
	producer  *KafkaProducer
	logger    *slog.Logger
	interval  time.Duration
	batchSize int
}

// NewOutboxPoller creates a new outbox poller.
func NewOutboxPoller(pool *pgxpool.Pool, outbox repository.OutboxRepository, producer *KafkaProducer, logger *slog.Logger) *OutboxPoller {
	return &OutboxPoller{
		pool:      pool,
		outbox:    outbox,
		producer:  producer,
		logger:    logger,
		interval:  500 * time.Millisecond,
		batchSize: 100,
	}
}

// Start begins polling in a goroutine. Stops when ctx is cancelled.
func (p *OutboxPoller) Start(ctx context.Context) {
	p.logger.Info("outbox poller started", "interval", p.interval, "batch_size", p.batchSize)

	go func() {
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				p.logger.Info("outbox poller stopped")
				return
			case <-ticker.C:
				if err := p.poll(ctx); err != nil {
					p.logger.Error("outbox poll error", "error", err)
				}
			}
		}
	}()
}

func (p *OutboxPoller) poll(ctx context.Context) error {
	drafts, seqIDs, err := p.outbox.FetchUnpublished(ctx, p.pool, p.batchSize)
	if err != nil {
		return err
	}
	if len(drafts) == 0 {
		return nil
	}

	var published []int64
	for i, draft := range drafts {
		if err := p.publish(ctx, draft); err != nil {
			OutboxPublishFailures.Inc()
			p.logger.Error("kafka publish failed", "event_id", draft.EventID, "error", err)
			continue
		}
		OutboxPublished.Inc()
		published = append(published, seqIDs[i])
	}

	if len(published) > 0 {
		if err := p.outbox.MarkPublished(ctx, p.pool, published); err != nil {
			return err
		}
	}

	p.logger.Debug("outbox poll complete", "fetched", len(drafts), "published", len(published))
	return nil
}

func (p *OutboxPoller) publish(ctx context.Context, draft domain.OutboxDraft) error {
	// The event type doubles as the topic name; consumers subscribe by
	// pattern (fielbet.*) or by individual topic.
	msg, _ := json.Marshal(draft)
	return p.producer.Publish(ctx, string(draft.EventType), []byte(draft.PartitionKey), msg)
}
