package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/fielbet/platform/internal/domain"
	"github.com/fielbet/platform/internal/infra"
	"github.com/fielbet/platform/internal/notifier"
	"github.com/joho/godotenv"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("outbox consumer failed", "error", err)
		os.Exit(1)
	}
}

// run consumes notification events from Kafka and delivers them to Discord.
// Delivery is best-effort: a failed send is logged and the offset is
// committed anyway, because the notification row in Postgres remains the
// durable record the web UI reads from.
func run(logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	_ = godotenv.Load()
	cfg, err := infra.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if !cfg.KafkaEnabled {
		return fmt.Errorf("KAFKA_ENABLED must be true for the outbox consumer")
	}
	if cfg.DiscordBotToken == "" {
		return fmt.Errorf("DISCORD_BOT_TOKEN is required")
	}

	discord, err := notifier.NewDiscordNotifier(cfg.DiscordBotToken, cfg.DiscordAnnounceChanID, cfg.SiteBaseURL, logger)
	if err != nil {
		return fmt.Errorf("discord notifier: %w", err)
	}

	consumer := infra.NewKafkaConsumer(cfg.KafkaBrokers, string(domain.EventNotification), infra.ConsumerGroupNotifier, cfg.KafkaEnabled, logger)
	defer consumer.Close()

	logger.Info("outbox consumer starting", "topic", string(domain.EventNotification), "group", infra.ConsumerGroupNotifier)

	for {
		msg, err := consumer.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				logger.Info("outbox consumer shutting down")
				return nil
			}
			logger.Error("kafka read failed", "error", err)
			continue
		}

		var draft domain.OutboxDraft
		if err := json.Unmarshal(msg.Value, &draft); err != nil {
			logger.Error("malformed outbox event", "offset", msg.Offset, "error", err)
			continue
		}

		var notification domain.Notification
		if err := json.Unmarshal(draft.Payload, &notification); err != nil {
			logger.Error("malformed notification payload", "event_id", draft.EventID, "error", err)
			continue
		}

		if err := discord.Deliver(&notification); err != nil {
			logger.Warn("discord delivery failed",
				"notification_id", notification.ID,
				"user_id", notification.UserID,
				"error", err)
			continue
		}

		logger.Info("notification delivered",
			"notification_id", notification.ID,
			"user_id", notification.UserID,
			"title", notification.Title)
	}
}
