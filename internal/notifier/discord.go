// Package notifier delivers notifications to Discord. Delivery is
// best-effort by design: the notification row in Postgres is the durable
// record, Discord is a convenience mirror of it.
package notifier

import (
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"
	"github.com/fielbet/platform/internal/domain"
)

const (
	colorDefault  = 0x5865F2
	colorPriority = 0xFFB300
)

// DiscordNotifier sends notification embeds over the Discord REST API.
// No gateway connection is held; plain REST calls are enough for sending.
type DiscordNotifier struct {
	session           *discordgo.Session
	announceChannelID string
	siteBaseURL       string
	logger            *slog.Logger
}

// NewDiscordNotifier creates a notifier from a bot token.
func NewDiscordNotifier(token, announceChannelID, siteBaseURL string, logger *slog.Logger) (*DiscordNotifier, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("discord session: %w", err)
	}
	return &DiscordNotifier{
		session:           session,
		announceChannelID: announceChannelID,
		siteBaseURL:       siteBaseURL,
		logger:            logger,
	}, nil
}

// Deliver routes one notification: an empty UserID is a broadcast to the
// announcement channel, anything else goes to the user's DM.
func (d *DiscordNotifier) Deliver(n *domain.Notification) error {
	if n.UserID == "" {
		return d.broadcast(n)
	}
	return d.directMessage(n)
}

func (d *DiscordNotifier) broadcast(n *domain.Notification) error {
	if d.announceChannelID == "" {
		d.logger.Warn("broadcast skipped, no announcement channel configured", "title", n.Title)
		return nil
	}
	if _, err := d.session.ChannelMessageSendEmbed(d.announceChannelID, d.embed(n)); err != nil {
		return fmt.Errorf("announce %q: %w", n.Title, err)
	}
	return nil
}

func (d *DiscordNotifier) directMessage(n *domain.Notification) error {
	channel, err := d.session.UserChannelCreate(n.UserID)
	if err != nil {
		return fmt.Errorf("dm channel for %s: %w", n.UserID, err)
	}
	if _, err := d.session.ChannelMessageSendEmbed(channel.ID, d.embed(n)); err != nil {
		return fmt.Errorf("dm %s: %w", n.UserID, err)
	}
	return nil
}

func (d *DiscordNotifier) embed(n *domain.Notification) *discordgo.MessageEmbed {
	color := colorDefault
	if n.IsPriority {
		color = colorPriority
	}

	emb := &discordgo.MessageEmbed{
		Title:       n.Title,
		Description: n.Description,
		Color:       color,
		Footer:      &discordgo.MessageEmbedFooter{Text: "FielBet"},
	}
	if n.Link != "" && d.siteBaseURL != "" {
		emb.URL = d.siteBaseURL + n.Link
	}
	return emb
}
