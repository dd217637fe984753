package infrastructure

import (
	"context"
	"fmt"
	"time"

	"tipster/domain/events"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

const (
	colorLocked = 0xE67E22
	colorResult = 0x2ECC71
	colorNew    = 0x3498DB
)

// webhookExecutor is the part of *discordgo.Session the announcer uses
type webhookExecutor interface {
	WebhookExecute(webhookID, token string, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

const (
	announceQueueSize = 64
	announceTimeout   = 10 * time.Second
)

// DiscordAnnouncer posts match lifecycle events to a Discord channel webhook.
// Events are queued by the publisher and posted by Run, off the request path.
type DiscordAnnouncer struct {
	session      webhookExecutor
	webhookID    string
	webhookToken string
	queue        chan events.Event
}

// NewDiscordAnnouncer creates an announcer for the given webhook
func NewDiscordAnnouncer(webhookID, webhookToken string) (*DiscordAnnouncer, error) {
	// Webhook execution needs no bot token
	session, err := discordgo.New("")
	if err != nil {
		return nil, fmt.Errorf("failed to create discord session: %w", err)
	}
	return newDiscordAnnouncer(session, webhookID, webhookToken, announceQueueSize), nil
}

func newDiscordAnnouncer(session webhookExecutor, webhookID, webhookToken string, queueSize int) *DiscordAnnouncer {
	return &DiscordAnnouncer{
		session:      session,
		webhookID:    webhookID,
		webhookToken: webhookToken,
		queue:        make(chan events.Event, queueSize),
	}
}

// Register subscribes the announcer to the events it posts
func (a *DiscordAnnouncer) Register(publisher *NATSEventPublisher) {
	publisher.RegisterLocalHandler(events.EventTypeMatchCreated, a.Enqueue)
	publisher.RegisterLocalHandler(events.EventTypeMatchLocked, a.Enqueue)
	publisher.RegisterLocalHandler(events.EventTypeMatchResultRecorded, a.Enqueue)
}

// Enqueue hands event to Run without waiting for Discord. A full queue drops the event.
func (a *DiscordAnnouncer) Enqueue(_ context.Context, event events.Event) error {
	select {
	case a.queue <- event:
		return nil
	default:
		return fmt.Errorf("announcement queue full, dropped %s", event.Type())
	}
}

// Run posts queued events until ctx is done
func (a *DiscordAnnouncer) Run(ctx context.Context) {
	log.Info("Discord announcer started")
	for {
		select {
		case <-ctx.Done():
			log.WithField("unsent", len(a.queue)).Info("Discord announcer stopped")
			return
		case event := <-a.queue:
			postCtx, cancel := context.WithTimeout(ctx, announceTimeout)
			if err := a.Handle(postCtx, event); err != nil {
				log.WithFields(log.Fields{
					"eventType": event.Type(),
					"error":     err,
				}).Warn("Failed to post announcement")
			}
			cancel()
		}
	}
}

// Handle posts an embed for supported events and ignores the rest
func (a *DiscordAnnouncer) Handle(ctx context.Context, event events.Event) error {
	embed := buildEmbed(event)
	if embed == nil {
		return nil
	}

	_, err := a.session.WebhookExecute(a.webhookID, a.webhookToken, false, &discordgo.WebhookParams{
		Embeds: []*discordgo.MessageEmbed{embed},
	}, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to post %s to discord: %w", event.Type(), err)
	}

	log.WithField("eventType", event.Type()).Debug("Posted event to discord")
	return nil
}

func buildEmbed(event events.Event) *discordgo.MessageEmbed {
	switch e := event.(type) {
	case events.MatchCreatedEvent:
		return &discordgo.MessageEmbed{
			Title:       fmt.Sprintf("%s vs %s", e.HomeTeam, e.AwayTeam),
			Description: fmt.Sprintf("Added to matchday %d. Predictions are open.", e.Matchday),
			Color:       colorNew,
			Timestamp:   e.MatchDate.UTC().Format(time.RFC3339),
		}
	case events.MatchLockedEvent:
		return &discordgo.MessageEmbed{
			Title:       fmt.Sprintf("%s vs %s", e.HomeTeam, e.AwayTeam),
			Description: fmt.Sprintf("Predictions are closed. Kickoff <t:%d:R>.", e.MatchDate.Unix()),
			Color:       colorLocked,
			Timestamp:   e.MatchDate.UTC().Format(time.RFC3339),
		}
	case events.MatchResultRecordedEvent:
		return &discordgo.MessageEmbed{
			Title: "Full time",
			Fields: []*discordgo.MessageEmbedField{
				{Name: e.HomeTeam, Value: fmt.Sprintf("%d", e.HomeScore), Inline: true},
				{Name: e.AwayTeam, Value: fmt.Sprintf("%d", e.AwayScore), Inline: true},
			},
			Color: colorResult,
		}
	default:
		return nil
	}
}
