// Package dispatch turns firing decisions into outbound Discord embeds,
// honoring the operator-configured mute window.
package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/kikibot/aa-alert/internal/alert"
	"github.com/kikibot/aa-alert/internal/discord"
	"github.com/kikibot/aa-alert/internal/schedule"
)

// Sender is the outbound message transport. Satisfied by *discord.Client;
// a retrying transport can be substituted here without touching the
// scheduler.
type Sender interface {
	SendEmbed(ctx context.Context, channelID, content, mentionRoleID string, embed discord.Embed) error
}

// Settings supplies the durable destination and mute configuration, read on
// every send attempt so admin changes apply immediately.
type Settings interface {
	Destination(ctx context.Context) (string, error)
	MuteUntil(ctx context.Context) (time.Time, error)
}

// Dispatcher composes and sends alert notifications.
type Dispatcher struct {
	sender   Sender
	settings Settings
	region   string
	roleID   string
	logger   *slog.Logger
	now      func() time.Time
}

// New creates a Dispatcher. roleID may be empty (no mention).
func New(sender Sender, settings Settings, region, roleID string, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		sender:   sender,
		settings: settings,
		region:   region,
		roleID:   roleID,
		logger:   logger,
		now:      time.Now,
	}
}

// Dispatch sends one warning. While muted it is a silent success: the dedup
// key was committed before this call, so a muted alert is gone for good once
// its window passes. Transport errors are returned to the caller.
func (d *Dispatcher) Dispatch(ctx context.Context, f alert.Firing) error {
	mutedUntil, err := d.settings.MuteUntil(ctx)
	if err != nil {
		return fmt.Errorf("read mute state: %w", err)
	}
	if d.now().Before(mutedUntil) {
		d.logger.Info("alert muted, skipping send",
			"event", f.EventName, "muted_until", mutedUntil.Format(time.RFC3339))
		return nil
	}

	channelID, err := d.settings.Destination(ctx)
	if err != nil {
		return fmt.Errorf("read destination: %w", err)
	}

	return d.sender.SendEmbed(ctx, channelID, d.mentionContent(), d.roleID, d.BuildEmbed(f))
}

// BuildEmbed composes the notification embed for a firing.
func (d *Dispatcher) BuildEmbed(f alert.Firing) discord.Embed {
	style := schedule.Lookup(f.EventName)
	return discord.Embed{
		Title: fmt.Sprintf("%s %s", style.Emoji, style.Display),
		Color: style.Color,
		Description: fmt.Sprintf("**시작:** <t:%d:F>\n**%d분 전 알림**",
			f.Occurrence.Unix(), f.LeadMinutes),
		Footer: &discord.EmbedFooter{Text: d.region + " · Archeage Event Alert"},
	}
}

// SendTest posts the operator test embed to the configured destination,
// bypassing the mute window so a muted setup can still be verified.
func (d *Dispatcher) SendTest(ctx context.Context) error {
	channelID, err := d.settings.Destination(ctx)
	if err != nil {
		return fmt.Errorf("read destination: %w", err)
	}
	embed := discord.Embed{
		Title:       "🔔 알림 테스트",
		Color:       0x2ecc71,
		Description: "이 메시지가 알림 채널에 보이면 성공!",
		Footer:      &discord.EmbedFooter{Text: d.region + " · Archeage Event Alert"},
	}
	return d.sender.SendEmbed(ctx, channelID, "", "", embed)
}

func (d *Dispatcher) mentionContent() string {
	if d.roleID == "" {
		return ""
	}
	return fmt.Sprintf("<@&%s>", d.roleID)
}
