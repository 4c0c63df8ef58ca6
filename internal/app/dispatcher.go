// internal/app/dispatcher.go
package app

import (
	"context"
	"strconv"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"

	domaindiscord "github.com/opisboy29/discord-dsu-bot/internal/domain/discord"
	"github.com/opisboy29/discord-dsu-bot/internal/domain/dsu"
	"github.com/opisboy29/discord-dsu-bot/internal/infra/config"
	"github.com/opisboy29/discord-dsu-bot/internal/infra/metrics"
)

// Dispatcher defines the single DSU dispatch operation shared by the
// recurring triggers and the manual commands. The scheduled path applies the
// weekday gate before calling Dispatch; the manual path calls it directly
// against the invoking channel.
type Dispatcher interface {
	// Dispatch runs one send attempt against channelID and reports how it
	// ended. Failures are contained: the returned event carries the error and
	// nothing propagates to the caller.
	Dispatch(ctx context.Context, kind dsu.Kind, channelID string) dsu.DispatchEvent
}

// ThreadCreator is the slice of the thread manager the dispatcher consumes.
// CreateThread never returns an error; any failure resolves to nil.
type ThreadCreator interface {
	CreateThread(ctx context.Context, msg *discordgo.Message, title string, kind dsu.Kind) *discordgo.Channel
	Enabled() bool
}

// DispatcherImpl implements the Dispatcher interface on top of the gateway
// and the thread manager.
type DispatcherImpl struct {
	gateway domaindiscord.Gateway
	threads ThreadCreator
	cfg     *config.AppConfig
	loc     *time.Location
	logger  *logrus.Entry
}

func NewDispatcherImpl(
	gateway domaindiscord.Gateway,
	threads ThreadCreator,
	cfg *config.AppConfig,
	loc *time.Location,
	logger *logrus.Entry,
) *DispatcherImpl {
	return &DispatcherImpl{
		gateway: gateway,
		threads: threads,
		cfg:     cfg,
		loc:     loc,
		logger:  logger,
	}
}

// Dispatch performs one DSU send: resolve the channel, build the prompt from
// the template, send it, then attempt the discussion thread as a best-effort
// post-action. No step retries; the next scheduled fire is the retry horizon.
func (s *DispatcherImpl) Dispatch(ctx context.Context, kind dsu.Kind, channelID string) dsu.DispatchEvent {
	now := time.Now().In(s.loc)
	event := dsu.DispatchEvent{Kind: kind, TimestampLocal: now, ChannelID: channelID}
	defer func() { metrics.ObserveDispatch(kind, event.Outcome) }()

	// A missing channel id at fire time is a soft failure for this fire, not
	// a crash; the configuration may have broken after the scheduler started.
	if channelID == "" {
		event.Outcome = dsu.OutcomeSendFailed
		event.Reason = "channel id not configured"
		return event
	}

	channel, err := s.gateway.Channel(ctx, channelID)
	if err != nil {
		event.Outcome = dsu.OutcomeSendFailed
		event.Reason = "channel fetch failed"
		event.Err = err
		event.Hint = domaindiscord.Hint(err)
		return event
	}
	if channel == nil {
		event.Outcome = dsu.OutcomeSendFailed
		event.Reason = "channel not found"
		return event
	}

	payload := dsu.BuildPrompt(dsu.PromptSpec{
		Kind:   kind,
		Format: dsu.TemplateFormat(s.cfg.TemplateFormat),
		Color:  s.promptColor(kind),
		Mentions: dsu.MentionSet{
			Everyone: s.cfg.Mentions.Everyone,
			RoleIDs:  s.cfg.Mentions.RoleIDs,
			UserIDs:  s.cfg.Mentions.UserIDs,
		},
		Now: now,
	})

	if s.cfg.DryRun {
		s.logger.WithFields(logrus.Fields{
			"kind":       string(kind),
			"channel_id": channelID,
		}).Info("DRY_RUN enabled: prompt built but not sent")
		event.Outcome = dsu.OutcomeSent
		event.Reason = "dry run"
		return event
	}

	start := time.Now()
	msg, err := s.gateway.SendComplex(ctx, channelID, payload)
	metrics.ObserveSendDuration(kind, start)
	if err != nil {
		event.Outcome = dsu.OutcomeSendFailed
		event.Reason = "gateway send failed"
		event.Err = err
		event.Hint = domaindiscord.Hint(err)
		return event
	}
	event.MessageID = msg.ID

	// Best-effort post-action: a thread failure never retracts the send.
	if !s.threads.Enabled() {
		event.Outcome = dsu.OutcomeSent
		return event
	}
	thread := s.threads.CreateThread(ctx, msg, dsu.ThreadTitle(kind, now), kind)
	if thread == nil {
		event.Outcome = dsu.OutcomeThreadFailed
		event.Reason = "thread creation failed"
		return event
	}
	event.ThreadID = thread.ID
	event.Outcome = dsu.OutcomeSent
	return event
}

func (s *DispatcherImpl) promptColor(kind dsu.Kind) int {
	raw := s.cfg.Colors.Morning
	if kind == dsu.KindEvening {
		raw = s.cfg.Colors.Evening
	}
	// Validation gates the hex shape at startup, so a parse failure here only
	// means an unthemed embed, never a dropped dispatch.
	color, err := strconv.ParseInt(raw, 16, 32)
	if err != nil {
		return 0
	}
	return int(color)
}

// LogDispatchEvent is the single outcome-to-log adapter shared by the cron
// closures and the command handlers, so the containment-and-log logic is
// written once rather than per handler.
func LogDispatchEvent(log *logrus.Entry, event dsu.DispatchEvent) {
	entry := log.WithFields(logrus.Fields{
		"kind":       string(event.Kind),
		"channel_id": event.ChannelID,
		"outcome":    string(event.Outcome),
		"local_time": event.TimestampLocal.Format("2006-01-02 15:04:05 MST"),
	})
	if event.MessageID != "" {
		entry = entry.WithField("message_id", event.MessageID)
	}
	if event.ThreadID != "" {
		entry = entry.WithField("thread_id", event.ThreadID)
	}
	if event.Reason != "" {
		entry = entry.WithField("reason", event.Reason)
	}
	if event.Hint != "" {
		entry = entry.WithField("hint", event.Hint)
	}
	if event.Err != nil {
		entry = entry.WithError(event.Err)
	}

	switch event.Outcome {
	case dsu.OutcomeSent:
		entry.Info("DSU prompt dispatched")
	case dsu.OutcomeThreadFailed:
		entry.Warn("DSU prompt dispatched, but the discussion thread could not be created")
	case dsu.OutcomeSendFailed:
		entry.Error("DSU prompt dispatch failed")
	default:
		entry.Error("DSU dispatch ended in an unknown state")
	}
}
