// internal/infra/discord/thread_manager.go
package discord

import (
	"context"
	"sync"

	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"

	domaindiscord "github.com/opisboy29/discord-dsu-bot/internal/domain/discord"
	"github.com/opisboy29/discord-dsu-bot/internal/domain/dsu"
	"github.com/opisboy29/discord-dsu-bot/internal/infra/config"
	"github.com/opisboy29/discord-dsu-bot/internal/infra/metrics"
)

// ThreadManager derives a discussion thread from a just-sent DSU message.
// Every failure path resolves to nil with a logged diagnostic; nothing here
// may ever abort the dispatch that called it.
type ThreadManager struct {
	gateway domaindiscord.Gateway
	log     *logrus.Entry

	autoArchiveMinutes int
	reason             string
	initialMessage     bool

	// enabled is the only runtime-mutable knob, exposed for tests and
	// dry runs. Production treats it as read-only after startup.
	mu      sync.RWMutex
	enabled bool
}

func NewThreadManager(gateway domaindiscord.Gateway, cfg *config.AppConfig, logger *logrus.Entry) *ThreadManager {
	return &ThreadManager{
		gateway:            gateway,
		log:                logger,
		enabled:            cfg.Threads.Enabled,
		autoArchiveMinutes: cfg.Threads.AutoArchiveMinutes,
		reason:             cfg.Threads.Reason,
		initialMessage:     cfg.Threads.InitialMessage,
	}
}

// SetEnabled flips the feature toggle at runtime.
func (tm *ThreadManager) SetEnabled(enabled bool) {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	tm.enabled = enabled
}

// Enabled reports whether thread creation is currently switched on.
func (tm *ThreadManager) Enabled() bool {
	tm.mu.RLock()
	defer tm.mu.RUnlock()
	return tm.enabled
}

// CreateThread spins a public discussion thread off msg. It returns the new
// thread, or nil when any precondition fails or the gateway rejects the
// attempt. It never returns an error: the caller's send already succeeded
// and must stay successful.
func (tm *ThreadManager) CreateThread(ctx context.Context, msg *discordgo.Message, title string, kind dsu.Kind) *discordgo.Channel {
	logCtx := tm.log.WithField("kind", string(kind))

	if !tm.Enabled() {
		logCtx.Debug("Thread creation skipped: feature toggle is off")
		return nil
	}
	if msg == nil || msg.ChannelID == "" {
		logCtx.Warn("Thread creation skipped: no parent message to attach to")
		return nil
	}
	logCtx = logCtx.WithFields(logrus.Fields{"channel_id": msg.ChannelID, "message_id": msg.ID})

	parent, err := tm.gateway.Channel(ctx, msg.ChannelID)
	if err != nil {
		logCtx.WithError(err).Warn("Thread creation skipped: parent channel could not be fetched")
		return nil
	}
	if parent == nil || !channelSupportsThreads(parent.Type) {
		logCtx.Warn("Thread creation skipped: parent channel type does not support public threads")
		return nil
	}

	perms, err := tm.gateway.BotPermissions(ctx, msg.ChannelID)
	if err != nil {
		logCtx.WithError(err).Warn("Thread creation skipped: could not resolve bot permissions")
		return nil
	}
	if perms&discordgo.PermissionCreatePublicThreads == 0 {
		logCtx.Warn("Thread creation skipped: bot lacks the Create Public Threads permission")
		return nil
	}

	thread, err := tm.gateway.StartThread(ctx, msg.ChannelID, msg.ID, dsu.CapTitle(title), tm.autoArchiveMinutes, tm.reason)
	if err != nil {
		metrics.IncThreadFailure()
		logCtx.WithError(err).WithField("hint", domaindiscord.Hint(err)).Warn("Thread creation failed at the gateway")
		return nil
	}
	metrics.IncThreadCreated()
	logCtx = logCtx.WithField("thread_id", thread.ID)
	logCtx.Info("Discussion thread created")

	// The kickoff message is itself best-effort: its failure is logged but
	// the thread already exists and is returned regardless.
	if tm.initialMessage {
		if _, err := tm.gateway.SendMessage(ctx, thread.ID, dsu.ThreadKickoff(kind)); err != nil {
			logCtx.WithError(err).Warn("Could not post the kickoff message into the new thread")
		}
	}

	return thread
}

func channelSupportsThreads(t discordgo.ChannelType) bool {
	return t == discordgo.ChannelTypeGuildText || t == discordgo.ChannelTypeGuildNews
}
