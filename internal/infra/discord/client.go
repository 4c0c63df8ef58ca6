// internal/infra/discord/client.go
package discord

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"

	domaindiscord "github.com/opisboy29/discord-dsu-bot/internal/domain/discord"
)

// SessionAdapter implements the domain Gateway interface using the
// github.com/bwmarrin/discordgo library. It decouples application logic from
// the session type so tests can run against an in-memory fake.
type SessionAdapter struct {
	session *discordgo.Session
	log     *logrus.Entry
	ready   atomic.Bool
}

var _ domaindiscord.Gateway = (*SessionAdapter)(nil)

// NewSessionAdapter wraps an existing (not yet opened) session. The READY
// tracking handlers are registered here, before the caller opens the
// websocket, so no event is missed.
func NewSessionAdapter(session *discordgo.Session, logger *logrus.Entry) *SessionAdapter {
	adapter := &SessionAdapter{session: session, log: logger}

	session.AddHandler(func(_ *discordgo.Session, r *discordgo.Ready) {
		adapter.ready.Store(true)
		adapter.log.WithField("bot_user", r.User.Username).Info("Discord gateway ready")
	})
	session.AddHandler(func(_ *discordgo.Session, _ *discordgo.Resumed) {
		adapter.ready.Store(true)
		adapter.log.Info("Discord gateway session resumed")
	})
	session.AddHandler(func(_ *discordgo.Session, _ *discordgo.Disconnect) {
		adapter.ready.Store(false)
		adapter.log.Warn("Discord gateway disconnected; discordgo will attempt to reconnect")
	})

	return adapter
}

// Channel fetches a channel by its snowflake id.
func (a *SessionAdapter) Channel(ctx context.Context, channelID string) (*discordgo.Channel, error) {
	return a.session.Channel(channelID, discordgo.WithContext(ctx))
}

// SendMessage posts plain text to a channel.
func (a *SessionAdapter) SendMessage(ctx context.Context, channelID, content string) (*discordgo.Message, error) {
	return a.session.ChannelMessageSend(channelID, content, discordgo.WithContext(ctx))
}

// SendComplex posts a full message payload (content, embeds, mentions).
func (a *SessionAdapter) SendComplex(ctx context.Context, channelID string, payload *discordgo.MessageSend) (*discordgo.Message, error) {
	return a.session.ChannelMessageSendComplex(channelID, payload, discordgo.WithContext(ctx))
}

// DeleteMessage removes a message from a channel.
func (a *SessionAdapter) DeleteMessage(ctx context.Context, channelID, messageID string) error {
	return a.session.ChannelMessageDelete(channelID, messageID, discordgo.WithContext(ctx))
}

// StartThread creates a public thread hanging off an existing message.
func (a *SessionAdapter) StartThread(ctx context.Context, channelID, messageID, name string, autoArchiveMinutes int, auditReason string) (*discordgo.Channel, error) {
	opts := []discordgo.RequestOption{discordgo.WithContext(ctx)}
	if auditReason != "" {
		opts = append(opts, discordgo.WithAuditLogReason(auditReason))
	}
	return a.session.MessageThreadStartComplex(channelID, messageID, &discordgo.ThreadStart{
		Name:                name,
		AutoArchiveDuration: autoArchiveMinutes,
	}, opts...)
}

// BotPermissions resolves the bot's effective permission bits in a channel,
// channel overwrites included.
func (a *SessionAdapter) BotPermissions(ctx context.Context, channelID string) (int64, error) {
	bot, err := a.BotUser()
	if err != nil {
		return 0, fmt.Errorf("resolving bot identity: %w", err)
	}
	return a.session.UserChannelPermissions(bot.ID, channelID, discordgo.WithContext(ctx))
}

// GuildMember resolves a member of a guild.
func (a *SessionAdapter) GuildMember(ctx context.Context, guildID, userID string) (*discordgo.Member, error) {
	return a.session.GuildMember(guildID, userID, discordgo.WithContext(ctx))
}

// BotUser returns the bot's own user record, from session state when the
// handshake has completed and via the REST API otherwise.
func (a *SessionAdapter) BotUser() (*discordgo.User, error) {
	if a.session.State != nil && a.session.State.User != nil {
		return a.session.State.User, nil
	}
	return a.session.User("@me")
}

// Ready reports whether the gateway websocket has completed its handshake.
func (a *SessionAdapter) Ready() bool {
	return a.ready.Load()
}
