package discord

import (
	"context"

	"github.com/bwmarrin/discordgo"
)

// Gateway defines the narrow capability surface the bot needs from Discord.
// This decouples the dispatch, validation and thread logic from the session
// implementation, so tests can run against an in-memory fake.
type Gateway interface {
	// Channel fetches a channel by its snowflake id.
	Channel(ctx context.Context, channelID string) (*discordgo.Channel, error)
	// SendMessage posts plain text and returns the created message.
	SendMessage(ctx context.Context, channelID, content string) (*discordgo.Message, error)
	// SendComplex posts a full message payload (content, embeds, mentions).
	SendComplex(ctx context.Context, channelID string, payload *discordgo.MessageSend) (*discordgo.Message, error)
	// DeleteMessage removes a message, used to clean up validation probes.
	DeleteMessage(ctx context.Context, channelID, messageID string) error
	// StartThread creates a public thread hanging off an existing message.
	StartThread(ctx context.Context, channelID, messageID, name string, autoArchiveMinutes int, auditReason string) (*discordgo.Channel, error)
	// BotPermissions resolves the bot's effective permission bits in a channel,
	// overwrites included.
	BotPermissions(ctx context.Context, channelID string) (int64, error)
	// GuildMember resolves a member of a guild, used to prove the bot belongs
	// to the channel's guild.
	GuildMember(ctx context.Context, guildID, userID string) (*discordgo.Member, error)
	// BotUser returns the bot's own user record.
	BotUser() (*discordgo.User, error)
	// Ready reports whether the gateway websocket has completed its handshake.
	Ready() bool
}
