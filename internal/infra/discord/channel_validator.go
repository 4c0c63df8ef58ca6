// internal/infra/discord/channel_validator.go
package discord

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"

	domaindiscord "github.com/opisboy29/discord-dsu-bot/internal/domain/discord"
	"github.com/opisboy29/discord-dsu-bot/internal/domain/validation"
)

// Probe messages are deleted on a best-effort basis right after they prove
// the capability works end to end.
const (
	sendProbeContent = "DSU bot capability check — this message should disappear in a moment."
	embedProbeTitle  = "DSU bot capability check"
	embedProbeBody   = "Verifying that embeds render in this channel. This message should disappear in a moment."
)

type permissionCheck struct {
	bit  int64
	name string
}

// Required permissions: without any one of these the bot cannot do its core
// job in the channel. Missing bits are aggregated into a single error.
var requiredChannelPermissions = []permissionCheck{
	{discordgo.PermissionViewChannel, "View Channel"},
	{discordgo.PermissionSendMessages, "Send Messages"},
	{discordgo.PermissionEmbedLinks, "Embed Links"},
	{discordgo.PermissionReadMessageHistory, "Read Message History"},
}

// Optional permissions only improve the experience (probe cleanup,
// reactions); each missing bit is a warning on its own.
var optionalChannelPermissions = []permissionCheck{
	{discordgo.PermissionManageMessages, "Manage Messages"},
	{discordgo.PermissionAddReactions, "Add Reactions"},
	{discordgo.PermissionUseExternalEmojis, "Use External Emojis"},
}

// ChannelValidator performs the multi-step live capability probe against the
// configured DSU channel. Its report is a soft gate: a failure disables the
// scheduler but never terminates the process.
type ChannelValidator struct {
	gateway domaindiscord.Gateway
	log     *logrus.Entry
}

func NewChannelValidator(gateway domaindiscord.Gateway, logger *logrus.Entry) *ChannelValidator {
	return &ChannelValidator{gateway: gateway, log: logger}
}

// Validate runs the ordered, fail-fast probe sequence and returns the
// structured report. Every step that talks to the gateway maps its error
// codes to specific report codes so the operator gets targeted remediation.
func (v *ChannelValidator) Validate(ctx context.Context, channelID string) *validation.Report {
	report := validation.NewReport()
	logCtx := v.log.WithField("channel_id", channelID)

	// Step 1: syntactic check. No live call is made for a malformed id.
	if channelID == "" {
		report.AddError("CH_ID_MISSING", "no channel id configured for validation")
		return report
	}
	if !validation.IsSnowflake(channelID) {
		report.AddError("CH_ID_INVALID", fmt.Sprintf("channel id %q must be a 17-19 digit Discord id", channelID))
		return report
	}

	// Step 2: the channel must exist and be visible to the bot.
	channel, err := v.gateway.Channel(ctx, channelID)
	if err != nil {
		switch {
		case domaindiscord.IsUnknownChannel(err):
			report.AddError("CH_NOT_FOUND", fmt.Sprintf("channel %s does not exist or the bot cannot see it", channelID))
		case domaindiscord.IsMissingAccess(err):
			report.AddError("CH_ACCESS_DENIED", fmt.Sprintf("the bot is not allowed to access channel %s", channelID))
		default:
			report.AddError("CH_FETCH_FAILED", fmt.Sprintf("fetching channel %s failed: %v", channelID, err))
		}
		return report
	}
	if channel == nil {
		report.AddError("CH_NOT_FOUND", fmt.Sprintf("channel %s does not exist", channelID))
		return report
	}
	logCtx.WithField("channel_name", channel.Name).Debug("Channel resolved")

	// Step 3: only standard text-capable guild channels can host DSU prompts.
	if channel.Type != discordgo.ChannelTypeGuildText && channel.Type != discordgo.ChannelTypeGuildNews {
		report.AddError("CH_TYPE_INVALID", fmt.Sprintf(
			"channel %s has type %d; only text and announcement channels are supported", channelID, channel.Type))
		return report
	}

	// Step 4: the channel must live in a guild the bot is a member of.
	if channel.GuildID == "" {
		report.AddError("CH_NOT_IN_GUILD", fmt.Sprintf("channel %s does not belong to a server", channelID))
		return report
	}
	bot, err := v.gateway.BotUser()
	if err != nil {
		report.AddError("CH_VALIDATION_SYSTEM_ERROR", fmt.Sprintf("could not resolve the bot's own identity: %v", err))
		return report
	}
	if _, err := v.gateway.GuildMember(ctx, channel.GuildID, bot.ID); err != nil {
		report.AddError("CH_BOT_NOT_MEMBER", fmt.Sprintf(
			"the bot is not a member of the server owning channel %s", channelID))
		return report
	}

	// Step 5: permission probe. Required gaps are aggregated into one error;
	// each missing optional bit is its own warning.
	perms, err := v.gateway.BotPermissions(ctx, channelID)
	if err != nil {
		report.AddError("CH_VALIDATION_SYSTEM_ERROR", fmt.Sprintf("could not resolve channel permissions: %v", err))
		return report
	}
	var missing []string
	for _, p := range requiredChannelPermissions {
		if perms&p.bit == 0 {
			missing = append(missing, p.name)
		}
	}
	if len(missing) > 0 {
		report.AddError("CH_PERMS_MISSING", fmt.Sprintf(
			"the bot is missing required permissions in channel %s: %s", channelID, strings.Join(missing, ", ")))
	}
	for _, p := range optionalChannelPermissions {
		if perms&p.bit == 0 {
			report.AddWarning("CH_PERM_OPTIONAL_MISSING", fmt.Sprintf(
				"the bot is missing the optional %s permission in channel %s", p.name, channelID))
		}
	}
	if !report.Passed() {
		// The live probes would fail with the same root cause and
		// double-report it; stop at the aggregated permission error.
		return report
	}

	// Step 6: live send probe. Permission bits can lie under channel
	// overrides, so prove the send path end to end.
	probe, err := v.gateway.SendMessage(ctx, channelID, sendProbeContent)
	if err != nil {
		report.AddError("CH_SEND_PROBE_FAILED", fmt.Sprintf(
			"test message could not be sent to channel %s: %v", channelID, err))
		return report
	}
	v.cleanupProbe(ctx, channelID, probe)
	logCtx.Debug("Send probe succeeded")

	// Step 7: live embed probe, same pattern with a minimal embed payload.
	embedProbe, err := v.gateway.SendComplex(ctx, channelID, &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{{Title: embedProbeTitle, Description: embedProbeBody}},
	})
	if err != nil {
		report.AddError("CH_EMBED_PROBE_FAILED", fmt.Sprintf(
			"test embed could not be sent to channel %s: %v", channelID, err))
		return report
	}
	v.cleanupProbe(ctx, channelID, embedProbe)
	logCtx.Debug("Embed probe succeeded")

	return report
}

// cleanupProbe deletes a probe message on a best-effort basis. Deletion
// failure is never a validation failure; the probe already proved its point.
func (v *ChannelValidator) cleanupProbe(ctx context.Context, channelID string, msg *discordgo.Message) {
	if msg == nil {
		return
	}
	if err := v.gateway.DeleteMessage(ctx, channelID, msg.ID); err != nil {
		v.log.WithError(err).WithFields(logrus.Fields{
			"channel_id": channelID,
			"message_id": msg.ID,
		}).Debug("Could not delete validation probe message")
	}
}
