// internal/domain/discord/errors.go
package discord

import (
	"errors"

	"github.com/bwmarrin/discordgo"
)

// NoErrorCode is returned by ErrorCode when err carries no Discord API error
// code (nil errors, transport failures, context cancellation).
const NoErrorCode = -1

// ErrorCode extracts the Discord JSON API error code from err, unwrapping as
// needed. Gateway failures without a parsed API body yield NoErrorCode.
func ErrorCode(err error) int {
	var restErr *discordgo.RESTError
	if !errors.As(err, &restErr) || restErr.Message == nil {
		return NoErrorCode
	}
	return restErr.Message.Code
}

// IsUnknownChannel reports whether err means the channel id does not resolve.
func IsUnknownChannel(err error) bool {
	return ErrorCode(err) == discordgo.ErrCodeUnknownChannel
}

// IsMissingAccess reports whether err means the bot cannot see the resource
// at all (not invited, or the channel is hidden from it).
func IsMissingAccess(err error) bool {
	return ErrorCode(err) == discordgo.ErrCodeMissingAccess
}

// IsMissingPermissions reports whether err means the bot saw the resource but
// lacks a permission bit for the attempted action.
func IsMissingPermissions(err error) bool {
	return ErrorCode(err) == discordgo.ErrCodeMissingPermissions
}

// hints maps well-known Discord API error codes to actionable remediation
// text for the logs. Unlisted codes get no hint; the raw error already says
// what happened.
var hints = map[int]string{
	discordgo.ErrCodeUnknownChannel:            "the channel id does not exist or the bot was removed from the server; re-check DSU_CHANNEL_ID",
	discordgo.ErrCodeUnknownMessage:            "the target message no longer exists; it may have been deleted",
	discordgo.ErrCodeUnknownGuild:              "the server is not accessible; confirm the bot is still a member",
	discordgo.ErrCodeMissingAccess:             "the bot cannot see this channel; grant it access via a role or channel override",
	discordgo.ErrCodeMissingPermissions:        "the bot lacks a required permission here; grant Send Messages and Embed Links on the channel",
	discordgo.ErrCodeCannotSendEmptyMessage:    "the rendered message was empty; check the template configuration",
	discordgo.ErrCodeInvalidFormBody:           "Discord rejected the payload shape; an id or field value is malformed",
	discordgo.ErrCodeCannotExecuteActionOnDMChannel: "this action only works in server channels, not DMs",
}

// Hint returns remediation guidance for err, or "" when no mapping applies.
func Hint(err error) string {
	return hints[ErrorCode(err)]
}

// Apology maps err to the short user-facing reply sent when a manual command
// fails. It distinguishes permission problems, vanished messages and
// malformed requests, and falls back to a generic apology for everything
// else.
func Apology(err error) string {
	switch ErrorCode(err) {
	case discordgo.ErrCodeMissingPermissions, discordgo.ErrCodeMissingAccess:
		return "Sorry, I don't have permission to do that here. Please ask an admin to check my channel permissions."
	case discordgo.ErrCodeUnknownMessage, discordgo.ErrCodeUnknownChannel:
		return "Sorry, the message or channel I was working with disappeared before I could reply."
	case discordgo.ErrCodeInvalidFormBody, discordgo.ErrCodeCannotSendEmptyMessage:
		return "Sorry, that request came out malformed on my end. Please try again."
	default:
		return "Sorry, something went wrong while handling that command. Please try again in a moment."
	}
}
