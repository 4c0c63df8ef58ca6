// internal/infra/discord/thread_manager_test.go
package discord

import (
	"context"
	"strings"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opisboy29/discord-dsu-bot/internal/domain/dsu"
)

func TestThreadManagerCreateThread(t *testing.T) {
	textChannel := &discordgo.Channel{
		ID:      "123456789012345678",
		Type:    discordgo.ChannelTypeGuildText,
		GuildID: "987654321098765432",
	}
	parentMsg := &discordgo.Message{ID: "msg-42", ChannelID: textChannel.ID}

	t.Run("Should do nothing while the feature toggle is off", func(t *testing.T) {
		gw := &fakeGateway{channel: textChannel, permissions: discordgo.PermissionCreatePublicThreads}
		cfg := testConfig()
		cfg.Threads.Enabled = false
		tm := NewThreadManager(gw, cfg, mutedEntry())

		thread := tm.CreateThread(context.Background(), parentMsg, "DSU Morning", dsu.KindMorning)

		assert.Nil(t, thread)
		assert.Zero(t, gw.channelCalls)
		assert.Empty(t, gw.threadCalls)
	})

	t.Run("Should refuse to thread without a parent message", func(t *testing.T) {
		gw := &fakeGateway{channel: textChannel, permissions: discordgo.PermissionCreatePublicThreads}
		tm := NewThreadManager(gw, testConfig(), mutedEntry())

		assert.Nil(t, tm.CreateThread(context.Background(), nil, "DSU Morning", dsu.KindMorning))
		assert.Nil(t, tm.CreateThread(context.Background(), &discordgo.Message{ID: "msg-1"}, "DSU Morning", dsu.KindMorning))
		assert.Zero(t, gw.channelCalls)
	})

	t.Run("Should give up when the parent channel cannot be fetched", func(t *testing.T) {
		gw := &fakeGateway{channelErr: restError(discordgo.ErrCodeUnknownChannel, "Unknown Channel")}
		tm := NewThreadManager(gw, testConfig(), mutedEntry())

		thread := tm.CreateThread(context.Background(), parentMsg, "DSU Morning", dsu.KindMorning)

		assert.Nil(t, thread)
		assert.Equal(t, 1, gw.channelCalls)
		assert.Empty(t, gw.threadCalls)
	})

	t.Run("Should skip channel types that cannot host public threads", func(t *testing.T) {
		gw := &fakeGateway{
			channel:     &discordgo.Channel{ID: textChannel.ID, Type: discordgo.ChannelTypeGuildVoice},
			permissions: discordgo.PermissionCreatePublicThreads,
		}
		tm := NewThreadManager(gw, testConfig(), mutedEntry())

		assert.Nil(t, tm.CreateThread(context.Background(), parentMsg, "DSU Morning", dsu.KindMorning))
		assert.Empty(t, gw.threadCalls)
	})

	t.Run("Should skip when the bot lacks the thread permission", func(t *testing.T) {
		gw := &fakeGateway{channel: textChannel, permissions: discordgo.PermissionSendMessages}
		tm := NewThreadManager(gw, testConfig(), mutedEntry())

		assert.Nil(t, tm.CreateThread(context.Background(), parentMsg, "DSU Morning", dsu.KindMorning))
		assert.Equal(t, 1, gw.permsCalls)
		assert.Empty(t, gw.threadCalls)
	})

	t.Run("Should swallow a gateway rejection of the thread", func(t *testing.T) {
		gw := &fakeGateway{
			channel:     textChannel,
			permissions: discordgo.PermissionCreatePublicThreads,
			threadErr:   restError(discordgo.ErrCodeMissingPermissions, "Missing Permissions"),
		}
		tm := NewThreadManager(gw, testConfig(), mutedEntry())

		assert.Nil(t, tm.CreateThread(context.Background(), parentMsg, "DSU Morning", dsu.KindMorning))
		assert.Len(t, gw.threadCalls, 1)
	})

	t.Run("Should create the thread and post the kickoff message", func(t *testing.T) {
		gw := &fakeGateway{
			channel:     textChannel,
			permissions: discordgo.PermissionCreatePublicThreads,
			thread:      &discordgo.Channel{ID: "thread-9", Type: discordgo.ChannelTypeGuildPublicThread},
		}
		tm := NewThreadManager(gw, testConfig(), mutedEntry())

		thread := tm.CreateThread(context.Background(), parentMsg, "DSU Morning · Mon, Jan 5", dsu.KindMorning)

		require.NotNil(t, thread)
		assert.Equal(t, "thread-9", thread.ID)

		require.Len(t, gw.threadCalls, 1)
		start := gw.threadCalls[0]
		assert.Equal(t, parentMsg.ChannelID, start.channelID)
		assert.Equal(t, parentMsg.ID, start.messageID)
		assert.Equal(t, "DSU Morning · Mon, Jan 5", start.name)
		assert.Equal(t, 1440, start.autoArchiveMinutes)
		assert.Equal(t, "Daily standup discussion", start.auditReason)

		require.Len(t, gw.sendCalls, 1)
		assert.Equal(t, "thread-9", gw.sendCalls[0].channelID)
		assert.Contains(t, gw.sendCalls[0].content, "morning")
	})

	t.Run("Should skip the kickoff message when turned off", func(t *testing.T) {
		gw := &fakeGateway{channel: textChannel, permissions: discordgo.PermissionCreatePublicThreads}
		cfg := testConfig()
		cfg.Threads.InitialMessage = false
		tm := NewThreadManager(gw, cfg, mutedEntry())

		thread := tm.CreateThread(context.Background(), parentMsg, "DSU Evening", dsu.KindEvening)

		require.NotNil(t, thread)
		assert.Empty(t, gw.sendCalls)
	})

	t.Run("Should keep the thread when the kickoff message fails", func(t *testing.T) {
		gw := &fakeGateway{
			channel:     textChannel,
			permissions: discordgo.PermissionCreatePublicThreads,
			sendErr:     restError(discordgo.ErrCodeMissingPermissions, "Missing Permissions"),
		}
		tm := NewThreadManager(gw, testConfig(), mutedEntry())

		thread := tm.CreateThread(context.Background(), parentMsg, "DSU Evening", dsu.KindEvening)

		require.NotNil(t, thread, "kickoff failure must not retract the thread")
		assert.Len(t, gw.sendCalls, 1)
	})

	t.Run("Should cap oversized titles at the Discord limit", func(t *testing.T) {
		gw := &fakeGateway{channel: textChannel, permissions: discordgo.PermissionCreatePublicThreads}
		tm := NewThreadManager(gw, testConfig(), mutedEntry())

		tm.CreateThread(context.Background(), parentMsg, strings.Repeat("x", 150), dsu.KindMorning)

		require.Len(t, gw.threadCalls, 1)
		assert.Len(t, []rune(gw.threadCalls[0].name), 100)
	})

	t.Run("Should expose the toggle through SetEnabled and Enabled", func(t *testing.T) {
		tm := NewThreadManager(&fakeGateway{}, testConfig(), mutedEntry())

		assert.True(t, tm.Enabled())
		tm.SetEnabled(false)
		assert.False(t, tm.Enabled())
		tm.SetEnabled(true)
		assert.True(t, tm.Enabled())
	})
}
