package dsu

import (
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPrompt(t *testing.T) {
	now := time.Date(2025, 1, 8, 9, 0, 0, 0, time.FixedZone("WIB", 7*60*60))

	t.Run("Should render standard format as an embed with one field per question", func(t *testing.T) {
		msg := BuildPrompt(PromptSpec{Kind: KindMorning, Format: FormatStandard, Color: 0xF1C40F, Now: now})

		require.Len(t, msg.Embeds, 1)
		embed := msg.Embeds[0]
		assert.Equal(t, 0xF1C40F, embed.Color)
		assert.Len(t, embed.Fields, 3)
		for _, field := range embed.Fields {
			assert.NotEmpty(t, field.Name)
			assert.NotEmpty(t, field.Value)
		}
		assert.Empty(t, msg.Content)
	})

	t.Run("Should render compact format with questions inline in the description", func(t *testing.T) {
		msg := BuildPrompt(PromptSpec{Kind: KindEvening, Format: FormatCompact, Color: 0x9B59B6, Now: now})

		require.Len(t, msg.Embeds, 1)
		embed := msg.Embeds[0]
		assert.Empty(t, embed.Fields)
		assert.Contains(t, embed.Description, "1.")
		assert.Contains(t, embed.Description, "3.")
	})

	t.Run("Should render minimal format as plain text without embeds", func(t *testing.T) {
		msg := BuildPrompt(PromptSpec{Kind: KindMorning, Format: FormatMinimal, Now: now})

		assert.Empty(t, msg.Embeds)
		assert.Contains(t, msg.Content, "Daily Standup")
		assert.Contains(t, msg.Content, "1.")
	})

	t.Run("Should prefix the configured mentions and allow exactly them", func(t *testing.T) {
		mentions := MentionSet{
			Everyone: true,
			RoleIDs:  []string{"123456789012345678"},
			UserIDs:  []string{"234567890123456789"},
		}
		msg := BuildPrompt(PromptSpec{Kind: KindMorning, Format: FormatStandard, Mentions: mentions, Now: now})

		assert.Contains(t, msg.Content, "@everyone")
		assert.Contains(t, msg.Content, "<@&123456789012345678>")
		assert.Contains(t, msg.Content, "<@234567890123456789>")
		require.NotNil(t, msg.AllowedMentions)
		assert.Equal(t, []discordgo.AllowedMentionType{discordgo.AllowedMentionTypeEveryone}, msg.AllowedMentions.Parse)
		assert.Equal(t, mentions.RoleIDs, msg.AllowedMentions.Roles)
		assert.Equal(t, mentions.UserIDs, msg.AllowedMentions.Users)
	})

	t.Run("Should suppress all pings when no mentions are configured", func(t *testing.T) {
		msg := BuildPrompt(PromptSpec{Kind: KindEvening, Format: FormatStandard, Now: now})

		require.NotNil(t, msg.AllowedMentions)
		assert.Empty(t, msg.AllowedMentions.Parse)
		assert.Empty(t, msg.AllowedMentions.Roles)
		assert.Empty(t, msg.AllowedMentions.Users)
		assert.Empty(t, msg.Content)
	})
}

func TestThreadTitle(t *testing.T) {
	now := time.Date(2025, 1, 8, 9, 0, 0, 0, time.UTC)

	t.Run("Should name the thread after kind and date", func(t *testing.T) {
		title := ThreadTitle(KindMorning, now)

		assert.Contains(t, title, "Morning")
		assert.Contains(t, title, "Jan 8")
		assert.LessOrEqual(t, len([]rune(title)), 100)
	})
}

func TestCapTitle(t *testing.T) {
	t.Run("Should leave short titles untouched", func(t *testing.T) {
		assert.Equal(t, "DSU Morning", CapTitle("DSU Morning"))
	})

	t.Run("Should cut at 100 runes, not bytes", func(t *testing.T) {
		long := strings.Repeat("й", 150)

		capped := CapTitle(long)

		assert.Equal(t, 100, len([]rune(capped)))
		assert.Equal(t, strings.Repeat("й", 100), capped)
	})
}

func TestMentionSetEmpty(t *testing.T) {
	assert.True(t, MentionSet{}.Empty())
	assert.False(t, MentionSet{Everyone: true}.Empty())
	assert.False(t, MentionSet{RoleIDs: []string{"123456789012345678"}}.Empty())
	assert.False(t, MentionSet{UserIDs: []string{"123456789012345678"}}.Empty())
}
