// internal/domain/dsu/template.go
package dsu

import (
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
)

// TemplateFormat selects how a DSU prompt is rendered.
type TemplateFormat string

const (
	FormatStandard TemplateFormat = "standard" // embed, one field per question
	FormatCompact  TemplateFormat = "compact"  // embed, questions inline in the description
	FormatMinimal  TemplateFormat = "minimal"  // plain text, no embed
)

// threadTitleLimit is Discord's channel/thread name cap.
const threadTitleLimit = 100

// MentionSet describes who gets pinged by a prompt.
type MentionSet struct {
	Everyone bool
	RoleIDs  []string
	UserIDs  []string
}

// Empty reports whether the set pings nobody.
func (m MentionSet) Empty() bool {
	return !m.Everyone && len(m.RoleIDs) == 0 && len(m.UserIDs) == 0
}

// PromptSpec carries everything needed to render one DSU prompt.
type PromptSpec struct {
	Kind     Kind
	Format   TemplateFormat
	Color    int
	Mentions MentionSet
	Now      time.Time // local wall clock, used for the date line
}

type promptSection struct {
	label    string
	question string
}

var promptHeadlines = map[Kind]string{
	KindMorning: "🌅 Good Morning! Time for the Daily Standup",
	KindEvening: "🌆 Evening Check-in",
}

var promptIntros = map[Kind]string{
	KindMorning: "Please share your update for today:",
	KindEvening: "Wrap up the day with a quick recap:",
}

var promptSections = map[Kind][]promptSection{
	KindMorning: {
		{label: "✅ Yesterday", question: "What did you accomplish?"},
		{label: "🎯 Today", question: "What will you work on?"},
		{label: "🚧 Blockers", question: "Anything slowing you down?"},
	},
	KindEvening: {
		{label: "✅ Done Today", question: "What did you get finished?"},
		{label: "📋 Tomorrow", question: "What carries over?"},
		{label: "🚧 Blockers", question: "Anything blocking the team?"},
	},
}

// BuildPrompt renders the DSU prompt message for spec. The result always
// carries an explicit allowed-mentions block, so only the configured mention
// set can actually ping anyone.
func BuildPrompt(spec PromptSpec) *discordgo.MessageSend {
	msg := &discordgo.MessageSend{AllowedMentions: allowedMentions(spec.Mentions)}
	if spec.Format == FormatMinimal {
		msg.Content = joinNonEmpty(mentionLine(spec.Mentions), minimalText(spec))
		return msg
	}
	msg.Content = mentionLine(spec.Mentions)
	msg.Embeds = []*discordgo.MessageEmbed{promptEmbed(spec)}
	return msg
}

// ThreadTitle builds the discussion-thread name for one dispatch, capped at
// Discord's 100-rune limit.
func ThreadTitle(kind Kind, now time.Time) string {
	return CapTitle(fmt.Sprintf("DSU %s · %s", kind.Title(), now.Format("Mon, Jan 2")))
}

// CapTitle truncates a thread title to the 100-rune limit.
func CapTitle(title string) string {
	runes := []rune(title)
	if len(runes) <= threadTitleLimit {
		return title
	}
	return string(runes[:threadTitleLimit])
}

// ThreadKickoff is the onboarding message posted into a freshly created
// discussion thread when the initial-message toggle is on.
func ThreadKickoff(kind Kind) string {
	return fmt.Sprintf("Drop your %s updates in this thread to keep the channel tidy. 🧵", string(kind))
}

func promptEmbed(spec PromptSpec) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:     promptHeadlines[spec.Kind],
		Color:     spec.Color,
		Timestamp: spec.Now.UTC().Format(time.RFC3339),
		Footer: &discordgo.MessageEmbedFooter{
			Text: "Daily Standup · " + spec.Now.Format("Monday, 2 Jan 2006"),
		},
	}
	sections := promptSections[spec.Kind]
	if spec.Format == FormatCompact {
		lines := make([]string, 0, len(sections)+1)
		lines = append(lines, promptIntros[spec.Kind])
		for i, s := range sections {
			lines = append(lines, fmt.Sprintf("%d. **%s** %s", i+1, s.label, s.question))
		}
		embed.Description = strings.Join(lines, "\n")
		return embed
	}
	embed.Description = promptIntros[spec.Kind]
	for _, s := range sections {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  s.label,
			Value: s.question,
		})
	}
	return embed
}

func minimalText(spec PromptSpec) string {
	sections := promptSections[spec.Kind]
	lines := make([]string, 0, len(sections)+2)
	lines = append(lines, "**"+promptHeadlines[spec.Kind]+"**")
	lines = append(lines, promptIntros[spec.Kind])
	for i, s := range sections {
		lines = append(lines, fmt.Sprintf("%d. %s %s", i+1, s.label, s.question))
	}
	return strings.Join(lines, "\n")
}

func mentionLine(m MentionSet) string {
	parts := make([]string, 0, 1+len(m.RoleIDs)+len(m.UserIDs))
	if m.Everyone {
		parts = append(parts, "@everyone")
	}
	for _, id := range m.RoleIDs {
		parts = append(parts, fmt.Sprintf("<@&%s>", id))
	}
	for _, id := range m.UserIDs {
		parts = append(parts, fmt.Sprintf("<@%s>", id))
	}
	return strings.Join(parts, " ")
}

func allowedMentions(m MentionSet) *discordgo.MessageAllowedMentions {
	allowed := &discordgo.MessageAllowedMentions{
		Roles: m.RoleIDs,
		Users: m.UserIDs,
	}
	if m.Everyone {
		allowed.Parse = append(allowed.Parse, discordgo.AllowedMentionTypeEveryone)
	}
	return allowed
}

func joinNonEmpty(parts ...string) string {
	kept := parts[:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, "\n")
}
