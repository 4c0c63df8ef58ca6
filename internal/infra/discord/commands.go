// internal/infra/discord/commands.go
package discord

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"

	"github.com/opisboy29/discord-dsu-bot/internal/app"
	domaindiscord "github.com/opisboy29/discord-dsu-bot/internal/domain/discord"
	"github.com/opisboy29/discord-dsu-bot/internal/domain/dsu"
	"github.com/opisboy29/discord-dsu-bot/internal/infra/config"
	"github.com/opisboy29/discord-dsu-bot/internal/infra/metrics"
	"github.com/opisboy29/discord-dsu-bot/internal/infra/scheduler"
)

const (
	cmdTriggerMorning = "!trigger-morning"
	cmdTriggerEvening = "!trigger-evening"
	cmdShowHelp       = "!show-help"
	cmdShowStatus     = "!show-status"

	// commandTimeout bounds one manual command end to end, including the
	// dispatch it may kick off.
	commandTimeout = 30 * time.Second
)

// SchedulerStatus exposes the scheduler state consumed by the help and
// status commands.
type SchedulerStatus interface {
	Status() scheduler.Snapshot
}

// ThreadToggle reports whether thread creation is currently enabled.
type ThreadToggle interface {
	Enabled() bool
}

// CommandHandler serves the manual chat commands. Manual triggers reuse the
// scheduled dispatch flow but target the channel the command was typed in,
// and they deliberately skip the weekday gate: a human asking for a prompt
// is explicit intent.
type CommandHandler struct {
	dispatcher  app.Dispatcher
	schedStatus SchedulerStatus
	threads     ThreadToggle
	gateway     domaindiscord.Gateway
	cfg         *config.AppConfig
	log         *logrus.Entry
	startedAt   time.Time
}

func NewCommandHandler(
	dispatcher app.Dispatcher,
	schedStatus SchedulerStatus,
	threads ThreadToggle,
	gateway domaindiscord.Gateway,
	cfg *config.AppConfig,
	logger *logrus.Entry,
) *CommandHandler {
	return &CommandHandler{
		dispatcher:  dispatcher,
		schedStatus: schedStatus,
		threads:     threads,
		gateway:     gateway,
		cfg:         cfg,
		log:         logger,
		startedAt:   time.Now(),
	}
}

// Register attaches the message handler to the live session. Commands stay
// available even when scheduling is disabled, so operators can always
// trigger and inspect the bot manually.
func (h *CommandHandler) Register(session *discordgo.Session) {
	session.AddHandler(func(_ *discordgo.Session, m *discordgo.MessageCreate) {
		h.HandleMessageCreate(m)
	})
	h.log.Info("Manual command handlers registered")
}

// HandleMessageCreate routes one incoming message to its command handler.
// Matching is case-insensitive on the trimmed content; anything that is not
// an exact command is ignored without logging to keep chatter out of logs.
func (h *CommandHandler) HandleMessageCreate(m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}
	command := strings.ToLower(strings.TrimSpace(m.Content))
	switch command {
	case cmdTriggerMorning:
		h.handleTrigger(m, dsu.KindMorning, command)
	case cmdTriggerEvening:
		h.handleTrigger(m, dsu.KindEvening, command)
	case cmdShowHelp:
		h.handleHelp(m, command)
	case cmdShowStatus:
		h.handleStatus(m, command)
	}
}

func (h *CommandHandler) handleTrigger(m *discordgo.MessageCreate, kind dsu.Kind, command string) {
	metrics.IncCommand(command)
	logCtx := h.log.WithFields(logrus.Fields{
		"command":    command,
		"sender_id":  m.Author.ID,
		"channel_id": m.ChannelID,
	})
	logCtx.Info("Processing manual trigger command")

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	event := h.dispatcher.Dispatch(ctx, kind, m.ChannelID)
	app.LogDispatchEvent(h.log, event)

	if event.Delivered() {
		return
	}
	// The prompt never made it, so tell the person who asked. The apology is
	// plain text: if embeds are the problem, an embed reply would fail too.
	if _, err := h.gateway.SendMessage(ctx, m.ChannelID, domaindiscord.Apology(event.Err)); err != nil {
		logCtx.WithError(err).Error("Could not deliver failure notice for manual trigger")
	}
}

func (h *CommandHandler) handleHelp(m *discordgo.MessageCreate, command string) {
	metrics.IncCommand(command)
	logCtx := h.log.WithFields(logrus.Fields{
		"command":   command,
		"sender_id": m.Author.ID,
	})
	logCtx.Info("Processing help command")

	var commands strings.Builder
	commands.WriteString("`" + cmdTriggerMorning + "` — post the morning standup prompt here, right now\n")
	commands.WriteString("`" + cmdTriggerEvening + "` — post the evening standup prompt here, right now\n")
	commands.WriteString("`" + cmdShowStatus + "` — show scheduler and connection status\n")
	commands.WriteString("`" + cmdShowHelp + "` — show this message")

	var schedules strings.Builder
	snapshot := h.schedStatus.Status()
	for _, trigger := range snapshot.Triggers {
		fmt.Fprintf(&schedules, "%s: %s\n", dsu.Kind(trigger.Kind).Title(), trigger.Description)
	}
	fmt.Fprintf(&schedules, "Timezone: %s. Weekend runs are skipped automatically.", snapshot.Timezone)

	embed := &discordgo.MessageEmbed{
		Title:       "DSU Bot Help",
		Description: "I post the team's daily standup prompts on a schedule. You can also drive me by hand:",
		Color:       embedColor(h.cfg.Colors.Success),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Commands", Value: commands.String()},
			{Name: "Schedule", Value: schedules.String()},
		},
	}
	h.sendEmbed(m.ChannelID, embed, logCtx)
}

func (h *CommandHandler) handleStatus(m *discordgo.MessageCreate, command string) {
	metrics.IncCommand(command)
	logCtx := h.log.WithFields(logrus.Fields{
		"command":   command,
		"sender_id": m.Author.ID,
	})
	logCtx.Info("Processing status command")

	snapshot := h.schedStatus.Status()

	gatewayState := "Connected"
	if !h.gateway.Ready() {
		gatewayState = "Reconnecting"
	}
	schedulerState := "Stopped"
	if snapshot.Running {
		schedulerState = "Running"
	}
	dayState := "Weekend (scheduled prompts paused)"
	if snapshot.WeekdayNow {
		dayState = "Weekday (scheduled prompts active)"
	}
	threadState := "Disabled"
	if h.threads.Enabled() {
		threadState = "Enabled"
	}

	fields := []*discordgo.MessageEmbedField{
		{Name: "Uptime", Value: time.Since(h.startedAt).Truncate(time.Second).String(), Inline: true},
		{Name: "Gateway", Value: gatewayState, Inline: true},
		{Name: "Scheduler", Value: schedulerState, Inline: true},
		{Name: "Timezone", Value: snapshot.Timezone, Inline: true},
		{Name: "Today", Value: dayState, Inline: true},
		{Name: "Threads", Value: threadState, Inline: true},
	}
	for _, trigger := range snapshot.Triggers {
		value := trigger.Description
		if trigger.NextRun != "" {
			value = fmt.Sprintf("%s\nNext: %s", trigger.Description, trigger.NextRun)
		}
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:  dsu.Kind(trigger.Kind).Title() + " Trigger",
			Value: value,
		})
	}
	if h.cfg.DryRun {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:  "Mode",
			Value: "Dry run — prompts are logged, not sent",
		})
	}

	embed := &discordgo.MessageEmbed{
		Title:  "DSU Bot Status",
		Color:  embedColor(h.cfg.Colors.Success),
		Fields: fields,
	}
	h.sendEmbed(m.ChannelID, embed, logCtx)
}

func (h *CommandHandler) sendEmbed(channelID string, embed *discordgo.MessageEmbed, logCtx *logrus.Entry) {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()
	if _, err := h.gateway.SendComplex(ctx, channelID, &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{embed},
	}); err != nil {
		logCtx.WithError(err).WithField("hint", domaindiscord.Hint(err)).Error("Could not send command response")
	}
}

func embedColor(raw string) int {
	color, err := strconv.ParseInt(raw, 16, 32)
	if err != nil {
		return 0
	}
	return int(color)
}
