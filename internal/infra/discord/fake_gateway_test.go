// internal/infra/discord/fake_gateway_test.go
package discord

import (
	"context"
	"fmt"
	"io"

	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"

	"github.com/opisboy29/discord-dsu-bot/internal/infra/config"
)

// fakeGateway is the scriptable in-memory gateway shared by this package's
// tests. The zero value behaves like a healthy gateway with no channels;
// tests set only the fields they need.
type fakeGateway struct {
	channel    *discordgo.Channel
	channelErr error

	permissions    int64
	permissionsErr error

	sendErr error
	sendOK  *discordgo.Message

	complexErr error
	complexOK  *discordgo.Message

	deleteErr error

	thread    *discordgo.Channel
	threadErr error

	memberErr  error
	botUser    *discordgo.User
	botUserErr error

	ready bool

	channelCalls int
	permsCalls   int
	memberCalls  int
	sendCalls    []sentText
	complexCalls []sentPayload
	deleteCalls  []deletedMessage
	threadCalls  []threadStart
}

type sentText struct {
	channelID string
	content   string
}

type sentPayload struct {
	channelID string
	payload   *discordgo.MessageSend
}

type deletedMessage struct {
	channelID string
	messageID string
}

type threadStart struct {
	channelID          string
	messageID          string
	name               string
	autoArchiveMinutes int
	auditReason        string
}

func (f *fakeGateway) Channel(_ context.Context, _ string) (*discordgo.Channel, error) {
	f.channelCalls++
	if f.channelErr != nil {
		return nil, f.channelErr
	}
	return f.channel, nil
}

func (f *fakeGateway) SendMessage(_ context.Context, channelID, content string) (*discordgo.Message, error) {
	f.sendCalls = append(f.sendCalls, sentText{channelID: channelID, content: content})
	if f.sendErr != nil {
		return nil, f.sendErr
	}
	if f.sendOK != nil {
		return f.sendOK, nil
	}
	return &discordgo.Message{ID: fmt.Sprintf("msg-%d", len(f.sendCalls)), ChannelID: channelID}, nil
}

func (f *fakeGateway) SendComplex(_ context.Context, channelID string, payload *discordgo.MessageSend) (*discordgo.Message, error) {
	f.complexCalls = append(f.complexCalls, sentPayload{channelID: channelID, payload: payload})
	if f.complexErr != nil {
		return nil, f.complexErr
	}
	if f.complexOK != nil {
		return f.complexOK, nil
	}
	return &discordgo.Message{ID: fmt.Sprintf("embed-%d", len(f.complexCalls)), ChannelID: channelID}, nil
}

func (f *fakeGateway) DeleteMessage(_ context.Context, channelID, messageID string) error {
	f.deleteCalls = append(f.deleteCalls, deletedMessage{channelID: channelID, messageID: messageID})
	return f.deleteErr
}

func (f *fakeGateway) StartThread(_ context.Context, channelID, messageID, name string, autoArchiveMinutes int, auditReason string) (*discordgo.Channel, error) {
	f.threadCalls = append(f.threadCalls, threadStart{
		channelID:          channelID,
		messageID:          messageID,
		name:               name,
		autoArchiveMinutes: autoArchiveMinutes,
		auditReason:        auditReason,
	})
	if f.threadErr != nil {
		return nil, f.threadErr
	}
	if f.thread != nil {
		return f.thread, nil
	}
	return &discordgo.Channel{ID: "thread-1", Name: name, Type: discordgo.ChannelTypeGuildPublicThread}, nil
}

func (f *fakeGateway) BotPermissions(_ context.Context, _ string) (int64, error) {
	f.permsCalls++
	if f.permissionsErr != nil {
		return 0, f.permissionsErr
	}
	return f.permissions, nil
}

func (f *fakeGateway) GuildMember(_ context.Context, _, _ string) (*discordgo.Member, error) {
	f.memberCalls++
	if f.memberErr != nil {
		return nil, f.memberErr
	}
	return &discordgo.Member{User: &discordgo.User{ID: "bot-1"}}, nil
}

func (f *fakeGateway) BotUser() (*discordgo.User, error) {
	if f.botUserErr != nil {
		return nil, f.botUserErr
	}
	if f.botUser != nil {
		return f.botUser, nil
	}
	return &discordgo.User{ID: "bot-1", Username: "dsu-bot", Bot: true}, nil
}

func (f *fakeGateway) Ready() bool { return f.ready }

func restError(code int, message string) *discordgo.RESTError {
	return &discordgo.RESTError{
		Message: &discordgo.APIErrorMessage{Code: code, Message: message},
	}
}

func mutedEntry() *logrus.Entry {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return logrus.NewEntry(log)
}

func testConfig() *config.AppConfig {
	cfg := &config.AppConfig{}
	cfg.ChannelID = "123456789012345678"
	cfg.TemplateFormat = "standard"
	cfg.Colors.Morning = "F1C40F"
	cfg.Colors.Evening = "9B59B6"
	cfg.Colors.Success = "2ECC71"
	cfg.Colors.Error = "E74C3C"
	cfg.Threads.Enabled = true
	cfg.Threads.AutoArchiveMinutes = 1440
	cfg.Threads.Reason = "Daily standup discussion"
	cfg.Threads.InitialMessage = true
	return cfg
}
