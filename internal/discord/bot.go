// Package discord is the chat transport: it feeds DMs and mentions to the
// router and delivers outbound notifications as direct messages.
package discord

import (
	"context"
	"log/slog"

	"github.com/bwmarrin/discordgo"
	"github.com/m-mizutani/goerr/v2"
)

// Handler turns one user message into one reply.
type Handler interface {
	Handle(ctx context.Context, text, userID string) string
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, text, userID string) string

func (f HandlerFunc) Handle(ctx context.Context, text, userID string) string {
	return f(ctx, text, userID)
}

type Bot struct {
	session *discordgo.Session
	handler Handler
	logger  *slog.Logger
}

func NewBot(token string, handler Handler, logger *slog.Logger) (*Bot, error) {
	s, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, goerr.Wrap(err, "creating Discord session")
	}
	if logger == nil {
		logger = slog.Default()
	}

	bot := &Bot{session: s, handler: handler, logger: logger.With("component", "discord")}
	s.AddHandler(bot.onMessage)
	s.Identify.Intents = discordgo.IntentsDirectMessages | discordgo.IntentsGuildMessages | discordgo.IntentsMessageContent
	return bot, nil
}

// Open connects the gateway. Notify works before Open since it only uses
// the REST API.
func (b *Bot) Open() error {
	if err := b.session.Open(); err != nil {
		return goerr.Wrap(err, "opening Discord connection")
	}
	b.logger.Info("connected", "as", b.session.State.User.Username)
	return nil
}

func (b *Bot) Close() error {
	return b.session.Close()
}

// Send delivers message to recipient (a Discord user id) as a DM.
func (b *Bot) Send(ctx context.Context, recipient, message string) error {
	if recipient == "" {
		return goerr.New("no recipient for direct message")
	}
	ch, err := b.session.UserChannelCreate(recipient, discordgo.WithContext(ctx))
	if err != nil {
		return goerr.Wrap(err, "opening DM channel", goerr.V("recipient", recipient))
	}
	for _, chunk := range splitMessage(message, maxMessageLen) {
		if _, err := b.session.ChannelMessageSend(ch.ID, chunk, discordgo.WithContext(ctx)); err != nil {
			return goerr.Wrap(err, "sending DM", goerr.V("recipient", recipient))
		}
	}
	return nil
}
