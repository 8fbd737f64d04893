// Package telegram implements [ui.ChatUI] for Telegram bots using telebot v4.
package telegram

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"sync"
	"time"

	// Packages
	ui "github.com/mutablelogic/go-weatherbot/pkg/ui"
	zap "go.uber.org/zap"
	tele "gopkg.in/telebot.v4"
)

///////////////////////////////////////////////////////////////////////////////
// CONSTANTS

const (
	// Long polling timeout
	pollTimeout = 10 * time.Second

	// Maximum message length, in UTF-16 code units
	maxMessageLength = 4096
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Telegram implements [ui.ChatUI] for the Telegram Bot API.
type Telegram struct {
	bot    *tele.Bot
	logger *zap.Logger
	events chan ui.Event
	stop   chan struct{}
	done   chan struct{}
	once   sync.Once
}

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// New creates a Telegram bot UI with the given token, which is checked
// with the Bot API. It starts long-polling in a background goroutine and
// returns immediately. Updates are handled one at a time, so events are
// received in the order they arrived.
func New(token string, logger *zap.Logger) (*Telegram, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	bot, err := tele.NewBot(tele.Settings{
		Token:       token,
		Poller:      &tele.LongPoller{Timeout: pollTimeout},
		Synchronous: true,
		OnError: func(err error, c tele.Context) {
			logger.Error("telegram", zap.Error(err))
		},
	})
	if err != nil {
		return nil, fmt.Errorf("telegram: %w", err)
	}

	t := &Telegram{
		bot:    bot,
		logger: logger,
		events: make(chan ui.Event, 32),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}

	// Register handlers
	bot.Handle(tele.OnText, t.onText)

	// Start polling in the background
	go func() {
		bot.Start()
		close(t.done)
	}()

	logger.Info("telegram bot started", zap.String("username", bot.Me.Username))
	return t, nil
}

///////////////////////////////////////////////////////////////////////////////
// ChatUI IMPLEMENTATION

// Receive blocks until the next incoming event, context cancellation, or
// shutdown. It returns io.EOF when the bot is stopped.
func (t *Telegram) Receive(ctx context.Context) (ui.Event, error) {
	select {
	case evt := <-t.events:
		return evt, nil
	case <-ctx.Done():
		return ui.Event{}, ctx.Err()
	case <-t.done:
		return ui.Event{}, io.EOF
	}
}

// Close stops the bot poller and waits for it to finish.
func (t *Telegram) Close() error {
	t.once.Do(func() {
		close(t.stop)
		t.bot.Stop()
	})
	<-t.done
	return nil
}

///////////////////////////////////////////////////////////////////////////////
// TELEBOT HANDLERS

// onText queues the message. It blocks while the queue is full, which holds
// back the poller rather than dropping messages.
func (t *Telegram) onText(c tele.Context) error {
	evt := ui.NewEvent(newContext(c.Bot(), c.Chat(), c.Sender()), c.Text())
	select {
	case t.events <- evt:
	case <-t.stop:
	}
	return nil
}

///////////////////////////////////////////////////////////////////////////////
// CONTEXT

// telegramContext implements [ui.Context] for a single Telegram conversation.
type telegramContext struct {
	api  tele.API
	chat *tele.Chat
	user *tele.User
}

var _ ui.Context = (*telegramContext)(nil)

func newContext(api tele.API, chat *tele.Chat, user *tele.User) *telegramContext {
	return &telegramContext{
		api:  api,
		chat: chat,
		user: user,
	}
}

// UserID returns the Telegram user ID as a string.
func (c *telegramContext) UserID() string {
	if c.user != nil {
		return strconv.FormatInt(c.user.ID, 10)
	}
	return ""
}

// UserName returns the user's display name (username, or first+last name).
func (c *telegramContext) UserName() string {
	if c.user == nil {
		return ""
	}
	if c.user.Username != "" {
		return c.user.Username
	}
	name := c.user.FirstName
	if c.user.LastName != "" {
		name += " " + c.user.LastName
	}
	return name
}

// ConversationID returns the Telegram chat ID as a string.
func (c *telegramContext) ConversationID() string {
	if c.chat != nil {
		return strconv.FormatInt(c.chat.ID, 10)
	}
	return ""
}

// SendText sends a plain-text message to the conversation, split into
// several messages when it is too long.
func (c *telegramContext) SendText(_ context.Context, text string) error {
	for _, part := range splitText(text, maxMessageLength) {
		if _, err := c.api.Send(c.chat, part); err != nil {
			return err
		}
	}
	return nil
}

// SendMarkdown sends a Markdown-formatted message as text with Telegram
// entities. If Telegram rejects the entities, or the message is too long
// for one message, it is sent as plain text.
func (c *telegramContext) SendMarkdown(ctx context.Context, markdown string) error {
	text, entities := markdownToEntities(markdown)
	if len(entities) == 0 || utf16Len(text) > maxMessageLength {
		return c.SendText(ctx, text)
	}
	if _, err := c.api.Send(c.chat, text, entities); err == nil {
		return nil
	}
	return c.SendText(ctx, text)
}

// SetTyping sends (or ignores a stop for) the "typing" chat action.
func (c *telegramContext) SetTyping(_ context.Context, typing bool) error {
	if typing {
		return c.api.Notify(c.chat, tele.Typing)
	}
	return nil
}
