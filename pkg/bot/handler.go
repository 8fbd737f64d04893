package bot

import (
	"context"
	"strings"
	"sync"
	"time"

	// Packages
	uuid "github.com/google/uuid"
	observability "github.com/mutablelogic/go-weatherbot/pkg/observability"
	ui "github.com/mutablelogic/go-weatherbot/pkg/ui"
	zap "go.uber.org/zap"
)

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	StartMessage = "Hi! I'm your AI weather assistant powered by weather MCP capabilities. " +
		"I can fetch real-time weather data for most cities in the world.\n\n" +
		"Try asking: *what's the weather in Ubud?*"
	HelpMessage = "I can help you check real-time weather conditions! Just ask me something like:\n" +
		"*what's the weather in Ubud?*\n\n" +
		"Send /reset to start a new conversation."
	ResetMessage = "Done, I've forgotten our conversation."
	ErrorMessage = "Sorry, I encountered an error while processing your request."
	BusyMessage  = "I'm still working on your earlier messages, please send this one again in a moment."
)

// Number of characters of a message written to the log
const logPrefix = 50

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func (b *Bot) command(ctx context.Context, evt ui.Event) error {
	switch evt.Command {
	case "start":
		return evt.Context.SendMarkdown(ctx, StartMessage)
	case "reset":
		if err := b.agent.Reset(ctx, evt.Context.ConversationID()); err != nil {
			return b.fail(ctx, evt, err)
		}
		return evt.Context.SendText(ctx, ResetMessage)
	default:
		return evt.Context.SendMarkdown(ctx, HelpMessage)
	}
}

func (b *Bot) text(ctx context.Context, evt ui.Event) error {
	text := strings.TrimSpace(evt.Text)
	if text == "" {
		return nil
	}
	b.logger.Info("received message",
		zap.String("conversation", evt.Context.ConversationID()),
		zap.String("user", evt.Context.UserName()),
		zap.String("text", truncate(text, logPrefix)),
	)

	// Show the typing indicator until the answer is ready
	var wg sync.WaitGroup
	done := make(chan struct{})
	wg.Go(func() {
		b.typing(ctx, evt.Context, done)
	})
	defer wg.Wait()
	defer close(done)

	// Ask the agent
	reply, err := b.agent.Ask(ctx, evt.Context.ConversationID(), text)
	if err != nil {
		return b.fail(ctx, evt, err)
	}
	return evt.Context.SendMarkdown(ctx, reply)
}

// fail logs the error with a request id and sends the generic notice. The
// notice does not include the error.
func (b *Bot) fail(ctx context.Context, evt ui.Event, err error) error {
	b.logger.Error("error processing message",
		zap.String("request", uuid.NewString()),
		zap.String("conversation", evt.Context.ConversationID()),
		zap.Error(err),
	)
	if sendErr := evt.Context.SendText(ctx, ErrorMessage); sendErr != nil {
		b.logger.Warn("error sending notice", zap.Error(sendErr))
	}
	return err
}

// busy tells the conversation its message was not queued
func (b *Bot) busy(ctx context.Context, evt ui.Event) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), b.timeout)
	defer cancel()

	b.logger.Warn("conversation busy, message refused",
		zap.String("conversation", evt.Context.ConversationID()),
		zap.Int("queue", b.queueSize),
	)
	observability.MessagesTotal.WithLabelValues(evt.Type.String(), observability.StatusBusy).Inc()
	if err := evt.Context.SendText(ctx, BusyMessage); err != nil {
		b.logger.Warn("error sending notice", zap.Error(err))
	}
}

// typing repeats the typing indicator until done is closed
func (b *Bot) typing(ctx context.Context, c ui.Context, done <-chan struct{}) {
	ticker := time.NewTicker(b.opts.typing)
	defer ticker.Stop()
	for {
		if err := c.SetTyping(ctx, true); err != nil {
			b.logger.Debug("typing indicator", zap.Error(err))
		}
		select {
		case <-done:
			c.SetTyping(ctx, false)
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (b *Bot) observe(evt ui.Event, err error, duration time.Duration) {
	observability.MessagesTotal.WithLabelValues(evt.Type.String(), observability.Status(err)).Inc()
	if evt.Type == ui.EventText {
		observability.ReplyDuration.Observe(duration.Seconds())
	}
	if err != nil {
		b.logger.Debug("message handled with error", zap.Stringer("type", evt.Type), zap.Duration("duration", duration))
	}
}

func truncate(s string, n int) string {
	if runes := []rune(s); len(runes) > n {
		return string(runes[:n]) + "..."
	}
	return s
}
