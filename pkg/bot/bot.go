// Package bot answers chat messages with an agent. Messages from one
// conversation are answered in the order they arrive, and conversations
// are served concurrently.
package bot

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	// Packages
	weatherbot "github.com/mutablelogic/go-weatherbot"
	observability "github.com/mutablelogic/go-weatherbot/pkg/observability"
	ui "github.com/mutablelogic/go-weatherbot/pkg/ui"
	zap "go.uber.org/zap"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Agent answers a message within a conversation
type Agent interface {
	Ask(ctx context.Context, conversation, text string) (string, error)
	Reset(ctx context.Context, conversation string) error
}

type Bot struct {
	ui     ui.ChatUI
	agent  Agent
	logger *zap.Logger
	opts

	// Per-conversation queues, guarded by mu
	mu     sync.Mutex
	queues map[string]*queue
	wg     sync.WaitGroup
}

// queue holds the events of one conversation waiting to be answered
type queue struct {
	events []ui.Event
}

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// New creates a bot which receives events from the chat UI and answers
// them with the agent
func New(chat ui.ChatUI, agent Agent, logger *zap.Logger, opt ...Opt) (*Bot, error) {
	if chat == nil {
		return nil, weatherbot.ErrBadParameter.With("chat ui is required")
	} else if agent == nil {
		return nil, weatherbot.ErrBadParameter.With("agent is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	self := &Bot{
		ui:     chat,
		agent:  agent,
		logger: logger,
		opts:   defaultOpts(),
		queues: make(map[string]*queue),
	}
	for _, fn := range opt {
		if err := fn(&self.opts); err != nil {
			return nil, err
		}
	}

	// Return success
	return self, nil
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Run receives events until the context is cancelled or the chat UI is
// closed, and then waits for messages being answered to complete
func (b *Bot) Run(ctx context.Context) error {
	defer b.wg.Wait()

	for {
		evt, err := b.ui.Receive(ctx)
		if errors.Is(err, io.EOF) || ctx.Err() != nil {
			return nil
		} else if err != nil {
			return err
		}
		if evt.Context == nil {
			continue
		}
		b.dispatch(ctx, evt)
	}
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// dispatch queues the event for its conversation, starting a worker for the
// conversation when there is none. It never blocks: when the conversation
// already has a full backlog, the event is refused with a busy notice to
// that conversation only.
func (b *Bot) dispatch(ctx context.Context, evt ui.Event) {
	conversation := evt.Context.ConversationID()

	b.mu.Lock()
	defer b.mu.Unlock()

	q, exists := b.queues[conversation]
	if !exists {
		q = new(queue)
		b.queues[conversation] = q
		b.wg.Add(1)
		go b.worker(ctx, conversation, q)
	} else if len(q.events) >= b.queueSize {
		b.wg.Go(func() {
			b.busy(ctx, evt)
		})
		return
	}
	q.events = append(q.events, evt)
}

// worker answers the events of one conversation in order, and exits when
// its queue is empty or the context is cancelled
func (b *Bot) worker(ctx context.Context, conversation string, q *queue) {
	defer b.wg.Done()
	observability.ActiveChats.Inc()
	defer observability.ActiveChats.Dec()

	for {
		evt, ok := b.next(ctx, conversation, q)
		if !ok {
			return
		}
		b.handle(ctx, evt)
	}
}

// next removes the oldest event from the queue. When the queue is empty or
// the context is cancelled, the queue is removed and false is returned.
func (b *Bot) next(ctx context.Context, conversation string, q *queue) (ui.Event, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(q.events) == 0 || ctx.Err() != nil {
		delete(b.queues, conversation)
		return ui.Event{}, false
	}
	evt := q.events[0]
	q.events[0] = ui.Event{}
	q.events = q.events[1:]
	return evt, true
}

// handle answers one event. A message being answered is allowed to complete
// after the context is cancelled, within the reply timeout.
func (b *Bot) handle(ctx context.Context, evt ui.Event) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), b.timeout)
	defer cancel()

	start := time.Now()
	var err error
	switch evt.Type {
	case ui.EventCommand:
		err = b.command(ctx, evt)
	case ui.EventText:
		err = b.text(ctx, evt)
	}
	b.observe(evt, err, time.Since(start))
}
