package bot

import (
	"time"

	// Packages
	weatherbot "github.com/mutablelogic/go-weatherbot"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// Opt sets an option on the bot
type Opt func(*opts) error

type opts struct {
	queueSize int           // events waiting per conversation before refusing more
	timeout   time.Duration // time allowed to answer one message
	typing    time.Duration // interval between typing indicators
}

////////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	defaultQueueSize = 16
	defaultTimeout   = 2 * time.Minute

	// Telegram shows a typing indicator for five seconds
	defaultTyping = 4 * time.Second
)

////////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

func defaultOpts() opts {
	return opts{
		queueSize: defaultQueueSize,
		timeout:   defaultTimeout,
		typing:    defaultTyping,
	}
}

////////////////////////////////////////////////////////////////////////////////
// OPTIONS

// WithQueueSize sets how many messages may wait in one conversation while
// another is being answered. Further messages get a busy notice.
func WithQueueSize(n int) Opt {
	return func(o *opts) error {
		if n < 1 {
			return weatherbot.ErrBadParameter.Withf("queue size must be at least 1, got %d", n)
		}
		o.queueSize = n
		return nil
	}
}

// WithTimeout sets the time allowed to answer one message
func WithTimeout(d time.Duration) Opt {
	return func(o *opts) error {
		if d <= 0 {
			return weatherbot.ErrBadParameter.Withf("invalid timeout: %v", d)
		}
		o.timeout = d
		return nil
	}
}

// WithTypingInterval sets how often the typing indicator is repeated
// while a message is being answered
func WithTypingInterval(d time.Duration) Opt {
	return func(o *opts) error {
		if d <= 0 {
			return weatherbot.ErrBadParameter.Withf("invalid typing interval: %v", d)
		}
		o.typing = d
		return nil
	}
}
