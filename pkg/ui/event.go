package ui

import (
	"strings"
)

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// NewEvent returns a text event, or a command event when the text starts
// with a slash. A "@botname" suffix on the command is removed.
func NewEvent(ctx Context, text string) Event {
	evt := Event{
		Type:    EventText,
		Context: ctx,
		Text:    text,
	}

	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "/") {
		return evt
	}
	parts := strings.Fields(trimmed)
	command, _, _ := strings.Cut(strings.TrimPrefix(parts[0], "/"), "@")
	if command == "" {
		return evt
	}

	evt.Type = EventCommand
	evt.Command = strings.ToLower(command)
	if len(parts) > 1 {
		evt.Args = parts[1:]
	}
	return evt
}
