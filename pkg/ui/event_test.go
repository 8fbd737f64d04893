package ui_test

import (
	"testing"

	// Packages
	ui "github.com/mutablelogic/go-weatherbot/pkg/ui"
	assert "github.com/stretchr/testify/assert"
)

func Test_event_001(t *testing.T) {
	tests := []struct {
		text    string
		typ     ui.EventType
		command string
		args    []string
	}{
		{"what's the weather in Ubud?", ui.EventText, "", nil},
		{"/start", ui.EventCommand, "start", nil},
		{"  /help  ", ui.EventCommand, "help", nil},
		{"/Start@WeatherBot", ui.EventCommand, "start", nil},
		{"/reset now please", ui.EventCommand, "reset", []string{"now", "please"}},
		{"/", ui.EventText, "", nil},
		{"/@bot", ui.EventText, "", nil},
		{"1/2 of the sky is cloudy", ui.EventText, "", nil},
	}
	for _, tt := range tests {
		evt := ui.NewEvent(nil, tt.text)
		assert.Equal(t, tt.typ, evt.Type, tt.text)
		assert.Equal(t, tt.command, evt.Command, tt.text)
		assert.Equal(t, tt.args, evt.Args, tt.text)
		assert.Equal(t, tt.text, evt.Text)
	}
}

func Test_event_002(t *testing.T) {
	assert := assert.New(t)
	assert.Equal("text", ui.EventText.String())
	assert.Equal("command", ui.EventCommand.String())
	assert.Equal("unknown", ui.EventType(99).String())
}
