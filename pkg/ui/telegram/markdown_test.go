package telegram

import (
	"strings"
	"testing"

	// Packages
	assert "github.com/stretchr/testify/assert"
	tele "gopkg.in/telebot.v4"
)

func Test_markdown_001(t *testing.T) {
	assert := assert.New(t)
	text, entities := markdownToEntities("no formatting here")
	assert.Equal("no formatting here", text)
	assert.Nil(entities)
}

func Test_markdown_002(t *testing.T) {
	// Telegram style: single asterisk is bold, underscore is italic
	assert := assert.New(t)
	text, entities := markdownToEntities("Weather in *Ubud* is _nice_")
	assert.Equal("Weather in Ubud is nice", text)
	if assert.Len(entities, 2) {
		assert.Equal(tele.EntityBold, entities[0].Type)
		assert.Equal(11, entities[0].Offset)
		assert.Equal(4, entities[0].Length)
		assert.Equal(tele.EntityItalic, entities[1].Type)
		assert.Equal(19, entities[1].Offset)
		assert.Equal(4, entities[1].Length)
	}
}

func Test_markdown_003(t *testing.T) {
	// Emoji before an entity count as two UTF-16 units
	assert := assert.New(t)
	text, entities := markdownToEntities("🌡️ Temperature: *29.4°C*")
	assert.Equal("🌡️ Temperature: 29.4°C", text)
	if assert.Len(entities, 1) {
		assert.Equal(tele.EntityBold, entities[0].Type)
		assert.Equal(utf16Len("🌡️ Temperature: "), entities[0].Offset)
		assert.Equal(6, entities[0].Length)
	}
}

func Test_markdown_004(t *testing.T) {
	assert := assert.New(t)
	text, entities := markdownToEntities("# Forecast\n\n- one\n- two\n\nuse `get_weather`")
	assert.Equal("Forecast\n• one\n• two\n\nuse get_weather", text)
	types := []tele.EntityType{}
	for _, e := range entities {
		types = append(types, e.Type)
	}
	assert.Equal([]tele.EntityType{tele.EntityBold, tele.EntityCode}, types)
}

func Test_markdown_005(t *testing.T) {
	assert := assert.New(t)
	text, entities := markdownToEntities("See [Open-Meteo](https://open-meteo.com) for **details**")
	assert.Equal("See Open-Meteo for details", text)
	if assert.Len(entities, 2) {
		assert.Equal(tele.EntityTextLink, entities[0].Type)
		assert.Equal("https://open-meteo.com", entities[0].URL)
		assert.Equal(tele.EntityBold, entities[1].Type)
	}
}

func Test_split_001(t *testing.T) {
	assert := assert.New(t)
	assert.Equal([]string{"short"}, splitText("short", 10))
	assert.Equal([]string{""}, splitText("", 10))

	// Breaks after a newline where possible
	parts := splitText("line one\nline two", 12)
	assert.Equal([]string{"line one\n", "line two"}, parts)

	// Otherwise breaks at the limit
	parts = splitText(strings.Repeat("a", 25), 10)
	assert.Equal([]string{strings.Repeat("a", 10), strings.Repeat("a", 10), strings.Repeat("a", 5)}, parts)
}

func Test_utf16_001(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(5, utf16Len("hello"))
	assert.Equal(2, utf16Len("🌤"))
	assert.Equal(1, utf16Len("°"))
}
