package telegram

import (
	"strconv"
	"strings"

	// Packages
	gte "github.com/igor-pavlenko/goldmark-telegram/extension"
	gteast "github.com/igor-pavlenko/goldmark-telegram/extension/ast"
	goldmark "github.com/yuin/goldmark"
	ast "github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"
	text "github.com/yuin/goldmark/text"
	tele "gopkg.in/telebot.v4"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// entityBuilder accumulates plain text and the entities which style it.
// Offsets are in UTF-16 code units, as Telegram counts them.
type entityBuilder struct {
	source   []byte
	text     strings.Builder
	entities tele.Entities
	offset   int
	ordinal  int // next number in an ordered list, zero in a bullet list
}

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

var parser = goldmark.New(goldmark.WithExtensions(gte.GTE)).Parser()

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// markdownToEntities converts Markdown into plain text plus Telegram message
// entities. Emphasis follows Telegram conventions: *single asterisks* are
// bold and _underscores_ are italic.
func markdownToEntities(markdown string) (string, tele.Entities) {
	b := &entityBuilder{source: []byte(markdown)}
	b.walk(parser.Parse(text.NewReader(b.source)))

	result := strings.TrimRight(b.text.String(), "\n")
	if len(b.entities) == 0 {
		return result, nil
	}
	return result, b.entities
}

// splitText splits text into parts of at most limit UTF-16 code units,
// preferring to break after a newline
func splitText(s string, limit int) []string {
	var parts []string
	for utf16Len(s) > limit {
		cut, n, lastNewline := 0, 0, -1
		for i, r := range s {
			width := 1
			if r >= 0x10000 {
				width = 2
			}
			if n+width > limit {
				cut = i
				break
			}
			n += width
			if r == '\n' {
				lastNewline = i + 1
			}
		}
		if lastNewline > 0 {
			cut = lastNewline
		}
		parts = append(parts, s[:cut])
		s = s[cut:]
	}
	if s != "" || len(parts) == 0 {
		parts = append(parts, s)
	}
	return parts
}

// utf16Len returns the length of s in UTF-16 code units, which is
// the unit Telegram uses for entity offsets and lengths.
func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		if r >= 0x10000 {
			n += 2
		} else {
			n++
		}
	}
	return n
}

///////////////////////////////////////////////////////////////////////////////
// BUILDER

func (b *entityBuilder) write(s string) {
	b.text.WriteString(s)
	b.offset += utf16Len(s)
}

func (b *entityBuilder) endsWith(suffix string) bool {
	return strings.HasSuffix(b.text.String(), suffix)
}

// newline starts a new line unless the text is empty or already on one
func (b *entityBuilder) newline() {
	if b.text.Len() > 0 && !b.endsWith("\n") {
		b.write("\n")
	}
}

// paragraph leaves a blank line between blocks
func (b *entityBuilder) paragraph() {
	if b.text.Len() == 0 || b.endsWith("\n\n") {
		return
	}
	b.newline()
	b.write("\n")
}

// span runs fn and marks whatever it wrote with an entity
func (b *entityBuilder) span(entity tele.MessageEntity, fn func()) {
	start := b.offset
	fn()
	if length := b.offset - start; length > 0 {
		entity.Offset = start
		entity.Length = length
		b.entities = append(b.entities, entity)
	}
}

// lines writes the raw lines of a code block without the final newline
func (b *entityBuilder) lines(node ast.Node) {
	var code strings.Builder
	lines := node.Lines()
	for i := 0; i < lines.Len(); i++ {
		segment := lines.At(i)
		code.Write(segment.Value(b.source))
	}
	b.write(strings.TrimSuffix(code.String(), "\n"))
}

func (b *entityBuilder) children(node ast.Node) {
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		b.walk(child)
	}
}

func (b *entityBuilder) walk(node ast.Node) {
	switch n := node.(type) {
	case *ast.Paragraph:
		b.paragraph()
		b.children(n)
	case *ast.Heading:
		b.paragraph()
		b.span(tele.MessageEntity{Type: tele.EntityBold}, func() { b.children(n) })
	case *ast.Blockquote:
		b.paragraph()
		b.span(tele.MessageEntity{Type: tele.EntityBlockquote}, func() { b.children(n) })
	case *ast.List:
		b.newline()
		saved := b.ordinal
		b.ordinal = 0
		if n.IsOrdered() {
			b.ordinal = max(n.Start, 1)
		}
		b.children(n)
		b.ordinal = saved
	case *ast.ListItem:
		b.newline()
		if b.ordinal > 0 {
			b.write(strconv.Itoa(b.ordinal) + ". ")
			b.ordinal++
		} else {
			b.write("• ")
		}
		b.children(n)
	case *ast.FencedCodeBlock:
		b.paragraph()
		b.span(tele.MessageEntity{Type: tele.EntityCodeBlock, Language: string(n.Language(b.source))}, func() { b.lines(n) })
	case *ast.CodeBlock:
		b.paragraph()
		b.span(tele.MessageEntity{Type: tele.EntityCodeBlock}, func() { b.lines(n) })
	case *ast.ThematicBreak:
		b.paragraph()
		b.write("———")
	case *ast.Emphasis:
		b.span(tele.MessageEntity{Type: b.emphasis(n)}, func() { b.children(n) })
	case *ast.CodeSpan:
		b.span(tele.MessageEntity{Type: tele.EntityCode}, func() {
			for child := n.FirstChild(); child != nil; child = child.NextSibling() {
				if t, ok := child.(*ast.Text); ok {
					b.write(string(t.Segment.Value(b.source)))
				}
			}
		})
	case *ast.Link:
		b.span(tele.MessageEntity{Type: tele.EntityTextLink, URL: string(n.Destination)}, func() { b.children(n) })
	case *ast.AutoLink:
		b.write(string(n.URL(b.source)))
	case *ast.Text:
		b.write(string(n.Segment.Value(b.source)))
		if n.HardLineBreak() || n.SoftLineBreak() {
			b.write("\n")
		}
	case *ast.String:
		b.write(string(n.Value))
	case *ast.RawHTML:
		for i := 0; i < n.Segments.Len(); i++ {
			segment := n.Segments.At(i)
			b.write(string(segment.Value(b.source)))
		}
	default:
		switch node.Kind() {
		case east.KindStrikethrough:
			b.span(tele.MessageEntity{Type: tele.EntityStrikethrough}, func() { b.children(node) })
		case gteast.KindUnderline:
			b.span(tele.MessageEntity{Type: tele.EntityUnderline}, func() { b.children(node) })
		default:
			b.children(node)
		}
	}
}

// emphasis returns bold for double markers or a single asterisk, and
// italic for a single underscore
func (b *entityBuilder) emphasis(n *ast.Emphasis) tele.EntityType {
	if n.Level >= 2 || b.marker(n) == '*' {
		return tele.EntityBold
	}
	return tele.EntityItalic
}

// marker returns the character just before the first text in the node
func (b *entityBuilder) marker(node ast.Node) byte {
	for child := node.FirstChild(); child != nil; child = child.FirstChild() {
		if t, ok := child.(*ast.Text); ok {
			if start := t.Segment.Start; start > 0 {
				return b.source[start-1]
			}
			return 0
		}
	}
	return 0
}
