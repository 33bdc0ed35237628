package format

import (
	"html"
	"sort"
	"strings"
	"unicode/utf16"

	tele "gopkg.in/telebot.v4"
)

type span struct {
	start, end  int
	open, close string
}

// EntitiesHTML renders text with its message entities as HTML parse-mode
// markup. Offsets are in UTF-16 code units. Kinds Telegram detects on its
// own (mentions, hashtags, bare URLs) stay plain text.
func EntitiesHTML(text string, entities tele.Entities) string {
	spans := make([]span, 0, len(entities))
	for _, e := range entities {
		open, closeTag := entityTags(e)
		if open == "" || e.Length <= 0 {
			continue
		}
		spans = append(spans, span{start: e.Offset, end: e.Offset + e.Length, open: open, close: closeTag})
	}
	// Outer spans first when several start together.
	sort.SliceStable(spans, func(i, j int) bool {
		if spans[i].start != spans[j].start {
			return spans[i].start < spans[j].start
		}
		return spans[i].end > spans[j].end
	})

	var (
		b     strings.Builder
		stack []span
		next  int
		pos   int
	)
	closeEnded := func() {
		k := -1
		for i, s := range stack {
			if s.end <= pos {
				k = i
				break
			}
		}
		if k < 0 {
			return
		}
		// Overlapping spans are closed and reopened to keep tags nested.
		above := append([]span(nil), stack[k:]...)
		for i := len(above) - 1; i >= 0; i-- {
			b.WriteString(above[i].close)
		}
		stack = stack[:k]
		for _, s := range above {
			if s.end > pos {
				b.WriteString(s.open)
				stack = append(stack, s)
			}
		}
	}

	for _, r := range text {
		closeEnded()
		for next < len(spans) && spans[next].start <= pos {
			if spans[next].end > pos {
				b.WriteString(spans[next].open)
				stack = append(stack, spans[next])
			}
			next++
		}
		switch r {
		case '&':
			b.WriteString("&amp;")
		case '<':
			b.WriteString("&lt;")
		case '>':
			b.WriteString("&gt;")
		default:
			b.WriteRune(r)
		}
		pos += utf16.RuneLen(r)
	}
	for i := len(stack) - 1; i >= 0; i-- {
		b.WriteString(stack[i].close)
	}
	return b.String()
}

func entityTags(e tele.MessageEntity) (string, string) {
	switch e.Type {
	case tele.EntityBold:
		return "<b>", "</b>"
	case tele.EntityItalic:
		return "<i>", "</i>"
	case tele.EntityUnderline:
		return "<u>", "</u>"
	case tele.EntityStrikethrough:
		return "<s>", "</s>"
	case tele.EntitySpoiler:
		return "<tg-spoiler>", "</tg-spoiler>"
	case tele.EntityCode:
		return "<code>", "</code>"
	case tele.EntityCodeBlock:
		if e.Language != "" {
			return `<pre><code class="language-` + html.EscapeString(e.Language) + `">`, "</code></pre>"
		}
		return "<pre>", "</pre>"
	case tele.EntityTextLink:
		if e.URL == "" {
			return "", ""
		}
		return `<a href="` + html.EscapeString(e.URL) + `">`, "</a>"
	case tele.EntityBlockquote:
		return "<blockquote>", "</blockquote>"
	case tele.EntityEBlockquote:
		return "<blockquote expandable>", "</blockquote>"
	}
	return "", ""
}
