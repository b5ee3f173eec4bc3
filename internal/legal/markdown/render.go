package markdown

import (
	"html"
	"strconv"
	"strings"
)

// Translate parses untrusted text and renders it as safe markup.
// Translate(Translate(x)) == Translate(x).
func Translate(text string) string {
	return Parse(text).Markup()
}

// Markup renders the document, one block per line. All text is escaped here
// and nowhere else.
func (d Document) Markup() string {
	lines := make([]string, 0, len(d.Blocks))
	for _, b := range d.Blocks {
		var sb strings.Builder
		switch b.Kind {
		case BlockHeading:
			tag := "h" + strconv.Itoa(b.Level)
			sb.WriteString("<" + tag + ">")
			writeInlines(&sb, b.Inlines)
			sb.WriteString("</" + tag + ">")
		case BlockParagraph:
			sb.WriteString("<p>")
			writeInlines(&sb, b.Inlines)
			sb.WriteString("</p>")
		case BlockList:
			tag := "ul"
			if b.Ordered {
				tag = "ol"
			}
			sb.WriteString("<" + tag + ">")
			for _, item := range b.Items {
				sb.WriteString("<li>")
				writeInlines(&sb, item)
				sb.WriteString("</li>")
			}
			sb.WriteString("</" + tag + ">")
		}
		lines = append(lines, sb.String())
	}
	return strings.Join(lines, "\n")
}

func writeInlines(sb *strings.Builder, ins []Inline) {
	for _, in := range ins {
		switch in.Kind {
		case InlineText:
			sb.WriteString(html.EscapeString(in.Text))
		case InlineBreak:
			sb.WriteString("<br>")
		case InlineCitation:
			sb.WriteString(`<span class="cite" data-source="` + strconv.Itoa(in.Index) + `">`)
			sb.WriteString(citationLabel(in.Index))
			sb.WriteString("</span>")
		case InlineStrong:
			sb.WriteString("<strong>")
			writeInlines(sb, in.Children)
			sb.WriteString("</strong>")
		case InlineEmphasis:
			sb.WriteString("<em>")
			writeInlines(sb, in.Children)
			sb.WriteString("</em>")
		}
	}
}

func citationLabel(n int) string {
	return "Source " + strconv.Itoa(n)
}

// Escape renders literal text safely without interpreting any markdown.
func Escape(text string) string {
	return html.EscapeString(text)
}
