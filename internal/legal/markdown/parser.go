package markdown

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	bulletPattern   = regexp.MustCompile(`^\s*[-*•]\s+(\S.*)$`)
	numberedPattern = regexp.MustCompile(`^\s*\d+[.)]\s+(\S.*)$`)
	citationPattern = regexp.MustCompile(`\[Source (\d{1,6})\]`)
)

// headingMarkers is ordered most specific first so "#" never claims a "###" line.
var headingMarkers = []struct {
	prefix string
	level  int
}{
	{"### ", 3},
	{"## ", 2},
	{"# ", 1},
}

// Parse builds the block tree for text. Lines that are already well-formed
// markup blocks are read back as blocks, which is what makes Translate
// idempotent.
func Parse(text string) Document {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	var (
		doc  Document
		para []string
		list *Block
	)
	flushPara := func() {
		if len(para) == 0 {
			return
		}
		if ins := paragraphInlines(para); !isBlank(ins) {
			doc.Blocks = append(doc.Blocks, Block{Kind: BlockParagraph, Inlines: ins})
		}
		para = nil
	}
	flushList := func() {
		if list != nil {
			doc.Blocks = append(doc.Blocks, *list)
			list = nil
		}
	}

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimRight(raw, " \t")
		if strings.TrimSpace(line) == "" {
			flushPara()
			flushList()
			continue
		}

		if b, ok := parseMarkupLine(strings.TrimSpace(line)); ok {
			flushPara()
			flushList()
			if !blockBlank(b) {
				doc.Blocks = append(doc.Blocks, b)
			}
			continue
		}

		display := unescape(line)

		if level, rest, ok := heading(display); ok {
			flushPara()
			flushList()
			doc.Blocks = append(doc.Blocks, Block{Kind: BlockHeading, Level: level, Inlines: parseInlines(rest)})
			continue
		}

		if ordered, rest, ok := listItem(display); ok {
			flushPara()
			if list != nil && list.Ordered != ordered {
				flushList()
			}
			if list == nil {
				list = &Block{Kind: BlockList, Ordered: ordered}
			}
			list.Items = append(list.Items, parseInlines(rest))
			continue
		}

		flushList()
		para = append(para, strings.TrimSpace(display))
	}
	flushPara()
	flushList()
	return doc
}

func heading(line string) (int, string, bool) {
	for _, m := range headingMarkers {
		if strings.HasPrefix(line, m.prefix) {
			rest := strings.TrimSpace(line[len(m.prefix):])
			if rest == "" {
				return 0, "", false
			}
			return m.level, rest, true
		}
	}
	return 0, "", false
}

func listItem(line string) (bool, string, bool) {
	if m := bulletPattern.FindStringSubmatch(line); m != nil {
		return false, strings.TrimSpace(m[1]), true
	}
	if m := numberedPattern.FindStringSubmatch(line); m != nil {
		return true, strings.TrimSpace(m[1]), true
	}
	return false, "", false
}

func paragraphInlines(lines []string) []Inline {
	var out []Inline
	for i, l := range lines {
		if i > 0 {
			out = append(out, Inline{Kind: InlineBreak})
		}
		out = appendInlines(out, parseInlines(l)...)
	}
	return out
}

func blockBlank(b Block) bool {
	if b.Kind == BlockList {
		return len(b.Items) == 0
	}
	return isBlank(b.Inlines)
}

// parseInlines resolves bold before italic so a "**" run is never consumed
// as two single markers; citations are resolved inside what remains.
func parseInlines(s string) []Inline {
	var out []Inline
	for {
		open := strings.Index(s, "**")
		if open < 0 {
			break
		}
		end := strings.Index(s[open+2:], "**")
		if end < 0 {
			break
		}
		end += open + 2
		inner := s[open+2 : end]
		if strings.TrimSpace(inner) == "" {
			out = appendInlines(out, Inline{Kind: InlineText, Text: s[:end+2]})
			s = s[end+2:]
			continue
		}
		out = appendInlines(out, parseEmphasis(s[:open])...)
		out = append(out, Inline{Kind: InlineStrong, Children: parseEmphasis(inner)})
		s = s[end+2:]
	}
	return appendInlines(out, parseEmphasis(s)...)
}

func parseEmphasis(s string) []Inline {
	var out []Inline
	for {
		open, end := findEmphasis(s)
		if open < 0 {
			break
		}
		out = appendInlines(out, parseCitations(s[:open])...)
		out = append(out, Inline{Kind: InlineEmphasis, Children: parseCitations(s[open+1 : end])})
		s = s[end+1:]
	}
	return appendInlines(out, parseCitations(s)...)
}

// findEmphasis locates a single-star span. The opener must be followed by a
// non-space, non-star byte and the closer preceded by a non-space byte.
func findEmphasis(s string) (int, int) {
	for i := 0; i+1 < len(s); i++ {
		if s[i] != '*' || s[i+1] == ' ' || s[i+1] == '*' {
			continue
		}
		for j := i + 2; j < len(s); j++ {
			if s[j] == '*' && s[j-1] != ' ' {
				return i, j
			}
		}
		return -1, -1
	}
	return -1, -1
}

func parseCitations(s string) []Inline {
	var out []Inline
	pos := 0
	for _, m := range citationPattern.FindAllStringSubmatchIndex(s, -1) {
		out = appendInlines(out, Inline{Kind: InlineText, Text: s[pos:m[0]]})
		n, _ := strconv.Atoi(s[m[2]:m[3]])
		out = append(out, Inline{Kind: InlineCitation, Index: n})
		pos = m[1]
	}
	return appendInlines(out, Inline{Kind: InlineText, Text: s[pos:]})
}

// appendInlines appends while merging adjacent text and dropping empty text.
func appendInlines(out []Inline, more ...Inline) []Inline {
	for _, in := range more {
		if in.Kind == InlineText {
			if in.Text == "" {
				continue
			}
			if n := len(out); n > 0 && out[n-1].Kind == InlineText {
				out[n-1].Text += in.Text
				continue
			}
		}
		out = append(out, in)
	}
	return out
}
