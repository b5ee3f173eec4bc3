package markdown

import (
	"html"
	"regexp"
	"strconv"
	"strings"
)

// tagPattern matches the exact markup vocabulary Markup emits. Nothing else is
// ever treated as structure.
var tagPattern = regexp.MustCompile(`<br>|<span class="cite" data-source="(\d{1,6})">|</span>|<(/?)(h[1-3]|p|ul|ol|li|strong|em)>`)

// lineBreaks keeps decoded entities such as &#10; from splitting a block.
var lineBreaks = strings.NewReplacer("\r", " ", "\n", " ")

// unescape decodes entities into display text.
func unescape(s string) string {
	return lineBreaks.Replace(html.UnescapeString(s))
}

type tokenKind int

const (
	tokText tokenKind = iota
	tokOpen
	tokClose
	tokBreak
	tokCite
	tokCiteEnd
)

type token struct {
	kind  tokenKind
	tag   string
	text  string
	index int
}

// lexMarkup splits a line into known tags and unescaped text.
func lexMarkup(line string) []token {
	var toks []token
	pos := 0
	for _, m := range tagPattern.FindAllStringSubmatchIndex(line, -1) {
		if m[0] > pos {
			toks = append(toks, token{kind: tokText, text: unescape(line[pos:m[0]])})
		}
		raw := line[m[0]:m[1]]
		switch {
		case raw == "<br>":
			toks = append(toks, token{kind: tokBreak})
		case raw == "</span>":
			toks = append(toks, token{kind: tokCiteEnd})
		case m[2] >= 0:
			n, _ := strconv.Atoi(line[m[2]:m[3]])
			toks = append(toks, token{kind: tokCite, index: n})
		default:
			kind := tokOpen
			if m[5]-m[4] == 1 {
				kind = tokClose
			}
			toks = append(toks, token{kind: kind, tag: line[m[6]:m[7]]})
		}
		pos = m[1]
	}
	if pos < len(line) {
		toks = append(toks, token{kind: tokText, text: unescape(line[pos:])})
	}
	return toks
}

type markupParser struct {
	toks []token
	pos  int
}

// parseMarkupLine reads a line that is exactly one well-formed block of our own
// markup back into a Block. Anything else reports false and is treated as text.
func parseMarkupLine(line string) (Block, bool) {
	toks := lexMarkup(line)
	if len(toks) == 0 || toks[0].kind != tokOpen {
		return Block{}, false
	}
	p := &markupParser{toks: toks}
	b, ok := p.block()
	if !ok || p.pos != len(p.toks) {
		return Block{}, false
	}
	return b, true
}

func (p *markupParser) next() (token, bool) {
	if p.pos >= len(p.toks) {
		return token{}, false
	}
	t := p.toks[p.pos]
	p.pos++
	return t, true
}

func (p *markupParser) block() (Block, bool) {
	t, _ := p.next()
	switch t.tag {
	case "h1", "h2", "h3":
		ins, ok := p.inlines(t.tag)
		return Block{Kind: BlockHeading, Level: int(t.tag[1] - '0'), Inlines: ins}, ok
	case "p":
		ins, ok := p.inlines(t.tag)
		return Block{Kind: BlockParagraph, Inlines: ins}, ok
	case "ul", "ol":
		b := Block{Kind: BlockList, Ordered: t.tag == "ol"}
		for {
			item, ok := p.next()
			if !ok {
				return Block{}, false
			}
			if item.kind == tokClose && item.tag == t.tag {
				return b, true
			}
			if item.kind != tokOpen || item.tag != "li" {
				return Block{}, false
			}
			ins, ok := p.inlines("li")
			if !ok {
				return Block{}, false
			}
			b.Items = append(b.Items, ins)
		}
	}
	return Block{}, false
}

func (p *markupParser) inlines(closing string) ([]Inline, bool) {
	var out []Inline
	for {
		t, ok := p.next()
		if !ok {
			return nil, false
		}
		switch t.kind {
		case tokText:
			out = appendInlines(out, Inline{Kind: InlineText, Text: t.text})
		case tokBreak:
			out = append(out, Inline{Kind: InlineBreak})
		case tokCite:
			end, ok := p.next()
			if ok && end.kind == tokText {
				end, ok = p.next()
			}
			if !ok || end.kind != tokCiteEnd {
				return nil, false
			}
			out = append(out, Inline{Kind: InlineCitation, Index: t.index})
		case tokOpen:
			var kind InlineKind
			switch t.tag {
			case "strong":
				kind = InlineStrong
			case "em":
				kind = InlineEmphasis
			default:
				return nil, false
			}
			children, ok := p.inlines(t.tag)
			if !ok {
				return nil, false
			}
			out = append(out, Inline{Kind: kind, Children: children})
		case tokClose:
			if t.tag == closing {
				return out, true
			}
			return nil, false
		default:
			return nil, false
		}
	}
}
