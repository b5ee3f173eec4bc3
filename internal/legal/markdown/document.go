// Package markdown turns untrusted answer text into a small block tree
// (headings, paragraphs, lists, emphasis, citation chips) and renders it as
// safe markup. Escaping happens exactly once, in Markup; every text node in
// the tree holds display text.
package markdown

import (
	"strconv"
	"strings"
)

// BlockKind identifies a block-level node.
type BlockKind int

const (
	BlockHeading BlockKind = iota
	BlockParagraph
	BlockList
)

// InlineKind identifies an inline node.
type InlineKind int

const (
	InlineText InlineKind = iota
	InlineStrong
	InlineEmphasis
	InlineCitation
	InlineBreak
)

// Inline is a span inside a block.
type Inline struct {
	Kind     InlineKind
	Text     string
	Index    int
	Children []Inline
}

// Block is a top-level node. Headings and paragraphs use Inlines; lists use Items.
type Block struct {
	Kind    BlockKind
	Level   int
	Ordered bool
	Inlines []Inline
	Items   [][]Inline
}

// Document is the parsed form of one text.
type Document struct {
	Blocks []Block
}

// Citations returns the citation indices in document order, without duplicates.
func (d Document) Citations() []int {
	seen := map[int]bool{}
	var out []int
	var walk func([]Inline)
	walk = func(ins []Inline) {
		for _, in := range ins {
			if in.Kind == InlineCitation && !seen[in.Index] {
				seen[in.Index] = true
				out = append(out, in.Index)
			}
			walk(in.Children)
		}
	}
	for _, b := range d.Blocks {
		walk(b.Inlines)
		for _, item := range b.Items {
			walk(item)
		}
	}
	return out
}

// Plain reduces the document to its display text, one block per line.
func (d Document) Plain() string {
	lines := make([]string, 0, len(d.Blocks))
	for _, b := range d.Blocks {
		switch b.Kind {
		case BlockList:
			for i, item := range b.Items {
				prefix := "- "
				if b.Ordered {
					prefix = strconv.Itoa(i+1) + ". "
				}
				lines = append(lines, prefix+plainInlines(item))
			}
		default:
			lines = append(lines, plainInlines(b.Inlines))
		}
	}
	return strings.Join(lines, "\n")
}

func plainInlines(ins []Inline) string {
	var sb strings.Builder
	for _, in := range ins {
		switch in.Kind {
		case InlineText:
			sb.WriteString(in.Text)
		case InlineBreak:
			sb.WriteString("\n")
		case InlineCitation:
			sb.WriteString(citationLabel(in.Index))
		default:
			sb.WriteString(plainInlines(in.Children))
		}
	}
	return sb.String()
}

// isBlank reports whether inlines carry nothing visible.
func isBlank(ins []Inline) bool {
	for _, in := range ins {
		switch in.Kind {
		case InlineText:
			if strings.TrimSpace(in.Text) != "" {
				return false
			}
		case InlineBreak:
		case InlineCitation:
			return false
		default:
			if !isBlank(in.Children) {
				return false
			}
		}
	}
	return true
}
