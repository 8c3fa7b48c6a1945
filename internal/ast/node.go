package ast

import (
	"strings"

	"spool/internal/source"
)

// Node is implemented by every tree node.
type Node interface {
	Span() source.Span
}

// Dialogue is the root of one parsed file.
type Dialogue struct {
	FileTags []*Hashtag
	Nodes    []*DialogueNode
	Sp       source.Span
}

func (d *Dialogue) Span() source.Span { return d.Sp }

// Hashtag is `#text`, on a line or at the top of a file.
type Hashtag struct {
	Text string
	Sp   source.Span
}

func (h *Hashtag) Span() source.Span { return h.Sp }

// Header is `key: value` above a node body.
type Header struct {
	Key   string
	Value string
	Sp    source.Span
}

func (h *Header) Span() source.Span { return h.Sp }

// DialogueNode is a titled unit of dialogue: headers, then a body between
// `---` and `===`.
type DialogueNode struct {
	Headers []*Header
	Body    []Stmt
	Sp      source.Span
}

func (n *DialogueNode) Span() source.Span { return n.Sp }

// Header returns the trimmed value of the first header with the given key.
func (n *DialogueNode) Header(key string) (string, bool) {
	for _, h := range n.Headers {
		if h.Key == key {
			return strings.TrimSpace(h.Value), true
		}
	}
	return "", false
}

// Title returns the node's title header, or "" when it has none.
func (n *DialogueNode) Title() string {
	title, _ := n.Header("title")
	return title
}
