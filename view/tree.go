package view

import (
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// NodeID indexes a node in a Tree arena.
type NodeID int

// NoNode is returned by queries that find nothing.
const NoNode NodeID = -1

// Kind tags what a node is for the view engine.
type Kind uint8

const (
	KindElement Kind = iota
	KindDocument
	KindText
	KindComment
	KindChapter
	KindSection
	KindSubsection
	KindSubsubsection
	KindSlide
	KindBox
)

var kindNames = [...]string{
	KindElement:       "element",
	KindDocument:      "document",
	KindText:          "text",
	KindComment:       "comment",
	KindChapter:       "chapter",
	KindSection:       "section",
	KindSubsection:    "subsection",
	KindSubsubsection: "subsubsection",
	KindSlide:         "slide",
	KindBox:           "box",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Division reports whether k is one of the heading-level divisions.
func (k Kind) Division() bool {
	return k >= KindChapter && k <= KindSubsubsection
}

// Node is one arena entry. HTML points back to the parsed node so the
// engine can clone and mutate the rendered document.
type Node struct {
	Kind     Kind
	Tag      string
	ID       string
	Class    string
	Heading  int
	Appendix bool
	HTML     *html.Node

	Parent      NodeID
	FirstChild  NodeID
	LastChild   NodeID
	PrevSibling NodeID
	NextSibling NodeID
}

type kindRule struct {
	sel  cascadia.Selector
	kind Kind
}

// Order matters: the first matching rule wins.
var kindRules = []kindRule{
	{cascadia.MustCompile("div.chapter"), KindChapter},
	{cascadia.MustCompile("div.section"), KindSection},
	{cascadia.MustCompile("div.subsection"), KindSubsection},
	{cascadia.MustCompile("div.subsubsection"), KindSubsubsection},
	{cascadia.MustCompile("div.slide, div.slideonly"), KindSlide},
	{cascadia.MustCompile("div.box"), KindBox},
}

var (
	appendixSection = cascadia.MustCompile("div.section:has(h3.sectionAppendix)")
	appendixChapter = cascadia.MustCompile("div.chapter:has(h2.chapterAppendix)")
)

// Tree is an arena view of an HTML subtree with explicit parent, child and
// sibling links. It is a snapshot: rebuild it after mutating the HTML.
type Tree struct {
	nodes  []Node
	root   NodeID
	byHTML map[*html.Node]NodeID
}

// NewTree builds the arena for the subtree rooted at root.
func NewTree(root *html.Node) *Tree {
	t := &Tree{byHTML: make(map[*html.Node]NodeID)}
	if root == nil {
		t.root = NoNode
		return t
	}
	t.root = t.add(root, NoNode)
	return t
}

func (t *Tree) add(n *html.Node, parent NodeID) NodeID {
	id := NodeID(len(t.nodes))
	t.nodes = append(t.nodes, describe(n))
	node := &t.nodes[id]
	node.Parent = parent
	node.FirstChild, node.LastChild = NoNode, NoNode
	node.PrevSibling, node.NextSibling = NoNode, NoNode
	t.byHTML[n] = id

	prev := NoNode
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		cid := t.add(c, id)
		t.nodes[cid].PrevSibling = prev
		if prev == NoNode {
			t.nodes[id].FirstChild = cid
		} else {
			t.nodes[prev].NextSibling = cid
		}
		prev = cid
	}
	t.nodes[id].LastChild = prev
	return id
}

func describe(n *html.Node) Node {
	out := Node{HTML: n}
	switch n.Type {
	case html.DocumentNode:
		out.Kind = KindDocument
	case html.TextNode:
		out.Kind = KindText
	case html.CommentNode:
		out.Kind = KindComment
	case html.ElementNode:
		out.Tag = strings.ToLower(n.Data)
		out.ID = getAttr(n, "id")
		out.Class = getAttr(n, "class")
		out.Heading = headingLevel(out.Tag)
		out.Kind = KindElement
		for _, rule := range kindRules {
			if rule.sel.Match(n) {
				out.Kind = rule.kind
				break
			}
		}
		switch out.Kind {
		case KindSection:
			out.Appendix = appendixSection.Match(n)
		case KindChapter:
			out.Appendix = appendixChapter.Match(n)
		}
	default:
		out.Kind = KindElement
	}
	return out
}

func headingLevel(tag string) int {
	if len(tag) == 2 && tag[0] == 'h' && tag[1] >= '1' && tag[1] <= '6' {
		return int(tag[1] - '0')
	}
	return 0
}

// Root returns the arena index of the tree root.
func (t *Tree) Root() NodeID { return t.root }

// Len reports the number of nodes in the arena.
func (t *Tree) Len() int { return len(t.nodes) }

// Node returns the arena entry for id, or nil when id is out of range.
func (t *Tree) Node(id NodeID) *Node {
	if id < 0 || int(id) >= len(t.nodes) {
		return nil
	}
	return &t.nodes[id]
}

// Lookup maps a parsed node back to its arena index.
func (t *Tree) Lookup(n *html.Node) NodeID {
	if id, ok := t.byHTML[n]; ok {
		return id
	}
	return NoNode
}

// HTML returns the parsed node behind id.
func (t *Tree) HTML(id NodeID) *html.Node {
	if n := t.Node(id); n != nil {
		return n.HTML
	}
	return nil
}

// Children lists the direct children of id in document order.
func (t *Tree) Children(id NodeID) []NodeID {
	n := t.Node(id)
	if n == nil {
		return nil
	}
	var out []NodeID
	for c := n.FirstChild; c != NoNode; c = t.nodes[c].NextSibling {
		out = append(out, c)
	}
	return out
}

// Walk visits the descendants of root (root excluded) in document order.
// Returning false from visit stops the walk.
func (t *Tree) Walk(root NodeID, visit func(NodeID) bool) {
	n := t.Node(root)
	if n == nil {
		return
	}
	var walk func(NodeID) bool
	walk = func(id NodeID) bool {
		for c := t.nodes[id].FirstChild; c != NoNode; c = t.nodes[c].NextSibling {
			if !visit(c) || !walk(c) {
				return false
			}
		}
		return true
	}
	walk(root)
}

// OfKind collects the descendants of root tagged with kind.
func (t *Tree) OfKind(root NodeID, kind Kind) []NodeID {
	var out []NodeID
	t.Walk(root, func(id NodeID) bool {
		if t.nodes[id].Kind == kind {
			out = append(out, id)
		}
		return true
	})
	return out
}

// FirstHeading returns the first descendant heading of id with the given level.
func (t *Tree) FirstHeading(id NodeID, level int) NodeID {
	found := NoNode
	t.Walk(id, func(c NodeID) bool {
		if t.nodes[c].Heading == level {
			found = c
			return false
		}
		return true
	})
	return found
}

// SetID rewrites the id of an element in both the arena and the HTML.
func (t *Tree) SetID(id NodeID, value string) {
	n := t.Node(id)
	if n == nil || n.HTML == nil || n.HTML.Type != html.ElementNode {
		return
	}
	n.ID = value
	setAttr(n.HTML, "id", value)
}

// TextContent concatenates the text below id.
func (t *Tree) TextContent(id NodeID) string {
	return textContent(t.HTML(id))
}
