package view

import (
	"golang.org/x/net/html"
)

// Level is a navigation nesting level.
type Level int

const (
	LevelChapter Level = iota
	LevelSection
	LevelSubsection
	LevelSubsubsection
)

func (l Level) kind() Kind {
	switch l {
	case LevelChapter:
		return KindChapter
	case LevelSection:
		return KindSection
	case LevelSubsection:
		return KindSubsection
	case LevelSubsubsection:
		return KindSubsubsection
	}
	return KindElement
}

// HeadingLevel is the heading tag level that names a division of level l.
func (l Level) HeadingLevel() int {
	if l < LevelChapter || l > LevelSubsubsection {
		return 0
	}
	return int(l) + 2
}

func (l Level) valid() bool {
	return l >= LevelChapter && l <= LevelSubsubsection
}

// Entry is one item of a navigation list.
type Entry struct {
	Target   string
	Label    []*html.Node
	Class    string
	Level    Level
	Source   NodeID
	Heading  NodeID
	Children []*Entry
}

// Text is the plain text of the entry label.
func (e *Entry) Text() string {
	s := ""
	for _, n := range e.Label {
		s += textContent(n)
	}
	return s
}

// BuildNavigation lists every division of the start level below root in
// document order, each with the next level nested under it. Levels past
// subsubsection yield nil; a valid level with no divisions yields an empty
// non-nil list.
func BuildNavigation(t *Tree, root NodeID, start Level) []*Entry {
	if !start.valid() || t.Node(root) == nil {
		return nil
	}
	out := []*Entry{}
	headingLevel := start.HeadingLevel()
	for _, div := range t.OfKind(root, start.kind()) {
		heading := t.FirstHeading(div, headingLevel)
		if heading == NoNode {
			continue
		}
		h := t.Node(heading)
		out = append(out, &Entry{
			Target:   h.ID,
			Label:    cloneChildren(h.HTML),
			Class:    h.Class,
			Level:    start,
			Source:   div,
			Heading:  heading,
			Children: BuildNavigation(t, div, start+1),
		})
	}
	return out
}

// TableOfContents is BuildNavigation with "no TOC needed" reported as nil.
func TableOfContents(t *Tree, root NodeID, start Level) []*Entry {
	entries := BuildNavigation(t, root, start)
	if len(entries) == 0 {
		return nil
	}
	return entries
}

// Concat appends the top-level entries of bottom after those of top.
func Concat(top, bottom []*Entry) []*Entry {
	if top == nil && bottom == nil {
		return nil
	}
	out := make([]*Entry, 0, len(top)+len(bottom))
	out = append(out, top...)
	return append(out, bottom...)
}

// Prune drops every entry rejected by keep together with its subtree.
// Children of kept entries are pruned recursively.
func Prune(entries []*Entry, keep func(*Entry) bool) []*Entry {
	if entries == nil {
		return nil
	}
	out := entries[:0:0]
	for _, e := range entries {
		if !keep(e) {
			continue
		}
		e.Children = Prune(e.Children, keep)
		out = append(out, e)
	}
	return out
}

// WalkEntries visits entries depth first in list order.
func WalkEntries(entries []*Entry, visit func(*Entry)) {
	for _, e := range entries {
		visit(e)
		WalkEntries(e.Children, visit)
	}
}

// FindEntry returns the entry whose target equals target.
func FindEntry(entries []*Entry, target string) *Entry {
	var found *Entry
	WalkEntries(entries, func(e *Entry) {
		if found == nil && e.Target == target {
			found = e
		}
	})
	return found
}

// RenderList builds the ul/li/a markup for entries.
func RenderList(entries []*Entry) *html.Node {
	ul := element("ul")
	for _, e := range entries {
		a := element("a", "href", "#"+e.Target)
		for _, n := range e.Label {
			a.AppendChild(cloneNode(n))
		}
		li := element("li")
		if e.Class != "" {
			setAttr(li, "class", e.Class)
		}
		li.AppendChild(a)
		if e.Children != nil {
			li.AppendChild(RenderList(e.Children))
		}
		ul.AppendChild(li)
	}
	return ul
}

// tableOfContentsBlock wraps the list with its caption.
func tableOfContentsBlock(entries []*Entry) *html.Node {
	div := element("div", "id", "tableOfContents")
	p := element("p", "style", "text-align:center")
	p.AppendChild(textNode("Contents"))
	div.AppendChild(p)
	div.AppendChild(RenderList(entries))
	return div
}
