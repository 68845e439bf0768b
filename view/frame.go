package view

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// Highlight colors of the frame navigation bar.
const (
	ColorActive   = "#C98300"
	ColorInactive = "#08C"
)

// Unit is a presentable unit: a slide or a chapter.
type Unit struct {
	Seq    int
	ID     string
	Source NodeID
}

// EnumerateUnits assigns prefix<n> ids to the divisions of kind below root,
// in document order.
func EnumerateUnits(t *Tree, root NodeID, kind Kind, prefix string) []Unit {
	ids := t.OfKind(root, kind)
	units := make([]Unit, 0, len(ids))
	for i, id := range ids {
		uid := prefix + strconv.Itoa(i)
		t.SetID(id, uid)
		units = append(units, Unit{Seq: i, ID: uid, Source: id})
	}
	return units
}

// HighlightRule selects how the frame picks the navigation entry to highlight.
type HighlightRule int

const (
	// HighlightPreceding matches the nearest heading before the unit's last
	// leaf whose id is a navigation target.
	HighlightPreceding HighlightRule = iota
	// HighlightOwnHeading matches the unit's first heading.
	HighlightOwnHeading
)

// Frame shows one unit at a time inside a fixed container.
type Frame struct {
	tree    *Tree
	units   []Unit
	slot    *html.Node
	before  *html.Node
	counter *html.Node
	bar     *html.Node
	targets map[string]bool
	rule    HighlightRule

	// prepare runs on every fresh copy before it is inserted.
	prepare func(*html.Node)

	index       int
	content     *html.Node
	highlighted string
}

// FrameParts are the HTML pieces a frame writes into.
type FrameParts struct {
	Slot    *html.Node
	Before  *html.Node
	Counter *html.Node
	Bar     *html.Node
}

// NewFrame binds units to a frame container. nav lists the entries the
// navigation bar shows.
func NewFrame(t *Tree, units []Unit, parts FrameParts, nav []*Entry, rule HighlightRule) *Frame {
	f := &Frame{
		tree:    t,
		units:   units,
		slot:    parts.Slot,
		before:  parts.Before,
		counter: parts.Counter,
		bar:     parts.Bar,
		rule:    rule,
	}
	f.setTargets(nav)
	return f
}

func (f *Frame) setTargets(nav []*Entry) {
	f.targets = make(map[string]bool)
	WalkEntries(nav, func(e *Entry) { f.targets[e.Target] = true })
}

// Rebind swaps in a rebuilt tree and unit list, keeping the index.
func (f *Frame) Rebind(t *Tree, units []Unit) {
	f.tree = t
	f.units = units
	if f.index >= len(units) {
		f.index = 0
	}
}

// Count is the number of units.
func (f *Frame) Count() int { return len(f.units) }

// Index is the current unit index. Hide leaves it unchanged.
func (f *Frame) Index() int { return f.index }

// Units returns the frame's units.
func (f *Frame) Units() []Unit { return f.units }

// Visible reports whether a unit copy is in the frame.
func (f *Frame) Visible() bool { return f.content != nil }

// Content is the copy currently shown, or nil.
func (f *Frame) Content() *html.Node { return f.content }

// Highlighted is the navigation target currently highlighted.
func (f *Frame) Highlighted() string { return f.highlighted }

// Counter returns the counter text and whether it is shown.
func (f *Frame) Counter() (string, bool) {
	if len(f.units) == 0 {
		return "", false
	}
	return strconv.Itoa(f.index+1) + "/" + strconv.Itoa(len(f.units)), f.index != 0
}

// Show inserts a fresh copy of unit i into the frame.
func (f *Frame) Show(i int) bool {
	if i < 0 || i >= len(f.units) || f.slot == nil {
		return false
	}
	if f.content != nil {
		f.Hide()
	}
	src := f.tree.HTML(f.units[i].Source)
	if src == nil {
		return false
	}
	f.index = i
	f.highlight(f.units[i])
	f.content = cloneNode(src)
	if f.prepare != nil {
		f.prepare(f.content)
	}
	if f.before != nil && f.before.Parent == f.slot {
		f.slot.InsertBefore(f.content, f.before)
	} else {
		f.slot.AppendChild(f.content)
	}
	f.updateCounter()
	return true
}

// Hide removes the current copy from the frame.
func (f *Frame) Hide() {
	if f.content == nil {
		return
	}
	detach(f.content)
	f.content = nil
}

// Advance moves to the next unit; a no-op on the last one.
func (f *Frame) Advance() bool {
	if f.index+1 >= len(f.units) {
		return false
	}
	f.Hide()
	return f.Show(f.index + 1)
}

// Retreat moves to the previous unit; a no-op on the first one.
func (f *Frame) Retreat() bool {
	if f.index <= 0 {
		return false
	}
	f.Hide()
	return f.Show(f.index - 1)
}

// Goto replaces the shown unit with unit i.
func (f *Frame) Goto(i int) bool {
	if i < 0 || i >= len(f.units) {
		return false
	}
	f.Hide()
	return f.Show(i)
}

func (f *Frame) updateCounter() {
	if f.counter == nil {
		return
	}
	text, shown := f.Counter()
	setText(f.counter, text)
	if shown {
		setStyle(f.counter, "visibility", "visible")
	} else {
		setStyle(f.counter, "visibility", "hidden")
	}
}

func (f *Frame) highlight(u Unit) {
	f.highlighted = f.locateTarget(u)
	if f.bar == nil {
		return
	}
	for _, a := range findAll(f.bar, isAnchor) {
		color := ColorInactive
		if f.highlighted != "" && strings.TrimPrefix(getAttr(a, "href"), "#") == f.highlighted {
			color = ColorActive
		}
		setStyle(a, "color", color)
	}
}

func (f *Frame) locateTarget(u Unit) string {
	switch f.rule {
	case HighlightOwnHeading:
		src := f.tree.Node(u.Source)
		if src == nil {
			return ""
		}
		for c := src.FirstChild; c != NoNode; c = f.tree.Node(c).NextSibling {
			if n := f.tree.Node(c); n.Heading > 0 {
				return n.ID
			}
		}
		return ""
	default:
		leaf := f.tree.LastLeaf(u.Source)
		h := f.tree.PrecedingHeading(leaf, func(n *Node) bool { return f.targets[n.ID] })
		if h == NoNode {
			return ""
		}
		return f.tree.Node(h).ID
	}
}
