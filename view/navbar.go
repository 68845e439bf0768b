package view

import (
	"strconv"

	"golang.org/x/net/html"
)

const (
	// ScrollSpeed is the offset change of one scroll tick.
	ScrollSpeed = 3
	// scrollSlack keeps the last link clear of the right control.
	scrollSlack = 30
)

// Scroll control glyphs.
const (
	LeftControl  = "⇦"
	RightControl = "⇨"
)

// NavBar tracks the horizontal offset of a frame navigation bar and whether
// its scroll controls are shown. Hosts call ScrollLeft or ScrollRight once
// per tick while a control is held.
type NavBar struct {
	Offset          int
	ControlsVisible bool

	windowWidth int
	barWidth    int
}

// Resize shows the controls when the bar overflows the window, clamps the
// offset, and hides the controls and resets the offset once it fits again.
func (b *NavBar) Resize(windowWidth, barWidth int) {
	b.windowWidth, b.barWidth = windowWidth, barWidth
	overflow := windowWidth < barWidth
	if overflow && !b.ControlsVisible {
		b.ControlsVisible = true
	}
	if overflow && b.ControlsVisible {
		if limit := barWidth - windowWidth + scrollSlack; b.Offset > limit {
			b.Offset = limit
		}
	}
	if !overflow && b.ControlsVisible {
		b.ControlsVisible = false
		b.Offset = 0
	}
}

// ScrollLeft moves the bar content left, revealing links on the right.
func (b *NavBar) ScrollLeft() bool {
	if b.Offset+ScrollSpeed < b.barWidth-b.windowWidth+scrollSlack {
		b.Offset += ScrollSpeed
		return true
	}
	return false
}

// ScrollRight moves the bar content right, back toward its start.
func (b *NavBar) ScrollRight() bool {
	if b.Offset > ScrollSpeed {
		b.Offset -= ScrollSpeed
		return true
	}
	return false
}

// apply writes the offset and control glyphs into the frame bar markup.
func (b *NavBar) apply(bar, left, right *html.Node) {
	if bar != nil {
		setStyle(bar, "left", strconv.Itoa(-b.Offset)+"px")
		if b.barWidth > 0 {
			setStyle(bar, "width", strconv.Itoa(b.barWidth)+"px")
		}
	}
	for _, ctl := range []struct {
		n     *html.Node
		glyph string
	}{{left, LeftControl}, {right, RightControl}} {
		if ctl.n == nil {
			continue
		}
		removeChildren(ctl.n)
		if b.ControlsVisible {
			ctl.n.AppendChild(textNode(ctl.glyph))
		}
	}
}
