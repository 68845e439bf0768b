package view

import (
	"strings"

	"golang.org/x/net/html"
)

// Key is a reader command.
type Key int

const (
	KeyNone Key = iota
	KeyCode
	KeySlide
	KeyPrint
	KeyHelp
	KeyNext
	KeyPrev
)

var keyNames = map[Key]string{
	KeyNone:  "none",
	KeyCode:  "c",
	KeySlide: "s",
	KeyPrint: "p",
	KeyHelp:  "h",
	KeyNext:  "next",
	KeyPrev:  "prev",
}

func (k Key) String() string {
	if s, ok := keyNames[k]; ok {
		return s
	}
	return "unknown"
}

// ParseKey maps a key name onto a command. Letters are case-insensitive;
// arrows may be given as glyphs or as DOM key names.
func ParseKey(s string) (Key, bool) {
	if s == " " {
		return KeyNext, true
	}
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "c":
		return KeyCode, true
	case "s":
		return KeySlide, true
	case "p":
		return KeyPrint, true
	case "h":
		return KeyHelp, true
	case "next", "space", "right", "down", "arrowright", "arrowdown", "→", "↓":
		return KeyNext, true
	case "prev", "left", "up", "arrowleft", "arrowup", "←", "↑":
		return KeyPrev, true
	}
	return KeyNone, false
}

// Outcome reports what a key press did.
type Outcome struct {
	Changed bool
	Help    string
}

// Viewer owns the view state of one assembled document: the active pair,
// the frames and the navigation bar offsets. It is not safe for concurrent
// use.
type Viewer struct {
	doc    *Document
	styles *StyleManager
}

// NewViewer starts a viewer in pair initial, or in the class default when
// initial is the zero Pair.
func NewViewer(doc *Document, initial Pair) (*Viewer, error) {
	if initial == (Pair{}) {
		initial = doc.Class.DefaultPair()
	}
	styles, err := NewStyleManager(doc.Head, doc.Styles, doc.Class, initial)
	if err != nil {
		return nil, err
	}
	v := &Viewer{doc: doc, styles: styles}
	if initial == SlideScreen {
		if err := v.showSlides(); err != nil {
			doc.Alerts = append(doc.Alerts, err)
		}
	}
	return v, nil
}

// Document returns the viewed document.
func (v *Viewer) Document() *Document { return v.doc }

// Pair returns the active (mode, view) pair.
func (v *Viewer) Pair() Pair { return v.styles.Current() }

// Styles exposes the style manager.
func (v *Viewer) Styles() *StyleManager { return v.styles }

// SlideFrame returns the slide frame, or nil.
func (v *Viewer) SlideFrame() *Frame { return v.doc.SlideFrame() }

// ChapterFrame returns the chapter frame, or nil.
func (v *Viewer) ChapterFrame() *Frame { return v.doc.ChapterFrame() }

// Frame returns the frame the active pair presents, or nil in pairs that
// show the whole flow.
func (v *Viewer) Frame() *Frame {
	if c := v.active(); c != nil {
		return c.frame
	}
	return nil
}

// Navigation lists the entries of the active frame's navigation bar.
func (v *Viewer) Navigation() []*Entry {
	if c := v.active(); c != nil {
		return c.nav
	}
	return nil
}

// NavBar returns the scroll state of the active frame's navigation bar.
func (v *Viewer) NavBar() *NavBar {
	if c := v.active(); c != nil {
		return &c.navBar
	}
	return nil
}

func (v *Viewer) active() *chrome {
	switch v.Pair() {
	case SlideScreen:
		return v.doc.slides
	case ChapterScreen:
		return v.doc.chapters
	}
	return nil
}

// Press applies one reader command.
func (v *Viewer) Press(k Key) (Outcome, error) {
	switch k {
	case KeyCode, KeySlide, KeyPrint:
		next, ok := v.doc.Class.Toggle(k, v.Pair())
		if !ok {
			return Outcome{}, nil
		}
		if err := v.switchTo(next); err != nil {
			return Outcome{Changed: v.Pair() == next}, err
		}
		return Outcome{Changed: true}, nil
	case KeyHelp:
		return Outcome{Help: v.doc.Class.Help(v.Pair())}, nil
	case KeyNext, KeyPrev:
		f := v.SlideFrame()
		if v.Pair() != SlideScreen || f == nil {
			return Outcome{}, nil
		}
		if k == KeyNext {
			return Outcome{Changed: f.Advance()}, nil
		}
		return Outcome{Changed: f.Retreat()}, nil
	}
	return Outcome{}, nil
}

func (v *Viewer) switchTo(next Pair) error {
	prev := v.Pair()
	if err := v.styles.Activate(next); err != nil {
		return err
	}
	if prev == SlideScreen && next != SlideScreen {
		if f := v.SlideFrame(); f != nil {
			f.Hide()
		}
	}
	if next == SlideScreen {
		return v.showSlides()
	}
	return nil
}

// showSlides shows the slide frame. An ErrInternal from rebuilding a
// monograph slide show is returned after the frame is shown.
func (v *Viewer) showSlides() error {
	var err error
	if v.doc.Class == ClassMonograph {
		err = v.doc.ensureSlideShow()
	}
	if f := v.SlideFrame(); f != nil {
		f.Show(f.Index())
	}
	return err
}

// GotoUnit follows a redirected link to unit i of the active frame. It is a
// no-op outside the frame pairs.
func (v *Viewer) GotoUnit(i int) bool {
	if f := v.Frame(); f != nil {
		return f.Goto(i)
	}
	return false
}

// Resize records the window and navigation bar widths of the active frame.
func (v *Viewer) Resize(windowWidth, barWidth int) {
	if b := v.NavBar(); b != nil {
		b.Resize(windowWidth, barWidth)
	}
}

// ScrollLeft scrolls the active navigation bar one tick.
func (v *Viewer) ScrollLeft() bool {
	if b := v.NavBar(); b != nil {
		return b.ScrollLeft()
	}
	return false
}

// ScrollRight scrolls the active navigation bar one tick back.
func (v *Viewer) ScrollRight() bool {
	if b := v.NavBar(); b != nil {
		return b.ScrollRight()
	}
	return false
}

// Page returns the markup the active pair puts in front of the reader: the
// framed unit in frame pairs, the code listing in code mode and the main
// flow otherwise.
func (v *Viewer) Page() *html.Node {
	if f := v.Frame(); f != nil {
		if c := f.Content(); c != nil {
			return c
		}
	}
	if v.Pair().Mode == ModeCode {
		if code := byID(v.doc.Root, "onlyCode"); code != nil {
			return code
		}
	}
	if v.doc.bodyPages != nil && v.doc.bodyPages.Parent != nil {
		return v.doc.bodyPages
	}
	return v.doc.Body
}
