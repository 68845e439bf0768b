package view

import (
	"fmt"
	"strings"
)

// Mode selects which content subset is presented.
type Mode string

const (
	ModeProse   Mode = "prose"
	ModeSlide   Mode = "slide"
	ModeCode    Mode = "code"
	ModeChapter Mode = "chapter"
)

// Medium selects the output medium styling.
type Medium string

const (
	MediumScreen Medium = "screen"
	MediumPrint  Medium = "print"
)

// Pair is a (mode, view) combination. Exactly one is current per viewer.
type Pair struct {
	Mode   Mode
	Medium Medium
}

var (
	ProseScreen   = Pair{ModeProse, MediumScreen}
	ProsePrint    = Pair{ModeProse, MediumPrint}
	SlideScreen   = Pair{ModeSlide, MediumScreen}
	SlidePrint    = Pair{ModeSlide, MediumPrint}
	CodeScreen    = Pair{ModeCode, MediumScreen}
	CodePrint     = Pair{ModeCode, MediumPrint}
	ChapterScreen = Pair{ModeChapter, MediumScreen}
)

var allPairs = []Pair{ProseScreen, ProsePrint, SlideScreen, SlidePrint, CodeScreen, CodePrint, ChapterScreen}

// String renders the pair as "mode-medium".
func (p Pair) String() string { return string(p.Mode) + "-" + string(p.Medium) }

// Role is the style sheet role naming the pair, e.g. "proseScreen".
func (p Pair) Role() string {
	medium := string(p.Medium)
	if medium == "" {
		return string(p.Mode)
	}
	return string(p.Mode) + strings.ToUpper(medium[:1]) + medium[1:]
}

// ParsePair accepts "prose-screen", "prose_screen" or the role spelling "proseScreen".
func ParsePair(s string) (Pair, error) {
	raw := strings.TrimSpace(s)
	for _, p := range allPairs {
		if strings.EqualFold(raw, p.String()) || strings.EqualFold(raw, p.Role()) ||
			strings.EqualFold(strings.ReplaceAll(raw, "_", "-"), p.String()) {
			return p, nil
		}
	}
	return Pair{}, fmt.Errorf("unknown view %q", s)
}

// Class is the document class: it fixes the allowed pairs and the frame kind.
type Class int

const (
	ClassAuto Class = iota
	ClassArticle
	ClassMonograph
)

func (c Class) String() string {
	switch c {
	case ClassArticle:
		return "article"
	case ClassMonograph:
		return "monograph"
	}
	return "auto"
}

// ParseClass maps a configuration string onto a Class.
func ParseClass(s string) (Class, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return ClassAuto, nil
	case "article":
		return ClassArticle, nil
	case "monograph", "book":
		return ClassMonograph, nil
	}
	return ClassAuto, fmt.Errorf("unknown document class %q", s)
}

var articlePairs = []Pair{ProseScreen, ProsePrint, SlideScreen, SlidePrint, CodeScreen, CodePrint}

var monographPairs = []Pair{ChapterScreen, SlideScreen, ProsePrint, SlidePrint, CodeScreen, CodePrint}

// Pairs lists the closed set of pairs for the class.
func (c Class) Pairs() []Pair {
	if c == ClassMonograph {
		return append([]Pair(nil), monographPairs...)
	}
	return append([]Pair(nil), articlePairs...)
}

// Allows reports whether p belongs to the class's set.
func (c Class) Allows(p Pair) bool {
	for _, q := range c.Pairs() {
		if q == p {
			return true
		}
	}
	return false
}

// DefaultPair is the pair active after load.
func (c Class) DefaultPair() Pair {
	if c == ClassMonograph {
		return ChapterScreen
	}
	return ProseScreen
}

// framePairs are the pairs that show units one at a time in a frame.
func (c Class) framePairs() []Pair {
	if c == ClassMonograph {
		return []Pair{ChapterScreen, SlideScreen}
	}
	return []Pair{SlideScreen}
}

type toggle map[Pair]Pair

func symmetric(pairs ...Pair) toggle {
	t := toggle{}
	for i := 0; i+1 < len(pairs); i += 2 {
		t[pairs[i]] = pairs[i+1]
		t[pairs[i+1]] = pairs[i]
	}
	return t
}

var toggles = map[Class]map[Key]toggle{
	ClassArticle: {
		KeyCode:  symmetric(ProseScreen, CodeScreen, ProsePrint, CodePrint),
		KeySlide: symmetric(ProseScreen, SlideScreen, ProsePrint, SlidePrint),
		KeyPrint: symmetric(ProseScreen, ProsePrint, SlideScreen, SlidePrint, CodeScreen, CodePrint),
	},
	ClassMonograph: {
		KeyCode:  symmetric(ChapterScreen, CodeScreen, ProsePrint, CodePrint),
		KeySlide: symmetric(ChapterScreen, SlideScreen, ProsePrint, SlidePrint),
		KeyPrint: symmetric(ChapterScreen, ProsePrint, SlideScreen, SlidePrint, CodeScreen, CodePrint),
	},
}

// Toggle returns the pair reached from p by the toggle key k.
func (c Class) Toggle(k Key, p Pair) (Pair, bool) {
	class := c
	if class == ClassAuto {
		class = ClassArticle
	}
	next, ok := toggles[class][k][p]
	return next, ok
}

// ToggleCode swaps prose (or chapter) and code, holding the medium.
func (c Class) ToggleCode(p Pair) (Pair, bool) { return c.Toggle(KeyCode, p) }

// ToggleSlide swaps prose (or chapter) and slide, holding the medium.
func (c Class) ToggleSlide(p Pair) (Pair, bool) { return c.Toggle(KeySlide, p) }

// TogglePrint swaps screen and print, holding the mode.
func (c Class) TogglePrint(p Pair) (Pair, bool) { return c.Toggle(KeyPrint, p) }

// Help is the context help text for the current pair.
func (c Class) Help(p Pair) string {
	switch {
	case p == SlideScreen:
		return "Space Bar, →, or ↓\tAdvance one slide.\n" +
			"← or ↑\t\t\tRetreat one slide.\n" +
			"S\t\t\t\tToggle view of slide show.\n" +
			"P\t\t\t\tToggle print view.\n" +
			"H\t\t\t\tDisplay this help screen."
	case p == SlidePrint:
		return "S\tToggle slide mode.\nP\tToggle print view.\nH\tDisplay this help screen."
	case p.Mode == ModeCode:
		return "C\tToggle code mode.\nP\tToggle print view.\nH\tDisplay this help screen."
	default:
		return "C\tToggle code mode.\nS\tToggle slide mode.\nP\tToggle print view.\nH\tDisplay this help screen."
	}
}
