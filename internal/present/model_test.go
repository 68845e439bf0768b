package present

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"kpp/view"
)

const sample = `<html><head>
<!--common--><style>body { margin: 0 }</style>
<!--slideScreen--><style>#bodyPages { display: none }</style>
</head><body>
<div id="frontMatter"><p id="documentTitle">Terminal Talk</p><p id="authorList">A. Speaker</p></div>
<div id="bodyPages">
<div class="section"><h3 id="intro"><span class="sectionNumber">1</span> <span class="sectionName">Introduction to the topic</span></h3>
<div class="slide"><p>first slide</p></div></div>
<div class="section"><h3 id="background"><span class="sectionNumber">2</span> <span class="sectionName">Background material</span></h3>
<div class="slide"><p>second slide</p></div></div>
<p>closing prose paragraph</p>
</div>
<div id="onlyCode"><pre>fmt.Println()</pre></div>
</body></html>`

func newModel(t *testing.T) *Model {
	t.Helper()
	doc, err := view.Parse(strings.NewReader(sample), view.Options{URL: "file:///talk.html"})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	v, err := view.NewViewer(doc, view.Pair{})
	if err != nil {
		t.Fatalf("NewViewer: %v", err)
	}
	m := New(v, 80)
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestSlideKeys(t *testing.T) {
	t.Parallel()
	m := newModel(t)
	if !strings.Contains(m.View(), "closing prose paragraph") {
		t.Fatalf("prose view lacks the body text")
	}
	m.Update(runes("s"))
	if m.Viewer().Pair() != view.SlideScreen {
		t.Fatalf("pair after s = %s", m.Viewer().Pair())
	}
	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	out := m.View()
	if !strings.Contains(out, "first slide") || strings.Contains(out, "second slide") {
		t.Fatalf("slide 1 view:\n%s", out)
	}
	if !strings.Contains(out, "2/3") {
		t.Fatalf("counter missing:\n%s", out)
	}
	m.Update(tea.KeyMsg{Type: tea.KeySpace})
	if got := m.Viewer().SlideFrame().Index(); got != 2 {
		t.Fatalf("space moved to %d, want 2", got)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyUp})
	if got := m.Viewer().SlideFrame().Index(); got != 1 {
		t.Fatalf("up moved to %d, want 1", got)
	}
}

func TestHelpAndCodeKeys(t *testing.T) {
	t.Parallel()
	m := newModel(t)
	m.Update(runes("h"))
	if out := m.View(); !strings.Contains(out, "Toggle code mode.") {
		t.Fatalf("help not shown:\n%s", out)
	}
	m.Update(runes("c"))
	out := m.View()
	if strings.Contains(out, "Toggle code mode.") || !strings.Contains(out, "fmt.Println()") {
		t.Fatalf("code view:\n%s", out)
	}
	m.Update(runes("x"))
	if m.Viewer().Pair() != view.CodeScreen {
		t.Fatalf("unbound key changed the pair to %s", m.Viewer().Pair())
	}
}

func TestNavigationBarScroll(t *testing.T) {
	t.Parallel()
	m := newModel(t)
	m.Update(runes("s"))
	m.Update(tea.WindowSizeMsg{Width: 20, Height: 24})
	bar := m.Viewer().NavBar()
	if !bar.ControlsVisible {
		t.Fatalf("narrow window shows no scroll controls")
	}
	m.Update(runes("]"))
	if bar.Offset != view.ScrollSpeed {
		t.Fatalf("offset after ] = %d", bar.Offset)
	}
	if line := m.navBar(); !strings.HasPrefix(line, view.LeftControl) {
		t.Fatalf("nav bar line = %q", line)
	}
	m.Update(runes("]"))
	m.Update(runes("["))
	if bar.Offset != view.ScrollSpeed {
		t.Fatalf("offset after ] ] [ = %d", bar.Offset)
	}
}

func TestQuit(t *testing.T) {
	t.Parallel()
	m := newModel(t)
	_, cmd := m.Update(runes("q"))
	if cmd == nil {
		t.Fatalf("q returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("q did not quit")
	}
	if m.View() != "" {
		t.Fatalf("view after quit is not empty")
	}
}

func TestFormatHelp(t *testing.T) {
	t.Parallel()
	got := formatHelp("C\tToggle code mode.\nH\t\tHelp.")
	want := "C                    Toggle code mode.\nH                    Help."
	if got != want {
		t.Fatalf("formatHelp = %q, want %q", got, want)
	}
}
