package view

import (
	"bytes"
	"strings"
	"testing"

	"golang.org/x/net/html"
)

func TestArticleSlideWalk(t *testing.T) {
	t.Parallel()
	v := newFixtureViewer(t, articleHTML)
	if v.Pair() != ProseScreen {
		t.Fatalf("initial pair = %s", v.Pair())
	}
	if out := press(t, v, KeySlide); !out.Changed || v.Pair() != SlideScreen {
		t.Fatalf("S did not enter slide screen: %+v %s", out, v.Pair())
	}
	f := v.SlideFrame()
	if !f.Visible() || f.Index() != 0 {
		t.Fatalf("entering slide screen shows %d visible=%v", f.Index(), f.Visible())
	}

	wantHighlight := []string{"", "secA", "secB", "secB1"}
	for i := 1; i < len(wantHighlight); i++ {
		if out := press(t, v, KeyNext); !out.Changed {
			t.Fatalf("advance %d was a no-op", i)
		}
		if f.Index() != i {
			t.Fatalf("visited %d, want %d", f.Index(), i)
		}
		if got := f.Highlighted(); got != wantHighlight[i] {
			t.Fatalf("slide %d highlights %q, want %q", i, got, wantHighlight[i])
		}
	}
	if out := press(t, v, KeyNext); out.Changed || f.Index() != 3 {
		t.Fatalf("advance past the last slide moved to %d", f.Index())
	}

	active := findAll(byID(v.Document().Root, "slideNavigationBar"), func(n *html.Node) bool {
		return isAnchor(n) && styleValue(n, "color") == ColorActive
	})
	if len(active) != 1 || getAttr(active[0], "href") != "#secB1" {
		t.Fatalf("active navigation anchors = %d", len(active))
	}
}

func TestViewerPrintRoundTrip(t *testing.T) {
	t.Parallel()
	v := newFixtureViewer(t, articleHTML)
	press(t, v, KeySlide)
	v.GotoUnit(2)
	press(t, v, KeyPrint)
	if v.Pair() != SlidePrint || v.SlideFrame().Visible() {
		t.Fatalf("slide print: pair %s visible %v", v.Pair(), v.SlideFrame().Visible())
	}
	if out := press(t, v, KeyNext); out.Changed {
		t.Fatalf("advance outside slide screen changed state")
	}
	press(t, v, KeyPrint)
	if v.Pair() != SlideScreen || !v.SlideFrame().Visible() || v.SlideFrame().Index() != 2 {
		t.Fatalf("back in slide screen at %d", v.SlideFrame().Index())
	}
	if got := v.Styles().Attached(); len(got) != 2 || got[0] != RoleCommon || got[1] != "slideScreen" {
		t.Fatalf("attached = %v", got)
	}
}

func TestViewerHelpAndIgnoredKeys(t *testing.T) {
	t.Parallel()
	v := newFixtureViewer(t, articleHTML)
	out := press(t, v, KeyHelp)
	if out.Changed || !strings.Contains(out.Help, "Toggle code mode.") {
		t.Fatalf("help = %+v", out)
	}
	press(t, v, KeyCode)
	if v.Pair() != CodeScreen {
		t.Fatalf("pair = %s, want code screen", v.Pair())
	}
	if out := press(t, v, KeySlide); out.Changed || v.Pair() != CodeScreen {
		t.Fatalf("S in code screen changed to %s", v.Pair())
	}
	if got := PlainText(v.Page()); got != "code" {
		t.Fatalf("code page = %q", got)
	}
	if v.GotoUnit(1) {
		t.Fatalf("GotoUnit outside frame pairs moved a frame")
	}
}

func TestRenderRewritesForPair(t *testing.T) {
	t.Parallel()
	v := newFixtureViewer(t, articleHTML)
	hrefFor := func(text string) string {
		t.Helper()
		out := v.Snapshot(recordingURLs{})
		a := findElement(byID(out, "bodyPages"), func(n *html.Node) bool { return isAnchor(n) && textContent(n) == text })
		if a == nil {
			t.Fatalf("anchor %q not rendered", text)
		}
		return getAttr(a, "href")
	}
	if got := hrefFor("see A"); got != "#secA" {
		t.Fatalf("prose screen href = %q, want #secA", got)
	}
	press(t, v, KeySlide)
	if got := hrefFor("see A"); got != "unit:1#" {
		t.Fatalf("slide screen href = %q, want unit:1#", got)
	}
	if got := getAttr(findElement(v.Document().Root, func(n *html.Node) bool { return isAnchor(n) && textContent(n) == "see A" }), "href"); got != "#secA" {
		t.Fatalf("rendering mutated the live document: %q", got)
	}

	var buf bytes.Buffer
	if err := v.Render(&buf, nil); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(buf.String(), testURL+"?unit=1") {
		t.Fatalf("rendered page lacks the unit link")
	}
}

func TestMonographChaptersAndSlides(t *testing.T) {
	t.Parallel()
	v := newFixtureViewer(t, monographHTML)
	if v.Pair() != ChapterScreen {
		t.Fatalf("initial pair = %s", v.Pair())
	}
	cf := v.ChapterFrame()
	if got := cf.Highlighted(); got != "_comppFrontmatter" {
		t.Fatalf("chapter 0 highlights %q", got)
	}
	if !v.GotoUnit(2) || cf.Highlighted() != "ch2" {
		t.Fatalf("GotoUnit(2) highlights %q", cf.Highlighted())
	}

	press(t, v, KeySlide)
	sf := v.SlideFrame()
	if sf.Count() != 3 || sf.Index() != 0 || !sf.Visible() {
		t.Fatalf("chapter 2 slide show: count %d index %d", sf.Count(), sf.Index())
	}
	if got := strings.Join(targets(v.Navigation()), ","); got != "s21" {
		t.Fatalf("slide navigation = %s", got)
	}
	if span := byID(v.Document().Root, "titleSlideChapterTitle"); span == nil || getAttr(span, "class") != "chapter" {
		t.Fatalf("chapter title slide missing")
	}
	press(t, v, KeyNext)
	if sf.Highlighted() != "s21" {
		t.Fatalf("slide 1 highlights %q", sf.Highlighted())
	}

	press(t, v, KeySlide)
	if v.Pair() != ChapterScreen || sf.Visible() {
		t.Fatalf("leaving slides: pair %s", v.Pair())
	}
	v.GotoUnit(1)
	press(t, v, KeySlide)
	sf = v.SlideFrame()
	if sf.Count() != 2 {
		t.Fatalf("chapter 1 slide show count = %d, want 2", sf.Count())
	}
	press(t, v, KeyNext)
	if n := len(findAll(sf.Content(), isAnchor)); n != 0 {
		t.Fatalf("internal links left on a chapter slide: %d", n)
	}
	if got := PlainText(sf.Content()); got != "one-a next" {
		t.Fatalf("slide text = %q", got)
	}
}

func TestMonographChapterLinks(t *testing.T) {
	t.Parallel()
	v := newFixtureViewer(t, monographHTML)
	out := v.Snapshot(recordingURLs{})
	pages := byID(out, "bodyPages")
	a := findElement(pages, func(n *html.Node) bool { return isAnchor(n) && textContent(n) == "next" })
	if got := getAttr(a, "href"); got != "unit:2#ch2" {
		t.Fatalf("chapter link = %q, want unit:2#ch2", got)
	}
}

func TestNavBarScroll(t *testing.T) {
	t.Parallel()
	var b NavBar
	b.Resize(100, 200)
	if !b.ControlsVisible {
		t.Fatalf("controls hidden on overflow")
	}
	steps := 0
	for b.ScrollLeft() {
		steps++
	}
	if b.Offset >= 200-100+scrollSlack || b.Offset+ScrollSpeed < 200-100+scrollSlack {
		t.Fatalf("offset after scrolling = %d", b.Offset)
	}
	if steps == 0 {
		t.Fatalf("could not scroll")
	}
	b.Resize(150, 200)
	if b.Offset > 200-150+scrollSlack {
		t.Fatalf("offset not clamped: %d", b.Offset)
	}
	for b.ScrollRight() {
	}
	if b.Offset > ScrollSpeed {
		t.Fatalf("offset after scrolling back = %d", b.Offset)
	}
	b.Resize(300, 200)
	if b.ControlsVisible || b.Offset != 0 {
		t.Fatalf("fit bar: visible %v offset %d", b.ControlsVisible, b.Offset)
	}
}

func TestPlainText(t *testing.T) {
	t.Parallel()
	root := parseFixture(t, "<div><h3>Title</h3><p>one  two</p><pre>a\n  b</pre><script>x()</script></div>")
	want := "Title\none two\na\n  b"
	if got := PlainText(byTag(root, "div")); got != want {
		t.Fatalf("PlainText = %q, want %q", got, want)
	}
}
