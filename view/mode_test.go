package view

import "testing"

func TestToggles(t *testing.T) {
	t.Parallel()
	tests := []struct {
		class Class
		key   Key
		from  Pair
		want  Pair
		ok    bool
	}{
		{ClassArticle, KeyCode, ProseScreen, CodeScreen, true},
		{ClassArticle, KeyCode, ProsePrint, CodePrint, true},
		{ClassArticle, KeyCode, SlideScreen, Pair{}, false},
		{ClassArticle, KeySlide, ProseScreen, SlideScreen, true},
		{ClassArticle, KeySlide, CodeScreen, Pair{}, false},
		{ClassArticle, KeyPrint, SlideScreen, SlidePrint, true},
		{ClassArticle, KeyPrint, CodePrint, CodeScreen, true},
		{ClassMonograph, KeySlide, ChapterScreen, SlideScreen, true},
		{ClassMonograph, KeyPrint, ChapterScreen, ProsePrint, true},
		{ClassMonograph, KeyPrint, ProsePrint, ChapterScreen, true},
		{ClassMonograph, KeyCode, ChapterScreen, CodeScreen, true},
		{ClassMonograph, KeySlide, ProseScreen, Pair{}, false},
	}
	for _, tc := range tests {
		got, ok := tc.class.Toggle(tc.key, tc.from)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("%s %s from %s = %s/%v, want %s/%v", tc.class, tc.key, tc.from, got, ok, tc.want, tc.ok)
		}
	}
}

func TestTogglesStayInClass(t *testing.T) {
	t.Parallel()
	for _, class := range []Class{ClassArticle, ClassMonograph} {
		for _, p := range class.Pairs() {
			for _, k := range []Key{KeyCode, KeySlide, KeyPrint} {
				if next, ok := class.Toggle(k, p); ok && !class.Allows(next) {
					t.Fatalf("%s: %s from %s leaves the class set: %s", class, k, p, next)
				}
			}
		}
	}
}

func TestParsePair(t *testing.T) {
	t.Parallel()
	for _, in := range []string{"slide-screen", "slideScreen", "SLIDE_SCREEN"} {
		p, err := ParsePair(in)
		if err != nil || p != SlideScreen {
			t.Fatalf("ParsePair(%q) = %s, %v", in, p, err)
		}
	}
	if _, err := ParsePair("hologram"); err == nil {
		t.Fatalf("ParsePair accepted an unknown view")
	}
}

func TestParseKey(t *testing.T) {
	t.Parallel()
	tests := map[string]Key{
		"c": KeyCode, "S": KeySlide, "p": KeyPrint, "H": KeyHelp,
		" ": KeyNext, "ArrowRight": KeyNext, "↓": KeyNext,
		"left": KeyPrev, "ArrowUp": KeyPrev,
	}
	for in, want := range tests {
		if got, ok := ParseKey(in); !ok || got != want {
			t.Fatalf("ParseKey(%q) = %s, %v", in, got, ok)
		}
	}
	if _, ok := ParseKey("x"); ok {
		t.Fatalf("ParseKey accepted x")
	}
}

func TestHelp(t *testing.T) {
	t.Parallel()
	if got := ClassArticle.Help(SlideScreen); got == ClassArticle.Help(ProseScreen) {
		t.Fatalf("slide screen help equals prose help")
	}
	if got := ClassArticle.Help(CodeScreen); got != "C\tToggle code mode.\nP\tToggle print view.\nH\tDisplay this help screen." {
		t.Fatalf("code help = %q", got)
	}
}
