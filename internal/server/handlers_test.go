package server

import (
	"context"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"

	"kpp/view"
)

const sampleHTML = `<html><head><title>Sample</title>
<!--common--><style>body { margin: 0 }</style>
<!--proseScreen--><style>#slideFrame { display: none }</style>
<!--prosePrint--><style>p { color: black }</style>
<!--slideScreen--><style>#bodyPages { display: none }</style>
</head><body>
<div id="frontMatter"><p id="documentTitle">Sample Paper</p><p id="authorList">A. Author</p></div>
<div id="bodyPages">
<div class="section"><h3 id="a"><span class="sectionNumber">1</span> <span class="sectionName">A</span></h3>
<div class="slide"><p>first</p></div></div>
<div class="section"><h3 id="b"><span class="sectionNumber">2</span> <span class="sectionName">B</span></h3>
<div class="slide"><p>second <a href="#a">back</a> <a href="#missing">gone</a></p></div></div>
</div>
</body></html>`

type fakePrinter struct{ pages int }

func (p *fakePrinter) PrintPDF(_ context.Context, document []byte) ([]byte, error) {
	p.pages++
	return []byte("%PDF-fake"), nil
}

type testClock struct{ now time.Time }

func (c *testClock) Now() time.Time { return c.now }

func newTestServer(t *testing.T, files map[string]string, printer *fakePrinter) (*Server, *testClock) {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	clock := &testClock{now: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)}
	cfg := Config{
		DocsDir:    dir,
		SessionTTL: time.Hour,
		Logger:     log.New(io.Discard, "", 0),
		Clock:      clock.Now,
	}
	if printer != nil {
		cfg.Printer = printer
	}
	return New(cfg), clock
}

func get(t *testing.T, s *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func openSession(t *testing.T, s *Server, target string) string {
	t.Helper()
	rec := get(t, s, target)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("GET %s = %d: %s", target, rec.Code, rec.Body.String())
	}
	loc := rec.Header().Get("Location")
	if !strings.HasPrefix(loc, "/s/") {
		t.Fatalf("open redirected to %q", loc)
	}
	return strings.TrimPrefix(loc, "/s/")
}

func viewerOf(t *testing.T, s *Server, sid string) *view.Viewer {
	t.Helper()
	sess, ok := s.sessions.get(sid)
	if !ok {
		t.Fatalf("session %s missing", sid)
	}
	return sess.viewer
}

func TestPing(t *testing.T) {
	t.Parallel()
	s, _ := newTestServer(t, nil, nil)
	rec := get(t, s, "/ping")
	if rec.Code != http.StatusOK || rec.Body.String() != "pong\n" {
		t.Fatalf("ping = %d %q", rec.Code, rec.Body.String())
	}
}

func TestIndexListsDocuments(t *testing.T) {
	t.Parallel()
	s, _ := newTestServer(t, map[string]string{
		"sample.html":     sampleHTML,
		"sample.kpp.json": `{"title": " Sample Paper "}`,
		"other.html":      sampleHTML,
		"notes.txt":       "not a document",
	}, nil)
	rec := get(t, s, "/")
	body := rec.Body.String()
	if rec.Code != http.StatusOK {
		t.Fatalf("index = %d", rec.Code)
	}
	for _, want := range []string{`href="/doc/sample"`, ">Sample Paper</a>", `href="/doc/other"`, ">other</a>"} {
		if !strings.Contains(body, want) {
			t.Fatalf("index lacks %s:\n%s", want, body)
		}
	}
	if strings.Contains(body, "notes") {
		t.Fatalf("index lists a non-document")
	}
	if strings.Index(body, "/doc/other") > strings.Index(body, "/doc/sample") {
		t.Fatalf("index not sorted")
	}
}

func TestSessionKeysAndLinks(t *testing.T) {
	t.Parallel()
	s, _ := newTestServer(t, map[string]string{"sample.html": sampleHTML}, nil)
	sid := openSession(t, s, "/doc/sample")
	v := viewerOf(t, s, sid)
	if v.Pair() != view.ProseScreen {
		t.Fatalf("initial pair = %s", v.Pair())
	}

	rec := get(t, s, "/s/"+sid)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `id="slideFrame"`) {
		t.Fatalf("view = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("content type = %q", ct)
	}

	if rec := get(t, s, "/s/"+sid+"/key/s"); rec.Code != http.StatusSeeOther {
		t.Fatalf("key s = %d", rec.Code)
	}
	if v.Pair() != view.SlideScreen {
		t.Fatalf("pair after S = %s", v.Pair())
	}
	if rec := get(t, s, "/s/"+sid+"/key/ArrowRight"); rec.Code != http.StatusSeeOther || v.SlideFrame().Index() != 1 {
		t.Fatalf("advance = %d index %d", rec.Code, v.SlideFrame().Index())
	}

	body := get(t, s, "/s/"+sid).Body.String()
	if !strings.Contains(body, `href="/s/`+sid+`/unit/1"`) {
		t.Fatalf("slide link not redirected into the session:\n%s", body)
	}
	if !strings.Contains(body, `href="/doc/sample?fragment=missing" target="_blank"`) {
		t.Fatalf("missing target not opened in a new session")
	}

	if rec := get(t, s, "/s/"+sid+"/unit/2"); rec.Code != http.StatusSeeOther || v.SlideFrame().Index() != 2 {
		t.Fatalf("unit 2 = %d index %d", rec.Code, v.SlideFrame().Index())
	}
	if rec := get(t, s, "/s/"+sid+"/unit/x"); rec.Code != http.StatusBadRequest {
		t.Fatalf("bad unit = %d", rec.Code)
	}

	help := get(t, s, "/s/"+sid+"/key/h")
	if help.Code != http.StatusOK || !strings.Contains(help.Body.String(), "Advance one slide.") {
		t.Fatalf("help = %d %q", help.Code, help.Body.String())
	}
	if rec := get(t, s, "/s/"+sid+"/key/x"); rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown key = %d", rec.Code)
	}
}

func TestOpenOptions(t *testing.T) {
	t.Parallel()
	s, _ := newTestServer(t, map[string]string{
		"sample.html":     sampleHTML,
		"sample.kpp.json": `{"mode": "slideScreen"}`,
		"plain.html":      sampleHTML,
	}, nil)

	sid := openSession(t, s, "/doc/sample?unit=2")
	v := viewerOf(t, s, sid)
	if v.Pair() != view.SlideScreen || v.SlideFrame().Index() != 2 {
		t.Fatalf("sidecar start = %s at %d", v.Pair(), v.SlideFrame().Index())
	}

	sid = openSession(t, s, "/doc/sample?mode=prose-print")
	if got := viewerOf(t, s, sid).Pair(); got != view.ProsePrint {
		t.Fatalf("?mode start = %s", got)
	}

	tests := []struct {
		name   string
		target string
		want   int
	}{
		{"foreign view", "/doc/plain?mode=chapter-screen", http.StatusBadRequest},
		{"unknown view", "/doc/plain?mode=hologram", http.StatusBadRequest},
		{"missing document", "/doc/absent", http.StatusNotFound},
		{"dot file", "/doc/.hidden", http.StatusBadRequest},
		{"unknown session", "/s/nope", http.StatusNotFound},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if rec := get(t, s, tc.target); rec.Code != tc.want {
				t.Fatalf("GET %s = %d, want %d", tc.target, rec.Code, tc.want)
			}
		})
	}
}

func TestSessionExpires(t *testing.T) {
	t.Parallel()
	s, clock := newTestServer(t, map[string]string{"sample.html": sampleHTML}, nil)
	sid := openSession(t, s, "/doc/sample")
	clock.now = clock.now.Add(30 * time.Minute)
	if rec := get(t, s, "/s/"+sid); rec.Code != http.StatusOK {
		t.Fatalf("live session = %d", rec.Code)
	}
	clock.now = clock.now.Add(50 * time.Minute)
	if rec := get(t, s, "/s/"+sid); rec.Code != http.StatusOK {
		t.Fatalf("touched session expired early: %d", rec.Code)
	}
	clock.now = clock.now.Add(2 * time.Hour)
	if rec := get(t, s, "/s/"+sid); rec.Code != http.StatusNotFound {
		t.Fatalf("expired session = %d", rec.Code)
	}
	if n := s.sessions.len(); n != 0 {
		t.Fatalf("sessions left = %d", n)
	}
}

func TestResize(t *testing.T) {
	t.Parallel()
	s, _ := newTestServer(t, map[string]string{"sample.html": sampleHTML}, nil)
	sid := openSession(t, s, "/doc/sample?mode=slide-screen")
	if rec := get(t, s, "/s/"+sid+"/resize?w=100&bar=300"); rec.Code != http.StatusNoContent {
		t.Fatalf("resize = %d", rec.Code)
	}
	if !viewerOf(t, s, sid).NavBar().ControlsVisible {
		t.Fatalf("overflowing bar shows no controls")
	}
	if rec := get(t, s, "/s/"+sid+"/resize?w=100"); rec.Code != http.StatusBadRequest {
		t.Fatalf("resize without bar = %d", rec.Code)
	}
}

func TestExport(t *testing.T) {
	t.Parallel()
	disabled, _ := newTestServer(t, map[string]string{"sample.html": sampleHTML}, nil)
	if rec := get(t, disabled, "/doc/sample/export.pdf"); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("export without printer = %d", rec.Code)
	}

	p := &fakePrinter{}
	s, _ := newTestServer(t, map[string]string{"sample.html": sampleHTML}, p)
	rec := get(t, s, "/doc/sample/export.pdf?mode=slide-screen")
	if rec.Code != http.StatusOK || rec.Body.String() != "%PDF-fake" || p.pages != 1 {
		t.Fatalf("export = %d %q", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Fatalf("content type = %q", ct)
	}
	if rec := get(t, s, "/doc/absent/export.pdf"); rec.Code != http.StatusNotFound {
		t.Fatalf("export of a missing document = %d", rec.Code)
	}
}

func TestInvalidateOnChange(t *testing.T) {
	t.Parallel()
	s, clock := newTestServer(t, map[string]string{"sample.html": sampleHTML}, nil)
	if _, err := s.docs.Load("sample"); err != nil {
		t.Fatalf("Load: %v", err)
	}
	clock.now = clock.now.Add(5 * time.Minute)
	if age, ok := s.docs.Invalidate("sample"); !ok || age != 5*time.Minute {
		t.Fatalf("Invalidate = %s %v, want 5m0s true", age, ok)
	}
	if _, ok := s.docs.Invalidate("sample"); ok {
		t.Fatalf("second Invalidate reported a cached entry")
	}
	if _, err := s.docs.Load("sample"); err != nil {
		t.Fatalf("reload: %v", err)
	}
	path := filepath.Join(s.cfg.DocsDir, "sample.html")
	if err := os.WriteFile(path, []byte("<html><head></head><body>changed</body></html>"), 0o644); err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	if data, _ := s.docs.Load("sample"); !strings.Contains(string(data), "Sample Paper") {
		t.Fatalf("cache missed before invalidation")
	}
	s.invalidate(fsnotify.Event{Name: path, Op: fsnotify.Write})
	if data, _ := s.docs.Load("sample"); !strings.Contains(string(data), "changed") {
		t.Fatalf("cache not invalidated")
	}
	s.invalidate(fsnotify.Event{Name: filepath.Join(s.cfg.DocsDir, "notes.txt"), Op: fsnotify.Write})
}
