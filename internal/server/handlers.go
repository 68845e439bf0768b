package server

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"kpp/internal/export"
	"kpp/view"
)

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	entries, err := s.indexEntries()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	page := renderIndex(s.cfg.Title, entries)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Length", strconv.Itoa(len(page)))
	io.WriteString(w, page)
}

func (s *Server) handlePing(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, "pong\n")
}

// handleOpen assembles a document for a new reader and redirects to the
// session. ?fragment= selects a box or appendix, ?mode= the start view and
// ?unit= the first slide or chapter.
func (s *Server) handleOpen(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if !validName(name) {
		http.Error(w, "bad document name", http.StatusBadRequest)
		return
	}
	fragment := r.URL.Query().Get("fragment")
	doc, cfg, err := s.loadDocument(r, name, fragment)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	initial, err := s.initialPair(r, doc, cfg)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	v, err := view.NewViewer(doc, initial)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	if n, ok := intParam(r, "unit"); ok {
		v.GotoUnit(n)
	}
	sess, swept := s.sessions.put(name, v)
	s.logger.Printf("SESSION new %s doc=%s class=%s scope=%s fragment=%q pair=%s swept=%d", sess.ID, name, doc.Class, doc.Scope, fragment, v.Pair(), swept)
	for _, alert := range doc.Alerts {
		s.logger.Printf("SESSION %s alert: %v", sess.ID, alert)
	}
	http.Redirect(w, r, sessionPath(sess.ID), http.StatusSeeOther)
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	sess.mu.Lock()
	var buf bytes.Buffer
	err := sess.viewer.Render(&buf, sessionURLs{name: sess.Name, sid: sess.ID})
	sess.mu.Unlock()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Write(buf.Bytes())
}

func (s *Server) handleKey(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	raw := chi.URLParam(r, "key")
	k, ok := view.ParseKey(raw)
	if !ok {
		http.Error(w, "unknown key "+strconv.Quote(raw), http.StatusBadRequest)
		return
	}
	sess.mu.Lock()
	out, err := sess.viewer.Press(k)
	pair := sess.viewer.Pair()
	sess.mu.Unlock()
	if err != nil {
		s.logger.Printf("KEY %s %s failed: %v", sess.ID, k, err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.logger.Printf("KEY %s %s changed=%v pair=%s", sess.ID, k, out.Changed, pair)
	if out.Help != "" {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		io.WriteString(w, out.Help+"\n")
		return
	}
	http.Redirect(w, r, sessionPath(sess.ID), http.StatusSeeOther)
}

// handleUnit follows a redirected link. The browser keeps the link's
// fragment across the redirect.
func (s *Server) handleUnit(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	n, err := strconv.Atoi(chi.URLParam(r, "n"))
	if err != nil {
		http.Error(w, "bad unit", http.StatusBadRequest)
		return
	}
	sess.mu.Lock()
	moved := sess.viewer.GotoUnit(n)
	sess.mu.Unlock()
	s.logger.Printf("KEY %s unit=%d moved=%v", sess.ID, n, moved)
	http.Redirect(w, r, sessionPath(sess.ID), http.StatusSeeOther)
}

func (s *Server) handleResize(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	width, okW := intParam(r, "w")
	bar, okB := intParam(r, "bar")
	if !okW || !okB || width < 0 || bar < 0 {
		http.Error(w, "resize needs w and bar", http.StatusBadRequest)
		return
	}
	sess.mu.Lock()
	sess.viewer.Resize(width, bar)
	sess.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if s.cfg.Printer == nil {
		http.Error(w, "pdf export disabled", http.StatusServiceUnavailable)
		return
	}
	name := chi.URLParam(r, "name")
	if !validName(name) {
		http.Error(w, "bad document name", http.StatusBadRequest)
		return
	}
	fragment := r.URL.Query().Get("fragment")
	doc, cfg, err := s.loadDocument(r, name, fragment)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	pair, err := s.initialPair(r, doc, cfg)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	pdf, err := export.Document(r.Context(), s.cfg.Printer, doc, pair)
	if err != nil {
		s.logger.Printf("EXPORT %s failed: %v", name, err)
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	s.logger.Printf("EXPORT %s pair=%s fragment=%q bytes=%d", name, export.PrintView(doc.Class, pair), fragment, len(pdf))
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `inline; filename="`+name+`.pdf"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(pdf)))
	w.Write(pdf)
}

func (s *Server) session(w http.ResponseWriter, r *http.Request) (*session, bool) {
	sess, ok := s.sessions.get(chi.URLParam(r, "sid"))
	if !ok {
		http.Error(w, "session expired", http.StatusNotFound)
		return nil, false
	}
	return sess, true
}

func (s *Server) loadDocument(r *http.Request, name, fragment string) (*view.Document, *DocConfig, error) {
	data, err := s.docs.Load(name)
	if err != nil {
		return nil, nil, err
	}
	cfg := s.configs.Find(name)
	doc, err := view.Parse(bytes.NewReader(data), view.Options{
		Class:    cfg.ClassOrAuto(),
		Fragment: fragment,
		URL:      documentURL(serverBase(r), name),
	})
	if err != nil {
		return nil, nil, err
	}
	return doc, cfg, nil
}

// initialPair prefers ?mode= over the sidecar. A sidecar mode the class
// does not allow falls back to the class default.
func (s *Server) initialPair(r *http.Request, doc *view.Document, cfg *DocConfig) (view.Pair, error) {
	if raw := r.URL.Query().Get("mode"); raw != "" {
		p, err := view.ParsePair(raw)
		if err != nil {
			return view.Pair{}, err
		}
		if !doc.Class.Allows(p) {
			return view.Pair{}, errors.New(p.String() + " is not a " + doc.Class.String() + " view")
		}
		return p, nil
	}
	if p := cfg.InitialPair(); doc.Class.Allows(p) {
		return p, nil
	}
	return view.Pair{}, nil
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return http.StatusNotFound
	case errors.Is(err, view.ErrNoBody), errors.Is(err, view.ErrNoHead):
		return http.StatusUnprocessableEntity
	case errors.Is(err, view.ErrPairNotAllowed):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
