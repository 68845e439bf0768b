package server

import (
	"html"
	"strings"
)

// IndexEntry is one document listed on the index page.
type IndexEntry struct {
	Name  string
	Title string
	URL   string
}

func (s *Server) indexEntries() ([]IndexEntry, error) {
	names, err := s.docs.Names()
	if err != nil {
		return nil, err
	}
	entries := make([]IndexEntry, 0, len(names))
	for _, name := range names {
		title := name
		if cfg := s.configs.Find(name); cfg != nil && cfg.Title != "" {
			title = cfg.Title
		}
		entries = append(entries, IndexEntry{Name: name, Title: title, URL: docPath(name)})
	}
	return entries, nil
}

func renderIndex(title string, entries []IndexEntry) string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html><head><title>")
	b.WriteString(html.EscapeString(title))
	b.WriteString("</title></head><body>\n<h1>")
	b.WriteString(html.EscapeString(title))
	b.WriteString("</h1>\n")
	if len(entries) == 0 {
		b.WriteString("<p>No documents.</p>\n")
	} else {
		b.WriteString("<ul>\n")
		for _, e := range entries {
			b.WriteString(`<li><a href="`)
			b.WriteString(html.EscapeString(e.URL))
			b.WriteString(`">`)
			b.WriteString(html.EscapeString(e.Title))
			b.WriteString(`</a> <a href="`)
			b.WriteString(html.EscapeString(e.URL + "/export.pdf"))
			b.WriteString(`">pdf</a></li>` + "\n")
		}
		b.WriteString("</ul>\n")
	}
	b.WriteString("</body></html>")
	return b.String()
}
