package view

import (
	"io"
	"strings"

	"golang.org/x/net/html"
)

// Snapshot copies the document for output in the active pair: navigation
// bar offsets are applied and anchors are rewritten through urls.
func (v *Viewer) Snapshot(urls URLBuilder) *html.Node {
	d := v.doc
	if urls == nil {
		urls = DocumentURLs{Base: d.URL}
	}
	for _, c := range []*chrome{d.slides, d.chapters} {
		if c != nil {
			c.navBar.apply(c.bar, c.left, c.right)
		}
	}
	out := cloneNode(d.Root)
	body := byTag(out, "body")
	if body == nil || d.links == nil {
		return out
	}
	p := v.Pair()
	if d.Class != ClassMonograph || d.slides == nil {
		d.links.Rewrite(body, p, urls)
		return out
	}
	// Monograph slide shows resolve against their chapter, the rest of the
	// book against the chapter index.
	frame := byID(body, "slideFrame")
	if frame == nil || frame.Parent == nil {
		d.links.Rewrite(body, p, urls)
		return out
	}
	parent, next := frame.Parent, frame.NextSibling
	parent.RemoveChild(frame)
	d.links.Rewrite(body, p, urls)
	d.slides.links.Rewrite(frame, p, urls)
	parent.InsertBefore(frame, next)
	return out
}

// Render writes the document for the active pair.
func (v *Viewer) Render(w io.Writer, urls URLBuilder) error {
	return html.Render(w, v.Snapshot(urls))
}

var blockTags = map[string]bool{
	"p": true, "div": true, "li": true, "ul": true, "ol": true, "table": true,
	"tr": true, "pre": true, "br": true, "hr": true, "blockquote": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
}

// PlainText flattens markup into lines of text, one per block element.
// Preformatted text keeps its line breaks.
func PlainText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node, bool)
	walk = func(n *html.Node, pre bool) {
		switch n.Type {
		case html.TextNode:
			if pre {
				b.WriteString(n.Data)
				return
			}
			if text := collapse(n.Data); text != "" {
				if b.Len() > 0 && !strings.HasSuffix(b.String(), "\n") {
					b.WriteByte(' ')
				}
				b.WriteString(text)
			}
			return
		case html.ElementNode:
			switch n.Data {
			case "script", "style", "head":
				return
			case "pre":
				pre = true
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c, pre)
		}
		if n.Type == html.ElementNode && blockTags[n.Data] && b.Len() > 0 && !strings.HasSuffix(b.String(), "\n") {
			b.WriteByte('\n')
		}
	}
	if n != nil {
		walk(n, false)
	}
	lines := strings.Split(b.String(), "\n")
	out := lines[:0]
	for _, l := range lines {
		l = strings.TrimRight(l, " \t")
		if l == "" && (len(out) == 0 || out[len(out)-1] == "") {
			continue
		}
		out = append(out, l)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}
