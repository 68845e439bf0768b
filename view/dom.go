package view

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

func getAttr(n *html.Node, name string) string {
	if n == nil {
		return ""
	}
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, name) {
			return a.Val
		}
	}
	return ""
}

func setAttr(n *html.Node, name, val string) {
	for i := range n.Attr {
		if strings.EqualFold(n.Attr[i].Key, name) {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: name, Val: val})
}

func removeAttr(n *html.Node, name string) {
	out := n.Attr[:0]
	for _, a := range n.Attr {
		if !strings.EqualFold(a.Key, name) {
			out = append(out, a)
		}
	}
	n.Attr = out
}

func hasClass(n *html.Node, want string) bool {
	if n == nil || n.Type != html.ElementNode {
		return false
	}
	for _, c := range strings.Fields(getAttr(n, "class")) {
		if c == want {
			return true
		}
	}
	return false
}

// element builds a detached element; attrs are key/value pairs.
func element(tag string, attrs ...string) *html.Node {
	n := &html.Node{Type: html.ElementNode, Data: tag, DataAtom: atom.Lookup([]byte(tag))}
	for i := 0; i+1 < len(attrs); i += 2 {
		n.Attr = append(n.Attr, html.Attribute{Key: attrs[i], Val: attrs[i+1]})
	}
	return n
}

func textNode(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

// cloneNode deep-copies n. The copy is detached.
func cloneNode(n *html.Node) *html.Node {
	if n == nil {
		return nil
	}
	c := &html.Node{
		Type:      n.Type,
		DataAtom:  n.DataAtom,
		Data:      n.Data,
		Namespace: n.Namespace,
		Attr:      append([]html.Attribute(nil), n.Attr...),
	}
	for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
		c.AppendChild(cloneNode(ch))
	}
	return c
}

// cloneChildren deep-copies the children of n.
func cloneChildren(n *html.Node) []*html.Node {
	if n == nil {
		return nil
	}
	var out []*html.Node
	for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
		out = append(out, cloneNode(ch))
	}
	return out
}

func appendClones(dst, src *html.Node) {
	for _, c := range cloneChildren(src) {
		dst.AppendChild(c)
	}
}

func detach(n *html.Node) {
	if n != nil && n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
}

func appendChild(parent, child *html.Node) {
	detach(child)
	parent.AppendChild(child)
}

func prependChild(parent, child *html.Node) {
	detach(child)
	parent.InsertBefore(child, parent.FirstChild)
}

func insertAfter(ref, child *html.Node) {
	detach(child)
	ref.Parent.InsertBefore(child, ref.NextSibling)
}

func removeChildren(n *html.Node) {
	for n.FirstChild != nil {
		n.RemoveChild(n.FirstChild)
	}
}

func setText(n *html.Node, s string) {
	removeChildren(n)
	n.AppendChild(textNode(s))
}

func textContent(n *html.Node) string {
	if n == nil {
		return ""
	}
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

// findElement returns the first element below n (n included) accepted by match.
func findElement(n *html.Node, match func(*html.Node) bool) *html.Node {
	if n == nil {
		return nil
	}
	if n.Type == html.ElementNode && match(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if hit := findElement(c, match); hit != nil {
			return hit
		}
	}
	return nil
}

func findAll(n *html.Node, match func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && match(n) {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	if n != nil {
		walk(n)
	}
	return out
}

func byID(root *html.Node, id string) *html.Node {
	if id == "" {
		return nil
	}
	return findElement(root, func(n *html.Node) bool { return getAttr(n, "id") == id })
}

func byTag(root *html.Node, tag string) *html.Node {
	return findElement(root, func(n *html.Node) bool { return strings.EqualFold(n.Data, tag) })
}

func byClass(root *html.Node, class string) *html.Node {
	return findElement(root, func(n *html.Node) bool { return hasClass(n, class) })
}

func isAnchor(n *html.Node) bool {
	return n.Type == html.ElementNode && strings.EqualFold(n.Data, "a")
}

func isElement(n *html.Node, tag string) bool {
	return n != nil && n.Type == html.ElementNode && strings.EqualFold(n.Data, tag)
}

// setStyle merges a single declaration into the inline style attribute.
func setStyle(n *html.Node, prop, val string) {
	decls := strings.Split(getAttr(n, "style"), ";")
	out := make([]string, 0, len(decls)+1)
	replaced := false
	for _, d := range decls {
		d = strings.TrimSpace(d)
		if d == "" {
			continue
		}
		name, _, _ := strings.Cut(d, ":")
		if strings.EqualFold(strings.TrimSpace(name), prop) {
			if !replaced {
				out = append(out, prop+":"+val)
				replaced = true
			}
			continue
		}
		out = append(out, d)
	}
	if !replaced {
		out = append(out, prop+":"+val)
	}
	setAttr(n, "style", strings.Join(out, ";"))
}

func styleValue(n *html.Node, prop string) string {
	for _, d := range strings.Split(getAttr(n, "style"), ";") {
		name, val, ok := strings.Cut(d, ":")
		if ok && strings.EqualFold(strings.TrimSpace(name), prop) {
			return strings.TrimSpace(val)
		}
	}
	return ""
}
