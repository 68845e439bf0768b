package view

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

var (
	ErrNoBody = errors.New("document has no body")
	ErrNoHead = errors.New("document has no head")
)

// Scope is the part of the document a load presents.
type Scope int

const (
	ScopeMain Scope = iota
	ScopeBox
	ScopeAppendix
)

func (s Scope) String() string {
	switch s {
	case ScopeBox:
		return "box"
	case ScopeAppendix:
		return "appendix"
	}
	return "main"
}

// Options control one assembly.
type Options struct {
	// Class forces the document class; ClassAuto detects it.
	Class Class
	// Fragment is the URL fragment naming a box or appendix, with or
	// without the leading '#'.
	Fragment string
	// URL is the document's own address, used to recognize internal links.
	URL string
}

// chrome is a frame together with the markup it lives in.
type chrome struct {
	root   *html.Node
	bar    *html.Node
	left   *html.Node
	right  *html.Node
	nav    []*Entry
	frame  *Frame
	links  *Redirector
	navBar NavBar
}

// Document is an assembled document ready for a Viewer.
type Document struct {
	Class   Class
	Scope   Scope
	ScopeID string
	Title   string
	URL     string

	Root *html.Node
	Head *html.Node
	Body *html.Node

	Tree   *Tree
	Styles *StyleSet
	TOC    []*Entry

	// Alerts holds the ErrInternal failures met while assembling. The
	// offending navigation entries are dropped and the document still loads.
	Alerts []error

	front     *frontMatter
	bodyPages *html.Node

	// links plans every anchor of the main flow: slides for articles and
	// chapters for monographs.
	links    *Redirector
	slides   *chrome
	chapters *chrome

	showChapter int
	titleSlide  *html.Node
}

// Parse reads an HTML document and assembles it.
func Parse(r io.Reader, opts Options) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return Assemble(root, opts)
}

// Assemble restructures a parsed document for presentation: it selects the
// scope named by the fragment, builds the tables of contents, frames and
// link plan, and collects the role-tagged style sheets.
func Assemble(root *html.Node, opts Options) (*Document, error) {
	head := byTag(root, "head")
	if head == nil {
		return nil, ErrNoHead
	}
	body := byTag(root, "body")
	if body == nil {
		return nil, ErrNoBody
	}
	class := opts.Class
	if class == ClassAuto {
		class = DetectClass(root)
	}
	doc := &Document{
		Class:       class,
		URL:         opts.URL,
		Root:        root,
		Head:        head,
		Body:        body,
		Styles:      CollectStyles(head),
		front:       collectFrontMatter(root),
		bodyPages:   byID(root, "bodyPages"),
		showChapter: -1,
	}
	doc.Title = collapse(textContent(byTag(head, "title")))
	if doc.Title == "" {
		doc.Title = doc.front.titleText()
	}

	fragment := DecodeFragment(opts.Fragment)
	var err error
	if class == ClassMonograph {
		err = doc.assembleMonograph(fragment)
	} else {
		err = doc.assembleArticle(fragment)
	}
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// DecodeFragment strips the leading '#' and decodes %20 to a space.
func DecodeFragment(s string) string {
	return strings.ReplaceAll(strings.TrimPrefix(s, "#"), "%20", " ")
}

var chapterDivision = cascadia.MustCompile("div.chapter")

// DetectClass reports ClassMonograph for documents divided into chapters.
func DetectClass(root *html.Node) Class {
	if cascadia.Query(root, chapterDivision) != nil {
		return ClassMonograph
	}
	return ClassArticle
}

// SlideFrame returns the slide frame, or nil when the document has none yet.
func (d *Document) SlideFrame() *Frame {
	if d.slides == nil {
		return nil
	}
	return d.slides.frame
}

// ChapterFrame returns the monograph chapter frame, or nil.
func (d *Document) ChapterFrame() *Frame {
	if d.chapters == nil {
		return nil
	}
	return d.chapters.frame
}

// SlideNavigation lists the entries of the slide navigation bar.
func (d *Document) SlideNavigation() []*Entry {
	if d.slides == nil {
		return nil
	}
	return d.slides.nav
}

// ChapterNavigation lists the entries of the chapter navigation bar.
func (d *Document) ChapterNavigation() []*Entry {
	if d.chapters == nil {
		return nil
	}
	return d.chapters.nav
}

// Links returns the redirector that planned the main flow's anchors.
func (d *Document) Links() *Redirector { return d.links }

func (d *Document) setTitle(title string) {
	title = collapse(title)
	d.Title = title
	t := byTag(d.Head, "title")
	if t == nil {
		t = element("title")
		d.Head.AppendChild(t)
	}
	setText(t, title)
}

// selectBox returns the box holding the element named id.
func (d *Document) selectBox(t *Tree, id string) NodeID {
	if id == "" {
		return NoNode
	}
	for _, box := range t.OfKind(t.Root(), KindBox) {
		if t.FindByID(box, id) != NoNode {
			return box
		}
	}
	return NoNode
}

// slideChrome builds div#slideFrame with its header and footer. lead is an
// optional first child of the footer's bibliographic block.
func (d *Document) slideChrome(nav []*Entry, withBar bool, lead *html.Node) *chrome {
	c := &chrome{root: element("div", "id", "slideFrame"), nav: nav}
	header := element("div", "id", "slideHeader")
	c.bar = element("div", "id", "slideNavigationBar")
	if withBar {
		c.left = element("span", "id", "slideNavigationLeftControlAnchor")
		c.right = element("span", "id", "slideNavigationRightControlAnchor")
		c.bar.AppendChild(c.left)
		c.bar.AppendChild(RenderList(nav))
		c.bar.AppendChild(c.right)
	}
	header.AppendChild(c.bar)
	c.root.AppendChild(header)

	footer := element("div", "id", "slideFooter")
	counter := element("div", "id", "slideCounter")
	footer.AppendChild(counter)
	d.front.bibliography(footer, "slideFooter", lead)
	c.root.AppendChild(footer)
	prependChild(d.Body, c.root)
	return c
}

// frameParts places slides before the footer of a slide chrome.
func (c *chrome) slideParts() FrameParts {
	footer := byID(c.root, "slideFooter")
	return FrameParts{
		Slot:    c.root,
		Before:  footer,
		Counter: byID(footer, "slideCounter"),
		Bar:     c.bar,
	}
}

// appendixNumber letters a section number: the leading integer n becomes
// the n-th capital letter and the rest is kept.
func appendixNumber(s string) string {
	lead := strings.TrimLeftFunc(s, unicode.IsSpace)
	prefix := s[:len(s)-len(lead)]
	end := 0
	for end < len(lead) && lead[end] >= '0' && lead[end] <= '9' {
		end++
	}
	if end == 0 {
		return s
	}
	n, err := strconv.Atoi(lead[:end])
	if err != nil || n < 1 || n > 26 {
		return s
	}
	return prefix + string(rune('A'+n-1)) + lead[end:]
}

// letterFirst letters the text of the first element below n with class.
func letterFirst(n *html.Node, class string) {
	hit := byClass(n, class)
	if hit == nil {
		return
	}
	setText(hit, appendixNumber(textContent(hit)))
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
