package view

import (
	"strings"

	"golang.org/x/net/html"
)

const (
	chapterPrefix        = "_comppChapter"
	monographSlidePrefix = "_comppSlide"

	frontmatterHeadingID = "_comppFrontmatter"
	codelistHeadingID    = "_comppCodelist"
)

func (d *Document) assembleMonograph(fragment string) error {
	letterAppendixChapters(d.Root)

	scan := NewTree(d.Root)
	if box := d.selectBox(scan, fragment); box != NoNode {
		n := scan.HTML(box)
		d.Scope = ScopeBox
		d.ScopeID = getAttr(n, "id")
		d.extract(n)
		d.Body.AppendChild(d.front.footer("footer", "footer"))
		d.setTitle(boxCaption(n))
		d.Tree = NewTree(d.Root)
		return nil
	}
	for _, box := range scan.OfKind(scan.Root(), KindBox) {
		detach(scan.HTML(box))
	}
	if d.bodyPages == nil {
		d.bodyPages = wrapBodyPages(d.Body)
	}

	d.codelistChapter()
	d.frontmatterChapter()

	d.Tree = NewTree(d.Root)
	pages := d.Tree.Lookup(d.bodyPages)
	chapters := EnumerateUnits(d.Tree, pages, KindChapter, chapterPrefix)
	nav := BuildNavigation(d.Tree, pages, LevelChapter)

	c := d.chapterChrome(nav)
	d.links = NewChapterRedirector(d.Tree, pages, chapters, d.URL)
	c.links = d.links
	c.frame = NewFrame(d.Tree, chapters, FrameParts{
		Slot:   c.root,
		Before: byID(c.root, "footer"),
		Bar:    c.bar,
	}, nav, HighlightOwnHeading)
	d.chapters = c
	d.links.Plan(d.Body)
	c.frame.Show(0)
	return d.buildSlideShow(0)
}

// wrapBodyPages moves the chapters of a body without div#bodyPages into a
// new one. The front matter and the code listing stay outside, so the
// chapter frame prepended to the body is never enumerated as a chapter.
func wrapBodyPages(body *html.Node) *html.Node {
	pages := element("div", "id", "bodyPages")
	var first *html.Node
	for c := body.FirstChild; c != nil; {
		next := c.NextSibling
		switch id := getAttr(c, "id"); {
		case c.Type == html.ElementNode && (id == "frontMatter" || id == "onlyCode"):
		case first == nil && c.Type != html.ElementNode:
		default:
			if first == nil {
				first = c
				body.InsertBefore(pages, c)
			}
			body.RemoveChild(c)
			pages.AppendChild(c)
		}
		c = next
	}
	if first == nil {
		body.AppendChild(pages)
	}
	return pages
}

// letterAppendixChapters letters the chapter numbers of appendix headings
// and of the anchors that reference appendices.
func letterAppendixChapters(root *html.Node) {
	for _, n := range findAll(root, func(n *html.Node) bool {
		if isAnchor(n) {
			return hasClass(n, "appendixref")
		}
		return headingLevel(strings.ToLower(n.Data)) > 0 && strings.HasSuffix(getAttr(n, "class"), "Appendix")
	}) {
		for _, num := range findAll(n, func(c *html.Node) bool { return hasClass(c, "chapterNumber") }) {
			setText(num, appendixNumber(textContent(num)))
		}
	}
}

// boxCaption is the caption text with a period between the chapter and the
// float number.
func boxCaption(box *html.Node) string {
	caption := byClass(box, "caption")
	if caption == nil {
		return ""
	}
	c := cloneNode(caption)
	if num := byClass(c, "floatNumber"); num != nil && num.Parent != nil {
		num.Parent.InsertBefore(textNode("."), num)
	}
	return textContent(c)
}

func generatedChapter(id, headingID, headingClass, name string) *html.Node {
	ch := element("div", "id", id, "class", "chapter")
	h := element("h2", "id", headingID, "class", headingClass)
	span := element("span", "class", "sectionName")
	span.AppendChild(textNode(name))
	h.AppendChild(span)
	ch.AppendChild(h)
	return ch
}

// codelistChapter gathers the code-only listing into a closing chapter.
func (d *Document) codelistChapter() {
	ch := generatedChapter("codelist", codelistHeadingID, "chapterAppendix", "Code Listing")
	if code := byID(d.Root, "onlyCode"); code != nil {
		appendChild(ch, code)
	}
	d.bodyPages.AppendChild(ch)
}

// frontmatterChapter opens the book with the cover page, the table of
// contents, the dedication and the preface.
func (d *Document) frontmatterChapter() {
	ch := generatedChapter("frontmatterChapter", frontmatterHeadingID, "chapter", "Front Matter")
	prependChild(d.bodyPages, ch)

	cover := element("div", "id", "coverPage")
	cover.AppendChild(copyOf("p", "coverPageTitle", "", d.front.title))
	if d.front.coverArt != nil {
		appendChild(cover, d.front.coverArt)
	}
	cover.AppendChild(copyOf("p", "coverPageAuthorList", "", d.front.authors))
	ch.AppendChild(cover)

	t := NewTree(d.bodyPages)
	if toc := TableOfContents(t, t.Root(), LevelChapter); authoredChapters(toc) > 0 {
		d.TOC = toc
		ch.AppendChild(tableOfContentsBlock(toc))
	}
	if d.front.dedication != nil {
		appendChild(ch, d.front.dedication)
	}
	if d.front.preface != nil {
		appendChild(ch, d.front.preface)
	}
}

func authoredChapters(entries []*Entry) int {
	n := 0
	for _, e := range entries {
		if e.Target != frontmatterHeadingID && e.Target != codelistHeadingID {
			n++
		}
	}
	return n
}

func (d *Document) chapterChrome(nav []*Entry) *chrome {
	c := &chrome{root: element("div", "id", "chapterFrame"), nav: nav}
	header := element("div", "id", "chapterHeader")
	c.bar = element("div", "id", "chapterNavigationBar")
	c.left = element("span", "id", "chapterNavigationLeftControlAnchor")
	c.right = element("span", "id", "chapterNavigationRightControlAnchor")
	c.bar.AppendChild(c.left)
	c.bar.AppendChild(RenderList(nav))
	c.bar.AppendChild(c.right)
	header.AppendChild(c.bar)
	c.root.AppendChild(header)
	c.root.AppendChild(d.front.footer("footer", "footer"))
	prependChild(d.Body, c.root)
	return c
}

// ensureSlideShow rebuilds the slide show when the chapter shown in the
// chapter frame differs from the one the show was built for.
func (d *Document) ensureSlideShow() error {
	if d.chapters == nil {
		return nil
	}
	if i := d.chapters.frame.Index(); i != d.showChapter {
		return d.buildSlideShow(i)
	}
	return nil
}

// buildSlideShow replaces the current slide show with one for chapter i:
// a title slide is inserted into the chapter, the chapter's slides are
// enumerated and a fresh slide frame is placed at the top of the body.
// A broken navigation entry is dropped and returned as ErrInternal once the
// show is complete.
func (d *Document) buildSlideShow(i int) error {
	cf := d.chapters.frame
	if i < 0 || i >= cf.Count() {
		return nil
	}
	if d.titleSlide != nil {
		detach(d.titleSlide)
		d.titleSlide = nil
	}
	if d.slides != nil {
		d.slides.frame.Hide()
		detach(d.slides.root)
		d.slides = nil
	}

	chapter := d.Tree.HTML(cf.Units()[i].Source)
	var heading *html.Node
	if i > 0 {
		heading = byTag(chapter, "h2")
	}
	d.titleSlide = d.front.monographTitleSlide(heading)
	prependChild(chapter, d.titleSlide)

	d.Tree = NewTree(d.Root)
	pages := d.Tree.Lookup(d.bodyPages)
	chapters := EnumerateUnits(d.Tree, pages, KindChapter, chapterPrefix)
	cf.Rebind(d.Tree, chapters)
	d.links = NewChapterRedirector(d.Tree, pages, chapters, d.URL)
	d.chapters.links = d.links
	d.links.Plan(d.Body)

	source := chapters[i].Source
	slides := EnumerateUnits(d.Tree, source, KindSlide, monographSlidePrefix)
	links := NewScopedRedirector(d.Tree, source, slides, d.URL)
	var nav []*Entry
	var lead *html.Node
	var alert error
	if i > 0 {
		nav, alert = links.PruneNavigation(BuildNavigation(d.Tree, source, LevelSection))
		if heading != nil {
			lead = copyOf("span", "slideFooterChapterTitle", "", heading)
			if class := getAttr(heading, "class"); class != "" {
				setAttr(lead, "class", class)
			}
		}
	}
	c := d.slideChrome(nav, i > 0, lead)
	c.links = links
	c.frame = NewFrame(d.Tree, slides, c.slideParts(), nav, HighlightPreceding)
	docURL := d.URL
	c.frame.prepare = func(n *html.Node) {
		setAttr(n, "class", "slide")
		unwrapInternalLinks(n, docURL)
	}
	d.slides = c
	d.showChapter = i
	return alert
}

// unwrapInternalLinks replaces every internal anchor below n with its
// content. Slides shown out of their chapter cannot follow them.
func unwrapInternalLinks(n *html.Node, docURL string) {
	for _, a := range findAll(n, isAnchor) {
		if a == n || a.Parent == nil {
			continue
		}
		if _, ok := internalTarget(docURL, getAttr(a, "href")); !ok {
			continue
		}
		for a.FirstChild != nil {
			c := a.FirstChild
			a.RemoveChild(c)
			a.Parent.InsertBefore(c, a)
		}
		a.Parent.RemoveChild(a)
	}
}
