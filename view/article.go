package view

import (
	"golang.org/x/net/html"
)

const articleSlidePrefix = "_kppSlide"

func (d *Document) assembleArticle(fragment string) error {
	scan := NewTree(d.Root)
	chosen := d.selectBox(scan, fragment)
	if chosen != NoNode {
		d.Scope = ScopeBox
	} else if chosen = selectAppendix(scan, fragment); chosen != NoNode {
		d.Scope = ScopeAppendix
	}

	var scope *html.Node
	var appendices []*html.Node
	switch d.Scope {
	case ScopeBox:
		scope = scan.HTML(chosen)
		d.extract(scope)
		d.setTitle(textContent(byClass(scope, "caption")))
	case ScopeAppendix:
		scope = scan.HTML(chosen)
		d.extract(scope)
		d.setTitle(textContent(byClass(scope, "sectionName")))
	default:
		scope = d.Body
		d.TOC = d.mainContents(scan)
		for _, box := range scan.OfKind(scan.Root(), KindBox) {
			detach(scan.HTML(box))
		}
		for _, sec := range appendixSections(scan) {
			n := scan.HTML(sec)
			detach(n)
			appendices = append(appendices, n)
		}
	}

	d.Body.AppendChild(d.front.footer("articleFooter", "articleFooter"))

	switch d.Scope {
	case ScopeMain:
		if d.TOC != nil {
			d.insertContents(tableOfContentsBlock(d.TOC))
		}
		prependChild(d.Body, d.front.articleTitleSlide(""))
		d.front.beautify()
	case ScopeAppendix:
		d.appendixContents(scope)
		prependChild(d.Body, d.front.articleTitleSlide(": "+collapse(textContent(byClass(scope, "sectionName")))))
		for _, h := range findAll(scope, isAppendixHeading) {
			letterFirst(h, "sectionNumber")
		}
		appendices = []*html.Node{scope}
	}
	if d.Scope != ScopeMain {
		d.front.hide()
		setStyle(scope, "margin-bottom", "10em")
	}
	d.letterAppendixReferences(appendices)

	d.Tree = NewTree(d.Root)
	units := EnumerateUnits(d.Tree, d.Tree.Root(), KindSlide, articleSlidePrefix)

	level := LevelSection
	if d.Scope == ScopeAppendix {
		level = LevelSubsection
	}
	d.ScopeID = getAttr(scope, "id")
	nav := BuildNavigation(d.Tree, d.Tree.Lookup(scope), level)

	d.links = NewRedirector(d.Tree, units, d.URL)
	nav, err := d.links.PruneNavigation(nav)
	if err != nil {
		d.Alerts = append(d.Alerts, err)
	}
	c := d.slideChrome(nav, true, nil)
	c.links = d.links
	c.frame = NewFrame(d.Tree, units, c.slideParts(), nav, HighlightPreceding)
	d.slides = c
	d.links.Plan(d.Body)
	return nil
}

// extract replaces the main flow of the body with the sub-document n.
func (d *Document) extract(n *html.Node) {
	detach(d.bodyPages)
	detach(byID(d.Root, "onlyCode"))
	appendChild(d.Body, n)
}

func selectAppendix(t *Tree, id string) NodeID {
	if id == "" {
		return NoNode
	}
	for _, sec := range appendixSections(t) {
		if t.FindByID(sec, id) != NoNode {
			return sec
		}
	}
	return NoNode
}

func appendixSections(t *Tree) []NodeID {
	var out []NodeID
	for _, sec := range t.OfKind(t.Root(), KindSection) {
		if t.Node(sec).Appendix {
			out = append(out, sec)
		}
	}
	return out
}

// mainContents lists the sections of bodyPages followed by the appendices.
// Sections inside boxes are left out.
func (d *Document) mainContents(t *Tree) []*Entry {
	root := t.Lookup(d.bodyPages)
	if root == NoNode {
		root = t.Lookup(d.Body)
	}
	all := TableOfContents(t, root, LevelSection)
	inBox := func(e *Entry) bool {
		return t.NearestAncestor(e.Source, func(n *Node) bool { return n.Kind == KindBox }) != NoNode
	}
	var body, appendix []*Entry
	for _, e := range all {
		switch {
		case inBox(e):
		case t.Node(e.Source).Appendix:
			appendix = append(appendix, e)
		default:
			body = append(body, e)
		}
	}
	return Concat(body, appendix)
}

// insertContents places the table of contents after the front matter.
func (d *Document) insertContents(block *html.Node) {
	switch {
	case d.front.block != nil && d.front.block.Parent != nil:
		insertAfter(d.front.block, block)
	case d.bodyPages != nil && d.bodyPages.Parent != nil:
		d.bodyPages.Parent.InsertBefore(block, d.bodyPages)
	default:
		prependChild(d.Body, block)
	}
}

// appendixContents lists the appendix's subsections after its heading.
func (d *Document) appendixContents(appendix *html.Node) {
	t := NewTree(appendix)
	d.TOC = TableOfContents(t, t.Root(), LevelSubsection)
	if d.TOC == nil {
		return
	}
	block := tableOfContentsBlock(d.TOC)
	if h := byTag(appendix, "h3"); h != nil && h.Parent != nil {
		insertAfter(h, block)
		return
	}
	prependChild(appendix, block)
}

func isAppendixHeading(n *html.Node) bool {
	switch headingLevel(n.Data) {
	case 3, 4, 5:
		return true
	}
	return false
}

// letterAppendixReferences letters the section number of every anchor whose
// target lies inside one of the appendices.
func (d *Document) letterAppendixReferences(appendices []*html.Node) {
	if len(appendices) == 0 {
		return
	}
	for _, a := range findAll(d.Root, isAnchor) {
		id, ok := internalTarget(d.URL, getAttr(a, "href"))
		if !ok {
			continue
		}
		for _, app := range appendices {
			if holds(app, id) {
				letterFirst(a, "sectionNumber")
				break
			}
		}
	}
}

// holds reports whether a descendant of root, root excluded, has the id.
func holds(root *html.Node, id string) bool {
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if byID(c, id) != nil {
			return true
		}
	}
	return false
}
