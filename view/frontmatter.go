package view

import (
	"golang.org/x/net/html"
)

// frontMatter holds the bibliographic elements the upstream processor emits.
// Any of them may be missing.
type frontMatter struct {
	block          *html.Node
	title          *html.Node
	authors        *html.Node
	date           *html.Node
	unionBugs      *html.Node
	classification *html.Node
	coverArt       *html.Node
	abstract       *html.Node
	thanks         *html.Node
	dedication     *html.Node
	preface        *html.Node
}

func collectFrontMatter(root *html.Node) *frontMatter {
	return &frontMatter{
		block:          byID(root, "frontMatter"),
		title:          byID(root, "documentTitle"),
		authors:        byID(root, "authorList"),
		date:           byID(root, "documentDate"),
		unionBugs:      byID(root, "unionBugs"),
		classification: byID(root, "classification"),
		coverArt:       byID(root, "coverArt"),
		abstract:       byID(root, "documentAbstract"),
		thanks:         byID(root, "documentThanks"),
		dedication:     byID(root, "documentDedication"),
		preface:        byID(root, "documentPreface"),
	}
}

// copyOf builds tag#id (or tag.class when id is empty) holding clones of the
// children of src. A nil src yields an empty element.
func copyOf(tag, id, class string, src *html.Node) *html.Node {
	var n *html.Node
	switch {
	case id != "":
		n = element(tag, "id", id)
	case class != "":
		n = element(tag, "class", class)
	default:
		n = element(tag)
	}
	if src != nil {
		appendClones(n, src)
	}
	return n
}

// bibliography builds the footer block shared by every frame:
//
//	<prefix>BibliographicInformation > <prefix>Title, <prefix>AuthorList, <prefix>Date
//	<prefix>UnionBugs
//	<prefix>Classification
//
// lead, when non-nil, becomes the first child of the bibliographic block.
func (fm *frontMatter) bibliography(footer *html.Node, prefix string, lead *html.Node) {
	info := element("div", "id", prefix+"BibliographicInformation")
	if lead != nil {
		info.AppendChild(lead)
	}
	info.AppendChild(copyOf("span", prefix+"Title", "", fm.title))
	info.AppendChild(copyOf("span", prefix+"AuthorList", "", fm.authors))
	info.AppendChild(copyOf("span", prefix+"Date", "", fm.date))
	footer.AppendChild(info)
	footer.AppendChild(copyOf("div", prefix+"UnionBugs", "", fm.unionBugs))
	footer.AppendChild(copyOf("div", prefix+"Classification", "", fm.classification))
}

// footer builds div#id filled with the bibliographic block.
func (fm *frontMatter) footer(id, prefix string) *html.Node {
	f := element("div", "id", id)
	fm.bibliography(f, prefix, nil)
	return f
}

// articleTitleSlide builds #titleSlide > div.slide with the title, author
// list, union bugs and date. suffix is appended to the title.
func (fm *frontMatter) articleTitleSlide(suffix string) *html.Node {
	wrap := element("div", "id", "titleSlide")
	slide := element("div", "class", "slide")
	title := copyOf("p", "titleSlideTitle", "", fm.title)
	if suffix != "" {
		title.AppendChild(textNode(suffix))
	}
	slide.AppendChild(title)
	slide.AppendChild(copyOf("p", "titleSlideAuthorList", "", fm.authors))
	slide.AppendChild(copyOf("div", "titleSlideUnionBugs", "", fm.unionBugs))
	slide.AppendChild(copyOf("p", "titleSlideDate", "", fm.date))
	wrap.AppendChild(slide)
	return wrap
}

// monographTitleSlide builds the per-chapter title slide. heading is the
// chapter's h2, or nil for the front matter chapter.
func (fm *frontMatter) monographTitleSlide(heading *html.Node) *html.Node {
	wrap := element("div", "class", "excludefromtext")
	holder := element("div", "class", "titleSlide")
	slide := element("div", "class", "slide")
	slide.AppendChild(copyOf("p", "", "titleSlideTitle", fm.title))
	if fm.coverArt != nil {
		art := cloneNode(fm.coverArt)
		removeAttr(art, "id")
		setAttr(art, "class", "titleSlideCoverArt")
		slide.AppendChild(art)
	}
	slide.AppendChild(copyOf("p", "", "titleSlideAuthorList", fm.authors))
	if heading != nil {
		chapter := copyOf("span", "titleSlideChapterTitle", "", heading)
		if class := getAttr(heading, "class"); class != "" {
			setAttr(chapter, "class", class)
		}
		slide.AppendChild(chapter)
	}
	holder.AppendChild(slide)
	wrap.AppendChild(holder)
	return wrap
}

// beautify centers an "Abstract" caption above the abstract and separates
// the acknowledgments with a rule.
func (fm *frontMatter) beautify() {
	if fm.abstract != nil && fm.abstract.Parent != nil {
		caption := element("p", "style", "text-align:center")
		caption.AppendChild(textNode("Abstract"))
		fm.abstract.Parent.InsertBefore(caption, fm.abstract)
	}
	if fm.thanks != nil && fm.thanks.Parent != nil {
		rule := element("hr", "style", "border-color:black;width:90%")
		if fm.abstract != nil {
			setStyle(rule, "margin-top", "1em")
		}
		fm.thanks.Parent.InsertBefore(rule, fm.thanks)
	}
}

// hide keeps the front matter out of sub-document views.
func (fm *frontMatter) hide() {
	if fm.block != nil {
		setStyle(fm.block, "display", "none")
	}
}

// titleText is the plain document title.
func (fm *frontMatter) titleText() string {
	return collapse(textContent(fm.title))
}
