package view

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// ErrInternal marks a navigation entry that does not link into the document.
// It signals a logic defect, not a runtime failure.
var ErrInternal = errors.New("internal kpp error")

// Browsing context names used for redirected links.
const (
	InternalLinkView = "internalLinkView"
	ExternalLinkView = "externalLinkView"
	NewContext       = "_blank"
)

// Action is what a click on a classified link does.
type Action int

const (
	ActionDefault Action = iota
	ActionOpenNew
	ActionShowUnit
	ActionPrune
	ActionPopup
	ActionExternal
)

func (a Action) String() string {
	switch a {
	case ActionOpenNew:
		return "open-new"
	case ActionShowUnit:
		return "show-unit"
	case ActionPrune:
		return "prune"
	case ActionPopup:
		return "popup"
	case ActionExternal:
		return "external"
	}
	return "default"
}

// Redirect is the classification of one href.
type Redirect struct {
	Href   string
	Target string
	Action Action
	Unit   int
	Anchor string
}

// URLBuilder produces the hrefs a host uses for redirected links.
type URLBuilder interface {
	// Fragment is the document opened with #id selecting the scope.
	Fragment(id string) string
	// Unit switches the frame to unit i, optionally positioned at anchor.
	Unit(i int, anchor string) string
}

// DocumentURLs builds links relative to a single document URL.
type DocumentURLs struct {
	Base string
}

func (u DocumentURLs) Fragment(id string) string {
	return u.Base + "#" + strings.ReplaceAll(id, " ", "%20")
}

func (u DocumentURLs) Unit(i int, anchor string) string {
	v := url.Values{}
	v.Set("unit", strconv.Itoa(i))
	out := u.Base + "?" + v.Encode()
	if anchor != "" {
		out += "#" + anchor
	}
	return out
}

// Redirector classifies hrefs against a tree and a unit index, and rewrites
// anchors of a rendered document for the current pair.
type Redirector struct {
	tree           *Tree
	scope          NodeID
	unitKind       Kind
	units          map[NodeID]int
	active         Pair
	followHeadings bool
	popup          bool
	docURL         string
	plan           map[string]Redirect
}

// NewRedirector classifies links against slide units. Redirects fire in
// slide screen view.
func NewRedirector(t *Tree, units []Unit, docURL string) *Redirector {
	return newRedirector(t, t.Root(), units, KindSlide, SlideScreen, docURL, true, true)
}

// NewChapterRedirector classifies links against chapter units found below
// scope. Redirects fire in chapter screen view and keep the target as anchor.
func NewChapterRedirector(t *Tree, scope NodeID, units []Unit, docURL string) *Redirector {
	return newRedirector(t, scope, units, KindChapter, ChapterScreen, docURL, false, false)
}

// NewScopedRedirector classifies slide links whose targets are looked up
// below scope only.
func NewScopedRedirector(t *Tree, scope NodeID, units []Unit, docURL string) *Redirector {
	return newRedirector(t, scope, units, KindSlide, SlideScreen, docURL, true, false)
}

func newRedirector(t *Tree, scope NodeID, units []Unit, kind Kind, active Pair, docURL string, follow, popup bool) *Redirector {
	r := &Redirector{
		tree:           t,
		scope:          scope,
		unitKind:       kind,
		units:          make(map[NodeID]int, len(units)),
		active:         active,
		followHeadings: follow,
		popup:          popup,
		docURL:         docURL,
		plan:           make(map[string]Redirect),
	}
	for i, u := range units {
		r.units[u.Source] = i
	}
	return r
}

// Active is the pair in which redirects take effect.
func (r *Redirector) Active() Pair { return r.active }

// TargetID extracts the fragment id of an internal href. Internal hrefs are
// "#id" or the document URL followed by "#id", where id starts with a
// letter, digit or underscore.
func (r *Redirector) TargetID(href string) (string, bool) {
	return internalTarget(r.docURL, href)
}

func internalTarget(docURL, href string) (string, bool) {
	rest := strings.TrimSpace(href)
	if docURL != "" && strings.HasPrefix(rest, docURL) {
		rest = rest[len(docURL):]
	}
	if len(rest) < 2 || rest[0] != '#' || !idStart(rest[1]) {
		return "", false
	}
	return rest[1:], true
}

func idStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// Classify runs the four-case classification for href. inNav marks anchors
// of the frame navigation bar, whose dead links are pruned.
func (r *Redirector) Classify(href string, inNav bool) Redirect {
	id, internal := r.TargetID(href)
	if !internal {
		return Redirect{Href: href, Action: ActionExternal, Unit: -1}
	}
	out := Redirect{Href: href, Target: id, Unit: -1}
	target := r.tree.FindByID(r.scope, id)
	if target == NoNode {
		out.Action = ActionOpenNew
		return out
	}
	if unit := r.tree.NearestAncestor(target, func(n *Node) bool { return n.Kind == r.unitKind }); unit != NoNode {
		if i, ok := r.units[unit]; ok {
			out.Action = ActionShowUnit
			out.Unit = i
			if r.unitKind == KindChapter {
				out.Anchor = id
			}
			return out
		}
	}
	if r.followHeadings {
		if level := r.tree.Node(target).Heading; level > 0 {
			next := r.tree.NextUnitOrHeading(target, level)
			if next != NoNode && r.tree.IsUnit(next) {
				if i, ok := r.units[next]; ok {
					out.Action = ActionShowUnit
					out.Unit = i
					return out
				}
			}
		}
	}
	switch {
	case inNav:
		out.Action = ActionPrune
	case r.popup:
		out.Action = ActionPopup
	default:
		out.Action = ActionDefault
	}
	return out
}

// Plan classifies every anchor below root once and caches the result.
func (r *Redirector) Plan(root *html.Node) {
	for _, a := range findAll(root, isAnchor) {
		href := getAttr(a, "href")
		if href == "" {
			continue
		}
		if _, done := r.plan[href]; !done {
			r.plan[href] = r.Classify(href, false)
		}
	}
}

// Lookup returns the cached classification of href, classifying on a miss.
func (r *Redirector) Lookup(href string) Redirect {
	if red, ok := r.plan[href]; ok {
		return red
	}
	red := r.Classify(href, false)
	r.plan[href] = red
	return red
}

// PruneNavigation removes navigation entries that can never resolve to a
// unit. An entry that is not an internal link breaks the navigation
// invariant: it is dropped too and the first such entry is reported as
// ErrInternal alongside the pruned list.
func (r *Redirector) PruneNavigation(entries []*Entry) ([]*Entry, error) {
	var bad error
	kept := Prune(entries, func(e *Entry) bool {
		href := "#" + e.Target
		if _, ok := r.TargetID(href); !ok {
			if bad == nil {
				bad = fmt.Errorf("%w: navigation entry %q has no internal target", ErrInternal, e.Text())
			}
			return false
		}
		return r.Classify(href, true).Action != ActionPrune
	})
	return kept, bad
}

// Resolve turns a classification into the href and browsing context for pair p.
func (r *Redirector) Resolve(red Redirect, p Pair, urls URLBuilder) (href, target string) {
	switch red.Action {
	case ActionOpenNew:
		return urls.Fragment(red.Target), NewContext
	case ActionShowUnit:
		if p == r.active {
			return urls.Unit(red.Unit, red.Anchor), ""
		}
	case ActionPopup:
		if p == r.active {
			return urls.Fragment(red.Target), InternalLinkView
		}
	case ActionExternal:
		if p == r.active {
			return red.Href, ExternalLinkView
		}
	}
	return red.Href, ""
}

// Rewrite applies Resolve to every anchor below root.
func (r *Redirector) Rewrite(root *html.Node, p Pair, urls URLBuilder) {
	for _, a := range findAll(root, isAnchor) {
		href := getAttr(a, "href")
		if href == "" {
			continue
		}
		newHref, target := r.Resolve(r.Lookup(href), p, urls)
		setAttr(a, "href", newHref)
		if target != "" {
			setAttr(a, "target", target)
		}
	}
}
