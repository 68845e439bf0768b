package view

import (
	"errors"
	"fmt"
	"strings"

	cssast "github.com/aymerick/douceur/css"
	"github.com/aymerick/douceur/parser"
	"golang.org/x/net/html"
)

// RoleCommon names the mode-independent style sheet.
const RoleCommon = "common"

// ErrPairNotAllowed is returned when a pair is outside the document class's set.
var ErrPairNotAllowed = errors.New("view pair not allowed for document class")

// Sheet is one role-tagged style element of the document head.
type Sheet struct {
	Role  string
	Node  *html.Node
	Rules int
	Err   error
}

// StyleSet holds the role-tagged sheets found in a document head.
type StyleSet struct {
	sheets map[string]*Sheet
	order  []string
}

// knownRole reports whether role names the common sheet or a pair's sheet.
func knownRole(role string) bool {
	if role == RoleCommon {
		return true
	}
	for _, p := range allPairs {
		if p.Role() == role {
			return true
		}
	}
	return false
}

// CollectStyles reads the comment-before-style convention: a comment node
// naming a known role tags the next element node as that role's sheet.
// Other comments are ignored.
func CollectStyles(head *html.Node) *StyleSet {
	set := &StyleSet{sheets: make(map[string]*Sheet)}
	if head == nil {
		return set
	}
	role := ""
	lookingForStyle := false
	for c := head.FirstChild; c != nil; c = c.NextSibling {
		switch {
		case !lookingForStyle && c.Type == html.CommentNode:
			role = strings.TrimSpace(c.Data)
			lookingForStyle = knownRole(role)
		case lookingForStyle && c.Type == html.ElementNode:
			lookingForStyle = false
			if _, dup := set.sheets[role]; !dup {
				set.order = append(set.order, role)
			}
			set.sheets[role] = inspectSheet(role, c)
		}
	}
	return set
}

func inspectSheet(role string, n *html.Node) *Sheet {
	s := &Sheet{Role: role, Node: n}
	if !isElement(n, "style") {
		return s
	}
	body := strings.TrimSpace(textContent(n))
	if body == "" {
		return s
	}
	sheet, err := parser.Parse(body)
	if err != nil {
		s.Err = fmt.Errorf("parse %s style: %w", role, err)
		return s
	}
	s.Rules = countRules(sheet.Rules)
	return s
}

func countRules(list []*cssast.Rule) int {
	total := 0
	for _, r := range list {
		if r == nil {
			continue
		}
		if r.Kind == cssast.QualifiedRule {
			total++
		}
		if r.EmbedsRules() {
			total += countRules(r.Rules)
		}
	}
	return total
}

// Sheet returns the sheet for role, or nil.
func (s *StyleSet) Sheet(role string) *Sheet {
	if s == nil {
		return nil
	}
	return s.sheets[role]
}

// Roles lists the roles in head order.
func (s *StyleSet) Roles() []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s.order...)
}

// StyleManager keeps exactly one mode-view sheet attached after the common one.
type StyleManager struct {
	head    *html.Node
	set     *StyleSet
	class   Class
	current Pair
}

// NewStyleManager detaches every mode-view sheet except the one for initial.
func NewStyleManager(head *html.Node, set *StyleSet, class Class, initial Pair) (*StyleManager, error) {
	if head == nil {
		return nil, ErrNoHead
	}
	if !class.Allows(initial) {
		return nil, fmt.Errorf("%w: %s", ErrPairNotAllowed, initial)
	}
	m := &StyleManager{head: head, set: set, class: class, current: initial}
	for _, role := range set.Roles() {
		if role == RoleCommon {
			continue
		}
		detach(set.Sheet(role).Node)
	}
	if common := set.Sheet(RoleCommon); common != nil && common.Node.Parent == nil {
		head.AppendChild(common.Node)
	}
	m.attach(initial)
	return m, nil
}

// Current returns the active pair.
func (m *StyleManager) Current() Pair { return m.current }

// Activate detaches the current sheet and appends the target's as the last
// child of head, so it always follows the common sheet.
func (m *StyleManager) Activate(p Pair) error {
	if !m.class.Allows(p) {
		return fmt.Errorf("%w: %s", ErrPairNotAllowed, p)
	}
	if p == m.current {
		return nil
	}
	if sheet := m.set.Sheet(m.current.Role()); sheet != nil {
		detach(sheet.Node)
	}
	m.attach(p)
	m.current = p
	return nil
}

func (m *StyleManager) attach(p Pair) {
	if sheet := m.set.Sheet(p.Role()); sheet != nil {
		appendChild(m.head, sheet.Node)
	}
}

// Attached lists the roles of the sheets currently in head, in order.
func (m *StyleManager) Attached() []string {
	byNode := make(map[*html.Node]string)
	for _, role := range m.set.Roles() {
		byNode[m.set.Sheet(role).Node] = role
	}
	var out []string
	for c := m.head.FirstChild; c != nil; c = c.NextSibling {
		if role, ok := byNode[c]; ok {
			out = append(out, role)
		}
	}
	return out
}
