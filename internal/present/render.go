package present

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"

	"kpp/view"
)

const navSeparator = "  "

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	activeStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("213"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

type navSegment struct {
	text   string
	active bool
}

func entryLabel(e *view.Entry) string {
	return strings.Join(strings.Fields(e.Text()), " ")
}

func navSegments(entries []*view.Entry, highlighted string) []navSegment {
	var out []navSegment
	view.WalkEntries(entries, func(e *view.Entry) {
		if len(out) > 0 {
			out = append(out, navSegment{text: navSeparator})
		}
		out = append(out, navSegment{text: entryLabel(e), active: e.Target == highlighted})
	})
	return out
}

func navText(entries []*view.Entry) string {
	var b strings.Builder
	for _, s := range navSegments(entries, "") {
		b.WriteString(s.text)
	}
	return b.String()
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	return strings.Join([]string{m.header(), m.navBar(), m.page(), m.footer()}, "\n")
}

func (m *Model) header() string {
	doc := m.viewer.Document()
	title := doc.Title
	if title == "" {
		title = "untitled"
	}
	return titleStyle.Render(title) + " " + dimStyle.Render("["+m.viewer.Pair().String()+"]")
}

// navBar renders the active navigation bar shifted by its scroll offset,
// with the scroll controls at the edges when it overflows.
func (m *Model) navBar() string {
	entries := m.viewer.Navigation()
	if len(entries) == 0 {
		return ""
	}
	highlighted := ""
	if f := m.viewer.Frame(); f != nil {
		highlighted = f.Highlighted()
	}
	bar := m.viewer.NavBar()
	skip := bar.Offset
	var b strings.Builder
	for _, seg := range navSegments(entries, highlighted) {
		runes := []rune(seg.text)
		if skip >= len(runes) {
			skip -= len(runes)
			continue
		}
		text := string(runes[skip:])
		skip = 0
		if seg.active {
			text = activeStyle.Render(text)
		}
		b.WriteString(text)
	}
	line := b.String()
	if !bar.ControlsVisible {
		return truncate.String(line, uint(m.width))
	}
	inner := m.width - 4
	if inner < 1 {
		inner = 1
	}
	return view.LeftControl + " " + truncate.String(line, uint(inner)) + " " + view.RightControl
}

func (m *Model) page() string {
	if m.help != "" {
		return formatHelp(m.help)
	}
	width := m.width
	if width < 20 {
		width = 20
	}
	text := wordwrap.String(view.PlainText(m.viewer.Page()), width)
	lines := strings.Split(text, "\n")
	h := m.pageHeight()
	if h == 0 || len(lines) <= h {
		m.scroll = 0
		return text
	}
	if m.scroll > len(lines)-h {
		m.scroll = len(lines) - h
	}
	if m.scroll < 0 {
		m.scroll = 0
	}
	return strings.Join(lines[m.scroll:m.scroll+h], "\n")
}

func (m *Model) footer() string {
	var parts []string
	if f := m.viewer.Frame(); f != nil {
		if counter, shown := f.Counter(); shown {
			parts = append(parts, counter)
		}
	}
	if m.status != "" {
		parts = append(parts, errorStyle.Render(m.status))
	} else {
		parts = append(parts, dimStyle.Render("h help · q quit"))
	}
	return strings.Join(parts, "  ")
}

// formatHelp aligns the tab-separated help lines in two columns.
func formatHelp(help string) string {
	var b strings.Builder
	for i, line := range strings.Split(help, "\n") {
		if i > 0 {
			b.WriteByte('\n')
		}
		key, desc, _ := strings.Cut(line, "\t")
		fmt.Fprintf(&b, "%-20s %s", key, strings.TrimLeft(desc, "\t"))
	}
	return b.String()
}
