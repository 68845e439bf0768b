// Package present is a terminal host for a viewer: the same keys as the
// browser, with the page flattened to wrapped text.
package present

import (
	tea "github.com/charmbracelet/bubbletea"

	"kpp/view"
)

// chromeLines is the number of lines around the page: header, navigation
// bar, footer.
const chromeLines = 3

// Model drives a view.Viewer from terminal key presses.
type Model struct {
	viewer *view.Viewer

	width  int
	height int
	scroll int

	help     string
	status   string
	quitting bool
}

// New returns a model rendering at width until the terminal reports its
// size.
func New(v *view.Viewer, width int) *Model {
	m := &Model{viewer: v, width: width}
	if alerts := v.Document().Alerts; len(alerts) > 0 {
		m.status = "error: " + alerts[0].Error()
	}
	m.resize()
	return m
}

// Run presents v until the reader quits.
func Run(v *view.Viewer, width int) error {
	_, err := tea.NewProgram(New(v, width), tea.WithAltScreen()).Run()
	return err
}

// Viewer returns the driven viewer.
func (m *Model) Viewer() *view.Viewer { return m.viewer }

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd { return nil }

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
	case tea.KeyMsg:
		return m, m.key(msg.String())
	}
	return m, nil
}

func (m *Model) key(s string) tea.Cmd {
	switch s {
	case "q", "ctrl+c", "esc":
		m.quitting = true
		return tea.Quit
	case "]":
		m.viewer.ScrollLeft()
		return nil
	case "[":
		m.viewer.ScrollRight()
		return nil
	case "pgdown":
		m.scroll += m.pageHeight()
		return nil
	case "pgup":
		m.scroll -= m.pageHeight()
		return nil
	}
	k, ok := view.ParseKey(s)
	if !ok {
		return nil
	}
	m.help, m.status = "", ""
	out, err := m.viewer.Press(k)
	if err != nil {
		m.status = "error: " + err.Error()
		return nil
	}
	m.help = out.Help
	switch {
	case out.Changed:
		m.scroll = 0
		m.resize()
	case k == view.KeyNext:
		m.scroll++
	case k == view.KeyPrev:
		m.scroll--
	}
	return nil
}

// resize reports the window and navigation bar widths to the viewer.
func (m *Model) resize() {
	m.viewer.Resize(m.width, len([]rune(navText(m.viewer.Navigation()))))
}

// pageHeight is the number of page lines that fit, zero before the
// terminal size is known.
func (m *Model) pageHeight() int {
	if m.height <= chromeLines {
		return 0
	}
	return m.height - chromeLines
}
