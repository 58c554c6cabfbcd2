package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"github.com/jask/rowmark/internal/document"
	"github.com/jask/rowmark/internal/keys"
	"github.com/jask/rowmark/internal/theme"
)

var titleStyle = lipgloss.NewStyle().Foreground(theme.ColorAccent).Bold(true)

// App is a minimal embedding program around one Controller: a title line,
// the table, and global keys.
type App struct {
	title string
	table *Controller
	keys  *keys.Registry
	zone  *zone.Manager

	lastMarked int
}

// AppOptions configures NewApp.
type AppOptions struct {
	Title          string
	ContainerID    string
	SelectedLabels string
	MarkedLabels   string
	Height         int
	Keys           *keys.Registry
	Theme          *theme.Theme
}

func NewApp(doc *document.Document, opts AppOptions) *App {
	if opts.Keys == nil {
		opts.Keys = keys.NewRegistry()
	}
	z := zone.New()
	a := &App{
		title: opts.Title,
		keys:  opts.Keys,
		zone:  z,
	}
	a.table = New(doc, opts.ContainerID, opts.SelectedLabels, opts.MarkedLabels,
		WithKeys(opts.Keys),
		WithTheme(opts.Theme),
		WithHeight(opts.Height),
		WithZone(z),
	)
	return a
}

// Table exposes the controller, e.g. to read the marked rows after the
// program exits.
func (a *App) Table() *Controller { return a.table }

func (a *App) Init() tea.Cmd { return nil }

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.KeyMsg:
		if handled, cmd := a.table.HandleInput(m); handled {
			return a, cmd
		}
		b := a.keys.Lookup(m.String(), keys.ScopeGlobal)
		if b == nil {
			return a, nil
		}
		switch b.Action {
		case keys.ActionQuit:
			return a, tea.Quit
		case keys.ActionToggleHelp:
			a.table.ToggleHelp()
		}
		return a, nil
	case tea.WindowSizeMsg:
		a.table.Resize(m.Width, m.Height-a.titleLines())
		return a, nil
	case MarksChangedMsg:
		a.lastMarked = len(m.Indices)
		return a, nil
	}
	_, cmd := a.table.HandleInput(msg)
	return a, cmd
}

func (a *App) titleLines() int {
	if a.title == "" {
		return 0
	}
	return 1
}

func (a *App) View() string {
	out := a.table.View()
	if a.title != "" {
		title := a.title
		if a.lastMarked > 0 {
			title = fmt.Sprintf("%s (%d marked)", title, a.lastMarked)
		}
		out = titleStyle.Render(title) + "\n" + out
	}
	return a.zone.Scan(out)
}

// Close releases the zone manager's worker.
func (a *App) Close() {
	a.zone.Close()
}
