package tui

import (
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	zone "github.com/lrstanley/bubblezone"

	"github.com/jask/rowmark/internal/document"
	"github.com/jask/rowmark/internal/keys"
	"github.com/jask/rowmark/internal/labels"
	"github.com/jask/rowmark/internal/selection"
	"github.com/jask/rowmark/internal/theme"
)

// clipboardWrite is swapped out in tests.
var clipboardWrite = clipboard.WriteAll

// SelectionChangedMsg is emitted after the selected row changes.
type SelectionChangedMsg struct {
	Index int
	Row   uuid.UUID
}

// MarksChangedMsg is emitted after any mark operation, with the marked rows
// in table order.
type MarksChangedMsg struct {
	Indices []int
	Rows    []uuid.UUID
}

// Controller binds row selection and marking to one document container. It
// keeps the pure selection state and writes it back onto the rows as labels
// and data attributes after every transition.
type Controller struct {
	containerID    string
	container      *document.Container
	rows           []*document.Row
	state          *selection.State
	selectedLabels []string
	markedLabels   []string

	keys       *keys.Registry
	theme      *theme.Theme
	zone       *zone.Manager
	ownsZone   bool
	zonePrefix string
	help       help.Model
	showHelp   bool

	top         int
	height      int
	fixedHeight bool
	width       int
	outerHeight int
	status      string
}

// Option configures a Controller.
type Option func(*Controller)

// WithKeys replaces the default key registry.
func WithKeys(r *keys.Registry) Option {
	return func(c *Controller) {
		if r != nil {
			c.keys = r
		}
	}
}

// WithTheme replaces the default label theme.
func WithTheme(t *theme.Theme) Option {
	return func(c *Controller) {
		if t != nil {
			c.theme = t
		}
	}
}

// WithHeight fixes the number of visible rows. Zero follows the window size.
func WithHeight(rows int) Option {
	return func(c *Controller) {
		if rows > 0 {
			c.height = rows
			c.fixedHeight = true
		}
	}
}

// WithZone shares a mouse zone manager owned by the embedding model, which is
// then responsible for scanning the final view.
func WithZone(z *zone.Manager) Option {
	return func(c *Controller) {
		if z != nil {
			c.zone = z
			c.ownsZone = false
		}
	}
}

// New binds a controller to the container registered under containerID.
// selectedLabels and markedLabels are whitespace-separated label lists. An
// unknown container yields a controller over zero rows.
func New(doc *document.Document, containerID, selectedLabels, markedLabels string, opts ...Option) *Controller {
	c := &Controller{
		containerID:    containerID,
		container:      doc.Container(containerID),
		selectedLabels: labels.Parse(selectedLabels),
		markedLabels:   labels.Parse(markedLabels),
		keys:           keys.NewRegistry(),
		theme:          theme.Default(),
		help:           help.New(),
		showHelp:       true,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.zone == nil {
		c.zone = zone.New()
		c.ownsZone = true
	}
	c.zonePrefix = c.zone.NewPrefix()
	c.help.Styles.ShortKey = theme.HelpKeyStyle
	c.help.Styles.ShortDesc = theme.HelpDescStyle

	if c.container == nil {
		log.Printf("rowmark: container %q not found; no rows to select", containerID)
	}
	c.rows = c.container.Rows()
	c.state = selection.New(len(c.rows))
	for i, r := range c.rows {
		r.Labels.Remove(c.selectedLabels...)
		r.Labels.Remove(c.markedLabels...)
		r.SetData(document.DataIndex, strconv.Itoa(i))
		r.SetData(document.DataMarked, "false")
	}
	c.render()
	return c
}

// Len returns the number of rows under control.
func (c *Controller) Len() int { return len(c.rows) }

// ContainerID returns the identifier the controller was bound with.
func (c *Controller) ContainerID() string { return c.containerID }

// Selected returns the selected index (0 for an empty table).
func (c *Controller) Selected() int { return c.state.Selected() }

// Anchor returns the range anchor, or -1.
func (c *Controller) Anchor() int { return c.state.Anchor() }

// SelectedRow returns the selected row, or nil for an empty table.
func (c *Controller) SelectedRow() *document.Row {
	if !c.state.HasSelection() {
		return nil
	}
	return c.rows[c.state.Selected()]
}

// MarkedRows returns the marked rows in table order.
func (c *Controller) MarkedRows() []*document.Row {
	idx := c.state.MarkedIndices()
	out := make([]*document.Row, 0, len(idx))
	for _, i := range idx {
		out = append(out, c.rows[i])
	}
	return out
}

// IsMarked reports the marked flag of row i.
func (c *Controller) IsMarked(i int) bool { return c.state.IsMarked(i) }

// Status returns the last status message.
func (c *Controller) Status() string { return c.status }

// Top returns the index of the first visible row.
func (c *Controller) Top() int { return c.top }

// Navigate moves the selection one row in dir and scrolls it into view.
func (c *Controller) Navigate(dir selection.Direction) tea.Cmd {
	if !c.state.Navigate(dir) {
		return nil
	}
	c.render()
	c.scrollIntoView()
	return c.selectionChanged()
}

// Mark applies mode to the selected row.
func (c *Controller) Mark(mode selection.Mode) tea.Cmd {
	if c.Len() == 0 {
		return nil
	}
	c.state.Mark(mode)
	c.render()
	return c.marksChanged()
}

// ClearMarks unmarks every row.
func (c *Controller) ClearMarks() tea.Cmd {
	if c.state.MarkedCount() == 0 {
		return nil
	}
	c.state.ClearMarks()
	c.render()
	return c.marksChanged()
}

// SelectRow selects row by the index recorded on it at construction. Rows
// without a usable index are ignored.
func (c *Controller) SelectRow(row *document.Row) tea.Cmd {
	raw, ok := row.Data(document.DataIndex)
	if !ok {
		return nil
	}
	idx, err := strconv.Atoi(raw)
	if err != nil || idx < 0 || idx >= c.Len() || c.rows[idx] != row {
		return nil
	}
	if !c.state.Select(idx) {
		return nil
	}
	c.render()
	c.scrollIntoView()
	return c.selectionChanged()
}

// ToggleHelp shows or hides the key help line.
func (c *Controller) ToggleHelp() {
	c.showHelp = !c.showHelp
	if c.outerHeight > 0 {
		c.Resize(c.width, c.outerHeight)
	}
}

// Update handles window size changes and routes everything else through
// HandleInput.
func (c *Controller) Update(msg tea.Msg) (*Controller, tea.Cmd) {
	if m, ok := msg.(tea.WindowSizeMsg); ok {
		c.Resize(m.Width, m.Height)
		return c, nil
	}
	_, cmd := c.HandleInput(msg)
	return c, cmd
}

// Resize sets the space available to the view, including its header, status
// and help lines.
func (c *Controller) Resize(width, height int) {
	c.width = width
	c.outerHeight = height
	c.help.Width = width
	if !c.fixedHeight {
		c.height = max(1, height-c.chromeLines())
	}
	c.scrollIntoView()
}

// HandleInput interprets key and mouse input. It reports whether the input
// was consumed; unconsumed input is left for the embedding model.
func (c *Controller) HandleInput(msg tea.Msg) (bool, tea.Cmd) {
	switch m := msg.(type) {
	case tea.KeyMsg:
		return c.handleKey(m)
	case tea.MouseMsg:
		return c.handleMouse(m)
	}
	return false, nil
}

func (c *Controller) handleKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	b := c.keys.Lookup(msg.String(), keys.ScopeTable)
	if b == nil {
		return false, nil
	}
	switch b.Action {
	case keys.ActionUp:
		return true, c.Navigate(selection.Up)
	case keys.ActionDown:
		return true, c.Navigate(selection.Down)
	case keys.ActionMarkSingle:
		return true, c.Mark(selection.Single)
	case keys.ActionMarkToggle:
		return true, c.Mark(selection.Toggle)
	case keys.ActionMarkRange:
		return true, c.Mark(selection.Range)
	case keys.ActionClearMarks:
		return true, c.ClearMarks()
	case keys.ActionYank:
		c.yank()
		return true, nil
	}
	return false, nil
}

func (c *Controller) handleMouse(msg tea.MouseMsg) (bool, tea.Cmd) {
	if msg.Action != tea.MouseActionPress {
		return false, nil
	}
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		return true, c.Navigate(selection.Up)
	case tea.MouseButtonWheelDown:
		return true, c.Navigate(selection.Down)
	case tea.MouseButtonLeft:
		row := c.rowAt(msg)
		if row == nil {
			return false, nil
		}
		mods := selection.Modifiers{Shift: msg.Shift, Ctrl: msg.Ctrl, Meta: msg.Alt}
		return true, c.click(row, selection.ModeFor(mods))
	}
	return false, nil
}

// click selects row and then marks it with mode.
func (c *Controller) click(row *document.Row, mode selection.Mode) tea.Cmd {
	selCmd := c.SelectRow(row)
	if c.SelectedRow() != row {
		return selCmd
	}
	return tea.Batch(selCmd, c.Mark(mode))
}

func (c *Controller) rowAt(msg tea.MouseMsg) *document.Row {
	start, end := c.visibleRange()
	for i := start; i < end; i++ {
		z := c.zone.Get(c.rowZoneID(i))
		if z != nil && z.InBounds(msg) {
			return c.rows[i]
		}
	}
	return nil
}

func (c *Controller) rowZoneID(i int) string {
	return c.zonePrefix + "row-" + strconv.Itoa(i)
}

// render writes the selection state back onto every row. Labels for states a
// row does not have are removed before labels for states it has are added,
// so a label shared by both lists survives on rows that need it.
func (c *Controller) render() {
	for i, r := range c.rows {
		selected := c.state.HasSelection() && i == c.state.Selected()
		marked := c.state.IsMarked(i)
		if !selected {
			r.Labels.Remove(c.selectedLabels...)
		}
		if !marked {
			r.Labels.Remove(c.markedLabels...)
		}
		if selected {
			r.Labels.Add(c.selectedLabels...)
		}
		if marked {
			r.Labels.Add(c.markedLabels...)
		}
		r.SetData(document.DataMarked, strconv.FormatBool(marked))
	}
}

func (c *Controller) visibleRows() int {
	if c.height <= 0 {
		return max(1, c.Len())
	}
	return c.height
}

func (c *Controller) visibleRange() (int, int) {
	end := min(c.Len(), c.top+c.visibleRows())
	return c.top, end
}

// scrollIntoView moves the viewport only when the selected row is outside it.
func (c *Controller) scrollIntoView() {
	if c.Len() == 0 {
		c.top = 0
		return
	}
	visible := c.visibleRows()
	sel := c.state.Selected()
	if sel < c.top {
		c.top = sel
	} else if sel >= c.top+visible {
		c.top = sel - visible + 1
	}
	maxTop := max(0, c.Len()-visible)
	if c.top > maxTop {
		c.top = maxTop
	}
	if c.top < 0 {
		c.top = 0
	}
}

func (c *Controller) selectionChanged() tea.Cmd {
	row := c.SelectedRow()
	if row == nil {
		return nil
	}
	msg := SelectionChangedMsg{Index: c.state.Selected(), Row: row.ID}
	return func() tea.Msg { return msg }
}

func (c *Controller) marksChanged() tea.Cmd {
	msg := MarksChangedMsg{Indices: c.state.MarkedIndices()}
	for _, i := range msg.Indices {
		msg.Rows = append(msg.Rows, c.rows[i].ID)
	}
	return func() tea.Msg { return msg }
}

// yank copies the marked rows, or the selected row when nothing is marked,
// as tab-separated lines.
func (c *Controller) yank() {
	rows := c.MarkedRows()
	if len(rows) == 0 {
		if r := c.SelectedRow(); r != nil {
			rows = []*document.Row{r}
		}
	}
	if len(rows) == 0 {
		c.status = "Nothing to copy."
		return
	}
	lines := make([]string, 0, len(rows))
	for _, r := range rows {
		lines = append(lines, r.Text("\t"))
	}
	if err := clipboardWrite(strings.Join(lines, "\n")); err != nil {
		log.Printf("rowmark: clipboard: %v", err)
		c.status = fmt.Sprintf("Copy failed: %v", err)
		return
	}
	if len(rows) == 1 {
		c.status = "Copied 1 row."
		return
	}
	c.status = fmt.Sprintf("Copied %d rows.", len(rows))
}
