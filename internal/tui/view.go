package tui

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/jask/rowmark/internal/keys"
	"github.com/jask/rowmark/internal/theme"
)

const (
	gutterSelected = "›"
	gutterMarked   = "•"
	columnGap      = "  "
)

// chromeLines is the number of non-row lines the view draws.
func (c *Controller) chromeLines() int {
	n := 1 // status
	if c.container != nil && len(c.container.Header) > 0 {
		n++
	}
	if c.showHelp {
		n++
	}
	return n
}

// View renders the visible rows, styled by their labels.
func (c *Controller) View() string {
	var b strings.Builder
	widths := c.columnWidths()

	if c.container != nil && len(c.container.Header) > 0 {
		b.WriteString(theme.HeaderStyle.Render("    " + formatCells(c.container.Header, widths)))
		b.WriteString("\n")
	}

	if c.Len() == 0 {
		b.WriteString(theme.ScrollStyle.Render("  no rows"))
		b.WriteString("\n")
	}

	start, end := c.visibleRange()
	for i := start; i < end; i++ {
		r := c.rows[i]
		gutter := " "
		if c.state.Selected() == i {
			gutter = gutterSelected
		}
		mark := " "
		if c.state.IsMarked(i) {
			mark = gutterMarked
		}
		line := fmt.Sprintf("%s %s %s", gutter, mark, formatCells(r.Cells, widths))
		if c.width > 0 {
			line = runewidth.FillRight(runewidth.Truncate(line, c.width, "…"), c.width)
		}
		line = c.theme.Style(r.Labels.Names()).Render(line)
		b.WriteString(c.zone.Mark(c.rowZoneID(i), line))
		b.WriteString("\n")
	}

	b.WriteString(theme.StatusStyle.Render(c.statusLine(start, end)))
	if c.showHelp {
		b.WriteString("\n")
		b.WriteString(c.help.ShortHelpView(c.keys.HelpBindings(keys.ScopeTable)))
	}

	out := b.String()
	if c.ownsZone {
		out = c.zone.Scan(out)
	}
	return out
}

func (c *Controller) statusLine(start, end int) string {
	parts := []string{}
	if c.Len() > 0 {
		parts = append(parts, fmt.Sprintf("rows %d–%d of %d", start+1, end, c.Len()))
	}
	if n := c.state.MarkedCount(); n > 0 {
		parts = append(parts, fmt.Sprintf("%d marked", n))
	}
	if c.status != "" {
		parts = append(parts, c.status)
	}
	return strings.Join(parts, " · ")
}

// columnWidths sizes each column to its widest cell, header included.
func (c *Controller) columnWidths() []int {
	var widths []int
	grow := func(cells []string) {
		for i, cell := range cells {
			if i >= len(widths) {
				widths = append(widths, 0)
			}
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}
	if c.container != nil {
		grow(c.container.Header)
	}
	for _, r := range c.rows {
		grow(r.Cells)
	}
	return widths
}

func formatCells(cells []string, widths []int) string {
	parts := make([]string, len(cells))
	for i, cell := range cells {
		w := runewidth.StringWidth(cell)
		if i < len(widths) {
			w = widths[i]
		}
		parts[i] = runewidth.FillRight(runewidth.Truncate(cell, w, "…"), w)
	}
	return strings.TrimRight(strings.Join(parts, columnGap), " ")
}
