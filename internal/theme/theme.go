// Package theme maps row labels to lipgloss styles using the Catppuccin Mocha
// palette.
package theme

import (
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ---------------------------------------------------------------------------
// Catppuccin Mocha palette, true-color hex values
// https://catppuccin.com/palette
// ---------------------------------------------------------------------------

const (
	ColorRosewater lipgloss.Color = "#f5e0dc"
	ColorPink      lipgloss.Color = "#f5c2e7"
	ColorMauve     lipgloss.Color = "#cba6f7"
	ColorRed       lipgloss.Color = "#f38ba8"
	ColorPeach     lipgloss.Color = "#fab387"
	ColorYellow    lipgloss.Color = "#f9e2af"
	ColorGreen     lipgloss.Color = "#a6e3a1"
	ColorTeal      lipgloss.Color = "#94e2d5"
	ColorBlue      lipgloss.Color = "#89b4fa"
	ColorLavender  lipgloss.Color = "#b4befe"

	ColorText     lipgloss.Color = "#cdd6f4"
	ColorSubtext1 lipgloss.Color = "#bac2de"
	ColorSubtext0 lipgloss.Color = "#a6adc8"
	ColorOverlay1 lipgloss.Color = "#7f849c"
	ColorOverlay0 lipgloss.Color = "#6c7086"
	ColorSurface2 lipgloss.Color = "#585b70"
	ColorSurface1 lipgloss.Color = "#45475a"
	ColorSurface0 lipgloss.Color = "#313244"
	ColorBase     lipgloss.Color = "#1e1e2e"
	ColorMantle   lipgloss.Color = "#181825"
)

// ---------------------------------------------------------------------------
// Semantic color aliases
// ---------------------------------------------------------------------------

const (
	ColorAccent  = ColorPink
	ColorFocus   = ColorLavender
	ColorWarning = ColorYellow
)

// Palette returns every color defined here, for validation.
func Palette() []lipgloss.Color {
	return []lipgloss.Color{
		ColorRosewater, ColorPink, ColorMauve, ColorRed, ColorPeach,
		ColorYellow, ColorGreen, ColorTeal, ColorBlue, ColorLavender,
		ColorText, ColorSubtext1, ColorSubtext0, ColorOverlay1, ColorOverlay0,
		ColorSurface2, ColorSurface1, ColorSurface0, ColorBase, ColorMantle,
	}
}

// Chrome styles shared by the table view.
var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(ColorSubtext0).
			Bold(true)

	StatusStyle = lipgloss.NewStyle().
			Foreground(ColorSubtext1).
			Background(ColorSurface0).
			Padding(0, 1)

	ScrollStyle = lipgloss.NewStyle().Foreground(ColorOverlay1)

	HelpKeyStyle  = lipgloss.NewStyle().Foreground(ColorAccent).Bold(true)
	HelpDescStyle = lipgloss.NewStyle().Foreground(ColorSubtext0)
)

// LabelStyle describes how one label renders. Empty colors are left unset.
type LabelStyle struct {
	Foreground string `mapstructure:"fg"`
	Background string `mapstructure:"bg"`
	Bold       bool   `mapstructure:"bold"`
	Underline  bool   `mapstructure:"underline"`
	Italic     bool   `mapstructure:"italic"`
	Reverse    bool   `mapstructure:"reverse"`
	Faint      bool   `mapstructure:"faint"`
}

func (ls LabelStyle) style() lipgloss.Style {
	s := lipgloss.NewStyle()
	if fg := strings.TrimSpace(ls.Foreground); fg != "" {
		s = s.Foreground(lipgloss.Color(fg))
	}
	if bg := strings.TrimSpace(ls.Background); bg != "" {
		s = s.Background(lipgloss.Color(bg))
	}
	if ls.Bold {
		s = s.Bold(true)
	}
	if ls.Underline {
		s = s.Underline(true)
	}
	if ls.Italic {
		s = s.Italic(true)
	}
	if ls.Reverse {
		s = s.Reverse(true)
	}
	if ls.Faint {
		s = s.Faint(true)
	}
	return s
}

// Theme resolves label lists to styles.
type Theme struct {
	styles map[string]lipgloss.Style
}

// Default returns the built-in label table.
func Default() *Theme {
	t := &Theme{styles: make(map[string]lipgloss.Style)}
	t.styles["selected"] = lipgloss.NewStyle().Foreground(ColorText).Background(ColorSurface1).Bold(true)
	t.styles["marked"] = lipgloss.NewStyle().Foreground(ColorAccent)
	t.styles["accent"] = lipgloss.NewStyle().Foreground(ColorFocus)
	t.styles["warning"] = lipgloss.NewStyle().Foreground(ColorWarning)
	t.styles["bold"] = lipgloss.NewStyle().Bold(true)
	t.styles["dim"] = lipgloss.NewStyle().Faint(true)
	t.styles["underline"] = lipgloss.NewStyle().Underline(true)
	t.styles["italic"] = lipgloss.NewStyle().Italic(true)
	return t
}

// Set defines or replaces the style for one label.
func (t *Theme) Set(label string, ls LabelStyle) {
	label = strings.TrimSpace(label)
	if t == nil || label == "" {
		return
	}
	t.styles[label] = ls.style()
}

// Has reports whether label has a style.
func (t *Theme) Has(label string) bool {
	if t == nil {
		return false
	}
	_, ok := t.styles[label]
	return ok
}

// Labels returns the known label names, sorted.
func (t *Theme) Labels() []string {
	if t == nil {
		return nil
	}
	out := make([]string, 0, len(t.styles))
	for k := range t.styles {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Style composes the styles of labels in order. Earlier labels win when two
// labels set the same property. Unknown labels contribute nothing.
func (t *Theme) Style(labels []string) lipgloss.Style {
	out := lipgloss.NewStyle()
	if t == nil {
		return out
	}
	for _, l := range labels {
		if s, ok := t.styles[l]; ok {
			out = out.Inherit(s)
		}
	}
	return out
}
