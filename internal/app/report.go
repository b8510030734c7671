package app

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/specialistvlad/graphview/internal/diagram"
	"github.com/specialistvlad/graphview/internal/viewmodel"
)

var (
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#89b4fa")).Bold(true)
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#7f849c"))
	cursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#fab387")).Bold(true)
)

// writeReport renders the state of view: the visible phases with their
// selection highlight, the current graph and its figures.
func writeReport(w io.Writer, view *viewmodel.Model) error {
	var lines []string

	group := view.Group()
	lines = append(lines, titleStyle.Render("Group: "+group.Name())+" "+mutedStyle.Render(group.ID()), "")

	window := view.Window()
	title := "Phases"
	if window.IsRange() {
		title += fmt.Sprintf(" (comparing %d..%d)", window.Low, window.High)
	}
	lines = append(lines, titleStyle.Render(title))
	colors := view.Colors()
	for i, name := range view.Positions() {
		prefix := "  "
		if i >= window.Low && i <= window.High {
			prefix = cursorStyle.Render(">") + " "
		}
		h := viewmodel.None
		if i < len(colors) {
			h = colors[i]
		}
		swatch := lipgloss.NewStyle().Foreground(h.Color()).Render("■")
		lines = append(lines, fmt.Sprintf("%s%s %s %s", prefix, swatch, name, mutedStyle.Render("("+h.String()+")")))
	}

	lines = append(lines, "", titleStyle.Render("Graph: "+view.Graph().String()))
	d := view.Diagram()
	mode := "sea of nodes"
	switch {
	case d.IsCFG():
		mode = "control flow graph"
	case view.ShowBlocks():
		mode = "clustered sea of nodes"
	}
	lines = append(lines, mutedStyle.Render(fmt.Sprintf("%d figures, %d connections, %s", len(d.Figures()), len(d.Connections()), mode)))

	hidden := view.HiddenNodes()
	for _, f := range d.Figures() {
		if hidden.Has(f.ID()) {
			continue
		}
		lines = append(lines, "  "+renderFigure(f))
	}

	_, err := fmt.Fprintln(w, strings.Join(lines, "\n"))
	return err
}

func renderFigure(f *diagram.Figure) string {
	label := f.Label()
	if f.Color() != diagram.NoColor {
		label = lipgloss.NewStyle().Foreground(f.Color()).Render(label)
	}
	return fmt.Sprintf("%s %s", label, mutedStyle.Render("["+f.Block()+"]"))
}
