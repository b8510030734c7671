package viewmodel

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/specialistvlad/graphview/internal/diagram"
	"github.com/specialistvlad/graphview/internal/graph"
	"github.com/specialistvlad/graphview/internal/node"
	"github.com/specialistvlad/graphview/internal/nodeid"
)

// Highlight is the color of one position of the visible sequence, derived
// from the node selection. Values are ordered by priority.
type Highlight int

const (
	// None marks a position where no selected node appears first or again.
	None Highlight = iota
	// White marks an unchanged reappearance of a selected node.
	White
	// Orange marks a selected node that changed since the previous position.
	Orange
	// Green marks the first position where a selected node appears.
	Green
)

var highlightNames = [...]string{None: "none", White: "white", Orange: "orange", Green: "green"}

// String implements fmt.Stringer.
func (h Highlight) String() string {
	if h < None || h > Green {
		return "unknown"
	}
	return highlightNames[h]
}

// Color returns the display color. None uses the baseline black.
func (h Highlight) Color() lipgloss.Color {
	switch h {
	case White:
		return diagram.White
	case Orange:
		return diagram.Orange
	case Green:
		return diagram.Green
	default:
		return diagram.Black
	}
}

// ComputeColors returns one Highlight per position of visible for the
// selected node ids. Reference ids are canonicalized first.
//
// Each selected node is followed through the sequence. The first position
// holding it is Green; a later position is White when the node is equal to
// the one at the previous position and Orange when it differs. A position
// lacking the node is left alone and restarts the comparison. Colors are
// only ever raised, so the result does not depend on the order in which ids
// are processed.
func ComputeColors(selected nodeid.Set, visible []*graph.Snapshot) []Highlight {
	colors := make([]Highlight, len(visible))
	for id := range selected.Canonicalized() {
		var last *node.Node
		for i, s := range visible {
			cur, ok := s.Node(id)
			if ok {
				switch {
				case last == nil:
					colors[i] = Green
				case last.Equal(cur):
					colors[i] = max(colors[i], White)
				default:
					colors[i] = max(colors[i], Orange)
				}
			}
			last = cur
		}
	}
	return colors
}
