package config

import (
	"fmt"
)

// DefaultView is the display mode a newly opened view starts in.
type DefaultView string

const (
	SeaOfNodes          DefaultView = "sea-of-nodes"
	ClusteredSeaOfNodes DefaultView = "clustered-sea-of-nodes"
	ControlFlowGraph    DefaultView = "control-flow-graph"
)

// ParseDefaultView validates the textual form of a display mode.
func ParseDefaultView(s string) (DefaultView, error) {
	switch v := DefaultView(s); v {
	case SeaOfNodes, ClusteredSeaOfNodes, ControlFlowGraph:
		return v, nil
	default:
		return "", fmt.Errorf("invalid default view %q: must be %q, %q or %q", s, SeaOfNodes, ClusteredSeaOfNodes, ControlFlowGraph)
	}
}

// Chain names a filter definition can target.
const (
	ChainPrimary  = "primary"
	ChainSequence = "sequence"
)

// Model is the unified, format-agnostic representation of the entire
// application configuration.
type Model struct {
	Settings Settings
	Filters  []*FilterDefinition
}

// NewModel returns a model holding the default settings and no filters.
func NewModel() *Model {
	return &Model{Settings: DefaultSettings()}
}

// Settings are the read-only viewer preferences.
type Settings struct {
	DefaultView DefaultView
	// NodeText, NodeShortText and NodeTinyText are the node label templates.
	// `[key]` is replaced by the node's `key` property.
	NodeText      string
	NodeShortText string
	NodeTinyText  string
}

// DefaultSettings returns the built-in settings.
func DefaultSettings() Settings {
	return Settings{
		DefaultView:   SeaOfNodes,
		NodeText:      "[idx] [name]",
		NodeShortText: "[idx] [name]",
		NodeTinyText:  "[idx]",
	}
}

// FilterDefinition is the format-agnostic representation of a color filter.
type FilterDefinition struct {
	Name string
	// Chain is ChainPrimary or ChainSequence.
	Chain string
	Rules []*RuleDefinition
}

// RuleDefinition colors the figures whose Property fully matches Pattern.
type RuleDefinition struct {
	Property string
	Pattern  string
	// Color is a hex color such as "#FFA500".
	Color string
}
