package app

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/specialistvlad/graphview/internal/config"
	"github.com/specialistvlad/graphview/internal/filter"
)

// buildChains turns the configured filter definitions into the primary and
// sequence filter chains.
func buildChains(defs []*config.FilterDefinition) (primary, sequence *filter.Chain, err error) {
	primary = filter.NewChain(config.ChainPrimary)
	sequence = filter.NewChain(config.ChainSequence)

	for _, def := range defs {
		cf := filter.NewColorFilter(def.Name)
		for _, rule := range def.Rules {
			matcher, err := filter.MatchProperty(rule.Property, rule.Pattern)
			if err != nil {
				return nil, nil, fmt.Errorf("filter %q: %w", def.Name, err)
			}
			cf.AddRule(filter.Rule{Selector: matcher, Color: lipgloss.Color(rule.Color)})
		}

		switch def.Chain {
		case config.ChainSequence:
			sequence.Add(cf)
		default:
			primary.Add(cf)
		}
	}
	return primary, sequence, nil
}
