package hcl

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/graphview/internal/config"
	"github.com/specialistvlad/graphview/internal/diagram"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// hexColorRegex accepts "#RRGGBB".
var hexColorRegex = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// newEvalContext exposes the named palette to rule color expressions.
func newEvalContext() *hcl.EvalContext {
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"colors": cty.ObjectVal(map[string]cty.Value{
				"white":  cty.StringVal(string(diagram.White)),
				"orange": cty.StringVal(string(diagram.Orange)),
				"green":  cty.StringVal(string(diagram.Green)),
				"red":    cty.StringVal(string(diagram.Red)),
				"black":  cty.StringVal(string(diagram.Black)),
			}),
		},
	}
}

// translateSettings overlays the attributes present in b onto s.
func (l *Loader) translateSettings(b *settingsBlock, s *config.Settings) error {
	if b.DefaultView != nil {
		v, err := config.ParseDefaultView(*b.DefaultView)
		if err != nil {
			return err
		}
		s.DefaultView = v
	}
	if b.NodeText != nil {
		s.NodeText = *b.NodeText
	}
	if b.NodeShortText != nil {
		s.NodeShortText = *b.NodeShortText
	}
	if b.NodeTinyText != nil {
		s.NodeTinyText = *b.NodeTinyText
	}
	return nil
}

// translateFilter converts a decoded filter block into its format-agnostic definition.
func (l *Loader) translateFilter(evalCtx *hcl.EvalContext, b *filterBlock) (*config.FilterDefinition, error) {
	def := &config.FilterDefinition{Name: b.Name, Chain: config.ChainPrimary}
	if b.Chain != nil {
		switch *b.Chain {
		case config.ChainPrimary, config.ChainSequence:
			def.Chain = *b.Chain
		default:
			return nil, fmt.Errorf("unknown chain %q: must be %q or %q", *b.Chain, config.ChainPrimary, config.ChainSequence)
		}
	}

	for i, rb := range b.Rules {
		color, err := evalColor(evalCtx, rb.Color)
		if err != nil {
			return nil, fmt.Errorf("rule %d: %w", i, err)
		}
		def.Rules = append(def.Rules, &config.RuleDefinition{
			Property: rb.Property,
			Pattern:  rb.Pattern,
			Color:    color,
		})
	}
	return def, nil
}

// evalColor evaluates a color expression into a normalized "#RRGGBB" string.
func evalColor(evalCtx *hcl.EvalContext, expr hcl.Expression) (string, error) {
	val, diags := expr.Value(evalCtx)
	if diags.HasErrors() {
		return "", fmt.Errorf("failed to evaluate color: %w", diags)
	}
	if val.IsNull() || !val.IsKnown() {
		return "", fmt.Errorf("color must be a known, non-null value")
	}

	var s string
	if err := gocty.FromCtyValue(val, &s); err != nil {
		return "", fmt.Errorf("color must be a string: %w", err)
	}
	if !hexColorRegex.MatchString(s) {
		return "", fmt.Errorf("invalid color %q: expected #RRGGBB", s)
	}
	return strings.ToUpper(s), nil
}
