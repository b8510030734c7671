package filter

import (
	"fmt"
	"regexp"

	"github.com/charmbracelet/lipgloss"
	"github.com/specialistvlad/graphview/internal/diagram"
)

// Selector picks the figures a rule applies to.
type Selector interface {
	Select(d *diagram.Diagram) []*diagram.Figure
}

// PropertyMatcher selects figures whose node property fully matches a regular expression.
type PropertyMatcher struct {
	Property string
	pattern  *regexp.Regexp
}

// MatchProperty compiles a matcher. The pattern must match the whole value.
func MatchProperty(property, pattern string) (*PropertyMatcher, error) {
	re, err := regexp.Compile(`^(?:` + pattern + `)$`)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern for property %q: %w", property, err)
	}
	return &PropertyMatcher{Property: property, pattern: re}, nil
}

// MustMatchProperty is like MatchProperty but panics on an invalid pattern.
func MustMatchProperty(property, pattern string) *PropertyMatcher {
	m, err := MatchProperty(property, pattern)
	if err != nil {
		panic(err)
	}
	return m
}

// Select implements Selector.
func (m *PropertyMatcher) Select(d *diagram.Diagram) []*diagram.Figure {
	var out []*diagram.Figure
	for _, f := range d.Figures() {
		v, ok := f.Node().Properties.Get(m.Property)
		if ok && m.pattern.MatchString(v) {
			out = append(out, f)
		}
	}
	return out
}

// Rule colors every figure picked by its selector.
type Rule struct {
	Selector Selector
	Color    lipgloss.Color
}

// ColorFilter applies its rules in order; later rules win.
type ColorFilter struct {
	name  string
	rules []Rule
}

// NewColorFilter creates a color filter.
func NewColorFilter(name string, rules ...Rule) *ColorFilter {
	return &ColorFilter{name: name, rules: rules}
}

// Name implements Filter.
func (f *ColorFilter) Name() string { return f.name }

// AddRule appends a rule.
func (f *ColorFilter) AddRule(r Rule) {
	f.rules = append(f.rules, r)
}

// Rules returns the filter's rules.
func (f *ColorFilter) Rules() []Rule {
	out := make([]Rule, len(f.rules))
	copy(out, f.rules)
	return out
}

// Apply implements Filter.
func (f *ColorFilter) Apply(d *diagram.Diagram) {
	for _, r := range f.rules {
		for _, fig := range r.Selector.Select(d) {
			fig.SetColor(r.Color)
		}
	}
}
