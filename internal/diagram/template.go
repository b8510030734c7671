package diagram

import (
	"regexp"

	"github.com/specialistvlad/graphview/internal/node"
)

// placeholderRegex matches a `[property]` reference in a label template.
var placeholderRegex = regexp.MustCompile(`\[([^\[\]]+)\]`)

// Missing is substituted for placeholders naming an absent property.
const Missing = "?"

// Resolve expands every `[key]` placeholder in template with the value of the
// matching property.
func Resolve(template string, props node.Properties) string {
	return placeholderRegex.ReplaceAllStringFunc(template, func(m string) string {
		key := m[1 : len(m)-1]
		if v, ok := props[key]; ok {
			return v
		}
		return Missing
	})
}
