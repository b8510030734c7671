package nodeid

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// idRegex accepts a plain or negative decimal id, e.g. `12` or `-12`.
var idRegex = regexp.MustCompile(`^-?\d+$`)

// Parse converts the textual form of a node id into its int value.
func Parse(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, fmt.Errorf("identifier cannot be empty")
	}
	if !idRegex.MatchString(raw) {
		return 0, fmt.Errorf("invalid node id format: %q", raw)
	}
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid node id %q: %w", raw, err)
	}
	return id, nil
}

// ParseList parses a comma separated list of ids such as `3,-4, 7` into a Set.
// An empty string yields an empty set.
func ParseList(raw string) (Set, error) {
	out := NewSet()
	if strings.TrimSpace(raw) == "" {
		return out, nil
	}
	for _, part := range strings.Split(raw, ",") {
		if strings.TrimSpace(part) == "" {
			return nil, fmt.Errorf("node id list contains empty element")
		}
		id, err := Parse(part)
		if err != nil {
			return nil, err
		}
		out.Add(id)
	}
	return out, nil
}
