package viewmodel

import (
	"fmt"
	"slices"

	"github.com/specialistvlad/graphview/internal/graph"
)

// Window selects a range of the visible sequence. Low == High selects a
// single snapshot; otherwise the two ends are compared.
type Window struct {
	Low  int
	High int
}

// Single returns the window selecting only index i.
func Single(i int) Window {
	return Window{Low: i, High: i}
}

// IsRange reports whether the window spans more than one position.
func (w Window) IsRange() bool { return w.Low != w.High }

// Validate checks 0 <= Low <= High < n. Any window is valid for an empty sequence.
func (w Window) Validate(n int) error {
	if n == 0 {
		return nil
	}
	if w.Low < 0 || w.Low > w.High || w.High >= n {
		return fmt.Errorf("%w: [%d, %d] for %d snapshots", ErrInvalidWindow, w.Low, w.High, n)
	}
	return nil
}

// ExtendTo moves one end of the window to i. Low is a sticky anchor: when
// i >= Low the upper bound moves to i, otherwise Low moves down to i and
// High is kept.
func (w Window) ExtendTo(i int) Window {
	if w.Low <= i {
		return Window{Low: w.Low, High: i}
	}
	return Window{Low: i, High: w.High}
}

// Relocate maps w from the prev sequence onto next. Each end keeps pointing
// at the same snapshot when it is still present; otherwise it is clamped into
// next. The result is valid for next.
func Relocate(w Window, prev, next []*graph.Snapshot) Window {
	if len(next) == 0 {
		return Window{}
	}
	find := func(i int) int {
		if i >= 0 && i < len(prev) {
			if j := slices.Index(next, prev[i]); j >= 0 {
				return j
			}
		}
		return min(max(i, 0), len(next)-1)
	}

	out := Window{Low: find(w.Low), High: find(w.High)}
	if out.High < out.Low {
		out.High = out.Low
	}
	return out
}

// FirstSnapshot resolves the low end of w. A Low past the end falls back to
// the last snapshot. A diff snapshot resolves to its first input.
func FirstSnapshot(visible []*graph.Snapshot, w Window) *graph.Snapshot {
	if len(visible) == 0 {
		return nil
	}
	s := visible[len(visible)-1]
	if w.Low < len(visible) {
		s = visible[w.Low]
	}
	if s.IsDiff() {
		return unwrap(s, s.First())
	}
	return s
}

// SecondSnapshot resolves the high end of w. A High past the end falls back
// to FirstSnapshot. A diff snapshot resolves to its second input.
func SecondSnapshot(visible []*graph.Snapshot, w Window) *graph.Snapshot {
	if w.High >= len(visible) {
		return FirstSnapshot(visible, w)
	}
	s := visible[w.High]
	if s.IsDiff() {
		return unwrap(s, s.Second())
	}
	return s
}

// unwrap returns part, the input of diff snapshot d, panicking when part is
// itself a diff snapshot.
func unwrap(d, part *graph.Snapshot) *graph.Snapshot {
	if part.IsDiff() {
		panic(fmt.Errorf("%w: %s", ErrNestedDiff, d))
	}
	return part
}

// checkSelectable rejects snapshots the window cannot resolve.
func checkSelectable(s *graph.Snapshot) error {
	if s.IsDiff() && (s.First().IsDiff() || s.Second().IsDiff()) {
		return fmt.Errorf("%w: %s", ErrNestedDiff, s)
	}
	return nil
}
