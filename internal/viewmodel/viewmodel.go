package viewmodel

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"slices"

	"github.com/specialistvlad/graphview/internal/config"
	"github.com/specialistvlad/graphview/internal/ctxlog"
	"github.com/specialistvlad/graphview/internal/diagram"
	"github.com/specialistvlad/graphview/internal/difference"
	"github.com/specialistvlad/graphview/internal/event"
	"github.com/specialistvlad/graphview/internal/filter"
	"github.com/specialistvlad/graphview/internal/graph"
	"github.com/specialistvlad/graphview/internal/nodeid"
	"github.com/specialistvlad/graphview/internal/scheduler"
	"github.com/specialistvlad/graphview/internal/telemetry"
)

// Model is the view-model of one graph view. See the package documentation.
type Model struct {
	logger  *slog.Logger
	group   *graph.Group
	diffs   DiffService
	builder *Builder
	metrics *telemetry.Metrics

	hideDuplicates bool
	visible        []*graph.Snapshot
	window         Window

	selected nodeid.Set
	colors   []Highlight
	hidden   nodeid.Set

	showSea         bool
	showBlocks      bool
	showCFG         bool
	showNodeHull    bool
	showEmptyBlocks bool

	current *graph.Snapshot
	diagram *diagram.Diagram

	diagramChanged    *event.Channel[*Model]
	graphChanged      *event.Channel[*Model]
	selectionChanged  *event.Channel[*Model]
	visibilityChanged *event.Channel[*Model]

	subs    []*event.Subscription
	busy    bool
	pending []mutation
	closed  bool
}

type mutation struct {
	op string
	fn func() error
}

// New opens a view on the group of start and selects start. The model
// subscribes to the group and to both chains; call Close to release them.
func New(ctx context.Context, start *graph.Snapshot, primary, sequence FilterChain, opts ...Option) (*Model, error) {
	if start == nil {
		return nil, errors.New("start snapshot is required")
	}
	if start.Group() == nil {
		return nil, fmt.Errorf("%w: snapshot %s is detached", ErrForeignSnapshot, start)
	}
	if err := checkSelectable(start); err != nil {
		return nil, err
	}
	if primary == nil || sequence == nil {
		return nil, errors.New("both filter chains are required")
	}

	o := options{
		diffs:    difference.New(),
		settings: config.DefaultSettings(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if !o.schedulerSet {
		o.scheduler = scheduler.New(ctx)
	}

	logger := ctxlog.FromContext(ctx).With("group", start.Group().Name(), "group_id", start.Group().ID())
	m := &Model{
		logger:          logger,
		group:           start.Group(),
		diffs:           o.diffs,
		builder:         NewBuilder(logger, o.scheduler, primary, sequence, o.settings, o.metrics),
		metrics:         o.metrics,
		selected:        nodeid.NewSet(),
		hidden:          nodeid.NewSet(),
		showSea:         o.settings.DefaultView == config.SeaOfNodes,
		showBlocks:      o.settings.DefaultView == config.ClusteredSeaOfNodes,
		showCFG:         o.settings.DefaultView == config.ControlFlowGraph,
		showNodeHull:    true,
		showEmptyBlocks: true,
	}
	m.diagramChanged = event.NewChannel(m)
	m.graphChanged = event.NewChannel(m)
	m.selectionChanged = event.NewChannel(m)
	m.visibilityChanged = event.NewChannel(m)

	m.subs = append(m.subs,
		m.group.Changed().Subscribe(m.onGroupChanged),
		primary.Changed().Subscribe(m.onFilterChainChanged),
		sequence.Changed().Subscribe(m.onFilterChainChanged),
	)

	m.visible = visibleOf(m.group.Snapshots(), m.hideDuplicates)
	defer func() {
		if r := recover(); r != nil {
			m.Close()
			panic(r)
		}
	}()
	if err := m.SelectSingle(start); err != nil {
		m.Close()
		return nil, err
	}
	m.colors = ComputeColors(m.selected, m.visible)
	logger.Debug("View opened.", "snapshot", start.String(), "snapshot_id", start.ID(), "visible", len(m.visible))
	return m, nil
}

// Close unsubscribes from the group and the filter chains. Later mutations
// are dropped. Close is idempotent.
func (m *Model) Close() {
	if m.closed {
		return
	}
	m.closed = true
	for _, s := range m.subs {
		s.Unsubscribe()
	}
	m.subs = nil
	m.logger.Debug("View closed.")
}

// Closed reports whether Close was called.
func (m *Model) Closed() bool { return m.closed }

// DiagramChanged fires after the diagram was rebuilt or a display flag changed.
func (m *Model) DiagramChanged() *event.Channel[*Model] { return m.diagramChanged }

// GraphChanged fires after the current graph was recomputed.
func (m *Model) GraphChanged() *event.Channel[*Model] { return m.graphChanged }

// SelectionChanged fires after the node selection or its colors changed.
func (m *Model) SelectionChanged() *event.Channel[*Model] { return m.selectionChanged }

// VisibilityChanged fires after the set of hidden nodes changed.
func (m *Model) VisibilityChanged() *event.Channel[*Model] { return m.visibilityChanged }

// mutate runs fn, or queues it when another mutation is in progress. Queued
// mutations run in request order once the outer one has returned; their
// errors cannot reach the requester and are logged.
func (m *Model) mutate(op string, fn func() error) error {
	if m.busy {
		m.logger.Debug("Queued nested mutation.", "op", op)
		m.pending = append(m.pending, mutation{op: op, fn: fn})
		return nil
	}

	m.busy = true
	defer func() {
		m.busy = false
		m.pending = nil
	}()

	err := m.run(op, fn)
	for len(m.pending) > 0 {
		next := m.pending[0]
		m.pending = m.pending[1:]
		if qerr := m.run(next.op, next.fn); qerr != nil {
			m.logger.Error("Queued mutation failed.", "op", next.op, "error", qerr)
		}
	}
	return err
}

func (m *Model) run(op string, fn func() error) error {
	if m.closed || m.group.Len() == 0 {
		m.logger.Debug("Dropped mutation on quiescent view.", "op", op, "closed", m.closed)
		m.metrics.ObserveDropped()
		return nil
	}
	return fn()
}

// onGroupChanged re-resolves the window and re-applies the selection against
// the new content of the group.
func (m *Model) onGroupChanged(*graph.Group) {
	err := m.mutate("group-changed", func() error {
		prev := m.visible
		m.visible = visibleOf(m.group.Snapshots(), m.hideDuplicates)
		if len(m.visible) == 0 {
			// Only hidden duplicates remain.
			m.hideDuplicates = false
			m.visible = visibleOf(m.group.Snapshots(), false)
		}
		m.logger.Debug("Group changed.", "visible", len(m.visible))

		if err := m.setWindow(Relocate(m.window, prev, m.visible)); err != nil {
			return err
		}
		m.applySelection(m.selected)
		return nil
	})
	if err != nil {
		panic(fmt.Errorf("failed to refresh view after group change: %w", err))
	}
}

// onFilterChainChanged rebuilds the diagram with the edited rules.
func (m *Model) onFilterChainChanged(*filter.Chain) {
	err := m.mutate("filter-chain-changed", func() error {
		if err := m.rebuild(); err != nil {
			return err
		}
		m.diagramChanged.Fire()
		return nil
	})
	if err != nil {
		panic(fmt.Errorf("failed to rebuild diagram after filter change: %w", err))
	}
}

// locate returns the visible index of s. A snapshot hidden as a duplicate is
// shown again by turning duplicate hiding off. Snapshots outside the group
// panic with ErrForeignSnapshot before any state changes.
func (m *Model) locate(s *graph.Snapshot) int {
	if err := checkSelectable(s); err != nil {
		panic(err)
	}
	if s.Group() != m.group {
		panic(fmt.Errorf("%w: %s is not in group %q", ErrForeignSnapshot, s, m.group.Name()))
	}
	i := slices.Index(m.visible, s)
	if i < 0 && m.hideDuplicates {
		m.logger.Debug("Selected snapshot is a hidden duplicate, showing duplicates.", "snapshot", s.String())
		m.hideDuplicates = false
		m.visible = visibleOf(m.group.Snapshots(), false)
		i = slices.Index(m.visible, s)
	}
	if i < 0 {
		panic(fmt.Errorf("%w: %s is not in group %q", ErrForeignSnapshot, s, m.group.Name()))
	}
	return i
}

// setWindow stores w and recomputes the current graph and the diagram.
func (m *Model) setWindow(w Window) error {
	m.window = w
	first := FirstSnapshot(m.visible, w)
	second := SecondSnapshot(m.visible, w)

	if first == second {
		m.current = first
	} else {
		m.current = m.diffs.CreateDiffGraph(first, second)
		m.metrics.ObserveDiff()
	}
	m.logger.Debug("Window moved.", "low", w.Low, "high", w.High, "range", w.IsRange(),
		"graph", m.current.String(), "graph_id", m.current.ID())

	if err := m.rebuild(); err != nil {
		return err
	}
	m.graphChanged.Fire()
	m.diagramChanged.Fire()
	return nil
}

func (m *Model) rebuild() error {
	d, err := m.builder.Rebuild(m.current)
	if err != nil {
		return err
	}
	m.diagram = d
	return nil
}

func (m *Model) applySelection(ids nodeid.Set) {
	m.selected = ids
	m.colors = ComputeColors(ids, m.visible)
	m.metrics.ObserveSelection()
	m.selectionChanged.Fire()
}

// SelectSingle selects s alone. A hidden duplicate is shown again first.
// Passing a snapshot of another group panics with ErrForeignSnapshot.
func (m *Model) SelectSingle(s *graph.Snapshot) error {
	return m.mutate("select-single", func() error {
		return m.selectAt(s, Single)
	})
}

// SelectForDiff moves one end of the window to s, keeping Low as the anchor
// unless s comes before it.
func (m *Model) SelectForDiff(s *graph.Snapshot) error {
	return m.mutate("select-for-diff", func() error {
		return m.selectAt(s, m.window.ExtendTo)
	})
}

// selectAt moves the window to the index of s. Colors are recomputed when
// locating s had to show duplicates again.
func (m *Model) selectAt(s *graph.Snapshot, window func(int) Window) error {
	before := len(m.visible)
	i := m.locate(s)
	if err := m.setWindow(window(i)); err != nil {
		return err
	}
	if len(m.visible) != before && m.colors != nil {
		m.applySelection(m.selected)
	}
	return nil
}

// SetWindow sets both ends of the window, as a range slider does.
func (m *Model) SetWindow(low, high int) error {
	return m.mutate("set-window", func() error {
		w := Window{Low: low, High: high}
		if err := w.Validate(len(m.visible)); err != nil {
			return err
		}
		for _, s := range []*graph.Snapshot{m.visible[low], m.visible[high]} {
			if err := checkSelectable(s); err != nil {
				panic(err)
			}
		}
		return m.setWindow(w)
	})
}

// SetHideDuplicates shows or hides duplicate snapshots. When hiding, a
// selected duplicate is first replaced by its nearest preceding original.
func (m *Model) SetHideDuplicates(hide bool) error {
	return m.mutate("set-hide-duplicates", func() error {
		target := m.visible[min(m.window.Low, len(m.visible)-1)]
		if hide {
			target, _ = ResolveUnhidden(m.group.Snapshots(), target)
		}
		m.hideDuplicates = hide
		m.visible = visibleOf(m.group.Snapshots(), hide)
		m.logger.Debug("Duplicate hiding toggled.", "hide", hide, "visible", len(m.visible))

		if err := m.setWindow(Single(m.locate(target))); err != nil {
			return err
		}
		m.applySelection(m.selected)
		return nil
	})
}

// SetSelectedNodes replaces the node selection and recomputes the colors of
// the visible sequence.
func (m *Model) SetSelectedNodes(ids nodeid.Set) {
	ids = ids.Clone()
	_ = m.mutate("set-selected-nodes", func() error {
		m.applySelection(ids)
		return nil
	})
}

// SetHiddenNodes replaces the set of hidden nodes.
func (m *Model) SetHiddenNodes(ids nodeid.Set) {
	ids = ids.Clone()
	_ = m.mutate("set-hidden-nodes", func() error {
		m.hidden = ids
		m.visibilityChanged.Fire()
		return nil
	})
}

// ShowFigures removes the nodes of figures from the hidden set.
func (m *Model) ShowFigures(figures []*diagram.Figure) {
	hidden := m.hidden.Clone()
	for _, f := range figures {
		hidden.Remove(f.ID())
	}
	m.SetHiddenNodes(hidden)
}

// ShowOnly hides every node of the group except ids.
func (m *Model) ShowOnly(ids nodeid.Set) {
	hidden := nodeid.NewSet()
	for _, id := range m.group.AllNodes() {
		if !ids.Has(id) {
			hidden.Add(id)
		}
	}
	m.SetHiddenNodes(hidden)
}

func (m *Model) setFlag(op string, flag *bool, v bool) {
	_ = m.mutate(op, func() error {
		*flag = v
		m.diagramChanged.Fire()
		return nil
	})
}

// SetShowSea toggles the sea-of-nodes display.
func (m *Model) SetShowSea(v bool) { m.setFlag("set-show-sea", &m.showSea, v) }

// SetShowBlocks toggles the clustered display.
func (m *Model) SetShowBlocks(v bool) { m.setFlag("set-show-blocks", &m.showBlocks, v) }

// SetShowCFG toggles the control-flow-graph display.
func (m *Model) SetShowCFG(v bool) { m.setFlag("set-show-cfg", &m.showCFG, v) }

// SetShowNodeHull toggles drawing hulls around node clusters.
func (m *Model) SetShowNodeHull(v bool) { m.setFlag("set-show-node-hull", &m.showNodeHull, v) }

// SetShowEmptyBlocks toggles drawing blocks without visible nodes.
func (m *Model) SetShowEmptyBlocks(v bool) { m.setFlag("set-show-empty-blocks", &m.showEmptyBlocks, v) }

func (m *Model) ShowSea() bool         { return m.showSea }
func (m *Model) ShowBlocks() bool      { return m.showBlocks }
func (m *Model) ShowCFG() bool         { return m.showCFG }
func (m *Model) ShowNodeHull() bool    { return m.showNodeHull }
func (m *Model) ShowEmptyBlocks() bool { return m.showEmptyBlocks }

// Group returns the group the view is bound to.
func (m *Model) Group() *graph.Group { return m.group }

// HideDuplicates reports whether duplicate snapshots are hidden.
func (m *Model) HideDuplicates() bool { return m.hideDuplicates }

// Visible returns a copy of the visible sequence.
func (m *Model) Visible() []*graph.Snapshot { return slices.Clone(m.visible) }

// Positions returns the names of the visible snapshots.
func (m *Model) Positions() []string {
	out := make([]string, len(m.visible))
	for i, s := range m.visible {
		out[i] = s.Name()
	}
	return out
}

// Window returns the current window.
func (m *Model) Window() Window { return m.window }

// FirstSnapshot returns the snapshot at the low end of the window.
func (m *Model) FirstSnapshot() *graph.Snapshot { return FirstSnapshot(m.visible, m.window) }

// SecondSnapshot returns the snapshot at the high end of the window.
func (m *Model) SecondSnapshot() *graph.Snapshot { return SecondSnapshot(m.visible, m.window) }

// Graph returns the current graph: a snapshot of the group or a diff snapshot.
func (m *Model) Graph() *graph.Snapshot { return m.current }

// Diagram returns the current diagram, drawn as a control-flow graph when
// ShowCFG is set.
func (m *Model) Diagram() *diagram.Diagram {
	if m.diagram != nil {
		m.diagram.SetCFG(m.showCFG)
	}
	return m.diagram
}

// SelectedNodes returns a copy of the node selection.
func (m *Model) SelectedNodes() nodeid.Set { return m.selected.Clone() }

// Colors returns the highlight of every visible position.
func (m *Model) Colors() []Highlight { return slices.Clone(m.colors) }

// HiddenNodes returns a copy of the hidden node set.
func (m *Model) HiddenNodes() nodeid.Set { return m.hidden.Clone() }

// SelectedFigures returns the figures of the current diagram whose node is selected.
func (m *Model) SelectedFigures() []*diagram.Figure {
	var out []*diagram.Figure
	if m.diagram == nil {
		return out
	}
	for _, f := range m.diagram.Figures() {
		if m.selected.Has(f.ID()) {
			out = append(out, f)
		}
	}
	return out
}

// Forward yields the visible snapshots after the low end of the window.
func (m *Model) Forward() iter.Seq[*graph.Snapshot] {
	visible, low := slices.Clone(m.visible), m.window.Low
	return func(yield func(*graph.Snapshot) bool) {
		for i := low + 1; i < len(visible); i++ {
			if !yield(visible[i]) {
				return
			}
		}
	}
}

// Backward yields the visible snapshots before the low end of the window,
// nearest first.
func (m *Model) Backward() iter.Seq[*graph.Snapshot] {
	visible, low := slices.Clone(m.visible), m.window.Low
	return func(yield func(*graph.Snapshot) bool) {
		for i := min(low, len(visible)) - 1; i >= 0; i-- {
			if !yield(visible[i]) {
				return
			}
		}
	}
}
