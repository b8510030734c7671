package viewmodel

import (
	"context"
	"errors"
	"math/rand"
	"slices"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/specialistvlad/graphview/internal/config"
	"github.com/specialistvlad/graphview/internal/diagram"
	"github.com/specialistvlad/graphview/internal/filter"
	"github.com/specialistvlad/graphview/internal/graph"
	"github.com/specialistvlad/graphview/internal/node"
	"github.com/specialistvlad/graphview/internal/nodeid"
	"github.com/specialistvlad/graphview/internal/scheduler"
	"github.com/specialistvlad/graphview/internal/telemetry"
	tu "github.com/specialistvlad/graphview/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixture is an open model over a group of snapshots s0..sN.
type fixture struct {
	m         *Model
	group     *graph.Group
	snapshots []*graph.Snapshot
	primary   *filter.Chain
	sequence  *filter.Chain
	events    *tu.EventLog
	logs      *tu.SafeBuffer
}

// newFixture opens a model on snapshots[start] and records its notifications.
func newFixture(t *testing.T, snapshots []*graph.Snapshot, start int, opts ...Option) *fixture {
	t.Helper()
	ctx, logs := tu.LoggerContext()
	f := &fixture{
		group:     tu.Group(t, snapshots...),
		snapshots: snapshots,
		primary:   filter.NewChain(config.ChainPrimary),
		sequence:  filter.NewChain(config.ChainSequence),
		events:    &tu.EventLog{},
		logs:      logs,
	}

	m, err := New(ctx, snapshots[start], f.primary, f.sequence, opts...)
	require.NoError(t, err)
	t.Cleanup(m.Close)
	f.m = m

	m.GraphChanged().Subscribe(tu.Record[*Model](f.events, "graph"))
	m.DiagramChanged().Subscribe(tu.Record[*Model](f.events, "diagram"))
	m.SelectionChanged().Subscribe(tu.Record[*Model](f.events, "selection"))
	m.VisibilityChanged().Subscribe(tu.Record[*Model](f.events, "visibility"))
	return f
}

// phases creates n snapshots named s0..s(n-1). Node 1 is identical in all of
// them; node 2 changes in every phase.
func phases(n int) []*graph.Snapshot {
	out := make([]*graph.Snapshot, n)
	for i := range out {
		out[i] = tu.Snapshot("s"+string(rune('0'+i)),
			tu.N(1, node.PropName, "Start"),
			tu.N(2, node.PropName, "Add", "phase", string(rune('0'+i))),
		)
	}
	return out
}

func TestNew_SelectsStart(t *testing.T) {
	s := phases(3)
	f := newFixture(t, s, 1)

	assert.Equal(t, Single(1), f.m.Window())
	assert.Same(t, s[1], f.m.Graph())
	assert.Same(t, s[1], f.m.FirstSnapshot())
	assert.Same(t, s[1], f.m.SecondSnapshot())
	require.NotNil(t, f.m.Diagram())
	assert.Same(t, s[1], f.m.Diagram().Graph())
	assert.Same(t, f.group, f.m.Group())
	assert.Equal(t, []string{"s0", "s1", "s2"}, f.m.Positions())
	assert.Equal(t, []Highlight{None, None, None}, f.m.Colors())
	assert.Contains(t, f.logs.String(), "View opened.")
}

func TestNew_RejectsBadArguments(t *testing.T) {
	ctx := context.Background()
	primary, sequence := filter.NewChain("p"), filter.NewChain("s")

	_, err := New(ctx, nil, primary, sequence)
	assert.ErrorContains(t, err, "start snapshot is required")

	_, err = New(ctx, tu.Snapshot("detached"), primary, sequence)
	assert.ErrorIs(t, err, ErrForeignSnapshot)

	g := tu.Group(t, phases(1)...)
	_, err = New(ctx, g.Snapshots()[0], nil, sequence)
	assert.ErrorContains(t, err, "both filter chains are required")
}

func TestNew_MissingSchedulerIsFatal(t *testing.T) {
	g := tu.Group(t, phases(2)...)
	primary, sequence := filter.NewChain("p"), filter.NewChain("s")

	_, err := New(context.Background(), g.Snapshots()[0], primary, sequence, WithScheduler(nil))
	require.ErrorIs(t, err, ErrSchedulerMissing)

	assert.Zero(t, g.Changed().Len(), "failed construction releases the group")
	assert.Zero(t, primary.Changed().Len())
	assert.Zero(t, sequence.Changed().Len())
}

func TestNew_NestedDiffStartReleasesCollaborators(t *testing.T) {
	a := tu.Snapshot("a", tu.N(1, "p", "1"))
	b := tu.Snapshot("b", tu.N(1, "p", "2"))
	inner := graph.NewDiffSnapshot("inner", a, b)
	nested := graph.NewDiffSnapshot("nested", inner, b)
	g := tu.Group(t, a, b, inner, nested)
	primary, sequence := filter.NewChain("p"), filter.NewChain("s")

	m, err := New(context.Background(), nested, primary, sequence)
	require.ErrorIs(t, err, ErrNestedDiff)
	assert.Nil(t, m)

	assert.Zero(t, g.Changed().Len())
	assert.Zero(t, primary.Changed().Len())
	assert.Zero(t, sequence.Changed().Len())
}

func TestNew_PanicDuringSelectionReleasesCollaborators(t *testing.T) {
	g := tu.Group(t, phases(2)...)
	primary, sequence := filter.NewChain("p"), filter.NewChain("s")
	boom := errors.New("boom")

	require.PanicsWithValue(t, boom, func() {
		_, _ = New(context.Background(), g.Snapshots()[0], primary, sequence,
			WithScheduler(panickingScheduler{boom}))
	})

	assert.Zero(t, g.Changed().Len())
	assert.Zero(t, primary.Changed().Len())
	assert.Zero(t, sequence.Changed().Len())
}

type panickingScheduler struct{ v any }

func (p panickingScheduler) Schedule(*graph.Snapshot) error { panic(p.v) }

func TestSetWindow_LogsStableDiffID(t *testing.T) {
	s := phases(3)
	f := newFixture(t, s, 0)

	require.NoError(t, f.m.SetWindow(0, 2))
	first := f.m.Graph()
	require.NoError(t, f.m.SelectSingle(s[1]))
	require.NoError(t, f.m.SetWindow(0, 2))

	assert.NotSame(t, first, f.m.Graph(), "the diff graph is recomputed")
	assert.Equal(t, first.ID(), f.m.Graph().ID())
	assert.Equal(t, graph.DiffID(s[0], s[2]), f.m.Graph().ID())
	assert.Contains(t, f.logs.String(), "graph_id="+graph.DiffID(s[0], s[2]))
	assert.Contains(t, f.logs.String(), "snapshot_id="+s[0].ID())
}

func TestSelectSingle_FiresGraphThenDiagram(t *testing.T) {
	s := phases(3)
	f := newFixture(t, s, 0)

	require.NoError(t, f.m.SelectSingle(s[2]))
	assert.Equal(t, Single(2), f.m.Window())
	assert.Same(t, s[2], f.m.Graph())
	assert.Equal(t, []string{"graph", "diagram"}, f.events.Events())
}

func TestSelectSingle_ForeignSnapshotPanics(t *testing.T) {
	f := newFixture(t, phases(2), 0)
	tu.RequirePanicsWithError(t, ErrForeignSnapshot, func() {
		_ = f.m.SelectSingle(tu.Snapshot("elsewhere"))
	})
	tu.RequirePanicsWithError(t, ErrForeignSnapshot, func() {
		_ = f.m.SelectForDiff(tu.Snapshot("elsewhere"))
	})

	// The model stays usable after a rejected selection.
	require.NoError(t, f.m.SelectSingle(f.snapshots[1]))
	assert.Equal(t, Single(1), f.m.Window())
}

func TestSelectSingle_ForeignSnapshotLeavesHiddenDuplicatesAlone(t *testing.T) {
	s := dupPhases()
	f := newFixture(t, s, 0)
	require.NoError(t, f.m.SetHideDuplicates(true))
	require.NoError(t, f.m.SelectSingle(s[3]))
	f.events.Reset()

	tu.RequirePanicsWithError(t, ErrForeignSnapshot, func() {
		_ = f.m.SelectSingle(tu.Snapshot("elsewhere"))
	})
	foreign := tu.Group(t, tu.Snapshot("other group"))
	tu.RequirePanicsWithError(t, ErrForeignSnapshot, func() {
		_ = f.m.SelectForDiff(foreign.Snapshots()[0])
	})

	assert.True(t, f.m.HideDuplicates())
	assert.Equal(t, []string{"s0", "s3"}, f.m.Positions())
	assert.Equal(t, Single(1), f.m.Window())
	assert.Same(t, s[3], f.m.FirstSnapshot())
	assert.Same(t, s[3], f.m.Graph())
	assert.Len(t, f.m.Colors(), len(f.m.Visible()))
	assert.Empty(t, f.events.Events())
}

func TestSelectForDiff_AnchorsLow(t *testing.T) {
	s := phases(4)
	f := newFixture(t, s, 1)

	require.NoError(t, f.m.SelectForDiff(s[0]))
	assert.Equal(t, Window{Low: 0, High: 1}, f.m.Window(), "index below the anchor moves low")

	require.NoError(t, f.m.SelectSingle(s[1]))
	require.NoError(t, f.m.SelectForDiff(s[3]))
	assert.Equal(t, Window{Low: 1, High: 3}, f.m.Window(), "index at or above the anchor moves high")

	g := f.m.Graph()
	require.True(t, g.IsDiff())
	assert.Same(t, s[1], g.First())
	assert.Same(t, s[3], g.Second())
	assert.Same(t, g, f.m.Diagram().Graph())

	// Node 2 changed between the two phases, node 1 did not.
	colors := figureColors(f.m.Diagram())
	assert.Equal(t, string(diagram.White), colors[1])
	assert.Equal(t, string(diagram.Orange), colors[2])
}

func TestSelectForDiff_SameSnapshotIsSingleGraph(t *testing.T) {
	s := phases(2)
	f := newFixture(t, s, 1)

	require.NoError(t, f.m.SelectForDiff(s[1]))
	assert.Same(t, s[1], f.m.Graph(), "identical endpoints bypass the diff service")
}

func TestSetWindow(t *testing.T) {
	s := phases(3)
	f := newFixture(t, s, 0)

	require.NoError(t, f.m.SetWindow(0, 2))
	assert.True(t, f.m.Graph().IsDiff())

	assert.ErrorIs(t, f.m.SetWindow(2, 1), ErrInvalidWindow)
	assert.ErrorIs(t, f.m.SetWindow(0, 3), ErrInvalidWindow)
	assert.Equal(t, Window{Low: 0, High: 2}, f.m.Window(), "rejected windows leave the model untouched")
}

func TestWindowInvariant_RandomOperations(t *testing.T) {
	s := phases(6)
	tu.Duplicate(s[2])
	tu.Duplicate(s[3])
	f := newFixture(t, s, 0)

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 300; i++ {
		target := s[rng.Intn(len(s))]
		switch rng.Intn(3) {
		case 0:
			require.NoError(t, f.m.SelectSingle(target))
		case 1:
			require.NoError(t, f.m.SelectForDiff(target))
		default:
			require.NoError(t, f.m.SetHideDuplicates(rng.Intn(2) == 0))
		}
		require.NoError(t, f.m.Window().Validate(len(f.m.Visible())), "after step %d", i)
	}
}

// dupPhases creates s0..s3 where s1 and s2 duplicate s0.
func dupPhases() []*graph.Snapshot {
	s := phases(4)
	tu.Duplicate(s[1])
	tu.Duplicate(s[2])
	return s
}

func TestHideDuplicates(t *testing.T) {
	t.Run("selected duplicate backs up to its original", func(t *testing.T) {
		s := dupPhases()
		f := newFixture(t, s, 2)
		require.NoError(t, f.m.SetHideDuplicates(true))
		assert.True(t, f.m.HideDuplicates())
		assert.Equal(t, []string{"s0", "s3"}, f.m.Positions())
		assert.Same(t, s[0], f.m.Graph())
		assert.Equal(t, Single(0), f.m.Window())
		assert.Equal(t, []string{"graph", "diagram", "selection"}, f.events.Events())
	})

	t.Run("toggle round trip keeps the current snapshot", func(t *testing.T) {
		s := dupPhases()
		f := newFixture(t, s, 3)
		require.NoError(t, f.m.SetHideDuplicates(true))
		current := f.m.FirstSnapshot()

		require.NoError(t, f.m.SetHideDuplicates(false))
		assert.Same(t, current, f.m.FirstSnapshot())
		assert.Equal(t, Single(3), f.m.Window())

		require.NoError(t, f.m.SetHideDuplicates(true))
		assert.Same(t, current, f.m.FirstSnapshot())
		assert.Equal(t, Single(1), f.m.Window())
	})

	t.Run("selecting a hidden duplicate shows duplicates again", func(t *testing.T) {
		s := dupPhases()
		f := newFixture(t, s, 0)
		require.NoError(t, f.m.SetHideDuplicates(true))

		require.NoError(t, f.m.SelectSingle(s[1]))
		assert.False(t, f.m.HideDuplicates())
		assert.Equal(t, Single(1), f.m.Window())
		assert.Len(t, f.m.Visible(), 4)
	})
}

func TestScheduler_CalledOncePerUnscheduledSnapshot(t *testing.T) {
	s := phases(2)
	s[1].AddBlock("B0")
	require.NoError(t, s[1].SetBlock(1, "B0"))
	require.NoError(t, s[1].SetBlock(2, "B0"))

	sched := &tu.CountingScheduler{Next: scheduler.New(context.Background())}
	f := newFixture(t, s, 0, WithScheduler(sched))
	assert.Equal(t, []string{"s0"}, sched.Calls())

	require.NoError(t, f.m.SelectSingle(s[0]))
	require.NoError(t, f.m.SelectSingle(s[1]))
	assert.Equal(t, []string{"s0"}, sched.Calls(), "scheduled snapshots are not scheduled again")
}

func TestFilterChainChange_RebuildsUntilClosed(t *testing.T) {
	f := newFixture(t, phases(2), 0)
	before := f.m.Diagram()

	f.primary.Add(filter.NewColorFilter("adds",
		filter.Rule{Selector: filter.MustMatchProperty(node.PropName, "Add"), Color: diagram.Red},
	))
	assert.Equal(t, []string{"diagram"}, f.events.Events())
	assert.NotSame(t, before, f.m.Diagram(), "diagram is replaced, not edited")
	assert.Equal(t, string(diagram.Red), figureColors(f.m.Diagram())[2])

	f.sequence.Clear()
	assert.Equal(t, []string{"diagram", "diagram"}, f.events.Events())

	f.m.Close()
	assert.True(t, f.m.Closed())
	assert.Zero(t, f.primary.Changed().Len())
	assert.Zero(t, f.sequence.Changed().Len())
	assert.Zero(t, f.group.Changed().Len())

	f.primary.Clear()
	assert.Len(t, f.events.Events(), 2, "closed views are not notified")
	assert.NotPanics(t, f.m.Close)
}

func TestFilterChainChange_MissingSchedulerPanics(t *testing.T) {
	s := phases(2)
	for _, snap := range s {
		snap.AddBlock("B0")
		require.NoError(t, snap.SetBlock(1, "B0"))
		require.NoError(t, snap.SetBlock(2, "B0"))
	}
	f := newFixture(t, s, 0, WithScheduler(nil))

	// A diff snapshot has no blocks and cannot be displayed.
	assert.ErrorIs(t, f.m.SelectForDiff(s[1]), ErrSchedulerMissing)

	tu.RequirePanicsWithError(t, ErrSchedulerMissing, func() {
		f.primary.Clear()
	})
}

func TestGroupChange(t *testing.T) {
	t.Run("removal relocates the window", func(t *testing.T) {
		s := phases(3)
		f := newFixture(t, s, 2)
		f.m.SetSelectedNodes(nodeid.NewSet(2))
		f.events.Reset()

		require.True(t, f.group.Remove(s[1]))
		assert.Equal(t, Single(1), f.m.Window())
		assert.Same(t, s[2], f.m.Graph())
		assert.Equal(t, []Highlight{Green, Orange}, f.m.Colors())
		assert.Equal(t, []string{"graph", "diagram", "selection"}, f.events.Events())

		require.True(t, f.group.Remove(s[2]))
		assert.Equal(t, Single(0), f.m.Window(), "removed selection is clamped")
		assert.Same(t, s[0], f.m.Graph())
	})

	t.Run("addition extends the colors", func(t *testing.T) {
		s := phases(2)
		f := newFixture(t, s, 0)
		f.m.SetSelectedNodes(nodeid.NewSet(1))

		require.NoError(t, f.group.Add(tu.Snapshot("late", tu.N(1, node.PropName, "Start"))))
		assert.Equal(t, []Highlight{Green, White, White}, f.m.Colors())
		assert.Equal(t, Single(0), f.m.Window())
	})

	t.Run("emptied group turns the view quiescent", func(t *testing.T) {
		s := phases(2)
		metrics, err := telemetry.New(prometheus.NewRegistry())
		require.NoError(t, err)
		f := newFixture(t, s, 1, WithMetrics(metrics))
		f.events.Reset()

		require.True(t, f.group.Remove(s...))
		f.m.SetSelectedNodes(nodeid.NewSet(1))
		require.NoError(t, f.m.SelectSingle(s[0]), "dropped, not rejected")

		assert.Empty(t, f.events.Events())
		assert.Empty(t, f.m.SelectedNodes())
		assert.Equal(t, Single(1), f.m.Window())

		dropped, ok := metrics.Counter(telemetry.DroppedMutationsTotal)
		require.True(t, ok)
		assert.Equal(t, 3.0, testutil.ToFloat64(dropped))
		assert.Contains(t, f.logs.String(), "Dropped mutation on quiescent view.")
	})
}

func TestNestedMutationsAreQueued(t *testing.T) {
	s := phases(3)
	f := newFixture(t, s, 0)

	type observation struct {
		event string
		graph string
	}
	var seen []observation
	nested := false
	f.m.GraphChanged().Subscribe(func(m *Model) {
		seen = append(seen, observation{"graph", m.Graph().Name()})
		if !nested {
			nested = true
			require.NoError(t, m.SelectSingle(s[2]))
			assert.Same(t, s[1], m.Graph(), "nested mutation has not run yet")
		}
	})
	f.m.DiagramChanged().Subscribe(func(m *Model) {
		seen = append(seen, observation{"diagram", m.Diagram().Graph().Name()})
	})

	require.NoError(t, f.m.SelectSingle(s[1]))
	assert.Equal(t, []observation{
		{"graph", "s1"},
		{"diagram", "s1"},
		{"graph", "s2"},
		{"diagram", "s2"},
	}, seen)
	assert.Same(t, s[2], f.m.Graph())
}

func TestSelection(t *testing.T) {
	s := phases(3)
	f := newFixture(t, s, 0)

	ids := nodeid.NewSet(2, 99)
	f.m.SetSelectedNodes(ids)
	ids.Add(1)

	assert.Equal(t, []string{"selection"}, f.events.Events())
	assert.Equal(t, nodeid.NewSet(2, 99), f.m.SelectedNodes(), "the model keeps its own copy")
	assert.Equal(t, []Highlight{Green, Orange, Orange}, f.m.Colors())

	figs := f.m.SelectedFigures()
	require.Len(t, figs, 1)
	assert.Equal(t, 2, figs[0].ID())
}

func TestVisibility(t *testing.T) {
	s := phases(2)
	s[1].AddNode(tu.N(3))
	f := newFixture(t, s, 0)

	f.m.SetHiddenNodes(nodeid.NewSet(1, 2))
	assert.Equal(t, nodeid.NewSet(1, 2), f.m.HiddenNodes())

	fig, ok := f.m.Diagram().Figure(1)
	require.True(t, ok)
	f.m.ShowFigures([]*diagram.Figure{fig})
	assert.Equal(t, nodeid.NewSet(2), f.m.HiddenNodes())

	f.m.ShowOnly(nodeid.NewSet(2))
	assert.Equal(t, nodeid.NewSet(1, 3), f.m.HiddenNodes(), "hides every other node of the group")

	assert.Equal(t, []string{"visibility", "visibility", "visibility"}, f.events.Events())
}

func TestDisplayFlags(t *testing.T) {
	settings := config.DefaultSettings()
	settings.DefaultView = config.ControlFlowGraph
	f := newFixture(t, phases(1), 0, WithSettings(settings))

	assert.False(t, f.m.ShowSea())
	assert.False(t, f.m.ShowBlocks())
	assert.True(t, f.m.ShowCFG())
	assert.True(t, f.m.ShowNodeHull())
	assert.True(t, f.m.ShowEmptyBlocks())
	assert.True(t, f.m.Diagram().IsCFG())

	f.m.SetShowCFG(false)
	f.m.SetShowSea(true)
	f.m.SetShowBlocks(true)
	f.m.SetShowNodeHull(false)
	f.m.SetShowEmptyBlocks(false)

	assert.False(t, f.m.Diagram().IsCFG())
	assert.True(t, f.m.ShowSea())
	assert.True(t, f.m.ShowBlocks())
	assert.False(t, f.m.ShowNodeHull())
	assert.False(t, f.m.ShowEmptyBlocks())
	assert.Equal(t, slices.Repeat([]string{"diagram"}, 5), f.events.Events())
}

func TestForwardBackward(t *testing.T) {
	s := phases(4)
	f := newFixture(t, s, 1)

	assert.Equal(t, []*graph.Snapshot{s[2], s[3]}, slices.Collect(f.m.Forward()))
	assert.Equal(t, []*graph.Snapshot{s[0]}, slices.Collect(f.m.Backward()))

	require.NoError(t, f.m.SelectSingle(s[3]))
	assert.Empty(t, slices.Collect(f.m.Forward()))
	assert.Equal(t, []*graph.Snapshot{s[2], s[1], s[0]}, slices.Collect(f.m.Backward()))

	for range f.m.Backward() {
		break
	}
}

func TestDiffSnapshotsInTheGroup(t *testing.T) {
	a := tu.Snapshot("a", tu.N(1, "p", "1"))
	b := tu.Snapshot("b", tu.N(1, "p", "2"))
	f := newFixture(t, []*graph.Snapshot{a, b}, 0)

	ab := graph.NewDiffSnapshot("a, b", a, b)
	nested := graph.NewDiffSnapshot("nested", ab, b)
	require.NoError(t, f.group.Add(ab, nested))

	require.NoError(t, f.m.SelectSingle(ab))
	g := f.m.Graph()
	require.True(t, g.IsDiff())
	assert.NotSame(t, ab, g)
	assert.Same(t, a, g.First(), "a stored diff is unwrapped into its inputs")
	assert.Same(t, b, g.Second())

	tu.RequirePanicsWithError(t, ErrNestedDiff, func() {
		_ = f.m.SelectSingle(nested)
	})
	assert.Same(t, g, f.m.Graph(), "rejected selection leaves the model untouched")
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics, err := telemetry.New(reg)
	require.NoError(t, err)

	s := phases(3)
	f := newFixture(t, s, 0, WithMetrics(metrics))
	require.NoError(t, f.m.SelectForDiff(s[2]))
	f.m.SetSelectedNodes(nodeid.NewSet(1))

	got := metrics.Snapshot()
	assert.Equal(t, 2.0, got[telemetry.RebuildsTotal])
	assert.Equal(t, 2.0, got[telemetry.SchedulerCallsTotal], "start snapshot and diff snapshot")
	assert.Equal(t, 1.0, got[telemetry.DiffGraphsTotal])
	assert.Equal(t, 1.0, got[telemetry.SelectionChangesTotal])
	assert.Zero(t, got[telemetry.DroppedMutationsTotal])
}
