// Package telemetry provides opt-in prometheus counters for view-model
// activity. A nil *Metrics is valid and records nothing, so callers never
// need to check whether telemetry is enabled.
package telemetry

import (
	"fmt"
	"sort"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// Metric names.
const (
	RebuildsTotal         = "graphview_diagram_rebuilds_total"
	SchedulerCallsTotal   = "graphview_scheduler_calls_total"
	DiffGraphsTotal       = "graphview_diff_graphs_total"
	SelectionChangesTotal = "graphview_selection_changes_total"
	DroppedMutationsTotal = "graphview_dropped_mutations_total"
)

// Metrics groups the counters of one viewer process. Counters are global
// only: no labels, no per-snapshot cardinality.
type Metrics struct {
	counters map[string]prometheus.Counter
}

// New creates the counters and registers them on reg.
func New(reg prometheus.Registerer) (*Metrics, error) {
	help := map[string]string{
		RebuildsTotal:         "Total diagrams rebuilt from the current graph",
		SchedulerCallsTotal:   "Total snapshots handed to the block scheduler",
		DiffGraphsTotal:       "Total diff snapshots created for a comparison window",
		SelectionChangesTotal: "Total node selection updates, including re-applications after group changes",
		DroppedMutationsTotal: "Total mutations dropped because the group was empty or the view was closed",
	}

	m := &Metrics{counters: make(map[string]prometheus.Counter, len(help))}
	for _, name := range sortedKeys(help) {
		c := prometheus.NewCounter(prometheus.CounterOpts{Name: name, Help: help[name]})
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register metric %s: %w", name, err)
		}
		m.counters[name] = c
	}
	return m, nil
}

func (m *Metrics) inc(name string) {
	if m == nil {
		return
	}
	m.counters[name].Inc()
}

// ObserveRebuild counts one diagram rebuild.
func (m *Metrics) ObserveRebuild() { m.inc(RebuildsTotal) }

// ObserveSchedule counts one scheduler invocation.
func (m *Metrics) ObserveSchedule() { m.inc(SchedulerCallsTotal) }

// ObserveDiff counts one diff snapshot.
func (m *Metrics) ObserveDiff() { m.inc(DiffGraphsTotal) }

// ObserveSelection counts one selection update.
func (m *Metrics) ObserveSelection() { m.inc(SelectionChangesTotal) }

// ObserveDropped counts one dropped mutation.
func (m *Metrics) ObserveDropped() { m.inc(DroppedMutationsTotal) }

// Counter returns the named counter, for tests and exporters.
func (m *Metrics) Counter(name string) (prometheus.Counter, bool) {
	if m == nil {
		return nil, false
	}
	c, ok := m.counters[name]
	return c, ok
}

// Snapshot returns the current counter values keyed by metric name, for
// logging at shutdown.
func (m *Metrics) Snapshot() map[string]float64 {
	out := make(map[string]float64)
	if m == nil {
		return out
	}
	for name, c := range m.counters {
		var pb dto.Metric
		if err := c.Write(&pb); err != nil {
			continue
		}
		out[name] = pb.GetCounter().GetValue()
	}
	return out
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
