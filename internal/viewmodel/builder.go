package viewmodel

import (
	"fmt"
	"log/slog"

	"github.com/charmbracelet/lipgloss"
	"github.com/specialistvlad/graphview/internal/config"
	"github.com/specialistvlad/graphview/internal/diagram"
	"github.com/specialistvlad/graphview/internal/difference"
	"github.com/specialistvlad/graphview/internal/filter"
	"github.com/specialistvlad/graphview/internal/graph"
	"github.com/specialistvlad/graphview/internal/node"
	"github.com/specialistvlad/graphview/internal/scheduler"
	"github.com/specialistvlad/graphview/internal/telemetry"
)

// Builder turns a snapshot into a filtered diagram.
type Builder struct {
	logger    *slog.Logger
	scheduler scheduler.Scheduler
	primary   FilterChain
	sequence  FilterChain
	settings  config.Settings
	metrics   *telemetry.Metrics
}

// NewBuilder creates a builder. sched may be nil as long as every snapshot
// it is given already has blocks.
func NewBuilder(logger *slog.Logger, sched scheduler.Scheduler, primary, sequence FilterChain, settings config.Settings, metrics *telemetry.Metrics) *Builder {
	return &Builder{
		logger:    logger,
		scheduler: sched,
		primary:   primary,
		sequence:  sequence,
		settings:  settings,
		metrics:   metrics,
	}
}

// diffOverlay colors the nodes of a diff snapshot by their diff state.
var diffOverlay = filter.NewColorFilter("diff-state",
	stateColorRule(difference.StateSame, diagram.White),
	stateColorRule(difference.StateChanged, diagram.Orange),
	stateColorRule(difference.StateNew, diagram.Green),
	stateColorRule(difference.StateDeleted, diagram.Red),
)

func stateColorRule(state string, color lipgloss.Color) filter.Rule {
	return filter.Rule{Selector: filter.MustMatchProperty(node.PropState, state), Color: color}
}

// Rebuild schedules g if it has no blocks yet, builds its diagram and applies
// the primary chain, the sequence chain and, for diff snapshots, the diff
// state overlay, in that order.
func (b *Builder) Rebuild(g *graph.Snapshot) (*diagram.Diagram, error) {
	if len(g.Blocks()) == 0 {
		if b.scheduler == nil {
			return nil, fmt.Errorf("cannot display snapshot %s: %w", g, ErrSchedulerMissing)
		}
		b.logger.Debug("Scheduling snapshot.", "snapshot", g.String(), "snapshot_id", g.ID(), "nodes", g.Len())
		g.ClearBlocks()
		b.metrics.ObserveSchedule()
		if err := b.scheduler.Schedule(g); err != nil {
			return nil, fmt.Errorf("failed to schedule snapshot %s: %w", g, err)
		}
		g.EnsureNodesInBlocks()
	}

	d := diagram.New(g, b.settings.NodeText, b.settings.NodeShortText, b.settings.NodeTinyText)
	b.primary.Apply(d)
	b.sequence.Apply(d)
	if g.IsDiff() {
		diffOverlay.Apply(d)
	}

	b.metrics.ObserveRebuild()
	b.logger.Debug("Diagram rebuilt.", "snapshot", g.String(), "snapshot_id", g.ID(), "figures", len(d.Figures()))
	return d, nil
}
