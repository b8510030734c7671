package app

import (
	"context"
	"fmt"

	"github.com/specialistvlad/graphview/internal/ctxlog"
	"github.com/specialistvlad/graphview/internal/sample"
	"github.com/specialistvlad/graphview/internal/scheduler"
	"github.com/specialistvlad/graphview/internal/viewmodel"
)

// Run executes the main application logic based on the app's configuration.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.With(ctxlog.WithLogger(ctx, a.logger), "seed", a.config.Seed)
	a.logger.Debug("App.Run method started.")

	group, err := sample.Generate(ctx, sample.Options{
		Phases:        a.config.Phases,
		Nodes:         a.config.NodeCount,
		Seed:          a.config.Seed,
		DuplicateRate: a.config.DuplicateRate,
	})
	if err != nil {
		return fmt.Errorf("failed to generate snapshots: %w", err)
	}
	a.logger.Debug("Snapshot group ready.", "group", group.Name(), "snapshots", group.Len())

	primary, sequence, err := buildChains(a.model.Filters)
	if err != nil {
		return fmt.Errorf("failed to build filter chains: %w", err)
	}

	snapshots := group.Snapshots()
	view, err := viewmodel.New(ctx, snapshots[a.config.Select], primary, sequence,
		viewmodel.WithScheduler(scheduler.New(ctx)),
		viewmodel.WithSettings(a.model.Settings),
		viewmodel.WithMetrics(a.metrics),
	)
	if err != nil {
		return fmt.Errorf("failed to open view: %w", err)
	}
	defer view.Close()

	if a.config.HideDuplicates {
		if err := view.SetHideDuplicates(true); err != nil {
			return fmt.Errorf("failed to hide duplicates: %w", err)
		}
	}
	if a.config.Diff != NoDiff {
		if err := view.SelectForDiff(snapshots[a.config.Diff]); err != nil {
			return fmt.Errorf("failed to select comparison: %w", err)
		}
	}
	if a.config.Selection.Len() > 0 {
		view.SetSelectedNodes(a.config.Selection)
	}

	if err := writeReport(a.outW, view); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	a.logger.Debug("Metrics collected.", "metrics", a.metrics.Snapshot())
	a.logger.Debug("App.Run method finished.")
	return nil
}
