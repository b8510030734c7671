package viewmodel

import (
	"github.com/specialistvlad/graphview/internal/config"
	"github.com/specialistvlad/graphview/internal/scheduler"
	"github.com/specialistvlad/graphview/internal/telemetry"
)

// Option configures a Model.
type Option func(*options)

type options struct {
	scheduler    scheduler.Scheduler
	schedulerSet bool
	diffs        DiffService
	settings     config.Settings
	metrics      *telemetry.Metrics
}

// WithScheduler replaces the default block scheduler. Passing nil leaves the
// model without one, and displaying an unscheduled snapshot then fails with
// ErrSchedulerMissing.
func WithScheduler(s scheduler.Scheduler) Option {
	return func(o *options) {
		o.scheduler = s
		o.schedulerSet = true
	}
}

// WithDiffService replaces the default diff service.
func WithDiffService(d DiffService) Option {
	return func(o *options) { o.diffs = d }
}

// WithSettings replaces the default settings.
func WithSettings(s config.Settings) Option {
	return func(o *options) { o.settings = s }
}

// WithMetrics records activity on m.
func WithMetrics(m *telemetry.Metrics) Option {
	return func(o *options) { o.metrics = m }
}
