package testutil

import (
	"sync"

	"github.com/specialistvlad/graphview/internal/graph"
	"github.com/specialistvlad/graphview/internal/scheduler"
)

// CountingScheduler wraps a scheduler and counts its invocations.
type CountingScheduler struct {
	Next scheduler.Scheduler
	// Err, when set, is returned instead of calling Next.
	Err error

	mu    sync.Mutex
	calls []string
}

// Schedule implements scheduler.Scheduler.
func (c *CountingScheduler) Schedule(s *graph.Snapshot) error {
	c.mu.Lock()
	c.calls = append(c.calls, s.String())
	c.mu.Unlock()

	if c.Err != nil {
		return c.Err
	}
	if c.Next == nil {
		return nil
	}
	return c.Next.Schedule(s)
}

// Calls returns the names of the snapshots scheduled so far.
func (c *CountingScheduler) Calls() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.calls))
	copy(out, c.calls)
	return out
}

// EventLog records notification names in delivery order.
type EventLog struct {
	mu     sync.Mutex
	events []string
}

// Record returns a listener that appends name on every notification.
func Record[T any](l *EventLog, name string) func(T) {
	return func(T) {
		l.mu.Lock()
		defer l.mu.Unlock()
		l.events = append(l.events, name)
	}
}

// Events returns the recorded names.
func (l *EventLog) Events() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.events))
	copy(out, l.events)
	return out
}

// Reset forgets everything recorded so far.
func (l *EventLog) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = nil
}
