// Package viewmodel is the interactive model behind a graph view: it manages
// the snapshots of one group, the window selecting one snapshot or a pair to
// compare, the node selection propagated across the whole sequence, and the
// rebuild of the diagram shown for the current graph.
//
// # Why Model Exists
//
// A group holds every phase captured during one compilation. Users step
// through the phases, compare two of them, hide phases that are duplicates
// of their predecessor and follow a node through the pipeline. Model keeps
// these concerns consistent with each other:
//
//   - the visible sequence is recomputed when duplicates are hidden or the
//     group changes;
//   - the window always points into the visible sequence (Low <= High);
//   - the current graph is the snapshot at the window, or a diff snapshot
//     when the window spans two different snapshots;
//   - the diagram is rebuilt from scratch whenever the current graph or one
//     of the filter chains changes.
//
// # Notifications
//
// Four independent channels report changes: DiagramChanged, GraphChanged,
// SelectionChanged and VisibilityChanged. Delivery is synchronous. A window
// move fires GraphChanged, then DiagramChanged.
//
// A listener may call back into the model. Such nested mutations are queued
// and run, in request order, once the outer mutation and all of its
// notifications are done, so listeners never observe a half-updated model.
//
// # Lifecycle
//
// Model subscribes to its group and to both filter chains. These are shared,
// longer-lived objects: Close must be called when the view goes away. When
// the group becomes empty the model turns quiescent and drops mutations until
// it is closed.
//
// Model is not safe for concurrent use.
package viewmodel
