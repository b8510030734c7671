// Package dag provides a small, concurrency-safe directed graph keyed by node
// id. The scheduler uses it as an adjacency index over a snapshot's edges:
// predecessor/successor lookups, cycle detection and a deterministic
// topological order for acyclic inputs.
package dag
