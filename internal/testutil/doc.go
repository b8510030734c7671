// Package testutil holds helpers shared by package tests: a captured logger,
// compact builders for groups and snapshots, and recording collaborators.
package testutil
