package viewmodel

import "errors"

var (
	// ErrForeignSnapshot reports a snapshot that does not belong to the
	// model's group. Selecting one is a programming error and panics.
	ErrForeignSnapshot = errors.New("snapshot does not belong to the group")

	// ErrNestedDiff reports a diff snapshot built from another diff snapshot.
	// Selecting one is a programming error and panics.
	ErrNestedDiff = errors.New("nested diff snapshots are not supported")

	// ErrSchedulerMissing reports that a snapshot without blocks had to be
	// displayed but no scheduler was configured.
	ErrSchedulerMissing = errors.New("no scheduler configured")

	// ErrInvalidWindow reports window bounds outside the visible sequence.
	ErrInvalidWindow = errors.New("invalid window")
)
