package engine

import "github.com/danieljhkim/stagesync/internal/transport"

// ScanRequest builds a fresh snapshot from the dirty files in a working tree.
type ScanRequest struct {
	// WorkingDir is a directory inside the git repository.
	WorkingDir string

	// SnapshotPath is where the snapshot is written.
	SnapshotPath string

	// Ref is the git reference used as source of truth. Defaults to HEAD.
	Ref string
}

// UpdateRequest refreshes the local fields of an existing snapshot from the
// current working tree. Reference fields and remote history are preserved.
type UpdateRequest struct {
	WorkingDir   string
	SnapshotPath string
}

// ReconcileRequest runs the two-phase comparison, optionally followed by
// deployment.
type ReconcileRequest struct {
	// WorkingDir is a directory inside the git repository.
	WorkingDir string

	// SnapshotPath is the snapshot to load and, on success, persist.
	SnapshotPath string

	// FromGit builds the tracked set freshly from git dirty files instead
	// of loading SnapshotPath.
	FromGit bool

	// Ref is the git reference used as source of truth. Defaults to HEAD.
	Ref string

	// BaselineRef optionally names a second reference whose per-file blob
	// hashes join the baseline set.
	BaselineRef string

	// Remote is the transport configuration for the comparison phase.
	Remote *transport.Config

	// Deploy requests deployment of goal content where safe, with
	// interactive resolution of conflicts.
	Deploy bool

	// SizeOnly compares raw byte sizes instead of content hashes.
	// Incompatible with Deploy.
	SizeOnly bool
}
