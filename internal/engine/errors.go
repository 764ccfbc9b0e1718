package engine

import "errors"

var (
	// ErrAborted indicates the operator aborted the run at a prompt.
	// The persisted snapshot is left exactly as it was.
	ErrAborted = errors.New("aborted by operator")

	// ErrReferenceUnavailable indicates the git reference cannot be
	// resolved, so no trustworthy source of truth exists.
	ErrReferenceUnavailable = errors.New("reference unavailable")

	// ErrRemoteUnavailable indicates the remote server cannot be reached.
	// Fatal for the remote-comparison phase; source resolution results
	// are still reported.
	ErrRemoteUnavailable = errors.New("remote unavailable")

	// ErrBackupFailed indicates a pre-overwrite backup could not be
	// written; the corresponding overwrite is refused.
	ErrBackupFailed = errors.New("backup failed")

	// ErrSizeOnlyDeploy indicates deployment was requested together with
	// size-only comparison, which is too unsound to overwrite from.
	ErrSizeOnlyDeploy = errors.New("size-only comparison cannot drive deployment")

	// ErrNotInRepo indicates the working directory is not inside a git
	// repository.
	ErrNotInRepo = errors.New("not in a git repository")
)
