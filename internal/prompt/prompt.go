// Package prompt models operator decisions as a synchronous decision
// provider. The engine's control flow blocks on these calls and never sees a
// terminal or input stream; the production implementation reads answers from
// stdin, and tests script them.
//
// Empty input is the universal escape at every prompt: it aborts the run.
package prompt

// GoalBulkAction answers the one-time bulk prompt issued when local content
// diverges from the reference for at least one file.
type GoalBulkAction int

const (
	// GoalBulkAbort terminates the run without touching anything.
	GoalBulkAbort GoalBulkAction = iota

	// GoalBulkUseLocal selects the working-tree content for every
	// diverged file.
	GoalBulkUseLocal

	// GoalBulkUseReference selects the reference content for every
	// diverged file.
	GoalBulkUseReference

	// GoalBulkIndividual asks per file instead.
	GoalBulkIndividual
)

// GoalFileAction answers the per-file prompt reached via GoalBulkIndividual.
type GoalFileAction int

const (
	// GoalFileAbort terminates the run.
	GoalFileAbort GoalFileAction = iota

	// GoalFileUseLocal selects the working-tree content for this file.
	GoalFileUseLocal

	// GoalFileUseReference selects the reference content for this file.
	GoalFileUseReference
)

// ConflictAction answers the prompt for a file whose remote content matches
// neither the goal nor any baseline.
type ConflictAction int

const (
	// ConflictAbort terminates the run immediately. Deployments already
	// performed stay; the snapshot is not persisted.
	ConflictAbort ConflictAction = iota

	// ConflictReplace overwrites this file after a pre-overwrite backup.
	ConflictReplace

	// ConflictReplaceAll is ConflictReplace for this file and every
	// subsequent unresolved conflict in the run.
	ConflictReplaceAll

	// ConflictKeep leaves the remote file alone and takes an
	// investigative backup of it.
	ConflictKeep

	// ConflictListBulk stops prompting; every remaining conflict gets an
	// investigative backup and no deployment.
	ConflictListBulk
)

// ConflictInfo describes the conflicting file shown to the operator.
type ConflictInfo struct {
	Path       string
	GoalHash   string
	RemoteHash string
	RemoteTime string
}

// DecisionProvider supplies operator decisions at the engine's suspension
// points.
type DecisionProvider interface {
	// GoalBulk is asked once when diverged files exist, before any goal
	// is finalized.
	GoalBulk(paths []string) (GoalBulkAction, error)

	// GoalFile is asked per diverged file after GoalBulkIndividual.
	GoalFile(path string) (GoalFileAction, error)

	// Conflict is asked per unresolved conflict during deployment.
	Conflict(info ConflictInfo) (ConflictAction, error)

	// ConfirmDeploy gates the deployment of clean (non-conflicting)
	// files. Returns false to cancel deployment while still reporting.
	ConfirmDeploy(fileCount int) (bool, error)
}
