package engine

// Status classifies one remote file against the goal and the baseline set.
type Status string

const (
	// StatusMatchGoal means the remote content equals the goal: already
	// synced. Checked before baseline membership, so a remote state equal
	// to both reads as synced, never merely safe.
	StatusMatchGoal Status = "MATCH_GOAL"

	// StatusMatchBaseline means the remote content equals a known-safe
	// prior state: overwriting needs no confirmation, but still gets a
	// pre-overwrite backup.
	StatusMatchBaseline Status = "MATCH_BASELINE"

	// StatusDiffHash means the remote content matches neither the goal
	// nor any baseline: an unresolved conflict.
	StatusDiffHash Status = "DIFF_HASH"

	// StatusMissing means the remote file does not exist.
	StatusMissing Status = "MISSING"

	// StatusDiffSize is reported only under size-only comparison when
	// raw sizes differ.
	StatusDiffSize Status = "DIFF_SIZE"

	// StatusSkipped means the file could not be processed (for example
	// the local copy was unreadable) and was skipped with a warning.
	StatusSkipped Status = "SKIPPED"
)

// GoalSource names which content was finalized as the goal.
type GoalSource string

const (
	// GoalLocal deploys the working-tree content.
	GoalLocal GoalSource = "local"

	// GoalReference deploys the reference content, materialized into the
	// staging directory so the working tree is never touched.
	GoalReference GoalSource = "reference"
)

// FileReport is the per-file outcome of a reconcile run.
type FileReport struct {
	Path string `json:"path"`

	Status Status `json:"status"`

	// GoalHash is the finalized goal content hash.
	GoalHash string `json:"goal_hash,omitempty"`

	// GoalSource names where the goal content came from.
	GoalSource GoalSource `json:"goal_source,omitempty"`

	// RemoteHash is the normalized hash of the remote copy, empty when
	// missing or under size-only comparison.
	RemoteHash string `json:"remote_hash,omitempty"`

	// MatchedBaseline is the baseline hash the remote matched, set only
	// for MATCH_BASELINE.
	MatchedBaseline string `json:"matched_baseline,omitempty"`

	// LocalTime and RemoteTime are informational timestamps for display.
	LocalTime  string `json:"local_ts,omitempty"`
	RemoteTime string `json:"remote_ts,omitempty"`

	// Deployed reports whether the goal content was uploaded this run.
	Deployed bool `json:"deployed,omitempty"`

	// BackupPath is where pre-overwrite or investigative content was
	// saved, if any.
	BackupPath string `json:"backup_path,omitempty"`

	// Note carries a per-file warning or failure detail.
	Note string `json:"note,omitempty"`
}

// ScanEntry is one record produced by a scan.
type ScanEntry struct {
	Path          string `json:"path"`
	LocalHash     string `json:"local_hash,omitempty"`
	ReferenceHash string `json:"reference_hash,omitempty"`
	LocalTime     string `json:"local_ts,omitempty"`
	ReferenceTime string `json:"reference_ts,omitempty"`

	// Diverged reports that local and reference content differ.
	Diverged bool `json:"diverged,omitempty"`
}

// ScanResult is the outcome of building a fresh snapshot.
type ScanResult struct {
	SnapshotPath string      `json:"snapshot_path"`
	Project      string      `json:"project"`
	Entries      []ScanEntry `json:"entries"`
}

// UpdateResult is the outcome of refreshing an existing snapshot.
type UpdateResult struct {
	SnapshotPath string `json:"snapshot_path"`

	// Refreshed counts records whose local fields were updated.
	Refreshed int `json:"refreshed"`

	// Added counts newly tracked paths.
	Added int `json:"added"`

	// Total is the record count after the update.
	Total int `json:"total"`
}

// ReconcileResult is the outcome of a reconcile run.
type ReconcileResult struct {
	Project string       `json:"project"`
	Files   []FileReport `json:"files"`

	// Deployed counts files uploaded this run.
	Deployed int `json:"deployed"`

	// Conflicts counts files classified DIFF_HASH.
	Conflicts int `json:"conflicts"`

	// Persisted reports whether the snapshot was written back.
	Persisted bool `json:"persisted"`
}
