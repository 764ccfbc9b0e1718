// Package snapshot owns the persisted mapping of tracked files to their
// hash, timestamp, and baseline-history records. It is pure data access:
// no hashing, comparison, or deployment policy lives here.
package snapshot

import (
	"sort"
	"time"
)

// Modes recorded in a snapshot, naming the operation that produced it.
const (
	ModeScan   = "scan"
	ModeUpdate = "update"
	ModeVerify = "verify"
	ModeDeploy = "deploy"
)

// TrackedFile is one record per project-relative path.
type TrackedFile struct {
	// Path is the project-relative file path; unique key within a snapshot.
	Path string `json:"path"`

	// LocalHash is the normalized hash of the working-tree copy.
	LocalHash string `json:"local_hash,omitempty"`

	// LocalSize is the raw byte size of the working-tree copy.
	LocalSize int64 `json:"local_size,omitempty"`

	// LocalTime is the ISO 8601 mtime associated with LocalHash.
	// Informational only; never compared.
	LocalTime string `json:"local_ts,omitempty"`

	// ReferenceHash is the normalized hash of the git reference copy.
	ReferenceHash string `json:"reference_hash,omitempty"`

	// ReferenceTime is the ISO 8601 commit date associated with ReferenceHash.
	ReferenceTime string `json:"reference_ts,omitempty"`

	// RemoteHistory is the ordered set of remote hashes known to be safe:
	// hashes confirmed at a prior deploy or observed matching the goal.
	// Append-only across runs.
	RemoteHistory []string `json:"remote_history,omitempty"`
}

// InHistory reports whether hash is already a recorded baseline.
func (f *TrackedFile) InHistory(hash string) bool {
	for _, h := range f.RemoteHistory {
		if h == hash {
			return true
		}
	}
	return false
}

// AppendHistory records a newly confirmed safe remote hash. Existing entries
// are never removed or reordered; duplicates are not added.
func (f *TrackedFile) AppendHistory(hash string) {
	if hash == "" || f.InHistory(hash) {
		return
	}
	f.RemoteHistory = append(f.RemoteHistory, hash)
}

// Snapshot is the persisted state for one project: a mapping of tracked
// paths plus minimal run metadata.
type Snapshot struct {
	// Mode names the operation that last produced this snapshot.
	Mode string `json:"mode"`

	// Project identifies the project; used to derive backup paths.
	Project string `json:"project"`

	// UpdatedAt is when the snapshot was last persisted.
	UpdatedAt time.Time `json:"updated_at"`

	// Files maps path to its tracked record.
	Files map[string]*TrackedFile `json:"files"`
}

// New creates an empty snapshot for the given mode and project.
func New(mode, project string) *Snapshot {
	return &Snapshot{
		Mode:    mode,
		Project: project,
		Files:   make(map[string]*TrackedFile),
	}
}

// Get returns the record for path, or nil if not tracked.
func (s *Snapshot) Get(path string) *TrackedFile {
	return s.Files[path]
}

// Upsert returns the record for path, creating it if absent.
func (s *Snapshot) Upsert(path string) *TrackedFile {
	if f, ok := s.Files[path]; ok {
		return f
	}
	f := &TrackedFile{Path: path}
	s.Files[path] = f
	return f
}

// SortedPaths returns all tracked paths in lexical order. Processing order
// throughout a run is derived from this, keeping runs deterministic.
func (s *Snapshot) SortedPaths() []string {
	paths := make([]string, 0, len(s.Files))
	for p := range s.Files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Clone returns a deep copy. The engine mutates a clone during a run and
// persists it only on success, so an aborted run leaves the loaded snapshot
// untouched.
func (s *Snapshot) Clone() *Snapshot {
	c := New(s.Mode, s.Project)
	c.UpdatedAt = s.UpdatedAt
	for p, f := range s.Files {
		cf := *f
		cf.RemoteHistory = append([]string(nil), f.RemoteHistory...)
		c.Files[p] = &cf
	}
	return c
}
