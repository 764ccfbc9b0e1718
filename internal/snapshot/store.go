package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/danieljhkim/stagesync/internal/fsops"
)

var (
	// ErrNotFound indicates no snapshot exists at the given path.
	ErrNotFound = errors.New("snapshot not found")

	// ErrCorrupt indicates the persisted snapshot cannot be parsed.
	// The engine refuses to proceed rather than guess.
	ErrCorrupt = errors.New("corrupt snapshot")
)

// Store provides an interface for loading and saving snapshots.
type Store interface {
	// Load reads the snapshot at path.
	// Returns ErrNotFound if absent, ErrCorrupt if unparseable.
	Load(path string) (*Snapshot, error)

	// Save writes the snapshot to path atomically.
	Save(path string, snap *Snapshot) error
}

// FileStore implements Store using a JSON file on disk.
type FileStore struct {
	fs fsops.FS
}

// NewFileStore creates a new FileStore.
func NewFileStore(fs fsops.FS) *FileStore {
	return &FileStore{fs: fs}
}

// legacyRecord is the flat record shape written by the original hashfile
// tool, including its oldest schema (hash/timestamp/size).
type legacyRecord struct {
	Path          string   `json:"path"`
	LocalHash     string   `json:"local_hash"`
	LocalSize     int64    `json:"local_size"`
	LocalTime     string   `json:"local_ts"`
	GitHash       string   `json:"git_hash"`
	GitTime       string   `json:"git_ts"`
	RemoteHistory []string `json:"remote_history"`

	// Oldest schema fallbacks
	Hash      string `json:"hash"`
	Timestamp string `json:"timestamp"`
	Size      int64  `json:"size"`
}

// Load reads a snapshot from disk. Both the current envelope format and the
// legacy flat list of records are accepted; legacy files are upgraded in
// memory and written back in the current format on the next Save.
func (s *FileStore) Load(path string) (*Snapshot, error) {
	data, err := s.fs.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err == nil && snap.Files != nil {
		for p, f := range snap.Files {
			if f.Path == "" {
				f.Path = p
			}
		}
		return &snap, nil
	}

	// Legacy format: a bare JSON list of records
	var records []legacyRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, path, err)
	}

	upgraded := New(ModeScan, "")
	for _, r := range records {
		if r.Path == "" {
			return nil, fmt.Errorf("%w: %s: record missing path", ErrCorrupt, path)
		}
		f := upgraded.Upsert(r.Path)
		f.LocalHash = firstNonPlaceholder(r.LocalHash, r.Hash)
		f.LocalTime = firstNonPlaceholder(r.LocalTime, r.Timestamp)
		f.LocalSize = r.LocalSize
		if f.LocalSize == 0 {
			f.LocalSize = r.Size
		}
		f.ReferenceHash = firstNonPlaceholder(r.GitHash, "")
		f.ReferenceTime = firstNonPlaceholder(r.GitTime, "")
		f.RemoteHistory = r.RemoteHistory
	}
	return upgraded, nil
}

// firstNonPlaceholder returns the first value that is set and not the "N/A"
// placeholder the legacy tool wrote for unavailable fields.
func firstNonPlaceholder(values ...string) string {
	for _, v := range values {
		if v != "" && v != "N/A" {
			return v
		}
	}
	return ""
}

// Save writes the snapshot atomically.
func (s *FileStore) Save(path string, snap *Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	if err := s.fs.AtomicWrite(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return nil
}
