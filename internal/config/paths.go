// Package config resolves the directories stagesync works in.
package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths holds the directories used across runs.
type Paths struct {
	// Root is the base directory, default ~/.stagesync.
	Root string

	// Snapshots holds persisted snapshot files when no explicit path is
	// given.
	Snapshots string

	// Backups holds pre-overwrite and investigative backups, keyed by
	// project under this root.
	Backups string

	// Staging holds materialized reference content for files deployed
	// from the reference instead of the working tree.
	Staging string
}

// DefaultPaths returns the standard paths under the user's home directory.
// STAGESYNC_HOME overrides the root, which keeps tests hermetic.
func DefaultPaths() (*Paths, error) {
	root := os.Getenv("STAGESYNC_HOME")
	if root == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		root = filepath.Join(home, ".stagesync")
	}
	return PathsUnder(root), nil
}

// PathsUnder returns the standard layout beneath an explicit root.
func PathsUnder(root string) *Paths {
	return &Paths{
		Root:      root,
		Snapshots: filepath.Join(root, "snapshots"),
		Backups:   filepath.Join(root, "backups"),
		Staging:   filepath.Join(root, "staging"),
	}
}

// EnsureDirectories creates all configured directories.
func (p *Paths) EnsureDirectories() error {
	for _, dir := range []string{p.Root, p.Snapshots, p.Backups, p.Staging} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}
