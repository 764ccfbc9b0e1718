package engine

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/danieljhkim/stagesync/internal/snapshot"
)

// Update refreshes the local hash, size, and timestamp of currently-dirty
// files in an existing snapshot. New dirty files are added; records for
// files no longer dirty are kept as they are, and reference fields and
// remote history are never modified. A missing snapshot starts empty.
func (e *Engine) Update(req UpdateRequest) (*UpdateResult, error) {
	root, err := e.git.Discover(req.WorkingDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotInRepo, req.WorkingDir)
	}

	snap, err := e.store.Load(req.SnapshotPath)
	switch {
	case err == nil:
		snap = snap.Clone()
	case errors.Is(err, snapshot.ErrNotFound):
		snap = snapshot.New(snapshot.ModeUpdate, filepath.Base(root))
	default:
		return nil, err
	}
	if snap.Project == "" {
		snap.Project = filepath.Base(root)
	}

	paths, err := e.git.ChangedFiles(root)
	if err != nil {
		return nil, err
	}

	result := &UpdateResult{SnapshotPath: req.SnapshotPath}
	for _, path := range paths {
		if err := e.fs.ValidateRelPath(path); err != nil {
			fmt.Fprintf(e.warnings, "warning: skipping %s: %v\n", path, err)
			continue
		}

		absPath := filepath.Join(root, path)
		localHash, localSize, err := e.hasher.SumFile(absPath)
		if err != nil {
			// Deleted or unreadable dirty file; leave any existing record
			fmt.Fprintf(e.warnings, "warning: skipping %s: %v\n", path, err)
			continue
		}

		if snap.Get(path) == nil {
			result.Added++
		} else {
			result.Refreshed++
		}
		f := snap.Upsert(path)
		f.LocalHash = localHash
		f.LocalSize = localSize
		if info, serr := e.fs.Lstat(absPath); serr == nil {
			f.LocalTime = info.ModTime().Format(time.RFC3339)
		}
	}

	snap.Mode = snapshot.ModeUpdate
	snap.UpdatedAt = e.clock.Now()
	if err := e.store.Save(req.SnapshotPath, snap); err != nil {
		return nil, err
	}
	result.Total = len(snap.Files)
	return result, nil
}
