package engine

import (
	"fmt"
	"path/filepath"

	"github.com/danieljhkim/stagesync/internal/snapshot"
)

// Scan builds a fresh snapshot from the dirty files in the working tree,
// recording local and reference hashes and timestamps for each.
func (e *Engine) Scan(req ScanRequest) (*ScanResult, error) {
	ref := req.Ref
	if ref == "" {
		ref = "HEAD"
	}

	root, err := e.git.Discover(req.WorkingDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotInRepo, req.WorkingDir)
	}
	if _, err := e.git.ResolveRef(root, ref); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrReferenceUnavailable, ref)
	}

	paths, err := e.git.ChangedFiles(root)
	if err != nil {
		return nil, err
	}

	snap := snapshot.New(snapshot.ModeScan, filepath.Base(root))
	result := &ScanResult{SnapshotPath: req.SnapshotPath, Project: snap.Project}

	for _, path := range paths {
		st := e.resolveSource(root, ref, "", path)
		if st.skipped {
			fmt.Fprintf(e.warnings, "warning: skipping %s: %s\n", path, st.note)
			continue
		}
		refreshTracked(snap.Upsert(path), st)
		result.Entries = append(result.Entries, ScanEntry{
			Path:          path,
			LocalHash:     st.localHash,
			ReferenceHash: st.refHash,
			LocalTime:     st.localTime,
			ReferenceTime: st.refTime,
			Diverged:      st.diverged(),
		})
	}

	snap.UpdatedAt = e.clock.Now()
	if err := e.store.Save(req.SnapshotPath, snap); err != nil {
		return nil, err
	}
	return result, nil
}
