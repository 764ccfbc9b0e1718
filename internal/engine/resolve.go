package engine

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/danieljhkim/stagesync/internal/gitx"
	"github.com/danieljhkim/stagesync/internal/snapshot"
)

// sourceState is the resolved view of one tracked file across the working
// tree and the git reference: the input to goal selection.
type sourceState struct {
	path string

	localPresent bool
	localHash    string
	localSize    int64
	localTime    string

	refPresent bool
	refHash    string
	refTime    string
	refContent []byte

	// baselineHash is the blob hash at the extra baseline reference, when
	// one was requested and the file exists there.
	baselineHash string

	// skipped marks a file that could not be read locally; it is reported
	// with a warning and excluded from the rest of the run.
	skipped bool
	note    string
}

// diverged reports whether the file needs a goal decision: both sources
// exist and disagree.
func (s *sourceState) diverged() bool {
	return s.localPresent && s.refPresent && s.localHash != s.refHash
}

// resolveSource computes the local and reference state of one tracked file.
// A locally unreadable file degrades to skipped; a missing local file or a
// path absent from the reference is a normal state, not an error.
func (e *Engine) resolveSource(root, ref, baselineRef, relPath string) *sourceState {
	st := &sourceState{path: relPath}

	if err := e.fs.ValidateRelPath(relPath); err != nil {
		st.skipped = true
		st.note = fmt.Sprintf("invalid path: %v", err)
		return st
	}

	absPath := filepath.Join(root, relPath)
	localHash, localSize, err := e.hasher.SumFile(absPath)
	switch {
	case err == nil:
		st.localPresent = true
		st.localHash = localHash
		st.localSize = localSize
		if info, serr := e.fs.Lstat(absPath); serr == nil {
			st.localTime = info.ModTime().Format(time.RFC3339)
		}
	case errors.Is(err, os.ErrNotExist):
		// Deleted locally but still tracked; the reference may carry it
	default:
		st.skipped = true
		st.note = fmt.Sprintf("local read error: %v", err)
		return st
	}

	blob, err := e.git.ReadBlob(root, ref, relPath)
	if err == nil {
		st.refPresent = true
		st.refContent = blob
		st.refHash = e.hasher.SumBytes(blob)
		st.refTime = e.git.BlobTime(root, ref, relPath)
	} else if !errors.Is(err, gitx.ErrBlobNotFound) {
		st.skipped = true
		st.note = fmt.Sprintf("reference read error: %v", err)
		return st
	}

	if baselineRef != "" {
		if blob, err := e.git.ReadBlob(root, baselineRef, relPath); err == nil {
			st.baselineHash = e.hasher.SumBytes(blob)
		}
	}

	return st
}

// refreshTracked copies the resolved source fields into the snapshot record.
// Fields for absent sources are cleared; remote history is never touched here.
func refreshTracked(f *snapshot.TrackedFile, st *sourceState) {
	f.LocalHash = st.localHash
	f.LocalSize = st.localSize
	f.LocalTime = st.localTime
	f.ReferenceHash = st.refHash
	f.ReferenceTime = st.refTime
}
