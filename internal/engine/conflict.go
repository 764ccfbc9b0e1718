package engine

import (
	"fmt"

	"github.com/danieljhkim/stagesync/internal/prompt"
)

// bulkConflictState is the single session-scoped bulk decision slot. It is
// consulted before each per-file prompt, so the most recently chosen bulk
// action governs every subsequent conflict without revisiting decisions
// already made.
type bulkConflictState int

const (
	bulkNone bulkConflictState = iota
	bulkReplaceAll
	bulkListOnly
)

// conflictSession walks the interactive decision state machine over files
// classified DIFF_HASH, in order.
type conflictSession struct {
	engine  *Engine
	project string
	bulk    bulkConflictState
}

// conflictOutcome is what the session decided for one file.
type conflictOutcome int

const (
	// outcomeReplace deploys the goal content after a pre-overwrite backup.
	outcomeReplace conflictOutcome = iota

	// outcomeKeep leaves the remote file; an investigative backup was taken.
	outcomeKeep
)

// resolve decides one conflicting file. Keep-style decisions immediately
// persist an investigative backup of the unknown remote content; the backup
// path is returned for reporting. Abort propagates as ErrAborted.
func (s *conflictSession) resolve(report *FileReport, c *classification) (conflictOutcome, string, error) {
	switch s.bulk {
	case bulkReplaceAll:
		return outcomeReplace, "", nil
	case bulkListOnly:
		path, err := s.investigate(report.Path, c)
		return outcomeKeep, path, err
	}

	answer, err := s.engine.prompter.Conflict(prompt.ConflictInfo{
		Path:       report.Path,
		GoalHash:   report.GoalHash,
		RemoteHash: c.remoteHash,
		RemoteTime: c.remoteTime,
	})
	if err != nil {
		return outcomeKeep, "", err
	}

	switch answer {
	case prompt.ConflictReplace:
		return outcomeReplace, "", nil
	case prompt.ConflictReplaceAll:
		s.bulk = bulkReplaceAll
		return outcomeReplace, "", nil
	case prompt.ConflictKeep:
		path, err := s.investigate(report.Path, c)
		return outcomeKeep, path, err
	case prompt.ConflictListBulk:
		s.bulk = bulkListOnly
		path, err := s.investigate(report.Path, c)
		return outcomeKeep, path, err
	default:
		return outcomeKeep, "", fmt.Errorf("%w: conflict at %s", ErrAborted, report.Path)
	}
}

// investigate saves the unknown remote content as a .conflict_bk backup for
// later inspection. No overwrite follows.
func (s *conflictSession) investigate(relPath string, c *classification) (string, error) {
	path, err := s.engine.backups.Investigative(s.project, relPath, c.remoteContent)
	if err != nil {
		return "", fmt.Errorf("failed to save investigative backup for %s: %w", relPath, err)
	}
	return path, nil
}
