package engine

import (
	"fmt"
	"path/filepath"

	"github.com/danieljhkim/stagesync/internal/prompt"
)

// goal is the immutable content decision for one file: exactly one content
// and hash survives goal selection, and the working tree is never mutated to
// produce it.
type goal struct {
	path   string
	source GoalSource
	hash   string
	size   int64

	// contentPath is where the goal content lives on disk: the working
	// tree for local goals, the staging directory for reference goals.
	contentPath string

	// content holds the reference bytes for reference goals; local goals
	// are read from contentPath at deploy time.
	content []byte
}

// selectGoals finalizes one goal per resolvable file. A single bulk prompt is
// issued when at least one file diverged; the INDIVIDUAL answer switches to
// per-file prompts. Any abort answer terminates with ErrAborted before any
// goal takes effect.
func (e *Engine) selectGoals(project string, order []string, states map[string]*sourceState) (map[string]*goal, error) {
	var divergedPaths []string
	for _, path := range order {
		if st := states[path]; st != nil && !st.skipped && st.diverged() {
			divergedPaths = append(divergedPaths, path)
		}
	}

	// Decide the source for every diverged file before materializing
	// anything: an abort must leave no trace.
	sources := make(map[string]GoalSource, len(divergedPaths))
	if len(divergedPaths) > 0 {
		bulk, err := e.prompter.GoalBulk(divergedPaths)
		if err != nil {
			return nil, err
		}
		switch bulk {
		case prompt.GoalBulkAbort:
			return nil, fmt.Errorf("%w: goal selection", ErrAborted)
		case prompt.GoalBulkUseLocal:
			for _, p := range divergedPaths {
				sources[p] = GoalLocal
			}
		case prompt.GoalBulkUseReference:
			for _, p := range divergedPaths {
				sources[p] = GoalReference
			}
		case prompt.GoalBulkIndividual:
			for _, p := range divergedPaths {
				answer, err := e.prompter.GoalFile(p)
				if err != nil {
					return nil, err
				}
				switch answer {
				case prompt.GoalFileAbort:
					return nil, fmt.Errorf("%w: goal selection at %s", ErrAborted, p)
				case prompt.GoalFileUseLocal:
					sources[p] = GoalLocal
				case prompt.GoalFileUseReference:
					sources[p] = GoalReference
				}
			}
		}
	}

	goals := make(map[string]*goal, len(order))
	for _, path := range order {
		st := states[path]
		if st == nil || st.skipped {
			continue
		}

		switch {
		case st.diverged():
			g, err := e.buildGoal(project, st, sources[path])
			if err != nil {
				return nil, err
			}
			goals[path] = g
		case st.localPresent:
			// Matched or untracked in the reference: local content is
			// the goal either way
			g, err := e.buildGoal(project, st, GoalLocal)
			if err != nil {
				return nil, err
			}
			goals[path] = g
		case st.refPresent:
			// Deleted locally; the reference is the only candidate
			g, err := e.buildGoal(project, st, GoalReference)
			if err != nil {
				return nil, err
			}
			goals[path] = g
		default:
			st.skipped = true
			st.note = "no local or reference content"
		}
	}
	return goals, nil
}

// buildGoal finalizes one goal. Reference goals are materialized into the
// staging directory; the original local file is never touched.
func (e *Engine) buildGoal(project string, st *sourceState, source GoalSource) (*goal, error) {
	if source == GoalLocal {
		return &goal{
			path:   st.path,
			source: GoalLocal,
			hash:   st.localHash,
			size:   st.localSize,
		}, nil
	}

	staged := filepath.Join(e.paths.Staging, project, st.path)
	if err := e.fs.AtomicWrite(staged, st.refContent, 0644); err != nil {
		return nil, fmt.Errorf("failed to materialize reference content for %s: %w", st.path, err)
	}
	return &goal{
		path:        st.path,
		source:      GoalReference,
		hash:        st.refHash,
		size:        int64(len(st.refContent)),
		contentPath: staged,
		content:     st.refContent,
	}, nil
}

// goalContent returns the bytes to deploy for a goal. Local goals are read
// fresh from the working tree at deploy time.
func (e *Engine) goalContent(root string, g *goal) ([]byte, error) {
	if g.source == GoalReference {
		return g.content, nil
	}
	data, err := e.fs.ReadFile(filepath.Join(root, g.path))
	if err != nil {
		return nil, fmt.Errorf("failed to read goal content for %s: %w", g.path, err)
	}
	return data, nil
}
