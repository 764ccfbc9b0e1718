package engine

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/danieljhkim/stagesync/internal/snapshot"
	"github.com/danieljhkim/stagesync/internal/transport"
)

// Reconcile runs the two-phase comparison over the tracked set and, when
// requested, deploys goal content with interactive conflict resolution.
//
// The loaded snapshot is cloned and only the clone is mutated; it is written
// back solely when the run completes without abort, so any abort or fatal
// error leaves the persisted snapshot byte-for-byte as it was.
func (e *Engine) Reconcile(req ReconcileRequest) (*ReconcileResult, error) {
	if req.Deploy && req.SizeOnly {
		return nil, ErrSizeOnlyDeploy
	}
	if req.Remote == nil {
		return nil, fmt.Errorf("remote configuration is required")
	}

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
	if req.BaselineRef != "" {
		if _, err := e.git.ResolveRef(root, req.BaselineRef); err != nil {
			return nil, fmt.Errorf("%w: baseline %s", ErrReferenceUnavailable, req.BaselineRef)
		}
	}

	work, err := e.loadTrackedSet(req, root)
	if err != nil {
		return nil, err
	}
	if work.Project == "" {
		work.Project = filepath.Base(root)
	}
	project := work.Project
	order := work.SortedPaths()

	// Phase 1: resolve sources and finalize goals
	states := make(map[string]*sourceState, len(order))
	for _, path := range order {
		states[path] = e.resolveSource(root, ref, req.BaselineRef, path)
		if states[path].skipped {
			fmt.Fprintf(e.warnings, "warning: skipping %s: %s\n", path, states[path].note)
		}
	}

	goals, err := e.selectGoals(project, order, states)
	if err != nil {
		return nil, err
	}

	for _, path := range order {
		if st := states[path]; !st.skipped {
			refreshTracked(work.Upsert(path), st)
		}
	}

	result := &ReconcileResult{Project: project}

	// Phase 2: remote classification
	conn, err := e.dialer.Dial(req.Remote)
	if err != nil {
		// Phase 1 results are still worth reporting
		for _, path := range order {
			result.Files = append(result.Files, baseReport(path, states[path], goals[path]))
		}
		return result, fmt.Errorf("%w: %v", ErrRemoteUnavailable, err)
	}
	defer func() {
		_ = conn.Close()
	}()

	classifications := make(map[string]*classification, len(order))
	for _, path := range order {
		report := baseReport(path, states[path], goals[path])
		if report.Status == StatusSkipped {
			result.Files = append(result.Files, report)
			continue
		}

		c, err := e.classifyRemote(conn, goals[path], work.Get(path), states[path], req.Remote.RemotePath(path), req.SizeOnly)
		if err != nil {
			result.Files = append(result.Files, report)
			return result, err
		}

		report.Status = c.status
		report.RemoteHash = c.remoteHash
		report.RemoteTime = c.remoteTime
		report.MatchedBaseline = c.matchedBaseline
		if c.status == StatusDiffHash {
			result.Conflicts++
		}
		classifications[path] = c
		result.Files = append(result.Files, report)
	}

	if req.Deploy {
		if err := e.runDeployment(conn, req.Remote, root, project, work, result, goals, classifications); err != nil {
			return result, err
		}
	}

	// A remote copy observed equal to the goal is a confirmed safe state
	if !req.SizeOnly {
		for i := range result.Files {
			r := &result.Files[i]
			if r.Status == StatusMatchGoal {
				work.Upsert(r.Path).AppendHistory(r.RemoteHash)
			}
		}
	}

	work.Mode = snapshot.ModeVerify
	if req.Deploy {
		work.Mode = snapshot.ModeDeploy
	}
	work.UpdatedAt = e.clock.Now()
	if err := e.store.Save(req.SnapshotPath, work); err != nil {
		return result, err
	}
	result.Persisted = true
	return result, nil
}

// loadTrackedSet loads the snapshot, or builds a fresh tracked set from git
// dirty files when FromGit is set. Either way the caller receives a private
// copy safe to mutate.
func (e *Engine) loadTrackedSet(req ReconcileRequest, root string) (*snapshot.Snapshot, error) {
	if req.FromGit {
		work := snapshot.New(snapshot.ModeVerify, filepath.Base(root))
		paths, err := e.git.ChangedFiles(root)
		if err != nil {
			return nil, err
		}
		for _, p := range paths {
			work.Upsert(p)
		}
		return work, nil
	}

	loaded, err := e.store.Load(req.SnapshotPath)
	if err != nil {
		return nil, err
	}
	return loaded.Clone(), nil
}

// baseReport builds the phase-1 portion of a file report.
func baseReport(path string, st *sourceState, g *goal) FileReport {
	report := FileReport{Path: path}
	if st == nil || st.skipped || g == nil {
		report.Status = StatusSkipped
		if st != nil {
			report.Note = st.note
		}
		return report
	}
	report.GoalHash = g.hash
	report.GoalSource = g.source
	report.LocalTime = st.localTime
	return report
}

// runDeployment performs the deployment stage over classified files in
// order. Clean files (MATCH_BASELINE, MISSING) deploy behind a single
// confirmation gate; DIFF_HASH files go through the conflict session.
// Per-file failures are recorded and the run continues; only an operator
// abort stops the stage.
func (e *Engine) runDeployment(conn transport.Transport, cfg *transport.Config, root, project string, work *snapshot.Snapshot, result *ReconcileResult, goals map[string]*goal, classifications map[string]*classification) error {
	cleanCount := 0
	for i := range result.Files {
		switch result.Files[i].Status {
		case StatusMatchBaseline, StatusMissing:
			cleanCount++
		}
	}
	if cleanCount == 0 && result.Conflicts == 0 {
		return nil
	}

	if cleanCount > 0 {
		approved, err := e.prompter.ConfirmDeploy(cleanCount)
		if err != nil {
			return err
		}
		if !approved {
			// Declining the gate skips the whole stage; the run still
			// completes and persists refreshed hashes
			return nil
		}
	}

	session := &conflictSession{engine: e, project: project}

	for i := range result.Files {
		report := &result.Files[i]
		g := goals[report.Path]
		c := classifications[report.Path]

		switch report.Status {
		case StatusMatchBaseline:
			// Known-safe prior state: overwrite without confirmation,
			// but never without a pre-overwrite backup
			e.performDeploy(conn, cfg, root, project, work, result, report, g, c.remoteContent)
		case StatusMissing:
			e.performDeploy(conn, cfg, root, project, work, result, report, g, nil)
		case StatusDiffHash:
			outcome, backupPath, err := session.resolve(report, c)
			if err != nil {
				if errors.Is(err, ErrAborted) {
					return err
				}
				report.Note = err.Error()
				continue
			}
			if outcome == outcomeReplace {
				e.performDeploy(conn, cfg, root, project, work, result, report, g, c.remoteContent)
			} else if backupPath != "" {
				report.BackupPath = backupPath
			}
		}
	}
	return nil
}

// performDeploy deploys one file and records the outcome, degrading errors
// to a per-file note.
func (e *Engine) performDeploy(conn transport.Transport, cfg *transport.Config, root, project string, work *snapshot.Snapshot, result *ReconcileResult, report *FileReport, g *goal, remoteContent []byte) {
	if err := e.deployFile(conn, root, project, cfg.RemotePath(report.Path), g, report, remoteContent); err != nil {
		report.Note = err.Error()
		fmt.Fprintf(e.warnings, "warning: %v\n", err)
		return
	}
	result.Deployed++
	// The goal content now lives remotely: a confirmed safe state
	work.Upsert(report.Path).AppendHistory(g.hash)
}
