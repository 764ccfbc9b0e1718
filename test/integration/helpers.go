package integration

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/danieljhkim/stagesync/internal/backup"
	"github.com/danieljhkim/stagesync/internal/clock"
	"github.com/danieljhkim/stagesync/internal/config"
	"github.com/danieljhkim/stagesync/internal/engine"
	"github.com/danieljhkim/stagesync/internal/fsops"
	"github.com/danieljhkim/stagesync/internal/gitx"
	"github.com/danieljhkim/stagesync/internal/hash"
	"github.com/danieljhkim/stagesync/internal/prompt"
	"github.com/danieljhkim/stagesync/internal/snapshot"
	"github.com/danieljhkim/stagesync/internal/transport"
)

// harness wires an engine from real on-disk components (snapshot store,
// backup manager, hasher) plus a fake git repo, fake transport, and scripted
// prompter. Only the network and git are simulated.
type harness struct {
	t        *testing.T
	root     string
	snapPath string
	git      *gitx.FakeRepo
	remote   *transport.FakeTransport
	prompter *prompt.ScriptedPrompter
	paths    *config.Paths
	hasher   *hash.NormalizedSHA256
	eng      *engine.Engine
	cfg      *transport.Config
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	root := t.TempDir()
	paths := config.PathsUnder(t.TempDir())
	if err := paths.EnsureDirectories(); err != nil {
		t.Fatal(err)
	}

	fs := fsops.NewRealFS()
	clk := clock.NewFakeClock(time.Date(2025, 6, 15, 9, 30, 0, 0, time.UTC))
	h := &harness{
		t:        t,
		root:     root,
		snapPath: filepath.Join(paths.Snapshots, "proj.json"),
		git:      gitx.NewFakeRepo(root),
		remote:   transport.NewFakeTransport(),
		prompter: prompt.NewScriptedPrompter(),
		paths:    paths,
		hasher:   hash.NewNormalizedSHA256(),
		cfg:      &transport.Config{Host: "staging.example.com", Port: 21, RemoteRoot: "/srv/app"},
	}

	h.eng = engine.New(
		h.git,
		snapshot.NewFileStore(fs),
		&transport.FakeDialer{Transport: h.remote},
		fs,
		h.hasher,
		clk,
		h.prompter,
		backup.NewManager(fs, clk, paths.Backups),
		*paths,
		io.Discard,
	)
	return h
}

// writeLocal creates a working-tree file and marks it dirty.
func (h *harness) writeLocal(rel, content string) {
	h.t.Helper()
	path := filepath.Join(h.root, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		h.t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		h.t.Fatal(err)
	}
}

// remotePath maps a tracked path the way the engine does.
func (h *harness) remotePath(rel string) string {
	return h.cfg.RemotePath(rel)
}

// loadSnapshotFile reads the persisted snapshot back through the store.
func (h *harness) loadSnapshotFile() *snapshot.Snapshot {
	h.t.Helper()
	snap, err := snapshot.NewFileStore(fsops.NewRealFS()).Load(h.snapPath)
	if err != nil {
		h.t.Fatalf("loading persisted snapshot: %v", err)
	}
	return snap
}

// reportFor fetches the report for one path.
func reportFor(t *testing.T, result *engine.ReconcileResult, path string) *engine.FileReport {
	t.Helper()
	for i := range result.Files {
		if result.Files[i].Path == path {
			return &result.Files[i]
		}
	}
	t.Fatalf("no report for %s", path)
	return nil
}
