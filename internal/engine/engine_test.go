package engine

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/danieljhkim/stagesync/internal/backup"
	"github.com/danieljhkim/stagesync/internal/clock"
	"github.com/danieljhkim/stagesync/internal/config"
	"github.com/danieljhkim/stagesync/internal/fsops"
	"github.com/danieljhkim/stagesync/internal/gitx"
	"github.com/danieljhkim/stagesync/internal/hash"
	"github.com/danieljhkim/stagesync/internal/prompt"
	"github.com/danieljhkim/stagesync/internal/snapshot"
	"github.com/danieljhkim/stagesync/internal/transport"
)

// --- shared fakes ---

type fakeGit struct {
	root    string
	changed []string
	blobs   map[string]map[string]string // ref -> path -> content
	times   map[string]string
	badRefs map[string]bool
}

func newFakeGit(root string) *fakeGit {
	return &fakeGit{
		root:    root,
		blobs:   make(map[string]map[string]string),
		times:   make(map[string]string),
		badRefs: make(map[string]bool),
	}
}

func (g *fakeGit) setBlob(ref, path, content string) {
	if g.blobs[ref] == nil {
		g.blobs[ref] = make(map[string]string)
	}
	g.blobs[ref][path] = content
}

func (g *fakeGit) Discover(cwd string) (string, error) {
	if g.root == "" {
		return "", errors.New("not in a git repository")
	}
	return g.root, nil
}

func (g *fakeGit) ChangedFiles(root string) ([]string, error) { return g.changed, nil }

func (g *fakeGit) ReadBlob(root, ref, relPath string) ([]byte, error) {
	if content, ok := g.blobs[ref][relPath]; ok {
		return []byte(content), nil
	}
	return nil, gitx.ErrBlobNotFound
}

func (g *fakeGit) BlobTime(root, ref, relPath string) string { return g.times[relPath] }

func (g *fakeGit) ResolveRef(root, ref string) (string, error) {
	if g.badRefs[ref] {
		return "", gitx.ErrRefUnavailable
	}
	return "abc123", nil
}

type memStore struct {
	snaps map[string]*snapshot.Snapshot
	saves int
}

func newMemStore() *memStore {
	return &memStore{snaps: make(map[string]*snapshot.Snapshot)}
}

func (s *memStore) Load(path string) (*snapshot.Snapshot, error) {
	if snap, ok := s.snaps[path]; ok {
		return snap.Clone(), nil
	}
	return nil, snapshot.ErrNotFound
}

func (s *memStore) Save(path string, snap *snapshot.Snapshot) error {
	s.snaps[path] = snap.Clone()
	s.saves++
	return nil
}

// --- harness ---

type testEnv struct {
	t        *testing.T
	root     string
	git      *fakeGit
	store    *memStore
	remote   *transport.FakeTransport
	dialer   *transport.FakeDialer
	prompter *prompt.ScriptedPrompter
	clk      *clock.FakeClock
	paths    *config.Paths
	eng      *Engine
	cfg      *transport.Config
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	root := t.TempDir()
	paths := config.PathsUnder(t.TempDir())
	if err := paths.EnsureDirectories(); err != nil {
		t.Fatal(err)
	}

	fs := fsops.NewRealFS()
	clk := clock.NewFakeClock(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))
	env := &testEnv{
		t:        t,
		root:     root,
		git:      newFakeGit(root),
		store:    newMemStore(),
		remote:   transport.NewFakeTransport(),
		prompter: prompt.NewScriptedPrompter(),
		clk:      clk,
		paths:    paths,
		cfg:      &transport.Config{Host: "staging.example.com", RemoteRoot: "/"},
	}
	env.dialer = &transport.FakeDialer{Transport: env.remote}

	env.eng = New(
		env.git,
		env.store,
		env.dialer,
		fs,
		hash.NewNormalizedSHA256(),
		clk,
		env.prompter,
		backup.NewManager(fs, clk, paths.Backups),
		*paths,
		io.Discard,
	)
	return env
}

// writeLocal creates a working-tree file.
func (env *testEnv) writeLocal(rel, content string) {
	env.t.Helper()
	path := filepath.Join(env.root, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		env.t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		env.t.Fatal(err)
	}
}

// seedSnapshot stores a snapshot under the given path and returns it.
func (env *testEnv) seedSnapshot(path string, build func(*snapshot.Snapshot)) *snapshot.Snapshot {
	env.t.Helper()
	snap := snapshot.New(snapshot.ModeScan, "proj")
	build(snap)
	env.store.snaps[path] = snap
	return snap
}

// report fetches the FileReport for a path, failing the test if absent.
func report(t *testing.T, result *ReconcileResult, path string) *FileReport {
	t.Helper()
	for i := range result.Files {
		if result.Files[i].Path == path {
			return &result.Files[i]
		}
	}
	t.Fatalf("no report for %s in %+v", path, result.Files)
	return nil
}

// backupFiles lists all files under the backups root.
func (env *testEnv) backupFiles() []string {
	env.t.Helper()
	var found []string
	_ = filepath.Walk(env.paths.Backups, func(p string, info os.FileInfo, err error) error {
		if err == nil && !info.IsDir() {
			found = append(found, p)
		}
		return nil
	})
	return found
}

func hashOf(content string) string {
	return hash.NewNormalizedSHA256().SumBytes([]byte(content))
}
