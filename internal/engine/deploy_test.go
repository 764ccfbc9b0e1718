package engine

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/danieljhkim/stagesync/internal/snapshot"
	"github.com/danieljhkim/stagesync/internal/transport"
)

func TestReconcileBackupFailureRefusesOverwrite(t *testing.T) {
	env := newTestEnv(t)
	env.seedSnapshot(snapPath, func(snap *snapshot.Snapshot) {
		trackCleanFile(env, snap, "a.txt", "new content")
		snap.Upsert("a.txt").RemoteHistory = []string{hashOf("old safe content")}
		trackCleanFile(env, snap, "b.txt", "fresh")
	})
	env.remote.Set("/a.txt", []byte("old safe content"))
	// b.txt is missing remotely and deploys without a backup

	// A plain file where the project backup directory belongs makes every
	// backup write fail
	if err := os.WriteFile(filepath.Join(env.paths.Backups, "proj"), nil, 0644); err != nil {
		t.Fatal(err)
	}

	result, err := env.eng.Reconcile(ReconcileRequest{
		WorkingDir: env.root, SnapshotPath: snapPath, Remote: env.cfg, Deploy: true,
	})
	if err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}

	a := report(t, result, "a.txt")
	if a.Deployed {
		t.Error("overwrite must be refused when the backup cannot be written")
	}
	if !strings.Contains(a.Note, "backup") {
		t.Errorf("Note = %q, want a backup failure", a.Note)
	}
	if string(env.remote.Files["/a.txt"]) != "old safe content" {
		t.Error("remote overwritten despite failed backup")
	}
	for _, put := range env.remote.Puts {
		if put == "/a.txt" {
			t.Error("upload attempted without a backup in place")
		}
	}

	// The failure is per-file: the rest of the run continues and persists
	b := report(t, result, "b.txt")
	if !b.Deployed {
		t.Error("backup failure for one file must not stop the others")
	}
	if !result.Persisted {
		t.Error("snapshot not persisted after a per-file failure")
	}
	saved := env.store.snaps[snapPath]
	if saved.Get("a.txt").InHistory(hashOf("new content")) {
		t.Error("undeployed goal hash must not enter history")
	}
	if !saved.Get("b.txt").InHistory(hashOf("fresh")) {
		t.Error("deployed hash missing from history")
	}
}

func TestReconcilePutFailureDegradesToNote(t *testing.T) {
	env := newTestEnv(t)
	env.seedSnapshot(snapPath, func(snap *snapshot.Snapshot) {
		trackCleanFile(env, snap, "bad.txt", "content b")
		trackCleanFile(env, snap, "good.txt", "content g")
	})
	// Both are missing remotely; one upload is rejected by the server
	env.remote.FailPuts["/bad.txt"] = true

	result, err := env.eng.Reconcile(ReconcileRequest{
		WorkingDir: env.root, SnapshotPath: snapPath, Remote: env.cfg, Deploy: true,
	})
	if err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}

	bad := report(t, result, "bad.txt")
	if bad.Deployed {
		t.Error("failed upload must not read as deployed")
	}
	if !strings.Contains(bad.Note, "upload") {
		t.Errorf("Note = %q, want an upload failure", bad.Note)
	}

	good := report(t, result, "good.txt")
	if !good.Deployed {
		t.Error("one failed upload must not stop the others")
	}
	if result.Deployed != 1 {
		t.Errorf("Deployed = %d, want 1", result.Deployed)
	}
	if !result.Persisted {
		t.Error("snapshot not persisted after a per-file failure")
	}

	saved := env.store.snaps[snapPath]
	if saved.Get("bad.txt").InHistory(hashOf("content b")) {
		t.Error("unconfirmed upload must not enter history")
	}
	if !saved.Get("good.txt").InHistory(hashOf("content g")) {
		t.Error("verified upload missing from history")
	}
}

// corruptedReadTransport serves altered bytes on read-back for one path,
// simulating a server that mangles stored content.
type corruptedReadTransport struct {
	*transport.FakeTransport
	path string
}

func (t *corruptedReadTransport) Get(remotePath string) ([]byte, error) {
	if remotePath == t.path {
		if _, ok := t.Files[remotePath]; ok {
			return []byte("mangled by server"), nil
		}
	}
	return t.FakeTransport.Get(remotePath)
}

type staticDialer struct {
	conn transport.Transport
}

func (d *staticDialer) Dial(cfg *transport.Config) (transport.Transport, error) {
	return d.conn, nil
}

func TestReconcileUploadVerificationRetriesThenFails(t *testing.T) {
	env := newTestEnv(t)
	env.seedSnapshot(snapPath, func(snap *snapshot.Snapshot) {
		trackCleanFile(env, snap, "a.txt", "payload")
	})
	env.eng.dialer = &staticDialer{conn: &corruptedReadTransport{
		FakeTransport: env.remote,
		path:          "/a.txt",
	}}

	result, err := env.eng.Reconcile(ReconcileRequest{
		WorkingDir: env.root, SnapshotPath: snapPath, Remote: env.cfg, Deploy: true,
	})
	if err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}

	// The initial upload plus one re-upload per retry
	if got := len(env.remote.Puts); got != 1+uploadVerifyRetries {
		t.Errorf("uploads = %d, want %d", got, 1+uploadVerifyRetries)
	}

	r := report(t, result, "a.txt")
	if r.Deployed {
		t.Error("unverifiable upload must not read as deployed")
	}
	if !strings.Contains(r.Note, "verification") {
		t.Errorf("Note = %q, want a verification failure", r.Note)
	}
	if !result.Persisted {
		t.Error("snapshot not persisted after a per-file failure")
	}
	if env.store.snaps[snapPath].Get("a.txt").InHistory(hashOf("payload")) {
		t.Error("unverified upload must not enter history")
	}
}
