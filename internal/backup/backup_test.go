package backup

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/danieljhkim/stagesync/internal/clock"
	"github.com/danieljhkim/stagesync/internal/fsops"
)

func newTestManager(t *testing.T) (*Manager, string) {
	t.Helper()
	root := t.TempDir()
	clk := clock.NewFakeClock(time.Date(2025, 3, 1, 14, 30, 5, 0, time.UTC))
	return NewManager(fsops.NewRealFS(), clk, root), root
}

func TestPreOverwrite(t *testing.T) {
	m, root := newTestManager(t)

	path, err := m.PreOverwrite("myproject", "web/app/index.php", []byte("old remote content"))
	if err != nil {
		t.Fatalf("PreOverwrite() error = %v", err)
	}

	want := filepath.Join(root, "myproject", "web/app", "index.php.20250301143005")
	if path != want {
		t.Errorf("backup path = %q, want %q", path, want)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("backup unreadable: %v", err)
	}
	if string(data) != "old remote content" {
		t.Errorf("backup content = %q", data)
	}
}

func TestInvestigative(t *testing.T) {
	m, _ := newTestManager(t)

	path, err := m.Investigative("myproject", "config.php", []byte("unknown remote state"))
	if err != nil {
		t.Fatalf("Investigative() error = %v", err)
	}

	if !strings.HasSuffix(path, ".conflict_bk") {
		t.Errorf("investigative backup path %q lacks .conflict_bk suffix", path)
	}
	if !strings.Contains(path, "config.php.20250301143005") {
		t.Errorf("path %q lacks timestamp qualifier", path)
	}
}

func TestBackupsDoNotCollideAcrossTime(t *testing.T) {
	root := t.TempDir()
	clk := clock.NewFakeClock(time.Date(2025, 3, 1, 14, 30, 5, 0, time.UTC))
	m := NewManager(fsops.NewRealFS(), clk, root)

	p1, err := m.PreOverwrite("p", "a.txt", []byte("one"))
	if err != nil {
		t.Fatal(err)
	}
	clk.Advance(time.Second)
	p2, err := m.PreOverwrite("p", "a.txt", []byte("two"))
	if err != nil {
		t.Fatal(err)
	}

	if p1 == p2 {
		t.Error("backups at different times share a path")
	}
	if data, _ := os.ReadFile(p1); string(data) != "one" {
		t.Error("earlier backup was overwritten")
	}
}

func TestRejectsUnsafePath(t *testing.T) {
	m, root := newTestManager(t)

	if _, err := m.PreOverwrite("p", "../escape.txt", []byte("x")); err == nil {
		t.Error("expected error for traversal path")
	}

	entries, _ := os.ReadDir(root)
	if len(entries) != 0 {
		t.Error("unsafe backup should write nothing")
	}
}
