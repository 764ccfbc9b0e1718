package fsops

import (
	"os"
	"path/filepath"
	"testing"
)

func TestAtomicWrite(t *testing.T) {
	fs := NewRealFS()
	dir := t.TempDir()

	path := filepath.Join(dir, "nested", "snapshot.json")
	data := []byte(`{"files":[]}`)

	if err := fs.AtomicWrite(path, data, 0644); err != nil {
		t.Fatalf("AtomicWrite() error = %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(got) != string(data) {
		t.Errorf("content = %q, want %q", got, data)
	}

	// No temp files left behind
	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("expected 1 entry in dir, got %d", len(entries))
	}
}

func TestAtomicWriteOverwrites(t *testing.T) {
	fs := NewRealFS()
	dir := t.TempDir()
	path := filepath.Join(dir, "file.txt")

	if err := fs.AtomicWrite(path, []byte("first"), 0644); err != nil {
		t.Fatalf("AtomicWrite() error = %v", err)
	}
	if err := fs.AtomicWrite(path, []byte("second"), 0644); err != nil {
		t.Fatalf("AtomicWrite() overwrite error = %v", err)
	}

	got, _ := fs.ReadFile(path)
	if string(got) != "second" {
		t.Errorf("content = %q, want %q", got, "second")
	}
}

func TestExists(t *testing.T) {
	fs := NewRealFS()
	dir := t.TempDir()
	path := filepath.Join(dir, "present.txt")

	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	exists, err := fs.Exists(path)
	if err != nil {
		t.Fatalf("Exists() error = %v", err)
	}
	if !exists {
		t.Error("Exists() = false for existing file")
	}

	exists, err = fs.Exists(filepath.Join(dir, "absent.txt"))
	if err != nil {
		t.Fatalf("Exists() error = %v", err)
	}
	if exists {
		t.Error("Exists() = true for missing file")
	}
}

func TestValidateRelPath(t *testing.T) {
	fs := NewRealFS()

	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"simple file", "config.php", false},
		{"nested path", "src/lib/util.js", false},
		{"empty", "", true},
		{"dot", ".", true},
		{"absolute", "/etc/passwd", true},
		{"traversal prefix", "../outside.txt", true},
		{"traversal inner", "src/../../outside.txt", true},
		{"dot segment cleans away", "src/./main.go", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := fs.ValidateRelPath(tt.path)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateRelPath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
		})
	}
}
