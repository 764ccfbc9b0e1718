package snapshot

import (
	"reflect"
	"testing"
)

func TestUpsertIsIdempotent(t *testing.T) {
	s := New(ModeScan, "myproject")

	a := s.Upsert("src/a.txt")
	a.LocalHash = "H1"

	b := s.Upsert("src/a.txt")
	if a != b {
		t.Error("Upsert returned a new record for an existing path")
	}
	if b.LocalHash != "H1" {
		t.Errorf("LocalHash = %q, want H1", b.LocalHash)
	}
}

func TestSortedPaths(t *testing.T) {
	s := New(ModeScan, "p")
	s.Upsert("zeta.txt")
	s.Upsert("alpha.txt")
	s.Upsert("mid/nested.txt")

	want := []string{"alpha.txt", "mid/nested.txt", "zeta.txt"}
	if got := s.SortedPaths(); !reflect.DeepEqual(got, want) {
		t.Errorf("SortedPaths() = %v, want %v", got, want)
	}
}

func TestAppendHistory(t *testing.T) {
	f := &TrackedFile{Path: "a.txt", RemoteHistory: []string{"H1", "H2"}}

	f.AppendHistory("H3")
	f.AppendHistory("H2") // duplicate
	f.AppendHistory("")   // empty ignored

	want := []string{"H1", "H2", "H3"}
	if !reflect.DeepEqual(f.RemoteHistory, want) {
		t.Errorf("RemoteHistory = %v, want %v", f.RemoteHistory, want)
	}

	if !f.InHistory("H1") || f.InHistory("H9") {
		t.Error("InHistory membership incorrect")
	}
}

func TestCloneIsDeep(t *testing.T) {
	s := New(ModeVerify, "p")
	f := s.Upsert("a.txt")
	f.LocalHash = "H1"
	f.RemoteHistory = []string{"R1"}

	c := s.Clone()
	c.Upsert("a.txt").LocalHash = "CHANGED"
	c.Upsert("a.txt").AppendHistory("R2")
	c.Upsert("b.txt")

	if s.Files["a.txt"].LocalHash != "H1" {
		t.Error("mutating clone changed original record")
	}
	if len(s.Files["a.txt"].RemoteHistory) != 1 {
		t.Error("mutating clone history changed original history")
	}
	if len(s.Files) != 1 {
		t.Error("adding to clone changed original file set")
	}
}
