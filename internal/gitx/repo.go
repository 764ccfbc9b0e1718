// Package gitx provides the version-control reference used as the source of
// truth for clean file content. It shells out to the git CLI, mirroring what a
// developer would run by hand: `git status --porcelain -uall` to enumerate
// dirty files, `git show <ref>:<path>` to read reference content, and
// `git log -1 --format=%aI` for the reference timestamp.
package gitx

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

var (
	// ErrBlobNotFound indicates the file does not exist at the given reference.
	ErrBlobNotFound = errors.New("blob not found at reference")

	// ErrRefUnavailable indicates the reference itself cannot be resolved.
	ErrRefUnavailable = errors.New("reference unavailable")
)

// Repo provides an abstraction for git repository operations.
type Repo interface {
	// Discover finds the git repository root starting from cwd.
	Discover(cwd string) (root string, err error)

	// ChangedFiles returns the relative paths of modified and untracked
	// files in the working tree.
	ChangedFiles(root string) ([]string, error)

	// ReadBlob returns the content of relPath at the given reference.
	// Returns ErrBlobNotFound if the file does not exist there.
	ReadBlob(root, ref, relPath string) ([]byte, error)

	// BlobTime returns the ISO 8601 author date of the last commit touching
	// relPath at the given reference, or "" if unknown.
	BlobTime(root, ref, relPath string) string

	// ResolveRef verifies that ref names a commit and returns its hash.
	// Returns ErrRefUnavailable if it cannot be resolved.
	ResolveRef(root, ref string) (string, error)
}

// RealRepo implements Repo using actual git commands.
type RealRepo struct{}

// NewRealRepo creates a new RealRepo.
func NewRealRepo() *RealRepo {
	return &RealRepo{}
}

// Discover finds the git repository root by walking up from cwd looking for
// a .git directory.
func (g *RealRepo) Discover(cwd string) (string, error) {
	absPath, err := filepath.Abs(cwd)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path: %w", err)
	}

	current := absPath
	for {
		gitDir := filepath.Join(current, ".git")
		if info, err := os.Stat(gitDir); err == nil {
			// .git can be a directory or a file (for worktrees/submodules)
			if info.IsDir() || info.Mode().IsRegular() {
				return current, nil
			}
		}

		parent := filepath.Dir(current)
		if parent == current {
			// Reached root directory
			return "", fmt.Errorf("not in a git repository")
		}
		current = parent
	}
}

// ChangedFiles returns the relative paths of dirty (modified or untracked)
// files reported by `git status --porcelain -uall`.
func (g *RealRepo) ChangedFiles(root string) ([]string, error) {
	out, err := g.run(root, "status", "--porcelain", "-uall")
	if err != nil {
		return nil, fmt.Errorf("failed to run git status: %w", err)
	}
	return ParseStatusLines(string(out)), nil
}

// ParseStatusLines extracts paths from `git status --porcelain` output.
// Each line is "XY PATH"; the path starts at column 3 and may be quoted.
func ParseStatusLines(out string) []string {
	var paths []string
	for _, line := range strings.Split(out, "\n") {
		if len(line) <= 3 {
			continue
		}
		path := strings.Trim(line[3:], `"`)
		// Renames are reported as "old -> new"; the new path is tracked
		if idx := strings.Index(path, " -> "); idx >= 0 {
			path = path[idx+4:]
		}
		paths = append(paths, path)
	}
	return paths
}

// ReadBlob returns the content of relPath at the given reference via
// `git show <ref>:<path>`.
func (g *RealRepo) ReadBlob(root, ref, relPath string) ([]byte, error) {
	// git pathspecs always use forward slashes
	gitPath := strings.ReplaceAll(relPath, "\\", "/")
	out, err := g.run(root, "show", fmt.Sprintf("%s:%s", ref, gitPath))
	if err != nil {
		// Only an absent path reads as ErrBlobNotFound; a transient git
		// failure must not masquerade as "file missing at reference"
		if blobAbsentMessage(err.Error()) {
			return nil, ErrBlobNotFound
		}
		return nil, fmt.Errorf("failed to read %s at %s: %w", relPath, ref, err)
	}
	return out, nil
}

// blobAbsentMessage reports whether a git show failure means the path does
// not exist at the reference. git prints one of two fatal messages for that
// case; anything else (lock contention, bad object, corrupt repo) is a real
// failure.
func blobAbsentMessage(msg string) bool {
	return strings.Contains(msg, "does not exist in") ||
		strings.Contains(msg, "exists on disk, but not in")
}

// BlobTime returns the ISO 8601 author date of the last commit touching
// relPath, or "" if git reports nothing.
func (g *RealRepo) BlobTime(root, ref, relPath string) string {
	gitPath := strings.ReplaceAll(relPath, "\\", "/")
	out, err := g.run(root, "log", "-1", "--format=%aI", ref, "--", gitPath)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}

// ResolveRef verifies that ref names a commit via `git rev-parse --verify`.
func (g *RealRepo) ResolveRef(root, ref string) (string, error) {
	out, err := g.run(root, "rev-parse", "--verify", ref+"^{commit}")
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrRefUnavailable, ref)
	}
	return strings.TrimSpace(string(out)), nil
}

// FakeRepo implements Repo with predetermined values for testing.
type FakeRepo struct {
	root    string
	changed []string
	blobs   map[string]map[string][]byte // ref -> path -> content
	times   map[string]string
	err     error
}

// NewFakeRepo creates a new FakeRepo rooted at root.
func NewFakeRepo(root string) *FakeRepo {
	return &FakeRepo{
		root:  root,
		blobs: make(map[string]map[string][]byte),
		times: make(map[string]string),
	}
}

// SetError sets an error to be returned by all methods.
func (g *FakeRepo) SetError(err error) {
	g.err = err
}

// SetChanged sets the dirty file list.
func (g *FakeRepo) SetChanged(paths ...string) {
	g.changed = paths
}

// SetBlob sets the content of relPath at ref.
func (g *FakeRepo) SetBlob(ref, relPath string, content []byte) {
	if g.blobs[ref] == nil {
		g.blobs[ref] = make(map[string][]byte)
	}
	g.blobs[ref][relPath] = content
}

// SetBlobTime sets the commit timestamp reported for relPath.
func (g *FakeRepo) SetBlobTime(relPath, ts string) {
	g.times[relPath] = ts
}

// Discover returns the predetermined root.
func (g *FakeRepo) Discover(cwd string) (string, error) {
	if g.err != nil {
		return "", g.err
	}
	return g.root, nil
}

// ChangedFiles returns the predetermined dirty file list.
func (g *FakeRepo) ChangedFiles(root string) ([]string, error) {
	if g.err != nil {
		return nil, g.err
	}
	return g.changed, nil
}

// ReadBlob returns the predetermined content, or ErrBlobNotFound.
func (g *FakeRepo) ReadBlob(root, ref, relPath string) ([]byte, error) {
	if g.err != nil {
		return nil, g.err
	}
	if content, ok := g.blobs[ref][relPath]; ok {
		return append([]byte(nil), content...), nil
	}
	return nil, ErrBlobNotFound
}

// BlobTime returns the predetermined timestamp.
func (g *FakeRepo) BlobTime(root, ref, relPath string) string {
	return g.times[relPath]
}

// ResolveRef resolves any ref that has blobs set, plus HEAD.
func (g *FakeRepo) ResolveRef(root, ref string) (string, error) {
	if g.err != nil {
		return "", g.err
	}
	if ref == "HEAD" {
		return "0000000000000000000000000000000000000000", nil
	}
	if _, ok := g.blobs[ref]; ok {
		return "0000000000000000000000000000000000000000", nil
	}
	return "", fmt.Errorf("%w: %s", ErrRefUnavailable, ref)
}

// run executes a git subcommand in the given directory and returns stdout.
func (g *RealRepo) run(dir string, args ...string) ([]byte, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("git %s: %v: %s", strings.Join(args, " "), err, strings.TrimSpace(stderr.String()))
	}
	return stdout.Bytes(), nil
}
