// Package backup persists copies of remote content before it is touched.
//
// Two backup kinds exist, both timestamp-qualified and keyed by project and
// relative path:
//
//   - pre-overwrite: taken immediately before any remote file is overwritten,
//     for rollback;
//   - investigative: taken when the operator keeps an unknown remote state,
//     suffixed ".conflict_bk", for inspection.
//
// A failed backup write refuses the corresponding overwrite: the engine never
// deploys over content it could not preserve first.
package backup

import (
	"fmt"
	"path/filepath"

	"github.com/danieljhkim/stagesync/internal/clock"
	"github.com/danieljhkim/stagesync/internal/fsops"
)

// InvestigativeSuffix marks backups taken for inspection rather than rollback.
const InvestigativeSuffix = ".conflict_bk"

// suffixFormat is the timestamp qualifier appended to backup filenames.
const suffixFormat = "20060102150405"

// Manager writes timestamped backups under a root directory.
type Manager struct {
	fs    fsops.FS
	clock clock.Clock
	root  string
}

// NewManager creates a Manager writing under root.
func NewManager(fs fsops.FS, clk clock.Clock, root string) *Manager {
	return &Manager{fs: fs, clock: clk, root: root}
}

// PreOverwrite persists content as a rollback backup for project/relPath and
// returns the backup file path.
func (m *Manager) PreOverwrite(project, relPath string, content []byte) (string, error) {
	return m.write(project, relPath, content, "")
}

// Investigative persists content as a .conflict_bk inspection backup and
// returns the backup file path.
func (m *Manager) Investigative(project, relPath string, content []byte) (string, error) {
	return m.write(project, relPath, content, InvestigativeSuffix)
}

func (m *Manager) write(project, relPath string, content []byte, suffix string) (string, error) {
	if err := m.fs.ValidateRelPath(relPath); err != nil {
		return "", fmt.Errorf("invalid backup path: %w", err)
	}

	ts := m.clock.Now().Format(suffixFormat)
	name := fmt.Sprintf("%s.%s%s", filepath.Base(relPath), ts, suffix)
	dest := filepath.Join(m.root, project, filepath.Dir(relPath), name)

	if err := m.fs.AtomicWrite(dest, content, 0644); err != nil {
		return "", fmt.Errorf("failed to write backup %s: %w", dest, err)
	}

	// Verify the backup landed intact before anything destructive proceeds
	info, err := m.fs.Lstat(dest)
	if err != nil {
		return "", fmt.Errorf("failed to verify backup %s: %w", dest, err)
	}
	if info.Size() != int64(len(content)) {
		return "", fmt.Errorf("backup verification failed for %s: size %d, want %d", dest, info.Size(), len(content))
	}

	return dest, nil
}
