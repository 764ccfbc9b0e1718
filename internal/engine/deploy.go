package engine

import (
	"fmt"

	"github.com/danieljhkim/stagesync/internal/transport"
)

// uploadVerifyRetries is how many times an upload is re-attempted when the
// read-back hash does not match the goal.
const uploadVerifyRetries = 3

// deployFile uploads the goal content for one file, taking a pre-overwrite
// backup first whenever remote content exists. A failed backup refuses the
// overwrite and degrades to a per-file failure; the run continues.
//
// After the upload the remote copy is read back and its normalized hash
// compared against the goal, retrying the upload a bounded number of times.
func (e *Engine) deployFile(conn transport.Transport, root, project, remotePath string, g *goal, report *FileReport, remoteContent []byte) error {
	if remoteContent != nil {
		backupPath, err := e.backups.PreOverwrite(project, g.path, remoteContent)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrBackupFailed, g.path, err)
		}
		report.BackupPath = backupPath
	}

	data, err := e.goalContent(root, g)
	if err != nil {
		return err
	}

	if err := conn.Put(remotePath, data); err != nil {
		return fmt.Errorf("failed to upload %s: %w", g.path, err)
	}

	for attempt := 0; ; attempt++ {
		readBack, err := conn.Get(remotePath)
		if err != nil {
			return fmt.Errorf("failed to verify upload of %s: %w", g.path, err)
		}
		if e.hasher.SumBytes(readBack) == g.hash {
			break
		}
		if attempt >= uploadVerifyRetries {
			return fmt.Errorf("upload verification failed for %s after %d retries", g.path, uploadVerifyRetries)
		}
		if err := conn.Put(remotePath, data); err != nil {
			return fmt.Errorf("failed to re-upload %s: %w", g.path, err)
		}
	}

	report.Deployed = true
	return nil
}
