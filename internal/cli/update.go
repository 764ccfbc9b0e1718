package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/stagesync/internal/engine"
)

var (
	updateWorkingDir string
	updateSnapshot   string
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Refresh local hashes in an existing snapshot",
	Long: `Refresh the local hash, size, and timestamp of currently-dirty files in an
existing snapshot. Reference fields and remote history are left untouched, and
records for files no longer dirty are kept as they are.`,
	Args: cobra.NoArgs,
	RunE: runUpdate,
}

func init() {
	updateCmd.Flags().StringVar(&updateWorkingDir, "working-dir", "", "Directory inside the git repository (default: current directory)")
	updateCmd.Flags().StringVar(&updateSnapshot, "snapshot", "", "Snapshot file path (default: under ~/.stagesync/snapshots)")
}

func runUpdate(cmd *cobra.Command, args []string) error {
	eng, paths, err := newEngine()
	if err != nil {
		return err
	}

	workingDir, err := resolveWorkingDir(updateWorkingDir)
	if err != nil {
		return err
	}
	snapPath, err := resolveSnapshotPath(paths, updateSnapshot, workingDir)
	if err != nil {
		return err
	}

	result, err := eng.Update(engine.UpdateRequest{
		WorkingDir:   workingDir,
		SnapshotPath: snapPath,
	})
	if err != nil {
		return err
	}

	if jsonOutput {
		return outputJSON(result)
	}

	PrintSuccess(fmt.Sprintf("Refreshed %d, added %d (%s tracked)",
		result.Refreshed, result.Added, PrintCount(result.Total, "file", "files")))
	PrintLabelValue("Snapshot", result.SnapshotPath)
	return nil
}
