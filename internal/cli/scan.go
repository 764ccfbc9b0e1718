package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/stagesync/internal/engine"
)

var (
	scanWorkingDir string
	scanSnapshot   string
	scanRef        string
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Build a fresh snapshot of dirty files",
	Long: `Build a fresh snapshot from the files currently dirty in the working tree.

Each dirty file is recorded with its local hash and, when the file exists at
the reference, the committed hash and commit time. Hashes ignore line endings,
so a file that differs only in CRLF vs LF reads as unchanged.

Examples:
  # Snapshot against HEAD into the default location
  stagesync scan

  # Snapshot against a branch into an explicit file
  stagesync scan --ref origin/release --snapshot ./proj.json`,
	Args: cobra.NoArgs,
	RunE: runScan,
}

func init() {
	scanCmd.Flags().StringVar(&scanWorkingDir, "working-dir", "", "Directory inside the git repository (default: current directory)")
	scanCmd.Flags().StringVar(&scanSnapshot, "snapshot", "", "Snapshot file path (default: under ~/.stagesync/snapshots)")
	scanCmd.Flags().StringVar(&scanRef, "ref", "", "Git reference to compare against (default: HEAD)")
}

func runScan(cmd *cobra.Command, args []string) error {
	eng, paths, err := newEngine()
	if err != nil {
		return err
	}

	workingDir, err := resolveWorkingDir(scanWorkingDir)
	if err != nil {
		return err
	}
	snapPath, err := resolveSnapshotPath(paths, scanSnapshot, workingDir)
	if err != nil {
		return err
	}

	result, err := eng.Scan(engine.ScanRequest{
		WorkingDir:   workingDir,
		SnapshotPath: snapPath,
		Ref:          scanRef,
	})
	if err != nil {
		return err
	}

	if jsonOutput {
		return outputJSON(result)
	}

	if len(result.Entries) == 0 {
		PrintInfo("Working tree is clean; wrote an empty snapshot")
		return nil
	}

	diverged := 0
	for _, e := range result.Entries {
		marker := " "
		if e.Diverged {
			marker = "*"
			diverged++
		}
		fmt.Printf("  %s %s\n", marker, e.Path)
	}
	PrintSuccess(fmt.Sprintf("Tracked %s (%d diverged from reference)",
		PrintCount(len(result.Entries), "file", "files"), diverged))
	PrintLabelValue("Snapshot", result.SnapshotPath)
	return nil
}
