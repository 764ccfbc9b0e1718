package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	deployWorkingDir   string
	deploySnapshot     string
	deployRemoteConfig string
	deployRef          string
	deployBaseline     string
	deployFromGit      bool
)

var deployCmd = &cobra.Command{
	Use:   "deploy",
	Short: "Deploy goal content to the remote server",
	Long: `Classify every tracked file's remote copy, then deploy the intended content
where it is safe to do so.

Missing remote files are uploaded directly. Files whose remote copy matches a
known-safe state are backed up, then overwritten. Files in an unrecognized
state prompt for a decision: replace (after an investigative backup), keep, or
abort the whole run. Every upload is read back and verified before the state
history is extended, and the snapshot is only persisted when the run completes.

Examples:
  # Deploy tracked files
  stagesync deploy --remote-config staging.json

  # Deploy straight from git dirty files against a release branch
  stagesync deploy --remote-config staging.json --from-git --ref origin/release`,
	Args: cobra.NoArgs,
	RunE: runDeploy,
}

func init() {
	deployCmd.Flags().StringVar(&deployWorkingDir, "working-dir", "", "Directory inside the git repository (default: current directory)")
	deployCmd.Flags().StringVar(&deploySnapshot, "snapshot", "", "Snapshot file path (default: under ~/.stagesync/snapshots)")
	deployCmd.Flags().StringVar(&deployRemoteConfig, "remote-config", "", "Remote server config file (JSON or YAML)")
	deployCmd.Flags().StringVar(&deployRef, "ref", "", "Git reference to compare against (default: HEAD)")
	deployCmd.Flags().StringVar(&deployBaseline, "baseline", "", "Extra git reference whose blob hashes join the baseline set")
	deployCmd.Flags().BoolVar(&deployFromGit, "from-git", false, "Build the tracked set from git dirty files instead of the snapshot")
}

func runDeploy(cmd *cobra.Command, args []string) error {
	result, err := runReconcile(reconcileOptions{
		workingDir:   deployWorkingDir,
		snapshot:     deploySnapshot,
		remoteConfig: deployRemoteConfig,
		ref:          deployRef,
		baseline:     deployBaseline,
		fromGit:      deployFromGit,
		deploy:       true,
	})
	if err != nil {
		return reportPartialResult(result, err)
	}

	if jsonOutput {
		return outputJSON(result)
	}

	PrintSection(fmt.Sprintf("Deployment for %s", result.Project))
	PrintFileReports(result.Files)
	fmt.Println()
	PrintSuccess(fmt.Sprintf("Deployed %s", PrintCount(result.Deployed, "file", "files")))
	if result.Conflicts > 0 {
		PrintWarning(fmt.Sprintf("%s were classified DIFF_HASH", PrintCount(result.Conflicts, "file", "files")))
	}
	return nil
}
