package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/stagesync/internal/engine"
)

var (
	verifyWorkingDir   string
	verifySnapshot     string
	verifyRemoteConfig string
	verifyRef          string
	verifyBaseline     string
	verifyFromGit      bool
	verifySizeOnly     bool
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Classify remote files without deploying",
	Long: `Classify every tracked file's remote copy against the intended content and
the history of known-safe states, without changing anything on the server.

Each file reports one of:
  MATCH_GOAL      remote already holds the intended content
  MATCH_BASELINE  remote holds a known-safe prior state
  DIFF_HASH       remote holds unrecognized content (a conflict)
  MISSING         remote file does not exist
  DIFF_SIZE       sizes differ (size-only mode)

Examples:
  # Verify against the default snapshot
  stagesync verify --remote-config staging.json

  # Quick size-only pass, extra baseline reference
  stagesync verify --remote-config staging.yaml --size-only --baseline origin/main`,
	Args: cobra.NoArgs,
	RunE: runVerify,
}

func init() {
	verifyCmd.Flags().StringVar(&verifyWorkingDir, "working-dir", "", "Directory inside the git repository (default: current directory)")
	verifyCmd.Flags().StringVar(&verifySnapshot, "snapshot", "", "Snapshot file path (default: under ~/.stagesync/snapshots)")
	verifyCmd.Flags().StringVar(&verifyRemoteConfig, "remote-config", "", "Remote server config file (JSON or YAML)")
	verifyCmd.Flags().StringVar(&verifyRef, "ref", "", "Git reference to compare against (default: HEAD)")
	verifyCmd.Flags().StringVar(&verifyBaseline, "baseline", "", "Extra git reference whose blob hashes join the baseline set")
	verifyCmd.Flags().BoolVar(&verifyFromGit, "from-git", false, "Build the tracked set from git dirty files instead of the snapshot")
	verifyCmd.Flags().BoolVar(&verifySizeOnly, "size-only", false, "Compare raw byte sizes instead of content hashes")
}

func runVerify(cmd *cobra.Command, args []string) error {
	result, err := runReconcile(reconcileOptions{
		workingDir:   verifyWorkingDir,
		snapshot:     verifySnapshot,
		remoteConfig: verifyRemoteConfig,
		ref:          verifyRef,
		baseline:     verifyBaseline,
		fromGit:      verifyFromGit,
		sizeOnly:     verifySizeOnly,
		deploy:       false,
	})
	if err != nil {
		return reportPartialResult(result, err)
	}

	if jsonOutput {
		return outputJSON(result)
	}

	PrintSection(fmt.Sprintf("Remote state for %s", result.Project))
	PrintFileReports(result.Files)
	fmt.Println()
	if result.Conflicts > 0 {
		PrintWarning(fmt.Sprintf("%s need attention", PrintCount(result.Conflicts, "conflict", "conflicts")))
	} else {
		PrintSuccess("No conflicts")
	}
	return nil
}

// reportPartialResult prints whatever the run resolved before the remote
// server became unreachable. Local and reference state were already computed,
// so a dead server still yields that much of the picture.
func reportPartialResult(result *engine.ReconcileResult, err error) error {
	if result == nil || len(result.Files) == 0 || !errors.Is(err, engine.ErrRemoteUnavailable) {
		return err
	}
	if jsonOutput {
		_ = outputJSON(result)
		return err
	}
	PrintWarning("Remote unreachable; showing local and reference state only")
	PrintFileReports(result.Files)
	return err
}

// reconcileOptions is the shared flag set behind verify and deploy.
type reconcileOptions struct {
	workingDir   string
	snapshot     string
	remoteConfig string
	ref          string
	baseline     string
	fromGit      bool
	sizeOnly     bool
	deploy       bool
}

func runReconcile(opts reconcileOptions) (*engine.ReconcileResult, error) {
	eng, paths, err := newEngine()
	if err != nil {
		return nil, err
	}

	remoteCfg, err := loadRemoteConfig(opts.remoteConfig)
	if err != nil {
		return nil, err
	}
	workingDir, err := resolveWorkingDir(opts.workingDir)
	if err != nil {
		return nil, err
	}
	snapPath, err := resolveSnapshotPath(paths, opts.snapshot, workingDir)
	if err != nil {
		return nil, err
	}

	return eng.Reconcile(engine.ReconcileRequest{
		WorkingDir:   workingDir,
		SnapshotPath: snapPath,
		FromGit:      opts.fromGit,
		Ref:          opts.ref,
		BaselineRef:  opts.baseline,
		Remote:       remoteCfg,
		Deploy:       opts.deploy,
		SizeOnly:     opts.sizeOnly,
	})
}
