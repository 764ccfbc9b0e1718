package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/stagesync/internal/diffn"
	"github.com/danieljhkim/stagesync/internal/gitx"
)

var diffnRef string

var diffnCmd = &cobra.Command{
	Use:   "diffn <left::right | path>...",
	Short: "Compare files by normalized hash",
	Long: `Compare files by a hash that ignores line endings and per-line leading and
trailing whitespace, so formatting-only divergence reads as a match.

Each argument is either a left::right pair of filesystem paths, or — with
--ref — a repository-relative path compared against its committed content.

Examples:
  # Compare two exported copies
  stagesync diffn build/app.cfg::deploy/app.cfg

  # Compare working-tree files against HEAD
  stagesync diffn --ref HEAD src/main.cfg src/jobs.cfg`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDiffn,
}

func init() {
	diffnCmd.Flags().StringVar(&diffnRef, "ref", "", "Compare each path against its content at this git reference")
}

func runDiffn(cmd *cobra.Command, args []string) error {
	var results []diffn.Result
	if diffnRef != "" {
		repo := gitx.NewRealRepo()
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get current directory: %w", err)
		}
		root, err := repo.Discover(cwd)
		if err != nil {
			return fmt.Errorf("not in a git repository: %w", err)
		}
		for _, path := range args {
			results = append(results, compareAgainstRef(repo, root, path))
		}
	} else {
		for _, arg := range args {
			results = append(results, comparePair(arg))
		}
	}

	if jsonOutput {
		type jsonResult struct {
			Label   string `json:"label"`
			Outcome string `json:"outcome"`
			Detail  string `json:"detail,omitempty"`
		}
		out := make([]jsonResult, 0, len(results))
		for _, r := range results {
			out = append(out, jsonResult{Label: r.Label, Outcome: string(r.Outcome), Detail: r.Detail})
		}
		return outputJSON(out)
	}

	diffs := 0
	for _, r := range results {
		switch r.Outcome {
		case diffn.OutcomeMatch:
			_, _ = successColor.Printf("MATCH  ")
		case diffn.OutcomeDiff:
			_, _ = errorColor.Printf("DIFF   ")
			diffs++
		default:
			_, _ = warningColor.Printf("ERROR  ")
			diffs++
		}
		fmt.Print(r.Label)
		if r.Detail != "" {
			_, _ = dimColor.Printf("  (%s)", r.Detail)
		}
		fmt.Println()
	}

	if diffs > 0 {
		return fmt.Errorf("%s did not match", PrintCount(diffs, "file", "files"))
	}
	return nil
}

// comparePair handles one left::right argument.
func comparePair(arg string) diffn.Result {
	left, right, ok := strings.Cut(arg, "::")
	if !ok {
		return diffn.Result{Label: arg, Outcome: diffn.OutcomeError, Detail: "expected left::right"}
	}
	return diffn.Compare(arg, readOrNil(left), readOrNil(right), left, right)
}

// compareAgainstRef compares a working-tree file with its committed blob.
// The path is repository-relative.
func compareAgainstRef(repo gitx.Repo, root, path string) diffn.Result {
	blob, err := repo.ReadBlob(root, diffnRef, path)
	if err != nil {
		blob = nil
	}
	return diffn.Compare(path, readOrNil(filepath.Join(root, path)), blob, path, diffnRef+":"+path)
}

func readOrNil(path string) []byte {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	return data
}
