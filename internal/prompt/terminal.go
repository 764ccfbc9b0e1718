package prompt

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// TerminalPrompter implements DecisionProvider over an input/output stream
// pair, normally stdin and stdout.
type TerminalPrompter struct {
	in  *bufio.Scanner
	out io.Writer
}

// NewTerminalPrompter creates a TerminalPrompter reading answers from in and
// writing prompts to out.
func NewTerminalPrompter(in io.Reader, out io.Writer) *TerminalPrompter {
	return &TerminalPrompter{in: bufio.NewScanner(in), out: out}
}

// readLine returns the next trimmed, lowercased input line. EOF reads as
// empty input, which every prompt treats as abort.
func (p *TerminalPrompter) readLine() string {
	if !p.in.Scan() {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(p.in.Text()))
}

// GoalBulk asks how to resolve all diverged files at once.
func (p *TerminalPrompter) GoalBulk(paths []string) (GoalBulkAction, error) {
	fmt.Fprintf(p.out, "\n%d file(s) differ between working tree and reference:\n", len(paths))
	for _, path := range paths {
		fmt.Fprintf(p.out, "  %s\n", path)
	}
	fmt.Fprint(p.out, "Deploy which content? [l]ocal all / [r]eference all / [i]ndividual / abort (empty): ")

	for {
		switch p.readLine() {
		case "l", "local":
			return GoalBulkUseLocal, nil
		case "r", "reference":
			return GoalBulkUseReference, nil
		case "i", "individual":
			return GoalBulkIndividual, nil
		case "":
			return GoalBulkAbort, nil
		default:
			fmt.Fprint(p.out, "Please answer l, r, i, or press enter to abort: ")
		}
	}
}

// GoalFile asks which content to deploy for one diverged file.
func (p *TerminalPrompter) GoalFile(path string) (GoalFileAction, error) {
	fmt.Fprintf(p.out, "%s: [l]ocal / [r]eference / abort (empty): ", path)

	for {
		switch p.readLine() {
		case "l", "local":
			return GoalFileUseLocal, nil
		case "r", "reference":
			return GoalFileUseReference, nil
		case "":
			return GoalFileAbort, nil
		default:
			fmt.Fprint(p.out, "Please answer l, r, or press enter to abort: ")
		}
	}
}

// Conflict asks what to do with a remote file in an unknown state.
func (p *TerminalPrompter) Conflict(info ConflictInfo) (ConflictAction, error) {
	fmt.Fprintf(p.out, "\nCONFLICT %s\n", info.Path)
	fmt.Fprintf(p.out, "  goal hash:   %s\n", info.GoalHash)
	fmt.Fprintf(p.out, "  remote hash: %s", info.RemoteHash)
	if info.RemoteTime != "" {
		fmt.Fprintf(p.out, " (modified %s)", info.RemoteTime)
	}
	fmt.Fprintln(p.out)
	fmt.Fprint(p.out, "[r]eplace / replace [a]ll / [k]eep / [l]ist remaining / abort (empty): ")

	for {
		switch p.readLine() {
		case "r", "replace":
			return ConflictReplace, nil
		case "a", "all":
			return ConflictReplaceAll, nil
		case "k", "keep":
			return ConflictKeep, nil
		case "l", "list":
			return ConflictListBulk, nil
		case "":
			return ConflictAbort, nil
		default:
			fmt.Fprint(p.out, "Please answer r, a, k, l, or press enter to abort: ")
		}
	}
}

// ConfirmDeploy asks whether to proceed with deploying clean files.
func (p *TerminalPrompter) ConfirmDeploy(fileCount int) (bool, error) {
	fmt.Fprintf(p.out, "\nDeploy %d file(s)? [y]es / anything else cancels: ", fileCount)
	answer := p.readLine()
	return answer == "y" || answer == "yes", nil
}
