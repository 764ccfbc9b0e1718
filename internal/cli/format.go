package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/danieljhkim/stagesync/internal/engine"
)

var (
	// Color functions - fatih/color disables itself when output is not a TTY
	successColor = color.New(color.FgGreen, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	infoColor    = color.New(color.FgCyan)
	headerColor  = color.New(color.FgBlue, color.Bold)
	labelColor   = color.New(color.FgWhite, color.Bold)
	valueColor   = color.New(color.FgHiBlack)
	dimColor     = color.New(color.FgHiBlack)
)

// PrintSuccess prints a success message with a checkmark
func PrintSuccess(msg string) {
	_, _ = successColor.Printf("✓ %s\n", msg)
}

// PrintWarning prints a warning message with a warning symbol
func PrintWarning(msg string) {
	_, _ = warningColor.Printf("⚠ %s\n", msg)
}

// PrintError prints an error message to stderr
func PrintError(msg string) {
	_, _ = errorColor.Fprintf(os.Stderr, "✗ %s\n", msg)
}

// PrintInfo prints an informational message
func PrintInfo(msg string) {
	fmt.Println(msg)
}

// PrintSection prints a section header
func PrintSection(title string) {
	fmt.Println()
	_, _ = headerColor.Printf("▸ %s\n", title)
	fmt.Println()
}

// PrintLabelValue prints a label-value pair with proper formatting
func PrintLabelValue(label, value string) {
	_, _ = labelColor.Printf("  %s: ", label)
	_, _ = valueColor.Println(value)
}

// PrintEmptyState prints a message when there's no data to show
func PrintEmptyState(msg string) {
	_, _ = dimColor.Printf("  %s\n", msg)
}

// statusColor maps a classification to a display color.
func statusColor(status engine.Status) *color.Color {
	switch status {
	case engine.StatusMatchGoal:
		return successColor
	case engine.StatusMatchBaseline:
		return infoColor
	case engine.StatusMissing:
		return warningColor
	case engine.StatusDiffHash, engine.StatusDiffSize:
		return errorColor
	default:
		return dimColor
	}
}

// PrintFileReports prints the per-file classification table of a reconcile run.
func PrintFileReports(reports []engine.FileReport) {
	if len(reports) == 0 {
		PrintEmptyState("no tracked files")
		return
	}

	pathWidth := len("PATH")
	for _, r := range reports {
		if len(r.Path) > pathWidth {
			pathWidth = len(r.Path)
		}
	}

	_, _ = headerColor.Printf("  %-*s  %-14s  %s\n", pathWidth, "PATH", "STATUS", "DETAIL")
	fmt.Printf("  %s  %s  %s\n", strings.Repeat("-", pathWidth), strings.Repeat("-", 14), strings.Repeat("-", 6))

	for _, r := range reports {
		detail := reportDetail(&r)
		fmt.Printf("  %-*s  ", pathWidth, r.Path)
		_, _ = statusColor(r.Status).Printf("%-14s", string(r.Status))
		fmt.Printf("  %s\n", detail)
	}
}

// reportDetail builds the human-readable trailing column for one file.
func reportDetail(r *engine.FileReport) string {
	var parts []string
	if r.Deployed {
		parts = append(parts, "deployed")
	}
	if r.GoalSource == engine.GoalReference {
		parts = append(parts, "goal: reference")
	}
	if r.BackupPath != "" {
		parts = append(parts, "backup: "+r.BackupPath)
	}
	if r.Note != "" {
		parts = append(parts, r.Note)
	}
	return strings.Join(parts, "; ")
}

// PrintCount prints a count with proper formatting
func PrintCount(count int, singular, plural string) string {
	if count == 1 {
		return fmt.Sprintf("%d %s", count, singular)
	}
	return fmt.Sprintf("%d %s", count, plural)
}
