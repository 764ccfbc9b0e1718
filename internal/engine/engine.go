// Package engine provides the core reconciliation logic for stagesync.
//
// The engine composes three sources of truth for every tracked file: the
// working tree, a git reference, and a remote copy with a rolling baseline
// history. A run proceeds in two phases:
//
//  1. Source resolution and goal selection: local and reference hashes are
//     computed, divergences are resolved into one immutable goal per file,
//     prompting the operator in bulk or individually when needed.
//  2. Remote classification and, when deployment is requested, conflict
//     resolution: every remote copy is classified against the goal and the
//     baseline set, and unknown remote states are resolved interactively
//     before anything is overwritten.
//
// Nothing destructive ever happens without a successful backup first, and an
// aborted run leaves the persisted snapshot untouched.
package engine

import (
	"io"

	"github.com/danieljhkim/stagesync/internal/backup"
	"github.com/danieljhkim/stagesync/internal/clock"
	"github.com/danieljhkim/stagesync/internal/config"
	"github.com/danieljhkim/stagesync/internal/fsops"
	"github.com/danieljhkim/stagesync/internal/gitx"
	"github.com/danieljhkim/stagesync/internal/hash"
	"github.com/danieljhkim/stagesync/internal/prompt"
	"github.com/danieljhkim/stagesync/internal/snapshot"
	"github.com/danieljhkim/stagesync/internal/transport"
)

// Engine orchestrates all stagesync operations.
// It is the main API surface called by the CLI.
type Engine struct {
	git      gitx.Repo
	store    snapshot.Store
	dialer   transport.Dialer
	fs       fsops.FS
	hasher   hash.Hasher
	clock    clock.Clock
	prompter prompt.DecisionProvider
	backups  *backup.Manager
	paths    config.Paths
	warnings io.Writer
}

// New creates a new Engine with the given dependencies.
func New(
	git gitx.Repo,
	store snapshot.Store,
	dialer transport.Dialer,
	fs fsops.FS,
	hasher hash.Hasher,
	clk clock.Clock,
	prompter prompt.DecisionProvider,
	backups *backup.Manager,
	paths config.Paths,
	warnings io.Writer,
) *Engine {
	return &Engine{
		git:      git,
		store:    store,
		dialer:   dialer,
		fs:       fs,
		hasher:   hasher,
		clock:    clk,
		prompter: prompter,
		backups:  backups,
		paths:    paths,
		warnings: warnings,
	}
}
