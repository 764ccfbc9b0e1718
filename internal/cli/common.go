package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/danieljhkim/stagesync/internal/backup"
	"github.com/danieljhkim/stagesync/internal/clock"
	"github.com/danieljhkim/stagesync/internal/config"
	"github.com/danieljhkim/stagesync/internal/engine"
	"github.com/danieljhkim/stagesync/internal/fsops"
	"github.com/danieljhkim/stagesync/internal/gitx"
	"github.com/danieljhkim/stagesync/internal/hash"
	"github.com/danieljhkim/stagesync/internal/prompt"
	"github.com/danieljhkim/stagesync/internal/snapshot"
	"github.com/danieljhkim/stagesync/internal/transport"
)

// newEngine creates a new engine with real implementations of all dependencies.
func newEngine() (*engine.Engine, *config.Paths, error) {
	paths, err := config.DefaultPaths()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get config paths: %w", err)
	}
	if err := paths.EnsureDirectories(); err != nil {
		return nil, nil, fmt.Errorf("failed to ensure directories: %w", err)
	}

	fs := fsops.NewRealFS()
	clk := &clock.RealClock{}

	eng := engine.New(
		gitx.NewRealRepo(),
		snapshot.NewFileStore(fs),
		transport.NewFTPDialer(),
		fs,
		hash.NewNormalizedSHA256(),
		clk,
		prompt.NewTerminalPrompter(os.Stdin, os.Stdout),
		backup.NewManager(fs, clk, paths.Backups),
		*paths,
		os.Stderr,
	)
	return eng, paths, nil
}

// resolveWorkingDir returns the explicit --working-dir or the current
// directory.
func resolveWorkingDir(explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current directory: %w", err)
	}
	return cwd, nil
}

// resolveSnapshotPath returns the explicit path when given, otherwise the
// default location under the snapshots directory named after the repository.
func resolveSnapshotPath(paths *config.Paths, explicit, workingDir string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}

	root, err := gitx.NewRealRepo().Discover(workingDir)
	if err != nil {
		return "", fmt.Errorf("not in a git repository: %w", err)
	}
	return filepath.Join(paths.Snapshots, filepath.Base(root)+".json"), nil
}

// loadRemoteConfig reads the --remote-config file, which is required for any
// command that touches the server.
func loadRemoteConfig(configPath string) (*transport.Config, error) {
	if configPath == "" {
		return nil, fmt.Errorf("--remote-config is required")
	}
	return transport.LoadConfig(fsops.NewRealFS(), configPath)
}

// formatJSON formats a value as JSON.
func formatJSON(v interface{}) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// outputJSON outputs a value as JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
