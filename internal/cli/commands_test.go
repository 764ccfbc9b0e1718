package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/stagesync/internal/engine"
)

// setupTestEnv points STAGESYNC_HOME at a temp directory so commands never
// touch the real home directory.
func setupTestEnv(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	t.Setenv("STAGESYNC_HOME", tmpDir)
	return tmpDir
}

// resetHelpFlags clears the sticky --help flag cobra leaves set on the shared
// package-level commands after a `<cmd> --help` invocation, so later
// executions of the same command run normally instead of printing help.
func resetHelpFlags(cmd *cobra.Command) {
	if f := cmd.Flags().Lookup("help"); f != nil {
		_ = f.Value.Set("false")
		f.Changed = false
	}
	for _, c := range cmd.Commands() {
		resetHelpFlags(c)
	}
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	resetHelpFlags(rootCmd)
	rootCmd.SetArgs(args)
	var bufOut, bufErr bytes.Buffer
	rootCmd.SetOut(&bufOut)
	rootCmd.SetErr(&bufErr)
	err := rootCmd.Execute()
	return bufOut.String(), bufErr.String(), err
}

func TestCommandHelp(t *testing.T) {
	setupTestEnv(t)
	commands := []string{"scan", "update", "verify", "deploy", "remote", "diffn"}

	for _, cmd := range commands {
		t.Run(cmd, func(t *testing.T) {
			out, _, err := execute(t, cmd, "--help")
			if err != nil {
				t.Errorf("Execute() for %s --help error = %v", cmd, err)
			}
			if out == "" {
				t.Errorf("expected help output for %s, got empty", cmd)
			}
		})
	}
}

func TestRootHelpListsGroups(t *testing.T) {
	setupTestEnv(t)
	out, _, err := execute(t, "--help")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	for _, title := range []string{"Snapshot Tracking:", "Reconciliation:", "Remote Configuration:", "CLI & Tooling:"} {
		if !strings.Contains(out, title) {
			t.Errorf("help output missing group %q", title)
		}
	}
}

func TestVerifyRequiresRemoteConfig(t *testing.T) {
	setupTestEnv(t)
	verifyRemoteConfig = ""
	_, _, err := execute(t, "verify")
	if err == nil || !strings.Contains(err.Error(), "remote-config") {
		t.Errorf("error = %v, want missing remote-config", err)
	}
}

func TestDeployRequiresRemoteConfig(t *testing.T) {
	setupTestEnv(t)
	deployRemoteConfig = ""
	_, _, err := execute(t, "deploy")
	if err == nil || !strings.Contains(err.Error(), "remote-config") {
		t.Errorf("error = %v, want missing remote-config", err)
	}
}

func TestRemoteInitWritesStarterConfig(t *testing.T) {
	tmpDir := setupTestEnv(t)
	configPath := filepath.Join(tmpDir, "staging.json")

	_, _, err := execute(t, "remote", "init", configPath)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("config not written: %v", err)
	}
	var v map[string]interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		t.Fatalf("config is not valid JSON: %v", err)
	}
	if v["host"] == "" {
		t.Error("starter config missing host")
	}

	info, err := os.Lstat(configPath)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("config mode = %o, want 0600", info.Mode().Perm())
	}
}

func TestRemoteInitRefusesOverwrite(t *testing.T) {
	tmpDir := setupTestEnv(t)
	configPath := filepath.Join(tmpDir, "staging.json")
	if err := os.WriteFile(configPath, []byte("{}"), 0600); err != nil {
		t.Fatal(err)
	}

	_, _, err := execute(t, "remote", "init", configPath)
	if err == nil {
		t.Error("expected error when config already exists")
	}
}

func TestRemoteShowMasksPassword(t *testing.T) {
	tmpDir := setupTestEnv(t)
	configPath := filepath.Join(tmpDir, "staging.json")
	content := `{"host": "ftp.example.com", "user": "u", "password": "secret"}`
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	defer func() { jsonOutput = false }()

	// outputJSON writes to os.Stdout; capture it
	oldStdout := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w
	_, _, err := execute(t, "remote", "show", configPath, "--json")
	_ = w.Close()
	os.Stdout = oldStdout
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	var buf bytes.Buffer
	_, _ = buf.ReadFrom(r)
	if strings.Contains(buf.String(), "secret") {
		t.Error("show leaked the password")
	}
}

func TestReportPartialResultOnRemoteFailure(t *testing.T) {
	result := &engine.ReconcileResult{
		Project: "proj",
		Files: []engine.FileReport{
			{Path: "src/app.php", GoalHash: "abc123"},
		},
	}
	dialErr := fmt.Errorf("%w: dial tcp: connection refused", engine.ErrRemoteUnavailable)

	oldStdout := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w
	got := reportPartialResult(result, dialErr)
	_ = w.Close()
	os.Stdout = oldStdout

	if !errors.Is(got, engine.ErrRemoteUnavailable) {
		t.Errorf("error = %v, want the remote failure passed through", got)
	}
	var buf bytes.Buffer
	_, _ = buf.ReadFrom(r)
	if !strings.Contains(buf.String(), "src/app.php") {
		t.Error("local state table not printed before returning the error")
	}
}

func TestReportPartialResultOtherErrorsPrintNothing(t *testing.T) {
	result := &engine.ReconcileResult{
		Files: []engine.FileReport{{Path: "src/app.php"}},
	}
	wantErr := errors.New("snapshot corrupt")

	oldStdout := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w
	got := reportPartialResult(result, wantErr)
	_ = w.Close()
	os.Stdout = oldStdout

	if got != wantErr {
		t.Errorf("error = %v, want %v unchanged", got, wantErr)
	}
	var buf bytes.Buffer
	_, _ = buf.ReadFrom(r)
	if buf.Len() != 0 {
		t.Errorf("unexpected output %q for a non-remote failure", buf.String())
	}
}

func TestRemoteInitInvalidArgs(t *testing.T) {
	setupTestEnv(t)
	_, _, err := execute(t, "remote", "init")
	if err == nil {
		t.Error("expected error for remote init with no args")
	}
}

func TestDiffnPairMatchAndDiff(t *testing.T) {
	tmpDir := setupTestEnv(t)

	crlf := filepath.Join(tmpDir, "crlf.txt")
	lf := filepath.Join(tmpDir, "lf.txt")
	other := filepath.Join(tmpDir, "other.txt")
	if err := os.WriteFile(crlf, []byte("a\r\nb\r\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(lf, []byte("a\nb\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(other, []byte("different\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, _, err := execute(t, "diffn", crlf+"::"+lf); err != nil {
		t.Errorf("line-ending-only pair should match, got %v", err)
	}

	if _, _, err := execute(t, "diffn", crlf+"::"+other); err == nil {
		t.Error("differing pair should exit with an error")
	}
}

func TestDiffnMalformedPair(t *testing.T) {
	setupTestEnv(t)
	_, _, err := execute(t, "diffn", "no-separator")
	if err == nil {
		t.Error("expected error for argument without ::")
	}
}

func TestVersionCommand(t *testing.T) {
	setupTestEnv(t)
	_, _, err := execute(t, "version")
	if err != nil {
		t.Errorf("Execute() error = %v", err)
	}
}
