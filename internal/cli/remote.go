package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/danieljhkim/stagesync/internal/fsops"
	"github.com/danieljhkim/stagesync/internal/transport"
)

var remoteCmd = &cobra.Command{
	Use:   "remote",
	Short: "Manage remote server configuration",
	Long: `Manage the remote server configuration used by verify and deploy.

The configuration names the FTPS host, credentials, and the directory prefix
under which all tracked paths live on the server. It is a plain JSON or YAML
file referenced with --remote-config.`,
}

var remoteInitCmd = &cobra.Command{
	Use:   "init <config-file>",
	Short: "Write a starter remote configuration",
	Long: `Write a starter remote configuration to the given path. The format is chosen
by extension: .yaml/.yml writes YAML, anything else writes JSON.

The file is written with mode 0600 since it holds credentials. Edit it to fill
in the host, user, and password before the first verify.

Examples:
  stagesync remote init staging.json
  stagesync remote init staging.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runRemoteInit,
}

var remoteShowCmd = &cobra.Command{
	Use:   "show <config-file>",
	Short: "Display a remote configuration",
	Long: `Display a remote configuration with the password masked.

Also reports the effective port and remote root after defaulting.`,
	Args: cobra.ExactArgs(1),
	RunE: runRemoteShow,
}

func init() {
	remoteCmd.AddCommand(remoteInitCmd)
	remoteCmd.AddCommand(remoteShowCmd)
}

func runRemoteInit(cmd *cobra.Command, args []string) error {
	configPath := args[0]

	if _, err := os.Lstat(configPath); err == nil {
		return fmt.Errorf("refusing to overwrite existing config %s", configPath)
	}

	starter := transport.Config{
		Host:       "staging.example.com",
		Port:       transport.DefaultPort,
		User:       "deploy",
		Password:   "changeme",
		RemoteRoot: "/",
	}

	var data []byte
	var err error
	if strings.HasSuffix(configPath, ".yaml") || strings.HasSuffix(configPath, ".yml") {
		data, err = yaml.Marshal(&starter)
	} else {
		data, err = json.MarshalIndent(&starter, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := fsops.NewRealFS().AtomicWrite(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	PrintSuccess(fmt.Sprintf("Wrote starter config to %s", configPath))
	PrintInfo("Edit the host, user, and password before running verify or deploy")
	return nil
}

func runRemoteShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadRemoteConfig(args[0])
	if err != nil {
		return err
	}

	if jsonOutput {
		masked := *cfg
		masked.Password = "********"
		return outputJSON(&masked)
	}

	PrintLabelValue("Host", cfg.Addr())
	PrintLabelValue("User", cfg.User)
	PrintLabelValue("Password", "********")
	PrintLabelValue("Remote root", cfg.RemoteRoot)
	if cfg.Insecure {
		PrintWarning("TLS is disabled (plain FTP)")
	} else if cfg.SkipVerify {
		PrintWarning("Server certificate verification is disabled")
	}
	return nil
}
