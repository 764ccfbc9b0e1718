// Package transport provides the remote file transport used for comparison
// and deployment. The production implementation speaks FTP with explicit TLS
// (FTPS); tests use FakeTransport. All remote paths are joined under a
// configured root directory prefix.
package transport

import (
	"encoding/json"
	"fmt"
	"os"
	"path"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/danieljhkim/stagesync/internal/fsops"
)

// DefaultPort is the FTP control port used when the config omits one.
const DefaultPort = 21

// Config holds the remote server connection settings.
// It is stored in a JSON or YAML file referenced by --remote-config.
type Config struct {
	Host     string `json:"host" yaml:"host"`
	Port     int    `json:"port,omitempty" yaml:"port,omitempty"`
	User     string `json:"user" yaml:"user"`
	Password string `json:"password" yaml:"password"`

	// RemoteRoot is the directory prefix under which all tracked paths
	// live on the server. Defaults to "/".
	RemoteRoot string `json:"remote_root,omitempty" yaml:"remote_root,omitempty"`

	// Insecure disables TLS entirely (plain FTP).
	Insecure bool `json:"insecure,omitempty" yaml:"insecure,omitempty"`

	// SkipVerify accepts any server certificate. For self-signed staging
	// hosts only.
	SkipVerify bool `json:"skip_verify,omitempty" yaml:"skip_verify,omitempty"`
}

// LoadConfig reads a Config from a JSON or YAML file, chosen by extension.
func LoadConfig(fs fsops.FS, configPath string) (*Config, error) {
	data, err := fs.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("remote config not found: %s", configPath)
		}
		return nil, fmt.Errorf("failed to read remote config: %w", err)
	}

	var cfg Config
	switch {
	case strings.HasSuffix(configPath, ".yaml"), strings.HasSuffix(configPath, ".yml"):
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse remote config: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse remote config: %w", err)
		}
	}

	if cfg.Host == "" {
		return nil, fmt.Errorf("remote config %s: host is required", configPath)
	}
	if cfg.Port == 0 {
		cfg.Port = DefaultPort
	}
	if cfg.RemoteRoot == "" {
		cfg.RemoteRoot = "/"
	}
	return &cfg, nil
}

// Addr returns the host:port dial address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// RemotePath joins a project-relative path under the configured root,
// normalizing backslashes and duplicate separators.
func (c *Config) RemotePath(relPath string) string {
	rel := strings.ReplaceAll(relPath, "\\", "/")
	return path.Join("/", c.RemoteRoot, rel)
}
