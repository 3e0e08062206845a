// config.go — the optional YAML configuration file.
//
// Flags always win; the config only supplies defaults for what the command
// line left unset, plus the alias table. Lookup order: --config, then
// $FINDIT_CONFIG, then ~/.findit.yaml. Only the explicit --config path is
// required to exist.
package findit

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config mirrors the YAML file. Pointer fields distinguish "absent" from a
// zero value so flag defaults stay in charge.
type Config struct {
	Select      string            `yaml:"select"`
	OrderBy     string            `yaml:"order-by"`
	MaxDepth    *int              `yaml:"max-depth"`
	FollowLinks *bool             `yaml:"follow-links"`
	NoIgnore    *bool             `yaml:"no-ignore"`
	Aliases     map[string]string `yaml:"aliases"`
}

// DefaultConfigName is the fallback file looked up in the home directory.
const DefaultConfigName = ".findit.yaml"

// configEnvVar overrides the default location when --config is not given.
const configEnvVar = "FINDIT_CONFIG"

// LoadConfig reads the configuration for this run. explicit is the --config
// value; when it is empty the environment and home fallbacks apply and a
// missing file simply means an empty configuration.
func LoadConfig(explicit string) (*Config, error) {
	path := explicit
	required := explicit != ""
	if path == "" {
		path = os.Getenv(configEnvVar)
		required = path != ""
	}
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return &Config{}, nil
		}
		path = filepath.Join(home, DefaultConfigName)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !required && errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return &cfg, nil
}

// Expand resolves one select/order/where item against the alias table: an
// item that exactly matches an alias name becomes that alias's expression.
func (c *Config) Expand(item string) (string, bool) {
	if c == nil {
		return item, false
	}
	if src, ok := c.Aliases[strings.TrimSpace(item)]; ok {
		return src, true
	}
	return item, false
}
