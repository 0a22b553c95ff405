// Package config holds the immutable run configuration. A single
// Config value is built at process start from an optional yaml file and
// command-line flags, then threaded through every operation.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fgtools/fgbuild/internal/component"
	"github.com/fgtools/fgbuild/internal/sudo"
	"gopkg.in/yaml.v3"
)

// Config is the complete run configuration.
type Config struct {
	BuildRoot   string   `yaml:"build_root"`
	InstallRoot string   `yaml:"install_root"`
	MakeFlags   []string `yaml:"make_flags"`

	// Stable selects pinned, tested revisions; false tracks the moving
	// integration branches.
	Stable bool `yaml:"stable"`

	// Update refreshes existing valid checkouts in place. Disable it
	// to keep a locally patched source tree across rebuilds.
	Update bool `yaml:"update"`

	// Reconfigure reruns the configure step (purging stale build
	// system caches first).
	Reconfigure bool `yaml:"reconfigure"`

	SudoMethod sudo.Method `yaml:"sudo_method"`
	LogLevel   string      `yaml:"log_level"`

	// Components overrides descriptor fields by component name.
	Components map[string]Override `yaml:"components"`
}

// Override adjusts a single component's upstream location or revisions.
type Override struct {
	Repo         string `yaml:"repo"`
	UnstableRepo string `yaml:"unstable_repo"`
	StableRev    string `yaml:"stable_rev"`
	UnstableRev  string `yaml:"unstable_rev"`
}

// Default returns a Config with every optional field at its default.
func Default() *Config {
	return &Config{
		Stable:      true,
		Update:      true,
		Reconfigure: true,
		SudoMethod:  sudo.MethodAuto,
		LogLevel:    "info",
	}
}

// Load reads the yaml file at path on top of the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(os.ExpandEnv(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration and makes the root paths absolute.
func (c *Config) Validate() error {
	if c.BuildRoot == "" {
		return fmt.Errorf("build root is required")
	}
	if c.InstallRoot == "" {
		return fmt.Errorf("install root is required")
	}
	for _, p := range []*string{&c.BuildRoot, &c.InstallRoot} {
		abs, err := filepath.Abs(*p)
		if err != nil {
			return err
		}
		*p = abs
	}
	if _, err := sudo.ParseMethod(string(c.SudoMethod)); err != nil {
		return err
	}
	switch c.LogLevel {
	case "debug", "info", "warn":
	default:
		return fmt.Errorf("unknown log level: %q", c.LogLevel)
	}
	return nil
}

// ParseMakeFlags splits a space-separated flags string as given on the
// command line, e.g. "-j4 -O".
func ParseMakeFlags(s string) []string {
	return strings.Fields(s)
}

// Apply returns the components with any configured overrides applied.
func (c *Config) Apply(comps []component.Component) []component.Component {
	if len(c.Components) == 0 {
		return comps
	}
	out := make([]component.Component, len(comps))
	copy(out, comps)
	for i, comp := range out {
		ov, ok := c.Components[comp.Name]
		if !ok {
			continue
		}
		if ov.Repo != "" {
			out[i].Repo = ov.Repo
		}
		if ov.UnstableRepo != "" {
			out[i].UnstableRepo = ov.UnstableRepo
		}
		if ov.StableRev != "" {
			out[i].StableRev = ov.StableRev
		}
		if ov.UnstableRev != "" {
			out[i].UnstableRev = ov.UnstableRev
		}
	}
	return out
}
