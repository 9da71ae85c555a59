// Package config provides configuration management for obssync.
// It supports YAML and TOML configuration files, environment variables, and sensible defaults.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/klauern/obssync/internal/obs"
	"github.com/klauern/obssync/internal/util"
	"github.com/klauern/obssync/internal/validation"
)

// Sentinel errors reported by Validate for missing required settings.
var (
	ErrMissingServerURL = errors.New("server url is not set")
	ErrMissingUser      = errors.New("user is not set")
	ErrMissingPassword  = errors.New("password is not set")
	ErrMissingProject   = errors.New("project is not set")
	ErrMissingPackage   = errors.New("package is not set")
	ErrMissingLocalDir  = errors.New("local directory is not set")
)

// Config represents the complete obssync configuration.
type Config struct {
	// Server configures the build service endpoint and credentials
	Server ServerConfig `yaml:"server" toml:"server"`

	// Package identifies the remote package and its local artifacts
	Package PackageConfig `yaml:"package" toml:"package"`

	// Output configures display preferences
	Output OutputConfig `yaml:"output" toml:"output"`
}

// ServerConfig holds connection settings.
type ServerConfig struct {
	// URL is the base URL of the build service API
	URL string `yaml:"url" toml:"url"`
	// User is the account name used for basic authentication
	User string `yaml:"user" toml:"user"`
	// Password is the account password; prefer OBSSYNC_PASSWORD over storing it on disk
	Password string `yaml:"password,omitempty" toml:"password,omitempty"`
	// RequestsPerSecond paces requests; 0 disables pacing
	RequestsPerSecond float64 `yaml:"requests_per_second" toml:"requests_per_second"`
	// Timeout bounds a whole command; 0 means no deadline
	Timeout time.Duration `yaml:"timeout" toml:"timeout"`
}

// PackageConfig holds the sync target.
type PackageConfig struct {
	Project          string `yaml:"project" toml:"project"`
	Name             string `yaml:"name" toml:"name"`
	LocalDir         string `yaml:"local_dir" toml:"local_dir"`
	RemoveOldSources bool   `yaml:"remove_old_sources" toml:"remove_old_sources"`
}

// OutputConfig holds display preferences.
type OutputConfig struct {
	// Color controls color output (auto, always, never)
	Color string `yaml:"color" toml:"color"`
	// Verbose enables verbose output
	Verbose bool `yaml:"verbose" toml:"verbose"`
	// Progress shows a progress bar on terminals
	Progress bool `yaml:"progress" toml:"progress"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			URL: obs.DefaultServerURL,
		},
		Package: PackageConfig{
			LocalDir: ".",
		},
		Output: OutputConfig{
			Color:    "auto",
			Progress: true,
		},
	}
}

// configFileName is the name of the config file.
const configFileName = "config.yaml"

// FilePath returns the path to the default config file.
func FilePath() string {
	return filepath.Join(util.ConfigDir(), configFileName)
}

// Load loads the configuration from the default file, merging with defaults.
// If the config file doesn't exist, returns default configuration.
func Load() (*Config, error) {
	cfg, err := LoadFromPath(FilePath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg = Default()
			cfg.applyEnvironment()
			return cfg, nil
		}
		return nil, err
	}
	return cfg, nil
}

// LoadFromPath loads configuration from a specific path.
// Files with a .toml extension are decoded as TOML, anything else as YAML.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	// #nosec G304 - path is provided by caller
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if isTOML(path) {
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	cfg.applyEnvironment()
	return cfg, nil
}

// Save writes the configuration to the default config file.
func (c *Config) Save() error {
	return c.SaveToPath(FilePath())
}

// SaveToPath writes the configuration to a specific path, encoded by extension.
func (c *Config) SaveToPath(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}

	data, err := c.encode(isTOML(path))
	if err != nil {
		return err
	}

	// The file may hold a password.
	return os.WriteFile(path, data, 0o600)
}

// encode renders the configuration as TOML or YAML.
func (c *Config) encode(asTOML bool) ([]byte, error) {
	if !asTOML {
		return yaml.Marshal(c)
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Render returns the configuration in the requested format (yaml or toml)
// with the password redacted.
func (c *Config) Render(format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case "", "yaml", "yml":
		return c.Redacted().encode(false)
	case "toml":
		return c.Redacted().encode(true)
	default:
		return nil, fmt.Errorf("unsupported format %q (use yaml or toml)", format)
	}
}

// Redacted returns a copy of the configuration safe for display.
func (c *Config) Redacted() *Config {
	out := *c
	if out.Server.Password != "" {
		out.Server.Password = "********"
	}
	return &out
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

// applyEnvironment applies environment variable overrides.
// Environment variables follow the pattern OBSSYNC_<KEY>.
func (c *Config) applyEnvironment() {
	// Server settings
	if v := os.Getenv("OBSSYNC_SERVER_URL"); v != "" {
		c.Server.URL = v
	}
	if v := os.Getenv("OBSSYNC_USER"); v != "" {
		c.Server.User = v
	}
	if v := os.Getenv("OBSSYNC_PASSWORD"); v != "" {
		c.Server.Password = v
	}
	if v := os.Getenv("OBSSYNC_REQUESTS_PER_SECOND"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 {
			c.Server.RequestsPerSecond = f
		}
	}
	if v := os.Getenv("OBSSYNC_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Server.Timeout = d
		}
	}

	// Package settings
	if v := os.Getenv("OBSSYNC_PROJECT"); v != "" {
		c.Package.Project = v
	}
	if v := os.Getenv("OBSSYNC_PACKAGE"); v != "" {
		c.Package.Name = v
	}
	if v := os.Getenv("OBSSYNC_LOCAL_DIR"); v != "" {
		c.Package.LocalDir = v
	}
	if v := os.Getenv("OBSSYNC_REMOVE_OLD_SOURCES"); v != "" {
		c.Package.RemoveOldSources = parseBool(v)
	}

	// Output settings
	if v := os.Getenv("OBSSYNC_OUTPUT_COLOR"); v != "" {
		c.Output.Color = v
	}
	if v := os.Getenv("OBSSYNC_OUTPUT_VERBOSE"); v != "" {
		c.Output.Verbose = parseBool(v)
	}
	if v := os.Getenv("OBSSYNC_OUTPUT_PROGRESS"); v != "" {
		c.Output.Progress = parseBool(v)
	}
}

// parseBool parses a boolean from common string representations.
func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "true" || s == "1" || s == "yes" || s == "on"
}

// Validate reports every missing or malformed setting. The local directory
// is only checked when needLocalDir is set, since delete and list never read it.
func (c *Config) Validate(needLocalDir bool) error {
	var r validation.Result

	if c.Server.URL == "" {
		r.Add(missing("server.url", ErrMissingServerURL))
	} else {
		r.Add(validation.ServerURL("server.url", c.Server.URL))
	}
	if strings.TrimSpace(c.Server.User) == "" {
		r.Add(missing("server.user", ErrMissingUser))
	}
	if c.Server.Password == "" {
		r.Add(missing("server.password", ErrMissingPassword))
	}
	if c.Server.RequestsPerSecond < 0 {
		r.Add(&validation.Error{Field: "server.requests_per_second", Message: "must not be negative"})
	}
	if c.Server.Timeout < 0 {
		r.Add(&validation.Error{Field: "server.timeout", Message: "must not be negative"})
	}

	if c.Package.Project == "" {
		r.Add(missing("package.project", ErrMissingProject))
	} else {
		r.Add(validation.Name("package.project", c.Package.Project))
	}
	if c.Package.Name == "" {
		r.Add(missing("package.name", ErrMissingPackage))
	} else {
		r.Add(validation.Name("package.name", c.Package.Name))
	}

	if needLocalDir {
		if c.Package.LocalDir == "" {
			r.Add(missing("package.local_dir", ErrMissingLocalDir))
		} else {
			r.Add(validation.Directory("package.local_dir", c.Package.LocalDir))
		}
	}

	switch c.Output.Color {
	case "", "auto", "always", "never":
	default:
		r.Add(&validation.Error{Field: "output.color", Message: fmt.Sprintf("unknown value %q (use auto, always or never)", c.Output.Color)})
	}

	return r.Err()
}

func missing(field string, sentinel error) error {
	return &validation.Error{Field: field, Message: "value is required", Err: sentinel}
}

// Exists returns true if the default config file exists.
func Exists() bool {
	_, err := os.Stat(FilePath())
	return err == nil
}
