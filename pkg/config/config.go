// Package config provides configuration management for relfetch.
// It handles loading, validating and saving the YAML settings file, which carries
// platform overrides, network settings, verification keys and per-repository
// defaults for the download command.
package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/glorpus-work/relfetch/pkg/archive"
	"github.com/glorpus-work/relfetch/pkg/errors"
	"github.com/glorpus-work/relfetch/pkg/fsutil"
	"github.com/glorpus-work/relfetch/pkg/platform"
	"github.com/glorpus-work/relfetch/pkg/release"
	"gopkg.in/yaml.v3"
)

// EnvConfigPath overrides the default configuration file location.
const EnvConfigPath = "RELFETCH_CONFIG"

// Config represents the application configuration.
type Config struct {
	// General settings
	Settings Settings `yaml:"settings"`

	// Per-repository defaults
	Repositories []*RepositoryConfig `yaml:"repositories,omitempty"`
}

// PlatformConfig overrides parts of the detected platform profile.
// Empty values keep what was detected.
type PlatformConfig struct {
	OS   string `yaml:"os,omitempty"`
	Arch string `yaml:"arch,omitempty"`
	Libc string `yaml:"libc,omitempty"`
}

// Settings represents general application settings.
type Settings struct {
	// Platform settings
	Platform PlatformConfig `yaml:"platform,omitempty"`

	// ExtensionPreference breaks ties between equally good assets, most preferred first.
	ExtensionPreference []string `yaml:"extension_preference,omitempty"`

	// Network settings
	HTTPTimeout    time.Duration `yaml:"http_timeout"`
	UserAgent      string        `yaml:"user_agent,omitempty"`
	APIBase        string        `yaml:"api_base,omitempty"`
	GitHubTokenEnv string        `yaml:"github_token_env,omitempty"`

	// Verification settings
	MinisignPublicKey string `yaml:"minisign_public_key,omitempty"`
	RequireChecksum   bool   `yaml:"require_checksum,omitempty"`

	// Output settings
	OutputDir  string `yaml:"output_dir,omitempty"`
	HookScript string `yaml:"hook_script,omitempty"`
	LogLevel   string `yaml:"log_level"`
}

// Default configuration values.
const (
	// DefaultHTTPTimeout is the default timeout for HTTP requests.
	DefaultHTTPTimeout = 60 * time.Second

	// DefaultLogLevel is used when no level is configured.
	DefaultLogLevel = "info"

	// YAMLIndent is the number of spaces to use for YAML indentation.
	YAMLIndent = 2
)

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Repositories: []*RepositoryConfig{},
		Settings: Settings{
			HTTPTimeout: DefaultHTTPTimeout,
			LogLevel:    DefaultLogLevel,
		},
	}
}

// LoadConfig loads configuration from a file. A missing file yields the defaults.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, errors.ErrEmptyConfigPath
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidConfigPath, err.Error())
	}

	file, err := os.Open(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, errors.Wrapf(err, "failed to open config file: %s", path)
	}
	defer func() { _ = file.Close() }()

	return LoadConfigFromReader(file)
}

// LoadConfigFromReader loads configuration from an io.Reader. The document is checked
// against the configuration schema before it is decoded.
func LoadConfigFromReader(reader io.Reader) (*Config, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config data")
	}

	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(errors.ErrConfigParse, err.Error())
	}
	if doc != nil {
		if err := validateSchema(doc); err != nil {
			return nil, err
		}
	}

	var config Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&config); err != nil && err != io.EOF {
		return nil, errors.Wrap(errors.ErrConfigParse, err.Error())
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrConfigValidation, err)
	}

	return &config, nil
}

// SaveConfig saves configuration to a file, replacing it atomically.
func (c *Config) SaveConfig(path string) error {
	if path == "" {
		return errors.ErrEmptyConfigPath
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return errors.Wrap(errors.ErrInvalidConfigPath, err.Error())
	}

	if err := fsutil.EnsureFileDir(absPath); err != nil {
		return errors.Wrap(errors.ErrConfigDirectory, err.Error())
	}

	tempPath := absPath + ".tmp"
	file, err := fsutil.CreateFilePerm(tempPath, fsutil.FileModeDefault)
	if err != nil {
		return errors.Wrap(errors.ErrConfigFileCreate, err.Error())
	}

	encoder := yaml.NewEncoder(file)
	encoder.SetIndent(YAMLIndent)

	if err := encoder.Encode(c); err != nil {
		_ = file.Close()
		_ = os.Remove(tempPath)
		return errors.Wrap(errors.ErrConfigEncode, err.Error())
	}

	_ = encoder.Close()
	if err := file.Close(); err != nil {
		_ = os.Remove(tempPath)
		return errors.NewIOError("close", tempPath, err)
	}

	if err := os.Rename(tempPath, absPath); err != nil {
		_ = os.Remove(tempPath)
		return errors.NewIOError("rename", absPath, err)
	}

	return nil
}

// ToYAML converts the config to YAML bytes.
func (c *Config) ToYAML() ([]byte, error) {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(YAMLIndent)
	if err := encoder.Encode(c); err != nil {
		return nil, errors.Wrap(errors.ErrConfigEncode, err.Error())
	}
	_ = encoder.Close()
	return buf.Bytes(), nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c == nil {
		return errors.ErrConfigValidation
	}
	if err := validatePlatform(c.Settings.Platform); err != nil {
		return err
	}
	if err := validateSettings(c.Settings); err != nil {
		return err
	}
	return validateRepositories(c.Repositories)
}

func validatePlatform(p PlatformConfig) error {
	if p.OS != "" {
		if _, ok := platform.LookupOS(strings.ToLower(p.OS)); !ok {
			return errors.ErrInvalidOSValueWithDetails(p.OS, platform.ValidOS())
		}
	}
	if p.Arch != "" {
		if a, ok := platform.LookupArch(strings.ToLower(p.Arch)); !ok || a == platform.ArchUniversal {
			return errors.ErrInvalidArchValueWithDetails(p.Arch, platform.ValidArch())
		}
	}
	if _, err := platform.ParseLibc(p.Libc); err != nil {
		return err
	}
	return nil
}

func validateSettings(s Settings) error {
	if s.HTTPTimeout < 0 {
		return errors.ErrHTTPTimeoutNegative
	}
	for _, ext := range s.ExtensionPreference {
		if _, ok := archive.LookupSuffix(strings.TrimPrefix(strings.ToLower(ext), ".")); !ok {
			return errors.ErrUnknownExtensionWithDetails(ext)
		}
	}
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(s.LogLevel)] {
		return errors.ErrInvalidLogLevelWithDetails(s.LogLevel)
	}
	return nil
}

func validateRepositories(repos []*RepositoryConfig) error {
	seen := make(map[string]bool)
	for i, repo := range repos {
		if repo == nil || repo.Name == "" {
			return errors.ErrEmptyRepositoryNameWithIndex(i)
		}
		parsed, err := release.ParseRepository(repo.Name)
		if err != nil {
			return err
		}
		key := strings.ToLower(parsed.String())
		if seen[key] {
			return errors.ErrRepositoryExistsWithName(repo.Name)
		}
		seen[key] = true
	}
	return nil
}

// GetDefaultConfigPath returns the configuration file path, honoring RELFETCH_CONFIG.
func GetDefaultConfigPath() (string, error) {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p, nil
	}
	return fsutil.GetConfigPath()
}

// Profile returns the detected platform profile with the configured overrides applied.
func (c *Config) Profile() (platform.Profile, error) {
	p := c.Settings.Platform
	return platform.Detect().Override(p.OS, p.Arch, p.Libc)
}

// applyDefaults fills in missing values with defaults.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()

	if c.Settings.HTTPTimeout == 0 {
		c.Settings.HTTPTimeout = defaults.Settings.HTTPTimeout
	}
	if c.Settings.LogLevel == "" {
		c.Settings.LogLevel = defaults.Settings.LogLevel
	}
	if c.Repositories == nil {
		c.Repositories = defaults.Repositories
	}
}
