package config

import (
	"strings"

	"github.com/glorpus-work/relfetch/pkg/errors"
	"github.com/glorpus-work/relfetch/pkg/release"
)

// RepositoryConfig holds download defaults for one OWNER/REPO.
type RepositoryConfig struct {
	Name string `yaml:"name"`

	// Tag is a literal tag, "latest" or a version constraint.
	Tag string `yaml:"tag,omitempty"`

	// Select names the asset exactly, with {tag} standing for the release version.
	Select string `yaml:"select,omitempty"`

	// Executable is the binary to take out of an archive.
	Executable string `yaml:"executable,omitempty"`

	OutputDir string `yaml:"output_dir,omitempty"`
}

// Repository parses the configured name.
func (rc *RepositoryConfig) Repository() (release.Repository, error) {
	return release.ParseRepository(rc.Name)
}

// AddRepository adds per-repository defaults to the configuration.
// Returns an error if the repository is already configured.
func (c *Config) AddRepository(rc RepositoryConfig) error {
	if _, err := rc.Repository(); err != nil {
		return err
	}
	if c.GetRepository(rc.Name) != nil {
		return errors.ErrRepositoryExistsWithName(rc.Name)
	}
	c.Repositories = append(c.Repositories, &rc)
	return nil
}

// RemoveRepository removes a repository from the configuration.
func (c *Config) RemoveRepository(name string) bool {
	for i, repo := range c.Repositories {
		if strings.EqualFold(repo.Name, name) {
			c.Repositories = append(c.Repositories[:i], c.Repositories[i+1:]...)
			return true
		}
	}
	return false
}

// GetRepository gets a repository configuration by name. GitHub names are case-insensitive.
func (c *Config) GetRepository(name string) *RepositoryConfig {
	for i, repo := range c.Repositories {
		if strings.EqualFold(repo.Name, name) {
			return c.Repositories[i]
		}
	}
	return nil
}
