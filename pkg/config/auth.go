package config

import (
	"os"
	"strings"
)

// Token environment variables consulted when github_token_env is unset or empty.
const (
	EnvGitHubToken         = "RELFETCH_GITHUB_TOKEN"
	EnvGitHubTokenFallback = "GITHUB_TOKEN"
)

// GitHubToken returns the API token from the environment, or "" for anonymous access.
// The variable named by github_token_env wins over the built-in names.
func (c *Config) GitHubToken() string {
	names := []string{EnvGitHubToken, EnvGitHubTokenFallback}
	if c.Settings.GitHubTokenEnv != "" {
		names = append([]string{c.Settings.GitHubTokenEnv}, names...)
	}
	for _, name := range names {
		if v := strings.TrimSpace(os.Getenv(name)); v != "" {
			return v
		}
	}
	return ""
}
