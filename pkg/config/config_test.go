package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/glorpus-work/relfetch/pkg/errors"
	"github.com/glorpus-work/relfetch/pkg/fsutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "info", cfg.Settings.LogLevel)
	assert.Equal(t, DefaultHTTPTimeout, cfg.Settings.HTTPTimeout)
	assert.Empty(t, cfg.Settings.Platform)
	assert.Empty(t, cfg.Repositories)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfig(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "config.yaml")

	configContent := `settings:
  log_level: debug
  http_timeout: 5s
  extension_preference: [tar.gz, zip]
  minisign_public_key: RWQf6LRCGA9i53mlYecO4IzT51TGPpvWucNSCh1CBM0QTaLn73Y7GFO3
  platform:
    os: linux
    arch: arm64
    libc: musl
repositories:
  - name: BurntSushi/ripgrep
    executable: rg
  - name: sharkdp/fd
    tag: "~> 10.0"
    select: fd-{tag}-x86_64-unknown-linux-musl.tar.gz
`
	err := os.WriteFile(configPath, []byte(configContent), fsutil.FileModeDefault)
	require.NoError(t, err)

	cfg, err := LoadConfig(configPath)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "debug", cfg.Settings.LogLevel)
	assert.Equal(t, 5*time.Second, cfg.Settings.HTTPTimeout)
	assert.Equal(t, []string{"tar.gz", "zip"}, cfg.Settings.ExtensionPreference)
	assert.Equal(t, PlatformConfig{OS: "linux", Arch: "arm64", Libc: "musl"}, cfg.Settings.Platform)
	require.Len(t, cfg.Repositories, 2)
	assert.Equal(t, "rg", cfg.Repositories[0].Executable)
	assert.Equal(t, "~> 10.0", cfg.Repositories[1].Tag)
}

func TestLoadConfig_Missing(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	_, err := LoadConfig("")
	assert.ErrorIs(t, err, errors.ErrEmptyConfigPath)
}

func TestLoadConfigFromReader(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{name: "empty document", content: ""},
		{name: "settings only", content: "settings:\n  log_level: warn\n"},
		{name: "not yaml", content: "settings: [", wantErr: errors.ErrConfigParse},
		{name: "unknown key", content: "settings:\n  cache_dir: /tmp\n", wantErr: errors.ErrConfigSchema},
		{name: "bad log level", content: "settings:\n  log_level: loud\n", wantErr: errors.ErrConfigSchema},
		{name: "bad timeout", content: "settings:\n  http_timeout: soon\n", wantErr: errors.ErrConfigSchema},
		{name: "repository without name", content: "repositories:\n  - tag: v1\n", wantErr: errors.ErrConfigSchema},
		{name: "repository not owner/repo", content: "repositories:\n  - name: ripgrep\n", wantErr: errors.ErrConfigSchema},
		{name: "unknown os", content: "settings:\n  platform:\n    os: plan9\n", wantErr: errors.ErrInvalidOSValue},
		{name: "universal arch", content: "settings:\n  platform:\n    arch: universal\n", wantErr: errors.ErrInvalidArchValue},
		{name: "unknown libc", content: "settings:\n  platform:\n    libc: bionic\n", wantErr: errors.ErrInvalidLibcValue},
		{name: "unknown extension", content: "settings:\n  extension_preference: [rar]\n", wantErr: errors.ErrUnknownExtension},
		{
			name:    "duplicate repository",
			content: "repositories:\n  - name: sharkdp/fd\n  - name: SharkDP/fd\n",
			wantErr: errors.ErrRepositoryExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadConfigFromReader(strings.NewReader(tt.content))
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, cfg.Settings.LogLevel)
			assert.Equal(t, DefaultHTTPTimeout, cfg.Settings.HTTPTimeout)
		})
	}
}

func TestSaveConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Settings.LogLevel = "debug"
	cfg.Settings.Platform.OS = "linux"
	cfg.Settings.Platform.Arch = "amd64"
	cfg.Settings.HTTPTimeout = 90 * time.Second
	cfg.Settings.ExtensionPreference = []string{"zip"}
	require.NoError(t, cfg.AddRepository(RepositoryConfig{Name: "cli/cli", Executable: "gh"}))

	configPath := filepath.Join(t.TempDir(), "nested", "config.yaml")
	require.NoError(t, cfg.SaveConfig(configPath))

	data, err := os.ReadFile(configPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "http_timeout: 1m30s")
	assert.NoFileExists(t, configPath+".tmp")

	loaded, err := LoadConfig(configPath)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestToYAML(t *testing.T) {
	data, err := DefaultConfig().ToYAML()
	require.NoError(t, err)

	loaded, err := LoadConfigFromReader(strings.NewReader(string(data)))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), loaded)
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		config  *Config
		wantErr bool
		errMsg  string
	}{
		{
			name:   "valid config",
			config: DefaultConfig(),
		},
		{
			name: "aliases are accepted",
			config: &Config{Settings: Settings{
				LogLevel: "info",
				Platform: PlatformConfig{OS: "macos", Arch: "x86_64", Libc: "gnu"},
			}},
		},
		{
			name: "invalid OS",
			config: &Config{Settings: Settings{
				LogLevel: "info",
				Platform: PlatformConfig{OS: "invalid-os", Arch: "amd64"},
			}},
			wantErr: true,
			errMsg:  "invalid OS",
		},
		{
			name: "invalid Arch",
			config: &Config{Settings: Settings{
				LogLevel: "info",
				Platform: PlatformConfig{OS: "linux", Arch: "invalid-arch"},
			}},
			wantErr: true,
			errMsg:  "invalid architecture",
		},
		{
			name:    "negative timeout",
			config:  &Config{Settings: Settings{LogLevel: "info", HTTPTimeout: -time.Second}},
			wantErr: true,
			errMsg:  "http_timeout",
		},
		{
			name:    "empty repository name",
			config:  &Config{Settings: Settings{LogLevel: "info"}, Repositories: []*RepositoryConfig{{Tag: "v1"}}},
			wantErr: true,
			errMsg:  "index 0",
		},
		{
			name:    "nil config",
			config:  nil,
			wantErr: true,
			errMsg:  "invalid configuration",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestGetDefaultConfigPath(t *testing.T) {
	t.Setenv(EnvConfigPath, "/etc/relfetch.yaml")
	path, err := GetDefaultConfigPath()
	require.NoError(t, err)
	assert.Equal(t, "/etc/relfetch.yaml", path)

	t.Setenv(EnvConfigPath, "")
	path, err = GetDefaultConfigPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(fsutil.AppName, fsutil.ConfigFileName), filepath.Join(filepath.Base(filepath.Dir(path)), filepath.Base(path)))
}

func TestProfile(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Settings.Platform = PlatformConfig{OS: "windows", Arch: "386"}

	p, err := cfg.Profile()
	require.NoError(t, err)
	assert.Equal(t, "windows", string(p.OS))
	assert.Equal(t, "386", string(p.Arch))
	assert.Equal(t, 32, p.Bits)
}

func TestRepositoryManagement(t *testing.T) {
	cfg := DefaultConfig()

	err := cfg.AddRepository(RepositoryConfig{Name: "BurntSushi/ripgrep", Executable: "rg"})
	require.NoError(t, err)
	assert.Len(t, cfg.Repositories, 1)

	err = cfg.AddRepository(RepositoryConfig{Name: "burntsushi/RIPGREP"})
	assert.ErrorIs(t, err, errors.ErrRepositoryExists)

	err = cfg.AddRepository(RepositoryConfig{Name: "ripgrep"})
	assert.ErrorIs(t, err, errors.ErrInvalidRepository)

	repo := cfg.GetRepository("burntsushi/ripgrep")
	require.NotNil(t, repo)
	assert.Equal(t, "rg", repo.Executable)
	parsed, err := repo.Repository()
	require.NoError(t, err)
	assert.Equal(t, "BurntSushi", parsed.Owner)

	assert.True(t, cfg.RemoveRepository("BurntSushi/ripgrep"))
	assert.Empty(t, cfg.Repositories)
	assert.False(t, cfg.RemoveRepository("non/existent"))
	assert.Nil(t, cfg.GetRepository("non/existent"))
}
