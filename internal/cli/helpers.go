package cli

import (
	"fmt"
	"strings"

	"github.com/glorpus-work/relfetch/internal/logger"
	"github.com/glorpus-work/relfetch/pkg/archive"
	"github.com/glorpus-work/relfetch/pkg/config"
	"github.com/glorpus-work/relfetch/pkg/download"
	"github.com/glorpus-work/relfetch/pkg/errors"
	"github.com/glorpus-work/relfetch/pkg/github"
	"github.com/glorpus-work/relfetch/pkg/hook"
	"github.com/glorpus-work/relfetch/pkg/orchestrator"
	"github.com/glorpus-work/relfetch/pkg/platform"
)

// These variables will be set by the main package
var (
	ConfigPath *string
	Verbose    *bool
	LogLevel   *string
	LogFormat  *string
)

// loadConfig loads the configuration and sets up logging from it and the global flags.
func loadConfig() (*config.Config, error) {
	configPath := getConfigPath()
	if configPath == "" {
		return nil, errors.ErrEmptyConfigPath
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	level := cfg.Settings.LogLevel
	if LogLevel != nil && *LogLevel != "" {
		level = *LogLevel
	}
	if Verbose != nil && *Verbose {
		level = "debug"
	}
	format := logger.FormatText
	if LogFormat != nil && *LogFormat != "" {
		format = logger.OutputFormat(*LogFormat)
	}
	logger.InitLogger(level, format)

	return cfg, nil
}

func getConfigPath() string {
	if ConfigPath != nil && *ConfigPath != "" {
		return *ConfigPath
	}

	defaultPath, err := config.GetDefaultConfigPath()
	if err != nil {
		logger.Warn("Failed to get default config path", logger.Fields{"error": err})
		return ""
	}
	return defaultPath
}

// platformFlags are the --os/--arch/--libc overrides shared by several commands.
type platformFlags struct {
	os, arch, libc string
}

// profile applies the configured overrides, then the flag overrides, to the detected platform.
func (f platformFlags) profile(cfg *config.Config) (platform.Profile, error) {
	p, err := cfg.Profile()
	if err != nil {
		return platform.Profile{}, err
	}
	return p.Override(f.os, f.arch, f.libc)
}

// parsePreference turns extension names into archive kinds, most preferred first.
func parsePreference(exts []string) ([]archive.Kind, error) {
	kinds := make([]archive.Kind, 0, len(exts))
	for _, ext := range exts {
		k, ok := archive.LookupSuffix(strings.TrimPrefix(strings.ToLower(strings.TrimSpace(ext)), "."))
		if !ok {
			return nil, errors.ErrUnknownExtensionWithDetails(ext)
		}
		kinds = append(kinds, k)
	}
	return kinds, nil
}

func loadReleaseSource(cfg *config.Config) *github.Client {
	return github.NewClient(cfg.Settings.HTTPTimeout,
		github.WithAPIBase(cfg.Settings.APIBase),
		github.WithUserAgent(cfg.Settings.UserAgent),
		github.WithToken(cfg.GitHubToken()),
	)
}

func loadPipeline(cfg *config.Config) *download.Pipeline {
	return download.NewPipeline(cfg.Settings.HTTPTimeout, cfg.Settings.UserAgent,
		download.WithHooks(download.Hooks{OnEvent: logDownloadEvent}))
}

func loadHooks(cfg *config.Config) (hook.HookManager, error) {
	if cfg.Settings.HookScript == "" {
		return nil, nil
	}
	manager := hook.NewHookManager()
	if err := hook.Load(manager, cfg.Settings.HookScript); err != nil {
		return nil, err
	}
	return manager, nil
}

func loadOrchestrator(cfg *config.Config) (*orchestrator.Orchestrator, error) {
	scripts, err := loadHooks(cfg)
	if err != nil {
		return nil, err
	}
	events := orchestrator.Hooks{OnEvent: func(e orchestrator.Event) {
		logger.Debug(e.Msg, logger.Fields{"phase": e.Phase, "repo": e.ID})
	}}
	return orchestrator.New(loadReleaseSource(cfg), loadPipeline(cfg), scripts, events), nil
}

func logDownloadEvent(e download.Event) {
	fields := logger.Fields{"state": e.State.String(), "asset": e.Asset}
	if e.State == download.StateVerifySkipped {
		logger.Warn("checksum not verified: "+e.Msg, fields)
		return
	}
	logger.Debug(e.Msg, fields)
}
