package cli

import (
	stderrors "errors"
	"fmt"
	"io"

	"github.com/glorpus-work/relfetch/internal/logger"
	"github.com/glorpus-work/relfetch/pkg/config"
	"github.com/glorpus-work/relfetch/pkg/orchestrator"
	"github.com/glorpus-work/relfetch/pkg/release"
	"github.com/spf13/cobra"
)

type downloadOptions struct {
	tag        string
	sel        string
	output     string
	executable string
	prefer     []string
	noVerify   bool
	platform   platformFlags
}

// NewDownloadCmd creates the download command.
func NewDownloadCmd() *cobra.Command {
	var o downloadOptions

	cmd := &cobra.Command{
		Use:   "download OWNER/REPO",
		Short: "Download the release asset for this platform",
		Long: `Download the release asset that matches the current platform, verify it against
the checksum manifest published with the release, and unpack it into the output directory.

The asset is chosen automatically unless --select names it. In a --select name, {tag}
stands for the release version, so the same selection keeps working across releases.`,
		Example: `  relfetch download BurntSushi/ripgrep
  relfetch download sharkdp/fd --tag "~> 10.0" --output ~/.local/bin --executable fd
  relfetch download cli/cli --select 'gh_{tag}_linux_arm64.tar.gz'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDownload(cmd, args[0], o)
		},
	}

	cmd.Flags().StringVarP(&o.tag, "tag", "t", "", "Release tag, \"latest\" or a version constraint")
	cmd.Flags().StringVarP(&o.sel, "select", "s", "", "Exact asset name, {tag} is replaced by the version")
	cmd.Flags().StringVarP(&o.output, "output", "o", "", "Output directory (default: current directory)")
	cmd.Flags().StringVarP(&o.executable, "executable", "e", "", "Executable to take out of an archive")
	cmd.Flags().StringSliceVar(&o.prefer, "prefer", nil, "Preferred extensions to break ties, e.g. tar.gz,zip")
	cmd.Flags().BoolVar(&o.noVerify, "no-verify", false, "Do not look for checksum manifests")
	addPlatformFlags(cmd, &o.platform)

	return cmd
}

func addPlatformFlags(cmd *cobra.Command, f *platformFlags) {
	cmd.Flags().StringVar(&f.os, "os", "", "Override the target operating system")
	cmd.Flags().StringVar(&f.arch, "arch", "", "Override the target architecture")
	cmd.Flags().StringVar(&f.libc, "libc", "", "Override the target C library (gnu, musl, msvc)")
}

// mergeRepoDefaults fills options the user did not pass from the repository's configured defaults.
func mergeRepoDefaults(cfg *config.Config, repo release.Repository, o *downloadOptions) {
	if rc := cfg.GetRepository(repo.String()); rc != nil {
		if o.tag == "" {
			o.tag = rc.Tag
		}
		if o.sel == "" {
			o.sel = rc.Select
		}
		if o.executable == "" {
			o.executable = rc.Executable
		}
		if o.output == "" {
			o.output = rc.OutputDir
		}
	}
	if o.output == "" {
		o.output = cfg.Settings.OutputDir
	}
	if len(o.prefer) == 0 {
		o.prefer = cfg.Settings.ExtensionPreference
	}
}

func runDownload(cmd *cobra.Command, target string, o downloadOptions) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	repo, err := release.ParseRepository(target)
	if err != nil {
		return err
	}
	mergeRepoDefaults(cfg, repo, &o)
	if o.output == "" {
		o.output = "."
	}

	profile, err := o.platform.profile(cfg)
	if err != nil {
		return err
	}
	preference, err := parsePreference(o.prefer)
	if err != nil {
		return err
	}

	orch, err := loadOrchestrator(cfg)
	if err != nil {
		return err
	}

	logger.Debug("Fetching release", logger.Fields{"repo": repo.String(), "tag": o.tag, "platform": profile.String()})
	out, err := orch.Fetch(cmd.Context(), repo, orchestrator.Options{
		Tag:             o.tag,
		Select:          o.sel,
		Executable:      o.executable,
		OutputDir:       o.output,
		Profile:         profile,
		Preference:      preference,
		NoVerify:        o.noVerify,
		RequireChecksum: cfg.Settings.RequireChecksum,
		PublicKey:       cfg.Settings.MinisignPublicKey,
	})
	if err != nil {
		var selErr *orchestrator.SelectionError
		if stderrors.As(err, &selErr) {
			printSelection(cmd.ErrOrStderr(), selErr)
		}
		return err
	}

	plan := out.Plan
	logger.Success("Downloaded "+plan.Asset.Name, logger.Fields{
		"repo":     repo.String(),
		"tag":      plan.Release.Tag,
		"verified": out.Result.Verified,
	})
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), out.Result.LocalPath)
	return nil
}

// printSelection lists what the user can pass to --select when no single asset could be chosen.
func printSelection(w io.Writer, e *orchestrator.SelectionError) {
	names := e.Candidates
	header := fmt.Sprintf("Several assets of %s %s match %s equally:", e.Repository, e.Tag, e.Profile)
	if len(names) == 0 {
		names = e.Assets
		header = fmt.Sprintf("No asset of %s %s matches %s. The release publishes:", e.Repository, e.Tag, e.Profile)
	}
	_, _ = fmt.Fprintln(w, header)
	for _, n := range names {
		_, _ = fmt.Fprintf(w, "  %s\n", n)
	}
	_, _ = fmt.Fprintf(w, "Re-run with --select NAME (use %s for the version) or adjust --os/--arch/--libc.\n", release.Placeholder)
}
