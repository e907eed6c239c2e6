package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/glorpus-work/relfetch/internal/logger"
	"github.com/glorpus-work/relfetch/pkg/config"
	"github.com/glorpus-work/relfetch/pkg/errors"
	"github.com/glorpus-work/relfetch/pkg/release"
	"github.com/spf13/cobra"
)

// NewRepoCmd creates the repo command with subcommands.
func NewRepoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "repo",
		Short: "Manage per-repository defaults",
		Long: `Store the tag, asset selection, executable and output directory to use for a repository,
so that "relfetch download OWNER/REPO" picks them up without flags.`,
	}

	cmd.AddCommand(
		newRepoAddCmd(),
		newRepoRemoveCmd(),
		newRepoListCmd(),
	)

	return cmd
}

func newRepoAddCmd() *cobra.Command {
	var rc config.RepositoryConfig

	cmd := &cobra.Command{
		Use:   "add OWNER/REPO",
		Short: "Add defaults for a repository",
		Example: `  relfetch repo add sharkdp/fd --executable fd --output ~/.local/bin
  relfetch repo add cli/cli --select 'gh_{tag}_linux_amd64.tar.gz'`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runRepoAdd(args[0], rc)
		},
	}

	cmd.Flags().StringVarP(&rc.Tag, "tag", "t", "", "Release tag, \"latest\" or a version constraint")
	cmd.Flags().StringVarP(&rc.Select, "select", "s", "", "Exact asset name, {tag} is replaced by the version")
	cmd.Flags().StringVarP(&rc.Executable, "executable", "e", "", "Executable to take out of an archive")
	cmd.Flags().StringVarP(&rc.OutputDir, "output", "o", "", "Output directory")

	return cmd
}

func newRepoRemoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "remove OWNER/REPO",
		Aliases: []string{"rm"},
		Short:   "Remove the defaults of a repository",
		Args:    cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runRepoRemove(args[0])
		},
	}

	return cmd
}

func newRepoListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List repositories with stored defaults",
		Args:    cobra.NoArgs,
		RunE:    runRepoList,
	}

	return cmd
}

func runRepoAdd(target string, rc config.RepositoryConfig) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	repo, err := release.ParseRepository(target)
	if err != nil {
		return err
	}
	rc.Name = repo.String()
	if err := cfg.AddRepository(rc); err != nil {
		return err
	}
	if err := cfg.SaveConfig(getConfigPath()); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	logger.Success("Repository added", logger.Fields{"repo": rc.Name})
	return nil
}

func runRepoRemove(target string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	repo, err := release.ParseRepository(target)
	if err != nil {
		return err
	}
	if !cfg.RemoveRepository(repo.String()) {
		return fmt.Errorf("%w: %s", errors.ErrRepositoryUnknown, repo)
	}
	if err := cfg.SaveConfig(getConfigPath()); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	logger.Success("Repository removed", logger.Fields{"repo": repo.String()})
	return nil
}

func runRepoList(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if len(cfg.Repositories) == 0 {
		_, _ = fmt.Fprintln(w, "No repositories configured")
		return nil
	}

	tabWriter := tabwriter.NewWriter(w, 0, 0, TabWidth, ' ', 0)
	_, _ = fmt.Fprintln(tabWriter, "REPOSITORY\tTAG\tSELECT\tEXECUTABLE\tOUTPUT")
	for _, rc := range cfg.Repositories {
		_, _ = fmt.Fprintf(tabWriter, "%s\t%s\t%s\t%s\t%s\n",
			rc.Name, dash(rc.Tag), dash(rc.Select), dash(rc.Executable), dash(rc.OutputDir))
	}
	return tabWriter.Flush()
}

// describeRepository renders one repository's defaults on a single line.
func describeRepository(rc *config.RepositoryConfig) string {
	var parts []string
	for _, kv := range [][2]string{
		{"tag", rc.Tag},
		{"select", rc.Select},
		{"executable", rc.Executable},
		{"output", rc.OutputDir},
	} {
		if kv[1] != "" {
			parts = append(parts, kv[0]+"="+kv[1])
		}
	}
	if len(parts) == 0 {
		return rc.Name
	}
	return rc.Name + " (" + strings.Join(parts, ", ") + ")"
}
