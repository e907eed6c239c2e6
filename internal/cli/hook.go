package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/glorpus-work/relfetch/internal/logger"
	"github.com/glorpus-work/relfetch/pkg/errors"
	"github.com/glorpus-work/relfetch/pkg/hook"
	"github.com/spf13/cobra"
)

// NewHookCmd creates the hook command with subcommands.
func NewHookCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hook",
		Short: "Work with fetch hook scripts",
		Long: `Hooks are Tengo scripts run around a download. Point hook_script at a single
script to run it after each download, or at a directory holding pre-fetch.tengo and
post-fetch.tengo.`,
	}

	cmd.AddCommand(newHookTemplateCmd())

	return cmd
}

func newHookTemplateCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:       "template TYPE",
		Short:     "Print a starter script for a hook type",
		Example:   "  relfetch hook template post-fetch > ~/.config/relfetch/hooks/post-fetch.tengo",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{string(hook.PreFetch), string(hook.PostFetch)},
		RunE: func(cmd *cobra.Command, args []string) error {
			hookType := hook.HookType(args[0])
			if !knownHookType(hookType) {
				return hook.ErrUnsupportedHookType(hookType)
			}
			if dir == "" {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), hook.HookTemplate(hookType))
				return nil
			}
			return writeHookTemplate(dir, hookType)
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "Write the template into this hook directory instead of printing it")

	return cmd
}

func knownHookType(t hook.HookType) bool {
	for _, known := range hook.Types {
		if t == known {
			return true
		}
	}
	return false
}

func writeHookTemplate(dir string, hookType hook.HookType) error {
	path := filepath.Join(dir, string(hookType)+hook.ScriptExtension)
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("hook script already exists at %s", path)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.NewIOError("mkdir", dir, err)
	}
	if err := os.WriteFile(path, []byte(hook.HookTemplate(hookType)+"\n"), 0o644); err != nil {
		return errors.NewIOError("write", path, err)
	}
	logger.Success("Hook template written", logger.Fields{"path": path})
	return nil
}
