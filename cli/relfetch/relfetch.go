package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/glorpus-work/relfetch/internal/cli"
	"github.com/spf13/cobra"
)

var (
	configPath string
	verbose    bool
	logLevel   string
	logFormat  string
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	rootCmd := newRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		cancel()
		os.Exit(1)
	}

	cancel()
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "relfetch",
		Short: "Download the right release asset for this machine",
		Long: `relfetch downloads prebuilt binaries from GitHub releases:
- picks the asset matching the current OS, architecture and C library
- verifies it against the checksum manifest published with the release
- unpacks archives and places the executable`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path (default: $RELFETCH_CONFIG or the user config directory)")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (same as --log-level debug)")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format (text, json)")

	// Set up CLI package variables
	cli.ConfigPath = &configPath
	cli.Verbose = &verbose
	cli.LogLevel = &logLevel
	cli.LogFormat = &logFormat

	cmd.AddCommand(
		cli.NewDownloadCmd(),
		cli.NewResolveCmd(),
		cli.NewPlatformCmd(),
		cli.NewConfigCmd(),
		cli.NewRepoCmd(),
		cli.NewHookCmd(),
		cli.NewVersionCmd(),
	)

	return cmd
}
