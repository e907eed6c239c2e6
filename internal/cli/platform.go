package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/glorpus-work/relfetch/pkg/platform"
	"github.com/spf13/cobra"
)

// NewPlatformCmd creates the platform command.
func NewPlatformCmd() *cobra.Command {
	var (
		flags platformFlags
		valid bool
	)

	cmd := &cobra.Command{
		Use:   "platform",
		Short: "Show the platform assets are matched against",
		Long: `Print the detected operating system, architecture and C library, with the
configured and command line overrides applied.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if valid {
				printValidPlatforms(cmd)
				return nil
			}
			return runPlatform(cmd, flags)
		},
	}

	cmd.Flags().BoolVar(&valid, "list", false, "List the accepted --os, --arch and --libc values")
	addPlatformFlags(cmd, &flags)

	return cmd
}

func runPlatform(cmd *cobra.Command, flags platformFlags) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	profile, err := flags.profile(cfg)
	if err != nil {
		return err
	}

	detected := platform.Detect()
	tabWriter := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, TabWidth, ' ', 0)
	_, _ = fmt.Fprintln(tabWriter, "FIELD\tVALUE\tDETECTED")
	_, _ = fmt.Fprintf(tabWriter, "os\t%s\t%s\n", profile.OS, detected.OS)
	_, _ = fmt.Fprintf(tabWriter, "arch\t%s\t%s\n", profile.Arch, detected.Arch)
	_, _ = fmt.Fprintf(tabWriter, "libc\t%s\t%s\n", profile.Libc, detected.Libc)
	_, _ = fmt.Fprintf(tabWriter, "bits\t%d\t%d\n", profile.Bits, detected.Bits)
	return tabWriter.Flush()
}

func printValidPlatforms(cmd *cobra.Command) {
	w := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(w, "os:   %s\n", strings.Join(platform.ValidOS(), ", "))
	_, _ = fmt.Fprintf(w, "arch: %s\n", strings.Join(platform.ValidArch(), ", "))
	_, _ = fmt.Fprintf(w, "libc: %s\n", strings.Join(platform.ValidLibc(), ", "))
}
