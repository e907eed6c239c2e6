package cli

import (
	stderrors "errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/glorpus-work/relfetch/pkg/orchestrator"
	"github.com/glorpus-work/relfetch/pkg/platform"
	"github.com/glorpus-work/relfetch/pkg/release"
	"github.com/glorpus-work/relfetch/pkg/resolve"
	"github.com/spf13/cobra"
)

type resolveOptions struct {
	tag      string
	prefer   []string
	assets   []string
	platform platformFlags
}

// NewResolveCmd creates the resolve command.
func NewResolveCmd() *cobra.Command {
	var o resolveOptions

	cmd := &cobra.Command{
		Use:   "resolve [OWNER/REPO]",
		Short: "Show how release assets are matched against this platform",
		Long: `Score every asset of a release against the platform profile and report which one
would be downloaded. Nothing is downloaded.

With --asset the given names are resolved directly and no release is fetched.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && len(o.assets) == 0 {
				return fmt.Errorf("either OWNER/REPO or --asset is required")
			}
			target := ""
			if len(args) == 1 {
				target = args[0]
			}
			return runResolve(cmd, target, o)
		},
	}

	cmd.Flags().StringVarP(&o.tag, "tag", "t", "", "Release tag, \"latest\" or a version constraint")
	cmd.Flags().StringSliceVar(&o.prefer, "prefer", nil, "Preferred extensions to break ties, e.g. tar.gz,zip")
	cmd.Flags().StringArrayVar(&o.assets, "asset", nil, "Resolve this asset name instead of fetching a release (repeatable)")
	addPlatformFlags(cmd, &o.platform)

	return cmd
}

func runResolve(cmd *cobra.Command, target string, o resolveOptions) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	profile, err := o.platform.profile(cfg)
	if err != nil {
		return err
	}
	if len(o.prefer) == 0 {
		o.prefer = cfg.Settings.ExtensionPreference
	}
	preference, err := parsePreference(o.prefer)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(w, "Platform: %s\n\n", profile)

	if target == "" {
		res := resolve.Resolve(o.assets, profile, resolve.WithPreference(preference...))
		printResolution(w, res)
		return nil
	}

	repo, err := release.ParseRepository(target)
	if err != nil {
		return err
	}
	orch, err := loadOrchestrator(cfg)
	if err != nil {
		return err
	}
	plan, err := orch.Plan(cmd.Context(), repo, orchestrator.Options{Tag: o.tag, Profile: profile, Preference: preference})
	var selErr *orchestrator.SelectionError
	if err != nil && !stderrors.As(err, &selErr) {
		return err
	}

	_, _ = fmt.Fprintf(w, "Release: %s %s\n\n", repo, plan.Release.Tag)
	printResolution(w, plan.Resolution)
	if plan.Manifest != "" {
		_, _ = fmt.Fprintf(w, "Checksum manifest: %s\n", plan.Manifest)
	}
	if plan.Signature != "" {
		_, _ = fmt.Fprintf(w, "Manifest signature: %s\n", plan.Signature)
	}
	// NoMatch and Ambiguous are reported, not failed: nothing was asked to be downloaded
	return nil
}

func printResolution(w io.Writer, res resolve.Resolution) {
	tw := tabwriter.NewWriter(w, 0, 0, TabWidth, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ASSET\tOS\tARCH\tLIBC\tEXT\tSCORE\tSTATUS")
	for _, c := range res.Scored {
		status := "ok"
		score := fmt.Sprint(c.Score)
		if !c.Compatible {
			status = c.Reason
			score = "-"
		}
		t := c.Tokens
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			c.Name(), dash(string(t.OS)), dash(string(t.Arch)), dash(libcName(t.Libc)), dash(string(t.Ext)), score, status)
	}
	_ = tw.Flush()

	_, _ = fmt.Fprintf(w, "\nOutcome: %s\n", res.Outcome)
	if res.Outcome != resolve.NoMatch {
		_, _ = fmt.Fprintf(w, "Selected: %s\n", strings.Join(res.Names(), ", "))
	}
}

func libcName(l platform.Libc) string {
	if l == platform.LibcUnknown {
		return ""
	}
	return l.String()
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
