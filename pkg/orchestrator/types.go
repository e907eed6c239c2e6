package orchestrator

import (
	"fmt"
	"strings"

	"github.com/glorpus-work/relfetch/pkg/archive"
	"github.com/glorpus-work/relfetch/pkg/download"
	"github.com/glorpus-work/relfetch/pkg/errors"
	"github.com/glorpus-work/relfetch/pkg/hook"
	"github.com/glorpus-work/relfetch/pkg/platform"
	"github.com/glorpus-work/relfetch/pkg/release"
	"github.com/glorpus-work/relfetch/pkg/resolve"
)

// Orchestrator ties the release source, resolver, download pipeline and hooks together.
type Orchestrator struct {
	Releases release.Source
	DL       download.Fetcher
	Scripts  hook.HookManager // optional user hooks
	Hooks    Hooks            // Hooks for progress and event notifications
}

// Event represents a simple progress notification.
type Event struct {
	Phase string // release|selecting|manifest|fetching|hook|done
	ID    string // OWNER/REPO
	Msg   string
}

// Hooks carries callbacks for progress events.
type Hooks struct {
	OnEvent func(Event)
}

// Options control a fetch.
type Options struct {
	// Tag is a literal tag, "latest" or a version constraint. Empty means latest.
	Tag string
	// Select names the asset exactly, bypassing resolution. {tag} is expanded.
	Select string
	// Executable picks the binary out of an archive.
	Executable string
	// OutputDir receives the artifact.
	OutputDir string

	Profile platform.Profile
	// Preference breaks ties between equally good assets, most preferred first.
	Preference []archive.Kind

	// NoVerify skips checksum manifests altogether.
	NoVerify bool
	// RequireChecksum fails before downloading when no manifest covers the asset.
	RequireChecksum bool
	// PublicKey is the minisign key that signed manifests must verify against.
	PublicKey string
}

// Plan is what a fetch will do, decided before anything is downloaded.
type Plan struct {
	Repository release.Repository
	Release    *release.Release
	Asset      release.Asset
	// Resolution is the zero value when the asset was selected by name.
	Resolution resolve.Resolution
	// Manifest and Signature name the release assets used for verification, empty if none.
	Manifest  string
	Signature string
}

// Outcome is the result of a completed fetch.
type Outcome struct {
	Plan   *Plan
	Result download.Result
}

// SelectionError reports that no single asset could be chosen for the profile.
type SelectionError struct {
	Repository release.Repository
	Tag        string
	Profile    platform.Profile
	Outcome    resolve.Outcome
	// Candidates holds the tied names of an ambiguous resolution.
	Candidates []string
	// Assets lists everything the release publishes.
	Assets []string
}

func (e *SelectionError) Error() string {
	if e.Outcome == resolve.Ambiguous {
		return fmt.Sprintf("%s %s: %d assets match %s equally: %s; choose one with --select",
			e.Repository, e.Tag, len(e.Candidates), e.Profile, strings.Join(e.Candidates, ", "))
	}
	return fmt.Sprintf("%s %s: no asset matches %s; release assets: %s",
		e.Repository, e.Tag, e.Profile, strings.Join(e.Assets, ", "))
}

func (e *SelectionError) Unwrap() error {
	if e.Outcome == resolve.Ambiguous {
		return errors.ErrAmbiguous
	}
	return errors.ErrNoMatch
}
