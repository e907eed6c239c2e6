package orchestrator

import (
	"bytes"
	"context"
	"fmt"

	"github.com/glorpus-work/relfetch/pkg/checksum"
	"github.com/glorpus-work/relfetch/pkg/download"
	"github.com/glorpus-work/relfetch/pkg/errors"
	"github.com/glorpus-work/relfetch/pkg/hook"
	"github.com/glorpus-work/relfetch/pkg/release"
	"github.com/glorpus-work/relfetch/pkg/resolve"
)

// maxManifestSize bounds checksum manifests and signatures.
const maxManifestSize = 4 << 20

func emit(h Hooks, e Event) {
	if h.OnEvent != nil {
		h.OnEvent(e)
	}
}

// Plan fetches the release descriptor and chooses the asset and its manifest.
// Nothing is downloaded.
func (o *Orchestrator) Plan(ctx context.Context, repo release.Repository, opts Options) (*Plan, error) {
	if o.Releases == nil {
		return nil, fmt.Errorf("release source is not configured")
	}

	emit(o.Hooks, Event{Phase: "release", ID: repo.String(), Msg: opts.Tag})
	rel, err := o.Releases.Release(ctx, repo, opts.Tag)
	if err != nil {
		return nil, err
	}

	plan := &Plan{Repository: repo, Release: rel}
	names := rel.Names()

	if opts.Select != "" {
		name := release.Tag(rel.Tag, opts.Select)
		emit(o.Hooks, Event{Phase: "selecting", ID: repo.String(), Msg: name})
		a, ok := rel.Find(name)
		if !ok {
			return nil, fmt.Errorf("%w: %s in %s %s", errors.ErrAssetNotFound, name, repo, rel.Tag)
		}
		plan.Asset = a
	} else {
		emit(o.Hooks, Event{Phase: "selecting", ID: repo.String(), Msg: opts.Profile.String()})
		res, selected := resolve.ResolveAssets(rel.Assets, opts.Profile, resolve.WithPreference(opts.Preference...))
		plan.Resolution = res
		if selected == nil {
			return plan, &SelectionError{
				Repository: repo,
				Tag:        rel.Tag,
				Profile:    opts.Profile,
				Outcome:    res.Outcome,
				Candidates: res.Names(),
				Assets:     names,
			}
		}
		plan.Asset = *selected
	}

	if !opts.NoVerify {
		if manifest, ok := checksum.FindManifest(names, plan.Asset.Name); ok {
			plan.Manifest = manifest
			plan.Signature, _ = checksum.FindSignature(names, manifest)
		}
	}
	return plan, nil
}

// Fetch plans, downloads and verifies one asset of repo, then runs the hooks.
// A pre-fetch hook that fails aborts the download; a failing post-fetch hook is
// reported after the artifact is already in place.
func (o *Orchestrator) Fetch(ctx context.Context, repo release.Repository, opts Options) (*Outcome, error) {
	if o.DL == nil {
		return nil, fmt.Errorf("download pipeline is not configured")
	}

	plan, err := o.Plan(ctx, repo, opts)
	if err != nil {
		return nil, err
	}

	manifest, err := o.loadManifest(ctx, plan, opts)
	if err != nil {
		return nil, err
	}
	if opts.RequireChecksum && !opts.NoVerify {
		if _, ok := manifest.Lookup(plan.Asset.Name); !ok {
			return nil, fmt.Errorf("%w: %s", errors.ErrChecksumRequired, plan.Asset.Name)
		}
	}

	hctx := hook.HookContext{
		Repository:  repo.String(),
		Tag:         plan.Release.Tag,
		AssetName:   plan.Asset.Name,
		DownloadURL: downloadURL(plan.Asset),
	}
	if err := o.runHook(ctx, hook.PreFetch, hctx); err != nil {
		return nil, err
	}

	emit(o.Hooks, Event{Phase: "fetching", ID: repo.String(), Msg: plan.Asset.Name})
	res, err := o.DL.Fetch(ctx, download.Request{
		URL:        hctx.DownloadURL,
		AssetName:  plan.Asset.Name,
		DestDir:    opts.OutputDir,
		Manifest:   manifest,
		Executable: opts.Executable,
	})
	if err != nil {
		return nil, err
	}
	out := &Outcome{Plan: plan, Result: res}

	hctx.LocalPath = res.LocalPath
	hctx.Digest = res.Digest
	hctx.Verified = res.Verified
	hctx.Extracted = res.Extracted
	if err := o.runHook(ctx, hook.PostFetch, hctx); err != nil {
		return out, err
	}

	emit(o.Hooks, Event{Phase: "done", ID: repo.String(), Msg: res.LocalPath})
	return out, nil
}

// loadManifest downloads and parses the planned manifest, checking its signature
// first when one is published and a key is configured. It returns nil when there
// is nothing to verify against.
func (o *Orchestrator) loadManifest(ctx context.Context, plan *Plan, opts Options) (checksum.Manifest, error) {
	if opts.NoVerify || plan.Manifest == "" {
		return nil, nil
	}
	manifestAsset, _ := plan.Release.Find(plan.Manifest)

	emit(o.Hooks, Event{Phase: "manifest", ID: plan.Repository.String(), Msg: plan.Manifest})
	data, err := o.DL.FetchBytes(ctx, downloadURL(manifestAsset), maxManifestSize)
	if err != nil {
		return nil, err
	}

	if plan.Signature != "" {
		if opts.PublicKey == "" {
			emit(o.Hooks, Event{Phase: "manifest", ID: plan.Repository.String(),
				Msg: fmt.Sprintf("%s is signed but no minisign key is configured, signature not checked", plan.Manifest)})
		} else {
			sigAsset, _ := plan.Release.Find(plan.Signature)
			sig, err := o.DL.FetchBytes(ctx, downloadURL(sigAsset), maxManifestSize)
			if err != nil {
				return nil, err
			}
			if err := checksum.VerifyManifest(data, sig, opts.PublicKey); err != nil {
				return nil, fmt.Errorf("%s: %w", plan.Signature, err)
			}
			emit(o.Hooks, Event{Phase: "manifest", ID: plan.Repository.String(), Msg: "signature verified: " + plan.Signature})
		}
	}

	manifest, err := checksum.Parse(bytes.NewReader(data), plan.Manifest)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", plan.Manifest, err)
	}
	return manifest, nil
}

func (o *Orchestrator) runHook(ctx context.Context, hookType hook.HookType, hctx hook.HookContext) error {
	if o.Scripts == nil || !o.Scripts.HasHook(hookType) {
		return nil
	}
	emit(o.Hooks, Event{Phase: "hook", ID: hctx.Repository, Msg: string(hookType)})
	return o.Scripts.Execute(ctx, hookType, hctx)
}

func downloadURL(a release.Asset) string {
	if a.DownloadURL != "" {
		return a.DownloadURL
	}
	return a.APIURL
}

// New constructs an Orchestrator from existing components. Helper for wiring.
// scripts may be nil when no hooks are configured.
func New(src release.Source, dl download.Fetcher, scripts hook.HookManager, hooks Hooks) *Orchestrator {
	return &Orchestrator{
		Releases: src,
		DL:       dl,
		Scripts:  scripts,
		Hooks:    hooks,
	}
}
