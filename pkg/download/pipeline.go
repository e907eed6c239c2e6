package download

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/glorpus-work/relfetch/pkg/archive"
	"github.com/glorpus-work/relfetch/pkg/asset"
	"github.com/glorpus-work/relfetch/pkg/checksum"
	"github.com/glorpus-work/relfetch/pkg/errors"
	"github.com/glorpus-work/relfetch/pkg/fsutil"
)

// Fetch implements Fetcher.
//
// Everything is staged in a private directory below req.DestDir, and nothing appears at
// the final path until the artifact has been verified and unpacked. On any failure,
// cancellation included, the staging directory is removed and req.DestDir is left as
// it was.
func (p *Pipeline) Fetch(ctx context.Context, req Request) (res Result, err error) {
	p.hooks.emit(StatePending, req.AssetName, req.URL)
	defer func() {
		if err != nil {
			p.hooks.emit(StateFailed, req.AssetName, err.Error())
		}
	}()

	destDir, err := validateRequest(req)
	if err != nil {
		return Result{}, err
	}
	if err := fsutil.EnsureDir(destDir); err != nil {
		return Result{}, errors.NewIOError("mkdir", destDir, err)
	}
	staging, cleanup, err := fsutil.MkStaging(destDir)
	if err != nil {
		return Result{}, errors.NewIOError("mkdir", destDir, err)
	}
	defer cleanup()

	entry, hasEntry := req.Manifest.Lookup(req.AssetName)
	algo := checksum.SHA256
	if hasEntry {
		algo = entry.Algorithm
	}

	p.hooks.emit(StateDownloading, req.AssetName, req.URL)
	downloaded, digest, err := p.download(ctx, req.URL, staging, algo)
	if err != nil {
		return Result{}, err
	}
	res.Digest = digest

	if hasEntry {
		p.hooks.emit(StateVerifying, req.AssetName, fmt.Sprintf("%s %s", entry.Algorithm, entry.Hex()))
		if err := entry.Check(digest); err != nil {
			return Result{}, err
		}
		res.Verified = true
	} else {
		p.hooks.emit(StateVerifySkipped, req.AssetName, "no checksum entry for asset")
	}

	artifact, name, extracted, err := p.unpack(ctx, req, downloaded, staging)
	if err != nil {
		return Result{}, err
	}
	res.Extracted = extracted

	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	res.LocalPath = filepath.Join(destDir, name)
	if err := finalizeFile(artifact, res.LocalPath); err != nil {
		return Result{}, err
	}

	p.hooks.emit(StateDone, req.AssetName, res.LocalPath)
	return res, nil
}

func validateRequest(req Request) (string, error) {
	if req.URL == "" {
		return "", fmt.Errorf("empty download URL: %w", errors.ErrDownloadFailed)
	}
	if req.AssetName == "" || !plainFileName(req.AssetName) {
		return "", fmt.Errorf("asset name %q: %w", req.AssetName, errors.ErrInvalidPath)
	}
	if req.Executable != "" && !plainFileName(req.Executable) {
		return "", fmt.Errorf("executable name %q: %w", req.Executable, errors.ErrInvalidPath)
	}
	if req.DestDir == "" {
		return "", fmt.Errorf("empty destination directory: %w", errors.ErrInvalidPath)
	}
	destDir, err := filepath.Abs(req.DestDir)
	if err != nil {
		return "", errors.NewIOError("abs", req.DestDir, err)
	}
	return destDir, nil
}

// plainFileName reports whether name stays inside the directory it is joined to.
func plainFileName(name string) bool {
	return name == filepath.Base(name) && !strings.ContainsAny(name, `/\`) && name != "." && name != ".."
}

// download streams url into staging and returns the temp file and its digest.
func (p *Pipeline) download(ctx context.Context, url, staging string, algo checksum.Algorithm) (string, string, error) {
	h, err := algo.New()
	if err != nil {
		return "", "", err
	}

	resp, err := p.doRequest(ctx, url)
	if err != nil {
		return "", "", err
	}
	defer func() { _ = resp.Body.Close() }()

	tmpPath, err := writeBodyToTemp(ctx, resp, staging, h)
	if err != nil {
		return "", "", err
	}
	return tmpPath, fmt.Sprintf("%x", h.Sum(nil)), nil
}

// unpack turns the downloaded file into the artifact to publish and picks its final name.
func (p *Pipeline) unpack(ctx context.Context, req Request, downloaded, staging string) (string, string, bool, error) {
	tokens := asset.Tokenize(req.AssetName)

	switch {
	case tokens.Ext.IsArchive():
		p.hooks.emit(StateExtracting, req.AssetName, string(tokens.Ext))
		tree := filepath.Join(staging, "tree")
		if err := p.archives.Extract(ctx, downloaded, req.AssetName, tree); err != nil {
			return "", "", false, err
		}

		exe, err := archive.FindExecutable(tree, req.Executable)
		if err != nil {
			return "", "", false, err
		}
		if exe != "" {
			return exe, filepath.Base(exe), true, nil
		}
		root, err := archive.TreeRoot(tree)
		if err != nil {
			return "", "", false, err
		}
		return root, stem(tokens), true, nil

	case tokens.Ext.IsCompressed():
		p.hooks.emit(StateExtracting, req.AssetName, string(tokens.Ext))
		name := stem(tokens)
		if req.Executable != "" {
			name = req.Executable
		}
		out := filepath.Join(staging, "file")
		if err := p.archives.Decompress(ctx, downloaded, tokens.Ext, out); err != nil {
			return "", "", false, err
		}
		return out, name, true, nil

	default:
		mode := fsutil.FileModeDefault
		if tokens.Ext == archive.KindNone || tokens.Ext.Class() == archive.ClassExecutable {
			mode = fsutil.FileModeExec
		}
		if err := os.Chmod(downloaded, mode); err != nil {
			return "", "", false, errors.NewIOError("chmod", downloaded, err)
		}
		return downloaded, req.AssetName, false, nil
	}
}

// stem is the asset name without its archive extension.
func stem(tokens asset.Tokens) string {
	if tokens.Stem == "" {
		return tokens.Raw
	}
	return tokens.Stem
}
