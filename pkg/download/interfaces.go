//go:generate mockgen -destination=./mocks/fetcher.go . Fetcher

package download

import (
	"context"

	"github.com/glorpus-work/relfetch/pkg/checksum"
)

// Fetcher downloads release assets. It is implemented by *Pipeline.
type Fetcher interface {
	// Fetch streams one asset to disk, verifies and unpacks it, and moves the result
	// to a deterministic path below Request.DestDir.
	Fetch(ctx context.Context, req Request) (Result, error)

	// FetchBytes downloads a small companion file such as a checksum manifest or a
	// signature into memory. Bodies larger than limit are rejected.
	FetchBytes(ctx context.Context, url string, limit int64) ([]byte, error)
}

// Request describes one asset to fetch.
type Request struct {
	URL       string // download URL of the asset
	AssetName string // published file name; drives format detection and the output name
	DestDir   string // directory that receives the final artifact
	// Manifest, when set, is searched for an entry named exactly AssetName.
	Manifest checksum.Manifest
	// Executable, when set, names the file to pick out of an archive.
	Executable string
}

// Result describes the artifact left in Request.DestDir.
type Result struct {
	LocalPath string
	// Verified is true only when the manifest had an entry for the asset and it matched.
	Verified  bool
	Extracted bool
	// Digest is the hex digest of the downloaded bytes, computed with the manifest
	// entry's algorithm or sha256 when there was none.
	Digest string
}
