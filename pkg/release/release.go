//go:generate mockgen -destination=./mocks/source.go . Source

// Package release models the release descriptors published by a hosting platform.
package release

import (
	"context"
	"fmt"
	"strings"

	"github.com/glorpus-work/relfetch/pkg/errors"
)

// Release is a tagged, published set of downloadable assets.
type Release struct {
	Tag        string  `json:"tag_name"`
	Name       string  `json:"name"`
	Prerelease bool    `json:"prerelease"`
	Draft      bool    `json:"draft"`
	Assets     []Asset `json:"assets"`
}

// Asset is one downloadable file attached to a release.
type Asset struct {
	Name        string `json:"name"`
	DownloadURL string `json:"browser_download_url"`
	// APIURL serves the asset bytes with authentication; empty when unavailable.
	APIURL      string `json:"url"`
	Size        uint64 `json:"size"`
	ContentType string `json:"content_type"`
}

// Repository identifies a project on the hosting platform.
type Repository struct {
	Owner string
	Name  string
}

// Source fetches release descriptors. An empty tag selects the latest release.
type Source interface {
	Release(ctx context.Context, repo Repository, tag string) (*Release, error)
}

// ParseRepository accepts OWNER/REPO as well as a github.com URL.
func ParseRepository(s string) (Repository, error) {
	trimmed := strings.TrimSpace(s)
	for _, prefix := range []string{"https://", "http://"} {
		trimmed = strings.TrimPrefix(trimmed, prefix)
	}
	trimmed = strings.TrimPrefix(trimmed, "github.com/")
	trimmed = strings.TrimSuffix(strings.TrimSuffix(trimmed, "/"), ".git")

	parts := strings.Split(trimmed, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return Repository{}, fmt.Errorf("%w: %q", errors.ErrInvalidRepository, s)
	}
	return Repository{Owner: parts[0], Name: parts[1]}, nil
}

func (r Repository) String() string {
	return r.Owner + "/" + r.Name
}

// Names returns the asset names in release order.
func (r *Release) Names() []string {
	names := make([]string, len(r.Assets))
	for i, a := range r.Assets {
		names[i] = a.Name
	}
	return names
}

// Find returns the asset with exactly the given name.
func (r *Release) Find(name string) (Asset, bool) {
	for _, a := range r.Assets {
		if a.Name == name {
			return a, true
		}
	}
	return Asset{}, false
}
