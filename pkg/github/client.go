// Package github reads release descriptors from the GitHub REST API.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/glorpus-work/relfetch/pkg/auth"
	"github.com/glorpus-work/relfetch/pkg/errors"
	"github.com/glorpus-work/relfetch/pkg/release"
)

// DefaultAPIBase is the public GitHub API endpoint.
const DefaultAPIBase = "https://api.github.com"

const (
	apiVersion = "2022-11-28"
	// maxBody bounds the size of a release listing.
	maxBody = 8 << 20
	perPage = 100
)

// Client handles HTTP operations against the releases API.
type Client struct {
	client    *http.Client
	userAgent string
	auth      auth.Authenticator
	apiBase   string
}

// Option configures a Client.
type Option func(*Client)

// WithToken authenticates requests with a personal access token. A blank token
// leaves the client anonymous.
func WithToken(token string) Option {
	return WithAuth(auth.ForToken(token))
}

// WithAuth authenticates requests with a.
func WithAuth(a auth.Authenticator) Option {
	return func(c *Client) { c.auth = a }
}

// WithAPIBase points the client at a GitHub Enterprise or test server.
func WithAPIBase(base string) Option {
	return func(c *Client) {
		if base != "" {
			c.apiBase = strings.TrimSuffix(base, "/")
		}
	}
}

// WithUserAgent overrides the user agent.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// NewClient creates a new API client.
func NewClient(timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		client:    &http.Client{Timeout: timeout},
		userAgent: "relfetch/1.0",
		apiBase:   DefaultAPIBase,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Release implements release.Source. An empty tag or "latest" selects the latest
// published release, a version constraint such as ">= 1.2, < 2" selects the newest
// release satisfying it, and anything else is looked up as a literal tag.
func (c *Client) Release(ctx context.Context, repo release.Repository, tag string) (*release.Release, error) {
	tag = strings.TrimSpace(tag)
	switch {
	case tag == "" || tag == "latest":
		return c.getRelease(ctx, repo, "releases/latest")
	case release.IsConstraint(tag):
		all, err := c.Releases(ctx, repo)
		if err != nil {
			return nil, err
		}
		return release.Newest(all, tag)
	default:
		return c.getRelease(ctx, repo, "releases/tags/"+url.PathEscape(tag))
	}
}

// Releases lists the most recent releases of repo, newest first.
func (c *Client) Releases(ctx context.Context, repo release.Repository) ([]release.Release, error) {
	endpoint, err := c.buildURL(repo, "releases")
	if err != nil {
		return nil, err
	}
	endpoint += fmt.Sprintf("?per_page=%d", perPage)

	var out []release.Release
	if err := c.getJSON(ctx, endpoint, &out); err != nil {
		return nil, errors.Wrapf(err, "failed to list releases of %s", repo)
	}
	return out, nil
}

func (c *Client) getRelease(ctx context.Context, repo release.Repository, path string) (*release.Release, error) {
	endpoint, err := c.buildURL(repo, path)
	if err != nil {
		return nil, err
	}

	var out release.Release
	if err := c.getJSON(ctx, endpoint, &out); err != nil {
		return nil, errors.Wrapf(err, "failed to fetch release of %s", repo)
	}
	return &out, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return errors.Wrap(err, "failed to create request")
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", apiVersion)
	if c.auth != nil {
		if err := c.auth.Apply(req); err != nil {
			return errors.Wrap(err, "failed to authenticate request")
		}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return &errors.DownloadError{URL: endpoint, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK:
		// Continue processing
	case http.StatusNotFound:
		return errors.ErrReleaseNotFound
	default:
		return &errors.DownloadError{URL: endpoint, StatusCode: resp.StatusCode, Err: apiMessage(resp.Body)}
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBody)).Decode(v); err != nil {
		return errors.Wrap(err, "failed to decode response")
	}
	return nil
}

// apiMessage extracts the "message" field of an API error body.
func apiMessage(body io.Reader) error {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(io.LimitReader(body, 64<<10)).Decode(&payload); err != nil || payload.Message == "" {
		return nil
	}
	return fmt.Errorf("api: %s", payload.Message)
}

// buildURL constructs the endpoint URL below /repos/OWNER/REPO.
func (c *Client) buildURL(repo release.Repository, path string) (string, error) {
	parsedURL, err := url.Parse(c.apiBase)
	if err != nil {
		return "", errors.Wrapf(err, "invalid API base %q", c.apiBase)
	}

	// path is escaped by the caller
	return parsedURL.JoinPath("repos", repo.Owner, repo.Name).String() + "/" + path, nil
}

var _ release.Source = (*Client)(nil)
