package download

import (
	"context"
	stderrors "errors"
	"fmt"
	"hash"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/glorpus-work/relfetch/pkg/archive"
	"github.com/glorpus-work/relfetch/pkg/errors"
	"github.com/glorpus-work/relfetch/pkg/fsutil"
)

// DefaultUserAgent is sent when no user agent is configured.
const DefaultUserAgent = "relfetch/1.0"

// Pipeline is an HTTP-based fetcher that streams a release asset to a staging area,
// verifies it against a checksum manifest, unpacks it and moves the result into place.
// It does not retry.
type Pipeline struct {
	client    *http.Client
	userAgent string
	archives  *archive.Manager
	hooks     Hooks
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithHTTPClient replaces the HTTP client. The client's timeout applies as is.
func WithHTTPClient(c *http.Client) Option {
	return func(p *Pipeline) { p.client = c }
}

// WithHooks sets the progress callbacks.
func WithHooks(h Hooks) Option {
	return func(p *Pipeline) { p.hooks = h }
}

// NewPipeline creates a new pipeline with the given timeout and user agent.
// A zero timeout means no timeout.
func NewPipeline(timeout time.Duration, userAgent string, opts ...Option) *Pipeline {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	p := &Pipeline{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
		archives:  archive.NewManager(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// FetchBytes implements Fetcher.
func (p *Pipeline) FetchBytes(ctx context.Context, url string, limit int64) ([]byte, error) {
	resp, err := p.doRequest(ctx, url)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, &errors.DownloadError{URL: url, Err: err}
	}
	if int64(len(body)) > limit {
		return nil, &errors.DownloadError{URL: url, Err: fmt.Errorf("body exceeds %d bytes", limit)}
	}
	return body, nil
}

func (p *Pipeline) doRequest(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, &errors.DownloadError{URL: url, Err: errors.Wrap(err, "failed to create request")}
	}
	req.Header.Set("User-Agent", p.userAgent)
	req.Header.Set("Accept", "application/octet-stream")

	resp, err := p.client.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
		}
		return nil, &errors.DownloadError{URL: url, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_ = resp.Body.Close()
		return nil, &errors.DownloadError{URL: url, StatusCode: resp.StatusCode}
	}
	return resp, nil
}

// writeBodyToTemp streams the response body into a new file in dir while feeding h.
// The file is removed again on any error.
func writeBodyToTemp(ctx context.Context, resp *http.Response, dir string, h hash.Hash) (string, error) {
	tmp, err := os.CreateTemp(dir, "dl-*.tmp")
	if err != nil {
		return "", errors.NewIOError("create", dir, err)
	}
	tmpPath := tmp.Name()

	fail := func(err error) (string, error) {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return "", err
	}

	url := resp.Request.URL.String()
	body := &contextReader{ctx: ctx, r: resp.Body}
	if _, err := io.Copy(io.MultiWriter(tmp, h), body); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fail(&errors.DownloadError{URL: url, Err: ctxErr})
		}
		var pathErr *os.PathError
		if stderrors.As(err, &pathErr) {
			return fail(errors.NewIOError("write", tmpPath, err))
		}
		return fail(&errors.DownloadError{URL: url, Err: err})
	}
	if resp.ContentLength >= 0 {
		if info, err := tmp.Stat(); err == nil && info.Size() != resp.ContentLength {
			return fail(&errors.DownloadError{
				URL: url,
				Err: fmt.Errorf("stream ended after %d of %d bytes", info.Size(), resp.ContentLength),
			})
		}
	}
	if err := tmp.Sync(); err != nil {
		return fail(errors.NewIOError("sync", tmpPath, err))
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return "", errors.NewIOError("close", tmpPath, err)
	}
	return tmpPath, nil
}

// finalizeFile moves the staged artifact to dst, replacing whatever was there.
func finalizeFile(staged, dst string) error {
	if err := fsutil.Replace(staged, dst); err != nil {
		return errors.NewIOError("rename", dst, err)
	}
	return nil
}

// contextReader stops a copy once ctx is done.
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *contextReader) Read(b []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(b)
}
