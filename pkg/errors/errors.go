// Package errors defines the sentinel and typed errors shared by relfetch packages.
//
// Resolution outcomes (no match, ambiguous match) are not errors and never appear here.
// Everything that can fail lives in the download and extraction stage and is reported
// with one of the typed errors below, each of which wraps a sentinel so callers can use
// errors.Is as well as errors.As.
package errors

import (
	"fmt"
)

// Common error types.
var (
	// Config errors.
	ErrEmptyConfigPath   = fmt.Errorf("config file path cannot be empty")
	ErrInvalidConfigPath = fmt.Errorf("invalid config file path")
	ErrConfigParse       = fmt.Errorf("failed to parse config")
	ErrConfigValidation  = fmt.Errorf("invalid configuration")
	ErrConfigEncode      = fmt.Errorf("failed to encode config")
	ErrConfigDirectory   = fmt.Errorf("failed to create config directory")
	ErrConfigFileCreate  = fmt.Errorf("failed to create config file")
	ErrConfigSchema      = fmt.Errorf("config does not match schema")
	ErrConfigKey         = fmt.Errorf("unknown configuration key")
	ErrConfigValue       = fmt.Errorf("invalid configuration value")
	ErrConfigFileExists  = fmt.Errorf("configuration file already exists")

	ErrHTTPTimeoutNegative = fmt.Errorf("http_timeout cannot be negative")
	ErrUnknownExtension    = fmt.Errorf("unknown file extension")
	ErrEmptyRepositoryName = fmt.Errorf("repository name cannot be empty")
	ErrRepositoryExists    = fmt.Errorf("repository already configured")
	ErrRepositoryUnknown   = fmt.Errorf("repository not configured")

	// Platform errors.
	ErrInvalidOSValue   = fmt.Errorf("invalid OS value")
	ErrInvalidArchValue = fmt.Errorf("invalid architecture value")
	ErrInvalidLibcValue = fmt.Errorf("invalid libc value")
	ErrInvalidLogLevel  = fmt.Errorf("invalid log level")

	// Release errors.
	ErrInvalidRepository = fmt.Errorf("invalid repository, expected OWNER/REPO")
	ErrReleaseNotFound   = fmt.Errorf("release not found")
	ErrAssetNotFound     = fmt.Errorf("asset not found")
	ErrNoMatch           = fmt.Errorf("no asset matches the platform")
	ErrAmbiguous         = fmt.Errorf("several assets match the platform equally")

	// Download errors.
	ErrInvalidPath      = fmt.Errorf("invalid path")
	ErrDownloadFailed   = fmt.Errorf("download failed")
	ErrFileHashMismatch = fmt.Errorf("file hash mismatch")
	ErrIO               = fmt.Errorf("filesystem error")

	// Checksum errors.
	ErrChecksumParse       = fmt.Errorf("failed to parse checksum manifest")
	ErrUnknownAlgorithm    = fmt.Errorf("unknown checksum algorithm")
	ErrSignatureInvalid    = fmt.Errorf("manifest signature verification failed")
	ErrSignatureKeyMissing = fmt.Errorf("manifest is signed but no public key is configured")
	ErrChecksumRequired    = fmt.Errorf("no checksum published for asset")

	// Archive errors.
	ErrUnsafeArchive      = fmt.Errorf("unsafe archive")
	ErrUnsupportedArchive = fmt.Errorf("unsupported archive format")
	ErrExecutableNotFound = fmt.Errorf("executable not found in archive")

	// Hook errors.
	ErrHookExecution = fmt.Errorf("error executing hook")
	ErrHookScript    = fmt.Errorf("hook script error")
	ErrHookLoad      = fmt.Errorf("failed to load hook")
)

// DownloadError reports a transfer that could not complete: transport failure,
// a non-success response or an interrupted stream. It is never retried internally.
type DownloadError struct {
	URL        string
	StatusCode int // zero when no response was received
	Err        error
}

func (e *DownloadError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Err != nil:
		return fmt.Sprintf("download %s: unexpected status code: %d: %v", e.URL, e.StatusCode, e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("download %s: unexpected status code: %d", e.URL, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("download %s: %v", e.URL, e.Err)
	default:
		return fmt.Sprintf("download %s failed", e.URL)
	}
}

// Unwrap exposes both the sentinel and the cause.
func (e *DownloadError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrDownloadFailed}
	}
	return []error{ErrDownloadFailed, e.Err}
}

// ChecksumMismatchError reports that the digest of a downloaded file differs
// from the digest published in the release's checksum manifest.
type ChecksumMismatchError struct {
	Filename  string
	Algorithm string
	Expected  string
	Actual    string
}

func (e *ChecksumMismatchError) Error() string {
	return fmt.Sprintf("checksum mismatch for %s (%s): expected %s, got %s", e.Filename, e.Algorithm, e.Expected, e.Actual)
}

func (e *ChecksumMismatchError) Unwrap() error { return ErrFileHashMismatch }

// UnsafeArchiveError reports an archive entry that would be written outside the
// extraction root, either directly or through a link.
type UnsafeArchiveError struct {
	Entry  string
	Reason string
}

func (e *UnsafeArchiveError) Error() string {
	return fmt.Sprintf("unsafe archive entry %q: %s", e.Entry, e.Reason)
}

func (e *UnsafeArchiveError) Unwrap() error { return ErrUnsafeArchive }

// IOError reports a local filesystem failure. The underlying error is kept verbatim.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() []error { return []error{ErrIO, e.Err} }

// NewIOError builds an IOError, returning nil when err is nil.
func NewIOError(op, path string, err error) error {
	if err == nil {
		return nil
	}
	return &IOError{Op: op, Path: path, Err: err}
}

// Wrap wraps an error with additional context.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// Wrapf wraps an error with additional formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// ErrInvalidOSValueWithDetails is a helper to create a wrapped error with the invalid value and valid options.
func ErrInvalidOSValueWithDetails(value string, validOS []string) error {
	return fmt.Errorf("%w: %s. Valid values are: %v", ErrInvalidOSValue, value, validOS)
}

// ErrInvalidArchValueWithDetails is a helper to create a wrapped error with the invalid value and valid options.
func ErrInvalidArchValueWithDetails(value string, validArch []string) error {
	return fmt.Errorf("%w: %s. Valid values are: %v", ErrInvalidArchValue, value, validArch)
}

// ErrInvalidLibcValueWithDetails is a helper to create a wrapped error with the invalid value and valid options.
func ErrInvalidLibcValueWithDetails(value string, validLibc []string) error {
	return fmt.Errorf("%w: %s. Valid values are: %v", ErrInvalidLibcValue, value, validLibc)
}

// ErrUnknownExtensionWithDetails is a helper to create a wrapped error with the unknown extension.
func ErrUnknownExtensionWithDetails(ext string) error {
	return fmt.Errorf("%w: %q", ErrUnknownExtension, ext)
}

// ErrEmptyRepositoryNameWithIndex is a helper to create a wrapped error with the repository index.
func ErrEmptyRepositoryNameWithIndex(index int) error {
	return fmt.Errorf("%w at index %d", ErrEmptyRepositoryName, index)
}

// ErrRepositoryExistsWithName is a helper to create a wrapped error with the repository name.
func ErrRepositoryExistsWithName(name string) error {
	return fmt.Errorf("%w: %s", ErrRepositoryExists, name)
}

// ErrInvalidLogLevelWithDetails is a helper to create a wrapped error with the invalid level and valid options.
func ErrInvalidLogLevelWithDetails(level string) error {
	return fmt.Errorf("%w: '%s', must be one of: debug, info, warn, error", ErrInvalidLogLevel, level)
}
