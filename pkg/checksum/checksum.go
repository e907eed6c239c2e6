// Package checksum parses published checksum manifests and verifies downloaded files
// against them.
package checksum

import (
	"bufio"
	"crypto/md5"  //nolint:gosec // legacy manifests still publish md5
	"crypto/sha1" //nolint:gosec // legacy manifests still publish sha1
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"os"
	"path"
	"regexp"
	"strings"

	"github.com/glorpus-work/relfetch/pkg/errors"
)

// Algorithm names a digest algorithm.
type Algorithm string

// Supported algorithms.
const (
	SHA256 Algorithm = "sha256"
	SHA512 Algorithm = "sha512"
	SHA1   Algorithm = "sha1"
	MD5    Algorithm = "md5"
)

// byStrength orders algorithms from strongest to weakest.
var byStrength = []Algorithm{SHA512, SHA256, SHA1, MD5}

// New returns a fresh hash for a.
func (a Algorithm) New() (hash.Hash, error) {
	switch a {
	case SHA256:
		return sha256.New(), nil
	case SHA512:
		return sha512.New(), nil
	case SHA1:
		return sha1.New(), nil //nolint:gosec
	case MD5:
		return md5.New(), nil //nolint:gosec
	default:
		return nil, fmt.Errorf("%w: %q", errors.ErrUnknownAlgorithm, string(a))
	}
}

// Size returns the digest length in bytes, or 0 for an unknown algorithm.
func (a Algorithm) Size() int {
	switch a {
	case SHA256:
		return sha256.Size
	case SHA512:
		return sha512.Size
	case SHA1:
		return sha1.Size
	case MD5:
		return md5.Size
	default:
		return 0
	}
}

// AlgorithmFromName infers the algorithm from a manifest file name such as
// SHA256SUMS or tool.tar.gz.sha512. It returns "" when the name gives no hint.
func AlgorithmFromName(name string) Algorithm {
	lower := strings.ToLower(name)
	for _, a := range byStrength {
		if strings.Contains(lower, string(a)) {
			return a
		}
	}
	return ""
}

// algorithmFromSize infers the algorithm from a digest length in bytes.
func algorithmFromSize(n int) Algorithm {
	for _, a := range byStrength {
		if a.Size() == n {
			return a
		}
	}
	return ""
}

// Entry is one line of a manifest.
type Entry struct {
	Filename  string
	Digest    []byte
	Algorithm Algorithm
}

// Hex returns the lower-case hex encoding of the digest.
func (e Entry) Hex() string {
	return hex.EncodeToString(e.Digest)
}

// Verify recomputes the digest of the file at path and compares it with the entry.
func (e Entry) Verify(path string) error {
	actual, err := DigestFile(path, e.Algorithm)
	if err != nil {
		return err
	}
	return e.Check(actual)
}

// Check compares a hex digest computed elsewhere with the entry.
func (e Entry) Check(actual string) error {
	if !strings.EqualFold(actual, e.Hex()) {
		return &errors.ChecksumMismatchError{
			Filename:  e.Filename,
			Algorithm: string(e.Algorithm),
			Expected:  e.Hex(),
			Actual:    actual,
		}
	}
	return nil
}

// Manifest maps exact asset file names to their published digests.
type Manifest map[string]Entry

// Lookup returns the entry for filename. Names are compared exactly.
func (m Manifest) Lookup(filename string) (Entry, bool) {
	e, ok := m[filename]
	return e, ok
}

var bsdLine = regexp.MustCompile(`^([A-Za-z0-9-]+) ?\((.+)\) ?= ?([0-9A-Fa-f]+)$`)

// Parse reads a manifest published under the asset name manifestName.
//
// Accepted line forms are GNU coreutils ("<hex>  <name>" and "<hex> *<name>"),
// BSD ("SHA256 (<name>) = <hex>") and, for per-asset sidecars, a bare digest. A bare
// digest is keyed by manifestName with its algorithm suffix removed. Blank lines,
// comments and lines that are not digests are skipped; a non-empty manifest that yields
// no entry at all is an error.
func Parse(r io.Reader, manifestName string) (Manifest, error) {
	hint := AlgorithmFromName(manifestName)
	m := Manifest{}

	scanner := bufio.NewScanner(r)
	sawContent := false
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		sawContent = true

		if e, ok := parseLine(line, hint, manifestName); ok {
			if _, dup := m[e.Filename]; !dup {
				m[e.Filename] = e
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to read manifest %s", manifestName)
	}
	if sawContent && len(m) == 0 {
		return nil, fmt.Errorf("%w: %s has no usable entries", errors.ErrChecksumParse, manifestName)
	}
	return m, nil
}

// ParseFile reads and parses the manifest at path.
func ParseFile(filePath, manifestName string) (Manifest, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, errors.NewIOError("open", filePath, err)
	}
	defer func() { _ = f.Close() }()
	return Parse(f, manifestName)
}

func parseLine(line string, hint Algorithm, manifestName string) (Entry, bool) {
	if sub := bsdLine.FindStringSubmatch(line); sub != nil {
		algo := Algorithm(strings.ToLower(strings.ReplaceAll(sub[1], "-", "")))
		return newEntry(sub[2], sub[3], algo)
	}

	fields := strings.Fields(line)
	if len(fields) == 1 {
		target := SidecarTarget(manifestName)
		if target == "" {
			return Entry{}, false
		}
		return newEntry(target, fields[0], hint)
	}

	digest := fields[0]
	name := strings.TrimSpace(line[len(digest):])
	name = strings.TrimPrefix(name, "*")
	return newEntry(name, digest, hint)
}

func newEntry(name, digest string, algo Algorithm) (Entry, bool) {
	raw, err := hex.DecodeString(digest)
	if err != nil || len(raw) == 0 {
		return Entry{}, false
	}
	if algo == "" || algo.Size() == 0 {
		algo = algorithmFromSize(len(raw))
	}
	if algo == "" || algo.Size() != len(raw) {
		return Entry{}, false
	}

	name = path.Base(strings.TrimPrefix(name, "./"))
	if name == "." || name == "/" || name == "" {
		return Entry{}, false
	}
	return Entry{Filename: name, Digest: raw, Algorithm: algo}, true
}

// SidecarTarget returns the asset a per-asset sidecar such as tool.tar.gz.sha256 or
// tool.tar.gz.sha256.txt describes, or "" when name is not a sidecar.
func SidecarTarget(name string) string {
	base := strings.TrimSuffix(name, ".txt")
	for _, a := range byStrength {
		for _, suffix := range []string{"." + string(a), "." + string(a) + "sum"} {
			if strings.HasSuffix(strings.ToLower(base), suffix) && len(base) > len(suffix) {
				return base[:len(base)-len(suffix)]
			}
		}
	}
	return ""
}

// Digest hashes r with algo and returns the lower-case hex digest.
func Digest(r io.Reader, algo Algorithm) (string, error) {
	h, err := algo.New()
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(h, r); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// DigestFile hashes the file at path with algo.
func DigestFile(filePath string, algo Algorithm) (string, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return "", errors.NewIOError("open", filePath, err)
	}
	defer func() { _ = f.Close() }()

	sum, err := Digest(f, algo)
	if err != nil {
		return "", errors.Wrapf(err, "failed to hash %s", filePath)
	}
	return sum, nil
}
