package checksum

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glorpus-work/relfetch/pkg/errors"
)

const (
	payload       = "release binary"
	payloadSHA256 = "9708beac508eb53b8ba9b8e7359a09237371a8a220a7c60da408e14c7a41cec4"
	payloadSHA512 = "788ccb2d20912ecbdd0f3d379100eca7083debc596595839c4f61cee9cf93977af19277568d0a37c1bf7ec84733dfdeed1797c691a48c4919022eaf22540cfcb"
	payloadSHA1   = "9fd002b6a4c96caf5e4e710ea576d30364d54b91"
	payloadMD5    = "242f9fcc71c4211f5f0ee5a61b9351ca"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		manifest string
		content  string
		expected map[string]Algorithm
	}{
		{
			name:     "gnu text mode",
			manifest: "SHA256SUMS",
			content:  payloadSHA256 + "  tool-linux-amd64.tar.gz\n" + payloadSHA256 + "  tool-darwin-arm64.tar.gz\n",
			expected: map[string]Algorithm{"tool-linux-amd64.tar.gz": SHA256, "tool-darwin-arm64.tar.gz": SHA256},
		},
		{
			name:     "gnu binary mode",
			manifest: "checksums.txt",
			content:  payloadSHA256 + " *tool.zip\n",
			expected: map[string]Algorithm{"tool.zip": SHA256},
		},
		{
			name:     "bsd style",
			manifest: "CHECKSUMS",
			content:  "SHA512 (tool.tar.xz) = " + payloadSHA512 + "\nSHA256 (tool.zip) = " + payloadSHA256 + "\n",
			expected: map[string]Algorithm{"tool.tar.xz": SHA512, "tool.zip": SHA256},
		},
		{
			name:     "bare digest sidecar",
			manifest: "tool-linux-amd64.tar.gz.sha256",
			content:  payloadSHA256 + "\n",
			expected: map[string]Algorithm{"tool-linux-amd64.tar.gz": SHA256},
		},
		{
			name:     "algorithm inferred from length",
			manifest: "checksums.txt",
			content:  payloadSHA512 + "  big.tar.gz\n" + payloadSHA1 + "  old.tar.gz\n" + payloadMD5 + "  older.tar.gz\n",
			expected: map[string]Algorithm{"big.tar.gz": SHA512, "old.tar.gz": SHA1, "older.tar.gz": MD5},
		},
		{
			name:     "comments, blanks and paths",
			manifest: "SHA256SUMS",
			content:  "# generated\n\n" + payloadSHA256 + "  ./dist/tool.tar.gz\r\n",
			expected: map[string]Algorithm{"tool.tar.gz": SHA256},
		},
		{
			name:     "digest length must fit the named algorithm",
			manifest: "SHA512SUMS",
			content:  payloadSHA256 + "  short.tar.gz\n" + payloadSHA512 + "  long.tar.gz\n",
			expected: map[string]Algorithm{"long.tar.gz": SHA512},
		},
		{
			name:     "first entry for a name wins",
			manifest: "SHA256SUMS",
			content:  payloadSHA256 + "  tool.zip\n" + strings.Repeat("0", 64) + "  tool.zip\n",
			expected: map[string]Algorithm{"tool.zip": SHA256},
		},
		{
			name:     "empty manifest",
			manifest: "SHA256SUMS",
			content:  "",
			expected: map[string]Algorithm{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Parse(strings.NewReader(tt.content), tt.manifest)
			require.NoError(t, err)
			require.Len(t, m, len(tt.expected))
			for name, algo := range tt.expected {
				e, ok := m.Lookup(name)
				require.True(t, ok, name)
				assert.Equal(t, algo, e.Algorithm)
				assert.Equal(t, name, e.Filename)
			}
		})
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	_, err := Parse(strings.NewReader("<html>not found</html>\n"), "SHA256SUMS")
	assert.ErrorIs(t, err, errors.ErrChecksumParse)

	_, err = Parse(strings.NewReader(payloadSHA256+"\n"), "SHA256SUMS")
	assert.ErrorIs(t, err, errors.ErrChecksumParse, "bare digest only applies to sidecars")
}

func TestManifestLookupIsExact(t *testing.T) {
	m, err := Parse(strings.NewReader(payloadSHA256+"  tool.tar.gz\n"), "SHA256SUMS")
	require.NoError(t, err)

	_, ok := m.Lookup("Tool.tar.gz")
	assert.False(t, ok)
	_, ok = m.Lookup("tool.tar")
	assert.False(t, ok)
	e, ok := m.Lookup("tool.tar.gz")
	assert.True(t, ok)
	assert.Equal(t, payloadSHA256, e.Hex())
}

func TestDigest(t *testing.T) {
	tests := []struct {
		algo     Algorithm
		expected string
	}{
		{SHA256, payloadSHA256},
		{SHA512, payloadSHA512},
		{SHA1, payloadSHA1},
		{MD5, payloadMD5},
	}
	for _, tt := range tests {
		t.Run(string(tt.algo), func(t *testing.T) {
			sum, err := Digest(strings.NewReader(payload), tt.algo)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, sum)
		})
	}

	_, err := Digest(strings.NewReader(payload), "crc32")
	assert.ErrorIs(t, err, errors.ErrUnknownAlgorithm)
}

func TestEntryVerify(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "tool.tar.gz")
	require.NoError(t, os.WriteFile(file, []byte(payload), 0o644))

	m, err := Parse(strings.NewReader(payloadSHA256+"  tool.tar.gz\n"), "SHA256SUMS")
	require.NoError(t, err)
	entry, ok := m.Lookup("tool.tar.gz")
	require.True(t, ok)

	require.NoError(t, entry.Verify(file))

	require.NoError(t, os.WriteFile(file, []byte(payload+" tampered"), 0o644))
	err = entry.Verify(file)
	require.Error(t, err)

	var mismatch *errors.ChecksumMismatchError
	require.True(t, stderrors.As(err, &mismatch))
	assert.Equal(t, "tool.tar.gz", mismatch.Filename)
	assert.Equal(t, payloadSHA256, mismatch.Expected)
	assert.NotEqual(t, mismatch.Expected, mismatch.Actual)
	assert.ErrorIs(t, err, errors.ErrFileHashMismatch)

	err = entry.Verify(filepath.Join(dir, "missing"))
	assert.ErrorIs(t, err, errors.ErrIO)
}

func TestAlgorithmFromName(t *testing.T) {
	tests := map[string]Algorithm{
		"SHA256SUMS":                    SHA256,
		"tool.tar.gz.sha512":            SHA512,
		"tool_1.0_checksums.sha256.txt": SHA256,
		"tool.md5":                      MD5,
		"checksums.txt":                 "",
	}
	for name, expected := range tests {
		assert.Equal(t, expected, AlgorithmFromName(name), name)
	}
}

func TestSidecarTarget(t *testing.T) {
	tests := map[string]string{
		"tool.tar.gz.sha256":     "tool.tar.gz",
		"tool.tar.gz.sha256.txt": "tool.tar.gz",
		"tool.tar.gz.sha512sum":  "tool.tar.gz",
		"tool.exe.md5":           "tool.exe",
		"SHA256SUMS":             "",
		"checksums.txt":          "",
		".sha256":                "",
	}
	for name, expected := range tests {
		assert.Equal(t, expected, SidecarTarget(name), name)
	}
}
