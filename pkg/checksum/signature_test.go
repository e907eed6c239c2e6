package checksum

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glorpus-work/relfetch/pkg/errors"
)

// Key and signature over the bytes "test", produced with the minisign CLI.
const (
	testPublicKey = "RWQf6LRCGA9i53mlYecO4IzT51TGPpvWucNSCh1CBM0QTaLn73Y7GFO3"
	testSignature = "untrusted comment: signature from minisign secret key\n" +
		"RWQf6LRCGA9i59SLOFxz6NxvASXDJeRtuZykwQepbDEGt87ig1BNpWaVWuNrm73YiIiJbq71Wi+dP9eKL8OC351vwIasSSbXxwA=\n" +
		"trusted comment: timestamp:1635442742\tfile:test\n" +
		"0YteLgV960ia80vnA/fHbvkyjl/IoP/HNOCaZfrF0CdhAlp7ok+Tpkya+VpWPX5C/Is3q8a/kEDSY7fBmmgJCg==\n"
)

func TestVerifyManifest(t *testing.T) {
	require.NoError(t, VerifyManifest([]byte("test"), []byte(testSignature), testPublicKey))

	err := VerifyManifest([]byte("tampered"), []byte(testSignature), testPublicKey)
	assert.ErrorIs(t, err, errors.ErrSignatureInvalid)

	err = VerifyManifest([]byte("test"), []byte("not a signature"), testPublicKey)
	assert.ErrorIs(t, err, errors.ErrSignatureInvalid)

	err = VerifyManifest([]byte("test"), []byte(testSignature), "")
	assert.ErrorIs(t, err, errors.ErrSignatureKeyMissing)
}

func TestLoadPublicKey(t *testing.T) {
	dir := t.TempDir()
	keyFile := filepath.Join(dir, "minisign.pub")
	pubContent := "untrusted comment: minisign public key 1F62E118\n" + testPublicKey + "\n"
	require.NoError(t, os.WriteFile(keyFile, []byte(pubContent), 0o644))

	tests := []struct {
		name    string
		value   string
		wantErr error
	}{
		{name: "key line", value: testPublicKey},
		{name: "pub file content", value: pubContent},
		{name: "pub file path", value: keyFile},
		{name: "empty", value: "  ", wantErr: errors.ErrSignatureKeyMissing},
		{name: "missing file", value: filepath.Join(dir, "nope.pub"), wantErr: errors.ErrSignatureInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pk, err := LoadPublicKey(tt.value)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, [2]byte{'E', 'd'}, pk.SignatureAlgorithm)
		})
	}
}
