package checksum

import (
	"fmt"
	"os"
	"strings"

	"github.com/jedisct1/go-minisign"

	"github.com/glorpus-work/relfetch/pkg/errors"
)

// LoadPublicKey accepts a minisign public key as the base64 key line, the content of a
// .pub file, or a path to a .pub file.
func LoadPublicKey(value string) (minisign.PublicKey, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return minisign.PublicKey{}, errors.ErrSignatureKeyMissing
	}

	if strings.Contains(value, "\n") {
		pk, err := minisign.DecodePublicKey(value)
		if err != nil {
			return minisign.PublicKey{}, fmt.Errorf("%w: %v", errors.ErrSignatureInvalid, err)
		}
		return pk, nil
	}

	if pk, err := minisign.NewPublicKey(value); err == nil {
		return pk, nil
	}

	pk, err := minisign.NewPublicKeyFromFile(value)
	if err != nil {
		if os.IsNotExist(err) {
			return minisign.PublicKey{}, fmt.Errorf("%w: %s is neither a key nor a key file", errors.ErrSignatureInvalid, value)
		}
		return minisign.PublicKey{}, fmt.Errorf("%w: read minisign key: %v", errors.ErrSignatureInvalid, err)
	}
	return pk, nil
}

// VerifyManifest checks the minisign signature over the raw manifest bytes.
func VerifyManifest(manifest, signature []byte, publicKey string) error {
	pk, err := LoadPublicKey(publicKey)
	if err != nil {
		return err
	}

	sig, err := minisign.DecodeSignature(string(signature))
	if err != nil {
		return fmt.Errorf("%w: decode signature: %v", errors.ErrSignatureInvalid, err)
	}

	valid, err := pk.Verify(manifest, sig)
	if err != nil {
		return fmt.Errorf("%w: %v", errors.ErrSignatureInvalid, err)
	}
	if !valid {
		return errors.ErrSignatureInvalid
	}
	return nil
}
