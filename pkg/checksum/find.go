package checksum

import (
	"strings"
)

var sidecarSuffixes = []string{
	".sha256",
	".sha256sum",
	".sha256.txt",
	".sha512",
	".sha512sum",
	".sha512.txt",
	".sha1",
	".md5",
}

var consolidatedNames = []string{
	"SHA256SUMS",
	"SHA256SUMS.txt",
	"SHA512SUMS",
	"SHA512SUMS.txt",
	"checksums.txt",
	"CHECKSUMS",
	"CHECKSUMS.txt",
	"checksums.sha256",
	"sha256sums.txt",
}

var consolidatedSuffixes = []string{
	"_checksums.txt",
	"-checksums.txt",
	".checksums.txt",
	"_sha256sums.txt",
	"-sha256sums.txt",
	"_sha256sums",
	"-sha256sums",
}

// FindManifest picks the manifest that describes asset from the names published in the
// same release. Per-asset sidecars win over consolidated manifests. It returns false
// when the release publishes no manifest.
func FindManifest(names []string, asset string) (string, bool) {
	published := make(map[string]struct{}, len(names))
	for _, n := range names {
		published[n] = struct{}{}
	}

	for _, suffix := range sidecarSuffixes {
		if _, ok := published[asset+suffix]; ok {
			return asset + suffix, true
		}
	}
	for _, name := range consolidatedNames {
		if _, ok := published[name]; ok {
			return name, true
		}
	}
	for _, n := range names {
		lower := strings.ToLower(n)
		for _, suffix := range consolidatedSuffixes {
			if strings.HasSuffix(lower, suffix) {
				return n, true
			}
		}
	}
	return "", false
}

// FindSignature returns the minisign signature published for manifest, if any.
func FindSignature(names []string, manifest string) (string, bool) {
	want := manifest + ".minisig"
	for _, n := range names {
		if n == want {
			return n, true
		}
	}
	return "", false
}
