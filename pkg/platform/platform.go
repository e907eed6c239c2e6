package platform

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/glorpus-work/relfetch/pkg/errors"
)

// Profile describes the machine assets are resolved for.
// It is computed once and passed explicitly; it is never mutated.
type Profile struct {
	OS   OS   `yaml:"os" json:"os"`
	Arch Arch `yaml:"arch" json:"arch"`
	Libc Libc `yaml:"libc" json:"libc"`
	Bits int  `yaml:"bits" json:"bits"`
}

// libcRoot is the filesystem root searched for the dynamic loader.
var libcRoot = "/"

// Detect returns the profile of the running process.
func Detect() Profile {
	os := NormalizeOS(runtime.GOOS)
	arch := NormalizeArch(runtime.GOARCH)

	var libc Libc
	switch os {
	case OSLinux:
		libc = detectLibc(libcRoot)
	case OSWindows:
		libc = LibcMSVC
	default:
		libc = LibcUnknown
	}

	return Profile{OS: os, Arch: arch, Libc: libc, Bits: BitsOf(arch)}
}

// NewProfile builds a profile from user supplied values, accepting any known alias.
// An empty or "unknown" libc yields LibcUnknown.
func NewProfile(os, arch, libc string) (Profile, error) {
	o, ok := LookupOS(strings.ToLower(strings.TrimSpace(os)))
	if !ok {
		return Profile{}, errors.ErrInvalidOSValueWithDetails(os, ValidOS())
	}
	a, ok := LookupArch(strings.ToLower(strings.TrimSpace(arch)))
	if !ok || a == ArchUniversal {
		return Profile{}, errors.ErrInvalidArchValueWithDetails(arch, ValidArch())
	}
	l, err := ParseLibc(libc)
	if err != nil {
		return Profile{}, err
	}
	return Profile{OS: o, Arch: a, Libc: l, Bits: BitsOf(a)}, nil
}

// Override returns a copy of p with every non-empty value replaced.
func (p Profile) Override(os, arch, libc string) (Profile, error) {
	if os == "" && arch == "" && libc == "" {
		return p, nil
	}
	if os == "" {
		os = string(p.OS)
	}
	if arch == "" {
		arch = string(p.Arch)
	}
	if libc == "" {
		libc = string(p.Libc)
	}
	return NewProfile(os, arch, libc)
}

// ParseLibc parses a user supplied libc value.
func ParseLibc(libc string) (Libc, error) {
	switch v := strings.ToLower(strings.TrimSpace(libc)); v {
	case "", "unknown", "none":
		return LibcUnknown, nil
	default:
		l, ok := LookupLibc(v)
		if !ok {
			return LibcUnknown, errors.ErrInvalidLibcValueWithDetails(libc, ValidLibc())
		}
		return l, nil
	}
}

// String returns a string representation of the profile.
func (p Profile) String() string {
	return fmt.Sprintf("%s/%s (libc: %s, %d-bit)", p.OS, p.Arch, p.Libc, p.Bits)
}

// NormalizeOS normalizes OS names to their canonical form. Unknown names are lowercased.
func NormalizeOS(os string) OS {
	os = strings.ToLower(strings.TrimSpace(os))
	if o, ok := LookupOS(os); ok {
		return o
	}
	return OS(os)
}

// NormalizeArch normalizes architecture names to their canonical form. Unknown names are lowercased.
func NormalizeArch(arch string) Arch {
	arch = strings.ToLower(strings.TrimSpace(arch))
	if a, ok := LookupArch(arch); ok {
		return a
	}
	if strings.HasPrefix(arch, "armv") {
		return ArchARM
	}
	return Arch(arch)
}

// detectLibc looks for the dynamic loader under root. glibc ships ld-linux*.so.* or a
// *-linux-gnu multiarch directory, musl ships ld-musl-<arch>.so.1. glibc is checked first
// since glibc hosts often carry a musl loader from the musl-tools package.
func detectLibc(root string) Libc {
	loaders := []struct {
		pattern string
		libc    Libc
	}{
		{"lib/ld-linux*", LibcGNU},
		{"lib64/ld-linux*", LibcGNU},
		{"lib/*-linux-gnu*", LibcGNU},
		{"usr/lib/*-linux-gnu*", LibcGNU},
		{"lib/ld-musl-*", LibcMusl},
	}
	for _, loader := range loaders {
		matches, err := filepath.Glob(filepath.Join(root, loader.pattern))
		if err == nil && len(matches) > 0 {
			return loader.libc
		}
	}
	return LibcUnknown
}
