// Package resolve picks the release asset that fits a platform profile.
package resolve

import (
	"github.com/glorpus-work/relfetch/pkg/archive"
	"github.com/glorpus-work/relfetch/pkg/asset"
	"github.com/glorpus-work/relfetch/pkg/platform"
)

// Candidate is one asset scored against a profile during a single resolution pass.
type Candidate struct {
	Tokens asset.Tokens
	// Index is the position of the asset in the input list.
	Index int
	Score int32
	// Preference ranks candidates whose Score ties, from the configured extension order.
	Preference int32
	Compatible bool
	// Reason names the rule that rejected an incompatible candidate.
	Reason string
}

// Name returns the published asset name.
func (c Candidate) Name() string { return c.Tokens.Raw }

// Matcher scores tokenized assets against a profile.
type Matcher struct {
	preference []archive.Kind
}

// NewMatcher returns a matcher that breaks score ties by the given extension order,
// earliest first. Without an order, equal scores stay tied.
func NewMatcher(preference ...archive.Kind) Matcher {
	return Matcher{preference: preference}
}

type rule struct {
	reason   string
	rejected func(asset.Tokens, platform.Profile) bool
}

var compatibilityRules = []rule{
	{"no operating system in name", func(t asset.Tokens, _ platform.Profile) bool {
		return t.OS == ""
	}},
	{"operating system mismatch", func(t asset.Tokens, p platform.Profile) bool {
		return t.OS != p.OS
	}},
	{"architecture mismatch", func(t asset.Tokens, p platform.Profile) bool {
		if t.Arch == "" || t.Arch == p.Arch {
			return false
		}
		return !(t.Arch == platform.ArchUniversal && p.OS == platform.OSDarwin)
	}},
	{"libc mismatch", func(t asset.Tokens, p platform.Profile) bool {
		if t.Libc == platform.LibcUnknown || p.Libc == platform.LibcUnknown || t.Libc == p.Libc {
			return false
		}
		// MinGW builds run anywhere msvc ones do; they only score lower.
		return !(p.OS == platform.OSWindows && t.Libc == platform.LibcGNU)
	}},
	{"word size mismatch", func(t asset.Tokens, p platform.Profile) bool {
		return t.Arch == "" && t.Bits != 0 && p.Bits != 0 && t.Bits != p.Bits
	}},
	{"not a binary", func(t asset.Tokens, _ platform.Profile) bool {
		return t.Ext.IsMetadata()
	}},
}

var scoreRules = []func(asset.Tokens, platform.Profile) int32{
	func(t asset.Tokens, p platform.Profile) int32 {
		if t.Arch == p.Arch {
			return 3
		}
		return 0
	},
	func(t asset.Tokens, p platform.Profile) int32 {
		switch {
		case t.Libc == platform.LibcUnknown:
			return 1
		case t.Libc == p.Libc:
			return 2
		default:
			return 0
		}
	},
	func(t asset.Tokens, _ platform.Profile) int32 {
		if t.Ext.Recognized() {
			return 1
		}
		return 0
	},
}

// Compatible reports whether an asset may be selected for the profile at all.
func (m Matcher) Compatible(t asset.Tokens, p platform.Profile) bool {
	return rejection(t, p) == ""
}

// Score evaluates an asset against the profile. Incompatible candidates carry no score.
func (m Matcher) Score(t asset.Tokens, p platform.Profile) Candidate {
	c := Candidate{Tokens: t, Index: -1}
	if c.Reason = rejection(t, p); c.Reason != "" {
		return c
	}

	c.Compatible = true
	for _, score := range scoreRules {
		c.Score += score(t, p)
	}
	c.Preference = m.rank(t.Ext)
	return c
}

func (m Matcher) rank(kind archive.Kind) int32 {
	for i, k := range m.preference {
		if k == kind {
			return int32(len(m.preference) - i)
		}
	}
	return 0
}

func rejection(t asset.Tokens, p platform.Profile) string {
	for _, r := range compatibilityRules {
		if r.rejected(t, p) {
			return r.reason
		}
	}
	return ""
}
