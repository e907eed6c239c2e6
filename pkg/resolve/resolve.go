package resolve

import (
	"github.com/glorpus-work/relfetch/pkg/archive"
	"github.com/glorpus-work/relfetch/pkg/asset"
	"github.com/glorpus-work/relfetch/pkg/platform"
	"github.com/glorpus-work/relfetch/pkg/release"
)

// Outcome classifies a Resolution.
type Outcome int

const (
	// NoMatch means no asset is compatible with the profile.
	NoMatch Outcome = iota
	// Unique means exactly one compatible asset holds the top rank.
	Unique
	// Ambiguous means two or more compatible assets share the top rank.
	Ambiguous
)

func (o Outcome) String() string {
	switch o {
	case Unique:
		return "unique"
	case Ambiguous:
		return "ambiguous"
	default:
		return "no match"
	}
}

// Resolution is the result of matching a release's assets against a profile.
type Resolution struct {
	Outcome Outcome
	// Candidates holds the top-ranked candidates in input order: one for Unique,
	// two or more for Ambiguous, none for NoMatch.
	Candidates []Candidate
	// Scored holds every candidate in input order, compatible or not.
	Scored []Candidate
}

// Best returns the selected candidate of a Unique resolution.
func (r Resolution) Best() (Candidate, bool) {
	if r.Outcome != Unique {
		return Candidate{}, false
	}
	return r.Candidates[0], true
}

// Names returns the names of the top-ranked candidates.
func (r Resolution) Names() []string {
	names := make([]string, len(r.Candidates))
	for i, c := range r.Candidates {
		names[i] = c.Name()
	}
	return names
}

type options struct {
	matcher Matcher
}

// Option configures Resolve.
type Option func(*options)

// WithPreference breaks score ties by extension, earliest kind first.
func WithPreference(kinds ...archive.Kind) Option {
	return func(o *options) { o.matcher = NewMatcher(kinds...) }
}

// WithMatcher replaces the matcher.
func WithMatcher(m Matcher) Option {
	return func(o *options) { o.matcher = m }
}

// Resolve tokenizes and scores every name and selects the top-ranked compatible ones.
// Input order never changes which outcome is returned or which candidate wins; it only
// orders the tied set of an Ambiguous resolution.
func Resolve(names []string, profile platform.Profile, opts ...Option) Resolution {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	res := Resolution{Scored: make([]Candidate, 0, len(names))}
	for i, name := range names {
		c := o.matcher.Score(asset.Tokenize(name), profile)
		c.Index = i
		res.Scored = append(res.Scored, c)
	}

	var top []Candidate
	for _, c := range res.Scored {
		if !c.Compatible {
			continue
		}
		switch {
		case len(top) == 0 || outranks(c, top[0]):
			top = []Candidate{c}
		case !outranks(top[0], c):
			top = append(top, c)
		}
	}

	res.Candidates = top
	switch len(top) {
	case 0:
		res.Outcome = NoMatch
	case 1:
		res.Outcome = Unique
	default:
		res.Outcome = Ambiguous
	}
	return res
}

// ResolveAssets resolves release assets and returns the selected asset of a Unique resolution.
func ResolveAssets(assets []release.Asset, profile platform.Profile, opts ...Option) (Resolution, *release.Asset) {
	names := make([]string, len(assets))
	for i, a := range assets {
		names[i] = a.Name
	}

	res := Resolve(names, profile, opts...)
	best, ok := res.Best()
	if !ok {
		return res, nil
	}
	selected := assets[best.Index]
	return res, &selected
}

func outranks(a, b Candidate) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	return a.Preference > b.Preference
}
