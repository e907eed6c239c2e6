package release

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hashicorp/go-version"

	"github.com/glorpus-work/relfetch/pkg/errors"
)

// Placeholder stands for the release version inside an untagged asset name.
const Placeholder = "{tag}"

// VersionText is the part of a tag that asset names usually embed: the tag without its
// leading "v" when it is a version, the tag itself otherwise.
func VersionText(tag string) string {
	v, err := version.NewVersion(tag)
	if err != nil {
		return tag
	}
	return strings.TrimPrefix(v.Original(), "v")
}

// Tag expands the placeholder in an untagged asset name.
func Tag(tag, untagged string) string {
	return strings.ReplaceAll(untagged, Placeholder, VersionText(tag))
}

// Untag replaces the version embedded in an asset name with the placeholder, so the same
// selection can be reused across releases.
func Untag(tag, name string) string {
	text := VersionText(tag)
	if text == "" {
		return name
	}
	return strings.ReplaceAll(name, text, Placeholder)
}

// IsConstraint reports whether s is a version constraint rather than a literal tag.
func IsConstraint(s string) bool {
	s = strings.TrimSpace(s)
	for _, op := range []string{"~>", ">=", "<=", "!=", ">", "<", "="} {
		if strings.HasPrefix(s, op) {
			return true
		}
	}
	return false
}

// Newest returns the release with the highest version satisfying constraint.
// Drafts, prereleases and tags that are not versions are skipped.
func Newest(releases []Release, constraint string) (*Release, error) {
	constraints, err := version.NewConstraint(constraint)
	if err != nil {
		return nil, fmt.Errorf("invalid version constraint %q: %w", constraint, err)
	}

	type candidate struct {
		release *Release
		version *version.Version
	}
	var matching []candidate
	for i := range releases {
		r := &releases[i]
		if r.Draft || r.Prerelease {
			continue
		}
		v, err := version.NewVersion(r.Tag)
		if err != nil || !constraints.Check(v) {
			continue
		}
		matching = append(matching, candidate{release: r, version: v})
	}
	if len(matching) == 0 {
		return nil, fmt.Errorf("%w: no release satisfies %s", errors.ErrReleaseNotFound, constraint)
	}

	sort.SliceStable(matching, func(i, j int) bool {
		return matching[i].version.GreaterThan(matching[j].version)
	})
	return matching[0].release, nil
}
