package sort

import (
	"regexp"
	"sort"
	"strings"

	"golang.org/x/mod/semver"
)

// SemverSorter orders tags by semantic version, newest first
type SemverSorter struct {
	stripPrefixPattern *regexp.Regexp // optional: strip custom prefix before parsing
}

// NewSemverSorter creates a new semver sorter
func NewSemverSorter(stripPrefixPattern string) (*SemverSorter, error) {
	s := &SemverSorter{}

	if stripPrefixPattern != "" {
		re, err := regexp.Compile(stripPrefixPattern)
		if err != nil {
			return nil, err
		}
		s.stripPrefixPattern = re
	}

	return s, nil
}

// version returns the canonical "v"-prefixed form of a tag, or "" if the
// tag is not a semantic version
func (s *SemverSorter) version(tag string) string {
	v := tag
	if s.stripPrefixPattern != nil {
		v = s.stripPrefixPattern.ReplaceAllString(v, "")
	}
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return ""
	}
	return v
}

// Sort puts semver tags first (descending), then the rest lexicographically (descending)
func (s *SemverSorter) Sort(tags []string) []string {
	var semverTags, nonSemverTags []string

	for _, tag := range tags {
		if s.version(tag) != "" {
			semverTags = append(semverTags, tag)
		} else {
			nonSemverTags = append(nonSemverTags, tag)
		}
	}

	sort.SliceStable(semverTags, func(i, j int) bool {
		return semver.Compare(s.version(semverTags[i]), s.version(semverTags[j])) > 0
	})

	sort.Slice(nonSemverTags, func(i, j int) bool {
		return nonSemverTags[i] > nonSemverTags[j]
	})

	return append(semverTags, nonSemverTags...)
}
