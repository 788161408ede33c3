package filter

import (
	"fmt"
	"regexp"
	"strings"
)

// TagFilter represents a filter for image tags
type TagFilter interface {
	Matches(tag string) bool
}

// SubstringFilter keeps tags containing a search text
type SubstringFilter struct {
	text string
}

// NewSubstringFilter creates a case-sensitive substring filter
func NewSubstringFilter(text string) *SubstringFilter {
	return &SubstringFilter{text: text}
}

// Matches returns true if the tag contains the search text
func (f *SubstringFilter) Matches(tag string) bool {
	return strings.Contains(tag, f.text)
}

// RegexFilter filters tags based on a regex pattern
type RegexFilter struct {
	pattern *regexp.Regexp
	invert  bool // if true, exclude matches instead of include
}

// NewRegexFilter creates a new regex filter
func NewRegexFilter(pattern string, invert bool) (*RegexFilter, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to compile regex pattern: %w", err)
	}

	return &RegexFilter{
		pattern: re,
		invert:  invert,
	}, nil
}

// Matches returns true if the tag matches the filter criteria
func (f *RegexFilter) Matches(tag string) bool {
	matches := f.pattern.MatchString(tag)
	if f.invert {
		return !matches
	}
	return matches
}

// CompositeFilter combines multiple filters
type CompositeFilter struct {
	filters []TagFilter
}

// NewCompositeFilter creates a new composite filter
func NewCompositeFilter(filters ...TagFilter) *CompositeFilter {
	return &CompositeFilter{
		filters: filters,
	}
}

// Matches returns true if all filters match (AND logic)
func (f *CompositeFilter) Matches(tag string) bool {
	for _, filter := range f.filters {
		if !filter.Matches(tag) {
			return false
		}
	}
	return true
}

// FilterTags returns the tags accepted by filter, preserving order
func FilterTags(tags []string, filter TagFilter) []string {
	if filter == nil {
		return tags
	}

	filtered := make([]string, 0, len(tags))
	for _, tag := range tags {
		if filter.Matches(tag) {
			filtered = append(filtered, tag)
		}
	}
	return filtered
}
