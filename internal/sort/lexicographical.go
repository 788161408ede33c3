package sort

import "sort"

// LexicographicalSorter sorts tags by plain string comparison
type LexicographicalSorter struct {
	descending bool
}

// NewLexicographicalSorter creates a new lexicographical sorter
func NewLexicographicalSorter(descending bool) *LexicographicalSorter {
	return &LexicographicalSorter{descending: descending}
}

// Sort sorts tags lexicographically, ascending unless configured otherwise
func (s *LexicographicalSorter) Sort(tags []string) []string {
	sorted := make([]string, len(tags))
	copy(sorted, tags)

	sort.SliceStable(sorted, func(i, j int) bool {
		if s.descending {
			return sorted[i] > sorted[j]
		}
		return sorted[i] < sorted[j]
	})

	return sorted
}
