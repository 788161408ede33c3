package sort

// TagSorter defines the interface for sorting tags
type TagSorter interface {
	// Sort returns a sorted copy of tags
	Sort(tags []string) []string
}
