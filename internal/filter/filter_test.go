package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var tags = []string{"latest", "1.25.3", "1.25.3-alpine", "dev-42", "stable-alpine"}

func TestSubstringFilter(t *testing.T) {
	assert.Equal(t, []string{"1.25.3-alpine", "stable-alpine"}, FilterTags(tags, NewSubstringFilter("alpine")))
	assert.Equal(t, tags, FilterTags(tags, NewSubstringFilter("")))
	assert.Empty(t, FilterTags(tags, NewSubstringFilter("Alpine")))
}

func TestRegexFilter(t *testing.T) {
	include, err := NewRegexFilter(`^\d+\.\d+`, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"1.25.3", "1.25.3-alpine"}, FilterTags(tags, include))

	exclude, err := NewRegexFilter(`^dev-`, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"latest", "1.25.3", "1.25.3-alpine", "stable-alpine"}, FilterTags(tags, exclude))

	_, err = NewRegexFilter(`(`, false)
	require.Error(t, err)
}

func TestCompositeFilter(t *testing.T) {
	include, err := NewRegexFilter(`alpine$`, false)
	require.NoError(t, err)

	f := NewCompositeFilter(include, NewSubstringFilter("1.25"))
	assert.Equal(t, []string{"1.25.3-alpine"}, FilterTags(tags, f))

	assert.Equal(t, tags, FilterTags(tags, NewCompositeFilter()))
}

func TestFilterTags_NilFilter(t *testing.T) {
	assert.Equal(t, tags, FilterTags(tags, nil))
}
