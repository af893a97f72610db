package uploads

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFlattenPassesPlainValuesThrough(t *testing.T) {
	assert.Equal(t, []string{"one", "two"}, Flatten([]string{"one", "two"}))
	assert.Equal(t, []string{}, Flatten(nil))
}

func TestFlattenExpandsJSONArrays(t *testing.T) {
	assert.Equal(t,
		[]string{"a", "b", "c"},
		Flatten([]string{`["a","b","c"]`}),
	)
	assert.Equal(t,
		[]string{"a", "b", "plain"},
		Flatten([]string{`["a","b"]`, "plain"}),
	)
	assert.Equal(t,
		[]string{"x", "y"},
		Flatten([]string{`  ["x","y"] `}),
	)
}

func TestFlattenKeepsMalformedJSONVerbatim(t *testing.T) {
	assert.Equal(t, []string{"[not json"}, Flatten([]string{"[not json"}))
	assert.Equal(t, []string{`[1,2]`}, Flatten([]string{`[1,2]`}))
}

func TestReplicateTitlesAppendsIndex(t *testing.T) {
	assert.Equal(t,
		[]string{"sunset 1", "sunset 2", "sunset 3"},
		ReplicateTitles([]string{"sunset"}, 3),
	)
}

func TestReplicateTitlesLeavesListsAlone(t *testing.T) {
	titles := []string{"a", "b"}
	assert.Equal(t, titles, ReplicateTitles(titles, 3))
	assert.Equal(t, []string{"solo"}, ReplicateTitles([]string{"solo"}, 1))
	assert.Empty(t, ReplicateTitles(nil, 3))
}

func TestReplicateCategoriesCopiesVerbatim(t *testing.T) {
	assert.Equal(t,
		[]string{"neko", "neko", "neko"},
		ReplicateCategories([]string{"neko"}, 3),
	)
	categories := []string{"neko", "hug"}
	assert.Equal(t, categories, ReplicateCategories(categories, 3))
}
