package docset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func queryFixture(t *testing.T) *QueryService {
	t.Helper()
	set := sampleSet()
	require.Empty(t, set.Validate())
	return NewQueryService(set, set.BuildIndex())
}

func TestListComponents_All(t *testing.T) {
	entries := queryFixture(t).ListComponents("")
	require.Len(t, entries, 2)
	assert.Equal(t, "Button", entries[0].Name)
	assert.Equal(t, "Modal", entries[1].Name)
}

func TestListComponents_KeywordMatchesNameAndDescription(t *testing.T) {
	q := queryFixture(t)

	byName := q.ListComponents("butt")
	require.Len(t, byName, 1)
	assert.Equal(t, "Button", byName[0].Name)

	byDescription := q.ListComponents("overlay")
	require.Len(t, byDescription, 1)
	assert.Equal(t, "Modal", byDescription[0].Name)

	assert.Empty(t, q.ListComponents("nothing"))
}

func TestGetComponent(t *testing.T) {
	q := queryFixture(t)

	byName, ok := q.GetComponent("Modal")
	require.True(t, ok)
	assert.Equal(t, "lib/Modal.svelte", byName.Path)

	byPath, ok := q.GetComponent("lib/Button.svelte")
	require.True(t, ok)
	assert.Equal(t, "Button", byPath.Name)

	_, ok = q.GetComponent("Missing")
	assert.False(t, ok)
}

func TestSearchComponents_Reasons(t *testing.T) {
	q := queryFixture(t)

	cases := []struct {
		query  string
		entry  string
		reason string
	}{
		{"button", "Button", "name"},
		{"overlay", "Modal", "description"},
		{"label", "Button", "data:label"},
		{"click", "Button", "event:click"},
		{"footer", "Modal", "slot:footer"},
	}
	for _, tc := range cases {
		results := q.SearchComponents(tc.query)
		require.Len(t, results, 1, "query %q", tc.query)
		assert.Equal(t, tc.entry, results[0].Entry.Name)
		assert.Equal(t, tc.reason, results[0].MatchReason)
	}
}

func TestSearchComponents_EmptyQuery(t *testing.T) {
	assert.Nil(t, queryFixture(t).SearchComponents(""))
}
