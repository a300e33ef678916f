package dependencies

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDumpGraphDeterminism(t *testing.T) {
	buildDump := func() []byte {
		graph, err := BuildGraph(relocationFixture())
		require.NoError(t, err)
		data, err := MarshalDump(DumpGraph(graph))
		require.NoError(t, err)
		return data
	}

	// Two independent builds over the same snapshot serialize byte-identically.
	assert.Equal(t, buildDump(), buildDump())
}

func TestDumpGraphContents(t *testing.T) {
	graph, err := BuildGraph(relocationFixture())
	require.NoError(t, err)
	dump := DumpGraph(graph)

	require.Contains(t, dump, "app.project")
	project := dump["app.project"]
	assert.Equal(t, "projects", project.Table)
	assert.False(t, project.Dangling)
	require.Len(t, project.Relations, 2)
	// Relations sorted by field name.
	assert.Equal(t, "organization", project.Relations[0].Field)
	assert.Equal(t, "team", project.Relations[1].Field)
	assert.Equal(t, "ForeignKey", project.Relations[1].Kind)
	assert.True(t, project.Relations[0].Nullable)

	webhook := dump["app.webhook"]
	assert.True(t, webhook.Dangling)
}

func TestParseDumpRoundTrip(t *testing.T) {
	graph, err := BuildGraph(relocationFixture())
	require.NoError(t, err)
	dump := DumpGraph(graph)

	data, err := MarshalDump(dump)
	require.NoError(t, err)

	parsed, err := ParseDump(data)
	require.NoError(t, err)
	assert.Equal(t, dump, parsed)
}

func TestParseDumpRejectsGarbage(t *testing.T) {
	_, err := ParseDump([]byte("not json"))
	assert.Error(t, err)
}
