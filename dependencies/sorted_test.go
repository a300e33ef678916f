package dependencies

import (
	"errors"
	"testing"

	"github.com/sam16vis/relocato/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func names(t *testing.T, ordered []NormalizedEntityName) []string {
	t.Helper()
	out := make([]string, len(ordered))
	for i, n := range ordered {
		out[i] = n.String()
	}
	return out
}

func TestSortedEntityTypes(t *testing.T) {
	graph, err := BuildGraph(relocationFixture())
	require.NoError(t, err)

	ordered, err := graph.SortedEntityTypes()
	require.NoError(t, err)

	assert.Equal(t, []string{
		"app.organization",
		"app.team",
		"app.project",
		"app.webhook",
	}, names(t, ordered))
}

func TestSortedEntityTypesValidity(t *testing.T) {
	graph, err := BuildGraph(relocationFixture())
	require.NoError(t, err)

	ordered, err := graph.SortedEntityTypes()
	require.NoError(t, err)

	position := map[NormalizedEntityName]int{}
	for i, name := range ordered {
		position[name] = i
	}

	// Every referenced type occurs before the type referencing it.
	for _, name := range graph.Names() {
		node, _ := graph.Node(name)
		for _, edge := range node.Edges {
			if edge.SelfEdge() {
				continue
			}
			assert.Less(t, position[edge.To], position[name],
				"%s must precede %s", edge.To, name)
		}
	}
}

func TestSortedEntityTypesTieBreaking(t *testing.T) {
	// No relations at all: one pass promotes everything, ascending by name.
	reg := &registry.Registry{
		Entities: []registry.Entity{
			{Name: "app.charlie", Scopes: []registry.ScopeTag{registry.ScopeGlobal}},
			{Name: "app.alpha", Scopes: []registry.ScopeTag{registry.ScopeGlobal}},
			{Name: "app.bravo", Scopes: []registry.ScopeTag{registry.ScopeGlobal}},
		},
	}

	graph, err := BuildGraph(reg)
	require.NoError(t, err)
	ordered, err := graph.SortedEntityTypes()
	require.NoError(t, err)
	assert.Equal(t, []string{"app.alpha", "app.bravo", "app.charlie"}, names(t, ordered))
}

func TestSortedEntityTypesDeterminism(t *testing.T) {
	graph, err := BuildGraph(relocationFixture())
	require.NoError(t, err)

	first, err := graph.SortedEntityTypes()
	require.NoError(t, err)
	second, err := graph.SortedEntityTypes()
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestSortedEntityTypesCycle(t *testing.T) {
	// p -> q -> p through nullable relations: the classifier tolerates it
	// (nullable edges are not followed) but no valid write order exists.
	reg := &registry.Registry{
		Entities: []registry.Entity{
			{
				Name:   "app.p",
				Scopes: []registry.ScopeTag{registry.ScopeGlobal},
				Fields: []registry.Field{{Name: "q", Nullable: true, Relation: &registry.Relation{To: "app.q"}}},
			},
			{
				Name:   "app.q",
				Scopes: []registry.ScopeTag{registry.ScopeGlobal},
				Fields: []registry.Field{{Name: "p", Nullable: true, Relation: &registry.Relation{To: "app.p"}}},
			},
		},
	}

	graph, err := BuildGraph(reg)
	require.NoError(t, err)

	_, err = graph.SortedEntityTypes()
	require.Error(t, err)
	var cycle *SortCycleError
	require.True(t, errors.As(err, &cycle))
	assert.Equal(t, []string{"app.p", "app.q"}, names(t, cycle.Remaining))
}
