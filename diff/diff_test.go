package diff

import (
	"testing"

	"github.com/sam16vis/relocato/dependencies"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseDump() dependencies.GraphDump {
	return dependencies.GraphDump{
		"app.organization": {
			Table:   "organizations",
			Scopes:  []string{"organization"},
			Uniques: [][]string{{"slug"}},
		},
		"app.project": {
			Table:  "projects",
			Scopes: []string{"organization"},
			Relations: []dependencies.RelationDump{
				{Field: "organization", To: "app.organization", Kind: "ForeignKey"},
			},
		},
	}
}

func TestDiffDumpsIdentical(t *testing.T) {
	assert.Empty(t, DiffDumps(baseDump(), baseDump()))
}

func TestDiffDumpsEntityAddedAndRemoved(t *testing.T) {
	old := baseDump()
	updated := baseDump()
	delete(updated, "app.organization")
	updated["app.team"] = dependencies.EntityDump{Table: "teams"}

	changes := DiffDumps(old, updated)
	require.Len(t, changes, 2)
	assert.Equal(t, Change{Type: EntityAdded, Entity: "app.team"}, changes[0])
	assert.Equal(t, Change{Type: EntityRemoved, Entity: "app.organization"}, changes[1])
}

func TestDiffDumpsEntityChanges(t *testing.T) {
	old := baseDump()
	updated := baseDump()

	org := updated["app.organization"]
	org.Table = "orgs"
	org.Scopes = []string{"global", "organization"}
	org.Dangling = true
	org.Uniques = [][]string{{"slug"}, {"name"}}
	updated["app.organization"] = org

	changes := DiffDumps(old, updated)
	require.Len(t, changes, 4)
	assert.Equal(t, TableChanged, changes[0].Type)
	assert.Equal(t, "organizations -> orgs", changes[0].Detail)
	assert.Equal(t, ScopesChanged, changes[1].Type)
	assert.Equal(t, DanglingChanged, changes[2].Type)
	assert.Equal(t, "false -> true", changes[2].Detail)
	assert.Equal(t, UniquesChanged, changes[3].Type)
	assert.Equal(t, "[slug] -> [slug name]", changes[3].Detail)
}

func TestDiffDumpsRelationChanges(t *testing.T) {
	old := baseDump()
	updated := baseDump()

	project := updated["app.project"]
	project.Relations = []dependencies.RelationDump{
		{Field: "organization", To: "app.organization", Kind: "Wrapper", Nullable: true},
		{Field: "team", To: "app.team", Kind: "ForeignKey"},
	}
	updated["app.project"] = project

	changes := DiffDumps(old, updated)
	require.Len(t, changes, 2)

	assert.Equal(t, RelationChanged, changes[0].Type)
	assert.Equal(t, "app.project", changes[0].Entity)
	assert.Equal(t, "organization", changes[0].Field)
	assert.Equal(t, "app.organization (ForeignKey, nullable=false) -> app.organization (Wrapper, nullable=true)", changes[0].Detail)

	assert.Equal(t, RelationAdded, changes[1].Type)
	assert.Equal(t, "team", changes[1].Field)
	assert.Equal(t, "-> app.team (ForeignKey)", changes[1].Detail)
}

func TestDiffDumpsRelationRemoved(t *testing.T) {
	old := baseDump()
	updated := baseDump()

	project := updated["app.project"]
	project.Relations = nil
	updated["app.project"] = project

	changes := DiffDumps(old, updated)
	require.Len(t, changes, 1)
	assert.Equal(t, RelationRemoved, changes[0].Type)
	assert.Equal(t, "organization", changes[0].Field)
}

func TestDiffDumpsDeterministicOrder(t *testing.T) {
	old := dependencies.GraphDump{}
	updated := dependencies.GraphDump{
		"app.zebra": {Table: "zebras"},
		"app.apple": {Table: "apples"},
	}

	first := DiffDumps(old, updated)
	second := DiffDumps(old, updated)
	require.Equal(t, first, second)
	assert.Equal(t, "app.apple", first[0].Entity)
	assert.Equal(t, "app.zebra", first[1].Entity)
}
