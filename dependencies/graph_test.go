package dependencies

import (
	"errors"
	"testing"

	"github.com/sam16vis/relocato/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// relocationFixture is the canonical four-entity scenario: an organization
// root, a team hanging off it, a project hanging off the team with a nullable
// shortcut to the organization, and a webhook reachable only through nullable
// relations.
func relocationFixture() *registry.Registry {
	return &registry.Registry{
		Scopes: []registry.Scope{
			{Tag: registry.ScopeOrganization, Roots: []string{"app.organization"}},
		},
		Entities: []registry.Entity{
			{
				Name:   "app.organization",
				Table:  "organizations",
				Scopes: []registry.ScopeTag{registry.ScopeOrganization},
				Fields: []registry.Field{
					{Name: "slug", Type: "text", Unique: true},
				},
			},
			{
				Name:   "app.team",
				Table:  "teams",
				Scopes: []registry.ScopeTag{registry.ScopeOrganization},
				Fields: []registry.Field{
					{Name: "organization", Relation: &registry.Relation{To: "app.organization", Kind: registry.KindWrapper}},
					{Name: "slug", Type: "text"},
				},
				UniqueTogether: [][]string{{"organization", "slug"}},
			},
			{
				Name:   "app.project",
				Table:  "projects",
				Scopes: []registry.ScopeTag{registry.ScopeOrganization},
				Fields: []registry.Field{
					{Name: "team", Relation: &registry.Relation{To: "app.team"}},
					{Name: "organization", Nullable: true, Relation: &registry.Relation{To: "app.organization"}},
				},
			},
			{
				Name:   "app.webhook",
				Table:  "webhooks",
				Scopes: []registry.ScopeTag{registry.ScopeOrganization},
				Fields: []registry.Field{
					{Name: "project", Nullable: true, Relation: &registry.Relation{To: "app.project"}},
				},
			},
		},
	}
}

func TestBuildGraph(t *testing.T) {
	graph, err := BuildGraph(relocationFixture())
	require.NoError(t, err)
	require.Equal(t, 4, graph.Len())

	t.Run("relation kinds", func(t *testing.T) {
		team, ok := graph.Node(MustNormalizedEntityName("app.team"))
		require.True(t, ok)
		edge := team.Edges["organization"]
		assert.Equal(t, WrapperForeignKey, edge.Kind)
		assert.False(t, edge.Nullable)
		assert.Equal(t, "app.organization", edge.To.String())

		project, _ := graph.Node(MustNormalizedEntityName("app.project"))
		assert.Equal(t, DirectForeignKey, project.Edges["team"].Kind)
		assert.True(t, project.Edges["organization"].Nullable)
	})

	t.Run("roots marked", func(t *testing.T) {
		assert.True(t, graph.Root(MustNormalizedEntityName("app.organization")))
		assert.False(t, graph.Root(MustNormalizedEntityName("app.team")))
	})

	t.Run("uniques union declared tuples and unique fields", func(t *testing.T) {
		team, _ := graph.Node(MustNormalizedEntityName("app.team"))
		assert.Equal(t, [][]string{{"organization", "slug"}}, team.Uniques)

		org, _ := graph.Node(MustNormalizedEntityName("app.organization"))
		assert.Equal(t, [][]string{{"slug"}}, org.Uniques)
	})
}

func TestBuildGraphImplicitForeignKeys(t *testing.T) {
	reg := &registry.Registry{
		Entities: []registry.Entity{
			{
				Name:   "app.organization",
				Scopes: []registry.ScopeTag{registry.ScopeOrganization},
			},
			{
				Name:   "app.auditlog",
				Scopes: []registry.ScopeTag{registry.ScopeOrganization},
				Fields: []registry.Field{
					// Resolves: app.organization is known.
					{Name: "organization_id", Type: "bigint"},
					// Deny-listed: never resolved even if an actor type existed.
					{Name: "actor_id", Type: "bigint"},
					// Candidate app.widget is unknown: no edge, no error.
					{Name: "widget_id", Type: "integer"},
					// Non-integer: heuristic does not fire.
					{Name: "external_id", Type: "text"},
				},
			},
		},
	}

	graph, err := BuildGraph(reg)
	require.NoError(t, err)

	log, ok := graph.Node(MustNormalizedEntityName("app.auditlog"))
	require.True(t, ok)
	require.Len(t, log.Edges, 1)
	edge := log.Edges["organization_id"]
	assert.Equal(t, ImplicitForeignKey, edge.Kind)
	assert.Equal(t, "app.organization", edge.To.String())
}

func TestBuildGraphImplicitHandlesUnderscores(t *testing.T) {
	reg := &registry.Registry{
		Entities: []registry.Entity{
			{Name: "app.releasefile", Scopes: []registry.ScopeTag{registry.ScopeOrganization}},
			{
				Name:   "app.artifact",
				Scopes: []registry.ScopeTag{registry.ScopeOrganization},
				Fields: []registry.Field{
					{Name: "release_file_id", Type: "bigint"},
				},
			},
		},
	}

	graph, err := BuildGraph(reg)
	require.NoError(t, err)
	artifact, _ := graph.Node(MustNormalizedEntityName("app.artifact"))
	assert.Equal(t, "app.releasefile", artifact.Edges["release_file_id"].To.String())
}

func TestBuildGraphUnresolvedRelation(t *testing.T) {
	reg := &registry.Registry{
		Entities: []registry.Entity{
			{
				Name:   "app.team",
				Scopes: []registry.ScopeTag{registry.ScopeOrganization},
				Fields: []registry.Field{
					{Name: "organization", Relation: &registry.Relation{To: "app.organization"}},
				},
			},
		},
	}

	_, err := BuildGraph(reg)
	require.Error(t, err)
	var resolution *ResolutionError
	require.True(t, errors.As(err, &resolution))
	assert.Equal(t, "app.team", resolution.Entity.String())
	assert.Equal(t, "organization", resolution.Field)
}

func TestBuildGraphMalformedEntityName(t *testing.T) {
	reg := &registry.Registry{
		Entities: []registry.Entity{{Name: "organization"}},
	}
	_, err := BuildGraph(reg)
	var malformed *MalformedNameError
	require.True(t, errors.As(err, &malformed))
}

func TestBuildGraphUnknownRoot(t *testing.T) {
	reg := &registry.Registry{
		Scopes: []registry.Scope{
			{Tag: registry.ScopeUser, Roots: []string{"app.user"}},
		},
		Entities: []registry.Entity{
			{Name: "app.organization", Scopes: []registry.ScopeTag{registry.ScopeOrganization}},
		},
	}
	_, err := BuildGraph(reg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown root")
}

func TestBuildGraphSelfEdges(t *testing.T) {
	reg := &registry.Registry{
		Scopes: []registry.Scope{
			{Tag: registry.ScopeOrganization, Roots: []string{"app.category"}},
		},
		Entities: []registry.Entity{
			{
				Name:   "app.category",
				Scopes: []registry.ScopeTag{registry.ScopeOrganization},
				Fields: []registry.Field{
					{Name: "parent", Nullable: true, Relation: &registry.Relation{To: "app.category"}},
				},
			},
		},
	}

	graph, err := BuildGraph(reg)
	require.NoError(t, err)

	node, _ := graph.Node(MustNormalizedEntityName("app.category"))
	// Kept in the edge list for completeness, ignored by the analyses.
	require.Len(t, node.Edges, 1)
	assert.True(t, node.Edges["parent"].SelfEdge())

	ordered, err := graph.SortedEntityTypes()
	require.NoError(t, err)
	assert.Len(t, ordered, 1)
}

func TestBuildGraphExcludedEntities(t *testing.T) {
	reg := &registry.Registry{
		Scopes: []registry.Scope{
			{Tag: registry.ScopeOrganization, Roots: []string{"app.organization"}},
		},
		Entities: []registry.Entity{
			{Name: "app.organization", Scopes: []registry.ScopeTag{registry.ScopeOrganization}},
			// Excluded from accounting, still a valid relation target.
			{Name: "app.metricbucket", Scopes: []registry.ScopeTag{registry.ScopeExcluded}},
			{
				Name:   "app.alert",
				Scopes: []registry.ScopeTag{registry.ScopeOrganization},
				Fields: []registry.Field{
					{Name: "organization", Relation: &registry.Relation{To: "app.organization"}},
					{Name: "bucket", Relation: &registry.Relation{To: "app.metricbucket"}},
				},
			},
		},
	}

	graph, err := BuildGraph(reg)
	require.NoError(t, err)
	assert.Equal(t, 2, graph.Len())

	_, ok := graph.Node(MustNormalizedEntityName("app.metricbucket"))
	assert.False(t, ok)

	// The excluded target is treated as satisfied by the sorter and as
	// non-anchoring by the classifier.
	ordered, err := graph.SortedEntityTypes()
	require.NoError(t, err)
	assert.Len(t, ordered, 2)

	alert, _ := graph.Node(MustNormalizedEntityName("app.alert"))
	assert.False(t, alert.Dangling())
}

func TestBuildGraphUnknownRelationKind(t *testing.T) {
	reg := &registry.Registry{
		Entities: []registry.Entity{
			{Name: "app.organization", Scopes: []registry.ScopeTag{registry.ScopeOrganization}},
			{
				Name:   "app.team",
				Scopes: []registry.ScopeTag{registry.ScopeOrganization},
				Fields: []registry.Field{
					{Name: "organization", Relation: &registry.Relation{To: "app.organization", Kind: "belongs_to"}},
				},
			},
		},
	}
	_, err := BuildGraph(reg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown relation kind")
}
