package validator

import (
	"testing"

	"github.com/sam16vis/relocato/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func findingTypes(findings []ValidationError) []string {
	types := make([]string, 0, len(findings))
	for _, f := range findings {
		types = append(types, f.Type)
	}
	return types
}

func TestValidateRegistryWithoutDBValid(t *testing.T) {
	reg := &registry.Registry{
		Scopes: []registry.Scope{
			{Tag: registry.ScopeOrganization, Roots: []string{"app.organization"}},
		},
		Entities: []registry.Entity{
			{
				Name:   "app.organization",
				Table:  "organizations",
				Scopes: []registry.ScopeTag{registry.ScopeOrganization},
				Fields: []registry.Field{{Name: "slug", Type: "text", Unique: true}},
			},
			{
				Name:   "app.project",
				Table:  "projects",
				Scopes: []registry.ScopeTag{registry.ScopeOrganization},
				Fields: []registry.Field{
					{Name: "organization", Relation: &registry.Relation{To: "app.organization"}},
				},
			},
		},
	}

	v := &RegistryValidator{}
	result, err := v.ValidateRegistryWithoutDB(reg)
	require.NoError(t, err)

	assert.True(t, result.Valid)
	assert.Empty(t, result.Errors)
	assert.Empty(t, result.Warnings)
}

func TestValidateRegistryWithoutDBCatalogDefects(t *testing.T) {
	reg := &registry.Registry{
		Scopes: []registry.Scope{
			{Tag: "tenant", Roots: []string{"app.missing"}},
		},
		Entities: []registry.Entity{
			{Name: "noseparator", Table: "bad"},
			{
				Name:   "app.project",
				Table:  "projects",
				Scopes: []registry.ScopeTag{"bogus"},
				Fields: []registry.Field{
					{Name: "owner", Relation: &registry.Relation{To: "app.owner", Kind: "belongs_to"}},
				},
			},
			{Name: "APP.Project", Table: "projects2"},
		},
	}

	v := &RegistryValidator{}
	result, err := v.ValidateRegistryWithoutDB(reg)
	require.NoError(t, err)

	assert.False(t, result.Valid)
	types := findingTypes(result.Errors)
	assert.Contains(t, types, "malformed_name")
	assert.Contains(t, types, "duplicate_entity")
	assert.Contains(t, types, "unknown_scope")
	assert.Contains(t, types, "unknown_relation_kind")
	assert.Contains(t, types, "unresolved_relation")
	assert.Contains(t, types, "unknown_root")
}

func TestValidateRegistryWithoutDBEmptyEntityInfo(t *testing.T) {
	reg := &registry.Registry{
		Entities: []registry.Entity{
			{Name: "app.placeholder", Table: "placeholders", Scopes: []registry.ScopeTag{registry.ScopeExcluded}},
		},
	}

	v := &RegistryValidator{}
	result, err := v.ValidateRegistryWithoutDB(reg)
	require.NoError(t, err)

	assert.True(t, result.Valid)
	require.Len(t, result.Info, 1)
	assert.Equal(t, "empty_entity", result.Info[0].Type)
}

func TestValidateRegistryWithoutDBDanglingWarning(t *testing.T) {
	reg := &registry.Registry{
		Scopes: []registry.Scope{
			{Tag: registry.ScopeOrganization, Roots: []string{"app.organization"}},
		},
		Entities: []registry.Entity{
			{
				Name:   "app.organization",
				Table:  "organizations",
				Scopes: []registry.ScopeTag{registry.ScopeOrganization},
				Fields: []registry.Field{{Name: "slug", Type: "text"}},
			},
			{
				Name:   "app.webhook",
				Table:  "webhooks",
				Scopes: []registry.ScopeTag{registry.ScopeOrganization},
				Fields: []registry.Field{
					{Name: "organization", Nullable: true, Relation: &registry.Relation{To: "app.organization"}},
				},
			},
		},
	}

	v := &RegistryValidator{}
	result, err := v.ValidateRegistryWithoutDB(reg)
	require.NoError(t, err)

	assert.True(t, result.Valid)
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, "dangling_entity", result.Warnings[0].Type)
	assert.Equal(t, "app.webhook", result.Warnings[0].Entity)
}

func TestValidateRegistryWithoutDBDanglingCycle(t *testing.T) {
	reg := &registry.Registry{
		Scopes: []registry.Scope{
			{Tag: registry.ScopeOrganization, Roots: []string{"app.organization"}},
		},
		Entities: []registry.Entity{
			{
				Name:   "app.organization",
				Table:  "organizations",
				Scopes: []registry.ScopeTag{registry.ScopeOrganization},
				Fields: []registry.Field{{Name: "slug", Type: "text"}},
			},
			{
				Name:   "app.alert",
				Table:  "alerts",
				Scopes: []registry.ScopeTag{registry.ScopeOrganization},
				Fields: []registry.Field{
					{Name: "rule", Relation: &registry.Relation{To: "app.rule"}},
				},
			},
			{
				Name:   "app.rule",
				Table:  "rules",
				Scopes: []registry.ScopeTag{registry.ScopeOrganization},
				Fields: []registry.Field{
					{Name: "alert", Relation: &registry.Relation{To: "app.alert"}},
				},
			},
		},
	}

	v := &RegistryValidator{}
	result, err := v.ValidateRegistryWithoutDB(reg)
	require.NoError(t, err)

	assert.False(t, result.Valid)
	types := findingTypes(result.Errors)
	assert.Contains(t, types, "dangling_cycle")
}
