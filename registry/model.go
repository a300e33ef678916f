package registry

// ScopeTag is the relocation category an entity type belongs to. Each scope
// declares a fixed set of root entity types; a relocation operation is defined
// as "bring over a root and everything it needs".
type ScopeTag string

const (
	ScopeUser         ScopeTag = "user"
	ScopeOrganization ScopeTag = "organization"
	ScopeConfig       ScopeTag = "config"
	ScopeGlobal       ScopeTag = "global"
	// ScopeExcluded marks an entity that stays known for relation resolution
	// but is left out of relocation accounting entirely.
	ScopeExcluded ScopeTag = "excluded"
)

// Valid reports whether the tag is one of the declared scope tags.
func (s ScopeTag) Valid() bool {
	switch s {
	case ScopeUser, ScopeOrganization, ScopeConfig, ScopeGlobal, ScopeExcluded:
		return true
	}
	return false
}

// RelationKindName is how a registry field declares the kind of its relation.
// An empty string means a plain foreign key.
type RelationKindName string

const (
	KindForeignKey  RelationKindName = "foreign_key"
	KindWrapper     RelationKindName = "wrapper"
	KindOneToOne    RelationKindName = "one_to_one"
	KindCrossDomain RelationKindName = "cross_domain"
)

func (k RelationKindName) Valid() bool {
	switch k {
	case "", KindForeignKey, KindWrapper, KindOneToOne, KindCrossDomain:
		return true
	}
	return false
}

// Relation declares that a field references another entity type.
type Relation struct {
	To   string // "<namespace>.<type>" target entity name
	Kind RelationKindName
}

type Field struct {
	Name     string
	Type     string // integer, bigint, text, timestamp, etc.
	Nullable bool
	Unique   bool
	Relation *Relation
}

type Entity struct {
	Name           string // "<namespace>.<type>"
	Table          string // physical table identifier
	Scopes         []ScopeTag
	Fields         []Field
	UniqueTogether [][]string
}

// Excluded reports whether the entity is excluded from relocation accounting.
func (e Entity) Excluded() bool {
	for _, s := range e.Scopes {
		if s == ScopeExcluded {
			return true
		}
	}
	return false
}

// Scope declares the root entity types anchoring one relocation scope.
type Scope struct {
	Tag   ScopeTag
	Roots []string
}

// Registry is the read-only entity schema catalog the dependency engine
// consumes. It is a snapshot: the engine never mutates it, and a rebuilt
// catalog means a new Registry value.
type Registry struct {
	Scopes   []Scope
	Entities []Entity
}

// RootNames returns the declared root entity names across every scope.
func (r *Registry) RootNames() []string {
	var roots []string
	for _, s := range r.Scopes {
		roots = append(roots, s.Roots...)
	}
	return roots
}
