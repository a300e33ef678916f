package dependencies

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sam16vis/relocato/registry"
)

// RelationKind records how a relation edge was discovered in the registry.
type RelationKind int

const (
	// DirectForeignKey is a plain foreign key constraint.
	DirectForeignKey RelationKind = iota + 1

	// WrapperForeignKey is a foreign key declared through the application's
	// nullable wrapper field type.
	WrapperForeignKey

	// OneToOne is a one-to-one relation.
	OneToOne

	// CrossDomainForeignKey crosses a domain boundary and is validated only at
	// the application layer, never by a true key constraint.
	CrossDomainForeignKey

	// ImplicitForeignKey was inferred from an integer field whose "_id" suffix
	// names a known entity type.
	ImplicitForeignKey
)

func (k RelationKind) String() string {
	switch k {
	case DirectForeignKey:
		return "ForeignKey"
	case WrapperForeignKey:
		return "WrapperForeignKey"
	case OneToOne:
		return "OneToOne"
	case CrossDomainForeignKey:
		return "CrossDomainForeignKey"
	case ImplicitForeignKey:
		return "ImplicitForeignKey"
	}
	return fmt.Sprintf("RelationKind(%d)", int(k))
}

// RelationEdge is one discovered relation: the named field on From references
// the entity type To.
type RelationEdge struct {
	Field    string
	From     NormalizedEntityName
	To       NormalizedEntityName
	Kind     RelationKind
	Nullable bool
}

// SelfEdge reports whether the edge points back at its own entity type. Self
// edges are kept in the edge list for completeness but ignored by the dangling
// and ordering analyses.
func (e RelationEdge) SelfEdge() bool {
	return e.From == e.To
}

// EntityNode is one entity type in the dependency graph.
type EntityNode struct {
	Name   NormalizedEntityName
	Table  string
	Scopes []registry.ScopeTag

	// Edges is keyed by the declaring field name: one edge per relation field.
	Edges map[string]RelationEdge

	// Uniques holds the unique-constraint sets: declared unique-together
	// tuples unioned with every individually unique field. Each set and the
	// list itself are sorted so diagnostics stay deterministic.
	Uniques [][]string

	// dangling is unset until the classifier memoizes it.
	dangling *bool
}

// Dangling reports whether the classifier marked this entity type dangling.
// It is only meaningful on nodes obtained from a built Graph.
func (n *EntityNode) Dangling() bool {
	return n.dangling != nil && *n.dangling
}

// relatedNames returns the distinct non-self dependency targets of this node,
// optionally restricted to non-nullable edges.
func (n *EntityNode) relatedNames(nonNullableOnly bool) []NormalizedEntityName {
	seen := map[NormalizedEntityName]bool{}
	var names []NormalizedEntityName
	for _, field := range sortedFieldNames(n.Edges) {
		edge := n.Edges[field]
		if edge.SelfEdge() {
			continue
		}
		if nonNullableOnly && edge.Nullable {
			continue
		}
		if !seen[edge.To] {
			seen[edge.To] = true
			names = append(names, edge.To)
		}
	}
	return names
}

// Graph is the immutable dependency graph: one node per known entity type,
// excluding types explicitly excluded from relocation accounting.
type Graph struct {
	nodes map[NormalizedEntityName]*EntityNode
	roots map[NormalizedEntityName]bool
}

// Node looks up a node by normalized name.
func (g *Graph) Node(name NormalizedEntityName) (*EntityNode, bool) {
	node, ok := g.nodes[name]
	return node, ok
}

// Names returns every entity type in the graph in ascending normalized order.
func (g *Graph) Names() []NormalizedEntityName {
	names := make([]NormalizedEntityName, 0, len(g.nodes))
	for name := range g.nodes {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i].Less(names[j]) })
	return names
}

// Root reports whether the entity type is a declared relocation root.
func (g *Graph) Root(name NormalizedEntityName) bool {
	return g.roots[name]
}

func (g *Graph) Len() int {
	return len(g.nodes)
}

// integerTypes are the field types the implicit foreign key heuristic
// considers.
var integerTypes = map[string]bool{
	"integer":   true,
	"int":       true,
	"smallint":  true,
	"bigint":    true,
	"serial":    true,
	"bigserial": true,
}

// implicitDenyList names fields the "_id" suffix heuristic must never resolve.
// "actor_id" predates the formal actor entity and indexes into either a team
// or a user, so treating it as a reference to one known type would be wrong.
// Keep this a literal list; it is not a general suppression mechanism.
var implicitDenyList = map[string]bool{
	"actor_id": true,
}

// BuildGraph turns a registry snapshot into a dependency graph and runs the
// dangling classifier over it. Any unresolved relation, malformed name, or
// non-nullable reference cycle aborts construction; no partial graph is ever
// returned.
func BuildGraph(reg *registry.Registry) (*Graph, error) {
	// Every entity, excluded or not, participates in name resolution.
	known := map[NormalizedEntityName]bool{}
	for _, entity := range reg.Entities {
		name, err := NewNormalizedEntityName(entity.Name)
		if err != nil {
			return nil, err
		}
		known[name] = true
	}

	graph := &Graph{
		nodes: map[NormalizedEntityName]*EntityNode{},
		roots: map[NormalizedEntityName]bool{},
	}

	for _, entity := range reg.Entities {
		if entity.Excluded() {
			continue
		}
		name := MustNormalizedEntityName(entity.Name)
		node := &EntityNode{
			Name:   name,
			Table:  entity.Table,
			Scopes: entity.Scopes,
			Edges:  map[string]RelationEdge{},
		}

		uniques := map[string][]string{}
		for _, combo := range entity.UniqueTogether {
			addUnique(uniques, combo)
		}

		for _, field := range entity.Fields {
			if field.Unique {
				addUnique(uniques, []string{field.Name})
			}

			switch {
			case field.Relation != nil:
				// An explicitly declared relation always beats the heuristic.
				target, err := NewNormalizedEntityName(field.Relation.To)
				if err != nil {
					return nil, err
				}
				if !known[target] {
					return nil, &ResolutionError{Entity: name, Field: field.Name, Target: field.Relation.To}
				}
				kind, err := relationKind(field.Relation.Kind)
				if err != nil {
					return nil, fmt.Errorf("entity %s field %s: %v", name, field.Name, err)
				}
				node.Edges[field.Name] = RelationEdge{
					Field:    field.Name,
					From:     name,
					To:       target,
					Kind:     kind,
					Nullable: field.Nullable,
				}

			case integerTypes[field.Type] && strings.HasSuffix(field.Name, "_id") && !implicitDenyList[field.Name]:
				// Heuristic: "<fragment>_id" on an integer field may name a
				// known entity type in the same namespace. A miss is not an
				// error; the field is just an ordinary integer.
				fragment := strings.ReplaceAll(strings.TrimSuffix(field.Name, "_id"), "_", "")
				candidate := MustNormalizedEntityName(namespaceOf(name) + "." + fragment)
				if known[candidate] {
					node.Edges[field.Name] = RelationEdge{
						Field:    field.Name,
						From:     name,
						To:       candidate,
						Kind:     ImplicitForeignKey,
						Nullable: field.Nullable,
					}
				}
			}
		}

		node.Uniques = sortedUniques(uniques)
		graph.nodes[name] = node
	}

	for _, scope := range reg.Scopes {
		for _, root := range scope.Roots {
			name, err := NewNormalizedEntityName(root)
			if err != nil {
				return nil, err
			}
			if _, ok := graph.nodes[name]; !ok {
				return nil, fmt.Errorf("scope %s declares unknown root entity type %s", scope.Tag, name)
			}
			graph.roots[name] = true
		}
	}

	if err := graph.resolveDangling(); err != nil {
		return nil, err
	}
	return graph, nil
}

func relationKind(kind registry.RelationKindName) (RelationKind, error) {
	switch kind {
	case "", registry.KindForeignKey:
		return DirectForeignKey, nil
	case registry.KindWrapper:
		return WrapperForeignKey, nil
	case registry.KindOneToOne:
		return OneToOne, nil
	case registry.KindCrossDomain:
		return CrossDomainForeignKey, nil
	}
	return 0, fmt.Errorf("unknown relation kind %q", kind)
}

func namespaceOf(name NormalizedEntityName) string {
	return name.String()[:strings.Index(name.String(), ".")]
}

func addUnique(uniques map[string][]string, fields []string) {
	combo := append([]string(nil), fields...)
	sort.Strings(combo)
	uniques[strings.Join(combo, ":")] = combo
}

func sortedUniques(uniques map[string][]string) [][]string {
	keys := make([]string, 0, len(uniques))
	for key := range uniques {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	out := make([][]string, 0, len(keys))
	for _, key := range keys {
		out = append(out, uniques[key])
	}
	return out
}

func sortedFieldNames(edges map[string]RelationEdge) []string {
	fields := make([]string, 0, len(edges))
	for field := range edges {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return fields
}
