package dependencies

import (
	"encoding/json"
	"fmt"
	"sort"
)

// GraphDump is the serializable audit form of a dependency graph, keyed by
// normalized entity type name. It exists for diagnostic tooling and drift
// detection only; it is never round-tripped back into a live Graph.
type GraphDump map[string]EntityDump

type EntityDump struct {
	Table     string         `json:"table"`
	Scopes    []string       `json:"scopes"`
	Dangling  bool           `json:"dangling"`
	Relations []RelationDump `json:"relations"`
	Uniques   [][]string     `json:"uniques"`
}

type RelationDump struct {
	Field    string `json:"field"`
	To       string `json:"to"`
	Kind     string `json:"kind"`
	Nullable bool   `json:"nullable"`
}

// DumpGraph flattens the graph into its audit form. Relations are sorted by
// field name, scopes and unique sets lexicographically, so two dumps of the
// same schema snapshot are byte-identical.
func DumpGraph(g *Graph) GraphDump {
	dump := GraphDump{}
	for _, name := range g.Names() {
		node := g.nodes[name]

		relations := make([]RelationDump, 0, len(node.Edges))
		for _, field := range sortedFieldNames(node.Edges) {
			edge := node.Edges[field]
			relations = append(relations, RelationDump{
				Field:    field,
				To:       edge.To.String(),
				Kind:     edge.Kind.String(),
				Nullable: edge.Nullable,
			})
		}

		scopes := make([]string, 0, len(node.Scopes))
		for _, scope := range node.Scopes {
			scopes = append(scopes, string(scope))
		}
		sort.Strings(scopes)

		dump[name.String()] = EntityDump{
			Table:     node.Table,
			Scopes:    scopes,
			Dangling:  node.Dangling(),
			Relations: relations,
			Uniques:   node.Uniques,
		}
	}
	return dump
}

// MarshalDump serializes the dump with stable key ordering and indentation.
func MarshalDump(dump GraphDump) ([]byte, error) {
	// encoding/json writes map keys in sorted order, which combined with the
	// pre-sorted slices keeps the output deterministic.
	data, err := json.MarshalIndent(dump, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling graph dump: %v", err)
	}
	return append(data, '\n'), nil
}

// ParseDump reads a previously serialized dump for diffing or auditing. The
// result is the audit form only, not a live Graph.
func ParseDump(data []byte) (GraphDump, error) {
	var dump GraphDump
	if err := json.Unmarshal(data, &dump); err != nil {
		return nil, fmt.Errorf("unmarshalling graph dump: %v", err)
	}
	return dump, nil
}
