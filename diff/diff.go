package diff

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sam16vis/relocato/dependencies"
)

type ChangeType string

const (
	EntityAdded      ChangeType = "ENTITY_ADDED"
	EntityRemoved    ChangeType = "ENTITY_REMOVED"
	TableChanged     ChangeType = "TABLE_CHANGED"
	ScopesChanged    ChangeType = "SCOPES_CHANGED"
	DanglingChanged  ChangeType = "DANGLING_CHANGED"
	RelationAdded    ChangeType = "RELATION_ADDED"
	RelationRemoved  ChangeType = "RELATION_REMOVED"
	RelationChanged  ChangeType = "RELATION_CHANGED"
	UniquesChanged   ChangeType = "UNIQUES_CHANGED"
)

// Change is one difference between two serialized graph dumps.
type Change struct {
	Type    ChangeType `json:"type"`
	Entity  string     `json:"entity"`
	Field   string     `json:"field,omitempty"`
	Detail  string     `json:"detail,omitempty"`
}

// DiffDumps compares two graph dumps structurally. It works on the serialized
// audit form on purpose: dumps are not meant to be revived into live graphs,
// but drift between two of them is exactly what an operator wants to see
// before trusting an old backup against a current schema. Output order is
// deterministic: entities ascending, relations by field name.
func DiffDumps(old, new dependencies.GraphDump) []Change {
	var changes []Change

	for _, name := range sortedKeys(new) {
		oldEntity, exists := old[name]
		if !exists {
			changes = append(changes, Change{Type: EntityAdded, Entity: name})
			continue
		}
		changes = append(changes, diffEntity(name, oldEntity, new[name])...)
	}

	for _, name := range sortedKeys(old) {
		if _, exists := new[name]; !exists {
			changes = append(changes, Change{Type: EntityRemoved, Entity: name})
		}
	}

	return changes
}

func diffEntity(name string, old, new dependencies.EntityDump) []Change {
	var changes []Change

	if old.Table != new.Table {
		changes = append(changes, Change{
			Type:   TableChanged,
			Entity: name,
			Detail: fmt.Sprintf("%s -> %s", old.Table, new.Table),
		})
	}

	if strings.Join(old.Scopes, ",") != strings.Join(new.Scopes, ",") {
		changes = append(changes, Change{
			Type:   ScopesChanged,
			Entity: name,
			Detail: fmt.Sprintf("[%s] -> [%s]", strings.Join(old.Scopes, ","), strings.Join(new.Scopes, ",")),
		})
	}

	if old.Dangling != new.Dangling {
		changes = append(changes, Change{
			Type:   DanglingChanged,
			Entity: name,
			Detail: fmt.Sprintf("%t -> %t", old.Dangling, new.Dangling),
		})
	}

	oldRelations := relationsByField(old.Relations)
	newRelations := relationsByField(new.Relations)

	for _, rel := range new.Relations {
		oldRel, exists := oldRelations[rel.Field]
		if !exists {
			changes = append(changes, Change{
				Type:   RelationAdded,
				Entity: name,
				Field:  rel.Field,
				Detail: fmt.Sprintf("-> %s (%s)", rel.To, rel.Kind),
			})
			continue
		}
		if oldRel != rel {
			changes = append(changes, Change{
				Type:   RelationChanged,
				Entity: name,
				Field:  rel.Field,
				Detail: fmt.Sprintf("%s (%s, nullable=%t) -> %s (%s, nullable=%t)",
					oldRel.To, oldRel.Kind, oldRel.Nullable, rel.To, rel.Kind, rel.Nullable),
			})
		}
	}

	for _, rel := range old.Relations {
		if _, exists := newRelations[rel.Field]; !exists {
			changes = append(changes, Change{
				Type:   RelationRemoved,
				Entity: name,
				Field:  rel.Field,
				Detail: fmt.Sprintf("-> %s (%s)", rel.To, rel.Kind),
			})
		}
	}

	if uniquesKey(old.Uniques) != uniquesKey(new.Uniques) {
		changes = append(changes, Change{
			Type:   UniquesChanged,
			Entity: name,
			Detail: fmt.Sprintf("%s -> %s", uniquesKey(old.Uniques), uniquesKey(new.Uniques)),
		})
	}

	return changes
}

func relationsByField(relations []dependencies.RelationDump) map[string]dependencies.RelationDump {
	byField := map[string]dependencies.RelationDump{}
	for _, rel := range relations {
		byField[rel.Field] = rel
	}
	return byField
}

func uniquesKey(uniques [][]string) string {
	parts := make([]string, 0, len(uniques))
	for _, combo := range uniques {
		parts = append(parts, strings.Join(combo, ":"))
	}
	return "[" + strings.Join(parts, " ") + "]"
}

func sortedKeys(dump dependencies.GraphDump) []string {
	keys := make([]string, 0, len(dump))
	for key := range dump {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
