package dependencies

import (
	"fmt"
	"strings"
)

// MalformedNameError means an entity type name could not be normalized.
type MalformedNameError struct {
	Input string
}

func (e *MalformedNameError) Error() string {
	return fmt.Sprintf("cannot normalize entity type name %q: missing namespace separator", e.Input)
}

// ResolutionError means a relation field could not be resolved to any known
// entity type during graph construction. No partial graph is returned.
type ResolutionError struct {
	Entity NormalizedEntityName
	Field  string
	Target string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("cannot resolve relation %s.%s -> %q to a known entity type",
		e.Entity, e.Field, e.Target)
}

// DanglingCycleError means the dangling classifier found a cycle of
// non-nullable relations among types that were supposed to resolve to a root.
// This is a schema defect, not a recoverable runtime condition.
type DanglingCycleError struct {
	Chain []NormalizedEntityName
}

func (e *DanglingCycleError) Error() string {
	return fmt.Sprintf("circular dependency: %s cannot transitively reference itself through non-nullable relations",
		joinNames(e.Chain, " -> "))
}

// SortCycleError means a full pass of the topological sorter promoted nothing;
// the remaining entity types form an unresolvable ordering. Remaining is
// sorted so the failure is reproducible.
type SortCycleError struct {
	Remaining []NormalizedEntityName
}

func (e *SortCycleError) Error() string {
	return fmt.Sprintf("cannot resolve dependency order for %s", joinNames(e.Remaining, ", "))
}

func joinNames(names []NormalizedEntityName, sep string) string {
	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = n.String()
	}
	return strings.Join(parts, sep)
}
