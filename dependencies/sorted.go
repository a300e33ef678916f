package dependencies

// SortedEntityTypes produces a total order over the graph's entity types such
// that every type appears after everything it references through any edge,
// nullable or not, self-edges aside. The import/export driver walks this order
// so a record is never written before the records it points at.
//
// The sort is a fixed-point promotion loop rather than an index-based queue so
// the behavior stays legible: each pass promotes every node whose dependency
// targets are already in the output (or are not part of the graph at all,
// which covers excluded types). A pass that promotes nothing means the
// remainder is an unresolvable cycle. Each productive pass strictly shrinks
// the working list, so this terminates in O(V) passes; the registry holds low
// hundreds of types, so O(V*(V+E)) is fine.
//
// Within a pass, promotion happens in ascending normalized name order, keeping
// the output deterministic for reproducible backups and tests.
func (g *Graph) SortedEntityTypes() ([]NormalizedEntityName, error) {
	remaining := g.Names()
	promoted := map[NormalizedEntityName]bool{}
	ordered := make([]NormalizedEntityName, 0, len(remaining))

	for len(remaining) > 0 {
		var eligible, stuck []NormalizedEntityName
		for _, name := range remaining {
			if g.dependenciesSatisfied(name, promoted) {
				eligible = append(eligible, name)
			} else {
				stuck = append(stuck, name)
			}
		}

		if len(eligible) == 0 {
			// remaining was built in sorted order, so stuck already is too.
			return nil, &SortCycleError{Remaining: stuck}
		}

		for _, name := range eligible {
			promoted[name] = true
			ordered = append(ordered, name)
		}
		remaining = stuck
	}

	return ordered, nil
}

func (g *Graph) dependenciesSatisfied(name NormalizedEntityName, promoted map[NormalizedEntityName]bool) bool {
	for _, target := range g.nodes[name].relatedNames(false) {
		if _, inGraph := g.nodes[target]; !inGraph {
			// Excluded from relocation accounting: treated as satisfied.
			continue
		}
		if !promoted[target] {
			return false
		}
	}
	return true
}
