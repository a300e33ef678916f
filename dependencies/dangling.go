package dependencies

// A "dangling" entity type is one with no transitive chain of non-nullable
// relations leading to any relocation root. Its presence in a relocation
// bundle cannot be justified by reachability from something the operator asked
// to move, so the calling driver typically excludes it or handles it
// specially.
//
// Roots are non-dangling by fiat and are seeded before any traversal, so the
// recursion terminates at them without further expansion. Every other node is
// resolved recursively with memoization; an in-progress set catches cycles of
// non-nullable relations, which are a schema defect and fail loudly.

func (g *Graph) resolveDangling() error {
	for name := range g.roots {
		notDangling := false
		g.nodes[name].dangling = &notDangling
	}

	for _, name := range g.Names() {
		if g.roots[name] {
			continue
		}
		if _, err := g.resolveOne(nil, name); err != nil {
			return err
		}
	}
	return nil
}

// resolveOne computes and memoizes the dangling flag for one entity type. The
// inProgress slice doubles as the cycle report: it holds the chain of names
// currently being resolved, in traversal order.
func (g *Graph) resolveOne(inProgress []NormalizedEntityName, name NormalizedEntityName) (bool, error) {
	for _, pending := range inProgress {
		if pending == name {
			return false, &DanglingCycleError{Chain: append(inProgress, name)}
		}
	}

	node := g.nodes[name]
	if node.dangling != nil {
		return *node.dangling, nil
	}

	inProgress = append(inProgress, name)

	// Assume dangling; a single non-dangling target proves otherwise.
	dangling := true
	for _, target := range node.relatedNames(true) {
		if _, inGraph := g.nodes[target]; !inGraph {
			// Excluded from relocation accounting: cannot anchor anything.
			continue
		}
		targetDangling, err := g.resolveOne(inProgress, target)
		if err != nil {
			return false, err
		}
		if !targetDangling {
			dangling = false
			break
		}
	}

	node.dangling = &dangling
	return dangling, nil
}
