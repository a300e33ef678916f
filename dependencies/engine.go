package dependencies

import (
	"fmt"
	"sync"

	"github.com/sam16vis/relocato/registry"
)

// Engine memoizes the dependency graph and its derived analyses for one
// registry snapshot. Construction is pure and CPU-bound, so the only
// concurrency concern is at-most-once building under concurrent first access;
// a mutex-guarded lazy cell covers that, the same discipline as the pooled
// connection singleton in the database package. Once built, the graph is
// frozen and read freely.
type Engine struct {
	reg *registry.Registry

	mu     sync.Mutex
	graph  *Graph
	sorted []NormalizedEntityName
}

func NewEngine(reg *registry.Registry) *Engine {
	return &Engine{reg: reg}
}

// Graph returns the memoized dependency graph, building it on first use.
func (e *Engine) Graph() (*Graph, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.graphLocked()
}

func (e *Engine) graphLocked() (*Graph, error) {
	if e.graph == nil {
		graph, err := BuildGraph(e.reg)
		if err != nil {
			return nil, err
		}
		e.graph = graph
	}
	return e.graph, nil
}

// SortedEntityTypes returns the memoized topological order. It depends only on
// the graph, so it is computed once per build.
func (e *Engine) SortedEntityTypes() ([]NormalizedEntityName, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.sorted == nil {
		graph, err := e.graphLocked()
		if err != nil {
			return nil, err
		}
		sorted, err := graph.SortedEntityTypes()
		if err != nil {
			return nil, err
		}
		e.sorted = sorted
	}
	return e.sorted, nil
}

// IsDangling reports the memoized dangling flag for one entity type. Unknown
// entity types are a caller error.
func (e *Engine) IsDangling(name NormalizedEntityName) (bool, error) {
	graph, err := e.Graph()
	if err != nil {
		return false, err
	}
	node, ok := graph.Node(name)
	if !ok {
		return false, fmt.Errorf("unknown entity type %s", name)
	}
	return node.Dangling(), nil
}

// Dump returns the serialized audit form of the memoized graph.
func (e *Engine) Dump() ([]byte, error) {
	graph, err := e.Graph()
	if err != nil {
		return nil, err
	}
	return MarshalDump(DumpGraph(graph))
}

// Invalidate drops the cached graph and order. Rebuilding only ever happens
// through an explicit call here, never implicitly.
func (e *Engine) Invalidate() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.graph = nil
	e.sorted = nil
}
