// Package graph declares infrastructure resources as a dependency DAG and
// evaluates them concurrently in topological order.
//
// Each resource names the resources that must complete before it. The graph
// rejects duplicate names, unknown dependencies, and cycles up front, so an
// incorrectly ordered edge is a construction-time error rather than a
// runtime surprise.
package graph

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrCycle is returned when the declared dependencies do not form a DAG.
var ErrCycle = errors.New("dependency cycle")

// Resource is a single declared object: a cluster, a chart install, a
// manifest apply. Create performs the side effect and may block on futures
// resolved by dependencies.
type Resource interface {
	// Name uniquely identifies the resource within a graph.
	Name() string

	// Dependencies lists resource names that must complete before this one.
	Dependencies() []string

	// Create declares/creates the resource.
	Create(ctx context.Context) error
}

// Func adapts a plain function into a Resource.
type Func struct {
	ResourceName string
	DependsOn    []string
	CreateFunc   func(ctx context.Context) error
}

// Name implements Resource.
func (f *Func) Name() string { return f.ResourceName }

// Dependencies implements Resource.
func (f *Func) Dependencies() []string { return f.DependsOn }

// Create implements Resource.
func (f *Func) Create(ctx context.Context) error {
	if f.CreateFunc == nil {
		return nil
	}
	return f.CreateFunc(ctx)
}

// Graph holds declared resources and their edges.
type Graph struct {
	resources map[string]Resource
	order     []string // insertion order, keeps evaluation deterministic
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{resources: make(map[string]Resource)}
}

// Add declares a resource. Duplicate names are rejected.
func (g *Graph) Add(r Resource) error {
	name := r.Name()
	if name == "" {
		return fmt.Errorf("resource with empty name")
	}
	if _, exists := g.resources[name]; exists {
		return fmt.Errorf("duplicate resource %q", name)
	}

	g.resources[name] = r
	g.order = append(g.order, name)

	return nil
}

// MustAdd is Add for statically assembled graphs where a duplicate is a
// programming error.
func (g *Graph) MustAdd(r Resource) {
	if err := g.Add(r); err != nil {
		panic(err)
	}
}

// Len returns the number of declared resources.
func (g *Graph) Len() int { return len(g.order) }

// Get returns a declared resource by name.
func (g *Graph) Get(name string) (Resource, bool) {
	r, ok := g.resources[name]
	return r, ok
}

// Names returns resource names in insertion order.
func (g *Graph) Names() []string {
	out := make([]string, len(g.order))
	copy(out, g.order)
	return out
}

// Validate checks that every declared dependency exists and that the edge
// set forms a DAG.
func (g *Graph) Validate() error {
	for _, name := range g.order {
		for _, dep := range g.resources[name].Dependencies() {
			if _, ok := g.resources[dep]; !ok {
				return fmt.Errorf("resource %q depends on unknown resource %q", name, dep)
			}
		}
	}

	_, err := g.TopoSort()

	return err
}

// TopoSort returns a topological evaluation order. Among resources whose
// dependencies are all satisfied, insertion order wins, so the result is
// stable across runs. Returns ErrCycle if no such order exists.
func (g *Graph) TopoSort() ([]string, error) {
	indegree := make(map[string]int, len(g.order))
	dependents := make(map[string][]string, len(g.order))

	for _, name := range g.order {
		indegree[name] = len(g.resources[name].Dependencies())
		for _, dep := range g.resources[name].Dependencies() {
			dependents[dep] = append(dependents[dep], name)
		}
	}

	var ready []string
	for _, name := range g.order {
		if indegree[name] == 0 {
			ready = append(ready, name)
		}
	}

	sorted := make([]string, 0, len(g.order))
	for len(ready) > 0 {
		name := ready[0]
		ready = ready[1:]
		sorted = append(sorted, name)

		for _, dep := range dependents[name] {
			indegree[dep]--
			if indegree[dep] == 0 {
				ready = append(ready, dep)
			}
		}
	}

	if len(sorted) != len(g.order) {
		var stuck []string
		for _, name := range g.order {
			if indegree[name] > 0 {
				stuck = append(stuck, name)
			}
		}
		return nil, fmt.Errorf("%w involving: %s", ErrCycle, strings.Join(stuck, ", "))
	}

	return sorted, nil
}

// Dependents returns, for every resource, the set of resources that depend
// on it directly. Used by the runner to propagate skips.
func (g *Graph) Dependents() map[string][]string {
	out := make(map[string][]string, len(g.order))
	for _, name := range g.order {
		for _, dep := range g.resources[name].Dependencies() {
			out[dep] = append(out[dep], name)
		}
	}
	return out
}
