package graph

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func res(name string, deps ...string) *Func {
	return &Func{ResourceName: name, DependsOn: deps}
}

func TestAddDuplicate(t *testing.T) {
	t.Parallel()

	g := New()
	require.NoError(t, g.Add(res("a")))
	assert.Error(t, g.Add(res("a")))
}

func TestAddEmptyName(t *testing.T) {
	t.Parallel()

	g := New()
	assert.Error(t, g.Add(res("")))
}

func TestValidateUnknownDependency(t *testing.T) {
	t.Parallel()

	g := New()
	require.NoError(t, g.Add(res("a", "missing")))

	err := g.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing")
}

func TestTopoSortLinearChain(t *testing.T) {
	t.Parallel()

	g := New()
	g.MustAdd(res("cluster"))
	g.MustAdd(res("namespace", "cluster"))
	g.MustAdd(res("release", "namespace"))

	order, err := g.TopoSort()
	require.NoError(t, err)
	assert.Equal(t, []string{"cluster", "namespace", "release"}, order)
}

func TestTopoSortFanOutFanIn(t *testing.T) {
	t.Parallel()

	g := New()
	g.MustAdd(res("config"))
	g.MustAdd(res("controller", "config"))
	g.MustAdd(res("worker-a", "config"))
	g.MustAdd(res("worker-b", "config"))
	g.MustAdd(res("slice", "controller", "worker-a", "worker-b"))

	order, err := g.TopoSort()
	require.NoError(t, err)
	require.Len(t, order, 5)

	pos := make(map[string]int, len(order))
	for i, name := range order {
		pos[name] = i
	}

	assert.Less(t, pos["config"], pos["controller"])
	assert.Less(t, pos["controller"], pos["slice"])
	assert.Less(t, pos["worker-a"], pos["slice"])
	assert.Less(t, pos["worker-b"], pos["slice"])
}

func TestTopoSortDeterministic(t *testing.T) {
	t.Parallel()

	build := func() *Graph {
		g := New()
		g.MustAdd(res("a"))
		g.MustAdd(res("b"))
		g.MustAdd(res("c"))
		return g
	}

	first, err := build().TopoSort()
	require.NoError(t, err)

	for range 10 {
		next, err := build().TopoSort()
		require.NoError(t, err)
		assert.Equal(t, first, next)
	}
}

func TestTopoSortCycle(t *testing.T) {
	t.Parallel()

	g := New()
	g.MustAdd(res("a", "c"))
	g.MustAdd(res("b", "a"))
	g.MustAdd(res("c", "b"))

	_, err := g.TopoSort()
	assert.ErrorIs(t, err, ErrCycle)
}

func TestTopoSortSelfCycle(t *testing.T) {
	t.Parallel()

	g := New()
	g.MustAdd(res("a", "a"))

	_, err := g.TopoSort()
	assert.ErrorIs(t, err, ErrCycle)
}

func TestDependents(t *testing.T) {
	t.Parallel()

	g := New()
	g.MustAdd(res("base"))
	g.MustAdd(res("x", "base"))
	g.MustAdd(res("y", "base"))

	deps := g.Dependents()
	assert.ElementsMatch(t, []string{"x", "y"}, deps["base"])
	assert.Empty(t, deps["x"])
}

func TestFuncCreateNil(t *testing.T) {
	t.Parallel()

	f := &Func{ResourceName: "noop"}
	assert.NoError(t, f.Create(context.Background()))
}
