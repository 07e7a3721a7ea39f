package ksp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/pathlinker/pkg/errors"
	"github.com/matzehuels/pathlinker/pkg/graph"
	"github.com/matzehuels/pathlinker/pkg/network"
)

type testEdge struct {
	from, to string
	w        float64
}

// buildGraph builds and transforms a directed additive graph.
func buildGraph(t *testing.T, edges []testEdge, sources, targets []string) *graph.Graph {
	t.Helper()
	n := &network.Network{}
	for _, e := range edges {
		n.AddEdge(e.from, e.to, network.Weighted(e.w), true)
	}
	return buildNetwork(t, n, sources, targets, graph.BuildOptions{}, graph.Additive)
}

func buildNetwork(t *testing.T, n *network.Network, sources, targets []string, opts graph.BuildOptions, w graph.Weighting) *graph.Graph {
	t.Helper()
	g, _, err := graph.Build(n, sources, targets, opts)
	require.NoError(t, err)
	require.NoError(t, graph.Transform(g, w, 1))
	return g
}

func names(g *graph.Graph, nodes []int) []string {
	out := make([]string, len(nodes))
	for i, v := range nodes {
		out[i] = g.Name(v)
	}
	return out
}

func idx(t *testing.T, g *graph.Graph, name string) int {
	t.Helper()
	v, ok := g.Index(name)
	require.True(t, ok, "node %q", name)
	return v
}

func TestOracleShortestPath(t *testing.T) {
	g := buildGraph(t, diamondEdges, []string{"S"}, []string{"T"})
	o, err := NewOracle(g)
	require.NoError(t, err)

	p, ok := o.ShortestPath(g.Source(), g.Target(), nil)
	require.True(t, ok)
	assert.Equal(t, []string{graph.VirtualSourceName, "S", "A", "B", "T", graph.VirtualTargetName}, names(g, p.Nodes))
	assert.Equal(t, 3.0, p.Weight)
	assert.Len(t, p.Edges, len(p.Nodes)-1)

	// A second call on the same oracle sees fresh state.
	p2, ok := o.ShortestPath(idx(t, g, "S"), idx(t, g, "T"), nil)
	require.True(t, ok)
	assert.Equal(t, []string{"S", "A", "B", "T"}, names(g, p2.Nodes))
}

func TestOracleMask(t *testing.T) {
	g := buildGraph(t, diamondEdges, []string{"S"}, []string{"T"})
	o, err := NewOracle(g)
	require.NoError(t, err)
	m := graph.NewMask(g)

	m.ExcludeArc(idx(t, g, "A"), idx(t, g, "B"))
	p, ok := o.ShortestPath(idx(t, g, "S"), idx(t, g, "T"), m)
	require.True(t, ok)
	assert.Equal(t, []string{"S", "B", "T"}, names(g, p.Nodes))
	assert.Equal(t, 5.0, p.Weight)

	m.ExcludeNode(idx(t, g, "B"))
	p, ok = o.ShortestPath(idx(t, g, "S"), idx(t, g, "T"), m)
	require.True(t, ok)
	assert.Equal(t, []string{"S", "A", "T"}, names(g, p.Nodes))

	m.ExcludeNode(idx(t, g, "A"))
	_, ok = o.ShortestPath(idx(t, g, "S"), idx(t, g, "T"), m)
	assert.False(t, ok)

	m.Reset()
	m.ExcludeNode(idx(t, g, "S"))
	_, ok = o.ShortestPath(idx(t, g, "S"), idx(t, g, "T"), m)
	assert.False(t, ok, "hidden start node")
}

func TestOracleTieBreak(t *testing.T) {
	t.Run("LowerIndexPredecessor", func(t *testing.T) {
		// S->B->T and S->A->T cost the same; A sorts first.
		g := buildGraph(t, []testEdge{
			{"S", "B", 1}, {"B", "T", 1},
			{"S", "A", 1}, {"A", "T", 1},
		}, []string{"S"}, []string{"T"})
		o, err := NewOracle(g)
		require.NoError(t, err)
		p, ok := o.ShortestPath(idx(t, g, "S"), idx(t, g, "T"), nil)
		require.True(t, ok)
		assert.Equal(t, []string{"S", "A", "T"}, names(g, p.Nodes))
	})

	t.Run("ParallelEdgeLowerID", func(t *testing.T) {
		g := buildGraph(t, []testEdge{{"S", "T", 2}, {"S", "T", 2}, {"S", "T", 1.5}}, []string{"S"}, []string{"T"})
		o, err := NewOracle(g)
		require.NoError(t, err)
		p, ok := o.ShortestPath(idx(t, g, "S"), idx(t, g, "T"), nil)
		require.True(t, ok)
		assert.Equal(t, []int{2}, p.Edges)

		g2 := buildGraph(t, []testEdge{{"S", "T", 2}, {"S", "T", 2}}, []string{"S"}, []string{"T"})
		o2, err := NewOracle(g2)
		require.NoError(t, err)
		p, ok = o2.ShortestPath(idx(t, g2, "S"), idx(t, g2, "T"), nil)
		require.True(t, ok)
		assert.Equal(t, []int{0}, p.Edges)
	})
}

func TestOracleZeroWeights(t *testing.T) {
	g := buildGraph(t, []testEdge{{"S", "A", 0}, {"A", "T", 0}, {"S", "T", 0}}, []string{"S"}, []string{"T"})
	o, err := NewOracle(g)
	require.NoError(t, err)
	p, ok := o.ShortestPath(idx(t, g, "S"), idx(t, g, "T"), nil)
	require.True(t, ok)
	assert.Equal(t, 0.0, p.Weight)
	// Both routes cost 0. A sorts before S, so A wins as T's predecessor.
	assert.Equal(t, []string{"S", "A", "T"}, names(g, p.Nodes))
}

func TestNewOracleNegativeWeight(t *testing.T) {
	g := buildGraph(t, []testEdge{{"S", "A", 1}, {"A", "T", -2}}, []string{"S"}, []string{"T"})
	_, err := NewOracle(g)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeNegativeWeight))
	assert.Contains(t, err.Error(), "A→T")
}
