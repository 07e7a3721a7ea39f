package ksp

import (
	"context"
	"math"
	"slices"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/pathlinker/pkg/errors"
	"github.com/matzehuels/pathlinker/pkg/graph"
	"github.com/matzehuels/pathlinker/pkg/network"
)

var diamondEdges = []testEdge{
	{"S", "A", 1}, {"S", "B", 4}, {"A", "B", 1}, {"A", "T", 5}, {"B", "T", 1},
}

func enumerate(t *testing.T, g *graph.Graph, opts Options) *Enumeration {
	t.Helper()
	res, err := Enumerate(context.Background(), g, opts)
	require.NoError(t, err)
	return res
}

func realNames(g *graph.Graph, p Path) []string {
	return names(g, p.Nodes[1:len(p.Nodes)-1])
}

func TestEnumerateDiamond(t *testing.T) {
	g := buildGraph(t, diamondEdges, []string{"S"}, []string{"T"})
	res := enumerate(t, g, Options{K: 3})

	require.Len(t, res.Paths, 3)
	assert.Equal(t, StatusComplete, res.Status)

	want := []struct {
		nodes  []string
		weight float64
	}{
		{[]string{"S", "A", "B", "T"}, 3},
		{[]string{"S", "B", "T"}, 5},
		{[]string{"S", "A", "T"}, 6},
	}
	for i, w := range want {
		assert.Equal(t, w.nodes, realNames(g, res.Paths[i]), "rank %d", i+1)
		assert.Equal(t, w.weight, res.Paths[i].Weight, "rank %d", i+1)
	}
}

func TestEnumerateNoPath(t *testing.T) {
	n := &network.Network{Nodes: []network.Node{{ID: "S"}, {ID: "T"}}}
	g := buildNetwork(t, n, []string{"S"}, []string{"T"}, graph.BuildOptions{}, graph.Unweighted)

	_, err := Enumerate(context.Background(), g, Options{K: 1})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodePathNotFound))
}

func TestEnumerateExhausted(t *testing.T) {
	g := buildGraph(t, []testEdge{
		{"S", "A", 1}, {"A", "T", 1}, {"S", "B", 2}, {"B", "T", 2},
	}, []string{"S"}, []string{"T"})
	res := enumerate(t, g, Options{K: 5})

	require.Len(t, res.Paths, 2)
	assert.Equal(t, StatusExhausted, res.Status)
	assert.True(t, res.Status.Partial())
	assert.Equal(t, []string{"S", "A", "T"}, realNames(g, res.Paths[0]))
	assert.Equal(t, []string{"S", "B", "T"}, realNames(g, res.Paths[1]))
}

func TestEnumerateProbability(t *testing.T) {
	n := &network.Network{}
	n.AddEdge("S", "T", network.Weighted(0.5), true)
	g := buildNetwork(t, n, []string{"S"}, []string{"T"}, graph.BuildOptions{}, graph.Probability)

	res := enumerate(t, g, Options{K: 1})
	require.Len(t, res.Paths, 1)
	assert.InDelta(t, 0.6931, res.Paths[0].Weight, 1e-4)
	assert.InDelta(t, -math.Log(0.5), res.Paths[0].Weight, 1e-12)
}

func TestEnumerateProbabilityRoundTrip(t *testing.T) {
	probs := map[[2]string]float64{
		{"S", "A"}: 0.9, {"A", "T"}: 0.8, {"S", "B"}: 0.5, {"B", "T"}: 0.95, {"A", "B"}: 0.7,
	}
	n := &network.Network{}
	for _, k := range [][2]string{{"S", "A"}, {"A", "T"}, {"S", "B"}, {"B", "T"}, {"A", "B"}} {
		n.AddEdge(k[0], k[1], network.Weighted(probs[k]), true)
	}
	g := buildNetwork(t, n, []string{"S"}, []string{"T"}, graph.BuildOptions{}, graph.Probability)

	res := enumerate(t, g, Options{K: 10})
	require.Len(t, res.Paths, 3)
	for _, p := range res.Paths {
		nodes := realNames(g, p)
		product := 1.0
		for i := 0; i+1 < len(nodes); i++ {
			product *= probs[[2]string{nodes[i], nodes[i+1]}]
		}
		assert.InDelta(t, -math.Log(product), p.Weight, 1e-9, "path %v", nodes)
	}
}

func TestEnumerateNegativeWeight(t *testing.T) {
	g := buildGraph(t, []testEdge{{"S", "T", -1}}, []string{"S"}, []string{"T"})
	_, err := Enumerate(context.Background(), g, Options{K: 1})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeNegativeWeight))
}

func TestEnumerateInvalidK(t *testing.T) {
	g := buildGraph(t, diamondEdges, []string{"S"}, []string{"T"})
	for _, k := range []int{0, -3} {
		_, err := Enumerate(context.Background(), g, Options{K: k})
		assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput), "k=%d", k)
	}
}

func TestEnumerateEqualWeightOrder(t *testing.T) {
	// Three routes of weight 2; acceptance follows node-name order.
	g := buildGraph(t, []testEdge{
		{"S", "C", 1}, {"C", "T", 1},
		{"S", "A", 1}, {"A", "T", 1},
		{"S", "B", 1}, {"B", "T", 1},
	}, []string{"S"}, []string{"T"})
	res := enumerate(t, g, Options{K: 3})
	require.Len(t, res.Paths, 3)
	assert.Equal(t, []string{"S", "A", "T"}, realNames(g, res.Paths[0]))
	assert.Equal(t, []string{"S", "B", "T"}, realNames(g, res.Paths[1]))
	assert.Equal(t, []string{"S", "C", "T"}, realNames(g, res.Paths[2]))
}

func TestEnumerateMultipleSourcesAndTargets(t *testing.T) {
	g := buildGraph(t, []testEdge{
		{"S1", "M", 1}, {"S2", "M", 2}, {"M", "T1", 1}, {"M", "T2", 3},
	}, []string{"S1", "S2"}, []string{"T1", "T2"})
	res := enumerate(t, g, Options{K: 10})

	require.Len(t, res.Paths, 4)
	assert.Equal(t, StatusExhausted, res.Status)
	assert.Equal(t, []string{"S1", "M", "T1"}, realNames(g, res.Paths[0]))
	assert.Equal(t, 2.0, res.Paths[0].Weight)
	assert.Equal(t, []string{"S2", "M", "T2"}, realNames(g, res.Paths[3]))
	assert.Equal(t, 5.0, res.Paths[3].Weight)
}

func TestEnumerateUndirected(t *testing.T) {
	n := &network.Network{}
	n.AddEdge("A", "B", network.Weighted(1), false).
		AddEdge("B", "C", network.Weighted(1), false).
		AddEdge("A", "C", network.Weighted(5), true)
	g := buildNetwork(t, n, []string{"C"}, []string{"A"}, graph.BuildOptions{}, graph.Additive)

	res := enumerate(t, g, Options{K: 5})
	require.Len(t, res.Paths, 1, "A->C is directed, so only C-B-A reaches A")
	assert.Equal(t, []string{"C", "B", "A"}, realNames(g, res.Paths[0]))
}

func TestEnumerateTrivialPaths(t *testing.T) {
	n := &network.Network{}
	n.AddEdge("S", "A", network.Weighted(1), true).AddEdge("A", "T", network.Weighted(1), true)
	sources, targets := []string{"S", "A"}, []string{"T", "A"}

	t.Run("Hidden", func(t *testing.T) {
		g := buildNetwork(t, n, sources, targets, graph.BuildOptions{}, graph.Additive)
		res := enumerate(t, g, Options{K: 10})

		require.Len(t, res.Paths, 3)
		assert.Equal(t, StatusExhausted, res.Status)
		assert.Equal(t, 4, res.Accepted)
		assert.Equal(t, []string{"A", "T"}, realNames(g, res.Paths[0]))
		assert.Equal(t, []string{"S", "A"}, realNames(g, res.Paths[1]))
		assert.Equal(t, []string{"S", "A", "T"}, realNames(g, res.Paths[2]))
		for _, p := range res.Paths {
			assert.Greater(t, p.Hops(), 2, "trivial path emitted")
		}
	})

	t.Run("HiddenNotCountedTowardK", func(t *testing.T) {
		g := buildNetwork(t, n, sources, targets, graph.BuildOptions{}, graph.Additive)
		res := enumerate(t, g, Options{K: 1})
		require.Len(t, res.Paths, 1)
		assert.Equal(t, StatusComplete, res.Status)
		assert.Equal(t, []string{"A", "T"}, realNames(g, res.Paths[0]))
	})

	t.Run("Allowed", func(t *testing.T) {
		g := buildNetwork(t, n, sources, targets, graph.BuildOptions{AllowTrivialPaths: true}, graph.Additive)
		res := enumerate(t, g, Options{K: 10, AllowTrivialPaths: true})
		require.Len(t, res.Paths, 4)
		assert.Equal(t, []string{"A"}, realNames(g, res.Paths[0]))
		assert.Equal(t, 0.0, res.Paths[0].Weight)
	})
}

func TestEnumerateOnlyTrivialPaths(t *testing.T) {
	n := &network.Network{}
	n.AddEdge("A", "B", network.Weighted(1), true)
	sources, targets := []string{"A", "B"}, []string{"A"}

	t.Run("Hidden", func(t *testing.T) {
		g := buildNetwork(t, n, sources, targets, graph.BuildOptions{}, graph.Additive)
		res, err := Enumerate(context.Background(), g, Options{K: 3})
		require.Error(t, err)
		assert.Nil(t, res)
		assert.True(t, errors.Is(err, errors.ErrCodePathNotFound), "got %v", err)
	})

	t.Run("Allowed", func(t *testing.T) {
		g := buildNetwork(t, n, sources, targets, graph.BuildOptions{AllowTrivialPaths: true}, graph.Additive)
		res := enumerate(t, g, Options{K: 3, AllowTrivialPaths: true})
		require.Len(t, res.Paths, 1)
		assert.Equal(t, []string{"A"}, realNames(g, res.Paths[0]))
	})
}

func TestEnumerateCancelledSkipsHiddenTrivialPath(t *testing.T) {
	n := &network.Network{}
	n.AddEdge("S", "A", network.Weighted(1), true).AddEdge("A", "T", network.Weighted(1), true)
	g := buildNetwork(t, n, []string{"S", "A"}, []string{"T", "A"}, graph.BuildOptions{}, graph.Additive)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := Enumerate(ctx, g, Options{K: 10})
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, res.Status)
	require.Len(t, res.Paths, 1)
	assert.Equal(t, []string{"A", "T"}, realNames(g, res.Paths[0]))
}

func TestEnumerateCancelled(t *testing.T) {
	g := buildGraph(t, diamondEdges, []string{"S"}, []string{"T"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := Enumerate(ctx, g, Options{K: 3})
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, res.Status)
	require.Len(t, res.Paths, 1)
	assert.Equal(t, []string{"S", "A", "B", "T"}, realNames(g, res.Paths[0]))
}

func TestEnumerateTimedOut(t *testing.T) {
	g := buildGraph(t, diamondEdges, []string{"S"}, []string{"T"})

	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()
	res, err := Enumerate(ctx, g, Options{K: 3})
	require.NoError(t, err)
	assert.Equal(t, StatusTimedOut, res.Status)
	assert.Len(t, res.Paths, 1)
}

func TestEnumerateCancelMidway(t *testing.T) {
	g := buildGraph(t, diamondEdges, []string{"S"}, []string{"T"})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	var ranks []int
	res, err := Enumerate(ctx, g, Options{K: 3, OnPath: func(rank int, p Path) {
		ranks = append(ranks, rank)
		if rank == 2 {
			cancel()
		}
	}})
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, res.Status)
	assert.Len(t, res.Paths, 2)
	assert.Equal(t, []int{1, 2}, ranks)
}

// lcg is a tiny deterministic generator for test graphs.
type lcg uint64

func (l *lcg) next(n int) int {
	*l = *l*6364136223846793005 + 1442695040888963407
	return int(uint64(*l>>33) % uint64(n))
}

func randomGraph(t *testing.T, seed uint64, nodes, edges int) *graph.Graph {
	t.Helper()
	r := lcg(seed)
	ids := []string{"a", "b", "c", "d", "e", "f", "g", "h"}[:nodes]
	n := &network.Network{}
	for _, id := range ids {
		n.Nodes = append(n.Nodes, network.Node{ID: id})
	}
	for i := 0; i < edges; i++ {
		u, v := ids[r.next(nodes)], ids[r.next(nodes)]
		n.AddEdge(u, v, network.Weighted(float64(1+r.next(9))), r.next(4) != 0)
	}
	return buildNetwork(t, n, []string{"a", "b"}, []string{"g", "h"}, graph.BuildOptions{}, graph.Additive)
}

// allSimpleWeights lists the weights of every simple path from the virtual
// source to the virtual target, sorted. It keeps the cheapest edge between
// two nodes, matching node-sequence identity.
func allSimpleWeights(g *graph.Graph) []float64 {
	var out []float64
	onPath := make([]bool, g.NumNodes())
	var walk func(v int, w float64)
	walk = func(v int, w float64) {
		if v == g.Target() {
			out = append(out, w)
			return
		}
		onPath[v] = true
		best := map[int]float64{}
		for _, id := range g.Out(v) {
			e := g.Edge(id)
			if cur, ok := best[e.To]; !ok || e.Weight < cur {
				best[e.To] = e.Weight
			}
		}
		for to, ew := range best {
			if !onPath[to] {
				walk(to, w+ew)
			}
		}
		onPath[v] = false
	}
	walk(g.Source(), 0)
	sort.Float64s(out)
	return out
}

func TestEnumerateMatchesBruteForce(t *testing.T) {
	for seed := uint64(1); seed <= 12; seed++ {
		g := randomGraph(t, seed, 8, 20)
		want := allSimpleWeights(g)
		if len(want) == 0 {
			continue
		}

		k := len(want) + 3
		res, err := Enumerate(context.Background(), g, Options{K: k})
		require.NoError(t, err, "seed %d", seed)
		require.Len(t, res.Paths, len(want), "seed %d", seed)
		assert.Equal(t, StatusExhausted, res.Status)

		seen := map[string]bool{}
		for i, p := range res.Paths {
			assert.InDelta(t, want[i], p.Weight, 1e-9, "seed %d rank %d", seed, i+1)
			if i > 0 {
				assert.LessOrEqual(t, res.Paths[i-1].Weight, p.Weight, "seed %d ordering", seed)
			}

			inner := p.Nodes[1 : len(p.Nodes)-1]
			sorted := slices.Clone(inner)
			slices.Sort(sorted)
			assert.Len(t, slices.Compact(sorted), len(inner), "seed %d: repeated node in %v", seed, inner)
			for _, v := range inner {
				assert.False(t, g.Node(v).IsVirtual(), "seed %d: virtual node inside path", seed)
			}

			key := seqKey(p.Nodes)
			assert.False(t, seen[key], "seed %d: duplicate path", seed)
			seen[key] = true
		}
	}
}

func TestEnumerateDeterministic(t *testing.T) {
	for seed := uint64(20); seed < 25; seed++ {
		g1 := randomGraph(t, seed, 8, 24)
		g2 := randomGraph(t, seed, 8, 24)

		r1, err1 := Enumerate(context.Background(), g1, Options{K: 15})
		r2, err2 := Enumerate(context.Background(), g2, Options{K: 15})
		if err1 != nil {
			require.Equal(t, errors.GetCode(err1), errors.GetCode(err2))
			continue
		}
		require.NoError(t, err2)
		require.Equal(t, len(r1.Paths), len(r2.Paths))
		for i := range r1.Paths {
			assert.Equal(t, r1.Paths[i].Nodes, r2.Paths[i].Nodes)
			assert.Equal(t, r1.Paths[i].Edges, r2.Paths[i].Edges)
			assert.Equal(t, math.Float64bits(r1.Paths[i].Weight), math.Float64bits(r2.Paths[i].Weight))
		}
	}
}
