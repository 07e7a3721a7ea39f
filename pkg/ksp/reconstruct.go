package ksp

import (
	"math"

	"github.com/matzehuels/pathlinker/pkg/errors"
	"github.com/matzehuels/pathlinker/pkg/graph"
)

// weightTolerance is the relative disagreement allowed between the
// enumerator's total and the total recomputed from real edges.
const weightTolerance = 1e-9

// RankedPath is a result path with the virtual endpoints removed.
type RankedPath struct {
	Rank   int      `json:"rank"`
	Weight float64  `json:"weight"`
	Nodes  []string `json:"nodes"`
}

// Reconstruction holds the caller-facing form of an enumeration.
type Reconstruction struct {
	Paths []RankedPath
	// EdgeRanks maps a network edge index to the lowest rank of a path that
	// traverses it. Edges no path uses are absent.
	EdgeRanks map[int]int
}

// Reconstruct converts enumerator paths, in rank order, into ranked result
// paths and the edge rank map.
//
// A network edge counts as traversed when it joins two consecutive path
// nodes in the walking direction, or in either direction when it was built
// as bidirectional. Parallel network edges between the same pair are all
// recorded.
func Reconstruct(g *graph.Graph, paths []Path) (*Reconstruction, error) {
	r := &Reconstruction{
		Paths:     make([]RankedPath, 0, len(paths)),
		EdgeRanks: make(map[int]int),
	}
	for i, p := range paths {
		rank := i + 1
		rp, err := RankPath(g, rank, p)
		if err != nil {
			return nil, err
		}
		r.Paths = append(r.Paths, rp)

		for j := 1; j+2 < len(p.Nodes); j++ {
			for _, in := range g.InputEdgesBetween(p.Nodes[j], p.Nodes[j+1]) {
				if _, ok := r.EdgeRanks[in]; !ok {
					r.EdgeRanks[in] = rank
				}
			}
		}
	}
	return r, nil
}

// RankPath strips the virtual endpoints from p and checks its weight against
// the real edges it uses.
func RankPath(g *graph.Graph, rank int, p Path) (RankedPath, error) {
	n := len(p.Nodes)
	if n < 3 || len(p.Edges) != n-1 || p.Nodes[0] != g.Source() || p.Nodes[n-1] != g.Target() {
		return RankedPath{}, errors.New(errors.ErrCodeInternal,
			"path %d does not run from the virtual source to the virtual target", rank)
	}

	var total float64
	for k, id := range p.Edges {
		e := g.Edge(id)
		if e.From != p.Nodes[k] || e.To != p.Nodes[k+1] {
			return RankedPath{}, errors.New(errors.ErrCodeInternal, "path %d: edge %d does not join its nodes", rank, id)
		}
		if e.Origin != graph.OriginConnector {
			total += e.Weight
		}
	}
	if !withinTolerance(total, p.Weight) {
		return RankedPath{}, errors.New(errors.ErrCodeInternal,
			"path %d: weight %v disagrees with real-edge total %v", rank, p.Weight, total)
	}

	names := make([]string, 0, n-2)
	for _, v := range p.Nodes[1 : n-1] {
		names = append(names, g.Name(v))
	}
	return RankedPath{Rank: rank, Weight: p.Weight, Nodes: names}, nil
}

func withinTolerance(a, b float64) bool {
	scale := math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
	return math.Abs(a-b) <= weightTolerance*scale
}
