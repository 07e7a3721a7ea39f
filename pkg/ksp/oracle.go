package ksp

import (
	"container/heap"
	"math"

	"github.com/matzehuels/pathlinker/pkg/errors"
	"github.com/matzehuels/pathlinker/pkg/graph"
)

// Path is a path of the search graph.
type Path struct {
	Nodes  []int   // node indices, first to last
	Edges  []int   // edge ids, len(Nodes)-1 of them
	Weight float64 // sum of edge weights in path order
}

// Hops returns the number of edges in the path.
func (p Path) Hops() int { return len(p.Edges) }

// Oracle answers shortest-path queries on one graph. Its work buffers are
// reused across calls, so an Oracle must not be shared between goroutines.
type Oracle struct {
	g *graph.Graph

	gen      uint32
	reached  []uint32 // dist and prev are valid when reached[v] == gen
	settled  []uint32
	dist     []float64
	prevEdge []int
	pq       nodePQ
}

// NewOracle prepares an oracle for g. It scans every edge once and fails with
// NEGATIVE_WEIGHT if any weight is negative.
func NewOracle(g *graph.Graph) (*Oracle, error) {
	for id := 0; id < g.NumEdges(); id++ {
		e := g.Edge(id)
		if e.Weight < 0 || math.IsNaN(e.Weight) {
			return nil, errors.New(errors.ErrCodeNegativeWeight,
				"edge %s→%s (input %d) has weight %v", g.Name(e.From), g.Name(e.To), e.Input, e.Weight)
		}
	}

	n := g.NumNodes()
	return &Oracle{
		g:        g,
		reached:  make([]uint32, n),
		settled:  make([]uint32, n),
		dist:     make([]float64, n),
		prevEdge: make([]int, n),
		pq:       make(nodePQ, 0, n),
	}, nil
}

// ShortestPath returns the lowest-weight path from one node to another that
// avoids everything hidden by mask. A nil mask hides nothing. It returns
// false when to is unreachable or either endpoint is hidden.
func (o *Oracle) ShortestPath(from, to int, mask *graph.Mask) (Path, bool) {
	if mask != nil && (mask.NodeExcluded(from) || mask.NodeExcluded(to)) {
		return Path{}, false
	}

	o.next()
	o.reach(from, 0, -1)
	heap.Push(&o.pq, nodeItem{id: from, dist: 0})

	for o.pq.Len() > 0 {
		item := heap.Pop(&o.pq).(nodeItem)
		u := item.id
		if o.settled[u] == o.gen || item.dist > o.dist[u] {
			continue
		}
		o.settled[u] = o.gen
		if u == to {
			return o.path(from, to), true
		}
		o.relax(u, mask)
	}
	return Path{}, false
}

func (o *Oracle) relax(u int, mask *graph.Mask) {
	for _, id := range o.g.Out(u) {
		if mask != nil && mask.EdgeExcluded(id) {
			continue
		}
		e := o.g.Edge(id)
		v := e.To
		if o.settled[v] == o.gen || (mask != nil && mask.NodeExcluded(v)) {
			continue
		}

		nd := o.dist[u] + e.Weight
		switch {
		case o.reached[v] != o.gen || nd < o.dist[v]:
			o.reach(v, nd, id)
			heap.Push(&o.pq, nodeItem{id: v, dist: nd})
		case nd == o.dist[v] && u < o.g.Edge(o.prevEdge[v]).From:
			// Equal cost: the lower-index predecessor wins. Parallel edges
			// from the same predecessor arrive in ascending id order and
			// never replace the first.
			o.prevEdge[v] = id
		}
	}
}

func (o *Oracle) reach(v int, d float64, via int) {
	o.reached[v] = o.gen
	o.dist[v] = d
	o.prevEdge[v] = via
}

func (o *Oracle) path(from, to int) Path {
	var edges []int
	for v := to; v != from; {
		id := o.prevEdge[v]
		edges = append(edges, id)
		v = o.g.Edge(id).From
	}

	p := Path{
		Nodes: make([]int, 0, len(edges)+1),
		Edges: make([]int, len(edges)),
	}
	p.Nodes = append(p.Nodes, from)
	for i := range edges {
		id := edges[len(edges)-1-i]
		p.Edges[i] = id
		p.Nodes = append(p.Nodes, o.g.Edge(id).To)
	}
	p.Weight = sumWeights(o.g, p.Edges)
	return p
}

func (o *Oracle) next() {
	o.pq = o.pq[:0]
	o.gen++
	if o.gen == 0 {
		clear(o.reached)
		clear(o.settled)
		o.gen = 1
	}
}

func sumWeights(g *graph.Graph, edges []int) float64 {
	var w float64
	for _, id := range edges {
		w += g.Edge(id).Weight
	}
	return w
}

// =============================================================================
// Priority Queue
// =============================================================================

type nodeItem struct {
	id   int
	dist float64
}

// nodePQ is a min-heap by distance, then node index.
type nodePQ []nodeItem

func (pq nodePQ) Len() int { return len(pq) }

func (pq nodePQ) Less(i, j int) bool {
	if pq[i].dist != pq[j].dist {
		return pq[i].dist < pq[j].dist
	}
	return pq[i].id < pq[j].id
}

func (pq nodePQ) Swap(i, j int) { pq[i], pq[j] = pq[j], pq[i] }

func (pq *nodePQ) Push(x any) { *pq = append(*pq, x.(nodeItem)) }

func (pq *nodePQ) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]
	return item
}
