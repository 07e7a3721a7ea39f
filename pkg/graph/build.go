package graph

import (
	"slices"

	"github.com/matzehuels/pathlinker/pkg/errors"
	"github.com/matzehuels/pathlinker/pkg/network"
)

// Names of the virtual endpoints. They never collide with real node lookups
// because virtual nodes are not entered in the name index.
const (
	VirtualSourceName = "<source>"
	VirtualTargetName = "<target>"
)

// BuildOptions controls graph construction.
type BuildOptions struct {
	// TreatAsUndirected mirrors every edge regardless of its direction flag.
	TreatAsUndirected bool
	// AllowTrivialPaths permits zero-hop paths at nodes that are both a
	// source and a target. When false, a run whose only source is also its
	// only target is rejected.
	AllowTrivialPaths bool
}

// BuildStats summarizes a built graph.
type BuildStats struct {
	Nodes     int `json:"nodes"`      // real nodes
	Edges     int `json:"edges"`      // directed real and mirror edges
	Mirrored  int `json:"mirrored"`   // mirror edges among Edges
	SelfLoops int `json:"self_loops"` // input self-loops skipped
	Sources   int `json:"sources"`
	Targets   int `json:"targets"`
}

// Build creates the search graph for one run.
//
// Duplicate names in sources and targets are collapsed. Build fails with
// INVALID_INPUT when the network is malformed, when either name set is empty
// or names a node that does not exist, or when trivial paths are disallowed
// and the single source is also the single target.
func Build(net *network.Network, sources, targets []string, opts BuildOptions) (*Graph, BuildStats, error) {
	var stats BuildStats
	if net == nil {
		return nil, stats, errors.New(errors.ErrCodeInvalidInput, "network is required")
	}
	if err := net.Validate(); err != nil {
		return nil, stats, err
	}

	srcs := dedupe(sources)
	tgts := dedupe(targets)
	if len(srcs) == 0 {
		return nil, stats, errors.New(errors.ErrCodeInvalidInput, "at least one source is required")
	}
	if len(tgts) == 0 {
		return nil, stats, errors.New(errors.ErrCodeInvalidInput, "at least one target is required")
	}
	if !opts.AllowTrivialPaths && len(srcs) == 1 && len(tgts) == 1 && srcs[0] == tgts[0] {
		return nil, stats, errors.New(errors.ErrCodeInvalidInput,
			"source and target are the same node %q and trivial paths are not allowed", srcs[0])
	}

	ids := net.NodeIDs()
	n := len(ids)
	g := &Graph{
		nodes:  make([]Node, n+2),
		out:    make([][]int, n+2),
		index:  make(map[string]int, n),
		inputs: make(map[int]InputEdge, len(net.Edges)),
		source: n,
		target: n + 1,
	}
	for i, id := range ids {
		g.nodes[i] = Node{Name: id, Kind: NodeReal}
		g.index[id] = i
	}
	g.nodes[g.source] = Node{Name: VirtualSourceName, Kind: NodeVirtualSource}
	g.nodes[g.target] = Node{Name: VirtualTargetName, Kind: NodeVirtualTarget}

	srcIdx, err := resolve(g, srcs, "source")
	if err != nil {
		return nil, stats, err
	}
	tgtIdx, err := resolve(g, tgts, "target")
	if err != nil {
		return nil, stats, err
	}

	for i, ne := range net.Edges {
		u, v := g.index[ne.From], g.index[ne.To]
		if u == v {
			stats.SelfLoops++
			continue
		}
		e := Edge{From: u, To: v, Origin: OriginReal, Input: i}
		if ne.Weight != nil {
			e.Raw, e.HasRaw, e.Weight = *ne.Weight, true, *ne.Weight
		}
		g.addEdge(e)

		bidi := !ne.Directed || opts.TreatAsUndirected
		if bidi {
			m := e
			m.From, m.To, m.Origin = v, u, OriginMirror
			g.addEdge(m)
			stats.Mirrored++
		}
		g.inputs[i] = InputEdge{From: u, To: v, Bidirectional: bidi}
	}
	stats.Edges = len(g.edges)

	for _, s := range srcIdx {
		g.addEdge(Edge{From: g.source, To: s, Origin: OriginConnector, Input: -1})
	}
	for _, t := range tgtIdx {
		g.addEdge(Edge{From: t, To: g.target, Origin: OriginConnector, Input: -1})
	}

	stats.Nodes = n
	stats.Sources = len(srcIdx)
	stats.Targets = len(tgtIdx)
	return g, stats, nil
}

func resolve(g *Graph, names []string, role string) ([]int, error) {
	idx := make([]int, 0, len(names))
	for _, name := range names {
		v, ok := g.index[name]
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidInput, "%s %q is not in the network", role, name)
		}
		idx = append(idx, v)
	}
	slices.Sort(idx)
	return idx, nil
}

func dedupe(names []string) []string {
	out := slices.Clone(names)
	slices.Sort(out)
	return slices.Compact(out)
}
