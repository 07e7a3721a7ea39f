package graph

// =============================================================================
// Nodes
// =============================================================================

// NodeKind distinguishes real nodes from the two virtual endpoints.
type NodeKind int

const (
	NodeReal NodeKind = iota
	NodeVirtualSource
	NodeVirtualTarget
)

func (k NodeKind) String() string {
	switch k {
	case NodeVirtualSource:
		return "virtual-source"
	case NodeVirtualTarget:
		return "virtual-target"
	default:
		return "real"
	}
}

// Node is a vertex of the search graph.
type Node struct {
	Name string
	Kind NodeKind
}

// IsVirtual reports whether the node is the virtual source or target.
func (n Node) IsVirtual() bool { return n.Kind != NodeReal }

// =============================================================================
// Edges
// =============================================================================

// EdgeOrigin records why an edge exists.
type EdgeOrigin int

const (
	// OriginReal is an input edge in its stated direction.
	OriginReal EdgeOrigin = iota
	// OriginMirror is the reverse copy of an undirected input edge.
	OriginMirror
	// OriginConnector joins a virtual endpoint to a source or target.
	OriginConnector
)

func (o EdgeOrigin) String() string {
	switch o {
	case OriginMirror:
		return "mirror"
	case OriginConnector:
		return "connector"
	default:
		return "real"
	}
}

// Edge is a directed edge of the search graph.
type Edge struct {
	From, To int
	// Weight is the search weight. It holds the raw input weight (or 0 when
	// absent) until Transform runs.
	Weight float64
	// Raw is the input weight, valid when HasRaw is set.
	Raw    float64
	HasRaw bool
	Origin EdgeOrigin
	// Input is the index of the network edge this edge came from, -1 for
	// connectors.
	Input int
}

// InputEdge is a non-self-loop network edge as seen by the search graph.
type InputEdge struct {
	From, To      int
	Bidirectional bool
}

// =============================================================================
// Graph
// =============================================================================

// Graph is an indexed directed graph with one virtual source and one virtual
// target. Real node i has the i-th smallest name.
type Graph struct {
	nodes  []Node
	edges  []Edge
	out    [][]int
	index  map[string]int
	inputs map[int]InputEdge

	source, target int
}

// NumNodes returns the node count including the two virtual endpoints.
func (g *Graph) NumNodes() int { return len(g.nodes) }

// NumRealNodes returns the node count excluding the virtual endpoints.
func (g *Graph) NumRealNodes() int { return len(g.nodes) - 2 }

// NumEdges returns the directed edge count including connectors.
func (g *Graph) NumEdges() int { return len(g.edges) }

// Node returns node v.
func (g *Graph) Node(v int) Node { return g.nodes[v] }

// Name returns the name of node v.
func (g *Graph) Name(v int) string { return g.nodes[v].Name }

// Edge returns edge id.
func (g *Graph) Edge(id int) Edge { return g.edges[id] }

// Out returns the ids of the edges leaving v in ascending order.
// The slice is owned by the graph and must not be modified.
func (g *Graph) Out(v int) []int { return g.out[v] }

// Source returns the virtual source index.
func (g *Graph) Source() int { return g.source }

// Target returns the virtual target index.
func (g *Graph) Target() int { return g.target }

// Index returns the index of the real node with the given name.
func (g *Graph) Index(name string) (int, bool) {
	v, ok := g.index[name]
	return v, ok
}

// InputEdge returns how network edge i maps onto the graph. It returns false
// for self-loops and out-of-range indices.
func (g *Graph) InputEdge(i int) (InputEdge, bool) {
	in, ok := g.inputs[i]
	return in, ok
}

// InputEdgesBetween returns the indices of the network edges that join u and v
// when walking from u to v: directed edges u->v and bidirectional edges in
// either orientation. Indices are ascending.
func (g *Graph) InputEdgesBetween(u, v int) []int {
	var ids []int
	for _, id := range g.out[u] {
		e := g.edges[id]
		if e.To != v || e.Origin == OriginConnector {
			continue
		}
		ids = append(ids, e.Input)
	}
	return ids
}

// Sources returns the real nodes joined to the virtual source.
func (g *Graph) Sources() []int {
	ids := make([]int, 0, len(g.out[g.source]))
	for _, id := range g.out[g.source] {
		ids = append(ids, g.edges[id].To)
	}
	return ids
}

// IsSource reports whether v is joined to the virtual source.
func (g *Graph) IsSource(v int) bool {
	for _, id := range g.out[g.source] {
		if g.edges[id].To == v {
			return true
		}
	}
	return false
}

// IsTarget reports whether v is joined to the virtual target.
func (g *Graph) IsTarget(v int) bool {
	for _, id := range g.out[v] {
		if g.edges[id].To == g.target {
			return true
		}
	}
	return false
}

func (g *Graph) addEdge(e Edge) int {
	id := len(g.edges)
	g.edges = append(g.edges, e)
	g.out[e.From] = append(g.out[e.From], id)
	return id
}
