package graph

// Mask hides nodes and arcs of a Graph from one shortest-path call.
//
// A node or edge is excluded when its stamp equals the current generation, so
// Reset clears everything by bumping the generation. Masks hold slices sized
// to their graph and should be passed by pointer.
type Mask struct {
	g     *Graph
	gen   uint32
	nodes []uint32
	edges []uint32
}

// NewMask returns an empty mask for g.
func NewMask(g *Graph) *Mask {
	return &Mask{
		g:     g,
		gen:   1,
		nodes: make([]uint32, g.NumNodes()),
		edges: make([]uint32, g.NumEdges()),
	}
}

// Reset removes every exclusion.
func (m *Mask) Reset() {
	m.gen++
	if m.gen == 0 {
		clear(m.nodes)
		clear(m.edges)
		m.gen = 1
	}
}

// ExcludeNode hides node v.
func (m *Mask) ExcludeNode(v int) { m.nodes[v] = m.gen }

// ExcludeArc hides every edge from u to v, including parallel edges.
func (m *Mask) ExcludeArc(u, v int) {
	for _, id := range m.g.out[u] {
		if m.g.edges[id].To == v {
			m.edges[id] = m.gen
		}
	}
}

// NodeExcluded reports whether node v is hidden.
func (m *Mask) NodeExcluded(v int) bool { return m.nodes[v] == m.gen }

// EdgeExcluded reports whether edge id is hidden.
func (m *Mask) EdgeExcluded(id int) bool { return m.edges[id] == m.gen }
