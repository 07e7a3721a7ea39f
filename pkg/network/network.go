package network

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/matzehuels/pathlinker/pkg/errors"
)

// =============================================================================
// Network - Interaction Network Snapshot
// =============================================================================

// Network is the input graph of a path search.
type Network struct {
	Nodes []Node `json:"nodes,omitempty"`
	Edges []Edge `json:"edges"`
}

// Node is a named vertex. The id is the node's identity and its tie-break key.
type Node struct {
	ID string `json:"id"`
}

// Edge joins two nodes. Weight is nil when the source carried no weight.
type Edge struct {
	ID       string   `json:"id,omitempty"`
	From     string   `json:"from"`
	To       string   `json:"to"`
	Weight   *float64 `json:"weight,omitempty"`
	Directed bool     `json:"directed"`
}

// UnmarshalJSON decodes an edge, treating a missing "directed" field as true.
func (e *Edge) UnmarshalJSON(data []byte) error {
	type raw struct {
		ID       string   `json:"id"`
		From     string   `json:"from"`
		To       string   `json:"to"`
		Weight   *float64 `json:"weight"`
		Directed *bool    `json:"directed"`
	}
	var r raw
	if err := json.Unmarshal(data, &r); err != nil {
		return err
	}
	*e = Edge{ID: r.ID, From: r.From, To: r.To, Weight: r.Weight, Directed: true}
	if r.Directed != nil {
		e.Directed = *r.Directed
	}
	return nil
}

// Weighted returns a pointer to v, for building edges in code.
func Weighted(v float64) *float64 { return &v }

// AddEdge appends an edge and returns the network for chaining.
func (n *Network) AddEdge(from, to string, weight *float64, directed bool) *Network {
	n.Edges = append(n.Edges, Edge{From: from, To: to, Weight: weight, Directed: directed})
	return n
}

// NodeIDs returns the sorted, de-duplicated node set: the declared nodes, or
// the edge endpoints when no nodes were declared.
func (n *Network) NodeIDs() []string {
	var ids []string
	if len(n.Nodes) > 0 {
		ids = make([]string, 0, len(n.Nodes))
		for _, nd := range n.Nodes {
			ids = append(ids, nd.ID)
		}
	} else {
		ids = make([]string, 0, 2*len(n.Edges))
		for _, e := range n.Edges {
			ids = append(ids, e.From, e.To)
		}
	}
	slices.Sort(ids)
	return slices.Compact(ids)
}

// HasWeights reports whether every edge carries a weight.
func (n *Network) HasWeights() bool {
	for _, e := range n.Edges {
		if e.Weight == nil {
			return false
		}
	}
	return len(n.Edges) > 0
}

// Validate checks node ids and edge endpoints.
func (n *Network) Validate() error {
	declared := make(map[string]struct{}, len(n.Nodes))
	for i, nd := range n.Nodes {
		if err := errors.ValidateNodeID(nd.ID); err != nil {
			return fmt.Errorf("node %d: %w", i, err)
		}
		if _, dup := declared[nd.ID]; dup {
			return errors.New(errors.ErrCodeInvalidInput, "duplicate node %q", nd.ID)
		}
		declared[nd.ID] = struct{}{}
	}

	for i, e := range n.Edges {
		for _, end := range []string{e.From, e.To} {
			if err := errors.ValidateNodeID(end); err != nil {
				return fmt.Errorf("edge %d: %w", i, err)
			}
			if len(declared) == 0 {
				continue
			}
			if _, ok := declared[end]; !ok {
				return errors.New(errors.ErrCodeInvalidInput, "edge %d (%s->%s): unknown node %q", i, e.From, e.To, end)
			}
		}
	}
	return nil
}
