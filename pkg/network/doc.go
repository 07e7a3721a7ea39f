// Package network defines the caller-facing interaction network handed to the
// path engine, along with its file formats.
//
// # Overview
//
// A [Network] is a plain snapshot: a list of nodes and a list of edges, each
// edge carrying an optional weight and a direction flag. It is the boundary
// type between loaders (files, HTTP requests, Neo4j) and the engine in
// pkg/graph and pkg/ksp, which never read a Network after building their own
// indexed graph from it.
//
// # JSON Format
//
//	{
//	  "nodes": [{"id": "EGFR"}, {"id": "GRB2"}],
//	  "edges": [
//	    {"id": "e1", "from": "EGFR", "to": "GRB2", "weight": 0.9},
//	    {"from": "GRB2", "to": "SOS1", "weight": 0.75, "directed": false}
//	  ]
//	}
//
// The nodes array may be omitted, in which case the node set is implied by
// the edge endpoints. When it is present, every edge endpoint must be
// declared. Edge fields:
//   - from, to: required node ids
//   - id: optional label, echoed back in exports
//   - weight: optional; required later by the additive and probability
//     weight semantics
//   - directed: defaults to true
//
// # Edge-List Format
//
// The text format used by the PathLinker command-line tool: one edge per line,
// whitespace separated, tail then head then an optional weight. Blank lines
// and lines starting with '#' are skipped and extra columns are ignored:
//
//	#tail	head	edge_weight
//	EGFR	GRB2	0.9
//	GRB2	SOS1	0.75
//
// Direction is not part of the format; [EdgeListOptions] sets it for every
// edge.
//
// # Validation
//
// [Network.Validate] rejects empty, overlong or duplicate node ids and edges
// with unknown endpoints. The resulting errors carry the INVALID_INPUT code
// from pkg/errors.
package network
