// Package graph builds the directed weighted graph the path engine searches.
//
// # Overview
//
// [Build] turns a [network.Network] plus source and target name sets into a
// [Graph]: real nodes indexed densely in ascending name order, one virtual
// source and one virtual target, and directed edges. Undirected input edges
// (or all edges, with [BuildOptions.TreatAsUndirected]) become a real edge and
// a mirror edge with the same weight. The virtual source has a zero-weight
// connector edge to every source and every target has a zero-weight connector
// edge to the virtual target, which reduces the many-to-many problem to a
// single pair.
//
// [Transform] rewrites edge weights according to the chosen [Weighting] and
// edge penalty without touching the topology.
//
// A [Mask] hides nodes and arcs from a single shortest-path call. Masks are
// reset in constant time with generation stamps, so one mask serves every
// call of a run.
//
// # Identity Order
//
// Because node indices follow name order, comparing indices is the same as
// comparing names. The shortest-path oracle and the enumerator break every tie
// by index, which makes results reproducible for identical inputs.
//
// # Lifecycle
//
// A Graph is built once per run and is not modified by the search. Nothing in
// this package keeps state between runs.
package graph
