// Package ksp enumerates the K shortest simple paths of a [graph.Graph].
//
// # Overview
//
// The package has three parts, used in this order:
//
//   - [Oracle]: a single-pair Dijkstra search that honors a [graph.Mask]
//   - [Enumerate]: Yen's deviation search, which calls the oracle once per
//     spur node and returns accepted paths in non-decreasing weight order
//   - [Reconstruct]: turns enumerator paths into caller-facing
//     [RankedPath] values and the per-edge first-rank map
//
// Paths run from the virtual source to the virtual target of the graph, so a
// search over many sources and many targets is a single-pair search.
//
// # Determinism
//
// Every tie is broken by node index, which equals node-name order:
//
//   - the Dijkstra heap pops the lower index among equal distances
//   - a node reached at equal cost from two predecessors keeps the
//     lower-index predecessor
//   - among parallel edges of equal weight the lower edge id wins
//   - candidates of equal weight are accepted in lexicographic order of
//     their node-index sequence
//
// Path weights are summed edge by edge in path order, so two equal paths
// always carry bit-identical totals.
//
// # Termination
//
// Enumeration stops when K paths have been emitted ([StatusComplete]), when
// no candidate remains ([StatusExhausted]), or when the context ends
// ([StatusCancelled], [StatusTimedOut]). Only the last two produce fewer than
// K paths without running out of candidates; none of them is an error.
//
// # Trivial Paths
//
// A node that is both a source and a target yields a path with no real edges.
// Such paths are emitted with weight 0 when [Options.AllowTrivialPaths] is
// set. Otherwise they are still accepted internally, so that the paths
// deviating from them are found, but they are neither returned nor counted
// toward K.
//
// # Errors
//
// [NewOracle] (and therefore Enumerate) fails with NEGATIVE_WEIGHT when any
// edge weight is negative. Enumerate fails with PATH_NOT_FOUND when the
// first search finds nothing. Reconstruct fails with INTERNAL_ERROR if a path
// disagrees with the graph.
package ksp
