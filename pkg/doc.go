// Package pkg provides the core libraries for PathLinker path reconstruction.
//
// # Overview
//
// PathLinker connects a set of source nodes to a set of target nodes in an
// interaction network by computing the K shortest simple paths between
// them. The pkg directory is organized into four main areas:
//
//  1. Domain logic: [network], [graph] and [ksp]
//  2. Orchestration: [pipeline]
//  3. Infrastructure: [cache], [observability], [errors] and [buildinfo]
//  4. Input and output: source/neo4j and [export]
//
// # Architecture
//
// The typical data flow of a run:
//
//	Edge list / JSON file / Neo4j
//	         ↓
//	    [network] package (validated edge list)
//	         ↓
//	    [graph] package (search graph + weight transform)
//	         ↓
//	    [ksp] package (Yen enumeration + reconstruction)
//	         ↓
//	    [export] package (TSV or JSON)
//
// # Quick Start
//
//	net, err := network.Import("interactome.txt", network.EdgeListOptions{})
//	if err != nil {
//	    return err
//	}
//	runner := pipeline.NewRunner(nil, nil, logger)
//	res, err := runner.Execute(ctx, net, pipeline.Options{
//	    Sources: []string{"EGFR"},
//	    Targets: []string{"MYC"},
//	    K:       100,
//	    Weight:  graph.Probability,
//	})
//	if err != nil {
//	    return err
//	}
//	return export.WriteTSV(os.Stdout, res)
//
// # Error Handling
//
// Errors carry a code from [errors] so callers can tell bad input
// (INVALID_INPUT, NEGATIVE_WEIGHT) from unreachable targets
// (PATH_NOT_FOUND) and internal faults. Interrupted runs are not errors:
// they return the paths found so far with a partial status.
package pkg
