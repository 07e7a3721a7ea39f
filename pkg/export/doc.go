// Package export writes path results as TSV or JSON.
//
// The TSV layout matches the result table of the PathLinker desktop tool:
//
//	Path index	Path score	Path
//	1	3	S|A|B|T
//	2	5	S|B|T
//
// Scores are rounded half-up to six decimals with trailing zeros removed.
//
// The JSON document carries the run id, status, ranked paths and an
// edge-rank list that names each network edge with its lowest path rank.
// Edges used by no path are omitted from the list.
package export
