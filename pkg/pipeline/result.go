package pipeline

import (
	"time"

	"github.com/matzehuels/pathlinker/pkg/graph"
	"github.com/matzehuels/pathlinker/pkg/ksp"
)

// Result is the outcome of a run.
type Result struct {
	// RunID identifies this invocation. Cache hits get a new id.
	RunID string `json:"run_id"`

	// Status tells why the run stopped.
	Status ksp.Status `json:"status"`

	// K is the number of paths requested.
	K int `json:"k"`

	// Paths holds the result paths in rank order.
	Paths []ksp.RankedPath `json:"paths"`

	// EdgeRanks maps a network edge index to the lowest rank of a path
	// using it.
	EdgeRanks map[int]int `json:"edge_ranks"`

	// NetworkHash is the content hash of the input network.
	NetworkHash string `json:"network_hash"`

	Stats Stats `json:"stats"`

	// CacheHit reports whether the paths came from the cache.
	CacheHit bool `json:"cache_hit"`
}

// Partial reports whether fewer than K paths were returned.
func (r *Result) Partial() bool { return r.Status.Partial() }

// Stats holds sizes and timings of a run.
type Stats struct {
	Graph         graph.BuildStats `json:"graph"`
	Accepted      int              `json:"accepted"`
	Candidates    int              `json:"candidates"`
	OracleCalls   int              `json:"oracle_calls"`
	BuildTime     time.Duration    `json:"build_time"`
	EnumerateTime time.Duration    `json:"enumerate_time"`
}
