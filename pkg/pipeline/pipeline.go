// Package pipeline runs a complete path search for the CLI and the HTTP
// server.
//
// A run validates its [Options], checks the result cache, builds the search
// graph from a [network.Network], transforms its weights, enumerates the K
// shortest simple paths and reconstructs the caller-facing [Result]. The
// CLI and the server share this code so they agree on defaults, validation
// and cache keys.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, net, pipeline.Options{
//	    Sources: []string{"EGFR"},
//	    Targets: []string{"MYC"},
//	    K:       100,
//	    Weight:  graph.Probability,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, p := range result.Paths {
//	    fmt.Println(p.Rank, p.Weight, p.Nodes)
//	}
//
// # Statuses
//
// Running out of candidates, cancellation and timeouts are reported through
// [Result.Status], never as errors. A result with a partial status still
// holds every path found before the run stopped.
package pipeline

import (
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pathlinker/pkg/cache"
	"github.com/matzehuels/pathlinker/pkg/errors"
	"github.com/matzehuels/pathlinker/pkg/graph"
	"github.com/matzehuels/pathlinker/pkg/ksp"
)

// =============================================================================
// Default Values - Shared by CLI and Server
// =============================================================================

const (
	// DefaultK is the number of paths computed when K is zero.
	DefaultK = 50

	// MaxK bounds K. Each accepted path costs up to one shortest-path search
	// per node on it, so very large K values are rejected up front.
	MaxK = 100_000

	// DefaultEdgePenalty leaves weights unchanged.
	DefaultEdgePenalty = 1.0
)

// DefaultWeight is the weighting used when none is given.
const DefaultWeight = graph.Unweighted

// =============================================================================
// Options - Run Configuration
// =============================================================================

// Options configures one run. It supports JSON for API requests.
type Options struct {
	Sources           []string        `json:"sources"`
	Targets           []string        `json:"targets"`
	K                 int             `json:"k,omitempty"`
	Weight            graph.Weighting `json:"weight,omitempty"`
	TreatAsUndirected bool            `json:"treat_as_undirected,omitempty"`
	EdgePenalty       float64         `json:"edge_penalty,omitempty"`
	AllowTrivialPaths bool            `json:"allow_trivial_paths,omitempty"`

	// Timeout bounds enumeration. Zero means no limit.
	Timeout time.Duration `json:"-"`
	// Refresh skips the cache lookup. The fresh result is still stored.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`
	// Progress, if set, receives each path as soon as it is accepted. On a
	// cache hit the cached paths are replayed through it.
	Progress func(ksp.RankedPath) `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// ValidateAndSetDefaults checks the options and fills in defaults. It is
// idempotent. Errors carry the INVALID_INPUT code.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}

	if len(o.Sources) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "at least one source is required")
	}
	if len(o.Targets) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "at least one target is required")
	}

	if o.K == 0 {
		o.K = DefaultK
	}
	if err := errors.ValidateK(o.K, MaxK); err != nil {
		return err
	}

	if o.Weight == "" {
		o.Weight = DefaultWeight
	}
	w, err := graph.ParseWeighting(string(o.Weight))
	if err != nil {
		return err
	}
	o.Weight = w

	if o.EdgePenalty == 0 {
		o.EdgePenalty = DefaultEdgePenalty
	}
	if err := errors.ValidateEdgePenalty(o.EdgePenalty); err != nil {
		return err
	}

	if o.Timeout < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "timeout must not be negative, got %s", o.Timeout)
	}

	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	o.validated = true
	return nil
}

// ResultKeyOpts returns the cache key options for the result of this run.
func (o *Options) ResultKeyOpts() cache.ResultKeyOpts {
	return cache.ResultKeyOpts{
		Sources:           normalize(o.Sources),
		Targets:           normalize(o.Targets),
		K:                 o.K,
		Weight:            string(o.Weight),
		TreatAsUndirected: o.TreatAsUndirected,
		EdgePenalty:       o.EdgePenalty,
		AllowTrivialPaths: o.AllowTrivialPaths,
	}
}

func normalize(names []string) []string {
	out := slices.Clone(names)
	slices.Sort(out)
	return slices.Compact(out)
}
