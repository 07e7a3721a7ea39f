// Package cache stores computed path results and fetched networks.
//
// The cache is a memoization layer: entries expire and may vanish at any
// time, and every caller recomputes on a miss. Three backends are provided:
//
//   - [NullCache]: stores nothing (caching disabled)
//   - [FileCache]: JSON entry files under a directory, for the CLI
//   - [RedisCache]: a shared Redis instance, for the HTTP server
//
// Keys come from a [Keyer] so that the CLI and the server agree on them.
// [ScopedKeyer] prefixes keys to separate namespaces on a shared backend.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with expiry.
type Cache interface {
	// Get returns the value for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}

// Default time-to-live values.
const (
	TTLResult  = 7 * 24 * time.Hour
	TTLNetwork = time.Hour
)

// =============================================================================
// Keys
// =============================================================================

// ResultKeyOpts holds every run option that changes a path result.
// Sources and Targets should be sorted and de-duplicated by the caller.
type ResultKeyOpts struct {
	Sources           []string `json:"sources"`
	Targets           []string `json:"targets"`
	K                 int      `json:"k"`
	Weight            string   `json:"weight"`
	TreatAsUndirected bool     `json:"treat_as_undirected"`
	EdgePenalty       float64  `json:"edge_penalty"`
	AllowTrivialPaths bool     `json:"allow_trivial_paths"`
}

// Keyer generates cache keys.
type Keyer interface {
	// ResultKey identifies the result of a run over the network with the
	// given content hash.
	ResultKey(networkHash string, opts ResultKeyOpts) string
	// NetworkKey identifies a network fetched from a remote source, such as
	// the Cypher query and database it was read with.
	NetworkKey(source string, ref ...string) string
}

// DefaultKeyer hashes key components with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer { return &DefaultKeyer{} }

// ResultKey returns "result:<hash>".
func (k *DefaultKeyer) ResultKey(networkHash string, opts ResultKeyOpts) string {
	return hashKey("result", networkHash, opts)
}

// NetworkKey returns "network:<hash>".
func (k *DefaultKeyer) NetworkKey(source string, ref ...string) string {
	return hashKey("network", source, ref)
}

var _ Keyer = (*DefaultKeyer)(nil)
