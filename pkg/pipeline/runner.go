package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/pathlinker/pkg/cache"
	"github.com/matzehuels/pathlinker/pkg/errors"
	"github.com/matzehuels/pathlinker/pkg/graph"
	"github.com/matzehuels/pathlinker/pkg/ksp"
	"github.com/matzehuels/pathlinker/pkg/network"
	"github.com/matzehuels/pathlinker/pkg/observability"
)

const resultKeyType = "result"

// Runner executes runs with caching. It keeps no per-run state, so one
// Runner can serve concurrent runs with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner. A nil cache disables caching, a nil keyer
// selects the default keyer and a nil logger selects log.Default().
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Execute runs build → transform → enumerate → reconstruct over net.
//
// Errors carry pkg/errors codes: INVALID_INPUT for bad options or network
// data, PATH_NOT_FOUND when no source reaches a target, NEGATIVE_WEIGHT when
// a transformed weight is negative. A cancelled ctx or an elapsed
// Options.Timeout stops enumeration and yields a partial result.
// Options.Progress sees every result path, replayed in rank order on a
// cache hit.
func (r *Runner) Execute(ctx context.Context, net *network.Network, opts Options) (*Result, error) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	if net == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "network is required")
	}

	netData, err := json.Marshal(net)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "hash network")
	}
	netHash := cache.Hash(netData)
	key := r.Keyer.ResultKey(netHash, opts.ResultKeyOpts())

	if !opts.Refresh {
		if res, ok := r.cached(ctx, key); ok {
			opts.Logger.Info("using cached result", "paths", len(res.Paths), "status", res.Status)
			if opts.Progress != nil {
				for _, p := range res.Paths {
					opts.Progress(p)
				}
			}
			return res, nil
		}
	}

	res, err := r.run(ctx, net, opts)
	if err != nil {
		return nil, err
	}
	res.NetworkHash = netHash

	// Interrupted runs depend on timing; only deterministic outcomes are kept.
	if res.Status == ksp.StatusComplete || res.Status == ksp.StatusExhausted {
		r.store(ctx, key, res)
	}
	return res, nil
}

func (r *Runner) run(ctx context.Context, net *network.Network, opts Options) (*Result, error) {
	hooks := observability.Pipeline()
	res := &Result{RunID: uuid.NewString(), K: opts.K}

	// Build and transform
	buildStart := time.Now()
	hooks.OnBuildStart(ctx, len(net.Nodes), len(net.Edges))
	g, stats, err := graph.Build(net, opts.Sources, opts.Targets, graph.BuildOptions{
		TreatAsUndirected: opts.TreatAsUndirected,
		AllowTrivialPaths: opts.AllowTrivialPaths,
	})
	if err == nil {
		err = graph.Transform(g, opts.Weight, opts.EdgePenalty)
	}
	res.Stats.BuildTime = time.Since(buildStart)
	hooks.OnBuildComplete(ctx, stats.Nodes, stats.Edges, res.Stats.BuildTime, err)
	if err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}
	res.Stats.Graph = stats

	opts.Logger.Info("built graph",
		"nodes", stats.Nodes,
		"edges", stats.Edges,
		"sources", stats.Sources,
		"targets", stats.Targets,
		"duration", res.Stats.BuildTime)
	if stats.SelfLoops > 0 {
		opts.Logger.Warn("skipped self-loops", "count", stats.SelfLoops)
	}

	// Enumerate
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	kopts := ksp.Options{K: opts.K, AllowTrivialPaths: opts.AllowTrivialPaths}
	if opts.Progress != nil {
		kopts.OnPath = func(rank int, p ksp.Path) {
			if rp, err := ksp.RankPath(g, rank, p); err == nil {
				opts.Progress(rp)
			}
		}
	}

	enumStart := time.Now()
	hooks.OnEnumerateStart(ctx, opts.K)
	enum, err := ksp.Enumerate(ctx, g, kopts)
	res.Stats.EnumerateTime = time.Since(enumStart)
	if err != nil {
		hooks.OnEnumerateComplete(ctx, 0, "", res.Stats.EnumerateTime, err)
		return nil, fmt.Errorf("enumerate: %w", err)
	}
	hooks.OnEnumerateComplete(ctx, len(enum.Paths), string(enum.Status), res.Stats.EnumerateTime, nil)

	res.Status = enum.Status
	res.Stats.Accepted = enum.Accepted
	res.Stats.Candidates = enum.Candidates
	res.Stats.OracleCalls = enum.OracleCalls

	opts.Logger.Info("enumerated paths",
		"paths", len(enum.Paths),
		"status", enum.Status,
		"duration", res.Stats.EnumerateTime)

	// Reconstruct
	rec, err := ksp.Reconstruct(g, enum.Paths)
	if err != nil {
		return nil, fmt.Errorf("reconstruct: %w", err)
	}
	res.Paths = rec.Paths
	res.EdgeRanks = rec.EdgeRanks
	return res, nil
}

func (r *Runner) cached(ctx context.Context, key string) (*Result, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "err", err)
		return nil, false
	}
	if !hit {
		observability.Cache().OnCacheMiss(ctx, resultKeyType)
		return nil, false
	}

	var res Result
	if err := json.Unmarshal(data, &res); err != nil {
		observability.Cache().OnCacheMiss(ctx, resultKeyType)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, resultKeyType)
	res.RunID = uuid.NewString()
	res.CacheHit = true
	return &res, true
}

func (r *Runner) store(ctx context.Context, key string, res *Result) {
	data, err := json.Marshal(res)
	if err != nil {
		return
	}
	if err := r.Cache.Set(ctx, key, data, cache.TTLResult); err != nil {
		r.Logger.Warn("cache write failed", "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, resultKeyType, len(data))
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
