package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/matzehuels/pathlinker/pkg/cache"
	"github.com/matzehuels/pathlinker/pkg/errors"
	"github.com/matzehuels/pathlinker/pkg/export"
	"github.com/matzehuels/pathlinker/pkg/graph"
	"github.com/matzehuels/pathlinker/pkg/ksp"
	"github.com/matzehuels/pathlinker/pkg/network"
	"github.com/matzehuels/pathlinker/pkg/pipeline"
	"github.com/matzehuels/pathlinker/pkg/source/neo4j"
)

const formatTable = "table"

type runFlags struct {
	sources      []string
	targets      []string
	k            int
	weight       string
	undirected   bool
	edgePenalty  float64
	allowTrivial bool
	timeout      time.Duration
	format       string
	output       string
	interactive  bool
	noCache      bool
	refresh      bool
	fromNeo4j    bool
	neo4jQuery   string
}

// runCommand creates the run command.
func (c *CLI) runCommand() *cobra.Command {
	var f runFlags

	cmd := &cobra.Command{
		Use:   "run [network]",
		Short: "Compute the k shortest paths from sources to targets",
		Long: `Compute the k shortest simple paths from the source nodes to the target nodes.

The network is read from a JSON file (.json) or a whitespace separated edge
list with "tail head [weight]" lines. With --neo4j it is loaded from the
database configured in the [neo4j] config section instead.`,
		Example: `  pathlinker run interactome.txt -s EGFR -t MYC -k 100 --weight probability
  pathlinker run net.json -s A,B -t Z --format tsv -o paths.tsv
  pathlinker run --neo4j -s EGFR -t MYC --interactive`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPaths(cmd, args, f)
		},
	}

	fl := cmd.Flags()
	fl.StringSliceVarP(&f.sources, "source", "s", nil, "source node (repeatable or comma separated)")
	fl.StringSliceVarP(&f.targets, "target", "t", nil, "target node (repeatable or comma separated)")
	fl.IntVarP(&f.k, "k", "k", pipeline.DefaultK, "number of paths to compute")
	fl.StringVar(&f.weight, "weight", string(pipeline.DefaultWeight), "edge weighting: unweighted, additive or probability")
	fl.BoolVar(&f.undirected, "undirected", false, "treat every edge as undirected")
	fl.Float64Var(&f.edgePenalty, "edge-penalty", pipeline.DefaultEdgePenalty, "multiply every edge cost by this factor")
	fl.BoolVar(&f.allowTrivial, "allow-trivial", false, "allow single-node paths when a node is both source and target")
	fl.DurationVar(&f.timeout, "timeout", 0, "stop after this long and return the paths found (0 = no limit)")
	fl.StringVarP(&f.format, "format", "f", formatTable, "output format: table, tsv or json")
	fl.StringVarP(&f.output, "output", "o", "", "write results to file instead of stdout")
	fl.BoolVarP(&f.interactive, "interactive", "i", false, "show paths live; press q to stop early")
	fl.BoolVar(&f.noCache, "no-cache", false, "disable the result cache")
	fl.BoolVar(&f.refresh, "refresh", false, "recompute even when a cached result exists")
	fl.BoolVar(&f.fromNeo4j, "neo4j", false, "load the network from Neo4j")
	fl.StringVar(&f.neo4jQuery, "neo4j-query", "", "Cypher query returning from, to, weight and directed columns")

	return cmd
}

func (c *CLI) runPaths(cmd *cobra.Command, args []string, f runFlags) error {
	ctx := cmd.Context()

	opts := c.runOptions(cmd, f)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}
	format, err := outputFormat(f.format, f.output)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, f.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	net, err := c.loadNetwork(ctx, args, f, runner.Cache)
	if err != nil {
		return err
	}

	var res *pipeline.Result
	if f.interactive && isTerminal(os.Stdin) && isTerminal(os.Stderr) {
		res, err = runInteractive(ctx, runner, net, opts)
	} else {
		if f.interactive {
			printWarning("--interactive needs a terminal, running without live view")
		}
		res, err = runWithSpinner(ctx, runner, net, opts)
	}
	if err != nil {
		return err
	}

	switch {
	case res.Status == ksp.StatusExhausted:
		printInfo("Only %d of %d paths exist", len(res.Paths), res.K)
	case res.Partial():
		printWarning("stopped early (%s): %d of %d paths", res.Status, len(res.Paths), res.K)
	}
	return writeResult(cmd.OutOrStdout(), res, net, format, f.output)
}

// runOptions layers explicit flags over the configured run defaults.
func (c *CLI) runOptions(cmd *cobra.Command, f runFlags) pipeline.Options {
	opts := c.settings().Run.Options()
	fl := cmd.Flags()

	opts.Sources = f.sources
	opts.Targets = f.targets
	opts.TreatAsUndirected = f.undirected
	opts.AllowTrivialPaths = f.allowTrivial
	opts.Refresh = f.refresh
	opts.EdgePenalty = f.edgePenalty

	if fl.Changed("k") || opts.K == 0 {
		opts.K = f.k
	}
	if fl.Changed("weight") || opts.Weight == "" {
		opts.Weight = graph.Weighting(f.weight)
	}
	if fl.Changed("timeout") {
		opts.Timeout = f.timeout
	}
	return opts
}

// outputFormat resolves the format flag. A table cannot be written to a
// file, so an output path picks tsv or json from its extension.
func outputFormat(flag, output string) (string, error) {
	name := strings.ToLower(strings.TrimSpace(flag))
	if name == formatTable {
		if output == "" {
			return formatTable, nil
		}
		if strings.EqualFold(filepath.Ext(output), ".json") {
			return string(export.FormatJSON), nil
		}
		return string(export.FormatTSV), nil
	}
	f, err := export.ParseFormat(name)
	if err != nil {
		return "", err
	}
	return string(f), nil
}

func (c *CLI) loadNetwork(ctx context.Context, args []string, f runFlags, store cache.Cache) (*network.Network, error) {
	prog := newProgress(c.Logger)

	if f.fromNeo4j {
		if len(args) > 0 {
			return nil, errors.New(errors.ErrCodeInvalidInput, "use either a network file or --neo4j, not both")
		}
		nc := c.settings().Neo4j
		query := f.neo4jQuery
		if query == "" {
			query = nc.Query
		}
		net, err := loadNeo4jNetwork(ctx, func(ctx context.Context) (neo4j.Client, error) {
			return neo4j.NewClient(ctx, neo4j.Options{
				URI:      nc.URI,
				Database: nc.Database,
				Username: nc.Username,
				Password: nc.Password,
			})
		}, store, c.keyer(), nc.URI+"/"+nc.Database, query, f.refresh)
		if err != nil {
			return nil, err
		}
		prog.done("loaded network", "source", "neo4j", "edges", len(net.Edges))
		return net, nil
	}

	if len(args) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "a network file or --neo4j is required")
	}
	net, err := network.Import(args[0], network.EdgeListOptions{})
	if err != nil {
		return nil, err
	}
	prog.done("loaded network", "file", args[0], "edges", len(net.Edges))
	return net, nil
}

// loadNeo4jNetwork returns the network for query, from the cache when a
// fresh copy is stored there. dial is only called on a cache miss.
func loadNeo4jNetwork(
	ctx context.Context,
	dial func(context.Context) (neo4j.Client, error),
	store cache.Cache,
	keyer cache.Keyer,
	db, query string,
	refresh bool,
) (*network.Network, error) {
	loaderQuery := neo4j.NewLoader(nil, query).Query()
	key := keyer.NetworkKey("neo4j", db, loaderQuery)

	if !refresh {
		if data, ok, err := store.Get(ctx, key); err == nil && ok {
			var net network.Network
			if err := json.Unmarshal(data, &net); err == nil {
				return &net, nil
			}
		}
	}

	client, err := dial(ctx)
	if err != nil {
		return nil, err
	}
	defer client.Close(ctx)

	net, err := neo4j.NewLoader(client, loaderQuery).Load(ctx, nil)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(net); err == nil {
		_ = store.Set(ctx, key, data, cache.TTLNetwork)
	}
	return net, nil
}

func runWithSpinner(ctx context.Context, runner *pipeline.Runner, net *network.Network, opts pipeline.Options) (*pipeline.Result, error) {
	if !isTerminal(os.Stderr) {
		return runner.Execute(ctx, net, opts)
	}

	spinner := newSpinner(ctx, fmt.Sprintf("Computing %d paths", opts.K))
	spinner.Start()
	defer spinner.Stop()

	opts.Progress = func(p ksp.RankedPath) {
		spinner.SetMessage("Found %d/%d paths", p.Rank, opts.K)
	}
	return runner.Execute(ctx, net, opts)
}

func runInteractive(ctx context.Context, runner *pipeline.Runner, net *network.Network, opts pipeline.Options) (*pipeline.Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(NewRunProgressModel(opts.K, cancel), tea.WithOutput(os.Stderr))
	opts.Progress = func(rp ksp.RankedPath) { p.Send(pathMsg(rp)) }

	done := make(chan runDoneMsg, 1)
	go func() {
		res, err := runner.Execute(ctx, net, opts)
		msg := runDoneMsg{res: res, err: err}
		done <- msg
		p.Send(msg)
	}()

	if _, err := p.Run(); err != nil {
		cancel()
	}
	msg := <-done
	return msg.res, msg.err
}

func writeResult(stdout io.Writer, res *pipeline.Result, net *network.Network, format, output string) error {
	if output != "" {
		if err := export.ExportFile(output, export.Format(format), res, net); err != nil {
			return err
		}
		printSuccess("Wrote %d paths", len(res.Paths))
		printFile(output)
		return nil
	}

	if format == formatTable {
		if len(res.Paths) == 0 {
			printInfo("No paths")
		} else {
			fmt.Fprintln(stdout, pathTable(res.Paths))
		}
		printRunSummary(res)
		return nil
	}
	return export.Write(stdout, export.Format(format), res, net)
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
