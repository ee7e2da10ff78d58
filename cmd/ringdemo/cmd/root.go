package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/fpmgraph/analysis"
	"github.com/katalvlaran/fpmgraph/balance"
	"github.com/katalvlaran/fpmgraph/builder"
	"github.com/katalvlaran/fpmgraph/config"
	"github.com/katalvlaran/fpmgraph/datapack"
	"github.com/katalvlaran/fpmgraph/distributed"
	"github.com/katalvlaran/fpmgraph/graph"
	"github.com/katalvlaran/fpmgraph/id"
	"github.com/katalvlaran/fpmgraph/mpi"
	"github.com/katalvlaran/fpmgraph/sync/ghost"
	"github.com/katalvlaran/fpmgraph/sync/hard"
	"github.com/katalvlaran/fpmgraph/syncmode"
)

var (
	ranks        int
	nodesPerRank int
	degree       int
	topology     string
	rewireProb   float64
	syncModeFlag string
	seed         int64
	asJSON       bool
	verbose      bool
)

// rootCmd is ringdemo's only command: build, distribute, and report.
var rootCmd = &cobra.Command{
	Use:   "ringdemo",
	Short: "Runs the distributed labelled-multigraph pipeline over an in-process cluster",
	Long: `ringdemo builds a small topology independently on every rank of an
in-process mpi.LocalCluster, balances ownership across ranks, runs one
Distribute migration round, and reports degree and clustering statistics
for the resulting graph — exercising builder, balance, distributed, and
analysis together the way scenario S1 does in the test suite.`,
	RunE: runDemo,
}

func init() {
	rootCmd.Flags().IntVar(&ranks, "ranks", 4, "number of simulated MPI ranks")
	rootCmd.Flags().IntVar(&nodesPerRank, "nodes-per-rank", 8, "nodes each rank builds locally before distribution")
	rootCmd.Flags().IntVar(&degree, "degree", 2, "out-degree per node")
	rootCmd.Flags().StringVar(&topology, "topology", "small-world", "topology: uniform-random | small-world")
	rootCmd.Flags().Float64Var(&rewireProb, "rewire-prob", 0.1, "small-world rewiring probability")
	rootCmd.Flags().StringVar(&syncModeFlag, "sync-mode", "ghost", "synchronization mode: ghost | hard")
	rootCmd.Flags().Int64Var(&seed, "seed", 1, "deterministic RNG seed")
	rootCmd.Flags().BoolVar(&asJSON, "json", false, "emit the final per-rank summary via datapack's JSONCodec instead of text")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug-level logging")
}

// Execute runs ringdemo's root command.
func Execute() error {
	return rootCmd.Execute()
}

// rankSummary is the demo's own sample payload for datapack.JSONCodec —
// a debug/export view distinct from the wire ObjectPack format.
type rankSummary struct {
	Rank                  int32   `json:"rank"`
	LocalNodes            int     `json:"local_nodes"`
	AverageOutDegree      float64 `json:"average_out_degree"`
	ClusteringCoefficient float64 `json:"clustering_coefficient"`
}

// runOnAllRanks runs fn concurrently for every rank and returns the
// first error reported, the way Distribute's synchronous collectives
// require every rank to call in together.
func runOnAllRanks(n int, fn func(r int) error) error {
	errs := make(chan error, n)
	for r := 0; r < n; r++ {
		r := r
		go func() { errs <- fn(r) }()
	}
	var first error
	for i := 0; i < n; i++ {
		if err := <-errs; err != nil && first == nil {
			first = err
		}
	}
	return first
}

func runDemo(cmd *cobra.Command, _ []string) error {
	if ranks < 1 {
		return fmt.Errorf("ringdemo: --ranks must be >= 1, got %d", ranks)
	}

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	mode := config.Ghost
	if syncModeFlag == string(config.Hard) {
		mode = config.Hard
	}

	comms := mpi.NewLocalCluster(int32(ranks))
	graphs := make([]*distributed.Graph[string], ranks)
	pumpStops := make([]chan struct{}, ranks)
	var hardModes []*hard.Mode[string]

	for r := 0; r < ranks; r++ {
		cfg, err := config.New(int32(r), int32(ranks),
			config.WithSyncMode(mode),
			config.WithPartitionSeed(seed),
		)
		if err != nil {
			return fmt.Errorf("ringdemo: config.New: %w", err)
		}

		var sm syncmode.Mode[string]
		switch cfg.SyncMode {
		case config.Hard:
			hm := hard.New[string](comms[r])
			hardModes = append(hardModes, hm)
			sm = hm
		default:
			sm = ghost.New[string](comms[r])
		}

		dg := distributed.New[string](comms[r], sm, distributed.WithLogger(logger.With("rank", r)))
		switch m := sm.(type) {
		case *hard.Mode[string]:
			m.SetHost(dg)
		case *ghost.Mode[string]:
			m.SetHost(dg)
		}
		graphs[r] = dg
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	for i, hm := range hardModes {
		hm := hm
		stop := make(chan struct{})
		pumpStops[i] = stop
		go func() {
			for {
				select {
				case <-stop:
					return
				default:
				}
				_ = hm.Pump(ctx)
			}
		}()
	}

	if err := runOnAllRanks(ranks, func(r int) error {
		return buildLocalTopology(graphs[r], r, int64(seed)+int64(r))
	}); err != nil {
		return err
	}

	partitions := make([]map[id.DistributedId]int32, ranks)
	balancer := balance.RoundRobin[string]{Size: int32(ranks)}
	for r := 0; r < ranks; r++ {
		local := make(map[id.DistributedId]*graph.Node[string])
		for _, n := range graphs[r].Locations().LocalNodes() {
			local[n.Id] = n
		}
		partition, err := balancer.Balance(local, nil)
		if err != nil {
			return fmt.Errorf("ringdemo: Balance: %w", err)
		}
		partitions[r] = partition
	}

	if err := runOnAllRanks(ranks, func(r int) error {
		return graphs[r].Distribute(ctx, partitions[r])
	}); err != nil {
		return err
	}

	if mode == config.Hard && len(hardModes) > 0 {
		if err := hardModes[0].DetectTermination(ctx); err != nil {
			return fmt.Errorf("ringdemo: DetectTermination: %w", err)
		}
		logger.Info("ringdemo: hard-sync token ring confirmed cluster idle")
	}

	for _, stop := range pumpStops {
		if stop != nil {
			close(stop)
		}
	}
	cancel()

	summaries := make([]rankSummary, ranks)
	for r := 0; r < ranks; r++ {
		nodes := graphs[r].Locations().LocalNodes()
		summaries[r] = rankSummary{
			Rank:                  int32(r),
			LocalNodes:            len(nodes),
			AverageOutDegree:      analysis.AverageOutDegree(nodes, 0),
			ClusteringCoefficient: analysis.GlobalClusteringCoefficient(graphs[r].Underlying(), nodes, 0),
		}
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].Rank < summaries[j].Rank })

	return report(summaries)
}

// buildLocalTopology runs the configured GraphBuilder over dg, entirely
// among nodes this rank itself creates.
func buildLocalTopology(dg *distributed.Graph[string], rank int, seed int64) error {
	r := rand.New(rand.NewSource(seed))
	nb := builder.FuncNodeBuilder[string](func(n int) []string {
		labels := make([]string, n)
		for i := range labels {
			labels[i] = fmt.Sprintf("r%d-n%d", rank, i)
		}
		return labels
	})

	var gb builder.GraphBuilder[string]
	switch topology {
	case "uniform-random":
		gb = builder.UniformRandom[string]{N: nodesPerRank, K: degree, Rand: r}
	default:
		gb = builder.SmallWorld[string]{N: nodesPerRank, K: degree, P: rewireProb, Rand: r}
	}

	if err := gb.Build(dg, nb); err != nil {
		return fmt.Errorf("ringdemo: rank %d: Build: %w", rank, err)
	}
	return nil
}

func report(summaries []rankSummary) error {
	if asJSON {
		codec := datapack.DefaultJSONCodec[[]rankSummary]()
		b, err := codec.EncodeJSON(summaries)
		if err != nil {
			return fmt.Errorf("ringdemo: EncodeJSON: %w", err)
		}
		fmt.Println(string(b))
		return nil
	}

	fmt.Println("rank  nodes  avg-out-degree  clustering")
	for _, s := range summaries {
		fmt.Printf("%4d  %5d  %14.3f  %10.3f\n", s.Rank, s.LocalNodes, s.AverageOutDegree, s.ClusteringCoefficient)
	}
	return nil
}
