package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	temporalclient "go.temporal.io/sdk/client"

	"github.com/realagent/homegraph/internal/config"
	"github.com/realagent/homegraph/internal/geo"
	"github.com/realagent/homegraph/internal/graph/neo4j"
	"github.com/realagent/homegraph/internal/observability"
	"github.com/realagent/homegraph/internal/reconcile"
	"github.com/realagent/homegraph/internal/similarity"
	"github.com/realagent/homegraph/internal/store/supabase"
	temporalmod "github.com/realagent/homegraph/internal/temporal"
	"github.com/realagent/homegraph/internal/vector"
)

func main() {
	var (
		configPath string
		jsonReport bool
	)

	rootCmd := &cobra.Command{
		Use:   "homegraph",
		Short: "Derived-data jobs for property listings: location labels and the similarity graph",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// .env is optional; real deployments configure the environment
			_ = godotenv.Load()
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file path (optional)")
	rootCmd.PersistentFlags().BoolVar(&jsonReport, "json", false, "Output run summary as JSON")

	reconcileCmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Resolve listing coordinates and rewrite stale city/state labels",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReconcile(cmd.Context(), configPath, jsonReport)
		},
	}

	var (
		threshold float64
		useIndex  bool
		dryRun    bool
	)
	graphCmd := &cobra.Command{
		Use:   "graph",
		Short: "Build SIMILAR_TO edges from listing embeddings",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGraph(cmd.Context(), configPath, threshold, useIndex, dryRun, jsonReport)
		},
	}
	graphCmd.Flags().Float64Var(&threshold, "threshold", 0, "Similarity threshold override (0 = configured value)")
	graphCmd.Flags().BoolVar(&useIndex, "use-index", false, "Enumerate candidates via the vector index")
	graphCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Compute edges without writing to the graph")

	resolveCmd := &cobra.Command{
		Use:   "resolve LAT LNG",
		Short: "Resolve a coordinate pair against the region tables",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(args[0], args[1])
		},
	}

	indexCmd := &cobra.Command{
		Use:   "index",
		Short: "Mirror listing embeddings into the vector index",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIndex(cmd.Context(), configPath)
		},
	}

	var workflow string
	triggerCmd := &cobra.Command{
		Use:   "trigger",
		Short: "Start a workflow on the Temporal task queue",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrigger(cmd.Context(), configPath, workflow, threshold, useIndex)
		},
	}
	triggerCmd.Flags().StringVar(&workflow, "workflow", "refresh", "Workflow to start: reconcile, graph, or refresh")
	triggerCmd.Flags().Float64Var(&threshold, "threshold", 0, "Similarity threshold override (0 = configured value)")
	triggerCmd.Flags().BoolVar(&useIndex, "use-index", false, "Enumerate candidates via the vector index")

	rootCmd.AddCommand(reconcileCmd, graphCmd, resolveCmd, indexCmd, triggerCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func loadConfig(path string) (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, err
	}

	level := slog.LevelInfo
	switch cfg.Log.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Log.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	log := slog.New(handler)
	slog.SetDefault(log)
	return cfg, log, nil
}

func newStore(cfg *config.Config) (*supabase.Repository, error) {
	if cfg.Store.URL == "" {
		return nil, fmt.Errorf("store url not configured (HOMEGRAPH_STORE_URL)")
	}
	return supabase.New(cfg.Store.URL, cfg.Store.Key)
}

func runReconcile(ctx context.Context, configPath string, jsonReport bool) error {
	cfg, log, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	st, err := newStore(cfg)
	if err != nil {
		return err
	}

	tp, err := observability.InitTracing(ctx, tracingConfig(cfg))
	if err != nil {
		return err
	}
	defer tp.Shutdown(ctx)

	summary, err := reconcile.New(st, nil, log).Run(ctx)
	if err != nil {
		return err
	}
	return report(summary, jsonReport)
}

func runGraph(ctx context.Context, configPath string, threshold float64, useIndex, dryRun, jsonReport bool) error {
	cfg, log, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	st, err := newStore(cfg)
	if err != nil {
		return err
	}

	tp, err := observability.InitTracing(ctx, tracingConfig(cfg))
	if err != nil {
		return err
	}
	defer tp.Shutdown(ctx)

	b := similarity.NewBuilder()
	b.Threshold = cfg.Similarity.Threshold
	b.Dimension = cfg.Similarity.Dimension
	b.Logger = log
	if threshold != 0 {
		b.Threshold = threshold
	}

	if useIndex {
		vec, err := vector.NewQdrant(ctx, cfg.Vector.Host, cfg.Vector.Port, cfg.Vector.Collection)
		if err != nil {
			return err
		}
		defer vec.Close()
		b.Source = vector.NewCandidateSource(vec, 0, log)
	}

	if dryRun {
		listings, err := st.FetchWithEmbeddings(ctx)
		if err != nil {
			return err
		}
		edges, stats := b.BuildEdges(listings)
		fmt.Printf("dry run: %d listings, %d comparisons, %d edges above %.2f\n",
			len(listings), stats.Comparisons, len(edges), b.Threshold)
		for _, e := range edges {
			fmt.Printf("  %s -[%s %.4f]- %s\n", e.SourceID, e.Type, e.Score, e.TargetID)
		}
		return nil
	}

	edges, err := neo4j.NewEdgeRepository(ctx, cfg.Graph.URI, cfg.Graph.Username, cfg.Graph.Password)
	if err != nil {
		return err
	}
	defer edges.Close(ctx)

	summary, err := similarity.NewRunner(st, edges, b, log).Run(ctx)
	if err != nil {
		return err
	}
	return report(summary, jsonReport)
}

func runResolve(latArg, lngArg string) error {
	lat, err := strconv.ParseFloat(latArg, 64)
	if err != nil {
		return fmt.Errorf("latitude %q: %w", latArg, err)
	}
	lng, err := strconv.ParseFloat(lngArg, 64)
	if err != nil {
		return fmt.Errorf("longitude %q: %w", lngArg, err)
	}

	loc, err := geo.NewDefaultResolver().Resolve(lat, lng)
	if err != nil {
		return err
	}
	if loc.Metro != "" {
		fmt.Printf("%s, %s (%s)\n", loc.City, loc.State, loc.Metro)
	} else {
		fmt.Printf("%s, %s\n", loc.City, loc.State)
	}
	return nil
}

func runIndex(ctx context.Context, configPath string) error {
	cfg, log, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	st, err := newStore(cfg)
	if err != nil {
		return err
	}
	vec, err := vector.NewQdrant(ctx, cfg.Vector.Host, cfg.Vector.Port, cfg.Vector.Collection)
	if err != nil {
		return err
	}
	defer vec.Close()

	n, err := vector.NewMirror(st, vec, log).Sync(ctx, cfg.Similarity.Dimension)
	if err != nil {
		return err
	}
	fmt.Printf("Mirrored %d embeddings into %s\n", n, cfg.Vector.Collection)
	return nil
}

func runTrigger(ctx context.Context, configPath, workflow string, threshold float64, useIndex bool) error {
	cfg, _, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	c, err := temporalclient.Dial(temporalclient.Options{
		HostPort:  cfg.Temporal.Host,
		Namespace: cfg.Temporal.Namespace,
	})
	if err != nil {
		return fmt.Errorf("temporal client: %w", err)
	}
	defer c.Close()

	opts := temporalclient.StartWorkflowOptions{
		ID:        fmt.Sprintf("homegraph-%s-%d", workflow, time.Now().Unix()),
		TaskQueue: cfg.Temporal.TaskQueue,
	}
	input := temporalmod.GraphInput{Threshold: threshold, UseIndex: useIndex}

	var run temporalclient.WorkflowRun
	switch workflow {
	case "reconcile":
		run, err = c.ExecuteWorkflow(ctx, opts, temporalmod.ReconcileLocationsWorkflow)
	case "graph":
		run, err = c.ExecuteWorkflow(ctx, opts, temporalmod.SimilarityGraphWorkflow, input)
	case "refresh":
		run, err = c.ExecuteWorkflow(ctx, opts, temporalmod.RefreshWorkflow, input)
	default:
		return fmt.Errorf("unknown workflow %q (want reconcile, graph, or refresh)", workflow)
	}
	if err != nil {
		return fmt.Errorf("start workflow: %w", err)
	}

	fmt.Printf("Started %s workflow: %s (run %s)\n", workflow, run.GetID(), run.GetRunID())
	return nil
}

func tracingConfig(cfg *config.Config) *observability.TracingConfig {
	tc := observability.DefaultTracingConfig()
	tc.OTLPEndpoint = cfg.Telemetry.OTLPEndpoint
	tc.SampleRate = cfg.Telemetry.SampleRate
	tc.Environment = cfg.Telemetry.Environment
	return tc
}

// runSummary is implemented by both run summary types.
type runSummary interface {
	JSON() ([]byte, error)
	PrintSummary(w io.Writer)
}

func report(s runSummary, jsonReport bool) error {
	if jsonReport {
		data, err := s.JSON()
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}
	s.PrintSummary(os.Stdout)
	return nil
}
