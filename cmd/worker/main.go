package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	temporalclient "go.temporal.io/sdk/client"

	"github.com/realagent/homegraph/internal/config"
	"github.com/realagent/homegraph/internal/graph/neo4j"
	"github.com/realagent/homegraph/internal/observability"
	"github.com/realagent/homegraph/internal/server"
	"github.com/realagent/homegraph/internal/store/supabase"
	temporalmod "github.com/realagent/homegraph/internal/temporal"
	"github.com/realagent/homegraph/internal/vector"
)

const version = "0.1.0"

func main() {
	_ = godotenv.Load()

	configPath := ""
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := newLogger(cfg)
	slog.SetDefault(logger)

	ctx := context.Background()

	tp, err := observability.InitTracing(ctx, &observability.TracingConfig{
		ServiceName:    "homegraph-worker",
		ServiceVersion: version,
		Environment:    cfg.Telemetry.Environment,
		OTLPEndpoint:   cfg.Telemetry.OTLPEndpoint,
		SampleRate:     cfg.Telemetry.SampleRate,
	})
	if err != nil {
		log.Fatalf("tracing: %v", err)
	}

	st, err := supabase.New(cfg.Store.URL, cfg.Store.Key)
	if err != nil {
		log.Fatalf("store: %v", err)
	}

	edges, err := neo4j.NewEdgeRepository(ctx, cfg.Graph.URI, cfg.Graph.Username, cfg.Graph.Password)
	if err != nil {
		log.Fatalf("graph: %v", err)
	}

	// The vector index is optional; without it the builder falls back to
	// the brute-force pair scan.
	var vec vector.Repository
	if cfg.Vector.Host != "" {
		qdrant, err := vector.NewQdrant(ctx, cfg.Vector.Host, cfg.Vector.Port, cfg.Vector.Collection)
		if err != nil {
			log.Fatalf("vector: %v", err)
		}
		vec = qdrant
	}

	collector, err := observability.NewJobCollector(nil)
	if err != nil {
		log.Fatalf("metrics: %v", err)
	}

	temporalmod.SetDependencies(&temporalmod.Dependencies{
		Store:     st,
		Edges:     edges,
		Vector:    vec,
		Metrics:   collector,
		Threshold: cfg.Similarity.Threshold,
		Dimension: cfg.Similarity.Dimension,
		Log:       logger,
	})

	c, err := temporalclient.Dial(temporalclient.Options{
		HostPort:  cfg.Temporal.Host,
		Namespace: cfg.Temporal.Namespace,
	})
	if err != nil {
		log.Fatalf("temporal client: %v", err)
	}

	w, err := temporalmod.StartWorker(c, cfg.Temporal.TaskQueue)
	if err != nil {
		log.Fatalf("worker: %v", err)
	}
	logger.Info("worker started", "task_queue", cfg.Temporal.TaskQueue)

	g := server.NewGracefulServer(&server.HealthConfig{Version: version}, nil)
	g.Health.Mount("/metrics", collector.Handler())
	g.Health.RegisterCheck("store", server.StoreHealthChecker(st.Ping))
	g.Health.RegisterCheck("graph", server.GraphHealthChecker(edges.VerifyConnectivity))
	if vec != nil {
		g.Health.RegisterCheck("vector", server.VectorHealthChecker(func(ctx context.Context) error {
			return vec.EnsureCollection(ctx, cfg.Similarity.Dimension)
		}))
	}
	g.Health.RegisterCheck("temporal", server.TemporalHealthChecker(func(ctx context.Context) error {
		_, err := c.CheckHealth(ctx, &temporalclient.CheckHealthRequest{})
		return err
	}))

	hook := server.TemporalWorkerShutdownHook(w.Stop)
	g.RegisterHook(hook.Name, hook.Priority, hook.Fn)
	hook = server.TracingShutdownHook(tp.Shutdown)
	g.RegisterHook(hook.Name, hook.Priority, hook.Fn)
	hook = server.GraphShutdownHook(edges.Close)
	g.RegisterHook(hook.Name, hook.Priority, hook.Fn)
	if vec != nil {
		hook = server.VectorShutdownHook(vec.Close)
		g.RegisterHook(hook.Name, hook.Priority, hook.Fn)
	}
	g.RegisterHook("temporal-client", 91, func(ctx context.Context) error {
		c.Close()
		return nil
	})

	if err := g.Start(":8080"); err != nil {
		log.Fatalf("server: %v", err)
	}
	g.Wait()
	fmt.Println("Worker stopped")
}

func newLogger(cfg *config.Config) *slog.Logger {
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
	if cfg.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}
