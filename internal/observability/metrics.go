package observability

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// JobCollector bundles Prometheus metrics for the batch jobs and exposes a
// ready-to-use /metrics handler.
type JobCollector struct {
	gatherer prometheus.Gatherer

	RunsTotal    *prometheus.CounterVec
	RunDurations *prometheus.HistogramVec

	LocationsUpdated   prometheus.Counter
	LocationsUnchanged prometheus.Counter
	InvalidCoordinates prometheus.Counter
	FailedUpdates      prometheus.Counter

	EdgesCreated   prometheus.Counter
	EdgesDuplicate prometheus.Counter
	FailedInserts  prometheus.Counter
	Comparisons    prometheus.Counter
}

// NewJobCollector registers job metrics against the provided registerer,
// defaulting to the global Prometheus registry when nil.
func NewJobCollector(reg prometheus.Registerer) (*JobCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "homegraph_runs_total",
		Help: "Total number of batch runs, labeled by job and outcome.",
	}, []string{"job", "outcome"})
	runs, err := registerCounterVec(reg, runs, "homegraph_runs_total")
	if err != nil {
		return nil, err
	}

	durations := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "homegraph_run_duration_seconds",
		Help:    "Batch run duration in seconds.",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
	}, []string{"job"})
	durations, err = registerHistogramVec(reg, durations, "homegraph_run_duration_seconds")
	if err != nil {
		return nil, err
	}

	c := &JobCollector{
		gatherer:     gatherer,
		RunsTotal:    runs,
		RunDurations: durations,
	}

	counters := []struct {
		target *prometheus.Counter
		name   string
		help   string
	}{
		{&c.LocationsUpdated, "homegraph_locations_updated_total", "Listings whose city/state was rewritten."},
		{&c.LocationsUnchanged, "homegraph_locations_unchanged_total", "Listings whose resolved location already matched."},
		{&c.InvalidCoordinates, "homegraph_invalid_coordinates_total", "Listings skipped for out-of-domain or non-finite coordinates."},
		{&c.FailedUpdates, "homegraph_failed_updates_total", "Location updates that failed after retries."},
		{&c.EdgesCreated, "homegraph_edges_created_total", "Similarity edges created."},
		{&c.EdgesDuplicate, "homegraph_edges_duplicate_total", "Similarity edge inserts that matched an existing edge."},
		{&c.FailedInserts, "homegraph_failed_inserts_total", "Edge inserts that failed after retries."},
		{&c.Comparisons, "homegraph_comparisons_total", "Embedding pairs compared."},
	}
	for _, def := range counters {
		counter, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
			Name: def.name,
			Help: def.help,
		}), def.name)
		if err != nil {
			return nil, err
		}
		*def.target = counter
	}

	return c, nil
}

// Handler exposes a ready-to-use /metrics handler.
func (c *JobCollector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// ObserveReconcile folds a reconciliation run into the collector.
func (c *JobCollector) ObserveReconcile(updated, unchanged, invalid, failed int, seconds float64, err error) {
	if c == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	c.RunsTotal.WithLabelValues("reconcile", outcome).Inc()
	c.RunDurations.WithLabelValues("reconcile").Observe(seconds)
	c.LocationsUpdated.Add(float64(updated))
	c.LocationsUnchanged.Add(float64(unchanged))
	c.InvalidCoordinates.Add(float64(invalid))
	c.FailedUpdates.Add(float64(failed))
}

// ObserveGraphBuild folds a similarity-graph run into the collector.
func (c *JobCollector) ObserveGraphBuild(comparisons, created, duplicate, failed int, seconds float64, err error) {
	if c == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	c.RunsTotal.WithLabelValues("graph", outcome).Inc()
	c.RunDurations.WithLabelValues("graph").Observe(seconds)
	c.Comparisons.Add(float64(comparisons))
	c.EdgesCreated.Add(float64(created))
	c.EdgesDuplicate.Add(float64(duplicate))
	c.FailedInserts.Add(float64(failed))
}

func registerCounter(reg prometheus.Registerer, counter prometheus.Counter, name string) (prometheus.Counter, error) {
	if err := reg.Register(counter); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return counter, nil
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogramVec(reg prometheus.Registerer, vec *prometheus.HistogramVec, name string) (*prometheus.HistogramVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}
