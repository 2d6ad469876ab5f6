// Package metrics collects per-run statistics for the batch jobs and
// renders the operator-facing summary report.
package metrics

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
)

// ReconcileSummary describes one location-reconciliation run.
type ReconcileSummary struct {
	RunID        string        `json:"run_id"`
	TableVersion string        `json:"table_version"`
	StartedAt    time.Time     `json:"started_at"`
	FinishedAt   time.Time     `json:"finished_at,omitempty"`
	Duration     time.Duration `json:"duration_ms,omitempty"`

	Examined           int      `json:"examined"`
	Updated            int      `json:"updated"`
	Unchanged          int      `json:"unchanged"`
	MissingCoordinates int      `json:"missing_coordinates"`
	InvalidCoordinates []string `json:"invalid_coordinates,omitempty"`
	FailedUpdates      []string `json:"failed_updates,omitempty"`
}

// NewReconcileSummary starts tracking a reconciliation run.
func NewReconcileSummary(tableVersion string) *ReconcileSummary {
	return &ReconcileSummary{
		RunID:        uuid.NewString(),
		TableVersion: tableVersion,
		StartedAt:    time.Now(),
	}
}

// Finish marks the run as complete.
func (s *ReconcileSummary) Finish() {
	s.FinishedAt = time.Now()
	s.Duration = s.FinishedAt.Sub(s.StartedAt)
}

// JSON returns the summary as formatted JSON.
func (s *ReconcileSummary) JSON() ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

// PrintSummary writes a human-readable report.
func (s *ReconcileSummary) PrintSummary(w io.Writer) {
	fmt.Fprintf(w, "\n=== Location Reconciliation %s ===\n", s.RunID)
	fmt.Fprintf(w, "  Table version:       %s\n", s.TableVersion)
	fmt.Fprintf(w, "  Duration:            %s\n", s.Duration.Round(time.Millisecond))
	fmt.Fprintf(w, "  Examined:            %d\n", s.Examined)
	fmt.Fprintf(w, "  Updated:             %d\n", s.Updated)
	fmt.Fprintf(w, "  Unchanged:           %d\n", s.Unchanged)
	fmt.Fprintf(w, "  Missing coordinates: %d\n", s.MissingCoordinates)
	fmt.Fprintf(w, "  Invalid coordinates: %d\n", len(s.InvalidCoordinates))
	for _, id := range s.InvalidCoordinates {
		fmt.Fprintf(w, "    - %s\n", id)
	}
	fmt.Fprintf(w, "  Failed updates:      %d\n", len(s.FailedUpdates))
	for _, id := range s.FailedUpdates {
		fmt.Fprintf(w, "    - %s\n", id)
	}
}

// GraphSummary describes one similarity-graph build run.
type GraphSummary struct {
	RunID      string        `json:"run_id"`
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at,omitempty"`
	Duration   time.Duration `json:"duration_ms,omitempty"`

	Threshold                float64  `json:"threshold"`
	Listings                 int      `json:"listings"`
	SkippedMissingEmbedding  int      `json:"skipped_missing_embedding"`
	SkippedDimensionMismatch int      `json:"skipped_dimension_mismatch"`
	Comparisons              int      `json:"comparisons"`
	EdgesCreated             int      `json:"edges_created"`
	EdgesDuplicate           int      `json:"edges_duplicate"`
	FailedInserts            []string `json:"failed_inserts,omitempty"`
}

// NewGraphSummary starts tracking a graph-build run.
func NewGraphSummary(threshold float64) *GraphSummary {
	return &GraphSummary{
		RunID:     uuid.NewString(),
		Threshold: threshold,
		StartedAt: time.Now(),
	}
}

// Finish marks the run as complete.
func (s *GraphSummary) Finish() {
	s.FinishedAt = time.Now()
	s.Duration = s.FinishedAt.Sub(s.StartedAt)
}

// JSON returns the summary as formatted JSON.
func (s *GraphSummary) JSON() ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

// PrintSummary writes a human-readable report.
func (s *GraphSummary) PrintSummary(w io.Writer) {
	fmt.Fprintf(w, "\n=== Similarity Graph %s ===\n", s.RunID)
	fmt.Fprintf(w, "  Threshold:          %.2f\n", s.Threshold)
	fmt.Fprintf(w, "  Duration:           %s\n", s.Duration.Round(time.Millisecond))
	fmt.Fprintf(w, "  Listings fetched:   %d\n", s.Listings)
	fmt.Fprintf(w, "  Missing embedding:  %d\n", s.SkippedMissingEmbedding)
	fmt.Fprintf(w, "  Dimension mismatch: %d\n", s.SkippedDimensionMismatch)
	fmt.Fprintf(w, "  Comparisons:        %d\n", s.Comparisons)
	fmt.Fprintf(w, "  Edges created:      %d\n", s.EdgesCreated)
	fmt.Fprintf(w, "  Edges duplicate:    %d\n", s.EdgesDuplicate)
	fmt.Fprintf(w, "  Failed inserts:     %d\n", len(s.FailedInserts))
	for _, id := range s.FailedInserts {
		fmt.Fprintf(w, "    - %s\n", id)
	}
}
