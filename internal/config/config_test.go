package config

import (
	"strings"
	"testing"
)

func TestValidate_Empty(t *testing.T) {
	cfg := &Config{Telemetry: TelemetryConfig{SampleRate: 1.0}}
	warnings := cfg.Validate()
	if len(warnings) != 0 {
		t.Errorf("empty config should have no warnings, got %v", warnings)
	}
}

func TestValidate_MissingStoreKey(t *testing.T) {
	cfg := &Config{
		Store:     StoreConfig{URL: "https://example.supabase.co"},
		Telemetry: TelemetryConfig{SampleRate: 1.0},
	}
	warnings := cfg.Validate()
	found := false
	for _, w := range warnings {
		if strings.Contains(w, "key") {
			found = true
			break
		}
	}
	if !found {
		t.Error("expected warning about missing store key")
	}
}

func TestValidate_Threshold(t *testing.T) {
	tests := []struct {
		name      string
		threshold float64
		want      bool // true = should warn
	}{
		{"zero", 0, false},
		{"default", 0.7, false},
		{"just_below_one", 0.99, false},
		{"one_never_matches_strict_greater", 1.0, true},
		{"negative", -0.5, true},
		{"too_high", 1.5, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				Similarity: SimilarityConfig{Threshold: tt.threshold},
				Telemetry:  TelemetryConfig{SampleRate: 1.0},
			}
			warnings := cfg.Validate()
			hasWarn := false
			for _, w := range warnings {
				if strings.Contains(w, "threshold") {
					hasWarn = true
				}
			}
			if hasWarn != tt.want {
				t.Errorf("threshold=%.1f: hasWarn=%v, want=%v", tt.threshold, hasWarn, tt.want)
			}
		})
	}
}

func TestValidate_NegativeDimension(t *testing.T) {
	cfg := &Config{
		Similarity: SimilarityConfig{Dimension: -384},
		Telemetry:  TelemetryConfig{SampleRate: 1.0},
	}
	warnings := cfg.Validate()
	found := false
	for _, w := range warnings {
		if strings.Contains(w, "dimension") {
			found = true
		}
	}
	if !found {
		t.Error("expected warning about negative dimension")
	}
}

func TestValidate_SampleRate(t *testing.T) {
	cfg := &Config{Telemetry: TelemetryConfig{SampleRate: 2.0}}
	warnings := cfg.Validate()
	found := false
	for _, w := range warnings {
		if strings.Contains(w, "sample_rate") {
			found = true
		}
	}
	if !found {
		t.Error("expected warning about sample_rate")
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Similarity.Threshold != 0.7 {
		t.Errorf("default threshold = %v, want 0.7", cfg.Similarity.Threshold)
	}
	if cfg.Similarity.Dimension != 384 {
		t.Errorf("default dimension = %d, want 384", cfg.Similarity.Dimension)
	}
	if cfg.Temporal.TaskQueue != "homegraph-tasks" {
		t.Errorf("default task queue = %q, want homegraph-tasks", cfg.Temporal.TaskQueue)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("HOMEGRAPH_SIMILARITY_THRESHOLD", "0.85")
	t.Setenv("HOMEGRAPH_LOG_LEVEL", "debug")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Similarity.Threshold != 0.85 {
		t.Errorf("threshold = %v, want 0.85 from env", cfg.Similarity.Threshold)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("log level = %q, want debug from env", cfg.Log.Level)
	}
}
