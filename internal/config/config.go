package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Store      StoreConfig      `mapstructure:"store"`
	Graph      GraphConfig      `mapstructure:"graph"`
	Vector     VectorConfig     `mapstructure:"vector"`
	Temporal   TemporalConfig   `mapstructure:"temporal"`
	Similarity SimilarityConfig `mapstructure:"similarity"`
	Telemetry  TelemetryConfig  `mapstructure:"telemetry"`
	Log        LogConfig        `mapstructure:"log"`
}

// StoreConfig points at the Supabase project holding the property table.
type StoreConfig struct {
	URL string `mapstructure:"url"`
	Key string `mapstructure:"key"`
}

type GraphConfig struct {
	URI      string `mapstructure:"uri"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

type VectorConfig struct {
	Host       string `mapstructure:"host"`
	Port       int    `mapstructure:"port"`
	Collection string `mapstructure:"collection"`
}

type TemporalConfig struct {
	Host      string `mapstructure:"host"`
	Namespace string `mapstructure:"namespace"`
	TaskQueue string `mapstructure:"task_queue"`
}

// SimilarityConfig tunes the graph build. Threshold is exclusive: a pair
// must score strictly above it to produce an edge.
type SimilarityConfig struct {
	Threshold float64 `mapstructure:"threshold"`
	Dimension int     `mapstructure:"dimension"`
}

type TelemetryConfig struct {
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	SampleRate   float64 `mapstructure:"sample_rate"`
	Environment  string  `mapstructure:"environment"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Validate checks configuration for issues and returns warnings.
func (c *Config) Validate() []string {
	var warnings []string

	if c.Store.URL != "" && c.Store.Key == "" {
		warnings = append(warnings, "store url is configured but key is empty")
	}

	// Edges require a score strictly above the threshold, so 1.0 can
	// never produce one.
	if c.Similarity.Threshold < 0 || c.Similarity.Threshold >= 1 {
		warnings = append(warnings, fmt.Sprintf("similarity threshold %.2f is outside [0.0, 1.0)", c.Similarity.Threshold))
	}

	if c.Similarity.Dimension < 0 {
		warnings = append(warnings, fmt.Sprintf("similarity dimension %d is negative", c.Similarity.Dimension))
	}

	if c.Telemetry.SampleRate < 0 || c.Telemetry.SampleRate > 1 {
		warnings = append(warnings, fmt.Sprintf("telemetry sample_rate %.2f is outside [0.0, 1.0]", c.Telemetry.SampleRate))
	}

	return warnings
}

// Every key needs a default registered for AutomaticEnv to surface it
// during Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("store.url", "")
	v.SetDefault("store.key", "")
	v.SetDefault("graph.uri", "bolt://localhost:7687")
	v.SetDefault("graph.username", "neo4j")
	v.SetDefault("graph.password", "")
	v.SetDefault("vector.host", "")
	v.SetDefault("temporal.host", "localhost:7233")
	v.SetDefault("telemetry.otlp_endpoint", "")
	v.SetDefault("similarity.threshold", 0.7)
	v.SetDefault("similarity.dimension", 384)
	v.SetDefault("vector.port", 6334)
	v.SetDefault("vector.collection", "property_embeddings")
	v.SetDefault("temporal.namespace", "default")
	v.SetDefault("temporal.task_queue", "homegraph-tasks")
	v.SetDefault("telemetry.sample_rate", 1.0)
	v.SetDefault("telemetry.environment", "development")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// Load reads configuration from file and environment. An empty path skips
// the file and uses defaults plus environment variables only.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("HOMEGRAPH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	// Validate configuration and print warnings
	if warnings := cfg.Validate(); len(warnings) > 0 {
		for _, warning := range warnings {
			fmt.Fprintf(os.Stderr, "Warning: %s\n", warning)
		}
	}

	return &cfg, nil
}
