// Package config provides the configuration of the news search service.
// It defines storage backends, search ranking parameters, categorizer tuning
// and processing options.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/gcbaptista/news-search-engine/internal/categorizer"
	"github.com/gcbaptista/news-search-engine/internal/ranking"
)

// Storage backend names.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
)

// Config is the complete service configuration.
type Config struct {
	Server      ServerConfig       `yaml:"server"`
	Logging     LoggingConfig      `yaml:"logging"`
	Storage     StorageConfig      `yaml:"storage"`
	Search      SearchConfig       `yaml:"search"`
	Categorizer categorizer.Tuning `yaml:"categorizer"`
	Processing  ProcessingConfig   `yaml:"processing"`
	Retention   RetentionConfig    `yaml:"retention"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port         int   `yaml:"port"`
	MaxBodyBytes int64 `yaml:"max_body_bytes"`
	JobWorkers   int   `yaml:"job_workers"`
}

// LoggingConfig selects the slog level and handler.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
}

// StorageConfig chooses where articles and the search log live.
type StorageConfig struct {
	Articles    string `yaml:"articles"`    // postgres or memory
	SearchLogs  string `yaml:"search_logs"` // postgres, sqlite or memory
	PostgresDSN string `yaml:"postgres_dsn"`
	SQLitePath  string `yaml:"sqlite_path"`
	SnapshotDir string `yaml:"snapshot_dir"` // gob snapshots of the memory article store; empty disables them
}

// SearchConfig holds page sizes and the ranking parameters.
type SearchConfig struct {
	DefaultPageSize int                `yaml:"default_page_size"`
	MaxPageSize     int                `yaml:"max_page_size"`
	Weights         ranking.Weights    `yaml:"weights"`
	Thresholds      ranking.Thresholds `yaml:"thresholds"`
}

// ProcessingConfig configures the batch processing pipeline.
type ProcessingConfig struct {
	BatchSize   int           `yaml:"batch_size"`
	Workers     int           `yaml:"workers"`
	MaxKeywords int           `yaml:"max_keywords"`
	Interval    time.Duration `yaml:"interval"` // 0 disables periodic processing in serve
}

// RetentionConfig configures cleanup of old articles.
type RetentionConfig struct {
	Days int `yaml:"days"`
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:         8080,
			MaxBodyBytes: 10 << 20,
			JobWorkers:   2,
		},
		Logging: LoggingConfig{Level: "info", Format: "text"},
		Storage: StorageConfig{
			Articles:   BackendMemory,
			SearchLogs: BackendMemory,
			SQLitePath: "data/search_log.db",
		},
		Search: SearchConfig{
			DefaultPageSize: 20,
			MaxPageSize:     100,
			Weights:         ranking.DefaultWeights(),
			Thresholds:      ranking.DefaultThresholds(),
		},
		Categorizer: categorizer.DefaultTuning(),
		Processing: ProcessingConfig{
			BatchSize:   10,
			Workers:     4,
			MaxKeywords: 10,
		},
		Retention: RetentionConfig{Days: 90},
	}
}

// Validate checks the configuration and returns one message per problem.
func (c *Config) Validate() []string {
	var problems []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		problems = append(problems, fmt.Sprintf("server.port %d is out of range", c.Server.Port))
	}

	switch c.Storage.Articles {
	case BackendMemory, BackendPostgres:
	default:
		problems = append(problems, "storage.articles must be 'memory' or 'postgres', got '"+c.Storage.Articles+"'")
	}
	switch c.Storage.SearchLogs {
	case BackendMemory, BackendPostgres, BackendSQLite:
	default:
		problems = append(problems, "storage.search_logs must be 'memory', 'postgres' or 'sqlite', got '"+c.Storage.SearchLogs+"'")
	}
	if c.UsesPostgres() && strings.TrimSpace(c.Storage.PostgresDSN) == "" {
		problems = append(problems, "storage.postgres_dsn is required when a postgres backend is selected")
	}
	if c.Storage.SearchLogs == BackendSQLite && strings.TrimSpace(c.Storage.SQLitePath) == "" {
		problems = append(problems, "storage.sqlite_path is required when search_logs is 'sqlite'")
	}

	if c.Search.DefaultPageSize < 1 || c.Search.DefaultPageSize > c.Search.MaxPageSize {
		problems = append(problems, "search.default_page_size must be between 1 and search.max_page_size")
	}
	if c.Search.Weights.Rank < 0 || c.Search.Weights.Similarity < 0 {
		problems = append(problems, "search.weights must not be negative")
	}

	if c.Categorizer.SaturationMatches < 1 {
		problems = append(problems, "categorizer.saturation_matches must be at least 1")
	}
	if c.Categorizer.QueryThreshold < 0 || c.Categorizer.QueryThreshold > 1 {
		problems = append(problems, "categorizer.query_threshold must be within [0, 1]")
	}

	if c.Processing.BatchSize < 1 {
		problems = append(problems, "processing.batch_size must be at least 1")
	}
	if c.Processing.Workers < 1 {
		problems = append(problems, "processing.workers must be at least 1")
	}
	if c.Retention.Days < 1 {
		problems = append(problems, "retention.days must be at least 1")
	}

	return problems
}

// UsesPostgres reports whether any store is backed by postgres.
func (c *Config) UsesPostgres() bool {
	return c.Storage.Articles == BackendPostgres || c.Storage.SearchLogs == BackendPostgres
}
