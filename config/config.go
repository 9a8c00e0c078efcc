package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	configPathEnv     = "NEWS_SEARCH_CONFIG"
	databaseDSNEnv    = "DATABASE_DSN"
	portEnv           = "NEWS_SEARCH_PORT"
	logLevelEnv       = "NEWS_SEARCH_LOG_LEVEL"
	logFormatEnv      = "NEWS_SEARCH_LOG_FORMAT"
	articleStoreEnv   = "NEWS_SEARCH_ARTICLE_STORE"
	searchLogStoreEnv = "NEWS_SEARCH_SEARCH_LOG_STORE"
	sqlitePathEnv     = "NEWS_SEARCH_SQLITE_PATH"
	snapshotDirEnv    = "NEWS_SEARCH_SNAPSHOT_DIR"
	workersEnv        = "NEWS_SEARCH_WORKERS"
	batchSizeEnv      = "NEWS_SEARCH_BATCH_SIZE"
	retentionDaysEnv  = "NEWS_SEARCH_RETENTION_DAYS"
)

// Load builds the configuration from defaults, the YAML file at path and the
// environment, in that order. An empty path falls back to $NEWS_SEARCH_CONFIG;
// when neither is set only defaults and environment apply.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv(configPathEnv)
	}
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return Config{}, err
	}

	if problems := cfg.Validate(); len(problems) > 0 {
		return Config{}, &InvalidError{Problems: problems}
	}
	return cfg, nil
}

// InvalidError lists every problem found by Validate.
type InvalidError struct {
	Problems []string
}

func (e *InvalidError) Error() string {
	return "invalid configuration: " + strings.Join(e.Problems, "; ")
}

// IsInvalid reports whether err is an InvalidError.
func IsInvalid(err error) bool {
	var target *InvalidError
	return errors.As(err, &target)
}

func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv(databaseDSNEnv); v != "" {
		c.Storage.PostgresDSN = v
	}
	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv(logFormatEnv); v != "" {
		c.Logging.Format = v
	}
	if v := os.Getenv(articleStoreEnv); v != "" {
		c.Storage.Articles = v
	}
	if v := os.Getenv(searchLogStoreEnv); v != "" {
		c.Storage.SearchLogs = v
	}
	if v := os.Getenv(sqlitePathEnv); v != "" {
		c.Storage.SQLitePath = v
	}
	if v := os.Getenv(snapshotDirEnv); v != "" {
		c.Storage.SnapshotDir = v
	}

	ints := []struct {
		env    string
		target *int
	}{
		{portEnv, &c.Server.Port},
		{workersEnv, &c.Processing.Workers},
		{batchSizeEnv, &c.Processing.BatchSize},
		{retentionDaysEnv, &c.Retention.Days},
	}
	for _, o := range ints {
		v := os.Getenv(o.env)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %q is not an integer", o.env, v)
		}
		*o.target = n
	}
	return nil
}
