package main

import (
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/gcbaptista/news-search-engine/config"
	"github.com/gcbaptista/news-search-engine/internal/logging"
)

const (
	configKey = "config"
	loggerKey = "logger"
)

func main() {
	_ = godotenv.Load()

	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "news_search",
		Usage: "News categorization and search service",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to YAML config file (defaults to $NEWS_SEARCH_CONFIG)",
			},
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Override logging level (debug, info, warn, error)",
			},
			&cli.StringFlag{
				Name:  "log-format",
				Usage: "Override logging format (text, json)",
			},
		},
		Before: setup,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP API",
				Action: serveCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "port",
						Aliases: []string{"p"},
						Usage:   "Port to listen on (overrides server.port)",
					},
				},
			},
			{
				Name:   "process",
				Usage:  "Categorize and extract keywords for pending articles",
				Action: processCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of pending articles to process (overrides processing.batch_size)",
					},
				},
			},
			{
				Name:   "cleanup",
				Usage:  "Delete articles published before the retention window",
				Action: cleanupCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "days",
						Usage: "Retention in days (overrides retention.days)",
					},
				},
			},
			{
				Name:   "migrate",
				Usage:  "Create the postgres schema and seed categories",
				Action: migrateCommand,
			},
			{
				Name:      "search",
				Usage:     "Run a search and print the ranked results",
				ArgsUsage: "<query>",
				Action:    searchCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "category",
						Usage: "Restrict results to a category instead of auto-detecting one",
					},
					&cli.IntFlag{
						Name:  "page",
						Usage: "Result page",
						Value: 1,
					},
					&cli.IntFlag{
						Name:  "page-size",
						Usage: "Results per page",
						Value: 10,
					},
					&cli.StringFlag{
						Name:  "sort",
						Usage: "Sort order (relevance, date, -date)",
						Value: "relevance",
					},
				},
			},
		},
	}
}

// setup loads the configuration, applies the logging flags and stores both in
// the app metadata for the commands.
func setup(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		var invalid *config.InvalidError
		if errors.As(err, &invalid) {
			return fmt.Errorf("invalid configuration:\n  %s", strings.Join(invalid.Problems, "\n  "))
		}
		return err
	}

	if level := c.String("log-level"); level != "" {
		switch strings.ToLower(level) {
		case "debug", "info", "warn", "error":
		default:
			return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", level)
		}
		cfg.Logging.Level = level
	}
	if format := c.String("log-format"); format != "" {
		cfg.Logging.Format = format
	}

	logger := logging.NewWithWriter(os.Stderr, cfg.Logging.Level, cfg.Logging.Format)
	slog.SetDefault(logger)

	c.App.Metadata = map[string]interface{}{
		configKey: cfg,
		loggerKey: logger,
	}
	return nil
}

func appConfig(c *cli.Context) config.Config {
	return c.App.Metadata[configKey].(config.Config)
}

func appLogger(c *cli.Context) *slog.Logger {
	return c.App.Metadata[loggerKey].(*slog.Logger)
}
