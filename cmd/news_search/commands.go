package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/urfave/cli/v2"

	"github.com/gcbaptista/news-search-engine/api"
	"github.com/gcbaptista/news-search-engine/config"
	"github.com/gcbaptista/news-search-engine/internal/engine"
	"github.com/gcbaptista/news-search-engine/internal/ranking"
	"github.com/gcbaptista/news-search-engine/services"
)

const shutdownTimeout = 10 * time.Second

func openEngine(ctx context.Context, c *cli.Context) (*engine.Engine, error) {
	eng, err := engine.New(ctx, appConfig(c), appLogger(c))
	if err != nil {
		return nil, fmt.Errorf("failed to start engine: %w", err)
	}
	return eng, nil
}

func serveCommand(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := appConfig(c)
	logger := appLogger(c)
	port := cfg.Server.Port
	if p := c.Int("port"); p != 0 {
		if p < 0 || p > 65535 {
			return fmt.Errorf("port %d is out of range", p)
		}
		port = p
	}

	eng, err := openEngine(ctx, c)
	if err != nil {
		return err
	}
	defer func() {
		if err := eng.Close(); err != nil {
			logger.Error("error closing engine", "err", err)
		}
	}()

	go eng.RunPeriodicProcessing(ctx, cfg.Processing.Interval)

	gin.SetMode(gin.ReleaseMode)
	server := &http.Server{
		Addr:              ":" + strconv.Itoa(port),
		Handler:           api.NewRouter(eng, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("starting server", "port", port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func processCommand(c *cli.Context) error {
	ctx := c.Context
	batchSize := c.Int("batch-size")
	if batchSize <= 0 {
		batchSize = appConfig(c).Processing.BatchSize
	}

	eng, err := openEngine(ctx, c)
	if err != nil {
		return err
	}
	defer eng.Close()

	logger := appLogger(c)
	report, err := eng.Processor().ProcessPending(ctx, batchSize, func(done, total int) {
		logger.Debug("progress", "done", done, "total", total)
	})
	if err != nil {
		return fmt.Errorf("process pending articles: %w", err)
	}

	fmt.Fprintf(c.App.Writer, "processed: %d\nfailed: %d\npending: %d\n",
		report.Processed, report.Failed, report.Pending)
	return nil
}

func cleanupCommand(c *cli.Context) error {
	ctx := c.Context
	days := c.Int("days")
	if days <= 0 {
		days = appConfig(c).Retention.Days
	}

	eng, err := openEngine(ctx, c)
	if err != nil {
		return err
	}
	defer eng.Close()

	deleted, err := eng.Processor().CleanupOlderThan(ctx, days)
	if err != nil {
		return fmt.Errorf("clean up old articles: %w", err)
	}

	fmt.Fprintf(c.App.Writer, "deleted %d articles older than %d days\n", deleted, days)
	return nil
}

func migrateCommand(c *cli.Context) error {
	cfg := appConfig(c)
	if !cfg.UsesPostgres() {
		return fmt.Errorf("no postgres backend configured; set storage.articles or storage.search_logs to %q", config.BackendPostgres)
	}

	// engine.New migrates the schema whenever postgres is in use
	eng, err := openEngine(c.Context, c)
	if err != nil {
		return err
	}
	defer eng.Close()

	fmt.Fprintf(c.App.Writer, "schema up to date, %d categories seeded\n", eng.Lexicon().Len())
	return nil
}

func searchCommand(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("a query is required")
	}
	ctx := c.Context

	eng, err := openEngine(ctx, c)
	if err != nil {
		return err
	}
	defer eng.Close()

	result, err := eng.Search().Search(ctx, services.SearchQuery{
		Query:    strings.Join(c.Args().Slice(), " "),
		Category: c.String("category"),
		Page:     c.Int("page"),
		PageSize: c.Int("page-size"),
		SortBy:   ranking.SortOrder(c.String("sort")),
	})
	if err != nil {
		return err
	}

	out := c.App.Writer
	if result.DetectedCategory != "" {
		fmt.Fprintf(out, "category: %s (confidence %.2f)\n", result.DetectedCategory, result.CategoryConfidence)
	}
	fmt.Fprintf(out, "%d results in %dms\n\n", result.TotalCount, result.ExecutionTimeMs)

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SCORE\tRANK\tSIMILARITY\tCATEGORY\tTITLE")
	for _, hit := range result.Articles {
		fmt.Fprintf(tw, "%.4f\t%.4f\t%.4f\t%s\t%s\n",
			hit.CombinedScore, hit.SearchRank, hit.TitleSimilarity, hit.Article.Category, hit.Article.Title)
	}
	return tw.Flush()
}
