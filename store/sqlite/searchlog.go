// Package sqlite stores the search log in an embedded SQLite database, for
// deployments that keep articles in memory but want the log to survive restarts.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	internalErrors "github.com/gcbaptista/news-search-engine/internal/errors"
	"github.com/gcbaptista/news-search-engine/model"
	"github.com/gcbaptista/news-search-engine/services"
)

const backend = "sqlite"

const schema = `
CREATE TABLE IF NOT EXISTS search_queries (
	id                TEXT PRIMARY KEY,
	query             TEXT NOT NULL,
	detected_category TEXT,
	results_count     INTEGER NOT NULL DEFAULT 0,
	execution_time_ms INTEGER NOT NULL DEFAULT 0,
	created_at        INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_search_queries_created_at ON search_queries(created_at);
CREATE INDEX IF NOT EXISTS idx_search_queries_query ON search_queries(query);
`

var _ services.SearchLogStore = (*SearchLogStore)(nil)

// SearchLogStore implements services.SearchLogStore on SQLite.
type SearchLogStore struct {
	db   *sql.DB
	path string
}

// openDB opens a SQLite database at the given path
func openDB(dbPath string) (*sql.DB, error) {
	sqlDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// a single connection serialises writers and keeps ":memory:" databases shared
	sqlDB.SetMaxOpenConns(1)
	return sqlDB, nil
}

// Open opens or creates the database at path and ensures the schema exists.
func Open(path string) (*SearchLogStore, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
			return nil, fmt.Errorf("failed to create directory for %s: %w", path, err)
		}
	}

	sqlDB, err := openDB(path)
	if err != nil {
		return nil, err
	}

	s := &SearchLogStore{db: sqlDB, path: path}
	if err := s.InitSchema(context.Background()); err != nil {
		_ = sqlDB.Close() // Close error less important than schema error
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

// InitSchema creates the search log table and its indexes if missing.
func (s *SearchLogStore) InitSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// Path returns the database file path
func (s *SearchLogStore) Path() string {
	return s.path
}

// Append records an executed search.
func (s *SearchLogStore) Append(ctx context.Context, entry model.SearchLogEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	var category sql.NullString
	if entry.DetectedCategory != "" {
		category = sql.NullString{String: entry.DetectedCategory, Valid: true}
	}

	query, args, err := sq.Insert("search_queries").
		Columns("id", "query", "detected_category", "results_count", "execution_time_ms", "created_at").
		Values(entry.ID, entry.Query, category, entry.ResultsCount, entry.ExecutionTimeMs, entry.CreatedAt.UnixMilli()).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return internalErrors.NewStoreError(backend, "append search log", err)
	}
	return nil
}

// DistinctQueriesContaining returns distinct queries containing partial, most recently used first.
func (s *SearchLogStore) DistinctQueriesContaining(ctx context.Context, partial string, limit int) ([]string, error) {
	if limit <= 0 {
		return []string{}, nil
	}

	query, args, err := sq.Select("query").
		From("search_queries").
		Where(sq.Expr(`LOWER(query) LIKE ? ESCAPE '\'`, "%"+escapeLike(strings.ToLower(partial))+"%")).
		GroupBy("query").
		OrderBy("MAX(created_at) DESC", "query").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build suggestions query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, internalErrors.NewStoreError(backend, "query suggestions", err)
	}
	defer rows.Close()

	queries := make([]string, 0, limit)
	for rows.Next() {
		var q string
		if err := rows.Scan(&q); err != nil {
			return nil, internalErrors.NewStoreError(backend, "scan suggestion", err)
		}
		queries = append(queries, q)
	}
	if err := rows.Err(); err != nil {
		return nil, internalErrors.NewStoreError(backend, "iterate suggestions", err)
	}
	return queries, nil
}

// PopularQueries returns the most frequently logged queries, ties broken alphabetically.
func (s *SearchLogStore) PopularQueries(ctx context.Context, limit int) ([]model.PopularSearch, error) {
	if limit <= 0 {
		return []model.PopularSearch{}, nil
	}

	query, args, err := sq.Select("query", "COUNT(*) AS cnt").
		From("search_queries").
		GroupBy("query").
		OrderBy("cnt DESC", "query").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build popular query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, internalErrors.NewStoreError(backend, "query popular searches", err)
	}
	defer rows.Close()

	popular := make([]model.PopularSearch, 0, limit)
	for rows.Next() {
		var p model.PopularSearch
		if err := rows.Scan(&p.Query, &p.Count); err != nil {
			return nil, internalErrors.NewStoreError(backend, "scan popular search", err)
		}
		popular = append(popular, p)
	}
	if err := rows.Err(); err != nil {
		return nil, internalErrors.NewStoreError(backend, "iterate popular searches", err)
	}
	return popular, nil
}

// Count returns the number of logged searches.
func (s *SearchLogStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM search_queries").Scan(&n); err != nil {
		return 0, internalErrors.NewStoreError(backend, "count searches", err)
	}
	return n, nil
}

// Ping checks the database connection.
func (s *SearchLogStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return internalErrors.NewStoreError(backend, "ping", err)
	}
	return nil
}

// Close closes the database.
func (s *SearchLogStore) Close() error {
	return s.db.Close()
}

// escapeLike escapes LIKE wildcards so partial matches literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
