package postgres

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	internalErrors "github.com/gcbaptista/news-search-engine/internal/errors"
	"github.com/gcbaptista/news-search-engine/model"
	"github.com/gcbaptista/news-search-engine/services"
)

// SearchLogStore appends executed searches to the search_queries table.
type SearchLogStore struct {
	db *DB
}

var _ services.SearchLogStore = (*SearchLogStore)(nil)

// NewSearchLogStore wires an open DB. The DB owner closes it.
func NewSearchLogStore(db *DB) *SearchLogStore {
	return &SearchLogStore{db: db}
}

func appendQuery(entry model.SearchLogEntry) sq.InsertBuilder {
	var category sql.NullString
	if entry.DetectedCategory != "" {
		category = sql.NullString{String: entry.DetectedCategory, Valid: true}
	}

	columns := []string{"query", "detected_category", "results_count", "execution_time_ms"}
	values := []any{entry.Query, category, entry.ResultsCount, entry.ExecutionTimeMs}
	if entry.ID != "" {
		columns = append(columns, "id")
		values = append(values, entry.ID)
	}
	if !entry.CreatedAt.IsZero() {
		columns = append(columns, "created_at")
		values = append(values, entry.CreatedAt)
	}
	return psql.Insert("search_queries").Columns(columns...).Values(values...)
}

func suggestionsQuery(partial string, limit int) sq.SelectBuilder {
	return psql.Select("query").
		From("search_queries").
		Where(sq.Expr(`query ILIKE ? ESCAPE '\'`, "%"+escapeLike(partial)+"%")).
		GroupBy("query").
		OrderBy("MAX(created_at) DESC", "query").
		Limit(uint64(limit))
}

func popularQuery(limit int) sq.SelectBuilder {
	return psql.Select("query", "COUNT(*) AS cnt").
		From("search_queries").
		GroupBy("query").
		OrderBy("cnt DESC", "query").
		Limit(uint64(limit))
}

// Append records an executed search.
func (s *SearchLogStore) Append(ctx context.Context, entry model.SearchLogEntry) error {
	query, args, err := appendQuery(entry).ToSql()
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

	query, args, err := suggestionsQuery(partial, limit).ToSql()
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

	query, args, err := popularQuery(limit).ToSql()
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

// Ping checks the connection.
func (s *SearchLogStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return internalErrors.NewStoreError(backend, "ping", err)
	}
	return nil
}

// Close is a no-op; the connection pool belongs to the DB.
func (s *SearchLogStore) Close() error {
	return nil
}

