// Package postgres implements the article and search-log stores on PostgreSQL.
// Ranking is done by the database: a weighted tsvector column scored with
// ts_rank against websearch_to_tsquery, and pg_trgm similarity on titles.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	internalErrors "github.com/gcbaptista/news-search-engine/internal/errors"
	"github.com/gcbaptista/news-search-engine/internal/lexicon"
)

const backend = "postgres"

// psql builds statements with $n placeholders.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// DB is a PostgreSQL connection pool shared by the article and search-log stores.
type DB struct {
	*sql.DB
}

// Open connects to dsn and verifies the connection.
func Open(ctx context.Context, dsn string) (*DB, error) {
	sqlDB, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close() // Close error less important than ping error
		return nil, internalErrors.NewStoreError(backend, "connect", err)
	}
	return &DB{DB: sqlDB}, nil
}

// Migrate creates the schema if missing and seeds the categories of lex.
// Existing categories are left untouched.
func (db *DB) Migrate(ctx context.Context, lex *lexicon.Lexicon) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return internalErrors.NewStoreError(backend, "create schema", err)
	}

	query, args, err := seedCategoriesQuery(lex).ToSql()
	if err != nil {
		return fmt.Errorf("build category seed: %w", err)
	}
	if _, err := db.ExecContext(ctx, query, args...); err != nil {
		return internalErrors.NewStoreError(backend, "seed categories", err)
	}
	return nil
}

func seedCategoriesQuery(lex *lexicon.Lexicon) sq.InsertBuilder {
	insert := psql.Insert("categories").Columns("name", "display_name", "description", "keywords")
	for _, c := range lex.Categories() {
		insert = insert.Values(c.Name, c.DisplayName, c.Description, pq.StringArray(c.Keywords))
	}
	return insert.Suffix("ON CONFLICT (name) DO NOTHING")
}

// isInvalidText reports whether err is Postgres rejecting a malformed literal,
// such as an article ID that is not a UUID.
func isInvalidText(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "22P02"
}
