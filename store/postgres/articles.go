package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"

	internalErrors "github.com/gcbaptista/news-search-engine/internal/errors"
	"github.com/gcbaptista/news-search-engine/internal/ranking"
	"github.com/gcbaptista/news-search-engine/model"
	"github.com/gcbaptista/news-search-engine/services"
)

// ArticleStore persists articles in Postgres.
type ArticleStore struct {
	db *DB
}

var _ services.ArticleStore = (*ArticleStore)(nil)

// NewArticleStore wires an open DB. The DB owner closes it.
func NewArticleStore(db *DB) *ArticleStore {
	return &ArticleStore{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanArticle reads the articleColumns of one row, followed by extra destinations.
func scanArticle(row rowScanner, extra ...any) (model.Article, error) {
	var (
		a         model.Article
		category  sql.NullString
		keywords  []byte
		entities  []byte
		published sql.NullTime
	)

	dest := append([]any{
		&a.ID, &a.Title, &a.Content, &a.Summary, &a.URL, &a.Author, &a.ImageURL,
		&category, &a.CategoryConfidence, &keywords, &entities,
		&published, &a.ScrapedAt, &a.IsProcessed, &a.CreatedAt, &a.UpdatedAt,
	}, extra...)
	if err := row.Scan(dest...); err != nil {
		return model.Article{}, err
	}

	a.Category = category.String
	if published.Valid {
		a.PublishedAt = &published.Time
	}
	if err := json.Unmarshal(keywords, &a.Keywords); err != nil {
		return model.Article{}, fmt.Errorf("decode keywords: %w", err)
	}
	if err := json.Unmarshal(entities, &a.Entities); err != nil {
		return model.Article{}, fmt.Errorf("decode entities: %w", err)
	}
	if a.Keywords == nil {
		a.Keywords = []model.KeywordScore{}
	}
	if a.Entities == nil {
		a.Entities = model.Entities{}
	}
	return a, nil
}

// Search runs the plan in the database.
func (r *ArticleStore) Search(ctx context.Context, plan ranking.Plan) (ranking.Page, error) {
	countSQL, countArgs, err := countQuery(plan).ToSql()
	if err != nil {
		return ranking.Page{}, fmt.Errorf("build count query: %w", err)
	}

	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return ranking.Page{}, internalErrors.NewStoreError(backend, "count matches", err)
	}

	page := ranking.Page{Hits: []model.ArticleHit{}, Total: total}
	if total == 0 || plan.Offset >= total {
		return page, nil
	}

	query, args, err := searchQuery(plan).ToSql()
	if err != nil {
		return ranking.Page{}, fmt.Errorf("build search query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return ranking.Page{}, internalErrors.NewStoreError(backend, "search articles", err)
	}
	defer rows.Close()

	for rows.Next() {
		var hit model.ArticleHit
		a, err := scanArticle(rows, &hit.SearchRank, &hit.TitleSimilarity, &hit.CombinedScore)
		if err != nil {
			return ranking.Page{}, internalErrors.NewStoreError(backend, "scan search hit", err)
		}
		hit.Article = a
		page.Hits = append(page.Hits, hit)
	}
	if err := rows.Err(); err != nil {
		return ranking.Page{}, internalErrors.NewStoreError(backend, "iterate search hits", err)
	}
	return page, nil
}

// SaveRaw inserts an unprocessed article or returns the existing one with the same URL.
func (r *ArticleStore) SaveRaw(ctx context.Context, article model.Article) (model.Article, bool, error) {
	insert := psql.Insert("articles").
		Columns("title", "content", "summary", "url", "author", "image_url", "published_at").
		Values(article.Title, article.Content, article.Summary, article.URL, article.Author, article.ImageURL, article.PublishedAt)
	if article.ID != "" {
		insert = psql.Insert("articles").
			Columns("id", "title", "content", "summary", "url", "author", "image_url", "published_at").
			Values(article.ID, article.Title, article.Content, article.Summary, article.URL, article.Author, article.ImageURL, article.PublishedAt)
	}
	query, args, err := insert.
		Suffix("ON CONFLICT (url) DO NOTHING RETURNING " + strings.Join(articleColumns, ", ")).
		ToSql()
	if err != nil {
		return model.Article{}, false, fmt.Errorf("build insert: %w", err)
	}

	saved, err := scanArticle(r.db.QueryRowContext(ctx, query, args...))
	switch {
	case err == nil:
		return saved, true, nil
	case !errors.Is(err, sql.ErrNoRows):
		return model.Article{}, false, internalErrors.NewStoreError(backend, "insert article", err)
	}

	existing, err := r.getBy(ctx, sq.Eq{"url": article.URL})
	if err != nil {
		return model.Article{}, false, err
	}
	return existing, false, nil
}

// MarkProcessed stores the analysis and makes the article searchable.
func (r *ArticleStore) MarkProcessed(ctx context.Context, id string, analysis model.Analysis) error {
	keywords, err := json.Marshal(nonNilKeywords(analysis.Keywords))
	if err != nil {
		return fmt.Errorf("encode keywords: %w", err)
	}
	entities, err := json.Marshal(nonNilEntities(analysis.Entities))
	if err != nil {
		return fmt.Errorf("encode entities: %w", err)
	}

	terms := model.Article{Keywords: analysis.Keywords}.KeywordTerms()
	update := psql.Update("articles").
		Set("category", analysis.Category).
		Set("category_confidence", analysis.CategoryConfidence).
		Set("keywords", string(keywords)).
		Set("keyword_terms", terms).
		Set("entities", string(entities)).
		Set("is_processed", true).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": id})
	if analysis.Summary != "" {
		update = update.Set("summary", analysis.Summary)
	}

	query, args, err := update.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if isInvalidText(err) {
			return internalErrors.NewArticleNotFoundError(id)
		}
		return internalErrors.NewStoreError(backend, "mark processed", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return internalErrors.NewStoreError(backend, "mark processed", err)
	}
	if n == 0 {
		return internalErrors.NewArticleNotFoundError(id)
	}
	return nil
}

// Get returns an article by ID regardless of its processing state.
func (r *ArticleStore) Get(ctx context.Context, id string) (model.Article, error) {
	a, err := r.getBy(ctx, sq.Eq{"id": id})
	if errors.Is(err, internalErrors.ErrArticleNotFound) {
		return model.Article{}, internalErrors.NewArticleNotFoundError(id)
	}
	return a, err
}

func (r *ArticleStore) getBy(ctx context.Context, where sq.Eq) (model.Article, error) {
	query, args, err := psql.Select(articleColumns...).From("articles").Where(where).ToSql()
	if err != nil {
		return model.Article{}, fmt.Errorf("build select: %w", err)
	}

	a, err := scanArticle(r.db.QueryRowContext(ctx, query, args...))
	switch {
	case errors.Is(err, sql.ErrNoRows), isInvalidText(err):
		return model.Article{}, internalErrors.ErrArticleNotFound
	case err != nil:
		return model.Article{}, internalErrors.NewStoreError(backend, "get article", err)
	}
	return a, nil
}

// List returns processed articles, newest publication first, and the total before paging.
func (r *ArticleStore) List(ctx context.Context, filter model.ArticleFilter) ([]model.Article, int, error) {
	countSQL, countArgs, err := listCountQuery(filter).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count query: %w", err)
	}
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, internalErrors.NewStoreError(backend, "count articles", err)
	}

	query, args, err := listQuery(filter).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list query: %w", err)
	}
	articles, err := r.queryArticles(ctx, query, args)
	if err != nil {
		return nil, 0, err
	}
	return articles, total, nil
}

// Pending returns up to limit unprocessed articles, oldest first.
func (r *ArticleStore) Pending(ctx context.Context, limit int) ([]model.Article, error) {
	q := psql.Select(articleColumns...).
		From("articles").
		Where(sq.Eq{"is_processed": false}).
		OrderBy("created_at", "id")
	if limit > 0 {
		q = q.Limit(uint64(limit))
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build pending query: %w", err)
	}
	return r.queryArticles(ctx, query, args)
}

func (r *ArticleStore) queryArticles(ctx context.Context, query string, args []any) ([]model.Article, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, internalErrors.NewStoreError(backend, "query articles", err)
	}
	defer rows.Close()

	articles := make([]model.Article, 0)
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, internalErrors.NewStoreError(backend, "scan article", err)
		}
		articles = append(articles, a)
	}
	if err := rows.Err(); err != nil {
		return nil, internalErrors.NewStoreError(backend, "iterate articles", err)
	}
	return articles, nil
}

// TitlesContaining returns titles of processed articles containing partial, case-insensitively.
func (r *ArticleStore) TitlesContaining(ctx context.Context, partial string, limit int) ([]string, error) {
	if limit <= 0 {
		return []string{}, nil
	}

	query, args, err := titlesQuery(partial, limit).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build titles query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, internalErrors.NewStoreError(backend, "query titles", err)
	}
	defer rows.Close()

	titles := make([]string, 0, limit)
	for rows.Next() {
		var title string
		if err := rows.Scan(&title); err != nil {
			return nil, internalErrors.NewStoreError(backend, "scan title", err)
		}
		titles = append(titles, title)
	}
	if err := rows.Err(); err != nil {
		return nil, internalErrors.NewStoreError(backend, "iterate titles", err)
	}
	return titles, nil
}

// CountByCategory counts processed articles per assigned category.
func (r *ArticleStore) CountByCategory(ctx context.Context) (map[string]int, error) {
	query, args, err := psql.Select("category", "COUNT(*)").
		From("articles").
		Where(sq.Eq{"is_processed": true}).
		Where(sq.NotEq{"category": nil}).
		GroupBy("category").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build category count: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, internalErrors.NewStoreError(backend, "count by category", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var (
			name string
			n    int
		)
		if err := rows.Scan(&name, &n); err != nil {
			return nil, internalErrors.NewStoreError(backend, "scan category count", err)
		}
		counts[name] = n
	}
	if err := rows.Err(); err != nil {
		return nil, internalErrors.NewStoreError(backend, "iterate category counts", err)
	}
	return counts, nil
}

// CountProcessed counts searchable articles.
func (r *ArticleStore) CountProcessed(ctx context.Context) (int, error) {
	return r.count(ctx, true)
}

// CountPending counts articles waiting for processing.
func (r *ArticleStore) CountPending(ctx context.Context) (int, error) {
	return r.count(ctx, false)
}

func (r *ArticleStore) count(ctx context.Context, processed bool) (int, error) {
	query, args, err := psql.Select("COUNT(*)").From("articles").Where(sq.Eq{"is_processed": processed}).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count: %w", err)
	}

	var n int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, internalErrors.NewStoreError(backend, "count articles", err)
	}
	return n, nil
}

// DeleteOlderThan removes articles published before cutoff. Undated articles are kept.
func (r *ArticleStore) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	query, args, err := psql.Delete("articles").Where(sq.Lt{"published_at": cutoff}).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build delete: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, internalErrors.NewStoreError(backend, "delete old articles", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, internalErrors.NewStoreError(backend, "delete old articles", err)
	}
	return int(n), nil
}

// Ping checks the connection.
func (r *ArticleStore) Ping(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return internalErrors.NewStoreError(backend, "ping", err)
	}
	return nil
}

// Close is a no-op; the connection pool belongs to the DB.
func (r *ArticleStore) Close() error {
	return nil
}

func nonNilKeywords(k []model.KeywordScore) []model.KeywordScore {
	if k == nil {
		return []model.KeywordScore{}
	}
	return k
}

func nonNilEntities(e model.Entities) model.Entities {
	if e == nil {
		return model.Entities{}
	}
	return e
}
