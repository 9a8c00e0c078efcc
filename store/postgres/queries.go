package postgres

import (
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/gcbaptista/news-search-engine/internal/ranking"
	"github.com/gcbaptista/news-search-engine/model"
)

// articleColumns are selected, in this order, by every article query and read by scanArticle.
var articleColumns = []string{
	"id", "title", "content", "summary", "url", "author", "image_url",
	"category", "category_confidence", "keywords", "entities",
	"published_at", "scraped_at", "is_processed", "created_at", "updated_at",
}

func orderBy(order ranking.SortOrder) []string {
	switch order {
	case ranking.SortDate:
		return []string{"published_at ASC", "combined_score DESC", "id"}
	case ranking.SortDateDesc:
		return []string{"published_at DESC", "combined_score DESC", "id"}
	default:
		return []string{"combined_score DESC", "published_at DESC", "id"}
	}
}

// scoredQuery computes both ranking signals for every processed article in the plan's category.
func scoredQuery(plan ranking.Plan) sq.SelectBuilder {
	q := sq.Select(articleColumns...).
		Column(sq.Expr("ts_rank(search_vector, websearch_to_tsquery('english', ?)) AS search_rank", plan.Query)).
		Column(sq.Expr("similarity(title, ?) AS title_similarity", plan.Query)).
		From("articles").
		Where(sq.Eq{"is_processed": true})
	if plan.Category != "" {
		q = q.Where(sq.Eq{"category": plan.Category})
	}
	return q
}

func eligible(plan ranking.Plan) sq.Or {
	return sq.Or{
		sq.Gt{"search_rank": plan.Thresholds.MinRank},
		sq.Gt{"title_similarity": plan.Thresholds.MinSimilarity},
	}
}

// searchQuery returns the requested page of matches with their combined score.
func searchQuery(plan ranking.Plan) sq.SelectBuilder {
	q := psql.Select(articleColumns...).
		Columns("search_rank", "title_similarity").
		Column(sq.Expr("search_rank * ? + title_similarity * ? AS combined_score", plan.Weights.Rank, plan.Weights.Similarity)).
		FromSelect(scoredQuery(plan), "scored").
		Where(eligible(plan)).
		OrderBy(orderBy(plan.Sort)...)
	if plan.Limit > 0 {
		q = q.Limit(uint64(plan.Limit))
	}
	if plan.Offset > 0 {
		q = q.Offset(uint64(plan.Offset))
	}
	return q
}

// countQuery counts all matches of the plan, ignoring the page window.
func countQuery(plan ranking.Plan) sq.SelectBuilder {
	return psql.Select("COUNT(*)").
		FromSelect(scoredQuery(plan), "scored").
		Where(eligible(plan))
}

func processedFilter(category string) sq.And {
	cond := sq.And{sq.Eq{"is_processed": true}}
	if category != "" {
		cond = append(cond, sq.Eq{"category": category})
	}
	return cond
}

func listQuery(filter model.ArticleFilter) sq.SelectBuilder {
	q := psql.Select(articleColumns...).
		From("articles").
		Where(processedFilter(filter.Category)).
		OrderBy("published_at DESC", "id")
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}
	return q
}

func listCountQuery(filter model.ArticleFilter) sq.SelectBuilder {
	return psql.Select("COUNT(*)").From("articles").Where(processedFilter(filter.Category))
}

func titlesQuery(partial string, limit int) sq.SelectBuilder {
	return psql.Select("title").
		From("articles").
		Where(sq.Eq{"is_processed": true}).
		Where(sq.Expr(`title ILIKE ? ESCAPE '\'`, "%"+escapeLike(partial)+"%")).
		OrderBy("published_at DESC", "id").
		Limit(uint64(limit))
}

// escapeLike escapes LIKE wildcards so partial matches literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
