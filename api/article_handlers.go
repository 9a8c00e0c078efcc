package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	internalErrors "github.com/gcbaptista/news-search-engine/internal/errors"
	"github.com/gcbaptista/news-search-engine/internal/ingest"
	"github.com/gcbaptista/news-search-engine/model"
)

const latestArticlesCount = 10

// ArticleListRequest holds the query parameters of article listings
type ArticleListRequest struct {
	Category string `form:"category"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

// ListArticlesHandler lists processed articles, newest first, optionally in one category
func (api *API) ListArticlesHandler(c *gin.Context) {
	var req ArticleListRequest
	if result := ValidateQueryBinding(c, &req); result.HasErrors() {
		SendValidationError(c, result)
		return
	}
	api.listArticles(c, req)
}

// ArticlesByCategoryHandler lists processed articles of the category in the path
func (api *API) ArticlesByCategoryHandler(c *gin.Context) {
	var req ArticleListRequest
	if result := ValidateQueryBinding(c, &req); result.HasErrors() {
		SendValidationError(c, result)
		return
	}
	req.Category = c.Param("category")
	api.listArticles(c, req)
}

func (api *API) listArticles(c *gin.Context, req ArticleListRequest) {
	page, pageSize, _ := ValidatePagination(req.Page, req.PageSize)

	articles, total, err := api.engine.Articles().List(c.Request.Context(), model.ArticleFilter{
		Category: req.Category,
		Offset:   (page - 1) * pageSize,
		Limit:    pageSize,
	})
	if err != nil {
		_ = c.Error(err)
		SendStoreError(c, "list articles", err)
		return
	}

	items := make([]ArticleListItem, 0, len(articles))
	for _, a := range articles {
		items = append(items, api.toListItem(a))
	}

	c.JSON(http.StatusOK, gin.H{
		"results":   items,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
		"pages":     (total + pageSize - 1) / pageSize,
	})
}

// LatestArticlesHandler returns the 10 most recently published processed articles
func (api *API) LatestArticlesHandler(c *gin.Context) {
	articles, _, err := api.engine.Articles().List(c.Request.Context(), model.ArticleFilter{Limit: latestArticlesCount})
	if err != nil {
		_ = c.Error(err)
		SendStoreError(c, "list latest articles", err)
		return
	}

	items := make([]ArticleListItem, 0, len(articles))
	for _, a := range articles {
		items = append(items, api.toListItem(a))
	}
	c.JSON(http.StatusOK, items)
}

// GetArticleHandler retrieves a specific article by ID
func (api *API) GetArticleHandler(c *gin.Context) {
	articleID := c.Param("id")
	if result := ValidateArticleID(articleID); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	article, err := api.engine.Articles().Get(c.Request.Context(), articleID)
	if err != nil {
		if errors.Is(err, internalErrors.ErrArticleNotFound) {
			SendArticleNotFoundError(c, articleID)
			return
		}
		_ = c.Error(err)
		SendStoreError(c, "get article", err)
		return
	}

	c.JSON(http.StatusOK, api.toDetail(article))
}

// CreateArticleHandler ingests a raw article. A new article answers 201; an
// article whose URL is already stored answers 200 with the stored copy.
func (api *API) CreateArticleHandler(c *gin.Context) {
	var raw ingest.RawArticle
	if err := c.ShouldBindJSON(&raw); err != nil {
		SendInvalidJSONError(c, err)
		return
	}

	article, created, err := api.engine.Ingest().SaveRaw(c.Request.Context(), raw)
	if err != nil {
		var validationErr *internalErrors.ValidationError
		if errors.As(err, &validationErr) {
			result := &ValidationResult{Valid: true}
			result.AddError(validationErr.Field, validationErr.Message)
			SendValidationError(c, result)
			return
		}
		_ = c.Error(err)
		SendStoreError(c, "save article", err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{
		"created": created,
		"article": api.toDetail(article),
	})
}
