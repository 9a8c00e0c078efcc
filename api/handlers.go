package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/news-search-engine/internal/engine"
	"github.com/gcbaptista/news-search-engine/internal/lexicon"
	"github.com/gcbaptista/news-search-engine/model"
)

// BasePath is the prefix of every news API route.
const BasePath = "/api/v1/news"

// API holds dependencies for API handlers, primarily the engine.
type API struct {
	engine *engine.Engine
}

// NewAPI creates a new API handler structure.
func NewAPI(eng *engine.Engine) *API {
	return &API{engine: eng}
}

// NewRouter builds a gin router with the standard middleware stack and all routes.
func NewRouter(eng *engine.Engine, logger *slog.Logger) *gin.Engine {
	router := gin.New()
	router.Use(
		gin.Recovery(),
		RequestIDMiddleware(),
		LoggerMiddleware(logger.With("component", "http")),
		CORSMiddleware(),
		RequestSizeLimitMiddleware(eng.Config().Server.MaxBodyBytes),
	)
	SetupRoutes(router, eng)
	return router
}

// SetupRoutes defines all the API routes of the news search service.
func SetupRoutes(router *gin.Engine, eng *engine.Engine) {
	apiHandler := NewAPI(eng)

	news := router.Group(BasePath)
	{
		news.GET("/health", apiHandler.HealthCheckHandler)

		searchRoutes := news.Group("/search")
		{
			searchRoutes.GET("", apiHandler.SearchHandler)
			searchRoutes.POST("", apiHandler.SearchHandler)
			searchRoutes.GET("/suggestions", apiHandler.SuggestionsHandler)
			searchRoutes.GET("/stats", apiHandler.StatsHandler)
		}

		news.GET("/categories", apiHandler.ListCategoriesHandler)

		articleRoutes := news.Group("/articles")
		{
			articleRoutes.GET("", apiHandler.ListArticlesHandler)   // Processed articles, newest first
			articleRoutes.POST("", apiHandler.CreateArticleHandler) // Ingest a raw article
			articleRoutes.GET("/latest", apiHandler.LatestArticlesHandler)
			articleRoutes.GET("/by_category/:category", apiHandler.ArticlesByCategoryHandler)
			articleRoutes.GET("/:id", apiHandler.GetArticleHandler)
		}

		news.POST("/process", apiHandler.ProcessPendingHandler)
		news.POST("/cleanup", apiHandler.CleanupHandler)

		jobRoutes := news.Group("/jobs")
		{
			jobRoutes.GET("", apiHandler.ListJobsHandler)
			jobRoutes.GET("/:jobId", apiHandler.GetJobHandler)         // Get job status by ID
			jobRoutes.GET("/metrics", apiHandler.GetJobMetricsHandler) // Get job performance metrics
		}
	}
}

// HealthCheckHandler reports whether both stores answer
func (api *API) HealthCheckHandler(c *gin.Context) {
	ctx := c.Request.Context()
	checks := gin.H{}
	healthy := true

	if err := api.engine.Articles().Ping(ctx); err != nil {
		checks["articles"] = "error: " + err.Error()
		healthy = false
	} else {
		checks["articles"] = "ok"
	}
	if err := api.engine.SearchLogs().Ping(ctx); err != nil {
		checks["search_logs"] = "error: " + err.Error()
		healthy = false
	} else {
		checks["search_logs"] = "ok"
	}

	status, code := "healthy", http.StatusOK
	if !healthy {
		status, code = "unhealthy", http.StatusServiceUnavailable
	}
	c.JSON(code, gin.H{
		"status":    status,
		"service":   "news-search-engine",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"checks":    checks,
	})
}

// ArticleListItem is the compact article representation used in lists and search results.
type ArticleListItem struct {
	ID                 string               `json:"id"`
	Title              string               `json:"title"`
	Summary            string               `json:"summary"`
	URL                string               `json:"url"`
	Author             string               `json:"author"`
	ImageURL           string               `json:"image_url"`
	CategoryName       *string              `json:"category_name"`
	CategoryDisplay    *string              `json:"category_display"`
	CategoryConfidence float64              `json:"category_confidence"`
	Keywords           []model.KeywordScore `json:"keywords"`
	PublishedAt        *time.Time           `json:"published_at"`
	ScrapedAt          time.Time            `json:"scraped_at"`
}

// ArticleDetail is the full article representation.
type ArticleDetail struct {
	ID                 string               `json:"id"`
	Title              string               `json:"title"`
	Content            string               `json:"content"`
	Summary            string               `json:"summary"`
	URL                string               `json:"url"`
	Author             string               `json:"author"`
	ImageURL           string               `json:"image_url"`
	Category           *CategoryResponse    `json:"category"`
	CategoryConfidence float64              `json:"category_confidence"`
	Keywords           []model.KeywordScore `json:"keywords"`
	KeywordsList       []string             `json:"keywords_list"`
	Entities           model.Entities       `json:"entities"`
	IsProcessed        bool                 `json:"is_processed"`
	PublishedAt        *time.Time           `json:"published_at"`
	ScrapedAt          time.Time            `json:"scraped_at"`
	CreatedAt          time.Time            `json:"created_at"`
	UpdatedAt          time.Time            `json:"updated_at"`
}

// CategoryResponse is a category together with its processed article count.
type CategoryResponse struct {
	Name         string `json:"name"`
	DisplayName  string `json:"display_name"`
	Description  string `json:"description"`
	ArticleCount int    `json:"article_count"`
}

func (api *API) lexicon() *lexicon.Lexicon {
	return api.engine.Lexicon()
}

func (api *API) toListItem(a model.Article) ArticleListItem {
	item := ArticleListItem{
		ID:                 a.ID,
		Title:              a.Title,
		Summary:            a.Summary,
		URL:                a.URL,
		Author:             a.Author,
		ImageURL:           a.ImageURL,
		CategoryConfidence: a.CategoryConfidence,
		Keywords:           nonNilKeywords(a.Keywords),
		PublishedAt:        a.PublishedAt,
		ScrapedAt:          a.ScrapedAt,
	}
	if cat, ok := api.lexicon().Lookup(a.Category); ok {
		item.CategoryName = &cat.Name
		item.CategoryDisplay = &cat.DisplayName
	}
	return item
}

func (api *API) toDetail(a model.Article) ArticleDetail {
	keywordsList := make([]string, 0, len(a.Keywords))
	for _, k := range a.Keywords {
		keywordsList = append(keywordsList, k.Word)
	}

	detail := ArticleDetail{
		ID:                 a.ID,
		Title:              a.Title,
		Content:            a.Content,
		Summary:            a.Summary,
		URL:                a.URL,
		Author:             a.Author,
		ImageURL:           a.ImageURL,
		CategoryConfidence: a.CategoryConfidence,
		Keywords:           nonNilKeywords(a.Keywords),
		KeywordsList:       keywordsList,
		Entities:           nonNilEntities(a.Entities),
		IsProcessed:        a.IsProcessed,
		PublishedAt:        a.PublishedAt,
		ScrapedAt:          a.ScrapedAt,
		CreatedAt:          a.CreatedAt,
		UpdatedAt:          a.UpdatedAt,
	}
	if cat, ok := api.lexicon().Lookup(a.Category); ok {
		detail.Category = &CategoryResponse{
			Name:        cat.Name,
			DisplayName: cat.DisplayName,
			Description: cat.Description,
		}
	}
	return detail
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
