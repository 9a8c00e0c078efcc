package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// StatsHandler returns popular searches, per-category counts and totals
func (api *API) StatsHandler(c *gin.Context) {
	stats, err := api.engine.Analytics().Stats(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		SendStoreError(c, "retrieve search statistics", err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// ListCategoriesHandler lists every category in priority order with its article count
func (api *API) ListCategoriesHandler(c *gin.Context) {
	stats, err := api.engine.Analytics().CategoryStats(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		SendStoreError(c, "list categories", err)
		return
	}

	categories := make([]CategoryResponse, 0, len(stats))
	for _, stat := range stats {
		cat, _ := api.lexicon().Lookup(stat.Name)
		categories = append(categories, CategoryResponse{
			Name:         stat.Name,
			DisplayName:  stat.DisplayName,
			Description:  cat.Description,
			ArticleCount: stat.ArticleCount,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"categories": categories,
		"total":      len(categories),
	})
}
