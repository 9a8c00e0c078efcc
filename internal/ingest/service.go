// Package ingest stores raw articles coming from feeds, scrapers or the API,
// ready for the processing pipeline.
package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	internalErrors "github.com/gcbaptista/news-search-engine/internal/errors"
	"github.com/gcbaptista/news-search-engine/model"
)

// RawArticle is an article as delivered by a source. Content and Summary may be HTML.
type RawArticle struct {
	Title       string     `json:"title"`
	Content     string     `json:"content"`
	Summary     string     `json:"summary"`
	URL         string     `json:"url"`
	Author      string     `json:"author"`
	ImageURL    string     `json:"image_url"`
	PublishedAt *time.Time `json:"published_at"`
}

// Writer is the part of the article store ingestion writes to.
type Writer interface {
	SaveRaw(ctx context.Context, article model.Article) (model.Article, bool, error)
}

// Service validates, cleans and stores raw articles.
type Service struct {
	store  Writer
	logger *slog.Logger
}

// NewService creates an ingestion service. logger may be nil.
func NewService(store Writer, logger *slog.Logger) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("article store cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, logger: logger.With("component", "ingest")}, nil
}

// Validate checks the fields every stored article needs.
func (raw RawArticle) Validate() error {
	if strings.TrimSpace(raw.Title) == "" {
		return internalErrors.NewValidationError("title", "title is required")
	}
	if strings.TrimSpace(raw.URL) == "" {
		return internalErrors.NewValidationError("url", "url is required")
	}
	u, err := url.Parse(strings.TrimSpace(raw.URL))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return internalErrors.NewValidationError("url", "url must be an absolute http(s) URL")
	}
	if raw.ImageURL != "" {
		if u, err := url.Parse(raw.ImageURL); err != nil || u.Host == "" {
			return internalErrors.NewValidationError("image_url", "image_url must be an absolute URL")
		}
	}
	return nil
}

// SaveRaw stores raw as an unprocessed article. When an article with the same URL
// exists it is returned with created == false and nothing is written.
func (s *Service) SaveRaw(ctx context.Context, raw RawArticle) (model.Article, bool, error) {
	if err := raw.Validate(); err != nil {
		return model.Article{}, false, err
	}

	content, err := cleanText(raw.Content)
	if err != nil {
		return model.Article{}, false, fmt.Errorf("extract content text: %w", err)
	}
	summary, err := cleanText(raw.Summary)
	if err != nil {
		return model.Article{}, false, fmt.Errorf("extract summary text: %w", err)
	}

	article := model.Article{
		ID:          uuid.NewString(),
		Title:       normalizeSpace(raw.Title),
		Content:     content,
		Summary:     summary,
		URL:         strings.TrimSpace(raw.URL),
		Author:      strings.TrimSpace(raw.Author),
		ImageURL:    strings.TrimSpace(raw.ImageURL),
		PublishedAt: raw.PublishedAt,
		ScrapedAt:   time.Now().UTC(),
	}

	saved, created, err := s.store.SaveRaw(ctx, article)
	if err != nil {
		return model.Article{}, false, fmt.Errorf("save article: %w", err)
	}
	if created {
		s.logger.Debug("saved raw article", "article_id", saved.ID, "url", saved.URL)
	} else {
		s.logger.Debug("duplicate article", "url", saved.URL)
	}
	return saved, created, nil
}

func cleanText(s string) (string, error) {
	if !LooksLikeHTML(s) {
		return strings.TrimSpace(s), nil
	}
	return HTMLToText(s)
}
