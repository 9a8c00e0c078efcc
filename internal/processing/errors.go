package processing

import "errors"

var (
	// ErrArticleStoreRequired is returned when an article store is not provided.
	ErrArticleStoreRequired = errors.New("article store required")

	// ErrAnalyzerRequired is returned when an analyzer is not provided.
	ErrAnalyzerRequired = errors.New("analyzer required")

	// ErrDetectorRequired is returned when a category detector is not provided.
	ErrDetectorRequired = errors.New("category detector required")
)
