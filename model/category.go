package model

// Category is one of the fixed news categories.
type Category struct {
	Name        string   `json:"name"`
	DisplayName string   `json:"display_name"`
	Description string   `json:"description"`
	Keywords    []string `json:"keywords"`
}

// Categorization is the outcome of category detection.
// An empty Category means no category was detected.
type Categorization struct {
	Category   string  `json:"category,omitempty"`
	Confidence float64 `json:"confidence"`
}

// Detected reports whether a category was assigned.
func (c Categorization) Detected() bool {
	return c.Category != ""
}
