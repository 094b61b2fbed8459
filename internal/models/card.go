// ABOUTME: Generated card and magnet models for the canvas
// ABOUTME: Mirrors the card schema returned by the card generation prompt
package models

import "math"

// WidgetType is the kind of interactive widget rendered on a card
type WidgetType string

const (
	WidgetSlider         WidgetType = "slider"
	WidgetRating         WidgetType = "rating"
	WidgetTags           WidgetType = "tags"
	WidgetText           WidgetType = "text"
	WidgetColorIndicator WidgetType = "color_indicator"
	WidgetProgress       WidgetType = "progress"
	WidgetToggle         WidgetType = "toggle"
	WidgetPrice          WidgetType = "price"
)

// IsValid reports whether the widget type is one the canvas can render
func (w WidgetType) IsValid() bool {
	switch w {
	case WidgetSlider, WidgetRating, WidgetTags, WidgetText,
		WidgetColorIndicator, WidgetProgress, WidgetToggle, WidgetPrice:
		return true
	}
	return false
}

// Widget is a single interactive element on a card
type Widget struct {
	Type  WidgetType `json:"type"`
	Label string     `json:"label"`
	Value any        `json:"value,omitempty"`
	Min   *float64   `json:"min,omitempty"`
	Max   *float64   `json:"max,omitempty"`
	Color string     `json:"color,omitempty"`
	Icon  string     `json:"icon,omitempty"`
}

// GeneratedCard is a card built from user-dropped content
type GeneratedCard struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Summary      string   `json:"summary"`
	Category     string   `json:"category"`
	Icon         string   `json:"icon"`
	Color        string   `json:"color"`
	Widgets      []Widget `json:"widgets"`
	RawInput     string   `json:"raw_input"`
	SemanticText string   `json:"semantic_text"`
}

// CardSummary is the subset of a card sent to the magnet evaluator
type CardSummary struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Summary  string `json:"summary"`
	Category string `json:"category"`
}

// ToSummary returns the magnet-facing view of the card
func (c *GeneratedCard) ToSummary() CardSummary {
	return CardSummary{ID: c.ID, Title: c.Title, Summary: c.Summary, Category: c.Category}
}

// MagnetResult is a card's relevance to a magnet constraint, in [0, 1]
type MagnetResult struct {
	CardID    string  `json:"card_id"`
	Relevance float64 `json:"relevance"`
}

// ClampRelevance bounds a relevance score to [0, 1]
func ClampRelevance(r float64) float64 {
	if r < 0 || math.IsNaN(r) {
		return 0
	}
	if r > 1 {
		return 1
	}
	return r
}
