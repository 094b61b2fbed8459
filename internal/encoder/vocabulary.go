// ABOUTME: Fixed enum vocabularies and alias tables used by the encoder
// ABOUTME: Enum order is part of the vector schema and must not be reordered
package encoder

import "strings"

// Categories in region order; the last entry is the fallback
var Categories = []string{"apartment", "restaurant", "cafe", "activity", "travel", "shopping", "note", "other"}

// Moods in region order
var Moods = []string{"cozy", "energetic", "quiet", "busy", "romantic", "casual", "professional", "fun"}

// Purposes in region order. Time-of-day spellings are folded in via purposeAliases.
var Purposes = []string{"living", "dining", "entertainment", "work", "exercise", "shopping", "learning"}

const (
	fallbackCategory = 7 // other
	fallbackMood     = 5 // casual
)

var categoryAliases = map[string]string{
	"hotel":     "apartment",
	"hostel":    "apartment",
	"lodging":   "apartment",
	"bnb":       "apartment",
	"rental":    "apartment",
	"bar":       "restaurant",
	"pub":       "restaurant",
	"bistro":    "restaurant",
	"coffee":    "cafe",
	"flight":    "travel",
	"airline":   "travel",
	"train":     "travel",
	"transport": "travel",
	"trip":      "travel",
	"store":     "shopping",
	"shop":      "shopping",
	"market":    "shopping",
}

var moodAliases = map[string]string{
	"relaxing":  "quiet",
	"relaxed":   "quiet",
	"calm":      "quiet",
	"peaceful":  "quiet",
	"business":  "professional",
	"formal":    "professional",
	"corporate": "professional",
	"lively":    "energetic",
	"vibrant":   "energetic",
	"crowded":   "busy",
}

var purposeAliases = map[string]string{
	"morning":   "work",
	"afternoon": "work",
	"evening":   "entertainment",
	"night":     "entertainment",
}

// CategoryIndex returns the region index for a category, falling back to "other"
func CategoryIndex(category string) int {
	if i, ok := lookup(Categories, categoryAliases, category); ok {
		return i
	}
	return fallbackCategory
}

// MoodIndex returns the region index for a mood, falling back to "casual"
func MoodIndex(mood string) int {
	if i, ok := lookup(Moods, moodAliases, mood); ok {
		return i
	}
	return fallbackMood
}

// PurposeIndex returns the region index for a purpose or time of day.
// ok is false for unrecognised values; there is no fallback.
func PurposeIndex(purpose string) (int, bool) {
	return lookup(Purposes, purposeAliases, purpose)
}

func lookup(vocab []string, aliases map[string]string, value string) (int, bool) {
	v := strings.ToLower(strings.TrimSpace(value))
	if alias, ok := aliases[v]; ok {
		v = alias
	}
	for i, term := range vocab {
		if term == v {
			return i, true
		}
	}
	return 0, false
}
