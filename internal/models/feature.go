// ABOUTME: FeatureRecord produced by the LLM feature extractor
// ABOUTME: Tolerates loosely typed extractor JSON (string numbers, time_of_day alias)
package models

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// FeatureRecord is the structured semantic summary of a piece of text.
// It is produced once per extraction call and treated as immutable.
type FeatureRecord struct {
	Category          string   `json:"category"`
	Mood              string   `json:"mood"`
	Purpose           string   `json:"purpose"`
	PriceLevel        int      `json:"price_level"`
	QualitySignal     int      `json:"quality_signal"`
	LocationKeywords  []string `json:"location_keywords"`
	AttributeKeywords []string `json:"attribute_keywords"`
}

// UnmarshalJSON accepts numbers encoded as strings or floats and maps
// time_of_day onto Purpose when purpose is absent.
func (f *FeatureRecord) UnmarshalJSON(data []byte) error {
	var raw struct {
		Category          string   `json:"category"`
		Mood              string   `json:"mood"`
		Purpose           string   `json:"purpose"`
		TimeOfDay         string   `json:"time_of_day"`
		PriceLevel        any      `json:"price_level"`
		QualitySignal     any      `json:"quality_signal"`
		LocationKeywords  []string `json:"location_keywords"`
		AttributeKeywords []string `json:"attribute_keywords"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	purpose := raw.Purpose
	if purpose == "" {
		purpose = raw.TimeOfDay
	}

	*f = FeatureRecord{
		Category:          raw.Category,
		Mood:              raw.Mood,
		Purpose:           purpose,
		PriceLevel:        looseInt(raw.PriceLevel),
		QualitySignal:     looseInt(raw.QualitySignal),
		LocationKeywords:  raw.LocationKeywords,
		AttributeKeywords: raw.AttributeKeywords,
	}
	return nil
}

// looseInt converts a JSON number or numeric string to int, 0 otherwise
func looseInt(v any) int {
	switch n := v.(type) {
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0
		}
		return int(math.Round(n))
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(n), 64); err == nil {
			return looseInt(f)
		}
	}
	return 0
}
