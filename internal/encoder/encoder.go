// ABOUTME: Deterministic feature-to-vector encoder for semantic gravity
// ABOUTME: Hashes extractor features into fixed 256-dim regions and L2-normalizes
package encoder

import (
	"crypto/md5"
	"math"
	"strings"

	"github.com/harper/orbit/internal/models"
)

// Dimension is the length of every encoded vector
const Dimension = models.EmbeddingDimension

// Region boundaries. Changing any of these invalidates every stored vector.
const (
	CategoryStart = 0
	CategoryWidth = 4

	LocationStart = 32
	LocationSlots = 64

	AttributeStart = 96
	AttributeSlots = 80

	PriceSlot   = 176
	QualitySlot = 177
	NumericEnd  = 186

	MoodStart = 186
	MoodWidth = 3

	PurposeStart = 210
	PurposeWidth = 4

	LexicalStart  = 241
	LexicalSlots  = 15
	LexicalWeight = 0.3

	maxLevel = 5
)

// Encode maps a feature record and its source text to a unit-length vector.
// It never fails: unknown enum values and missing fields fall back to defaults.
func Encode(f models.FeatureRecord, rawText string) models.EmbeddingVector {
	vec := make([]float32, Dimension)

	catIdx := CategoryIndex(f.Category)
	for i := 0; i < CategoryWidth; i++ {
		vec[CategoryStart+catIdx*CategoryWidth+i] = 1.0
	}

	for _, kw := range f.LocationKeywords {
		if kw = strings.ToLower(kw); kw != "" {
			vec[LocationStart+hashSlot(kw, LocationSlots)] += 1.0
		}
	}

	for _, kw := range f.AttributeKeywords {
		if kw = strings.ToLower(kw); kw != "" {
			vec[AttributeStart+hashSlot(kw, AttributeSlots)] += 1.0
		}
	}

	vec[PriceSlot] = scaleLevel(f.PriceLevel)
	vec[QualitySlot] = scaleLevel(f.QualitySignal)

	moodIdx := MoodIndex(f.Mood)
	for i := 0; i < MoodWidth; i++ {
		vec[MoodStart+moodIdx*MoodWidth+i] = 1.0
	}

	// No fallback here: an unrecognised purpose leaves the region empty.
	if purposeIdx, ok := PurposeIndex(f.Purpose); ok {
		for i := 0; i < PurposeWidth; i++ {
			vec[PurposeStart+purposeIdx*PurposeWidth+i] = 1.0
		}
	}

	for _, word := range strings.Fields(strings.ToLower(rawText)) {
		vec[LexicalStart+hashSlot(word, LexicalSlots)] += LexicalWeight
	}

	return normalize(vec)
}

// hashSlot interprets md5(s) as a 128-bit big-endian integer and reduces it mod n
func hashSlot(s string, n int) int {
	sum := md5.Sum([]byte(s))
	r := 0
	for _, b := range sum {
		r = (r*256 + int(b)) % n
	}
	return r
}

func scaleLevel(level int) float32 {
	if level < 0 {
		level = 0
	}
	if level > maxLevel {
		level = maxLevel
	}
	return float32(level) / maxLevel
}

func normalize(vec []float32) models.EmbeddingVector {
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	norm := math.Sqrt(sum)
	if norm == 0 {
		return vec
	}
	for i, v := range vec {
		vec[i] = float32(float64(v) / norm)
	}
	return vec
}
