// ABOUTME: Cosine similarity between card embeddings
// ABOUTME: Shared by the gravity engine and nearest-neighbor search in every store
package similarity

import "math"

// Cosine calculates cosine similarity between two vectors.
// Returns 0 when either vector has zero norm or the lengths differ.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0.0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dotProduct += x * y
		normA += x * x
		normB += y * y
	}

	if normA == 0 || normB == 0 {
		return 0.0
	}

	sim := dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
	// rounding can push |sim| just past 1
	return math.Max(-1, math.Min(1, sim))
}
