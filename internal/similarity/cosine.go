package similarity

import "math"

// Cosine returns the cosine similarity of two vectors: dot(a,b)/(|a|*|b|).
//
// Mismatched lengths and zero-norm vectors yield 0 rather than an error;
// a listing with a degenerate vector simply never clears the edge
// threshold. Accumulation is in float64 to keep 384-dim sums stable.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := 0; i < len(a); i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
