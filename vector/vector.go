package vector

import "math"

// Dot returns the dot product of a and b.
// Vectors of different length yield 0.
func Dot(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

// Norm returns the Euclidean length of v.
func Norm(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}

// CosineWithNorm returns dot(a, b) / (|a| * |b|) given normA = |a|, clamped
// to [-1, 1]. It is 0 when either vector has zero length or the dimensions
// differ. A query scanned against a whole corpus is only measured once.
func CosineWithNorm(a []float32, normA float64, b []float32) float32 {
	if len(a) != len(b) || normA == 0 {
		return 0
	}
	var dot, sumB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		sumB += float64(b[i]) * float64(b[i])
	}
	if sumB == 0 {
		return 0
	}
	// Rounding can push identical vectors a hair past 1.
	return clamp(dot / (normA * math.Sqrt(sumB)))
}

// CosineWithNorms is CosineWithNorm with the norm of b precomputed too.
func CosineWithNorms(a []float32, normA float64, b []float32, normB float64) float32 {
	if len(a) != len(b) || normA == 0 || normB == 0 {
		return 0
	}
	return clamp(Dot(a, b) / (normA * normB))
}

// clamp limits score to [-1, 1]. NaN scores 0.
func clamp(score float64) float32 {
	if math.IsNaN(score) {
		return 0
	}
	return float32(math.Max(-1, math.Min(1, score)))
}

// Normalize scales v to unit length.
// Returns a new vector. If the input is a zero vector, returns a zero vector.
func Normalize(v []float32) []float32 {
	if len(v) == 0 {
		return v
	}

	result := make([]float32, len(v))
	magnitude := Norm(v)
	if magnitude == 0 {
		return result
	}

	for i, val := range v {
		result[i] = float32(float64(val) / magnitude)
	}
	return result
}
