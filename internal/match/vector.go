package match

import "math"

// Vector is a sparse term-frequency vector over an implicit vocabulary;
// absent tokens have weight zero.
type Vector map[string]int

// Frequencies counts token occurrences within one sequence.
func Frequencies(tokens []string) Vector {
	v := make(Vector, len(tokens))
	for _, t := range tokens {
		v[t]++
	}
	return v
}

// Cosine computes the cosine similarity of two sparse vectors over the union
// of their keys. Returns 0 when either magnitude is zero; never NaN.
// Symmetric: Cosine(a, b) == Cosine(b, a).
func Cosine(a, b Vector) float64 {
	var dot, magA, magB float64
	for term, ca := range a {
		fa := float64(ca)
		magA += fa * fa
		if cb, ok := b[term]; ok {
			dot += fa * float64(cb)
		}
	}
	for _, cb := range b {
		fb := float64(cb)
		magB += fb * fb
	}
	if magA == 0 || magB == 0 {
		return 0
	}
	return dot / (math.Sqrt(magA) * math.Sqrt(magB))
}
