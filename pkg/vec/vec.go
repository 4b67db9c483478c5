// Package vec provides the embedding-vector primitives used by voice
// authentication: dimension checks, cosine similarity, and a compact
// locality-sensitive fingerprint for display labels.
//
// All similarity functions are pure and hold no state, so they can be
// property-tested in isolation.
package vec

import (
	"errors"
	"fmt"
	"math"
)

// Sentinel errors for embedding validation.
var (
	// ErrDimMismatch is returned when a vector's length differs from
	// the configured embedding dimension.
	ErrDimMismatch = errors.New("vec: embedding dimension mismatch")

	// ErrDegenerate is returned for near-zero vectors, which indicate
	// a failed capture upstream.
	ErrDegenerate = errors.New("vec: degenerate embedding")
)

// degenerateNorm is the norm below which an embedding is considered a
// failed capture rather than a real voice sample.
const degenerateNorm = 1e-6

// Check validates an embedding against the configured dimension.
// It returns ErrDimMismatch or ErrDegenerate, or nil if the vector is
// usable.
func Check(v []float32, dim int) error {
	if len(v) != dim {
		return fmt.Errorf("%w: got %d, want %d", ErrDimMismatch, len(v), dim)
	}
	if Norm(v) < degenerateNorm {
		return ErrDegenerate
	}
	return nil
}

// Norm returns the Euclidean norm of v.
func Norm(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}

// Cosine returns the cosine similarity of a and b, clamped to [0, 1].
// Negative similarity carries no useful signal for voice matching and
// maps to 0. Both slices must have the same length.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) {
		panic("vec: length mismatch")
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	sim := dot / (math.Sqrt(na) * math.Sqrt(nb))
	return min(max(sim, 0), 1)
}
