package vec

import (
	"encoding/hex"
	"math"
	"math/rand/v2"
)

// Fingerprinter projects embeddings into short hex labels using random
// hyperplane locality-sensitive hashing. Nearby embeddings produce the
// same label with high probability, so the label is a stable,
// human-readable identifier for an enrolled voice ("voice:A3F8").
//
// For each of the configured hyperplanes, the sign of the dot product
// with the input contributes one bit; the bit vector is rendered as
// uppercase hex.
type Fingerprinter struct {
	dim    int
	bits   int
	planes [][]float32 // bits × dim, unit hyperplanes
}

// NewFingerprinter creates a Fingerprinter for embeddings of the given
// dimension. bits must be a positive multiple of 4 so the label is a
// whole number of hex digits. A fixed seed keeps labels stable across
// restarts.
func NewFingerprinter(dim, bits int, seed uint64) *Fingerprinter {
	if bits <= 0 || bits%4 != 0 {
		panic("vec: bits must be a positive multiple of 4")
	}
	if dim <= 0 {
		panic("vec: dim must be positive")
	}

	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	planes := make([][]float32, bits)
	for i := range planes {
		plane := make([]float32, dim)
		var norm float64
		for j := range plane {
			x := float32(rng.NormFloat64())
			plane[j] = x
			norm += float64(x) * float64(x)
		}
		norm = math.Sqrt(norm)
		if norm > 0 {
			scale := float32(1 / norm)
			for j := range plane {
				plane[j] *= scale
			}
		}
		planes[i] = plane
	}
	return &Fingerprinter{dim: dim, bits: bits, planes: planes}
}

// Fingerprint returns the uppercase hex label for an embedding.
// The input must have the fingerprinter's dimension.
func (f *Fingerprinter) Fingerprint(v []float32) string {
	if len(v) != f.dim {
		panic("vec: embedding dimension mismatch")
	}

	nBytes := (f.bits + 7) / 8
	raw := make([]byte, nBytes)
	for i, plane := range f.planes {
		var dot float32
		for j := range plane {
			dot += plane[j] * v[j]
		}
		if dot > 0 {
			raw[i/8] |= 1 << (7 - uint(i%8))
		}
	}

	full := hex.EncodeToString(raw)
	label := make([]byte, f.bits/4)
	for i := range label {
		c := full[i]
		if c >= 'a' && c <= 'f' {
			c -= 'a' - 'A'
		}
		label[i] = c
	}
	return string(label)
}

// Dim returns the expected embedding dimension.
func (f *Fingerprinter) Dim() int { return f.dim }

// Label formats a fingerprint as a voice label string.
func Label(fp string) string { return "voice:" + fp }
