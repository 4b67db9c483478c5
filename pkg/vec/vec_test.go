package vec

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"
)

func TestCheck(t *testing.T) {
	tests := []struct {
		name string
		v    []float32
		dim  int
		want error
	}{
		{"ok", []float32{1, 0, 0}, 3, nil},
		{"short", []float32{1, 0}, 3, ErrDimMismatch},
		{"long", []float32{1, 0, 0, 0}, 3, ErrDimMismatch},
		{"zero", []float32{0, 0, 0}, 3, ErrDegenerate},
		{"tiny", []float32{1e-9, 0, 0}, 3, ErrDegenerate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Check(tt.v, tt.dim)
			if tt.want == nil {
				if err != nil {
					t.Errorf("Check: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("Check: want %v, got %v", tt.want, err)
			}
		})
	}
}

func TestCosineSelfSimilarity(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	v := make([]float32, 64)
	for i := range v {
		v[i] = float32(rng.NormFloat64())
	}
	if got := Cosine(v, v); math.Abs(got-1) > 1e-6 {
		t.Errorf("self-similarity: want 1, got %f", got)
	}
}

func TestCosineOrthogonal(t *testing.T) {
	a := []float32{1, 0}
	b := []float32{0, 1}
	if got := Cosine(a, b); got != 0 {
		t.Errorf("orthogonal: want 0, got %f", got)
	}
}

func TestCosineClampsNegative(t *testing.T) {
	a := []float32{1, 0}
	b := []float32{-1, 0}
	if got := Cosine(a, b); got != 0 {
		t.Errorf("opposite vectors: want 0 after clamping, got %f", got)
	}
}

func TestCosineRange(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	for range 100 {
		a := make([]float32, 16)
		b := make([]float32, 16)
		for i := range a {
			a[i] = float32(rng.NormFloat64())
			b[i] = float32(rng.NormFloat64())
		}
		got := Cosine(a, b)
		if got < 0 || got > 1 {
			t.Fatalf("Cosine out of range: %f", got)
		}
	}
}

func TestFingerprintStable(t *testing.T) {
	f := NewFingerprinter(32, 16, 42)
	v := make([]float32, 32)
	for i := range v {
		v[i] = float32(i) - 15.5
	}
	fp1 := f.Fingerprint(v)
	fp2 := f.Fingerprint(v)
	if fp1 != fp2 {
		t.Errorf("fingerprint not deterministic: %q vs %q", fp1, fp2)
	}
	if len(fp1) != 4 {
		t.Errorf("16-bit fingerprint should be 4 hex chars, got %q", fp1)
	}
	// Same seed, new instance: same label.
	g := NewFingerprinter(32, 16, 42)
	if got := g.Fingerprint(v); got != fp1 {
		t.Errorf("fingerprint not stable across instances: %q vs %q", got, fp1)
	}
}

func TestFingerprintNearbyVectors(t *testing.T) {
	f := NewFingerprinter(64, 8, 7)
	rng := rand.New(rand.NewPCG(8, 9))
	v := make([]float32, 64)
	for i := range v {
		v[i] = float32(rng.NormFloat64())
	}
	// A tiny perturbation should rarely flip any plane.
	w := make([]float32, 64)
	copy(w, v)
	w[0] += 1e-5
	if f.Fingerprint(v) != f.Fingerprint(w) {
		t.Error("tiny perturbation changed the fingerprint")
	}
}

func TestLabel(t *testing.T) {
	if got := Label("A3F8"); got != "voice:A3F8" {
		t.Errorf("Label: got %q", got)
	}
}
