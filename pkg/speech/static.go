package speech

import "context"

// StaticRecognizer yields a fixed sequence of utterances. Test helper.
type StaticRecognizer struct {
	Utterances []string
	pos        int
}

func (r *StaticRecognizer) Recognize(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if r.pos >= len(r.Utterances) {
		return "", context.Canceled
	}
	u := r.Utterances[r.pos]
	r.pos++
	return u, nil
}

// StaticEmbedding always returns the same vector. Test helper.
type StaticEmbedding struct {
	Vector []float32
}

func (s *StaticEmbedding) Embed(ctx context.Context) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cp := make([]float32, len(s.Vector))
	copy(cp, s.Vector)
	return cp, nil
}

func (s *StaticEmbedding) Dim() int { return len(s.Vector) }

// NopSynthesizer discards speech output. Test helper and default for
// headless runs.
type NopSynthesizer struct{}

func (NopSynthesizer) Speak(context.Context, string) error { return nil }
