// Package speech declares the boundary interfaces to the external
// speech engines. The core never implements these; recognition,
// synthesis, and embedding extraction all live behind third-party
// engines outside this module.
package speech

import "context"

// Recognizer produces recognized text, one utterance per call.
// Empty or garbage strings are valid output and simply tend to
// resolve to no match downstream.
type Recognizer interface {
	// Recognize blocks until the next utterance is available.
	Recognize(ctx context.Context) (string, error)
}

// Synthesizer speaks text to the user.
type Synthesizer interface {
	Speak(ctx context.Context, text string) error
}

// EmbeddingSource extracts a fixed-dimension voice embedding from a
// captured audio sample. A failed capture is reported as an error;
// retrying the capture is the caller's responsibility.
type EmbeddingSource interface {
	// Embed returns the embedding for the next audio sample.
	Embed(ctx context.Context) ([]float32, error)

	// Dim returns the embedding dimension this source produces.
	Dim() int
}
