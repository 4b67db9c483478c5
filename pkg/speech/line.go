package speech

import (
	"bufio"
	"context"
	"fmt"
	"io"
)

// LineRecognizer reads one utterance per line from a reader. It stands
// in for a live speech engine wherever text input is available, and it
// is what the CLI's listen loop runs on.
type LineRecognizer struct {
	s *bufio.Scanner
}

// NewLineRecognizer creates a recognizer over r.
func NewLineRecognizer(r io.Reader) *LineRecognizer {
	return &LineRecognizer{s: bufio.NewScanner(r)}
}

// Recognize returns the next line. io.EOF signals the end of input.
func (r *LineRecognizer) Recognize(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if !r.s.Scan() {
		if err := r.s.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return r.s.Text(), nil
}

// WriterSynthesizer "speaks" by writing lines to W.
type WriterSynthesizer struct {
	W io.Writer
}

func (w WriterSynthesizer) Speak(_ context.Context, text string) error {
	_, err := fmt.Fprintln(w.W, text)
	return err
}
