// Package intent resolves recognized text into a structured command by
// scoring it against the loaded grammar.
//
// Scoring is a length-normalized Levenshtein ratio over the pattern's
// fixed tokens, so near-misses from the recognizer ("shutdwn") still
// resolve. The best pattern at or above the threshold wins; equal
// scores resolve to the earliest-registered pattern, never map
// iteration order.
package intent

import (
	"errors"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/sahilm/fuzzy"

	"github.com/voxkit/voxkit/pkg/grammar"
)

// ErrNoMatch is returned when no pattern scores at or above the
// threshold. It is an expected outcome for garbage input, not a fault.
var ErrNoMatch = errors.New("intent: no match")

// DefaultThreshold is the minimum similarity for a pattern to win.
const DefaultThreshold = 0.70

// Command is a resolved, executable intent. It is ephemeral: produced
// per resolution call and owned by the caller.
type Command struct {
	Category string `json:"category"`
	Intent   string `json:"intent"`

	// Params maps slot names to the extracted spans, verbatim. Slot
	// content is not validated here; that is the executor's job.
	Params map[string]string `json:"parameters,omitempty"`

	// Confidence is the winning similarity score. Always at or above
	// the matcher threshold; sub-threshold candidates are never
	// returned.
	Confidence float64 `json:"confidence"`
}

// Matcher scores text against a grammar. It is read-only after
// construction and safe for concurrent use.
type Matcher struct {
	grammar   *grammar.Grammar
	threshold float64
}

// Option configures a Matcher.
type Option func(*Matcher)

// WithThreshold overrides the match threshold. Values outside (0, 1]
// are ignored.
func WithThreshold(t float64) Option {
	return func(m *Matcher) {
		if t > 0 && t <= 1 {
			m.threshold = t
		}
	}
}

// NewMatcher creates a matcher over the given grammar.
func NewMatcher(g *grammar.Grammar, opts ...Option) *Matcher {
	m := &Matcher{grammar: g, threshold: DefaultThreshold}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Threshold returns the active match threshold.
func (m *Matcher) Threshold() float64 { return m.threshold }

// Resolve matches text against every pattern and returns the winning
// command, or ErrNoMatch. Empty and garbage input are valid and simply
// tend not to match.
func (m *Matcher) Resolve(text string) (*Command, error) {
	norm := strings.ToLower(strings.TrimSpace(text))
	words := strings.Fields(norm)

	var best *grammar.Pattern
	var bestScore float64
	var bestSlotVal string

	for _, p := range m.grammar.AllPatterns() {
		var score float64
		var slotVal string

		if p.Slot == "" {
			score = Ratio(norm, p.Fixed)
		} else {
			// The slot covers the tail of the utterance; only the
			// head tokens are compared against the fixed text.
			k := len(strings.Fields(p.Fixed))
			head := norm
			if len(words) > k {
				head = strings.Join(words[:k], " ")
				slotVal = strings.Join(words[k:], " ")
			}
			score = Ratio(head, p.Fixed)
		}

		// Strictly greater keeps the earliest-registered pattern on
		// ties.
		if score > bestScore {
			bestScore = score
			best = p
			bestSlotVal = slotVal
		}
	}

	if best == nil || bestScore < m.threshold {
		return nil, ErrNoMatch
	}

	cmd := &Command{
		Category:   best.Def.Category,
		Intent:     best.Def.Intent,
		Confidence: bestScore,
	}
	if best.Slot != "" && bestSlotVal != "" {
		cmd.Params = map[string]string{best.Slot: bestSlotVal}
	}
	return cmd, nil
}

// Suggest returns up to limit raw patterns resembling the partial
// input, best first. Used for "did you mean" feedback.
func (m *Matcher) Suggest(partial string, limit int) []string {
	if limit <= 0 || strings.TrimSpace(partial) == "" {
		return nil
	}
	pats := m.grammar.AllPatterns()
	raws := make([]string, len(pats))
	for i, p := range pats {
		raws[i] = p.Raw
	}
	matches := fuzzy.Find(strings.ToLower(partial), raws)
	if len(matches) > limit {
		matches = matches[:limit]
	}
	out := make([]string, len(matches))
	for i, mm := range matches {
		out[i] = mm.Str
	}
	return out
}

// Ratio is the normalized edit-distance similarity of a and b in
// [0, 1]. It is a pure function: 1 for equal strings, 0 when every
// character differs.
func Ratio(a, b string) float64 {
	if a == b {
		return 1
	}
	la, lb := len([]rune(a)), len([]rune(b))
	longest := max(la, lb)
	if longest == 0 {
		return 1
	}
	d := levenshtein.ComputeDistance(a, b)
	return 1 - float64(d)/float64(longest)
}
