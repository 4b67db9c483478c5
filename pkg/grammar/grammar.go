// Package grammar loads the command grammar: the table of
// {category, intent, patterns} a recognized utterance is matched
// against.
//
// Grammars are loaded once at startup and immutable afterwards.
// Validation is strict and load failures are fatal by design: the
// system must not start with an ambiguous grammar.
//
// Patterns are plain phrases with an optional trailing slot marker:
//
//	- "shutdown"
//	- "open {app_name}"
//
// The slot captures whatever input text follows the fixed tokens.
package grammar

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/goccy/go-yaml"
)

// ErrAmbiguous is returned when two intents share a byte-identical
// pattern. This is a configuration error, not a runtime condition.
var ErrAmbiguous = errors.New("grammar: ambiguous pattern")

// slotRe matches a well-formed slot name.
var slotRe = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// Definition is one command: a category/intent pair with its spoken
// patterns. Definitions are immutable after load.
type Definition struct {
	Category string   `yaml:"category" json:"category"`
	Intent   string   `yaml:"intent" json:"intent"`
	Patterns []string `yaml:"patterns" json:"patterns"`
}

// Pattern is a compiled pattern entry. Order is the registration
// index across the whole grammar; the matcher uses it as the
// deterministic tie-break key.
type Pattern struct {
	// Raw is the pattern as written, e.g. "open {app_name}".
	Raw string

	// Fixed is the fixed token text with the slot marker stripped,
	// e.g. "open".
	Fixed string

	// Slot is the trailing slot name, or "" for slotless patterns.
	Slot string

	// Def is the owning definition.
	Def *Definition

	// Order is the registration index.
	Order int
}

// file is the YAML document shape.
type file struct {
	Commands []*Definition `yaml:"commands"`
}

// Grammar is the loaded, immutable pattern table.
type Grammar struct {
	defs     []*Definition
	patterns []*Pattern
}

// Parse builds a Grammar from YAML bytes, validating the whole table.
func Parse(data []byte) (*Grammar, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("grammar: parse: %w", err)
	}
	if len(f.Commands) == 0 {
		return nil, errors.New("grammar: no commands defined")
	}

	g := &Grammar{defs: f.Commands}
	seenIntent := make(map[string]bool)
	seenPattern := make(map[string]*Pattern)
	order := 0

	for _, def := range f.Commands {
		if def.Category == "" {
			return nil, errors.New("grammar: empty category")
		}
		if def.Intent == "" {
			return nil, fmt.Errorf("grammar: empty intent in category %q", def.Category)
		}
		ik := def.Category + "/" + def.Intent
		if seenIntent[ik] {
			return nil, fmt.Errorf("grammar: duplicate intent %q", ik)
		}
		seenIntent[ik] = true
		if len(def.Patterns) == 0 {
			return nil, fmt.Errorf("grammar: intent %q has no patterns", ik)
		}

		for _, raw := range def.Patterns {
			p, err := compile(raw, def, order)
			if err != nil {
				return nil, err
			}
			if prev, ok := seenPattern[p.Raw]; ok {
				if prev.Def != def {
					return nil, fmt.Errorf("%w: %q defined by both %s/%s and %s",
						ErrAmbiguous, p.Raw, prev.Def.Category, prev.Def.Intent, ik)
				}
				// Repeats within one intent are harmless; keep the first.
				continue
			}
			seenPattern[p.Raw] = p
			g.patterns = append(g.patterns, p)
			order++
		}
	}
	return g, nil
}

// LoadFile reads and parses a grammar YAML file.
func LoadFile(path string) (*Grammar, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("grammar: %w", err)
	}
	return Parse(data)
}

// compile splits a raw pattern into fixed text and an optional
// trailing slot.
func compile(raw string, def *Definition, order int) (*Pattern, error) {
	raw = strings.TrimSpace(strings.ToLower(raw))
	if raw == "" {
		return nil, fmt.Errorf("grammar: empty pattern in %s/%s", def.Category, def.Intent)
	}

	p := &Pattern{Raw: raw, Fixed: raw, Def: def, Order: order}

	i := strings.IndexByte(raw, '{')
	if i < 0 {
		if strings.IndexByte(raw, '}') >= 0 {
			return nil, fmt.Errorf("grammar: stray '}' in pattern %q", raw)
		}
		return p, nil
	}

	// Slot must be the final token of the pattern.
	if !strings.HasSuffix(raw, "}") {
		return nil, fmt.Errorf("grammar: slot must end pattern %q", raw)
	}
	name := raw[i+1 : len(raw)-1]
	if !slotRe.MatchString(name) {
		return nil, fmt.Errorf("grammar: bad slot name %q in pattern %q", name, raw)
	}
	fixed := strings.TrimSpace(raw[:i])
	if fixed == "" {
		return nil, fmt.Errorf("grammar: pattern %q has no fixed tokens", raw)
	}
	if strings.IndexByte(fixed, '{') >= 0 || strings.IndexByte(fixed, '}') >= 0 {
		return nil, fmt.Errorf("grammar: multiple slots in pattern %q", raw)
	}

	p.Fixed = fixed
	p.Slot = name
	return p, nil
}

// AllPatterns returns every compiled pattern in registration order.
// The returned slice must not be modified.
func (g *Grammar) AllPatterns() []*Pattern { return g.patterns }

// Definitions returns every definition in file order.
// The returned slice must not be modified.
func (g *Grammar) Definitions() []*Definition { return g.defs }

// PatternsFor returns the raw patterns for a category/intent pair, or
// nil if the pair is not defined.
func (g *Grammar) PatternsFor(category, intent string) []string {
	for _, def := range g.defs {
		if def.Category == category && def.Intent == intent {
			return def.Patterns
		}
	}
	return nil
}
