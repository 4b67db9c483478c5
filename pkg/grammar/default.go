package grammar

import _ "embed"

//go:embed default.yaml
var defaultYAML []byte

// Default returns the built-in grammar. It panics if the embedded file
// is invalid, which only happens when the file itself is broken at
// build time.
func Default() *Grammar {
	g, err := Parse(defaultYAML)
	if err != nil {
		panic(err)
	}
	return g
}
