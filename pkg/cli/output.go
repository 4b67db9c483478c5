package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
)

// Styles for human-readable command output.
var (
	// StyleOK renders success markers.
	StyleOK = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ff9f"))

	// StyleWarn renders rejections and other expected failures.
	StyleWarn = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffb454"))

	// StyleDim renders secondary detail.
	StyleDim = lipgloss.NewStyle().Foreground(lipgloss.Color("#6e7681"))
)

// PrintJSON writes v as indented JSON to stdout.
func PrintJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Okf prints a styled success line.
func Okf(format string, args ...any) {
	fmt.Println(StyleOK.Render("✓") + " " + fmt.Sprintf(format, args...))
}

// Warnf prints a styled warning line.
func Warnf(format string, args ...any) {
	fmt.Println(StyleWarn.Render("✗") + " " + fmt.Sprintf(format, args...))
}

// Dimf prints a styled secondary line.
func Dimf(format string, args ...any) {
	fmt.Println(StyleDim.Render(fmt.Sprintf(format, args...)))
}

// ReadAllOrFile reads from path, or from r when path is "-" or empty.
// Used by commands that accept an embedding either as a file argument
// or on stdin.
func ReadAllOrFile(path string, r io.Reader) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(r)
	}
	return os.ReadFile(path)
}
