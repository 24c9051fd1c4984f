// Package citation parses bibliography exports into ordered citation records.
package citation

import (
	"fmt"
	"strings"
)

// Citation represents one entry from an exported reference list.
// Identity is the position in export order.
type Citation struct {
	Index   int    `json:"index"` // 1-based position in export order
	Raw     string `json:"raw"`
	Title   string `json:"title,omitempty"`
	Authors string `json:"authors,omitempty"`
	Year    int    `json:"year,omitempty"`
	Journal string `json:"journal,omitempty"`
}

// Formats supported by Parse.
const (
	FormatText   = "text"
	FormatBibTeX = "bibtex"
)

// ValidFormats lists the supported bibliography export formats.
var ValidFormats = []string{FormatText, FormatBibTeX}

// Parse parses a bibliography export in the given format.
// Returns the ordered citation records plus per-entry errors for entries
// that could not be parsed (these are warnings, not fatal).
func Parse(format string, data []byte) ([]Citation, []error) {
	switch format {
	case FormatText:
		return ParseText(data)
	case FormatBibTeX:
		return ParseBibTeX(data)
	default:
		return nil, []error{fmt.Errorf("unknown format: %s (valid: %s)", format, strings.Join(ValidFormats, ", "))}
	}
}
