package citation

import (
	"bufio"
	"bytes"
	"html"
	"regexp"
	"strconv"
	"strings"
)

// MaxLineCapacity is the maximum buffer size for reading export lines (1MB per line).
const MaxLineCapacity = 1024 * 1024

var (
	tagPattern  = regexp.MustCompile(`<[^>]+>`)
	yearPattern = regexp.MustCompile(`\b(1[89]\d{2}|20\d{2})\b`)
)

// ParseText parses a plain-text bibliography export: one citation per line.
// HTML tags are stripped and entities decoded (exports from reference managers
// often carry italics markup). Blank lines are skipped.
func ParseText(data []byte) ([]Citation, []error) {
	var cits []Citation

	scanner := bufio.NewScanner(bytes.NewReader(data))
	buf := make([]byte, MaxLineCapacity)
	scanner.Buffer(buf, MaxLineCapacity)

	for scanner.Scan() {
		raw := StripTags(scanner.Text())
		if raw == "" {
			continue
		}

		c := Citation{
			Index: len(cits) + 1,
			Raw:   raw,
		}
		if y := detectYear(raw); y != 0 {
			c.Year = y
		}
		cits = append(cits, c)
	}

	if err := scanner.Err(); err != nil {
		return cits, []error{err}
	}
	return cits, nil
}

// StripTags removes basic HTML tags and decodes entities like &amp;.
func StripTags(s string) string {
	s = tagPattern.ReplaceAllString(s, "")
	return strings.TrimSpace(html.UnescapeString(s))
}

// detectYear returns the first plausible publication year in the text, or 0.
func detectYear(s string) int {
	m := yearPattern.FindString(s)
	if m == "" {
		return 0
	}
	y, err := strconv.Atoi(m)
	if err != nil {
		return 0
	}
	return y
}
