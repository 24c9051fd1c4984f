package citation

import (
	"bufio"
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Regex patterns for line-based BibTeX scanning.
var (
	// Match entry start: @type{key,
	entryStartPattern = regexp.MustCompile(`@(\w+)\s*\{([^,]+),`)
	// Match a field line: name = {value} or name = "value"
	fieldPattern = regexp.MustCompile(`(?i)^\s*(\w+)\s*=\s*[\{"](.*?)[\}"],?\s*$`)
)

// bibEntry accumulates fields for one BibTeX entry during scanning.
type bibEntry struct {
	key    string
	fields map[string]string
}

// ParseBibTeX parses a BibTeX export into ordered citation records.
// Entries without a title produce a per-entry error and are skipped.
func ParseBibTeX(data []byte) ([]Citation, []error) {
	var (
		cits    []Citation
		errs    []error
		current *bibEntry
	)

	flush := func() {
		if current == nil {
			return
		}
		c, err := bibEntryToCitation(*current)
		if err != nil {
			errs = append(errs, fmt.Errorf("entry %s: %w", current.key, err))
		} else {
			c.Index = len(cits) + 1
			cits = append(cits, c)
		}
		current = nil
	}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	buf := make([]byte, MaxLineCapacity)
	scanner.Buffer(buf, MaxLineCapacity)

	for scanner.Scan() {
		line := scanner.Text()

		if m := entryStartPattern.FindStringSubmatch(line); len(m) > 2 {
			flush()
			current = &bibEntry{
				key:    strings.TrimSpace(m[2]),
				fields: make(map[string]string),
			}
			continue
		}

		if current == nil {
			continue
		}
		if m := fieldPattern.FindStringSubmatch(line); len(m) > 2 {
			name := strings.ToLower(m[1])
			if _, seen := current.fields[name]; !seen {
				current.fields[name] = cleanBibValue(m[2])
			}
		}
	}
	flush()

	if err := scanner.Err(); err != nil {
		errs = append(errs, err)
	}
	return cits, errs
}

// bibEntryToCitation converts an accumulated entry to a citation record.
func bibEntryToCitation(e bibEntry) (Citation, error) {
	title := e.fields["title"]
	if title == "" {
		return Citation{}, fmt.Errorf("missing required field 'title'")
	}

	c := Citation{
		Title:   title,
		Authors: e.fields["author"],
		Journal: e.fields["journal"],
	}
	if y := e.fields["year"]; y != "" {
		if year, err := strconv.Atoi(y); err == nil {
			c.Year = year
		}
	}
	c.Raw = renderRaw(c)
	return c, nil
}

// renderRaw builds a single-line citation string from parsed fields,
// matching the shape of a plain-text export line.
func renderRaw(c Citation) string {
	var b strings.Builder
	if c.Authors != "" {
		b.WriteString(c.Authors)
		b.WriteString(" ")
	}
	if c.Year != 0 {
		fmt.Fprintf(&b, "(%d) ", c.Year)
	}
	b.WriteString(c.Title)
	if c.Journal != "" {
		b.WriteString(". ")
		b.WriteString(c.Journal)
	}
	return strings.TrimSpace(b.String())
}

// cleanBibValue strips residual braces and collapses whitespace in a field value.
func cleanBibValue(s string) string {
	s = strings.NewReplacer("{", "", "}", "").Replace(s)
	return strings.Join(strings.Fields(s), " ")
}
