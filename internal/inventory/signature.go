package inventory

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
)

// DOI pattern: 10.XXXX/... where XXXX is 4+ digits
var doiPattern = regexp.MustCompile(`10\.\d{4,9}/[^\s<>"{}|\\^~\[\]` + "`" + `]+`)

// Signature holds the lightweight text signals extracted from one PDF.
type Signature struct {
	Text  string // plain text of the first signature pages
	Title string // detected title line, best effort
	DOI   string // first DOI found in the signature pages, if any
	Pages int    // total page count of the document
}

// ExtractSignature reads a PDF and extracts its text signature.
// maxPages limits how many leading pages contribute to the signature text;
// zero or negative means all pages.
func ExtractSignature(filePath string, maxPages int) (*Signature, error) {
	f, r, err := pdf.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("opening PDF: %w", err)
	}
	defer f.Close()

	total := r.NumPage()
	pages := maxPages
	if pages <= 0 || pages > total {
		pages = total
	}

	var builder strings.Builder
	for i := 1; i <= pages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		builder.WriteString(text)
		builder.WriteString("\n")
	}

	text := builder.String()
	return &Signature{
		Text:  text,
		Title: detectTitle(text),
		DOI:   findDOI(text),
		Pages: total,
	}, nil
}

// ExtractText extracts plain text from the first maxPages pages of a PDF.
// Zero or negative maxPages extracts all pages. Used for caption scanning,
// which needs the whole document rather than just the signature pages.
func ExtractText(filePath string, maxPages int) (string, error) {
	f, r, err := pdf.Open(filePath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if maxPages <= 0 || maxPages > r.NumPage() {
		maxPages = r.NumPage()
	}

	var builder strings.Builder
	for i := 1; i <= maxPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		builder.WriteString(text)
		builder.WriteString("\n")
	}

	return builder.String(), nil
}

// detectTitle returns the first substantial non-header line, likely the title.
func detectTitle(text string) string {
	lines := strings.Split(text, "\n")
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if len(line) > 20 && !isHeaderLine(line) {
			return line
		}
	}
	return ""
}

// findDOI finds a DOI in text.
func findDOI(text string) string {
	matches := doiPattern.FindAllString(text, -1)
	for _, match := range matches {
		// Remove trailing punctuation
		match = strings.TrimRight(match, ".,;:)")
		if isValidDOI(match) {
			return match
		}
	}
	return ""
}

// isValidDOI performs basic validation on a DOI.
func isValidDOI(doi string) bool {
	if len(doi) < 10 {
		return false
	}
	if !strings.HasPrefix(doi, "10.") {
		return false
	}
	slashIdx := strings.Index(doi, "/")
	if slashIdx == -1 || slashIdx >= len(doi)-1 {
		return false
	}
	return true
}

// isHeaderLine checks if a line is likely a running header/footer or
// front-matter boilerplate rather than the title.
func isHeaderLine(line string) bool {
	lower := strings.ToLower(line)
	if strings.Contains(lower, "journal") {
		return true
	}
	if strings.Contains(lower, "volume") && strings.Contains(lower, "issue") {
		return true
	}
	if strings.Contains(lower, "copyright") {
		return true
	}
	if strings.Contains(lower, "article") && strings.Contains(lower, "published") {
		return true
	}
	for _, prefix := range []string{"graphical abstract", "highlights", "open access", "summary", "in brief", "references"} {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return false
}
