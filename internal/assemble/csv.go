package assemble

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/matsen/figbatch/internal/match"
)

// WriteCSV writes the citation-to-PDF mapping audit trail: one row per
// citation with columns pdf_path, citation_id, match_score. Unmatched
// citations get an empty pdf_path and a zero score.
func WriteCSV(path string, assignments []match.Assignment) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating CSV: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"pdf_path", "citation_id", "match_score"}); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}

	for _, a := range assignments {
		row := []string{
			a.Path,
			strconv.Itoa(a.CitationIndex),
			fmt.Sprintf("%.2f", a.Score),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("writing CSV row %d: %w", a.CitationIndex, err)
		}
	}

	w.Flush()
	return w.Error()
}
