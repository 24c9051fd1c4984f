// Package assemble writes the combined output document and the audit
// artifacts of a run.
package assemble

import (
	"fmt"
	"io"
	"regexp"

	"github.com/matsen/figbatch/internal/citation"
	"github.com/matsen/figbatch/internal/figures"
	"github.com/matsen/figbatch/internal/match"
)

// CitationEntry is everything the assembler needs for one citation: the
// record, its matching outcome, and the extracted figure/caption pairs.
type CitationEntry struct {
	Citation      citation.Citation
	Assignment    match.Assignment
	DetectedTitle string
	Pairs         []figures.Pair
}

// captionLabelPattern splits a caption into its "Figure N" label and body.
var captionLabelPattern = regexp.MustCompile(`(?s)^(Figure\s+S?\d+[A-Za-z]?(?:\.[A-Za-z])?)\s*([.:].*)$`)

// WriteMarkdown writes the combined figures-and-captions document. Entries
// are emitted in the order given (export order), one section per citation,
// single pass. Image paths in Pairs must already be relative to the output
// document's directory.
func WriteMarkdown(w io.Writer, entries []CitationEntry) error {
	if _, err := fmt.Fprintf(w, "# Combined Figures & Captions\n\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Automatically generated. Each figure image is followed by its caption, and each group is preceded by its citation.\n"); err != nil {
		return err
	}

	for _, e := range entries {
		if err := writeEntry(w, e); err != nil {
			return fmt.Errorf("writing citation %d: %w", e.Citation.Index, err)
		}
	}
	return nil
}

func writeEntry(w io.Writer, e CitationEntry) error {
	header := e.Citation.Raw
	if !e.Assignment.Matched {
		header += " *[UNMATCHED]*"
	}
	if _, err := fmt.Fprintf(w, "\n## [%d] %s\n", e.Citation.Index, header); err != nil {
		return err
	}

	if len(e.Pairs) == 0 {
		if _, err := fmt.Fprintf(w, "\n*No large figures or captions detected.*\n"); err != nil {
			return err
		}
	}

	for _, p := range e.Pairs {
		if p.ImagePath != "" {
			if _, err := fmt.Fprintf(w, "\n![figure](%s)\n", p.ImagePath); err != nil {
				return err
			}
		} else {
			if _, err := fmt.Fprintf(w, "\n*[Image not found for this caption]*\n"); err != nil {
				return err
			}
		}

		if p.Caption != "" {
			if _, err := fmt.Fprintf(w, "\n%s\n", formatCaption(p.Caption)); err != nil {
				return err
			}
		} else {
			if _, err := fmt.Fprintf(w, "\n*[Caption not detected for the above image]*\n"); err != nil {
				return err
			}
		}
	}

	return writeInfoLine(w, e)
}

// writeInfoLine appends the per-citation audit line.
func writeInfoLine(w io.Writer, e CitationEntry) error {
	title := e.DetectedTitle
	if title == "" {
		title = "N/A"
	}
	pdf := e.Assignment.Path
	if pdf == "" {
		pdf = "N/A"
	}
	_, err := fmt.Fprintf(w, "\n*PDF: %s | Title detected: %s | Score: %.2f*\n", pdf, title, e.Assignment.Score)
	return err
}

// formatCaption bolds the "Figure N" label when the caption starts with one.
func formatCaption(caption string) string {
	if m := captionLabelPattern.FindStringSubmatch(caption); m != nil {
		return "**" + m[1] + "**" + m[2]
	}
	return caption
}
