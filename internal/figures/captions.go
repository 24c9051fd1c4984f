package figures

import (
	"regexp"
	"strings"
)

var (
	// figAbbrevPattern normalizes "Fig. 3" to "Figure 3" before scanning.
	figAbbrevPattern = regexp.MustCompile(`\bFig\.\s*`)

	// captionStartPattern matches the start of a caption block:
	// "Figure 1.", "Figure S2:", "Figure 3A.", "Figure 4.B:".
	captionStartPattern = regexp.MustCompile(`Figure\s+S?\d+[A-Za-z]?(?:\.[A-Za-z])?\s*[.:]`)

	trailingSpacePattern = regexp.MustCompile(`[ \t]+\n`)
	blankRunPattern      = regexp.MustCompile(`\n{3,}`)
)

// terminators end a caption block when they appear at the start of a line.
var terminators = []string{"STAR★METHODS", "REFERENCES", "Article"}

// ExtractCaptions finds figure caption blocks in the concatenated page text
// of a PDF. A block starts at a "Figure N." / "Fig. N:" marker at the start
// of a line and runs until the next caption start, a section terminator, or
// the end of the text.
func ExtractCaptions(fullText string) []string {
	text := figAbbrevPattern.ReplaceAllString(fullText, "Figure ")

	starts := captionStarts(text)
	if len(starts) == 0 {
		return nil
	}

	var captions []string
	for i, start := range starts {
		end := len(text)
		if i+1 < len(starts) {
			end = starts[i+1]
		}
		if term := nextTerminator(text, start, end); term >= 0 {
			end = term
		}

		block := strings.TrimSpace(text[start:end])
		block = trailingSpacePattern.ReplaceAllString(block, "\n")
		block = blankRunPattern.ReplaceAllString(block, "\n\n")
		if block != "" {
			captions = append(captions, block)
		}
	}
	return captions
}

// captionStarts returns the byte offsets of caption blocks, keeping only
// matches at the start of the text or of a line.
func captionStarts(text string) []int {
	var starts []int
	for _, loc := range captionStartPattern.FindAllStringIndex(text, -1) {
		if loc[0] == 0 || text[loc[0]-1] == '\n' {
			starts = append(starts, loc[0])
		}
	}
	return starts
}

// nextTerminator returns the offset of the first line-initial terminator in
// text[from:to], or -1.
func nextTerminator(text string, from, to int) int {
	best := -1
	for _, term := range terminators {
		idx := strings.Index(text[from:to], "\n"+term)
		if idx >= 0 && (best < 0 || from+idx < best) {
			best = from + idx
		}
	}
	return best
}
