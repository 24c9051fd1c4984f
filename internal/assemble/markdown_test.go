package assemble

import (
	"strings"
	"testing"

	"github.com/matsen/figbatch/internal/citation"
	"github.com/matsen/figbatch/internal/figures"
	"github.com/matsen/figbatch/internal/match"
)

func TestWriteMarkdown_MatchedEntry(t *testing.T) {
	entries := []CitationEntry{
		{
			Citation: citation.Citation{Index: 1, Raw: "Smith J (2021) Deep learning. Nature Methods."},
			Assignment: match.Assignment{
				CitationIndex: 1,
				Path:          "pdfs/imaging.pdf",
				Score:         0.91,
				Matched:       true,
			},
			DetectedTitle: "Deep learning for cell imaging",
			Pairs: []figures.Pair{
				{ImagePath: "_images_figures/imaging/img_1_1.png", Caption: "Figure 1. Pipeline overview."},
			},
		},
	}

	var buf strings.Builder
	if err := WriteMarkdown(&buf, entries); err != nil {
		t.Fatalf("WriteMarkdown() error: %v", err)
	}
	out := buf.String()

	checks := []string{
		"# Combined Figures & Captions",
		"## [1] Smith J (2021) Deep learning. Nature Methods.",
		"![figure](_images_figures/imaging/img_1_1.png)",
		"**Figure 1**. Pipeline overview.",
		"*PDF: pdfs/imaging.pdf | Title detected: Deep learning for cell imaging | Score: 0.91*",
	}
	for _, want := range checks {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\noutput:\n%s", want, out)
		}
	}
	if strings.Contains(out, "[UNMATCHED]") {
		t.Errorf("matched entry flagged as unmatched")
	}
}

func TestWriteMarkdown_UnmatchedEntry(t *testing.T) {
	entries := []CitationEntry{
		{
			Citation:   citation.Citation{Index: 3, Raw: "Brown B (2020) Ancient pottery."},
			Assignment: match.Assignment{CitationIndex: 3},
		},
	}

	var buf strings.Builder
	if err := WriteMarkdown(&buf, entries); err != nil {
		t.Fatalf("WriteMarkdown() error: %v", err)
	}
	out := buf.String()

	if !strings.Contains(out, "## [3] Brown B (2020) Ancient pottery. *[UNMATCHED]*") {
		t.Errorf("output missing unmatched header:\n%s", out)
	}
	if !strings.Contains(out, "*No large figures or captions detected.*") {
		t.Errorf("output missing empty-figures placeholder:\n%s", out)
	}
	if !strings.Contains(out, "*PDF: N/A | Title detected: N/A | Score: 0.00*") {
		t.Errorf("output missing N/A info line:\n%s", out)
	}
}

func TestWriteMarkdown_UnevenPairs(t *testing.T) {
	entries := []CitationEntry{
		{
			Citation:   citation.Citation{Index: 1, Raw: "Smith J (2021) Title."},
			Assignment: match.Assignment{CitationIndex: 1, Path: "a.pdf", Score: 0.8, Matched: true},
			Pairs: []figures.Pair{
				{ImagePath: "img1.png"},
				{Caption: "Figure 2. Orphan caption."},
			},
		},
	}

	var buf strings.Builder
	if err := WriteMarkdown(&buf, entries); err != nil {
		t.Fatalf("WriteMarkdown() error: %v", err)
	}
	out := buf.String()

	if !strings.Contains(out, "*[Caption not detected for the above image]*") {
		t.Errorf("output missing caption placeholder:\n%s", out)
	}
	if !strings.Contains(out, "*[Image not found for this caption]*") {
		t.Errorf("output missing image placeholder:\n%s", out)
	}
}

func TestWriteMarkdown_PreservesOrder(t *testing.T) {
	entries := []CitationEntry{
		{Citation: citation.Citation{Index: 1, Raw: "First citation."}, Assignment: match.Assignment{CitationIndex: 1}},
		{Citation: citation.Citation{Index: 2, Raw: "Second citation."}, Assignment: match.Assignment{CitationIndex: 2}},
		{Citation: citation.Citation{Index: 3, Raw: "Third citation."}, Assignment: match.Assignment{CitationIndex: 3}},
	}

	var buf strings.Builder
	if err := WriteMarkdown(&buf, entries); err != nil {
		t.Fatalf("WriteMarkdown() error: %v", err)
	}
	out := buf.String()

	first := strings.Index(out, "## [1]")
	second := strings.Index(out, "## [2]")
	third := strings.Index(out, "## [3]")
	if first < 0 || second < 0 || third < 0 || !(first < second && second < third) {
		t.Errorf("sections out of export order: %d, %d, %d", first, second, third)
	}
}

func TestFormatCaption(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"labeled", "Figure 1. Body text.", "**Figure 1**. Body text."},
		{"colon", "Figure S2: Supplementary.", "**Figure S2**: Supplementary."},
		{"panel", "Figure 3A. Panel.", "**Figure 3A**. Panel."},
		{"unlabeled", "Just some text.", "Just some text."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatCaption(tt.input); got != tt.want {
				t.Errorf("formatCaption(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
