package assemble

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/matsen/figbatch/internal/citation"
	"github.com/matsen/figbatch/internal/figures"
	"github.com/matsen/figbatch/internal/match"
)

func TestWriteReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mapping.xlsx")
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
			Pairs:         []figures.Pair{{ImagePath: "a.png"}, {ImagePath: "b.png"}},
		},
		{
			Citation:   citation.Citation{Index: 2, Raw: "Brown B (2020) Ancient pottery."},
			Assignment: match.Assignment{CitationIndex: 2},
		},
	}

	if err := WriteReport(path, entries); err != nil {
		t.Fatalf("WriteReport() error: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("opening report: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 1 || sheets[0] != reportSheet {
		t.Fatalf("sheets = %v, want [%s]", sheets, reportSheet)
	}

	cell := func(ref string) string {
		t.Helper()
		v, err := f.GetCellValue(reportSheet, ref)
		if err != nil {
			t.Fatalf("GetCellValue(%s): %v", ref, err)
		}
		return v
	}

	if got := cell("A1"); got != "Citation ID" {
		t.Errorf("A1 = %q, want header", got)
	}
	if got := cell("C2"); got != "pdfs/imaging.pdf" {
		t.Errorf("C2 = %q, want PDF path", got)
	}
	if got := cell("D2"); got != "Deep learning for cell imaging" {
		t.Errorf("D2 = %q, want detected title", got)
	}
	if got := cell("F2"); got != "TRUE" {
		t.Errorf("F2 = %q, want TRUE", got)
	}
	if got := cell("G2"); got != "2" {
		t.Errorf("G2 = %q, want figure count 2", got)
	}
	if got := cell("B3"); got != "Brown B (2020) Ancient pottery." {
		t.Errorf("B3 = %q, want second citation", got)
	}
	if got := cell("F3"); got != "FALSE" {
		t.Errorf("F3 = %q, want FALSE", got)
	}
}
