package assemble

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// reportSheet is the single sheet of the XLSX mapping report.
const reportSheet = "Mapping"

// reportHeaders are the report's column headers.
var reportHeaders = []string{
	"Citation ID",
	"Citation",
	"PDF Path",
	"Title Detected",
	"Match Score",
	"Matched",
	"Figures",
}

// WriteReport writes an XLSX workbook with the full citation-to-PDF mapping,
// one row per citation in export order.
func WriteReport(path string, entries []CitationEntry) error {
	f := excelize.NewFile()
	defer f.Close()

	if _, err := f.NewSheet(reportSheet); err != nil {
		return fmt.Errorf("creating report sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("removing default sheet: %w", err)
	}

	for i, h := range reportHeaders {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return fmt.Errorf("addressing header cell: %w", err)
		}
		if err := f.SetCellValue(reportSheet, cell, h); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	for row, e := range entries {
		values := []any{
			e.Citation.Index,
			e.Citation.Raw,
			e.Assignment.Path,
			e.DetectedTitle,
			e.Assignment.Score,
			e.Assignment.Matched,
			len(e.Pairs),
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return fmt.Errorf("addressing cell: %w", err)
			}
			if err := f.SetCellValue(reportSheet, cell, v); err != nil {
				return fmt.Errorf("writing row %d: %w", e.Citation.Index, err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving report: %w", err)
	}
	return nil
}
