// Package pipeline wires the full batch run: parse citations, scan PDFs,
// match, extract figures, assemble the output document.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/matsen/figbatch/internal/assemble"
	"github.com/matsen/figbatch/internal/citation"
	"github.com/matsen/figbatch/internal/config"
	"github.com/matsen/figbatch/internal/crossref"
	"github.com/matsen/figbatch/internal/figures"
	"github.com/matsen/figbatch/internal/inventory"
	"github.com/matsen/figbatch/internal/match"
)

// Result summarizes one run.
type Result struct {
	Citations int      `json:"citations"`
	PDFs      int      `json:"pdfs"`
	Matched   int      `json:"matched"`
	Unmatched int      `json:"unmatched"`
	Figures   int      `json:"figures"`
	Output    string   `json:"output"`
	CSV       string   `json:"csv,omitempty"`
	Report    string   `json:"report,omitempty"`
	Warnings  []string `json:"warnings,omitempty"`

	Assignments []match.Assignment `json:"assignments"`
}

// Match runs the pipeline through the matching stage only: parse the
// bibliography, scan the PDF folder, assign PDFs to citations. No figures
// are extracted and no document is written.
func Match(ctx context.Context, cfg *config.Config) (*Result, error) {
	if err := cfg.ValidateInputs(); err != nil {
		return nil, err
	}
	res, _, _, err := prepare(ctx, cfg)
	if err != nil {
		return nil, err
	}
	tally(res)
	return res, nil
}

// Run executes the full pipeline in a single pass. It is fatal only when the
// citations file or the PDF root is unusable at start; everything per-entry
// or per-PDF is a recorded warning.
func Run(ctx context.Context, cfg *config.Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	res, cits, entries, err := prepare(ctx, cfg)
	if err != nil {
		return nil, err
	}
	res.Output = cfg.Output

	entryByPath := make(map[string]inventory.Entry, len(entries))
	for _, e := range entries {
		entryByPath[e.Path] = e
	}

	// Extract figures per matched citation, in export order.
	outDir := filepath.Dir(cfg.Output)
	imagesRoot := filepath.Join(outDir, "_images_"+stem(cfg.Output))

	docEntries := make([]assemble.CitationEntry, 0, len(cits))
	for i, c := range cits {
		a := res.Assignments[i]
		entry := assemble.CitationEntry{Citation: c, Assignment: a}

		if a.Matched {
			res.Matched++
			entry.DetectedTitle = entryByPath[a.Path].Title
			entry.Pairs = extractFigures(cfg, res, a.Path, imagesRoot, outDir)
			res.Figures += len(entry.Pairs)
		} else {
			res.Unmatched++
		}
		docEntries = append(docEntries, entry)
	}

	if err := writeOutputs(cfg, res, docEntries); err != nil {
		return nil, err
	}
	return res, nil
}

// prepare runs the shared front half of the pipeline: parse the citations
// file, scan the PDF inventory, and match citations to PDFs.
func prepare(ctx context.Context, cfg *config.Config) (*Result, []citation.Citation, []inventory.Entry, error) {
	res := &Result{}

	data, err := os.ReadFile(cfg.Citations)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("reading citations: %w", err)
	}
	cits, parseErrs := citation.Parse(cfg.Format, data)
	for _, e := range parseErrs {
		res.warnf("citation parse: %v", e)
	}
	if len(cits) == 0 {
		return nil, nil, nil, fmt.Errorf("no citations parsed from %s", cfg.Citations)
	}
	res.Citations = len(cits)

	entries, err := scan(ctx, cfg, res)
	if err != nil {
		return nil, nil, nil, err
	}
	res.PDFs = len(entries)
	for _, e := range entries {
		if e.Err != nil {
			res.warnf("skipping %s: %v", e.Path, e.Err)
		}
	}

	res.Assignments = match.Assign(cits, entries, cfg.Threshold)
	return res, cits, entries, nil
}

// tally fills the matched/unmatched counters from the assignments.
func tally(res *Result) {
	for _, a := range res.Assignments {
		if a.Matched {
			res.Matched++
		} else {
			res.Unmatched++
		}
	}
}

// scan builds the PDF inventory, wiring in the optional cache and resolver.
func scan(ctx context.Context, cfg *config.Config, res *Result) ([]inventory.Entry, error) {
	opts := inventory.Options{
		SignaturePages: cfg.SignaturePages,
		Workers:        cfg.Workers,
	}

	if cfg.CachePath != "" {
		cache, err := inventory.OpenCache(cfg.CachePath)
		if err != nil {
			res.warnf("signature cache unavailable: %v", err)
		} else {
			defer cache.Close()
			opts.Cache = cache
		}
	}
	if cfg.ResolveDOIs {
		opts.Resolver = crossref.NewClient()
	}

	return inventory.Scan(ctx, cfg.PDFRoot, opts)
}

// extractFigures pulls images and captions from one matched PDF. Failures
// downgrade to warnings; a PDF with nothing extractable yields nil.
func extractFigures(cfg *config.Config, res *Result, pdfPath, imagesRoot, outDir string) []figures.Pair {
	fullText, err := inventory.ExtractText(pdfPath, 0)
	if err != nil {
		res.warnf("reading %s for captions: %v", pdfPath, err)
	}
	captions := figures.ExtractCaptions(fullText)

	imgDir := filepath.Join(imagesRoot, stem(pdfPath))
	images, err := figures.ExtractImages(pdfPath, imgDir, cfg.ImageFilter())
	if err != nil {
		res.warnf("extracting images from %s: %v", pdfPath, err)
	}

	// Image links in the document are relative to the document itself.
	for i, img := range images {
		if rel, err := filepath.Rel(outDir, img); err == nil {
			images[i] = filepath.ToSlash(rel)
		}
	}

	pairs := figures.Pairs(images, captions)
	if len(pairs) == 0 {
		res.warnf("no large figures or captions detected in %s", pdfPath)
	}
	return pairs
}

// writeOutputs writes the Markdown document and the optional audit artifacts.
func writeOutputs(cfg *config.Config, res *Result, entries []assemble.CitationEntry) error {
	if dir := filepath.Dir(cfg.Output); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}

	f, err := os.Create(cfg.Output)
	if err != nil {
		return fmt.Errorf("creating output document: %w", err)
	}
	if err := assemble.WriteMarkdown(f, entries); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing output document: %w", err)
	}

	if cfg.CSV != "" {
		if err := assemble.WriteCSV(cfg.CSV, res.Assignments); err != nil {
			return err
		}
		res.CSV = cfg.CSV
	}
	if cfg.Report != "" {
		if err := assemble.WriteReport(cfg.Report, entries); err != nil {
			return err
		}
		res.Report = cfg.Report
	}
	return nil
}

func (r *Result) warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// stem returns the file name without directory or extension.
func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
