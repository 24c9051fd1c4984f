// Package figures extracts embedded figure images and caption text from
// matched PDFs.
package figures

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	// Image formats pdfcpu emits; registered for DecodeConfig.
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/tiff"
)

// Minimum image dimensions (pixels) to keep. Filters out small logos/icons.
const (
	DefaultMinWidth  = 500
	DefaultMinHeight = 500
	DefaultMinArea   = 300_000
)

// ImageFilter holds the minimum size thresholds for extracted images.
type ImageFilter struct {
	MinWidth  int
	MinHeight int
	MinArea   int
}

// DefaultImageFilter returns the standard logo/icon filter.
func DefaultImageFilter() ImageFilter {
	return ImageFilter{
		MinWidth:  DefaultMinWidth,
		MinHeight: DefaultMinHeight,
		MinArea:   DefaultMinArea,
	}
}

// ExtractImages extracts the embedded raster images of a PDF into outDir,
// removes those below the filter thresholds, and returns the surviving file
// paths in page order. pdfcpu names files <base>_<page>_<resource>.<ext> with
// unpadded page numbers, so ordering compares the numeric components by value
// rather than lexically.
func ExtractImages(pdfPath, outDir string, filter ImageFilter) ([]string, error) {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, fmt.Errorf("creating image directory: %w", err)
	}

	if err := api.ExtractImagesFile(pdfPath, outDir, nil, relaxedConfig()); err != nil {
		return nil, fmt.Errorf("extracting images: %w", err)
	}

	return filterImages(outDir, filter)
}

// relaxedConfig returns a pdfcpu configuration tolerant of the malformed
// PDFs publishers routinely produce.
func relaxedConfig() *model.Configuration {
	cfg := model.NewDefaultConfiguration()
	cfg.ValidationMode = model.ValidationRelaxed
	return cfg
}

// filterImages removes files in dir that are undecodable or below the size
// thresholds and returns the survivors sorted by name.
func filterImages(dir string, filter ImageFilter) ([]string, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading image directory: %w", err)
	}

	var kept []string
	for _, de := range dirEntries {
		if de.IsDir() {
			continue
		}
		path := filepath.Join(dir, de.Name())

		w, h, err := imageDimensions(path)
		if err != nil || w < filter.MinWidth || h < filter.MinHeight || w*h < filter.MinArea {
			os.Remove(path)
			continue
		}
		kept = append(kept, path)
	}

	sort.Slice(kept, func(i, j int) bool {
		return naturalLess(filepath.Base(kept[i]), filepath.Base(kept[j]))
	})
	return kept, nil
}

// naturalLess compares file names with embedded numbers by numeric value, so
// page 10 sorts after page 2.
func naturalLess(a, b string) bool {
	for a != "" && b != "" {
		ca, ra := leadingChunk(a)
		cb, rb := leadingChunk(b)
		if ca != cb {
			na, errA := strconv.Atoi(ca)
			nb, errB := strconv.Atoi(cb)
			if errA == nil && errB == nil {
				return na < nb
			}
			return ca < cb
		}
		a, b = ra, rb
	}
	return len(a) < len(b)
}

// leadingChunk splits off the leading run of digits or non-digits.
func leadingChunk(s string) (string, string) {
	isDigit := s[0] >= '0' && s[0] <= '9'
	i := 1
	for i < len(s) && (s[i] >= '0' && s[i] <= '9') == isDigit {
		i++
	}
	return s[:i], s[i:]
}

// imageDimensions reads the dimensions of an image file from its header.
func imageDimensions(path string) (int, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, err
	}
	return cfg.Width, cfg.Height, nil
}
