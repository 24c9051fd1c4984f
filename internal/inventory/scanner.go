// Package inventory scans a folder of PDFs and extracts lightweight text
// signals (signature text, detected title, DOI) used for citation matching.
package inventory

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"
)

// DefaultSignaturePages is how many leading pages contribute to the signature.
const DefaultSignaturePages = 3

// DefaultWorkers bounds concurrent PDF reads during a scan.
const DefaultWorkers = 4

// Entry is one PDF candidate in the inventory.
type Entry struct {
	Path      string `json:"path"`
	Size      int64  `json:"size"`
	ModTime   int64  `json:"mod_time"` // unix seconds
	Pages     int    `json:"pages"`
	Title     string `json:"title,omitempty"`
	DOI       string `json:"doi,omitempty"`
	Signature string `json:"-"` // signature text, omitted from JSON output
	ScanIndex int    `json:"scan_index"`
	Err       error  `json:"-"` // non-nil for unreadable/corrupt PDFs
}

// TitleResolver recovers a title for a PDF whose first page yields none,
// given a DOI found in its text.
type TitleResolver interface {
	ResolveTitle(ctx context.Context, doi string) (string, error)
}

// Options configures a scan.
type Options struct {
	SignaturePages int           // leading pages per signature, default DefaultSignaturePages
	Workers        int           // concurrent PDF reads, default DefaultWorkers
	Cache          *Cache        // optional signature cache
	Resolver       TitleResolver // optional DOI-to-title fallback
}

// Scan walks root recursively for PDF files and extracts a signature for
// each. Unreadable PDFs are returned with Err set rather than aborting the
// scan. The returned entries are in deterministic (sorted path) order, and
// ScanIndex reflects that order.
func Scan(ctx context.Context, root string, opts Options) ([]Entry, error) {
	if opts.SignaturePages == 0 {
		opts.SignaturePages = DefaultSignaturePages
	}
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}

	paths, err := FindPDFs(root)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, len(paths))

	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(opts.Workers)

	for i, path := range paths {
		eg.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			entries[i] = scanOne(gctx, path, i, opts)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return entries, nil
}

// FindPDFs returns all *.pdf paths under root, sorted for deterministic
// scan order.
func FindPDFs(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("checking PDF root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("PDF root is not a directory: %s", root)
	}

	var paths []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), ".pdf") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking PDF root: %w", err)
	}

	sort.Strings(paths)
	return paths, nil
}

// scanOne builds the inventory entry for a single PDF.
func scanOne(ctx context.Context, path string, index int, opts Options) Entry {
	entry := Entry{Path: path, ScanIndex: index}

	info, err := os.Stat(path)
	if err != nil {
		entry.Err = fmt.Errorf("stat: %w", err)
		return entry
	}
	entry.Size = info.Size()
	entry.ModTime = info.ModTime().Unix()

	sig, err := lookupSignature(path, entry.Size, entry.ModTime, opts)
	if err != nil {
		entry.Err = err
		return entry
	}

	entry.Pages = sig.Pages
	entry.Title = sig.Title
	entry.DOI = sig.DOI
	entry.Signature = sig.Text

	// Title heuristic failed but a DOI was found: try resolving it.
	if entry.Title == "" && entry.DOI != "" && opts.Resolver != nil {
		if title, err := opts.Resolver.ResolveTitle(ctx, entry.DOI); err == nil && title != "" {
			entry.Title = title
		}
	}

	return entry
}

// lookupSignature consults the cache before extracting from disk.
func lookupSignature(path string, size, modTime int64, opts Options) (*Signature, error) {
	if opts.Cache != nil {
		if sig, err := opts.Cache.Get(path, size, modTime); err == nil && sig != nil {
			return sig, nil
		}
	}

	sig, err := ExtractSignature(path, opts.SignaturePages)
	if err != nil {
		return nil, err
	}

	if opts.Cache != nil {
		// Cache write failures don't fail the scan.
		_ = opts.Cache.Put(path, size, modTime, sig)
	}
	return sig, nil
}
