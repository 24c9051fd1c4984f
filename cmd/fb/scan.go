package main

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/matsen/figbatch/internal/crossref"
	"github.com/matsen/figbatch/internal/inventory"
)

var (
	scanPDFRoot string
	scanPages   int
	scanWorkers int
	scanCache   string
	scanResolve bool
)

func init() {
	scanCmd.Flags().StringVar(&scanPDFRoot, "pdf-root", "", "Folder scanned recursively for PDFs")
	scanCmd.Flags().IntVar(&scanPages, "pages", inventory.DefaultSignaturePages, "Leading pages per signature")
	scanCmd.Flags().IntVar(&scanWorkers, "workers", inventory.DefaultWorkers, "Concurrent PDF reads")
	scanCmd.Flags().StringVar(&scanCache, "cache", "", "Signature cache database path")
	scanCmd.Flags().BoolVar(&scanResolve, "resolve", false, "Resolve DOIs via Crossref when no title is detected")
	scanCmd.MarkFlagRequired("pdf-root")
	rootCmd.AddCommand(scanCmd)
}

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan the PDF folder and list candidate signatures",
	Long: `Scan the PDF folder, extracting each file's text signature, detected
title and DOI, without matching or extracting figures.

Usage:
  fb scan --pdf-root ~/Papers
  fb scan --pdf-root ~/Papers --cache sigs.db --resolve`,
	Args: cobra.NoArgs,
	RunE: runScan,
}

// ScanResult is the scan command's JSON output.
type ScanResult struct {
	PDFs     int               `json:"pdfs"`
	Unread   int               `json:"unreadable"`
	Entries  []inventory.Entry `json:"entries"`
	Warnings []string          `json:"warnings,omitempty"`
}

func runScan(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	opts := inventory.Options{
		SignaturePages: scanPages,
		Workers:        scanWorkers,
	}

	var warnings []string
	if scanCache != "" {
		cache, err := inventory.OpenCache(scanCache)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("signature cache unavailable: %v", err))
		} else {
			defer cache.Close()
			opts.Cache = cache
		}
	}
	if scanResolve {
		opts.Resolver = crossref.NewClient()
	}

	entries, err := inventory.Scan(cmd.Context(), scanPDFRoot, opts)
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}

	result := ScanResult{PDFs: len(entries), Entries: entries, Warnings: warnings}
	for _, e := range entries {
		if e.Err != nil {
			result.Unread++
			result.Warnings = append(result.Warnings, fmt.Sprintf("unreadable: %s: %v", e.Path, e.Err))
		}
	}

	if humanOutput {
		printWarnings(result.Warnings)
		for _, e := range entries {
			if e.Err != nil {
				continue
			}
			title := e.Title
			if title == "" {
				title = "(no title detected)"
			}
			fmt.Printf("%s\n", e.Path)
			fmt.Printf("   %s\n", truncateString(title, ListTitleMaxLen))
			if e.DOI != "" {
				fmt.Printf("   doi:%s\n", e.DOI)
			}
			fmt.Printf("   %d pages\n\n", e.Pages)
		}
		fmt.Printf("%d PDFs scanned, %d unreadable\n", result.PDFs, result.Unread)
		return nil
	}
	return outputJSON(result)
}
