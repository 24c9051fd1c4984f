// Package main provides the fb CLI entry point.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

// humanOutput controls whether to use human-readable output
var humanOutput bool

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "fb",
	Short: "Batch figure and caption extraction for research-paper PDFs",
	Long: `fb batch-extracts figures and captions from a folder of research-paper
PDFs and assembles them, grouped per bibliography citation in export order,
into one Markdown document.

Citations are fuzzy-matched to PDFs by comparing the citation text against
each PDF's extracted text signature; an optional CSV audit trail records
which PDF matched which citation at what score. All commands output JSON by
default for easy scripting.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.Version = Version
}
