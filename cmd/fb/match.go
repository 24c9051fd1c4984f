package main

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/matsen/figbatch/internal/assemble"
	"github.com/matsen/figbatch/internal/match"
	"github.com/matsen/figbatch/internal/pipeline"
)

func init() {
	addConfigFlags(matchCmd)
	rootCmd.AddCommand(matchCmd)
}

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Match citations to PDFs without extracting figures",
	Long: `Parse the bibliography export, scan the PDF folder and report which
PDF each citation matched at what score. Writes the mapping CSV when --csv
is given. No figures are extracted and no document is written.

Usage:
  fb match --pdf-root ~/Papers --citations refs.txt
  fb match --config fb.yaml --csv mapping.csv`,
	Args: cobra.NoArgs,
	RunE: runMatch,
}

// MatchResult is the match command's JSON output.
type MatchResult struct {
	Citations   int                `json:"citations"`
	PDFs        int                `json:"pdfs"`
	Matched     int                `json:"matched"`
	Unmatched   int                `json:"unmatched"`
	CSV         string             `json:"csv,omitempty"`
	Assignments []match.Assignment `json:"assignments"`
	Warnings    []string           `json:"warnings,omitempty"`
}

func runMatch(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	cfg, err := loadEffectiveConfig(cmd)
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	if err := cfg.ValidateInputs(); err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}

	res, err := pipeline.Match(cmd.Context(), cfg)
	if err != nil {
		exitWithError(ExitDataError, "%v", err)
	}

	result := MatchResult{
		Citations:   res.Citations,
		PDFs:        res.PDFs,
		Matched:     res.Matched,
		Unmatched:   res.Unmatched,
		Assignments: res.Assignments,
		Warnings:    res.Warnings,
	}

	if cfg.CSV != "" {
		if err := assemble.WriteCSV(cfg.CSV, res.Assignments); err != nil {
			exitWithError(ExitError, "writing CSV: %v", err)
		}
		result.CSV = cfg.CSV
	}

	if humanOutput {
		printWarnings(result.Warnings)
		for _, a := range result.Assignments {
			if a.Matched {
				fmt.Printf("[%d] %.2f %s\n", a.CitationIndex, a.Score, a.Path)
			} else {
				fmt.Printf("[%d] unmatched\n", a.CitationIndex)
			}
		}
		fmt.Printf("%d/%d citations matched against %d PDFs\n", result.Matched, result.Citations, result.PDFs)
		if result.CSV != "" {
			fmt.Printf("Saved mapping CSV: %s\n", result.CSV)
		}
		return nil
	}
	return outputJSON(result)
}
