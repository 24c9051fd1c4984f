package main

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/matsen/figbatch/internal/config"
	"github.com/matsen/figbatch/internal/pipeline"
)

var (
	flagConfig    string
	flagPDFRoot   string
	flagCitations string
	flagFormat    string
	flagOutput    string
	flagCSV       string
	flagReport    string
	flagThreshold float64
	flagWorkers   int
	flagCache     string
	flagResolve   bool
)

func init() {
	addConfigFlags(runCmd)
	rootCmd.AddCommand(runCmd)
}

// addConfigFlags registers the shared configuration flags on a command.
// Flags override values from the config file.
func addConfigFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagConfig, "config", "", "Config file (default fb.yaml, or $FB_CONFIG)")
	cmd.Flags().StringVar(&flagPDFRoot, "pdf-root", "", "Folder scanned recursively for PDFs")
	cmd.Flags().StringVar(&flagCitations, "citations", "", "Bibliography export file")
	cmd.Flags().StringVar(&flagFormat, "format", "", "Citation format (text, bibtex)")
	cmd.Flags().StringVar(&flagOutput, "output", "", "Combined Markdown document path")
	cmd.Flags().StringVar(&flagCSV, "csv", "", "Mapping CSV path (optional)")
	cmd.Flags().StringVar(&flagReport, "report", "", "Mapping XLSX report path (optional)")
	cmd.Flags().Float64Var(&flagThreshold, "threshold", 0, "Minimum match score in [0,1]")
	cmd.Flags().IntVar(&flagWorkers, "workers", 0, "Concurrent PDF reads during scan")
	cmd.Flags().StringVar(&flagCache, "cache", "", "Signature cache database path")
	cmd.Flags().BoolVar(&flagResolve, "resolve", false, "Resolve DOIs via Crossref when no title is detected")
}

// loadEffectiveConfig loads the config file and applies flag overrides.
func loadEffectiveConfig(cmd *cobra.Command) (*config.Config, error) {
	// A config file named explicitly must exist; the default is optional.
	cfg, err := config.Load(config.Path(flagConfig), flagConfig == "")
	if err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("pdf-root") {
		cfg.PDFRoot = flagPDFRoot
	}
	if cmd.Flags().Changed("citations") {
		cfg.Citations = flagCitations
	}
	if cmd.Flags().Changed("format") {
		cfg.Format = flagFormat
	}
	if cmd.Flags().Changed("output") {
		cfg.Output = flagOutput
	}
	if cmd.Flags().Changed("csv") {
		cfg.CSV = flagCSV
	}
	if cmd.Flags().Changed("report") {
		cfg.Report = flagReport
	}
	if cmd.Flags().Changed("threshold") {
		cfg.Threshold = flagThreshold
	}
	if cmd.Flags().Changed("workers") {
		cfg.Workers = flagWorkers
	}
	if cmd.Flags().Changed("cache") {
		cfg.CachePath = flagCache
	}
	if cmd.Flags().Changed("resolve") {
		cfg.ResolveDOIs = flagResolve
	}
	return cfg, nil
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full extraction pipeline",
	Long: `Run the full pipeline: parse the bibliography export, scan the PDF
folder, match each citation to its best PDF, extract figures and captions
from the matched PDFs, and assemble one Markdown document.

Usage:
  fb run --pdf-root ~/Papers --citations refs.txt --output figures.md
  fb run --config fb.yaml --csv mapping.csv --report mapping.xlsx`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

func runRun(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	cfg, err := loadEffectiveConfig(cmd)
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	if err := cfg.Validate(); err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}

	res, err := pipeline.Run(cmd.Context(), cfg)
	if err != nil {
		exitWithError(ExitDataError, "%v", err)
	}

	if humanOutput {
		printWarnings(res.Warnings)
		fmt.Printf("Processed %d citations against %d PDFs\n", res.Citations, res.PDFs)
		fmt.Printf("  Matched:   %d\n", res.Matched)
		fmt.Printf("  Unmatched: %d\n", res.Unmatched)
		fmt.Printf("  Figures:   %d\n", res.Figures)
		fmt.Printf("Saved document: %s\n", res.Output)
		if res.CSV != "" {
			fmt.Printf("Saved mapping CSV: %s\n", res.CSV)
		}
		if res.Report != "" {
			fmt.Printf("Saved report: %s\n", res.Report)
		}
		return nil
	}
	return outputJSON(res)
}
