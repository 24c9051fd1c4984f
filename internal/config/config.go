// Package config handles run configuration.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/matsen/figbatch/internal/citation"
	"github.com/matsen/figbatch/internal/figures"
	"github.com/matsen/figbatch/internal/inventory"
	"github.com/matsen/figbatch/internal/match"
)

// DefaultConfigFile is the config file name looked up in the working
// directory when --config is not given.
const DefaultConfigFile = "fb.yaml"

// ConfigEnvVar overrides the config file location.
const ConfigEnvVar = "FB_CONFIG"

// Config holds all settings for a run. Load starts from Default and
// overlays the file, so only fields the file names are changed.
type Config struct {
	PDFRoot   string `yaml:"pdf_root" json:"pdf_root"`   // folder scanned recursively for PDFs
	Citations string `yaml:"citations" json:"citations"` // bibliography export file
	Format    string `yaml:"format" json:"format"`       // text or bibtex

	Output string `yaml:"output" json:"output"`           // combined Markdown document
	CSV    string `yaml:"csv" json:"csv,omitempty"`       // optional mapping CSV
	Report string `yaml:"report" json:"report,omitempty"` // optional mapping XLSX

	Threshold      float64 `yaml:"threshold" json:"threshold"`               // minimum match score
	SignaturePages int     `yaml:"signature_pages" json:"signature_pages"`   // leading pages per signature
	Workers        int     `yaml:"workers" json:"workers"`                   // concurrent PDF reads
	CachePath      string  `yaml:"cache_path" json:"cache_path,omitempty"`   // signature cache DB, empty disables
	ResolveDOIs    bool    `yaml:"resolve_dois" json:"resolve_dois"`         // Crossref title fallback
	MinImageWidth  int     `yaml:"min_image_width" json:"min_image_width"`   // pixels
	MinImageHeight int     `yaml:"min_image_height" json:"min_image_height"` // pixels
	MinImageArea   int     `yaml:"min_image_area" json:"min_image_area"`     // pixels
}

// Default returns a config with all defaults applied.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads a YAML config file. Defaults are applied before parsing, so
// fields absent from the file fall back while values the file sets explicitly
// survive, including zeros (threshold: 0, min_image_width: 0). A missing file
// is not an error when optional is true; the defaults are returned instead.
func Load(path string, optional bool) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if optional && os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// Save writes the config as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Format == "" {
		c.Format = citation.FormatText
	}
	if c.Output == "" {
		c.Output = "figures.md"
	}
	if c.Threshold == 0 {
		c.Threshold = match.DefaultThreshold
	}
	if c.SignaturePages == 0 {
		c.SignaturePages = inventory.DefaultSignaturePages
	}
	if c.Workers == 0 {
		c.Workers = inventory.DefaultWorkers
	}
	if c.MinImageWidth == 0 {
		c.MinImageWidth = figures.DefaultMinWidth
	}
	if c.MinImageHeight == 0 {
		c.MinImageHeight = figures.DefaultMinHeight
	}
	if c.MinImageArea == 0 {
		c.MinImageArea = figures.DefaultMinArea
	}
}

// Validate checks that the config can drive a full run.
func (c *Config) Validate() error {
	if err := c.ValidateInputs(); err != nil {
		return err
	}
	if c.Output == "" {
		return fmt.Errorf("output path not configured")
	}
	return nil
}

// ValidateInputs checks the input side of the config: the citations file and
// PDF root must exist up front; everything downstream is a soft failure.
func (c *Config) ValidateInputs() error {
	if c.PDFRoot == "" {
		return fmt.Errorf("pdf_root not configured")
	}
	info, err := os.Stat(c.PDFRoot)
	if err != nil {
		return fmt.Errorf("pdf_root: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("pdf_root is not a directory: %s", c.PDFRoot)
	}

	if c.Citations == "" {
		return fmt.Errorf("citations file not configured")
	}
	if _, err := os.Stat(c.Citations); err != nil {
		return fmt.Errorf("citations file: %w", err)
	}

	validFormat := false
	for _, f := range citation.ValidFormats {
		if c.Format == f {
			validFormat = true
			break
		}
	}
	if !validFormat {
		return fmt.Errorf("invalid format: %s (valid: %v)", c.Format, citation.ValidFormats)
	}

	if c.Threshold < 0 || c.Threshold > 1 {
		return fmt.Errorf("threshold must be in [0,1], got %g", c.Threshold)
	}
	return nil
}

// Path returns the effective config file path: the explicit flag value, then
// the FB_CONFIG environment variable, then the default file name.
func Path(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if env := os.Getenv(ConfigEnvVar); env != "" {
		return env
	}
	return DefaultConfigFile
}

// ImageFilter returns the configured image size filter.
func (c *Config) ImageFilter() figures.ImageFilter {
	return figures.ImageFilter{
		MinWidth:  c.MinImageWidth,
		MinHeight: c.MinImageHeight,
		MinArea:   c.MinImageArea,
	}
}
