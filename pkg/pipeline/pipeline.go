// Package pipeline renders catalog entries to files.
//
// This package implements the build → render → write pipeline shared by the
// render command and the preview server. By centralizing this logic, both
// entry points cache and name outputs the same way.
//
// # Stages
//
//  1. Build: turn a catalog entry and its dataset into a [catalog.Source]
//  2. Render: produce the bytes of every requested output, through the cache
//  3. Write: store the files in the output directory and record them in
//     manifest.json
//
// Independent entries render concurrently, bounded by [Options.Parallel].
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	results, err := runner.Render(ctx, catalog.Entries(), pipeline.Options{
//	    OutputDir: "generated",
//	    Formats:   []string{"png"},
//	})
package pipeline

import (
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/agenticinfraops/infraviz/pkg/catalog"
	"github.com/agenticinfraops/infraviz/pkg/errors"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

const (
	// DefaultOutputDir is where rendered files go when no directory is given.
	DefaultOutputDir = "generated"

	// DefaultParallel is the number of entries rendered at once.
	DefaultParallel = 4

	// ManifestFile is the name of the run record written next to the outputs.
	ManifestFile = "manifest.json"
)

// Format constants for output formats.
const (
	FormatSVG = catalog.FormatSVG
	FormatPNG = catalog.FormatPNG
	FormatPDF = catalog.FormatPDF
	FormatDOT = catalog.FormatDOT
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG: true,
	FormatPNG: true,
	FormatPDF: true,
	FormatDOT: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options configures a render run.
type Options struct {
	OutputDir   string
	Formats     []string // empty means every output of every entry
	Parallel    int
	Resolutions catalog.Resolutions
	Params      catalog.Params
	Refresh     bool // skip cache reads, still write fresh entries
	TTL         time.Duration

	Logger *log.Logger

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result is the outcome of rendering one entry.
type Result struct {
	Entry    string
	Files    []File
	CacheHit bool // every cached output came from the cache; DOT text is not cached
	Duration time.Duration
}

// File is one written output.
type File struct {
	Path   string  `json:"path"`
	Entry  string  `json:"entry"`
	Format string  `json:"format"`
	DPI    float64 `json:"dpi,omitempty"`
	Size   int     `json:"size"`
	SHA256 string  `json:"sha256"`
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: png, svg, pdf, dot)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ParseFormats splits a comma-separated format list, trimming blanks and
// dropping duplicates. An empty string yields nil, meaning all formats.
func ParseFormats(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		f = strings.ToLower(strings.TrimSpace(f))
		if f != "" && !slices.Contains(out, f) {
			out = append(out, f)
		}
	}
	return out
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks the options and fills in defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.OutputDir == "" {
		o.OutputDir = DefaultOutputDir
	}
	if o.Parallel <= 0 {
		o.Parallel = DefaultParallel
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}

	def := catalog.DefaultResolutions
	for _, r := range []struct {
		dpi *float64
		def float64
	}{
		{&o.Resolutions.Print, def.Print},
		{&o.Resolutions.Web, def.Web},
		{&o.Resolutions.Screen, def.Screen},
	} {
		if *r.dpi == 0 {
			*r.dpi = r.def
		}
		if err := errors.ValidateDPI(*r.dpi); err != nil {
			return err
		}
	}

	params := catalog.DefaultParams()
	if o.Params.Pillars == nil {
		o.Params.Pillars = params.Pillars
	}
	if o.Params.ROI.IsZero() {
		o.Params.ROI = params.ROI
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// Wants reports whether outputs of format should be written.
func (o *Options) Wants(format string) bool {
	return len(o.Formats) == 0 || slices.Contains(o.Formats, format)
}

// Selected returns the outputs of e that pass the format filter.
func (o *Options) Selected(e catalog.Entry) []catalog.Output {
	var out []catalog.Output
	for _, op := range e.Outputs {
		if o.Wants(op.Format) {
			out = append(out, op)
		}
	}
	return out
}
