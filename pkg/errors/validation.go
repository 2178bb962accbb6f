package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// diagramNameRegex matches catalog entry names such as "roi-calculator" or
// "03-des-diagram".
var diagramNameRegex = regexp.MustCompile(`^[a-z0-9]([a-z0-9_-]*[a-z0-9])?$`)

// ValidateDiagramName validates a catalog entry name.
// Names arrive from the command line and from URL paths of the preview server,
// so the rules are strict: lowercase ASCII, digits, '-' and '_', at most 64
// characters, no leading or trailing separator.
func ValidateDiagramName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "diagram name cannot be empty")
	}
	if len(name) > 64 {
		return New(ErrCodeInvalidInput, "diagram name too long (max 64 characters)")
	}
	if !diagramNameRegex.MatchString(name) {
		return New(ErrCodeInvalidInput, "invalid diagram name: %q", name)
	}
	return nil
}

// ValidateOutputFilename validates the file name of a rendered artifact.
// It must be a plain basename: no separators, no traversal, no hidden files.
func ValidateOutputFilename(filename string) error {
	if filename == "" {
		return New(ErrCodeInvalidPath, "output filename cannot be empty")
	}

	if strings.ContainsAny(filename, "/\\") {
		return New(ErrCodeInvalidPath, "output filename cannot contain path separators")
	}

	if strings.HasPrefix(filename, ".") {
		return New(ErrCodeInvalidPath, "output filename cannot be a hidden file")
	}

	for _, r := range filename {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "output filename contains invalid control characters")
		}
	}

	return nil
}

// ValidateDPI validates a raster resolution in dots per inch.
func ValidateDPI(dpi float64) error {
	if dpi <= 0 {
		return New(ErrCodeInvalidInput, "dpi must be positive, got %g", dpi)
	}
	if dpi > 1200 {
		return New(ErrCodeInvalidInput, "dpi too large (max 1200), got %g", dpi)
	}
	return nil
}
