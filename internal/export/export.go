// Package export encodes a finished canvas as a standalone image file.
package export

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"path/filepath"
	"strings"
)

// ErrUnknownFormat is returned for formats other than PNG and PDF.
var ErrUnknownFormat = errors.New("export: unknown format")

// Format selects the output encoding.
type Format string

const (
	PNG Format = "png"
	PDF Format = "pdf"
)

// ParseFormat accepts "png" or "pdf" in any case.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case PNG, PDF:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// FormatForPath picks the format from a file extension, defaulting to PNG.
func FormatForPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return PDF
	}
	return PNG
}

// Write encodes img to w in the given format.
func Write(w io.Writer, img image.Image, f Format) error {
	switch f {
	case PNG:
		return WritePNG(w, img)
	case PDF:
		return WritePDF(w, img)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, string(f))
	}
}

// WritePNG encodes img as PNG.
func WritePNG(w io.Writer, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("export: encode png: %w", err)
	}
	return nil
}
