package state

import (
	"fmt"
	"math"
	"strings"

	"LocalSketch/internal/raster"
	"LocalSketch/internal/tools"
)

// minFontSize is the smallest text size, in points.
const minFontSize = 12

// PendingText is a text request waiting for the user's input.
type PendingText struct {
	Position tools.Point
}

// TextInserter stamps confirmed text onto the surface at the point the text
// tool captured.
type TextInserter struct {
	fonts   raster.Fonts
	pending *PendingText
}

// FontSize derives the text size from a stroke width.
func FontSize(strokeWidth float64) float64 {
	return math.Max(minFontSize, 4*strokeWidth)
}

// Request records a pending text request at p, replacing any earlier one.
func (t *TextInserter) Request(p tools.Point) {
	t.pending = &PendingText{Position: p}
}

// Pending returns the outstanding request.
func (t *TextInserter) Pending() (PendingText, bool) {
	if t.pending == nil {
		return PendingText{}, false
	}
	return *t.pending, true
}

// Cancel drops the outstanding request.
func (t *TextInserter) Cancel() {
	t.pending = nil
}

// Commit resolves the pending request with content. It reports whether
// anything was drawn: blank content or no pending request is a no-op, and
// the request is discarded either way.
func (t *TextInserter) Commit(s *raster.Surface, content string, paint tools.Paint) (bool, error) {
	req := t.pending
	t.pending = nil
	if req == nil || strings.TrimSpace(content) == "" {
		return false, nil
	}

	face, err := t.fonts.Face(FontSize(paint.Width))
	if err != nil {
		return false, fmt.Errorf("state: text face: %w", err)
	}
	dc := s.Context()
	dc.SetFont(face)
	c := paint.Color
	dc.SetRGBA(float64(c.R)/255, float64(c.G)/255, float64(c.B)/255, float64(c.A)/255)
	dc.DrawString(content, req.Position.X, req.Position.Y)
	return true, nil
}

// Close releases the fonts.
func (t *TextInserter) Close() error {
	return t.fonts.Close()
}
