package tools

import (
	"fmt"
	"image/color"

	"LocalSketch/internal/raster"
)

// Outcome tells the caller what a pointer-down turned into.
type Outcome int

const (
	// Ignored means no operation started.
	Ignored Outcome = iota
	// Started means a stroke or shape gesture is now active.
	Started
	// TextRequested means the text tool wants input anchored at the point.
	TextRequested
)

// gesture is the state of one pointer-down to pointer-up span.
type gesture struct {
	tool   Tool
	paint  Paint
	anchor Point
	last   Point
	base   raster.Snapshot
	drawn  bool
}

// Controller holds the active tool and paint parameters and applies tool
// semantics to the surface.
type Controller struct {
	tool     Tool
	paint    Paint
	maxWidth float64

	surface *raster.Surface
	overlay *raster.Overlay
	gesture *gesture
}

// NewController returns a controller drawing onto surface, using overlay
// for shape previews. Widths above maxWidth are capped.
func NewController(surface *raster.Surface, overlay *raster.Overlay, paint Paint, maxWidth float64) (*Controller, error) {
	w, err := ClampWidth(paint.Width, maxWidth)
	if err != nil {
		return nil, err
	}
	paint.Width = w
	return &Controller{
		tool:     Pencil,
		paint:    paint,
		maxWidth: maxWidth,
		surface:  surface,
		overlay:  overlay,
	}, nil
}

// Tool returns the active tool.
func (c *Controller) Tool() Tool { return c.tool }

// SetTool selects the tool for the next operation.
func (c *Controller) SetTool(t Tool) error {
	if !t.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownTool, int(t))
	}
	c.tool = t
	return nil
}

// Paint returns the current paint parameters.
func (c *Controller) Paint() Paint { return c.paint }

// SetColor sets the paint color for the next operation.
func (c *Controller) SetColor(col color.Color) {
	c.paint.Color = color.NRGBAModel.Convert(col).(color.NRGBA)
}

// SetWidth sets the stroke width for the next operation.
func (c *Controller) SetWidth(w float64) error {
	w, err := ClampWidth(w, c.maxWidth)
	if err != nil {
		return err
	}
	c.paint.Width = w
	return nil
}

// MaxWidth returns the stroke width cap.
func (c *Controller) MaxWidth() float64 { return c.maxWidth }

// Active reports whether a gesture is in progress.
func (c *Controller) Active() bool { return c.gesture != nil }

// Begin starts an operation at p with the active tool. committed is the
// frame shape previews are redrawn over; when it is zero the current
// surface content is used.
func (c *Controller) Begin(p Point, committed raster.Snapshot) Outcome {
	if c.gesture != nil {
		return Ignored
	}
	switch {
	case c.tool == Text:
		return TextRequested
	case c.tool.IsStroke():
		c.gesture = &gesture{tool: c.tool, paint: c.paint, anchor: p, last: p}
	case c.tool.IsShape():
		if committed.IsZero() {
			committed = c.surface.Snapshot()
		}
		c.gesture = &gesture{tool: c.tool, paint: c.paint, anchor: p, last: p, base: committed}
	default:
		return Ignored
	}
	return Started
}

// Update extends the active gesture to p. Strokes paint the new segment
// straight onto the surface; shapes are redrawn from the committed frame.
// It reports whether the surface changed.
func (c *Controller) Update(p Point) (bool, error) {
	g := c.gesture
	if g == nil {
		return false, nil
	}
	if p == g.last && (g.drawn || !g.tool.IsShape()) {
		return false, nil
	}
	defer func() { g.last = p }()

	if g.tool.IsShape() {
		if err := c.preview(g, p); err != nil {
			return false, err
		}
		g.drawn = true
		return true, nil
	}
	dc := c.surface.Context()
	var err error
	switch g.tool.Composite() {
	case Erase:
		err = c.erase(g.last, p, g.paint.Width)
	default:
		if g.tool == Brush {
			err = brushSegment(dc, g.last, p, g.paint.Color, g.paint.Width)
		} else {
			err = strokeSegment(dc, g.last, p, g.paint.Color, g.paint.Width)
		}
	}
	return err == nil, err
}

// erase strokes the segment as a coverage mask on the overlay and replaces
// the covered surface pixels by the background.
func (c *Controller) erase(from, to Point, width float64) error {
	c.overlay.Clear()
	if err := strokeSegment(c.overlay.Context(), from, to, maskColor, width); err != nil {
		return err
	}
	err := c.surface.EraseWith(c.overlay, segmentBounds(from, to, width))
	c.overlay.Clear()
	return err
}

func (c *Controller) preview(g *gesture, p Point) error {
	if err := c.overlay.Reset(g.base); err != nil {
		return err
	}
	if err := drawShape(c.overlay.Context(), g.tool, g.anchor, p, g.paint); err != nil {
		return err
	}
	return c.surface.CopyFrom(c.overlay)
}

// End finishes the active gesture, leaving the last drawn frame on the
// surface. It reports whether a gesture was active.
func (c *Controller) End() bool {
	if c.gesture == nil {
		return false
	}
	c.gesture = nil
	c.overlay.Clear()
	return true
}

// Cancel drops the active gesture without touching the surface.
func (c *Controller) Cancel() {
	c.gesture = nil
	c.overlay.Clear()
}
