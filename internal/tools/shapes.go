package tools

import (
	"image"
	"image/color"
	"math"

	"github.com/gogpu/gg"
)

// brushHaloAlpha is the opacity of the soft edge drawn under a brush stroke.
const brushHaloAlpha = 0.25

// maskColor marks eraser coverage on the overlay.
var maskColor = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}

func setPen(dc *gg.Context, col color.NRGBA, width float64) {
	// straight alpha; SetColor would hand gg premultiplied components
	dc.SetRGBA(float64(col.R)/255, float64(col.G)/255, float64(col.B)/255, float64(col.A)/255)
	dc.SetLineWidth(width)
	dc.SetLineCap(gg.LineCapRound)
	dc.SetLineJoin(gg.LineJoinRound)
}

// strokeSegment rasterizes one piece of a freehand path.
func strokeSegment(dc *gg.Context, from, to Point, col color.NRGBA, width float64) error {
	setPen(dc, col, width)
	dc.MoveTo(from.X, from.Y)
	dc.LineTo(to.X, to.Y)
	return dc.Stroke()
}

// segmentBounds returns the pixels a round-capped segment can touch.
func segmentBounds(from, to Point, width float64) image.Rectangle {
	pad := width/2 + 1
	return image.Rect(
		int(math.Floor(math.Min(from.X, to.X)-pad)),
		int(math.Floor(math.Min(from.Y, to.Y)-pad)),
		int(math.Ceil(math.Max(from.X, to.X)+pad)),
		int(math.Ceil(math.Max(from.Y, to.Y)+pad)),
	)
}

// brushSegment draws a translucent halo twice as wide under the core stroke.
func brushSegment(dc *gg.Context, from, to Point, col color.NRGBA, width float64) error {
	halo := col
	halo.A = uint8(float64(col.A) * brushHaloAlpha)
	if err := strokeSegment(dc, from, to, halo, width*2); err != nil {
		return err
	}
	return strokeSegment(dc, from, to, col, width)
}

// drawShape strokes the outline of tool's shape spanned by anchor and p.
// Degenerate shapes draw nothing.
func drawShape(dc *gg.Context, tool Tool, anchor, p Point, paint Paint) error {
	setPen(dc, paint.Color, paint.Width)
	switch tool {
	case Rectangle:
		x, y := math.Min(anchor.X, p.X), math.Min(anchor.Y, p.Y)
		w, h := math.Abs(p.X-anchor.X), math.Abs(p.Y-anchor.Y)
		if w == 0 || h == 0 {
			return nil
		}
		dc.DrawRectangle(x, y, w, h)
	case Ellipse:
		r := math.Hypot(p.X-anchor.X, p.Y-anchor.Y)
		if r == 0 {
			return nil
		}
		dc.DrawCircle(anchor.X, anchor.Y, r)
	case Line:
		if anchor == p {
			return nil
		}
		dc.DrawLine(anchor.X, anchor.Y, p.X, p.Y)
	default:
		return nil
	}
	return dc.Stroke()
}
