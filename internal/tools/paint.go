package tools

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

var (
	// ErrInvalidColor is returned for colors that are neither a known name
	// nor a hex value.
	ErrInvalidColor = errors.New("tools: invalid color")

	// ErrInvalidStrokeWidth is returned for widths that are not finite and positive.
	ErrInvalidStrokeWidth = errors.New("tools: stroke width must be positive")
)

// Point is a position in surface coordinates, origin top-left.
type Point struct {
	X, Y float64
}

// Paint holds the parameters every tool reads when an operation starts.
type Paint struct {
	Color color.NRGBA
	Width float64
}

// ClampWidth validates w and caps it at limit. A limit of zero or less
// disables the cap.
func ClampWidth(w, limit float64) (float64, error) {
	if math.IsNaN(w) || math.IsInf(w, 0) || w <= 0 {
		return 0, fmt.Errorf("%w: %v", ErrInvalidStrokeWidth, w)
	}
	if limit > 0 && w > limit {
		w = limit
	}
	return w, nil
}

// ParseColor accepts X11/CSS color names and #rgb, #rgba, #rrggbb or
// #rrggbbaa hex values.
func ParseColor(s string) (color.NRGBA, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	if v == "" {
		return color.NRGBA{}, fmt.Errorf("%w: empty", ErrInvalidColor)
	}
	if !strings.HasPrefix(v, "#") {
		c, ok := colornames.Map[v]
		if !ok {
			return color.NRGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
		}
		return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}, nil
	}

	hex := v[1:]
	switch len(hex) {
	case 3, 4:
		// expand the short forms to one byte per channel
		var b strings.Builder
		for _, r := range hex {
			b.WriteRune(r)
			b.WriteRune(r)
		}
		hex = b.String()
	case 6, 8:
	default:
		return color.NRGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	n, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	return color.NRGBA{R: uint8(n >> 24), G: uint8(n >> 16), B: uint8(n >> 8), A: uint8(n)}, nil
}

// FormatColor renders c as #rrggbb, or #rrggbbaa when translucent.
func FormatColor(c color.NRGBA) string {
	if c.A == 0xff {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}
