// Package raster owns the pixel buffers the drawing engine renders into:
// the visible Surface, the scratch Overlay used for shape previews, and the
// Snapshot frames kept by the history.
package raster

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/gogpu/gg"
)

var (
	// ErrInvalidSnapshot is returned when a snapshot does not match the
	// surface dimensions.
	ErrInvalidSnapshot = errors.New("raster: snapshot does not match surface size")

	// ErrInvalidSize is returned for non-positive dimensions.
	ErrInvalidSize = errors.New("raster: width and height must be positive")
)

// Surface is the addressable drawing buffer. All rendering terminates here.
type Surface struct {
	width      int
	height     int
	background color.NRGBA
	pixmap     *gg.Pixmap
	dc         *gg.Context
}

// NewSurface creates a surface filled with the background color.
func NewSurface(width, height int, background color.Color) (*Surface, error) {
	s := &Surface{background: color.NRGBAModel.Convert(background).(color.NRGBA)}
	if err := s.Resize(width, height); err != nil {
		return nil, err
	}
	return s, nil
}

// Resize reinitializes the surface to a blank background of the new size.
// Existing content is discarded even when the size is unchanged.
func (s *Surface) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	if s.dc != nil {
		_ = s.dc.Close()
	}
	s.width, s.height = width, height
	s.pixmap = gg.NewPixmap(width, height)
	s.dc = gg.NewContext(width, height, gg.WithPixmap(s.pixmap))
	s.Clear()
	return nil
}

// Clear fills the whole surface with the background color.
func (s *Surface) Clear() {
	s.dc.ClearPath()
	bg := s.background
	pix := s.pixmap.Data()
	for i := 0; i < len(pix); i += 4 {
		pix[i], pix[i+1], pix[i+2], pix[i+3] = bg.R, bg.G, bg.B, bg.A
	}
}

// Snapshot captures the current pixels.
func (s *Surface) Snapshot() Snapshot {
	return capture(s.width, s.height, s.pixmap.Data())
}

// Restore replaces all pixels with the snapshot content. A snapshot of a
// different size is rejected and the current frame is kept.
func (s *Surface) Restore(snap Snapshot) error {
	if !snap.fits(s.width, s.height) {
		return fmt.Errorf("%w: have %dx%d, snapshot %dx%d",
			ErrInvalidSnapshot, s.width, s.height, snap.width, snap.height)
	}
	copy(s.pixmap.Data(), snap.pix)
	return nil
}

// CopyFrom replaces the surface pixels with the overlay's.
func (s *Surface) CopyFrom(o *Overlay) error {
	if o.width != s.width || o.height != s.height {
		return fmt.Errorf("%w: overlay %dx%d", ErrInvalidSnapshot, o.width, o.height)
	}
	copy(s.pixmap.Data(), o.pixmap.Data())
	return nil
}

// EraseWith replaces surface pixels inside r by the background color,
// weighted by the overlay's alpha coverage. Fully covered pixels become the
// background exactly, whatever its opacity.
func (s *Surface) EraseWith(o *Overlay, r image.Rectangle) error {
	if o.width != s.width || o.height != s.height {
		return fmt.Errorf("%w: overlay %dx%d", ErrInvalidSnapshot, o.width, o.height)
	}
	r = r.Intersect(image.Rect(0, 0, s.width, s.height))
	bg := s.Background()
	bgA := float64(bg.A) / 255
	dst, mask := s.pixmap.Data(), o.pixmap.Data()
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			i := (y*s.width + x) * 4
			cov := mask[i+3]
			switch cov {
			case 0:
				continue
			case 0xff:
				dst[i], dst[i+1], dst[i+2], dst[i+3] = bg.R, bg.G, bg.B, bg.A
				continue
			}
			k := float64(cov) / 255
			a := float64(dst[i+3]) / 255
			keep := a * (1 - k)
			add := bgA * k
			outA := keep + add
			if outA == 0 {
				dst[i], dst[i+1], dst[i+2], dst[i+3] = 0, 0, 0, 0
				continue
			}
			mix := func(d, b uint8) uint8 {
				return uint8((float64(d)*keep+float64(b)*add)/outA + 0.5)
			}
			dst[i], dst[i+1], dst[i+2] = mix(dst[i], bg.R), mix(dst[i+1], bg.G), mix(dst[i+2], bg.B)
			dst[i+3] = uint8(outA*255 + 0.5)
		}
	}
	return nil
}

// Context returns the drawing context bound to the surface pixels.
func (s *Surface) Context() *gg.Context { return s.dc }

// Background returns the color the surface is cleared to.
func (s *Surface) Background() color.NRGBA {
	return s.background
}

// Width returns the surface width in pixels.
func (s *Surface) Width() int { return s.width }

// Height returns the surface height in pixels.
func (s *Surface) Height() int { return s.height }

// At returns the pixel at (x, y). Out of range coordinates are transparent.
func (s *Surface) At(x, y int) color.NRGBA {
	if x < 0 || y < 0 || x >= s.width || y >= s.height {
		return color.NRGBA{}
	}
	i := (y*s.width + x) * 4
	p := s.pixmap.Data()[i : i+4 : i+4]
	return color.NRGBA{R: p[0], G: p[1], B: p[2], A: p[3]}
}

// Image returns a copy of the surface as an image. The pixmap holds
// straight alpha, so the copy is NRGBA.
func (s *Surface) Image() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, s.width, s.height))
	copy(img.Pix, s.pixmap.Data())
	return img
}

// Close releases the drawing context.
func (s *Surface) Close() error {
	if s.dc == nil {
		return nil
	}
	err := s.dc.Close()
	s.dc = nil
	return err
}
