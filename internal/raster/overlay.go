package raster

import (
	"fmt"

	"github.com/gogpu/gg"
)

// Overlay is a scratch buffer congruent with a Surface. Shape previews are
// drawn here on top of the last committed frame and then copied over. The
// eraser also uses it as a coverage mask.
type Overlay struct {
	width  int
	height int
	pixmap *gg.Pixmap
	dc     *gg.Context
}

// NewOverlay creates a transparent overlay of the given size.
func NewOverlay(width, height int) (*Overlay, error) {
	o := &Overlay{}
	if err := o.Resize(width, height); err != nil {
		return nil, err
	}
	return o, nil
}

// Resize reallocates the overlay. The content is cleared.
func (o *Overlay) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	if o.dc != nil {
		_ = o.dc.Close()
	}
	o.width, o.height = width, height
	o.pixmap = gg.NewPixmap(width, height)
	o.dc = gg.NewContext(width, height, gg.WithPixmap(o.pixmap))
	return nil
}

// Reset loads base into the overlay, discarding the previous frame.
func (o *Overlay) Reset(base Snapshot) error {
	if !base.fits(o.width, o.height) {
		return fmt.Errorf("%w: overlay %dx%d, snapshot %dx%d",
			ErrInvalidSnapshot, o.width, o.height, base.width, base.height)
	}
	o.dc.ClearPath()
	copy(o.pixmap.Data(), base.pix)
	return nil
}

// Clear makes the overlay fully transparent.
func (o *Overlay) Clear() {
	o.dc.ClearPath()
	o.pixmap.Clear(gg.Transparent)
}

// Context returns the drawing context bound to the overlay pixels.
func (o *Overlay) Context() *gg.Context { return o.dc }

// Snapshot captures the overlay pixels.
func (o *Overlay) Snapshot() Snapshot {
	return capture(o.width, o.height, o.pixmap.Data())
}

// Close releases the drawing context.
func (o *Overlay) Close() error {
	if o.dc == nil {
		return nil
	}
	err := o.dc.Close()
	o.dc = nil
	return err
}
