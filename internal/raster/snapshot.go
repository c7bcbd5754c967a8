package raster

import "bytes"

// Snapshot is an immutable full-frame capture of a Surface.
type Snapshot struct {
	width  int
	height int
	pix    []uint8
}

// Width returns the width of the captured frame.
func (s Snapshot) Width() int { return s.width }

// Height returns the height of the captured frame.
func (s Snapshot) Height() int { return s.height }

// Size returns the number of pixel bytes the snapshot retains.
func (s Snapshot) Size() int64 { return int64(len(s.pix)) }

// IsZero reports whether s holds no frame.
func (s Snapshot) IsZero() bool { return s.pix == nil }

// Equal reports whether both snapshots hold bit-identical frames.
func (s Snapshot) Equal(o Snapshot) bool {
	return s.width == o.width && s.height == o.height && bytes.Equal(s.pix, o.pix)
}

// fits reports whether the snapshot can be copied into a w×h buffer.
func (s Snapshot) fits(w, h int) bool {
	return !s.IsZero() && s.width == w && s.height == h
}

func capture(w, h int, data []uint8) Snapshot {
	pix := make([]uint8, len(data))
	copy(pix, data)
	return Snapshot{width: w, height: h, pix: pix}
}
