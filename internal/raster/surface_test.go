package raster

import (
	"image"
	"image/color"
	"testing"

	"github.com/gogpu/gg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var white = color.NRGBA{R: 255, G: 255, B: 255, A: 255}

func newTestSurface(t *testing.T, w, h int) *Surface {
	t.Helper()
	s, err := NewSurface(w, h, color.White)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestNewSurfaceIsBlank(t *testing.T) {
	s := newTestSurface(t, 20, 10)

	assert.Equal(t, 20, s.Width())
	assert.Equal(t, 10, s.Height())
	assert.Equal(t, white, s.Background())
	for _, p := range [][2]int{{0, 0}, {19, 9}, {10, 5}} {
		assert.Equal(t, white, s.At(p[0], p[1]))
	}
}

func TestNewSurfaceRejectsBadSize(t *testing.T) {
	_, err := NewSurface(0, 10, color.White)
	assert.ErrorIs(t, err, ErrInvalidSize)

	s := newTestSurface(t, 4, 4)
	assert.ErrorIs(t, s.Resize(4, -1), ErrInvalidSize)
	assert.Equal(t, 4, s.Height(), "failed resize keeps the old buffer")
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	s := newTestSurface(t, 8, 8)
	before := s.Snapshot()

	s.pixmap.SetPixel(3, 3, gg.RGB(1, 0, 0))
	assert.Equal(t, color.NRGBA{R: 255, A: 255}, s.At(3, 3))
	after := s.Snapshot()
	assert.False(t, before.Equal(after))

	require.NoError(t, s.Restore(before))
	assert.True(t, s.Snapshot().Equal(before))
	assert.Equal(t, white, s.At(3, 3))
}

func TestSnapshotIsDetached(t *testing.T) {
	s := newTestSurface(t, 4, 4)
	snap := s.Snapshot()

	s.pixmap.SetPixel(0, 0, gg.Black)

	require.NoError(t, s.Restore(snap))
	assert.Equal(t, white, s.At(0, 0))
}

func TestRestoreRejectsMismatchedSnapshot(t *testing.T) {
	s := newTestSurface(t, 10, 10)
	s.pixmap.SetPixel(1, 1, gg.Black)
	stale := s.Snapshot()

	require.NoError(t, s.Resize(20, 15))
	err := s.Restore(stale)
	assert.ErrorIs(t, err, ErrInvalidSnapshot)
	assert.Equal(t, 20, s.Width())
	assert.Equal(t, white, s.At(1, 1), "current frame is kept")

	assert.ErrorIs(t, s.Restore(Snapshot{}), ErrInvalidSnapshot)
}

func TestResizeClears(t *testing.T) {
	s := newTestSurface(t, 10, 10)
	s.pixmap.SetPixel(2, 2, gg.Black)

	require.NoError(t, s.Resize(10, 10))
	assert.Equal(t, white, s.At(2, 2))
}

func TestOverlayResetAndCopy(t *testing.T) {
	s := newTestSurface(t, 16, 16)
	o, err := NewOverlay(16, 16)
	require.NoError(t, err)
	defer o.Close()

	base := s.Snapshot()
	require.NoError(t, o.Reset(base))
	o.pixmap.SetPixel(5, 5, gg.RGB(0, 0, 1))
	require.NoError(t, s.CopyFrom(o))
	assert.Equal(t, color.NRGBA{B: 255, A: 255}, s.At(5, 5))

	// a second reset drops the previous preview frame
	require.NoError(t, o.Reset(base))
	require.NoError(t, s.CopyFrom(o))
	assert.Equal(t, white, s.At(5, 5))

	o.Clear()
	assert.Equal(t, uint8(0), o.Snapshot().pix[3])
}

func TestOverlaySizeMismatch(t *testing.T) {
	s := newTestSurface(t, 16, 16)
	o, err := NewOverlay(8, 8)
	require.NoError(t, err)
	defer o.Close()

	assert.ErrorIs(t, o.Reset(s.Snapshot()), ErrInvalidSnapshot)
	assert.ErrorIs(t, s.CopyFrom(o), ErrInvalidSnapshot)
}

func TestFontsCacheFaces(t *testing.T) {
	var f Fonts
	defer f.Close()

	a, err := f.Face(12)
	require.NoError(t, err)
	b, err := f.Face(12)
	require.NoError(t, err)
	assert.Same(t, a, b)
}

// fill sets every pixel of a surface to c without going through the context.
func fill(s *Surface, c color.NRGBA) {
	pix := s.pixmap.Data()
	for i := 0; i < len(pix); i += 4 {
		pix[i], pix[i+1], pix[i+2], pix[i+3] = c.R, c.G, c.B, c.A
	}
}

func TestEraseWithRestoresTranslucentBackground(t *testing.T) {
	bg := color.NRGBA{B: 255, A: 0x80}
	red := color.NRGBA{R: 255, A: 255}
	s, err := NewSurface(4, 2, bg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	o, err := NewOverlay(4, 2)
	require.NoError(t, err)
	t.Cleanup(func() { _ = o.Close() })
	fill(s, red)

	mask := o.pixmap.Data()
	mask[1*4+3] = 0xff       // (1,0) fully covered
	mask[2*4+3] = 0x80       // (2,0) half covered
	mask[(1*4+1)*4+3] = 0xff // (1,1) outside the rectangle
	require.NoError(t, s.EraseWith(o, image.Rect(0, 0, 4, 1)))

	assert.Equal(t, bg, s.At(1, 0))
	assert.Equal(t, red, s.At(0, 0))
	assert.Equal(t, red, s.At(3, 0))
	assert.Equal(t, red, s.At(1, 1), "pixels outside the rectangle are untouched")

	half := s.At(2, 0)
	assert.Greater(t, half.A, bg.A)
	assert.Less(t, half.A, red.A)
	assert.Positive(t, half.R)
	assert.Positive(t, half.B)

	assert.Equal(t, bg, s.Image().NRGBAAt(1, 0), "image keeps straight alpha")
}

func TestEraseWithSizeMismatch(t *testing.T) {
	s := newTestSurface(t, 4, 4)
	o, err := NewOverlay(3, 4)
	require.NoError(t, err)
	t.Cleanup(func() { _ = o.Close() })

	assert.ErrorIs(t, s.EraseWith(o, image.Rect(0, 0, 4, 4)), ErrInvalidSnapshot)
}
