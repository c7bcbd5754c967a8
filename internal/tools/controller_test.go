package tools

import (
	"image/color"
	"testing"

	"LocalSketch/internal/raster"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	white = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	red   = color.NRGBA{R: 255, A: 255}
	black = color.NRGBA{A: 255}
)

func newTestController(t *testing.T) (*Controller, *raster.Surface) {
	t.Helper()
	s, err := raster.NewSurface(100, 100, color.White)
	require.NoError(t, err)
	o, err := raster.NewOverlay(100, 100)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = s.Close()
		_ = o.Close()
	})
	c, err := NewController(s, o, Paint{Color: black, Width: 6}, 50)
	require.NoError(t, err)
	return c, s
}

func assertNear(t *testing.T, want, got color.NRGBA) {
	t.Helper()
	const tol = 3
	near := func(a, b uint8) bool {
		d := int(a) - int(b)
		return d >= -tol && d <= tol
	}
	assert.True(t, near(want.R, got.R) && near(want.G, got.G) && near(want.B, got.B) && near(want.A, got.A),
		"want %v, got %v", want, got)
}

func update(t *testing.T, c *Controller, p Point) bool {
	t.Helper()
	painted, err := c.Update(p)
	require.NoError(t, err)
	return painted
}

func drag(t *testing.T, c *Controller, committed raster.Snapshot, pts ...Point) {
	t.Helper()
	require.Equal(t, Started, c.Begin(pts[0], committed))
	for _, p := range pts[1:] {
		update(t, c, p)
	}
	require.True(t, c.End())
}

func TestPencilPaintsEagerly(t *testing.T) {
	c, s := newTestController(t)

	require.Equal(t, Started, c.Begin(Point{10, 50}, raster.Snapshot{}))
	assert.Equal(t, white, s.At(30, 50), "begin does not paint")

	update(t, c, Point{50, 50})
	assertNear(t, black, s.At(30, 50))
	assert.True(t, c.Active())

	update(t, c, Point{90, 50})
	assertNear(t, black, s.At(70, 50))
	assert.Equal(t, white, s.At(50, 20))

	assert.True(t, c.End())
	assert.False(t, c.Active())
	assert.False(t, c.End())
}

func TestBrushCoreIsFullColor(t *testing.T) {
	c, s := newTestController(t)
	require.NoError(t, c.SetTool(Brush))
	c.SetColor(red)

	drag(t, c, raster.Snapshot{}, Point{10, 50}, Point{50, 50}, Point{90, 50})

	assertNear(t, red, s.At(50, 50))
	edge := s.At(50, 55)
	assert.NotEqual(t, white, edge, "halo tints beyond the core width")
	assert.Greater(t, edge.R, edge.G)
}

func TestEraserRevealsBackground(t *testing.T) {
	c, s := newTestController(t)

	// red rectangle outline with a 10px edge along x=20
	require.NoError(t, c.SetTool(Rectangle))
	c.SetColor(red)
	require.NoError(t, c.SetWidth(10))
	drag(t, c, s.Snapshot(), Point{20, 20}, Point{80, 80})
	assertNear(t, red, s.At(20, 30))
	assertNear(t, red, s.At(20, 70))

	require.NoError(t, c.SetTool(Eraser))
	drag(t, c, raster.Snapshot{}, Point{20, 10}, Point{20, 45})

	assertNear(t, white, s.At(20, 30))
	assertNear(t, red, s.At(20, 70))
	assertNear(t, red, s.At(50, 80))
}

func TestShapePreviewIsRedrawnFromBase(t *testing.T) {
	c, s := newTestController(t)
	require.NoError(t, c.SetTool(Line))
	base := s.Snapshot()

	require.Equal(t, Started, c.Begin(Point{10, 10}, base))
	assert.Equal(t, white, s.At(10, 10), "anchor does not paint")

	update(t, c, Point{90, 10})
	assertNear(t, black, s.At(50, 10))

	update(t, c, Point{10, 90})
	assert.Equal(t, white, s.At(50, 10), "stale preview is gone")
	assertNear(t, black, s.At(10, 50))

	update(t, c, Point{10, 90})
	first := s.Snapshot()
	assert.False(t, update(t, c, Point{10, 90}), "repeated update reports no change")
	assert.True(t, first.Equal(s.Snapshot()), "repeated update is idempotent")

	update(t, c, Point{10, 10})
	assert.True(t, base.Equal(s.Snapshot()), "moving back to the anchor erases the preview")
	c.End()
}

func TestEllipseIsCircleAroundAnchor(t *testing.T) {
	c, s := newTestController(t)
	require.NoError(t, c.SetTool(Ellipse))

	drag(t, c, s.Snapshot(), Point{50, 50}, Point{80, 50})

	assertNear(t, black, s.At(20, 50))
	assertNear(t, black, s.At(50, 80))
	assertNear(t, black, s.At(50, 20))
	assert.Equal(t, white, s.At(50, 50))
}

func TestRectangleNormalizesCorners(t *testing.T) {
	c, s := newTestController(t)
	require.NoError(t, c.SetTool(Rectangle))

	drag(t, c, s.Snapshot(), Point{80, 80}, Point{20, 30})

	assertNear(t, black, s.At(20, 50))
	assertNear(t, black, s.At(80, 50))
	assertNear(t, black, s.At(50, 30))
	assert.Equal(t, white, s.At(50, 50))
}

func TestTextToolOnlyRequestsInput(t *testing.T) {
	c, s := newTestController(t)
	require.NoError(t, c.SetTool(Text))
	before := s.Snapshot()

	assert.Equal(t, TextRequested, c.Begin(Point{5, 5}, before))
	assert.False(t, c.Active())
	assert.True(t, before.Equal(s.Snapshot()))
}

func TestBeginWhileActiveIsIgnored(t *testing.T) {
	c, _ := newTestController(t)

	require.Equal(t, Started, c.Begin(Point{1, 1}, raster.Snapshot{}))
	assert.Equal(t, Ignored, c.Begin(Point{2, 2}, raster.Snapshot{}))
}

func TestParametersApplyToNextGesture(t *testing.T) {
	c, s := newTestController(t)

	require.Equal(t, Started, c.Begin(Point{10, 20}, raster.Snapshot{}))
	c.SetColor(red)
	update(t, c, Point{90, 20})
	c.End()
	assertNear(t, black, s.At(50, 20))

	drag(t, c, raster.Snapshot{}, Point{10, 60}, Point{90, 60})
	assertNear(t, red, s.At(50, 60))
}

func TestCancelKeepsSurface(t *testing.T) {
	c, s := newTestController(t)
	require.NoError(t, c.SetTool(Line))

	require.Equal(t, Started, c.Begin(Point{10, 10}, s.Snapshot()))
	update(t, c, Point{90, 90})
	c.Cancel()

	assert.False(t, c.Active())
	assertNear(t, black, s.At(50, 50))
}

func TestSetWidth(t *testing.T) {
	c, _ := newTestController(t)

	require.NoError(t, c.SetWidth(500))
	assert.Equal(t, 50.0, c.Paint().Width)
	assert.ErrorIs(t, c.SetWidth(0), ErrInvalidStrokeWidth)
	assert.Equal(t, 50.0, c.Paint().Width)
}

func TestSetToolRejectsUnknown(t *testing.T) {
	c, _ := newTestController(t)

	assert.ErrorIs(t, c.SetTool(Tool(42)), ErrUnknownTool)
	assert.Equal(t, Pencil, c.Tool())
}

func TestEraserRevealsTranslucentBackground(t *testing.T) {
	for _, bg := range []color.NRGBA{{}, {R: 255, G: 255, B: 255, A: 0x80}} {
		s, err := raster.NewSurface(100, 100, bg)
		require.NoError(t, err)
		o, err := raster.NewOverlay(100, 100)
		require.NoError(t, err)
		c, err := NewController(s, o, Paint{Color: red, Width: 10}, 50)
		require.NoError(t, err)

		drag(t, c, raster.Snapshot{}, Point{10, 50}, Point{90, 50})
		assertNear(t, red, s.At(50, 50))

		require.NoError(t, c.SetTool(Eraser))
		drag(t, c, raster.Snapshot{}, Point{50, 30}, Point{50, 70})

		assert.Equal(t, bg, s.At(50, 50), "background %v", bg)
		assertNear(t, red, s.At(20, 50))
		assert.Equal(t, bg, s.At(50, 10), "untouched pixels keep the background")
		require.NoError(t, s.Close())
		require.NoError(t, o.Close())
	}
}

func TestFlatRectangleDrawsNothing(t *testing.T) {
	c, s := newTestController(t)
	require.NoError(t, c.SetTool(Rectangle))
	base := s.Snapshot()

	drag(t, c, base, Point{50, 20}, Point{50, 80})
	assert.True(t, base.Equal(s.Snapshot()))

	drag(t, c, base, Point{20, 50}, Point{80, 50})
	assert.True(t, base.Equal(s.Snapshot()))
}

func TestUpdateReportsPainting(t *testing.T) {
	c, _ := newTestController(t)

	painted, err := c.Update(Point{5, 5})
	require.NoError(t, err)
	assert.False(t, painted, "no gesture")

	require.Equal(t, Started, c.Begin(Point{10, 10}, raster.Snapshot{}))
	assert.False(t, update(t, c, Point{10, 10}), "zero-length segment")
	assert.True(t, update(t, c, Point{40, 10}))
	assert.False(t, update(t, c, Point{40, 10}))
	c.End()
}
