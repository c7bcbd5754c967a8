package tools

import (
	"image/color"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.NRGBA
	}{
		{"red", color.NRGBA{R: 255, A: 255}},
		{" Black ", color.NRGBA{A: 255}},
		{"#fff", color.NRGBA{R: 255, G: 255, B: 255, A: 255}},
		{"#f008", color.NRGBA{R: 255, A: 0x88}},
		{"#1e90ff", color.NRGBA{R: 0x1e, G: 0x90, B: 0xff, A: 255}},
		{"#1E90FF80", color.NRGBA{R: 0x1e, G: 0x90, B: 0xff, A: 0x80}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColor(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseColorErrors(t *testing.T) {
	for _, in := range []string{"", "notacolor", "#12", "#12345", "#gggggg"} {
		_, err := ParseColor(in)
		assert.ErrorIs(t, err, ErrInvalidColor, in)
	}
}

func TestFormatColor(t *testing.T) {
	assert.Equal(t, "#ff0000", FormatColor(color.NRGBA{R: 255, A: 255}))
	assert.Equal(t, "#00000080", FormatColor(color.NRGBA{A: 0x80}))
}

func TestClampWidth(t *testing.T) {
	w, err := ClampWidth(3, 50)
	require.NoError(t, err)
	assert.Equal(t, 3.0, w)

	w, err = ClampWidth(80, 50)
	require.NoError(t, err)
	assert.Equal(t, 50.0, w)

	w, err = ClampWidth(80, 0)
	require.NoError(t, err)
	assert.Equal(t, 80.0, w)

	for _, bad := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		_, err = ClampWidth(bad, 50)
		assert.ErrorIs(t, err, ErrInvalidStrokeWidth)
	}
}

func TestParseTool(t *testing.T) {
	for _, tool := range All() {
		got, err := ParseTool(tool.String())
		require.NoError(t, err)
		assert.Equal(t, tool, got)
	}

	got, err := ParseTool("  ELLIPSE")
	require.NoError(t, err)
	assert.Equal(t, Ellipse, got)

	_, err = ParseTool("lasso")
	assert.ErrorIs(t, err, ErrUnknownTool)
	assert.Equal(t, "Tool(9)", Tool(9).String())
}

func TestToolKinds(t *testing.T) {
	assert.True(t, Pencil.IsStroke())
	assert.True(t, Eraser.IsStroke())
	assert.False(t, Line.IsStroke())
	assert.True(t, Rectangle.IsShape())
	assert.False(t, Text.IsShape())
	assert.Equal(t, Erase, Eraser.Composite())
	assert.Equal(t, Replace, Brush.Composite())
}
