package raster

import (
	"fmt"
	"sync"

	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/goregular"
)

// Fonts hands out Go Regular faces, one per point size.
type Fonts struct {
	once   sync.Once
	source *text.FontSource
	err    error
	faces  map[float64]text.Face
}

// Face returns the face for the given size in points.
func (f *Fonts) Face(size float64) (text.Face, error) {
	f.once.Do(func() {
		f.source, f.err = text.NewFontSource(goregular.TTF)
		if f.err != nil {
			f.err = fmt.Errorf("raster: load go regular: %w", f.err)
		}
		f.faces = make(map[float64]text.Face)
	})
	if f.err != nil {
		return nil, f.err
	}
	face, ok := f.faces[size]
	if !ok {
		face = f.source.Face(size)
		f.faces[size] = face
	}
	return face, nil
}

// Close releases the font source.
func (f *Fonts) Close() error {
	if f.source == nil {
		return nil
	}
	return f.source.Close()
}
