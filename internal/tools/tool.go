// Package tools implements the drawing tools: freehand strokes painted
// straight onto the surface, shapes previewed through the overlay, and the
// text tool that only asks for input.
package tools

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownTool is returned by ParseTool for names outside the tool set.
var ErrUnknownTool = errors.New("tools: unknown tool")

// Tool identifies the active drawing tool.
type Tool int

const (
	Pencil Tool = iota
	Brush
	Eraser
	Rectangle
	Ellipse
	Line
	Text
)

var toolNames = [...]string{
	Pencil:    "pencil",
	Brush:     "brush",
	Eraser:    "eraser",
	Rectangle: "rectangle",
	Ellipse:   "ellipse",
	Line:      "line",
	Text:      "text",
}

// All lists every tool in toolbar order.
func All() []Tool {
	return []Tool{Pencil, Brush, Eraser, Rectangle, Ellipse, Line, Text}
}

func (t Tool) String() string {
	if t < 0 || int(t) >= len(toolNames) {
		return fmt.Sprintf("Tool(%d)", int(t))
	}
	return toolNames[t]
}

// Valid reports whether t is one of the known tools.
func (t Tool) Valid() bool {
	return t >= 0 && int(t) < len(toolNames)
}

// ParseTool looks a tool up by name, ignoring case.
func ParseTool(name string) (Tool, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range toolNames {
		if n == name {
			return Tool(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownTool, name)
}

// IsStroke reports whether the tool paints eagerly along the pointer path.
func (t Tool) IsStroke() bool {
	return t == Pencil || t == Brush || t == Eraser
}

// IsShape reports whether the tool previews a shape through the overlay.
func (t Tool) IsShape() bool {
	return t == Rectangle || t == Ellipse || t == Line
}

// Composite is the pixel combination rule a tool paints with.
type Composite int

const (
	// Replace paints the source color over existing pixels.
	Replace Composite = iota
	// Erase reveals the surface background.
	Erase
)

// Composite returns the compositing mode the tool paints with.
func (t Tool) Composite() Composite {
	if t == Eraser {
		return Erase
	}
	return Replace
}
