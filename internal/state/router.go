package state

import "LocalSketch/internal/tools"

// gestureTarget receives the begin/update/end calls of a gesture in surface
// coordinates.
type gestureTarget interface {
	begin(p tools.Point) tools.Outcome
	update(p tools.Point) error
	end() error
}

// Router turns device pointer events into gestures. Device coordinates are
// translated by the surface's on-screen offset; no scaling is applied.
// Only one gesture runs at a time and pointer-leave ends it like pointer-up.
type Router struct {
	offset tools.Point
	active bool
	target gestureTarget
}

func newRouter(target gestureTarget) *Router {
	return &Router{target: target}
}

// SetOffset records where the surface's origin sits in device coordinates.
func (r *Router) SetOffset(x, y float64) {
	r.offset = tools.Point{X: x, Y: y}
}

// Offset returns the current surface offset.
func (r *Router) Offset() tools.Point { return r.offset }

// Local maps a device point into surface coordinates.
func (r *Router) Local(p tools.Point) tools.Point {
	return tools.Point{X: p.X - r.offset.X, Y: p.Y - r.offset.Y}
}

// Active reports whether a gesture is in progress.
func (r *Router) Active() bool { return r.active }

// Down starts a gesture. It is ignored while one is already running.
func (r *Router) Down(p tools.Point) {
	if r.active {
		return
	}
	r.active = r.target.begin(r.Local(p)) == tools.Started
}

// Move updates the running gesture, if any.
func (r *Router) Move(p tools.Point) error {
	if !r.active {
		return nil
	}
	return r.target.update(r.Local(p))
}

// Up ends the running gesture, if any.
func (r *Router) Up(tools.Point) error {
	if !r.active {
		return nil
	}
	r.active = false
	return r.target.end()
}

// Leave behaves exactly like Up so a drag leaving the surface is not stuck.
func (r *Router) Leave(p tools.Point) error {
	return r.Up(p)
}

// reset forgets the running gesture without ending it.
func (r *Router) reset() {
	r.active = false
}
