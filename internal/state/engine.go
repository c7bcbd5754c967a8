// Package state holds the drawing engine: one explicit object per canvas
// session tying together the surface, the overlay, the history, the tool
// controller, the gesture router and the text inserter.
//
// An Engine is not safe for concurrent use. All calls are expected from the
// goroutine handling input events.
package state

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"

	"LocalSketch/internal/export"
	"LocalSketch/internal/history"
	"LocalSketch/internal/raster"
	"LocalSketch/internal/tools"
)

// Options configures a new Engine.
type Options struct {
	Width          int
	Height         int
	Background     color.Color
	Paint          tools.Paint
	MaxStrokeWidth float64
	// HistoryLimit caps retained snapshots. Zero keeps all of them.
	HistoryLimit int
	// HistoryBytes caps the pixel bytes held by retained snapshots. Zero
	// disables the cap.
	HistoryBytes int64
}

// DefaultOptions returns a white 1024×768 canvas with a black 3px pencil.
func DefaultOptions() Options {
	return Options{
		Width:          1024,
		Height:         768,
		Background:     color.White,
		Paint:          tools.Paint{Color: color.NRGBA{A: 0xff}, Width: 3},
		MaxStrokeWidth: 50,
		HistoryLimit:   50,
		HistoryBytes:   256 << 20,
	}
}

// Engine is a drawing session.
type Engine struct {
	session  string
	surface  *raster.Surface
	overlay  *raster.Overlay
	history  *history.Stack
	tools    *tools.Controller
	router   *Router
	text     TextInserter
	revision uint64

	// OnChange is called after every change of the visible pixels.
	OnChange func()
	// OnHistoryChange is called when undo or redo availability may have changed.
	OnHistoryChange func(canUndo, canRedo bool)
	// OnTextRequest is called when the text tool wants input at a point.
	OnTextRequest func(p tools.Point)
}

// NewEngine creates a session with a blank surface and a history holding
// that blank frame.
func NewEngine(opts Options) (*Engine, error) {
	if opts.Background == nil {
		opts.Background = color.White
	}
	surface, err := raster.NewSurface(opts.Width, opts.Height, opts.Background)
	if err != nil {
		return nil, fmt.Errorf("state: new surface: %w", err)
	}
	overlay, err := raster.NewOverlay(opts.Width, opts.Height)
	if err != nil {
		_ = surface.Close()
		return nil, fmt.Errorf("state: new overlay: %w", err)
	}
	ctrl, err := tools.NewController(surface, overlay, opts.Paint, opts.MaxStrokeWidth)
	if err != nil {
		_ = surface.Close()
		_ = overlay.Close()
		return nil, fmt.Errorf("state: new controller: %w", err)
	}

	e := &Engine{
		session: newSessionID(),
		surface: surface,
		overlay: overlay,
		history: history.New(opts.HistoryLimit, opts.HistoryBytes),
		tools:   ctrl,
	}
	e.router = newRouter(e)
	e.history.Reset(surface.Snapshot())

	Logger().Info("[ENGINE] session started",
		"session", e.session, "width", opts.Width, "height", opts.Height,
		"history_limit", opts.HistoryLimit, "history_bytes", opts.HistoryBytes)
	return e, nil
}

// Close releases the session's buffers. The engine must not be used after.
func (e *Engine) Close() error {
	Logger().Info("[ENGINE] session closed", "session", e.session)
	return errors.Join(e.text.Close(), e.overlay.Close(), e.surface.Close())
}

// Session returns the session identifier.
func (e *Engine) Session() string { return e.session }

// --- parameters ---

// Tool returns the active tool.
func (e *Engine) Tool() tools.Tool { return e.tools.Tool() }

// SetTool selects the tool used by the next gesture.
func (e *Engine) SetTool(t tools.Tool) error {
	if err := e.tools.SetTool(t); err != nil {
		return err
	}
	Logger().Debug("[ENGINE] tool selected", "session", e.session, "tool", t)
	return nil
}

// Paint returns the current paint parameters.
func (e *Engine) Paint() tools.Paint { return e.tools.Paint() }

// MaxStrokeWidth returns the stroke width cap.
func (e *Engine) MaxStrokeWidth() float64 { return e.tools.MaxWidth() }

// SetColor parses a color name or hex value and uses it from the next
// operation on.
func (e *Engine) SetColor(value string) error {
	c, err := tools.ParseColor(value)
	if err != nil {
		return err
	}
	e.tools.SetColor(c)
	return nil
}

// SetColorRGBA sets the paint color directly.
func (e *Engine) SetColorRGBA(c color.Color) {
	e.tools.SetColor(c)
}

// SetStrokeWidth sets the stroke width, capped at the configured maximum.
func (e *Engine) SetStrokeWidth(w float64) error {
	return e.tools.SetWidth(w)
}

// --- gestures ---

// SetSurfaceOffset records where the surface sits in device coordinates.
func (e *Engine) SetSurfaceOffset(x, y float64) { e.router.SetOffset(x, y) }

// OnPointerDown starts a gesture at a device point.
func (e *Engine) OnPointerDown(p tools.Point) error {
	e.router.Down(p)
	return nil
}

// OnPointerMove updates the running gesture.
func (e *Engine) OnPointerMove(p tools.Point) error { return e.router.Move(p) }

// OnPointerUp ends the running gesture and records it in the history.
func (e *Engine) OnPointerUp(p tools.Point) error { return e.router.Up(p) }

// OnPointerLeave ends the running gesture like OnPointerUp.
func (e *Engine) OnPointerLeave(p tools.Point) error { return e.router.Leave(p) }

// Pointer dispatches a pointer event by phase.
func (e *Engine) Pointer(ph Phase, p tools.Point) error {
	switch ph {
	case PointerDown:
		return e.OnPointerDown(p)
	case PointerMove:
		return e.OnPointerMove(p)
	case PointerUp:
		return e.OnPointerUp(p)
	case PointerLeave:
		return e.OnPointerLeave(p)
	default:
		return fmt.Errorf("state: unknown pointer phase %d", int(ph))
	}
}

// Drawing reports whether a gesture is in progress.
func (e *Engine) Drawing() bool { return e.router.Active() }

func (e *Engine) begin(p tools.Point) tools.Outcome {
	if _, pending := e.text.Pending(); pending {
		return tools.Ignored
	}
	committed, _ := e.history.Current()
	outcome := e.tools.Begin(p, committed)
	if outcome == tools.TextRequested {
		e.text.Request(p)
		Logger().Debug("[ENGINE] text requested", "session", e.session, "x", p.X, "y", p.Y)
		if e.OnTextRequest != nil {
			e.OnTextRequest(p)
		}
	}
	return outcome
}

func (e *Engine) update(p tools.Point) error {
	painted, err := e.tools.Update(p)
	if err != nil {
		return fmt.Errorf("state: update %s: %w", e.tools.Tool(), err)
	}
	if painted {
		e.changed()
	}
	return nil
}

func (e *Engine) end() error {
	if !e.tools.End() {
		return nil
	}
	e.commit("gesture")
	return nil
}

// commit records the surface as a new history entry.
func (e *Engine) commit(what string) {
	e.history.Push(e.surface.Snapshot())
	Logger().Debug("[ENGINE] committed", "session", e.session, "what", what,
		"entries", e.history.Len(), "cursor", e.history.Cursor())
	e.changed()
	e.historyChanged()
}

// cancelGesture drops an in-flight gesture without recording it.
func (e *Engine) cancelGesture() {
	if !e.router.Active() {
		return
	}
	e.router.reset()
	e.tools.Cancel()
	Logger().Debug("[ENGINE] gesture cancelled", "session", e.session)
}

// --- text ---

// PendingText returns the outstanding text request, if any.
func (e *Engine) PendingText() (PendingText, bool) { return e.text.Pending() }

// ConfirmText draws content at the pending text position. Blank content or
// no pending request does nothing.
func (e *Engine) ConfirmText(content string) error {
	drawn, err := e.text.Commit(e.surface, content, e.tools.Paint())
	if err != nil {
		return err
	}
	if drawn {
		e.commit("text")
	}
	return nil
}

// CancelText drops the pending text request.
func (e *Engine) CancelText() { e.text.Cancel() }

// --- history ---

// CanUndo reports whether Undo would change anything.
func (e *Engine) CanUndo() bool { return e.history.CanUndo() }

// CanRedo reports whether Redo would change anything.
func (e *Engine) CanRedo() bool { return e.history.CanRedo() }

// HistoryLen returns the number of retained snapshots.
func (e *Engine) HistoryLen() int { return e.history.Len() }

// Undo restores the previous snapshot. It reports whether anything changed.
func (e *Engine) Undo() bool {
	e.cancelGesture()
	snap, ok := e.history.Undo()
	if !ok {
		return false
	}
	if err := e.surface.Restore(snap); err != nil {
		e.history.Redo()
		Logger().Warn("[ENGINE] undo rejected", "session", e.session, "err", err)
		return false
	}
	e.changed()
	e.historyChanged()
	return true
}

// Redo reapplies the next snapshot. It reports whether anything changed.
func (e *Engine) Redo() bool {
	e.cancelGesture()
	snap, ok := e.history.Redo()
	if !ok {
		return false
	}
	if err := e.surface.Restore(snap); err != nil {
		e.history.Undo()
		Logger().Warn("[ENGINE] redo rejected", "session", e.session, "err", err)
		return false
	}
	e.changed()
	e.historyChanged()
	return true
}

// Clear blanks the surface and records the blank frame.
func (e *Engine) Clear() error {
	e.cancelGesture()
	e.surface.Clear()
	e.commit("clear")
	return nil
}

// Resize reinitializes the surface at the new size. Content, the in-flight
// gesture and any pending text are discarded and the history restarts from
// the blank frame.
func (e *Engine) Resize(width, height int) error {
	if err := e.surface.Resize(width, height); err != nil {
		return err
	}
	e.cancelGesture()
	e.text.Cancel()
	if err := e.overlay.Resize(width, height); err != nil {
		return err
	}
	e.history.Reset(e.surface.Snapshot())
	Logger().Info("[ENGINE] resized", "session", e.session, "width", width, "height", height)
	e.changed()
	e.historyChanged()
	return nil
}

// --- output ---

// Size returns the surface dimensions.
func (e *Engine) Size() (width, height int) {
	return e.surface.Width(), e.surface.Height()
}

// At returns the surface pixel at (x, y).
func (e *Engine) At(x, y int) color.NRGBA { return e.surface.At(x, y) }

// Image returns a copy of the visible pixels.
func (e *Engine) Image() *image.NRGBA { return e.surface.Image() }

// Revision increases every time the visible pixels change.
func (e *Engine) Revision() uint64 { return e.revision }

// ExportImage encodes the surface as PNG.
func (e *Engine) ExportImage() ([]byte, error) {
	var buf bytes.Buffer
	if err := e.Export(&buf, export.PNG); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Export writes the surface to w in the given format.
func (e *Engine) Export(w io.Writer, f export.Format) error {
	return export.Write(w, e.surface.Image(), f)
}

func (e *Engine) changed() {
	e.revision++
	if e.OnChange != nil {
		e.OnChange()
	}
}

func (e *Engine) historyChanged() {
	if e.OnHistoryChange != nil {
		e.OnHistoryChange(e.history.CanUndo(), e.history.CanRedo())
	}
}
