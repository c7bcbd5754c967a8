package ui

import (
	"fmt"
	"image"

	"LocalSketch/internal/export"
	"LocalSketch/internal/state"
	"LocalSketch/internal/tools"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
)

// BoardWidget shows an engine's surface and feeds it pointer events.
type BoardWidget struct {
	widget.BaseWidget
	engine *state.Engine
	window fyne.Window

	frame  image.Image
	raster *canvas.Raster
	last   fyne.Position
	status *widget.Label

	// OnHistoryChange mirrors the engine callback for toolbar buttons.
	OnHistoryChange func(canUndo, canRedo bool)
}

var _ fyne.Widget = (*BoardWidget)(nil)
var _ fyne.Draggable = (*BoardWidget)(nil)
var _ desktop.Hoverable = (*BoardWidget)(nil)
var _ desktop.Mouseable = (*BoardWidget)(nil)

// NewBoardWidget binds engine to a new widget. Dialogs open on window.
func NewBoardWidget(engine *state.Engine, window fyne.Window) *BoardWidget {
	b := &BoardWidget{
		engine: engine,
		window: window,
		frame:  engine.Image(),
		status: widget.NewLabel("Ready"),
	}
	b.raster = canvas.NewRaster(func(int, int) image.Image { return b.frame })
	b.raster.ScaleMode = canvas.ImageScalePixels

	engine.OnChange = b.redraw
	engine.OnTextRequest = b.askText
	engine.OnHistoryChange = func(canUndo, canRedo bool) {
		if b.OnHistoryChange != nil {
			b.OnHistoryChange(canUndo, canRedo)
		}
	}
	b.ExtendBaseWidget(b)
	b.updateStatus()
	return b
}

// Engine returns the bound engine.
func (b *BoardWidget) Engine() *state.Engine { return b.engine }

// Status is the label describing the session.
func (b *BoardWidget) Status() *widget.Label { return b.status }

func (b *BoardWidget) redraw() {
	b.frame = b.engine.Image()
	b.raster.Refresh()
}

func (b *BoardWidget) updateStatus() {
	w, h := b.engine.Size()
	p := b.engine.Paint()
	b.status.SetText(fmt.Sprintf("%s  %s  %.0fpx  %dx%d  session %s",
		b.engine.Tool(), tools.FormatColor(p.Color), p.Width, w, h,
		state.ShortID(b.engine.Session())))
}

func (b *BoardWidget) setStatus(text string) {
	b.status.SetText(text)
}

// pointer forwards an event in window coordinates. The surface offset is
// refreshed first since the widget may have moved.
func (b *BoardWidget) pointer(ph state.Phase, abs fyne.Position) {
	if a := fyne.CurrentApp(); a != nil {
		off := a.Driver().AbsolutePositionForObject(b)
		b.engine.SetSurfaceOffset(float64(off.X), float64(off.Y))
	}
	b.last = abs
	if err := b.engine.Pointer(ph, tools.Point{X: float64(abs.X), Y: float64(abs.Y)}); err != nil {
		state.Logger().Warn("[UI] pointer", "phase", ph, "err", err)
		b.setStatus(err.Error())
	}
}

func (b *BoardWidget) MouseDown(e *desktop.MouseEvent) {
	if e.Button == desktop.MouseButtonPrimary {
		b.pointer(state.PointerDown, e.AbsolutePosition)
	}
}

func (b *BoardWidget) MouseUp(e *desktop.MouseEvent) {
	if e.Button == desktop.MouseButtonPrimary {
		b.pointer(state.PointerUp, e.AbsolutePosition)
	}
}

func (b *BoardWidget) Dragged(e *fyne.DragEvent) {
	b.pointer(state.PointerMove, e.AbsolutePosition)
}

func (b *BoardWidget) DragEnd() {
	b.pointer(state.PointerUp, b.last)
}

func (b *BoardWidget) MouseIn(*desktop.MouseEvent) {}

func (b *BoardWidget) MouseMoved(e *desktop.MouseEvent) {
	b.last = e.AbsolutePosition
}

func (b *BoardWidget) MouseOut() {
	if b.engine.Drawing() {
		b.pointer(state.PointerLeave, b.last)
	}
}

// askText opens the text entry form for a pending text request.
func (b *BoardWidget) askText(p tools.Point) {
	if b.window == nil {
		return
	}
	entry := widget.NewEntry()
	entry.SetPlaceHolder("Text")
	items := []*widget.FormItem{widget.NewFormItem("Text", entry)}
	dialog.ShowForm("Insert text", "Place", "Cancel", items, func(ok bool) {
		if !ok {
			b.engine.CancelText()
			return
		}
		if err := b.engine.ConfirmText(entry.Text); err != nil {
			state.Logger().Warn("[UI] text", "err", err)
			dialog.ShowError(err, b.window)
		}
	}, b.window)
	state.Logger().Debug("[UI] text requested", "x", p.X, "y", p.Y)
}

// FitToView reinitializes the surface at the widget's current size.
func (b *BoardWidget) FitToView() {
	size := b.Size()
	if err := b.engine.Resize(int(size.Width), int(size.Height)); err != nil {
		b.setStatus(err.Error())
		return
	}
	b.Refresh()
	b.updateStatus()
}

// SaveAs asks for a destination and exports the surface. The file extension
// picks PNG or PDF.
func (b *BoardWidget) SaveAs() {
	save := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, b.window)
			return
		}
		if writer == nil {
			return
		}
		b.saveTo(writer)
	}, b.window)
	save.SetFileName("sketch.png")
	save.SetFilter(storage.NewExtensionFileFilter([]string{".png", ".pdf"}))
	save.Show()
}

func (b *BoardWidget) saveTo(writer fyne.URIWriteCloser) {
	defer func() {
		if err := writer.Close(); err != nil {
			state.Logger().Warn("[UI] close export", "err", err)
		}
	}()
	format := export.FormatForPath(writer.URI().Path())
	if err := b.engine.Export(writer, format); err != nil {
		state.Logger().Error("[UI] export", "uri", writer.URI().String(), "err", err)
		b.setStatus("Error writing file")
		return
	}
	state.Logger().Info("[UI] exported", "uri", writer.URI().String(), "format", format)
	b.setStatus("Saved " + writer.URI().Name())
}

func (b *BoardWidget) CreateRenderer() fyne.WidgetRenderer {
	return &boardWidgetRenderer{board: b}
}

type boardWidgetRenderer struct {
	board *BoardWidget
}

func (r *boardWidgetRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.board.raster}
}

// Layout pins the raster to the surface size so one widget unit is one
// surface pixel.
func (r *boardWidgetRenderer) Layout(fyne.Size) {
	w, h := r.board.engine.Size()
	r.board.raster.Move(fyne.NewPos(0, 0))
	r.board.raster.Resize(fyne.NewSize(float32(w), float32(h)))
}

func (r *boardWidgetRenderer) MinSize() fyne.Size {
	w, h := r.board.engine.Size()
	return fyne.NewSize(float32(w), float32(h))
}

func (r *boardWidgetRenderer) Refresh() {
	r.Layout(r.board.Size())
	canvas.Refresh(r.board.raster)
}

func (r *boardWidgetRenderer) Destroy() {}
