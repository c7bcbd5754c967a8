package ui

import (
	"image/color"

	"LocalSketch/internal/state"
	"LocalSketch/internal/tools"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

var palette = []color.Color{
	color.Black,
	color.NRGBA{R: 255, A: 255},
	color.NRGBA{G: 160, A: 255},
	color.NRGBA{B: 255, A: 255},
	color.NRGBA{R: 255, G: 200, A: 255},
	color.NRGBA{R: 255, G: 99, B: 71, A: 128},
}

// --- Custom Widget for Color Swatches ---
type colorSwatch struct {
	widget.BaseWidget
	Color    color.Color
	OnTapped func(color.Color)
}

func newColorSwatch(c color.Color, tapped func(color.Color)) *colorSwatch {
	s := &colorSwatch{Color: c, OnTapped: tapped}
	s.ExtendBaseWidget(s)
	return s
}

func (s *colorSwatch) CreateRenderer() fyne.WidgetRenderer {
	rect := canvas.NewRectangle(s.Color)
	rect.SetMinSize(fyne.NewSize(28, 28))

	border := canvas.NewRectangle(color.Transparent)
	border.StrokeColor = color.Gray{Y: 150}
	border.StrokeWidth = 1

	return widget.NewSimpleRenderer(container.NewStack(rect, border))
}

func (s *colorSwatch) Tapped(_ *fyne.PointEvent) {
	if s.OnTapped != nil {
		s.OnTapped(s.Color)
	}
}

// Toolbar holds the controls bound to a board.
type Toolbar struct {
	board  *BoardWidget
	tool   *widget.Select
	width  *widget.Slider
	undo   *widget.Button
	redo   *widget.Button
	Object fyne.CanvasObject
}

// NewToolbar builds the tool, color, width and history controls for board.
func NewToolbar(board *BoardWidget) *Toolbar {
	e := board.Engine()
	t := &Toolbar{board: board}

	names := make([]string, 0, len(tools.All()))
	for _, tool := range tools.All() {
		names = append(names, tool.String())
	}
	t.tool = widget.NewSelect(names, func(name string) {
		tool, err := tools.ParseTool(name)
		if err == nil {
			err = e.SetTool(tool)
		}
		if err != nil {
			board.setStatus(err.Error())
			return
		}
		board.updateStatus()
	})
	t.tool.SetSelected(e.Tool().String())

	onColorTapped := func(c color.Color) {
		e.SetColorRGBA(c)
		board.updateStatus()
	}
	colorBox := container.NewHBox()
	for _, c := range palette {
		colorBox.Add(newColorSwatch(c, onColorTapped))
	}

	t.width = widget.NewSlider(1, e.MaxStrokeWidth())
	t.width.SetValue(e.Paint().Width)
	t.width.OnChanged = func(v float64) {
		if err := e.SetStrokeWidth(v); err != nil {
			board.setStatus(err.Error())
			return
		}
		board.updateStatus()
	}
	sliderContainer := container.New(layout.NewGridWrapLayout(fyne.NewSize(150, 35)), t.width)

	t.undo = widget.NewButtonWithIcon("", theme.ContentUndoIcon(), t.Undo)
	t.redo = widget.NewButtonWithIcon("", theme.ContentRedoIcon(), t.Redo)
	t.syncHistory(e.CanUndo(), e.CanRedo())
	board.OnHistoryChange = t.syncHistory

	actions := widget.NewToolbar(
		widget.NewToolbarAction(theme.DeleteIcon(), func() {
			if err := e.Clear(); err != nil {
				board.setStatus(err.Error())
			}
		}),
		widget.NewToolbarAction(theme.ViewFullScreenIcon(), board.FitToView),
		widget.NewToolbarAction(theme.DocumentSaveIcon(), board.SaveAs),
	)

	t.Object = container.NewHBox(
		widget.NewLabel("Tool:"),
		t.tool,
		widget.NewSeparator(),
		widget.NewLabel("Color:"),
		colorBox,
		widget.NewSeparator(),
		widget.NewLabel("Size:"),
		sliderContainer,
		widget.NewSeparator(),
		t.undo,
		t.redo,
		actions,
		layout.NewSpacer(),
	)
	return t
}

// Undo steps the board back one entry.
func (t *Toolbar) Undo() {
	if !t.board.Engine().Undo() {
		state.Logger().Debug("[UI] nothing to undo")
	}
}

// Redo steps the board forward one entry.
func (t *Toolbar) Redo() {
	if !t.board.Engine().Redo() {
		state.Logger().Debug("[UI] nothing to redo")
	}
}

func (t *Toolbar) syncHistory(canUndo, canRedo bool) {
	setEnabled(t.undo, canUndo)
	setEnabled(t.redo, canRedo)
}

func setEnabled(b *widget.Button, on bool) {
	if on {
		b.Enable()
	} else {
		b.Disable()
	}
}
