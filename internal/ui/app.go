package ui

import (
	"LocalSketch/internal/state"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

// RunApp opens the drawing window for engine and blocks until it closes.
// A non-empty shareLink is shown in the footer.
func RunApp(engine *state.Engine, shareLink string) {
	myApp := app.New()
	myWindow := myApp.NewWindow("LocalSketch")
	w, h := engine.Size()
	myWindow.Resize(fyne.NewSize(float32(w), float32(h)+80))

	board := NewBoardWidget(engine, myWindow)
	toolbar := NewToolbar(board)
	addShortcuts(myWindow.Canvas(), toolbar)

	footer := []fyne.CanvasObject{board.Status()}
	if shareLink != "" {
		link := widget.NewEntry()
		link.SetText(shareLink)
		footer = append(footer, widget.NewLabel("Remote:"), link)
	}

	content := container.NewBorder(
		toolbar.Object,
		container.NewHBox(footer...),
		nil, nil,
		container.NewScroll(board),
	)
	myWindow.SetContent(content)
	state.Logger().Info("[UI] window opened", "session", state.ShortID(engine.Session()))
	myWindow.ShowAndRun()
}

func addShortcuts(c fyne.Canvas, t *Toolbar) {
	c.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyZ, Modifier: fyne.KeyModifierShortcutDefault},
		func(fyne.Shortcut) { t.Undo() })
	c.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyY, Modifier: fyne.KeyModifierShortcutDefault},
		func(fyne.Shortcut) { t.Redo() })
	c.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyS, Modifier: fyne.KeyModifierShortcutDefault},
		func(fyne.Shortcut) { t.board.SaveAs() })
}
