package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
	"github.com/philipparndt/vetmeasure/internal/app"
	"github.com/philipparndt/vetmeasure/internal/measurement"
	"github.com/philipparndt/vetmeasure/internal/vet"
	"github.com/philipparndt/vetmeasure/pkg/geometry"
	"github.com/philipparndt/vetmeasure/pkg/shape"
	"github.com/philipparndt/vetmeasure/pkg/viewer"
	"github.com/philipparndt/vetmeasure/version"
)

type App struct {
	window fyne.Window

	doc      *app.Document
	docPath  string
	sessions []*app.Session
	active   *app.Session
	unit     measurement.Unit

	view        *viewer.ImageView
	table       *widget.Table
	rows        [][]string
	statusLabel *widget.Label
	toolSelect  *widget.Select
	dragIndex   int
}

func main() {
	a := fyneapp.New()
	w := a.NewWindow("VetMeasure " + version.GetVersion())

	appInstance := &App{
		window:    w,
		dragIndex: -1,
	}

	if len(os.Args) > 1 {
		appInstance.loadFile(os.Args[1])
	} else {
		appInstance.showWelcomeScreen()
	}

	w.Resize(fyne.NewSize(1200, 800))
	w.ShowAndRun()
}

func (a *App) showWelcomeScreen() {
	welcomeLabel := widget.NewLabel("Welcome to VetMeasure")
	welcomeLabel.TextStyle = fyne.TextStyle{Bold: true}

	instructionLabel := widget.NewLabel("Open a radiograph or a measurement document to start")

	openButton := widget.NewButton("Open File", func() {
		a.showFileDialog()
	})

	content := container.NewVBox(
		layout.NewSpacer(),
		container.NewCenter(welcomeLabel),
		container.NewCenter(instructionLabel),
		layout.NewSpacer(),
		container.NewCenter(openButton),
		layout.NewSpacer(),
	)

	a.window.SetContent(content)
}

func (a *App) showFileDialog() {
	dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		if reader == nil {
			return
		}
		defer reader.Close()

		a.loadFile(reader.URI().Path())
	}, a.window)
}

func (a *App) loadFile(path string) {
	doc, docPath, err := app.Open(path)
	if err != nil {
		dialog.ShowError(fmt.Errorf("failed to open %s: %w", path, err), a.window)
		return
	}
	sessions, err := doc.Sessions()
	if err != nil {
		dialog.ShowError(fmt.Errorf("failed to load tools: %w", err), a.window)
		return
	}
	unit, err := doc.Unit()
	if err != nil {
		dialog.ShowError(err, a.window)
		unit = measurement.Pixel
	}

	imagePath := doc.ImagePath(filepath.Dir(docPath))
	if imagePath == "" {
		dialog.ShowError(fmt.Errorf("%s does not name an image", docPath), a.window)
		return
	}
	img, err := app.LoadImage(imagePath)
	if err != nil {
		dialog.ShowError(err, a.window)
		return
	}

	a.doc, a.docPath, a.sessions, a.unit = doc, docPath, sessions, unit
	a.active = nil
	if len(sessions) > 0 {
		a.active = sessions[len(sessions)-1]
	}

	a.setupMainUI()
	a.view.SetImage(img)
	a.refresh()
}

func (a *App) setupMainUI() {
	a.view = viewer.NewImageView()
	a.view.OnTapped = a.onTapped
	a.view.OnDragged = a.onDragged
	a.view.OnDragEnd = a.onDragEnd

	a.statusLabel = widget.NewLabel("")
	a.statusLabel.Wrapping = fyne.TextWrapWord

	kindNames := make([]string, len(vet.Kinds))
	for i, kind := range vet.Kinds {
		kindNames[i] = kind.String()
	}
	a.toolSelect = widget.NewSelect(kindNames, nil)
	a.toolSelect.SetSelected(vet.KindVHS.String())

	newToolButton := widget.NewButton("New Tool", func() {
		kind, err := vet.ParseKind(a.toolSelect.Selected)
		if err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		s, err := app.NewSession(kind)
		if err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		a.sessions = append(a.sessions, s)
		a.active = s
		a.refresh()
	})

	undoButton := widget.NewButton("Remove Last Point", func() {
		if a.active == nil || len(a.active.Points()) == 0 {
			return
		}
		if _, err := a.active.Remove(len(a.active.Points())-1, a.calibration()); err != nil {
			dialog.ShowError(err, a.window)
		}
		a.refresh()
	})

	clearButton := widget.NewButton("Clear Points", func() {
		a.clearActive()
	})

	finalizeButton := widget.NewButton("Finish Tool", func() {
		if a.active == nil {
			return
		}
		if _, err := a.active.Finalize(a.calibration()); err != nil {
			if errors.Is(err, vet.ErrShapeInvalid) {
				dialog.ShowInformation("Incomplete", err.Error(), a.window)
			} else {
				dialog.ShowError(err, a.window)
			}
			return
		}
		a.active = nil
		a.refresh()
	})

	deleteButton := widget.NewButton("Delete Tool", func() {
		a.deleteActive()
		a.refresh()
	})

	unitSelect := widget.NewSelect([]string{"px", "mm", "cm", "in"}, nil)
	unitSelect.SetSelected(a.unit.String())
	unitSelect.OnChanged = func(s string) {
		if unit, err := measurement.ParseUnit(s); err == nil {
			a.unit = unit
			a.refresh()
		}
	}

	spacingEntry := widget.NewEntry()
	spacingEntry.SetPlaceHolder("mm per pixel")
	if a.doc.Calibration.PixelSpacing > 0 {
		spacingEntry.SetText(strconv.FormatFloat(a.doc.Calibration.PixelSpacing, 'f', -1, 64))
	}
	spacingEntry.OnChanged = func(s string) {
		spacing, err := strconv.ParseFloat(s, 64)
		if err != nil || spacing < 0 {
			spacing = 0
		}
		a.doc.Calibration.PixelSpacing = spacing
		a.refresh()
	}

	labelsCheck := widget.NewCheck("Show Labels", func(checked bool) {
		a.view.SetLabels(checked)
	})
	labelsCheck.SetChecked(true)

	fitButton := widget.NewButton("Fit View", func() {
		a.view.ResetView()
	})

	a.table = widget.NewTable(
		func() (int, int) { return len(a.rows), 3 },
		func() fyne.CanvasObject { return widget.NewLabel("Vertebral Left Atrial Size") },
		func(id widget.TableCellID, obj fyne.CanvasObject) {
			obj.(*widget.Label).SetText(a.rows[id.Row][id.Col])
		},
	)
	a.table.SetColumnWidth(0, 220)
	a.table.SetColumnWidth(1, 220)
	a.table.SetColumnWidth(2, 100)

	openButton := widget.NewButton("Open File", func() {
		a.showFileDialog()
	})
	saveButton := widget.NewButton("Save", func() {
		a.doc.Calibration.Unit = a.unit.String()
		a.doc.SetSessions(a.sessions)
		if err := app.SaveDocument(a.docPath, a.doc); err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		a.statusLabel.SetText("Saved " + a.docPath)
	})

	instructions := widget.NewLabel(
		"Instructions:\n" +
			"• Pick a tool and click New Tool\n" +
			"• Click on the image to place the points in order\n" +
			"• Drag a point to move it\n" +
			"• Scroll to zoom, shift or middle drag to pan\n" +
			"• Set the pixel spacing to measure in mm",
	)
	instructions.Wrapping = fyne.TextWrapWord

	infoPanel := container.NewVBox(
		widget.NewLabel("Tool:"),
		a.toolSelect,
		newToolButton,
		undoButton,
		clearButton,
		finalizeButton,
		deleteButton,
		widget.NewSeparator(),
		widget.NewLabel("Calibration:"),
		spacingEntry,
		unitSelect,
		labelsCheck,
		fitButton,
		widget.NewSeparator(),
		a.statusLabel,
		widget.NewSeparator(),
		instructions,
		widget.NewSeparator(),
		openButton,
		saveButton,
	)

	infoScroll := container.NewVScroll(infoPanel)
	infoScroll.SetMinSize(fyne.NewSize(300, 0))

	tableScroll := container.NewVScroll(a.table)
	tableScroll.SetMinSize(fyne.NewSize(0, 160))

	content := container.NewBorder(
		nil,         // top
		tableScroll, // bottom
		nil,         // left
		infoScroll,  // right
		a.view,      // center
	)

	a.window.SetContent(content)
}

// calibration returns the calibration for the display unit, nil when the
// pixel spacing is unknown
func (a *App) calibration() *measurement.Calibration {
	cal, ok := a.doc.Layer().Calibration(a.unit)
	if !ok {
		return nil
	}
	return &cal
}

func (a *App) onTapped(p geometry.Point) {
	if a.active == nil || a.active.Full() {
		return
	}
	if _, err := a.active.Append(p, a.calibration()); err != nil {
		a.statusLabel.SetText(err.Error())
	}
	a.refresh()
}

func (a *App) onDragged(p geometry.Point, start bool) {
	if start {
		a.dragIndex = -1
		for _, s := range a.sessions {
			if i := s.NearestPoint(p, a.view.HandleTolerance()); i >= 0 {
				a.active, a.dragIndex = s, i
				break
			}
		}
	}
	if a.dragIndex < 0 || a.active == nil {
		return
	}
	if _, err := a.active.Move(a.dragIndex, p, a.calibration()); err != nil {
		a.statusLabel.SetText(err.Error())
	}
	a.refreshOverlay()
}

func (a *App) onDragEnd() {
	if a.dragIndex < 0 || a.active == nil {
		return
	}
	a.dragIndex = -1
	if _, err := a.active.Release(a.calibration()); err != nil {
		a.statusLabel.SetText(err.Error())
	}
	a.refresh()
}

// clearActive removes every point of the active tool
func (a *App) clearActive() {
	if a.active == nil {
		return
	}
	a.active.Clear()
	a.dragIndex = -1
	a.refresh()
}

func (a *App) deleteActive() {
	for i, s := range a.sessions {
		if s == a.active {
			a.sessions = append(a.sessions[:i], a.sessions[i+1:]...)
			break
		}
	}
	a.active = nil
}

// refresh recomputes every tool and updates overlay and table
func (a *App) refresh() {
	cal := a.calibration()
	for _, s := range a.sessions {
		if !s.Dragging() {
			s.Update(cal)
		}
	}
	a.refreshOverlay()

	a.rows = measurementRows(a.sessions, a.doc.Layer(), a.unit)
	a.table.Refresh()

	if a.active != nil {
		tool := a.active.Tool()
		a.statusLabel.SetText(fmt.Sprintf("%s: %d of %d points", tool.Name(), len(a.active.Points()), tool.PointsNumber()))
	}
}

func (a *App) refreshOverlay() {
	var shapes []shape.Shape
	var handles []geometry.Point
	for _, s := range a.sessions {
		shapes = append(shapes, vet.AssembleShapes(s.Derived())...)
		if s == a.active {
			handles = s.Points()
		}
	}
	a.view.SetOverlay(shapes, handles, nil)
}

// measurementRows returns "tool, measurement, value" rows for the table
func measurementRows(sessions []*app.Session, layer measurement.Layer, unit measurement.Unit) [][]string {
	var rows [][]string
	for _, s := range sessions {
		for _, item := range s.Measure(layer, unit) {
			if !item.Table {
				continue
			}
			rows = append(rows, []string{s.Tool().Name(), item.Name, measurement.Format(item.Value, item.Unit)})
		}
	}
	return rows
}
