package fyne

import (
	"log/slog"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/tejashwikalptaru/wavescope/internal/adapter/canvas/raster"
	"github.com/tejashwikalptaru/wavescope/internal/domain"
	"github.com/tejashwikalptaru/wavescope/internal/ports"
)

// Window defaults.
const (
	APPNAME        = "WaveScope"
	WIDTH  float32 = 900
	HEIGHT float32 = 560

	noTrackText = "No file loaded"
)

// MainWindow is the main UI window implementing ports.View.
//
// The MainWindow follows the MVP pattern:
// - It's a "dumb view" that just displays data
// - All business logic is in the Presenter
// - User interactions are forwarded to the Presenter
//
// View methods may be called from any goroutine; they hop onto the UI
// thread with fyne.Do.
type MainWindow struct {
	app    fyne.App
	window fyne.Window
	logger *slog.Logger

	// UI components
	openButton *widget.Button
	playButton *widget.Button
	modeSelect *widget.Select
	trackLabel *widget.Label
	surface    *SurfaceView

	// set while the selector is updated from the model
	syncingMode bool

	// Lifecycle management
	closeOnce sync.Once

	// Presenter (set after construction)
	presenter *Presenter
}

var _ ports.View = (*MainWindow)(nil)

// NewMainWindow creates the main window around the visualization surface.
func NewMainWindow(app fyne.App, surface *raster.Surface, logger *slog.Logger) *MainWindow {
	w := &MainWindow{
		app:    app,
		logger: logger,
	}

	w.window = app.NewWindow(APPNAME)
	w.surface = NewSurfaceView(surface)
	w.buildUI()

	w.window.Resize(fyne.NewSize(WIDTH, HEIGHT))
	return w
}

// SetPresenter connects the presenter to this view.
// This must be called before showing the window.
func (w *MainWindow) SetPresenter(presenter *Presenter) {
	w.presenter = presenter
	w.wirePresenterHandlers()
	w.addShortcuts()
}

// buildUI constructs the UI components.
func (w *MainWindow) buildUI() {
	w.openButton = widget.NewButtonWithIcon("Open", theme.FolderOpenIcon(), nil)
	w.playButton = widget.NewButtonWithIcon("", theme.MediaPlayIcon(), nil)
	w.playButton.Disable()

	names := make([]string, 0, len(domain.Modes()))
	for _, m := range domain.Modes() {
		names = append(names, m.DisplayName())
	}
	w.modeSelect = widget.NewSelect(names, nil)
	w.modeSelect.SetSelected(domain.ModeBars.DisplayName())

	w.trackLabel = widget.NewLabel(noTrackText)
	w.trackLabel.Truncation = fyne.TextTruncateEllipsis
	w.trackLabel.TextStyle = fyne.TextStyle{Bold: true}

	buttons := container.NewHBox(w.openButton, w.playButton)
	controls := container.NewBorder(nil, nil, buttons, w.modeSelect, w.trackLabel)

	w.window.SetContent(container.NewBorder(nil, container.NewPadded(controls), nil, nil, w.surface))
	w.window.SetMainMenu(fyne.NewMainMenu(w.createMenu()...))
}

// wirePresenterHandlers connects UI events to presenter handlers.
func (w *MainWindow) wirePresenterHandlers() {
	if w.presenter == nil {
		return
	}

	w.openButton.OnTapped = w.handleOpenFile
	w.playButton.OnTapped = w.presenter.OnPlayClicked
	w.modeSelect.OnChanged = func(name string) {
		if w.syncingMode {
			return
		}
		mode, err := domain.ParseMode(name)
		if err != nil {
			w.logger.Warn("unknown mode in selector", slog.String("name", name))
			return
		}
		w.presenter.OnModeSelected(mode)
	}
}

// createMenu creates the application menu.
func (w *MainWindow) createMenu() []*fyne.Menu {
	openFile := fyne.NewMenuItem("Open…", w.handleOpenFile)

	modeItems := make([]*fyne.MenuItem, 0, len(domain.Modes()))
	for _, m := range domain.Modes() {
		mode := m
		modeItems = append(modeItems, fyne.NewMenuItem(mode.DisplayName(), func() {
			if w.presenter != nil {
				w.presenter.OnModeSelected(mode)
			}
		}))
	}

	return []*fyne.Menu{
		fyne.NewMenu("File", openFile),
		fyne.NewMenu("View", modeItems...),
	}
}

// handleOpenFile handles the "Open" action.
func (w *MainWindow) handleOpenFile() {
	if w.presenter == nil {
		return
	}

	NewFileDialog(w.window, func(file domain.AudioFile) {
		_ = w.presenter.OnFileOpened(file)
	}, w.logger).Show()
}

// modeKeys maps the number keys to modes in menu order.
var modeKeys = map[fyne.KeyName]domain.VisualizationMode{
	fyne.Key1: domain.ModeBars,
	fyne.Key2: domain.ModeWave,
	fyne.Key3: domain.ModeCircular,
	fyne.Key4: domain.ModeFlashing,
}

// addShortcuts adds keyboard shortcuts.
func (w *MainWindow) addShortcuts() {
	w.window.Canvas().AddShortcut(&desktop.CustomShortcut{
		KeyName:  fyne.KeyO,
		Modifier: fyne.KeyModifierShortcutDefault,
	}, func(fyne.Shortcut) {
		w.handleOpenFile()
	})

	w.window.Canvas().SetOnTypedKey(w.handleKey)
}

func (w *MainWindow) handleKey(ev *fyne.KeyEvent) {
	if w.presenter == nil {
		return
	}
	if ev.Name == fyne.KeySpace {
		if !w.playButton.Disabled() {
			w.presenter.OnPlayClicked()
		}
		return
	}
	if mode, ok := modeKeys[ev.Name]; ok {
		w.presenter.OnModeSelected(mode)
	}
}

// ShowAndRun shows the window and runs the application.
func (w *MainWindow) ShowAndRun() {
	w.window.ShowAndRun()
}

// Close closes the window.
// It's safe to call multiple times (idempotent).
func (w *MainWindow) Close() {
	w.closeOnce.Do(func() {
		w.window.Close()
	})
}

// GetWindow returns the underlying Fyne window.
func (w *MainWindow) GetWindow() fyne.Window {
	return w.window
}

// ports.View implementation

// SetTrackInfo updates the title line. An empty title shows the placeholder.
func (w *MainWindow) SetTrackInfo(title string) {
	if title == "" {
		title = noTrackText
	}
	fyne.Do(func() {
		w.trackLabel.SetText(title)
	})
}

// SetPlayState updates the play/pause button icon.
func (w *MainWindow) SetPlayState(playing bool) {
	icon := theme.MediaPlayIcon()
	if playing {
		icon = theme.MediaPauseIcon()
	}
	fyne.Do(func() {
		w.playButton.SetIcon(icon)
	})
}

// SetPlayEnabled enables or disables the play button.
func (w *MainWindow) SetPlayEnabled(enabled bool) {
	fyne.Do(func() {
		if enabled {
			w.playButton.Enable()
		} else {
			w.playButton.Disable()
		}
	})
}

// SetMode selects mode in the selector without reporting it back.
func (w *MainWindow) SetMode(mode domain.VisualizationMode) {
	fyne.Do(func() {
		w.syncingMode = true
		w.modeSelect.SetSelected(mode.DisplayName())
		w.syncingMode = false
	})
}

// ShowNotice shows an information dialog over the window.
func (w *MainWindow) ShowNotice(title, message string) {
	fyne.Do(func() {
		dialog.ShowInformation(title, message, w.window)
	})
}
