// Package ports define the UI interface for view abstraction.
// This interface allows the presenter to update the UI without depending on Fyne directly.
package ports

import (
	"github.com/tejashwikalptaru/wavescope/internal/domain"
)

// View is the interface for the user interface layer.
// The presenter calls these methods; implementations marshal onto the UI thread.
type View interface {
	// SetTrackInfo displays the loaded file's title line.
	SetTrackInfo(title string)

	// SetPlayState switches the play button between play and pause icons.
	SetPlayState(playing bool)

	// SetPlayEnabled enables the play button once a file is loaded.
	SetPlayEnabled(enabled bool)

	// SetMode selects the mode in the mode selector without firing its callback.
	SetMode(mode domain.VisualizationMode)

	// ShowNotice displays a user-visible notice (e.g. a rejected file).
	ShowNotice(title, message string)
}
