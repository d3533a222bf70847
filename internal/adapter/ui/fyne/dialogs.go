package fyne

import (
	"log/slog"
	"mime"
	"path/filepath"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"

	"github.com/tejashwikalptaru/wavescope/internal/domain"
)

// audioTypes backs up the platform MIME table, which often lacks audio entries.
var audioTypes = map[string]string{
	".mp3":  "audio/mpeg",
	".wav":  "audio/wav",
	".wave": "audio/wav",
	".ogg":  "audio/ogg",
	".oga":  "audio/ogg",
	".flac": "audio/flac",
}

// MediaTypeForPath returns the declared media type of path from its extension,
// or "" when unknown.
func MediaTypeForPath(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return ""
	}
	if t := mime.TypeByExtension(ext); t != "" {
		return stripParams(t)
	}
	return audioTypes[ext]
}

// mediaTypeOf prefers the type the URI reports and falls back to the extension.
func mediaTypeOf(uri fyne.URI) string {
	if t := stripParams(uri.MimeType()); t != "" && t != "application/octet-stream" && t != "text/plain" {
		return t
	}
	return MediaTypeForPath(uri.Path())
}

func stripParams(t string) string {
	if mediaType, _, err := mime.ParseMediaType(t); err == nil {
		return mediaType
	}
	return strings.TrimSpace(t)
}

// audioFileFromURI describes the file behind uri for the playback service.
func audioFileFromURI(uri fyne.URI) domain.AudioFile {
	file := domain.NewAudioFile(uri.Path(), mediaTypeOf(uri))
	if name := uri.Name(); name != "" {
		file.Name = name
	}
	return file
}

// FileDialog is a helper for creating file open dialogs.
type FileDialog struct {
	window   fyne.Window
	callback func(domain.AudioFile)
	logger   *slog.Logger
}

// NewFileDialog creates a new file dialog.
func NewFileDialog(window fyne.Window, callback func(domain.AudioFile), logger *slog.Logger) *FileDialog {
	return &FileDialog{
		window:   window,
		callback: callback,
		logger:   logger,
	}
}

// Show displays the file dialog. Any file may be picked; the playback
// service rejects those not declared as audio.
func (d *FileDialog) Show() {
	dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			d.logger.Error("file dialog error", slog.Any("error", err))
			return
		}
		if reader == nil {
			return // User cancelled
		}
		defer reader.Close()

		if d.callback != nil {
			d.callback(audioFileFromURI(reader.URI()))
		}
	}, d.window)
}
