package native

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/dhowden/tag"

	"github.com/tejashwikalptaru/wavescope/internal/domain"
)

// readTrackInfo extracts descriptive tags from path. Missing or unreadable
// tags leave the title as the file name without its extension.
func readTrackInfo(path string) domain.TrackInfo {
	name := filepath.Base(path)
	info := domain.TrackInfo{
		Title: strings.TrimSuffix(name, filepath.Ext(name)),
	}

	file, err := os.Open(path)
	if err != nil {
		return info
	}
	defer file.Close()

	metadata, err := tag.ReadFrom(file)
	if err != nil || metadata == nil {
		return info
	}

	if title := strings.TrimSpace(metadata.Title()); title != "" {
		info.Title = title
	}
	info.Artist = strings.TrimSpace(metadata.Artist())
	info.Album = strings.TrimSpace(metadata.Album())
	return info
}
