package player

import (
	"os"
	"path/filepath"
	"time"

	"github.com/dhowden/tag"
)

// TrackInfo describes the loaded item.
type TrackInfo struct {
	Path     string
	Title    string
	Artist   string
	Album    string
	Track    int
	Duration time.Duration
}

// ReadTrackInfo reads tag metadata from path. Duration is left zero.
func ReadTrackInfo(path string) (*TrackInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return nil, err
	}

	title := m.Title()
	if title == "" {
		title = filepath.Base(path)
	}
	artist := m.Artist()
	if artist == "" {
		artist = m.AlbumArtist()
	}
	track, _ := m.Track()

	return &TrackInfo{
		Path:   path,
		Title:  title,
		Artist: artist,
		Album:  m.Album(),
		Track:  track,
	}, nil
}

// trackInfoOrDefault never fails: untagged files get their file name as title.
func trackInfoOrDefault(path string, duration time.Duration) *TrackInfo {
	info, err := ReadTrackInfo(path)
	if err != nil {
		info = &TrackInfo{Path: path, Title: filepath.Base(path)}
	}
	info.Duration = duration
	return info
}
