//go:build linux

package mpris

import (
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// artNames are cover file base names in priority order.
var artNames = []string{"cover", "folder", "album", "front"}

var artExts = map[string]bool{".jpg": true, ".jpeg": true, ".png": true}

// artURL returns a file:// URL for the cover image next to trackPath, or ""
// when the directory has none. Names match case-insensitively.
func artURL(trackPath string) string {
	dir := filepath.Dir(trackPath)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}

	best, bestRank := "", len(artNames)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := strings.ToLower(e.Name())
		ext := filepath.Ext(name)
		if !artExts[ext] {
			continue
		}
		for rank, base := range artNames[:bestRank] {
			if strings.TrimSuffix(name, ext) == base {
				best, bestRank = e.Name(), rank
				break
			}
		}
	}
	if best == "" {
		return ""
	}

	abs, err := filepath.Abs(filepath.Join(dir, best))
	if err != nil {
		return ""
	}
	return (&url.URL{Scheme: "file", Path: abs}).String()
}
