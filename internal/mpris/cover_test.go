//go:build linux

package mpris

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte("fake"), 0o600))
}

func TestArtURL(t *testing.T) {
	tests := []struct {
		name  string
		files []string
		want  string
	}{
		{name: "none", files: nil, want: ""},
		{name: "cover", files: []string{"cover.jpg"}, want: "cover.jpg"},
		{name: "case insensitive", files: []string{"Folder.PNG"}, want: "Folder.PNG"},
		{name: "priority", files: []string{"folder.jpg", "cover.png"}, want: "cover.png"},
		{name: "ignores other images", files: []string{"back.jpg", "cover.txt"}, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			for _, f := range tt.files {
				writeFile(t, filepath.Join(dir, f))
			}

			got := artURL(filepath.Join(dir, "track.mp3"))
			if tt.want == "" {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, "file://"+filepath.Join(dir, tt.want), got)
		})
	}
}

func TestArtURL_MissingDirectory(t *testing.T) {
	assert.Empty(t, artURL(filepath.Join(t.TempDir(), "missing", "track.mp3")))
}
