package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mkotas/dualsub/internal/language"
	"github.com/mkotas/dualsub/internal/plex"
)

func TestPickSubtitle(t *testing.T) {
	sidecars := []plex.SidecarSubtitle{
		{Path: "/m/ep.en.srt", Language: "en"},
		{Path: "/m/ep.jpn.srt", Language: "jpn"},
		{Path: "/m/ep.srt", Language: ""},
	}

	tests := []struct {
		want     language.Language
		expected string
	}{
		{language.English, "/m/ep.en.srt"},
		{language.Japanese, "/m/ep.jpn.srt"}, // iso-639-2 code normalizes
		{language.Korean, ""},
	}
	for _, tt := range tests {
		if got := pickSubtitle(sidecars, tt.want); got != tt.expected {
			t.Errorf("pickSubtitle(%s) = %q, want %q", tt.want, got, tt.expected)
		}
	}
}

func TestFindVideos(t *testing.T) {
	dir := t.TempDir()
	subDir := filepath.Join(dir, "season 1")
	if err := os.MkdirAll(subDir, 0755); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{
		filepath.Join(dir, "movie.mkv"),
		filepath.Join(subDir, "e01.MP4"),
		filepath.Join(subDir, "e01.srt"),
		filepath.Join(dir, "notes.txt"),
	} {
		if err := os.WriteFile(name, []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	videos, err := findVideos(dir)
	if err != nil {
		t.Fatalf("findVideos failed: %v", err)
	}
	if len(videos) != 2 {
		t.Fatalf("expected 2 videos, got %d: %v", len(videos), videos)
	}
}
