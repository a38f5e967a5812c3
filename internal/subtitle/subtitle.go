package subtitle

import (
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// represents single timed cue
type Entry struct {
	Index     int
	StartTime time.Duration
	EndTime   time.Duration
	Text      string
	Style     string
}

// represents complete subtitle track
type Subtitle struct {
	Entries  []Entry
	Styles   map[string]Style
	Language string
	Format   Format
	Encoding string
}

// represents supported subtitle formats
type Format string

const (
	FormatSRT Format = "srt"
	FormatVTT Format = "vtt"
	FormatASS Format = "ass"
	FormatSSA Format = "ssa"
)

// stable sort by start time; cues with equal starts keep insertion order
func (s *Subtitle) SortByStart() {
	sort.SliceStable(s.Entries, func(i, j int) bool {
		return s.Entries[i].StartTime < s.Entries[j].StartTime
	})
}

// shifts every cue by offset, clamping negative timestamps to zero
func (s *Subtitle) ApplyOffset(offset time.Duration) {
	for i := range s.Entries {
		s.Entries[i].StartTime += offset
		s.Entries[i].EndTime += offset
		if s.Entries[i].StartTime < 0 {
			s.Entries[i].StartTime = 0
		}
		if s.Entries[i].EndTime < 0 {
			s.Entries[i].EndTime = 0
		}
	}
}

// latest cue end time, zero for an empty track
func (s *Subtitle) MaxEnd() time.Duration {
	var max time.Duration
	for _, e := range s.Entries {
		if e.EndTime > max {
			max = e.EndTime
		}
	}
	return max
}

// subtitle format based on file extension
func GetFormatFromExtension(path string) Format {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".srt":
		return FormatSRT
	case ".vtt":
		return FormatVTT
	case ".ass":
		return FormatASS
	case ".ssa":
		return FormatSSA
	default:
		return FormatSRT
	}
}

// file extension for a format
func GetExtensionForFormat(format Format) string {
	switch format {
	case FormatSRT:
		return ".srt"
	case FormatVTT:
		return ".vtt"
	case FormatASS:
		return ".ass"
	case FormatSSA:
		return ".ssa"
	default:
		return ".srt"
	}
}
