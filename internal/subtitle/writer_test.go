package subtitle

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func sampleSubtitle() *Subtitle {
	return &Subtitle{
		Entries: []Entry{
			{
				Index:     1,
				StartTime: 1 * time.Second,
				EndTime:   4 * time.Second,
				Text:      "Hello, world!",
			},
			{
				Index:     2,
				StartTime: 5500 * time.Millisecond,
				EndTime:   8200 * time.Millisecond,
				Text:      "Two lines\nof text.",
			},
		},
	}
}

func TestSRTRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.srt")
	if err := Save(sampleSubtitle(), path, FormatSRT); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	sub, err := Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	if len(sub.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(sub.Entries))
	}
	if sub.Entries[1].Text != "Two lines\nof text." {
		t.Errorf("text not preserved: %q", sub.Entries[1].Text)
	}
	if sub.Entries[1].StartTime != 5500*time.Millisecond {
		t.Errorf("timing not preserved: %v", sub.Entries[1].StartTime)
	}
}

func TestVTTRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.vtt")
	if err := Save(sampleSubtitle(), path, FormatVTT); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if !strings.HasPrefix(string(data), "WEBVTT") {
		t.Error("VTT output missing WEBVTT header")
	}

	sub, err := Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	if len(sub.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(sub.Entries))
	}
}

func TestASSWriterOutput(t *testing.T) {
	sub := sampleSubtitle()
	sub.Styles = map[string]Style{
		"Primary":   DefaultStyle(),
		"Secondary": DefaultStyle(),
	}
	sub.Entries[0].Style = "Primary"
	sub.Entries[1].Style = "Secondary"

	path := filepath.Join(t.TempDir(), "out.ass")
	if err := Save(sub, path, FormatASS); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	text := string(data)

	for _, section := range []string{"[Script Info]", "[V4+ Styles]", "[Events]"} {
		if !strings.Contains(text, section) {
			t.Errorf("ASS output missing section %s", section)
		}
	}
	if !strings.Contains(text, "Style: Primary,") {
		t.Error("ASS output missing Primary style line")
	}
	if !strings.Contains(text, `Two lines\Nof text.`) {
		t.Error("ASS output should escape newlines as \\N")
	}

	reparsed, err := Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	if len(reparsed.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(reparsed.Entries))
	}
	if reparsed.Entries[0].Style != "Primary" {
		t.Errorf("style not preserved: %q", reparsed.Entries[0].Style)
	}
}

func TestASSWriterEmitsDefaultStyleWhenNoneSet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain.ass")
	if err := Save(sampleSubtitle(), path, FormatASS); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "Style: Default,") {
		t.Error("expected a Default style when the subtitle has none")
	}
}

func TestSSAWriterUsesLegacySection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.ssa")
	if err := Save(sampleSubtitle(), path, FormatSSA); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "[V4 Styles]") {
		t.Error("SSA output should use the legacy [V4 Styles] section")
	}
}

func TestSaveSortsEntries(t *testing.T) {
	sub := &Subtitle{Entries: []Entry{
		{StartTime: 10 * time.Second, EndTime: 11 * time.Second, Text: "second"},
		{StartTime: 1 * time.Second, EndTime: 2 * time.Second, Text: "first"},
	}}

	path := filepath.Join(t.TempDir(), "sorted.srt")
	if err := Save(sub, path, FormatSRT); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	reparsed, err := Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	if reparsed.Entries[0].Text != "first" {
		t.Errorf("entries not sorted on save: first entry is %q", reparsed.Entries[0].Text)
	}
}
