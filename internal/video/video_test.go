package video

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/mkotas/dualsub/internal/errs"
)

func TestParseProbeOutput(t *testing.T) {
	raw := `{
		"format": {"duration": "1421.496000"},
		"streams": [
			{"codec_type": "video", "codec_name": "h264", "width": 1920, "height": 1080},
			{"codec_type": "audio", "codec_name": "aac"}
		]
	}`

	info, err := parseProbeOutput(raw)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	want := time.Duration(1421.496 * float64(time.Second))
	if info.Duration != want {
		t.Errorf("expected duration %v, got %v", want, info.Duration)
	}
	if info.Width != 1920 || info.Height != 1080 {
		t.Errorf("unexpected dimensions %dx%d", info.Width, info.Height)
	}
	if info.Codec != "h264" {
		t.Errorf("expected h264, got %s", info.Codec)
	}
	if !info.HasAudio {
		t.Error("expected HasAudio")
	}
}

func TestParseProbeOutputStreamDurationFallback(t *testing.T) {
	raw := `{
		"format": {},
		"streams": [
			{"codec_type": "video", "codec_name": "vp9", "width": 1280, "height": 720, "duration": "90.5"}
		]
	}`

	info, err := parseProbeOutput(raw)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if info.Duration != 90500*time.Millisecond {
		t.Errorf("expected 90.5s from stream, got %v", info.Duration)
	}
	if info.HasAudio {
		t.Error("no audio stream present")
	}
}

func TestParseProbeOutputSubtitleStreams(t *testing.T) {
	raw := `{
		"format": {"duration": "600.0"},
		"streams": [
			{"index": 0, "codec_type": "video", "codec_name": "h264", "width": 1920, "height": 1080},
			{"index": 1, "codec_type": "audio", "codec_name": "aac"},
			{"index": 2, "codec_type": "subtitle", "codec_name": "subrip", "tags": {"language": "eng", "title": "English"}},
			{"index": 3, "codec_type": "subtitle", "codec_name": "ass", "tags": {"language": "jpn"}, "disposition": {"forced": 1}}
		]
	}`

	info, err := parseProbeOutput(raw)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(info.Subtitles) != 2 {
		t.Fatalf("expected 2 subtitle streams, got %d", len(info.Subtitles))
	}

	first := info.Subtitles[0]
	if first.Index != 2 || first.Codec != "subrip" || first.Language != "eng" || first.Title != "English" {
		t.Errorf("unexpected first stream: %+v", first)
	}
	if first.Forced {
		t.Error("first stream should not be forced")
	}

	second := info.Subtitles[1]
	if second.Index != 3 || second.Language != "jpn" || !second.Forced {
		t.Errorf("unexpected second stream: %+v", second)
	}
}

func TestExtractSubtitleStreamMissingVideo(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.mkv")
	out := filepath.Join(t.TempDir(), "out.srt")

	err := FFProbe{}.ExtractSubtitleStream(missing, 2, out)
	if err == nil {
		t.Fatal("expected error for missing video")
	}
	if !errors.Is(err, errs.ErrVideoProcessing) {
		t.Errorf("expected ErrVideoProcessing, got %v", err)
	}
}

func TestParseProbeOutputInvalidJSON(t *testing.T) {
	if _, err := parseProbeOutput("not json"); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestParseProbeOutputBadDuration(t *testing.T) {
	if _, err := parseProbeOutput(`{"format": {"duration": "n/a"}}`); err == nil {
		t.Error("expected error for unparseable duration")
	}
}
