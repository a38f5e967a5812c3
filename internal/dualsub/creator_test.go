package dualsub

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkotas/dualsub/internal/language"
	"github.com/mkotas/dualsub/internal/logging"
	"github.com/mkotas/dualsub/internal/subtitle"
	"github.com/mkotas/dualsub/internal/syncer"
	"github.com/mkotas/dualsub/internal/video"
)

type stubStrategy struct {
	fail     bool
	offsetMS int64
}

func (s *stubStrategy) Method() syncer.Method { return syncer.MethodManualOffset }
func (s *stubStrategy) Available() bool       { return true }
func (s *stubStrategy) Describe() string      { return "stub" }

func (s *stubStrategy) Sync(ctx context.Context, reference, target, output string, opts syncer.Options) syncer.Result {
	if s.fail {
		return syncer.Result{Method: syncer.MethodManualOffset, Err: "stub failure"}
	}
	sub, err := subtitle.Open(target)
	if err != nil {
		return syncer.Result{Method: syncer.MethodManualOffset, Err: err.Error()}
	}
	sub.ApplyOffset(time.Duration(s.offsetMS) * time.Millisecond)
	if err := subtitle.Save(sub, output, subtitle.FormatSRT); err != nil {
		return syncer.Result{Method: syncer.MethodManualOffset, Err: err.Error()}
	}
	return syncer.Result{
		Success:    true,
		Method:     syncer.MethodManualOffset,
		OutputPath: output,
		Confidence: 1.0,
	}
}

type stubProber struct {
	duration time.Duration
	err      error
}

func (p stubProber) Probe(path string) (*video.Info, error) {
	if p.err != nil {
		return nil, p.err
	}
	return &video.Info{Path: path, Duration: p.duration, HasAudio: true}, nil
}

func writeSRT(t *testing.T, dir, name string, startsMS []int64, texts []string) string {
	t.Helper()
	sub := &subtitle.Subtitle{}
	for i, start := range startsMS {
		sub.Entries = append(sub.Entries, subtitle.Entry{
			Index:     i + 1,
			StartTime: time.Duration(start) * time.Millisecond,
			EndTime:   time.Duration(start+1500) * time.Millisecond,
			Text:      texts[i],
		})
	}
	path := filepath.Join(dir, name)
	require.NoError(t, subtitle.Save(sub, path, subtitle.FormatSRT))
	return path
}

func newTestCreator(t *testing.T, prober video.Prober, strategies ...syncer.Strategy) *Creator {
	t.Helper()
	log := logging.NewLogger(false)
	return NewCreator(
		syncer.NewSynchronizerWith(log, strategies...),
		language.NewDetector(),
		prober,
		log,
		t.TempDir(),
	)
}

func basicConfig() Config {
	cfg := DefaultConfig()
	cfg.EnableSync = false
	cfg.EnableLanguageDetection = false
	return cfg
}

func TestCreateDualStyled(t *testing.T) {
	dir := t.TempDir()
	primary := writeSRT(t, dir, "p.srt", []int64{0, 3000}, []string{"こんにちは", "元気ですか"})
	secondary := writeSRT(t, dir, "s.srt", []int64{100, 3100}, []string{"Hello", "How are you"})
	output := filepath.Join(dir, "out.ass")

	creator := newTestCreator(t, nil)
	result := creator.CreateDual(context.Background(), primary, secondary, output, basicConfig(), "")

	require.True(t, result.Success, result.Err)
	assert.Equal(t, 2, result.PrimaryLines)
	assert.Equal(t, 2, result.SecondaryLines)
	assert.Equal(t, 4, result.TotalLines)
	assert.False(t, result.SyncPerformed)

	merged, err := subtitle.Open(output)
	require.NoError(t, err)
	assert.Len(t, merged.Entries, 4)
	assert.Contains(t, merged.Styles, "Primary")
}

func TestCreateDualSRT(t *testing.T) {
	dir := t.TempDir()
	primary := writeSRT(t, dir, "p.srt", []int64{0}, []string{"Hello"})
	secondary := writeSRT(t, dir, "s.srt", []int64{100}, []string{"Bonjour"})
	output := filepath.Join(dir, "out.srt")

	cfg := basicConfig()
	cfg.OutputFormat = FormatSRT

	result := newTestCreator(t, nil).CreateDual(context.Background(), primary, secondary, output, cfg, "")
	require.True(t, result.Success, result.Err)

	merged, err := subtitle.Open(output)
	require.NoError(t, err)
	require.Len(t, merged.Entries, 1) // overlapping cross-track cues collapse
	assert.Equal(t, "Bonjour\nHello", merged.Entries[0].Text)
}

func TestCreateDualSyncSuccess(t *testing.T) {
	dir := t.TempDir()
	primary := writeSRT(t, dir, "p.srt", []int64{2000, 8000}, []string{"こんにちは", "さようなら"})
	secondary := writeSRT(t, dir, "s.srt", []int64{0, 6000}, []string{"Hello", "Goodbye"})
	output := filepath.Join(dir, "out.ass")

	cfg := basicConfig()
	cfg.EnableSync = true
	cfg.SyncMethod = syncer.MethodManualOffset

	creator := newTestCreator(t, nil, &stubStrategy{offsetMS: 2000})
	result := creator.CreateDual(context.Background(), primary, secondary, output, cfg, "")

	require.True(t, result.Success, result.Err)
	assert.True(t, result.SyncPerformed)
	assert.Equal(t, string(syncer.MethodManualOffset), result.SyncMethod)

	merged, err := subtitle.Open(output)
	require.NoError(t, err)
	// secondary cues were shifted onto the primary timeline
	assert.Equal(t, 2*time.Second, merged.Entries[0].StartTime)
	assert.Equal(t, 2*time.Second, merged.Entries[1].StartTime)
}

func TestCreateDualSyncFailureFallsBackToOriginalTiming(t *testing.T) {
	dir := t.TempDir()
	primary := writeSRT(t, dir, "p.srt", []int64{0}, []string{"Hello"})
	secondary := writeSRT(t, dir, "s.srt", []int64{500}, []string{"Bonjour"})
	output := filepath.Join(dir, "out.ass")

	cfg := basicConfig()
	cfg.EnableSync = true

	creator := newTestCreator(t, nil, &stubStrategy{fail: true})
	result := creator.CreateDual(context.Background(), primary, secondary, output, cfg, "")

	require.True(t, result.Success, result.Err)
	assert.False(t, result.SyncPerformed)
	require.NotEmpty(t, result.Warnings)
	assert.Contains(t, result.Warnings[0], "using original timing")
}

func TestCreateDualVideoWarnings(t *testing.T) {
	dir := t.TempDir()
	primary := writeSRT(t, dir, "p.srt", []int64{0, 100000}, []string{"a", "b"})
	secondary := writeSRT(t, dir, "s.srt", []int64{100}, []string{"c"})
	output := filepath.Join(dir, "out.ass")

	// video much shorter than the primary track
	creator := newTestCreator(t, stubProber{duration: 60 * time.Second})
	result := creator.CreateDual(context.Background(), primary, secondary, output, basicConfig(), "video.mkv")

	require.True(t, result.Success, result.Err)
	found := false
	for _, warning := range result.Warnings {
		if strings.Contains(warning, "beyond video") {
			found = true
		}
	}
	assert.True(t, found, "expected a beyond-video warning, got %v", result.Warnings)
}

func TestCreateDualProbeFailureIsAdvisory(t *testing.T) {
	dir := t.TempDir()
	primary := writeSRT(t, dir, "p.srt", []int64{0}, []string{"a"})
	secondary := writeSRT(t, dir, "s.srt", []int64{100}, []string{"b"})
	output := filepath.Join(dir, "out.ass")

	creator := newTestCreator(t, stubProber{err: os.ErrNotExist})
	result := creator.CreateDual(context.Background(), primary, secondary, output, basicConfig(), "video.mkv")

	require.True(t, result.Success, result.Err)
	require.NotEmpty(t, result.Warnings)
	assert.Contains(t, result.Warnings[0], "could not validate video sync")
}

func TestCreateDualMissingPrimaryFails(t *testing.T) {
	dir := t.TempDir()
	secondary := writeSRT(t, dir, "s.srt", []int64{0}, []string{"b"})
	output := filepath.Join(dir, "out.ass")

	result := newTestCreator(t, nil).CreateDual(context.Background(),
		filepath.Join(dir, "missing.srt"), secondary, output, basicConfig(), "")

	assert.False(t, result.Success)
	assert.Contains(t, result.Err, "primary")

	// atomic save means a failed merge leaves no partial output
	_, err := os.Stat(output)
	assert.True(t, os.IsNotExist(err))
}

func TestCreateDualInvalidConfig(t *testing.T) {
	cfg := basicConfig()
	cfg.OutputFormat = "pdf"

	result := newTestCreator(t, nil).CreateDual(context.Background(), "p.srt", "s.srt", "out.ass", cfg, "")
	assert.False(t, result.Success)
	assert.Contains(t, result.Err, "config")
}

func TestCreateDualLanguageDetection(t *testing.T) {
	dir := t.TempDir()
	japanese := make([]string, 8)
	english := make([]string, 8)
	var starts []int64
	for i := range japanese {
		japanese[i] = "こんにちは、世界。今日はいい天気ですね。"
		english[i] = "The weather is really quite lovely today."
		starts = append(starts, int64(i*3000))
	}
	primary := writeSRT(t, dir, "p.srt", starts, japanese)
	secondary := writeSRT(t, dir, "s.srt", starts, english)
	output := filepath.Join(dir, "out.ass")

	cfg := basicConfig()
	cfg.EnableLanguageDetection = true

	result := newTestCreator(t, nil).CreateDual(context.Background(), primary, secondary, output, cfg, "")
	require.True(t, result.Success, result.Err)
	require.Contains(t, result.Languages, "primary")
	require.Contains(t, result.Languages, "secondary")
	assert.Equal(t, language.Japanese, result.Languages["primary"].Language)

	// CJK detection upgrades the font
	merged, err := subtitle.Open(output)
	require.NoError(t, err)
	assert.Equal(t, "Noto Sans CJK JP", merged.Styles["Primary"].FontName)
}
