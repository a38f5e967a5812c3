package syncer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkotas/dualsub/internal/subtitle"
)

// writeTrack saves cues with the given start times and texts as SRT.
func writeTrack(t *testing.T, path string, startsMS []int64, texts []string) {
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
	require.NoError(t, subtitle.Save(sub, path, subtitle.FormatSRT))
}

func uniqueTexts(n int) []string {
	adjectives := []string{"quiet", "golden", "restless", "distant", "sudden", "narrow"}
	nouns := []string{"river", "window", "evening", "journey", "signal", "harbor"}
	texts := make([]string, n)
	for i := range texts {
		texts[i] = fmt.Sprintf("The %s %s waited for line number %d.",
			adjectives[i%len(adjectives)], nouns[(i/2)%len(nouns)], i+1)
	}
	return texts
}

func TestManualOffsetZeroCopiesByteIdentical(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "target.srt")
	output := filepath.Join(dir, "out.srt")
	writeTrack(t, target, []int64{1000, 4000}, []string{"one", "two"})

	result := (&ManualOffsetStrategy{}).Sync(context.Background(), "", target, output, Options{})
	require.True(t, result.Success, result.Err)
	assert.Equal(t, 1.0, result.Confidence)
	require.NotNil(t, result.OffsetMS)
	assert.Equal(t, int64(0), *result.OffsetMS)

	in, err := os.ReadFile(target)
	require.NoError(t, err)
	out, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestManualOffsetShiftsTiming(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "target.srt")
	output := filepath.Join(dir, "out.srt")
	writeTrack(t, target, []int64{1000, 4000}, []string{"one", "two"})

	result := (&ManualOffsetStrategy{}).Sync(context.Background(), "", target, output,
		Options{OffsetMS: 1500})
	require.True(t, result.Success, result.Err)

	shifted, err := subtitle.Open(output)
	require.NoError(t, err)
	assert.Equal(t, 2500*time.Millisecond, shifted.Entries[0].StartTime)
	assert.Equal(t, 5500*time.Millisecond, shifted.Entries[1].StartTime)
}

func TestAutoAlignMedianResistsOutlier(t *testing.T) {
	dir := t.TempDir()
	reference := filepath.Join(dir, "ref.srt")
	target := filepath.Join(dir, "tgt.srt")
	output := filepath.Join(dir, "out.srt")

	texts := uniqueTexts(10)
	var refStarts, tgtStarts []int64
	for i := int64(0); i < 10; i++ {
		tgtStarts = append(tgtStarts, i*3000)
		refStarts = append(refStarts, i*3000+500)
	}
	// one wildly wrong leading delta must not move the median
	refStarts[0] = tgtStarts[0] + 50000

	writeTrack(t, reference, refStarts, texts)
	writeTrack(t, target, tgtStarts, texts)

	result := (&AutoAlignStrategy{}).Sync(context.Background(), reference, target, output, Options{})
	require.True(t, result.Success, result.Err)
	require.NotNil(t, result.OffsetMS)
	assert.Equal(t, int64(500), *result.OffsetMS)
	assert.GreaterOrEqual(t, result.Confidence, 0.3)
	assert.LessOrEqual(t, result.Confidence, 0.8)
}

func TestFastAlignRecoversUniformOffset(t *testing.T) {
	dir := t.TempDir()
	reference := filepath.Join(dir, "ref.srt")
	target := filepath.Join(dir, "tgt.srt")
	output := filepath.Join(dir, "out.srt")

	texts := uniqueTexts(12)
	var refStarts, tgtStarts []int64
	for i := int64(0); i < 12; i++ {
		tgtStarts = append(tgtStarts, i*3000)
		refStarts = append(refStarts, i*3000+2000)
	}

	writeTrack(t, reference, refStarts, texts)
	writeTrack(t, target, tgtStarts, texts)

	result := (&FastAlignStrategy{}).Sync(context.Background(), reference, target, output, Options{})
	require.True(t, result.Success, result.Err)
	require.NotNil(t, result.OffsetMS)
	assert.Equal(t, int64(2000), *result.OffsetMS)
	assert.Equal(t, "text_similarity", result.Details["mode"])

	shifted, err := subtitle.Open(output)
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, shifted.Entries[0].StartTime)
}

func TestFastAlignMismatchedCueCountsUsesTimingPattern(t *testing.T) {
	dir := t.TempDir()
	reference := filepath.Join(dir, "ref.srt")
	target := filepath.Join(dir, "tgt.srt")
	output := filepath.Join(dir, "out.srt")

	refTexts := uniqueTexts(20)
	var refStarts []int64
	for i := int64(0); i < 20; i++ {
		refStarts = append(refStarts, i*3000+1000)
	}
	writeTrack(t, reference, refStarts, refTexts)
	writeTrack(t, target, []int64{0, 57000}, []string{"start", "end"})

	result := (&FastAlignStrategy{}).Sync(context.Background(), reference, target, output, Options{})
	require.True(t, result.Success, result.Err)
	assert.Equal(t, "timing_pattern", result.Details["mode"])
	assert.Equal(t, 0.65, result.Confidence)
}

func TestExtractOffset(t *testing.T) {
	offset := extractOffset("[INFO] offset: 1.75 seconds")
	require.NotNil(t, offset)
	assert.Equal(t, int64(1750), *offset)

	negative := extractOffset("Offset: -0.5 seconds applied")
	require.NotNil(t, negative)
	assert.Equal(t, int64(-500), *negative)

	// ffsubsync performed a non-uniform warp, no single offset to report
	assert.Nil(t, extractOffset("framerate ratio: 1.0"))
}
