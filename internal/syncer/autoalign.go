package syncer

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/mkotas/dualsub/internal/subtitle"
)

// alignment from leading-cue timing deltas; the median resists outliers
type AutoAlignStrategy struct{}

func (s *AutoAlignStrategy) Method() Method { return MethodAutoAlign }

func (s *AutoAlignStrategy) Available() bool { return true }

func (s *AutoAlignStrategy) Describe() string {
	return "Automatic alignment based on subtitle timing patterns (fallback method)"
}

func (s *AutoAlignStrategy) Sync(ctx context.Context, reference, target, output string, opts Options) Result {
	ref, err := subtitle.Open(reference)
	if err != nil {
		return failure(MethodAutoAlign, output, fmt.Sprintf("auto-alignment failed: %v", err))
	}
	tgt, err := subtitle.Open(target)
	if err != nil {
		return failure(MethodAutoAlign, output, fmt.Sprintf("auto-alignment failed: %v", err))
	}

	sampleSize := min(10, len(ref.Entries), len(tgt.Entries))
	samples := make([]int64, 0, sampleSize)
	for i := 0; i < sampleSize; i++ {
		samples = append(samples, ref.Entries[i].StartTime.Milliseconds()-tgt.Entries[i].StartTime.Milliseconds())
	}

	if len(samples) == 0 {
		if err := copyFile(target, output); err != nil {
			return failure(MethodAutoAlign, output, fmt.Sprintf("auto-alignment failed: %v", err))
		}
		return success(MethodAutoAlign, output, offsetPtr(0), 0.1,
			map[string]any{"reason": "no alignment samples available"})
	}

	sort.Slice(samples, func(i, j int) bool { return samples[i] < samples[j] })
	median := samples[len(samples)/2]

	tgt.ApplyOffset(time.Duration(median) * time.Millisecond)
	if err := subtitle.Save(tgt, output, subtitle.GetFormatFromExtension(output)); err != nil {
		return failure(MethodAutoAlign, output, fmt.Sprintf("auto-alignment failed: %v", err))
	}

	var variance float64
	for _, s := range samples {
		d := float64(s - median)
		variance += d * d
	}
	variance /= float64(len(samples))
	confidence := max(0.3, min(0.8, 1.0-variance/1e6))

	return success(MethodAutoAlign, output, offsetPtr(median), confidence,
		map[string]any{
			"samples_used":    len(samples),
			"offset_variance": variance,
		})
}
