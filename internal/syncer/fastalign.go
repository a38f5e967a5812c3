package syncer

import (
	"context"
	"fmt"
	"time"

	"github.com/mkotas/dualsub/internal/subtitle"
	"github.com/mkotas/dualsub/internal/textutil"
)

// subtitle-to-subtitle alignment using text similarity over a discrete
// offset grid; pure computation, no external tools
type FastAlignStrategy struct{}

func (s *FastAlignStrategy) Method() Method { return MethodFastAlign }

func (s *FastAlignStrategy) Available() bool { return true }

func (s *FastAlignStrategy) Describe() string {
	return "Fast subtitle-to-subtitle alignment using text similarity (optimized for bulk processing)"
}

func (s *FastAlignStrategy) Sync(ctx context.Context, reference, target, output string, opts Options) Result {
	opts = opts.withDefaults()

	ref, err := subtitle.Open(reference)
	if err != nil {
		return failure(MethodFastAlign, output, fmt.Sprintf("fast alignment failed: %v", err))
	}
	tgt, err := subtitle.Open(target)
	if err != nil {
		return failure(MethodFastAlign, output, fmt.Sprintf("fast alignment failed: %v", err))
	}

	var offsetMS int64
	var confidence float64
	var mode string

	// similar cue counts mean the tracks likely carry the same dialogue,
	// so text similarity is meaningful
	lenDiff := abs64(int64(len(ref.Entries)) - int64(len(tgt.Entries)))
	if lenDiff*10 <= int64(max(len(ref.Entries), len(tgt.Entries))) {
		offsetMS = bestOffsetBySimilarity(ref, tgt, opts)
		confidence = 0.85
		mode = "text_similarity"
	} else {
		offsetMS = simpleTimingOffset(ref, tgt)
		confidence = 0.65
		mode = "timing_pattern"
	}

	tgt.ApplyOffset(time.Duration(offsetMS) * time.Millisecond)
	if err := subtitle.Save(tgt, output, subtitle.GetFormatFromExtension(output)); err != nil {
		return failure(MethodFastAlign, output, fmt.Sprintf("fast alignment failed: %v", err))
	}

	return success(MethodFastAlign, output, offsetPtr(offsetMS), confidence,
		map[string]any{"mode": mode})
}

// bestOffsetBySimilarity scores each candidate offset by comparing up to 10
// evenly spaced reference cues against the timing-closest target cue,
// weighting text similarity by how close the timing match is.
func bestOffsetBySimilarity(ref, tgt *subtitle.Subtitle, opts Options) int64 {
	samples := sampleIndices(len(ref.Entries), 10)

	var bestOffset int64
	bestScore := 0.0

	for offset := -opts.SearchRangeMS; offset <= opts.SearchRangeMS; offset += opts.SearchStepMS {
		totalScore := 0.0
		valid := 0

		for _, refIdx := range samples {
			refEntry := ref.Entries[refIdx]
			wantMS := refEntry.StartTime.Milliseconds() - offset

			closest := closestByStart(tgt.Entries, wantMS)
			if closest < 0 {
				continue
			}

			refText := textutil.Normalize(refEntry.Text)
			tgtText := textutil.Normalize(tgt.Entries[closest].Text)
			if refText == "" || tgtText == "" {
				continue
			}

			timingDiff := abs64(tgt.Entries[closest].StartTime.Milliseconds() - wantMS)
			if timingDiff >= opts.ToleranceMS {
				continue
			}

			weight := max(0.1, 1.0-float64(timingDiff)/float64(opts.ToleranceMS))
			totalScore += textutil.Similarity(refText, tgtText) * weight
			valid++
		}

		if valid > 0 {
			if avg := totalScore / float64(valid); avg > bestScore {
				bestScore = avg
				bestOffset = offset
			}
		}
	}

	return bestOffset
}

// simpleTimingOffset is the coarse fallback for tracks with very different
// cue counts: average of the first-cue and last-cue start deltas.
func simpleTimingOffset(ref, tgt *subtitle.Subtitle) int64 {
	if len(ref.Entries) == 0 || len(tgt.Entries) == 0 {
		return 0
	}

	startOffset := ref.Entries[0].StartTime.Milliseconds() - tgt.Entries[0].StartTime.Milliseconds()
	if len(ref.Entries) > 1 && len(tgt.Entries) > 1 {
		endOffset := ref.Entries[len(ref.Entries)-1].StartTime.Milliseconds() -
			tgt.Entries[len(tgt.Entries)-1].StartTime.Milliseconds()
		return (startOffset + endOffset) / 2
	}
	return startOffset
}

// sampleIndices spreads up to n indices evenly across [0, total).
func sampleIndices(total, n int) []int {
	if total <= 0 {
		return nil
	}
	if n > total {
		n = total
	}
	if n == 1 {
		return []int{0}
	}

	indices := make([]int, 0, n)
	for i := 0; i < n; i++ {
		indices = append(indices, i*(total-1)/(n-1))
	}
	return indices
}

func closestByStart(entries []subtitle.Entry, wantMS int64) int {
	best := -1
	var bestDiff int64
	for i, e := range entries {
		diff := abs64(e.StartTime.Milliseconds() - wantMS)
		if best < 0 || diff < bestDiff {
			best, bestDiff = i, diff
		}
	}
	return best
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
