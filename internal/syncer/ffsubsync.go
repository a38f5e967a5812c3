package syncer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strconv"
	"strings"

	"github.com/mkotas/dualsub/internal/tools"
)

// audio-driven alignment via the ffsubsync executable; the most accurate
// strategy when the tool is installed
type FFSubSyncStrategy struct{}

func (s *FFSubSyncStrategy) Method() Method { return MethodFFSubSync }

func (s *FFSubSyncStrategy) Available() bool { return tools.Available(tools.FFSubSync) }

func (s *FFSubSyncStrategy) Describe() string {
	return "Audio-based synchronization using ffsubsync (most accurate)"
}

var ffsubsyncOffsetRegex = regexp.MustCompile(`(?i)offset:\s*([-\d.]+)\s*seconds`)

func (s *FFSubSyncStrategy) Sync(ctx context.Context, reference, target, output string, opts Options) Result {
	bin, err := tools.Path(tools.FFSubSync)
	if err != nil {
		return failure(MethodFFSubSync, output, err.Error())
	}

	opts = opts.withDefaults()

	args := []string{
		reference,
		"-i", target,
		"-o", output,
		"--max-offset-seconds", strconv.Itoa(opts.MaxOffsetSeconds),
		"--no-fix-framerate",
	}
	if opts.BulkMode {
		// shorter dialogue window and faster VAD for bulk throughput
		args = append(args, "--max-subtitle-seconds", "180", "--vad", "webrtc")
	} else {
		args = append(args, "--max-subtitle-seconds", "300")
	}

	runCtx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(runCtx, bin, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	runErr := cmd.Run()

	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		// timeouts are terminal for this strategy, never retried
		return failure(MethodFFSubSync, output,
			fmt.Sprintf("ffsubsync timed out after %s", opts.Timeout))
	}

	if runErr != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = "unknown ffsubsync error"
		}
		result := failure(MethodFFSubSync, output, fmt.Sprintf("ffsubsync failed: %s", msg))
		result.Details = map[string]any{"stderr": stderr.String()}
		return result
	}

	if info, err := os.Stat(output); err != nil || info.Size() == 0 {
		return failure(MethodFFSubSync, output, "ffsubsync produced no output file")
	}

	return success(MethodFFSubSync, output,
		extractOffset(stdout.String()), 0.95,
		map[string]any{"stdout": stdout.String()})
}

// extractOffset pulls the applied offset from ffsubsync's stdout when the
// tool reports one; ffsubsync warps non-uniformly otherwise, so nil means
// the output file is the source of truth.
func extractOffset(stdout string) *int64 {
	matches := ffsubsyncOffsetRegex.FindStringSubmatch(stdout)
	if len(matches) != 2 {
		return nil
	}
	seconds, err := strconv.ParseFloat(matches[1], 64)
	if err != nil {
		return nil
	}
	return offsetPtr(int64(seconds * 1000))
}
