// Package syncer aligns one subtitle track to a reference using a
// prioritized chain of pluggable strategies.
package syncer

import (
	"context"
	"io"
	"os"
	"time"
)

// identifies one synchronization strategy
type Method string

const (
	MethodFFSubSync    Method = "ffsubsync"
	MethodFastAlign    Method = "fast_align"
	MethodAutoAlign    Method = "auto_align"
	MethodManualOffset Method = "manual_offset"
)

// strategy preference when no method is requested explicitly
var preferredOrder = []Method{
	MethodFFSubSync,
	MethodFastAlign,
	MethodAutoAlign,
	MethodManualOffset,
}

// per-call tuning; zero values take the defaults below
type Options struct {
	MaxOffsetSeconds int
	Timeout          time.Duration
	BulkMode         bool

	// manual_offset only
	OffsetMS int64

	// fast_align search grid; empirically tuned defaults, not load-bearing
	SearchRangeMS int64
	SearchStepMS  int64
	ToleranceMS   int64
}

const (
	defaultMaxOffsetSeconds = 60
	defaultTimeout          = 120 * time.Second
	bulkTimeout             = 90 * time.Second
	defaultSearchRangeMS    = 5000
	defaultSearchStepMS     = 200
	defaultToleranceMS      = 2000
)

func (o Options) withDefaults() Options {
	if o.MaxOffsetSeconds <= 0 {
		o.MaxOffsetSeconds = defaultMaxOffsetSeconds
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	if o.BulkMode && o.Timeout > bulkTimeout {
		o.Timeout = bulkTimeout
	}
	if o.SearchRangeMS <= 0 {
		o.SearchRangeMS = defaultSearchRangeMS
	}
	if o.SearchStepMS <= 0 {
		o.SearchStepMS = defaultSearchStepMS
	}
	if o.ToleranceMS <= 0 {
		o.ToleranceMS = defaultToleranceMS
	}
	return o
}

// outcome of one synchronization attempt; failures are data, not errors
type Result struct {
	Success    bool
	Method     Method
	OutputPath string
	OffsetMS   *int64 // nil when the strategy produced a non-uniform warp
	Confidence float64
	Err        string
	Details    map[string]any
}

// one pluggable alignment algorithm
type Strategy interface {
	Method() Method
	Available() bool
	Describe() string
	Sync(ctx context.Context, reference, target, output string, opts Options) Result
}

func failure(method Method, output, errMsg string) Result {
	return Result{Method: method, OutputPath: output, Err: errMsg}
}

func success(method Method, output string, offsetMS *int64, confidence float64, details map[string]any) Result {
	return Result{
		Success:    true,
		Method:     method,
		OutputPath: output,
		OffsetMS:   offsetMS,
		Confidence: confidence,
		Details:    details,
	}
}

func offsetPtr(ms int64) *int64 { return &ms }

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
