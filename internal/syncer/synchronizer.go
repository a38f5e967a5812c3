package syncer

import (
	"context"
	"fmt"

	"github.com/mkotas/dualsub/internal/errs"
	"github.com/mkotas/dualsub/internal/logging"
)

// Synchronizer tries registered strategies in priority order with
// fallback-on-failure. Availability is probed once at construction; a tool
// appearing or vanishing mid-session is not re-detected.
type Synchronizer struct {
	strategies []Strategy
	available  map[Method]Strategy
	log        *logging.Logger
}

func NewSynchronizer(log *logging.Logger) *Synchronizer {
	return NewSynchronizerWith(log,
		&FFSubSyncStrategy{},
		&FastAlignStrategy{},
		&AutoAlignStrategy{},
		&ManualOffsetStrategy{},
	)
}

// NewSynchronizerWith builds a synchronizer over an explicit strategy set.
func NewSynchronizerWith(log *logging.Logger, strategies ...Strategy) *Synchronizer {
	available := make(map[Method]Strategy, len(strategies))
	for _, s := range strategies {
		if s.Available() {
			available[s.Method()] = s
		}
	}
	return &Synchronizer{strategies: strategies, available: available, log: log}
}

// AvailableMethods lists usable strategies in registration order.
func (s *Synchronizer) AvailableMethods() []Method {
	methods := make([]Method, 0, len(s.available))
	for _, strategy := range s.strategies {
		if _, ok := s.available[strategy.Method()]; ok {
			methods = append(methods, strategy.Method())
		}
	}
	return methods
}

// Descriptions maps each available method to its human-readable summary.
func (s *Synchronizer) Descriptions() map[Method]string {
	descriptions := make(map[Method]string, len(s.available))
	for method, strategy := range s.available {
		descriptions[method] = strategy.Describe()
	}
	return descriptions
}

// SyncSubtitles aligns target to reference, writing the result to output.
//
// With an explicit method the call fails fast when that method is
// unavailable. Otherwise strategies run in preference order; the first
// success wins and nothing further is attempted. With fallback disabled the
// first failure is returned verbatim. Strategy failures travel as Result
// data; the returned error covers only method-selection problems.
func (s *Synchronizer) SyncSubtitles(
	ctx context.Context,
	reference, target, output string,
	method Method,
	fallback bool,
	opts Options,
) (Result, error) {
	var methodsToTry []Method

	if method != "" {
		if _, ok := s.available[method]; !ok {
			return Result{}, errs.NewSyncError(
				fmt.Sprintf("sync method %s is not available", method),
				len(s.available) > 0,
			)
		}
		methodsToTry = []Method{method}
	} else {
		for _, m := range preferredOrder {
			if _, ok := s.available[m]; ok {
				methodsToTry = append(methodsToTry, m)
			}
		}
	}

	if len(methodsToTry) == 0 {
		return Result{}, errs.NewSyncError("no synchronization methods available", false)
	}

	var lastErr string
	for _, m := range methodsToTry {
		strategy := s.available[m]

		s.log.Debugw("Attempting sync", "method", m)
		result := strategy.Sync(ctx, reference, target, output, opts)

		if result.Success {
			s.log.Infow("Synchronized subtitles",
				"method", m,
				"confidence", result.Confidence)
			return result, nil
		}

		lastErr = result.Err
		s.log.Warnw("Sync attempt failed", "method", m, "error", result.Err)

		if !fallback {
			return result, nil
		}
	}

	result := failure(methodsToTry[0], output,
		fmt.Sprintf("all sync methods failed; last error: %s", lastErr))
	return result, nil
}
