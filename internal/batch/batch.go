// Package batch runs many dual-subtitle jobs through a bounded worker
// pool. One failed job never aborts the rest; every job reports its own
// outcome.
package batch

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/mkotas/dualsub/internal/dualsub"
	"github.com/mkotas/dualsub/internal/logging"
)

// one unit of work: merge two subtitle files for one episode
type Request struct {
	PrimaryPath   string
	SecondaryPath string
	OutputPath    string
	VideoPath     string // optional, enables timing validation
	Config        dualsub.Config
}

// outcome of a single request
type Result struct {
	JobID   string
	Request Request
	Outcome dualsub.Result
}

// Creator is the part of the merge engine the pool needs.
type Creator interface {
	CreateDual(ctx context.Context, primaryPath, secondaryPath, outputPath string, cfg dualsub.Config, videoPath string) dualsub.Result
}

type Pool struct {
	creator Creator
	workers int
	log     *logging.Logger
}

func NewPool(creator Creator, workers int, log *logging.Logger) *Pool {
	if workers < 1 {
		workers = 1
	}
	return &Pool{creator: creator, workers: workers, log: log}
}

// Run processes all requests with at most p.workers in flight. Results
// come back in request order. A cancelled context marks the remaining
// jobs failed without starting them.
func (p *Pool) Run(ctx context.Context, requests []Request) []Result {
	results := make([]Result, len(requests))
	sem := make(chan struct{}, p.workers)
	var wg sync.WaitGroup

	for i, req := range requests {
		wg.Add(1)
		go func(idx int, request Request) {
			defer wg.Done()

			jobID := uuid.NewString()
			results[idx] = Result{JobID: jobID, Request: request}

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				results[idx].Outcome = dualsub.Result{Err: ctx.Err().Error()}
				return
			}

			p.log.Infow("starting job",
				"job_id", jobID,
				"primary", request.PrimaryPath,
				"secondary", request.SecondaryPath,
			)

			outcome := p.creator.CreateDual(ctx,
				request.PrimaryPath, request.SecondaryPath, request.OutputPath,
				request.Config, request.VideoPath)
			results[idx].Outcome = outcome

			if outcome.Success {
				p.log.Infow("job finished",
					"job_id", jobID,
					"output", outcome.OutputPath,
					"lines", outcome.TotalLines,
				)
			} else {
				p.log.Warnw("job failed", "job_id", jobID, "error", outcome.Err)
			}
		}(i, req)
	}

	wg.Wait()
	return results
}

// Summary counts successes and failures in a result set.
func Summary(results []Result) (succeeded, failed int) {
	for _, r := range results {
		if r.Outcome.Success {
			succeeded++
		} else {
			failed++
		}
	}
	return succeeded, failed
}
