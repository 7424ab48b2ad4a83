package pipeline

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"
)

// Stage is one independent unit of analysis. Stages of a run share no mutable state.
type Stage struct {
	Name string
	Run  func(ctx context.Context) error
}

// StageError records a failed or panicking stage.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string { return fmt.Sprintf("stage %s: %v", e.Stage, e.Err) }

func (e *StageError) Unwrap() error { return e.Err }

// Timing is how long a stage took.
type Timing struct {
	Stage    string
	Duration time.Duration
}

// RunStages runs stages on a bounded worker pool and returns the failures and
// per-stage timings. A panicking stage is reported as an error.
func RunStages(ctx context.Context, stages []Stage, workers int) ([]error, []Timing) {
	if len(stages) == 0 {
		return nil, nil
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
		if workers < 1 {
			workers = 1
		}
	}
	workers = min(workers, len(stages))

	jobs := make(chan Stage)
	errs := make(chan error, len(stages))
	timings := make(chan Timing, len(stages))
	var wg sync.WaitGroup

	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for st := range jobs {
				start := time.Now()
				if err := runStage(ctx, st); err != nil {
					errs <- err
				}
				timings <- Timing{Stage: st.Name, Duration: time.Since(start)}
			}
		}()
	}

	for _, st := range stages {
		jobs <- st
	}
	close(jobs)
	wg.Wait()
	close(errs)
	close(timings)

	outErrs := make([]error, 0, len(errs))
	for err := range errs {
		outErrs = append(outErrs, err)
	}
	outTimings := make([]Timing, 0, len(timings))
	for t := range timings {
		outTimings = append(outTimings, t)
	}
	return outErrs, outTimings
}

func runStage(ctx context.Context, st Stage) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &StageError{Stage: st.Name, Err: fmt.Errorf("panic: %v", r)}
		}
	}()
	if st.Run == nil {
		return nil
	}
	if err := st.Run(ctx); err != nil {
		return &StageError{Stage: st.Name, Err: err}
	}
	return nil
}
