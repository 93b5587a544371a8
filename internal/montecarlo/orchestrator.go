// Package montecarlo runs many independent paths of a simulation in parallel.
package montecarlo

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/Gorm2303/firecasting-backend-sub000/internal/domain"
	"github.com/Gorm2303/firecasting-backend-sub000/internal/engine"
	"github.com/Gorm2303/firecasting-backend-sub000/internal/model"
	"github.com/Gorm2303/firecasting-backend-sub000/internal/phase"
)

// DefaultBatchSize is the number of runs submitted to the pool at a time.
const DefaultBatchSize = 1000

// RunError reports the path that failed.
type RunError struct {
	Index int
	Err   error
}

func (e *RunError) Error() string {
	return fmt.Sprintf("run %d failed: %v", e.Index, e.Err)
}

func (e *RunError) Unwrap() error { return e.Err }

// Template is everything a path is cloned from.
type Template struct {
	Spec   *model.Specification
	Phases []phase.Phase
	// Seed is the base seed; negative values give non-reproducible runs.
	Seed           int64
	Options        engine.Options
	UseEventEngine bool
}

// Orchestrator runs paths on a bounded worker pool.
type Orchestrator struct {
	Workers      int
	BatchSize    int
	ProgressStep int
	// Progress receives human-readable progress lines. Calls are serialised.
	Progress func(string)
	Logger   Logger
}

// NewOrchestrator returns an orchestrator with one worker per CPU.
func NewOrchestrator() *Orchestrator {
	return &Orchestrator{
		Workers:   runtime.NumCPU(),
		BatchSize: DefaultBatchSize,
		Logger:    NopLogger{},
	}
}

// SetLogger sets the logger; nil restores the no-op logger.
func (o *Orchestrator) SetLogger(l Logger) {
	if l == nil {
		o.Logger = NopLogger{}
		return
	}
	o.Logger = l
}

func (o *Orchestrator) logger() Logger {
	if o.Logger == nil {
		return NopLogger{}
	}
	return o.Logger
}

// Run executes runs paths of tmpl and returns their results ordered by index.
// The first failing path aborts the remaining work.
func (o *Orchestrator) Run(ctx context.Context, tmpl Template, runs int) ([]domain.RunResult, error) {
	if runs < 0 {
		return nil, fmt.Errorf("run count cannot be negative: %d", runs)
	}
	if tmpl.Spec == nil {
		return nil, errors.New("template has no specification")
	}
	if len(tmpl.Phases) == 0 {
		return nil, errors.New("template has no phases")
	}

	runner, err := o.runner(tmpl)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare engine: %w", err)
	}

	log := o.logger()
	workers := o.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > runs {
		workers = runs
	}
	batchSize := o.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	log.Infof("starting %d runs on %d workers (seed %d)", runs, workers, tmpl.Seed)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make([]domain.RunResult, runs)
	jobs := make(chan int)
	var (
		batch     sync.WaitGroup
		pool      sync.WaitGroup
		errOnce   sync.Once
		firstErr  error
		completed atomic.Int64
		progress  sync.Mutex
	)

	for w := 0; w < workers; w++ {
		pool.Add(1)
		go func() {
			defer pool.Done()
			for i := range jobs {
				if ctx.Err() == nil {
					res, err := o.runOne(runner, tmpl, i)
					if err != nil {
						errOnce.Do(func() {
							firstErr = err
							cancel()
						})
					} else {
						results[i] = res
						o.report(&progress, int(completed.Add(1)), runs)
					}
				}
				batch.Done()
			}
		}()
	}

	for start := 0; start < runs && ctx.Err() == nil; start += batchSize {
		end := start + batchSize
		if end > runs {
			end = runs
		}
		batch.Add(end - start)
		for i := start; i < end; i++ {
			jobs <- i
		}
		batch.Wait()
		log.Debugf("batch %d-%d done", start, end-1)
	}
	close(jobs)
	pool.Wait()

	if firstErr != nil {
		log.Errorf("aborting: %v", firstErr)
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("monte carlo cancelled: %w", err)
	}
	log.Infof("completed %d runs", runs)
	return results, nil
}

func (o *Orchestrator) runner(tmpl Template) (engine.Runner, error) {
	if tmpl.UseEventEngine {
		return &engine.EventEngine{Options: tmpl.Options}, nil
	}
	return engine.NewScheduleEngine(tmpl.Phases, tmpl.Options)
}

// runOne executes path i on its own clones of the template.
func (o *Orchestrator) runOne(runner engine.Runner, tmpl Template, i int) (res domain.RunResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &RunError{Index: i, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	seed := model.PathSeed(tmpl.Seed, i)
	spec := tmpl.Spec.Clone()
	spec.Reseed(seed)
	phases := phase.CloneAll(tmpl.Phases)
	ctx := phase.NewContext(spec, phases[0].StartDate())

	out, err := runner.Run(ctx, phases)
	if err != nil {
		return domain.RunResult{}, &RunError{Index: i, Err: err}
	}
	out.Index = i
	out.Seed = seed
	for j := range out.Snapshots {
		out.Snapshots[j].RunIndex = i
	}
	return *out, nil
}

func (o *Orchestrator) report(mu *sync.Mutex, done, total int) {
	if o.Progress == nil || o.ProgressStep <= 0 {
		return
	}
	if done%o.ProgressStep != 0 && done != total {
		return
	}
	mu.Lock()
	defer mu.Unlock()
	o.Progress(fmt.Sprintf("Completed %d/%d runs", done, total))
}
