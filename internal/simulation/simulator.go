// Package simulation ties the Monte Carlo orchestrator and the aggregation
// engine together and caches reproducible results.
package simulation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/Gorm2303/firecasting-backend-sub000/internal/domain"
	"github.com/Gorm2303/firecasting-backend-sub000/internal/model"
	"github.com/Gorm2303/firecasting-backend-sub000/internal/montecarlo"
	"github.com/Gorm2303/firecasting-backend-sub000/internal/statistics"
)

const (
	ckResult = "result_%s_%d"

	DefaultCacheExpiration = 15 * time.Minute
	CacheCleanupInterval   = 30 * time.Minute
)

// ErrNotReproducible is returned when replaying a request with a negative seed.
var ErrNotReproducible = errors.New("request uses a non-reproducible seed")

// Logger is the logging interface shared with the orchestrator.
type Logger = montecarlo.Logger

// Request is a fully built simulation run.
type Request struct {
	Template     montecarlo.Template
	Runs         int
	Workers      int
	BatchSize    int
	ProgressStep int
	// Fingerprint identifies the input; requests with equal fingerprints and
	// a reproducible seed share cached results.
	Fingerprint string
}

// Result is the outcome of a simulation.
type Result struct {
	ID          uuid.UUID              `json:"id"`
	Fingerprint string                 `json:"fingerprint,omitempty"`
	Seed        int64                  `json:"seed"`
	Runs        []domain.RunResult     `json:"runs,omitempty"`
	Summaries   []domain.YearlySummary `json:"summaries"`
	SuccessRate float64                `json:"successRate"`
	Elapsed     time.Duration          `json:"elapsed"`
	Cached      bool                   `json:"cached"`
}

// clone copies r deeply so callers cannot alter a cached result.
func (r *Result) clone() *Result {
	c := *r
	c.Runs = make([]domain.RunResult, len(r.Runs))
	for i, run := range r.Runs {
		run.Snapshots = append([]domain.Snapshot(nil), run.Snapshots...)
		c.Runs[i] = run
	}
	c.Summaries = append([]domain.YearlySummary(nil), r.Summaries...)
	return &c
}

// Simulator runs requests and remembers reproducible results.
type Simulator struct {
	cache    *cache.Cache
	logger   Logger
	Progress func(string)
}

// NewSimulator creates a simulator backed by c; nil creates a private cache.
func NewSimulator(c *cache.Cache) *Simulator {
	if c == nil {
		c = cache.New(DefaultCacheExpiration, CacheCleanupInterval)
	}
	return &Simulator{cache: c, logger: montecarlo.NopLogger{}}
}

// SetLogger sets the logger; nil restores the no-op logger.
func (s *Simulator) SetLogger(l Logger) {
	if l == nil {
		s.logger = montecarlo.NopLogger{}
		return
	}
	s.logger = l
}

func (s *Simulator) cacheKey(req *Request) (string, bool) {
	if req.Fingerprint == "" || !model.IsReproducible(req.Template.Seed) {
		return "", false
	}
	return fmt.Sprintf(ckResult, req.Fingerprint, req.Template.Seed), true
}

// Run executes req, or returns the cached result of an identical earlier
// request.
func (s *Simulator) Run(ctx context.Context, req *Request) (*Result, error) {
	key, cacheable := s.cacheKey(req)
	if cacheable {
		if cached, found := s.cache.Get(key); found {
			s.logger.Infof("cache hit for %s", req.Fingerprint)
			hit := cached.(*Result).clone()
			hit.Cached = true
			return hit, nil
		}
	}

	runs, elapsed, err := s.execute(ctx, req)
	if err != nil {
		return nil, err
	}

	result := &Result{
		ID:          uuid.New(),
		Fingerprint: req.Fingerprint,
		Seed:        req.Template.Seed,
		Runs:        runs,
		Summaries:   statistics.Aggregate(runs),
		SuccessRate: statistics.SuccessRate(runs),
		Elapsed:     elapsed,
	}
	s.logger.Infof("simulation %s: %d runs, %d summaries, success rate %.1f%%",
		result.ID, len(runs), len(result.Summaries), result.SuccessRate)

	if cacheable {
		s.cache.Set(key, result.clone(), cache.DefaultExpiration)
	}
	return result, nil
}

func (s *Simulator) execute(ctx context.Context, req *Request) ([]domain.RunResult, time.Duration, error) {
	o := montecarlo.NewOrchestrator()
	if req.Workers > 0 {
		o.Workers = req.Workers
	}
	if req.BatchSize > 0 {
		o.BatchSize = req.BatchSize
	}
	o.ProgressStep = req.ProgressStep
	o.Progress = s.Progress
	o.SetLogger(s.logger)

	started := time.Now()
	runs, err := o.Run(ctx, req.Template, req.Runs)
	if err != nil {
		return nil, 0, fmt.Errorf("simulation failed: %w", err)
	}
	return runs, time.Since(started), nil
}

// Replay reruns req without the cache and compares the fresh runs with
// recorded ones. A nil divergence means the runs are identical.
func (s *Simulator) Replay(ctx context.Context, req *Request, recorded []domain.RunResult) (*Divergence, error) {
	if !model.IsReproducible(req.Template.Seed) {
		return nil, ErrNotReproducible
	}
	fresh, _, err := s.execute(ctx, req)
	if err != nil {
		return nil, err
	}
	return Compare(recorded, fresh), nil
}
