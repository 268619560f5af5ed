package graph

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"
)

// Status of a resource after a run.
type Status string

// Run statuses.
const (
	StatusCreated Status = "created"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
)

// Result records the outcome of one resource.
type Result struct {
	Name     string
	Status   Status
	Err      error
	Duration time.Duration
}

// Runner evaluates a validated graph: independent branches run concurrently,
// a resource starts once all its dependencies created successfully, and a
// failure marks every transitive dependent skipped. All branch errors are
// collected so one run reports every broken branch.
type Runner struct {
	logger      *zap.Logger
	parallelism int
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithParallelism bounds the number of resources created concurrently.
// Zero or negative means unbounded.
func WithParallelism(n int) RunnerOption {
	return func(r *Runner) { r.parallelism = n }
}

// NewRunner creates a Runner logging through the given logger.
func NewRunner(logger *zap.Logger, opts ...RunnerOption) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}

	r := &Runner{logger: logger.Named("graph")}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Run evaluates the graph. The returned map always contains a Result for
// every declared resource.
func (r *Runner) Run(ctx context.Context, g *Graph) (map[string]Result, error) {
	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("invalid resource graph: %w", err)
	}

	start := time.Now()
	r.logger.Info("evaluating resource graph", zap.Int("resources", g.Len()))

	var (
		mu        sync.Mutex
		wg        sync.WaitGroup
		results   = make(map[string]Result, g.Len())
		remaining = make(map[string]int, g.Len())
	)

	dependents := g.Dependents()
	for _, name := range g.Names() {
		res, _ := g.Get(name)
		remaining[name] = len(res.Dependencies())
	}

	var sem chan struct{}
	if r.parallelism > 0 {
		sem = make(chan struct{}, r.parallelism)
	}

	// skipLocked marks name and its transitive dependents skipped.
	// Callers hold mu.
	var skipLocked func(name string, cause string)
	skipLocked = func(name, cause string) {
		if _, done := results[name]; done {
			return
		}
		results[name] = Result{
			Name:   name,
			Status: StatusSkipped,
			Err:    fmt.Errorf("dependency %s failed", cause),
		}
		r.logger.Warn("resource skipped",
			zap.String("resource", name),
			zap.String("failed_dependency", cause))
		for _, dep := range dependents[name] {
			skipLocked(dep, cause)
		}
	}

	var launch func(name string)
	launch = func(name string) {
		wg.Add(1)
		go func() {
			defer wg.Done()

			if sem != nil {
				select {
				case sem <- struct{}{}:
					defer func() { <-sem }()
				case <-ctx.Done():
					mu.Lock()
					if _, done := results[name]; !done {
						results[name] = Result{Name: name, Status: StatusFailed, Err: ctx.Err()}
					}
					mu.Unlock()
					return
				}
			}

			res, _ := g.Get(name)
			r.logger.Info("creating resource", zap.String("resource", name))
			created := time.Now()

			err := res.Create(ctx)
			elapsed := time.Since(created).Round(time.Millisecond)

			mu.Lock()
			defer mu.Unlock()

			if err != nil {
				results[name] = Result{Name: name, Status: StatusFailed, Err: err, Duration: elapsed}
				r.logger.Error("resource failed",
					zap.String("resource", name),
					zap.Duration("elapsed", elapsed),
					zap.Error(err))
				for _, dep := range dependents[name] {
					skipLocked(dep, name)
				}
				return
			}

			results[name] = Result{Name: name, Status: StatusCreated, Duration: elapsed}
			r.logger.Info("resource created",
				zap.String("resource", name),
				zap.Duration("elapsed", elapsed))

			for _, dep := range dependents[name] {
				remaining[dep]--
				if remaining[dep] == 0 {
					if _, done := results[dep]; !done {
						launch(dep)
					}
				}
			}
		}()
	}

	mu.Lock()
	for _, name := range g.Names() {
		if remaining[name] == 0 {
			launch(name)
		}
	}
	mu.Unlock()

	wg.Wait()

	var errs *multierror.Error
	for _, name := range g.Names() {
		res := results[name]
		if res.Status == StatusFailed {
			errs = multierror.Append(errs, fmt.Errorf("resource %s: %w", name, res.Err))
		}
	}

	r.logger.Info("resource graph evaluated",
		zap.Duration("elapsed", time.Since(start).Round(time.Millisecond)),
		zap.Int("created", countStatus(results, StatusCreated)),
		zap.Int("failed", countStatus(results, StatusFailed)),
		zap.Int("skipped", countStatus(results, StatusSkipped)))

	return results, errs.ErrorOrNil()
}

func countStatus(results map[string]Result, s Status) int {
	n := 0
	for _, res := range results {
		if res.Status == s {
			n++
		}
	}
	return n
}
