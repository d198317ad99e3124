// Package pipeline executes an ordered sequence of named bootstrap steps.
//
// Execution is strictly linear and single-threaded: steps run in
// registration order, one at a time, and the first failure halts the run
// with no retry and no rollback of already-applied steps. A step may report
// itself as skipped when its precondition is already met; a skip is a
// logged no-op, not an error.
package pipeline

import (
	"context"
	"fmt"

	"github.com/stackpilot/stackpilot/internal/ctxlog"
)

// Status is the outcome of a single step.
type Status int

const (
	// StatusFailed is the zero value so a Result carrying an error can
	// never accidentally report success.
	StatusFailed Status = iota
	// StatusRan means the step performed its side effect.
	StatusRan
	// StatusSkipped means the step's precondition was already met.
	StatusSkipped
)

// String implements fmt.Stringer for log output.
func (s Status) String() string {
	switch s {
	case StatusFailed:
		return "failed"
	case StatusRan:
		return "ran"
	case StatusSkipped:
		return "skipped"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// StepFunc is the body of a single step.
type StepFunc func(ctx context.Context) (Status, error)

// Result records the outcome of one executed step.
type Result struct {
	Name   string
	Status Status
	Err    error
}

// Pipeline holds the ordered step sequence.
type Pipeline struct {
	steps []step
	names map[string]struct{}
}

type step struct {
	name string
	fn   StepFunc
}

// New creates an empty pipeline.
func New() *Pipeline {
	return &Pipeline{names: make(map[string]struct{})}
}

// Add appends a named step. Registering the same name twice is a
// programmer error and panics.
func (p *Pipeline) Add(name string, fn StepFunc) *Pipeline {
	if _, exists := p.names[name]; exists {
		panic(fmt.Sprintf("pipeline step with name '%s' already registered", name))
	}
	p.names[name] = struct{}{}
	p.steps = append(p.steps, step{name: name, fn: fn})
	return p
}

// Len returns the number of registered steps.
func (p *Pipeline) Len() int {
	return len(p.steps)
}

// Run executes every step in order. It returns the results of all steps
// that were attempted; on failure the last result carries the error and
// the returned error identifies the failing step.
func (p *Pipeline) Run(ctx context.Context) ([]Result, error) {
	results := make([]Result, 0, len(p.steps))

	for _, s := range p.steps {
		logger := ctxlog.FromContext(ctx).With("step", s.name)

		if err := ctx.Err(); err != nil {
			results = append(results, Result{Name: s.name, Status: StatusFailed, Err: err})
			return results, fmt.Errorf("step %s: %w", s.name, err)
		}

		logger.Info("▶️ Starting step")
		status, err := s.fn(ctx)
		if err != nil {
			logger.Error("❌ Step failed", "error", err)
			results = append(results, Result{Name: s.name, Status: StatusFailed, Err: err})
			return results, fmt.Errorf("step %s: %w", s.name, err)
		}

		if status == StatusSkipped {
			logger.Info("⏭️ Skipped step")
		} else {
			logger.Info("✅ Finished step")
		}
		results = append(results, Result{Name: s.name, Status: status})
	}

	return results, nil
}
