package volume

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	pkgerrors "github.com/dhruvpatel3d/printquote-backend/pkg/errors"
	"github.com/dhruvpatel3d/printquote-backend/pkg/logger"
	"github.com/dhruvpatel3d/printquote-backend/pkg/metrics"
)

// Applier receives refinement results. Implementations must treat a result
// for a line that no longer exists as a no-op, not an error.
type Applier interface {
	ApplyRefinement(ctx context.Context, lineID uuid.UUID, result Result) error
}

type job struct {
	lineID uuid.UUID
	ref    FileRef
}

// Refiner runs volume measurements in the background and feeds results back
// to the line applier. Lines refine independently and complete unordered.
type Refiner struct {
	provider Provider
	applier  Applier
	logg     *logger.Logger
	quote    *metrics.QuoteMetrics
	timeout  time.Duration

	jobs chan job
	wg   sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

// RefinerOptions configures the worker pool.
type RefinerOptions struct {
	Workers   int
	QueueSize int
	Timeout   time.Duration
}

// NewRefiner wires the refinement pool; call Start before enqueueing.
func NewRefiner(provider Provider, applier Applier, logg *logger.Logger, quote *metrics.QuoteMetrics, opts RefinerOptions) (*Refiner, error) {
	if provider == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "volume provider required")
	}
	if applier == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "refinement applier required")
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.QueueSize < 1 {
		opts.QueueSize = 16
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	r := &Refiner{
		provider: provider,
		applier:  applier,
		logg:     logg,
		quote:    quote,
		timeout:  opts.Timeout,
		jobs:     make(chan job, opts.QueueSize),
	}
	for i := 0; i < opts.Workers; i++ {
		r.wg.Add(1)
		go r.worker()
	}
	return r, nil
}

// Enqueue schedules a line for refinement. Returns false when the queue is
// saturated or the refiner is shut down; the line keeps its size-based
// estimate in that case.
func (r *Refiner) Enqueue(lineID uuid.UUID, ref FileRef) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return false
	}
	select {
	case r.jobs <- job{lineID: lineID, ref: ref}:
		return true
	default:
		return false
	}
}

// Close drains the queue and waits for in-flight measurements.
func (r *Refiner) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	close(r.jobs)
	r.mu.Unlock()
	r.wg.Wait()
}

func (r *Refiner) worker() {
	defer r.wg.Done()
	for j := range r.jobs {
		r.refineOne(j)
	}
}

func (r *Refiner) refineOne(j job) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()
	ctx = r.logg.WithFields(ctx, map[string]any{"line_id": j.lineID.String(), "file": j.ref.Name})

	result, err := r.provider.Measure(ctx, j.ref)
	if err != nil {
		// Provider failure is not a pricing error: the line keeps its
		// size-based estimate.
		r.logg.Warn(r.logg.WithField(ctx, "error", err.Error()), "volume measurement failed, keeping estimate")
		r.quote.IncRefinement("provider_failed")
		return
	}

	if err := r.applier.ApplyRefinement(ctx, j.lineID, result); err != nil {
		r.logg.Error(ctx, "applying volume refinement", err)
		r.quote.IncRefinement("apply_failed")
		return
	}
	r.quote.IncRefinement("applied")
}

// RefineNow measures the given lines synchronously, applying each result as
// it lands and aggregating per-line failures into one error.
func (r *Refiner) RefineNow(ctx context.Context, lines map[uuid.UUID]FileRef) error {
	var errs error
	for lineID, ref := range lines {
		result, err := r.provider.Measure(ctx, ref)
		if err != nil {
			errs = multierr.Append(errs, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "measure "+ref.Name))
			continue
		}
		if err := r.applier.ApplyRefinement(ctx, lineID, result); err != nil {
			errs = multierr.Append(errs, err)
		}
	}
	return errs
}
