package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/younsl/reclaimd/internal/config"
	"github.com/younsl/reclaimd/internal/models"
)

// ErrEnumeration marks the one failure class that is fatal to a run:
// the fleet listing itself failed, so there is nothing to evaluate.
var ErrEnumeration = errors.New("fleet enumeration failed")

// Engine performs one reclamation sweep: enumerate running instances,
// classify each by trailing CPU utilization, terminate the idle ones,
// and publish a summary. Each Run is independent and stateless, so
// overlapping invocations are safe.
type Engine struct {
	cfg        config.Config
	fleet      FleetEnumerator
	metrics    MetricsService
	terminator InstanceTerminator
	notifier   Notifier
	estimator  SavingsEstimator
	logger     *slog.Logger
}

// Deps bundles the collaborators injected into an Engine. Estimator
// and Logger are optional.
type Deps struct {
	Fleet      FleetEnumerator
	Metrics    MetricsService
	Terminator InstanceTerminator
	Notifier   Notifier
	Estimator  SavingsEstimator
	Logger     *slog.Logger
}

// New creates an Engine from a validated config and its collaborators.
func New(cfg config.Config, deps Deps) *Engine {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		cfg:        cfg,
		fleet:      deps.Fleet,
		metrics:    deps.Metrics,
		terminator: deps.Terminator,
		notifier:   deps.Notifier,
		estimator:  deps.Estimator,
		logger:     logger,
	}
}

// RunStatus is the scheduler-facing result of one invocation.
type RunStatus struct {
	Success bool
	Summary string
}

// Invoke performs one run and maps it to the scheduler boundary.
func (e *Engine) Invoke(ctx context.Context) RunStatus {
	result := e.Run(ctx)
	return RunStatus{
		Success: result.Err == nil,
		Summary: result.Summary(),
	}
}

// Run performs one complete sweep and returns everything it did.
// The returned RunResult carries a non-nil Err only when enumeration
// failed; per-instance failures are recorded as Failed outcomes.
func (e *Engine) Run(ctx context.Context) models.RunResult {
	start := time.Now()

	if e.cfg.RunTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.cfg.RunTimeout)
		defer cancel()
	}

	window := models.NewMetricWindow(start, e.cfg.Window, e.cfg.Granularity)

	e.logger.Info("starting reclamation run",
		"region", e.cfg.Region,
		"threshold", e.cfg.CPUThreshold,
		"window", e.cfg.Window,
		"aggregation", string(e.cfg.Aggregation),
		"dryRun", e.cfg.DryRun,
	)

	snapshot, err := e.fleet.ListRunningInstances(ctx)
	if err != nil {
		result := models.RunResult{
			Err:      fmt.Errorf("%w: %v", ErrEnumeration, err),
			StartAt:  start,
			Duration: time.Since(start),
		}
		e.logger.Error("reclamation run failed", "error", result.Err)
		e.reportFailure(ctx, result)
		return result
	}

	e.logger.Info("fleet enumerated", "instances", len(snapshot.Instances))

	// One outcome slot per instance, filled by index so the summary
	// preserves enumeration order regardless of worker scheduling.
	outcomes := make([]models.Outcome, len(snapshot.Instances))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.MaxConcurrency)

	for i, inst := range snapshot.Instances {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				// Run deadline hit before this instance was looked
				// at. Record it rather than dropping it; the next
				// scheduled run will pick it up.
				outcomes[i] = models.Outcome{
					Instance:  inst,
					Result:    models.OutcomeFailed,
					Reason:    fmt.Sprintf("run aborted before evaluation: %v", err),
					Timestamp: time.Now(),
				}
				return nil
			}

			verdict := e.evaluate(gctx, inst, window)
			outcomes[i] = e.reclaim(gctx, verdict)
			return nil
		})
	}

	// Workers never return errors; per-instance failures live in the
	// outcomes. Wait is the join point before reporting.
	_ = g.Wait()

	result := models.RunResult{
		Outcomes: outcomes,
		StartAt:  start,
		Duration: time.Since(start),
	}

	e.logger.Info("reclamation run finished", "summary", result.Summary(), "duration", result.Duration)

	e.report(ctx, result)
	return result
}
