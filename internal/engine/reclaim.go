package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/younsl/reclaimd/internal/models"
	"github.com/younsl/reclaimd/pkg/pricing"
)

// reclaim turns one verdict into one outcome. Idle instances get
// exactly one termination attempt; there are no in-run retries, the
// next scheduled run re-evaluates anything still idle.
func (e *Engine) reclaim(ctx context.Context, verdict models.Verdict) models.Outcome {
	inst := verdict.Instance

	switch Resolve(verdict.Classification, e.cfg.IndeterminatePolicy) {
	case models.ClassificationActive:
		reason := "active"
		if verdict.Classification == models.ClassificationIndeterminate {
			reason = "no metric data, kept per policy"
		}
		return models.Outcome{
			Instance:  inst,
			Result:    models.OutcomeSkipped,
			Reason:    reason,
			Timestamp: time.Now(),
		}
	}

	if e.cfg.DryRun {
		e.logger.Info("dry run, would terminate", "instance", inst.InstanceID)
		return models.Outcome{
			Instance:  inst,
			Result:    models.OutcomeSkipped,
			Reason:    "idle, termination suppressed by dry run",
			Timestamp: time.Now(),
		}
	}

	if err := e.terminator.TerminateInstance(ctx, inst.InstanceID); err != nil {
		e.logger.Error("termination failed", "instance", inst.InstanceID, "error", err)
		return models.Outcome{
			Instance:  inst,
			Result:    models.OutcomeFailed,
			Reason:    fmt.Sprintf("termination failed: %v", err),
			Timestamp: time.Now(),
		}
	}

	outcome := models.Outcome{
		Instance:  inst,
		Result:    models.OutcomeTerminated,
		Timestamp: time.Now(),
	}

	if e.cfg.EstimateSavings && e.estimator != nil {
		if monthly, source := e.estimator.MonthlyCost(ctx, inst.InstanceType, inst.Region); source != pricing.SourceNA {
			outcome.EstimatedMonthlySavings = monthly
		}
	}

	e.logger.Info("instance terminated",
		"instance", inst.InstanceID, "type", inst.InstanceType, "az", inst.AvailabilityZone)

	return outcome
}
