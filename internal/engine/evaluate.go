package engine

import (
	"context"
	"sort"

	"github.com/younsl/reclaimd/internal/models"
)

// evaluate fetches the instance's utilization window and classifies
// it. A metric fetch error is isolated to this instance: it is logged
// and the instance comes back Indeterminate, never aborting the run.
func (e *Engine) evaluate(ctx context.Context, inst models.Instance, window models.MetricWindow) models.Verdict {
	samples, err := e.metrics.GetCPUUtilization(ctx, inst.InstanceID, window)
	if err != nil {
		e.logger.Warn("metric fetch failed, classifying as indeterminate",
			"instance", inst.InstanceID, "error", err)
		return models.Verdict{Instance: inst, Classification: models.ClassificationIndeterminate}
	}

	if len(samples) == 0 {
		return models.Verdict{Instance: inst, Classification: models.ClassificationIndeterminate}
	}

	observed := Aggregate(samples, e.cfg.Aggregation)

	classification := models.ClassificationActive
	if observed < e.cfg.CPUThreshold {
		classification = models.ClassificationIdle
	}

	return models.Verdict{
		Instance:       inst,
		Classification: classification,
		Observed:       &observed,
	}
}

// Aggregate collapses a window of samples into the value compared
// against the threshold. Samples are sorted by timestamp first so the
// collaborator's response ordering can never change the verdict.
func Aggregate(samples []models.MetricSample, mode models.AggregationMode) float64 {
	sorted := make([]models.MetricSample, len(samples))
	copy(sorted, samples)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	if mode == models.AggregationMean {
		var sum float64
		for _, s := range sorted {
			sum += s.Average
		}
		return sum / float64(len(sorted))
	}

	return sorted[len(sorted)-1].Average
}

// Resolve applies the indeterminate policy, returning the effective
// classification the executor acts on.
func Resolve(c models.Classification, policy models.IndeterminatePolicy) models.Classification {
	if c != models.ClassificationIndeterminate {
		return c
	}
	if policy == models.IndeterminateAsIdle {
		return models.ClassificationIdle
	}
	return models.ClassificationActive
}
