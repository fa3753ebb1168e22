package models

import (
	"fmt"
	"time"
)

// Instance represents one running EC2 instance in a fleet snapshot
type Instance struct {
	InstanceID       string
	Name             string
	InstanceType     string
	Region           string
	AvailabilityZone string
	LaunchTime       time.Time
}

// FleetSnapshot is the set of running instances enumerated at the
// start of a run. It is built fresh each invocation and discarded
// when the run ends.
type FleetSnapshot struct {
	Instances []Instance
	TakenAt   time.Time
}

// MetricWindow is the trailing evaluation window for one run.
type MetricWindow struct {
	Start       time.Time
	End         time.Time
	Granularity time.Duration
}

// NewMetricWindow returns a window ending at end and reaching back
// by length, sampled at granularity.
func NewMetricWindow(end time.Time, length, granularity time.Duration) MetricWindow {
	return MetricWindow{
		Start:       end.Add(-length),
		End:         end,
		Granularity: granularity,
	}
}

// Validate checks the window invariants: start before end and a
// granularity that divides the window length.
func (w MetricWindow) Validate() error {
	if !w.Start.Before(w.End) {
		return fmt.Errorf("metric window start %s is not before end %s", w.Start, w.End)
	}
	if w.Granularity <= 0 {
		return fmt.Errorf("metric window granularity must be positive, got %s", w.Granularity)
	}
	if w.End.Sub(w.Start)%w.Granularity != 0 {
		return fmt.Errorf("granularity %s does not divide window length %s", w.Granularity, w.End.Sub(w.Start))
	}
	return nil
}

// MetricSample is one granularity bucket of a utilization metric.
type MetricSample struct {
	Timestamp time.Time
	Average   float64
}

// Classification is the verdict category for one instance.
type Classification string

const (
	ClassificationIdle   Classification = "idle"
	ClassificationActive Classification = "active"

	// ClassificationIndeterminate means the instance returned no
	// samples for the window (e.g. just launched). It is not an
	// error state; the engine resolves it per policy.
	ClassificationIndeterminate Classification = "indeterminate"
)

// Verdict is the evaluator's decision for one instance.
type Verdict struct {
	Instance       Instance
	Classification Classification

	// Observed is the aggregated utilization the classification was
	// based on. Nil for Indeterminate verdicts.
	Observed *float64
}

// OutcomeResult describes what the executor did with one instance.
type OutcomeResult string

const (
	OutcomeTerminated OutcomeResult = "terminated"
	OutcomeSkipped    OutcomeResult = "skipped"
	OutcomeFailed     OutcomeResult = "failed"
)

// Outcome records the reclamation result for one evaluated instance.
// Exactly one Outcome exists per instance in the snapshot.
type Outcome struct {
	Instance  Instance
	Result    OutcomeResult
	Reason    string // failure reason or skip note; empty for Terminated
	Timestamp time.Time

	// EstimatedMonthlySavings is the on-demand monthly cost freed by
	// terminating this instance. Zero when pricing is unavailable or
	// savings estimation is disabled.
	EstimatedMonthlySavings float64
}

// RunResult is everything one invocation produced.
type RunResult struct {
	Outcomes []Outcome
	Err      error // run-level failure (enumeration), nil otherwise
	StartAt  time.Time
	Duration time.Duration
}

// Terminated returns the outcomes that actually reclaimed an
// instance, in production order.
func (r RunResult) Terminated() []Outcome {
	return r.filter(OutcomeTerminated)
}

// Failed returns the outcomes where a termination attempt failed.
func (r RunResult) Failed() []Outcome {
	return r.filter(OutcomeFailed)
}

// Skipped returns the outcomes left untouched.
func (r RunResult) Skipped() []Outcome {
	return r.filter(OutcomeSkipped)
}

func (r RunResult) filter(res OutcomeResult) []Outcome {
	var out []Outcome
	for _, o := range r.Outcomes {
		if o.Result == res {
			out = append(out, o)
		}
	}
	return out
}

// Summary returns a one-line description of the run for the
// scheduler boundary.
func (r RunResult) Summary() string {
	if r.Err != nil {
		return fmt.Sprintf("run failed: %v", r.Err)
	}
	return fmt.Sprintf("%d evaluated, %d terminated, %d skipped, %d failed",
		len(r.Outcomes), len(r.Terminated()), len(r.Skipped()), len(r.Failed()))
}
