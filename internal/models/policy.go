package models

import "fmt"

// AggregationMode selects how the window's samples collapse into the
// single value the threshold is compared against.
type AggregationMode string

const (
	// AggregationLatest classifies on the most recent sample only,
	// reacting to a just-observed idle period with minimal latency.
	AggregationLatest AggregationMode = "latest"

	// AggregationMean classifies on the mean of all samples in the
	// window, smoothing over short dips.
	AggregationMean AggregationMode = "mean"
)

// ParseAggregationMode validates a configured aggregation mode.
func ParseAggregationMode(s string) (AggregationMode, error) {
	switch AggregationMode(s) {
	case AggregationLatest, AggregationMean:
		return AggregationMode(s), nil
	}
	return "", fmt.Errorf("unknown aggregation mode %q (want %q or %q)", s, AggregationLatest, AggregationMean)
}

// IndeterminatePolicy decides what happens to an instance with no
// metric history.
type IndeterminatePolicy string

const (
	// IndeterminateAsActive never terminates without evidence.
	IndeterminateAsActive IndeterminatePolicy = "active"

	// IndeterminateAsIdle reclaims metric-silent instances. Only
	// safe for fleets where an instance with no datapoints is known
	// dead weight.
	IndeterminateAsIdle IndeterminatePolicy = "idle"
)

// ParseIndeterminatePolicy validates a configured policy.
func ParseIndeterminatePolicy(s string) (IndeterminatePolicy, error) {
	switch IndeterminatePolicy(s) {
	case IndeterminateAsActive, IndeterminateAsIdle:
		return IndeterminatePolicy(s), nil
	}
	return "", fmt.Errorf("unknown indeterminate policy %q (want %q or %q)", s, IndeterminateAsActive, IndeterminateAsIdle)
}
