package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/younsl/reclaimd/internal/models"
)

func TestAggregate(t *testing.T) {
	base := time.Date(2025, 4, 15, 12, 0, 0, 0, time.UTC)

	// Deliberately out of chronological order: the most recent sample
	// (8.0) is first in the slice.
	samples := []models.MetricSample{
		{Timestamp: base.Add(20 * time.Minute), Average: 8.0},
		{Timestamp: base, Average: 40.0},
		{Timestamp: base.Add(10 * time.Minute), Average: 12.0},
	}

	cases := []struct {
		name string
		mode models.AggregationMode
		want float64
	}{
		{"latest picks newest by timestamp", models.AggregationLatest, 8.0},
		{"mean averages the window", models.AggregationMean, 20.0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Aggregate(samples, tc.mode))
		})
	}
}

func TestAggregateSingleSample(t *testing.T) {
	samples := samplesAt(3.5)
	assert.Equal(t, 3.5, Aggregate(samples, models.AggregationLatest))
	assert.Equal(t, 3.5, Aggregate(samples, models.AggregationMean))
}

func TestResolve(t *testing.T) {
	cases := []struct {
		name   string
		in     models.Classification
		policy models.IndeterminatePolicy
		want   models.Classification
	}{
		{"idle passes through", models.ClassificationIdle, models.IndeterminateAsActive, models.ClassificationIdle},
		{"active passes through", models.ClassificationActive, models.IndeterminateAsIdle, models.ClassificationActive},
		{"indeterminate defaults to active", models.ClassificationIndeterminate, models.IndeterminateAsActive, models.ClassificationActive},
		{"indeterminate as idle", models.ClassificationIndeterminate, models.IndeterminateAsIdle, models.ClassificationIdle},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Resolve(tc.in, tc.policy))
		})
	}
}

func TestEvaluateThresholdBoundary(t *testing.T) {
	// Classification is strict less-than: a sample exactly at the
	// threshold is active and must never be reclaimed.
	cases := []struct {
		name      string
		threshold float64
		value     float64
		want      models.Classification
	}{
		{"well below", 10.0, 2.0, models.ClassificationIdle},
		{"just below", 10.0, 9.99, models.ClassificationIdle},
		{"exactly at threshold", 10.0, 10.0, models.ClassificationActive},
		{"above", 10.0, 45.0, models.ClassificationActive},
		{"zero threshold keeps everything", 0.0, 0.0, models.ClassificationActive},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := testConfig()
			cfg.CPUThreshold = tc.threshold

			e := New(cfg, Deps{
				Fleet: fleetOf("i-x"),
				Metrics: &mockMetrics{SamplesByID: map[string][]models.MetricSample{
					"i-x": samplesAt(tc.value),
				}},
				Terminator: &mockTerminator{}, Notifier: &mockNotifier{},
				Logger: discardLogger(),
			})

			window := models.NewMetricWindow(time.Now(), cfg.Window, cfg.Granularity)
			verdict := e.evaluate(context.Background(), instance("i-x"), window)

			assert.Equal(t, tc.want, verdict.Classification)
			require.NotNil(t, verdict.Observed)
			assert.Equal(t, tc.value, *verdict.Observed)
		})
	}
}

func TestEvaluateIndeterminateHasNoObservedValue(t *testing.T) {
	e := New(testConfig(), Deps{
		Fleet: fleetOf("i-new"), Metrics: &mockMetrics{},
		Terminator: &mockTerminator{}, Notifier: &mockNotifier{},
		Logger: discardLogger(),
	})

	window := models.NewMetricWindow(time.Now(), 30*time.Minute, 5*time.Minute)
	verdict := e.evaluate(context.Background(), instance("i-new"), window)

	assert.Equal(t, models.ClassificationIndeterminate, verdict.Classification)
	assert.Nil(t, verdict.Observed)
}

func TestEvaluateAggregationModesDiverge(t *testing.T) {
	// A window that just went quiet: latest (2%) says idle, mean
	// (26%) says active. The configured mode must decide.
	base := time.Now().Add(-30 * time.Minute)
	samples := []models.MetricSample{
		{Timestamp: base, Average: 50.0},
		{Timestamp: base.Add(10 * time.Minute), Average: 26.0},
		{Timestamp: base.Add(20 * time.Minute), Average: 2.0},
	}

	for _, tc := range []struct {
		mode models.AggregationMode
		want models.Classification
	}{
		{models.AggregationLatest, models.ClassificationIdle},
		{models.AggregationMean, models.ClassificationActive},
	} {
		t.Run(string(tc.mode), func(t *testing.T) {
			cfg := testConfig()
			cfg.Aggregation = tc.mode

			e := New(cfg, Deps{
				Fleet: fleetOf("i-q"),
				Metrics: &mockMetrics{SamplesByID: map[string][]models.MetricSample{
					"i-q": samples,
				}},
				Terminator: &mockTerminator{}, Notifier: &mockNotifier{},
				Logger: discardLogger(),
			})

			window := models.NewMetricWindow(time.Now(), cfg.Window, cfg.Granularity)
			verdict := e.evaluate(context.Background(), instance("i-q"), window)
			assert.Equal(t, tc.want, verdict.Classification)
		})
	}
}

func TestIndeterminateAsIdlePolicyTerminates(t *testing.T) {
	cfg := testConfig()
	cfg.IndeterminatePolicy = models.IndeterminateAsIdle

	terminator := &mockTerminator{}
	e := New(cfg, Deps{
		Fleet: fleetOf("i-silent"), Metrics: &mockMetrics{},
		Terminator: terminator, Notifier: &mockNotifier{},
		Logger: discardLogger(),
	})

	result := e.Run(context.Background())

	require.NoError(t, result.Err)
	assert.Equal(t, models.OutcomeTerminated, outcomeByID(t, result, "i-silent").Result)
	assert.Equal(t, []string{"i-silent"}, terminator.Calls())
}
