package engine

import (
	"context"
	"sync"

	"github.com/younsl/reclaimd/internal/models"
	"github.com/younsl/reclaimd/pkg/pricing"
)

// mockFleet implements FleetEnumerator for testing.
type mockFleet struct {
	ListFn func(ctx context.Context) (models.FleetSnapshot, error)
}

func (m *mockFleet) ListRunningInstances(ctx context.Context) (models.FleetSnapshot, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx)
	}
	return models.FleetSnapshot{}, nil
}

// mockMetrics implements MetricsService. SamplesByID is the default
// response when FetchFn is not set; missing IDs yield zero samples.
type mockMetrics struct {
	SamplesByID map[string][]models.MetricSample
	FetchFn     func(ctx context.Context, instanceID string, window models.MetricWindow) ([]models.MetricSample, error)
}

func (m *mockMetrics) GetCPUUtilization(ctx context.Context, instanceID string, window models.MetricWindow) ([]models.MetricSample, error) {
	if m.FetchFn != nil {
		return m.FetchFn(ctx, instanceID, window)
	}
	return m.SamplesByID[instanceID], nil
}

// mockTerminator implements InstanceTerminator and records calls.
// Safe for concurrent use since the engine terminates from workers.
type mockTerminator struct {
	TerminateFn func(ctx context.Context, instanceID string) error

	mu    sync.Mutex
	calls []string
}

func (m *mockTerminator) TerminateInstance(ctx context.Context, instanceID string) error {
	m.mu.Lock()
	m.calls = append(m.calls, instanceID)
	m.mu.Unlock()

	if m.TerminateFn != nil {
		return m.TerminateFn(ctx, instanceID)
	}
	return nil
}

func (m *mockTerminator) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.calls))
	copy(out, m.calls)
	return out
}

type publishedMessage struct {
	Topic   string
	Subject string
	Body    string
}

// mockNotifier implements Notifier and records every publish.
type mockNotifier struct {
	PublishFn func(ctx context.Context, topicARN, subject, body string) error

	mu        sync.Mutex
	published []publishedMessage
}

func (m *mockNotifier) Publish(ctx context.Context, topicARN, subject, body string) error {
	m.mu.Lock()
	m.published = append(m.published, publishedMessage{Topic: topicARN, Subject: subject, Body: body})
	m.mu.Unlock()

	if m.PublishFn != nil {
		return m.PublishFn(ctx, topicARN, subject, body)
	}
	return nil
}

func (m *mockNotifier) Published() []publishedMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]publishedMessage, len(m.published))
	copy(out, m.published)
	return out
}

// mockEstimator implements SavingsEstimator.
type mockEstimator struct {
	MonthlyCostFn func(ctx context.Context, instanceType, region string) (float64, pricing.Source)
}

func (m *mockEstimator) MonthlyCost(ctx context.Context, instanceType, region string) (float64, pricing.Source) {
	if m.MonthlyCostFn != nil {
		return m.MonthlyCostFn(ctx, instanceType, region)
	}
	return 0, pricing.SourceNA
}
