package engine

import (
	"context"

	"github.com/younsl/reclaimd/internal/models"
	"github.com/younsl/reclaimd/pkg/pricing"
)

// FleetEnumerator lists the instances eligible for evaluation.
// Implementations must filter to running state server-side.
type FleetEnumerator interface {
	ListRunningInstances(ctx context.Context) (models.FleetSnapshot, error)
}

// MetricsService fetches utilization samples for one instance over a
// window. A nil/empty sample slice with a nil error means the
// instance has no activity data yet.
type MetricsService interface {
	GetCPUUtilization(ctx context.Context, instanceID string, window models.MetricWindow) ([]models.MetricSample, error)
}

// InstanceTerminator executes the reclamation action. It must be
// idempotent for an instance that is already shutting down, since
// overlapping runs may submit duplicate requests.
type InstanceTerminator interface {
	TerminateInstance(ctx context.Context, instanceID string) error
}

// Notifier delivers a run notification to the operator topic.
// Delivery is best-effort; the engine logs and swallows its errors.
type Notifier interface {
	Publish(ctx context.Context, topicARN, subject, body string) error
}

// SavingsEstimator prices an instance type so the report can state
// what a termination frees up per month.
type SavingsEstimator interface {
	MonthlyCost(ctx context.Context, instanceType, region string) (float64, pricing.Source)
}
