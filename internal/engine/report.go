package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/younsl/reclaimd/internal/models"
)

// report publishes the run summary. Quiet runs (zero terminations)
// stay silent unless NotifyOnNoAction is set. Reporting is
// best-effort: its own failure never fails the run it describes.
func (e *Engine) report(ctx context.Context, result models.RunResult) {
	terminated := result.Terminated()
	if len(terminated) == 0 && !e.cfg.NotifyOnNoAction {
		e.logger.Info("no terminations, skipping notification")
		return
	}

	subject := fmt.Sprintf("[reclaimd] %d idle instance(s) terminated in %s", len(terminated), e.cfg.Region)
	e.publish(ctx, subject, e.composeSummary(result))
}

// reportFailure emits the distinct run-level failure notification.
// This is the only path that turns an internal fault into an operator
// alert.
func (e *Engine) reportFailure(ctx context.Context, result models.RunResult) {
	subject := fmt.Sprintf("[reclaimd] reclamation run failed in %s", e.cfg.Region)

	var b strings.Builder
	fmt.Fprintf(&b, "Idle instance reclamation run in %s failed.\n\n", e.cfg.Region)
	fmt.Fprintf(&b, "Started: %s\n", result.StartAt.UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, "Error: %v\n", result.Err)
	b.WriteString("\nNo instances were evaluated. The next scheduled run will retry.\n")

	e.publish(ctx, subject, b.String())
}

// composeSummary renders the notification body. Outcomes appear in
// the order they were produced.
func (e *Engine) composeSummary(result models.RunResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Idle instance reclamation run in %s\n", e.cfg.Region)
	fmt.Fprintf(&b, "Started %s, took %.1fs.\n",
		result.StartAt.UTC().Format("2006-01-02 15:04:05 MST"), result.Duration.Seconds())

	if e.cfg.DryRun {
		b.WriteString("Dry run: no terminations were issued.\n")
	}

	terminated := result.Terminated()
	if len(terminated) > 0 {
		fmt.Fprintf(&b, "\nTerminated (%d):\n", len(terminated))
		var totalSavings float64
		for _, o := range terminated {
			fmt.Fprintf(&b, "  - %s at %s", describeInstance(o.Instance), o.Timestamp.UTC().Format("15:04:05 MST"))
			if !o.Instance.LaunchTime.IsZero() {
				fmt.Fprintf(&b, ", launched %s", humanize.Time(o.Instance.LaunchTime))
			}
			if o.EstimatedMonthlySavings > 0 {
				fmt.Fprintf(&b, ", est. $%.2f/month freed", o.EstimatedMonthlySavings)
				totalSavings += o.EstimatedMonthlySavings
			}
			b.WriteString("\n")
		}
		if totalSavings > 0 {
			fmt.Fprintf(&b, "Estimated total savings: $%.2f/month\n", totalSavings)
		}
	} else {
		b.WriteString("\nNo instances were terminated.\n")
	}

	if failed := result.Failed(); len(failed) > 0 {
		fmt.Fprintf(&b, "\nFailed to terminate (%d):\n", len(failed))
		for _, o := range failed {
			fmt.Fprintf(&b, "  - %s: %s\n", describeInstance(o.Instance), o.Reason)
		}
	}

	if skipped := result.Skipped(); len(skipped) > 0 {
		fmt.Fprintf(&b, "\nSkipped: %d instance(s)\n", len(skipped))
	}

	return b.String()
}

func describeInstance(inst models.Instance) string {
	name := inst.Name
	if name == "" {
		name = "unnamed"
	}
	return fmt.Sprintf("%s (%s, %s, %s)", inst.InstanceID, name, inst.InstanceType, inst.AvailabilityZone)
}

// publish delivers one notification, logging and swallowing any
// failure. It detaches from the run context's cancellation so a run
// that failed on a deadline can still report that fact.
func (e *Engine) publish(ctx context.Context, subject, body string) {
	if e.notifier == nil || e.cfg.TopicARN == "" {
		e.logger.Info("no notification topic configured, logging only", "subject", subject)
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
	defer cancel()

	if err := e.notifier.Publish(ctx, e.cfg.TopicARN, subject, body); err != nil {
		e.logger.Error("notification publish failed", "subject", subject, "error", err)
		return
	}

	e.logger.Info("notification published", "subject", subject)
}
