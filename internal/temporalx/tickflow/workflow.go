package tickflow

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
)

// Workflow runs one campaign batch. It is started with a cron schedule, so
// each firing is a fresh run with a short history.
func Workflow(ctx workflow.Context) (BatchSummary, error) {
	ctx = workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Minute,
		HeartbeatTimeout:    time.Minute,
		// Campaign leases make a retried batch safe; units that already ran
		// are no longer due.
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    5 * time.Second,
			BackoffCoefficient: 2,
			MaximumInterval:    time.Minute,
			MaximumAttempts:    3,
		},
	})

	var out BatchSummary
	if err := workflow.ExecuteActivity(ctx, ActivityBatch).Get(ctx, &out); err != nil {
		workflow.GetLogger(ctx).Warn("Campaign batch activity failed", "error", err)
		return out, err
	}
	return out, nil
}
