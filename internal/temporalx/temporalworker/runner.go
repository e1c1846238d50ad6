package temporalworker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/activity"
	temporalsdkclient "go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	jobworker "github.com/yungbote/moonshill-backend/internal/jobs/worker"
	"github.com/yungbote/moonshill-backend/internal/platform/logger"
	"github.com/yungbote/moonshill-backend/internal/temporalx"
	"github.com/yungbote/moonshill-backend/internal/temporalx/tickflow"
)

// Runner hosts the tick workflow and activity and keeps the cron workflow
// scheduled. It is the Temporal alternative to the in-process ticker.
type Runner struct {
	log    *logger.Logger
	tc     temporalsdkclient.Client
	cfg    temporalx.Config
	runner jobworker.BatchRunner

	w worker.Worker
}

func NewRunner(log *logger.Logger, tc temporalsdkclient.Client, cfg temporalx.Config, runner jobworker.BatchRunner) (*Runner, error) {
	if tc == nil {
		return nil, fmt.Errorf("temporal client is not configured")
	}
	if runner == nil {
		return nil, fmt.Errorf("temporal worker missing batch runner")
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Runner{
		log:    log.With("component", "TemporalWorker"),
		tc:     tc,
		cfg:    cfg,
		runner: runner,
	}, nil
}

// Start begins polling the task queue and ensures the cron workflow exists.
func (r *Runner) Start(ctx context.Context) error {
	r.log.Info("Starting Temporal worker", "address", r.cfg.Address, "namespace", r.cfg.Namespace, "task_queue", r.cfg.TaskQueue)

	w := r.newWorker()
	if err := w.Start(); err != nil {
		w.Stop()
		var nfe *serviceerror.NamespaceNotFound
		if errors.As(err, &nfe) {
			return fmt.Errorf("temporal namespace not found (namespace=%s): %w", r.cfg.Namespace, err)
		}
		return err
	}
	r.w = w

	if err := r.ensureSchedule(ctx); err != nil {
		w.Stop()
		r.w = nil
		return err
	}
	r.log.Info("Temporal worker started", "workflow_id", r.cfg.TickWorkflowID, "schedule", r.cfg.TickSchedule)
	return nil
}

func (r *Runner) Stop() {
	if r == nil || r.w == nil {
		return
	}
	r.w.Stop()
	r.w = nil
}

func (r *Runner) newWorker() worker.Worker {
	concurrency := r.cfg.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}
	w := worker.New(r.tc, r.cfg.TaskQueue, worker.Options{
		MaxConcurrentActivityExecutionSize:     concurrency,
		MaxConcurrentWorkflowTaskExecutionSize: concurrency,
	})
	acts := &tickflow.Activities{Log: r.log, Runner: r.runner}
	w.RegisterWorkflowWithOptions(tickflow.Workflow, workflow.RegisterOptions{Name: tickflow.WorkflowName})
	w.RegisterActivityWithOptions(acts.RunBatch, activity.RegisterOptions{Name: tickflow.ActivityBatch})
	return w
}

// ensureSchedule starts the cron workflow unless one is already running
// under the same id.
func (r *Runner) ensureSchedule(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	_, err := r.tc.ExecuteWorkflow(ctx, temporalsdkclient.StartWorkflowOptions{
		ID:           r.cfg.TickWorkflowID,
		TaskQueue:    r.cfg.TaskQueue,
		CronSchedule: r.cfg.TickSchedule,
	}, tickflow.WorkflowName)
	if err == nil {
		return nil
	}
	var started *serviceerror.WorkflowExecutionAlreadyStarted
	if errors.As(err, &started) {
		r.log.Debug("Tick workflow already scheduled", "workflow_id", r.cfg.TickWorkflowID)
		return nil
	}
	return fmt.Errorf("start tick workflow: %w", err)
}
