package tickflow

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/testsuite"

	"github.com/yungbote/moonshill-backend/internal/jobs/campaigntick"
)

type stubRunner struct {
	calls atomic.Int32
	res   campaigntick.BatchResult
	err   error
}

func (s *stubRunner) RunBatch(context.Context) (campaigntick.BatchResult, error) {
	s.calls.Add(1)
	return s.res, s.err
}

func newEnv(t *testing.T, r *stubRunner) *testsuite.TestWorkflowEnvironment {
	t.Helper()
	var suite testsuite.WorkflowTestSuite
	env := suite.NewTestWorkflowEnvironment()
	acts := &Activities{Runner: r}
	env.RegisterActivityWithOptions(acts.RunBatch, activity.RegisterOptions{Name: ActivityBatch})
	return env
}

func TestWorkflowRunsOneBatch(t *testing.T) {
	r := &stubRunner{res: campaigntick.BatchResult{Listed: 3, Claimed: 2, Lost: 1, Advanced: 2, Posts: 5}}
	env := newEnv(t, r)

	env.ExecuteWorkflow(Workflow)
	if !env.IsWorkflowCompleted() {
		t.Fatalf("workflow did not complete")
	}
	if err := env.GetWorkflowError(); err != nil {
		t.Fatalf("workflow error: %v", err)
	}
	var out BatchSummary
	if err := env.GetWorkflowResult(&out); err != nil {
		t.Fatalf("result: %v", err)
	}
	if out.Claimed != 2 || out.Lost != 1 || out.Posts != 5 {
		t.Fatalf("summary: got=%+v", out)
	}
	if got := r.calls.Load(); got != 1 {
		t.Fatalf("batches: want=1 got=%d", got)
	}
}

func TestWorkflowRetriesFailedBatch(t *testing.T) {
	r := &stubRunner{err: errors.New("list due campaigns: db down")}
	env := newEnv(t, r)

	env.ExecuteWorkflow(Workflow)
	if !env.IsWorkflowCompleted() {
		t.Fatalf("workflow did not complete")
	}
	if env.GetWorkflowError() == nil {
		t.Fatalf("want workflow error")
	}
	if got := r.calls.Load(); got != 3 {
		t.Fatalf("attempts: want=3 got=%d", got)
	}
}

func TestActivityRequiresRunner(t *testing.T) {
	var a *Activities
	if _, err := a.RunBatch(context.Background()); err == nil {
		t.Fatalf("want error for unconfigured activity")
	}
}
