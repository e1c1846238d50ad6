package tickflow

import (
	"context"
	"fmt"
	"time"

	"go.temporal.io/sdk/activity"

	"github.com/yungbote/moonshill-backend/internal/jobs/worker"
	"github.com/yungbote/moonshill-backend/internal/platform/logger"
)

type Activities struct {
	Log    *logger.Logger
	Runner worker.BatchRunner
}

func (a *Activities) RunBatch(ctx context.Context) (BatchSummary, error) {
	if a == nil || a.Runner == nil {
		return BatchSummary{}, fmt.Errorf("tickflow: activity not configured")
	}
	stopHB := startHeartbeat(ctx, 20*time.Second)
	defer stopHB()

	res, err := a.Runner.RunBatch(ctx)
	if err != nil {
		return BatchSummary{}, err
	}
	if a.Log != nil {
		a.Log.Debug("Temporal batch finished", "claimed", res.Claimed, "posts", res.Posts)
	}
	return BatchSummary{
		Listed:   res.Listed,
		Claimed:  res.Claimed,
		Lost:     res.Lost,
		Skipped:  res.Skipped,
		Advanced: res.Advanced,
		Paused:   res.Paused,
		Failed:   res.Failed,
		Posts:    res.Posts,
	}, nil
}

func startHeartbeat(ctx context.Context, every time.Duration) func() {
	if !activity.IsActivity(ctx) {
		return func() {}
	}
	done := make(chan struct{})
	go func() {
		t := time.NewTicker(every)
		defer t.Stop()
		for {
			select {
			case <-done:
				return
			case <-ctx.Done():
				return
			case <-t.C:
				activity.RecordHeartbeat(ctx)
			}
		}
	}()
	return func() { close(done) }
}
