package worker

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/yungbote/moonshill-backend/internal/jobs/campaigntick"
	"github.com/yungbote/moonshill-backend/internal/platform/logger"
)

// BatchRunner is the unit of work one tick performs. *campaigntick.Runner
// satisfies it.
type BatchRunner interface {
	RunBatch(ctx context.Context) (campaigntick.BatchResult, error)
}

// Worker fires RunBatch on a fixed interval. A tick that arrives while the
// previous batch is still running is dropped; campaign leases keep other
// processes from double-processing.
type Worker struct {
	log      *logger.Logger
	runner   BatchRunner
	interval time.Duration

	running atomic.Bool
	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
}

func NewWorker(baseLog *logger.Logger, runner BatchRunner, interval time.Duration) *Worker {
	if baseLog == nil {
		baseLog = logger.NewNop()
	}
	if interval <= 0 {
		interval = 60 * time.Second
	}
	return &Worker{
		log:      baseLog.With("component", "TickWorker"),
		runner:   runner,
		interval: interval,
	}
}

// Start launches the ticker loop. Calling Start on a started worker is a
// no-op.
func (w *Worker) Start(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.done != nil {
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.done = make(chan struct{})
	w.log.Info("Starting tick worker", "interval", w.interval.String())
	go w.runLoop(ctx, w.done)
}

// Stop cancels the loop and waits for an in-flight batch to return.
func (w *Worker) Stop() {
	w.mu.Lock()
	cancel, done := w.cancel, w.done
	w.cancel, w.done = nil, nil
	w.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (w *Worker) runLoop(ctx context.Context, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info("Tick worker stopped")
			return
		case <-ticker.C:
			w.Tick(ctx)
		}
	}
}

// Tick runs one batch synchronously unless one is already in flight. It
// reports whether a batch ran.
func (w *Worker) Tick(ctx context.Context) (ran bool) {
	if !w.running.CompareAndSwap(false, true) {
		w.log.Warn("Previous batch still running; skipping tick")
		return false
	}
	defer w.running.Store(false)

	defer func() {
		if r := recover(); r != nil {
			w.log.Error("Batch panic", "panic", r)
		}
	}()
	ran = true
	if _, err := w.runner.RunBatch(ctx); err != nil {
		w.log.Warn("Batch failed", "error", err)
	}
	return ran
}
