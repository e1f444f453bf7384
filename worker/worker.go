package worker

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
)

// Worker a long running worker
type Worker interface {
	Run(ctx context.Context) error
}

// Job a cron driven worker
type Job interface {
	Start() error
	Stop() error
}

// TickWorker runs a tick func in a loop, backing off with ErrDelay
// when the tick fails or has nothing to do.
type TickWorker struct {
	Delay    time.Duration
	ErrDelay time.Duration
}

func (w *TickWorker) delay(err error) time.Duration {
	if err != nil {
		if w.ErrDelay > 0 {
			return w.ErrDelay
		}

		return 500 * time.Millisecond
	}

	if w.Delay > 0 {
		return w.Delay
	}

	return 100 * time.Millisecond
}

// StartTick ticks until ctx is done
func (w *TickWorker) StartTick(ctx context.Context, tick func(ctx context.Context) error) error {
	dur := time.Millisecond
	timer := time.NewTimer(dur)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
			err := tick(ctx)
			timer.Reset(w.delay(err))
		}
	}
}

// BaseJob a cron driven worker. Run is invoked by cron and skipped
// while a previous run is still going.
type BaseJob struct {
	Cron      *cron.Cron
	IsRunning bool
	OnWork    func() error
}

// Start start the cron
func (job *BaseJob) Start() error {
	job.Cron.Start()
	return nil
}

// Stop stop the cron
func (job *BaseJob) Stop() error {
	job.Cron.Stop()
	return nil
}

// Run implements cron.Job
func (job *BaseJob) Run() {
	if job.IsRunning {
		return
	}

	job.IsRunning = true
	_ = job.OnWork()
	job.IsRunning = false
}
