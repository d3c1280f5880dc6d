// Package jobs runs periodic background maintenance inside the daemon.
package jobs

import (
	"context"
	"sync"
	"time"

	"github.com/cloo-solutions/techwiki/internal/logger"
)

// Task is one unit of periodic maintenance.
type Task interface {
	Run(ctx context.Context) error
}

// TaskFunc adapts a plain function to Task.
type TaskFunc func(ctx context.Context) error

func (f TaskFunc) Run(ctx context.Context) error { return f(ctx) }

type Option func(*Worker)

// RunImmediately makes the worker run its task once before the first tick.
func RunImmediately() Option {
	return func(w *Worker) { w.runOnStart = true }
}

// Worker runs a Task on a fixed interval. Failures are logged and the loop
// keeps going; runs never overlap.
type Worker struct {
	name       string
	task       Task
	interval   time.Duration
	runOnStart bool

	failures int
	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

func NewWorker(name string, task Task, interval time.Duration, opts ...Option) *Worker {
	w := &Worker{
		name:     name,
		task:     task,
		interval: interval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Start blocks until ctx is cancelled or Stop is called.
func (w *Worker) Start(ctx context.Context) {
	defer close(w.done)

	log := logger.Default().With("worker", w.name)
	log.Info("worker started", "interval", w.interval.String(), "run_on_start", w.runOnStart)

	if w.runOnStart {
		w.runOnce(ctx)
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("worker stopped", "reason", "context cancelled")
			return
		case <-w.stop:
			log.Info("worker stopped", "reason", "stop requested")
			return
		case <-ticker.C:
			w.runOnce(ctx)
		}
	}
}

func (w *Worker) runOnce(ctx context.Context) {
	started := time.Now()
	err := w.task.Run(ctx)
	if err != nil {
		w.failures++
		logger.Warn("worker run failed",
			"worker", w.name,
			"consecutive_failures", w.failures,
			"error", err)
		return
	}
	if w.failures > 0 {
		logger.Info("worker recovered", "worker", w.name, "after_failures", w.failures)
		w.failures = 0
	}
	logger.Debug("worker run finished", "worker", w.name, "duration", time.Since(started).String())
}

// Stop asks the loop to exit and waits for it. Safe to call more than once,
// but only after Start.
func (w *Worker) Stop() {
	w.stopOnce.Do(func() { close(w.stop) })
	<-w.done
}
