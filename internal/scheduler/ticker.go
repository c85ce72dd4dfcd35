// Package scheduler provides the repeating-task clocks injected into the
// sequencer and the synthetic media sources.
package scheduler

import (
	"sync"
	"time"

	"github.com/veribee/demoreel/internal/domain"
	"go.uber.org/zap"
)

// Ticker is the wall-clock scheduler used by the daemon
type Ticker struct {
	logger *zap.Logger
}

// NewTicker creates a wall-clock scheduler
func NewTicker(logger *zap.Logger) *Ticker {
	return &Ticker{logger: logger}
}

// Every starts a goroutine that calls fn once per period until cancelled.
// Non-positive periods never fire.
func (t *Ticker) Every(d time.Duration, fn func()) domain.Task {
	task := &tickerTask{
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}

	if d <= 0 {
		t.logger.Warn("Ignoring repeating task with non-positive period", zap.Duration("period", d))
		close(task.done)
		return task
	}

	t.logger.Debug("Scheduling repeating task", zap.Duration("period", d))

	go func() {
		defer close(task.done)
		ticker := time.NewTicker(d)
		defer ticker.Stop()

		for {
			select {
			case <-task.stop:
				return
			case <-ticker.C:
				// A tick can race with stop; stop wins.
				select {
				case <-task.stop:
					return
				default:
				}
				fn()
			}
		}
	}()

	return task
}

type tickerTask struct {
	once sync.Once
	stop chan struct{}
	done chan struct{}
}

// Cancel stops the task and waits for an in-flight fn to return.
// It must not be called from inside fn.
func (t *tickerTask) Cancel() {
	t.once.Do(func() { close(t.stop) })
	<-t.done
}
