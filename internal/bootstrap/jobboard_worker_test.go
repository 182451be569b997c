package bootstrap

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func newTestWorker(run func(ctx context.Context) error) *Worker {
	ctx, cancel := context.WithCancel(context.Background())
	return &Worker{run: run, ctx: ctx, cancel: cancel}
}

// Stop issued right after Start must still wait for the consumer to return.
func TestWorkerStopWaitsForConsumer(t *testing.T) {
	var finished atomic.Bool
	w := newTestWorker(func(ctx context.Context) error {
		<-ctx.Done()
		time.Sleep(20 * time.Millisecond)
		finished.Store(true)
		return ctx.Err()
	})

	w.Start()
	w.Stop()

	if !finished.Load() {
		t.Error("Stop returned before the consumer finished")
	}
}

func TestWorkerStopWithoutStart(t *testing.T) {
	w := newTestWorker(func(ctx context.Context) error { return nil })

	done := make(chan struct{})
	go func() {
		w.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop blocked without a running consumer")
	}
}
