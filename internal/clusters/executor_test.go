package clusters

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/reportportal/service-api-sub011/internal/logger"
)

func TestTaskExecutorRunsSubmittedTasks(t *testing.T) {
	e := NewTaskExecutor(2, 8, logger.NewNop())
	e.Start(context.Background())
	defer e.Shutdown()

	var ran int32
	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		err := e.Submit(func(ctx context.Context) {
			defer wg.Done()
			atomic.AddInt32(&ran, 1)
		})
		if err != nil {
			t.Fatalf("submit: %v", err)
		}
	}
	wg.Wait()
	if got := atomic.LoadInt32(&ran); got != 5 {
		t.Fatalf("expected 5 tasks run, got %d", got)
	}
}

func TestTaskExecutorQueueFull(t *testing.T) {
	e := NewTaskExecutor(1, 1, logger.NewNop())
	e.Start(context.Background())
	defer e.Shutdown()

	block := make(chan struct{})
	running := make(chan struct{})
	if err := e.Submit(func(ctx context.Context) { close(running); <-block }); err != nil {
		t.Fatalf("submit blocker: %v", err)
	}
	<-running

	// the single worker is busy, so the queue slot fills up
	if err := e.Submit(func(ctx context.Context) {}); err != nil {
		t.Fatalf("submit queued: %v", err)
	}

	err := e.Submit(func(ctx context.Context) {})
	if !errors.Is(err, ErrQueueFull) {
		t.Fatalf("expected ErrQueueFull, got %v", err)
	}
	close(block)
}

func TestTaskExecutorShutdownDrainsQueue(t *testing.T) {
	e := NewTaskExecutor(1, 4, logger.NewNop())
	e.Start(context.Background())

	block := make(chan struct{})
	running := make(chan struct{})
	if err := e.Submit(func(ctx context.Context) { close(running); <-block }); err != nil {
		t.Fatalf("submit blocker: %v", err)
	}
	<-running

	var drained int32
	for i := 0; i < 3; i++ {
		if err := e.Submit(func(ctx context.Context) { atomic.AddInt32(&drained, 1) }); err != nil {
			t.Fatalf("submit queued: %v", err)
		}
	}

	done := make(chan struct{})
	go func() {
		e.Shutdown()
		close(done)
	}()
	close(block)

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatalf("shutdown did not finish")
	}
	if got := atomic.LoadInt32(&drained); got != 3 {
		t.Fatalf("queued tasks dropped during shutdown: ran %d of 3", got)
	}
}

func TestTaskExecutorSubmitDuringShutdown(t *testing.T) {
	// Submit racing Shutdown must resolve to ErrExecutorStopped or a queued
	// task, never a send on the closed queue.
	for i := 0; i < 200; i++ {
		e := NewTaskExecutor(2, 4, logger.NewNop())
		e.Start(context.Background())

		var wg sync.WaitGroup
		start := make(chan struct{})
		for g := 0; g < 8; g++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				<-start
				for j := 0; j < 20; j++ {
					err := e.Submit(func(ctx context.Context) {})
					if err != nil && !errors.Is(err, ErrExecutorStopped) && !errors.Is(err, ErrQueueFull) {
						t.Errorf("unexpected submit error: %v", err)
						return
					}
				}
			}()
		}
		close(start)
		e.Shutdown()
		wg.Wait()
	}
}

func TestTaskExecutorSubmitAfterShutdown(t *testing.T) {
	e := NewTaskExecutor(1, 1, logger.NewNop())
	e.Start(context.Background())
	e.Shutdown()

	err := e.Submit(func(ctx context.Context) {})
	if !errors.Is(err, ErrExecutorStopped) {
		t.Fatalf("expected ErrExecutorStopped, got %v", err)
	}
}

func TestTaskExecutorRecoversFromPanic(t *testing.T) {
	e := NewTaskExecutor(1, 2, logger.NewNop())
	e.Start(context.Background())
	defer e.Shutdown()

	if err := e.Submit(func(ctx context.Context) { panic("boom") }); err != nil {
		t.Fatalf("submit panicking task: %v", err)
	}

	done := make(chan struct{})
	if err := e.Submit(func(ctx context.Context) { close(done) }); err != nil {
		t.Fatalf("submit follow-up: %v", err)
	}
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatalf("worker did not survive the panic")
	}
}
