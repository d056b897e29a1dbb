package clusters

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/reportportal/service-api-sub011/internal/logger"
)

var (
	ErrExecutorStopped = errors.New("task executor stopped")
	ErrQueueFull       = errors.New("task queue full")
)

// TaskExecutor is the bounded worker pool dedicated to clustering work. It is
// isolated from request-handling goroutines so a slow analyzer round-trip
// cannot starve API traffic. Submit never blocks: a full queue is an error
// the caller handles.
type TaskExecutor struct {
	log     *logger.Logger
	tasks   chan func(ctx context.Context)
	workers int

	mu      sync.Mutex
	started bool
	stopped bool
	wg      sync.WaitGroup
}

func NewTaskExecutor(workers, queueSize int, baseLog *logger.Logger) *TaskExecutor {
	if workers < 1 {
		workers = 1
	}
	if queueSize < 1 {
		queueSize = 1
	}
	return &TaskExecutor{
		log:     baseLog.With("component", "ClusterTaskExecutor"),
		tasks:   make(chan func(ctx context.Context), queueSize),
		workers: workers,
	}
}

func (e *TaskExecutor) Start(ctx context.Context) {
	e.mu.Lock()
	if e.started {
		e.mu.Unlock()
		return
	}
	e.started = true
	e.mu.Unlock()

	for i := 0; i < e.workers; i++ {
		e.wg.Add(1)
		go e.worker(ctx, i)
	}
}

// worker drains the queue until it is closed. Shutdown, not context
// cancellation, ends the loop: a queued task must still run so it can release
// its status-cache marker. Cancellation reaches the task itself through ctx.
func (e *TaskExecutor) worker(ctx context.Context, id int) {
	defer e.wg.Done()
	log := e.log.With("worker", id)
	for task := range e.tasks {
		e.runTask(ctx, log, task)
	}
}

func (e *TaskExecutor) runTask(ctx context.Context, log *logger.Logger, task func(ctx context.Context)) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("Cluster task panic", "panic", fmt.Sprintf("%v", r))
		}
	}()
	task(ctx)
}

// Submit enqueues a task for execution. The task owns its own lifetime; the
// executor only supplies the goroutine and the base context.
//
// The send happens under the same lock as the stopped check: Shutdown closes
// the channel under that lock, so checking and sending in separate critical
// sections could send on a closed channel. The send is non-blocking, so
// holding the lock across it is fine.
func (e *TaskExecutor) Submit(task func(ctx context.Context)) error {
	if task == nil {
		return nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stopped {
		return ErrExecutorStopped
	}
	select {
	case e.tasks <- task:
		return nil
	default:
		return ErrQueueFull
	}
}

// Shutdown stops accepting tasks and waits for in-flight ones to finish.
func (e *TaskExecutor) Shutdown() {
	e.mu.Lock()
	if e.stopped {
		e.mu.Unlock()
		return
	}
	e.stopped = true
	close(e.tasks)
	e.mu.Unlock()

	e.wg.Wait()
}
