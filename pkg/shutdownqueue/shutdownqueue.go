// Package shutdownqueue runs named cleanup tasks in reverse order of
// registration when the process stops.
//
// A process-wide queue backs the package-level Add and Shutdown. Tests and
// embedded servers can build their own with New.
package shutdownqueue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Task is a cleanup step. It should honor ctx.
type Task func(ctx context.Context) error

type entry struct {
	name string
	run  Task
}

// Queue is a LIFO list of tasks drained once.
type Queue struct {
	mu     sync.Mutex
	tasks  []entry
	closed bool
	logger *slog.Logger
}

// New returns an empty queue logging to logger, or slog.Default if nil.
func New(logger *slog.Logger) *Queue {
	return &Queue{logger: logger}
}

var std = New(nil)

// Add registers t on the process-wide queue.
func Add(name string, t Task) {
	std.Add(name, t)
}

// Shutdown drains the process-wide queue.
func Shutdown(ctx context.Context) error {
	return std.Shutdown(ctx)
}

// Add registers t. Nil tasks and tasks added once draining has begun are ignored.
func (q *Queue) Add(name string, t Task) {
	if t == nil {
		return
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		q.log().Warn("shutdown task ignored, queue closed", "task", name)

		return
	}

	q.tasks = append(q.tasks, entry{name: name, run: t})
}

// Shutdown runs every task in LIFO order and joins their errors. It stops
// early when ctx ends. Later calls are no-ops.
func (q *Queue) Shutdown(ctx context.Context) error {
	q.mu.Lock()
	q.closed = true
	tasks := q.tasks
	q.tasks = nil
	q.mu.Unlock()

	var errs []error

	for i := len(tasks) - 1; i >= 0; i-- {
		err := ctx.Err()
		if err != nil {
			errs = append(errs, fmt.Errorf("shutdown canceled before %q: %w", tasks[i].name, err))

			break
		}

		err = q.runOne(ctx, tasks[i])
		if err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func (q *Queue) runOne(ctx context.Context, e entry) (err error) {
	start := time.Now()

	defer func() {
		r := recover()
		if r != nil {
			err = fmt.Errorf("shutdown task %q panicked: %v", e.name, r)
		}

		if err != nil {
			q.log().ErrorContext(ctx, "shutdown task failed", "task", e.name, "error", err)

			return
		}

		q.log().InfoContext(ctx, "shutdown task done", "task", e.name, "duration", time.Since(start))
	}()

	err = e.run(ctx)
	if err != nil {
		return fmt.Errorf("shutdown task %q: %w", e.name, err)
	}

	return nil
}

func (q *Queue) log() *slog.Logger {
	if q.logger == nil {
		return slog.Default()
	}

	return q.logger
}
