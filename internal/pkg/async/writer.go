// internal/pkg/async/writer.go
package async

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Task is a single background write. Label identifies the write in logs.
type Task struct {
	Label string
	Op    func(ctx context.Context) error
}

// Writer runs fire-and-forget persistence writes off the request path.
// The queue is bounded; when it is full new tasks are dropped and logged.
// Failed writes are logged and never retried - a later write for the same
// key simply supersedes the lost one (last-write-wins).
type Writer struct {
	tasks   chan Task
	logger  *logrus.Logger
	timeout time.Duration

	closeOnce sync.Once
	done      chan struct{}
}

// NewWriter starts a writer with a bounded queue of the given size.
func NewWriter(queueSize int, logger *logrus.Logger) *Writer {
	if queueSize <= 0 {
		queueSize = 64
	}

	w := &Writer{
		tasks:   make(chan Task, queueSize),
		logger:  logger,
		timeout: 10 * time.Second,
		done:    make(chan struct{}),
	}

	go w.run()

	return w
}

// Enqueue hands a task to the writer without blocking the caller.
func (w *Writer) Enqueue(task Task) {
	select {
	case w.tasks <- task:
	default:
		w.logger.WithField("task", task.Label).Warn("background write queue full, write dropped")
	}
}

// Close stops the worker after draining queued tasks.
func (w *Writer) Close() {
	w.closeOnce.Do(func() {
		close(w.tasks)
		<-w.done
	})
}

func (w *Writer) run() {
	defer close(w.done)

	for task := range w.tasks {
		ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
		if err := task.Op(ctx); err != nil {
			w.logger.WithField("task", task.Label).WithError(err).Warn("background write failed")
		}
		cancel()
	}
}
