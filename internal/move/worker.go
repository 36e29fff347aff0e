package move

import (
	"context"
	"log/slog"
)

// Worker runs bounds checks off the editor goroutine. Only the newest
// submitted request is kept while the worker is busy.
type Worker struct {
	in     chan CheckRequest
	out    chan CheckResult
	logger *slog.Logger
}

// NewWorker creates a worker. Call Run to start it.
func NewWorker(logger *slog.Logger) *Worker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Worker{
		in:     make(chan CheckRequest, 1),
		out:    make(chan CheckResult, 16),
		logger: logger,
	}
}

// Run processes requests until ctx is done.
func (w *Worker) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case req := <-w.in:
			res := Check(req)
			select {
			case w.out <- res:
			case <-ctx.Done():
				return
			}
		}
	}
}

// Submit queues req, replacing any request the worker has not picked up
// yet. It never blocks. Submit must only be called from one goroutine.
func (w *Worker) Submit(req CheckRequest) {
	select {
	case w.in <- req:
		return
	default:
	}
	select {
	case stale := <-w.in:
		w.logger.Debug("bounds check superseded", "seq", stale.Seq, "by", req.Seq)
	default:
	}
	select {
	case w.in <- req:
	default:
		w.logger.Warn("bounds check dropped", "seq", req.Seq)
	}
}

// Results delivers answers in the order they were computed.
func (w *Worker) Results() <-chan CheckResult {
	return w.out
}
