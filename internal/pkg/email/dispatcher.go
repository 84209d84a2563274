package email

import (
	"sync"

	"github.com/rs/zerolog"
)

// Notifier queues evaluation result notifications for asynchronous delivery.
// Delivery failures are logged, never surfaced to the caller.
type Notifier interface {
	QueueEvaluationResult(notice EvaluationNotice)
}

// Dispatcher delivers queued notices on a background worker goroutine.
type Dispatcher struct {
	service EmailService
	queue   chan EvaluationNotice
	logger  zerolog.Logger
	wg      sync.WaitGroup
	once    sync.Once
}

// NewDispatcher creates a dispatcher with the given queue capacity and
// starts its worker.
func NewDispatcher(service EmailService, capacity int, logger zerolog.Logger) *Dispatcher {
	if capacity <= 0 {
		capacity = 64
	}
	d := &Dispatcher{
		service: service,
		queue:   make(chan EvaluationNotice, capacity),
		logger:  logger,
	}
	d.wg.Add(1)
	go d.worker()
	return d
}

// QueueEvaluationResult enqueues a notice without blocking. When the
// queue is full the notice is dropped and logged.
func (d *Dispatcher) QueueEvaluationResult(notice EvaluationNotice) {
	select {
	case d.queue <- notice:
	default:
		d.logger.Warn().
			Str("toEmail", notice.ResidentEmail).
			Str("procedure", notice.ProcedureName).
			Msg("Notification queue full, dropping evaluation email")
	}
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for notice := range d.queue {
		if err := d.service.SendEvaluationResultEmail(notice); err != nil {
			d.logger.Error().Err(err).
				Str("toEmail", notice.ResidentEmail).
				Str("procedure", notice.ProcedureName).
				Msg("Failed to send evaluation email")
		}
	}
}

// Close stops accepting notices and waits for the worker to drain the queue.
func (d *Dispatcher) Close() {
	d.once.Do(func() {
		close(d.queue)
	})
	d.wg.Wait()
}
