package email

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

type recordingEmailService struct {
	mu       sync.Mutex
	sent     []EvaluationNotice
	failFor  string
}

func (r *recordingEmailService) SendEvaluationResultEmail(notice EvaluationNotice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failFor != "" && notice.ProcedureName == r.failFor {
		return errors.New("smtp down")
	}
	r.sent = append(r.sent, notice)
	return nil
}

func (r *recordingEmailService) sentCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sent)
}

func TestDispatcher_DeliversQueuedNotices(t *testing.T) {
	service := &recordingEmailService{}
	dispatcher := NewDispatcher(service, 8, zerolog.Nop())

	dispatcher.QueueEvaluationResult(EvaluationNotice{
		ResidentName:  "Ana Souza",
		ResidentEmail: "ana@example.com",
		ProcedureName: "Central venous access",
		PerformedAt:   time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		PreceptorName: "Dr. Lima",
		Approved:      true,
	})
	dispatcher.QueueEvaluationResult(EvaluationNotice{
		ResidentName:  "Ana Souza",
		ResidentEmail: "ana@example.com",
		ProcedureName: "Lumbar puncture",
		Approved:      false,
		Remarks:       "Incomplete physical exam description",
	})

	dispatcher.Close()

	assert.Equal(t, 2, service.sentCount())
	assert.Equal(t, "Central venous access", service.sent[0].ProcedureName)
	assert.False(t, service.sent[1].Approved)
}

func TestDispatcher_DropsWhenQueueFull(t *testing.T) {
	service := &recordingEmailService{}
	dispatcher := &Dispatcher{
		service: service,
		queue:   make(chan EvaluationNotice, 1),
		logger:  zerolog.Nop(),
	}

	// No worker running, so the second enqueue finds the queue full.
	dispatcher.QueueEvaluationResult(EvaluationNotice{ProcedureName: "first"})
	dispatcher.QueueEvaluationResult(EvaluationNotice{ProcedureName: "second"})

	assert.Len(t, dispatcher.queue, 1)
	queued := <-dispatcher.queue
	assert.Equal(t, "first", queued.ProcedureName)
}

func TestDispatcher_FailureDoesNotStopWorker(t *testing.T) {
	service := &recordingEmailService{failFor: "first"}
	dispatcher := NewDispatcher(service, 8, zerolog.Nop())

	dispatcher.QueueEvaluationResult(EvaluationNotice{ProcedureName: "first"})
	dispatcher.QueueEvaluationResult(EvaluationNotice{ProcedureName: "second"})
	dispatcher.Close()

	assert.Equal(t, 1, service.sentCount())
	assert.Equal(t, "second", service.sent[0].ProcedureName)
}
