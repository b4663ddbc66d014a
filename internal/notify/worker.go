package notify

import (
	"context"
	"sync"
	"time"

	"hireflow/internal/logging"
	"hireflow/internal/logging/types"
)

const dequeueTimeout = 5 * time.Second

// Worker drains the email queue and delivers jobs through a Mailer. Failed
// jobs are retried with a growing delay until maxAttempts is reached.
type Worker struct {
	queue       *EmailQueue
	mailer      Mailer
	maxAttempts int
	logger      types.Logger

	cancel context.CancelFunc
	done   sync.WaitGroup
}

// NewWorker creates a worker bound to the given queue and mailer
func NewWorker(queue *EmailQueue, mailer Mailer, maxAttempts int) *Worker {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &Worker{
		queue:       queue,
		mailer:      mailer,
		maxAttempts: maxAttempts,
		logger:      logging.GetGlobalLogger(),
	}
}

// Start launches the delivery loop
func (w *Worker) Start(ctx context.Context) {
	ctx, w.cancel = context.WithCancel(ctx)
	w.done.Add(1)
	go w.run(ctx)
}

// Stop terminates the delivery loop and waits for in-flight work
func (w *Worker) Stop() {
	if w.cancel != nil {
		w.cancel()
	}
	w.done.Wait()
}

func (w *Worker) run(ctx context.Context) {
	defer w.done.Done()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		job, err := w.queue.dequeue(ctx, dequeueTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			w.logger.Error("Email queue read failed", map[string]interface{}{
				"error": err.Error(),
			})
			time.Sleep(time.Second)
			continue
		}
		if job == nil {
			continue
		}

		w.deliver(ctx, job)
	}
}

func (w *Worker) deliver(ctx context.Context, job *EmailJob) {
	w.queue.active.Add(1)
	defer w.queue.active.Add(-1)

	job.Attempts++
	err := w.mailer.Send(ctx, job.Message)
	if err == nil {
		w.queue.completed.Add(1)
		w.logger.Info("Email delivered", map[string]interface{}{
			"job_id":   job.ID,
			"to":       job.Message.To,
			"attempts": job.Attempts,
		})
		return
	}

	if job.Attempts >= w.maxAttempts {
		w.queue.failed.Add(1)
		w.logger.Error("Email delivery abandoned", map[string]interface{}{
			"job_id":   job.ID,
			"to":       job.Message.To,
			"attempts": job.Attempts,
			"error":    err.Error(),
		})
		return
	}

	w.logger.Warn("Email delivery failed, requeueing", map[string]interface{}{
		"job_id":   job.ID,
		"attempts": job.Attempts,
		"error":    err.Error(),
	})

	// Exponential backoff before the job becomes visible again
	select {
	case <-time.After(time.Second << (job.Attempts - 1)):
	case <-ctx.Done():
		return
	}

	if err := w.queue.push(ctx, *job); err != nil {
		w.queue.failed.Add(1)
		w.logger.Error("Failed to requeue email job", map[string]interface{}{
			"job_id": job.ID,
			"error":  err.Error(),
		})
	}
}
