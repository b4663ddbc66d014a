package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"

	"hireflow/internal/config"
	"hireflow/internal/logging"
	"hireflow/internal/logging/types"
	"hireflow/pkg/utils"
)

// EmailJob is one queued delivery attempt
type EmailJob struct {
	ID       string       `json:"id"`
	Message  EmailMessage `json:"message"`
	Attempts int          `json:"attempts"`
	Queued   time.Time    `json:"queued"`
}

// QueueStats is a snapshot of queue activity
type QueueStats struct {
	Waiting   int64 `json:"waiting"`
	Active    int64 `json:"active"`
	Completed int64 `json:"completed"`
	Failed    int64 `json:"failed"`
}

// EmailQueue is a redis-list backed delivery queue. Producers push jobs,
// a Worker drains them.
type EmailQueue struct {
	client   *redis.Client
	queueKey string
	logger   types.Logger

	active    atomic.Int64
	completed atomic.Int64
	failed    atomic.Int64
}

// NewEmailQueue creates a queue on the configured redis instance
func NewEmailQueue(cfg *config.Config) *EmailQueue {
	opts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		opts = &redis.Options{Addr: "localhost:6379"}
	}
	if cfg.Redis.Password != "" {
		opts.Password = cfg.Redis.Password
	}
	opts.DB = cfg.Redis.DB
	opts.DialTimeout = cfg.Redis.Timeout
	opts.WriteTimeout = cfg.Redis.Timeout

	return &EmailQueue{
		client:   redis.NewClient(opts),
		queueKey: cfg.Email.QueueKey,
		logger:   logging.GetGlobalLogger(),
	}
}

// Ping verifies the redis connection
func (q *EmailQueue) Ping(ctx context.Context) error {
	return q.client.Ping(ctx).Err()
}

// Close releases the redis connection
func (q *EmailQueue) Close() error {
	return q.client.Close()
}

// Enqueue pushes a message onto the delivery queue
func (q *EmailQueue) Enqueue(ctx context.Context, msg EmailMessage) error {
	job := EmailJob{
		ID:      utils.GenerateRequestID(),
		Message: msg,
		Queued:  time.Now(),
	}
	return q.push(ctx, job)
}

func (q *EmailQueue) push(ctx context.Context, job EmailJob) error {
	raw, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal email job: %w", err)
	}
	if err := q.client.LPush(ctx, q.queueKey, raw).Err(); err != nil {
		return fmt.Errorf("failed to enqueue email job: %w", err)
	}
	return nil
}

// dequeue blocks until a job is available or the timeout elapses. A nil job
// with nil error means the timeout fired.
func (q *EmailQueue) dequeue(ctx context.Context, timeout time.Duration) (*EmailJob, error) {
	res, err := q.client.BRPop(ctx, timeout, q.queueKey).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}
	if len(res) != 2 {
		return nil, fmt.Errorf("unexpected brpop reply of %d elements", len(res))
	}

	var job EmailJob
	if err := json.Unmarshal([]byte(res[1]), &job); err != nil {
		return nil, fmt.Errorf("failed to unmarshal email job: %w", err)
	}
	return &job, nil
}

// Stats returns a snapshot of queue depth and worker counters
func (q *EmailQueue) Stats(ctx context.Context) (QueueStats, error) {
	waiting, err := q.client.LLen(ctx, q.queueKey).Result()
	if err != nil {
		return QueueStats{}, fmt.Errorf("failed to read queue length: %w", err)
	}
	return QueueStats{
		Waiting:   waiting,
		Active:    q.active.Load(),
		Completed: q.completed.Load(),
		Failed:    q.failed.Load(),
	}, nil
}
