package background

import (
	"context"
	"errors"
	"sync"
	"time"
)

// TaskStatus represents the status of a background task
type TaskStatus string

const (
	TaskStatusAccepted   TaskStatus = "ACCEPTED"
	TaskStatusProcessing TaskStatus = "PROCESSING"
	TaskStatusSuccess    TaskStatus = "SUCCESS"
	TaskStatusFailure    TaskStatus = "FAILURE"
)

// TaskType represents the type of background task
type TaskType string

const (
	TaskTypePreselection TaskType = "preselection"
)

// ErrTaskNotFound is returned for unknown process IDs
var ErrTaskNotFound = errors.New("task not found")

// TaskResult represents the state of a background task. Data carries the
// operation's payload once the task succeeds.
type TaskResult struct {
	ProcessID      string                 `json:"processId"`
	Type           TaskType               `json:"type"`
	Status         TaskStatus             `json:"status"`
	Data           interface{}            `json:"data,omitempty"`
	Error          string                 `json:"error,omitempty"`
	CreatedAt      time.Time              `json:"createdAt"`
	CompletedAt    *time.Time             `json:"completedAt,omitempty"`
	ProcessingTime time.Duration          `json:"processingTime,omitempty"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`
}

// TaskStore stores and retrieves task results
type TaskStore interface {
	Store(ctx context.Context, result *TaskResult) error
	Get(ctx context.Context, processID string) (*TaskResult, error)
	Update(ctx context.Context, result *TaskResult) error
	Cleanup(ctx context.Context, maxAge time.Duration) error
	List(ctx context.Context) ([]*TaskResult, error)
}

// InMemoryTaskStore implements TaskStore with a mutex-guarded map
type InMemoryTaskStore struct {
	mu    sync.RWMutex
	tasks map[string]*TaskResult
}

// NewInMemoryTaskStore creates a new in-memory task store
func NewInMemoryTaskStore() *InMemoryTaskStore {
	return &InMemoryTaskStore{
		tasks: make(map[string]*TaskResult),
	}
}

func (s *InMemoryTaskStore) Store(_ context.Context, result *TaskResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks[result.ProcessID] = result
	return nil
}

func (s *InMemoryTaskStore) Get(_ context.Context, processID string) (*TaskResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result, exists := s.tasks[processID]
	if !exists {
		return nil, ErrTaskNotFound
	}
	return result, nil
}

func (s *InMemoryTaskStore) Update(_ context.Context, result *TaskResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tasks[result.ProcessID]; !exists {
		return ErrTaskNotFound
	}
	s.tasks[result.ProcessID] = result
	return nil
}

// Cleanup removes results older than maxAge
func (s *InMemoryTaskStore) Cleanup(_ context.Context, maxAge time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)
	for processID, result := range s.tasks {
		if result.CreatedAt.Before(cutoff) {
			delete(s.tasks, processID)
		}
	}
	return nil
}

func (s *InMemoryTaskStore) List(_ context.Context) ([]*TaskResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]*TaskResult, 0, len(s.tasks))
	for _, result := range s.tasks {
		results = append(results, result)
	}
	return results, nil
}
