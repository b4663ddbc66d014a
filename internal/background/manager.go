// Package background runs long preselection pipelines off the request path.
// A submitted task is immediately ACCEPTED; workers drain the queue and
// record the outcome so clients can poll by process ID.
package background

import (
	"context"
	"fmt"
	"sync"
	"time"

	"hireflow/internal/config"
	"hireflow/internal/logging"
	"hireflow/internal/logging/types"
)

const (
	defaultMaxWorkers = 10
	maxQueueSize      = 100
)

// ExecuteFunc performs the actual work of a task and returns its payload
type ExecuteFunc func(ctx context.Context) (interface{}, error)

// TaskManager manages background task execution
type TaskManager interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error

	// Submit enqueues a task; the returned error reports queue rejection only
	Submit(ctx context.Context, processID string, taskType TaskType, metadata map[string]interface{}, execute ExecuteFunc) error

	GetTaskResult(ctx context.Context, processID string) (*TaskResult, error)
	ListTasks(ctx context.Context) ([]*TaskResult, error)
	IsHealthy() bool
}

// Manager implements TaskManager with a bounded worker pool
type Manager struct {
	cfg         *config.Config
	store       TaskStore
	tasksLogger *taskLogger
	logger      types.Logger
	maxWorkers  int
	taskChan    chan *taskExecution
	taskTimeout time.Duration

	mu      sync.RWMutex
	running bool
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

type taskExecution struct {
	processID string
	taskType  TaskType
	execute   ExecuteFunc
}

// NewManager creates a task manager sized from configuration
func NewManager(cfg *config.Config) *Manager {
	maxWorkers := cfg.BackgroundTasks.MaxConcurrentTasks
	if maxWorkers <= 0 {
		maxWorkers = defaultMaxWorkers
	}
	taskTimeout := cfg.BackgroundTasks.TaskTimeout
	if taskTimeout <= 0 {
		taskTimeout = 10 * time.Minute
	}

	return &Manager{
		cfg:         cfg,
		store:       NewInMemoryTaskStore(),
		tasksLogger: newTaskLogger(),
		logger:      logging.GetGlobalLogger(),
		maxWorkers:  maxWorkers,
		taskChan:    make(chan *taskExecution, maxQueueSize),
		taskTimeout: taskTimeout,
	}
}

// Start launches the worker pool and the cleanup loop
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return fmt.Errorf("task manager already running")
	}

	m.ctx, m.cancel = context.WithCancel(ctx)
	m.running = true

	for i := 0; i < m.maxWorkers; i++ {
		m.wg.Add(1)
		go m.worker(i)
	}

	m.wg.Add(1)
	go m.cleanupLoop()

	m.logger.Info("Task manager started", map[string]interface{}{
		"max_workers": m.maxWorkers,
	})
	return nil
}

// Stop terminates the pool, waiting for in-flight tasks until ctx expires
func (m *Manager) Stop(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running {
		return nil
	}

	m.cancel()
	close(m.taskChan)

	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		m.logger.Info("Task manager stopped")
	case <-ctx.Done():
		m.logger.Warn("Task manager shutdown timed out")
	}

	m.running = false
	return nil
}

// Submit records the task as ACCEPTED and enqueues it for execution
func (m *Manager) Submit(ctx context.Context, processID string, taskType TaskType, metadata map[string]interface{}, execute ExecuteFunc) error {
	if !m.IsHealthy() {
		return fmt.Errorf("task manager is not running")
	}

	result := &TaskResult{
		ProcessID: processID,
		Type:      taskType,
		Status:    TaskStatusAccepted,
		CreatedAt: time.Now(),
		Metadata:  metadata,
	}
	if err := m.store.Store(ctx, result); err != nil {
		return fmt.Errorf("failed to store task result: %w", err)
	}

	m.tasksLogger.accepted(processID, taskType)

	select {
	case m.taskChan <- &taskExecution{processID: processID, taskType: taskType, execute: execute}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return fmt.Errorf("task queue is full")
	}
}

// GetTaskResult retrieves the result of a task by process ID
func (m *Manager) GetTaskResult(ctx context.Context, processID string) (*TaskResult, error) {
	return m.store.Get(ctx, processID)
}

// ListTasks lists all known tasks
func (m *Manager) ListTasks(ctx context.Context) ([]*TaskResult, error) {
	return m.store.List(ctx)
}

// IsHealthy reports whether the manager is accepting work
func (m *Manager) IsHealthy() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.running && m.ctx != nil && m.ctx.Err() == nil
}

func (m *Manager) worker(workerID int) {
	defer m.wg.Done()

	for {
		select {
		case <-m.ctx.Done():
			return
		case task, ok := <-m.taskChan:
			if !ok {
				return
			}
			m.runTask(workerID, task)
		}
	}
}

func (m *Manager) runTask(workerID int, task *taskExecution) {
	start := time.Now()

	m.setStatus(task.processID, TaskStatusProcessing)
	m.tasksLogger.started(task.processID, task.taskType)

	taskCtx, cancel := context.WithTimeout(m.ctx, m.taskTimeout)
	defer cancel()

	data, err := task.execute(taskCtx)
	elapsed := time.Since(start)
	completedAt := time.Now()

	result, getErr := m.store.Get(taskCtx, task.processID)
	if getErr != nil {
		result = &TaskResult{
			ProcessID: task.processID,
			Type:      task.taskType,
			CreatedAt: start,
		}
	}

	result.CompletedAt = &completedAt
	result.ProcessingTime = elapsed
	if err != nil {
		result.Status = TaskStatusFailure
		result.Error = err.Error()
		result.Data = data
		m.tasksLogger.failed(task.processID, task.taskType, err)
	} else {
		result.Status = TaskStatusSuccess
		result.Data = data
		m.tasksLogger.succeeded(task.processID, task.taskType, elapsed)
	}

	if storeErr := m.store.Store(context.Background(), result); storeErr != nil {
		m.logger.Error("Failed to persist task result", map[string]interface{}{
			"worker_id":  workerID,
			"process_id": task.processID,
			"error":      storeErr.Error(),
		})
	}
}

func (m *Manager) setStatus(processID string, status TaskStatus) {
	result, err := m.store.Get(m.ctx, processID)
	if err != nil {
		return
	}
	result.Status = status
	if err := m.store.Update(m.ctx, result); err != nil {
		m.logger.Warn("Failed to update task status", map[string]interface{}{
			"process_id": processID,
			"status":     status,
			"error":      err.Error(),
		})
	}
}

func (m *Manager) cleanupLoop() {
	defer m.wg.Done()

	interval := m.cfg.BackgroundTasks.CleanupInterval
	if interval <= 0 {
		interval = time.Hour
	}
	maxAge := m.cfg.BackgroundTasks.MaxTaskAge
	if maxAge <= 0 {
		maxAge = 24 * time.Hour
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.ctx.Done():
			return
		case <-ticker.C:
			if err := m.store.Cleanup(m.ctx, maxAge); err != nil {
				m.logger.Warn("Task cleanup failed", map[string]interface{}{
					"error": err.Error(),
				})
			}
		}
	}
}
