package background

import (
	"context"
	"errors"
	"testing"
	"time"

	"hireflow/internal/config"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()

	cfg := &config.Config{}
	cfg.BackgroundTasks.MaxConcurrentTasks = 2
	cfg.BackgroundTasks.TaskTimeout = 5 * time.Second
	cfg.BackgroundTasks.CleanupInterval = time.Hour
	cfg.BackgroundTasks.MaxTaskAge = time.Hour

	m := NewManager(cfg)
	if err := m.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		m.Stop(ctx)
	})
	return m
}

func waitForStatus(t *testing.T, m *Manager, processID string, want TaskStatus) *TaskResult {
	t.Helper()

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		result, err := m.GetTaskResult(context.Background(), processID)
		if err == nil && result.Status == want {
			return result
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("task %s never reached %s", processID, want)
	return nil
}

func TestSubmitRunsTaskToSuccess(t *testing.T) {
	m := newTestManager(t)

	err := m.Submit(context.Background(), "p-1", TaskTypePreselection, map[string]interface{}{
		"vacancy_id": "vac-1",
	}, func(ctx context.Context) (interface{}, error) {
		return "payload", nil
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	result := waitForStatus(t, m, "p-1", TaskStatusSuccess)
	if result.Data != "payload" {
		t.Errorf("unexpected data %v", result.Data)
	}
	if result.CompletedAt == nil {
		t.Errorf("missing completion time")
	}
	if result.Metadata["vacancy_id"] != "vac-1" {
		t.Errorf("metadata lost: %v", result.Metadata)
	}
}

func TestSubmitRecordsFailure(t *testing.T) {
	m := newTestManager(t)

	err := m.Submit(context.Background(), "p-2", TaskTypePreselection, nil, func(ctx context.Context) (interface{}, error) {
		return nil, errors.New("vacancy missing")
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	result := waitForStatus(t, m, "p-2", TaskStatusFailure)
	if result.Error != "vacancy missing" {
		t.Errorf("unexpected error text %q", result.Error)
	}
}

func TestGetTaskResultUnknownID(t *testing.T) {
	m := newTestManager(t)

	if _, err := m.GetTaskResult(context.Background(), "nope"); !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}
}

func TestSubmitRejectedWhenStopped(t *testing.T) {
	cfg := &config.Config{}
	m := NewManager(cfg)
	if err := m.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := m.Stop(ctx); err != nil {
		t.Fatalf("Stop: %v", err)
	}

	err := m.Submit(context.Background(), "p-3", TaskTypePreselection, nil, func(ctx context.Context) (interface{}, error) {
		return nil, nil
	})
	if err == nil {
		t.Fatal("expected submit to fail after stop")
	}
}
