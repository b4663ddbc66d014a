package background

import (
	"time"

	"hireflow/internal/logging"
	"hireflow/internal/logging/types"
)

// taskLogger emits the lifecycle log lines for background tasks
type taskLogger struct {
	logger types.Logger
}

func newTaskLogger() *taskLogger {
	return &taskLogger{logger: logging.GetGlobalLogger()}
}

func (l *taskLogger) accepted(processID string, taskType TaskType) {
	l.logger.Info("Background task accepted", map[string]interface{}{
		"process_id": processID,
		"operation":  taskType,
		"status":     string(TaskStatusAccepted),
	})
}

func (l *taskLogger) started(processID string, taskType TaskType) {
	l.logger.Info("Background task started", map[string]interface{}{
		"process_id": processID,
		"operation":  taskType,
		"status":     string(TaskStatusProcessing),
	})
}

func (l *taskLogger) succeeded(processID string, taskType TaskType, elapsed time.Duration) {
	l.logger.Info("Background task completed", map[string]interface{}{
		"process_id":      processID,
		"operation":       taskType,
		"status":          string(TaskStatusSuccess),
		"processing_time": elapsed.String(),
	})
}

func (l *taskLogger) failed(processID string, taskType TaskType, err error) {
	l.logger.Error("Background task failed", map[string]interface{}{
		"process_id": processID,
		"operation":  taskType,
		"status":     string(TaskStatusFailure),
		"error":      err.Error(),
	})
}
