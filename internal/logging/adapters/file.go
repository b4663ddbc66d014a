package adapters

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"hireflow/internal/logging/types"
)

// FileAdapter implements the LogAdapter interface for file output with
// size-based rotation
type FileAdapter struct {
	name        string
	config      FileConfig
	currentFile *os.File
	currentSize int64
	mu          sync.Mutex
}

// FileConfig represents configuration for the file adapter
type FileConfig struct {
	FilePath   string      `yaml:"file_path"`   // path to log file
	Format     string      `yaml:"format"`      // json or text
	MaxSize    int64       `yaml:"max_size"`    // max file size in bytes (0 = no limit)
	MaxBackups int         `yaml:"max_backups"` // max number of backup files to keep
	CreateDirs bool        `yaml:"create_dirs"` // create parent directories if missing
	FileMode   os.FileMode `yaml:"file_mode"`   // file permissions
}

// NewFileAdapter creates a new file adapter
func NewFileAdapter(name string, config FileConfig) (*FileAdapter, error) {
	if config.FileMode == 0 {
		config.FileMode = 0644
	}
	if config.MaxBackups == 0 {
		config.MaxBackups = 10
	}
	if config.Format == "" {
		config.Format = "json"
	}

	adapter := &FileAdapter{
		name:   name,
		config: config,
	}

	if config.CreateDirs {
		if err := os.MkdirAll(filepath.Dir(config.FilePath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create directories: %w", err)
		}
	}

	if err := adapter.openFile(); err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	return adapter, nil
}

// Write writes a log entry to the file
func (a *FileAdapter) Write(entry *types.LogEntry) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.config.MaxSize > 0 && a.currentSize >= a.config.MaxSize {
		if err := a.rotate(); err != nil {
			return fmt.Errorf("failed to rotate log file: %w", err)
		}
	}

	var output string
	var err error

	switch strings.ToLower(a.config.Format) {
	case "text":
		output, err = a.formatText(entry)
	default:
		output, err = a.formatJSON(entry)
	}

	if err != nil {
		return fmt.Errorf("failed to format log entry: %w", err)
	}

	n, err := fmt.Fprintln(a.currentFile, output)
	a.currentSize += int64(n)
	return err
}

// Close closes the underlying file
func (a *FileAdapter) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.currentFile != nil {
		return a.currentFile.Close()
	}
	return nil
}

// Health verifies the log file is still writable
func (a *FileAdapter) Health() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.currentFile == nil {
		return fmt.Errorf("log file is not open")
	}
	return nil
}

// Name returns the name of the adapter
func (a *FileAdapter) Name() string {
	return a.name
}

func (a *FileAdapter) openFile() error {
	file, err := os.OpenFile(a.config.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, a.config.FileMode)
	if err != nil {
		return err
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return err
	}

	a.currentFile = file
	a.currentSize = info.Size()
	return nil
}

// rotate moves the current file aside and opens a fresh one, pruning the
// oldest backup beyond MaxBackups
func (a *FileAdapter) rotate() error {
	if a.currentFile != nil {
		a.currentFile.Close()
		a.currentFile = nil
	}

	timestamp := time.Now().Format("20060102-150405")
	backupPath := fmt.Sprintf("%s.%s", a.config.FilePath, timestamp)
	if err := os.Rename(a.config.FilePath, backupPath); err != nil && !os.IsNotExist(err) {
		return err
	}

	a.pruneBackups()

	return a.openFile()
}

func (a *FileAdapter) pruneBackups() {
	matches, err := filepath.Glob(a.config.FilePath + ".*")
	if err != nil || len(matches) <= a.config.MaxBackups {
		return
	}

	// Glob results are lexically sorted and the timestamp suffix sorts
	// chronologically, so the oldest backups come first
	for _, old := range matches[:len(matches)-a.config.MaxBackups] {
		os.Remove(old)
	}
}

func (a *FileAdapter) formatJSON(entry *types.LogEntry) (string, error) {
	logData := map[string]interface{}{
		"level":   entry.Level.String(),
		"message": entry.Message,
		"time":    entry.Timestamp.Format(time.RFC3339),
	}

	for k, v := range entry.Fields {
		logData[k] = v
	}

	data, err := json.Marshal(logData)
	if err != nil {
		return "", err
	}

	return string(data), nil
}

func (a *FileAdapter) formatText(entry *types.LogEntry) (string, error) {
	timestamp := entry.Timestamp.Format("2006-01-02T15:04:05.000Z07:00")
	level := strings.ToUpper(entry.Level.String())

	output := fmt.Sprintf("%s [%s] %s", timestamp, level, entry.Message)

	if len(entry.Fields) > 0 {
		var fields []string
		for k, v := range entry.Fields {
			fields = append(fields, fmt.Sprintf("%s=%v", k, v))
		}
		output += " " + strings.Join(fields, " ")
	}

	return output, nil
}
