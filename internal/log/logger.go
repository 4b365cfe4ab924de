// Package log provides structured event logging.
// This file appends JSON events to log.jsonl in the storage directory.
package log

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Event type constants.
const (
	EventLoginOffline     = "login_offline"
	EventLoginVerified    = "login_verified"
	EventLoginRefreshed   = "login_refreshed"
	EventLoginInteractive = "login_interactive"
	EventLoginFailed      = "login_failed"
	EventSelectorMismatch = "selector_mismatch"
	EventLogout           = "logout"
	EventLaunchStarted    = "launch_started"
	EventGameExited       = "game_exited"
	EventUpdateRequired   = "update_required"
)

// LogEvent represents a single structured event written to the log.
// Token material is never part of an event.
type LogEvent struct {
	Time        time.Time `json:"time"`
	Event       string    `json:"event"`
	AccountID   string    `json:"account,omitempty"`
	DisplayName string    `json:"name,omitempty"`
	Executable  string    `json:"exe,omitempty"`
	App         string    `json:"app,omitempty"`
	Reason      string    `json:"reason,omitempty"`
	Error       string    `json:"error,omitempty"`
	ExitCode    int       `json:"exit_code,omitempty"`
	DryRun      bool      `json:"dry_run,omitempty"`
}

// Logger writes append-only JSONL events to a log file.
type Logger struct {
	path string
	mu   sync.Mutex
}

// NewLogger creates a Logger that writes to log.jsonl inside dir.
// The directory is created on the first append, not up front, so that
// a run which never authenticates leaves no state behind.
// Does not truncate an existing log file.
func NewLogger(dir string) *Logger {
	return &Logger{
		path: filepath.Join(dir, "log.jsonl"),
	}
}

// Append writes a single LogEvent as one JSON line to the log file.
// If event.Time is the zero value, it is automatically set to time.Now().UTC().
// The file is opened in append mode, written to, and then closed.
// Thread-safe via mutex.
func (l *Logger) Append(event LogEvent) error {
	if event.Time.IsZero() {
		event.Time = time.Now().UTC()
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal log event: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(l.path), 0o700); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write log event: %w", err)
	}

	return nil
}

// ReadAll reads and parses all events from the log file.
// Returns an empty slice (not an error) if the file does not exist.
func (l *Logger) ReadAll() ([]LogEvent, error) {
	f, err := os.Open(l.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []LogEvent{}, nil
		}
		return nil, fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	var events []LogEvent
	scanner := bufio.NewScanner(f)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var event LogEvent
		if err := json.Unmarshal(line, &event); err != nil {
			return nil, fmt.Errorf("parse log line %d: %w", lineNum, err)
		}
		events = append(events, event)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log file: %w", err)
	}

	return events, nil
}
