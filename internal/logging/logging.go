package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

var (
	initOnce sync.Once
	logger   *slog.Logger
)

// Open returns a text logger appending to the file at path, creating the file
// and its parent directory if needed. The caller closes the returned file.
func Open(path string) (*slog.Logger, io.Closer, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, nil, fmt.Errorf("creating log directory %s: %w", dir, err)
		}
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file %s: %w", path, err)
	}
	return slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelInfo})), f, nil
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Init opens the log at path and installs it as the slog default. Only the
// first call has any effect; later calls return the logger already installed.
// If the file cannot be opened a warning goes to warn and logging is
// discarded. The file stays open for the life of the process.
func Init(path string, warn io.Writer) *slog.Logger {
	initOnce.Do(func() {
		l, _, err := Open(path)
		if err != nil {
			fmt.Fprintf(warn, "Warning: event log disabled: %v\n", err)
			l = Discard()
		}
		logger = l
		slog.SetDefault(l)
	})
	return logger
}
