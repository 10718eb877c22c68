package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// ErrorLogName returns the fallback error log filename for a failure at at.
func ErrorLogName(at time.Time) string {
	return "error_log_" + at.Format("20060102_150405") + ".log"
}

// WriteErrorLog records a failure that happened before a run logger could be
// built, typically an unreadable or invalid configuration. It returns the
// path written.
func WriteErrorLog(dir string, at time.Time, cause error) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("ensure log directory: %w", err)
	}
	path := filepath.Join(dir, ErrorLogName(at))
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return "", fmt.Errorf("open error log %s: %w", path, err)
	}
	defer file.Close()

	logger, err := New(Options{Level: "error", Format: "console", Writers: []io.Writer{file}})
	if err != nil {
		return "", err
	}
	logger.Error("orgsort failed before the run started", Error(cause))
	return path, nil
}
