package logging

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/croftside/farm-management-api/internal/constants"
	"gopkg.in/natefinch/lumberjack.v2"
)

// ErrorLogger writes application and client errors as newline-delimited
// JSON into a size-rotated log file.
type ErrorLogger struct {
	logger *slog.Logger
	path   string
}

// NewErrorLogger creates the log directory if needed and opens the
// rotating writer (5 MB per file, 10 backups).
func NewErrorLogger(logDir string) (*ErrorLogger, error) {
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	path := filepath.Join(logDir, constants.ErrorLogFileName)
	writer := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    constants.ErrorLogMaxSizeMB,
		MaxBackups: constants.ErrorLogMaxBackups,
	}

	handler := slog.NewJSONHandler(writer, &slog.HandlerOptions{Level: slog.LevelInfo})
	return &ErrorLogger{
		logger: slog.New(handler),
		path:   path,
	}, nil
}

// Path returns the location of the current log file.
func (l *ErrorLogger) Path() string {
	return l.path
}

// Error records a server-side error with its context.
func (l *ErrorLogger) Error(msg string, err error, attrs ...any) {
	all := append([]any{slog.String("error", err.Error()), slog.String("source", "server")}, attrs...)
	l.logger.Error(msg, all...)
}

// Warn records a non-fatal condition.
func (l *ErrorLogger) Warn(msg string, attrs ...any) {
	all := append([]any{slog.String("source", "server")}, attrs...)
	l.logger.Warn(msg, all...)
}

// ClientError records an error reported by the frontend.
func (l *ErrorLogger) ClientError(msg string, attrs ...any) {
	all := append([]any{slog.String("source", "client")}, attrs...)
	l.logger.Error(msg, all...)
}
