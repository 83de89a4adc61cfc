package services

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"github.com/croftside/farm-management-api/internal/logging"
)

// LogService backs the admin log viewer and the client error ingestion
// endpoint. Reads cover the current log file only; rotated backups stay
// on disk for manual inspection.
type LogService struct {
	errorLog *logging.ErrorLogger
}

// NewLogService creates a new LogService
func NewLogService(errorLog *logging.ErrorLogger) *LogService {
	return &LogService{errorLog: errorLog}
}

// Tail returns up to limit entries from the end of the error log, oldest
// of the window first. Lines that are not valid JSON are skipped.
func (s *LogService) Tail(limit int) ([]json.RawMessage, error) {
	f, err := os.Open(s.errorLog.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return []json.RawMessage{}, nil
		}
		return nil, fmt.Errorf("failed to open error log: %w", err)
	}
	defer f.Close()

	var entries []json.RawMessage
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if !json.Valid(line) {
			continue
		}
		entry := make(json.RawMessage, len(line))
		copy(entry, line)
		entries = append(entries, entry)
		if len(entries) > limit {
			entries = entries[1:]
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read error log: %w", err)
	}
	return entries, nil
}

// ClientReport is an error reported by the frontend error logger.
type ClientReport struct {
	Message string `json:"message"`
	URL     string `json:"url"`
	Stack   string `json:"stack"`
}

// RecordClientError appends a client-side error to the log stream.
func (s *LogService) RecordClientError(userID uint64, report ClientReport) {
	s.errorLog.ClientError(report.Message,
		"user_id", userID,
		"url", report.URL,
		"stack", report.Stack,
	)
}
