package logger

import (
	"context"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// NewRunID returns an identifier tagging every log line of one run
func NewRunID() string {
	return uuid.NewString()
}

// ForRun returns a logger carrying the run id and profile name
func ForRun(l Logger, runID, username string) Logger {
	return l.WithFields(map[string]interface{}{
		"run_id":   runID,
		"username": username,
	})
}

// LogRequest logs HTTP request information
func LogRequest(l Logger, method, url string, statusCode int, durationMs int64) {
	fields := map[string]interface{}{
		"method":      method,
		"url":         url,
		"status_code": statusCode,
		"duration_ms": durationMs,
	}

	switch {
	case statusCode >= 500:
		l.ErrorWithFields("HTTP request server error", fields)
	case statusCode >= 400:
		l.WarnWithFields("HTTP request client error", fields)
	default:
		l.DebugWithFields("HTTP request completed", fields)
	}
}

// LogPageFetched logs one listing page
func LogPageFetched(l Logger, page, entries int, totalPages *int) {
	fields := map[string]interface{}{
		"page":    page,
		"entries": entries,
	}
	if totalPages != nil {
		fields["pages"] = *totalPages
	}
	l.InfoWithFields("Listing page fetched", fields)
}

// LogDownload logs a finished or failed video download
func LogDownload(l Logger, mediaID, quality string, size int64, err error) {
	fields := map[string]interface{}{
		"media_id": mediaID,
		"quality":  quality,
	}

	if err != nil {
		l.WithError(err).ErrorWithFields("Download failed", fields)
		return
	}

	fields["size"] = humanize.Bytes(uint64(size))
	l.InfoWithFields("Download completed", fields)
}

// LogComponentStart logs when a component starts
func LogComponentStart(l Logger, component string, config map[string]interface{}) {
	logger := l.WithField("component", component)
	if len(config) > 0 {
		logger = logger.WithFields(config)
	}
	logger.Info("Component started")
}

// LogComponentStop logs when a component stops
func LogComponentStop(l Logger, component string, reason string) {
	l.WithFields(map[string]interface{}{
		"component": component,
		"reason":    reason,
	}).Info("Component stopped")
}

// NewNopLogger creates a no-operation logger for testing
func NewNopLogger() Logger {
	return &nopLogger{}
}

type nopLogger struct{}

func (n *nopLogger) Debug(msg string)                                          {}
func (n *nopLogger) Info(msg string)                                           {}
func (n *nopLogger) Warn(msg string)                                           {}
func (n *nopLogger) Error(msg string)                                          {}
func (n *nopLogger) Fatal(msg string)                                          {}
func (n *nopLogger) WithField(key string, value interface{}) Logger            { return n }
func (n *nopLogger) WithFields(fields map[string]interface{}) Logger           { return n }
func (n *nopLogger) WithError(err error) Logger                                { return n }
func (n *nopLogger) WithContext(ctx context.Context) Logger                    { return n }
func (n *nopLogger) DebugWithFields(msg string, fields map[string]interface{}) {}
func (n *nopLogger) InfoWithFields(msg string, fields map[string]interface{})  {}
func (n *nopLogger) WarnWithFields(msg string, fields map[string]interface{})  {}
func (n *nopLogger) ErrorWithFields(msg string, fields map[string]interface{}) {}
func (n *nopLogger) FatalWithFields(msg string, fields map[string]interface{}) {}
func (n *nopLogger) GetZerolog() *zerolog.Logger                               { return nil }
