package logger

import (
	"context"
	"os"

	"cloud.google.com/go/logging"
)

// GoogleLogger ships structured log entries to Google Cloud Logging
type GoogleLogger struct {
	client *logging.Client
	logger *logging.Logger
}

// NewGoogleLogger connects to Cloud Logging for the given project
func NewGoogleLogger(ctx context.Context, projectID string, logID string) (*GoogleLogger, error) {
	client, err := logging.NewClient(ctx, projectID)
	if err != nil {
		return nil, err
	}

	return &GoogleLogger{
		client: client,
		logger: client.Logger(logID),
	}, nil
}

// Error is for throwing a log message with status Error
func (l *GoogleLogger) Error(message string, err error) {
	payload := map[string]interface{}{"message": message}
	if err != nil {
		payload["error"] = err.Error()
	}

	l.logger.Log(logging.Entry{Severity: logging.Error, Payload: payload})
}

// Info is for throwing a log message with status Info
func (l *GoogleLogger) Info(message string) {
	l.logger.Log(logging.Entry{Severity: logging.Info, Payload: map[string]interface{}{"message": message}})
}

// Debug is for throwing a log message with status Debug
func (l *GoogleLogger) Debug(message string) {
	l.logger.Log(logging.Entry{Severity: logging.Debug, Payload: map[string]interface{}{"message": message}})
}

// Fatal logs synchronously and exits
func (l *GoogleLogger) Fatal(err error) {
	_ = l.logger.LogSync(context.Background(), logging.Entry{
		Severity: logging.Critical,
		Payload:  map[string]interface{}{"error": err.Error()},
	})
	_ = l.client.Close()
	os.Exit(1)
}

// Close flushes buffered entries
func (l *GoogleLogger) Close() error {
	return l.client.Close()
}
