package logger

import "log"

// Interface is the interface all loggers have to implement
type Interface interface {
	Error(message string, err error)
	Info(message string)
	Debug(message string)
	Fatal(err error)
}

// Logger is the logger type itself
type Logger struct {
	// Quiet drops Debug messages
	Quiet bool
}

// Error is for throwing a log message with status Error
func (l Logger) Error(message string, err error) {
	log.Printf("[ERROR] %s: %v\n", message, err)
}

// Info is for throwing a log message with status Info
func (l Logger) Info(message string) {
	log.Printf("[INFO] %s\n", message)
}

// Debug is for throwing a log message with status Debug
func (l Logger) Debug(message string) {
	if l.Quiet {
		return
	}
	log.Printf("[DEBUG] %s\n", message)
}

// Fatal is for throwing a log message with status Fatal
func (l Logger) Fatal(err error) {
	log.Fatalf("[FATAL] %v\n", err)
}

// Discard is a logger that drops everything but Fatal, useful in tests
type Discard struct{}

// Error drops the message
func (Discard) Error(string, error) {}

// Info drops the message
func (Discard) Info(string) {}

// Debug drops the message
func (Discard) Debug(string) {}

// Fatal logs and exits
func (Discard) Fatal(err error) {
	log.Fatalf("[FATAL] %v\n", err)
}
