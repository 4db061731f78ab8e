// Package build provides the logging plumbing shared by every package in
// this module: a rotating log writer and helpers to mint per-subsystem
// sub-loggers that can be swapped out once the root logger is ready.
package build

import (
	"fmt"
	"os"
	"sync"

	"github.com/decred/slog"
	"github.com/jrick/logrotate/rotator"
)

// LogWriter wraps a set of log writers so logging consumers can easily
// control whether to write to the console, file, both, or neither.
type LogWriter struct {
	// RotatorPipe is the pipe that feeds the log rotator, if attached.
	RotatorPipe *os.File

	// loggers is a map of sub-loggers keyed by subsystem, guarded by mu.
	// NewLogWriter creates it empty; nothing in this package adds to it.
	mu      sync.Mutex
	loggers map[string]slog.Logger
}

// NewLogWriter returns a fresh LogWriter with no rotator attached.
func NewLogWriter() *LogWriter {
	return &LogWriter{
		loggers: make(map[string]slog.Logger),
	}
}

// RotatingLogWriter is the central logging backend, wired up with a
// backend that may rotate to disk once InitLogRotator is called.
type RotatingLogWriter struct {
	backend *slog.Backend
	logRotator *rotator.Rotator
	subsystemLoggers map[string]slog.Logger
	mu sync.Mutex
}

// NewRotatingLogWriter instantiates a new log writer that writes to
// standard out only, until InitLogRotator attaches a file backend.
func NewRotatingLogWriter() *RotatingLogWriter {
	return &RotatingLogWriter{
		backend:          slog.NewBackend(os.Stdout),
		subsystemLoggers: make(map[string]slog.Logger),
	}
}

// InitLogRotator initializes the logging rotator to write logs to
// logFile and create roll files in the same directory. It must be called
// before the first call to log any message.
func (r *RotatingLogWriter) InitLogRotator(logFile string, maxRolls int) error {
	logRotator, err := rotator.New(logFile, 10*1024, false, maxRolls)
	if err != nil {
		return fmt.Errorf("failed to create file rotator: %w", err)
	}

	r.mu.Lock()
	r.logRotator = logRotator
	r.backend = slog.NewBackend(logRotator)
	r.mu.Unlock()

	return nil
}

// GenSubLogger creates a new sub logger for the given subsystem on the
// current root backend and registers it under that name. A logger keeps
// the backend it was created on: loggers created before InitLogRotator
// replaces the backend keep writing to standard out.
func (r *RotatingLogWriter) GenSubLogger(tag string) slog.Logger {
	r.mu.Lock()
	defer r.mu.Unlock()

	logger := r.backend.Logger(tag)
	r.subsystemLoggers[tag] = logger
	return logger
}

// RegisterSubLogger registers the given logger under the given subsystem
// name, so it can be reconfigured later (e.g. by a `debuglevel` command).
func (r *RotatingLogWriter) RegisterSubLogger(subsystem string, logger slog.Logger) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.subsystemLoggers[subsystem] = logger
}

// SetLogLevels sets the logging level for every registered sub-logger to
// the given level string (e.g. "debug", "info", "warn").
func (r *RotatingLogWriter) SetLogLevels(levelStr string) {
	level, ok := slog.LevelFromString(levelStr)
	if !ok {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, logger := range r.subsystemLoggers {
		logger.SetLevel(level)
	}
}

// NewSubLogger creates a new sub-logger for the given subsystem. If a
// genLogger function is provided, it is used to obtain the backing logger
// (allowing the caller to wire it to a RotatingLogWriter); otherwise the
// returned logger discards everything until it is replaced.
func NewSubLogger(subsystem string, genLogger func(string) slog.Logger) slog.Logger {
	if genLogger == nil {
		return slog.Disabled
	}
	return genLogger(subsystem)
}
