// Package logger provides the verbosity-gated logging used across the
// calculator.
//
// Verbosity levels (in increasing order):
//
//	Error < Info < Debug < Trace
//
// Example usage:
//
//	logger.SetVerbosity(logger.Debug)
//	logger.Infof("pricing %s %s", model, kind)
//	logger.Debugf("spot=%f vol=%f", spot, vol)
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync/atomic"
)

// Level represents a logging verbosity level.
// Higher values mean more verbose logging.
type Level int

const (
	Error Level = iota // Error logs only failures.
	Info               // Info logs requests and lifecycle events.
	Debug              // Debug logs resolved inputs and intermediate values.
	Trace              // Trace logs per-step detail (provider responses).
)

var (
	current atomic.Int32
	std     = log.New(os.Stderr, "", log.LstdFlags|log.Lshortfile)
)

func init() {
	current.Store(int32(Info))
}

// SetVerbosity sets the global logging verbosity. Values outside
// Error..Trace are clamped.
func SetVerbosity(l Level) {
	current.Store(int32(min(max(l, Error), Trace)))
}

// Verbosity returns the active level.
func Verbosity() Level {
	return Level(current.Load())
}

// SetOutput redirects all log output, typically to a buffer in tests.
func SetOutput(w io.Writer) {
	std.SetOutput(w)
}

// ParseLevel maps a config string ("error", "info", "debug", "trace", or the
// digits 0-3) to a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "error", "0":
		return Error, nil
	case "info", "1", "":
		return Info, nil
	case "debug", "2":
		return Debug, nil
	case "trace", "3":
		return Trace, nil
	}
	return Info, fmt.Errorf("unknown log level %q", s)
}

func (l Level) String() string {
	switch l {
	case Error:
		return "error"
	case Info:
		return "info"
	case Debug:
		return "debug"
	case Trace:
		return "trace"
	}
	return fmt.Sprintf("Level(%d)", int(l))
}

// logf checks verbosity and hands off to the standard library logger.
// calldepth 3 points Lshortfile at the caller of Errorf/Infof/...
func logf(l Level, prefix, format string, args ...any) {
	if Verbosity() >= l {
		_ = std.Output(3, prefix+fmt.Sprintf(format, args...))
	}
}

// Errorf logs an error-level message.
func Errorf(format string, args ...any) {
	logf(Error, "[ERROR] ", format, args...)
}

// Infof logs an informational message.
func Infof(format string, args ...any) {
	logf(Info, "[INFO]  ", format, args...)
}

// Debugf logs debugging information.
func Debugf(format string, args ...any) {
	logf(Debug, "[DEBUG] ", format, args...)
}

// Tracef logs very detailed execution traces.
// Use this sparingly due to high volume.
func Tracef(format string, args ...any) {
	logf(Trace, "[TRACE] ", format, args...)
}
