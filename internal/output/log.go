// Package output provides terminal output utilities: the shared logger,
// lipgloss styles, tables and the report writers used by every command.
package output

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
)

// logger is the package logger. Commands reconfigure it through SetupLogging.
var logger *log.Logger

func init() {
	logger = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: false,
		ReportCaller:    false,
	})
}

// LogConfig controls logger construction.
type LogConfig struct {
	// Verbose enables debug level, caller reporting and timestamps.
	Verbose bool

	// Timestamps overrides the timestamp default when not verbose. Nil means on.
	Timestamps *bool
}

// SetupLogging configures the logger based on cfg.
func SetupLogging(cfg LogConfig) {
	setupLogging(os.Stderr, cfg)
}

// SetupLoggingTo is SetupLogging with an explicit destination.
func SetupLoggingTo(w io.Writer, cfg LogConfig) {
	setupLogging(w, cfg)
}

func setupLogging(w io.Writer, cfg LogConfig) {
	level := log.InfoLevel
	if cfg.Verbose {
		level = log.DebugLevel
	}

	timestamps := true
	if cfg.Timestamps != nil {
		timestamps = *cfg.Timestamps
	}
	if cfg.Verbose {
		timestamps = true
	}

	logger = log.NewWithOptions(w, log.Options{
		Level:           level,
		ReportTimestamp: timestamps,
		ReportCaller:    cfg.Verbose,
		TimeFormat:      "15:04:05",
	})
}

// BoolPtr returns a pointer to b.
func BoolPtr(b bool) *bool {
	return &b
}

// FileLogger returns a child logger whose prefix names a single input file,
// used for per-item diagnostics in batch commands.
func FileLogger(path string) *log.Logger {
	return logger.WithPrefix(StyleDim.Render("f:") + StyleNoun.Render(filepath.Base(path)))
}

// Debug logs a debug message.
func Debug(msg string, keyvals ...interface{}) {
	logger.Debug(msg, keyvals...)
}

// Info logs an info message.
func Info(msg string, keyvals ...interface{}) {
	logger.Info(msg, keyvals...)
}

// Warn logs a warning message.
func Warn(msg string, keyvals ...interface{}) {
	logger.Warn(msg, keyvals...)
}

// Error logs an error message.
func Error(msg string, keyvals ...interface{}) {
	logger.Error(msg, keyvals...)
}

// Println prints a message to stdout with a newline.
func Println(msg string) {
	os.Stdout.WriteString(msg + "\n")
}
