// Package logger builds charmbracelet/log loggers for the weathrly modes.
package logger

import (
	"io"

	"github.com/charmbracelet/log"
)

// New returns a copy of the package-level logger tagged with prefix, so it
// follows whatever Setup configured.
func New(prefix string) *log.Logger {
	return log.Default().WithPrefix(prefix)
}

// NewWithConfig creates a charm logger with custom config.
func NewWithConfig(w io.Writer, prefix string, level log.Level, caller bool, showTimestamp bool, fmt log.Formatter) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Prefix:          prefix,
		Level:           level,
		ReportCaller:    caller,
		ReportTimestamp: showTimestamp,
		Formatter:       fmt,
	})
}

// Setup replaces the package-level logger used across weathrly.
// Debug lowers the level and adds timestamps; json switches to the JSON formatter.
func Setup(w io.Writer, debug, json bool) *log.Logger {
	level := log.WarnLevel
	if debug {
		level = log.DebugLevel
	}
	formatter := log.TextFormatter
	if json {
		formatter = log.JSONFormatter
	}
	l := NewWithConfig(w, "", level, debug, debug, formatter)
	log.SetDefault(l)
	return l
}
