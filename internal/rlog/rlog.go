// Package rlog provides prefix-scoped loggers built on charmbracelet/log.
//
// There is no package-level global logger: every component that wants
// one constructs it explicitly via New or NewWithConfig, the same
// discipline the dictionary loader and server packages this module was
// adapted from use.
package rlog

import (
	"os"

	"github.com/charmbracelet/log"
)

// New creates a logger scoped to prefix, respecting the process-wide
// log level (set via log.SetLevel in cmd/ entry points).
func New(prefix string) *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		Prefix:          prefix,
		ReportCaller:    false,
		ReportTimestamp: false,
		Formatter:       log.TextFormatter,
		Level:           log.GetLevel(),
	})
}

// NewWithConfig creates a logger scoped to prefix with explicit options,
// for callers that need a level or format different from the process
// default (e.g. a CLI's -v flag).
func NewWithConfig(prefix string, level log.Level, caller, timestamp bool, formatter log.Formatter) *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		Prefix:          prefix,
		Level:           level,
		ReportCaller:    caller,
		ReportTimestamp: timestamp,
		Formatter:       formatter,
	})
}

// Nop returns a logger with output fully suppressed, for use in tests
// and library call sites that were not given a logger explicitly.
func Nop() *log.Logger {
	l := log.NewWithOptions(os.Stderr, log.Options{})
	l.SetLevel(log.FatalLevel + 1)
	return l
}
