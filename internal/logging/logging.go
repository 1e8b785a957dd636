// Package logging provides scoped loggers for the broker's components.
// Levels are controlled through the standard PION_LOG_* environment
// variables understood by pion/logging.
package logging

import (
	"github.com/pion/logging"
)

var loggerFactory = logging.NewDefaultLoggerFactory()

// NewLogger returns a leveled logger for the given scope, e.g. "broker".
func NewLogger(scope string) logging.LeveledLogger {
	return loggerFactory.NewLogger(scope)
}
