package schema

import (
	"github.com/rs/zerolog"
)

// LoadContext receives diagnostics produced while loading a service
// description. Diagnostics never abort a load.
type LoadContext interface {
	Debug(format string, args ...interface{})
	Info(format string, args ...interface{})
	Warning(format string, args ...interface{})
	Critical(format string, args ...interface{})
}

// logContext forwards diagnostics to a zerolog logger
type logContext struct {
	logger zerolog.Logger
}

// NewLogContext creates a load context that logs through the given logger
func NewLogContext(logger zerolog.Logger) LoadContext {
	return &logContext{logger: logger.With().Str("component", "loader").Logger()}
}

// DiscardContext returns a load context that drops every diagnostic
func DiscardContext() LoadContext {
	return &logContext{logger: zerolog.Nop()}
}

func (c *logContext) Debug(format string, args ...interface{}) {
	c.logger.Debug().Msgf(format, args...)
}

func (c *logContext) Info(format string, args ...interface{}) {
	c.logger.Info().Msgf(format, args...)
}

func (c *logContext) Warning(format string, args ...interface{}) {
	c.logger.Warn().Msgf(format, args...)
}

// Critical logs at error level; zerolog's fatal level would exit the process.
func (c *logContext) Critical(format string, args ...interface{}) {
	c.logger.Error().Msgf(format, args...)
}
