// Package stdlogger adapts the global zerolog logger to the printf-style
// Infof/Warningf/Errorf/Debugf interface some libraries expect.
package stdlogger

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger wraps the global zerolog logger behind printf-style methods.
type Logger struct {
	logger zerolog.Logger
}

// New creates a new std-style logger backed by the global zerolog logger.
func New() *Logger {
	return &Logger{logger: log.Logger}
}

// Debugf logs a formatted message at debug level.
func (l *Logger) Debugf(format string, args ...interface{}) {
	l.logger.Debug().Msgf(format, args...)
}

// Infof logs a formatted message at info level.
func (l *Logger) Infof(format string, args ...interface{}) {
	l.logger.Info().Msgf(format, args...)
}

// Warningf logs a formatted message at warn level.
func (l *Logger) Warningf(format string, args ...interface{}) {
	l.logger.Warn().Msgf(format, args...)
}

// Errorf logs a formatted message at error level.
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.logger.Error().Msgf(format, args...)
}
