package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps the zap logger so it can be injected into agents, sources and the controller.
type Logger struct {
	*zap.Logger
}

// NewLogger creates a logger with the production configuration writing to stdout at info level.
func NewLogger() (*Logger, error) {
	return NewLoggerWithLevel(zapcore.InfoLevel)
}

// NewLoggerWithLevel creates a production logger at the given level.
func NewLoggerWithLevel(level zapcore.Level) (*Logger, error) {
	config := zap.NewProductionConfig()
	config.OutputPaths = []string{"stdout"}
	config.ErrorOutputPaths = []string{"stderr"}
	config.Level = zap.NewAtomicLevelAt(level)

	zapLogger, err := config.Build()
	if err != nil {
		return nil, err
	}

	return &Logger{
		Logger: zapLogger,
	}, nil
}

// NewNopLogger returns a logger that discards everything.
func NewNopLogger() *Logger {
	return &Logger{Logger: zap.NewNop()}
}

// ParseLevel converts a level name ("debug", "info", ...) into a zap level.
func ParseLevel(name string) (zapcore.Level, error) {
	return zapcore.ParseLevel(name)
}

// Sync flushes any buffered log entries
func (l *Logger) Sync() error {
	if l.Logger != nil {
		return l.Logger.Sync()
	}

	return nil
}
