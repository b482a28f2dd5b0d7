// Package logging wraps zap with the panel's log conventions. The log stream
// is the harness's only error channel: host calls, capability warnings, and
// frame events all land here, and the Tail core mirrors recent entries into
// the UI.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// eventKey marks entries that represent host event traffic rather than
// ordinary log lines.
const eventKey = "stream"

// Logger wraps zap.Logger with an Event level for host event traffic.
type Logger struct {
	*zap.Logger
}

// Config defines logger configuration.
type Config struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// New creates a logger with the provided configuration, teeing output into
// the supplied tail when non-nil.
func New(cfg Config, tail *Tail) (*Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		return nil, err
	}

	zapCfg := zap.NewProductionConfig()
	if cfg.Development {
		zapCfg = zap.NewDevelopmentConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	logger, err := zapCfg.Build(teeOption(tail))
	if err != nil {
		return nil, err
	}
	return &Logger{Logger: logger}, nil
}

// NewNop returns a logger that discards everything. Tests and detached
// controls use it as the default.
func NewNop() *Logger {
	return &Logger{Logger: zap.NewNop()}
}

// NewWithTail builds a development logger wired to the tail, falling back to
// a no-op logger when construction fails.
func NewWithTail(tail *Tail) *Logger {
	logger, err := New(Config{Level: "debug", Development: true}, tail)
	if err != nil {
		return NewNop()
	}
	return logger
}

func teeOption(tail *Tail) zap.Option {
	return zap.WrapCore(func(core zapcore.Core) zapcore.Core {
		if tail == nil {
			return core
		}
		return zapcore.NewTee(core, tail)
	})
}

// Event records host event traffic at info level, tagged so the tail can
// classify it separately from ordinary log lines.
func (l *Logger) Event(msg string, fields ...zap.Field) {
	l.Info(msg, append([]zap.Field{zap.String(eventKey, "event")}, fields...)...)
}
