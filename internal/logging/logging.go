// File: internal/logging/logging.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Logger construction: colored console output teed with a JSON file sink,
// exposed as a logr.Logger.

package logging

import (
	"io"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Levels holds the console and file thresholds so they can be changed while
// the process runs. logr verbosity V(n) maps to zap level -n.
type Levels struct {
	Console zap.AtomicLevel
	File    zap.AtomicLevel
}

// NewLevels returns console at -verbosity and the file sink one step more
// verbose.
func NewLevels(verbosity int) Levels {
	return Levels{
		Console: zap.NewAtomicLevelAt(zapcore.Level(-clamp(verbosity))),
		File:    zap.NewAtomicLevelAt(zapcore.Level(-clamp(verbosity + 1))),
	}
}

func clamp(v int) int8 {
	if v < 0 {
		return 0
	}
	if v > 127 {
		return 127
	}
	return int8(v)
}

// removeCallerCore strips caller information from console entries.
type removeCallerCore struct {
	zapcore.Core
}

func (c *removeCallerCore) Check(entry zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Core.Check(entry, nil) == nil {
		return ce
	}
	return ce.AddCore(entry, c)
}

func (c *removeCallerCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	entry.Caller = zapcore.EntryCaller{}
	return c.Core.Write(entry, fields)
}

func (c *removeCallerCore) With(fields []zapcore.Field) zapcore.Core {
	return &removeCallerCore{c.Core.With(fields)}
}

// New builds a logger writing to console and, when logfile is not nil, to
// logfile as JSON.
func New(console, logfile io.Writer, levels Levels) logr.Logger {
	zc := zap.NewDevelopmentEncoderConfig()
	zc.EncodeLevel = zapcore.CapitalColorLevelEncoder
	zc.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000000")

	cores := []zapcore.Core{
		&removeCallerCore{zapcore.NewCore(zapcore.NewConsoleEncoder(zc), zapcore.AddSync(console), levels.Console)},
	}
	if logfile != nil {
		zf := zap.NewDevelopmentEncoderConfig()
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(zf), zapcore.AddSync(logfile), levels.File))
	}

	zl := zap.New(zapcore.NewTee(cores...), zap.AddCaller())
	return zapr.NewLogger(zl)
}
