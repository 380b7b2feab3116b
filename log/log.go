// Copyright 2020 thinkgos (thinkgo@aliyun.com).  All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

// Package log defines the structured-logging collaborator the engine,
// event pump and camera façade emit records through. The core never
// renders logs itself (vendor-specific renderers are out of scope,
// §1); it only produces Field-tagged records for whatever Logger the
// hosting application wires in.
package log

import (
	"os"
	"sync/atomic"

	"github.com/rs/zerolog"
)

// Field is one structured key/value attached to a log record.
type Field struct {
	Key   string
	Value any
}

// F builds a Field inline at a call site: log.F("session_id", 1).
func F(key string, value any) Field { return Field{Key: key, Value: value} }

// Logger receives structured records. See §4.J: the engine's
// transaction-scoped records carry op and txn fields; they do not
// carry the session ID.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
}

// discard is the default Logger for callers that don't want logging.
type discard struct{}

func (discard) Debug(string, ...Field) {}
func (discard) Info(string, ...Field)  {}
func (discard) Warn(string, ...Field)  {}
func (discard) Error(string, ...Field) {}

// Discard returns a Logger that drops every record.
func Discard() Logger { return discard{} }

// ZerologLogger is the default production Logger, backed by
// github.com/rs/zerolog. Output can be silenced at runtime via
// LogMode without swapping the Logger a caller already holds a
// reference to — useful for vendor façades that only want verbose
// logging during a connect handshake.
type ZerologLogger struct {
	logger zerolog.Logger
	// enabled is 1 when log output is enabled, 0 when disabled.
	enabled uint32
}

// NewZerolog returns a logger writing timestamped zerolog records to
// os.Stderr, each tagged with a "component" field set to component.
// Output is enabled by default.
func NewZerolog(component string) *ZerologLogger {
	return &ZerologLogger{
		logger:  zerolog.New(os.Stderr).With().Timestamp().Str("component", component).Logger(),
		enabled: 1,
	}
}

// LogMode enables or disables log output. Disabled calls are dropped
// before touching zerolog, so a hot path (e.g. per-chunk transfer
// progress) can be silenced cheaply.
func (z *ZerologLogger) LogMode(enable bool) {
	if enable {
		atomic.StoreUint32(&z.enabled, 1)
	} else {
		atomic.StoreUint32(&z.enabled, 0)
	}
}

func (z *ZerologLogger) emit(ev *zerolog.Event, msg string, fields []Field) {
	if atomic.LoadUint32(&z.enabled) == 0 {
		return
	}
	for _, f := range fields {
		ev = ev.Interface(f.Key, f.Value)
	}
	ev.Msg(msg)
}

// Debug logs at debug level.
func (z *ZerologLogger) Debug(msg string, fields ...Field) { z.emit(z.logger.Debug(), msg, fields) }

// Info logs at info level.
func (z *ZerologLogger) Info(msg string, fields ...Field) { z.emit(z.logger.Info(), msg, fields) }

// Warn logs at warn level.
func (z *ZerologLogger) Warn(msg string, fields ...Field) { z.emit(z.logger.Warn(), msg, fields) }

// Error logs at error level.
func (z *ZerologLogger) Error(msg string, fields ...Field) { z.emit(z.logger.Error(), msg, fields) }

var _ Logger = (*ZerologLogger)(nil)
var _ Logger = discard{}
