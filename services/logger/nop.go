package logsvc

import (
	"github.com/rs/zerolog"

	"github.com/trezcool/bibleschool/core"
)

// ZeroLogger only writes locally. Used by the CLI and tests, where Rollbar is not wanted.
type ZeroLogger struct {
	zl zerolog.Logger
}

var _ core.Logger = (*ZeroLogger)(nil)

func NewZeroLogger(zl zerolog.Logger) *ZeroLogger {
	return &ZeroLogger{zl: zl}
}

func NewNopLogger() *ZeroLogger {
	return &ZeroLogger{zl: zerolog.Nop()}
}

func (l ZeroLogger) Debug(msg string, args ...interface{}) { logEvent(l.zl.Debug(), msg, args) }
func (l ZeroLogger) Info(msg string, args ...interface{})  { logEvent(l.zl.Info(), msg, args) }
func (l ZeroLogger) Warn(msg string, args ...interface{})  { logEvent(l.zl.Warn(), msg, args) }
func (l ZeroLogger) Error(msg string, args ...interface{}) { logEvent(l.zl.Error(), msg, args) }
func (l ZeroLogger) Fatal(msg string, args ...interface{}) { logEvent(l.zl.Fatal(), msg, args) }
