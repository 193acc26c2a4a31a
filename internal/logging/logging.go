// Package logging adapts go.uber.org/zap into the api.Logger surface the
// Manager hands to bridges at connect time.
package logging

import (
	"go.uber.org/zap"

	"github.com/connio-go/connio/api"
)

// zapLogger adapts *zap.SugaredLogger to api.Logger. The method set lines
// up exactly: zap's Debugw/Infow/Warnw/Errorw already take
// (msg string, keysAndValues ...any).
type zapLogger struct {
	s *zap.SugaredLogger
}

// NewZapLogger builds a production zap logger scoped to name, attached as
// a static field on every line it emits. Falls back to a no-op logger if
// the production logger cannot be built.
func NewZapLogger(name string) api.Logger {
	base, err := zap.NewProduction()
	if err != nil {
		base = zap.NewNop()
	}
	return &zapLogger{s: base.Sugar().With("manager", name)}
}

func (l *zapLogger) Debugw(msg string, kv ...any) { l.s.Debugw(msg, kv...) }
func (l *zapLogger) Infow(msg string, kv ...any)  { l.s.Infow(msg, kv...) }
func (l *zapLogger) Warnw(msg string, kv ...any)  { l.s.Warnw(msg, kv...) }
func (l *zapLogger) Errorw(msg string, kv ...any) { l.s.Errorw(msg, kv...) }
