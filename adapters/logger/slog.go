// Package logger adapts standard structured loggers to interfaces.Logger.
package logger

import (
	"context"
	"log/slog"
	"sort"
)

// SlogAdapter writes through a *slog.Logger.
type SlogAdapter struct {
	l *slog.Logger
}

// NewSlog wraps l. A nil l uses slog.Default().
func NewSlog(l *slog.Logger) *SlogAdapter {
	if l == nil {
		l = slog.Default()
	}
	return &SlogAdapter{l: l}
}

func (a *SlogAdapter) Debug(msg string, fields map[string]any) { a.log(slog.LevelDebug, msg, fields) }
func (a *SlogAdapter) Info(msg string, fields map[string]any)  { a.log(slog.LevelInfo, msg, fields) }
func (a *SlogAdapter) Warn(msg string, fields map[string]any)  { a.log(slog.LevelWarn, msg, fields) }
func (a *SlogAdapter) Error(msg string, fields map[string]any) { a.log(slog.LevelError, msg, fields) }

func (a *SlogAdapter) log(level slog.Level, msg string, fields map[string]any) {
	ctx := context.Background()
	if !a.l.Enabled(ctx, level) {
		return
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	attrs := make([]slog.Attr, 0, len(keys))
	for _, k := range keys {
		attrs = append(attrs, slog.Any(k, fields[k]))
	}
	a.l.LogAttrs(ctx, level, msg, attrs...)
}
