// Copyright 2023 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

// Package log provides the structured logging facility for the state
// machine: a slog-based Logger with Trace/Debug/Info/Warn/Error/Crit
// levels and terminal, logfmt and JSON handlers.
package log

import (
	"context"
	"log/slog"
	"runtime"
	"time"
)

// Logger writes structured log records. It mirrors slog.Logger's surface
// but adds the Trace and Crit levels and a Vmodule-aware construction
// path used by the Glog-style handler.
type Logger interface {
	With(ctx ...any) Logger
	New(ctx ...any) Logger

	Log(level Level, msg string, ctx ...any)

	Trace(msg string, ctx ...any)
	Debug(msg string, ctx ...any)
	Info(msg string, ctx ...any)
	Warn(msg string, ctx ...any)
	Error(msg string, ctx ...any)
	Crit(msg string, ctx ...any)

	// Write logs a message at the specified level, matching the slog.Logger
	// signature so Logger satisfies code written against it.
	Write(level slog.Level, msg string, attrs ...any)

	Handler() slog.Handler
}

type logger struct {
	inner *slog.Logger
}

// NewLogger wraps an *slog.Logger so it satisfies the Logger interface.
func NewLogger(l *slog.Logger) Logger {
	return &logger{inner: l}
}

func (l *logger) Handler() slog.Handler { return l.inner.Handler() }

func (l *logger) Write(level slog.Level, msg string, attrs ...any) {
	l.write(level, msg, attrs...)
}

func (l *logger) write(level slog.Level, msg string, attrs ...any) {
	ctx := context.Background()
	h := l.inner.Handler()
	if !h.Enabled(ctx, level) {
		return
	}
	var pcs [1]uintptr
	runtime.Callers(3, pcs[:]) // skip Callers, write, the Trace/Debug/... wrapper
	r := slog.NewRecord(time.Now(), level, msg, pcs[0])
	r.Add(attrs...)
	_ = h.Handle(ctx, r)
}

func (l *logger) With(ctx ...any) Logger {
	return &logger{inner: l.inner.With(ctx...)}
}

func (l *logger) New(ctx ...any) Logger { return l.With(ctx...) }

func (l *logger) Log(level Level, msg string, ctx ...any) { l.write(level.slog(), msg, ctx...) }

func (l *logger) Trace(msg string, ctx ...any) { l.write(LevelTrace.slog(), msg, ctx...) }
func (l *logger) Debug(msg string, ctx ...any) { l.write(LevelDebug.slog(), msg, ctx...) }
func (l *logger) Info(msg string, ctx ...any)  { l.write(LevelInfo.slog(), msg, ctx...) }
func (l *logger) Warn(msg string, ctx ...any)  { l.write(LevelWarn.slog(), msg, ctx...) }
func (l *logger) Error(msg string, ctx ...any) { l.write(LevelError.slog(), msg, ctx...) }
func (l *logger) Crit(msg string, ctx ...any)  { l.write(LevelCrit.slog(), msg, ctx...) }
