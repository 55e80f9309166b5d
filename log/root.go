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

package log

import (
	"log/slog"
	"os"
	"sync/atomic"
)

var root atomic.Value

func init() {
	root.Store(&defaultRoot{Logger: NewLogger(slog.New(NewTerminalHandler(os.Stderr, false)))})
}

// defaultRoot exists purely so the atomic.Value always holds the same
// concrete type; swapping loggers via SetDefault replaces the Logger field.
type defaultRoot struct {
	Logger
}

// Root returns the root logger, which by default writes to stderr through
// a TerminalHandler.
func Root() Logger {
	return root.Load().(*defaultRoot).Logger
}

// SetDefault sets the default logger used by the package-level Trace,
// Debug, Info, Warn, Error and Crit helpers.
func SetDefault(l Logger) {
	root.Store(&defaultRoot{Logger: l})
	if lg, ok := l.(*logger); ok {
		slog.SetDefault(lg.inner)
	}
}

// New returns a new Logger with the given context, derived from Root.
func New(ctx ...any) Logger {
	return Root().New(ctx...)
}

func Trace(msg string, ctx ...any) { Root().Trace(msg, ctx...) }
func Debug(msg string, ctx ...any) { Root().Debug(msg, ctx...) }
func Info(msg string, ctx ...any)  { Root().Info(msg, ctx...) }
func Warn(msg string, ctx ...any)  { Root().Warn(msg, ctx...) }
func Error(msg string, ctx ...any) { Root().Error(msg, ctx...) }
func Crit(msg string, ctx ...any) {
	Root().Crit(msg, ctx...)
	os.Exit(1)
}
