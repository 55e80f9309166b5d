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
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/holiman/uint256"
	"github.com/mattn/go-isatty"
)

const (
	termTimeFormat = "01-02|15:04:05.000"
	termMsgJust    = 40
)

// TerminalHandler writes a human-readable, logfmt-ish line per record.
// Its layout and level coloring follow the node binaries this package
// was lifted from: LEVEL [time] message  key=val key=val.
type TerminalHandler struct {
	mu     sync.Mutex
	wr     io.Writer
	useColor bool
	attrs  []slog.Attr
	level  slog.Leveler
}

// NewTerminalHandler returns a handler gated at LevelInfo.
func NewTerminalHandler(wr io.Writer, useColor bool) *TerminalHandler {
	return NewTerminalHandlerWithLevel(wr, LevelInfo, useColor)
}

// NewTerminalHandlerWithLevel returns a handler gated at lvl.
func NewTerminalHandlerWithLevel(wr io.Writer, lvl Level, useColor bool) *TerminalHandler {
	return &TerminalHandler{
		wr:       wr,
		useColor: useColor,
		level:    lvl.slog(),
	}
}

func (h *TerminalHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *TerminalHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &TerminalHandler{
		wr:       h.wr,
		useColor: h.useColor,
		level:    h.level,
		attrs:    append(append([]slog.Attr{}, h.attrs...), attrs...),
	}
}

func (h *TerminalHandler) WithGroup(name string) slog.Handler {
	// Groups are not used by this handler's callers; fold group attrs flat.
	return h
}

func (h *TerminalHandler) Handle(_ context.Context, r slog.Record) error {
	buf := h.format(r)
	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.wr.Write(buf)
	return err
}

func levelColor(lvl Level) string {
	switch lvl {
	case LevelTrace:
		return "\x1b[34m"
	case LevelDebug:
		return "\x1b[36m"
	case LevelInfo:
		return "\x1b[32m"
	case LevelWarn:
		return "\x1b[33m"
	case LevelError, LevelCrit:
		return "\x1b[31m"
	default:
		return ""
	}
}

func (h *TerminalHandler) format(r slog.Record) []byte {
	lvl := fromSlogLevel(r.Level)
	buf := make([]byte, 0, 128)
	if h.useColor {
		if c := levelColor(lvl); c != "" {
			buf = append(buf, c...)
			buf = append(buf, lvl.shortString()...)
			buf = append(buf, "\x1b[0m"...)
		} else {
			buf = append(buf, lvl.shortString()...)
		}
	} else {
		buf = append(buf, lvl.shortString()...)
	}
	buf = append(buf, " ["...)
	buf = writeTimeTermFormat(buf, r.Time)
	buf = append(buf, "] "...)
	buf = append(buf, escapeMessage(r.Message)...)

	hasAttrs := len(h.attrs) > 0 || r.NumAttrs() > 0
	if hasAttrs && len(r.Message) < termMsgJust {
		buf = append(buf, strings.Repeat(" ", termMsgJust-len(r.Message))...)
	}
	for _, a := range h.attrs {
		buf = appendAttr(buf, a)
	}
	r.Attrs(func(a slog.Attr) bool {
		buf = appendAttr(buf, a)
		return true
	})
	buf = append(buf, '\n')
	return buf
}

func writeTimeTermFormat(buf []byte, t time.Time) []byte {
	return t.AppendFormat(buf, termTimeFormat)
}

func escapeMessage(s string) string {
	if strings.ContainsAny(s, "\n\"") {
		return strconv.Quote(s)
	}
	return s
}

func appendAttr(buf []byte, a slog.Attr) []byte {
	buf = append(buf, ' ')
	buf = append(buf, a.Key...)
	buf = append(buf, '=')
	buf = append(buf, formatSlogValue(a.Value)...)
	return buf
}

// formatSlogValue renders a single attribute value the way the node
// binaries' logfmt output does: numbers grouped by thousands, byte
// slices and errors quoted when they contain whitespace, everything
// else via its natural string form.
func formatSlogValue(v slog.Value) string {
	v = v.Resolve()
	switch v.Kind() {
	case slog.KindString:
		return maybeQuote(v.String())
	case slog.KindInt64:
		return FormatLogfmtInt64(v.Int64())
	case slog.KindUint64:
		return FormatLogfmtUint64(v.Uint64())
	case slog.KindFloat64:
		return strconv.FormatFloat(v.Float64(), 'f', -1, 64)
	case slog.KindBool:
		return strconv.FormatBool(v.Bool())
	case slog.KindDuration:
		return v.Duration().String()
	case slog.KindTime:
		return v.Time().Format(time.RFC3339Nano)
	default:
		return formatAnyValue(v.Any())
	}
}

func formatAnyValue(value any) string {
	switch x := value.(type) {
	case nil:
		return "<nil>"
	case error:
		return maybeQuote(x.Error())
	case *big.Int:
		if x == nil {
			return "<nil>"
		}
		return formatLogfmtBigInt(x)
	case *uint256.Int:
		if x == nil {
			return "<nil>"
		}
		return groupThousands(x.Dec())
	case fmt.Stringer:
		return maybeQuote(x.String())
	case []byte:
		return maybeQuote(fmt.Sprintf("%v", x))
	default:
		rv := reflect.ValueOf(value)
		if rv.Kind() == reflect.Ptr && rv.IsNil() {
			return "<nil>"
		}
		return maybeQuote(fmt.Sprintf("%+v", value))
	}
}

func maybeQuote(s string) string {
	if strings.ContainsAny(s, " \t\n\"=") {
		return strconv.Quote(s)
	}
	return s
}

// LogfmtHandler returns a handler writing classic logfmt (key=value) lines,
// gated at LevelInfo.
func LogfmtHandler(wr io.Writer) slog.Handler {
	return slog.NewTextHandler(wr, &slog.HandlerOptions{Level: LevelInfo.slog()})
}

// JSONHandler returns a handler writing one JSON object per record, gated
// at LevelTrace so every level is emitted by default.
func JSONHandler(wr io.Writer) slog.Handler {
	return JSONHandlerWithLevel(wr, LevelTrace.slog())
}

// JSONHandlerWithLevel returns a JSON handler gated at the given level.
func JSONHandlerWithLevel(wr io.Writer, level slog.Leveler) slog.Handler {
	return slog.NewJSONHandler(wr, &slog.HandlerOptions{Level: level})
}

// UseColor reports whether w looks like a color-capable terminal.
func UseColor(w io.Writer) bool {
	type fder interface{ Fd() uintptr }
	f, ok := w.(fder)
	return ok && isatty.IsTerminal(f.Fd())
}
