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
	"log/slog"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"sync/atomic"
)

// glogState is the mutable verbosity state shared by a GlogHandler and
// every derivative produced by WithAttrs/WithGroup.
type glogState struct {
	level    atomic.Int32
	override atomic.Value // map[string]int32
}

// GlogHandler adapts glog's two orthogonal verbosity controls on top of a
// plain slog.Handler: a global level (Verbosity) and a per-source-file
// override list (Vmodule), e.g. "legacypool.go=5,pool_test.go=2".
type GlogHandler struct {
	origin slog.Handler
	state  *glogState
}

// NewGlogHandler wraps h so its effective level can be adjusted per file.
func NewGlogHandler(h slog.Handler) *GlogHandler {
	g := &GlogHandler{origin: h, state: &glogState{}}
	g.state.level.Store(int32(LevelInfo))
	return g
}

// Verbosity sets the global logging level.
func (g *GlogHandler) Verbosity(lvl Level) {
	g.state.level.Store(int32(lvl))
}

// fromLegacyVerbosity maps the old 0 (crit) .. 5 (trace) glog -vmodule
// scale onto the package's Level range.
func fromLegacyVerbosity(v int) Level {
	switch {
	case v <= 0:
		return LevelCrit
	case v == 1:
		return LevelError
	case v == 2:
		return LevelWarn
	case v == 3:
		return LevelInfo
	case v == 4:
		return LevelDebug
	default:
		return LevelTrace
	}
}

type vmodulePattern struct {
	file  string
	level int32
}

// Vmodule parses a comma-separated "pattern=level" list, where pattern
// matches against the base name of the calling source file and level is
// a legacy 0-5 verbosity (5 being the most verbose, Trace).
func (g *GlogHandler) Vmodule(spec string) error {
	var patterns []vmodulePattern
	for _, part := range strings.Split(spec, ",") {
		if part == "" {
			continue
		}
		eq := strings.LastIndex(part, "=")
		if eq < 0 {
			return fmt.Errorf("invalid vmodule pattern %q", part)
		}
		v, err := strconv.Atoi(part[eq+1:])
		if err != nil {
			return fmt.Errorf("invalid vmodule level in %q: %w", part, err)
		}
		patterns = append(patterns, vmodulePattern{file: part[:eq], level: int32(fromLegacyVerbosity(v))})
	}
	m := make(map[string]int32, len(patterns))
	for _, p := range patterns {
		m[p.file] = p.level
	}
	g.state.override.Store(m)
	return nil
}

func (g *GlogHandler) matchFile(file string) (int32, bool) {
	m, _ := g.state.override.Load().(map[string]int32)
	if m == nil {
		return 0, false
	}
	base := filepath.Base(file)
	for pattern, lvl := range m {
		if ok, _ := filepath.Match(pattern, base); ok {
			return lvl, true
		}
	}
	return 0, false
}

func (g *GlogHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return true // real gating happens in Handle, once we know the caller.
}

func (g *GlogHandler) Handle(ctx context.Context, r slog.Record) error {
	threshold := g.state.level.Load()
	if pcs := r.PC; pcs != 0 {
		frames := runtime.CallersFrames([]uintptr{pcs})
		frame, _ := frames.Next()
		if lvl, matched := g.matchFile(frame.File); matched {
			threshold = lvl
		}
	}
	if int32(r.Level) < threshold {
		return nil
	}
	return g.origin.Handle(ctx, r)
}

func (g *GlogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &GlogHandler{origin: g.origin.WithAttrs(attrs), state: g.state}
}

func (g *GlogHandler) WithGroup(name string) slog.Handler {
	return &GlogHandler{origin: g.origin.WithGroup(name), state: g.state}
}
