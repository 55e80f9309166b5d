// Copyright 2015 The go-ethereum Authors
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

// Package config loads node-level configuration (changes-trie digest
// schedule, pool admission limits, rotator ban TTL) from TOML, the way
// cmd/geth's own gethConfig/loadConfig loads node configuration.
package config

import (
	"io"
	"os"
	"time"

	"github.com/naoina/toml"
)

// PoolLimit is one of the pool's two independent caps (spec.md §4.2.2).
type PoolLimit struct {
	Count      int   `toml:"count"`
	TotalBytes int64 `toml:"total_bytes"`
}

// PoolOptions bounds the transaction pool's ready and future queues
// (spec.md §6 "Default pool options").
type PoolOptions struct {
	Ready  PoolLimit `toml:"ready"`
	Future PoolLimit `toml:"future"`
}

// DigestOptions is the node-wide default changes-trie digest schedule
// (spec.md §3 ConfigurationRange.config).
type DigestOptions struct {
	Interval uint64 `toml:"interval"`
	Levels   uint64 `toml:"levels"`
}

// Options is the full TOML-loadable node configuration.
type Options struct {
	Digest     DigestOptions `toml:"digest"`
	Pool       PoolOptions   `toml:"pool"`
	RotatorTTL Duration      `toml:"rotator_ttl"`
}

// Duration adapts time.Duration to naoina/toml's string-based duration
// convention (geth's cmd/geth/config.go does the same for its own
// toml-loaded durations).
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalTOML(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

// Defaults returns the §6 default pool options: ready={count:512,
// total_bytes:10 MiB}, future={count:128, total_bytes:1 MiB}.
func Defaults() Options {
	const mib = 1 << 20
	return Options{
		Digest: DigestOptions{Interval: 4, Levels: 2},
		Pool: PoolOptions{
			Ready:  PoolLimit{Count: 512, TotalBytes: 10 * mib},
			Future: PoolLimit{Count: 128, TotalBytes: 1 * mib},
		},
		RotatorTTL: Duration{30 * time.Minute},
	}
}

// LoadFile reads and decodes a TOML config file into cfg, merging over
// whatever cfg already contains - callers typically seed cfg with
// Defaults() first.
func LoadFile(path string, cfg interface{}) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return Load(f, cfg)
}

// Load decodes TOML from r into cfg.
func Load(r io.Reader, cfg interface{}) error {
	return toml.NewDecoder(r).Decode(cfg)
}
