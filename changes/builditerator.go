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

package changes

import (
	"github.com/gosubstrate/statemachine/common"
	"github.com/gosubstrate/statemachine/config"
)

// digestLevel is a changes-trie digest level. Level 0 means "not a digest
// block at all" - only ExtrinsicIndex records are emitted for it.
type digestLevel uint64

// levelFor returns the highest digest level active for block under cfg,
// or 0 if block is not a digest block at all (spec.md §4.1.2: "A block b
// is a level-L digest block iff (b - zero) mod interval^L == 0 and no
// higher level applies").
func levelFor(cfg config.DigestOptions, zero, block common.BlockNumber) digestLevel {
	if cfg.Interval < 2 || block <= zero {
		return 0
	}
	span := block - zero
	best := digestLevel(0)
	interval := uint64(cfg.Interval)
	power := interval
	for l := uint64(1); l <= cfg.Levels; l++ {
		if uint64(span)%power != 0 {
			break
		}
		best = digestLevel(l)
		power *= interval
	}
	return best
}

// digestLevelBlocks returns, for a digest being built at level l covering
// target, the ascending ancestor block numbers whose records must be
// folded in directly (spec.md §4.1.2's digest_build_iterator). At level
// 1 these are the interval-1 plain blocks immediately below target; at
// level L>1 these are the interval-1 level-(L-1) digest blocks immediately
// below target - SPEC_FULL.md supplemented feature 2: the iterator
// descends level by level rather than assuming a single fixed step.
func digestLevelBlocks(cfg config.DigestOptions, zero common.BlockNumber, l digestLevel, target common.BlockNumber) []common.BlockNumber {
	if l == 0 || cfg.Interval < 2 {
		return nil
	}
	interval := common.BlockNumber(cfg.Interval)
	step := common.BlockNumber(1)
	for i := digestLevel(1); i < l; i++ {
		step *= interval
	}
	out := make([]common.BlockNumber, 0, cfg.Interval-1)
	for k := interval - 1; k >= 1; k-- {
		a := target - k*step
		if a <= zero {
			continue
		}
		out = append(out, a)
	}
	return out
}

// BuildIterator yields the ascending ancestor block numbers whose records
// must be aggregated into the digest being built at block target, given
// the configuration active there (spec.md §2.A item 3). level is 0 (and
// the slice nil) when target isn't a digest block at all.
func BuildIterator(rng config.ConfigurationRange, target common.BlockNumber) (ancestors []common.BlockNumber, level digestLevel) {
	l := levelFor(rng.Digest, rng.Zero, target)
	if l == 0 {
		return nil, 0
	}
	return digestLevelBlocks(rng.Digest, rng.Zero, l, target), l
}

// skewedBlockForDigest is spec.md §4.1.2's "skewed digest" rule: when the
// active configuration range ends exactly at the block being built, the
// digest is built early, for the next digest boundary the configuration
// would otherwise have reached (of any level), so that every ancestor
// since the last digest is covered by exactly one skewed digest rather
// than being silently dropped by the configuration change.
func skewedBlockForDigest(rng config.ConfigurationRange, current common.BlockNumber) (common.BlockNumber, bool) {
	if rng.End == nil || *rng.End != current {
		return 0, false
	}
	interval := common.BlockNumber(rng.Digest.Interval)
	if interval < 2 {
		return 0, false
	}
	// smallest multiple-of-interval block, relative to zero, strictly
	// greater than current.
	span := current - rng.Zero
	next := rng.Zero + ((span / interval) + 1) * interval
	return next, true
}
