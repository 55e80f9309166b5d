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

package config

import "github.com/gosubstrate/statemachine/common"

// ConfigurationRange is the changes-trie digest schedule active over a
// span of blocks (spec.md §3): left-open, right-closed - active for
// blocks in (Zero, End], and the changes trie at Zero+1 is the first
// built under it. End == nil means "still active".
type ConfigurationRange struct {
	Digest DigestOptions
	Zero   common.BlockNumber
	End    *common.BlockNumber
}

// Contains reports whether block falls within (Zero, End].
func (r ConfigurationRange) Contains(block common.BlockNumber) bool {
	if block <= r.Zero {
		return false
	}
	return r.End == nil || block <= *r.End
}

// History is a sorted-by-Zero list of ConfigurationRanges, modeling a
// chain whose digest interval/levels change over time (spec.md SPEC_FULL
// supplemented feature 3: real chains record configuration activations
// on-chain, so "the current configuration" is a historical lookup, not a
// single static value).
type History []ConfigurationRange

// RangeFor returns the ConfigurationRange active at block, if any.
func (h History) RangeFor(block common.BlockNumber) (ConfigurationRange, bool) {
	for _, r := range h {
		if r.Contains(block) {
			return r, true
		}
	}
	return ConfigurationRange{}, false
}

// NextRangeAfter returns the range whose Zero equals r's End or, failing
// that, the range with the smallest Zero greater than r's End: the range
// that takes over when r's configuration deactivates. It reports false
// when r is still active (End == nil) or no later range exists.
func (h History) NextRangeAfter(r ConfigurationRange) (ConfigurationRange, bool) {
	if r.End == nil {
		return ConfigurationRange{}, false
	}
	var best ConfigurationRange
	found := false
	for _, cand := range h {
		if cand.Zero == *r.End {
			return cand, true
		}
		if cand.Zero > *r.End && (!found || cand.Zero < best.Zero) {
			best, found = cand, true
		}
	}
	return best, found
}
