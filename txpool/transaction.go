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

package txpool

import (
	"time"

	"github.com/holiman/uint256"

	"github.com/gosubstrate/statemachine/common"
)

// Transaction is one pending extrinsic tracked by the pool (spec.md §3).
// Priority uses uint256 so the same arithmetic the teacher's
// fee-market code does (legacypool's gas-price comparisons) extends cleanly
// to runtime-defined priority schemes wider than a machine word.
type Transaction struct {
	Hash common.Hash
	Data []byte // the raw extrinsic

	Priority  *uint256.Int
	Requires  []Tag
	Provides  []Tag
	ValidTill common.BlockNumber
	Propagate bool

	// submittedAt breaks priority ties in favor of the oldest transaction
	// (spec.md §4.2.2's "ties broken by oldest insertion time").
	submittedAt time.Time
	bytes       int
}

func (tx *Transaction) Bytes() int { return tx.bytes }

// providesTag reports whether tx.Provides contains tag.
func (tx *Transaction) providesTag(tag Tag) bool {
	for _, p := range tx.Provides {
		if string(p) == string(tag) {
			return true
		}
	}
	return false
}

// requiresTag reports whether tx.Requires contains tag.
func (tx *Transaction) requiresTag(tag Tag) bool {
	for _, r := range tx.Requires {
		if string(r) == string(tag) {
			return true
		}
	}
	return false
}

// lessPriority reports whether tx should be evicted before other under
// limit enforcement: lower priority first, oldest-submitted breaks ties
// (spec.md §4.2.2).
func (tx *Transaction) lessPriority(other *Transaction) bool {
	if c := tx.Priority.Cmp(other.Priority); c != 0 {
		return c < 0
	}
	return tx.submittedAt.Before(other.submittedAt)
}
