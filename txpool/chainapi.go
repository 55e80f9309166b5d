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

import "github.com/gosubstrate/statemachine/common"

// Tag is an opaque dependency token: a transaction's Provides and Requires
// lists are matched against each other by byte equality (spec.md §3).
type Tag []byte

func (t Tag) String() string { return string(t) }

// ValidityKind discriminates ChainApi.Validate's three outcomes
// (spec.md §4.2.1 step 2c).
type ValidityKind int

const (
	ValidityValid ValidityKind = iota
	ValidityInvalid
	ValidityUnknown
)

// Validity is ChainApi.Validate's result.
type Validity struct {
	Kind ValidityKind

	// Valid fields.
	Priority  uint64
	Requires  []Tag
	Provides  []Tag
	Longevity uint64
	Propagate bool

	// Invalid/Unknown field.
	Code int
}

// ChainApi is the external validator and hasher over raw extrinsics
// (spec.md §6's "ChainApi (consumed)").
type ChainApi interface {
	Validate(at common.Hash, xt []byte) (Validity, error)
	BlockIdToNumber(at common.Hash) (common.BlockNumber, bool)
	BlockIdToHash(at common.Hash) (common.Hash, bool)
	HashAndLength(xt []byte) (common.Hash, int)
}
