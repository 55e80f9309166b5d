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

// Package txpool admits, orders, prunes and evicts pending extrinsics ahead
// of their inclusion in a block (spec.md §2.B).
package txpool

import (
	"errors"
	"fmt"

	"github.com/gosubstrate/statemachine/common"
)

// Pool error kinds (spec.md §7). All but InvalidBlockId are per-item: a
// batch submission keeps processing after one of these.
var (
	ErrInvalidBlockId     = errors.New("txpool: invalid block id")
	ErrNoTagsProvided     = errors.New("txpool: transaction provides no tags")
	ErrCycleDetected      = errors.New("txpool: dependency cycle detected")
	ErrImmediatelyDropped = errors.New("txpool: immediately dropped by limit enforcement")
	ErrVerificationError  = errors.New("txpool: verification error")
)

// TemporarilyBanned reports that hash is still within a rotator ban window.
type TemporarilyBanned struct{ Hash common.Hash }

func (e *TemporarilyBanned) Error() string {
	return fmt.Sprintf("txpool: %s temporarily banned", e.Hash)
}

// AlreadyImported reports that hash is already present in the pool
// (spec.md §8 invariant 1).
type AlreadyImported struct{ Hash common.Hash }

func (e *AlreadyImported) Error() string {
	return fmt.Sprintf("txpool: %s already imported", e.Hash)
}

// TooLowPriority reports that a transaction lost a tag-replacement contest.
type TooLowPriority struct{ Old, New uint64 }

func (e *TooLowPriority) Error() string {
	return fmt.Sprintf("txpool: priority %d too low to replace %d", e.New, e.Old)
}

// InvalidTransaction wraps a ChainApi-reported invalidity code.
type InvalidTransaction struct{ Code int }

func (e *InvalidTransaction) Error() string {
	return fmt.Sprintf("txpool: invalid transaction, code %d", e.Code)
}

// UnknownTransactionValidity wraps a ChainApi "unknown" validity code.
type UnknownTransactionValidity struct{ Code int }

func (e *UnknownTransactionValidity) Error() string {
	return fmt.Sprintf("txpool: unknown transaction validity, code %d", e.Code)
}

// BadFormat wraps a decode error encountered before validation.
type BadFormat struct{ Err error }

func (e *BadFormat) Error() string { return fmt.Sprintf("txpool: bad format: %v", e.Err) }
func (e *BadFormat) Unwrap() error { return e.Err }
