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

// Package rpc maps pool and builder error kinds onto the wire error codes
// of spec.md §6, driven by an errs.Errors table the way the teacher's own
// subsystems (each carrying their own errs.Errors instance) report errors
// to RPC callers.
package rpc

import (
	"errors"

	"github.com/gosubstrate/statemachine/changes"
	"github.com/gosubstrate/statemachine/errs"
	"github.com/gosubstrate/statemachine/log"
	"github.com/gosubstrate/statemachine/txpool"
)

// Wire error codes (spec.md §6), base 1000.
const (
	CodeBadFormat              = 1001
	CodeVerificationError      = 1002
	CodePoolInvalidTx          = 1010
	CodePoolUnknownValidity    = 1011
	CodePoolTemporarilyBanned  = 1012
	CodePoolAlreadyImported    = 1013
	CodePoolTooLowPriority     = 1014
	CodePoolCycleDetected      = 1015
	CodePoolImmediatelyDropped = 1016
	CodeUnsupportedKeyType     = 1017
)

// Errors is the pool/builder error-code table, keyed the same way the
// teacher's errs.Errors instances are: a Package name, a code -> message
// map, and a severity function consulted by Error.Fatal.
var Errors = &errs.Errors{
	Package: "statenode",
	Errors: map[int]string{
		CodeBadFormat:              "bad format",
		CodeVerificationError:      "verification error",
		CodePoolInvalidTx:          "invalid transaction",
		CodePoolUnknownValidity:    "unknown transaction validity",
		CodePoolTemporarilyBanned:  "temporarily banned",
		CodePoolAlreadyImported:    "already imported",
		CodePoolTooLowPriority:     "priority too low",
		CodePoolCycleDetected:      "dependency cycle detected",
		CodePoolImmediatelyDropped: "immediately dropped",
		CodeUnsupportedKeyType:     "unsupported key type",
	},
	Level: severity,
}

// severity mirrors spec.md §7's recoverable/unrecoverable split: pool
// errors are per-item and thus Warn at worst, decode/verification
// failures that precede validation are Error.
func severity(code int) log.Level {
	switch code {
	case CodeBadFormat, CodeVerificationError, CodeUnsupportedKeyType:
		return log.LevelError
	default:
		return log.LevelWarn
	}
}

// MapPoolError converts a txpool error kind into a wire *errs.Error,
// following the per-kind mapping spec.md §6/§7 describe. A nil err maps to
// a nil result.
func MapPoolError(err error) *errs.Error {
	if err == nil {
		return nil
	}

	var banned *txpool.TemporarilyBanned
	var already *txpool.AlreadyImported
	var tooLow *txpool.TooLowPriority
	var invalidTx *txpool.InvalidTransaction
	var unknownValidity *txpool.UnknownTransactionValidity
	var badFormat *txpool.BadFormat

	switch {
	case errors.As(err, &banned):
		return Errors.New(CodePoolTemporarilyBanned, "%s", banned.Hash)
	case errors.As(err, &already):
		return Errors.New(CodePoolAlreadyImported, "%s", already.Hash)
	case errors.As(err, &tooLow):
		return Errors.New(CodePoolTooLowPriority, "%d < %d", tooLow.New, tooLow.Old)
	case errors.As(err, &invalidTx):
		return Errors.New(CodePoolInvalidTx, "code %d", invalidTx.Code)
	case errors.As(err, &unknownValidity):
		return Errors.New(CodePoolUnknownValidity, "code %d", unknownValidity.Code)
	case errors.As(err, &badFormat):
		return Errors.New(CodeBadFormat, "%v", badFormat.Err)
	case errors.Is(err, txpool.ErrCycleDetected):
		return Errors.New(CodePoolCycleDetected, "%v", err)
	case errors.Is(err, txpool.ErrImmediatelyDropped):
		return Errors.New(CodePoolImmediatelyDropped, "%v", err)
	case errors.Is(err, txpool.ErrVerificationError):
		return Errors.New(CodeVerificationError, "%v", err)
	default:
		return Errors.New(CodeVerificationError, "%v", err)
	}
}

// MapBuilderError converts a changes-trie builder error into a wire
// *errs.Error. Per spec.md §7 both builder kinds are fatal; the caller is
// expected to abort the block build regardless of the returned code.
func MapBuilderError(err error) *errs.Error {
	if err == nil {
		return nil
	}

	var missingRoot *changes.ErrMissingTrieRoot
	var storageErr *changes.StorageError

	switch {
	case errors.As(err, &missingRoot):
		return Errors.New(CodeVerificationError, "missing trie root for block %d", missingRoot.Block)
	case errors.As(err, &storageErr):
		return Errors.New(CodeVerificationError, "%v", storageErr)
	default:
		return Errors.New(CodeVerificationError, "%v", err)
	}
}
