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

package rpc_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gosubstrate/statemachine/changes"
	"github.com/gosubstrate/statemachine/common"
	"github.com/gosubstrate/statemachine/rpc"
	"github.com/gosubstrate/statemachine/txpool"
)

func TestMapPoolErrorCodes(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"banned", &txpool.TemporarilyBanned{Hash: common.Hash{1}}, rpc.CodePoolTemporarilyBanned},
		{"already imported", &txpool.AlreadyImported{Hash: common.Hash{2}}, rpc.CodePoolAlreadyImported},
		{"too low priority", &txpool.TooLowPriority{Old: 10, New: 1}, rpc.CodePoolTooLowPriority},
		{"invalid tx", &txpool.InvalidTransaction{Code: 7}, rpc.CodePoolInvalidTx},
		{"unknown validity", &txpool.UnknownTransactionValidity{Code: 3}, rpc.CodePoolUnknownValidity},
		{"bad format", &txpool.BadFormat{Err: txpool.ErrNoTagsProvided}, rpc.CodeBadFormat},
		{"cycle detected", txpool.ErrCycleDetected, rpc.CodePoolCycleDetected},
		{"immediately dropped", txpool.ErrImmediatelyDropped, rpc.CodePoolImmediatelyDropped},
		{"verification error", txpool.ErrVerificationError, rpc.CodeVerificationError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mapped := rpc.MapPoolError(tt.err)
			require.NotNil(t, mapped)
			assert.Equal(t, tt.code, mapped.Code)
		})
	}
}

func TestMapPoolErrorNil(t *testing.T) {
	assert.Nil(t, rpc.MapPoolError(nil))
}

func TestMapBuilderErrorCodes(t *testing.T) {
	mapped := rpc.MapBuilderError(&changes.ErrMissingTrieRoot{Block: 4})
	require.NotNil(t, mapped)
	assert.Equal(t, rpc.CodeVerificationError, mapped.Code)

	mapped = rpc.MapBuilderError(nil)
	assert.Nil(t, mapped)
}

func TestErrorsFatalBySeverity(t *testing.T) {
	warn := rpc.Errors.New(rpc.CodePoolAlreadyImported, "x")
	assert.False(t, warn.Fatal())

	fatal := rpc.Errors.New(rpc.CodeVerificationError, "x")
	assert.True(t, fatal.Fatal())
}
