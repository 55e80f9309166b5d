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

// Package txpooltest provides an in-memory ChainApi test double, mirroring
// the teacher's core/rawdb.NewMemoryDatabase() test-helper idiom.
package txpooltest

import (
	"encoding/binary"
	"fmt"
	"sync"

	"golang.org/x/crypto/sha3"

	"github.com/gosubstrate/statemachine/common"
	"github.com/gosubstrate/statemachine/txpool"
)

// Extrinsic is the test double's description of a raw extrinsic. Its
// encoding is the nonce alone (8 bytes, big-endian) rather than anything
// resembling a signed transaction; the other fields reach Validate through
// ChainApi.Declare, since ChainApi's contract only cares about what
// Validate reports.
type Extrinsic struct {
	Nonce     uint64
	Requires  []txpool.Tag
	Provides  []txpool.Tag
	Priority  uint64
	Longevity uint64
	Propagate bool
	Invalid   bool // forces Validate to report ValidityInvalid
}

// Encode renders the extrinsic's nonce into an opaque byte payload.
func (e Extrinsic) Encode() []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, e.Nonce)
	return buf
}

// ChainApi is an in-memory txpool.ChainApi double over a single linear
// chain of blocks, identified by hash == BytesToHash(number), matching
// changes/changestest's convention.
type ChainApi struct {
	mu     sync.RWMutex
	blocks map[common.Hash]common.BlockNumber
	byData map[string]Extrinsic // encoded extrinsic -> its declared validity
}

// NewChainApi returns a ChainApi with block 0 already registered.
func NewChainApi() *ChainApi {
	c := &ChainApi{blocks: make(map[common.Hash]common.BlockNumber), byData: make(map[string]Extrinsic)}
	c.SetBlock(0)
	return c
}

// BlockHash returns the synthetic hash standing in for block number n.
func BlockHash(n common.BlockNumber) common.Hash {
	var h common.Hash
	copy(h[24:], n.Encode())
	return h
}

// SetBlock registers block n so BlockIdToNumber/BlockIdToHash resolve it.
func (c *ChainApi) SetBlock(n common.BlockNumber) common.Hash {
	c.mu.Lock()
	defer c.mu.Unlock()
	h := BlockHash(n)
	c.blocks[h] = n
	return h
}

// Declare registers xt's validity outcome ahead of submission, keyed by
// its encoded bytes.
func (c *ChainApi) Declare(xt Extrinsic) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.byData[string(xt.Encode())] = xt
}

func (c *ChainApi) Validate(at common.Hash, data []byte) (txpool.Validity, error) {
	c.mu.RLock()
	xt, ok := c.byData[string(data)]
	c.mu.RUnlock()
	if !ok {
		return txpool.Validity{}, fmt.Errorf("txpooltest: undeclared extrinsic %x", data)
	}
	if xt.Invalid {
		return txpool.Validity{Kind: txpool.ValidityInvalid, Code: 1}, nil
	}
	return txpool.Validity{
		Kind:      txpool.ValidityValid,
		Priority:  xt.Priority,
		Requires:  xt.Requires,
		Provides:  xt.Provides,
		Longevity: xt.Longevity,
		Propagate: xt.Propagate,
	}, nil
}

func (c *ChainApi) BlockIdToNumber(at common.Hash) (common.BlockNumber, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	n, ok := c.blocks[at]
	return n, ok
}

func (c *ChainApi) BlockIdToHash(at common.Hash) (common.Hash, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.blocks[at]
	if !ok {
		return common.Hash{}, false
	}
	return at, true
}

func (c *ChainApi) HashAndLength(xt []byte) (common.Hash, int) {
	return common.Hash(sha3.Sum256(xt)), len(xt)
}
