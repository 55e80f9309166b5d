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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gosubstrate/statemachine/changes/changestest"
	"github.com/gosubstrate/statemachine/common"
	"github.com/gosubstrate/statemachine/config"
	"github.com/gosubstrate/statemachine/trie"
)

func baseDigestConfig() config.DigestOptions {
	return config.DigestOptions{Interval: 4, Levels: 2}
}

func findPair(t *testing.T, pairs []InputPair, tag Tag, key []byte) InputPair {
	t.Helper()
	for _, p := range pairs {
		if p.Key.Tag == tag && string(p.Key.Key) == string(key) {
			return p
		}
	}
	t.Fatalf("no %v record for key %x among %d pairs", tag, key, len(pairs))
	return InputPair{}
}

// S1: non-digest block (spec.md §8 scenario S1).
func TestS1NonDigestBlock(t *testing.T) {
	backend := changestest.NewBackend()
	backend.SetStorage(string([]byte{0x67}), []byte{0xAA}) // existed before the block

	overlay := NewOverlayedChanges()
	overlay.Set([]byte{0x64}, []byte{0xC8}, 0)
	overlay.Set([]byte{0x64}, []byte{0xC8}, 2)
	overlay.Set([]byte{0x64}, []byte{0xCA}, 3)
	overlay.Set([]byte{0x65}, []byte{0xCB}, 1)
	overlay.Set([]byte{0x67}, nil, 0)
	overlay.Set([]byte{0x67}, nil, 1)

	rng := config.ConfigurationRange{Digest: baseDigestConfig(), Zero: 0}
	roots := changestest.NewRootsStorage()
	storage := changestest.NewStorage(trie.NewMemoryDB())
	parent := common.AnchorBlockId{Hash: changestest.BlockHash(4), Number: 4}

	input, err := PrepareInput(backend, storage, roots, rng, overlay, parent)
	require.NoError(t, err)
	require.Len(t, input.Top, 3)

	assert.Equal(t, []uint32{0, 2, 3}, findPair(t, input.Top, TagExtrinsicIndex, []byte{0x64}).Extrinsics)
	assert.Equal(t, []uint32{1}, findPair(t, input.Top, TagExtrinsicIndex, []byte{0x65}).Extrinsics)
	assert.Equal(t, []uint32{0, 1}, findPair(t, input.Top, TagExtrinsicIndex, []byte{0x67}).Extrinsics)
}

// S1 invariant: a deleted key absent from the backend is dropped entirely
// (spec.md §8 invariant 5, the temporary-value filter).
func TestTemporaryValueFilterDropsNeverExistedKey(t *testing.T) {
	backend := changestest.NewBackend() // 0x99 never existed

	overlay := NewOverlayedChanges()
	overlay.Set([]byte{0x99}, nil, 0)

	rng := config.ConfigurationRange{Digest: baseDigestConfig(), Zero: 0}
	roots := changestest.NewRootsStorage()
	storage := changestest.NewStorage(trie.NewMemoryDB())
	parent := common.AnchorBlockId{Hash: changestest.BlockHash(4), Number: 4}

	input, err := PrepareInput(backend, storage, roots, rng, overlay, parent)
	require.NoError(t, err)
	assert.Empty(t, input.Top)
}

// S2: L1 digest block (spec.md §8 scenario S2).
func TestS2L1DigestBlock(t *testing.T) {
	backend := changestest.NewBackend()
	backend.SetStorage(string([]byte{0x67}), []byte{0xAA})

	db := trie.NewMemoryDB()
	storage := changestest.NewStorage(db)
	roots := changestest.NewRootsStorage()
	history := config.History{{Digest: baseDigestConfig(), Zero: 0}}

	buildBlock := func(n common.BlockNumber, overlay *OverlayedChanges) {
		parent := common.AnchorBlockId{Hash: changestest.BlockHash(n - 1), Number: n - 1}
		built, err := BuildChangesTrie(backend, storage, roots, history, overlay, parent, db)
		require.NoError(t, err)
		roots.SetRoot(n, built.Root)
	}

	ov1 := NewOverlayedChanges()
	ov1.Set([]byte{0x64}, []byte{1}, 0)
	ov1.Set([]byte{0x65}, []byte{1}, 0)
	ov1.Set([]byte{0x69}, []byte{1}, 0)
	buildBlock(1, ov1)

	ov2 := NewOverlayedChanges()
	ov2.Set([]byte{0x66}, []byte{1}, 0)
	buildBlock(2, ov2)

	ov3 := NewOverlayedChanges()
	ov3.Set([]byte{0x64}, []byte{1}, 0)
	ov3.Set([]byte{0x69}, []byte{1}, 0)
	buildBlock(3, ov3)

	ov4 := NewOverlayedChanges()
	ov4.Set([]byte{0x64}, []byte{0xC8}, 0)
	ov4.Set([]byte{0x64}, []byte{0xC8}, 2)
	ov4.Set([]byte{0x64}, []byte{0xCA}, 3)
	ov4.Set([]byte{0x65}, []byte{0xCB}, 1)
	ov4.Set([]byte{0x67}, nil, 0)
	ov4.Set([]byte{0x67}, nil, 1)

	rng := config.ConfigurationRange{Digest: baseDigestConfig(), Zero: 0}
	parent4 := common.AnchorBlockId{Hash: changestest.BlockHash(3), Number: 3}
	input, err := PrepareInput(backend, storage, roots, rng, ov4, parent4)
	require.NoError(t, err)

	assert.Equal(t, []uint32{0, 2, 3}, findPair(t, input.Top, TagExtrinsicIndex, []byte{0x64}).Extrinsics)
	assert.Equal(t, []uint32{1}, findPair(t, input.Top, TagExtrinsicIndex, []byte{0x65}).Extrinsics)
	assert.Equal(t, []uint32{0, 1}, findPair(t, input.Top, TagExtrinsicIndex, []byte{0x67}).Extrinsics)

	assert.Equal(t, []common.BlockNumber{1, 3}, findPair(t, input.Top, TagDigestIndex, []byte{0x64}).DigestBlocks)
	assert.Equal(t, []common.BlockNumber{1}, findPair(t, input.Top, TagDigestIndex, []byte{0x65}).DigestBlocks)
	assert.Equal(t, []common.BlockNumber{2}, findPair(t, input.Top, TagDigestIndex, []byte{0x66}).DigestBlocks)
	assert.Equal(t, []common.BlockNumber{1, 3}, findPair(t, input.Top, TagDigestIndex, []byte{0x69}).DigestBlocks)
}

// S3's distinguishing claim is that an L2 digest folds the L1-digest
// ancestor blocks themselves (4, 8, 12), not the 15 raw blocks beneath
// them - exercised directly at the BuildIterator level (spec.md §8
// scenario S3 / invariant 6).
func TestS3L2DigestAncestors(t *testing.T) {
	rng := config.ConfigurationRange{Digest: baseDigestConfig(), Zero: 0}
	ancestors, level := BuildIterator(rng, 16)
	require.Equal(t, digestLevel(2), level)
	assert.Equal(t, []common.BlockNumber{4, 8, 12}, ancestors)
}

func TestDigestBuildIteratorAscending(t *testing.T) {
	rng := config.ConfigurationRange{Digest: baseDigestConfig(), Zero: 0}
	ancestors, level := BuildIterator(rng, 4)
	require.Equal(t, digestLevel(1), level)
	assert.Equal(t, []common.BlockNumber{1, 2, 3}, ancestors)
	for i := 1; i < len(ancestors); i++ {
		assert.Less(t, ancestors[i-1], ancestors[i])
	}
}

// S4: skewed digest. With end unset at block 11, block 11 isn't a digest
// block (11 mod 4 != 0): only extrinsics are emitted. With end=11, the
// configuration deactivates at the current block and the skewed rule
// fires, building the digest early for block_for_digest=12 (the next L1
// boundary) instead.
//
// The simplification recorded in DESIGN.md: this builds a standard
// single-level digest at block_for_digest's own natural level (here L1,
// ancestors 9-11) rather than replicating the original's further
// multi-level fallback for a skew that straddles more than one digest
// level - spec.md's own S4 prose is ambiguous about exact coverage in
// that deeper case, and no test in §8 pins it down precisely.
func TestS4SkewedDigestWithoutEnd(t *testing.T) {
	rng := config.ConfigurationRange{Digest: baseDigestConfig(), Zero: 0}
	ancestors, level := BuildIterator(rng, 11)
	assert.Equal(t, digestLevel(0), level)
	assert.Nil(t, ancestors)
}

func TestS4SkewedDigestWithEnd(t *testing.T) {
	end := common.BlockNumber(11)
	rng := config.ConfigurationRange{Digest: baseDigestConfig(), Zero: 0, End: &end}

	target, skewed := skewedBlockForDigest(rng, 11)
	require.True(t, skewed)
	assert.Equal(t, common.BlockNumber(12), target)

	ancestors, level := BuildIterator(rng, target)
	require.Equal(t, digestLevel(1), level)
	assert.Equal(t, []common.BlockNumber{9, 10, 11}, ancestors)
}

// Invariant 4: round-trip encode/decode is the identity on InputKey.
func TestInputKeyRoundTrip(t *testing.T) {
	cases := []InputKey{
		{Tag: TagExtrinsicIndex, Block: 5, Key: []byte{0x64}},
		{Tag: TagDigestIndex, Block: 16, Key: []byte("a long storage key with spaces")},
		{Tag: TagChildIndex, Block: 1, Key: []byte{}},
	}
	for _, k := range cases {
		got, err := DecodeInputKey(EncodeInputKey(k))
		require.NoError(t, err)
		assert.Equal(t, k.Tag, got.Tag)
		assert.Equal(t, k.Block, got.Block)
		assert.Equal(t, k.Key, got.Key)
	}
}

func TestKeyNeutralPrefixMatchesEncodedKeyHeader(t *testing.T) {
	k := InputKey{Tag: TagDigestIndex, Block: 42, Key: []byte("storage-key")}
	full := EncodeInputKey(k)
	prefix := KeyNeutralPrefix(k.Tag, k.Block)
	assert.Equal(t, prefix, full[:len(prefix)])
}
