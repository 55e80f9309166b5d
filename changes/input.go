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
	"encoding/binary"
	"fmt"
	"sort"

	"github.com/gosubstrate/statemachine/common"
)

// Tag identifies one of the three InputPair record families (spec.md §3).
type Tag byte

const (
	TagExtrinsicIndex Tag = 1
	TagDigestIndex    Tag = 2
	TagChildIndex     Tag = 3
)

func (t Tag) String() string {
	switch t {
	case TagExtrinsicIndex:
		return "ExtrinsicIndex"
	case TagDigestIndex:
		return "DigestIndex"
	case TagChildIndex:
		return "ChildIndex"
	default:
		return fmt.Sprintf("Tag(%d)", byte(t))
	}
}

// InputKey is the (tag, block, key) triple addressing one InputPair. It is
// exactly what gets stored as the changes trie's node key (spec.md §3's
// "key_neutral_prefix(block) = tag || encode(block)", extended with the
// record's own key so the whole triple round-trips - spec.md §8 invariant
// 4).
type InputKey struct {
	Tag   Tag
	Block common.BlockNumber
	Key   []byte // the storage key (ExtrinsicIndex/DigestIndex) or child storage_key (ChildIndex)
}

// EncodeInputKey is the canonical trie-key encoding: tag byte, then the
// block number's fixed-width encoding, then the key verbatim. No length
// prefix is needed on Key because the trie already delimits a key's total
// length; DecodeInputKey only needs to know where the fixed-width header
// ends.
func EncodeInputKey(k InputKey) []byte {
	buf := make([]byte, 0, 1+8+len(k.Key))
	buf = append(buf, byte(k.Tag))
	buf = append(buf, k.Block.Encode()...)
	buf = append(buf, k.Key...)
	return buf
}

// DecodeInputKey is the exact inverse of EncodeInputKey (spec.md §8
// invariant 4).
func DecodeInputKey(raw []byte) (InputKey, error) {
	if len(raw) < 9 {
		return InputKey{}, fmt.Errorf("changes: input key too short: %d bytes", len(raw))
	}
	block, err := common.DecodeBlockNumber(raw[1:9])
	if err != nil {
		return InputKey{}, err
	}
	key := make([]byte, len(raw)-9)
	copy(key, raw[9:])
	return InputKey{Tag: Tag(raw[0]), Block: block, Key: key}, nil
}

// KeyNeutralPrefix is tag || encode(block): every InputKey recorded for
// one family at one block shares this prefix, so a single trie prefix
// scan enumerates them all (spec.md §3).
func KeyNeutralPrefix(tag Tag, block common.BlockNumber) []byte {
	buf := make([]byte, 0, 9)
	buf = append(buf, byte(tag))
	buf = append(buf, block.Encode()...)
	return buf
}

// InputPair is one record to be inserted into the changes trie: a key
// (ExtrinsicIndex{block,key}, DigestIndex{block,key}, or
// ChildIndex{block,storage_key}) paired with its family-specific value.
type InputPair struct {
	Key InputKey

	// Extrinsics holds the ascending extrinsic-index list for
	// TagExtrinsicIndex records.
	Extrinsics []uint32

	// DigestBlocks holds the ascending ancestor-block list for
	// TagDigestIndex records.
	DigestBlocks []common.BlockNumber

	// ChildRoot holds the 32-byte child-trie root for TagChildIndex
	// records.
	ChildRoot common.Hash
}

// EncodeValue produces the trie value slot for p, per the family-specific
// layout spec.md §6 names: a 4-byte big-endian count followed by
// fixed-width entries (u32 or BlockNumber), or the bare 32-byte root for
// ChildIndex.
func (p InputPair) EncodeValue() []byte {
	switch p.Key.Tag {
	case TagExtrinsicIndex:
		return encodeUint32List(p.Extrinsics)
	case TagDigestIndex:
		return encodeBlockNumberList(p.DigestBlocks)
	case TagChildIndex:
		return append([]byte{}, p.ChildRoot[:]...)
	default:
		panic(fmt.Sprintf("changes: EncodeValue: unknown tag %v", p.Key.Tag))
	}
}

// DecodeInputPair reconstructs an InputPair from a trie (key, value) pair.
func DecodeInputPair(key, value []byte) (InputPair, error) {
	ik, err := DecodeInputKey(key)
	if err != nil {
		return InputPair{}, err
	}
	p := InputPair{Key: ik}
	switch ik.Tag {
	case TagExtrinsicIndex:
		list, err := decodeUint32List(value)
		if err != nil {
			return InputPair{}, err
		}
		p.Extrinsics = list
	case TagDigestIndex:
		list, err := decodeBlockNumberList(value)
		if err != nil {
			return InputPair{}, err
		}
		p.DigestBlocks = list
	case TagChildIndex:
		if len(value) != common.HashLength {
			return InputPair{}, fmt.Errorf("changes: ChildIndex value has invalid length %d", len(value))
		}
		p.ChildRoot = common.BytesToHash(value)
	default:
		return InputPair{}, fmt.Errorf("changes: unknown input key tag %d", ik.Tag)
	}
	return p, nil
}

func encodeUint32List(list []uint32) []byte {
	buf := make([]byte, 4+4*len(list))
	binary.BigEndian.PutUint32(buf[0:4], uint32(len(list)))
	for i, v := range list {
		binary.BigEndian.PutUint32(buf[4+4*i:8+4*i], v)
	}
	return buf
}

func decodeUint32List(b []byte) ([]uint32, error) {
	if len(b) < 4 {
		return nil, fmt.Errorf("changes: u32 list too short")
	}
	n := binary.BigEndian.Uint32(b[0:4])
	want := 4 + 4*int(n)
	if len(b) != want {
		return nil, fmt.Errorf("changes: u32 list length mismatch: want %d got %d", want, len(b))
	}
	out := make([]uint32, n)
	for i := range out {
		out[i] = binary.BigEndian.Uint32(b[4+4*i : 8+4*i])
	}
	return out, nil
}

func encodeBlockNumberList(list []common.BlockNumber) []byte {
	buf := make([]byte, 4+8*len(list))
	binary.BigEndian.PutUint32(buf[0:4], uint32(len(list)))
	for i, v := range list {
		copy(buf[4+8*i:12+8*i], v.Encode())
	}
	return buf
}

func decodeBlockNumberList(b []byte) ([]common.BlockNumber, error) {
	if len(b) < 4 {
		return nil, fmt.Errorf("changes: block number list too short")
	}
	n := binary.BigEndian.Uint32(b[0:4])
	want := 4 + 8*int(n)
	if len(b) != want {
		return nil, fmt.Errorf("changes: block number list length mismatch: want %d got %d", want, len(b))
	}
	out := make([]common.BlockNumber, n)
	for i := range out {
		v, err := common.DecodeBlockNumber(b[4+8*i : 12+8*i])
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// sortUint32 sorts and dedups a u32 slice in place, returning the result.
func sortUint32(s []uint32) []uint32 {
	sort.Slice(s, func(i, j int) bool { return s[i] < s[j] })
	return dedupUint32(s)
}

func dedupUint32(s []uint32) []uint32 {
	if len(s) == 0 {
		return s
	}
	out := s[:1]
	for _, v := range s[1:] {
		if v != out[len(out)-1] {
			out = append(out, v)
		}
	}
	return out
}

// appendBlockIfNew appends b to list unless it already equals the last
// element - spec.md §4.1.2 step 3: "avoiding duplicates ... the tail-dedup
// is sufficient" because digest_build_iterator yields ascending blocks.
func appendBlockIfNew(list []common.BlockNumber, b common.BlockNumber) []common.BlockNumber {
	if len(list) > 0 && list[len(list)-1] == b {
		return list
	}
	return append(list, b)
}
