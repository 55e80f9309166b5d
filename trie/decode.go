// Copyright 2014 The go-ethereum Authors
// This file is part of go-ethereum.
//
// go-ethereum is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// go-ethereum is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with go-ethereum.  If not, see <http://www.gnu.org/licenses/>.

package trie

import (
	"fmt"

	"github.com/gosubstrate/statemachine/common"
	"github.com/gosubstrate/statemachine/rlp"
)

// decodeNode is the inverse of encodeNode: it reconstructs a shortNode or
// fullNode from its RLP preimage, as read back out of a Database.
func decodeNode(blob []byte) (node, error) {
	items, err := rlp.SplitList(blob)
	if err != nil {
		return nil, fmt.Errorf("trie: decode node: %w", err)
	}
	switch len(items) {
	case 2:
		keyBytes, err := rlp.DecodeBytes(items[0])
		if err != nil {
			return nil, fmt.Errorf("trie: decode shortNode key: %w", err)
		}
		key := compactToHex(keyBytes)
		var val node
		if hasTerm(key) {
			val, err = decodeValueRef(items[1])
		} else {
			val, err = decodeBranchRef(items[1])
		}
		if err != nil {
			return nil, err
		}
		return &shortNode{Key: key, Val: val}, nil
	case 17:
		n := &fullNode{}
		for i := 0; i < 16; i++ {
			child, err := decodeBranchRef(items[i])
			if err != nil {
				return nil, err
			}
			n.Children[i] = child
		}
		val, err := decodeValueRef(items[16])
		if err != nil {
			return nil, err
		}
		n.Children[16] = val
		return n, nil
	default:
		return nil, fmt.Errorf("trie: decode node: unexpected item count %d", len(items))
	}
}

func decodeBranchRef(item []byte) (node, error) {
	b, err := rlp.DecodeBytes(item)
	if err != nil {
		return nil, fmt.Errorf("trie: decode branch ref: %w", err)
	}
	if len(b) == 0 {
		return nil, nil
	}
	if len(b) != common.HashLength {
		return nil, fmt.Errorf("trie: branch ref has invalid length %d", len(b))
	}
	return hashNode(common.BytesToHash(b)), nil
}

func decodeValueRef(item []byte) (node, error) {
	b, err := rlp.DecodeBytes(item)
	if err != nil {
		return nil, fmt.Errorf("trie: decode value ref: %w", err)
	}
	if len(b) == 0 {
		return nil, nil
	}
	return valueNode(common.CopyBytes(b)), nil
}
