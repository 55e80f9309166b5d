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
	"golang.org/x/crypto/sha3"

	"github.com/gosubstrate/statemachine/common"
	"github.com/gosubstrate/statemachine/rlp"
)

// node is one of fullNode, shortNode, hashNode or valueNode. Every node
// kept in memory below the root is either fully resolved (fullNode,
// shortNode, valueNode) or a hashNode placeholder pointing at a child that
// lives only in the backing Database, exactly as a production
// Merkle-Patricia trie keeps working memory bounded for large tries.
type node interface {
	fstring(ind string) string
}

type (
	// fullNode is a 16-way branch plus one value slot (index 16) for a key
	// that terminates exactly at this branch.
	fullNode struct {
		Children [17]node
	}

	// shortNode collapses a chain of single-child fullNodes into one
	// nibble-path edge, the way every production Patricia trie does to
	// keep sparse key spaces compact.
	shortNode struct {
		Key []byte // hex-encoded nibbles, possibly terminated
		Val node
	}

	// hashNode is an unresolved reference to a node stored in the backing
	// Database, keyed by its content hash.
	hashNode common.Hash

	// valueNode is a trie leaf's stored value.
	valueNode []byte
)

func (n *fullNode) fstring(ind string) string  { return "fullNode" }
func (n *shortNode) fstring(ind string) string { return "shortNode" }
func (n hashNode) fstring(ind string) string   { return "hashNode" }
func (n valueNode) fstring(ind string) string   { return "valueNode" }

func (n *fullNode) copy() *fullNode {
	cp := *n
	return &cp
}

// hashNodeOf returns keccak256(rlp(n)) without mutating n's children.
func hashNodeOf(n node) common.Hash {
	return common.BytesToHash(keccak256(encodeNode(n)))
}

func keccak256(data []byte) []byte {
	h := sha3.NewLegacyKeccak256()
	h.Write(data)
	return h.Sum(nil)
}

// encodeNode produces the RLP preimage hashed to address n in the backing
// Database. This is the byte-for-byte contract every independent trie
// implementation must agree on to reach the same root.
func encodeNode(n node) []byte {
	switch n := n.(type) {
	case *fullNode:
		items := make([][]byte, 17)
		for i, child := range n.Children {
			items[i] = encodeChildRef(child)
		}
		return rlp.List(items...)
	case *shortNode:
		return rlp.List(rlp.EncodeBytes(hexToCompact(n.Key)), encodeChildRef(n.Val))
	case valueNode:
		return rlp.EncodeBytes(n)
	case hashNode:
		return rlp.EncodeBytes(n[:])
	case nil:
		return rlp.EncodeBytes(nil)
	default:
		panic("trie: encodeNode called on unresolved node")
	}
}

func encodeChildRef(n node) []byte {
	switch n := n.(type) {
	case nil:
		return rlp.EncodeBytes(nil)
	case valueNode:
		return rlp.EncodeBytes(n)
	case hashNode:
		return rlp.EncodeBytes(n[:])
	default:
		// An in-memory, not-yet-committed node: reference it by its own
		// hash, computed on demand. Commit always hashes bottom-up so by
		// the time a parent is committed every child already has a
		// stable hash in the Database.
		h := hashNodeOf(n)
		return rlp.EncodeBytes(h[:])
	}
}
