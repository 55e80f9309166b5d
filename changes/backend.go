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

import "github.com/gosubstrate/statemachine/common"

// Backend is the state storage the builder reads the pre-block value of a
// key from, to decide whether a deleted overlay entry is a transient
// write (spec.md §4.1.1 step 2) or a real deletion. Out of scope per
// spec.md §1 ("the underlying ... hash primitives (assumed available as
// a library)"); implementations are supplied by the host node.
type Backend interface {
	Storage(key []byte) ([]byte, bool)
	ChildStorage(storageKey string, key []byte) ([]byte, bool)
	ExistsStorage(key []byte) bool
	ExistsChildStorage(storageKey string, key []byte) bool
}

// Storage is the per-block historical changes-trie reader (spec.md §6):
// Get resolves one node of the trie rooted at rootHash, used while
// scanning an ancestor's digest/extrinsic records (spec.md §4.1.2 step 2).
type Storage interface {
	Get(rootHash common.Hash, key common.Hash) ([]byte, bool)
}

// RootsStorage resolves historical block numbers to their changes-trie
// root, anchored to a specific fork (spec.md §6).
type RootsStorage interface {
	BuildAnchor(hash common.Hash) (common.AnchorBlockId, error)
	Root(anchor common.AnchorBlockId, block common.BlockNumber) (common.Hash, bool, error)
}
