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
	"sync"

	"github.com/gosubstrate/statemachine/common"
)

// Database is the key/value store backing a Trie: every non-leaf node
// reachable from a committed root is addressed by its content hash. The
// builder's RootsStorage.Get(trie_node_hash, prefix) (spec.md §6) is
// implemented in terms of one of these per historical root.
type Database interface {
	Get(hash common.Hash) ([]byte, bool)
	Put(hash common.Hash, blob []byte)
}

// MemoryDB is the in-memory "memory_db" spec.md §2.5 names as the
// Materializer's output alongside the root hash.
type MemoryDB struct {
	mu   sync.RWMutex
	data map[common.Hash][]byte
}

// NewMemoryDB returns an empty MemoryDB.
func NewMemoryDB() *MemoryDB {
	return &MemoryDB{data: make(map[common.Hash][]byte)}
}

func (db *MemoryDB) Get(hash common.Hash) ([]byte, bool) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	v, ok := db.data[hash]
	return v, ok
}

func (db *MemoryDB) Put(hash common.Hash, blob []byte) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.data[hash] = common.CopyBytes(blob)
}

// Len returns the number of stored nodes, mainly for tests.
func (db *MemoryDB) Len() int {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return len(db.data)
}
