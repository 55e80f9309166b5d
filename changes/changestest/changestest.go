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

// Package changestest provides in-memory Backend/Storage/RootsStorage test
// doubles for changes package tests, mirroring the teacher's
// core/rawdb.NewMemoryDatabase() idiom.
package changestest

import (
	"fmt"
	"sync"

	"github.com/gosubstrate/statemachine/common"
	"github.com/gosubstrate/statemachine/trie"
)

// Backend is an in-memory changes.Backend double seeded with whatever
// storage existed immediately before the block under construction.
type Backend struct {
	mu    sync.RWMutex
	top   map[string][]byte
	child map[string]map[string][]byte
}

// NewBackend returns an empty Backend.
func NewBackend() *Backend {
	return &Backend{top: make(map[string][]byte), child: make(map[string]map[string][]byte)}
}

// SetStorage seeds a pre-block top-level key, so the temporary-value
// filter (spec.md §4.1.1 step 2) can tell a real deletion from a
// transient write.
func (b *Backend) SetStorage(key string, value []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.top[key] = value
}

// SetChildStorage is SetStorage's child-trie counterpart.
func (b *Backend) SetChildStorage(storageKey, key string, value []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	m, ok := b.child[storageKey]
	if !ok {
		m = make(map[string][]byte)
		b.child[storageKey] = m
	}
	m[key] = value
}

func (b *Backend) Storage(key []byte) ([]byte, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	v, ok := b.top[string(key)]
	return v, ok
}

func (b *Backend) ChildStorage(storageKey string, key []byte) ([]byte, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	v, ok := b.child[storageKey][string(key)]
	return v, ok
}

func (b *Backend) ExistsStorage(key []byte) bool {
	_, ok := b.Storage(key)
	return ok
}

func (b *Backend) ExistsChildStorage(storageKey string, key []byte) bool {
	_, ok := b.ChildStorage(storageKey, key)
	return ok
}

// RootsStorage is an in-memory changes.RootsStorage double over a single
// linear chain of blocks, identified by hash == BytesToHash(number).
type RootsStorage struct {
	mu    sync.RWMutex
	roots map[common.BlockNumber]common.Hash
}

// NewRootsStorage returns an empty RootsStorage.
func NewRootsStorage() *RootsStorage {
	return &RootsStorage{roots: make(map[common.BlockNumber]common.Hash)}
}

// BlockHash returns the synthetic hash standing in for block number n.
func BlockHash(n common.BlockNumber) common.Hash {
	var h common.Hash
	copy(h[24:], n.Encode())
	return h
}

// SetRoot records block n's changes-trie root.
func (r *RootsStorage) SetRoot(n common.BlockNumber, root common.Hash) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.roots[n] = root
}

func (r *RootsStorage) BuildAnchor(hash common.Hash) (common.AnchorBlockId, error) {
	n, err := common.DecodeBlockNumber(hash[24:])
	if err != nil {
		return common.AnchorBlockId{}, err
	}
	return common.AnchorBlockId{Hash: hash, Number: n}, nil
}

func (r *RootsStorage) Root(_ common.AnchorBlockId, block common.BlockNumber) (common.Hash, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	root, ok := r.roots[block]
	return root, ok, nil
}

// Storage is an in-memory changes.Storage double: every committed
// historical changes trie's nodes are merged into one content-addressed
// store, so Get ignores which root it was asked about.
type Storage struct {
	db *trie.MemoryDB
}

// NewStorage returns a Storage backed by db - typically the same
// *trie.MemoryDB every changes.BuildChangesTrie call in a test writes
// into, so later blocks can resolve earlier blocks' nodes.
func NewStorage(db *trie.MemoryDB) *Storage {
	return &Storage{db: db}
}

func (s *Storage) Get(_ common.Hash, key common.Hash) ([]byte, bool) {
	return s.db.Get(key)
}

// Err is a sentinel used by tests that need a failing collaborator.
var Err = fmt.Errorf("changestest: simulated failure")
