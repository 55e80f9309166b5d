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

// Package changesdb is an on-disk changes.Storage/RootsStorage/trie.Database
// implementation over github.com/syndtr/goleveldb, mirroring the teacher's
// ethdb LevelDB backend: one flat keyspace, namespaced by a one-byte
// prefix per logical table, with node blobs snappy-compressed before
// they hit the disk.
package changesdb

import (
	"fmt"

	"github.com/golang/snappy"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"

	"github.com/gosubstrate/statemachine/common"
)

// Keyspace prefixes, matching the teacher's convention of namespacing a
// single flat LevelDB table by a short fixed prefix per logical table.
const (
	prefixNode = 'n' // trie node hash -> snappy-compressed node blob
	prefixRoot = 'r' // block number (big-endian uint64) -> changes-trie root hash
	prefixHash = 'h' // block hash -> block number (big-endian uint64), for BuildAnchor
)

// DB is an on-disk changes.RootsStorage + trie.Database (and, through the
// Storage adapter below, a changes.Storage), all sharing one LevelDB handle the way the teacher's node shares a
// single ethdb.Database across its trie, chain and state tables.
type DB struct {
	ldb *leveldb.DB
}

// Open opens (creating if absent) the LevelDB database at path.
func Open(path string) (*DB, error) {
	ldb, err := leveldb.OpenFile(path, &opt.Options{})
	if err != nil {
		return nil, fmt.Errorf("changesdb: open %s: %w", path, err)
	}
	return &DB{ldb: ldb}, nil
}

// Close releases the underlying LevelDB handle.
func (db *DB) Close() error { return db.ldb.Close() }

// Get implements trie.Database: Get(hash) returns the node blob stored
// under hash, if any, transparently decompressing it.
func (db *DB) Get(hash common.Hash) ([]byte, bool) {
	key := append([]byte{prefixNode}, hash[:]...)
	compressed, err := db.ldb.Get(key, nil)
	if err != nil {
		return nil, false
	}
	blob, err := snappy.Decode(nil, compressed)
	if err != nil {
		return nil, false
	}
	return blob, true
}

// Put implements trie.Database: Put(hash, blob) stores blob, compressed,
// under hash. LevelDB write failures here are invariant violations per
// spec.md §4.1.3's failure model, so Put panics rather than swallowing
// the error the way trie.MemoryDB's in-memory Put cannot fail at all.
func (db *DB) Put(hash common.Hash, blob []byte) {
	key := append([]byte{prefixNode}, hash[:]...)
	compressed := snappy.Encode(nil, blob)
	if err := db.ldb.Put(key, compressed, nil); err != nil {
		panic("changesdb: put failed: " + err.Error())
	}
}

// GetForStorage is the changes.Storage read path the Storage adapter
// calls: the root argument is ignored,
// since every committed changes trie shares this one content-addressed
// node store - the same simplification changes/changestest.Storage makes.
func (db *DB) GetForStorage(_ common.Hash, key common.Hash) ([]byte, bool) {
	return db.Get(key)
}

// SetRoot records block n's changes-trie root and the block hash that
// anchors it, so a later BuildAnchor/Root pair can resolve it.
func (db *DB) SetRoot(n common.BlockNumber, hash common.Hash, root common.Hash) error {
	rootKey := append([]byte{prefixRoot}, n.Encode()...)
	if err := db.ldb.Put(rootKey, root[:], nil); err != nil {
		return fmt.Errorf("changesdb: set root: %w", err)
	}
	hashKey := append([]byte{prefixHash}, hash[:]...)
	if err := db.ldb.Put(hashKey, n.Encode(), nil); err != nil {
		return fmt.Errorf("changesdb: set root: %w", err)
	}
	return nil
}

// BuildAnchor implements changes.RootsStorage: it resolves hash to the
// block number it was anchored at via SetRoot.
func (db *DB) BuildAnchor(hash common.Hash) (common.AnchorBlockId, error) {
	hashKey := append([]byte{prefixHash}, hash[:]...)
	raw, err := db.ldb.Get(hashKey, nil)
	if err != nil {
		if err == leveldb.ErrNotFound {
			return common.AnchorBlockId{}, fmt.Errorf("changesdb: unknown block hash %s", hash)
		}
		return common.AnchorBlockId{}, fmt.Errorf("changesdb: build anchor: %w", err)
	}
	n, err := common.DecodeBlockNumber(raw)
	if err != nil {
		return common.AnchorBlockId{}, err
	}
	return common.AnchorBlockId{Hash: hash, Number: n}, nil
}

// Root implements changes.RootsStorage: it resolves block to the
// changes-trie root recorded for it by SetRoot, if any.
func (db *DB) Root(_ common.AnchorBlockId, block common.BlockNumber) (common.Hash, bool, error) {
	rootKey := append([]byte{prefixRoot}, block.Encode()...)
	raw, err := db.ldb.Get(rootKey, nil)
	if err != nil {
		if err == leveldb.ErrNotFound {
			return common.Hash{}, false, nil
		}
		return common.Hash{}, false, fmt.Errorf("changesdb: root: %w", err)
	}
	var h common.Hash
	copy(h[:], raw)
	return h, true, nil
}

// Storage adapts DB to the changes.Storage interface (whose Get takes a
// root-hash argument DB itself ignores).
type Storage struct{ db *DB }

// NewStorage returns a changes.Storage backed by db.
func NewStorage(db *DB) *Storage { return &Storage{db: db} }

func (s *Storage) Get(root common.Hash, key common.Hash) ([]byte, bool) {
	return s.db.GetForStorage(root, key)
}
