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

package changesdb_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gosubstrate/statemachine/changes/changesdb"
	"github.com/gosubstrate/statemachine/common"
)

func openTestDB(t *testing.T) *changesdb.DB {
	t.Helper()
	db, err := changesdb.Open(filepath.Join(t.TempDir(), "changesdb"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestNodeRoundTrip(t *testing.T) {
	db := openTestDB(t)

	hash := common.Hash{1, 2, 3}
	blob := []byte("a trie node's rlp-encoded body")

	_, ok := db.Get(hash)
	require.False(t, ok)

	db.Put(hash, blob)

	got, ok := db.Get(hash)
	require.True(t, ok)
	require.Equal(t, blob, got)
}

func TestRootRoundTrip(t *testing.T) {
	db := openTestDB(t)

	blockHash := common.Hash{9}
	root := common.Hash{5, 5, 5}
	require.NoError(t, db.SetRoot(4, blockHash, root))

	anchor, err := db.BuildAnchor(blockHash)
	require.NoError(t, err)
	require.Equal(t, common.BlockNumber(4), anchor.Number)

	got, ok, err := db.Root(anchor, 4)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, root, got)

	_, ok, err = db.Root(anchor, 5)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestBuildAnchorUnknownHash(t *testing.T) {
	db := openTestDB(t)
	_, err := db.BuildAnchor(common.Hash{0xff})
	require.Error(t, err)
}

func TestStorageAdapterIgnoresRoot(t *testing.T) {
	db := openTestDB(t)
	storage := changesdb.NewStorage(db)

	key := common.Hash{7}
	db.Put(key, []byte("node"))

	got, ok := storage.Get(common.Hash{0xaa}, key)
	require.True(t, ok)
	require.Equal(t, []byte("node"), got)
}
