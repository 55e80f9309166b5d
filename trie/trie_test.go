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
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gosubstrate/statemachine/common"
)

func TestEmptyTrie(t *testing.T) {
	tr := New(common.Hash{}, NewMemoryDB())
	assert.Equal(t, EmptyRoot, tr.Hash())

	_, found, err := tr.Get([]byte("missing"))
	require.NoError(t, err)
	assert.False(t, found)
}

func TestUpdateGet(t *testing.T) {
	tr := New(common.Hash{}, NewMemoryDB())
	entries := map[string]string{
		"doe":    "reindeer",
		"dog":    "puppy",
		"dogglesworth": "cat",
	}
	for k, v := range entries {
		require.NoError(t, tr.Update([]byte(k), []byte(v)))
	}
	for k, v := range entries {
		got, found, err := tr.Get([]byte(k))
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, v, string(got))
	}
	_, found, err := tr.Get([]byte("nope"))
	require.NoError(t, err)
	assert.False(t, found)
}

func TestUpdateOverwrite(t *testing.T) {
	tr := New(common.Hash{}, NewMemoryDB())
	require.NoError(t, tr.Update([]byte("key"), []byte("first")))
	require.NoError(t, tr.Update([]byte("key"), []byte("second")))

	got, found, err := tr.Get([]byte("key"))
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "second", string(got))
}

func TestDelete(t *testing.T) {
	tr := New(common.Hash{}, NewMemoryDB())
	require.NoError(t, tr.Update([]byte("doe"), []byte("reindeer")))
	require.NoError(t, tr.Update([]byte("dog"), []byte("puppy")))
	require.NoError(t, tr.Update([]byte("dogglesworth"), []byte("cat")))

	require.NoError(t, tr.Delete([]byte("dog")))

	_, found, err := tr.Get([]byte("dog"))
	require.NoError(t, err)
	assert.False(t, found)

	got, found, err := tr.Get([]byte("doe"))
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "reindeer", string(got))

	got, found, err = tr.Get([]byte("dogglesworth"))
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "cat", string(got))
}

func TestDeleteAbsentKeyIsNoop(t *testing.T) {
	tr := New(common.Hash{}, NewMemoryDB())
	require.NoError(t, tr.Update([]byte("key"), []byte("value")))
	require.NoError(t, tr.Delete([]byte("other")))

	got, found, err := tr.Get([]byte("key"))
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "value", string(got))
}

func TestDeleteEverythingEmptiesRoot(t *testing.T) {
	tr := New(common.Hash{}, NewMemoryDB())
	require.NoError(t, tr.Update([]byte("a"), []byte("1")))
	require.NoError(t, tr.Update([]byte("b"), []byte("2")))
	require.NoError(t, tr.Delete([]byte("a")))
	require.NoError(t, tr.Delete([]byte("b")))

	assert.Equal(t, EmptyRoot, tr.Hash())
}

func TestCommitThenReopen(t *testing.T) {
	db := NewMemoryDB()
	tr := New(common.Hash{}, db)
	require.NoError(t, tr.Update([]byte("doe"), []byte("reindeer")))
	require.NoError(t, tr.Update([]byte("dog"), []byte("puppy")))
	require.NoError(t, tr.Update([]byte("dogglesworth"), []byte("cat")))

	root, err := tr.Commit()
	require.NoError(t, err)
	require.NotEqual(t, EmptyRoot, root)

	reopened := New(root, db)
	got, found, err := reopened.Get([]byte("dogglesworth"))
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "cat", string(got))
}

func TestCommitIsDeterministic(t *testing.T) {
	build := func() common.Hash {
		tr := New(common.Hash{}, NewMemoryDB())
		require.NoError(t, tr.Update([]byte("alpha"), []byte("1")))
		require.NoError(t, tr.Update([]byte("alphabet"), []byte("2")))
		require.NoError(t, tr.Update([]byte("beta"), []byte("3")))
		root, err := tr.Commit()
		require.NoError(t, err)
		return root
	}
	assert.Equal(t, build(), build())
}

func TestCommitMissingNode(t *testing.T) {
	db := NewMemoryDB()
	tr := New(common.Hash{}, db)
	require.NoError(t, tr.Update([]byte("key"), []byte("value")))
	root, err := tr.Commit()
	require.NoError(t, err)

	empty := NewMemoryDB()
	broken := New(root, empty)
	_, _, err = broken.Get([]byte("key"))
	assert.ErrorIs(t, err, ErrMissingNode)
}

func TestForEachWithPrefix(t *testing.T) {
	db := NewMemoryDB()
	tr := New(common.Hash{}, db)
	entries := map[string]string{
		"child:storage:1:key1": "a",
		"child:storage:1:key2": "b",
		"child:storage:2:key1": "c",
		"extrinsic:1":          "d",
		"digest:1":             "e",
	}
	for k, v := range entries {
		require.NoError(t, tr.Update([]byte(k), []byte(v)))
	}
	_, err := tr.Commit()
	require.NoError(t, err)

	var gotKeys []string
	require.NoError(t, tr.ForEachWithPrefix([]byte("child:storage:1:"), func(key, value []byte) error {
		gotKeys = append(gotKeys, string(key))
		return nil
	}))
	sort.Strings(gotKeys)
	assert.Equal(t, []string{"child:storage:1:key1", "child:storage:1:key2"}, gotKeys)
}

func TestForEachWithPrefixNoMatches(t *testing.T) {
	tr := New(common.Hash{}, NewMemoryDB())
	require.NoError(t, tr.Update([]byte("dog"), []byte("puppy")))

	var n int
	require.NoError(t, tr.ForEachWithPrefix([]byte("cat"), func(key, value []byte) error {
		n++
		return nil
	}))
	assert.Equal(t, 0, n)
}

func TestForEachWithPrefixEmptyPrefixVisitsAll(t *testing.T) {
	tr := New(common.Hash{}, NewMemoryDB())
	keys := []string{"a", "ab", "abc", "b"}
	for _, k := range keys {
		require.NoError(t, tr.Update([]byte(k), []byte(k)))
	}

	var got []string
	require.NoError(t, tr.ForEachWithPrefix(nil, func(key, value []byte) error {
		got = append(got, string(key))
		return nil
	}))
	sort.Strings(got)
	assert.Equal(t, keys, got)
}

func TestHexCompactRoundTrip(t *testing.T) {
	cases := [][]byte{
		{},
		{16},
		{1, 2, 3, 4, 16},
		{0, 1, 2, 3, 4, 16},
		{15, 1, 12, 11, 8, 16},
	}
	for _, hex := range cases {
		compact := hexToCompact(hex)
		assert.Equal(t, hex, compactToHex(compact))
	}
}
