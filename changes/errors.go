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

// Package changes builds the per-block changes trie: a content-addressed
// index of which storage keys were touched, by which extrinsics, and -
// via hierarchical digests - across which prior blocks (spec.md §2.A).
package changes

import (
	"errors"
	"fmt"
)

// ErrNoChangesTrieConfig is returned by BuildChangesTrie when no digest
// configuration is active for the block being built - "no trie" in
// spec.md §4.1.3's final sentence is modeled as this sentinel rather than
// a zero Hash, so callers can't mistake "nothing changed" for "disabled".
var ErrNoChangesTrieConfig = errors.New("changes: no changes-trie configuration active")

// ErrMissingTrieRoot is MissingTrieRoot(block) from spec.md §7: fatal,
// propagates and aborts the block build.
type ErrMissingTrieRoot struct {
	Block uint64
}

func (e *ErrMissingTrieRoot) Error() string {
	return fmt.Sprintf("changes: no changes trie root for block %d", e.Block)
}

// StorageError wraps any failure reading the Backend/Storage/RootsStorage
// collaborators during a block build (spec.md §7): fatal, propagates.
type StorageError struct {
	Msg string
	Err error
}

func (e *StorageError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("changes: storage error: %s: %v", e.Msg, e.Err)
	}
	return fmt.Sprintf("changes: storage error: %s", e.Msg)
}

func (e *StorageError) Unwrap() error { return e.Err }

func storageErrorf(err error, format string, args ...interface{}) *StorageError {
	return &StorageError{Msg: fmt.Sprintf(format, args...), Err: err}
}
